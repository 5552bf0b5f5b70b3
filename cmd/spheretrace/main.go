// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

// Command spheretrace renders a generated sphere scene headlessly with a
// WGSL ray-tracing kernel and writes the converged image.
//
// Usage:
//
//	spheretrace -kernel spheretrace.wgsl -skybox sky.exr -frames 256 -out converged.exr -preview preview.png
//
// With -orbit the camera circles the scene by the given number of degrees
// per frame, which resets accumulation every frame.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mrjoshuak/go-openexr/exr"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/spheretrace"
	"github.com/gogpu/spheretrace/gpu"
	"github.com/gogpu/spheretrace/render"
)

type options struct {
	kernel       string
	skybox       string
	width        int
	height       int
	frames       int
	orbit        float64
	out          string
	preview      string
	previewScale float64
	verbose      bool
	cfg          spheretrace.Config
}

func parseFlags(args []string) (options, error) {
	def := spheretrace.DefaultConfig()
	o := options{cfg: def}

	fs := flag.NewFlagSet("spheretrace", flag.ContinueOnError)
	fs.StringVar(&o.kernel, "kernel", "", "WGSL ray-tracing kernel (required)")
	fs.StringVar(&o.skybox, "skybox", "", "OpenEXR environment image")
	fs.IntVar(&o.width, "width", 1280, "image width")
	fs.IntVar(&o.height, "height", 720, "image height")
	fs.IntVar(&o.frames, "frames", 64, "frames to accumulate")
	fs.Int64Var(&o.cfg.Seed, "seed", def.Seed, "scene seed")
	spheres := fs.Uint("spheres", uint(def.MaxSpheres), "sphere placement attempts")
	radiusMin := fs.Float64("radius-min", float64(def.RadiusMin), "minimum sphere radius")
	radiusMax := fs.Float64("radius-max", float64(def.RadiusMax), "maximum sphere radius")
	placement := fs.Float64("placement", float64(def.PlacementRadius), "placement disk radius")
	fs.Float64Var(&o.orbit, "orbit", 0, "camera orbit in degrees per frame")
	fs.StringVar(&o.out, "out", "converged.exr", "OpenEXR output file")
	fs.StringVar(&o.preview, "preview", "", "PNG preview output file")
	fs.Float64Var(&o.previewScale, "preview-scale", 1, "PNG preview scale factor")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.kernel == "" {
		return o, fmt.Errorf("-kernel is required")
	}
	if o.width <= 0 || o.height <= 0 {
		return o, fmt.Errorf("invalid size %dx%d", o.width, o.height)
	}
	if o.previewScale <= 0 {
		return o, fmt.Errorf("invalid preview scale %v", o.previewScale)
	}
	o.cfg.MaxSpheres = uint32(*spheres) //nolint:gosec // flag value, not range checked
	o.cfg.RadiusMin = float32(*radiusMin)
	o.cfg.RadiusMax = float32(*radiusMax)
	o.cfg.PlacementRadius = float32(*placement)
	return o, nil
}

func main() {
	o, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "spheretrace: %v\n", err)
		os.Exit(2)
	}

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	spheretrace.SetLogger(logger)

	if err := run(o); err != nil {
		logger.Error("spheretrace failed", "err", err)
		os.Exit(1)
	}
}

func run(o options) error {
	b, err := gpu.Open()
	if err != nil {
		return fmt.Errorf("open GPU: %w", err)
	}
	defer b.Close()

	k, err := gpu.LoadKernelFile(b, o.kernel)
	if err != nil {
		return err
	}
	defer k.Destroy()

	c, err := gpu.NewCompositor(b)
	if err != nil {
		return err
	}
	defer c.Destroy()

	t, err := spheretrace.New(b, k, c, o.cfg)
	if err != nil {
		return err
	}
	defer t.Close()

	if o.skybox != "" {
		sky, err := loadSkybox(b, o.skybox)
		if err != nil {
			return err
		}
		defer sky.Release()
		t.SetSkybox(sky)
	}

	if err := t.Enable(); err != nil {
		return err
	}

	cam := newOrbit(o.cfg.PlacementRadius)
	vp := render.Viewport{Width: o.width, Height: o.height}
	cam.place(t.Camera(), 0)
	start := time.Now()
	for i := 0; i < o.frames; i++ {
		if o.orbit != 0 {
			cam.place(t.Camera(), float32(o.orbit)*float32(i))
		}
		if _, err := t.Frame(vp, nil); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	elapsed := time.Since(start)

	host, err := b.Readback(t.Renderer().Converged())
	if err != nil {
		return err
	}
	if err := exr.EncodeFile(o.out, host.EXR()); err != nil {
		return fmt.Errorf("write %s: %w", o.out, err)
	}
	if o.preview != "" {
		if err := writePreview(o.preview, host, o.previewScale); err != nil {
			return err
		}
	}

	printSummary(o, t, b.AdapterName(), elapsed)
	return nil
}

// loadSkybox decodes an EXR file and uploads it to the device.
func loadSkybox(dev render.Device, path string) (render.Image, error) {
	img, err := exr.DecodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("read skybox: %w", err)
	}
	host := render.HostImageFromEXR(img)
	return dev.UploadImage("skybox", host.Width(), host.Height(), host.Pix())
}

func writePreview(path string, img *render.HostImage, scale float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, downscale(tonemap(img), scale)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func printSummary(o options, t *spheretrace.Tracer, adapter string, elapsed time.Duration) {
	st := t.Stats()
	p := message.NewPrinter(language.English)
	p.Printf("adapter:   %s\n", adapter)
	p.Printf("scene:     %d spheres (%d rejected, %d metal) from %d attempts\n",
		st.Accepted, st.Rejected, st.Metal, st.Attempted)
	p.Printf("image:     %d x %d, %d samples\n", o.width, o.height, t.Samples())
	perFrame := time.Duration(0)
	if o.frames > 0 {
		perFrame = elapsed / time.Duration(o.frames)
	}
	p.Printf("time:      %v (%v per frame, %d pixels per frame)\n",
		elapsed.Round(time.Millisecond), perFrame.Round(time.Microsecond), o.width*o.height)
	p.Printf("output:    %s\n", o.out)
	if o.preview != "" {
		p.Printf("preview:   %s\n", o.preview)
	}
}

// orbit places the camera on a circle around the scene, looking at its
// center from above.
type orbit struct {
	radius float32
	height float32
}

func newOrbit(placement float32) orbit {
	return orbit{radius: placement * 1.5, height: placement * 0.5}
}

func (o orbit) position(degrees float32) mgl32.Vec3 {
	a := mgl32.DegToRad(degrees)
	return mgl32.Vec3{
		o.radius * float32(math.Sin(float64(a))),
		o.height,
		-o.radius * float32(math.Cos(float64(a))),
	}
}

func (o orbit) place(c *render.Camera, degrees float32) {
	c.Transform.LookAt(o.position(degrees), mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
}
