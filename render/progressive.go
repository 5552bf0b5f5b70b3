// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/spheretrace/scene"
)

// ChangeMonitor reports whether any watched state changed since the last call.
// [watch.Monitor] implements it.
type ChangeMonitor interface {
	CheckAndClear() bool
}

// Option configures a [Progressive] renderer during creation.
type Option func(*options)

type options struct {
	monitor ChangeMonitor
	seed    int64
	logger  *slog.Logger
}

// WithMonitor attaches a change monitor. It is checked at the start of every
// frame and any reported change resets accumulation.
func WithMonitor(m ChangeMonitor) Option {
	return func(o *options) {
		o.monitor = m
	}
}

// WithSeed seeds the stream that draws the per-frame kernel seed and jitter.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithLogger sets the logger. By default the renderer logs nothing.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Frame is the per-frame input to [Progressive.RenderFrame].
type Frame struct {
	Viewport Viewport
	Camera   *Camera

	// Light may be nil for an unlit scene.
	Light *DirectionalLight

	// Present receives a copy of the converged image when non-nil. It must
	// match the viewport size.
	Present Image
}

// Progressive drives the kernel once per frame and accumulates the results.
//
// Progressive exclusively owns the raw and converged images and the sphere
// buffer. The skybox image is borrowed and stays owned by the caller.
//
// State Machine:
//
//	Uninitialized -> first frame -> Accumulating(0)
//	Accumulating(n) -> frame -> Accumulating(n+1)
//	Accumulating(n) -> resize | SetScene | monitored change | Reset -> Accumulating(0)
type Progressive struct {
	device     Device
	kernel     Kernel
	compositor Compositor
	monitor    ChangeMonitor
	rnd        *scene.Stream
	log        *slog.Logger

	acc     accumulation
	spheres SphereBuffer
	skybox  Image
}

// NewProgressive creates a renderer. The compositor may be nil and supplied
// later with SetCompositor; frames fail with [ErrNoCompositor] until then.
func NewProgressive(device Device, kernel Kernel, compositor Compositor, opts ...Option) (*Progressive, error) {
	if device == nil {
		return nil, ErrNoDevice
	}
	if kernel == nil {
		return nil, ErrNoKernel
	}

	o := options{logger: newNopLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	return &Progressive{
		device:     device,
		kernel:     kernel,
		compositor: compositor,
		monitor:    o.monitor,
		rnd:        scene.NewStream(o.seed),
		log:        o.logger,
	}, nil
}

// SetCompositor replaces the compositor.
func (p *Progressive) SetCompositor(c Compositor) {
	p.compositor = c
}

// SetScene uploads spheres as the new scene. The previous sphere buffer is
// released first and accumulation is reset. An empty slice leaves the
// renderer with no sphere buffer, which renders background only.
func (p *Progressive) SetScene(spheres []scene.Sphere) error {
	p.releaseSpheres()
	p.Reset()

	if len(spheres) == 0 {
		p.log.Info("render: scene cleared", "spheres", 0)
		return nil
	}

	buf, err := p.device.NewSphereBuffer(spheres)
	if err != nil {
		return fmt.Errorf("render: upload scene: %w", err)
	}
	p.spheres = buf
	p.log.Info("render: scene uploaded", "spheres", buf.Len())
	return nil
}

// ReleaseScene drops the sphere buffer and resets accumulation.
func (p *Progressive) ReleaseScene() {
	p.releaseSpheres()
	p.Reset()
}

func (p *Progressive) releaseSpheres() {
	if p.spheres != nil {
		p.spheres.Release()
		p.spheres = nil
	}
}

// SetSkybox sets the environment image bound to the kernel and resets
// accumulation. Pass nil to unbind it.
func (p *Progressive) SetSkybox(img Image) {
	p.skybox = img
	p.Reset()
}

// Reseed restarts the per-frame seed and jitter stream from seed and resets
// accumulation.
func (p *Progressive) Reseed(seed int64) {
	p.rnd = scene.NewStream(seed)
	p.Reset()
}

// Reset discards accumulated samples. Both images are released and the next
// frame reallocates them at zero samples.
func (p *Progressive) Reset() {
	if p.acc.state != StateUninitialized {
		p.log.Debug("render: accumulation reset", "samples", p.acc.samples)
	}
	p.acc.release()
}

// Samples returns the number of frames accumulated since the last reset.
func (p *Progressive) Samples() uint32 { return p.acc.samples }

// State returns the accumulation state.
func (p *Progressive) State() State { return p.acc.state }

// SphereCount returns the number of spheres in the bound scene.
func (p *Progressive) SphereCount() int {
	if p.spheres == nil {
		return 0
	}
	return p.spheres.Len()
}

// Converged returns the converged image, or nil before the first frame.
func (p *Progressive) Converged() Image { return p.acc.converged }

// Raw returns the raw per-frame image, or nil before the first frame.
func (p *Progressive) Raw() Image { return p.acc.raw }

// RenderFrame renders and accumulates one frame and returns the presented
// image: f.Present when set, otherwise the converged image.
//
// On error the sample counter is not advanced.
func (p *Progressive) RenderFrame(f Frame) (Image, error) {
	if !f.Viewport.Valid() {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidViewport, f.Viewport.Width, f.Viewport.Height)
	}
	if f.Camera == nil || f.Camera.Transform == nil {
		return nil, ErrNoCamera
	}
	if p.compositor == nil {
		return nil, ErrNoCompositor
	}

	if p.monitor != nil && p.monitor.CheckAndClear() {
		p.Reset()
	}

	if !p.acc.matches(f.Viewport) {
		if err := p.acc.allocate(p.device, f.Viewport); err != nil {
			return nil, err
		}
		p.log.Debug("render: accumulation targets allocated",
			"width", f.Viewport.Width, "height", f.Viewport.Height)
	}

	if err := p.kernel.Bind(p.frameParams(f)); err != nil {
		return nil, fmt.Errorf("render: bind kernel: %w", err)
	}

	gx, gy, gz := DispatchSize(f.Viewport)
	if err := p.kernel.Dispatch(gx, gy, gz); err != nil {
		return nil, fmt.Errorf("render: dispatch kernel: %w", err)
	}

	weight := BlendWeight(p.acc.samples)
	if err := p.compositor.Blend(p.acc.raw, p.acc.converged, weight); err != nil {
		return nil, fmt.Errorf("render: accumulate: %w", err)
	}

	out := p.acc.converged
	if f.Present != nil {
		if err := p.compositor.Copy(p.acc.converged, f.Present); err != nil {
			return nil, fmt.Errorf("render: present: %w", err)
		}
		out = f.Present
	}

	p.acc.samples++
	p.log.Debug("render: frame accumulated",
		"sample", p.acc.samples, "weight", weight, "groups_x", gx, "groups_y", gy)
	return out, nil
}

// frameParams draws a fresh seed and jitter and collects the bindings.
func (p *Progressive) frameParams(f Frame) FrameParams {
	aspect := f.Viewport.Aspect()
	seed := p.rnd.Value()
	jitter := mgl32.Vec2{p.rnd.Value(), p.rnd.Value()}

	return FrameParams{
		CameraToWorld:     f.Camera.CameraToWorld(),
		InverseProjection: f.Camera.InverseProjection(aspect),
		Seed:              seed,
		PixelOffset:       jitter,
		DirectionalLight:  f.Light.Vector(),
		Spheres:           p.spheres,
		Skybox:            p.skybox,
		Output:            p.acc.raw,
	}
}

// Close releases the images and the sphere buffer. The renderer may be
// reused afterwards; the next SetScene and RenderFrame reallocate.
func (p *Progressive) Close() {
	p.releaseSpheres()
	p.acc.release()
}
