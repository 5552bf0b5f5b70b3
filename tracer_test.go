// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package spheretrace

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/spheretrace/render"
	"github.com/gogpu/spheretrace/scene"
	"github.com/gogpu/spheretrace/watch"
)

// constKernel writes a fixed radiance into the bound output.
type constKernel struct {
	value float32
	last  render.FrameParams
	binds int
}

func (k *constKernel) Bind(p render.FrameParams) error {
	k.last = p
	k.binds++
	return nil
}

func (k *constKernel) Dispatch(_, _, _ uint32) error {
	out, ok := k.last.Output.(*render.HostImage)
	if !ok {
		return errors.New("output is not a host image")
	}
	out.Fill(k.value, k.value, k.value, 1)
	return nil
}

func newTestTracer(t *testing.T, cfg Config) (*Tracer, *render.HostDevice, *constKernel) {
	t.Helper()
	dev := render.NewHostDevice()
	k := &constKernel{value: 0.5}
	tr, err := New(dev, k, render.SoftwareCompositor{}, cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(tr.Close)
	return tr, dev, k
}

var testViewport = render.Viewport{Width: 32, Height: 18}

func TestNewRequiresKernel(t *testing.T) {
	if _, err := New(render.NewHostDevice(), nil, render.SoftwareCompositor{}, DefaultConfig()); !errors.Is(err, render.ErrNoKernel) {
		t.Errorf("err = %v, want ErrNoKernel", err)
	}
}

func TestTracerEnable(t *testing.T) {
	tr, dev, k := newTestTracer(t, DefaultConfig())

	if err := tr.Enable(); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}
	want := scene.Generate(scene.DefaultParams())
	if len(tr.Spheres()) != len(want) {
		t.Fatalf("got %d spheres, want %d", len(tr.Spheres()), len(want))
	}
	st := tr.Stats()
	if st.Attempted != 100 || st.Accepted+st.Rejected != st.Attempted {
		t.Errorf("stats = %+v", st)
	}
	if _, buffers := dev.Live(); buffers != 1 {
		t.Errorf("live sphere buffers = %d, want 1", buffers)
	}

	if _, err := tr.Frame(testViewport, nil); err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	if got := k.last.Spheres.Len(); got != len(want) {
		t.Errorf("bound %d spheres, want %d", got, len(want))
	}
	if got := k.last.DirectionalLight.W(); got != 1 {
		t.Errorf("light intensity = %v, want 1", got)
	}

	// Re-enabling regenerates the same scene and replaces the buffer.
	if err := tr.Enable(); err != nil {
		t.Fatalf("second Enable failed: %v", err)
	}
	if _, buffers := dev.Live(); buffers != 1 {
		t.Errorf("live sphere buffers after re-enable = %d, want 1", buffers)
	}
	if tr.Samples() != 0 {
		t.Errorf("Samples() = %d after Enable, want 0", tr.Samples())
	}
}

func TestTracerConverges(t *testing.T) {
	tr, _, _ := newTestTracer(t, DefaultConfig())
	if err := tr.Enable(); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}

	var img render.Image
	for i := 0; i < 8; i++ {
		var err error
		img, err = tr.Frame(testViewport, nil)
		if err != nil {
			t.Fatalf("frame %d failed: %v", i, err)
		}
	}
	if tr.Samples() != 8 {
		t.Errorf("Samples() = %d, want 8", tr.Samples())
	}
	if got := img.(*render.HostImage).At(5, 5); got[0] != 0.5 {
		t.Errorf("converged = %v, want 0.5", got[0])
	}
}

func TestTracerResetsOnMovement(t *testing.T) {
	tr, _, _ := newTestTracer(t, DefaultConfig())

	for i := 0; i < 3; i++ {
		if _, err := tr.Frame(testViewport, nil); err != nil {
			t.Fatalf("Frame failed: %v", err)
		}
	}

	tests := []struct {
		name string
		move func()
	}{
		{"camera", func() { tr.Camera().Transform.Translate(mgl32.Vec3{1, 0, 0}) }},
		{"light", func() {
			tr.Light().Transform.Rotate(mgl32.QuatRotate(0.1, mgl32.Vec3{0, 0, 1}))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tr.Frame(testViewport, nil); err != nil {
				t.Fatalf("Frame failed: %v", err)
			}
			before := tr.Samples()
			if before < 2 {
				t.Fatalf("Samples() = %d, want accumulation before the move", before)
			}
			tt.move()
			if _, err := tr.Frame(testViewport, nil); err != nil {
				t.Fatalf("Frame failed: %v", err)
			}
			if tr.Samples() != 1 {
				t.Errorf("Samples() = %d after %s move, want 1", tr.Samples(), tt.name)
			}
			if _, err := tr.Frame(testViewport, nil); err != nil {
				t.Fatalf("Frame failed: %v", err)
			}
		})
	}
}

func TestTracerWatch(t *testing.T) {
	tr, _, _ := newTestTracer(t, DefaultConfig())
	extra := watch.NewTransform()
	tr.Watch(extra)

	for i := 0; i < 3; i++ {
		if _, err := tr.Frame(testViewport, nil); err != nil {
			t.Fatalf("Frame failed: %v", err)
		}
	}
	extra.SetPosition(mgl32.Vec3{0, 5, 0})
	if _, err := tr.Frame(testViewport, nil); err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	if tr.Samples() != 1 {
		t.Errorf("Samples() = %d, want 1 after watched transform moved", tr.Samples())
	}
}

func TestTracerDegenerateConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSpheres = 0
	tr, dev, k := newTestTracer(t, cfg)

	if err := tr.Enable(); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}
	if len(tr.Spheres()) != 0 {
		t.Errorf("got %d spheres, want 0", len(tr.Spheres()))
	}
	if _, err := tr.Frame(testViewport, nil); err != nil {
		t.Fatalf("Frame on empty scene failed: %v", err)
	}
	if k.last.Spheres != nil {
		t.Error("empty scene should bind no sphere buffer")
	}
	if _, buffers := dev.Live(); buffers != 0 {
		t.Errorf("live sphere buffers = %d, want 0", buffers)
	}
}

func TestTracerSetConfig(t *testing.T) {
	tr, _, k := newTestTracer(t, DefaultConfig())
	if err := tr.Enable(); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}
	first := tr.Spheres()

	cfg := tr.Config()
	cfg.Seed = 42
	cfg.LightIntensity = 3
	if err := tr.SetConfig(cfg); err != nil {
		t.Fatalf("SetConfig failed: %v", err)
	}
	if tr.Samples() != 0 {
		t.Errorf("Samples() = %d after SetConfig, want 0", tr.Samples())
	}
	if got := tr.Spheres(); len(got) > 0 && len(first) > 0 && got[0] == first[0] {
		t.Error("scene should be regenerated with the new seed")
	}

	if _, err := tr.Frame(testViewport, nil); err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	if got := k.last.DirectionalLight.W(); got != 3 {
		t.Errorf("light intensity = %v, want 3", got)
	}
}

func TestTracerSetConfigReseedsFrames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 1
	tr, _, k := newTestTracer(t, cfg)
	if err := tr.Enable(); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}
	cfg.Seed = 2
	if err := tr.SetConfig(cfg); err != nil {
		t.Fatalf("SetConfig failed: %v", err)
	}
	if _, err := tr.Frame(testViewport, nil); err != nil {
		t.Fatalf("Frame failed: %v", err)
	}

	fresh, _, fk := newTestTracer(t, cfg)
	if err := fresh.Enable(); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}
	if _, err := fresh.Frame(testViewport, nil); err != nil {
		t.Fatalf("Frame failed: %v", err)
	}

	if k.last.Seed != fk.last.Seed || k.last.PixelOffset != fk.last.PixelOffset {
		t.Errorf("frame seed after SetConfig = %v/%v, want %v/%v as a fresh tracer",
			k.last.Seed, k.last.PixelOffset, fk.last.Seed, fk.last.PixelOffset)
	}
}

func TestTracerDisableAndClose(t *testing.T) {
	tr, dev, _ := newTestTracer(t, DefaultConfig())
	if err := tr.Enable(); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}
	if _, err := tr.Frame(testViewport, nil); err != nil {
		t.Fatalf("Frame failed: %v", err)
	}

	tr.Disable()
	if tr.Enabled() {
		t.Error("Enabled() = true after Disable")
	}
	if _, buffers := dev.Live(); buffers != 0 {
		t.Errorf("live sphere buffers = %d after Disable, want 0", buffers)
	}

	tr.Close()
	if images, buffers := dev.Live(); images != 0 || buffers != 0 {
		t.Errorf("live resources after Close = %d images, %d buffers", images, buffers)
	}
}

func TestTracerPresent(t *testing.T) {
	tr, _, _ := newTestTracer(t, DefaultConfig())
	present := render.NewHostImage(testViewport.Width, testViewport.Height)

	img, err := tr.Frame(testViewport, present)
	if err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	if img != present {
		t.Error("Frame should return the present target")
	}
	if got := present.At(0, 0); got[0] != 0.5 {
		t.Errorf("present = %v, want 0.5", got[0])
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	want := Config{Seed: 0, RadiusMin: 3, RadiusMax: 8, MaxSpheres: 100, PlacementRadius: 100, LightIntensity: 1, FovY: 60}
	if cfg != want {
		t.Errorf("DefaultConfig() = %+v, want %+v", cfg, want)
	}
}
