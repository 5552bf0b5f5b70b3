// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"testing"

	"github.com/gogpu/spheretrace/scene"
)

// fakeKernel records bindings and fills the bound output with scripted values.
type fakeKernel struct {
	calls  *[]string
	values []float32 // value written on each dispatch; last one repeats
	params []FrameParams
	groups [][3]uint32

	bindErr     error
	dispatchErr error
}

func (k *fakeKernel) Bind(p FrameParams) error {
	if k.bindErr != nil {
		return k.bindErr
	}
	*k.calls = append(*k.calls, "bind")
	k.params = append(k.params, p)
	return nil
}

func (k *fakeKernel) Dispatch(x, y, z uint32) error {
	if k.dispatchErr != nil {
		return k.dispatchErr
	}
	*k.calls = append(*k.calls, "dispatch")
	k.groups = append(k.groups, [3]uint32{x, y, z})

	v := float32(1)
	if n := len(k.values); n > 0 {
		i := len(k.groups) - 1
		if i >= n {
			i = n - 1
		}
		v = k.values[i]
	}
	out := k.params[len(k.params)-1].Output.(*HostImage)
	out.Fill(v, v, v, 1)
	return nil
}

func (k *fakeKernel) last() FrameParams {
	return k.params[len(k.params)-1]
}

// recordingCompositor wraps SoftwareCompositor and logs each call.
type recordingCompositor struct {
	calls   *[]string
	weights []float32
	inner   SoftwareCompositor
}

func (c *recordingCompositor) Blend(src, dst Image, w float32) error {
	*c.calls = append(*c.calls, "blend")
	c.weights = append(c.weights, w)
	return c.inner.Blend(src, dst, w)
}

func (c *recordingCompositor) Copy(src, dst Image) error {
	*c.calls = append(*c.calls, "copy")
	return c.inner.Copy(src, dst)
}

// failingDevice wraps a HostDevice and fails the nth image allocation.
type failingDevice struct {
	*HostDevice
	failAt int
	count  int
}

var errDeviceLost = errors.New("device lost")

func (d *failingDevice) NewImage(label string, w, h int) (Image, error) {
	d.count++
	if d.count == d.failAt {
		return nil, errDeviceLost
	}
	return d.HostDevice.NewImage(label, w, h)
}

type harness struct {
	dev    *HostDevice
	kernel *fakeKernel
	comp   *recordingCompositor
	calls  []string
	r      *Progressive
	camera *Camera
	light  *DirectionalLight
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{dev: NewHostDevice(), camera: NewCamera(), light: NewDirectionalLight(1.5)}
	h.kernel = &fakeKernel{calls: &h.calls}
	h.comp = &recordingCompositor{calls: &h.calls}
	r, err := NewProgressive(h.dev, h.kernel, h.comp, opts...)
	if err != nil {
		t.Fatalf("NewProgressive failed: %v", err)
	}
	h.r = r
	return h
}

func (h *harness) frame(t *testing.T, w, ht int) Image {
	t.Helper()
	img, err := h.r.RenderFrame(Frame{
		Viewport: Viewport{Width: w, Height: ht},
		Camera:   h.camera,
		Light:    h.light,
	})
	if err != nil {
		t.Fatalf("RenderFrame(%dx%d) failed: %v", w, ht, err)
	}
	return img
}

func testSpheres() []scene.Sphere {
	return scene.Generate(scene.Params{Seed: 9, RadiusMin: 1, RadiusMax: 2, CountMax: 12, PlacementRadius: 50})
}
