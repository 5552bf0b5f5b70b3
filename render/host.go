// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"

	"github.com/gogpu/spheretrace/scene"
)

// HostDevice allocates images and sphere buffers in host memory.
// It tracks live allocations so that owners can be checked for leaks.
type HostDevice struct {
	liveImages  int
	liveBuffers int
}

// NewHostDevice returns an empty host device.
func NewHostDevice() *HostDevice {
	return &HostDevice{}
}

// NewImage allocates a zero-filled [HostImage].
func (d *HostDevice) NewImage(label string, width, height int) (Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render: image %q: %w", label, ErrInvalidViewport)
	}
	img := NewHostImage(width, height)
	d.track(img)
	return img, nil
}

// UploadImage allocates a [HostImage] holding a copy of pix.
func (d *HostDevice) UploadImage(label string, width, height int, pix []float32) (Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render: image %q: %w", label, ErrInvalidViewport)
	}
	if want := width * height * 4; len(pix) != want {
		return nil, fmt.Errorf("render: image %q: got %d floats, want %d: %w", label, len(pix), want, ErrImageMismatch)
	}
	img := NewHostImage(width, height)
	copy(img.Pix(), pix)
	d.track(img)
	return img, nil
}

// NewSphereBuffer packs spheres into a host byte buffer.
func (d *HostDevice) NewSphereBuffer(spheres []scene.Sphere) (SphereBuffer, error) {
	if len(spheres) == 0 {
		return nil, fmt.Errorf("render: sphere buffer: empty scene")
	}
	d.liveBuffers++
	return &HostSphereBuffer{
		data:      scene.Pack(spheres),
		onRelease: func() { d.liveBuffers-- },
	}, nil
}

// Live returns the number of images and sphere buffers not yet released.
func (d *HostDevice) Live() (images, buffers int) {
	return d.liveImages, d.liveBuffers
}

func (d *HostDevice) track(img *HostImage) {
	d.liveImages++
	img.onRelease = func() { d.liveImages-- }
}

// HostSphereBuffer is a [SphereBuffer] holding packed records in memory.
type HostSphereBuffer struct {
	data      []byte
	onRelease func()
}

// Len returns the number of spheres.
func (b *HostSphereBuffer) Len() int {
	return len(b.data) / scene.SphereStride
}

// Bytes returns the packed records. Returns nil after Release.
func (b *HostSphereBuffer) Bytes() []byte {
	return b.data
}

// Spheres decodes the buffer contents.
func (b *HostSphereBuffer) Spheres() []scene.Sphere {
	return scene.Unpack(b.data)
}

// Release drops the records.
func (b *HostSphereBuffer) Release() {
	if b.data == nil {
		return
	}
	b.data = nil
	if b.onRelease != nil {
		b.onRelease()
		b.onRelease = nil
	}
}

var (
	_ Device       = (*HostDevice)(nil)
	_ SphereBuffer = (*HostSphereBuffer)(nil)
)
