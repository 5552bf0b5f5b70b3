// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import "github.com/gogpu/spheretrace/scene"

// Image is a full-resolution RGBA float32 image owned by a device.
type Image interface {
	// Width returns the image width in pixels.
	Width() int

	// Height returns the image height in pixels.
	Height() int

	// Release frees the image storage. Release is idempotent.
	Release()
}

// SphereBuffer is a device-visible copy of a scene's sphere records.
type SphereBuffer interface {
	// Len returns the number of spheres in the buffer.
	Len() int

	// Release frees the buffer storage. Release is idempotent.
	Release()
}

// Device allocates the resources the progressive renderer owns.
//
// Key principle: the renderer RECEIVES a device from the host, it does not
// create one. Device implementations decide where the storage lives (GPU
// buffers for package gpu, host slices for [HostDevice]).
type Device interface {
	// NewImage allocates a zero-filled image.
	NewImage(label string, width, height int) (Image, error)

	// UploadImage allocates an image initialized from pix, which holds
	// width*height RGBA float32 texels in row-major order.
	UploadImage(label string, width, height int, pix []float32) (Image, error)

	// NewSphereBuffer uploads spheres. Callers never pass an empty slice.
	NewSphereBuffer(spheres []scene.Sphere) (SphereBuffer, error)
}

// Viewport is the presentation size in pixels.
type Viewport struct {
	Width  int
	Height int
}

// Valid reports whether both sides are positive.
func (v Viewport) Valid() bool {
	return v.Width > 0 && v.Height > 0
}

// Aspect returns width / height.
func (v Viewport) Aspect() float32 {
	return float32(v.Width) / float32(v.Height)
}

// matches reports whether img exists and has the viewport's size.
func (v Viewport) matches(img Image) bool {
	return img != nil && img.Width() == v.Width && img.Height() == v.Height
}
