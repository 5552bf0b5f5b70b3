// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"

	"github.com/mrjoshuak/go-openexr/exr"
)

// HostImage is a host-memory RGBA float32 image.
//
// The pixel storage is an [exr.RGBAImage], so converged renders can be
// written to OpenEXR without conversion and EXR skyboxes can be used
// directly.
//
// Example:
//
//	img := render.NewHostImage(800, 600)
//	img.Fill(0.5, 0.7, 1, 1)
//	err := exr.EncodeFile("sky.exr", img.EXR())
type HostImage struct {
	img       *exr.RGBAImage
	onRelease func()
}

// NewHostImage allocates a zero-filled host image.
func NewHostImage(width, height int) *HostImage {
	return &HostImage{img: exr.NewRGBAImage(image.Rect(0, 0, width, height))}
}

// HostImageFromEXR wraps img without copying. Its bounds are normalized to
// start at the origin.
func HostImageFromEXR(img *exr.RGBAImage) *HostImage {
	r := img.Rect
	if r.Min != (image.Point{}) {
		img = &exr.RGBAImage{Pix: img.Pix, Stride: img.Stride, Rect: r.Sub(r.Min)}
	}
	return &HostImage{img: img}
}

// Width returns the image width in pixels.
func (h *HostImage) Width() int {
	if h.img == nil {
		return 0
	}
	return h.img.Rect.Dx()
}

// Height returns the image height in pixels.
func (h *HostImage) Height() int {
	if h.img == nil {
		return 0
	}
	return h.img.Rect.Dy()
}

// Pix returns the RGBA float32 texels in row-major order.
// Returns nil after Release.
func (h *HostImage) Pix() []float32 {
	if h.img == nil {
		return nil
	}
	return h.img.Pix
}

// EXR returns the underlying OpenEXR image. The image shares memory with h.
func (h *HostImage) EXR() *exr.RGBAImage {
	return h.img
}

// At returns the RGBA value of the pixel at (x, y), or zero after Release.
func (h *HostImage) At(x, y int) [4]float32 {
	if h.img == nil {
		return [4]float32{}
	}
	r, g, b, a := h.img.RGBA(x, y)
	return [4]float32{r, g, b, a}
}

// Set stores an RGBA value at (x, y). Out-of-bounds writes and writes after
// Release are ignored.
func (h *HostImage) Set(x, y int, c [4]float32) {
	if h.img == nil {
		return
	}
	h.img.SetRGBA(x, y, c[0], c[1], c[2], c[3])
}

// Fill sets every pixel to the given color.
func (h *HostImage) Fill(r, g, b, a float32) {
	pix := h.Pix()
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i+0] = r
		pix[i+1] = g
		pix[i+2] = b
		pix[i+3] = a
	}
}

// Released reports whether Release has been called.
func (h *HostImage) Released() bool {
	return h.img == nil
}

// Release drops the pixel storage.
func (h *HostImage) Release() {
	if h.img == nil {
		return
	}
	h.img = nil
	if h.onRelease != nil {
		h.onRelease()
		h.onRelease = nil
	}
}

var _ Image = (*HostImage)(nil)
