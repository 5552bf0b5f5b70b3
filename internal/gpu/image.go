// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/spheretrace/render"
	"github.com/gogpu/spheretrace/scene"
)

// texelSize is the byte size of one RGBA float32 texel.
const texelSize = 16

// imageUsage lets an image be a kernel output, an accumulate operand, a copy
// source for presentation and readback, and a copy destination.
const imageUsage = gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst

// Image is a render.Image backed by a GPU storage buffer.
type Image struct {
	backend *Backend
	buf     hal.Buffer
	label   string
	width   int
	height  int
}

// Width returns the image width in pixels.
func (img *Image) Width() int { return img.width }

// Height returns the image height in pixels.
func (img *Image) Height() int { return img.height }

// Size returns the buffer size in bytes.
func (img *Image) Size() uint64 {
	return uint64(img.width) * uint64(img.height) * texelSize //nolint:gosec // dimensions are positive
}

// Release destroys the buffer. Release is idempotent.
func (img *Image) Release() {
	b := img.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if img.buf == nil {
		return
	}
	b.destroyBufferLocked(img.buf)
	img.buf = nil
}

// NewImage allocates a zero-filled storage image.
func (b *Backend) NewImage(label string, width, height int) (render.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("gpu: image %q: %w", label, render.ErrInvalidViewport)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	img, err := b.newImageLocked(label, width, height)
	if err != nil {
		return nil, err
	}
	b.queue.WriteBuffer(img.buf, 0, make([]byte, img.Size()))
	return img, nil
}

// UploadImage allocates a storage image initialized from pix.
func (b *Backend) UploadImage(label string, width, height int, pix []float32) (render.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("gpu: image %q: %w", label, render.ErrInvalidViewport)
	}
	if want := width * height * 4; len(pix) != want {
		return nil, fmt.Errorf("gpu: image %q: got %d floats, want %d: %w", label, len(pix), want, render.ErrImageMismatch)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	img, err := b.newImageLocked(label, width, height)
	if err != nil {
		return nil, err
	}
	b.queue.WriteBuffer(img.buf, 0, packFloats(pix))
	return img, nil
}

func (b *Backend) newImageLocked(label string, width, height int) (*Image, error) {
	img := &Image{backend: b, label: label, width: width, height: height}
	buf, err := b.createBufferLocked(label, img.Size(), imageUsage)
	if err != nil {
		return nil, err
	}
	img.buf = buf
	return img, nil
}

// Readback copies img into a new host image through a staging buffer.
func (b *Backend) Readback(src render.Image) (*render.HostImage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	img, err := b.ownLocked(src)
	if err != nil {
		return nil, fmt.Errorf("gpu: readback: %w", err)
	}

	size := img.Size()
	staging, err := b.createBufferLocked(img.label+"_staging", size,
		gputypes.BufferUsageMapRead|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	defer b.destroyBufferLocked(staging)

	err = b.submitLocked("readback", func(enc hal.CommandEncoder) {
		enc.CopyBufferToBuffer(img.buf, staging, []hal.BufferCopy{
			{SrcOffset: 0, DstOffset: 0, Size: size},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: readback %s: %w", img.label, err)
	}

	raw := make([]byte, size)
	if err := b.queue.ReadBuffer(staging, 0, raw); err != nil {
		return nil, fmt.Errorf("gpu: readback %s: %w", img.label, err)
	}
	out := render.NewHostImage(img.width, img.height)
	unpackFloats(raw, out.Pix())
	return out, nil
}

// ownLocked checks that ri is a live image created by b.
func (b *Backend) ownLocked(ri render.Image) (*Image, error) {
	img, ok := ri.(*Image)
	if !ok || img == nil || img.backend != b {
		return nil, fmt.Errorf("%T: %w", ri, ErrForeignResource)
	}
	if img.buf == nil {
		return nil, fmt.Errorf("image %q released: %w", img.label, render.ErrImageMismatch)
	}
	return img, nil
}

// SphereBuffer is a render.SphereBuffer backed by a read-only storage buffer.
type SphereBuffer struct {
	backend *Backend
	buf     hal.Buffer
	count   int
}

// Len returns the number of spheres in the buffer.
func (s *SphereBuffer) Len() int { return s.count }

// Size returns the buffer size in bytes.
func (s *SphereBuffer) Size() uint64 {
	return uint64(s.count) * scene.SphereStride //nolint:gosec // count is non-negative
}

// Release destroys the buffer. Release is idempotent.
func (s *SphereBuffer) Release() {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if s.buf == nil {
		return
	}
	b.destroyBufferLocked(s.buf)
	s.buf = nil
}

// NewSphereBuffer uploads the packed sphere records.
func (b *Backend) NewSphereBuffer(spheres []scene.Sphere) (render.SphereBuffer, error) {
	if len(spheres) == 0 {
		return nil, fmt.Errorf("gpu: sphere buffer: empty scene")
	}
	data := scene.Pack(spheres)

	b.mu.Lock()
	defer b.mu.Unlock()
	buf, err := b.createBufferLocked("spheres", uint64(len(data)),
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	b.queue.WriteBuffer(buf, 0, data)
	slogger().Debug("gpu: sphere buffer uploaded", "spheres", len(spheres), "bytes", len(data))
	return &SphereBuffer{backend: b, buf: buf, count: len(spheres)}, nil
}

func packFloats(pix []float32) []byte {
	out := make([]byte, len(pix)*4)
	for i, v := range pix {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

func unpackFloats(raw []byte, dst []float32) {
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
}

var (
	_ render.Device       = (*Backend)(nil)
	_ render.Image        = (*Image)(nil)
	_ render.SphereBuffer = (*SphereBuffer)(nil)
)
