// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/spheretrace/render"
)

//go:embed shaders/accumulate.wgsl
var accumulateShaderSource string

var accumulateBindings = []gputypes.BufferBindingType{
	gputypes.BufferBindingTypeUniform,
	gputypes.BufferBindingTypeReadOnlyStorage,
	gputypes.BufferBindingTypeStorage,
}

// Compositor blends and copies GPU images. It implements render.Compositor.
//
// Blend runs the accumulate compute pass; Copy is a buffer-to-buffer copy.
// Both wait for the queue, so the result is visible to the next pass.
type Compositor struct {
	backend  *Backend
	pipeline *computePipeline
	uniform  hal.Buffer
}

// NewCompositor creates the accumulate pipeline on b.
func NewCompositor(b *Backend) (*Compositor, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, err := b.createPipelineLocked("accumulate", accumulateShaderSource, accumulateBindings)
	if err != nil {
		return nil, err
	}
	uniform, err := b.createBufferLocked("accumulate_params", AccumulateParamsSize,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		b.destroyPipelineLocked(p)
		return nil, err
	}
	return &Compositor{backend: b, pipeline: p, uniform: uniform}, nil
}

// Blend writes dst = src*weight + dst*(1-weight).
func (c *Compositor) Blend(src, dst render.Image, weight float32) error {
	b := c.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.device == nil {
		return ErrNotInitialized
	}

	s, d, err := c.pairLocked(src, dst)
	if err != nil {
		return fmt.Errorf("gpu: blend: %w", err)
	}

	w, h := uint32(d.width), uint32(d.height) //nolint:gosec // dimensions are positive
	b.queue.WriteBuffer(c.uniform, 0, packAccumulateParams(weight, w, h))

	bg, err := b.createBindGroupLocked("accumulate_bind", c.pipeline, []bufferEntry{
		{buf: c.uniform, size: AccumulateParamsSize},
		{buf: s.buf, size: s.Size()},
		{buf: d.buf, size: d.Size()},
	})
	if err != nil {
		return fmt.Errorf("gpu: blend: %w", err)
	}
	defer b.device.DestroyBindGroup(bg)

	gx := (w + workgroupSize - 1) / workgroupSize
	gy := (h + workgroupSize - 1) / workgroupSize
	if err := b.dispatchLocked("accumulate", c.pipeline, bg, gx, gy, 1); err != nil {
		return fmt.Errorf("gpu: blend: %w", err)
	}
	return nil
}

// Copy writes dst = src.
func (c *Compositor) Copy(src, dst render.Image) error {
	b := c.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	s, d, err := c.pairLocked(src, dst)
	if err != nil {
		return fmt.Errorf("gpu: copy: %w", err)
	}

	size := s.Size()
	err = b.submitLocked("present_copy", func(enc hal.CommandEncoder) {
		enc.CopyBufferToBuffer(s.buf, d.buf, []hal.BufferCopy{
			{SrcOffset: 0, DstOffset: 0, Size: size},
		})
	})
	if err != nil {
		return fmt.Errorf("gpu: copy: %w", err)
	}
	return nil
}

func (c *Compositor) pairLocked(src, dst render.Image) (*Image, *Image, error) {
	s, err := c.backend.ownLocked(src)
	if err != nil {
		return nil, nil, err
	}
	d, err := c.backend.ownLocked(dst)
	if err != nil {
		return nil, nil, err
	}
	if s.width != d.width || s.height != d.height {
		return nil, nil, fmt.Errorf("%dx%d vs %dx%d: %w", s.width, s.height, d.width, d.height, render.ErrImageMismatch)
	}
	return s, d, nil
}

// Destroy releases the pipeline and uniform buffer.
func (c *Compositor) Destroy() {
	b := c.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	b.destroyBufferLocked(c.uniform)
	c.uniform = nil
	b.destroyPipelineLocked(c.pipeline)
	c.pipeline = nil
}

var _ render.Compositor = (*Compositor)(nil)
