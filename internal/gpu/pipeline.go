// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// workgroupSize is the side of the square workgroup every pass declares.
const workgroupSize = 8

// CompileWGSL compiles WGSL source to SPIR-V words.
func CompileWGSL(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("gpu: compile shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words
	spirv := make([]uint32, len(spirvBytes)/4)
	for i := range spirv {
		spirv[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirv, nil
}

// computePipeline is a compute pipeline with a single bind group of buffers.
type computePipeline struct {
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline
}

// createPipelineLocked compiles WGSL source with naga and builds a pipeline
// whose binding i has buffer type bindings[i]. The entry point is always
// "main". Shader errors are reported here rather than by the driver.
func (b *Backend) createPipelineLocked(label, source string, bindings []gputypes.BufferBindingType) (*computePipeline, error) {
	if b.device == nil {
		return nil, ErrNotInitialized
	}
	spirv, err := CompileWGSL(source)
	if err != nil {
		return nil, fmt.Errorf("gpu: %s: %w", label, err)
	}
	p := &computePipeline{}

	shader, err := b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create %s shader module: %w", label, err)
	}
	p.shader = shader

	entries := make([]gputypes.BindGroupLayoutEntry, len(bindings))
	for i, ty := range bindings {
		entries[i] = gputypes.BindGroupLayoutEntry{
			Binding:    uint32(i), //nolint:gosec // binding count is tiny
			Visibility: gputypes.ShaderStageCompute,
			Buffer:     &gputypes.BufferBindingLayout{Type: ty},
		}
	}
	bindLayout, err := b.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   label + "_bind_layout",
		Entries: entries,
	})
	if err != nil {
		b.destroyPipelineLocked(p)
		return nil, fmt.Errorf("gpu: create %s bind group layout: %w", label, err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := b.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: label + "_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		b.destroyPipelineLocked(p)
		return nil, fmt.Errorf("gpu: create %s pipeline layout: %w", label, err)
	}
	p.pipeLayout = pipeLayout

	pipeline, err := b.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: label + "_pipeline", Layout: p.pipeLayout,
		Compute: hal.ComputeState{Module: p.shader, EntryPoint: "main"},
	})
	if err != nil {
		b.destroyPipelineLocked(p)
		return nil, fmt.Errorf("gpu: create %s compute pipeline: %w", label, err)
	}
	p.pipeline = pipeline
	return p, nil
}

func (b *Backend) destroyPipelineLocked(p *computePipeline) {
	if p == nil || b.device == nil {
		return
	}
	if p.pipeline != nil {
		b.device.DestroyComputePipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		b.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		b.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		b.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

// bufferEntry describes one buffer bound at the entry's index.
type bufferEntry struct {
	buf  hal.Buffer
	size uint64
}

func (b *Backend) createBindGroupLocked(label string, p *computePipeline, buffers []bufferEntry) (hal.BindGroup, error) {
	entries := make([]gputypes.BindGroupEntry, len(buffers))
	for i, e := range buffers {
		entries[i] = gputypes.BindGroupEntry{
			Binding:  uint32(i), //nolint:gosec // binding count is tiny
			Resource: gputypes.BufferBinding{Buffer: e.buf.NativeHandle(), Offset: 0, Size: e.size},
		}
	}
	bg, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: label, Layout: p.bindLayout, Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create %s: %w", label, err)
	}
	return bg, nil
}

// dispatchLocked runs one compute pass over the bind group and waits for it.
func (b *Backend) dispatchLocked(label string, p *computePipeline, bg hal.BindGroup, x, y, z uint32) error {
	return b.submitLocked(label, func(enc hal.CommandEncoder) {
		pass := enc.BeginComputePass(&hal.ComputePassDescriptor{Label: label + "_pass"})
		pass.SetPipeline(p.pipeline)
		pass.SetBindGroup(0, bg, nil)
		pass.Dispatch(x, y, z)
		pass.End()
	})
}
