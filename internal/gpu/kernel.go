// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"os"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/spheretrace/render"
	"github.com/gogpu/spheretrace/scene"
)

// errNotBound is returned by Dispatch before the first successful Bind.
var errNotBound = errors.New("gpu: kernel dispatched before bind")

// kernelBindings is the kernel's bind group 0 layout: frame parameters,
// spheres, skybox texels and the raw output image.
var kernelBindings = []gputypes.BufferBindingType{
	gputypes.BufferBindingTypeUniform,
	gputypes.BufferBindingTypeReadOnlyStorage,
	gputypes.BufferBindingTypeReadOnlyStorage,
	gputypes.BufferBindingTypeStorage,
}

// Kernel is the external ray-tracing compute shader loaded into a pipeline.
// It implements render.Kernel.
//
// When the scene is empty or no skybox is set, small placeholder buffers are
// bound in their place so that the bind group is always complete; the kernel
// sees sphere_count 0 and a 1x1 black sky.
type Kernel struct {
	backend  *Backend
	pipeline *computePipeline

	uniform   hal.Buffer
	noSpheres hal.Buffer
	noSky     hal.Buffer
	bindGroup hal.BindGroup
}

// LoadKernelFile reads WGSL source from path and loads it with [LoadKernel].
func LoadKernelFile(b *Backend, path string) (*Kernel, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gpu: read kernel: %w", err)
	}
	return LoadKernel(b, string(src))
}

// LoadKernel compiles WGSL source and creates the kernel pipeline.
// The shader's entry point must be "main" with an 8x8x1 workgroup.
func LoadKernel(b *Backend, source string) (*Kernel, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	k := &Kernel{backend: b}
	var err error
	k.pipeline, err = b.createPipelineLocked("spheretrace_kernel", source, kernelBindings)
	if err != nil {
		return nil, err
	}
	if err := k.createBuffersLocked(); err != nil {
		k.destroyLocked()
		return nil, err
	}
	slogger().Info("gpu: kernel loaded", "source_bytes", len(source))
	return k, nil
}

func (k *Kernel) createBuffersLocked() error {
	b := k.backend
	var err error
	k.uniform, err = b.createBufferLocked("kernel_params", FrameParamsSize,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	k.noSpheres, err = b.createBufferLocked("kernel_no_spheres", scene.SphereStride,
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	k.noSky, err = b.createBufferLocked("kernel_no_sky", texelSize,
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	b.queue.WriteBuffer(k.noSpheres, 0, make([]byte, scene.SphereStride))
	b.queue.WriteBuffer(k.noSky, 0, make([]byte, texelSize))
	return nil
}

// Bind uploads the frame parameters and rebuilds the bind group around the
// frame's sphere buffer, skybox and output image. All resources must come
// from the kernel's backend.
func (k *Kernel) Bind(p render.FrameParams) error {
	b := k.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.device == nil {
		return ErrNotInitialized
	}

	out, err := b.ownLocked(p.Output)
	if err != nil {
		return fmt.Errorf("gpu: bind output: %w", err)
	}

	ext := frameExtent{
		width:     uint32(out.width),  //nolint:gosec // dimensions are positive
		height:    uint32(out.height), //nolint:gosec // dimensions are positive
		skyWidth:  1,
		skyHeight: 1,
	}
	spheres := bufferEntry{buf: k.noSpheres, size: scene.SphereStride}
	if p.Spheres != nil {
		sb, ok := p.Spheres.(*SphereBuffer)
		if !ok || sb.backend != b || sb.buf == nil {
			return fmt.Errorf("gpu: bind spheres %T: %w", p.Spheres, ErrForeignResource)
		}
		spheres = bufferEntry{buf: sb.buf, size: sb.Size()}
		ext.sphereCount = uint32(sb.count) //nolint:gosec // count is non-negative
	}
	sky := bufferEntry{buf: k.noSky, size: texelSize}
	if p.Skybox != nil {
		img, err := b.ownLocked(p.Skybox)
		if err != nil {
			return fmt.Errorf("gpu: bind skybox: %w", err)
		}
		sky = bufferEntry{buf: img.buf, size: img.Size()}
		ext.skyWidth = uint32(img.width)   //nolint:gosec // dimensions are positive
		ext.skyHeight = uint32(img.height) //nolint:gosec // dimensions are positive
	}

	b.queue.WriteBuffer(k.uniform, 0, packFrameParams(&p, ext))

	bg, err := b.createBindGroupLocked("kernel_bind", k.pipeline, []bufferEntry{
		{buf: k.uniform, size: FrameParamsSize},
		spheres,
		sky,
		{buf: out.buf, size: out.Size()},
	})
	if err != nil {
		return err
	}
	k.releaseBindGroupLocked()
	k.bindGroup = bg
	return nil
}

// Dispatch runs the kernel over the given thread-group grid and waits for
// it to finish, so a following composite observes the output.
func (k *Kernel) Dispatch(groupsX, groupsY, groupsZ uint32) error {
	b := k.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if k.bindGroup == nil {
		return errNotBound
	}
	if err := b.dispatchLocked("spheretrace_kernel", k.pipeline, k.bindGroup, groupsX, groupsY, groupsZ); err != nil {
		return fmt.Errorf("gpu: kernel: %w", err)
	}
	return nil
}

// Destroy releases the pipeline and kernel-owned buffers.
func (k *Kernel) Destroy() {
	b := k.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	k.destroyLocked()
}

func (k *Kernel) destroyLocked() {
	b := k.backend
	k.releaseBindGroupLocked()
	b.destroyBufferLocked(k.uniform)
	b.destroyBufferLocked(k.noSpheres)
	b.destroyBufferLocked(k.noSky)
	k.uniform, k.noSpheres, k.noSky = nil, nil, nil
	b.destroyPipelineLocked(k.pipeline)
	k.pipeline = nil
}

func (k *Kernel) releaseBindGroupLocked() {
	if k.bindGroup != nil && k.backend.device != nil {
		k.backend.device.DestroyBindGroup(k.bindGroup)
	}
	k.bindGroup = nil
}

var _ render.Kernel = (*Kernel)(nil)
