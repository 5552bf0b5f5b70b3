// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

// Package gpu provides the wgpu/hal implementation of the progressive
// renderer's device, kernel and compositor.
//
// Open creates a private Vulkan device. Hosts that already own a device
// (e.g., a gogpu window) pass it through FromProvider so that the renderer
// shares it instead of creating a second GPU instance.
//
// Usage:
//
//	b, err := gpu.Open()
//	if err != nil {
//		return err
//	}
//	defer b.Close()
//
//	k, err := gpu.LoadKernelFile(b, "spheretrace.wgsl")
//	c, err := gpu.NewCompositor(b)
//	r, err := render.NewProgressive(b, k, c)
package gpu

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	gpuimpl "github.com/gogpu/spheretrace/internal/gpu"
)

type (
	// Backend owns or borrows a HAL device and implements render.Device.
	Backend = gpuimpl.Backend

	// Image is a GPU storage-buffer image.
	Image = gpuimpl.Image

	// SphereBuffer is a GPU buffer of packed sphere records.
	SphereBuffer = gpuimpl.SphereBuffer

	// Kernel is the external ray-tracing shader. It implements render.Kernel.
	Kernel = gpuimpl.Kernel

	// Compositor runs the accumulate pass. It implements render.Compositor.
	Compositor = gpuimpl.Compositor
)

var (
	// ErrNotInitialized is returned when the backend has no open device.
	ErrNotInitialized = gpuimpl.ErrNotInitialized

	// ErrNoAdapter is returned when no GPU adapter could be enumerated.
	ErrNoAdapter = gpuimpl.ErrNoAdapter

	// ErrForeignResource is returned for images or sphere buffers created by
	// another backend.
	ErrForeignResource = gpuimpl.ErrForeignResource
)

// Open creates a backend on a private Vulkan device.
func Open() (*Backend, error) {
	return gpuimpl.Open()
}

// FromProvider creates a backend on the host's shared device. The provider
// must also expose HalDevice() and HalQueue(), as gogpu does.
func FromProvider(provider gpucontext.DeviceProvider) (*Backend, error) {
	b := &Backend{}
	if err := b.SetDeviceProvider(provider); err != nil {
		return nil, err
	}
	return b, nil
}

// NewWithDevice wraps an already opened HAL device and queue.
func NewWithDevice(device hal.Device, queue hal.Queue) *Backend {
	return gpuimpl.NewWithDevice(device, queue)
}

// LoadKernel compiles WGSL kernel source and creates its pipeline.
func LoadKernel(b *Backend, source string) (*Kernel, error) {
	return gpuimpl.LoadKernel(b, source)
}

// LoadKernelFile reads and loads a WGSL kernel from path.
func LoadKernelFile(b *Backend, path string) (*Kernel, error) {
	return gpuimpl.LoadKernelFile(b, path)
}

// NewCompositor creates the accumulate pipeline.
func NewCompositor(b *Backend) (*Compositor, error) {
	return gpuimpl.NewCompositor(b)
}
