// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package gpu

import (
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// fenceTimeout bounds every submit-and-wait on the queue.
const fenceTimeout = 5 * time.Second

// Backend owns (or borrows) a wgpu/hal device and queue and allocates the
// buffers the progressive renderer works on. It implements render.Device.
//
// Images are storage buffers of width*height RGBA float32 texels rather than
// textures, so the kernel and the accumulate pass address pixels by index.
//
// All methods are safe for concurrent use.
type Backend struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	adapterName    string
	externalDevice bool // true when using shared device (don't destroy on Close)

	live int // buffers created and not yet destroyed
}

// Open creates a Vulkan instance, selects a discrete or integrated adapter
// when one exists and opens a device on it.
func Open() (*Backend, error) {
	b := &Backend{}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.initGPU(); err != nil {
		b.closeLocked()
		return nil, err
	}
	return b, nil
}

// NewWithDevice wraps an existing device and queue. The backend does not
// take ownership: Close leaves them alive.
func NewWithDevice(device hal.Device, queue hal.Queue) *Backend {
	return &Backend{device: device, queue: queue, externalDevice: true, adapterName: "external"}
}

func (b *Backend) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("gpu: vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("gpu: create instance: %w", err)
	}
	b.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return ErrNoAdapter
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("gpu: open device: %w", err)
	}
	b.device = openDev.Device
	b.queue = openDev.Queue
	b.adapterName = selected.Info.Name
	slogger().Info("gpu: device opened", "adapter", b.adapterName, "adapters", len(adapters))
	return nil
}

// SetDeviceProvider switches the backend to a shared GPU device from an
// external provider (e.g., gogpu). The provider must implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
//
// Switching is refused while buffers from the current device are alive.
func (b *Backend) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("gpu: provider HalQueue is not hal.Queue")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.live > 0 {
		return fmt.Errorf("gpu: switch device with %d live buffers", b.live)
	}
	b.closeLocked()

	b.device = device
	b.queue = queue
	b.externalDevice = true
	b.adapterName = "external"
	slogger().Info("gpu: switched to shared GPU device")
	return nil
}

// AdapterName returns the name of the selected adapter, or "external" for a
// shared device.
func (b *Backend) AdapterName() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.adapterName
}

// Live returns the number of buffers allocated through the backend and not
// yet released.
func (b *Backend) Live() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.live
}

// Close destroys the device and instance when the backend owns them.
// Resources created from the backend must be released first.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closeLocked()
}

func (b *Backend) closeLocked() {
	if b.live > 0 {
		slogger().Warn("gpu: closing backend with live buffers", "count", b.live)
	}
	if !b.externalDevice {
		if b.device != nil {
			b.device.Destroy()
		}
		if b.instance != nil {
			b.instance.Destroy()
		}
	}
	b.device = nil
	b.queue = nil
	b.instance = nil
	b.externalDevice = false
	b.adapterName = ""
}

// createBufferLocked creates a buffer with a minimum size guarantee.
func (b *Backend) createBufferLocked(label string, size uint64, usage gputypes.BufferUsage) (hal.Buffer, error) {
	if b.device == nil {
		return nil, ErrNotInitialized
	}
	const minBufSize = 16
	if size < minBufSize {
		size = minBufSize
	}
	buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create %s: %w", label, err)
	}
	b.live++
	return buf, nil
}

func (b *Backend) destroyBufferLocked(buf hal.Buffer) {
	if buf == nil {
		return
	}
	if b.device != nil {
		b.device.DestroyBuffer(buf)
	}
	b.live--
}

// submitLocked records commands with encode, submits them and waits for the
// queue to finish.
func (b *Backend) submitLocked(label string, encode func(hal.CommandEncoder)) error {
	if b.device == nil {
		return ErrNotInitialized
	}
	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label + "_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	encode(encoder)

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer b.device.FreeCommandBuffer(cmdBuf)

	fence, err := b.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer b.device.DestroyFence(fence)

	if err := b.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := b.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}
	return nil
}
