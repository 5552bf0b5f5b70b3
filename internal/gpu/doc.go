// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

// Package gpu implements the progressive renderer's device, kernel and
// compositor on top of gogpu/wgpu HAL.
//
// A [Backend] opens (or borrows) a device and queue. Images and sphere
// buffers are storage buffers. A [Kernel] wraps the external ray-tracing
// WGSL shader compiled through naga, and a [Compositor] runs the embedded
// accumulate pass. Every submission waits on a fence before returning.
package gpu
