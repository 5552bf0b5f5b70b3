// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package spheretrace drives a GPU ray-tracing kernel over a procedurally
// generated sphere scene and refines the image across frames by
// accumulation.
//
// # Overview
//
// A [Tracer] composes three parts:
//   - scene: seeded rejection sampling of non-overlapping spheres
//   - watch: transforms with dirty bits and the monitor that collects them
//   - render: the progressive renderer that binds per-frame parameters,
//     dispatches the kernel and blends each sample into a converged image
//
// The kernel itself is external. Package gpu loads a WGSL kernel into a
// wgpu/hal pipeline and provides the device and compositor; render provides
// host-memory equivalents for tests and headless hosts.
//
// # Quick Start
//
//	b, _ := gpu.Open()
//	k, _ := gpu.LoadKernelFile(b, "spheretrace.wgsl")
//	c, _ := gpu.NewCompositor(b)
//
//	t, err := spheretrace.New(b, k, c, spheretrace.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer t.Close()
//
//	if err := t.Enable(); err != nil {
//		return err
//	}
//	for range 64 {
//		img, err := t.Frame(render.Viewport{Width: 1280, Height: 720}, nil)
//		...
//	}
//
// Moving the camera or the light through their transforms resets
// accumulation on the next frame.
package spheretrace
