// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package render implements progressive accumulation for a GPU ray-tracing
// kernel.
//
// The package owns the control loop, not the pixels. A [Device] allocates
// images and sphere buffers, a [Kernel] traces one sample per pixel into the
// raw image, and a [Compositor] folds that sample into the converged image.
// [Progressive] sequences these once per frame:
//
//  1. reset if the attached monitor saw a watched transform move
//  2. (re)allocate raw and converged images when the viewport changed
//  3. bind [FrameParams] with a fresh seed and sub-pixel jitter
//  4. dispatch ceil(w/8) × ceil(h/8) × 1 thread groups
//  5. blend raw into converged with weight 1/(samples+1), copy to the
//     presentation image
//  6. count the sample
//
// The blend weight turns the converged image into the running mean of every
// sample since the last reset, without per-pixel history.
//
// # Implementations
//
// GPU devices, kernels and compositors live in package gpu. This package
// provides host-memory versions ([HostDevice], [HostImage],
// [SoftwareCompositor]) for headless hosts and tests.
//
// # Usage
//
//	dev := render.NewHostDevice()
//	p, err := render.NewProgressive(dev, kernel, render.SoftwareCompositor{},
//	    render.WithMonitor(watch.NewMonitor(camera.Transform, light.Transform)))
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	if err := p.SetScene(scene.Generate(scene.DefaultParams())); err != nil {
//	    return err
//	}
//	for {
//	    img, err := p.RenderFrame(render.Frame{
//	        Viewport: render.Viewport{Width: 1280, Height: 720},
//	        Camera:   camera,
//	        Light:    light,
//	    })
//	    ...
//	}
//
// Nothing in this package is safe for concurrent use; drive it from one
// frame loop.
package render
