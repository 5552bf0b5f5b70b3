// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import "errors"

var (
	// ErrNoDevice is returned when a renderer is created without a device.
	ErrNoDevice = errors.New("render: device is nil")

	// ErrNoKernel is returned when a renderer is created without a kernel.
	ErrNoKernel = errors.New("render: kernel is nil")

	// ErrNoCompositor is returned by RenderFrame when no compositor is set.
	// Without it the presented image would never be written.
	ErrNoCompositor = errors.New("render: compositor is unavailable")

	// ErrNoCamera is returned by RenderFrame when the frame has no camera.
	ErrNoCamera = errors.New("render: frame camera is nil")

	// ErrInvalidViewport is returned for viewports with a non-positive side.
	ErrInvalidViewport = errors.New("render: viewport must be positive")

	// ErrImageMismatch is returned when composited images differ in size or
	// belong to a different implementation than the compositor.
	ErrImageMismatch = errors.New("render: incompatible images")
)
