// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package gpu

import "errors"

var (
	// ErrNotInitialized is returned when the backend has no open device.
	ErrNotInitialized = errors.New("gpu: backend not initialized")

	// ErrNoAdapter is returned when no GPU adapter could be enumerated.
	ErrNoAdapter = errors.New("gpu: no GPU adapters found")

	// ErrForeignResource is returned when a kernel or compositor is handed
	// an image or sphere buffer created by a different backend.
	ErrForeignResource = errors.New("gpu: resource belongs to another backend")
)
