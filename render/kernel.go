// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import "github.com/go-gl/mathgl/mgl32"

// ThreadGroupSize is the side length of the kernel's square thread group.
const ThreadGroupSize = 8

// FrameParams are the per-frame inputs bound to the kernel.
type FrameParams struct {
	// CameraToWorld maps camera space (looking down -Z) to world space.
	CameraToWorld mgl32.Mat4

	// InverseProjection maps clip space back to camera space.
	InverseProjection mgl32.Mat4

	// Seed is a fresh uniform value in [0, 1) for the kernel's RNG.
	Seed float32

	// PixelOffset is a fresh sub-pixel jitter in [0, 1)².
	PixelOffset mgl32.Vec2

	// DirectionalLight packs the light's forward direction in xyz and its
	// intensity in w.
	DirectionalLight mgl32.Vec4

	// Spheres is the current scene, or nil when the scene is empty.
	Spheres SphereBuffer

	// Skybox is the environment image, or nil when none is set.
	Skybox Image

	// Output is the raw image the kernel writes one sample per pixel into.
	Output Image
}

// Kernel is the external ray-tracing compute kernel.
//
// Bind must be called before Dispatch for every frame. Dispatch returns once
// the work is queued; implementations guarantee that later composite calls
// observe its output.
type Kernel interface {
	Bind(p FrameParams) error
	Dispatch(groupsX, groupsY, groupsZ uint32) error
}

// DispatchSize returns the thread-group counts that cover vp, rounding up so
// that partial groups at the right and bottom edges are dispatched.
func DispatchSize(vp Viewport) (x, y, z uint32) {
	w := uint32(max(vp.Width, 0))  //nolint:gosec // clamped to non-negative
	h := uint32(max(vp.Height, 0)) //nolint:gosec // clamped to non-negative
	return (w + ThreadGroupSize - 1) / ThreadGroupSize, (h + ThreadGroupSize - 1) / ThreadGroupSize, 1
}
