// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package scene generates the sphere scenes traced by spheretrace.
//
// A scene is a flat, ordered slice of [Sphere] values resting on the y=0
// ground plane. [Generate] places spheres by seeded rejection sampling inside
// a disk: every candidate is tested against the spheres already accepted in
// the same pass and dropped when it overlaps one of them. Rejected candidates
// are never resampled, so the accepted count is at most Params.CountMax and
// the output is fully determined by the parameters.
//
// [Pack] serializes spheres into the 40-byte records read by the compute
// kernel:
//
//	struct Sphere {
//	    px: f32, py: f32, pz: f32,
//	    radius: f32,
//	    ar: f32, ag: f32, ab: f32,
//	    sr: f32, sg: f32, sb: f32,
//	}
//
// The record holds ten scalar f32 fields with no padding. Declaring the
// vectors as vec3<f32> in WGSL would align each to 16 bytes and change the
// stride, so kernels should read scalars or index an array<f32>.
package scene
