// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

// Compositor combines full-screen images.
type Compositor interface {
	// Blend writes dst = src*weight + dst*(1-weight).
	Blend(src, dst Image, weight float32) error

	// Copy writes dst = src.
	Copy(src, dst Image) error
}

// BlendWeight returns the weight of a new sample when samples have already
// been accumulated. It is 1 for the first sample, which makes the prior
// contents of the converged image irrelevant.
func BlendWeight(samples uint32) float32 {
	return 1 / (float32(samples) + 1)
}
