// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// HSVToRGB converts a hue/saturation/value triple to RGB.
// All inputs are in [0, 1]; hue wraps, so 1 maps to the same color as 0.
func HSVToRGB(h, s, v float32) mgl32.Vec3 {
	if s <= 0 {
		return mgl32.Vec3{v, v, v}
	}

	h6 := float64(h) * 6
	sector := math.Floor(h6)
	f := float32(h6 - sector)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	switch int(sector) % 6 {
	case 0:
		return mgl32.Vec3{v, t, p}
	case 1:
		return mgl32.Vec3{q, v, p}
	case 2:
		return mgl32.Vec3{p, v, t}
	case 3:
		return mgl32.Vec3{p, q, v}
	case 4:
		return mgl32.Vec3{t, p, v}
	default:
		return mgl32.Vec3{v, p, q}
	}
}
