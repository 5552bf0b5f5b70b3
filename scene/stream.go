// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scene

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
)

// streamSalt decorrelates the two PCG state words derived from one seed.
const streamSalt = 0x9e3779b97f4a7c15

// Stream is a deterministic source of the random values used for scene
// placement and per-frame sampling parameters.
//
// Stream is not safe for concurrent use.
type Stream struct {
	rng *rand.Rand
}

// NewStream returns a stream seeded from seed. Two streams with the same
// seed produce the same sequence.
func NewStream(seed int64) *Stream {
	s := uint64(seed) //nolint:gosec // seed bits are reinterpreted, not range checked
	return &Stream{rng: rand.New(rand.NewPCG(s, s^streamSalt))}
}

// Value returns a uniform float32 in [0, 1).
func (s *Stream) Value() float32 {
	return s.rng.Float32()
}

// Range returns min + u*(max-min) for a uniform u in [0, 1).
// An inverted range yields values between max and min.
func (s *Stream) Range(lo, hi float32) float32 {
	return lo + s.Value()*(hi-lo)
}

// InsideUnitCircle returns a point uniformly distributed over the unit disk.
// The radius is the square root of a uniform draw so that equal areas are
// equally likely, not equal radii.
func (s *Stream) InsideUnitCircle() (x, y float32) {
	r := math.Sqrt(float64(s.Value()))
	theta := 2 * math.Pi * float64(s.Value())
	return float32(r * math.Cos(theta)), float32(r * math.Sin(theta))
}

// ColorHSV draws hue, saturation and value uniformly in [0, 1] and returns the
// corresponding linear RGB color.
func (s *Stream) ColorHSV() mgl32.Vec3 {
	h := s.Value()
	sat := s.Value()
	v := s.Value()
	return HSVToRGB(h, sat, v)
}
