// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scene

import "github.com/go-gl/mathgl/mgl32"

// metalProbability is the chance that an accepted sphere is metallic.
const metalProbability = 0.5

// Params configures scene generation.
//
// No field is validated. A zero CountMax or a PlacementRadius too small for
// the radius range simply yields fewer (possibly zero) spheres.
type Params struct {
	// Seed initializes the random stream. Equal params give equal scenes.
	Seed int64

	// RadiusMin and RadiusMax bound the uniformly drawn sphere radius.
	RadiusMin float32
	RadiusMax float32

	// CountMax is the number of candidates drawn. It is an upper bound on
	// the number of spheres returned.
	CountMax uint32

	// PlacementRadius is the radius of the disk on the ground plane that
	// sphere centers are drawn from.
	PlacementRadius float32
}

// DefaultParams returns the generation parameters of the stock scene:
// up to 100 spheres with radii in [3, 8] scattered over a disk of radius 100.
func DefaultParams() Params {
	return Params{
		Seed:            0,
		RadiusMin:       3,
		RadiusMax:       8,
		CountMax:        100,
		PlacementRadius: 100,
	}
}

// Stats summarizes one generation pass.
type Stats struct {
	Attempted uint32
	Accepted  uint32
	Rejected  uint32
	Metal     uint32
}

// Generate builds a scene from p. See [GenerateStats].
func Generate(p Params) []Sphere {
	spheres, _ := GenerateStats(p)
	return spheres
}

// GenerateStats builds a scene from p and reports how many candidates were
// accepted and rejected.
//
// Each candidate index draws a radius and a disk position and is tested
// against every sphere accepted so far. An overlapping candidate is dropped
// and the loop moves to the next index, which keeps the random sequence and
// the output order reproducible. Material colors are drawn only for accepted
// candidates.
func GenerateStats(p Params) ([]Sphere, Stats) {
	rnd := NewStream(p.Seed)
	var spheres []Sphere
	var st Stats

	for i := uint32(0); i < p.CountMax; i++ {
		st.Attempted++

		radius := rnd.Range(p.RadiusMin, p.RadiusMax)
		x, z := rnd.InsideUnitCircle()
		candidate := Sphere{
			Position: mgl32.Vec3{x * p.PlacementRadius, radius, z * p.PlacementRadius},
			Radius:   radius,
		}
		if overlapsAny(candidate, spheres) {
			st.Rejected++
			continue
		}

		color := rnd.ColorHSV()
		if rnd.Value() < metalProbability {
			candidate.Specular = color
			st.Metal++
		} else {
			candidate.Albedo = color
			candidate.Specular = dielectricGray
		}
		spheres = append(spheres, candidate)
		st.Accepted++
	}

	return spheres, st
}
