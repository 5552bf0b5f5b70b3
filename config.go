// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package spheretrace

import "github.com/gogpu/spheretrace/scene"

// Config holds the tracer's scene and lighting parameters.
// Values are used as given; no range checks are applied.
type Config struct {
	// Seed drives scene generation and the per-frame sampling stream.
	Seed int64

	// RadiusMin and RadiusMax bound the sphere radii.
	RadiusMin, RadiusMax float32

	// MaxSpheres is the number of placement attempts.
	MaxSpheres uint32

	// PlacementRadius is the radius of the disk sphere centers fall in.
	PlacementRadius float32

	// LightIntensity is packed into the w component of the light vector.
	LightIntensity float32

	// FovY is the camera's vertical field of view in degrees.
	FovY float32
}

// DefaultConfig returns radii 3 to 8, 100 spheres over a disk of radius 100,
// unit light intensity and a 60° field of view.
func DefaultConfig() Config {
	p := scene.DefaultParams()
	return Config{
		Seed:            p.Seed,
		RadiusMin:       p.RadiusMin,
		RadiusMax:       p.RadiusMax,
		MaxSpheres:      p.CountMax,
		PlacementRadius: p.PlacementRadius,
		LightIntensity:  1,
		FovY:            60,
	}
}

// sceneParams returns the generator parameters of c.
func (c Config) sceneParams() scene.Params {
	return scene.Params{
		Seed:            c.Seed,
		RadiusMin:       c.RadiusMin,
		RadiusMax:       c.RadiusMax,
		CountMax:        c.MaxSpheres,
		PlacementRadius: c.PlacementRadius,
	}
}
