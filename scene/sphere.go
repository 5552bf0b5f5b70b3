// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scene

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// SphereStride is the size in bytes of one packed sphere record.
const SphereStride = 40

// sphereFloats is the number of float32 fields in a packed record.
const sphereFloats = SphereStride / 4

// DielectricSpecular is the flat specular reflectance given to non-metal spheres.
const DielectricSpecular = 0.04

// Sphere describes one sphere of a generated scene.
//
// Metal spheres carry their color in Specular and a zero Albedo. All other
// spheres carry their color in Albedo and a flat [DielectricSpecular] gray in
// Specular.
type Sphere struct {
	Position mgl32.Vec3
	Radius   float32
	Albedo   mgl32.Vec3
	Specular mgl32.Vec3
}

// Metal reports whether the sphere uses the metallic material split.
func (s Sphere) Metal() bool {
	return s.Specular != dielectricGray
}

var dielectricGray = mgl32.Vec3{DielectricSpecular, DielectricSpecular, DielectricSpecular}

// Overlaps reports whether the bounding spheres of s and o intersect.
// Spheres that exactly touch do not overlap.
func (s Sphere) Overlaps(o Sphere) bool {
	d := s.Position.Sub(o.Position)
	minDist := s.Radius + o.Radius
	return d.Dot(d) < minDist*minDist
}

// overlapsAny reports whether candidate overlaps any sphere in accepted.
func overlapsAny(candidate Sphere, accepted []Sphere) bool {
	for i := range accepted {
		if candidate.Overlaps(accepted[i]) {
			return true
		}
	}
	return false
}

// AppendRecord appends the 40-byte little-endian record for s to dst.
func (s Sphere) AppendRecord(dst []byte) []byte {
	fields := [sphereFloats]float32{
		s.Position[0], s.Position[1], s.Position[2],
		s.Radius,
		s.Albedo[0], s.Albedo[1], s.Albedo[2],
		s.Specular[0], s.Specular[1], s.Specular[2],
	}
	for _, f := range fields {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
	}
	return dst
}

// Pack serializes spheres into consecutive GPU records.
// Returns nil for an empty scene.
func Pack(spheres []Sphere) []byte {
	if len(spheres) == 0 {
		return nil
	}
	out := make([]byte, 0, len(spheres)*SphereStride)
	for i := range spheres {
		out = spheres[i].AppendRecord(out)
	}
	return out
}

// Unpack decodes records produced by [Pack]. Trailing bytes that do not form
// a full record are ignored.
func Unpack(data []byte) []Sphere {
	n := len(data) / SphereStride
	if n == 0 {
		return nil
	}
	out := make([]Sphere, n)
	for i := range out {
		rec := data[i*SphereStride:]
		var f [sphereFloats]float32
		for j := range f {
			f[j] = math.Float32frombits(binary.LittleEndian.Uint32(rec[j*4:]))
		}
		out[i] = Sphere{
			Position: mgl32.Vec3{f[0], f[1], f[2]},
			Radius:   f[3],
			Albedo:   mgl32.Vec3{f[4], f[5], f[6]},
			Specular: mgl32.Vec3{f[7], f[8], f[9]},
		}
	}
	return out
}
