// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCameraMatrices(t *testing.T) {
	c := NewCamera()
	c.Transform.SetPosition(mgl32.Vec3{1, 2, 3})

	m := c.CameraToWorld()
	if got := m.Col(3).Vec3(); !near3(got, mgl32.Vec3{1, 2, 3}, 1e-5) {
		t.Errorf("translation = %v, want [1 2 3]", got)
	}

	p := c.Projection(16.0 / 9)
	id := p.Mul4(c.InverseProjection(16.0 / 9))
	if !nearMat(id, mgl32.Ident4(), 1e-4) {
		t.Errorf("P * P^-1 = %v, want identity", id)
	}
}

func TestDirectionalLightVector(t *testing.T) {
	l := NewDirectionalLight(2)
	v := l.Vector()
	if !near3(v.Vec3(), mgl32.Vec3{0, -1, 0}, 1e-5) {
		t.Errorf("direction = %v, want straight down", v.Vec3())
	}
	if v.W() != 2 {
		t.Errorf("intensity = %v, want 2", v.W())
	}

	var none *DirectionalLight
	if got := none.Vector(); got != (mgl32.Vec4{}) {
		t.Errorf("nil light vector = %v, want zero", got)
	}
}

func TestDispatchSize(t *testing.T) {
	tests := []struct {
		vp      Viewport
		x, y, z uint32
	}{
		{Viewport{8, 8}, 1, 1, 1},
		{Viewport{16, 9}, 2, 2, 1},
		{Viewport{1920, 1080}, 240, 135, 1},
		{Viewport{0, 0}, 0, 0, 1},
	}
	for _, tt := range tests {
		x, y, z := DispatchSize(tt.vp)
		if x != tt.x || y != tt.y || z != tt.z {
			t.Errorf("DispatchSize(%v) = %d,%d,%d, want %d,%d,%d", tt.vp, x, y, z, tt.x, tt.y, tt.z)
		}
	}
}

// near3 compares component-wise with an absolute tolerance.
func near3(a, b mgl32.Vec3, tol float64) bool {
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > tol {
			return false
		}
	}
	return true
}

func nearMat(a, b mgl32.Mat4, tol float64) bool {
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > tol {
			return false
		}
	}
	return true
}
