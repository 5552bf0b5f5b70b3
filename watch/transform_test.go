// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package watch

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewTransformStartsChanged(t *testing.T) {
	tr := NewTransform()
	if !tr.TakeChanged() {
		t.Fatal("new transform should report a change")
	}
	if tr.TakeChanged() {
		t.Error("TakeChanged should clear the flag")
	}
}

func TestTransformMutationsSetChanged(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Transform)
		want   bool
	}{
		{"set position", func(tr *Transform) { tr.SetPosition(mgl32.Vec3{1, 2, 3}) }, true},
		{"same position", func(tr *Transform) { tr.SetPosition(mgl32.Vec3{}) }, false},
		{"translate", func(tr *Transform) { tr.Translate(mgl32.Vec3{0, 1, 0}) }, true},
		{"zero translate", func(tr *Transform) { tr.Translate(mgl32.Vec3{}) }, false},
		{"rotate", func(tr *Transform) { tr.Rotate(mgl32.QuatRotate(0.5, mgl32.Vec3{0, 1, 0})) }, true},
		{"same rotation", func(tr *Transform) { tr.SetRotation(mgl32.QuatIdent()) }, false},
		{"look at", func(tr *Transform) { tr.LookAt(mgl32.Vec3{0, 5, 10}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}) }, true},
		{"mark", func(tr *Transform) { tr.MarkChanged() }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTransform()
			tr.TakeChanged()
			tt.mutate(tr)
			if got := tr.Changed(); got != tt.want {
				t.Errorf("Changed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransformLookAtForward(t *testing.T) {
	tr := NewTransform()
	eye := mgl32.Vec3{0, 10, 20}
	center := mgl32.Vec3{0, 0, 0}
	tr.LookAt(eye, center, mgl32.Vec3{0, 1, 0})

	want := center.Sub(eye).Normalize()
	if got := tr.Forward(); !near3(got, want, 1e-4) {
		t.Errorf("Forward() = %v, want %v", got, want)
	}
	if got := tr.Position(); got != eye {
		t.Errorf("Position() = %v, want %v", got, eye)
	}
}

func TestTransformMatrix(t *testing.T) {
	tr := NewTransform()
	tr.SetPosition(mgl32.Vec3{1, 2, 3})
	tr.SetRotation(mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}))

	m := tr.Matrix()
	origin := m.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !near3(origin.Vec3(), mgl32.Vec3{1, 2, 3}, 1e-5) {
		t.Errorf("origin maps to %v, want (1, 2, 3)", origin)
	}
	// 90° about +Y turns local -Z into world -X.
	fwd := m.Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()
	if !near3(fwd, mgl32.Vec3{-1, 0, 0}, 1e-5) {
		t.Errorf("forward maps to %v, want (-1, 0, 0)", fwd)
	}
	if !near3(fwd, tr.Forward(), 1e-5) {
		t.Errorf("Matrix forward %v disagrees with Forward() %v", fwd, tr.Forward())
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
