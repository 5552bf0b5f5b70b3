// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/spheretrace/watch"
)

// Camera is a perspective camera placed by a watched transform.
// The camera looks down its local -Z axis.
type Camera struct {
	Transform *watch.Transform

	// FovY is the vertical field of view in degrees.
	FovY float32

	// Near and Far are the clip plane distances.
	Near, Far float32
}

// NewCamera returns a camera at the origin with a 60° vertical field of view.
func NewCamera() *Camera {
	return &Camera{
		Transform: watch.NewTransform(),
		FovY:      60,
		Near:      0.3,
		Far:       1000,
	}
}

// CameraToWorld returns the camera's local-to-world matrix.
func (c *Camera) CameraToWorld() mgl32.Mat4 {
	return c.Transform.Matrix()
}

// Projection returns the perspective projection for the given aspect ratio.
func (c *Camera) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), aspect, c.Near, c.Far)
}

// InverseProjection returns the inverse of [Camera.Projection].
func (c *Camera) InverseProjection(aspect float32) mgl32.Mat4 {
	return c.Projection(aspect).Inv()
}

// DirectionalLight is an infinitely distant light oriented by a watched
// transform. Light travels along the transform's forward direction.
type DirectionalLight struct {
	Transform *watch.Transform
	Intensity float32
}

// NewDirectionalLight returns a light pointing straight down.
func NewDirectionalLight(intensity float32) *DirectionalLight {
	t := watch.NewTransform()
	t.SetRotation(mgl32.QuatRotate(mgl32.DegToRad(-90), mgl32.Vec3{1, 0, 0}))
	return &DirectionalLight{Transform: t, Intensity: intensity}
}

// Vector packs the forward direction and intensity as the kernel expects.
// A nil light yields the zero vector, which the kernel treats as unlit.
func (l *DirectionalLight) Vector() mgl32.Vec4 {
	if l == nil || l.Transform == nil {
		return mgl32.Vec4{}
	}
	return l.Transform.Forward().Vec4(l.Intensity)
}
