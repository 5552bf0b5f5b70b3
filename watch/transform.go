// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package watch

import "github.com/go-gl/mathgl/mgl32"

// Watchable is anything that can report a change since the last query.
// TakeChanged must clear the flag it reports.
type Watchable interface {
	TakeChanged() bool
}

// Transform is a rigid position + rotation with a change flag.
//
// The zero value is not ready for use; create transforms with [NewTransform].
// A new transform starts out changed so that the first check after it is
// added to a watch list reports it.
type Transform struct {
	position mgl32.Vec3
	rotation mgl32.Quat
	changed  bool
}

var _ Watchable = (*Transform)(nil)

// NewTransform returns a transform at the origin with identity rotation.
func NewTransform() *Transform {
	return &Transform{rotation: mgl32.QuatIdent(), changed: true}
}

// Position returns the world-space position.
func (t *Transform) Position() mgl32.Vec3 { return t.position }

// Rotation returns the world-space rotation.
func (t *Transform) Rotation() mgl32.Quat { return t.rotation }

// SetPosition moves the transform. Setting the current position is not a change.
func (t *Transform) SetPosition(p mgl32.Vec3) {
	if p == t.position {
		return
	}
	t.position = p
	t.changed = true
}

// SetRotation orients the transform. The rotation is normalized.
// Setting the current rotation is not a change.
func (t *Transform) SetRotation(q mgl32.Quat) {
	q = q.Normalize()
	if q == t.rotation {
		return
	}
	t.rotation = q
	t.changed = true
}

// Translate moves the transform by d in world space.
func (t *Transform) Translate(d mgl32.Vec3) {
	t.SetPosition(t.position.Add(d))
}

// Rotate applies q after the current rotation.
func (t *Transform) Rotate(q mgl32.Quat) {
	t.SetRotation(q.Mul(t.rotation))
}

// LookAt places the transform at eye and turns it so that [Transform.Forward]
// points at center.
func (t *Transform) LookAt(eye, center, up mgl32.Vec3) {
	view := mgl32.LookAtV(eye, center, up)
	t.SetPosition(eye)
	t.SetRotation(mgl32.Mat4ToQuat(view.Inv()))
}

// Forward returns the unit direction the transform faces. Forward is local -Z.
func (t *Transform) Forward() mgl32.Vec3 {
	return t.rotation.Rotate(mgl32.Vec3{0, 0, -1}).Normalize()
}

// Matrix returns the local-to-world matrix, translation after rotation.
func (t *Transform) Matrix() mgl32.Mat4 {
	p := t.position
	return mgl32.Translate3D(p[0], p[1], p[2]).Mul4(t.rotation.Mat4())
}

// Changed reports the change flag without clearing it.
func (t *Transform) Changed() bool { return t.changed }

// MarkChanged sets the change flag without moving the transform.
func (t *Transform) MarkChanged() { t.changed = true }

// TakeChanged reports whether the transform changed since the previous call
// and clears the flag.
func (t *Transform) TakeChanged() bool {
	c := t.changed
	t.changed = false
	return c
}
