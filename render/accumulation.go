// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import "fmt"

// State is the accumulation state of a [Progressive] renderer.
type State int

const (
	// StateUninitialized means no images are allocated. The next frame
	// allocates them and starts at zero samples.
	StateUninitialized State = iota

	// StateAccumulating means images match the last viewport and Samples
	// frames have been folded into the converged image.
	StateAccumulating
)

// String returns the string representation of State.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateAccumulating:
		return "Accumulating"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// accumulation holds the raw and converged images and the sample counter.
// samples is the number of frames blended into converged since the last
// reset; both images always have the same size.
type accumulation struct {
	raw       Image
	converged Image
	samples   uint32
	state     State
}

// matches reports whether the images are allocated at the viewport size.
func (a *accumulation) matches(vp Viewport) bool {
	return a.state == StateAccumulating && vp.matches(a.raw) && vp.matches(a.converged)
}

// allocate replaces both images with fresh ones of the viewport size.
func (a *accumulation) allocate(dev Device, vp Viewport) error {
	a.release()

	raw, err := dev.NewImage("accum_raw", vp.Width, vp.Height)
	if err != nil {
		return fmt.Errorf("render: allocate raw target: %w", err)
	}
	converged, err := dev.NewImage("accum_converged", vp.Width, vp.Height)
	if err != nil {
		raw.Release()
		return fmt.Errorf("render: allocate converged target: %w", err)
	}

	a.raw = raw
	a.converged = converged
	a.samples = 0
	a.state = StateAccumulating
	return nil
}

// release drops both images and returns to the uninitialized state.
func (a *accumulation) release() {
	if a.raw != nil {
		a.raw.Release()
		a.raw = nil
	}
	if a.converged != nil {
		a.converged.Release()
		a.converged = nil
	}
	a.samples = 0
	a.state = StateUninitialized
}
