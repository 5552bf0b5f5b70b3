// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import "fmt"

// SoftwareCompositor blends and copies [HostImage] values on the CPU.
//
// Example:
//
//	var c render.SoftwareCompositor
//	err := c.Blend(raw, converged, render.BlendWeight(samples))
type SoftwareCompositor struct{}

// Blend writes dst = src*weight + dst*(1-weight). A weight of 1 or more
// overwrites dst, so stale or non-finite dst contents never leak into the
// first sample.
func (SoftwareCompositor) Blend(src, dst Image, weight float32) error {
	s, d, err := hostPair(src, dst)
	if err != nil {
		return fmt.Errorf("render: blend: %w", err)
	}
	sp, dp := s.Pix(), d.Pix()
	if weight >= 1 {
		copy(dp, sp)
		return nil
	}
	keep := 1 - weight
	for i := range dp {
		dp[i] = sp[i]*weight + dp[i]*keep
	}
	return nil
}

// Copy writes dst = src.
func (SoftwareCompositor) Copy(src, dst Image) error {
	s, d, err := hostPair(src, dst)
	if err != nil {
		return fmt.Errorf("render: copy: %w", err)
	}
	copy(d.Pix(), s.Pix())
	return nil
}

func hostPair(src, dst Image) (*HostImage, *HostImage, error) {
	s, ok := src.(*HostImage)
	if !ok || s == nil || s.Released() {
		return nil, nil, fmt.Errorf("source %T: %w", src, ErrImageMismatch)
	}
	d, ok := dst.(*HostImage)
	if !ok || d == nil || d.Released() {
		return nil, nil, fmt.Errorf("destination %T: %w", dst, ErrImageMismatch)
	}
	if s.Width() != d.Width() || s.Height() != d.Height() {
		return nil, nil, fmt.Errorf("%dx%d vs %dx%d: %w", s.Width(), s.Height(), d.Width(), d.Height(), ErrImageMismatch)
	}
	return s, d, nil
}

var _ Compositor = SoftwareCompositor{}
