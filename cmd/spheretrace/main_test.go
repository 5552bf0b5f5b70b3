// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package main

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/spheretrace/render"
)

func TestParseFlags(t *testing.T) {
	o, err := parseFlags([]string{
		"-kernel", "k.wgsl", "-width", "320", "-height", "200",
		"-seed", "7", "-spheres", "20", "-radius-min", "1", "-radius-max", "2",
		"-placement", "30", "-orbit", "5", "-preview-scale", "0.5",
	})
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}
	if o.kernel != "k.wgsl" || o.width != 320 || o.height != 200 {
		t.Errorf("parsed %+v", o)
	}
	cfg := o.cfg
	if cfg.Seed != 7 || cfg.MaxSpheres != 20 || cfg.RadiusMin != 1 || cfg.RadiusMax != 2 || cfg.PlacementRadius != 30 {
		t.Errorf("config = %+v", cfg)
	}
	if o.orbit != 5 || o.previewScale != 0.5 {
		t.Errorf("orbit = %v, preview scale = %v", o.orbit, o.previewScale)
	}
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing kernel", nil},
		{"zero width", []string{"-kernel", "k", "-width", "0"}},
		{"negative scale", []string{"-kernel", "k", "-preview-scale", "-1"}},
		{"unknown flag", []string{"-kernel", "k", "-nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseFlags(tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEncodeSRGB(t *testing.T) {
	tests := []struct {
		in   float32
		want uint8
	}{
		{0, 0},
		{-1, 0},
		{float32(math.NaN()), 0},
		{float32(math.Inf(1)), 255},
		{1e9, 255},
		{1, 188}, // 0.5 after Reinhard
	}
	for _, tt := range tests {
		if got := encodeSRGB(tt.in); got != tt.want {
			t.Errorf("encodeSRGB(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTonemapAndDownscale(t *testing.T) {
	src := render.NewHostImage(8, 4)
	src.Fill(1, 0, 0, 1)

	img := tonemap(src)
	if got := img.RGBAAt(3, 2); got.R != 188 || got.G != 0 || got.A != 255 {
		t.Errorf("tonemapped pixel = %v", got)
	}
	if downscale(img, 1) != img {
		t.Error("scale 1 should return the input")
	}
	small := downscale(img, 0.5)
	if b := small.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Errorf("downscaled bounds = %v, want 4x2", b)
	}
}

func TestOrbit(t *testing.T) {
	o := newOrbit(100)
	p := o.position(0)
	if !near3(p, mgl32.Vec3{0, 50, -150}, 1e-3) {
		t.Errorf("position(0) = %v", p)
	}
	q := o.position(90)
	if !near3(q, mgl32.Vec3{150, 50, 0}, 1e-3) {
		t.Errorf("position(90) = %v", q)
	}

	c := render.NewCamera()
	o.place(c, 0)
	fwd := c.Transform.Forward()
	toCenter := p.Mul(-1).Normalize()
	if !near3(fwd, toCenter, 1e-4) {
		t.Errorf("camera forward = %v, want %v", fwd, toCenter)
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
