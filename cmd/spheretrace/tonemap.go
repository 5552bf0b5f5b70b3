// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package main

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/spheretrace/render"
)

// tonemap converts linear HDR radiance to 8-bit sRGB with a Reinhard curve.
func tonemap(src *render.HostImage) *image.RGBA {
	w, h := src.Width(), src.Height()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := src.At(x, y)
			dst.SetRGBA(x, y, color.RGBA{
				R: encodeSRGB(c[0]),
				G: encodeSRGB(c[1]),
				B: encodeSRGB(c[2]),
				A: 255,
			})
		}
	}
	return dst
}

// encodeSRGB maps a linear channel through x/(1+x) and the sRGB transfer
// function. Negative and NaN inputs map to 0.
func encodeSRGB(v float32) uint8 {
	x := float64(v)
	if !(x > 0) {
		return 0
	}
	if math.IsInf(x, 1) {
		return 255
	}
	x /= 1 + x
	if x <= 0.0031308 {
		x *= 12.92
	} else {
		x = 1.055*math.Pow(x, 1/2.4) - 0.055
	}
	return uint8(math.Round(min(x, 1) * 255)) //nolint:gosec // clamped to [0, 255]
}

// downscale resizes img by factor with a Catmull-Rom filter.
// A factor of 1 returns img unchanged.
func downscale(img *image.RGBA, factor float64) image.Image {
	if factor == 1 {
		return img
	}
	b := img.Bounds()
	w := max(1, int(math.Round(float64(b.Dx())*factor)))
	h := max(1, int(math.Round(float64(b.Dy())*factor)))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
