// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/spheretrace/render"
)

// Uniform block layout of the kernel's binding 0 (std140-compatible).
const (
	offCameraToWorld     = 0
	offInverseProjection = 64
	offDirectionalLight  = 128
	offPixelOffset       = 144
	offSeed              = 152
	offSphereCount       = 156
	offWidth             = 160
	offHeight            = 164
	offSkyWidth          = 168
	offSkyHeight         = 172

	// FrameParamsSize is the byte size of the kernel's uniform block.
	FrameParamsSize = 176
)

// AccumulateParamsSize is the byte size of the accumulate pass uniform:
// weight f32, width u32, height u32 and one word of padding.
const AccumulateParamsSize = 16

// frameExtent carries the sizes the kernel cannot infer from its buffers.
type frameExtent struct {
	sphereCount uint32
	width       uint32
	height      uint32
	skyWidth    uint32
	skyHeight   uint32
}

// packFrameParams serializes p into the kernel's uniform block.
// Matrices are written column-major, matching WGSL mat4x4<f32>.
func packFrameParams(p *render.FrameParams, ext frameExtent) []byte {
	buf := make([]byte, FrameParamsSize)
	putMat4(buf[offCameraToWorld:], p.CameraToWorld)
	putMat4(buf[offInverseProjection:], p.InverseProjection)
	putFloats(buf[offDirectionalLight:], p.DirectionalLight[:])
	putFloats(buf[offPixelOffset:], p.PixelOffset[:])
	putFloats(buf[offSeed:], []float32{p.Seed})

	le := binary.LittleEndian
	le.PutUint32(buf[offSphereCount:], ext.sphereCount)
	le.PutUint32(buf[offWidth:], ext.width)
	le.PutUint32(buf[offHeight:], ext.height)
	le.PutUint32(buf[offSkyWidth:], ext.skyWidth)
	le.PutUint32(buf[offSkyHeight:], ext.skyHeight)
	return buf
}

// packAccumulateParams serializes the accumulate pass uniform.
func packAccumulateParams(weight float32, width, height uint32) []byte {
	buf := make([]byte, AccumulateParamsSize)
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(weight))
	binary.LittleEndian.PutUint32(buf[4:], width)
	binary.LittleEndian.PutUint32(buf[8:], height)
	return buf
}

func putMat4(dst []byte, m mgl32.Mat4) {
	putFloats(dst, m[:])
}

func putFloats(dst []byte, v []float32) {
	for i, f := range v {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(f))
	}
}
