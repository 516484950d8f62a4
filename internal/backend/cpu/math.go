// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	"fmt"

	"github.com/haze-ml/haze/internal/tensor"
)

// Add performs element-wise addition with broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("add", a, b, func(x, y float32) float32 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("sub", a, b, func(x, y float32) float32 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("mul", a, b, func(x, y float32) float32 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("div", a, b, func(x, y float32) float32 { return x / y })
}

// binaryOp applies fn element-wise over two float32 tensors, broadcasting
// shapes by NumPy rules.
func (cpu *CPUBackend) binaryOp(name string, a, b *tensor.RawTensor, fn func(x, y float32) float32) *tensor.RawTensor {
	if a.DType() != tensor.Float32 || b.DType() != tensor.Float32 {
		panic(fmt.Sprintf("%s: unsupported dtypes %s, %s", name, a.DType(), b.DType()))
	}

	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	result, err := tensor.NewRaw(outShape, tensor.Float32, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}

	aData := a.AsFloat32()
	bData := b.AsFloat32()
	outData := result.AsFloat32()

	if !needsBroadcast {
		for i := range outData {
			outData[i] = fn(aData[i], bData[i])
		}
		return result
	}

	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)
	idx := make([]int, len(outShape))

	for i := range outData {
		aIdx, bIdx := 0, 0
		for d := range idx {
			aIdx += idx[d] * aStrides[d]
			bIdx += idx[d] * bStrides[d]
		}
		outData[i] = fn(aData[aIdx], bData[bIdx])

		// Advance the multi-dimensional index (row-major order).
		for d := len(idx) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < outShape[d] {
				break
			}
			idx[d] = 0
		}
	}

	return result
}

// broadcastStrides computes per-dimension element strides of src when
// broadcast to dst: dimensions of size 1 (or missing on the left) get
// stride 0 so the same element is reused across the expanded dimension.
func broadcastStrides(src, dst tensor.Shape) []int {
	srcStrides := make([]int, len(src))
	stride := 1
	for i := len(src) - 1; i >= 0; i-- {
		srcStrides[i] = stride
		stride *= src[i]
	}

	strides := make([]int, len(dst))
	offset := len(dst) - len(src)
	for i := range dst {
		srcDim := i - offset
		if srcDim < 0 || src[srcDim] == 1 {
			strides[i] = 0
		} else {
			strides[i] = srcStrides[srcDim]
		}
	}
	return strides
}
