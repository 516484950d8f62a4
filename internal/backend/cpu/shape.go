// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	"fmt"

	"github.com/haze-ml/haze/internal/tensor"
)

// Reshape returns a new tensor with the same data under a different shape.
// The data is copied so the result has its own identity on the tape.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if newShape.NumElements() != t.NumElements() {
		panic(fmt.Sprintf("reshape: cannot reshape %v to %v: element count mismatch", t.Shape(), newShape))
	}

	result, err := tensor.NewRaw(newShape, t.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("reshape: failed to create result tensor: %v", err))
	}
	copy(result.Data(), t.Data())
	return result
}

// Transpose permutes the dimensions of a tensor.
// If axes is empty, all dimensions are reversed.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: got %d axes for %dD tensor", len(axes), ndim))
	}

	newShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("transpose: axis %d out of range for %dD tensor", ax, ndim))
		}
		newShape[i] = shape[ax]
	}

	result, err := tensor.NewRaw(newShape, t.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("transpose: failed to create result tensor: %v", err))
	}

	if t.DType() != tensor.Float32 {
		panic(fmt.Sprintf("transpose: unsupported dtype %s", t.DType()))
	}

	srcStrides := make([]int, ndim)
	stride := 1
	for i := ndim - 1; i >= 0; i-- {
		srcStrides[i] = stride
		stride *= shape[i]
	}

	src := t.AsFloat32()
	dst := result.AsFloat32()
	idx := make([]int, ndim)

	for i := range dst {
		srcIdx := 0
		for d := range idx {
			srcIdx += idx[d] * srcStrides[axes[d]]
		}
		dst[i] = src[srcIdx]

		for d := ndim - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < newShape[d] {
				break
			}
			idx[d] = 0
		}
	}

	return result
}
