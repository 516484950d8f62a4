// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	"fmt"

	"github.com/haze-ml/haze/internal/tensor"
)

// MulScalar multiplies every element by a scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	return cpu.scalarOp("mulscalar", x, func(v float32) float32 { return v * scalar })
}

// AddScalar adds a scalar to every element.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	return cpu.scalarOp("addscalar", x, func(v float32) float32 { return v + scalar })
}

func (cpu *CPUBackend) scalarOp(name string, x *tensor.RawTensor, fn func(float32) float32) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, x.DType()))
	}

	result, err := tensor.NewRaw(x.Shape(), tensor.Float32, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}

	xData := x.AsFloat32()
	outData := result.AsFloat32()
	for i, v := range xData {
		outData[i] = fn(v)
	}
	return result
}
