// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package ops

import "github.com/haze-ml/haze/internal/tensor"

// ReLUOp represents the rectified linear unit: output = max(0, x).
//
// Backward: d(ReLU(x))/dx = 1 where x > 0, else 0.
type ReLUOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewReLUOp creates a new ReLUOp.
func NewReLUOp(input, output *tensor.RawTensor) *ReLUOp {
	return &ReLUOp{input: input, output: output}
}

// Backward masks the output gradient with the positive region of the input.
func (op *ReLUOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	gradInput := mustNewFloat32(op.input.Shape(), op.input.Device())

	inputData := op.input.AsFloat32()
	gradData := outputGrad.AsFloat32()
	outData := gradInput.AsFloat32()

	for i, v := range inputData {
		if v > 0 {
			outData[i] = gradData[i]
		}
	}

	return []*tensor.RawTensor{gradInput}
}

// Inputs returns the input tensor [x].
func (op *ReLUOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor max(0, x).
func (op *ReLUOp) Output() *tensor.RawTensor { return op.output }

// ReLUForward computes max(0, x) element-wise.
func ReLUForward(x *tensor.RawTensor, device tensor.Device) *tensor.RawTensor {
	result := mustNewFloat32(x.Shape(), device)

	xData := x.AsFloat32()
	resData := result.AsFloat32()
	for i, v := range xData {
		if v > 0 {
			resData[i] = v
		}
	}

	return result
}
