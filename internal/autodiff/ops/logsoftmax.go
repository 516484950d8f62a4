// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package ops

import "github.com/haze-ml/haze/internal/tensor"

// LogSoftmaxOp represents log-softmax along the class dimension of a
// [batch_size, num_classes] tensor.
//
// Forward (per row, with the log-sum-exp trick):
//
//	log_softmax(z)_i = z_i - (max(z) + log(Σ_j exp(z_j - max(z))))
//
// Backward (per row):
//
//	∂L/∂z_j = g_j - softmax(z)_j * Σ_i g_i
type LogSoftmaxOp struct {
	input  *tensor.RawTensor // logits [batch_size, num_classes]
	output *tensor.RawTensor // log-probabilities, same shape
}

// NewLogSoftmaxOp creates a new LogSoftmaxOp.
func NewLogSoftmaxOp(input, output *tensor.RawTensor) *LogSoftmaxOp {
	return &LogSoftmaxOp{input: input, output: output}
}

// Backward computes the input gradient row by row.
func (op *LogSoftmaxOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	shape := op.input.Shape()
	if len(shape) != 2 {
		panic("LogSoftmaxOp: backward only supports 2D input [batch_size, num_classes]")
	}
	batchSize, numClasses := shape[0], shape[1]

	gradInput := mustNewFloat32(shape, op.input.Device())

	inputData := op.input.AsFloat32()
	gradData := outputGrad.AsFloat32()
	outData := gradInput.AsFloat32()

	probs := make([]float32, numClasses)
	for b := 0; b < batchSize; b++ {
		row := inputData[b*numClasses : (b+1)*numClasses]
		gradRow := gradData[b*numClasses : (b+1)*numClasses]
		softmaxRow(row, probs)

		gradSum := float32(0)
		for _, g := range gradRow {
			gradSum += g
		}
		for i := 0; i < numClasses; i++ {
			outData[b*numClasses+i] = gradRow[i] - probs[i]*gradSum
		}
	}

	return []*tensor.RawTensor{gradInput}
}

// Inputs returns the input tensor.
func (op *LogSoftmaxOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the log-probability tensor.
func (op *LogSoftmaxOp) Output() *tensor.RawTensor { return op.output }

// LogSoftmaxForward computes log-softmax along the last dimension of a
// [batch_size, num_classes] tensor.
func LogSoftmaxForward(x *tensor.RawTensor, device tensor.Device) *tensor.RawTensor {
	shape := x.Shape()
	if len(shape) != 2 {
		panic("LogSoftmaxForward: input must be 2D [batch_size, num_classes]")
	}
	batchSize, numClasses := shape[0], shape[1]

	result := mustNewFloat32(shape, device)
	xData := x.AsFloat32()
	outData := result.AsFloat32()

	for b := 0; b < batchSize; b++ {
		logSoftmaxRow(xData[b*numClasses:(b+1)*numClasses], outData[b*numClasses:(b+1)*numClasses])
	}

	return result
}

// SoftmaxForward computes softmax along the last dimension of a
// [batch_size, num_classes] tensor. Used for inference-time probabilities.
func SoftmaxForward(x *tensor.RawTensor, device tensor.Device) *tensor.RawTensor {
	shape := x.Shape()
	if len(shape) != 2 {
		panic("SoftmaxForward: input must be 2D [batch_size, num_classes]")
	}
	batchSize, numClasses := shape[0], shape[1]

	result := mustNewFloat32(shape, device)
	xData := x.AsFloat32()
	outData := result.AsFloat32()

	for b := 0; b < batchSize; b++ {
		softmaxRow(xData[b*numClasses:(b+1)*numClasses], outData[b*numClasses:(b+1)*numClasses])
	}

	return result
}
