// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package ops defines the differentiable operations recorded on the
// gradient tape.
//
// Each operation captures its inputs and output during the forward pass and
// knows how to turn the gradient of its output into gradients of its inputs
// during the backward pass:
//   - AddOp/SubOp/MulOp/DivOp: element-wise arithmetic with broadcasting
//   - MatMulOp: d(A@B)/dA = grad@B^T, d(A@B)/dB = A^T@grad
//   - ReLUOp: passes gradient where the input was positive
//   - ReshapeOp/TransposeOp: route gradients back through shape changes
//   - LogSoftmaxOp: log of row-normalized exponentials
//   - NLLOp: mean negative log-likelihood over a batch
//   - CrossEntropyOp: fused log-softmax + NLL
package ops

import "github.com/haze-ml/haze/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
// The tape records operations in execution order and replays them in
// reverse to backpropagate gradients.
type Operation interface {
	// Backward computes gradients for inputs given the output gradient.
	// The returned slice corresponds element-wise to Inputs(); a nil entry
	// means no gradient flows to that input (e.g. integer labels).
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors of this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}
