// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"fmt"
	"math/rand"

	"github.com/haze-ml/haze/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the affine transform y = x @ W^T + b where:
//   - x is the input with shape [batch_size, in_features]
//   - W is the weight matrix [out_features, in_features]
//   - b is the bias vector [out_features]
//   - y is the output [batch_size, out_features]
//
// Weights use Xavier/Glorot initialization, biases start at zero.
//
// Example:
//
//	rng := rand.New(rand.NewSource(42))
//	layer := nn.NewLinear(784, 128, rng, backend)
//	output := layer.Forward(input) // [batch_size, 128]
type Linear[B tensor.Backend] struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter[B] // [out_features, in_features]
	bias        *Parameter[B] // [out_features]
}

// NewLinear creates a new Linear layer with seeded initialization.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, rng *rand.Rand, backend B) *Linear[B] {
	weightShape := tensor.Shape{outFeatures, inFeatures}
	weight := NewParameter("weight", Xavier(inFeatures, outFeatures, weightShape, rng, backend))

	bias := NewParameter("bias", Zeros(tensor.Shape{outFeatures}, backend))

	return &Linear[B]{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      weight,
		bias:        bias,
	}
}

// Forward computes y = x @ W^T + b.
//
// Input shape: [batch_size, in_features], output: [batch_size, out_features].
// Panics on shape mismatch; a wrong input width is a programming error, not
// a recoverable condition.
func (l *Linear[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	inputShape := input.Shape()
	if len(inputShape) != 2 {
		panic(fmt.Sprintf("Linear.Forward: expected 2D input [batch, features], got shape %v", inputShape))
	}
	if inputShape[1] != l.inFeatures {
		panic(fmt.Sprintf("Linear.Forward: expected input with %d features, got %d", l.inFeatures, inputShape[1]))
	}

	// [batch, in] @ [in, out] = [batch, out]
	wT := l.weight.Tensor().Transpose()
	output := input.MatMul(wT)

	// Broadcast bias [out] as [1, out] across the batch.
	bReshaped := l.bias.Tensor().Reshape(1, l.outFeatures)
	return output.Add(bReshaped)
}

// Parameters returns [weight, bias].
func (l *Linear[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Linear[B]) Weight() *Parameter[B] {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Linear[B]) Bias() *Parameter[B] {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear[B]) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear[B]) OutFeatures() int {
	return l.outFeatures
}
