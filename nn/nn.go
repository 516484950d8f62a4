// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers and building blocks.
//
// The package contains:
//   - Layers: Linear
//   - Activations: ReLU, LogSoftmax
//   - Loss functions: CrossEntropyLoss, NLLLoss
//   - Utilities: Sequential, Module interface, Parameter
//   - Initialization: Xavier, Zeros
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	rng := rand.New(rand.NewSource(42))
//
//	model := nn.NewSequential(
//	    nn.NewLinear(784, 128, rng, backend),
//	    nn.NewReLU[*autodiff.AutodiffBackend[*cpu.Backend]](),
//	    nn.NewLinear(128, 10, rng, backend),
//	)
package nn

import (
	"math/rand"

	"github.com/haze-ml/haze/internal/nn"
	"github.com/haze-ml/haze/tensor"
)

// Module is the common interface for all neural network modules.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter is a trainable tensor paired with its gradient store.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a named parameter with a zeroed gradient store.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// AccumulateGradients routes a backward gradient map into the gradient
// stores of params. Gradients add to whatever the stores already hold.
func AccumulateGradients[B tensor.Backend](params []*Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) {
	nn.AccumulateGradients(params, grads)
}

// Layers

// Linear is a fully connected layer computing x@Wᵀ + b.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a linear layer with Xavier-initialized weights.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, rng *rand.Rand, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, rng, backend)
}

// Activations

// ReLU is the rectified linear unit activation.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a ReLU activation layer.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// LogSoftmax computes rowwise log-softmax over 2D inputs.
type LogSoftmax[B tensor.Backend] = nn.LogSoftmax[B]

// NewLogSoftmax creates a LogSoftmax layer.
func NewLogSoftmax[B tensor.Backend]() *LogSoftmax[B] {
	return nn.NewLogSoftmax[B]()
}

// Containers

// Sequential chains modules, feeding each output into the next module.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a sequential container from the given modules.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// Losses

// CrossEntropyLoss fuses log-softmax and negative log-likelihood over
// raw logits.
type CrossEntropyLoss[B tensor.Backend] = nn.CrossEntropyLoss[B]

// NewCrossEntropyLoss creates a cross-entropy criterion.
func NewCrossEntropyLoss[B tensor.Backend](backend B) *CrossEntropyLoss[B] {
	return nn.NewCrossEntropyLoss(backend)
}

// NLLLoss is the negative log-likelihood over log-probabilities.
type NLLLoss[B tensor.Backend] = nn.NLLLoss[B]

// NewNLLLoss creates a negative log-likelihood criterion.
func NewNLLLoss[B tensor.Backend](backend B) *NLLLoss[B] {
	return nn.NewNLLLoss(backend)
}

// Initialization

// Xavier returns a tensor initialized with Glorot uniform values.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, rng, backend)
}

// Zeros returns a zero-initialized float32 tensor.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Zeros(shape, backend)
}
