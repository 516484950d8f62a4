// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn implements the neural network building blocks of Haze:
//   - Module interface: base contract for all layers
//   - Parameter: trainable weights with an explicit gradient store
//   - Linear: fully connected layer
//   - ReLU, LogSoftmax: stateless nonlinearities
//   - CrossEntropyLoss, NLLLoss: the two equivalent loss conventions
//   - Sequential: strict in-order layer composition
package nn

import (
	"github.com/haze-ml/haze/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules compose into models:
//
//	model := nn.NewSequential(
//	    nn.NewLinear(784, 128, rng, backend),
//	    nn.NewReLU[B](),
//	    nn.NewLinear(128, 10, rng, backend),
//	)
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module for a batch input.
	// Linear layers expect [batch_size, in_features].
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of this module, in a
	// stable order. Stateless modules return nil.
	Parameters() []*Parameter[B]
}
