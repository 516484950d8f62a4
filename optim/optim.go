// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimizers for training neural networks.
//
// Optimizers read gradients from parameter stores filled by a preceding
// backward pass. They never trigger backward themselves.
//
// Example:
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.003})
//
//	optimizer.ZeroGrad()
//	loss := criterion.Forward(model.Forward(input), targets)
//	grads := autodiff.Backward(loss, backend)
//	nn.AccumulateGradients(model.Parameters(), grads)
//	optimizer.Step()
package optim

import (
	"github.com/haze-ml/haze/internal/nn"
	"github.com/haze-ml/haze/internal/optim"
	"github.com/haze-ml/haze/tensor"
)

// Optimizer is the common interface for all optimizers.
type Optimizer = optim.Optimizer

// SGD implements plain stochastic gradient descent.
type SGD[B tensor.Backend] = optim.SGD[B]

// SGDConfig configures an SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates an SGD optimizer over the given parameters.
func NewSGD[B tensor.Backend](params []*nn.Parameter[B], config SGDConfig) *SGD[B] {
	return optim.NewSGD(params, config)
}
