// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/haze-ml/haze/internal/nn"
	"github.com/haze-ml/haze/internal/tensor"
)

// SGD implements stochastic gradient descent.
//
// Update rule:
//
//	param ← param − lr × param.grad
//
// Example:
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.003})
//
//	for epoch := 0; epoch < epochs; epoch++ {
//	    for loader.Next() {
//	        optimizer.ZeroGrad()
//	        // forward, loss, backward, accumulate
//	        optimizer.Step()
//	    }
//	}
type SGD[B tensor.Backend] struct {
	params []*nn.Parameter[B]
	lr     float32
}

// SGDConfig holds configuration for the SGD optimizer.
type SGDConfig struct {
	LR float32 // Learning rate (default: 0.01)
}

// NewSGD creates a new SGD optimizer over the given parameters.
func NewSGD[B tensor.Backend](params []*nn.Parameter[B], config SGDConfig) *SGD[B] {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD[B]{
		params: params,
		lr:     config.LR,
	}
}

// Step applies param ← param − lr × grad elementwise to every parameter,
// using the gradients currently held in the stores.
func (s *SGD[B]) Step() {
	for _, param := range s.params {
		paramData := param.Tensor().Data()
		gradData := param.Grad().Data()
		for i := range paramData {
			paramData[i] -= s.lr * gradData[i]
		}
	}
}

// ZeroGrad resets every parameter's gradient store to zero.
func (s *SGD[B]) ZeroGrad() {
	for _, param := range s.params {
		param.ZeroGrad()
	}
}

// LR returns the current learning rate.
func (s *SGD[B]) LR() float32 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD[B]) SetLR(lr float32) {
	s.lr = lr
}
