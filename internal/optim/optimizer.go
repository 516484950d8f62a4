// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim implements optimization algorithms for training.
//
// An Optimizer owns a set of parameters and applies update rules using the
// gradients currently held in each parameter's gradient store. It never
// computes gradients itself; the autodiff backward pass populates the
// stores first (see nn.AccumulateGradients).
//
// Training loop shape:
//
//	optimizer.ZeroGrad()
//	loss := criterion.Forward(model.Forward(batch), labels)
//	grads := autodiff.Backward(loss, backend)
//	nn.AccumulateGradients(model.Parameters(), grads)
//	optimizer.Step()
package optim

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies one parameter update using currently stored gradients.
	Step()

	// ZeroGrad resets every tracked parameter's gradient store to zero.
	// Must be called before each backward pass: gradient stores
	// accumulate, so stale gradients would leak into the next update.
	ZeroGrad()

	// LR returns the current learning rate.
	LR() float32
}
