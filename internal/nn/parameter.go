// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"fmt"

	"github.com/haze-ml/haze/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network: a weight
// tensor plus a same-shape gradient store.
//
// The gradient store has ACCUMULATION semantics: AccumulateGrad adds into
// it, and only ZeroGrad resets it. Forgetting to zero between batches lets
// gradients from the previous batch silently leak into the next update.
type Parameter[B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[float32, B]
	grad   *tensor.Tensor[float32, B] // same shape as tensor, always allocated
}

// NewParameter creates a new trainable parameter with a zeroed gradient
// store of the same shape.
//
// Parameters:
//   - name: descriptive name (e.g. "linear1.weight")
//   - t: the initialized parameter tensor
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{
		name:   name,
		tensor: t,
		grad:   tensor.Zeros[float32, B](t.Shape(), t.Backend()),
	}
}

// Name returns the parameter name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] {
	return p.tensor
}

// Grad returns the gradient store.
func (p *Parameter[B]) Grad() *tensor.Tensor[float32, B] {
	return p.grad
}

// AccumulateGrad adds a gradient into the store (accumulate, not overwrite).
func (p *Parameter[B]) AccumulateGrad(grad *tensor.RawTensor) {
	if !grad.Shape().Equal(p.tensor.Shape()) {
		panic(fmt.Sprintf("parameter %q: gradient shape %v does not match parameter shape %v",
			p.name, grad.Shape(), p.tensor.Shape()))
	}

	dst := p.grad.Data()
	src := grad.AsFloat32()
	for i, v := range src {
		dst[i] += v
	}
}

// SetGrad overwrites the gradient store.
func (p *Parameter[B]) SetGrad(grad *tensor.RawTensor) {
	if !grad.Shape().Equal(p.tensor.Shape()) {
		panic(fmt.Sprintf("parameter %q: gradient shape %v does not match parameter shape %v",
			p.name, grad.Shape(), p.tensor.Shape()))
	}
	copy(p.grad.Data(), grad.AsFloat32())
}

// ZeroGrad resets the gradient store to zero in place.
//
// Must be called before each backward pass to avoid accumulating gradients
// across batches.
func (p *Parameter[B]) ZeroGrad() {
	data := p.grad.Data()
	for i := range data {
		data[i] = 0
	}
}

// AccumulateGradients routes a backward-pass gradient map into the
// parameters' gradient stores. Parameters absent from the map (not part of
// the recorded graph) are skipped.
func AccumulateGradients[B tensor.Backend](params []*Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) {
	for _, param := range params {
		if grad, ok := grads[param.Tensor().Raw()]; ok {
			param.AccumulateGrad(grad)
		}
	}
}
