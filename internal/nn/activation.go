// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/haze-ml/haze/internal/tensor"
)

// ReLUBackend is the interface for backends that support ReLU.
type ReLUBackend interface {
	ReLU(*tensor.RawTensor) *tensor.RawTensor
}

// LogSoftmaxBackend is the interface for backends that support LogSoftmax.
type LogSoftmaxBackend interface {
	LogSoftmax(*tensor.RawTensor) *tensor.RawTensor
}

// ReLU is the rectified linear unit activation: f(x) = max(0, x).
//
// Stateless; owns no parameters.
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a new ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return &ReLU[B]{}
}

// Forward applies ReLU element-wise.
func (r *ReLU[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	reluBackend, ok := any(backend).(ReLUBackend)
	if !ok {
		panic("ReLU: backend must implement ReLU (use autodiff.AutodiffBackend)")
	}
	return tensor.New[float32, B](reluBackend.ReLU(input.Raw()), backend)
}

// Parameters returns nil (ReLU has no trainable parameters).
func (r *ReLU[B]) Parameters() []*Parameter[B] {
	return nil
}

// LogSoftmax applies log of the row-normalized exponential along the class
// dimension of a [batch_size, num_classes] tensor, so that each row sums to
// probability 1 after exponentiation.
//
// As a model head it pairs with NLLLoss; the combination is mathematically
// equivalent to raw logits with CrossEntropyLoss.
type LogSoftmax[B tensor.Backend] struct{}

// NewLogSoftmax creates a new LogSoftmax module.
func NewLogSoftmax[B tensor.Backend]() *LogSoftmax[B] {
	return &LogSoftmax[B]{}
}

// Forward applies log-softmax along the last dimension.
func (l *LogSoftmax[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	lsBackend, ok := any(backend).(LogSoftmaxBackend)
	if !ok {
		panic("LogSoftmax: backend must implement LogSoftmax (use autodiff.AutodiffBackend)")
	}
	return tensor.New[float32, B](lsBackend.LogSoftmax(input.Raw()), backend)
}

// Parameters returns nil (LogSoftmax has no trainable parameters).
func (l *LogSoftmax[B]) Parameters() []*Parameter[B] {
	return nil
}
