// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation.
//
// AutodiffBackend wraps a compute backend and records every differentiable
// operation onto a gradient tape. Backward walks the tape in reverse and
// returns gradients keyed by tensor identity.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	backend.GetTape().StartRecording()
//
//	x, _ := tensor.FromSlice([]float32{2}, tensor.Shape{1}, backend)
//	y := x.Mul(x)
//	grads := autodiff.Backward(y, backend)
//	// grads[x.Raw()] holds dy/dx = 4
package autodiff

import (
	"github.com/haze-ml/haze/internal/autodiff"
	"github.com/haze-ml/haze/tensor"
)

// AutodiffBackend wraps a backend with gradient tape recording.
type AutodiffBackend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// GradientTape records operations for reverse-mode differentiation.
type GradientTape = autodiff.GradientTape

// BackwardCapable is the constraint for backends that expose a tape.
type BackwardCapable = autodiff.BackwardCapable

// New wraps an inner backend with autodiff capability.
func New[B tensor.Backend](backend B) *AutodiffBackend[B] {
	return autodiff.New(backend)
}

// Backward runs reverse-mode differentiation from t and returns the
// gradient of t with respect to every tensor on the tape.
func Backward[B BackwardCapable](t *tensor.Tensor[float32, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.Backward(t, backend)
}
