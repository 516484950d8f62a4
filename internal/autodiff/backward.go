// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package autodiff

import (
	"fmt"

	"github.com/haze-ml/haze/internal/tensor"
)

// BackwardCapable is an interface for backends that support the backward
// pass. AutodiffBackend implements it.
type BackwardCapable interface {
	tensor.Backend
	// GetTape returns the gradient tape for backward computation.
	GetTape() *GradientTape
}

// GetTape returns the gradient tape (implements BackwardCapable).
func (b *AutodiffBackend[B]) GetTape() *GradientTape {
	return b.tape
}

// Backward computes gradients of t with respect to every tensor recorded on
// the backend's tape.
//
// The root gradient is seeded with ones, so t is typically the scalar loss.
// Returns a map from RawTensor identity to its accumulated gradient.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	loss := criterion.Forward(model.Forward(batch), labels)
//	grads := autodiff.Backward(loss, backend)
func Backward[B BackwardCapable](t *tensor.Tensor[float32, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	tape := backend.GetTape()

	if tape.NumOps() == 0 {
		panic("backward: no operations recorded (did you forget to call Tape().StartRecording()?)")
	}

	outputGrad, err := tensor.NewRaw(t.Shape(), tensor.Float32, backend.Device())
	if err != nil {
		panic(fmt.Sprintf("backward: failed to create output gradient: %v", err))
	}
	data := outputGrad.AsFloat32()
	for i := range data {
		data[i] = 1.0
	}

	return tape.Backward(outputGrad, backend)
}
