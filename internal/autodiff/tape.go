// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package autodiff

import (
	"github.com/haze-ml/haze/internal/autodiff/ops"
	"github.com/haze-ml/haze/internal/tensor"
)

// GradientTape records operations during the forward pass and computes
// gradients during the backward pass using reverse-mode automatic
// differentiation.
//
// Usage:
//
//	tape := NewGradientTape()
//	tape.StartRecording()
//	// ... forward pass ...
//	gradients := tape.Backward(outputGrad, backend)
type GradientTape struct {
	operations []ops.Operation // Recorded operations (in execution order)
	recording  bool
}

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return &GradientTape{
		operations: make([]ops.Operation, 0, 64),
		recording:  false,
	}
}

// StartRecording enables operation recording.
func (t *GradientTape) StartRecording() {
	t.recording = true
}

// StopRecording disables operation recording.
func (t *GradientTape) StopRecording() {
	t.recording = false
}

// IsRecording returns true if the tape is currently recording operations.
func (t *GradientTape) IsRecording() bool {
	return t.recording
}

// Record adds an operation to the tape.
// Only records if the tape is currently recording.
func (t *GradientTape) Record(op ops.Operation) {
	if t.recording {
		t.operations = append(t.operations, op)
	}
}

// Clear resets the tape, removing all recorded operations.
// Recording state is preserved so the tape can be cleared between batches
// without stopping recording.
func (t *GradientTape) Clear() {
	t.operations = t.operations[:0]
}

// NumOps returns the number of recorded operations.
func (t *GradientTape) NumOps() int {
	return len(t.operations)
}

// NoGrad runs fn with recording disabled and restores the prior recording
// mode on every exit path, including panics.
//
// This is the inference scope: forward passes inside fn build no graph and
// leave gradient state untouched.
//
//	tape.NoGrad(func() {
//	    logits := model.Forward(batch)
//	    // ... evaluate ...
//	})
func (t *GradientTape) NoGrad(fn func()) {
	prev := t.recording
	t.recording = false
	defer func() {
		t.recording = prev
	}()
	fn()
}

// Backward computes gradients for all inputs by walking the tape in reverse.
//
// Algorithm:
//  1. Seed the gradient of the root output (typically ones for scalar loss)
//  2. Walk operations in reverse order
//  3. For each operation, compute input gradients via the chain rule
//  4. Accumulate (add) gradients when the same tensor feeds multiple ops
//
// Returns a map from RawTensor to its accumulated gradient.
func (t *GradientTape) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) map[*tensor.RawTensor]*tensor.RawTensor {
	grads := make(map[*tensor.RawTensor]*tensor.RawTensor)
	if len(t.operations) == 0 {
		return grads
	}

	// Stop recording during backward so gradient arithmetic is not itself
	// recorded on the tape.
	wasRecording := t.recording
	t.recording = false
	defer func() {
		t.recording = wasRecording
	}()

	lastOp := t.operations[len(t.operations)-1]
	grads[lastOp.Output()] = outputGrad

	for i := len(t.operations) - 1; i >= 0; i-- {
		op := t.operations[i]

		opOutputGrad, hasGrad := grads[op.Output()]
		if !hasGrad {
			continue
		}

		inputGrads := op.Backward(opOutputGrad, backend)
		accumulateGrads(op, inputGrads, grads, backend)
	}

	return grads
}

// accumulateGrads adds each input gradient into the gradient map.
func accumulateGrads(
	op ops.Operation,
	inputGrads []*tensor.RawTensor,
	grads map[*tensor.RawTensor]*tensor.RawTensor,
	backend tensor.Backend,
) {
	inputs := op.Inputs()
	for j, input := range inputs {
		if j >= len(inputGrads) {
			break
		}
		inputGrad := inputGrads[j]
		if inputGrad == nil {
			continue
		}
		if existing, ok := grads[input]; ok {
			grads[input] = backend.Add(existing, inputGrad)
		} else {
			grads[input] = inputGrad
		}
	}
}
