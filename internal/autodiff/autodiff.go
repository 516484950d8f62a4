// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff implements reverse-mode automatic differentiation using
// the decorator pattern.
//
// AutodiffBackend wraps any tensor.Backend and adds gradient tracking
// through a GradientTape:
//   - Decorator: AutodiffBackend[B] forwards computation to the inner backend
//   - GradientTape: records operations during the forward pass
//   - ops.Operation: each op knows its own backward pass
//
// Usage:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//
//	x, _ := tensor.FromSlice([]float32{2.0}, tensor.Shape{1}, backend)
//	y := x.Mul(x) // y = x², recorded on tape
//
//	grads := autodiff.Backward(y, backend)
//	// grads[x.Raw()] holds dy/dx = 2x = 4.0
package autodiff

import (
	"github.com/haze-ml/haze/internal/autodiff/ops"
	"github.com/haze-ml/haze/internal/tensor"
)

// AutodiffBackend wraps a Backend and adds automatic differentiation.
// It implements tensor.Backend and records operations on a GradientTape.
type AutodiffBackend[B tensor.Backend] struct {
	inner B
	tape  *GradientTape
}

// New creates a new AutodiffBackend wrapping the given backend.
func New[B tensor.Backend](backend B) *AutodiffBackend[B] {
	return &AutodiffBackend[B]{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for manual control: starting/stopping
// recording, clearing between batches, or scoping inference with NoGrad.
func (b *AutodiffBackend[B]) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped backend for direct access.
func (b *AutodiffBackend[B]) Inner() B {
	return b.inner
}

// Name returns the backend name.
func (b *AutodiffBackend[B]) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Device returns the compute device.
func (b *AutodiffBackend[B]) Device() tensor.Device {
	return b.inner.Device()
}

// Add performs element-wise addition and records the operation.
func (b *AutodiffBackend[B]) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Add(x, y)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewAddOp(x, y, result))
	}
	return result
}

// Sub performs element-wise subtraction and records the operation.
func (b *AutodiffBackend[B]) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sub(x, y)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSubOp(x, y, result))
	}
	return result
}

// Mul performs element-wise multiplication and records the operation.
func (b *AutodiffBackend[B]) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Mul(x, y)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewMulOp(x, y, result))
	}
	return result
}

// Div performs element-wise division and records the operation.
func (b *AutodiffBackend[B]) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Div(x, y)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewDivOp(x, y, result))
	}
	return result
}

// MatMul performs matrix multiplication and records the operation.
func (b *AutodiffBackend[B]) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.MatMul(x, y)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewMatMulOp(x, y, result))
	}
	return result
}

// Reshape reshapes a tensor and records the operation.
// Recording is required: the backend returns a fresh tensor, and gradients
// must flow back to the original (e.g. a bias reshaped for broadcasting).
func (b *AutodiffBackend[B]) Reshape(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	result := b.inner.Reshape(x, newShape)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewReshapeOp(x, result))
	}
	return result
}

// Transpose transposes a tensor and records the operation.
// Recording is required: a Linear layer transposes its weight before the
// matmul, and without a TransposeOp the gradient would stop at the
// transposed copy instead of reaching the weight parameter.
func (b *AutodiffBackend[B]) Transpose(x *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	ndim := len(x.Shape())
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	result := b.inner.Transpose(x, axes...)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewTransposeOp(x, result, axes))
	}
	return result
}

// MulScalar multiplies by a scalar. Not recorded: it is only used by
// gradient arithmetic and optimizer updates, never inside a recorded
// forward pass.
func (b *AutodiffBackend[B]) MulScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	return b.inner.MulScalar(x, scalar)
}

// AddScalar adds a scalar. Not recorded, same as MulScalar.
func (b *AutodiffBackend[B]) AddScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	return b.inner.AddScalar(x, scalar)
}

// ReLU applies max(0, x) and records the operation.
func (b *AutodiffBackend[B]) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	result := ops.ReLUForward(x, b.Device())
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewReLUOp(x, result))
	}
	return result
}

// LogSoftmax applies log-softmax along the class dimension and records the
// operation.
func (b *AutodiffBackend[B]) LogSoftmax(x *tensor.RawTensor) *tensor.RawTensor {
	result := ops.LogSoftmaxForward(x, b.Device())
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewLogSoftmaxOp(x, result))
	}
	return result
}

// Softmax applies softmax along the class dimension. Not recorded: it is
// an inference-time convenience for probability readouts; training uses
// LogSoftmax or the fused CrossEntropy.
func (b *AutodiffBackend[B]) Softmax(x *tensor.RawTensor) *tensor.RawTensor {
	return ops.SoftmaxForward(x, b.Device())
}

// CrossEntropy computes the fused cross-entropy loss and records the
// operation.
//
// Parameters:
//   - logits: model predictions [batch_size, num_classes]
//   - targets: ground-truth class indices [batch_size]
//
// Returns the scalar mean loss over the batch.
func (b *AutodiffBackend[B]) CrossEntropy(logits, targets *tensor.RawTensor) *tensor.RawTensor {
	result := ops.CrossEntropyForward(logits, targets, b.Device())
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewCrossEntropyOp(logits, targets, result))
	}
	return result
}

// NLL computes the plain negative log-likelihood loss over log-probabilities
// and records the operation.
func (b *AutodiffBackend[B]) NLL(logProbs, targets *tensor.RawTensor) *tensor.RawTensor {
	result := ops.NLLForward(logProbs, targets, b.Device())
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewNLLOp(logProbs, targets, result))
	}
	return result
}
