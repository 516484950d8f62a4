// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/haze-ml/haze/internal/tensor"
)

// CrossEntropyBackend is the interface for backends that provide the fused
// cross-entropy loss.
type CrossEntropyBackend interface {
	CrossEntropy(logits, targets *tensor.RawTensor) *tensor.RawTensor
}

// NLLBackend is the interface for backends that provide the plain negative
// log-likelihood loss.
type NLLBackend interface {
	NLL(logProbs, targets *tensor.RawTensor) *tensor.RawTensor
}

// CrossEntropyLoss reduces (raw logits, integer labels) to one scalar per
// batch: mean(-log_softmax(logits)[target]).
//
// The log-softmax and negative log-likelihood are fused in a single
// operation using the log-sum-exp trick, which keeps the computation stable
// when logits are large (float32 exp overflows past ~88) or all strongly
// negative.
//
// Usage:
//
//	criterion := nn.NewCrossEntropyLoss(backend)
//	loss := criterion.Forward(model.Forward(batch), labels)
type CrossEntropyLoss[B tensor.Backend] struct {
	backend B
}

// NewCrossEntropyLoss creates a new cross-entropy loss criterion.
func NewCrossEntropyLoss[B tensor.Backend](backend B) *CrossEntropyLoss[B] {
	return &CrossEntropyLoss[B]{backend: backend}
}

// Forward computes the scalar mean loss over the batch.
//
// Parameters:
//   - logits: raw scores [batch_size, num_classes]
//   - targets: class indices [batch_size], values in [0, num_classes)
//
// Panics if the batch sizes mismatch or a label is out of range.
func (c *CrossEntropyLoss[B]) Forward(
	logits *tensor.Tensor[float32, B],
	targets *tensor.Tensor[int32, B],
) *tensor.Tensor[float32, B] {
	ceBackend, ok := any(c.backend).(CrossEntropyBackend)
	if !ok {
		panic("CrossEntropyLoss: backend must implement CrossEntropy (use autodiff.AutodiffBackend)")
	}
	return tensor.New[float32, B](ceBackend.CrossEntropy(logits.Raw(), targets.Raw()), c.backend)
}

// NLLLoss reduces (log-probabilities, integer labels) to one scalar per
// batch: mean(-logProbs[target]).
//
// It only selects and negates; pair it with a LogSoftmax model head. Given
// identical weights, LogSoftmax + NLLLoss and raw logits + CrossEntropyLoss
// produce numerically equal losses up to float32 rounding.
type NLLLoss[B tensor.Backend] struct {
	backend B
}

// NewNLLLoss creates a new negative log-likelihood loss criterion.
func NewNLLLoss[B tensor.Backend](backend B) *NLLLoss[B] {
	return &NLLLoss[B]{backend: backend}
}

// Forward computes the scalar mean loss over the batch.
//
// Parameters:
//   - logProbs: log-probabilities [batch_size, num_classes]
//   - targets: class indices [batch_size], values in [0, num_classes)
func (n *NLLLoss[B]) Forward(
	logProbs *tensor.Tensor[float32, B],
	targets *tensor.Tensor[int32, B],
) *tensor.Tensor[float32, B] {
	nllBackend, ok := any(n.backend).(NLLBackend)
	if !ok {
		panic("NLLLoss: backend must implement NLL (use autodiff.AutodiffBackend)")
	}
	return tensor.New[float32, B](nllBackend.NLL(logProbs.Raw(), targets.Raw()), n.backend)
}
