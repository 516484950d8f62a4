// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package ops

import (
	"fmt"

	"github.com/haze-ml/haze/internal/tensor"
)

// CrossEntropyOp represents the fused cross-entropy loss.
//
// Forward:
//
//	Loss = mean(-log_softmax(logits)[targets])
//
// Backward:
//
//	∂L/∂logits[b,i] = (softmax(logits[b])[i] - y_one_hot[b,i]) / batch_size
//
// The fusion avoids materializing probabilities that saturate near 0 or 1
// in float32, which is why logits + fused criterion is the numerically
// preferred output convention.
type CrossEntropyOp struct {
	logits  *tensor.RawTensor // [batch_size, num_classes]
	targets *tensor.RawTensor // [batch_size], int32 class indices
	output  *tensor.RawTensor // scalar loss
}

// NewCrossEntropyOp creates a new cross-entropy operation.
func NewCrossEntropyOp(logits, targets, output *tensor.RawTensor) *CrossEntropyOp {
	return &CrossEntropyOp{logits: logits, targets: targets, output: output}
}

// Inputs returns the differentiable inputs (logits only; integer targets
// carry no gradient).
func (op *CrossEntropyOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.logits} }

// Output returns the scalar loss tensor.
func (op *CrossEntropyOp) Output() *tensor.RawTensor { return op.output }

// Backward computes the gradient with respect to logits.
func (op *CrossEntropyOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	shape := op.logits.Shape()
	if len(shape) != 2 {
		panic("CrossEntropyOp: backward only supports 2D logits [batch_size, num_classes]")
	}
	batchSize, numClasses := shape[0], shape[1]

	gradScale := outputGrad.AsFloat32()[0]

	logitsGrad := mustNewFloat32(shape, op.logits.Device())
	logitsData := op.logits.AsFloat32()
	targetsData := op.targets.AsInt32()
	gradData := logitsGrad.AsFloat32()

	probs := make([]float32, numClasses)
	for b := 0; b < batchSize; b++ {
		softmaxRow(logitsData[b*numClasses:(b+1)*numClasses], probs)

		target := int(targetsData[b])
		for i := 0; i < numClasses; i++ {
			grad := probs[i]
			if i == target {
				grad -= 1.0
			}
			gradData[b*numClasses+i] = gradScale * grad / float32(batchSize)
		}
	}

	return []*tensor.RawTensor{logitsGrad}
}

// CrossEntropyForward computes the fused cross-entropy loss:
// mean over the batch of -log_softmax(logits)[target].
func CrossEntropyForward(logits, targets *tensor.RawTensor, device tensor.Device) *tensor.RawTensor {
	batchSize, numClasses := checkLossShapes("CrossEntropyForward", logits, targets)

	output := mustNewFloat32(tensor.Shape{1}, device)
	logitsData := logits.AsFloat32()
	targetsData := targets.AsInt32()

	logProbs := make([]float32, numClasses)
	totalLoss := float32(0)
	for b := 0; b < batchSize; b++ {
		logSoftmaxRow(logitsData[b*numClasses:(b+1)*numClasses], logProbs)

		target := int(targetsData[b])
		if target < 0 || target >= numClasses {
			panic(fmt.Sprintf("CrossEntropyForward: target %d out of range [0, %d)", target, numClasses))
		}
		totalLoss += -logProbs[target]
	}

	output.AsFloat32()[0] = totalLoss / float32(batchSize)
	return output
}

// NLLOp represents the plain negative log-likelihood loss over
// log-probabilities.
//
// Forward:
//
//	Loss = mean(-logProbs[b, targets[b]])
//
// Backward:
//
//	∂L/∂logProbs[b,i] = -1/batch_size where i == targets[b], else 0
//
// Paired with a LogSoftmax output layer this is mathematically equivalent
// to CrossEntropyOp on raw logits.
type NLLOp struct {
	logProbs *tensor.RawTensor // [batch_size, num_classes]
	targets  *tensor.RawTensor // [batch_size], int32 class indices
	output   *tensor.RawTensor // scalar loss
}

// NewNLLOp creates a new negative log-likelihood operation.
func NewNLLOp(logProbs, targets, output *tensor.RawTensor) *NLLOp {
	return &NLLOp{logProbs: logProbs, targets: targets, output: output}
}

// Inputs returns the differentiable inputs (log-probabilities only).
func (op *NLLOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.logProbs} }

// Output returns the scalar loss tensor.
func (op *NLLOp) Output() *tensor.RawTensor { return op.output }

// Backward routes -1/batch_size to the true-class entries.
func (op *NLLOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	shape := op.logProbs.Shape()
	batchSize, numClasses := shape[0], shape[1]

	gradScale := outputGrad.AsFloat32()[0]

	grad := mustNewFloat32(shape, op.logProbs.Device())
	gradData := grad.AsFloat32()
	targetsData := op.targets.AsInt32()

	for b := 0; b < batchSize; b++ {
		target := int(targetsData[b])
		gradData[b*numClasses+target] = -gradScale / float32(batchSize)
	}

	return []*tensor.RawTensor{grad}
}

// NLLForward computes mean(-logProbs[b, targets[b]]) over the batch.
func NLLForward(logProbs, targets *tensor.RawTensor, device tensor.Device) *tensor.RawTensor {
	batchSize, numClasses := checkLossShapes("NLLForward", logProbs, targets)

	output := mustNewFloat32(tensor.Shape{1}, device)
	data := logProbs.AsFloat32()
	targetsData := targets.AsInt32()

	totalLoss := float32(0)
	for b := 0; b < batchSize; b++ {
		target := int(targetsData[b])
		if target < 0 || target >= numClasses {
			panic(fmt.Sprintf("NLLForward: target %d out of range [0, %d)", target, numClasses))
		}
		totalLoss += -data[b*numClasses+target]
	}

	output.AsFloat32()[0] = totalLoss / float32(batchSize)
	return output
}

// checkLossShapes validates the (output, labels) pair shared by both loss
// conventions.
func checkLossShapes(name string, predictions, targets *tensor.RawTensor) (batchSize, numClasses int) {
	predShape := predictions.Shape()
	if len(predShape) != 2 {
		panic(fmt.Sprintf("%s: predictions must be 2D [batch_size, num_classes], got %v", name, predShape))
	}
	targetShape := targets.Shape()
	if len(targetShape) != 1 {
		panic(fmt.Sprintf("%s: targets must be 1D [batch_size], got %v", name, targetShape))
	}
	if targetShape[0] != predShape[0] {
		panic(fmt.Sprintf("%s: batch size mismatch: predictions %d, targets %d", name, predShape[0], targetShape[0]))
	}
	return predShape[0], predShape[1]
}
