// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"math/rand"
	"testing"

	"github.com/haze-ml/haze/autodiff"
	"github.com/haze-ml/haze/backend/cpu"
	"github.com/haze-ml/haze/nn"
	"github.com/haze-ml/haze/optim"
	"github.com/haze-ml/haze/tensor"
)

type backendT = *autodiff.AutodiffBackend[*cpu.Backend]

// TestTrainingStep exercises the public API for one full optimization
// step: forward, loss, backward, gradient accumulation, parameter update.
func TestTrainingStep(t *testing.T) {
	backend := autodiff.New(cpu.New())
	rng := rand.New(rand.NewSource(42))

	model := nn.NewSequential[backendT](
		nn.NewLinear(4, 8, rng, backend),
		nn.NewReLU[backendT](),
		nn.NewLinear(8, 3, rng, backend),
	)
	criterion := nn.NewCrossEntropyLoss(backend)
	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.1})

	input, err := tensor.FromSlice([]float32{
		1, 0, 0, 1,
		0, 1, 1, 0,
	}, tensor.Shape{2, 4}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	targets, err := tensor.FromSlice([]int32{0, 2}, tensor.Shape{2}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	backend.GetTape().StartRecording()
	defer backend.GetTape().StopRecording()

	lossBefore := float32(0)
	for step := 0; step < 5; step++ {
		optimizer.ZeroGrad()
		backend.GetTape().Clear()

		loss := criterion.Forward(model.Forward(input), targets)
		if step == 0 {
			lossBefore = loss.Item()
		}

		grads := autodiff.Backward(loss, backend)
		nn.AccumulateGradients(model.Parameters(), grads)
		optimizer.Step()
	}

	backend.GetTape().Clear()
	lossAfter := criterion.Forward(model.Forward(input), targets).Item()
	if lossAfter >= lossBefore {
		t.Errorf("loss did not decrease: before %v, after %v", lossBefore, lossAfter)
	}
}

// TestLossConventions verifies the two loss formulations agree through
// the public API.
func TestLossConventions(t *testing.T) {
	backend := autodiff.New(cpu.New())

	logits, _ := tensor.FromSlice([]float32{1, 2, 3, -1, 0, 1}, tensor.Shape{2, 3}, backend)
	targets, _ := tensor.FromSlice([]int32{2, 0}, tensor.Shape{2}, backend)

	fused := nn.NewCrossEntropyLoss(backend).Forward(logits, targets).Item()
	composed := nn.NewNLLLoss(backend).Forward(
		nn.NewLogSoftmax[backendT]().Forward(logits), targets).Item()

	diff := fused - composed
	if diff < 0 {
		diff = -diff
	}
	if diff > 1e-5 {
		t.Errorf("CrossEntropy %v vs LogSoftmax+NLL %v differ beyond 1e-5", fused, composed)
	}
}
