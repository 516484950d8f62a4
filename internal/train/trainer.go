// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package train implements the epoch/batch training loop.
//
// The loop is strictly sequential. Per batch it runs the fixed sequence:
// zero gradients → forward → loss → backward → accumulate into stores →
// optimizer step, and per epoch it reports the mean loss over all batches.
// Failures (shape mismatches, out-of-range labels) surface as panics from
// the numeric core; there is no retry or recovery. A NaN loss is not
// detected here and propagates into reporting.
package train

import (
	"errors"
	"log"
	"time"

	"github.com/haze-ml/haze/internal/autodiff"
	"github.com/haze-ml/haze/internal/data"
	"github.com/haze-ml/haze/internal/nn"
	"github.com/haze-ml/haze/internal/optim"
	"github.com/haze-ml/haze/internal/tensor"
)

// Criterion reduces (model output, integer labels) to one scalar loss per
// batch. Both nn.CrossEntropyLoss and nn.NLLLoss satisfy it.
type Criterion[B tensor.Backend] interface {
	Forward(output *tensor.Tensor[float32, B], targets *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B]
}

// Config holds the training loop knobs.
type Config struct {
	Epochs   int
	LogEvery int  // log every N epochs (default 1)
	Quiet    bool // suppress per-epoch logging (for tests)
}

// Trainer drives the epoch loop over a model, criterion, optimizer and
// batch loader.
type Trainer[B autodiff.BackwardCapable] struct {
	backend   B
	model     nn.Module[B]
	criterion Criterion[B]
	optimizer optim.Optimizer
	loader    *data.Loader[B]
}

// New creates a Trainer wiring together the collaborators.
func New[B autodiff.BackwardCapable](
	backend B,
	model nn.Module[B],
	criterion Criterion[B],
	optimizer optim.Optimizer,
	loader *data.Loader[B],
) *Trainer[B] {
	return &Trainer[B]{
		backend:   backend,
		model:     model,
		criterion: criterion,
		optimizer: optimizer,
		loader:    loader,
	}
}

// Run trains for the configured number of epochs and returns per-epoch
// statistics. One epoch is one full traversal of the loader, reshuffled on
// Reset, with no repeats and no skips.
func (t *Trainer[B]) Run(cfg Config) ([]EpochStats, error) {
	if cfg.Epochs <= 0 {
		return nil, errors.New("train: epochs must be > 0")
	}
	logEvery := cfg.LogEvery
	if logEvery <= 0 {
		logEvery = 1
	}

	tape := t.backend.GetTape()
	tape.StartRecording()
	defer tape.StopRecording()

	stats := make([]EpochStats, 0, cfg.Epochs)
	var meter Meter

	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		start := time.Now()
		meter.Reset()
		t.loader.Reset()

		for t.loader.Next() {
			loss := t.trainStep(t.loader.Batch())
			meter.Add(float64(loss))
		}

		es := EpochStats{
			Epoch:    epoch,
			MeanLoss: meter.Mean(),
			Batches:  meter.Count(),
			Duration: time.Since(start),
		}
		stats = append(stats, es)

		if !cfg.Quiet && epoch%logEvery == 0 {
			log.Printf("epoch=%d batches=%d mean_loss=%.4f elapsed=%s",
				es.Epoch, es.Batches, es.MeanLoss, es.Duration.Round(time.Millisecond))
		}
	}

	return stats, nil
}

// trainStep runs the per-batch sequence and returns the batch loss.
func (t *Trainer[B]) trainStep(batch *data.Batch[B]) float32 {
	t.optimizer.ZeroGrad()

	tape := t.backend.GetTape()
	tape.Clear()

	output := t.model.Forward(batch.Images)
	loss := t.criterion.Forward(output, batch.Labels)

	grads := autodiff.Backward(loss, t.backend)
	nn.AccumulateGradients(t.model.Parameters(), grads)

	t.optimizer.Step()

	return loss.Item()
}

// Evaluate runs one full pass over the loader under NoGrad and returns the
// classification accuracy. No graph is built, and parameter gradient
// stores are left untouched.
func Evaluate[B autodiff.BackwardCapable](backend B, model nn.Module[B], loader *data.Loader[B]) float64 {
	correct, total := 0, 0

	backend.GetTape().NoGrad(func() {
		loader.Reset()
		for loader.Next() {
			batch := loader.Batch()
			output := model.Forward(batch.Images)
			predictions := tensor.Argmax(output)

			labels := batch.Labels.Data()
			for i, pred := range predictions {
				if int32(pred) == labels[i] {
					correct++
				}
				total++
			}
		}
	})

	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}
