// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package data

import (
	"fmt"
	"math/rand"

	"github.com/haze-ml/haze/internal/tensor"
)

// Batch is one mini-batch of training data.
type Batch[B tensor.Backend] struct {
	Images *tensor.Tensor[float32, B] // [size, input_width]
	Labels *tensor.Tensor[int32, B]   // [size]
	Size   int
}

// Loader is a restartable iterator over a dataset in shuffled mini-batches.
//
// Sample order is reshuffled once per epoch (on Reset) from the loader's
// seeded random source. Every sample appears exactly once per epoch; the
// final batch may be smaller when the dataset size is not a multiple of
// the batch size.
//
//	loader := data.NewLoader(ds, 64, rng, backend)
//	for epoch := 0; epoch < epochs; epoch++ {
//	    loader.Reset()
//	    for loader.Next() {
//	        batch := loader.Batch()
//	        // ...
//	    }
//	}
type Loader[B tensor.Backend] struct {
	dataset   *Dataset
	batchSize int
	rng       *rand.Rand
	backend   B

	indices []int
	cursor  int
	current *Batch[B]
}

// NewLoader creates a loader over the dataset. Call Reset before the first
// epoch; it shuffles the sample order.
func NewLoader[B tensor.Backend](dataset *Dataset, batchSize int, rng *rand.Rand, backend B) (*Loader[B], error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("loader: batch size must be > 0, got %d", batchSize)
	}
	if err := dataset.Validate(); err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	if dataset.NumSamples() == 0 {
		return nil, fmt.Errorf("loader: dataset is empty")
	}

	indices := make([]int, dataset.NumSamples())
	for i := range indices {
		indices[i] = i
	}

	return &Loader[B]{
		dataset:   dataset,
		batchSize: batchSize,
		rng:       rng,
		backend:   backend,
		indices:   indices,
	}, nil
}

// Reset rewinds the loader to the start of a new epoch and reshuffles the
// sample order.
func (l *Loader[B]) Reset() {
	l.rng.Shuffle(len(l.indices), func(i, j int) {
		l.indices[i], l.indices[j] = l.indices[j], l.indices[i]
	})
	l.cursor = 0
	l.current = nil
}

// Next advances to the next batch. Returns false when the epoch is
// exhausted; call Reset to start a new epoch.
func (l *Loader[B]) Next() bool {
	if l.cursor >= len(l.indices) {
		l.current = nil
		return false
	}

	end := l.cursor + l.batchSize
	if end > len(l.indices) {
		end = len(l.indices)
	}

	l.current = l.materialize(l.indices[l.cursor:end])
	l.cursor = end
	return true
}

// Batch returns the current batch. Only valid after Next returned true.
func (l *Loader[B]) Batch() *Batch[B] {
	if l.current == nil {
		panic("loader: Batch called before Next (or after epoch end)")
	}
	return l.current
}

// NumBatches returns the number of batches per epoch.
func (l *Loader[B]) NumBatches() int {
	return (len(l.indices) + l.batchSize - 1) / l.batchSize
}

// materialize copies the selected samples into fresh batch tensors.
func (l *Loader[B]) materialize(indices []int) *Batch[B] {
	size := len(indices)
	width := l.dataset.InputWidth

	imagesRaw, err := tensor.NewRaw(tensor.Shape{size, width}, tensor.Float32, l.backend.Device())
	if err != nil {
		panic(fmt.Sprintf("loader: failed to create images tensor: %v", err))
	}
	labelsRaw, err := tensor.NewRaw(tensor.Shape{size}, tensor.Int32, l.backend.Device())
	if err != nil {
		panic(fmt.Sprintf("loader: failed to create labels tensor: %v", err))
	}

	imagesData := imagesRaw.AsFloat32()
	labelsData := labelsRaw.AsInt32()
	for i, idx := range indices {
		copy(imagesData[i*width:(i+1)*width], l.dataset.Images[idx])
		labelsData[i] = l.dataset.Labels[idx]
	}

	return &Batch[B]{
		Images: tensor.New[float32, B](imagesRaw, l.backend),
		Labels: tensor.New[int32, B](labelsRaw, l.backend),
		Size:   size,
	}
}
