// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package data provides the dataset and batch-iteration collaborators for
// training: an in-memory labeled image dataset, a restartable shuffled
// batch loader, an IDX-format MNIST reader, and a synthetic dataset for
// tests and demos.
package data

import (
	"fmt"
	"math/rand"
)

// Dataset holds flattened images and their integer class labels in memory.
type Dataset struct {
	Images     [][]float32 // [num_samples][input_width], values in [0, 1]
	Labels     []int32     // [num_samples], values in [0, NumClasses)
	InputWidth int
	NumClasses int
}

// NumSamples returns the total number of samples.
func (d *Dataset) NumSamples() int {
	return len(d.Images)
}

// Validate checks the dataset invariants: every image has InputWidth
// elements and every label lies in [0, NumClasses).
func (d *Dataset) Validate() error {
	if len(d.Images) != len(d.Labels) {
		return fmt.Errorf("image count (%d) != label count (%d)", len(d.Images), len(d.Labels))
	}
	for i, img := range d.Images {
		if len(img) != d.InputWidth {
			return fmt.Errorf("image %d has %d elements, want %d", i, len(img), d.InputWidth)
		}
	}
	for i, label := range d.Labels {
		if label < 0 || int(label) >= d.NumClasses {
			return fmt.Errorf("label %d out of range [0, %d) at sample %d", label, d.NumClasses, i)
		}
	}
	return nil
}

// Split divides the dataset into train and validation sets.
//
// validationRatio is the fraction held out for validation (e.g. 0.2).
func (d *Dataset) Split(validationRatio float32) (*Dataset, *Dataset) {
	splitIdx := int(float32(d.NumSamples()) * (1.0 - validationRatio))

	train := &Dataset{
		Images:     d.Images[:splitIdx],
		Labels:     d.Labels[:splitIdx],
		InputWidth: d.InputWidth,
		NumClasses: d.NumClasses,
	}
	val := &Dataset{
		Images:     d.Images[splitIdx:],
		Labels:     d.Labels[splitIdx:],
		InputWidth: d.InputWidth,
		NumClasses: d.NumClasses,
	}
	return train, val
}

// Synthetic generates a deterministic synthetic classification dataset.
//
// Each class gets a distinct bright stripe pattern over a noisy background,
// separable enough for a small MLP to learn within a few epochs. Used by
// tests and as the default when no real dataset is on disk.
func Synthetic(numSamples, inputWidth, numClasses int, rng *rand.Rand) *Dataset {
	images := make([][]float32, numSamples)
	labels := make([]int32, numSamples)

	stripe := inputWidth / numClasses
	for i := 0; i < numSamples; i++ {
		label := int32(i % numClasses)
		labels[i] = label

		img := make([]float32, inputWidth)
		for j := range img {
			img[j] = rng.Float32() * 0.1
		}
		start := int(label) * stripe
		for j := start; j < start+stripe && j < inputWidth; j++ {
			img[j] = 0.8 + rng.Float32()*0.2
		}
		images[i] = img
	}

	return &Dataset{
		Images:     images,
		Labels:     labels,
		InputWidth: inputWidth,
		NumClasses: numClasses,
	}
}
