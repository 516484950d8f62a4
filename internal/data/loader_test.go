// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package data_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haze-ml/haze/internal/autodiff"
	"github.com/haze-ml/haze/internal/backend/cpu"
	"github.com/haze-ml/haze/internal/data"
	"github.com/haze-ml/haze/internal/tensor"
)

type testBackend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func newLoader(t *testing.T, numSamples, batchSize int, seed int64) *data.Loader[testBackend] {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	ds := data.Synthetic(numSamples, 16, 4, rng)
	loader, err := data.NewLoader(ds, batchSize, rng, autodiff.New(cpu.New()))
	require.NoError(t, err)
	return loader
}

func TestLoader_NumBatches(t *testing.T) {
	assert.Equal(t, 10, newLoader(t, 640, 64, 1).NumBatches())
	assert.Equal(t, 3, newLoader(t, 100, 40, 1).NumBatches(), "final short batch counts")
	assert.Equal(t, 1, newLoader(t, 10, 64, 1).NumBatches())
}

func TestLoader_EpochCoversEverySampleOnce(t *testing.T) {
	loader := newLoader(t, 100, 32, 42)
	loader.Reset()

	seen := make(map[int32]int)
	total := 0
	for loader.Next() {
		batch := loader.Batch()
		labels := batch.Labels.Data()
		require.Equal(t, batch.Size, len(labels))
		require.True(t, batch.Images.Shape().Equal(tensor.Shape{batch.Size, 16}))
		for _, l := range labels {
			seen[l]++
		}
		total += batch.Size
	}

	assert.Equal(t, 100, total, "one epoch visits every sample exactly once")
	// 100 samples over 4 classes: 25 of each label.
	for label, count := range seen {
		assert.Equal(t, 25, count, "label %d", label)
	}
}

func TestLoader_FinalShortBatch(t *testing.T) {
	loader := newLoader(t, 100, 32, 1)
	loader.Reset()

	sizes := []int{}
	for loader.Next() {
		sizes = append(sizes, loader.Batch().Size)
	}
	assert.Equal(t, []int{32, 32, 32, 4}, sizes)
}

func TestLoader_ResetReshuffles(t *testing.T) {
	loader := newLoader(t, 64, 64, 42)

	epochLabels := func() []int32 {
		loader.Reset()
		require.True(t, loader.Next())
		labels := loader.Batch().Labels.Data()
		out := make([]int32, len(labels))
		copy(out, labels)
		return out
	}

	first := epochLabels()
	second := epochLabels()
	assert.NotEqual(t, first, second, "consecutive epochs should reshuffle")

	counts := func(labels []int32) map[int32]int {
		m := make(map[int32]int)
		for _, l := range labels {
			m[l]++
		}
		return m
	}
	assert.Equal(t, counts(first), counts(second), "reshuffle permutes, never drops")
}

func TestLoader_DeterministicUnderSeed(t *testing.T) {
	collect := func() [][]int32 {
		loader := newLoader(t, 50, 16, 7)
		loader.Reset()
		var out [][]int32
		for loader.Next() {
			labels := loader.Batch().Labels.Data()
			batch := make([]int32, len(labels))
			copy(batch, labels)
			out = append(out, batch)
		}
		return out
	}

	assert.Equal(t, collect(), collect(), "same seed must produce the same batch order")
}

func TestLoader_NextAfterExhaustion(t *testing.T) {
	loader := newLoader(t, 10, 10, 1)
	loader.Reset()

	require.True(t, loader.Next())
	require.False(t, loader.Next())
	require.False(t, loader.Next(), "Next stays false until Reset")

	loader.Reset()
	assert.True(t, loader.Next(), "Reset rewinds the epoch")
}

func TestNewLoader_Validation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	ds := data.Synthetic(10, 16, 4, rng)
	backend := autodiff.New(cpu.New())

	_, err := data.NewLoader(ds, 0, rng, backend)
	assert.Error(t, err, "batch size must be positive")

	empty := &data.Dataset{InputWidth: 16, NumClasses: 4}
	_, err = data.NewLoader(empty, 4, rng, backend)
	assert.Error(t, err, "empty dataset")
}

func TestLoader_BatchTensorsAreFresh(t *testing.T) {
	loader := newLoader(t, 20, 10, 3)
	loader.Reset()

	require.True(t, loader.Next())
	first := loader.Batch().Images.Raw()
	require.True(t, loader.Next())
	second := loader.Batch().Images.Raw()

	assert.NotSame(t, first, second, "each batch materializes fresh tensors")
}
