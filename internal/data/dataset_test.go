// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package data_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haze-ml/haze/internal/data"
)

func TestSynthetic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ds := data.Synthetic(100, 784, 10, rng)

	require.NoError(t, ds.Validate())
	assert.Equal(t, 100, ds.NumSamples())
	assert.Equal(t, 784, ds.InputWidth)
	assert.Equal(t, 10, ds.NumClasses)

	for i, label := range ds.Labels {
		assert.GreaterOrEqual(t, label, int32(0), "label %d", i)
		assert.Less(t, label, int32(10), "label %d", i)
	}
	for i, img := range ds.Images {
		require.Len(t, img, 784, "image %d", i)
	}
}

func TestSynthetic_Deterministic(t *testing.T) {
	a := data.Synthetic(10, 16, 4, rand.New(rand.NewSource(7)))
	b := data.Synthetic(10, 16, 4, rand.New(rand.NewSource(7)))

	assert.Equal(t, a.Labels, b.Labels)
	assert.Equal(t, a.Images, b.Images)
}

func TestSynthetic_ClassSeparation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ds := data.Synthetic(200, 100, 5, rng)

	// Samples of the same class share a bright stripe; their mean inside
	// the stripe must exceed the background noise level.
	for i, img := range ds.Images {
		class := int(ds.Labels[i])
		stripe := ds.InputWidth / ds.NumClasses
		var inside, outside float32
		for j, v := range img {
			if j >= class*stripe && j < (class+1)*stripe {
				inside += v
			} else {
				outside += v
			}
		}
		inside /= float32(stripe)
		outside /= float32(ds.InputWidth - stripe)
		assert.Greater(t, inside, outside, "sample %d class %d", i, class)
	}
}

func TestDataset_Validate(t *testing.T) {
	ds := &data.Dataset{
		Images:     [][]float32{{1, 2}, {3, 4}},
		Labels:     []int32{0, 1},
		InputWidth: 2,
		NumClasses: 2,
	}
	require.NoError(t, ds.Validate())

	bad := &data.Dataset{
		Images:     [][]float32{{1, 2}},
		Labels:     []int32{0, 1},
		InputWidth: 2,
		NumClasses: 2,
	}
	assert.Error(t, bad.Validate(), "image/label count mismatch")

	badLabel := &data.Dataset{
		Images:     [][]float32{{1, 2}},
		Labels:     []int32{5},
		InputWidth: 2,
		NumClasses: 2,
	}
	assert.Error(t, badLabel.Validate(), "label out of range")
}

func TestDataset_Split(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	ds := data.Synthetic(100, 16, 4, rng)

	trainSet, valSet := ds.Split(0.2)
	assert.Equal(t, 80, trainSet.NumSamples())
	assert.Equal(t, 20, valSet.NumSamples())
	assert.Equal(t, ds.InputWidth, trainSet.InputWidth)
	assert.Equal(t, ds.NumClasses, valSet.NumClasses)
}
