// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package data_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haze-ml/haze/internal/data"
)

// writeIDXFixtures writes tiny valid IDX train files into dir: numSamples
// 2x2 images with labels cycling through 0..9.
func writeIDXFixtures(t *testing.T, dir string, numSamples int) {
	t.Helper()

	var images []byte
	images = binary.BigEndian.AppendUint32(images, 2051)
	images = binary.BigEndian.AppendUint32(images, uint32(numSamples))
	images = binary.BigEndian.AppendUint32(images, 2)
	images = binary.BigEndian.AppendUint32(images, 2)
	for i := 0; i < numSamples; i++ {
		images = append(images, byte(i), 255, 0, 128)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "train-images-idx3-ubyte"), images, 0o644))

	var labels []byte
	labels = binary.BigEndian.AppendUint32(labels, 2049)
	labels = binary.BigEndian.AppendUint32(labels, uint32(numSamples))
	for i := 0; i < numSamples; i++ {
		labels = append(labels, byte(i%10))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "train-labels-idx1-ubyte"), labels, 0o644))
}

func TestLoadMNIST(t *testing.T) {
	dir := t.TempDir()
	writeIDXFixtures(t, dir, 12)

	ds, err := data.LoadMNIST(dir, true, 0)
	require.NoError(t, err)
	require.NoError(t, ds.Validate())

	assert.Equal(t, 12, ds.NumSamples())
	assert.Equal(t, 4, ds.InputWidth)
	assert.Equal(t, 10, ds.NumClasses)

	// Pixels are normalized to [0, 1].
	assert.InDelta(t, 0.0, ds.Images[0][0], 1e-6)
	assert.InDelta(t, 1.0, ds.Images[0][1], 1e-6)
	assert.InDelta(t, 128.0/255.0, ds.Images[0][3], 1e-6)

	assert.Equal(t, int32(0), ds.Labels[0])
	assert.Equal(t, int32(11%10), ds.Labels[11])
}

func TestLoadMNIST_MaxSamples(t *testing.T) {
	dir := t.TempDir()
	writeIDXFixtures(t, dir, 12)

	ds, err := data.LoadMNIST(dir, true, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, ds.NumSamples())
}

func TestLoadMNIST_MissingFiles(t *testing.T) {
	_, err := data.LoadMNIST(t.TempDir(), true, 0)
	assert.Error(t, err)
}

func TestLoadMNIST_BadMagic(t *testing.T) {
	dir := t.TempDir()
	writeIDXFixtures(t, dir, 2)

	// Corrupt the image magic number.
	path := filepath.Join(dir, "train-images-idx3-ubyte")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	binary.BigEndian.PutUint32(raw[:4], 9999)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	_, err = data.LoadMNIST(dir, true, 0)
	assert.ErrorContains(t, err, "magic")
}
