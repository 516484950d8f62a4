// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package display_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haze-ml/haze/internal/display"
)

func TestImage(t *testing.T) {
	var sb strings.Builder
	// 2x2 image: dark, dark, bright, bright
	require.NoError(t, display.Image(&sb, []float32{0, 0, 1, 1}))

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "  ", lines[0])
	assert.Equal(t, "@@", lines[1])
}

func TestImage_ClampsOutOfRange(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, display.Image(&sb, []float32{-5, 7, 0, 0}))
	lines := strings.Split(sb.String(), "\n")
	assert.Equal(t, " @", lines[0])
}

func TestImage_NonSquare(t *testing.T) {
	var sb strings.Builder
	assert.Error(t, display.Image(&sb, []float32{0, 0, 0}))
}

func TestProbabilities(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, display.Probabilities(&sb, []float32{0.1, 0.7, 0.2}))

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Contains(t, lines[0], " 0 [")
	assert.Contains(t, lines[1], "70.00%")
	assert.True(t, strings.HasSuffix(lines[1], "<"), "argmax row is marked: %q", lines[1])
	assert.False(t, strings.HasSuffix(lines[0], "<"))
	assert.False(t, strings.HasSuffix(lines[2], "<"))
}

func TestPrediction(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, display.Prediction(&sb, []float32{0, 1, 1, 0}, []float32{0.25, 0.75}))

	out := sb.String()
	assert.Contains(t, out, "@")
	assert.Contains(t, out, "75.00%")
}
