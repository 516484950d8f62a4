// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package display renders images and class probabilities as terminal text.
package display

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// ramp maps pixel intensity (0..1) to increasingly dense glyphs.
var ramp = []rune(" .:-=+*#%@")

// Image writes an ASCII rendering of a square grayscale image. Pixel
// values are expected in [0,1]; values outside are clamped. Returns an
// error if the pixel count is not a perfect square.
func Image(w io.Writer, pixels []float32) error {
	side := int(math.Sqrt(float64(len(pixels))))
	if side*side != len(pixels) {
		return fmt.Errorf("display: %d pixels is not a square image", len(pixels))
	}

	var sb strings.Builder
	for row := 0; row < side; row++ {
		for col := 0; col < side; col++ {
			v := pixels[row*side+col]
			if v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			idx := int(v * float32(len(ramp)-1))
			sb.WriteRune(ramp[idx])
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Probabilities writes one bar per class, marking the argmax.
func Probabilities(w io.Writer, probs []float32) error {
	const barWidth = 40

	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}

	var sb strings.Builder
	for i, p := range probs {
		if p < 0 {
			p = 0
		} else if p > 1 {
			p = 1
		}
		filled := int(p * barWidth)
		marker := " "
		if i == best {
			marker = "<"
		}
		fmt.Fprintf(&sb, "%2d [%-*s] %6.2f%% %s\n",
			i, barWidth, strings.Repeat("=", filled), p*100, marker)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Prediction renders an image followed by its class probabilities.
func Prediction(w io.Writer, pixels []float32, probs []float32) error {
	if err := Image(w, pixels); err != nil {
		return err
	}
	return Probabilities(w, probs)
}
