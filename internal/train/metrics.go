// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package train

import "time"

// Meter accumulates a running mean of a scalar metric across batches.
type Meter struct {
	sum   float64
	count int
}

// Add records one observation.
func (m *Meter) Add(v float64) {
	m.sum += v
	m.count++
}

// Mean returns the mean of all recorded observations (0 when empty).
func (m *Meter) Mean() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}

// Count returns the number of recorded observations.
func (m *Meter) Count() int {
	return m.count
}

// Reset clears the meter for the next epoch.
func (m *Meter) Reset() {
	m.sum = 0
	m.count = 0
}

// EpochStats summarizes one completed epoch.
type EpochStats struct {
	Epoch    int
	MeanLoss float64
	Batches  int
	Duration time.Duration
}
