// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu implements the pure-Go CPU compute backend.
//
// All operations allocate fresh result tensors; inputs are never modified
// in place. The autodiff decorator depends on that: it keys gradients on
// input tensor identity.
package cpu

import (
	"github.com/haze-ml/haze/internal/tensor"
)

// CPUBackend is the reference compute backend.
type CPUBackend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{device: tensor.CPU}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}
