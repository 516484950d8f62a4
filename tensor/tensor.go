// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for tensor operations.
//
// The package defines the core types for type-safe tensor math:
//   - Tensor[T, B]: high-level generic tensor
//   - RawTensor: untyped tensor storage
//   - Backend: interface for compute implementations
//   - Shape, DataType, Device: core type definitions
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	z := x.Add(y)
package tensor

import (
	"math/rand"

	"github.com/haze-ml/haze/internal/tensor"
)

// DType is a constraint for tensor element types.
type DType = tensor.DType

// DataType identifies the runtime data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Int32   DataType = tensor.Int32
)

// Device represents the device where tensor data resides.
type Device = tensor.Device

// CPU is the only supported device.
const CPU Device = tensor.CPU

// Shape represents the dimensions of a tensor.
type Shape = tensor.Shape

// RawTensor is the untyped tensor storage shared by all backends.
type RawTensor = tensor.RawTensor

// Backend is the interface every compute backend implements.
type Backend = tensor.Backend

// Tensor is a generic tensor with element type T computed by backend B.
type Tensor[T DType, B Backend] = tensor.Tensor[T, B]

// NewRaw allocates zeroed untyped storage for the given shape and dtype.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// New wraps a RawTensor in a typed Tensor.
func New[T DType, B Backend](raw *RawTensor, backend B) *Tensor[T, B] {
	return tensor.New[T](raw, backend)
}

// FromSlice creates a tensor from a flat slice and a shape.
func FromSlice[T DType, B Backend](data []T, shape Shape, backend B) (*Tensor[T, B], error) {
	return tensor.FromSlice(data, shape, backend)
}

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](shape Shape, backend B) *Tensor[T, B] {
	return tensor.Zeros[T](shape, backend)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, backend B) *Tensor[T, B] {
	return tensor.Ones[T](shape, backend)
}

// Full creates a tensor filled with the given value.
func Full[T DType, B Backend](shape Shape, value T, backend B) *Tensor[T, B] {
	return tensor.Full(shape, value, backend)
}

// Randn creates a float32 tensor with standard normal entries drawn from rng.
func Randn[B Backend](shape Shape, rng *rand.Rand, backend B) *Tensor[float32, B] {
	return tensor.Randn(shape, rng, backend)
}

// Rand creates a float32 tensor with uniform [0,1) entries drawn from rng.
func Rand[B Backend](shape Shape, rng *rand.Rand, backend B) *Tensor[float32, B] {
	return tensor.Rand(shape, rng, backend)
}

// Argmax returns the index of the maximum entry in each row of a 2D tensor.
func Argmax[B Backend](t *Tensor[float32, B]) []int {
	return tensor.Argmax(t)
}

// BroadcastShapes computes the broadcast result shape of a and b. The
// boolean reports whether any dimension actually needs broadcasting.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}
