// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the core tensor types used throughout Haze.
package tensor

// DType is a constraint for supported tensor data types.
//
// Haze is a classification trainer: float32 carries activations, weights
// and gradients, int32 carries class labels.
type DType interface {
	~float32 | ~int32
}

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types.
const (
	Float32 DataType = iota
	Int32
)

// Size returns the byte size of one element of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Int32:
		return "int32"
	default:
		return "unknown"
	}
}

// inferDataType infers DataType from a generic type T.
func inferDataType[T DType](dummy T) DataType {
	switch any(dummy).(type) {
	case float32:
		return Float32
	case int32:
		return Int32
	default:
		panic("unsupported type")
	}
}
