// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

// Backend defines the interface that compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - cpu.CPUBackend: pure Go reference implementation
//   - autodiff.AutodiffBackend: decorator adding gradient-tape recording
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// MatMul performs 2D matrix multiplication: (M, K) @ (K, N) -> (M, N).
	MatMul(a, b *RawTensor) *RawTensor

	// Shape operations. Both return new tensors; inputs are never modified
	// in place (the autodiff tape depends on stable input identity).
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Scalar operations (element-wise with a scalar operand).
	MulScalar(x *RawTensor, scalar float32) *RawTensor
	AddScalar(x *RawTensor, scalar float32) *RawTensor

	// Name returns the backend name (for logging and tests).
	Name() string

	// Device returns the compute device backing this backend.
	Device() Device
}
