// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	"fmt"

	"github.com/haze-ml/haze/internal/tensor"
)

// MatMul performs 2D matrix multiplication: (M, K) @ (K, N) -> (M, N).
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: only 2D tensors supported, got %dD and %dD", len(aShape), len(bShape)))
	}
	if a.DType() != tensor.Float32 || b.DType() != tensor.Float32 {
		panic(fmt.Sprintf("matmul: unsupported dtypes %s, %s", a.DType(), b.DType()))
	}

	m, k := aShape[0], aShape[1]
	kAlt, n := bShape[0], bShape[1]
	if k != kAlt {
		panic(fmt.Sprintf("matmul: shape mismatch [%d,%d] @ [%d,%d]", m, k, kAlt, n))
	}

	result, err := tensor.NewRaw(tensor.Shape{m, n}, tensor.Float32, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("matmul: failed to create result tensor: %v", err))
	}

	matmulFloat32(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), m, k, n)
	return result
}

// matmulFloat32 computes C[i,j] = sum_k A[i,k] * B[k,j].
// The k-inner loop iterates a row of B contiguously for cache friendliness.
func matmulFloat32(c, a, b []float32, m, k, n int) {
	for i := 0; i < m; i++ {
		cRow := c[i*n : (i+1)*n]
		for kIdx := 0; kIdx < k; kIdx++ {
			aVal := a[i*k+kIdx]
			if aVal == 0 {
				continue
			}
			bRow := b[kIdx*n : (kIdx+1)*n]
			for j, bVal := range bRow {
				cRow[j] += aVal * bVal
			}
		}
	}
}
