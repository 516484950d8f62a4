// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package ops

import (
	"fmt"
	"math"

	"github.com/haze-ml/haze/internal/tensor"
)

// reduceBroadcast reduces a gradient tensor to match the target input shape.
// Needed when broadcasting was used in the forward pass: the gradient of a
// broadcast input is the sum of the output gradient over the expanded
// dimensions.
//
// Example:
//
//	Forward:  a[1,4] + b[3,4] -> c[3,4]  (a broadcast along dim 0)
//	Backward: grad_c[3,4] -> grad_a[1,4] (sum along dim 0)
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	gradShape := grad.Shape()

	// Clone when shapes already match so accumulation never aliases the
	// upstream gradient buffer.
	if gradShape.Equal(targetShape) {
		return grad.Clone()
	}

	// Broadcasting aligns shapes from the right; leading extra dimensions
	// of the gradient are summed away first.
	result := grad
	for len(result.Shape()) > len(targetShape) {
		result = sumAlongDimension(result, 0)
	}

	// Then sum along dimensions where the target is 1.
	resShape := result.Shape()
	for i := 0; i < len(targetShape); i++ {
		if targetShape[i] == 1 && resShape[i] > 1 {
			result = sumAlongDimension(result, i)
			resShape = result.Shape()
		}
	}

	if !result.Shape().Equal(targetShape) {
		result = backend.Reshape(result, targetShape)
	}
	return result
}

// sumAlongDimension sums a float32 tensor along one dimension, keeping that
// dimension with size 1.
func sumAlongDimension(t *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := t.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("sumAlongDimension: dim %d out of range for shape %v", dim, shape))
	}

	outShape := shape.Clone()
	outShape[dim] = 1

	result, err := tensor.NewRaw(outShape, tensor.Float32, t.Device())
	if err != nil {
		panic(fmt.Sprintf("sumAlongDimension: %v", err))
	}

	// View the tensor as [outer, dimSize, inner].
	outer, inner := 1, 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}
	dimSize := shape[dim]

	src := t.AsFloat32()
	dst := result.AsFloat32()

	for o := 0; o < outer; o++ {
		for d := 0; d < dimSize; d++ {
			base := (o*dimSize + d) * inner
			out := o * inner
			for in := 0; in < inner; in++ {
				dst[out+in] += src[base+in]
			}
		}
	}

	return result
}

// logSoftmaxRow computes log-softmax for one row using the log-sum-exp
// trick: log_softmax(z) = z - (max(z) + log(Σ exp(z - max(z)))).
func logSoftmaxRow(logits []float32, out []float32) {
	maxVal := logits[0]
	for _, v := range logits[1:] {
		if v > maxVal {
			maxVal = v
		}
	}

	sumExp := float32(0)
	for _, v := range logits {
		sumExp += float32(math.Exp(float64(v - maxVal)))
	}
	logSumExp := maxVal + float32(math.Log(float64(sumExp)))

	for i, v := range logits {
		out[i] = v - logSumExp
	}
}

// softmaxRow computes softmax for one row with max-shifting for stability.
func softmaxRow(logits []float32, out []float32) {
	maxVal := logits[0]
	for _, v := range logits[1:] {
		if v > maxVal {
			maxVal = v
		}
	}

	sumExp := float32(0)
	for i, v := range logits {
		out[i] = float32(math.Exp(float64(v - maxVal)))
		sumExp += out[i]
	}
	for i := range out {
		out[i] /= sumExp
	}
}

// mustNewFloat32 allocates a float32 RawTensor or panics.
func mustNewFloat32(shape tensor.Shape, device tensor.Device) *tensor.RawTensor {
	t, err := tensor.NewRaw(shape, tensor.Float32, device)
	if err != nil {
		panic(err)
	}
	return t
}
