// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "math/rand"

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy), b.Device())
	if err != nil {
		panic(err)
	}
	return New[T, B](raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return Full[T, B](shape, 1, b)
}

// Full creates a tensor filled with a specific value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Randn creates a float32 tensor filled with values from the standard
// normal distribution N(0, 1), drawn from the given source.
//
// The random source is passed explicitly so weight initialization is
// reproducible under a fixed seed.
func Randn[B Backend](shape Shape, rng *rand.Rand, b B) *Tensor[float32, B] {
	t := Zeros[float32, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = float32(rng.NormFloat64())
	}
	return t
}

// Rand creates a float32 tensor filled with values from the uniform
// distribution U(0, 1), drawn from the given source.
func Rand[B Backend](shape Shape, rng *rand.Rand, b B) *Tensor[float32, B] {
	t := Zeros[float32, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = rng.Float32()
	}
	return t
}
