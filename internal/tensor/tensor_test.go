// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "testing"

// fakeBackend satisfies Backend without doing any math. Tensor accessor
// tests never dispatch compute operations.
type fakeBackend struct{}

func (fakeBackend) Add(x, y *RawTensor) *RawTensor                { return x }
func (fakeBackend) Sub(x, y *RawTensor) *RawTensor                { return x }
func (fakeBackend) Mul(x, y *RawTensor) *RawTensor                { return x }
func (fakeBackend) Div(x, y *RawTensor) *RawTensor                { return x }
func (fakeBackend) MatMul(x, y *RawTensor) *RawTensor             { return x }
func (fakeBackend) Reshape(x *RawTensor, s Shape) *RawTensor      { return x }
func (fakeBackend) Transpose(x *RawTensor, axes ...int) *RawTensor { return x }
func (fakeBackend) MulScalar(x *RawTensor, s float32) *RawTensor  { return x }
func (fakeBackend) AddScalar(x *RawTensor, s float32) *RawTensor  { return x }
func (fakeBackend) Name() string                                  { return "Fake" }
func (fakeBackend) Device() Device                                { return CPU }

func TestNewRaw(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	if !raw.Shape().Equal(Shape{2, 3}) {
		t.Errorf("shape = %v, want [2 3]", raw.Shape())
	}
	if raw.DType() != Float32 {
		t.Errorf("dtype = %v, want Float32", raw.DType())
	}
	data := raw.AsFloat32()
	if len(data) != 6 {
		t.Fatalf("len(AsFloat32()) = %d, want 6", len(data))
	}
	for i, v := range data {
		if v != 0 {
			t.Errorf("data[%d] = %f, want 0 (fresh tensors are zeroed)", i, v)
		}
	}
}

func TestNewRaw_InvalidShape(t *testing.T) {
	if _, err := NewRaw(Shape{2, 0}, Float32, CPU); err == nil {
		t.Error("NewRaw with zero dimension should fail")
	}
}

func TestRawTensor_Clone(t *testing.T) {
	raw, _ := NewRaw(Shape{3}, Float32, CPU)
	raw.AsFloat32()[0] = 1.5

	clone := raw.Clone()
	if clone == raw {
		t.Fatal("Clone must return a distinct tensor identity")
	}
	if clone.AsFloat32()[0] != 1.5 {
		t.Error("Clone must copy data")
	}

	clone.AsFloat32()[0] = 9
	if raw.AsFloat32()[0] != 1.5 {
		t.Error("mutating a clone must not affect the original")
	}
}

func TestFromSlice(t *testing.T) {
	b := fakeBackend{}
	x, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, b)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	if x.NumElements() != 6 {
		t.Errorf("NumElements() = %d, want 6", x.NumElements())
	}
	if got := x.At(1, 2); got != 6 {
		t.Errorf("At(1,2) = %v, want 6", got)
	}
	if got := x.At(0, 1); got != 2 {
		t.Errorf("At(0,1) = %v, want 2", got)
	}
}

func TestFromSlice_LengthMismatch(t *testing.T) {
	b := fakeBackend{}
	if _, err := FromSlice([]float32{1, 2, 3}, Shape{2, 2}, b); err == nil {
		t.Error("FromSlice with mismatched length should fail")
	}
}

func TestFromSlice_Int32(t *testing.T) {
	b := fakeBackend{}
	x, err := FromSlice([]int32{7, 8}, Shape{2}, b)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	if x.DType() != Int32 {
		t.Errorf("DType() = %v, want Int32", x.DType())
	}
	if got := x.Data(); got[0] != 7 || got[1] != 8 {
		t.Errorf("Data() = %v, want [7 8]", got)
	}
}

func TestTensor_SetAndItem(t *testing.T) {
	b := fakeBackend{}
	x := Zeros[float32](Shape{2, 2}, b)
	x.Set(3.5, 1, 0)
	if got := x.At(1, 0); got != 3.5 {
		t.Errorf("At(1,0) = %v, want 3.5", got)
	}

	scalar, _ := FromSlice([]float32{42}, Shape{1}, b)
	if got := scalar.Item(); got != 42 {
		t.Errorf("Item() = %v, want 42", got)
	}
}

func TestTensor_Clone(t *testing.T) {
	b := fakeBackend{}
	x, _ := FromSlice([]float32{1, 2}, Shape{2}, b)
	y := x.Clone()
	if y.Raw() == x.Raw() {
		t.Fatal("Clone must allocate fresh storage")
	}
	y.Set(99, 0)
	if x.At(0) != 1 {
		t.Error("mutating a clone must not affect the original")
	}
}

func TestCreation(t *testing.T) {
	b := fakeBackend{}

	ones := Ones[float32](Shape{3}, b)
	for i := 0; i < 3; i++ {
		if ones.At(i) != 1 {
			t.Errorf("Ones At(%d) = %v, want 1", i, ones.At(i))
		}
	}

	full := Full(Shape{2}, float32(2.5), b)
	if full.At(0) != 2.5 || full.At(1) != 2.5 {
		t.Errorf("Full values = %v, %v, want 2.5", full.At(0), full.At(1))
	}
}
