// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package autodiff_test

import (
	"math"
	"testing"

	"github.com/haze-ml/haze/internal/autodiff"
	"github.com/haze-ml/haze/internal/backend/cpu"
	"github.com/haze-ml/haze/internal/tensor"
)

type testBackend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func newBackend() testBackend {
	return autodiff.New(cpu.New())
}

func fromFloat32(t *testing.T, b testBackend, data []float32, shape tensor.Shape) *tensor.Tensor[float32, testBackend] {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, b)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	return x
}

func fromInt32(t *testing.T, b testBackend, data []int32, shape tensor.Shape) *tensor.Tensor[int32, testBackend] {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, b)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	return x
}

func checkGrad(t *testing.T, grads map[*tensor.RawTensor]*tensor.RawTensor, x *tensor.RawTensor, want []float32, eps float32) {
	t.Helper()
	g, ok := grads[x]
	if !ok {
		t.Fatal("no gradient recorded for input")
	}
	data := g.AsFloat32()
	if len(data) != len(want) {
		t.Fatalf("gradient has %d elements, want %d", len(data), len(want))
	}
	for i := range want {
		diff := data[i] - want[i]
		if diff < 0 {
			diff = -diff
		}
		if diff > eps {
			t.Errorf("grad[%d] = %v, want %v", i, data[i], want[i])
		}
	}
}

func TestAutodiffBackend_Name(t *testing.T) {
	b := newBackend()
	if got := b.Name(); got != "Autodiff(CPU)" {
		t.Errorf("Name() = %s, want Autodiff(CPU)", got)
	}
}

func TestTape_Recording(t *testing.T) {
	b := newBackend()
	tape := b.Tape()

	if tape.IsRecording() {
		t.Error("tape should not record before StartRecording")
	}
	tape.StartRecording()
	if !tape.IsRecording() {
		t.Error("tape should record after StartRecording")
	}
	tape.StopRecording()
	if tape.IsRecording() {
		t.Error("tape should not record after StopRecording")
	}
}

func TestTape_RecordsOnlyWhileRecording(t *testing.T) {
	b := newBackend()
	x := fromFloat32(t, b, []float32{1, 2}, tensor.Shape{2})
	y := fromFloat32(t, b, []float32{3, 4}, tensor.Shape{2})

	x.Add(y)
	if n := b.Tape().NumOps(); n != 0 {
		t.Errorf("tape has %d ops without recording, want 0", n)
	}

	b.Tape().StartRecording()
	x.Add(y)
	if n := b.Tape().NumOps(); n != 1 {
		t.Errorf("tape has %d ops after one recorded Add, want 1", n)
	}
}

func TestTape_Clear(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	x := fromFloat32(t, b, []float32{1, 2}, tensor.Shape{2})
	x.Add(x)
	b.Tape().Clear()

	if n := b.Tape().NumOps(); n != 0 {
		t.Errorf("tape has %d ops after Clear, want 0", n)
	}
	if !b.Tape().IsRecording() {
		t.Error("Clear must preserve recording state")
	}
}

func TestNoGrad(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	x := fromFloat32(t, b, []float32{1, 2}, tensor.Shape{2})
	b.Tape().NoGrad(func() {
		x.Add(x)
		if b.Tape().IsRecording() {
			t.Error("tape must not record inside NoGrad")
		}
	})

	if n := b.Tape().NumOps(); n != 0 {
		t.Errorf("tape has %d ops from inside NoGrad, want 0", n)
	}
	if !b.Tape().IsRecording() {
		t.Error("NoGrad must restore recording on exit")
	}
}

func TestNoGrad_RestoresOnPanic(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	func() {
		defer func() { recover() }()
		b.Tape().NoGrad(func() {
			panic("boom")
		})
	}()

	if !b.Tape().IsRecording() {
		t.Error("NoGrad must restore recording even when fn panics")
	}
}

func TestNoGrad_Nested(t *testing.T) {
	b := newBackend()
	b.Tape().NoGrad(func() {
		b.Tape().NoGrad(func() {})
		if b.Tape().IsRecording() {
			t.Error("inner NoGrad must restore to non-recording")
		}
	})
	if b.Tape().IsRecording() {
		t.Error("tape was not recording before NoGrad")
	}
}

func TestBackward_Add(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	x := fromFloat32(t, b, []float32{1, 2}, tensor.Shape{2})
	y := fromFloat32(t, b, []float32{3, 4}, tensor.Shape{2})
	z := x.Add(y)

	grads := autodiff.Backward(z, b)
	checkGrad(t, grads, x.Raw(), []float32{1, 1}, 1e-6)
	checkGrad(t, grads, y.Raw(), []float32{1, 1}, 1e-6)
}

func TestBackward_Mul(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	x := fromFloat32(t, b, []float32{2, 3}, tensor.Shape{2})
	y := fromFloat32(t, b, []float32{5, 7}, tensor.Shape{2})
	z := x.Mul(y)

	grads := autodiff.Backward(z, b)
	checkGrad(t, grads, x.Raw(), []float32{5, 7}, 1e-6)
	checkGrad(t, grads, y.Raw(), []float32{2, 3}, 1e-6)
}

func TestBackward_Div(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	x := fromFloat32(t, b, []float32{6}, tensor.Shape{1})
	y := fromFloat32(t, b, []float32{2}, tensor.Shape{1})
	z := x.Div(y)

	grads := autodiff.Backward(z, b)
	// d(x/y)/dx = 1/y, d(x/y)/dy = -x/y²
	checkGrad(t, grads, x.Raw(), []float32{0.5}, 1e-6)
	checkGrad(t, grads, y.Raw(), []float32{-1.5}, 1e-6)
}

func TestBackward_MatMul(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	a := fromFloat32(t, b, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	w := fromFloat32(t, b, []float32{5, 6, 7, 8}, tensor.Shape{2, 2})
	z := a.MatMul(w)

	grads := autodiff.Backward(z, b)
	// gradA = ones @ Wᵀ, gradW = Aᵀ @ ones
	checkGrad(t, grads, a.Raw(), []float32{11, 15, 11, 15}, 1e-5)
	checkGrad(t, grads, w.Raw(), []float32{4, 4, 6, 6}, 1e-5)
}

func TestBackward_ReLU(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	x := fromFloat32(t, b, []float32{-1, 0, 2}, tensor.Shape{3})
	raw := b.ReLU(x.Raw())
	z := tensor.New[float32](raw, b)

	grads := autodiff.Backward(z, b)
	checkGrad(t, grads, x.Raw(), []float32{0, 0, 1}, 1e-6)
}

func TestBackward_BroadcastBias(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	x := fromFloat32(t, b, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	bias := fromFloat32(t, b, []float32{10, 20, 30}, tensor.Shape{1, 3})
	z := x.Add(bias)

	grads := autodiff.Backward(z, b)
	// bias gradient sums over the broadcast batch dimension
	checkGrad(t, grads, bias.Raw(), []float32{2, 2, 2}, 1e-6)
	checkGrad(t, grads, x.Raw(), []float32{1, 1, 1, 1, 1, 1}, 1e-6)
}

func TestBackward_Chain(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	// z = (x + y) * x with x=3, y=2: dz/dx = 2x + y = 8, dz/dy = x = 3
	x := fromFloat32(t, b, []float32{3}, tensor.Shape{1})
	y := fromFloat32(t, b, []float32{2}, tensor.Shape{1})
	z := x.Add(y).Mul(x)

	grads := autodiff.Backward(z, b)
	checkGrad(t, grads, x.Raw(), []float32{8}, 1e-6)
	checkGrad(t, grads, y.Raw(), []float32{3}, 1e-6)
}

func TestBackward_AccumulatesReusedInput(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	// z = x * x: dz/dx = 2x
	x := fromFloat32(t, b, []float32{4}, tensor.Shape{1})
	z := x.Mul(x)

	grads := autodiff.Backward(z, b)
	checkGrad(t, grads, x.Raw(), []float32{8}, 1e-6)
}

func TestBackward_EmptyTapePanics(t *testing.T) {
	b := newBackend()
	x := fromFloat32(t, b, []float32{1}, tensor.Shape{1})

	defer func() {
		if recover() == nil {
			t.Error("Backward with no recorded ops should panic")
		}
	}()
	autodiff.Backward(x, b)
}

func TestBackward_CrossEntropy(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	logits := fromFloat32(t, b, []float32{2, 1, 0, 1}, tensor.Shape{2, 2})
	targets := fromInt32(t, b, []int32{0, 1}, tensor.Shape{2})

	loss := tensor.New[float32](b.CrossEntropy(logits.Raw(), targets.Raw()), b)
	grads := autodiff.Backward(loss, b)

	// gradient is (softmax - one_hot) / batch
	g, ok := grads[logits.Raw()]
	if !ok {
		t.Fatal("no gradient for logits")
	}
	data := g.AsFloat32()

	softmax := func(a, other float64) float64 {
		return math.Exp(a) / (math.Exp(a) + math.Exp(other))
	}
	want := []float64{
		(softmax(2, 1) - 1) / 2, softmax(1, 2) / 2,
		softmax(0, 1) / 2, (softmax(1, 0) - 1) / 2,
	}
	for i := range want {
		if math.Abs(float64(data[i])-want[i]) > 1e-5 {
			t.Errorf("grad[%d] = %v, want %v", i, data[i], want[i])
		}
	}

	if _, ok := grads[targets.Raw()]; ok {
		t.Error("integer targets must not receive a gradient")
	}
}

// TestFiniteDifference verifies analytic gradients against central
// differences for a two-layer composition over five random points.
func TestFiniteDifference(t *testing.T) {
	const h = 1e-3

	loss := func(b testBackend, xs []float32) float32 {
		x := mustFrom(b, xs, tensor.Shape{1, 3})
		w := mustFrom(b, []float32{0.5, -0.2, 0.1, 0.3, 0.8, -0.6}, tensor.Shape{3, 2})
		hdn := tensor.New[float32](b.ReLU(x.MatMul(w).Raw()), b)
		targets, _ := tensor.FromSlice([]int32{1}, tensor.Shape{1}, b)
		return tensor.New[float32](b.CrossEntropy(hdn.Raw(), targets.Raw()), b).Item()
	}

	points := [][]float32{
		{1, 2, 3},
		{-1, 0.5, 2},
		{0.1, 0.1, 0.1},
		{3, -2, 1},
		{-0.5, -0.5, 4},
	}

	for _, xs := range points {
		b := newBackend()
		b.Tape().StartRecording()

		x := mustFrom(b, xs, tensor.Shape{1, 3})
		w := mustFrom(b, []float32{0.5, -0.2, 0.1, 0.3, 0.8, -0.6}, tensor.Shape{3, 2})
		hdn := tensor.New[float32](b.ReLU(x.MatMul(w).Raw()), b)
		targets, _ := tensor.FromSlice([]int32{1}, tensor.Shape{1}, b)
		out := tensor.New[float32](b.CrossEntropy(hdn.Raw(), targets.Raw()), b)

		grads := autodiff.Backward(out, b)
		analytic := grads[x.Raw()].AsFloat32()

		for i := range xs {
			plus := append([]float32(nil), xs...)
			minus := append([]float32(nil), xs...)
			plus[i] += h
			minus[i] -= h

			numeric := (loss(newBackend(), plus) - loss(newBackend(), minus)) / (2 * h)
			if math.Abs(float64(analytic[i]-numeric)) > 1e-2 {
				t.Errorf("point %v dim %d: analytic %v vs numeric %v", xs, i, analytic[i], numeric)
			}
		}
	}
}

func mustFrom(b testBackend, data []float32, shape tensor.Shape) *tensor.Tensor[float32, testBackend] {
	x, err := tensor.FromSlice(data, shape, b)
	if err != nil {
		panic(err)
	}
	return x
}
