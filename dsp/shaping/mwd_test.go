package shaping

import (
	"testing"

	"github.com/cwbudde/algo-pulse/dsp/core"
	"github.com/cwbudde/algo-pulse/internal/testutil"
)

func TestMWDZeroPrefill(t *testing.T) {
	const l, m = 40, 60

	trace := testutil.Add(
		testutil.DecayPulse(1000, 300, 100, 1000, 20),
		testutil.DeterministicNoise(11, 3, 1000),
	)
	out := NewMWD(l, m, core.PoleZero(1000, 1)).Filter(trace)

	for i := range l + m {
		if out[i] != 0 {
			t.Fatalf("out[%d] = %v, want exactly 0", i, out[i])
		}
	}
}

func TestMWDBlocksDC(t *testing.T) {
	out := NewMWD(200, 10, 0.01).Filter(testutil.DC(1000, 5000))

	if !almostEqual(out[4999], 0, 1e-9) {
		t.Fatalf("out[4999] = %v, want 0", out[4999])
	}
	testutil.RequireConstant(t, out, 0, 1e-9)
}

func TestMWDBoxStep(t *testing.T) {
	// alpha = 0 reduces MWD to a trapezoid with flat top [pos+l-1, pos+m-1].
	out := NewMWD(20, 30, 0).Filter(testutil.Step(400, 200, 50))

	for _, tc := range []struct {
		i    int
		want float64
	}{
		{150, 0},
		{218, 47.5},
		{219, 50},
		{229, 50},
		{230, 47.5},
		{249, 0},
		{399, 0},
	} {
		if !almostEqual(out[tc.i], tc.want, 1e-12) {
			t.Fatalf("out[%d] = %v, want %v", tc.i, out[tc.i], tc.want)
		}
	}
}

func TestMWDPoleZero(t *testing.T) {
	const tau = 1000

	trace := testutil.DecayPulse(1000, 300, 100, tau, 20)

	corrected := NewMWD(40, 60, core.PoleZero(tau, 1)).Filter(trace)
	for _, i := range []int{345, 350, 355} {
		if !almostEqual(corrected[i], 100, 0.01) {
			t.Fatalf("corrected top[%d] = %v, want ~100", i, corrected[i])
		}
	}
	if !almostEqual(corrected[999], 0, 0.01) {
		t.Fatalf("corrected tail = %v, want ~0", corrected[999])
	}

	// Without correction the decay pulls the top down and the tail below zero.
	box := NewMWD(40, 60, 0).Filter(trace)
	if box[350] > 98 || box[999] > -1 {
		t.Fatalf("uncorrected top %v tail %v, want droop and undershoot", box[350], box[999])
	}
}

func TestMWDLinear(t *testing.T) {
	f := NewMWD(40, 60, core.PoleZero(1000, 1))

	a := append([]float64(nil), f.Filter(testutil.DecayPulse(1000, 300, 100, 1000, 20))...)
	b := f.Filter(testutil.DecayPulse(1000, 300, 200, 1000, -5))

	for i := range a {
		if !almostEqual(2*a[i], b[i], 1e-9) {
			t.Fatalf("index %d: 2*%v != %v", i, a[i], b[i])
		}
	}
}

func BenchmarkMWD(b *testing.B) {
	trace := testutil.Add(
		testutil.DecayPulse(5000, 1200, 300, 1000, 50),
		testutil.DeterministicNoise(7, 2, 5000),
	)
	f := NewMWD(200, 250, core.PoleZero(5000, 10))
	for b.Loop() {
		f.Filter(trace)
	}
}
