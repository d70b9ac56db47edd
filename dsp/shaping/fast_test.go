package shaping

import (
	"testing"

	"github.com/cwbudde/algo-pulse/internal/testutil"
)

func TestFastStep(t *testing.T) {
	out := NewFast(20, 30).Filter(testutil.Step(400, 200, 50))

	for i := range 200 {
		if out[i] != 0 {
			t.Fatalf("out[%d] = %v, want 0", i, out[i])
		}
	}
	for _, tc := range []struct {
		i    int
		want float64
	}{
		{200, 2.5},
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

func TestFastZeroPrefill(t *testing.T) {
	const l, m = 5, 10

	out := NewFast(l, m).Filter(testutil.Add(testutil.DC(100, 200), testutil.DeterministicNoise(5, 4, 200)))
	for i := range l + m {
		if out[i] != 0 {
			t.Fatalf("out[%d] = %v, want 0", i, out[i])
		}
	}
}

func TestFastBlocksDC(t *testing.T) {
	out := NewFast(5, 10).Filter(testutil.DC(-42, 300))
	testutil.RequireConstant(t, out, 0, 0)
}

func TestFastImpulseResponse(t *testing.T) {
	const l, m, pos = 4, 6, 30

	want := make([]float64, 64)
	for i := pos; i < pos+l; i++ {
		want[i] = 1.0 / l
	}
	for i := pos + m; i < pos+m+l; i++ {
		want[i] = -1.0 / l
	}
	testutil.RequireSliceNearlyEqual(t, NewFast(l, m).Filter(testutil.Impulse(64, pos)), want, 0)
}

func BenchmarkFast(b *testing.B) {
	trace := testutil.DecayPulse(5000, 1200, 300, 1000, 50)
	f := NewFast(10, 15)
	for b.Loop() {
		f.Filter(trace)
	}
}
