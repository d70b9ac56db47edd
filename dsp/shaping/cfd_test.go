package shaping

import (
	"testing"

	"github.com/cwbudde/algo-pulse/internal/testutil"
)

func TestCFDStep(t *testing.T) {
	// Half-attenuated fast trapezoid minus a 10-sample delayed copy.
	out := NewCFD(20, 30, 10, 4).Filter(testutil.Step(400, 200, 50))

	for _, tc := range []struct {
		i    int
		want float64
	}{
		{0, 0},
		{150, 0},
		{200, 1.25},
		{209, 12.5},
		{219, 0},
		{220, -2.5},
		{232, -28.75},
	} {
		if !almostEqual(out[tc.i], tc.want, 1e-12) {
			t.Fatalf("out[%d] = %v, want %v", tc.i, out[tc.i], tc.want)
		}
	}
}

func TestCFDPrefill(t *testing.T) {
	const d = 60

	out := NewCFD(5, 10, d, 4).Filter(testutil.Step(200, 50, 40))
	for i := range d {
		if out[i] != out[d] {
			t.Fatalf("out[%d] = %v, want out[d] = %v", i, out[i], out[d])
		}
	}
	if out[d] != 16 || out[d+1] != 12 {
		t.Fatalf("out[d], out[d+1] = %v, %v, want 16, 12", out[d], out[d+1])
	}
}

func TestCFDNoAttenuation(t *testing.T) {
	trace := testutil.DecayPulse(600, 200, 80, 500, 3)
	fast := append([]float64(nil), NewFast(8, 12).Filter(trace)...)
	out := NewCFD(8, 12, 5, 0).Filter(trace)

	for i := 5; i < len(out); i++ {
		if !almostEqual(out[i], fast[i]-fast[i-5], 1e-12) {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], fast[i]-fast[i-5])
		}
	}
}

func TestCFDSetFastParamsKeepsDelay(t *testing.T) {
	f := NewCFD(20, 30, 10, 4)
	f.SetFastParams(8, 12)

	l, m, d, w := f.Params()
	if l != 8 || m != 12 || d != 10 || w != 4 {
		t.Fatalf("got %d %d %d %d want 8 12 10 4", l, m, d, w)
	}

	trace := testutil.Step(400, 200, 50)
	want := append([]float64(nil), NewCFD(8, 12, 10, 4).Filter(trace)...)
	testutil.RequireSliceNearlyEqual(t, f.Filter(trace), want, 0)
}

func BenchmarkCFD(b *testing.B) {
	trace := testutil.DecayPulse(5000, 1200, 300, 1000, 50)
	f := NewCFD(10, 15, 8, 3)
	for b.Loop() {
		f.Filter(trace)
	}
}
