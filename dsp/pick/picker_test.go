package pick

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-pulse/internal/testutil"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func mustPick(t *testing.T, p Picker, data []float64) float64 {
	t.Helper()
	v, err := p.Pick(data)
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	return v
}

func TestMax(t *testing.T) {
	data := []float64{-3, 7, 2, 7.5, -10, 1}
	if got := mustPick(t, Max{}, data); got != 7.5 {
		t.Fatalf("got %v want 7.5", got)
	}
	if got := mustPick(t, Max{}, []float64{-4, -2, -9}); got != -2 {
		t.Fatalf("all negative: got %v want -2", got)
	}
}

func TestBaseMean(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6, 7, 8}

	for _, tc := range []struct {
		len, start int
		want       float64
	}{
		{4, 0, 2.5},
		{3, 2, 4},
		{8, 0, 4.5},
		{1, 7, 8},
	} {
		got := mustPick(t, NewBase(tc.len, tc.start), data)
		if got != tc.want {
			t.Fatalf("Base(%d, %d): got %v want %v", tc.len, tc.start, got, tc.want)
		}
	}
}

func TestBaseRange(t *testing.T) {
	data := make([]float64, 10)

	for _, tc := range []struct {
		name       string
		len, start int
	}{
		{"past end", 5, 6},
		{"negative start", 3, -1},
		{"longer than trace", 11, 0},
		{"empty window", 0, 2},
	} {
		_, err := NewBase(tc.len, tc.start).Pick(data)
		if !errors.Is(err, ErrRange) {
			t.Fatalf("%s: err = %v, want ErrRange", tc.name, err)
		}

		var re *RangeError
		if !errors.As(err, &re) {
			t.Fatalf("%s: err %T is not *RangeError", tc.name, err)
		}
		if re.Picker != "base" || re.Size != 10 || re.Start != tc.start || re.Len != tc.len {
			t.Fatalf("%s: unexpected error fields %+v", tc.name, *re)
		}
	}

	if _, err := NewBase(5, 5).Pick(data); err != nil {
		t.Fatalf("window ending at trace end: %v", err)
	}
}

func TestTopBase(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6, 7, 8}

	if got := mustPick(t, NewTopBase(2, 0), data); got != 7.5 {
		t.Fatalf("TopBase(2, 0): got %v want 7.5", got)
	}
	if got := mustPick(t, NewTopBase(3, 2), data); got != 5 {
		t.Fatalf("TopBase(3, 2): got %v want 5", got)
	}

	for _, p := range []*TopBase{NewTopBase(5, 4), NewTopBase(3, -1), NewTopBase(9, 0)} {
		if _, err := p.Pick(data); !errors.Is(err, ErrRange) {
			t.Fatalf("TopBase(%d, %d): err = %v, want ErrRange", p.Len, p.Stop, err)
		}
	}
}

func TestRangeErrorMessage(t *testing.T) {
	err := &RangeError{Picker: "base", Start: 6, Len: 5, Size: 10}
	want := "pick: base window [6, 11) outside trace of 10 samples"
	if err.Error() != want {
		t.Fatalf("got %q want %q", err.Error(), want)
	}
}

func TestClonesAreIndependent(t *testing.T) {
	data := testutil.Ramp(100, 20, 4, 100)

	base := NewBase(10, 30)
	c := base.Clone().(*Base)
	c.Start = 0
	if got := mustPick(t, base, data); got != 58 {
		t.Fatalf("original after clone mutation: got %v want 58", got)
	}

	df := NewDigitalFraction(1, 0.5, false, 10)
	dc := df.Clone().(*DigitalFraction)
	dc.Fraction = 0.25
	if got := mustPick(t, df, data); got != 32.5 {
		t.Fatalf("original after clone mutation: got %v want 32.5", got)
	}
	if got := mustPick(t, dc, data); got != 26.25 {
		t.Fatalf("clone: got %v want 26.25", got)
	}

	for _, p := range []Picker{Max{}, NewTopBase(3, 1), NewTrapezoidTop(1, 2, 3), NewLeadingEdge(4), NewZeroCross(1, 2, true)} {
		if c := p.Clone(); c == nil {
			t.Fatalf("%T: nil clone", p)
		}
	}
}
