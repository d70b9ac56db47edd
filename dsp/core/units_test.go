package core

import (
	"math"
	"testing"
)

func TestLengthsTruncate(t *testing.T) {
	tests := []struct {
		name          string
		rise, gap, dt uint
		wantL, wantM  int
	}{
		{name: "exact", rise: 2000, gap: 500, dt: 10, wantL: 200, wantM: 250},
		{name: "truncated rise", rise: 35, gap: 0, dt: 10, wantL: 3, wantM: 3},
		{name: "truncated sum", rise: 35, gap: 17, dt: 10, wantL: 3, wantM: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, m := Lengths(tt.rise, tt.gap, tt.dt)
			if l != tt.wantL || m != tt.wantM {
				t.Fatalf("Lengths() = (%d, %d), want (%d, %d)", l, m, tt.wantL, tt.wantM)
			}
		})
	}
}

func TestDelay(t *testing.T) {
	if got := Delay(95, 10); got != 9 {
		t.Fatalf("Delay(95, 10) = %d, want 9", got)
	}
}

func TestPoleZero(t *testing.T) {
	got := PoleZero(10000, 10)
	want := math.Exp(0.001) - 1
	if got != want {
		t.Fatalf("PoleZero = %v, want %v", got, want)
	}
	if PoleZero(0, 10) != 0 {
		t.Fatal("expected alpha = 0 for infinite tau")
	}
}

func TestDecay(t *testing.T) {
	got := Decay(25000, 10)
	want := math.Exp(-10.0 / 25000)
	if got != want {
		t.Fatalf("Decay = %v, want %v", got, want)
	}
	if Decay(0, 10) != 1 {
		t.Fatal("expected b = 1 for infinite tau")
	}
}
