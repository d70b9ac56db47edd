package shaping

import (
	"math"

	"github.com/cwbudde/algo-pulse/dsp/core"
)

// SlidingSum is the exponential-pole energy filter.
//
// It weighs three adjacent window sums with coefficients derived from the
// per-sample decay b, compensating the pulse decay inside the trapezoid.
// The response at l+m is taken as the baseline and subtracted from every
// output sample. Output samples below l+m repeat the value at l+m.
type SlidingSum struct {
	l, m int
	b    float64

	out []float64
}

// NewSlidingSum returns a sliding-sum filter with rise length l, rise plus
// gap m (m >= l) and per-sample decay b = exp(-dt/tau).
func NewSlidingSum(l, m int, b float64) *SlidingSum {
	return &SlidingSum{l: l, m: m, b: b}
}

// NewSlidingSumFromTimes returns a sliding-sum filter for rise time, gap
// time and decay constant tau, all in the unit of dt.
func NewSlidingSumFromTimes(rise, gap, tau, dt uint) *SlidingSum {
	l, m := core.Lengths(rise, gap, dt)
	return NewSlidingSum(l, m, core.Decay(tau, dt))
}

// Params returns the filter parameters.
func (f *SlidingSum) Params() (l, m int, b float64) {
	return f.l, f.m, f.b
}

// SetParams replaces the filter parameters.
func (f *SlidingSum) SetParams(l, m int, b float64) {
	f.l, f.m, f.b = l, m, b
}

// SetTimes replaces the filter parameters from physical times.
func (f *SlidingSum) SetTimes(rise, gap, tau, dt uint) {
	l, m := core.Lengths(rise, gap, dt)
	f.SetParams(l, m, core.Decay(tau, dt))
}

// Coefficients returns the window weights
//
//	c0 = -(1-b)*4*b^l / (1-b^l)
//	c1 = (1-b)*4
//	c2 = (1-b)*4 / (1-b^l)
//
// b = 1 (no decay) yields the limit c0 = -4/l, c1 = 0, c2 = 4/l.
func (f *SlidingSum) Coefficients() (c0, c1, c2 float64) {
	if f.b == 1 {
		w := 4 / float64(f.l)
		return -w, 0, w
	}
	bl := math.Pow(f.b, float64(f.l))
	g := (1 - f.b) * 4
	return -g * bl / (1 - bl), g, g / (1 - bl)
}

// Filter applies the filter to trace.
func (f *SlidingSum) Filter(trace []float64) []float64 {
	n := len(trace)
	l, m := f.l, f.m
	lm := l + m
	c0, c1, c2 := f.Coefficients()

	f.out = core.EnsureLen(f.out, n)
	out := f.out

	var s0, s1, s2 float64
	for _, v := range trace[:l] {
		s0 += v
	}
	for _, v := range trace[l:m] {
		s1 += v
	}
	for _, v := range trace[m:lm] {
		s2 += v
	}
	base := c0*s0 + c1*s1 + c2*s2
	out[lm] = 0

	for i := lm + 1; i < n; i++ {
		s0 += trace[i-m] - trace[i-lm-1]
		s1 += trace[i-l] - trace[i-m-1]
		s2 += trace[i-1] - trace[i-l-1]
		out[i] = c0*s0 + c1*s1 + c2*s2 - base
	}

	core.Fill(out[:lm], out[lm])
	return out
}

// Clone returns a SlidingSum filter with the same parameters and its own
// buffer.
func (f *SlidingSum) Clone() Filter {
	return NewSlidingSum(f.l, f.m, f.b)
}
