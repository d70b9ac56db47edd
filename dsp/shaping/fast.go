package shaping

import (
	"github.com/cwbudde/algo-pulse/dsp/core"
	"github.com/cwbudde/algo-pulse/dsp/delay"
)

// Fast is the trapezoidal timing filter.
//
// It averages the m-sample difference x[n] - x[n-m] over l samples. Output
// samples below l+m are zero.
type Fast struct {
	l, m int

	ring delay.Line
	out  []float64
}

// NewFast returns a fast filter with rise length l and rise plus gap m.
func NewFast(l, m int) *Fast {
	return &Fast{l: l, m: m}
}

// NewFastFromTimes returns a fast filter for rise and gap time in the unit
// of dt.
func NewFastFromTimes(rise, gap, dt uint) *Fast {
	l, m := core.Lengths(rise, gap, dt)
	return NewFast(l, m)
}

// Params returns the filter parameters.
func (f *Fast) Params() (l, m int) {
	return f.l, f.m
}

// SetParams replaces the filter parameters.
func (f *Fast) SetParams(l, m int) {
	f.l, f.m = l, m
}

// SetTimes replaces the filter parameters from physical times.
func (f *Fast) SetTimes(rise, gap, dt uint) {
	f.SetParams(core.Lengths(rise, gap, dt))
}

// Filter applies the filter to trace.
func (f *Fast) Filter(trace []float64) []float64 {
	n := len(trace)
	l, m := f.l, f.m
	lm := l + m
	inv := 1 / float64(l)

	f.out = core.EnsureLen(f.out, n)
	out := f.out

	f.ring.Resize(l + 1)
	var sum float64
	for i := range l {
		r := trace[m+i+1] - trace[i+1]
		f.ring.Write(r)
		sum += r
	}

	core.Zero(out[:lm])
	out[lm] = sum * inv

	for i := lm + 1; i < n; i++ {
		r := trace[i] - trace[i-m]
		f.ring.Write(r)
		out[i] = out[i-1] + (r-f.ring.Read(0))*inv
	}
	return out
}

// Clone returns a Fast filter with the same parameters and its own buffers.
func (f *Fast) Clone() Filter {
	return NewFast(f.l, f.m)
}
