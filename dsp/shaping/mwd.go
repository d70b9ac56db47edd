package shaping

import (
	"github.com/cwbudde/algo-pulse/dsp/core"
	"github.com/cwbudde/algo-pulse/dsp/delay"
)

// MWD is a moving-window deconvolution filter.
//
// It removes the exponential decay of a preamplifier pulse with the
// pole-zero coefficient alpha and averages the deconvolved signal over a
// window of l samples, producing a trapezoid whose flat top is
// proportional to the pulse amplitude. Output samples below l+m are zero.
type MWD struct {
	l, m  int
	alpha float64

	ring delay.Line
	out  []float64
}

// NewMWD returns an MWD filter with rise length l, rise plus gap m and
// pole-zero coefficient alpha = exp(dt/tau) - 1.
func NewMWD(l, m int, alpha float64) *MWD {
	return &MWD{l: l, m: m, alpha: alpha}
}

// NewMWDFromTimes returns an MWD filter for rise time, gap time and decay
// constant tau, all in the unit of dt.
func NewMWDFromTimes(rise, gap, tau, dt uint) *MWD {
	l, m := core.Lengths(rise, gap, dt)
	return NewMWD(l, m, core.PoleZero(tau, dt))
}

// Params returns the filter parameters.
func (f *MWD) Params() (l, m int, alpha float64) {
	return f.l, f.m, f.alpha
}

// SetParams replaces the filter parameters.
func (f *MWD) SetParams(l, m int, alpha float64) {
	f.l, f.m, f.alpha = l, m, alpha
}

// SetTimes replaces the filter parameters from physical times.
func (f *MWD) SetTimes(rise, gap, tau, dt uint) {
	l, m := core.Lengths(rise, gap, dt)
	f.SetParams(l, m, core.PoleZero(tau, dt))
}

// Filter applies the filter to trace.
//
//	p[n] = x[n] - x[n-m]
//	r[n] = r[n-1] + p[n] - p[n-1] + alpha*p[n-1]
//	y[n] = y[n-1] + (r[n] - r[n-l-1]) / l
func (f *MWD) Filter(trace []float64) []float64 {
	n := len(trace)
	l, m := f.l, f.m
	lm := l + m
	inv := 1 / float64(l)

	f.out = core.EnsureLen(f.out, n)
	out := f.out

	// The first corrected sum integrates the offset-free leading samples.
	offset := core.Mean(trace[:lm])
	var acc float64
	for _, v := range trace[:m] {
		acc += v - offset
	}

	f.ring.Resize(l + 1)
	p := trace[m] - trace[0]
	r := p + f.alpha*acc
	f.ring.Write(r)
	for i := 1; i <= l; i++ {
		p1 := p
		p = trace[m+i] - trace[i]
		r += p - p1 + f.alpha*p1
		f.ring.Write(r)
	}

	core.Zero(out[:lm])
	out[lm] = f.ring.Sum() * inv

	for i := lm + 1; i < n; i++ {
		p1 := p
		p = trace[i] - trace[i-m]
		r += p - p1 + f.alpha*p1
		f.ring.Write(r)
		out[i] = out[i-1] + (r-f.ring.Read(0))*inv
	}
	return out
}

// Clone returns an MWD filter with the same parameters and its own buffers.
func (f *MWD) Clone() Filter {
	return NewMWD(f.l, f.m, f.alpha)
}
