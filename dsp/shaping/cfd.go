package shaping

import (
	"github.com/cwbudde/algo-pulse/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// CFD is a digital constant-fraction discriminator.
//
// It runs an embedded Fast filter and subtracts a delayed copy of the fast
// output from an attenuated copy:
//
//	y[i] = fast[i]*(1 - w/8) - fast[i-d]   for i >= d
//
// Output samples below d repeat the value at d. The zero crossing of y marks
// the pulse time independently of its amplitude.
type CFD struct {
	fast Fast
	d    int
	w    uint

	scratch []float64
	out     []float64
}

// NewCFD returns a CFD filter on a fast filter (l, m) with delay d samples
// and attenuation w eighths (0..8).
func NewCFD(l, m, d int, w uint) *CFD {
	return &CFD{fast: Fast{l: l, m: m}, d: d, w: w}
}

// NewCFDFromTimes returns a CFD filter for rise, gap and delay times in the
// unit of dt.
func NewCFDFromTimes(rise, gap, delayTime, w, dt uint) *CFD {
	l, m := core.Lengths(rise, gap, dt)
	return NewCFD(l, m, core.Delay(delayTime, dt), w)
}

// Params returns the filter parameters.
func (f *CFD) Params() (l, m, d int, w uint) {
	l, m = f.fast.Params()
	return l, m, f.d, f.w
}

// SetParams replaces all filter parameters.
func (f *CFD) SetParams(l, m, d int, w uint) {
	f.fast.SetParams(l, m)
	f.d, f.w = d, w
}

// SetTimes replaces all filter parameters from physical times.
func (f *CFD) SetTimes(rise, gap, delayTime, w, dt uint) {
	l, m := core.Lengths(rise, gap, dt)
	f.SetParams(l, m, core.Delay(delayTime, dt), w)
}

// SetFastParams replaces the embedded fast filter lengths, keeping delay and
// attenuation.
func (f *CFD) SetFastParams(l, m int) {
	f.fast.SetParams(l, m)
}

// Filter applies the filter to trace.
func (f *CFD) Filter(trace []float64) []float64 {
	fast := f.fast.Filter(trace)
	n := len(fast)
	d := f.d

	f.out = core.EnsureLen(f.out, n)
	out := f.out

	factor := 1 - float64(f.w)/8
	f.scratch = core.EnsureLen(f.scratch, n-d)
	vecmath.ScaleBlock(out[d:], fast[d:], factor)
	vecmath.ScaleBlock(f.scratch, fast[:n-d], -1)
	vecmath.AddBlockInPlace(out[d:], f.scratch)

	core.Fill(out[:d], out[d])
	return out
}

// Clone returns a CFD filter with the same parameters and its own buffers.
func (f *CFD) Clone() Filter {
	l, m := f.fast.Params()
	return NewCFD(l, m, f.d, f.w)
}
