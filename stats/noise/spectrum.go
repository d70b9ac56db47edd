// Package noise estimates the baseline noise power spectrum of raw traces.
//
// The spectrum guides the choice of shaping times: the filter rise time
// should suppress the band where the detector noise dominates.
package noise

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-pulse/dsp/core"
)

var (
	// ErrSize reports a spectrum length that is not a power of two >= 2.
	ErrSize = errors.New("noise: spectrum length must be a power of two >= 2")
	// ErrShortTrace reports a trace shorter than the spectrum length.
	ErrShortTrace = errors.New("noise: trace shorter than spectrum length")
)

// Spectrum accumulates the averaged one-sided power spectrum of the first
// n samples of each trace. The mean of each segment is removed before the
// window is applied. It is not safe for concurrent use.
type Spectrum struct {
	n      int
	plan   *algofft.Plan[complex128]
	window Window
	coeffs []float64
	norm   float64

	buf   []complex128
	re    []float64
	im    []float64
	pow   []float64
	sum   []float64
	count int
}

// Option configures a Spectrum.
type Option func(*Spectrum)

// WithWindow tapers every segment with w. The power is normalised by the
// window energy, so white noise reads the same level under every window.
func WithWindow(w Window) Option {
	return func(s *Spectrum) {
		s.window = w
	}
}

// New returns a Spectrum over n samples. The default window is Rectangular.
func New(n int, opts ...Option) (*Spectrum, error) {
	if n < 2 || n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrSize, n)
	}
	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("noise: create FFT plan: %w", err)
	}

	bins := n/2 + 1
	s := &Spectrum{
		n:    n,
		plan: plan,
		buf:  make([]complex128, n),
		re:   make([]float64, bins),
		im:   make([]float64, bins),
		pow:  make([]float64, bins),
		sum:  make([]float64, bins),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.coeffs = s.window.coefficients(n)
	for _, c := range s.coeffs {
		s.norm += c * c
	}
	return s, nil
}

// Len returns the number of samples per transform.
func (s *Spectrum) Len() int {
	return s.n
}

// Window returns the taper applied before the transform.
func (s *Spectrum) Window() Window {
	return s.window
}

// Count returns the number of traces accumulated.
func (s *Spectrum) Count() int {
	return s.count
}

// Add accumulates the power spectrum of trace[:Len()].
func (s *Spectrum) Add(trace []float64) error {
	if len(trace) < s.n {
		return fmt.Errorf("%w: %d < %d", ErrShortTrace, len(trace), s.n)
	}

	seg := trace[:s.n]
	mean := core.Mean(seg)
	for i, v := range seg {
		s.buf[i] = complex((v-mean)*s.coeffs[i], 0)
	}
	if err := s.plan.Forward(s.buf, s.buf); err != nil {
		return fmt.Errorf("noise: forward FFT: %w", err)
	}

	for k := range s.re {
		s.re[k] = real(s.buf[k])
		s.im[k] = imag(s.buf[k])
	}
	vecmath.Power(s.pow, s.re, s.im)
	vecmath.AddBlockInPlace(s.sum, s.pow)
	s.count++
	return nil
}

// Power returns the averaged power |X[k]|^2 / sum(w^2) for bins 0..n/2,
// which is |X[k]|^2 / n for the Rectangular window. For white noise every
// bin but DC approaches the noise variance. The result is a new
// slice; it is all zeros before the first Add.
func (s *Spectrum) Power() []float64 {
	out := make([]float64, len(s.sum))
	if s.count == 0 {
		return out
	}
	vecmath.ScaleBlock(out, s.sum, 1/(s.norm*float64(s.count)))
	return out
}

// Frequencies returns the bin centre frequencies in Hz for a sampling
// period in nanoseconds.
func (s *Spectrum) Frequencies(period uint) []float64 {
	out := make([]float64, len(s.sum))
	step := 1e9 / (float64(s.n) * float64(period))
	for k := range out {
		out[k] = float64(k) * step
	}
	return out
}

// Reset discards all accumulated traces.
func (s *Spectrum) Reset() {
	core.Zero(s.sum)
	s.count = 0
}
