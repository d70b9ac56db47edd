// Package testutil provides deterministic detector traces and tolerance
// helpers for tests.
package testutil

import (
	"math"
	"math/rand"
)

// DC generates a constant trace.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Step generates a trace that is 0 before pos and height from pos on.
func Step(length, pos int, height float64) []float64 {
	out := make([]float64, length)
	for i := max(pos, 0); i < length; i++ {
		out[i] = height
	}
	return out
}

// Ramp generates a trace that is 0 up to start, rises by slope per sample
// and saturates at top.
//
//	y[start+j] = min(j*slope, top)
func Ramp(length, start int, slope, top float64) []float64 {
	out := make([]float64, length)
	for i := range out {
		if i <= start {
			continue
		}
		out[i] = math.Min(float64(i-start)*slope, top)
	}
	return out
}

// DecayPulse generates an ideal preamplifier pulse: a step of amplitude at
// pos that decays with time constant tau samples, on top of baseline.
func DecayPulse(length, pos int, amplitude, tau, baseline float64) []float64 {
	out := DC(baseline, length)
	for i := max(pos, 0); i < length; i++ {
		out[i] += amplitude * math.Exp(-float64(i-pos)/tau)
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Add returns the element-wise sum of a and b, truncated to the shorter one.
func Add(a, b []float64) []float64 {
	out := make([]float64, min(len(a), len(b)))
	for i := range out {
		out[i] = a[i] + b[i]
	}
	return out
}
