// Package summary reduces picked values (energies, timestamps) to the
// figures used to judge a parameter set: mean, spread and resolution.
package summary

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FWHMFactor converts a Gaussian standard deviation into its full width at
// half maximum, 2*sqrt(2*ln 2).
const FWHMFactor = 2.355

// Summary holds the statistics of a set of picked values.
type Summary struct {
	Count int
	Mean  float64
	Std   float64 // unbiased sample standard deviation
	Min   float64
	Max   float64
	// FWHM is FWHMFactor * Std.
	FWHM float64
	// Resolution is FWHM / Mean, NaN for a zero mean.
	Resolution float64
}

// Calculate summarizes values. An empty input yields a zero Summary with
// NaN statistics.
func Calculate(values []float64) Summary {
	if len(values) == 0 {
		return empty()
	}

	mean, std := stat.MeanStdDev(values, nil)
	if len(values) == 1 {
		std = 0
	}
	return finish(Summary{
		Count: len(values),
		Mean:  mean,
		Std:   std,
		Min:   floats.Min(values),
		Max:   floats.Max(values),
	})
}

func empty() Summary {
	nan := math.NaN()
	return Summary{Mean: nan, Std: nan, Min: nan, Max: nan, FWHM: nan, Resolution: nan}
}

func finish(s Summary) Summary {
	s.FWHM = FWHMFactor * s.Std
	if s.Mean == 0 {
		s.Resolution = math.NaN()
	} else {
		s.Resolution = s.FWHM / s.Mean
	}
	return s
}

// Accumulator computes a Summary incrementally without retaining values,
// using Welford's online algorithm.
type Accumulator struct {
	n      int
	mean   float64
	m2     float64
	minVal float64
	maxVal float64
}

// Add adds one value.
func (a *Accumulator) Add(x float64) {
	a.n++
	if a.n == 1 {
		a.minVal, a.maxVal = x, x
	} else {
		a.minVal = math.Min(a.minVal, x)
		a.maxVal = math.Max(a.maxVal, x)
	}

	delta := x - a.mean
	a.mean += delta / float64(a.n)
	a.m2 += delta * (x - a.mean)
}

// Count returns the number of values added.
func (a *Accumulator) Count() int {
	return a.n
}

// Result returns the summary of all values added so far.
func (a *Accumulator) Result() Summary {
	if a.n == 0 {
		return empty()
	}

	var std float64
	if a.n > 1 {
		std = math.Sqrt(a.m2 / float64(a.n-1))
	}
	return finish(Summary{
		Count: a.n,
		Mean:  a.mean,
		Std:   std,
		Min:   a.minVal,
		Max:   a.maxVal,
	})
}

// Reset clears all accumulated data.
func (a *Accumulator) Reset() {
	*a = Accumulator{}
}
