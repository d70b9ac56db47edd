package noise

import (
	"fmt"
	"math"
)

// Window selects the taper applied to each segment before the transform.
type Window int

const (
	// Rectangular leaves the segment untouched.
	Rectangular Window = iota
	// Hann trades a wider main lobe for -31 dB sidelobes.
	Hann
	// Blackman pushes sidelobes to -58 dB.
	Blackman
)

var (
	hannCoeffs     = []float64{0.5, -0.5}
	blackmanCoeffs = []float64{0.42, -0.5, 0.08}
)

var windowNames = map[string]Window{
	"rectangular": Rectangular,
	"hann":        Hann,
	"blackman":    Blackman,
}

// ParseWindow maps a configuration name to a Window. The empty name is
// Rectangular.
func ParseWindow(name string) (Window, error) {
	if name == "" {
		return Rectangular, nil
	}
	w, ok := windowNames[name]
	if !ok {
		return 0, fmt.Errorf("noise: unknown window %q", name)
	}
	return w, nil
}

func (w Window) String() string {
	for name, v := range windowNames {
		if v == w {
			return name
		}
	}
	return fmt.Sprintf("Window(%d)", int(w))
}

// coefficients returns the periodic window of the given size.
func (w Window) coefficients(size int) []float64 {
	out := make([]float64, size)
	for n := range out {
		x := float64(n) / float64(size)
		switch w {
		case Hann:
			out[n] = cosineSum(x, hannCoeffs)
		case Blackman:
			out[n] = cosineSum(x, blackmanCoeffs)
		default:
			out[n] = 1
		}
	}
	return out
}

func cosineSum(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x
	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}
	return sum
}
