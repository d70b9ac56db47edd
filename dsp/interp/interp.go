package interp

import "math"

const (
	// RootTolerance ends the bisection in CubicRoot once |f(x)| falls below it.
	RootTolerance = 1e-6
	// RootIterations bounds the bisection in CubicRoot.
	RootIterations = 1000
)

// Linear2 interpolates linearly from x0 (t = 0) to x1 (t = 1).
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Lagrange4 evaluates the cubic Lagrange polynomial through
// (-1, y0), (0, y1), (1, y2), (2, y3) at t.
func Lagrange4(t, y0, y1, y2, y3 float64) float64 {
	c0, c1, c2, c3 := lagrangeCoefficients(y0, y1, y2, y3)
	return ((c3*t+c2)*t+c1)*t + c0
}

// LinearRoot returns the position in [0, 1] where the line from y0 (x = 0)
// to y1 (x = 1) crosses zero. y0 == y1 yields ±Inf or NaN.
func LinearRoot(y0, y1 float64) float64 {
	return y0 / (y0 - y1)
}

// CubicRoot returns a zero in [0, 1] of the cubic through
// (-1, y0), (0, y1), (1, y2), (2, y3).
//
// The search is a bisection that assumes f(0) >= 0 and f(1) < 0: a negative
// midpoint moves the right bound, anything else moves the left bound. It stops
// at the first midpoint with |f| < RootTolerance or after RootIterations
// halvings. Without a sign change the result converges to an interval end.
func CubicRoot(y0, y1, y2, y3 float64) float64 {
	c0, c1, c2, c3 := lagrangeCoefficients(y0, y1, y2, y3)

	l, r := 0.0, 1.0
	for range RootIterations {
		m := (l + r) / 2
		v := ((c3*m+c2)*m+c1)*m + c0
		if math.Abs(v) < RootTolerance {
			return m
		}
		if v < 0 {
			r = m
		} else {
			l = m
		}
	}
	return (l + r) / 2
}

func lagrangeCoefficients(y0, y1, y2, y3 float64) (c0, c1, c2, c3 float64) {
	c0 = y1
	c1 = -y3/6 + y2 - y1/2 - y0/3
	c2 = y2/2 - y1 + y0/2
	c3 = y3/6 - y2/2 + y1/2 - y0/6
	return c0, c1, c2, c3
}
