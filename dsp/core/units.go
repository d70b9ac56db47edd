package core

import "math"

// Lengths converts a rise time and a gap, both in the unit of dt, into the
// sample lengths used by the shaping filters:
//
//	l = rise / dt
//	m = (rise + gap) / dt
//
// Integer division truncates. A rise of 35 ns at dt = 10 ns yields l = 3, so
// physical parameters that are not multiples of dt lose their remainder.
func Lengths(rise, gap, dt uint) (l, m int) {
	return int(rise / dt), int((rise + gap) / dt)
}

// Delay converts a delay in the unit of dt into samples, truncating.
func Delay(delay, dt uint) int {
	return int(delay / dt)
}

// PoleZero returns the moving-window-deconvolution correction
// alpha = exp(dt/tau) - 1 for a pulse decay constant tau.
// tau = 0 is treated as an infinite decay constant (alpha = 0).
func PoleZero(tau, dt uint) float64 {
	if tau == 0 {
		return 0
	}
	return math.Exp(float64(dt)/float64(tau)) - 1
}

// Decay returns the per-sample decay factor b = exp(-dt/tau).
// tau = 0 is treated as an infinite decay constant (b = 1).
func Decay(tau, dt uint) float64 {
	if tau == 0 {
		return 1
	}
	return math.Exp(-float64(dt) / float64(tau))
}
