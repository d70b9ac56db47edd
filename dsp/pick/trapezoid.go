package pick

// TrapezoidTop picks the amplitude at the right edge of a trapezoid's flat
// top.
//
// Around the expected edge TS+M it scans eleven candidates and keeps the
// one where a second-difference operator over ±1 and ±8 samples is most
// negative, the sharpest bend from plateau to falling slope. The trace must
// extend nine samples beyond the scan window on both sides.
type TrapezoidTop struct {
	TS int
	L  int
	M  int
}

// NewTrapezoidTop returns a TrapezoidTop picker for a trapezoid that starts
// rising near ts and was shaped with lengths l and m.
func NewTrapezoidTop(ts, l, m int) *TrapezoidTop {
	return &TrapezoidTop{TS: ts, L: l, M: m}
}

// Pick returns data at the detected edge, or data[0] when no candidate bends
// downwards.
func (p *TrapezoidTop) Pick(data []float64) (float64, error) {
	const span = 8

	edge := 0
	sharpest := 0.0
	for i := p.TS - 11 + p.M; i < p.TS-1+p.M; i++ {
		// data[i+span+1] enters twice.
		outer := 2*data[i+span] + data[i+span+1] + data[i+span-1] +
			2*data[i-span] + data[i-span-1] + data[i+span+1]
		inner := 4*data[i] + 2*data[i-1] + 2*data[i+1]
		if diff := outer - inner; diff < sharpest {
			sharpest = diff
			edge = i
		}
	}
	return data[edge], nil
}

// Clone returns a copy of p.
func (p *TrapezoidTop) Clone() Picker {
	c := *p
	return &c
}
