package pick

import (
	"github.com/cwbudde/algo-pulse/dsp/interp"
)

// LeadingEdge picks the index of the first sample above Threshold.
type LeadingEdge struct {
	Threshold float64
}

// NewLeadingEdge returns a LeadingEdge picker.
func NewLeadingEdge(threshold float64) *LeadingEdge {
	return &LeadingEdge{Threshold: threshold}
}

// Pick returns the first index above the threshold, or len(data) if the
// threshold is never exceeded.
func (p *LeadingEdge) Pick(data []float64) (float64, error) {
	for i, v := range data {
		if v > p.Threshold {
			return float64(i), nil
		}
	}
	return float64(len(data)), nil
}

// Clone returns a copy of p.
func (p *LeadingEdge) Clone() Picker {
	c := *p
	return &c
}

// ZeroCross picks the first falling zero crossing after the trace has
// exceeded Threshold, scanning from TS. It is used on CFD output, whose
// crossing is independent of the pulse amplitude.
type ZeroCross struct {
	TS        int
	Threshold float64
	Cubic     bool
}

// NewZeroCross returns a ZeroCross picker.
func NewZeroCross(ts int, threshold float64, cubic bool) *ZeroCross {
	return &ZeroCross{TS: ts, Threshold: threshold, Cubic: cubic}
}

// Pick returns i + y[i]/(y[i]-y[i+1]) for the first armed i with
// y[i] >= 0 > y[i+1], or -1.
//
// Cubic mode does not detect crossings and returns -1.
func (p *ZeroCross) Pick(data []float64) (float64, error) {
	if p.Cubic {
		return -1, nil
	}

	armed := false
	for i := p.TS; i < len(data)-1; i++ {
		if data[i] > p.Threshold {
			armed = true
		}
		if !armed {
			continue
		}
		if data[i] >= 0 && data[i+1] < 0 {
			return float64(i) + interp.LinearRoot(data[i], data[i+1]), nil
		}
	}
	return -1, nil
}

// Clone returns a copy of p.
func (p *ZeroCross) Clone() Picker {
	c := *p
	return &c
}

// DigitalFraction picks the time a rising trace crosses a fixed fraction of
// its height.
//
// The baseline is picked by Base over the first samples and the top by Top
// over the last samples; the threshold is base + Fraction*(top-base).
type DigitalFraction struct {
	TS       int
	Fraction float64
	Cubic    bool
	Base     *Base
	Top      *TopBase
}

// NewDigitalFraction returns a DigitalFraction picker scanning from ts.
func NewDigitalFraction(ts int, fraction float64, cubic bool, baseLen int) *DigitalFraction {
	return &DigitalFraction{
		TS:       ts,
		Fraction: fraction,
		Cubic:    cubic,
		Base:     NewBase(baseLen, 0),
		Top:      NewTopBase(baseLen, 0),
	}
}

// Threshold returns the crossing level for data.
func (p *DigitalFraction) Threshold(data []float64) (float64, error) {
	base, err := p.Base.Pick(data)
	if err != nil {
		return 0, err
	}
	top, err := p.Top.Pick(data)
	if err != nil {
		return 0, err
	}
	return base + (top-base)*p.Fraction, nil
}

// Pick returns the fractional index of the first i >= TS with
// data[i] <= threshold < data[i+1], or -1. Range errors of the baseline
// windows are returned unchanged.
func (p *DigitalFraction) Pick(data []float64) (float64, error) {
	thr, err := p.Threshold(data)
	if err != nil {
		return 0, err
	}

	if p.Cubic {
		for i := max(p.TS, 1); i < len(data)-2; i++ {
			if data[i] <= thr && data[i+1] > thr {
				root := interp.CubicRoot(thr-data[i-1], thr-data[i], thr-data[i+1], thr-data[i+2])
				return float64(i) + root, nil
			}
		}
		return -1, nil
	}

	for i := p.TS; i < len(data)-1; i++ {
		if data[i] <= thr && data[i+1] > thr {
			return float64(i) + (thr-data[i])/(data[i+1]-data[i]), nil
		}
	}
	return -1, nil
}

// Clone returns a copy of p with its own base and top pickers.
func (p *DigitalFraction) Clone() Picker {
	c := *p
	c.Base = p.Base.Clone().(*Base)
	c.Top = p.Top.Clone().(*TopBase)
	return &c
}
