package pick

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ErrRange reports an averaging window outside the trace.
var ErrRange = errors.New("pick: window out of range")

// RangeError describes an averaging window outside the trace.
type RangeError struct {
	// Picker names the picker that failed.
	Picker string
	// Start and Len give the requested window [Start, Start+Len).
	Start, Len int
	// Size is the trace length.
	Size int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("pick: %s window [%d, %d) outside trace of %d samples",
		e.Picker, e.Start, e.Start+e.Len, e.Size)
}

// Unwrap returns ErrRange.
func (e *RangeError) Unwrap() error {
	return ErrRange
}

// Picker extracts one value from a filtered trace.
type Picker interface {
	Pick(data []float64) (float64, error)
	Clone() Picker
}

// Max picks the global maximum. data must not be empty.
type Max struct{}

// Pick returns the largest sample.
func (Max) Pick(data []float64) (float64, error) {
	return floats.Max(data), nil
}

// Clone returns a Max picker.
func (Max) Clone() Picker {
	return Max{}
}

// Base picks the mean over [Start, Start+Len).
type Base struct {
	Len   int
	Start int
}

// NewBase returns a Base picker.
func NewBase(length, start int) *Base {
	return &Base{Len: length, Start: start}
}

// Pick returns the window mean, or a *RangeError when the window is empty
// or does not fit into data.
func (p *Base) Pick(data []float64) (float64, error) {
	return windowMean("base", data, p.Start, p.Len)
}

// Clone returns a copy of p.
func (p *Base) Clone() Picker {
	c := *p
	return &c
}

// TopBase picks the mean over the Len samples that end Stop samples before
// the end of the trace: [N-Stop-Len, N-Stop).
type TopBase struct {
	Len  int
	Stop int
}

// NewTopBase returns a TopBase picker.
func NewTopBase(length, stop int) *TopBase {
	return &TopBase{Len: length, Stop: stop}
}

// Pick returns the window mean, or a *RangeError when the window is empty
// or does not fit into data.
func (p *TopBase) Pick(data []float64) (float64, error) {
	return windowMean("top-base", data, len(data)-p.Stop-p.Len, p.Len)
}

// Clone returns a copy of p.
func (p *TopBase) Clone() Picker {
	c := *p
	return &c
}

func windowMean(name string, data []float64, start, length int) (float64, error) {
	if start < 0 || length <= 0 || start+length > len(data) {
		return 0, &RangeError{Picker: name, Start: start, Len: length, Size: len(data)}
	}
	return floats.Sum(data[start:start+length]) / float64(length), nil
}
