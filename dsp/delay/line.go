package delay

import (
	"fmt"

	"github.com/cwbudde/algo-pulse/dsp/core"
)

// Line is a circular delay line.
//
// The zero value is an empty line; call Resize before writing.
type Line struct {
	buffer   []float64
	writePos int
}

// New returns a delay line of fixed size.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}
	return &Line{buffer: make([]float64, size)}, nil
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Resize sets the line to size slots, reusing capacity when possible.
// All slots are cleared and the write head returns to slot 0.
func (d *Line) Resize(size int) {
	d.buffer = core.EnsureLen(d.buffer, size)
	d.Reset()
}

// Write writes one sample.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads an integer delay in samples.
// Read(0) is the slot the next Write overwrites.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	if size == 0 {
		return 0
	}
	readPos := (d.writePos - delay + size) % size
	return d.buffer[readPos]
}

// Sum returns the sum of all slots.
func (d *Line) Sum() float64 {
	var s float64
	for _, v := range d.buffer {
		s += v
	}
	return s
}

// Reset clears line state.
func (d *Line) Reset() {
	core.Zero(d.buffer)
	d.writePos = 0
}
