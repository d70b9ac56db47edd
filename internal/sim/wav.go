package sim

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAVReader reads consecutive fixed-length traces from a 16-bit mono WAV
// capture. A partial trace at the end of the file is dropped.
type WAVReader struct {
	path   string
	points int
	period uint

	file *os.File
	dec  *wav.Decoder
	buf  audio.IntBuffer
	out  []float64
}

// OpenWAV opens path and positions it at the first sample. A zero period is
// derived from the file's sample rate.
func OpenWAV(path string, points int, period uint) (*WAVReader, error) {
	if points <= 0 {
		return nil, fmt.Errorf("%w: wav reader needs points > 0", ErrConfig)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sim: open wav: %w", err)
	}

	dec := wav.NewDecoder(file)
	if !dec.IsValidFile() {
		file.Close()
		return nil, fmt.Errorf("sim: %s is not a valid WAV file", path)
	}
	if err := dec.FwdToPCM(); err != nil {
		file.Close()
		return nil, fmt.Errorf("sim: seek to PCM data: %w", err)
	}
	if dec.BitDepth != 16 || dec.NumChans != 1 {
		file.Close()
		return nil, fmt.Errorf("sim: %s: need 16-bit mono, got %d-bit with %d channels",
			path, dec.BitDepth, dec.NumChans)
	}

	if period == 0 {
		if dec.SampleRate == 0 || dec.SampleRate > 1e9 {
			file.Close()
			return nil, fmt.Errorf("%w: cannot derive period from sample rate %d", ErrConfig, dec.SampleRate)
		}
		period = uint(1e9 / dec.SampleRate)
	}

	return &WAVReader{
		path:   path,
		points: points,
		period: period,
		file:   file,
		dec:    dec,
		buf:    audio.IntBuffer{Data: make([]int, points)},
		out:    make([]float64, points),
	}, nil
}

// Read returns the next trace or io.EOF.
func (r *WAVReader) Read() ([]float64, error) {
	data := r.buf.Data[:r.points]
	filled := 0
	for filled < r.points {
		r.buf.Data = data[filled:]
		n, err := r.dec.PCMBuffer(&r.buf)
		if err != nil {
			r.buf.Data = data
			return nil, fmt.Errorf("sim: read wav: %w", err)
		}
		if n == 0 {
			break
		}
		filled += n
	}
	r.buf.Data = data

	if filled < r.points {
		return nil, io.EOF
	}
	for i, v := range data {
		r.out[i] = float64(v)
	}
	return r.out, nil
}

// Period returns the sampling period in nanoseconds.
func (r *WAVReader) Period() uint {
	return r.period
}

// Clone reopens the file at its first sample.
func (r *WAVReader) Clone() (Reader, error) {
	return OpenWAV(r.path, r.points, r.period)
}

// Close closes the underlying file.
func (r *WAVReader) Close() error {
	return r.file.Close()
}
