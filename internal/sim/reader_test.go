package sim

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-pulse/dsp/signal"
	"github.com/cwbudde/algo-pulse/internal/config"
)

var testPulse = signal.Pulse{Amplitude: 1000, Tau: 10000, Theta: 30, T0: 1000}

func TestFunctionReader(t *testing.T) {
	r, err := NewFunctionReader(testPulse, 10, 500, signal.WithSeed(3))
	require.NoError(t, err)
	assert.Equal(t, uint(10), r.Period())

	first, err := r.Read()
	require.NoError(t, err)
	require.Len(t, first, 500)
	first = append([]float64(nil), first...)
	assert.Zero(t, first[0])
	assert.Greater(t, first[150], 900.0)

	c, err := r.Clone()
	require.NoError(t, err)
	again, err := c.Read()
	require.NoError(t, err)
	assert.Equal(t, first, again, "clone restarts from the seed")
	assert.NoError(t, c.Close())
}

func TestFunctionReaderInvalid(t *testing.T) {
	_, err := NewFunctionReader(signal.Pulse{Tau: 0, Theta: 1}, 10, 100)
	assert.ErrorIs(t, err, ErrConfig)

	_, err = NewFunctionReader(testPulse, 0, 100)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestNewReader(t *testing.T) {
	cfg := config.Default().Trace
	r, err := NewReader(cfg)
	require.NoError(t, err)
	assert.Equal(t, uint(10), r.Period())
	tr, err := r.Read()
	require.NoError(t, err)
	assert.Len(t, tr, cfg.Points)

	cfg.Source = "scope"
	_, err = NewReader(cfg)
	assert.ErrorIs(t, err, ErrConfig)
}

func writeWAV(t *testing.T, rate, chans int, data []int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "traces.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, rate, 16, chans, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: chans, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	return path
}

func TestWAVReader(t *testing.T) {
	path := writeWAV(t, 100000, 1, []int{1, 2, 3, 4, -5, -6, 7, 8, 9, 10})

	r, err := OpenWAV(path, 4, 0)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, uint(10000), r.Period(), "period from the sample rate")

	tr, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4}, tr)

	tr, err = r.Read()
	require.NoError(t, err)
	assert.Equal(t, []float64{-5, -6, 7, 8}, tr)

	_, err = r.Read()
	assert.ErrorIs(t, err, io.EOF, "partial trace is dropped")

	c, err := r.Clone()
	require.NoError(t, err)
	defer c.Close()
	tr, err = c.Read()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4}, tr)
}

func TestWAVReaderPeriodOverride(t *testing.T) {
	path := writeWAV(t, 100000, 1, []int{1, 2})
	r, err := OpenWAV(path, 2, 4)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, uint(4), r.Period())
}

func TestWAVReaderRejects(t *testing.T) {
	stereo := writeWAV(t, 48000, 2, []int{1, 2, 3, 4})
	_, err := OpenWAV(stereo, 2, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "need 16-bit mono")

	text := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(text, []byte("not a wav file at all"), 0o600))
	_, err = OpenWAV(text, 2, 0)
	require.Error(t, err)

	_, err = OpenWAV(filepath.Join(t.TempDir(), "missing.wav"), 2, 0)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = OpenWAV(text, 0, 0)
	assert.ErrorIs(t, err, ErrConfig)
}
