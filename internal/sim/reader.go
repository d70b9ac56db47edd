package sim

import (
	"errors"
	"fmt"
	"io"

	"github.com/cwbudde/algo-pulse/dsp/core"
	"github.com/cwbudde/algo-pulse/dsp/signal"
	"github.com/cwbudde/algo-pulse/internal/config"
)

// ErrConfig reports a pipeline or sweep that cannot run as configured.
var ErrConfig = errors.New("sim: configuration error")

// Reader delivers raw traces in order.
type Reader interface {
	// Read returns the next trace, or io.EOF when the source is exhausted.
	// The slice is valid until the next call.
	Read() ([]float64, error)
	// Period returns the sampling period in nanoseconds.
	Period() uint
	// Clone returns a reader over the same traces, positioned at the start.
	Clone() (Reader, error)
	io.Closer
}

// FunctionReader samples a pulse shape with a random phase per trace. It
// never runs out of traces.
type FunctionReader struct {
	gen   *signal.Generator
	pulse signal.Pulse
	buf   []float64
}

// NewFunctionReader returns a reader of points-sample traces of p taken
// every period ns.
func NewFunctionReader(p signal.Pulse, period uint, points int, opts ...signal.Option) (*FunctionReader, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if period == 0 || points <= 0 {
		return nil, fmt.Errorf("%w: function reader needs period and points > 0", ErrConfig)
	}
	gen := signal.NewGeneratorWithOptions(
		[]core.Option{core.WithPeriod(period), core.WithPoints(points)},
		opts...,
	)
	return &FunctionReader{gen: gen, pulse: p}, nil
}

// Read samples the next trace.
func (r *FunctionReader) Read() ([]float64, error) {
	r.buf = r.gen.Trace(r.buf, r.pulse)
	return r.buf, nil
}

// Period returns the sampling period in nanoseconds.
func (r *FunctionReader) Period() uint {
	return r.gen.Config().Period
}

// Clone returns a reader restarted from the same seed.
func (r *FunctionReader) Clone() (Reader, error) {
	return &FunctionReader{gen: r.gen.Clone(), pulse: r.pulse}, nil
}

// Close is a no-op.
func (r *FunctionReader) Close() error {
	return nil
}

// NewReader opens the trace source described by cfg.
func NewReader(cfg config.TraceConfig) (Reader, error) {
	switch cfg.Source {
	case config.SourceFunction:
		p := signal.Pulse{
			Amplitude: cfg.Pulse.Amplitude,
			Tau:       cfg.Pulse.Tau,
			Theta:     cfg.Pulse.Theta,
			T0:        cfg.Pulse.T0,
			Baseline:  cfg.Pulse.Baseline,
		}
		return NewFunctionReader(p, cfg.Period(), cfg.Points,
			signal.WithSeed(cfg.Seed), signal.WithNoise(cfg.Noise))
	case config.SourceWAV:
		return OpenWAV(cfg.Path, cfg.Points, cfg.Period())
	default:
		return nil, fmt.Errorf("%w: unknown trace source %q", ErrConfig, cfg.Source)
	}
}
