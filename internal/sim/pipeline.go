package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-pulse/dsp/pick"
	"github.com/cwbudde/algo-pulse/dsp/shaping"
	"github.com/cwbudde/algo-pulse/stats/noise"
	"github.com/cwbudde/algo-pulse/stats/summary"
)

// RunFlag selects the stages of a run.
type RunFlag uint8

const (
	RunSlow RunFlag = 1 << iota
	RunFast
	RunCFD

	RunAll = RunSlow | RunFast | RunCFD
)

// String returns the enabled stages joined by "+".
func (f RunFlag) String() string {
	s := ""
	for _, st := range []struct {
		bit  RunFlag
		name string
	}{{RunSlow, "slow"}, {RunFast, "fast"}, {RunCFD, "cfd"}} {
		if f&st.bit == 0 {
			continue
		}
		if s != "" {
			s += "+"
		}
		s += st.name
	}
	if s == "" {
		return "none"
	}
	return s
}

// Stage pairs a filter with the picker applied to its output.
type Stage struct {
	Filter shaping.Filter
	Picker pick.Picker
}

func (s Stage) complete() bool {
	return s.Filter != nil && s.Picker != nil
}

func (s Stage) clone() Stage {
	var c Stage
	if s.Filter != nil {
		c.Filter = s.Filter.Clone()
	}
	if s.Picker != nil {
		c.Picker = s.Picker.Clone()
	}
	return c
}

// Result holds the picked values of one trace. Times are in samples
// relative to the pipeline's zero point.
type Result struct {
	Index     int
	Energy    float64
	Timestamp int
	// CFDPoint is the integer part of the CFD pick and CFD its fraction.
	CFDPoint int
	CFD      float64
}

// Sink consumes results in trace order.
type Sink interface {
	Write(Result) error
}

// Timing accumulates the wall time spent per step of a run.
type Timing struct {
	Read  time.Duration
	Slow  time.Duration
	Fast  time.Duration
	CFD   time.Duration
	Pick  time.Duration
	Other time.Duration
}

// Total returns the sum of all steps.
func (t Timing) Total() time.Duration {
	return t.Read + t.Slow + t.Fast + t.CFD + t.Pick + t.Other
}

// RunStats describes a finished run. Each summary covers the traces of the
// stages that ran; the others stay empty.
type RunStats struct {
	Traces    int
	Timing    Timing
	Energy    summary.Summary
	Timestamp summary.Summary
	// CFDTime summarizes CFDPoint + CFD.
	CFDTime summary.Summary
}

// Pipeline runs the enabled stages over every trace of its reader. It is
// not safe for concurrent use; Clone it for each goroutine.
type Pipeline struct {
	Name   string
	Reader Reader
	Slow   Stage
	Fast   Stage
	CFD    Stage

	// ZeroPoint is subtracted from the fast and CFD picks.
	ZeroPoint int

	// Noise, when set, accumulates the spectrum of every raw trace.
	Noise *noise.Spectrum

	Log *zap.Logger
}

// Validate reports stages that flag needs but p lacks. The CFD stage
// needs the fast stage as well.
func (p *Pipeline) Validate(flag RunFlag) error {
	if p.Reader == nil {
		return fmt.Errorf("%w: no trace reader", ErrConfig)
	}
	if flag&RunAll == 0 {
		return fmt.Errorf("%w: no stage selected", ErrConfig)
	}
	if flag&RunSlow != 0 && !p.Slow.complete() {
		return fmt.Errorf("%w: slow stage needs a filter and a picker", ErrConfig)
	}
	if flag&RunFast != 0 && !p.Fast.complete() {
		return fmt.Errorf("%w: fast stage needs a filter and a picker", ErrConfig)
	}
	if flag&RunCFD != 0 && (!p.Fast.complete() || !p.CFD.complete()) {
		return fmt.Errorf("%w: cfd stage needs fast and cfd filters and pickers", ErrConfig)
	}
	return nil
}

// Run processes up to entries traces, or every trace when entries is 0,
// and passes each Result to sink, which may be nil. The context is checked
// between traces.
//
// The fast stage also runs for RunCFD alone. A picker error stops the run.
func (p *Pipeline) Run(ctx context.Context, entries int, flag RunFlag, sink Sink) (stats RunStats, err error) {
	if err := p.Validate(flag); err != nil {
		return stats, err
	}
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}

	runFast := flag&(RunFast|RunCFD) != 0
	var energy, stamp, cfdTime summary.Accumulator
	defer func() {
		stats.Energy = energy.Result()
		stats.Timestamp = stamp.Result()
		stats.CFDTime = cfdTime.Result()
	}()

	log.Debug("sim: run started",
		zap.String("job", p.Name),
		zap.Int("entries", entries),
		zap.Stringer("flag", flag))

	step := entries / 10
	t := &stats.Timing
	for i := 0; entries == 0 || i < entries; i++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		start := time.Now()
		trace, err := p.Reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("sim: trace %d: %w", i, err)
		}
		lap := time.Now()
		t.Read += lap.Sub(start)

		res := Result{Index: i}

		if flag&RunSlow != 0 {
			out := p.Slow.Filter.Filter(trace)
			lap = split(&t.Slow, lap)
			res.Energy, err = p.Slow.Picker.Pick(out)
			if err != nil {
				return stats, fmt.Errorf("sim: trace %d: slow pick: %w", i, err)
			}
			lap = split(&t.Pick, lap)
			energy.Add(res.Energy)
		}

		if runFast {
			out := p.Fast.Filter.Filter(trace)
			lap = split(&t.Fast, lap)
			ts, err := p.Fast.Picker.Pick(out)
			if err != nil {
				return stats, fmt.Errorf("sim: trace %d: fast pick: %w", i, err)
			}
			res.Timestamp = int(ts) - p.ZeroPoint
			lap = split(&t.Pick, lap)
			stamp.Add(float64(res.Timestamp))
		}

		if flag&RunCFD != 0 {
			out := p.CFD.Filter.Filter(trace)
			lap = split(&t.CFD, lap)
			cfd, err := p.CFD.Picker.Pick(out)
			if err != nil {
				return stats, fmt.Errorf("sim: trace %d: cfd pick: %w", i, err)
			}
			whole := int(cfd)
			res.CFDPoint = whole - p.ZeroPoint
			res.CFD = cfd - float64(whole)
			lap = split(&t.Pick, lap)
			cfdTime.Add(float64(res.CFDPoint) + res.CFD)
		}

		if p.Noise != nil {
			if err := p.Noise.Add(trace); err != nil {
				return stats, fmt.Errorf("sim: trace %d: %w", i, err)
			}
		}
		if sink != nil {
			if err := sink.Write(res); err != nil {
				return stats, fmt.Errorf("sim: trace %d: write result: %w", i, err)
			}
		}
		split(&t.Other, lap)
		stats.Traces++

		if step > 0 && stats.Traces%step == 0 {
			log.Debug("sim: progress",
				zap.String("job", p.Name),
				zap.Int("percent", stats.Traces*100/entries))
		}
	}

	log.Debug("sim: run finished",
		zap.String("job", p.Name),
		zap.Int("traces", stats.Traces),
		zap.Duration("total", t.Total()),
		zap.Duration("read", t.Read),
		zap.Duration("slow", t.Slow),
		zap.Duration("fast", t.Fast),
		zap.Duration("cfd", t.CFD),
		zap.Duration("pick", t.Pick),
		zap.Duration("other", t.Other))
	return stats, nil
}

// split adds the time since lap to d and returns the new lap.
func split(d *time.Duration, lap time.Time) time.Time {
	now := time.Now()
	*d += now.Sub(lap)
	return now
}

// Clone returns a pipeline with cloned reader, filters, pickers and noise
// spectrum. The logger is shared.
func (p *Pipeline) Clone() (*Pipeline, error) {
	c := &Pipeline{
		Name:      p.Name,
		Slow:      p.Slow.clone(),
		Fast:      p.Fast.clone(),
		CFD:       p.CFD.clone(),
		ZeroPoint: p.ZeroPoint,
		Log:       p.Log,
	}
	if p.Reader != nil {
		r, err := p.Reader.Clone()
		if err != nil {
			return nil, fmt.Errorf("sim: clone reader: %w", err)
		}
		c.Reader = r
	}
	if p.Noise != nil {
		n, err := noise.New(p.Noise.Len())
		if err != nil {
			return nil, err
		}
		c.Noise = n
	}
	return c, nil
}
