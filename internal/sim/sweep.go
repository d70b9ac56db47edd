package sim

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-pulse/dsp/pick"
	"github.com/cwbudde/algo-pulse/dsp/shaping"
	"github.com/cwbudde/algo-pulse/internal/config"
	"github.com/cwbudde/algo-pulse/stats/noise"
)

// Job is one parameter combination of a sweep.
type Job struct {
	Index    int
	Name     string
	Pipeline *Pipeline
}

// Flag returns the stages enabled by cfg.
func Flag(cfg config.RunConfig) RunFlag {
	var f RunFlag
	if cfg.Slow {
		f |= RunSlow
	}
	if cfg.Fast {
		f |= RunFast
	}
	if cfg.CFD {
		f |= RunCFD
	}
	return f
}

type template struct {
	name  string
	stage Stage
}

// BuildSweep expands the parameter ranges of cfg into jobs: the Cartesian
// product of slow, fast and CFD stage templates. Every job gets its own
// reader and stage clones; a CFD filter takes its fast lengths from the
// job's fast filter.
//
// Job names join the names of the stages that vary, for example
// "SL200SG20-FL10FG2-D8W4l". A sweep with a single job is named after
// cfg.Output.Name. Only the first job accumulates the noise spectrum, since
// raw traces are the same for every job.
func BuildSweep(cfg *config.Config, log *zap.Logger) ([]Job, error) {
	if log == nil {
		log = zap.NewNop()
	}
	flag := Flag(cfg.Run)

	reader, err := NewReader(cfg.Trace)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	dt := reader.Period()

	slow := []template{{}}
	if flag&RunSlow != 0 {
		if slow, err = slowTemplates(cfg, dt); err != nil {
			return nil, err
		}
	}
	fast := []template{{}}
	if flag&(RunFast|RunCFD) != 0 {
		if fast, err = fastTemplates(cfg); err != nil {
			return nil, err
		}
	}
	cfd := []template{{}}
	if flag&RunCFD != 0 {
		if cfd, err = cfdTemplates(cfg); err != nil {
			return nil, err
		}
	}

	log.Info("sim: sweep built",
		zap.Int("slow", len(slow)),
		zap.Int("fast", len(fast)),
		zap.Int("cfd", len(cfd)),
		zap.Uint("period_ns", dt))

	jobs := make([]Job, 0, len(slow)*len(fast)*len(cfd))
	for _, s := range slow {
		for _, f := range fast {
			for _, c := range cfd {
				p := &Pipeline{
					Reader:    reader,
					Slow:      s.stage,
					Fast:      f.stage,
					CFD:       c.stage,
					ZeroPoint: cfg.Run.ZeroPoint,
					Log:       log,
				}
				pl, err := p.Clone()
				if err != nil {
					closeJobs(jobs)
					return nil, err
				}
				if cf, ok := pl.CFD.Filter.(*shaping.CFD); ok {
					if ff, ok := pl.Fast.Filter.(*shaping.Fast); ok {
						cf.SetFastParams(ff.Params())
					}
				}

				pl.Name = jobName(len(slow) > 1, s.name, len(fast) > 1, f.name, len(cfd) > 1, c.name)
				if pl.Name == "" {
					pl.Name = cfg.Output.Name
				}
				jobs = append(jobs, Job{Index: len(jobs), Name: pl.Name, Pipeline: pl})
			}
		}
	}

	if n := cfg.Run.NoisePoints; n > 0 && len(jobs) > 0 {
		w, err := noise.ParseWindow(cfg.Run.NoiseWindow)
		if err != nil {
			closeJobs(jobs)
			return nil, fmt.Errorf("%w: %v", ErrConfig, err)
		}
		spec, err := noise.New(n, noise.WithWindow(w))
		if err != nil {
			closeJobs(jobs)
			return nil, fmt.Errorf("%w: %v", ErrConfig, err)
		}
		jobs[0].Pipeline.Noise = spec
	}
	return jobs, nil
}

func jobName(slowVaries bool, slow string, fastVaries bool, fast string, cfdVaries bool, cfd string) string {
	var parts []string
	if slowVaries && slow != "" {
		parts = append(parts, slow)
	}
	if fastVaries && fast != "" {
		parts = append(parts, fast)
	}
	if cfdVaries && cfd != "" {
		parts = append(parts, cfd)
	}
	return strings.Join(parts, "-")
}

func closeJobs(jobs []Job) {
	for _, j := range jobs {
		j.Pipeline.Reader.Close()
	}
}

func slowTemplates(cfg *config.Config, dt uint) ([]template, error) {
	s := cfg.Slow
	var out []template

	switch s.Filter {
	case config.FilterEmpty:
		out = append(out, template{stage: Stage{Filter: shaping.Identity{}}})
	case config.FilterMWD, config.FilterXia:
		tauVaries := s.Tau.Len() > 1
		for _, sl := range s.Rise.Uints() {
			for _, sg := range s.Gap.Uints() {
				for _, st := range s.Tau.Uints() {
					var f shaping.Filter
					if s.Filter == config.FilterMWD {
						f = shaping.NewMWDFromTimes(sl*dt, sg*dt, st, dt)
					} else {
						f = shaping.NewSlidingSumFromTimes(sl*dt, sg*dt, st, dt)
					}
					name := fmt.Sprintf("SL%dSG%d", sl, sg)
					if tauVaries {
						name += fmt.Sprintf("ST%d", st)
					}

					var p pick.Picker
					switch s.Picker {
					case config.PickerMax:
						p = pick.Max{}
					case config.PickerTrapezoidTop:
						p = pick.NewTrapezoidTop(max(cfg.Run.ZeroPoint-20, 0), int(sl), int(sl+sg))
					default:
						return nil, fmt.Errorf("%w: unknown slow picker %q", ErrConfig, s.Picker)
					}
					out = append(out, template{name: name, stage: Stage{Filter: f, Picker: p}})
				}
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unknown slow filter %q", ErrConfig, s.Filter)
	}

	if s.Picker != config.PickerMax {
		return nil, fmt.Errorf("%w: slow picker %q needs a shaping filter", ErrConfig, s.Picker)
	}
	out[0].stage.Picker = pick.Max{}
	return out, nil
}

func fastTemplates(cfg *config.Config) ([]template, error) {
	f := cfg.Fast
	var out []template

	switch f.Filter {
	case config.FilterEmpty:
		out = append(out, template{stage: Stage{Filter: shaping.Identity{}}})
	case config.FilterXia:
		for _, fl := range f.Rise.Uints() {
			for _, fg := range f.Gap.Uints() {
				out = append(out, template{
					name:  fmt.Sprintf("FL%dFG%d", fl, fg),
					stage: Stage{Filter: shaping.NewFast(int(fl), int(fl+fg))},
				})
			}
		}
	default:
		return nil, fmt.Errorf("%w: unknown fast filter %q", ErrConfig, f.Filter)
	}

	for i := range out {
		switch f.Picker {
		case config.PickerMax:
			out[i].stage.Picker = pick.Max{}
		case config.PickerLeadingEdge:
			out[i].stage.Picker = pick.NewLeadingEdge(f.Threshold)
		default:
			return nil, fmt.Errorf("%w: unknown fast picker %q", ErrConfig, f.Picker)
		}
	}
	return out, nil
}

func cfdTemplates(cfg *config.Config) ([]template, error) {
	c := cfg.CFD
	var filters []template

	switch c.Filter {
	case config.FilterEmpty:
		filters = append(filters, template{stage: Stage{Filter: shaping.Identity{}}})
	case config.FilterXia:
		if cfg.Fast.Filter == config.FilterXia {
			// Fast lengths are taken from the job's fast filter.
			for _, d := range c.Delay.Uints() {
				for _, w := range c.Scale.Uints() {
					filters = append(filters, template{
						name:  fmt.Sprintf("D%dW%d", d, w),
						stage: Stage{Filter: shaping.NewCFD(1, 1, int(d), w)},
					})
				}
			}
			break
		}
		for _, fl := range cfg.Fast.Rise.Uints() {
			for _, fg := range cfg.Fast.Gap.Uints() {
				for _, d := range c.Delay.Uints() {
					for _, w := range c.Scale.Uints() {
						filters = append(filters, template{
							name:  fmt.Sprintf("FL%dFG%dD%dW%d", fl, fg, d, w),
							stage: Stage{Filter: shaping.NewCFD(int(fl), int(fl+fg), int(d), w)},
						})
					}
				}
			}
		}
	default:
		return nil, fmt.Errorf("%w: unknown cfd filter %q", ErrConfig, c.Filter)
	}

	ts := max(cfg.Run.ZeroPoint-10, 0)
	suffix := "l"
	if c.Cubic {
		suffix = "c"
	}

	switch c.Picker {
	case config.PickerMax:
		for i := range filters {
			filters[i].stage.Picker = pick.Max{}
		}
		return filters, nil
	case config.PickerZeroCross:
		for i := range filters {
			filters[i].stage.Picker = pick.NewZeroCross(ts, c.Threshold, c.Cubic)
			filters[i].name += suffix
		}
		return filters, nil
	case config.PickerDigitalFraction:
		var out []template
		for _, frac := range c.Fraction.Values() {
			for _, t := range filters {
				out = append(out, template{
					name: t.name + fmt.Sprintf("DF%d%s", int(math.Round(frac*100)), suffix),
					stage: Stage{
						Filter: t.stage.Filter.Clone(),
						Picker: pick.NewDigitalFraction(ts, frac, c.Cubic, c.BaseLen),
					},
				})
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unknown cfd picker %q", ErrConfig, c.Picker)
	}
}

// Outcome is the result of one job of a sweep.
type Outcome struct {
	Job   string
	Stats RunStats
	Err   error
}

// SweepOptions controls RunSweep.
type SweepOptions struct {
	// Entries per job; 0 reads every trace.
	Entries int
	Flag    RunFlag
	// Threads bounds the number of concurrent jobs; values below 1 mean 1.
	Threads int
	// NewSink returns the sink of a job, or nil for none. A sink that is an
	// io.Closer is closed when the job ends.
	NewSink func(Job) (Sink, error)
	Log     *zap.Logger
}

// RunSweep runs every job and returns their outcomes in job order. Jobs
// fail independently; readers are closed when their job ends.
func RunSweep(ctx context.Context, jobs []Job, opts SweepOptions) []Outcome {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	threads := max(opts.Threads, 1)

	outcomes := make([]Outcome, len(jobs))
	sem := make(chan struct{}, threads)
	var wg sync.WaitGroup

	start := time.Now()
	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job Job) {
			defer wg.Done()

			sem <- struct{}{}        // Acquire
			defer func() { <-sem }() // Release

			outcomes[i] = runJob(ctx, job, opts, log)
		}(i, job)
	}
	wg.Wait()

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	log.Info("sim: sweep finished",
		zap.Int("jobs", len(jobs)),
		zap.Int("failed", failed),
		zap.Int("threads", threads),
		zap.Duration("elapsed", time.Since(start)))
	return outcomes
}

func runJob(ctx context.Context, job Job, opts SweepOptions, log *zap.Logger) Outcome {
	out := Outcome{Job: job.Name}
	defer job.Pipeline.Reader.Close()

	var sink Sink
	if opts.NewSink != nil {
		s, err := opts.NewSink(job)
		if err != nil {
			out.Err = fmt.Errorf("sim: job %s: %w", job.Name, err)
			log.Error("sim: job failed", zap.String("job", job.Name), zap.Error(out.Err))
			return out
		}
		sink = s
	}

	out.Stats, out.Err = job.Pipeline.Run(ctx, opts.Entries, opts.Flag, sink)
	if c, ok := sink.(io.Closer); ok {
		if err := c.Close(); err != nil && out.Err == nil {
			out.Err = fmt.Errorf("sim: job %s: close sink: %w", job.Name, err)
		}
	}

	if out.Err != nil {
		log.Error("sim: job failed", zap.String("job", job.Name), zap.Error(out.Err))
	} else {
		log.Info("sim: job finished",
			zap.String("job", job.Name),
			zap.Int("traces", out.Stats.Traces),
			zap.Duration("total", out.Stats.Timing.Total()))
	}
	return out
}
