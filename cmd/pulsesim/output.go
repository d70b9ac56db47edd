package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-pulse/internal/config"
	"github.com/cwbudde/algo-pulse/internal/sim"
)

// outputs owns the files and buffers of one sweep.
type outputs struct {
	cfg    config.OutputConfig
	period uint
	tables []bytes.Buffer
}

func newOutputs(cfg *config.Config, jobs int) *outputs {
	o := &outputs{cfg: cfg.Output, period: cfg.Trace.Period()}
	if o.cfg.Report == config.ReportTable {
		o.tables = make([]bytes.Buffer, jobs)
	}
	return o
}

func (o *outputs) prepare() error {
	if !o.cfg.CSV {
		return nil
	}
	if err := os.MkdirAll(o.cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}

// sink is called concurrently; every job writes to its own file and buffer.
func (o *outputs) sink(job sim.Job) (sim.Sink, error) {
	var sinks sim.MultiSink
	if o.cfg.CSV {
		s, err := sim.CreateCSV(filepath.Join(o.cfg.Dir, job.Name+".csv"))
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}
	if o.tables != nil {
		sinks = append(sinks, sim.NewTableSink(&o.tables[job.Index]))
	}
	if len(sinks) == 0 {
		return nil, nil
	}
	return sinks, nil
}

func (o *outputs) finish(jobs []sim.Job, outcomes []sim.Outcome, runID string) error {
	for i := range o.tables {
		fmt.Printf("== %s\n%s\n", jobs[i].Name, o.tables[i].String())
	}
	if o.cfg.Report != config.ReportNone {
		if err := sim.WriteReport(os.Stdout, outcomes); err != nil {
			return err
		}
	}

	var errs []error
	if o.cfg.Metrics != "" {
		errs = append(errs, writeFile(o.cfg.Metrics, func(f *os.File) error {
			return sim.WriteMetrics(f, runID, outcomes)
		}))
	}
	if len(jobs) > 0 && jobs[0].Pipeline.Noise != nil && o.cfg.Dir != "" {
		spec := jobs[0].Pipeline.Noise
		period := o.period
		if period == 0 {
			period = jobs[0].Pipeline.Reader.Period()
		}
		path := filepath.Join(o.cfg.Dir, o.cfg.Name+"-noise.csv")
		errs = append(errs, writeFile(path, func(f *os.File) error {
			return sim.WriteNoiseCSV(f, spec.Frequencies(period), spec.Power())
		}))
	}
	return errors.Join(errs...)
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
