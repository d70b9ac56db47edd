package sim

import (
	"fmt"
	"io"
	"math"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Metric family names written by WriteMetrics.
const (
	MetricTraces     = "pulsesim_traces_total"
	MetricStage      = "pulsesim_stage_seconds_total"
	MetricResolution = "pulsesim_energy_resolution"
	MetricFailed     = "pulsesim_job_failed"
)

// WriteMetrics writes the outcomes of a sweep in the Prometheus text
// exposition format. Every sample carries the job name and runID.
func WriteMetrics(w io.Writer, runID string, outcomes []Outcome) error {
	traces := family(MetricTraces, "Traces processed per job.", dto.MetricType_COUNTER)
	stage := family(MetricStage, "Wall time spent per job and step.", dto.MetricType_COUNTER)
	resolution := family(MetricResolution, "Energy FWHM divided by mean energy.", dto.MetricType_GAUGE)
	failed := family(MetricFailed, "1 when the job stopped with an error.", dto.MetricType_GAUGE)

	for _, o := range outcomes {
		labels := []*dto.LabelPair{label("job", o.Job), label("run_id", runID)}

		traces.Metric = append(traces.Metric, &dto.Metric{
			Label:   labels,
			Counter: &dto.Counter{Value: ptr(float64(o.Stats.Traces))},
		})

		t := o.Stats.Timing
		for _, s := range []struct {
			name string
			d    time.Duration
		}{
			{"read", t.Read},
			{"slow", t.Slow},
			{"fast", t.Fast},
			{"cfd", t.CFD},
			{"pick", t.Pick},
			{"other", t.Other},
		} {
			stage.Metric = append(stage.Metric, &dto.Metric{
				Label:   append(labels[:len(labels):len(labels)], label("stage", s.name)),
				Counter: &dto.Counter{Value: ptr(s.d.Seconds())},
			})
		}

		if r := o.Stats.Energy.Resolution; o.Stats.Energy.Count > 0 && !math.IsNaN(r) {
			resolution.Metric = append(resolution.Metric, &dto.Metric{
				Label: labels,
				Gauge: &dto.Gauge{Value: ptr(r)},
			})
		}

		v := 0.0
		if o.Err != nil {
			v = 1
		}
		failed.Metric = append(failed.Metric, &dto.Metric{
			Label: labels,
			Gauge: &dto.Gauge{Value: ptr(v)},
		})
	}

	for _, mf := range []*dto.MetricFamily{traces, stage, resolution, failed} {
		if len(mf.Metric) == 0 {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("sim: write metrics: %w", err)
		}
	}
	return nil
}

func family(name, help string, typ dto.MetricType) *dto.MetricFamily {
	return &dto.MetricFamily{Name: ptr(name), Help: ptr(help), Type: typ.Enum()}
}

func label(name, value string) *dto.LabelPair {
	return &dto.LabelPair{Name: ptr(name), Value: ptr(value)}
}

func ptr[T any](v T) *T {
	return &v
}
