package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoad_Valid(t *testing.T) {
	yaml := `
trace:
  source: function
  sampling_rate: 250
  points: 4000
  noise: 2.5
  pulse:
    amplitude: 500
    tau: 40000
    theta: 20
    t0: 400
run:
  entries: 25
  zero_point: 100
  threads: 4
  noise_points: 64
  noise_window: blackman
slow:
  filter: xia
  picker: max
  rise: [100, 300, 100]
  gap: 50
  tau: [40000]
fast:
  filter: xia
  picker: leading-edge
  rise: [10, 20, 5]
  gap: 2
  threshold: 30
cfd:
  filter: xia
  picker: digital-fraction
  delay: [4, 8, 2]
  scale: 2
  fraction: [0.2, 0.8, 0.2]
  cubic: true
output:
  dir: out
  csv: true
  report: table
  metrics: out/metrics.prom
`
	cfg := loadFromString(t, yaml)

	assert.Equal(t, uint(4), cfg.Trace.Period())
	assert.Equal(t, 4000, cfg.Trace.Points)
	assert.InDelta(t, 2.5, cfg.Trace.Noise, 0)
	assert.InDelta(t, 40000.0, cfg.Trace.Pulse.Tau, 0)
	assert.Equal(t, 25, cfg.Run.Entries)
	assert.Equal(t, 4, cfg.Run.Threads)
	assert.Equal(t, 64, cfg.Run.NoisePoints)
	assert.Equal(t, "blackman", cfg.Run.NoiseWindow)

	assert.Equal(t, FilterXia, cfg.Slow.Filter)
	assert.Equal(t, []uint{100, 200, 300}, cfg.Slow.Rise.Uints())
	assert.Equal(t, Single(50), cfg.Slow.Gap)
	assert.Equal(t, Single(40000), cfg.Slow.Tau)

	assert.Equal(t, []uint{10, 15, 20}, cfg.Fast.Rise.Uints())
	assert.InDelta(t, 30.0, cfg.Fast.Threshold, 0)

	assert.Equal(t, PickerDigitalFraction, cfg.CFD.Picker)
	assert.Equal(t, 4, cfg.CFD.Fraction.Len())
	assert.True(t, cfg.CFD.Cubic)
	assert.Equal(t, ReportTable, cfg.Output.Report)
	assert.Equal(t, "out/metrics.prom", cfg.Output.Metrics)
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadFromString(t, "run:\n  entries: 10\n")

	want := Default()
	want.Run.Entries = 10
	assert.Equal(t, want, cfg)
	assert.Equal(t, uint(10), cfg.Trace.Period())
	assert.Equal(t, SourceFunction, cfg.Trace.Source)
	assert.Equal(t, DefaultZeroPoint, cfg.Run.ZeroPoint)
	assert.Equal(t, DefaultBaseLen, cfg.CFD.BaseLen)
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	cfg := loadFromString(t, "")
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := loadStringErr(t, "run: [unclosed\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse yaml")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		msg  string
	}{
		{"unknown source", "trace:\n  source: scope\n", `unknown source "scope"`},
		{"wav without path", "trace:\n  source: wav\n", "trace.path is required"},
		{"no sampling rate", "trace:\n  sampling_rate: 0\n", "sampling_rate is required"},
		{"bad pulse", "trace:\n  pulse:\n    tau: 0\n", "tau and theta"},
		{"no stage", "run:\n  slow: false\n  fast: false\n  cfd: false\n", "no stage enabled"},
		{"zero point", "run:\n  zero_point: 2000\n", "outside trace"},
		{"endless function", "run:\n  entries: 0\n", "run.entries is required"},
		{"threads", "run:\n  threads: 0\n", "threads must be positive"},
		{"noise points", "run:\n  noise_points: 100\n", "power of two"},
		{"noise window", "run:\n  noise_window: kaiser\n", "unknown window"},
		{"slow filter", "slow:\n  filter: gauss\n", `slow.filter: unknown type "gauss"`},
		{"slow picker", "slow:\n  picker: mean\n", `slow.picker: unknown type "mean"`},
		{"slow rise", "slow:\n  rise: 0\n", "slow.rise must be positive"},
		{"slow too long", "slow:\n  rise: 1000\n", "exceed trace"},
		{"trapezoid on empty", "slow:\n  filter: empty\n", "needs a shaping filter"},
		{"trapezoid late", "run:\n  zero_point: 1900\n", "edge scan exceeds"},
		{"fast filter", "fast:\n  filter: mwd\n", `fast.filter: unknown type "mwd"`},
		{"fast picker", "fast:\n  picker: trapezoid-top\n", "fast.picker"},
		{"cfd filter", "cfd:\n  filter: mwd\n", "cfd.filter"},
		{"cfd picker", "cfd:\n  picker: leading-edge\n", "cfd.picker"},
		{"cfd scale", "cfd:\n  scale: 9\n", "at most 8"},
		{"fraction", "cfd:\n  picker: digital-fraction\n  fraction: 1.5\n", "at most 1"},
		{"base len", "cfd:\n  picker: digital-fraction\n  base_len: 0\n", "cfd.base_len"},
		{"range order", "fast:\n  rise: [20, 10, 1]\n", "max 10 below min 20"},
		{"range step", "fast:\n  rise: [10, 20, 0]\n", "step must be positive"},
		{"range negative", "fast:\n  gap: -1\n", "must not be negative"},
		{"report", "output:\n  report: html\n", `unknown mode "html"`},
		{"csv dir", "output:\n  csv: true\n  dir: \"\"\n", "output.dir is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadStringErr(t, tt.yaml)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
			assert.Contains(t, err.Error(), "config: ")
		})
	}
}

func TestLoad_DisabledStagesAreNotValidated(t *testing.T) {
	cfg := loadFromString(t, `
run:
  fast: false
  cfd: false
fast:
  filter: bogus
cfd:
  picker: bogus
`)
	assert.False(t, cfg.Run.Fast)
	assert.Equal(t, "bogus", cfg.Fast.Filter)
}

func TestLoad_CFDSweepsFastLengthsWithoutFastFilter(t *testing.T) {
	_, err := loadStringErr(t, `
fast:
  filter: empty
  rise: 0
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fast.rise must be positive")
}

func TestRangeValues(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		want []float64
	}{
		{"single", Single(3), []float64{3}},
		{"integer", Range{Min: 100, Max: 300, Step: 100}, []float64{100, 200, 300}},
		{"partial last step", Range{Min: 1, Max: 2, Step: 0.4}, []float64{1, 1.4, 1.8}},
		{"zero step", Range{Min: 1, Max: 1, Step: 0}, []float64{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDeltaSlice(t, tt.want, tt.r.Values(), 1e-12)
			assert.Equal(t, len(tt.want), tt.r.Len())
		})
	}
}

func TestRangeFloatStepReachesMax(t *testing.T) {
	r := Range{Min: 0.1, Max: 0.5, Step: 0.1}
	vs := r.Values()
	require.Len(t, vs, 5)
	assert.InDelta(t, 0.5, vs[4], 1e-12)
}

func TestRangeYAML(t *testing.T) {
	var got struct {
		A Range `yaml:"a"`
		B Range `yaml:"b"`
		C Range `yaml:"c"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("a: 5\nb: [7]\nc: [1, 9, 2]\n"), &got))
	assert.Equal(t, Single(5), got.A)
	assert.Equal(t, Single(7), got.B)
	assert.Equal(t, Range{Min: 1, Max: 9, Step: 2}, got.C)

	out, err := yaml.Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, "a: 5\nb: 7\nc:\n    - 1\n    - 9\n    - 2\n", string(out))

	err = yaml.Unmarshal([]byte("a: [1, 2]\n"), &got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[min, max, step]")

	err = yaml.Unmarshal([]byte("a:\n  min: 1\n"), &got)
	require.Error(t, err)
}

func loadFromString(t *testing.T, content string) *Config {
	t.Helper()
	cfg, err := loadStringErr(t, content)
	require.NoError(t, err)
	return cfg
}

func loadStringErr(t *testing.T, content string) (*Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pulsesim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return Load(path)
}
