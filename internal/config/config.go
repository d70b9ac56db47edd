package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-pulse/stats/noise"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultSamplingRate = 100 // MHz, dt = 10 ns
	DefaultPoints       = 2000
	DefaultEntries      = 1000
	DefaultZeroPoint    = 600
	DefaultThreads      = 1
	DefaultBaseLen      = 10
)

// Trace sources.
const (
	SourceFunction = "function"
	SourceWAV      = "wav"
)

// Filter types.
const (
	FilterEmpty = "empty"
	FilterMWD   = "mwd"
	FilterXia   = "xia"
)

// Picker types.
const (
	PickerMax             = "max"
	PickerTrapezoidTop    = "trapezoid-top"
	PickerLeadingEdge     = "leading-edge"
	PickerZeroCross       = "zero-cross"
	PickerDigitalFraction = "digital-fraction"
)

// Report modes.
const (
	ReportNone    = "none"
	ReportSummary = "summary"
	ReportTable   = "table"
)

// Config is the top-level configuration of a simulation run.
type Config struct {
	Trace  TraceConfig  `yaml:"trace"`
	Run    RunConfig    `yaml:"run"`
	Slow   SlowConfig   `yaml:"slow"`
	Fast   FastConfig   `yaml:"fast"`
	CFD    CFDConfig    `yaml:"cfd"`
	Output OutputConfig `yaml:"output"`
}

// TraceConfig selects where traces come from.
type TraceConfig struct {
	// Source is one of: function | wav.
	Source string `yaml:"source"`

	// Path is the WAV capture read when Source == "wav".
	Path string `yaml:"path"`

	// SamplingRate is the digitizer rate in MHz. The sampling period is
	// 1000/SamplingRate ns. Zero with a wav source uses the file's rate.
	SamplingRate uint `yaml:"sampling_rate"`

	// Points is the number of samples per trace.
	Points int `yaml:"points"`

	// Seed and Noise drive the function source.
	Seed  int64   `yaml:"seed"`
	Noise float64 `yaml:"noise"`

	// Pulse is the shape sampled by the function source.
	Pulse PulseConfig `yaml:"pulse"`
}

// PulseConfig is A*(exp(-t/tau) - exp(-t/theta)) after t0, in ns.
type PulseConfig struct {
	Amplitude float64 `yaml:"amplitude"`
	Tau       float64 `yaml:"tau"`
	Theta     float64 `yaml:"theta"`
	T0        float64 `yaml:"t0"`
	Baseline  float64 `yaml:"baseline"`
}

// RunConfig selects the stages and the amount of work.
type RunConfig struct {
	Slow bool `yaml:"slow"`
	Fast bool `yaml:"fast"`
	CFD  bool `yaml:"cfd"`

	// Entries is the number of traces per job; 0 reads until the source is
	// exhausted.
	Entries int `yaml:"entries"`

	// ZeroPoint is the expected pulse start, in samples. Picked times are
	// reported relative to it.
	ZeroPoint int `yaml:"zero_point"`

	// Threads bounds the number of jobs run concurrently.
	Threads int `yaml:"threads"`

	// NoisePoints enables the baseline noise spectrum over the first
	// NoisePoints samples of every trace. Must be a power of two; 0 disables.
	NoisePoints int `yaml:"noise_points"`

	// NoiseWindow tapers each noise segment: rectangular, hann or blackman.
	NoiseWindow string `yaml:"noise_window"`
}

// SlowConfig configures the energy stage. Rise and Gap are in samples, Tau
// in ns.
type SlowConfig struct {
	// Filter is one of: empty | mwd | xia.
	Filter string `yaml:"filter"`
	// Picker is one of: max | trapezoid-top.
	Picker string `yaml:"picker"`

	Rise Range `yaml:"rise"`
	Gap  Range `yaml:"gap"`
	Tau  Range `yaml:"tau"`
}

// FastConfig configures the trigger stage. Rise and Gap are in samples.
type FastConfig struct {
	// Filter is one of: empty | xia.
	Filter string `yaml:"filter"`
	// Picker is one of: max | leading-edge.
	Picker string `yaml:"picker"`

	Rise Range `yaml:"rise"`
	Gap  Range `yaml:"gap"`

	// Threshold arms the leading-edge picker.
	Threshold float64 `yaml:"threshold"`
}

// CFDConfig configures the constant-fraction timing stage. Delay is in
// samples, Scale in eighths.
type CFDConfig struct {
	// Filter is one of: empty | xia.
	Filter string `yaml:"filter"`
	// Picker is one of: max | zero-cross | digital-fraction.
	Picker string `yaml:"picker"`

	Delay    Range `yaml:"delay"`
	Scale    Range `yaml:"scale"`
	Fraction Range `yaml:"fraction"`

	// Cubic selects cubic interpolation of the crossing.
	Cubic bool `yaml:"cubic"`

	// Threshold arms the zero-cross picker.
	Threshold float64 `yaml:"threshold"`

	// BaseLen is the baseline window of the digital-fraction picker.
	BaseLen int `yaml:"base_len"`
}

// OutputConfig controls where results go.
type OutputConfig struct {
	// Dir receives one CSV file per job.
	Dir string `yaml:"dir"`

	// Name is the file stem used when the sweep has a single job.
	Name string `yaml:"name"`

	// CSV enables the per-trace result files.
	CSV bool `yaml:"csv"`

	// Report is one of: none | summary | table.
	Report string `yaml:"report"`

	// Metrics is the Prometheus text file written after the sweep; empty
	// disables it.
	Metrics string `yaml:"metrics"`
}

// Period returns the sampling period in ns, or 0 when it is taken from the
// trace source.
func (t TraceConfig) Period() uint {
	if t.SamplingRate == 0 {
		return 0
	}
	return 1000 / t.SamplingRate
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML config data, applying defaults and validation.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config pre-populated with default values: a 20 µs
// function trace at 100 MS/s with all three stages enabled.
func Default() *Config {
	return &Config{
		Trace: TraceConfig{
			Source:       SourceFunction,
			SamplingRate: DefaultSamplingRate,
			Points:       DefaultPoints,
			Seed:         1,
			Pulse: PulseConfig{
				Amplitude: 1000,
				Tau:       10000,
				Theta:     30,
				T0:        6000,
			},
		},
		Run: RunConfig{
			Slow:        true,
			Fast:        true,
			CFD:         true,
			Entries:     DefaultEntries,
			ZeroPoint:   DefaultZeroPoint,
			Threads:     DefaultThreads,
			NoiseWindow: "hann",
		},
		Slow: SlowConfig{
			Filter: FilterMWD,
			Picker: PickerTrapezoidTop,
			Rise:   Single(200),
			Gap:    Single(20),
			Tau:    Single(10000),
		},
		Fast: FastConfig{
			Filter:    FilterXia,
			Picker:    PickerLeadingEdge,
			Rise:      Single(20),
			Gap:       Single(0),
			Threshold: 50,
		},
		CFD: CFDConfig{
			Filter:    FilterXia,
			Picker:    PickerZeroCross,
			Delay:     Single(10),
			Scale:     Single(4),
			Fraction:  Single(0.5),
			Threshold: 10,
			BaseLen:   DefaultBaseLen,
		},
		Output: OutputConfig{
			Dir:    ".",
			Name:   "sim",
			Report: ReportSummary,
		},
	}
}

// validate checks enums, ranges and the trace geometry the pickers rely on.
func validate(cfg *Config) error {
	t := cfg.Trace
	switch t.Source {
	case SourceFunction:
		if t.SamplingRate == 0 {
			return fmt.Errorf("trace.sampling_rate is required for the function source")
		}
		if t.Pulse.Tau <= 0 || t.Pulse.Theta <= 0 {
			return fmt.Errorf("trace.pulse: tau and theta must be positive")
		}
	case SourceWAV:
		if t.Path == "" {
			return fmt.Errorf("trace.path is required for the wav source")
		}
	default:
		return fmt.Errorf("trace.source: unknown source %q", t.Source)
	}
	if t.SamplingRate > 1000 {
		return fmt.Errorf("trace.sampling_rate must be at most 1000 MHz")
	}
	if t.Points <= 0 {
		return fmt.Errorf("trace.points must be positive")
	}
	if t.Noise < 0 {
		return fmt.Errorf("trace.noise must not be negative")
	}

	r := cfg.Run
	if !r.Slow && !r.Fast && !r.CFD {
		return fmt.Errorf("run: no stage enabled")
	}
	if r.Entries < 0 {
		return fmt.Errorf("run.entries must not be negative")
	}
	if r.Entries == 0 && t.Source == SourceFunction {
		return fmt.Errorf("run.entries is required for the function source")
	}
	if r.ZeroPoint < 0 || r.ZeroPoint >= t.Points {
		return fmt.Errorf("run.zero_point %d outside trace of %d samples", r.ZeroPoint, t.Points)
	}
	if r.Threads <= 0 {
		return fmt.Errorf("run.threads must be positive")
	}
	if n := r.NoisePoints; n < 0 || n > t.Points || (n > 0 && n&(n-1) != 0) {
		return fmt.Errorf("run.noise_points must be a power of two up to trace.points, got %d", n)
	}
	if _, err := noise.ParseWindow(r.NoiseWindow); err != nil {
		return fmt.Errorf("run.noise_window: %w", err)
	}

	if r.Slow {
		if err := validateSlow(cfg); err != nil {
			return err
		}
	}
	if r.Fast || r.CFD {
		if err := validateFast(cfg); err != nil {
			return err
		}
	}
	if r.CFD {
		if err := validateCFD(cfg); err != nil {
			return err
		}
	}

	switch cfg.Output.Report {
	case ReportNone, ReportSummary, ReportTable:
	default:
		return fmt.Errorf("output.report: unknown mode %q", cfg.Output.Report)
	}
	if cfg.Output.CSV && cfg.Output.Dir == "" {
		return fmt.Errorf("output.dir is required when output.csv is set")
	}
	return nil
}

func validateSlow(cfg *Config) error {
	s := cfg.Slow
	switch s.Filter {
	case FilterEmpty:
	case FilterMWD, FilterXia:
		if err := positive("slow.rise", s.Rise); err != nil {
			return err
		}
		if err := s.Gap.validate("slow.gap"); err != nil {
			return err
		}
		if err := s.Tau.validate("slow.tau"); err != nil {
			return err
		}
		if int(s.Rise.Max+s.Rise.Max+s.Gap.Max) >= cfg.Trace.Points {
			return fmt.Errorf("slow: rise and gap exceed trace of %d samples", cfg.Trace.Points)
		}
	default:
		return fmt.Errorf("slow.filter: unknown type %q", s.Filter)
	}

	switch s.Picker {
	case PickerMax:
	case PickerTrapezoidTop:
		if s.Filter == FilterEmpty {
			return fmt.Errorf("slow.picker: %s needs a shaping filter", s.Picker)
		}
		// The edge scan reaches 20 samples before and 9 after TS+M.
		ts := max(cfg.Run.ZeroPoint-20, 0)
		if ts+int(s.Rise.Min+s.Gap.Min) < 20 {
			return fmt.Errorf("slow.picker: zero_point too early for the trapezoid edge scan")
		}
		if ts+int(s.Rise.Max+s.Gap.Max)+9 >= cfg.Trace.Points {
			return fmt.Errorf("slow.picker: trapezoid edge scan exceeds trace of %d samples", cfg.Trace.Points)
		}
	default:
		return fmt.Errorf("slow.picker: unknown type %q", s.Picker)
	}
	return nil
}

func validateFast(cfg *Config) error {
	f := cfg.Fast
	switch f.Filter {
	case FilterEmpty:
	case FilterXia:
		if err := positive("fast.rise", f.Rise); err != nil {
			return err
		}
		if err := f.Gap.validate("fast.gap"); err != nil {
			return err
		}
		if int(f.Rise.Max+f.Rise.Max+f.Gap.Max) >= cfg.Trace.Points {
			return fmt.Errorf("fast: rise and gap exceed trace of %d samples", cfg.Trace.Points)
		}
	default:
		return fmt.Errorf("fast.filter: unknown type %q", f.Filter)
	}

	switch f.Picker {
	case PickerMax, PickerLeadingEdge:
	default:
		return fmt.Errorf("fast.picker: unknown type %q", f.Picker)
	}
	return nil
}

func validateCFD(cfg *Config) error {
	c := cfg.CFD
	switch c.Filter {
	case FilterEmpty:
	case FilterXia:
		// Without a shaping fast filter the CFD sweeps the fast lengths itself.
		if cfg.Fast.Filter != FilterXia {
			if err := positive("fast.rise", cfg.Fast.Rise); err != nil {
				return err
			}
			if err := cfg.Fast.Gap.validate("fast.gap"); err != nil {
				return err
			}
		}
		if err := c.Delay.validate("cfd.delay"); err != nil {
			return err
		}
		if err := c.Scale.validate("cfd.scale"); err != nil {
			return err
		}
		if c.Scale.Max > 8 {
			return fmt.Errorf("cfd.scale must be at most 8 eighths")
		}
		if int(c.Delay.Max) >= cfg.Trace.Points {
			return fmt.Errorf("cfd.delay exceeds trace of %d samples", cfg.Trace.Points)
		}
	default:
		return fmt.Errorf("cfd.filter: unknown type %q", c.Filter)
	}

	switch c.Picker {
	case PickerMax, PickerZeroCross:
	case PickerDigitalFraction:
		if err := c.Fraction.validate("cfd.fraction"); err != nil {
			return err
		}
		if c.Fraction.Max > 1 {
			return fmt.Errorf("cfd.fraction must be at most 1")
		}
		if c.BaseLen <= 0 || c.BaseLen > cfg.Trace.Points {
			return fmt.Errorf("cfd.base_len must be in (0, %d]", cfg.Trace.Points)
		}
	default:
		return fmt.Errorf("cfd.picker: unknown type %q", c.Picker)
	}
	return nil
}

func positive(name string, r Range) error {
	if err := r.validate(name); err != nil {
		return err
	}
	if r.Min <= 0 {
		return fmt.Errorf("%s must be positive", name)
	}
	return nil
}
