package core

// DefaultPeriod is the sampling period of a 100 MS/s digitizer, in nanoseconds.
const DefaultPeriod = 10

// Config defines the acquisition settings shared by trace sources.
type Config struct {
	// Period is the sampling period dt in nanoseconds.
	Period uint
	// Points is the number of samples per trace.
	Points int
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the settings of a 100 MS/s, 50 µs capture.
func DefaultConfig() Config {
	return Config{
		Period: DefaultPeriod,
		Points: 5000,
	}
}

// WithPeriod sets the sampling period in nanoseconds.
func WithPeriod(dt uint) Option {
	return func(cfg *Config) {
		if dt > 0 {
			cfg.Period = dt
		}
	}
}

// WithPoints sets the number of samples per trace.
func WithPoints(points int) Option {
	return func(cfg *Config) {
		if points > 0 {
			cfg.Points = points
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
