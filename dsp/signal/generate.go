// Package signal generates synthetic detector traces.
package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-pulse/dsp/core"
)

// Pulse is a charge-sensitive preamplifier response
//
//	A * (exp(-t/Tau) - exp(-t/Theta))   for t >= T0
//
// on top of Baseline. Tau is the decay and Theta the rise time constant.
// Times are in nanoseconds.
type Pulse struct {
	Amplitude float64
	Tau       float64
	Theta     float64
	T0        float64
	Baseline  float64
}

// At evaluates the pulse at time t.
func (p Pulse) At(t float64) float64 {
	if t < p.T0 {
		return p.Baseline
	}
	t -= p.T0
	return p.Baseline + p.Amplitude*(math.Exp(-t/p.Tau)-math.Exp(-t/p.Theta))
}

// Validate reports pulse parameters that cannot be sampled.
func (p Pulse) Validate() error {
	if p.Tau <= 0 || p.Theta <= 0 {
		return fmt.Errorf("pulse time constants must be > 0: tau=%g theta=%g", p.Tau, p.Theta)
	}
	return nil
}

// Generator samples pulses at a fixed period with a random sub-period
// phase and optional Gaussian noise. It is not safe for concurrent use.
type Generator struct {
	cfg   core.Config
	seed  int64
	noise float64
	rng   *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for phase and noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithNoise adds Gaussian noise with standard deviation sigma to every
// sample.
func WithNoise(sigma float64) Option {
	return func(g *Generator) {
		if sigma >= 0 {
			g.noise = sigma
		}
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.Option) *Generator {
	return NewGeneratorWithOptions(opts)
}

// NewGeneratorWithOptions creates a configured signal generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.Option, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	g.rng = rand.New(rand.NewSource(g.seed))
	return g
}

// Config returns the acquisition configuration.
func (g *Generator) Config() core.Config {
	return g.cfg
}

// Seed returns the configured seed.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Reset restarts the random sequence from the seed.
func (g *Generator) Reset() {
	g.rng.Seed(g.seed)
}

// Clone returns a generator with the same configuration, restarted from
// the seed.
func (g *Generator) Clone() *Generator {
	return NewGeneratorWithOptions(
		[]core.Option{core.WithPeriod(g.cfg.Period), core.WithPoints(g.cfg.Points)},
		WithSeed(g.seed), WithNoise(g.noise),
	)
}

// Trace samples p into dst, reusing its capacity, and returns it.
//
// Sample i is taken at offset + i*Period where offset is a whole number of
// nanoseconds drawn uniformly from [0, Period).
func (g *Generator) Trace(dst []float64, p Pulse) []float64 {
	dst = core.EnsureLen(dst, g.cfg.Points)
	dt := float64(g.cfg.Period)
	offset := float64(g.rng.Intn(int(g.cfg.Period)))
	for i := range dst {
		dst[i] = p.At(offset + float64(i)*dt)
	}
	if g.noise > 0 {
		for i := range dst {
			dst[i] += g.rng.NormFloat64() * g.noise
		}
	}
	return dst
}

// WhiteNoise generates deterministic Gaussian noise with standard deviation
// sigma.
func (g *Generator) WhiteNoise(sigma float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if sigma < 0 {
		return nil, fmt.Errorf("noise sigma must be >= 0: %f", sigma)
	}
	out := make([]float64, samples)
	for i := range out {
		out[i] = g.rng.NormFloat64() * sigma
	}
	return out, nil
}
