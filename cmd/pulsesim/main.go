// Command pulsesim runs shaping filters and pickers over detector traces
// and reports the energy and timing figures of every parameter set.
//
// Usage:
//
//	pulsesim [flags]
//
// Without --config it runs the built-in defaults: a simulated 1000-count
// pulse at 100 MS/s through MWD, fast and CFD stages.
//
// Examples:
//
//	pulsesim -c sweep.yaml
//	pulsesim -c sweep.yaml --entries 200 --threads 8
//	pulsesim -c sweep.yaml --list
//	pulsesim -c sweep.yaml --watch
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-pulse/internal/config"
	"github.com/cwbudde/algo-pulse/internal/sim"
)

// options holds the command-line flags.
type options struct {
	configPath string
	entries    int
	threads    int
	list       bool
	watch      bool
	logLevel   string
}

func parseFlags(args []string) (*options, error) {
	var o options
	fs := flag.NewFlagSet("pulsesim", flag.ContinueOnError)
	fs.StringVarP(&o.configPath, "config", "c", "", "path to the YAML run configuration")
	fs.IntVar(&o.entries, "entries", -1, "traces per job, overrides run.entries")
	fs.IntVar(&o.threads, "threads", 0, "concurrent jobs, overrides run.threads")
	fs.BoolVar(&o.list, "list", false, "print the job names of the sweep and exit")
	fs.BoolVar(&o.watch, "watch", false, "re-run whenever the config file changes")
	fs.StringVar(&o.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pulsesim [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Runs pulse shaping filters and pickers over detector traces.\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return &o, nil
}

// apply overrides cfg with the flags that were set.
func (o *options) apply(cfg *config.Config) {
	if o.entries >= 0 {
		cfg.Run.Entries = o.entries
	}
	if o.threads > 0 {
		cfg.Run.Threads = o.threads
	}
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	log, err := newLogger(opts.logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pulsesim: %v\n", err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	cfg := config.Default()
	if opts.configPath != "" {
		cfg, err = config.Load(opts.configPath)
		if err != nil {
			log.Fatal("failed to load config", zap.Error(err))
		}
	}
	opts.apply(cfg)

	if opts.list {
		jobs, err := sim.BuildSweep(cfg, zap.NewNop())
		if err != nil {
			log.Fatal("failed to build sweep", zap.Error(err))
		}
		for _, j := range jobs {
			fmt.Println(j.Name)
			_ = j.Pipeline.Reader.Close()
		}
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("run failed", zap.Error(err))
		if !opts.watch {
			os.Exit(1)
		}
	}
	if !opts.watch {
		return
	}
	if opts.configPath == "" {
		log.Fatal("--watch needs --config")
	}

	reloads := make(chan *config.Config, 1)
	go func() {
		err := config.Watch(ctx, opts.configPath, log, func(updated *config.Config) {
			select {
			case reloads <- updated:
			default:
				// A run is pending; the newest config replaces it.
				select {
				case <-reloads:
				default:
				}
				reloads <- updated
			}
		})
		if err != nil {
			log.Error("config watcher stopped", zap.Error(err))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case updated := <-reloads:
			opts.apply(updated)
			if err := run(ctx, updated, log); err != nil {
				log.Error("run failed", zap.Error(err))
			}
		}
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.Encoding = "console"
	cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	return cfg.Build()
}

// run executes one sweep and writes its outputs.
func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	runID := uuid.NewString()
	log = log.With(zap.String("run_id", runID))

	jobs, err := sim.BuildSweep(cfg, log)
	if err != nil {
		return err
	}

	out := newOutputs(cfg, len(jobs))
	if err := out.prepare(); err != nil {
		return err
	}

	outcomes := sim.RunSweep(ctx, jobs, sim.SweepOptions{
		Entries: cfg.Run.Entries,
		Flag:    sim.Flag(cfg.Run),
		Threads: cfg.Run.Threads,
		NewSink: out.sink,
		Log:     log,
	})

	if err := out.finish(jobs, outcomes, runID); err != nil {
		return err
	}

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(outcomes))
	}
	return ctx.Err()
}
