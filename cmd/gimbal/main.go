package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/gimbal/internal/config"
	"github.com/zeusync/gimbal/internal/core/observability/log"
	"github.com/zeusync/gimbal/internal/core/system"
	"github.com/zeusync/gimbal/internal/core/tuning"
	"github.com/zeusync/gimbal/internal/injector"
)

type options struct {
	configPath string
	duration   float64
	realtime   bool
	watch      bool
	sweep      bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "YAML or JSON config file")
	flag.Float64Var(&opts.duration, "duration", -1, "seconds to run, overrides loop.duration")
	flag.BoolVar(&opts.realtime, "realtime", false, "tick in real time instead of as fast as possible")
	flag.BoolVar(&opts.watch, "watch", false, "apply gimbal tuning from the config file while running")
	flag.BoolVar(&opts.sweep, "sweep", false, "rank the configured tuning candidates and exit")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, "gimbal:", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if opts.duration >= 0 {
		cfg.Loop.Duration = opts.duration
	}
	if opts.realtime {
		cfg.Loop.Realtime = true
	}
	if !cfg.Loop.Realtime && cfg.Loop.Duration == 0 {
		return errors.New("a duration is required unless running in real time")
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger := log.New(level)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.sweep {
		return runSweep(ctx, cfg, logger)
	}

	loop, err := injector.InitializeLoop(cfg, logger)
	if err != nil {
		return err
	}

	err = runLoop(ctx, loop, cfg, opts, logger)
	if perr := writePlot(loop, cfg.Record.Plot); perr != nil {
		err = errors.Join(err, perr)
	}
	return errors.Join(err, loop.Close())
}

func runLoop(ctx context.Context, loop *system.Loop, cfg *config.Config, opts options, logger log.Log) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// The watcher has nothing left to tune once the loop is done.
		defer cancel()
		if cfg.Loop.Realtime {
			return loop.Run(ctx)
		}
		return loop.Simulate(ctx, cfg.Loop.Duration)
	})

	if opts.watch && opts.configPath != "" {
		updates := make(chan *config.Config)
		w := config.NewWatcher(opts.configPath, config.DefaultPollInterval, logger)
		g.Go(func() error { return w.Watch(ctx, updates) })
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case c := <-updates:
					loop.Tune(c.Gimbal)
				}
			}
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runSweep(ctx context.Context, cfg *config.Config, logger log.Log) error {
	results, err := tuning.Sweep(ctx, injector.SweepBuilder(cfg, logger), cfg.Gimbal,
		cfg.Tuning.Candidates, cfg.Loop.Duration, cfg.Tuning.Workers)
	if err != nil {
		return err
	}
	for rank, r := range results {
		logger.Info("candidate",
			log.Int("rank", rank+1),
			log.Float64("process_noise", r.Candidate.ProcessNoise),
			log.Float64("measurement_noise", r.Candidate.MeasurementNoise),
			log.Bool("measured", r.Summary.Measured()),
			log.Float64("smoothing", r.Summary.Smoothing),
			log.Float64("follower_rate_std", r.Summary.FollowerRateStd),
			log.Float64("distance_mean", r.Summary.DistanceMean))
	}
	return nil
}

func writePlot(loop *system.Loop, path string) error {
	if loop.Trace == nil || path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create plot: %w", err)
	}
	if err := loop.Trace.Plot(f, strings.TrimPrefix(filepath.Ext(path), ".")); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
