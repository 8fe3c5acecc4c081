package system

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/zeusync/gimbal/internal/core/anchor"
	"github.com/zeusync/gimbal/internal/core/events/bus"
	"github.com/zeusync/gimbal/internal/core/gimbal"
	"github.com/zeusync/gimbal/internal/core/input"
	"github.com/zeusync/gimbal/internal/core/observability/log"
	"github.com/zeusync/gimbal/internal/core/record"
)

// Deps wires a Loop. Binding, Recorder and Trace are optional.
type Deps struct {
	Scenario   *anchor.Scenario
	Jitter     *anchor.Jitter
	Track      *anchor.Track
	Script     *input.Script
	Bus        bus.EventBus
	Controller *gimbal.Controller
	Stats      *record.Stats
	Recorder   *record.Recorder
	Trace      *record.Trace
	Logger     log.Log

	// Rig is the bus topic scripted actions are published on.
	Rig string
	// Binding is the controller's subscription to Rig, released by Close.
	Binding bus.Subscription

	// TickRate is in ticks per second.
	TickRate float64
	// Duration in seconds. Zero runs until cancelled.
	Duration float64
}

// Metrics describe the work done by a Loop.
type Metrics struct {
	Frames          int64
	SimTime         float64
	Dropped         int64
	TotalStepTime   time.Duration
	AverageStepTime time.Duration
	LastStepTime    time.Duration
}

// Loop drives one follower tick by tick: it samples the anchor trajectory,
// feeds scripted input through the bus and records the outcome. Step, Simulate
// and Run must not be called concurrently; Tune may be called from anywhere.
type Loop struct {
	Deps

	t       float64
	metrics Metrics

	mu      sync.Mutex
	pending *gimbal.Config
}

func NewLoop(d Deps) *Loop {
	if d.Logger == nil {
		d.Logger = log.Provide()
	}
	d.Logger = d.Logger.With(log.String("component", "loop"))
	if d.Stats == nil {
		d.Stats = record.NewStats()
	}
	return &Loop{Deps: d}
}

// Time is the simulated time in seconds.
func (l *Loop) Time() float64 { return l.t }

func (l *Loop) Metrics() Metrics { return l.metrics }

func (l *Loop) Summary() record.Summary { return l.Stats.Summary() }

// Tune queues cfg for the controller. It is applied at the start of the next
// step; a later call replaces an earlier one not yet applied.
func (l *Loop) Tune(cfg gimbal.Config) {
	l.mu.Lock()
	l.pending = &cfg
	l.mu.Unlock()
}

// Step advances the simulation by dt seconds.
func (l *Loop) Step(dt float64) error {
	start := time.Now()
	l.applyTuning()
	l.t += dt

	l.sampleAnchor()

	in, actions := l.Script.Poll(l.t)
	if err := input.Publish(l.Bus, l.Rig, actions); err != nil {
		l.Logger.Warn("input actions rejected", log.Float64("t", l.t), log.Error(err))
	}

	follower := l.Controller.Tick(dt, in)

	smp := record.Sample{
		T:               l.t,
		Dt:              dt,
		Mode:            l.Controller.Mode(),
		AnchorAvailable: l.Track.Available(),
		Anchor:          l.Track.Pose(),
		Follower:        follower,
	}
	l.Stats.Observe(smp)
	if l.Trace != nil {
		l.Trace.Add(smp)
	}

	var err error
	if l.Recorder != nil {
		err = l.Recorder.Record(smp)
	}

	elapsed := time.Since(start)
	l.metrics.Frames++
	l.metrics.SimTime = l.t
	l.metrics.LastStepTime = elapsed
	l.metrics.TotalStepTime += elapsed
	l.metrics.AverageStepTime = l.metrics.TotalStepTime / time.Duration(l.metrics.Frames)
	return err
}

func (l *Loop) sampleAnchor() {
	pose, err := l.Scenario.At(l.t)
	if err != nil {
		if l.Track.Available() {
			l.Logger.Warn("anchor lost", log.Float64("t", l.t), log.Error(err))
		}
		l.Track.SetAvailable(false)
		return
	}
	l.Track.Set(l.Jitter.Apply(pose))
	l.Track.SetAvailable(l.Scenario.Available(l.t))
}

func (l *Loop) applyTuning() {
	l.mu.Lock()
	cfg := l.pending
	l.pending = nil
	l.mu.Unlock()

	if cfg != nil {
		l.Controller.Tune(*cfg)
	}
}

// Simulate steps at the fixed tick rate, as fast as possible, until duration
// seconds of simulated time have passed.
func (l *Loop) Simulate(ctx context.Context, duration float64) error {
	dt := 1 / l.TickRate
	steps := int64(math.Round(duration * l.TickRate))
	l.Logger.Info("simulation started", log.Float64("duration", duration), log.Int64("steps", steps))

	for i := int64(0); i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := l.Step(dt); err != nil {
			return err
		}
	}
	return l.finish()
}

// Run steps in real time with the measured delta between ticks, until ctx
// is done or Duration has elapsed.
func (l *Loop) Run(ctx context.Context) error {
	interval := time.Duration(float64(time.Second) / l.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	l.Logger.Info("loop started", log.Duration("interval", interval), log.Float64("duration", l.Duration))
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return l.finish()
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			// Ticks the ticker dropped because a step ran long.
			if dt >= 2*interval {
				l.metrics.Dropped += int64(dt/interval) - 1
			}
			if err := l.Step(dt.Seconds()); err != nil {
				return err
			}
			if l.Duration > 0 && l.t >= l.Duration {
				return l.finish()
			}
		}
	}
}

// Close releases the controller binding and closes the recorder.
func (l *Loop) Close() error {
	var err error
	if l.Binding != nil {
		err = l.Bus.Unsubscribe(l.Binding)
	}
	if l.Recorder != nil {
		err = errors.Join(err, l.Recorder.Close())
	}
	return err
}

func (l *Loop) finish() error {
	var err error
	if l.Recorder != nil {
		err = l.Recorder.Flush()
	}
	s := l.Summary()
	l.Logger.Info("loop finished",
		log.Int64("frames", l.metrics.Frames),
		log.Float64("sim_time", l.t),
		log.Int("measured_ticks", s.Ticks),
		log.Float64("anchor_rate_std", s.AnchorRateStd),
		log.Float64("follower_rate_std", s.FollowerRateStd),
		log.Float64("smoothing", s.Smoothing),
		log.Float64("max_roll", s.MaxRoll))

	m := l.Bus.GetMetrics()
	l.Logger.Info("input delivered",
		log.String("rig", l.Rig),
		log.Int64("events", int64(m.Published)),
		log.Int64("handlers", int64(m.DeliveredHandlers)),
		log.Int64("errors", int64(m.Errors)))
	return err
}
