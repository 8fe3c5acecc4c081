package injector

import (
	"fmt"
	"slices"

	"github.com/google/wire"

	"github.com/zeusync/gimbal/internal/config"
	"github.com/zeusync/gimbal/internal/core/anchor"
	"github.com/zeusync/gimbal/internal/core/events/bus"
	"github.com/zeusync/gimbal/internal/core/gimbal"
	"github.com/zeusync/gimbal/internal/core/input"
	"github.com/zeusync/gimbal/internal/core/observability/log"
	"github.com/zeusync/gimbal/internal/core/record"
	"github.com/zeusync/gimbal/internal/core/system"
)

var ProviderSet = wire.NewSet(
	ProvideBus,
	ProvideScenario,
	ProvideJitter,
	ProvideTrack,
	ProvideScript,
	ProvideController,
	ProvideBinding,
	ProvideRecorder,
	ProvideTrace,
	ProvideLoop,
)

func ProvideBus(logger log.Log) bus.EventBus {
	b := bus.New()
	b.AddObserver(bus.NewLogObserver(logger))
	return b
}

func ProvideScenario(cfg *config.Config) *anchor.Scenario {
	sc := cfg.Anchor.Scenario
	return &sc
}

// ProvideJitter returns nil when both sigmas are zero.
func ProvideJitter(cfg *config.Config) *anchor.Jitter {
	j := cfg.Anchor.Jitter
	if j.Position == 0 && j.Rotation == 0 {
		return nil
	}
	return anchor.NewJitter(j.Position, j.Rotation, j.Seed)
}

func ProvideTrack(sc *anchor.Scenario) (*anchor.Track, error) {
	if len(sc.Keyframes) == 0 {
		return nil, anchor.ErrEmptyScenario
	}
	first, err := sc.At(sc.Keyframes[0].T)
	if err != nil {
		return nil, fmt.Errorf("initial anchor pose: %w", err)
	}
	return anchor.NewTrack(first), nil
}

// ProvideScript copies the script so loops built from one config never share
// playback state.
func ProvideScript(cfg *config.Config) *input.Script {
	return &input.Script{
		Events: slices.Clone(cfg.Input.Events),
		Holds:  slices.Clone(cfg.Input.Holds),
	}
}

// ProvideController starts the follower on the anchor.
func ProvideController(cfg *config.Config, track *anchor.Track, logger log.Log) *gimbal.Controller {
	return gimbal.New(track, cfg.Gimbal, gimbal.WithLogger(logger), gimbal.WithPose(track.Pose()))
}

// ProvideBinding subscribes c to input actions on the configured rig topic.
func ProvideBinding(cfg *config.Config, b bus.EventBus, c *gimbal.Controller) (bus.Subscription, error) {
	sub, err := gimbal.Bind(b, cfg.Loop.Rig, c)
	if err != nil {
		return nil, fmt.Errorf("bind controller: %w", err)
	}
	return sub, nil
}

// ProvideRecorder returns nil when no trace path is configured.
func ProvideRecorder(cfg *config.Config) (*record.Recorder, error) {
	if cfg.Record.Path == "" {
		return nil, nil
	}
	return record.Create(cfg.Record.Path)
}

// ProvideTrace returns nil when no plot is configured.
func ProvideTrace(cfg *config.Config) *record.Trace {
	if cfg.Record.Plot == "" {
		return nil
	}
	return &record.Trace{}
}

func ProvideLoop(
	cfg *config.Config,
	logger log.Log,
	b bus.EventBus,
	sc *anchor.Scenario,
	jitter *anchor.Jitter,
	track *anchor.Track,
	script *input.Script,
	c *gimbal.Controller,
	binding bus.Subscription,
	rec *record.Recorder,
	trace *record.Trace,
) *system.Loop {
	return system.NewLoop(system.Deps{
		Scenario:   sc,
		Jitter:     jitter,
		Track:      track,
		Script:     script,
		Bus:        b,
		Controller: c,
		Recorder:   rec,
		Trace:      trace,
		Logger:     logger,
		Rig:        cfg.Loop.Rig,
		Binding:    binding,
		TickRate:   cfg.Loop.TickRate,
		Duration:   cfg.Loop.Duration,
	})
}
