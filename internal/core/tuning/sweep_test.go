package tuning

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/gimbal/internal/core/anchor"
	"github.com/zeusync/gimbal/internal/core/events/bus"
	"github.com/zeusync/gimbal/internal/core/gimbal"
	"github.com/zeusync/gimbal/internal/core/input"
	"github.com/zeusync/gimbal/internal/core/observability/log"
	"github.com/zeusync/gimbal/internal/core/spatial"
	"github.com/zeusync/gimbal/internal/core/system"
)

func shakyBuild(cfg gimbal.Config) (*system.Loop, error) {
	sc := &anchor.Scenario{
		Loop: true,
		Keyframes: []anchor.Keyframe{
			{T: 0, Euler: spatial.Vector{Y: 0}},
			{T: 2, Euler: spatial.Vector{Y: 40}},
			{T: 4, Euler: spatial.Vector{Y: 0}},
		},
	}
	first, err := sc.At(0)
	if err != nil {
		return nil, err
	}
	track := anchor.NewTrack(first)
	return system.NewLoop(system.Deps{
		Scenario:   sc,
		Jitter:     anchor.NewJitter(0, 2, 11),
		Track:      track,
		Script:     &input.Script{},
		Bus:        bus.New(),
		Controller: gimbal.New(track, cfg, gimbal.WithLogger(log.NewNop())),
		Logger:     log.NewNop(),
		TickRate:   60,
	}), nil
}

func TestSweepRanksSteadiestFirst(t *testing.T) {
	light := Candidate{ProcessNoise: 1e-3, MeasurementNoise: 1e-5}
	heavy := Candidate{ProcessNoise: 1e-6, MeasurementNoise: 0.1}

	results, err := Sweep(context.Background(), shakyBuild, gimbal.DefaultConfig(), []Candidate{light, heavy}, 4, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, heavy, results[0].Candidate)
	assert.Equal(t, light, results[1].Candidate)
	assert.Less(t, results[0].Summary.Smoothing, 0.5)
	assert.Greater(t, results[1].Summary.Smoothing, 0.5)
	assert.Equal(t, 239, results[0].Summary.Ticks)
}

func TestSweepRanksUnmeasuredLast(t *testing.T) {
	measured := Candidate{ProcessNoise: 1e-6, MeasurementNoise: 0.1}
	base := gimbal.DefaultConfig()

	// Free-fly ticks are never counted, so the idle run measures nothing
	// and reports a smoothing of zero.
	build := func(cfg gimbal.Config) (*system.Loop, error) {
		loop, err := shakyBuild(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.MeasurementNoise != measured.MeasurementNoise {
			loop.Controller.SetMode(gimbal.ModeFreeFly)
		}
		return loop, nil
	}

	idle := Candidate{ProcessNoise: 1e-3, MeasurementNoise: 1e-5}
	results, err := Sweep(context.Background(), build, base, []Candidate{idle, measured}, 2, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, measured, results[0].Candidate)
	assert.True(t, results[0].Summary.Measured())
	assert.Equal(t, idle, results[1].Candidate)
	assert.False(t, results[1].Summary.Measured())
	assert.Zero(t, results[1].Summary.Smoothing)
}

func TestSweepErrors(t *testing.T) {
	_, err := Sweep(context.Background(), shakyBuild, gimbal.DefaultConfig(), nil, 1, 1)
	require.ErrorIs(t, err, ErrNoCandidates)

	_, err = Sweep(context.Background(), shakyBuild, gimbal.DefaultConfig(),
		[]Candidate{{ProcessNoise: 1e-5, MeasurementNoise: 0.01}, {ProcessNoise: -1}}, 1, 0)
	require.ErrorIs(t, err, gimbal.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "q=-1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Sweep(ctx, shakyBuild, gimbal.DefaultConfig(), []Candidate{{ProcessNoise: 1e-5, MeasurementNoise: 0.01}}, 1, 1)
	require.ErrorIs(t, err, context.Canceled)
}
