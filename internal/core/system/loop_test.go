package system

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/gimbal/internal/core/anchor"
	"github.com/zeusync/gimbal/internal/core/events/bus"
	"github.com/zeusync/gimbal/internal/core/gimbal"
	"github.com/zeusync/gimbal/internal/core/input"
	"github.com/zeusync/gimbal/internal/core/observability/log"
	"github.com/zeusync/gimbal/internal/core/record"
	"github.com/zeusync/gimbal/internal/core/spatial"
)

func assertVec(t *testing.T, want, got mgl64.Vec3, delta float64, msg ...any) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], delta, msg...)
}

const rig = "test-rig"

func staticScenario() *anchor.Scenario {
	return &anchor.Scenario{Keyframes: []anchor.Keyframe{{Position: spatial.Vector{Y: 1.6}}}}
}

func newLoop(t *testing.T, sc *anchor.Scenario, script *input.Script, cfg gimbal.Config) *Loop {
	t.Helper()
	first, err := sc.At(0)
	require.NoError(t, err)

	track := anchor.NewTrack(first)
	b := bus.New()
	c := gimbal.New(track, cfg, gimbal.WithLogger(log.NewNop()))
	sub, err := gimbal.Bind(b, rig, c)
	require.NoError(t, err)

	if script == nil {
		script = &input.Script{}
	}
	return NewLoop(Deps{
		Scenario:   sc,
		Track:      track,
		Script:     script,
		Bus:        b,
		Rig:        rig,
		Binding:    sub,
		Controller: c,
		Trace:      &record.Trace{},
		Logger:     log.NewNop(),
		TickRate:   60,
	})
}

func TestSimulateConvergesOnAnchor(t *testing.T) {
	cfg := gimbal.DefaultConfig()
	cfg.Offset = spatial.Vector{Z: -1}
	l := newLoop(t, staticScenario(), nil, cfg)

	require.NoError(t, l.Simulate(context.Background(), 2))
	assert.Equal(t, int64(120), l.Metrics().Frames)
	assert.InDelta(t, 2, l.Time(), 1e-9)
	assert.Equal(t, 120, l.Trace.Len())

	got := l.Controller.Pose().Pos
	assertVec(t, mgl64.Vec3{0, 1.6, -1}, got, 1e-6, "got %v", got)
}

func TestScriptedActionsReachController(t *testing.T) {
	script := &input.Script{
		Events: []input.Event{{At: 0.5, Action: gimbal.ActionToggleFreeFly}},
		Holds:  []input.Hold{{From: 0.5, To: 1, Keys: []input.Key{input.KeyForward}}},
	}
	l := newLoop(t, staticScenario(), script, gimbal.DefaultConfig())

	require.NoError(t, l.Simulate(context.Background(), 0.49))
	assert.Equal(t, gimbal.ModeFollow, l.Controller.Mode())
	before := l.Controller.Pose().Pos

	require.NoError(t, l.Simulate(context.Background(), 1))
	assert.Equal(t, gimbal.ModeFreeFly, l.Controller.Mode())
	after := l.Controller.Pose().Pos
	// 5 m/s at half speed for half a second.
	assert.InDelta(t, 1.25, after.Z()-before.Z(), 0.05)
}

func TestDropoutFreezesFollower(t *testing.T) {
	sc := &anchor.Scenario{
		Keyframes: []anchor.Keyframe{
			{T: 0, Position: spatial.Vector{}},
			{T: 2, Position: spatial.Vector{X: 2}},
		},
		Dropouts: []anchor.Window{{From: 0.5, To: 1}},
	}
	l := newLoop(t, sc, nil, gimbal.DefaultConfig())
	require.NoError(t, l.Simulate(context.Background(), 1.5))

	var frozen []record.Sample
	for _, s := range l.Trace.Samples() {
		if !s.AnchorAvailable {
			frozen = append(frozen, s)
		}
	}
	require.NotEmpty(t, frozen)
	for _, s := range frozen {
		assert.Equal(t, frozen[0].Follower, s.Follower)
		assert.GreaterOrEqual(t, s.T, 0.5-1e-9)
		assert.Less(t, s.T, 1.0)
	}
	last := l.Trace.Samples()[l.Trace.Len()-1]
	assert.True(t, last.AnchorAvailable)
	assert.Greater(t, last.Follower.Pos.X(), frozen[0].Follower.Pos.X())
}

func TestAnchorLostPastScenarioEnd(t *testing.T) {
	sc := &anchor.Scenario{Keyframes: []anchor.Keyframe{{T: 0}, {T: 1, Position: spatial.Vector{Z: 1}}}}
	l := newLoop(t, sc, nil, gimbal.DefaultConfig())

	require.NoError(t, l.Simulate(context.Background(), 1.5))
	assert.False(t, l.Track.Available())
	// The last pose sampled inside the scenario stays on the track.
	assert.InDelta(t, 1, l.Track.Position().Z(), 0.02)
}

func TestTuneAppliesOnNextStep(t *testing.T) {
	l := newLoop(t, staticScenario(), nil, gimbal.DefaultConfig())

	cfg := gimbal.DefaultConfig()
	cfg.UseKalman = true
	cfg.MoveSpeed = 0.1
	l.Tune(cfg)
	assert.False(t, l.Controller.Config().UseKalman)

	require.NoError(t, l.Step(1.0/60))
	assert.True(t, l.Controller.Config().UseKalman)
	assert.Equal(t, 0.1, l.Controller.MoveSpeed())
}

func TestRecorderGetsEveryStep(t *testing.T) {
	var buf bytes.Buffer
	l := newLoop(t, staticScenario(), nil, gimbal.DefaultConfig())
	l.Recorder = record.NewRecorder(&buf)

	require.NoError(t, l.Simulate(context.Background(), 0.5))
	require.NoError(t, l.Close())

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 31)
}

func TestCloseReleasesBinding(t *testing.T) {
	l := newLoop(t, staticScenario(), nil, gimbal.DefaultConfig())
	require.NoError(t, l.Close())
	assert.False(t, l.Binding.IsActive())

	require.NoError(t, input.Publish(l.Bus, rig, []gimbal.Action{gimbal.ActionToggleFreeFly}))
	assert.Equal(t, gimbal.ModeFollow, l.Controller.Mode())
}

func TestFinishReportsInputDelivery(t *testing.T) {
	script := &input.Script{Events: []input.Event{
		{At: 0.1, Action: gimbal.ActionToggleFreeFly},
		{At: 0.2, Action: gimbal.ActionLookSpeedUp},
	}}
	l := newLoop(t, staticScenario(), script, gimbal.DefaultConfig())
	l.Bus.AddObserver(bus.NewLogObserver(log.NewNop()))
	core, logs := observer.New(zap.InfoLevel)
	l.Logger = log.NewFromZap(zap.New(core))

	require.NoError(t, l.Simulate(context.Background(), 0.5))

	entries := logs.FilterMessage("input delivered").All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, rig, ctx["rig"])
	assert.Equal(t, int64(2), ctx["events"])
	assert.Equal(t, int64(2), ctx["handlers"])
	assert.Equal(t, int64(0), ctx["errors"])
}

func TestSimulateHonoursCancel(t *testing.T) {
	l := newLoop(t, staticScenario(), nil, gimbal.DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, l.Simulate(ctx, 1), context.Canceled)
	assert.Equal(t, int64(0), l.Metrics().Frames)
}

func TestRunStopsAfterDuration(t *testing.T) {
	l := newLoop(t, staticScenario(), nil, gimbal.DefaultConfig())
	l.TickRate = 200
	l.Duration = 0.05

	done := make(chan error, 1)
	go func() { done <- l.Run(context.Background()) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop")
	}
	assert.GreaterOrEqual(t, l.Time(), 0.05)
	assert.Positive(t, l.Metrics().Frames)
	assert.Positive(t, l.Metrics().AverageStepTime)
}

func TestRunStopsOnCancel(t *testing.T) {
	l := newLoop(t, staticScenario(), nil, gimbal.DefaultConfig())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	require.NoError(t, l.Run(ctx))
}
