package gimbal

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/gimbal/internal/core/filter"
	"github.com/zeusync/gimbal/internal/core/observability/log"
	"github.com/zeusync/gimbal/internal/core/spatial"
)

// Mode selects how the controller drives its pose.
type Mode uint8

const (
	ModeFollow Mode = iota
	ModeFreeFly
)

func (m Mode) String() string {
	switch m {
	case ModeFollow:
		return "follow"
	case ModeFreeFly:
		return "free_fly"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

const speedStep = 0.01

// Controller owns a camera-like pose that trails an anchor transform, or
// flies freely under manual input.
//
// A Controller is not safe for concurrent use. Apply and Tick are expected to
// run on the same goroutine as the loop driving it.
type Controller struct {
	anchor spatial.Transform
	cfg    Config
	logger log.Log
	err    error

	pose      spatial.Pose
	mode      Mode
	moveSpeed float64
	lookSpeed float64
	totalRun  float64
	smoother  *filter.OrientationSmoother
}

type Option func(*Controller)

// WithLogger sets the logger. The process-wide logger is used otherwise.
func WithLogger(l log.Log) Option {
	return func(c *Controller) { c.logger = l }
}

// WithPose sets the initial pose. The identity pose is used otherwise.
func WithPose(p spatial.Pose) Option {
	return func(c *Controller) { c.pose = p }
}

// New creates a controller in follow mode bound to anchor. A nil anchor is
// logged once and leaves the controller inert for its whole lifetime.
func New(anchor spatial.Transform, cfg Config, opts ...Option) *Controller {
	c := &Controller{
		anchor:   anchor,
		pose:     spatial.Identity(),
		mode:     ModeFollow,
		totalRun: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.Provide()
	}
	c.logger = c.logger.With(log.String("component", "gimbal"))

	c.cfg = cfg
	c.moveSpeed = mgl64.Clamp(cfg.MoveSpeed, 0, 1)
	c.lookSpeed = mgl64.Clamp(cfg.LookSpeed, 0, 1)
	c.smoother = filter.NewOrientationSmoother(cfg.ProcessNoise, cfg.MeasurementNoise)

	if anchor == nil {
		c.err = ErrNoAnchor
		c.logger.Error("anchor missing, controller disabled", log.Error(c.err))
	}
	return c
}

// Active reports whether the controller was bound to an anchor.
func (c *Controller) Active() bool { return c.err == nil }

// Err returns ErrNoAnchor for an inert controller and nil otherwise.
func (c *Controller) Err() error { return c.err }

func (c *Controller) Pose() spatial.Pose { return c.pose }
func (c *Controller) Mode() Mode         { return c.mode }
func (c *Controller) MoveSpeed() float64 { return c.moveSpeed }
func (c *Controller) LookSpeed() float64 { return c.lookSpeed }
func (c *Controller) Config() Config     { return c.cfg }

// RunFactor is the free-fly run multiplier. It starts at 1.
func (c *Controller) RunFactor() float64 { return c.totalRun }

func (c *Controller) SetMode(m Mode) {
	if c.mode == m {
		return
	}
	c.logger.Debug("mode changed", log.Stringer("from", c.mode), log.Stringer("to", m))
	c.mode = m
}

// Apply handles one discrete input edge.
func (c *Controller) Apply(action Action) error {
	switch action {
	case ActionToggleFreeFly:
		if c.mode == ModeFreeFly {
			c.SetMode(ModeFollow)
		} else {
			c.SetMode(ModeFreeFly)
		}
	case ActionMoveSpeedDown:
		c.moveSpeed -= speedStep
	case ActionMoveSpeedUp:
		c.moveSpeed += speedStep
	case ActionLookSpeedDown:
		c.lookSpeed -= speedStep
	case ActionLookSpeedUp:
		c.lookSpeed += speedStep
	default:
		return fmt.Errorf("%w: %d", ErrUnknownAction, uint8(action))
	}
	c.moveSpeed = mgl64.Clamp(c.moveSpeed, 0, 1)
	c.lookSpeed = mgl64.Clamp(c.lookSpeed, 0, 1)
	return nil
}

// Tune replaces the configuration at runtime. The pose, the mode, the run
// multiplier and the smoothing state are kept. A speed scalar adjusted through
// Apply is only reset when cfg changes its configured value.
func (c *Controller) Tune(cfg Config) {
	prev := c.cfg
	c.cfg = cfg
	if cfg.MoveSpeed != prev.MoveSpeed {
		c.moveSpeed = mgl64.Clamp(cfg.MoveSpeed, 0, 1)
	}
	if cfg.LookSpeed != prev.LookSpeed {
		c.lookSpeed = mgl64.Clamp(cfg.LookSpeed, 0, 1)
	}
	c.logger.Info("config tuned",
		log.Bool("enabled", cfg.Enabled),
		log.Bool("kalman", cfg.UseKalman),
		log.Float64("process_noise", cfg.ProcessNoise),
		log.Float64("measurement_noise", cfg.MeasurementNoise))
}

// ResetSmoothing restarts the Kalman smoother from its initial state.
func (c *Controller) ResetSmoothing() {
	c.smoother.Reset()
}

// Tick advances the controller by dt seconds and returns the new pose. It is
// a no-op for an inert or disabled controller, and follow mode is also
// skipped while an anchor reporting Availability is unavailable.
func (c *Controller) Tick(dt float64, in Input) spatial.Pose {
	if c.err != nil || !c.cfg.Enabled {
		return c.pose
	}

	if c.mode == ModeFreeFly {
		c.fly(dt, in)
		return c.pose
	}

	if a, ok := c.anchor.(spatial.Availability); ok && !a.Available() {
		return c.pose
	}
	c.follow(dt)
	return c.pose
}
