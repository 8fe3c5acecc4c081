package gimbal

import (
	"errors"
	"fmt"

	"github.com/zeusync/gimbal/internal/core/filter"
	"github.com/zeusync/gimbal/internal/core/spatial"
)

// Config tunes a Controller.
type Config struct {
	Enabled       bool    `json:"enabled" yaml:"enabled"`
	PositionSpeed float64 `json:"position_speed" yaml:"position_speed"`
	RotationSpeed float64 `json:"rotation_speed" yaml:"rotation_speed"`
	// Offset from the anchor in its local frame: X right, Y up, Z forward.
	Offset spatial.Vector `json:"offset" yaml:"offset"`

	UseKalman        bool    `json:"use_kalman" yaml:"use_kalman"`
	ProcessNoise     float64 `json:"process_noise" yaml:"process_noise"`
	MeasurementNoise float64 `json:"measurement_noise" yaml:"measurement_noise"`

	// Free-fly scalars, both in [0, 1].
	MoveSpeed float64 `json:"move_speed" yaml:"move_speed"`
	LookSpeed float64 `json:"look_speed" yaml:"look_speed"`
}

const (
	DefaultPositionSpeed    = 25
	DefaultRotationSpeed    = 5
	DefaultProcessNoise     = 0.00005
	DefaultMeasurementNoise = filter.DefaultMeasurementNoise
	DefaultMoveSpeed        = 0.5
	DefaultLookSpeed        = 0.5
)

func DefaultConfig() Config {
	return Config{
		Enabled:          true,
		PositionSpeed:    DefaultPositionSpeed,
		RotationSpeed:    DefaultRotationSpeed,
		ProcessNoise:     DefaultProcessNoise,
		MeasurementNoise: DefaultMeasurementNoise,
		MoveSpeed:        DefaultMoveSpeed,
		LookSpeed:        DefaultLookSpeed,
	}
}

// Validate reports every problem found, each wrapping ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error
	nonNegative := func(name string, v float64) {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidConfig, name, v))
		}
	}
	unit := func(name string, v float64) {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%w: %s must be within [0, 1], got %v", ErrInvalidConfig, name, v))
		}
	}

	nonNegative("position_speed", c.PositionSpeed)
	nonNegative("rotation_speed", c.RotationSpeed)
	nonNegative("process_noise", c.ProcessNoise)
	nonNegative("measurement_noise", c.MeasurementNoise)
	unit("move_speed", c.MoveSpeed)
	unit("look_speed", c.LookSpeed)

	return errors.Join(errs...)
}
