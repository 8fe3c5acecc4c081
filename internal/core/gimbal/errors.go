package gimbal

import "errors"

var (
	ErrNoAnchor      = errors.New("gimbal: anchor is missing")
	ErrInvalidConfig = errors.New("gimbal: invalid config")
	ErrUnknownAction = errors.New("gimbal: unknown action")
)
