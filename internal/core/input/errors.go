package input

import "errors"

var (
	ErrUnknownKey  = errors.New("input: unknown key")
	ErrInvalidHold = errors.New("input: invalid hold window")
)
