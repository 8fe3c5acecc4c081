package anchor

import "errors"

var (
	ErrEmptyScenario    = errors.New("anchor: scenario has no keyframes")
	ErrUnsortedScenario = errors.New("anchor: keyframe times must be strictly increasing")
	ErrOutsideScenario  = errors.New("anchor: time outside scenario")
	ErrInvalidDropout   = errors.New("anchor: invalid dropout window")
)
