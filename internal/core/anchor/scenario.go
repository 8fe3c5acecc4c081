package anchor

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/gimbal/internal/core/spatial"
)

// Keyframe pins the anchor pose at time T seconds. Euler angles are degrees.
type Keyframe struct {
	T        float64        `json:"t" yaml:"t"`
	Position spatial.Vector `json:"position" yaml:"position"`
	Euler    spatial.Vector `json:"euler" yaml:"euler"`
}

func (k Keyframe) Pose() spatial.Pose {
	return spatial.Pose{Pos: k.Position.Vec3(), Rot: spatial.QuatFromEuler(k.Euler.Vec3())}
}

// Window is a half-open time interval [From, To).
type Window struct {
	From float64 `json:"from" yaml:"from"`
	To   float64 `json:"to" yaml:"to"`
}

func (w Window) Contains(t float64) bool { return t >= w.From && t < w.To }

// Scenario is a scripted anchor trajectory. Position is interpolated
// linearly between keyframes and orientation spherically.
type Scenario struct {
	Loop      bool       `json:"loop" yaml:"loop"`
	Keyframes []Keyframe `json:"keyframes" yaml:"keyframes"`
	// Dropouts are windows during which tracking is lost.
	Dropouts []Window `json:"dropouts,omitempty" yaml:"dropouts,omitempty"`
}

// LoadScenario decodes a YAML scenario and validates it.
func LoadScenario(r io.Reader) (*Scenario, error) {
	var s Scenario
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) Validate() error {
	if len(s.Keyframes) == 0 {
		return ErrEmptyScenario
	}
	var errs []error
	for i := 1; i < len(s.Keyframes); i++ {
		if s.Keyframes[i].T <= s.Keyframes[i-1].T {
			errs = append(errs, fmt.Errorf("%w: keyframe %d at %v follows %v",
				ErrUnsortedScenario, i, s.Keyframes[i].T, s.Keyframes[i-1].T))
		}
	}
	for i, w := range s.Dropouts {
		if w.To <= w.From {
			errs = append(errs, fmt.Errorf("%w: %d is [%v, %v)", ErrInvalidDropout, i, w.From, w.To))
		}
	}
	return errors.Join(errs...)
}

// Duration is the time spanned by the keyframes.
func (s *Scenario) Duration() float64 {
	if len(s.Keyframes) == 0 {
		return 0
	}
	return s.Keyframes[len(s.Keyframes)-1].T - s.Keyframes[0].T
}

// At samples the trajectory at t. A single keyframe is a fixed pose for any
// t. Looping scenarios wrap t into their span, others return
// ErrOutsideScenario past either end.
func (s *Scenario) At(t float64) (spatial.Pose, error) {
	if len(s.Keyframes) == 0 {
		return spatial.Pose{}, ErrEmptyScenario
	}
	if len(s.Keyframes) == 1 {
		return s.Keyframes[0].Pose(), nil
	}

	t = s.wrap(t)
	first, last := s.Keyframes[0], s.Keyframes[len(s.Keyframes)-1]
	if t < first.T || t > last.T {
		return spatial.Pose{}, fmt.Errorf("%w: %v not in [%v, %v]", ErrOutsideScenario, t, first.T, last.T)
	}

	// Index of the first keyframe strictly after t.
	i := sort.Search(len(s.Keyframes), func(i int) bool { return s.Keyframes[i].T > t })
	if i == len(s.Keyframes) {
		return last.Pose(), nil
	}
	a, b := s.Keyframes[i-1], s.Keyframes[i]
	frac := (t - a.T) / (b.T - a.T)
	pa, pb := a.Pose(), b.Pose()
	return spatial.Pose{
		Pos: spatial.Lerp(pa.Pos, pb.Pos, frac),
		Rot: spatial.Slerp(pa.Rot, pb.Rot, frac),
	}, nil
}

// Available reports whether tracking is up at t.
func (s *Scenario) Available(t float64) bool {
	t = s.wrap(t)
	for _, w := range s.Dropouts {
		if w.Contains(t) {
			return false
		}
	}
	return true
}

func (s *Scenario) wrap(t float64) float64 {
	d := s.Duration()
	if !s.Loop || d <= 0 {
		return t
	}
	first := s.Keyframes[0].T
	off := math.Mod(t-first, d)
	if off < 0 {
		off += d
	}
	return first + off
}
