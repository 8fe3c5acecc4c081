package input

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/gimbal/internal/core/events/bus"
	"github.com/zeusync/gimbal/internal/core/gimbal"
)

// Source tags bus events published from a script.
const Source = "input.script"

// Event fires Action once when the clock first reaches At.
type Event struct {
	At     float64       `json:"at" yaml:"at"`
	Action gimbal.Action `json:"action" yaml:"action"`
}

// Mouse is a pointer delta applied on every tick of a hold.
type Mouse struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Hold keeps Keys pressed while From <= t < To.
type Hold struct {
	From  float64 `json:"from" yaml:"from"`
	To    float64 `json:"to" yaml:"to"`
	Keys  []Key   `json:"keys,omitempty" yaml:"keys,omitempty"`
	Mouse Mouse   `json:"mouse,omitempty" yaml:"mouse,omitempty"`
}

// Script is a scripted input timeline. Poll it with a non-decreasing clock.
type Script struct {
	Events []Event `json:"events,omitempty" yaml:"events,omitempty"`
	Holds  []Hold  `json:"holds,omitempty" yaml:"holds,omitempty"`

	next   int
	sorted bool
}

// LoadScript decodes a YAML script and validates it.
func LoadScript(r io.Reader) (*Script, error) {
	var s Script
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Script) Validate() error {
	var errs []error
	for i, h := range s.Holds {
		if h.To <= h.From {
			errs = append(errs, fmt.Errorf("%w: hold %d is [%v, %v)", ErrInvalidHold, i, h.From, h.To))
		}
	}
	return errors.Join(errs...)
}

// Poll returns the held input at t and the actions whose time was crossed
// since the previous poll, in time order.
func (s *Script) Poll(t float64) (gimbal.Input, []gimbal.Action) {
	if !s.sorted {
		sort.SliceStable(s.Events, func(i, j int) bool { return s.Events[i].At < s.Events[j].At })
		s.sorted = true
	}

	var actions []gimbal.Action
	for s.next < len(s.Events) && s.Events[s.next].At <= t {
		actions = append(actions, s.Events[s.next].Action)
		s.next++
	}

	var in gimbal.Input
	for _, h := range s.Holds {
		if t < h.From || t >= h.To {
			continue
		}
		for _, k := range h.Keys {
			k.press(&in)
		}
		in.Mouse = in.Mouse.Add(mgl64.Vec2{h.Mouse.X, h.Mouse.Y})
	}
	return in, actions
}

// Publish emits each action on topic as a gimbal.ActionEvent.
func Publish(b bus.EventBus, topic string, actions []gimbal.Action) error {
	if len(actions) == 0 {
		return nil
	}
	events := make([]bus.Event, len(actions))
	for i, a := range actions {
		events[i] = bus.NewEvent(gimbal.ActionEvent, Source, a)
	}
	return b.Publish(topic, events...)
}
