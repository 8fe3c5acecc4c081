package gimbal

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/gimbal/internal/core/events/bus"
)

// ActionEvent is the bus event type carrying an Action.
const ActionEvent = "input.action"

// Input is the level-triggered input state sampled once per tick.
type Input struct {
	Look       bool
	Run        bool
	PlanarLock bool
	Forward    bool
	Back       bool
	Left       bool
	Right      bool
	// Mouse is the pointer delta since the previous tick.
	Mouse mgl64.Vec2
}

// direction sums the held movement keys in the local frame. The sum is not
// normalized, so diagonals are faster.
func (in Input) direction() mgl64.Vec3 {
	var d mgl64.Vec3
	if in.Forward {
		d = d.Add(mgl64.Vec3{0, 0, 1})
	}
	if in.Back {
		d = d.Add(mgl64.Vec3{0, 0, -1})
	}
	if in.Left {
		d = d.Add(mgl64.Vec3{-1, 0, 0})
	}
	if in.Right {
		d = d.Add(mgl64.Vec3{1, 0, 0})
	}
	return d
}

// Action is an edge-triggered discrete input.
type Action uint8

const (
	ActionToggleFreeFly Action = iota + 1
	ActionMoveSpeedDown
	ActionMoveSpeedUp
	ActionLookSpeedDown
	ActionLookSpeedUp
)

var actionNames = map[Action]string{
	ActionToggleFreeFly: "toggle_free_fly",
	ActionMoveSpeedDown: "move_speed_down",
	ActionMoveSpeedUp:   "move_speed_up",
	ActionLookSpeedDown: "look_speed_down",
	ActionLookSpeedUp:   "look_speed_up",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

func ParseAction(s string) (Action, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for a, name := range actionNames {
		if name == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

func (a Action) MarshalText() ([]byte, error) {
	if _, ok := actionNames[a]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAction, uint8(a))
	}
	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Bind feeds ActionEvent events published on topic into c. Events whose
// payload is not an Action are rejected with ErrUnknownAction.
func Bind(b bus.EventBus, topic string, c *Controller) (bus.Subscription, error) {
	return b.Subscribe(topic, ActionEvent, func(event bus.Event) error {
		action, ok := event.Data().(Action)
		if !ok {
			return fmt.Errorf("%w: payload %T from %s", ErrUnknownAction, event.Data(), event.Source())
		}
		return c.Apply(action)
	})
}
