package gimbal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/gimbal/internal/core/events/bus"
	"github.com/zeusync/gimbal/internal/core/spatial"
)

func TestParseAction(t *testing.T) {
	for a := range actionNames {
		got, err := ParseAction(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}

	got, err := ParseAction(" Toggle_Free_Fly ")
	require.NoError(t, err)
	assert.Equal(t, ActionToggleFreeFly, got)

	_, err = ParseAction("jump")
	require.ErrorIs(t, err, ErrUnknownAction)
	assert.Equal(t, "action(42)", Action(42).String())
}

func TestActionYAML(t *testing.T) {
	var doc struct {
		Actions []Action `yaml:"actions"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("actions: [move_speed_up, toggle_free_fly]"), &doc))
	assert.Equal(t, []Action{ActionMoveSpeedUp, ActionToggleFreeFly}, doc.Actions)

	require.Error(t, yaml.Unmarshal([]byte("actions: [fly_away]"), &doc))
}

func TestBindDeliversActions(t *testing.T) {
	b := bus.New()
	c := newController(t, spatial.Identity(), DefaultConfig())

	sub, err := Bind(b, "rig-a", c)
	require.NoError(t, err)

	require.NoError(t, b.Publish("rig-a", bus.NewEvent(ActionEvent, "test", ActionToggleFreeFly)))
	assert.Equal(t, ModeFreeFly, c.Mode())

	// Other rigs do not reach this controller.
	require.NoError(t, b.Publish("rig-b", bus.NewEvent(ActionEvent, "test", ActionToggleFreeFly)))
	assert.Equal(t, ModeFreeFly, c.Mode())

	err = b.Publish("rig-a", bus.NewEvent(ActionEvent, "test", "toggle_free_fly"))
	require.ErrorIs(t, err, ErrUnknownAction)
	assert.Equal(t, ModeFreeFly, c.Mode())

	require.NoError(t, sub.Cancel())
	require.NoError(t, b.Publish("rig-a", bus.NewEvent(ActionEvent, "test", ActionToggleFreeFly)))
	assert.Equal(t, ModeFreeFly, c.Mode())
}
