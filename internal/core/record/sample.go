package record

import (
	"github.com/zeusync/gimbal/internal/core/gimbal"
	"github.com/zeusync/gimbal/internal/core/spatial"
)

// Sample is the state of one tick.
type Sample struct {
	T               float64
	Dt              float64
	Mode            gimbal.Mode
	AnchorAvailable bool
	Anchor          spatial.Pose
	Follower        spatial.Pose
}
