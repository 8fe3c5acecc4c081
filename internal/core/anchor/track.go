package anchor

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/gimbal/internal/core/spatial"
)

var (
	_ spatial.Transform    = (*Track)(nil)
	_ spatial.Availability = (*Track)(nil)
)

// Track is an anchor whose pose is written from outside, typically once per
// tick before the follower reads it.
type Track struct {
	mu        sync.RWMutex
	pose      spatial.Pose
	available bool
}

// NewTrack returns an available track at p.
func NewTrack(p spatial.Pose) *Track {
	return &Track{pose: p, available: true}
}

func (t *Track) Set(p spatial.Pose) {
	t.mu.Lock()
	t.pose = p
	t.mu.Unlock()
}

func (t *Track) SetAvailable(available bool) {
	t.mu.Lock()
	t.available = available
	t.mu.Unlock()
}

func (t *Track) Pose() spatial.Pose {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pose
}

func (t *Track) Available() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.available
}

func (t *Track) Position() mgl64.Vec3    { return t.Pose().Pos }
func (t *Track) Orientation() mgl64.Quat { return t.Pose().Rot }
func (t *Track) Forward() mgl64.Vec3     { return t.Pose().Forward() }
func (t *Track) Up() mgl64.Vec3          { return t.Pose().Up() }
func (t *Track) Right() mgl64.Vec3       { return t.Pose().Right() }
