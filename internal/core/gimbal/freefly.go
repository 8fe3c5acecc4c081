package gimbal

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/gimbal/internal/core/spatial"
)

const (
	lookGain   = 5.0
	baseSpeed  = 5.0
	runGain    = 15.0
	maxShift   = 50.0
	maxRun     = 1000.0
	runDecay   = 0.5
	minRunRate = 1.0
)

func (c *Controller) fly(dt float64, in Input) {
	if in.Look {
		delta := mgl64.Vec3{-in.Mouse.Y(), in.Mouse.X(), 0}.Mul(lookGain * c.lookSpeed)
		c.pose.Rot = spatial.QuatFromEuler(c.pose.Euler().Add(delta))
	}

	move := in.direction()
	if move.Dot(move) == 0 {
		return
	}

	if in.Run {
		c.totalRun += dt
		move = move.Mul(c.totalRun * runGain)
		for i := range move {
			move[i] = mgl64.Clamp(move[i], -maxShift, maxShift)
		}
	} else {
		c.totalRun = mgl64.Clamp(c.totalRun*runDecay, minRunRate, maxRun)
		move = move.Mul(baseSpeed)
	}
	move = move.Mul(dt * c.moveSpeed)

	height := c.pose.Pos.Y()
	c.pose = c.pose.Translate(move)
	if in.PlanarLock {
		c.pose.Pos[1] = height
	}
}
