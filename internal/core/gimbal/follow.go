package gimbal

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/gimbal/internal/core/filter"
	"github.com/zeusync/gimbal/internal/core/spatial"
)

func (c *Controller) follow(dt float64) {
	var rot mgl64.Quat
	if c.cfg.UseKalman {
		rot = c.smoother.Update(c.anchor.Orientation(),
			filter.ProcessNoise(c.cfg.ProcessNoise),
			filter.MeasurementNoise(c.cfg.MeasurementNoise))
	} else {
		rot = spatial.Slerp(c.pose.Rot, c.anchor.Orientation(), dt*c.cfg.RotationSpeed)
	}
	c.pose.Rot = spatial.ZeroRoll(rot)

	c.pose.Pos = spatial.Lerp(c.pose.Pos, c.target(), dt*c.cfg.PositionSpeed)
}

// target is the anchor position shifted by the offset along the anchor's
// own axes.
func (c *Controller) target() mgl64.Vec3 {
	off := c.cfg.Offset
	return c.anchor.Position().
		Add(unit(c.anchor.Forward()).Mul(off.Z)).
		Add(unit(c.anchor.Up()).Mul(off.Y)).
		Add(unit(c.anchor.Right()).Mul(off.X))
}

func unit(v mgl64.Vec3) mgl64.Vec3 {
	if l := v.Len(); l > 0 {
		return v.Mul(1 / l)
	}
	return v
}
