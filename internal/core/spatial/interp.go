package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Clamp01 limits t to [0, 1].
func Clamp01(t float64) float64 {
	return mgl64.Clamp(t, 0, 1)
}

// Lerp interpolates linearly from a to b with t clamped to [0, 1].
func Lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	t = Clamp01(t)
	return a.Add(b.Sub(a).Mul(t))
}

// Slerp interpolates spherically along the shorter arc with t clamped to
// [0, 1].
func Slerp(a, b mgl64.Quat, t float64) mgl64.Quat {
	t = Clamp01(t)
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl64.QuatSlerp(a, b, t)
}

// AngleBetween is the rotation angle in degrees taking a to b. Inputs are
// normalized first.
func AngleBetween(a, b mgl64.Quat) float64 {
	d := a.Normalize().Conjugate().Mul(b.Normalize())
	return 2 * math.Atan2(d.V.Len(), math.Abs(d.W)) / deg
}
