package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	deg = math.Pi / 180

	// Past this |sin(pitch)| yaw and roll are no longer separable and roll is
	// folded into yaw.
	gimbalLockSin = 0.9999995
)

var (
	axisX = mgl64.Vec3{1, 0, 0}
	axisY = mgl64.Vec3{0, 1, 0}
	axisZ = mgl64.Vec3{0, 0, 1}
)

// QuatFromEuler builds a rotation that applies roll (Z) first, then pitch
// (X), then yaw (Y): q = qY * qX * qZ.
func QuatFromEuler(e mgl64.Vec3) mgl64.Quat {
	qx := mgl64.QuatRotate(e[0]*deg, axisX)
	qy := mgl64.QuatRotate(e[1]*deg, axisY)
	qz := mgl64.QuatRotate(e[2]*deg, axisZ)
	return qy.Mul(qx).Mul(qz)
}

// EulerFromQuat is the inverse of QuatFromEuler. Each angle is wrapped into
// [0, 360). The input does not need to be unit length; the zero quaternion
// maps to zero angles.
func EulerFromQuat(q mgl64.Quat) mgl64.Vec3 {
	w, x, y, z := q.W, q.V[0], q.V[1], q.V[2]
	n := w*w + x*x + y*y + z*z
	if n == 0 {
		return mgl64.Vec3{}
	}
	s := 2 / n

	// rij is row i, column j of the rotation matrix of q.
	r12 := s * (y*z - w*x)
	sinPitch := mgl64.Clamp(-r12, -1, 1)
	pitch := math.Asin(sinPitch)

	var yaw, roll float64
	if math.Abs(sinPitch) < gimbalLockSin {
		r02 := s * (x*z + w*y)
		r22 := 1 - s*(x*x+y*y)
		r10 := s * (x*y + w*z)
		r11 := 1 - s*(x*x+z*z)
		yaw = math.Atan2(r02, r22)
		roll = math.Atan2(r10, r11)
	} else {
		r20 := s * (x*z - w*y)
		r00 := 1 - s*(y*y+z*z)
		yaw = math.Atan2(-r20, r00)
	}

	return mgl64.Vec3{
		WrapDegrees(pitch / deg),
		WrapDegrees(yaw / deg),
		WrapDegrees(roll / deg),
	}
}

// ZeroRoll removes the rotation about the forward axis by round-tripping
// through Euler angles and dropping Z.
func ZeroRoll(q mgl64.Quat) mgl64.Quat {
	e := EulerFromQuat(q)
	e[2] = 0
	return QuatFromEuler(e)
}

// WrapDegrees maps an angle into [0, 360).
func WrapDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 || d == 0 {
		// Also folds -0 into +0.
		return 0
	}
	return d
}

// AngleDelta is the signed shortest difference a-b in degrees, in [-180, 180).
func AngleDelta(a, b float64) float64 {
	return WrapDegrees(a-b+180) - 180
}
