package spatial

import "github.com/go-gl/mathgl/mgl64"

// Axis conventions follow the engine the poses come from: left-handed,
// +X right, +Y up, +Z forward. Euler angles are degrees, X is pitch, Y is yaw
// and Z is roll.

// Transform is a read-only view of a pose, with its basis vectors.
type Transform interface {
	Position() mgl64.Vec3
	Orientation() mgl64.Quat
	Forward() mgl64.Vec3
	Up() mgl64.Vec3
	Right() mgl64.Vec3
}

// Availability is implemented by transforms whose tracking can drop out.
type Availability interface {
	Available() bool
}
