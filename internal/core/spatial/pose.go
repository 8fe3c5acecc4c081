package spatial

import "github.com/go-gl/mathgl/mgl64"

var _ Transform = Pose{}

// Pose is a position plus orientation.
type Pose struct {
	Pos mgl64.Vec3
	Rot mgl64.Quat
}

// Identity returns a pose at the origin facing +Z.
func Identity() Pose {
	return Pose{Rot: mgl64.QuatIdent()}
}

func (p Pose) Position() mgl64.Vec3    { return p.Pos }
func (p Pose) Orientation() mgl64.Quat { return p.Rot }
func (p Pose) Forward() mgl64.Vec3     { return Forward(p.Rot) }
func (p Pose) Up() mgl64.Vec3          { return Up(p.Rot) }
func (p Pose) Right() mgl64.Vec3       { return Right(p.Rot) }

// Euler returns the orientation as engine Euler angles.
func (p Pose) Euler() mgl64.Vec3 { return EulerFromQuat(p.Rot) }

// Translate moves the pose by v expressed in its own local frame.
func (p Pose) Translate(v mgl64.Vec3) Pose {
	p.Pos = p.Pos.Add(p.Rot.Rotate(v))
	return p
}

// Forward is the +Z axis rotated by q.
func Forward(q mgl64.Quat) mgl64.Vec3 { return q.Rotate(mgl64.Vec3{0, 0, 1}) }

// Up is the +Y axis rotated by q.
func Up(q mgl64.Quat) mgl64.Vec3 { return q.Rotate(mgl64.Vec3{0, 1, 0}) }

// Right is the +X axis rotated by q.
func Right(q mgl64.Quat) mgl64.Vec3 { return q.Rotate(mgl64.Vec3{1, 0, 0}) }
