package spatial

import "github.com/go-gl/mathgl/mgl64"

// Vector is a 3D vector with config-file tags.
type Vector struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

func (v Vector) Vec3() mgl64.Vec3 { return mgl64.Vec3{v.X, v.Y, v.Z} }

func VectorOf(v mgl64.Vec3) Vector { return Vector{X: v[0], Y: v[1], Z: v[2]} }
