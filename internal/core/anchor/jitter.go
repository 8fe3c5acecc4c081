package anchor

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/zeusync/gimbal/internal/core/spatial"
)

// Jitter perturbs poses with zero-mean Gaussian noise, standing in for
// tracker noise on the anchor.
type Jitter struct {
	position distuv.Normal
	rotation distuv.Normal
}

// NewJitter creates a jitter source. posSigma is in metres, rotSigma in
// degrees per axis. The same seed always yields the same noise sequence.
func NewJitter(posSigma, rotSigma float64, seed uint64) *Jitter {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &Jitter{
		position: distuv.Normal{Mu: 0, Sigma: posSigma, Src: src},
		rotation: distuv.Normal{Mu: 0, Sigma: rotSigma, Src: src},
	}
}

// Apply returns p with noise added. A zero sigma leaves that part untouched.
func (j *Jitter) Apply(p spatial.Pose) spatial.Pose {
	if j == nil {
		return p
	}
	if j.position.Sigma > 0 {
		p.Pos = p.Pos.Add(j.sample(&j.position))
	}
	if j.rotation.Sigma > 0 {
		p.Rot = p.Rot.Mul(spatial.QuatFromEuler(j.sample(&j.rotation))).Normalize()
	}
	return p
}

func (j *Jitter) sample(d *distuv.Normal) mgl64.Vec3 {
	return mgl64.Vec3{d.Rand(), d.Rand(), d.Rand()}
}
