package filter

import "github.com/go-gl/mathgl/mgl64"

// OrientationSmoother runs one ScalarKalman per quaternion component. The
// components are filtered independently and the result is not renormalized.
type OrientationSmoother struct {
	x, y, z, w *ScalarKalman
}

func NewOrientationSmoother(q, r float64) *OrientationSmoother {
	return &OrientationSmoother{
		x: NewScalarKalman(q, r),
		y: NewScalarKalman(q, r),
		z: NewScalarKalman(q, r),
		w: NewScalarKalman(q, r),
	}
}

func DefaultOrientationSmoother() *OrientationSmoother {
	return NewOrientationSmoother(DefaultProcessNoise, DefaultMeasurementNoise)
}

// Update filters all four components of the measured orientation with the
// same overrides.
func (s *OrientationSmoother) Update(measured mgl64.Quat, overrides ...NoiseOverride) mgl64.Quat {
	return mgl64.Quat{
		W: s.w.Update(measured.W, overrides...),
		V: mgl64.Vec3{
			s.x.Update(measured.V[0], overrides...),
			s.y.Update(measured.V[1], overrides...),
			s.z.Update(measured.V[2], overrides...),
		},
	}
}

func (s *OrientationSmoother) Reset() {
	s.x.Reset()
	s.y.Reset()
	s.z.Reset()
	s.w.Reset()
}

// Estimate returns the last filtered orientation without updating.
func (s *OrientationSmoother) Estimate() mgl64.Quat {
	return mgl64.Quat{
		W: s.w.Estimate(),
		V: mgl64.Vec3{s.x.Estimate(), s.y.Estimate(), s.z.Estimate()},
	}
}

// Covariance is shared by construction: all four filters see the same noise
// sequence, so any one of them reports it.
func (s *OrientationSmoother) Covariance() float64 {
	return s.w.Covariance()
}

func (s *OrientationSmoother) Noise() (q, r float64) {
	return s.w.Noise()
}
