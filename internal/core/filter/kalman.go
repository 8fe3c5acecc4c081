package filter

import "math"

const (
	DefaultProcessNoise     = 0.000001
	DefaultMeasurementNoise = 0.01

	initialCovariance = 1
)

// ScalarKalman is a one dimensional recursive estimator for a slowly varying
// value observed through noise.
type ScalarKalman struct {
	q float64 // process noise
	r float64 // measurement noise
	p float64 // error covariance
	x float64 // estimate
	k float64 // last gain
}

// NoiseOverride replaces a noise parameter for the update it is passed to
// and every update after it.
type NoiseOverride func(q, r *float64)

// ProcessNoise overrides q.
func ProcessNoise(q float64) NoiseOverride {
	return func(cq, _ *float64) {
		if *cq != q {
			*cq = q
		}
	}
}

// MeasurementNoise overrides r.
func MeasurementNoise(r float64) NoiseOverride {
	return func(_, cr *float64) {
		if *cr != r {
			*cr = r
		}
	}
}

// NewScalarKalman creates a filter with estimate 0 and covariance 1. Noise
// values are not validated; negative values give meaningless covariances.
func NewScalarKalman(q, r float64) *ScalarKalman {
	return &ScalarKalman{
		q: q,
		r: r,
		p: initialCovariance,
	}
}

// Update folds one measurement into the estimate and returns it.
func (f *ScalarKalman) Update(measurement float64, overrides ...NoiseOverride) float64 {
	for _, o := range overrides {
		o(&f.q, &f.r)
	}

	prior := f.p + f.q
	denom := prior + f.r
	if denom == 0 {
		// Only reachable with p, q and r all zero: trust the measurement.
		f.k = 1
		f.p = 0
		f.x = measurement
		return f.x
	}

	f.k = prior / denom
	f.p = f.r * prior / denom
	f.x += (measurement - f.x) * f.k
	return f.x
}

// Reset returns the filter to its freshly constructed state, keeping q and r.
func (f *ScalarKalman) Reset() {
	f.p = initialCovariance
	f.x = 0
	f.k = 0
}

func (f *ScalarKalman) Estimate() float64   { return f.x }
func (f *ScalarKalman) Covariance() float64 { return f.p }
func (f *ScalarKalman) Gain() float64       { return f.k }

// Noise returns the current process and measurement noise.
func (f *ScalarKalman) Noise() (q, r float64) { return f.q, f.r }

// SteadyStateCovariance solves p = r(p+q)/(r+p+q) for the non-negative root,
// the covariance Update converges to for fixed q and r.
func SteadyStateCovariance(q, r float64) float64 {
	// p^2 + q p - r q = 0
	disc := q*q + 4*r*q
	if disc <= 0 {
		return 0
	}
	return (-q + math.Sqrt(disc)) / 2
}
