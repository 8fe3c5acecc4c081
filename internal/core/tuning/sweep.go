package tuning

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/zeusync/gimbal/internal/core/gimbal"
	"github.com/zeusync/gimbal/internal/core/record"
	"github.com/zeusync/gimbal/internal/core/system"
	"github.com/zeusync/gimbal/pkg/concurrent"
)

var ErrNoCandidates = errors.New("tuning: no candidates")

// Candidate is one pair of Kalman noise values to try.
type Candidate struct {
	ProcessNoise     float64 `json:"process_noise" yaml:"process_noise"`
	MeasurementNoise float64 `json:"measurement_noise" yaml:"measurement_noise"`
}

func (c Candidate) String() string {
	return fmt.Sprintf("q=%g r=%g", c.ProcessNoise, c.MeasurementNoise)
}

type Result struct {
	Candidate Candidate
	Summary   record.Summary
}

// BuildFunc creates an independent loop for one gimbal configuration.
type BuildFunc func(cfg gimbal.Config) (*system.Loop, error)

// Sweep simulates every candidate with Kalman smoothing enabled on top of
// base and ranks the outcomes, steadiest follower first. Candidates whose
// runs measured no smoothing (see record.Summary.Measured) come last, in
// input order. Up to workers simulations run at once.
func Sweep(ctx context.Context, build BuildFunc, base gimbal.Config, candidates []Candidate, duration float64, workers int) ([]Result, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	results, err := concurrent.Map(ctx, candidates, workers, func(ctx context.Context, c Candidate) (Result, error) {
		cfg := base
		cfg.UseKalman = true
		cfg.ProcessNoise = c.ProcessNoise
		cfg.MeasurementNoise = c.MeasurementNoise
		if err := cfg.Validate(); err != nil {
			return Result{}, fmt.Errorf("candidate %s: %w", c, err)
		}

		loop, err := build(cfg)
		if err != nil {
			return Result{}, fmt.Errorf("candidate %s: %w", c, err)
		}
		defer loop.Close()

		if err := loop.Simulate(ctx, duration); err != nil {
			return Result{}, fmt.Errorf("candidate %s: %w", c, err)
		}
		return Result{Candidate: c, Summary: loop.Summary()}, nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i].Summary, results[j].Summary
		if a.Measured() != b.Measured() {
			return a.Measured()
		}
		return a.Measured() && a.Smoothing < b.Smoothing
	})
	return results, nil
}
