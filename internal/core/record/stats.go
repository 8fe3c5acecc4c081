package record

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/zeusync/gimbal/internal/core/gimbal"
	"github.com/zeusync/gimbal/internal/core/spatial"
)

// Stats accumulates how much the follower rotates compared to its anchor.
// Only follow-mode ticks with an available anchor are counted.
type Stats struct {
	anchorRate   []float64
	followerRate []float64
	distance     []float64
	maxRoll      float64

	prev    Sample
	hasPrev bool
}

// Summary holds angular speeds in degrees per second and distances in
// metres.
type Summary struct {
	Ticks            int
	AnchorRateMean   float64
	AnchorRateStd    float64
	FollowerRateMean float64
	FollowerRateStd  float64
	// Smoothing is follower over anchor angular speed deviation. Below one
	// means the follower is steadier than the anchor.
	Smoothing    float64
	DistanceMean float64
	MaxRoll      float64
}

// Measured reports whether Smoothing is meaningful: the anchor must have
// moved unevenly over at least two counted ticks.
func (s Summary) Measured() bool { return s.AnchorRateStd > 0 }

func NewStats() *Stats { return &Stats{} }

func (s *Stats) Observe(smp Sample) {
	counted := smp.Mode == gimbal.ModeFollow && smp.AnchorAvailable
	if counted && s.hasPrev && smp.Dt > 0 {
		s.anchorRate = append(s.anchorRate, spatial.AngleBetween(s.prev.Anchor.Rot, smp.Anchor.Rot)/smp.Dt)
		s.followerRate = append(s.followerRate, spatial.AngleBetween(s.prev.Follower.Rot, smp.Follower.Rot)/smp.Dt)
		s.distance = append(s.distance, smp.Follower.Pos.Sub(smp.Anchor.Pos).Len())
		s.maxRoll = math.Max(s.maxRoll, math.Abs(spatial.AngleDelta(smp.Follower.Euler()[2], 0)))
	}
	s.prev, s.hasPrev = smp, counted
}

func (s *Stats) Summary() Summary {
	sum := Summary{Ticks: len(s.anchorRate), MaxRoll: s.maxRoll}
	if sum.Ticks == 0 {
		return sum
	}
	sum.AnchorRateMean, sum.AnchorRateStd = meanStd(s.anchorRate)
	sum.FollowerRateMean, sum.FollowerRateStd = meanStd(s.followerRate)
	sum.DistanceMean = stat.Mean(s.distance, nil)
	if sum.AnchorRateStd > 0 {
		sum.Smoothing = sum.FollowerRateStd / sum.AnchorRateStd
	}
	return sum
}

func meanStd(xs []float64) (mean, std float64) {
	if len(xs) < 2 {
		return stat.Mean(xs, nil), 0
	}
	return stat.MeanStdDev(xs, nil)
}
