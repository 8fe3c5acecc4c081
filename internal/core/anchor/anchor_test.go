package anchor

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/zeusync/gimbal/internal/core/spatial"
)

func assertVec(t *testing.T, want, got mgl64.Vec3, delta float64, msg ...any) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], delta, msg...)
}

const walkYAML = `
loop: true
keyframes:
  - t: 0
    position: {x: 0, y: 1.6, z: 0}
    euler: {x: 0, y: 0, z: 0}
  - t: 2
    position: {x: 0, y: 1.6, z: 4}
    euler: {x: 0, y: 90, z: 0}
  - t: 4
    position: {x: 4, y: 1.6, z: 4}
    euler: {x: 0, y: 90, z: 20}
dropouts:
  - {from: 1, to: 1.5}
`

func loadWalk(t *testing.T) *Scenario {
	t.Helper()
	s, err := LoadScenario(strings.NewReader(walkYAML))
	require.NoError(t, err)
	return s
}

func TestScenarioInterpolates(t *testing.T) {
	s := loadWalk(t)
	s.Loop = false
	assert.Equal(t, 4.0, s.Duration())

	p, err := s.At(1)
	require.NoError(t, err)
	assertVec(t, mgl64.Vec3{0, 1.6, 2}, p.Pos, 1e-12, "got %v", p.Pos)
	assert.InDelta(t, 45, spatial.AngleBetween(mgl64.QuatIdent(), p.Rot), 1e-9)

	p, err = s.At(2)
	require.NoError(t, err)
	assertVec(t, mgl64.Vec3{0, 1.6, 4}, p.Pos, 1e-12)

	p, err = s.At(4)
	require.NoError(t, err)
	assert.InDelta(t, 20, p.Euler()[2], 1e-9)
}

func TestScenarioLoops(t *testing.T) {
	s := loadWalk(t)
	for _, tt := range []float64{5, 9, -3} {
		want, err := s.At(1)
		require.NoError(t, err)
		got, err := s.At(tt)
		require.NoError(t, err)
		assertVec(t, want.Pos, got.Pos, 1e-9, "t=%v", tt)
	}
	assert.False(t, s.Available(1.2))
	assert.False(t, s.Available(5.2))
	assert.True(t, s.Available(1.5))
}

func TestScenarioOutside(t *testing.T) {
	s := loadWalk(t)
	s.Loop = false

	_, err := s.At(4.01)
	require.ErrorIs(t, err, ErrOutsideScenario)
	_, err = s.At(-0.1)
	require.ErrorIs(t, err, ErrOutsideScenario)

	still := &Scenario{Keyframes: []Keyframe{{T: 3, Position: spatial.Vector{X: 1}}}}
	p, err := still.At(100)
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, p.Pos)

	_, err = (&Scenario{}).At(0)
	require.ErrorIs(t, err, ErrEmptyScenario)
}

func TestScenarioValidate(t *testing.T) {
	require.ErrorIs(t, (&Scenario{}).Validate(), ErrEmptyScenario)

	bad := &Scenario{
		Keyframes: []Keyframe{{T: 0}, {T: 1}, {T: 1}},
		Dropouts:  []Window{{From: 2, To: 1}},
	}
	err := bad.Validate()
	require.ErrorIs(t, err, ErrUnsortedScenario)
	require.ErrorIs(t, err, ErrInvalidDropout)

	_, err = LoadScenario(strings.NewReader("keyframes: [{t: 1}, {t: 0}]"))
	require.ErrorIs(t, err, ErrUnsortedScenario)

	_, err = LoadScenario(strings.NewReader("keyframes: {t: oops"))
	require.Error(t, err)
}

func TestTrack(t *testing.T) {
	start := spatial.Pose{Pos: mgl64.Vec3{1, 2, 3}, Rot: spatial.QuatFromEuler(mgl64.Vec3{0, 90, 0})}
	tr := NewTrack(start)
	assert.True(t, tr.Available())
	assert.Equal(t, start.Pos, tr.Position())
	assertVec(t, mgl64.Vec3{1, 0, 0}, tr.Forward(), 1e-12)

	tr.SetAvailable(false)
	assert.False(t, tr.Available())

	next := spatial.Identity()
	tr.Set(next)
	assert.Equal(t, next, tr.Pose())
	assert.Equal(t, next.Rot, tr.Orientation())
	assert.Equal(t, next.Up(), tr.Up())
	assert.Equal(t, next.Right(), tr.Right())
}

func TestJitterZeroSigmaPassesThrough(t *testing.T) {
	p := spatial.Pose{Pos: mgl64.Vec3{1, 2, 3}, Rot: spatial.QuatFromEuler(mgl64.Vec3{10, 20, 30})}
	assert.Equal(t, p, NewJitter(0, 0, 1).Apply(p))

	var nilJitter *Jitter
	assert.Equal(t, p, nilJitter.Apply(p))

	onlyPos := NewJitter(0.1, 0, 1).Apply(p)
	assert.Equal(t, p.Rot, onlyPos.Rot)
	assert.NotEqual(t, p.Pos, onlyPos.Pos)
}

func TestJitterIsSeededGaussian(t *testing.T) {
	a, b := NewJitter(0.05, 1, 42), NewJitter(0.05, 1, 42)
	p := spatial.Identity()

	xs := make([]float64, 0, 20000)
	var maxAngle float64
	for i := 0; i < 20000; i++ {
		pa, pb := a.Apply(p), b.Apply(p)
		require.Equal(t, pa, pb)
		xs = append(xs, pa.Pos.X())
		maxAngle = max(maxAngle, spatial.AngleBetween(p.Rot, pa.Rot))
	}
	mean, std := stat.MeanStdDev(xs, nil)
	assert.InDelta(t, 0, mean, 0.005)
	assert.InDelta(t, 0.05, std, 0.005)
	assert.Greater(t, maxAngle, 0.0)
	assert.Less(t, maxAngle, 10.0)

	c := NewJitter(0.05, 1, 43)
	assert.NotEqual(t, NewJitter(0.05, 1, 42).Apply(p), c.Apply(p))
}
