package record

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/zeusync/gimbal/internal/core/spatial"
)

var ErrEmptyTrace = errors.New("record: trace is empty")

var (
	anchorColor   = color.RGBA{R: 200, G: 60, B: 60, A: 255}
	followerColor = color.RGBA{R: 40, G: 90, B: 200, A: 255}
)

// Trace keeps samples in memory for plotting.
type Trace struct {
	samples []Sample
}

func (t *Trace) Add(s Sample)       { t.samples = append(t.samples, s) }
func (t *Trace) Samples() []Sample { return t.samples }
func (t *Trace) Len() int          { return len(t.samples) }

// Plot renders anchor and follower yaw and pitch over time. format is any
// extension gonum/plot can write, e.g. "png" or "svg".
func (t *Trace) Plot(w io.Writer, format string) error {
	if len(t.samples) == 0 {
		return ErrEmptyTrace
	}
	p := plot.New()
	p.Title.Text = "Anchor vs follower orientation"
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Angle (deg)"
	p.Legend.Top = true

	series := []struct {
		name  string
		color color.Color
		dash  bool
		value func(Sample) float64
	}{
		{"anchor yaw", anchorColor, false, func(s Sample) float64 { return s.Anchor.Euler()[1] }},
		{"follower yaw", followerColor, false, func(s Sample) float64 { return s.Follower.Euler()[1] }},
		{"anchor pitch", anchorColor, true, func(s Sample) float64 { return signed(s.Anchor.Euler()[0]) }},
		{"follower pitch", followerColor, true, func(s Sample) float64 { return signed(s.Follower.Euler()[0]) }},
	}
	for _, sr := range series {
		pts := make(plotter.XYs, len(t.samples))
		for i, s := range t.samples {
			pts[i] = plotter.XY{X: s.T, Y: sr.value(s)}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("plot %s: %w", sr.name, err)
		}
		line.Color = sr.color
		line.Width = vg.Points(1)
		if sr.dash {
			line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		}
		p.Add(line)
		p.Legend.Add(sr.name, line)
	}

	wt, err := p.WriterTo(10*vg.Inch, 5*vg.Inch, format)
	if err != nil {
		return fmt.Errorf("plot writer: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// signed maps [0, 360) onto (-180, 180].
func signed(deg float64) float64 {
	return spatial.AngleDelta(deg, 0)
}
