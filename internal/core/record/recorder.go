package record

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/zeusync/gimbal/internal/core/spatial"
)

var header = []string{
	"t", "mode", "anchor_available",
	"anchor_x", "anchor_y", "anchor_z", "anchor_pitch", "anchor_yaw", "anchor_roll",
	"follower_x", "follower_y", "follower_z", "follower_pitch", "follower_yaw", "follower_roll",
}

// Recorder writes samples as CSV rows, one per tick.
type Recorder struct {
	w      *csv.Writer
	closer io.Closer
	header bool
	row    []string
}

func NewRecorder(w io.Writer) *Recorder {
	r := &Recorder{w: csv.NewWriter(w), row: make([]string, 0, len(header))}
	if c, ok := w.(io.Closer); ok {
		r.closer = c
	}
	return r
}

// Create opens path for writing, truncating it.
func Create(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create trace: %w", err)
	}
	return NewRecorder(f), nil
}

func (r *Recorder) Record(s Sample) error {
	if !r.header {
		if err := r.w.Write(header); err != nil {
			return err
		}
		r.header = true
	}

	row := r.row[:0]
	row = append(row, formatFloat(s.T), s.Mode.String(), strconv.FormatBool(s.AnchorAvailable))
	row = appendPose(row, s.Anchor)
	row = appendPose(row, s.Follower)
	return r.w.Write(row)
}

func (r *Recorder) Flush() error {
	r.w.Flush()
	return r.w.Error()
}

// Close flushes and closes the underlying writer if it is a Closer.
func (r *Recorder) Close() error {
	err := r.Flush()
	if r.closer != nil {
		if cerr := r.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func appendPose(row []string, p spatial.Pose) []string {
	e := p.Euler()
	return append(row,
		formatFloat(p.Pos.X()), formatFloat(p.Pos.Y()), formatFloat(p.Pos.Z()),
		formatFloat(e[0]), formatFloat(e[1]), formatFloat(e[2]))
}

func formatFloat(v float64) string {
	v = math.Round(v*1e6) / 1e6
	if v == 0 {
		v = 0 // no "-0.000000"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
