// Package pointer resolves a pointer position over the chart into the
// sample values shown by the crosshair and tooltip.
package pointer

import (
	"fmt"
	"image/color"
	"strings"

	"gioui.org/f32"
	"git.sr.ht/~whereswaldon/zoomchart/geometry"
	"git.sr.ht/~whereswaldon/zoomchart/series"
)

// Mode selects how a pointer time maps onto samples.
type Mode uint8

const (
	// Nearest snaps to the sample closest in time.
	Nearest Mode = iota
	// Interpolate blends the samples on either side of the pointer.
	Interpolate
)

func (m Mode) String() string {
	switch m {
	case Nearest:
		return "nearest"
	case Interpolate:
		return "interpolate"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// ParseMode parses the textual form of a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nearest", "":
		return Nearest, nil
	case "interpolate":
		return Interpolate, nil
	}
	return 0, fmt.Errorf("unknown pointer mode %q", s)
}

// Value is one series' reading under the pointer.
type Value struct {
	SeriesID string
	Name     string
	Color    color.NRGBA
	Time     int64
	Value    float64
	// Marker is the pixel position of the reading.
	Marker f32.Point
}

// Resolution is the crosshair state for one pointer position.
type Resolution struct {
	// Time is the timestamp under the crosshair.
	Time int64
	// X is the crosshair's horizontal pixel position.
	X      float32
	Values []Value
}

// Resolve maps pointer position x within rect to per-series readings. It
// returns false when there is nothing to resolve against.
func Resolve(x float32, rect geometry.Rect, window geometry.LongRange, all []series.Series, valueMax float64, mode Mode) (Resolution, bool) {
	if len(all) == 0 {
		return Resolution{}, false
	}
	t := geometry.XToTime(geometry.Clamp(x, rect.Left, rect.Right), window, rect)
	res := Resolution{Time: t}
	for i, s := range all {
		if len(s.Points) == 0 {
			continue
		}
		var (
			at int64
			v  float64
		)
		switch mode {
		case Interpolate:
			at, v = interpolate(s, t)
		default:
			p := nearest(s, t)
			at, v = p.Time, float64(p.Value)
		}
		if i == 0 || len(res.Values) == 0 {
			res.Time = at
		}
		res.Values = append(res.Values, Value{
			SeriesID: s.ID,
			Name:     s.Name,
			Color:    s.Color,
			Time:     at,
			Value:    v,
			Marker: f32.Point{
				X: geometry.TimeToX(at, window, rect),
				Y: geometry.ValueToY(v, valueMax, rect),
			},
		})
	}
	if len(res.Values) == 0 {
		return Resolution{}, false
	}
	res.X = geometry.TimeToX(res.Time, window, rect)
	return res, true
}

// nearest returns the sample closest to t, preferring the earlier one on a
// tie.
func nearest(s series.Series, t int64) series.Point {
	i := s.Search(t)
	switch {
	case i == 0:
		return s.Points[0]
	case i == len(s.Points):
		return s.Points[i-1]
	}
	before, after := s.Points[i-1], s.Points[i]
	if after.Time-t < t-before.Time {
		return after
	}
	return before
}

// interpolate blends the bracketing samples of t linearly by time, falling
// back to the closest endpoint outside the data.
func interpolate(s series.Series, t int64) (int64, float64) {
	i := s.Search(t)
	switch {
	case i == 0:
		p := s.Points[0]
		return p.Time, float64(p.Value)
	case i == len(s.Points):
		p := s.Points[i-1]
		return p.Time, float64(p.Value)
	}
	after := s.Points[i]
	if after.Time == t {
		return t, float64(after.Value)
	}
	before := s.Points[i-1]
	frac := float64(t-before.Time) / float64(after.Time-before.Time)
	return t, float64(before.Value) + frac*float64(after.Value-before.Value)
}
