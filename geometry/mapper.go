package geometry

import (
	"math"

	"gioui.org/f32"
	"git.sr.ht/~whereswaldon/zoomchart/series"
	"golang.org/x/exp/constraints"
)

// Rect is a drawing surface in device space. Top is the edge where value
// zero lands and Bottom is where the maximum value lands, so hosts whose y
// axis grows downward pass Top > Bottom.
type Rect struct {
	Left, Top, Right, Bottom float32
}

// Width returns Right-Left.
func (r Rect) Width() float32 {
	return r.Right - r.Left
}

// Height returns Top-Bottom, which is positive for the inverted convention.
func (r Rect) Height() float32 {
	return r.Top - r.Bottom
}

// ContainsX reports whether x lies between Left and Right.
func (r Rect) ContainsX(x float32) bool {
	return x >= r.Left && x <= r.Right
}

// Contains reports whether p lies within the rectangle regardless of the
// orientation of its vertical edges.
func (r Rect) Contains(p f32.Point) bool {
	lo, hi := min(r.Top, r.Bottom), max(r.Top, r.Bottom)
	return r.ContainsX(p.X) && p.Y >= lo && p.Y <= hi
}

// FullExtent returns the earliest first timestamp and the latest last
// timestamp across all series. An empty list yields 0..0.
func FullExtent(all []series.Series) LongRange {
	var r LongRange
	initialized := false
	for _, s := range all {
		if len(s.Points) == 0 {
			continue
		}
		sMin, sMax := s.Domain()
		if !initialized {
			r = LongRange{Start: sMin, End: sMax}
			initialized = true
			continue
		}
		r.Start = min(r.Start, sMin)
		r.End = max(r.End, sMax)
	}
	return r
}

// TimeWindow interpolates the normalized range into the full extent. The
// endpoints of the scale reproduce the extent exactly.
func TimeWindow(full LongRange, r NormalizedRange, s Scale) LongRange {
	if s.Max <= 0 {
		return full
	}
	return LongRange{
		Start: full.Start + scaleDiv(full.Span(), int64(r.Start), int64(s.Max)),
		End:   full.Start + scaleDiv(full.Span(), int64(r.End), int64(s.Max)),
	}
}

// scaleDiv computes round(v*num/den) without overflowing for the
// magnitudes of millisecond timestamps.
func scaleDiv(v, num, den int64) int64 {
	q, rem := v/den, v%den
	return q*num + (rem*num+den/2)/den
}

// VisiblePoints returns the samples of s inside window, plus the nearest
// sample on each side outside of it when one exists. The result shares
// storage with s.Points.
func VisiblePoints(s series.Series, window LongRange) []series.Point {
	n := len(s.Points)
	if n == 0 {
		return nil
	}
	lo := s.Search(window.Start)
	// hi is the index of the last sample at or before window.End.
	hi := s.Search(window.End+1) - 1
	first := max(lo-1, 0)
	last := min(hi+1, n-1)
	if first > last {
		return nil
	}
	return s.Points[first : last+1]
}

// MaxValue returns the largest value across all samples of all series, or
// zero when there are none.
func MaxValue(all []series.Series) int64 {
	var m int64
	found := false
	for _, s := range all {
		for _, p := range s.Points {
			if !found || p.Value > m {
				m = p.Value
				found = true
			}
		}
	}
	return m
}

// MaxValueIn returns the largest value across the visible points of each
// series in window, edge padding included, or zero when there are none.
func MaxValueIn(all []series.Series, window LongRange) int64 {
	var m int64
	found := false
	for _, s := range all {
		for _, p := range VisiblePoints(s, window) {
			if !found || p.Value > m {
				m = p.Value
				found = true
			}
		}
	}
	return m
}

// ToPixels maps samples into rect, appending to dst. A zero time span
// collapses every point onto rect.Left and a zero valueMax onto rect.Top.
func ToPixels(dst []f32.Point, points []series.Point, window LongRange, valueMax float64, rect Rect) []f32.Point {
	for _, p := range points {
		dst = append(dst, f32.Point{
			X: TimeToX(p.Time, window, rect),
			Y: ValueToY(float64(p.Value), valueMax, rect),
		})
	}
	return dst
}

// TimeToX maps a timestamp to a horizontal pixel position.
func TimeToX(t int64, window LongRange, rect Rect) float32 {
	span := window.Span()
	if span == 0 {
		return rect.Left
	}
	return rect.Left + float32(float64(t-window.Start)*float64(rect.Width())/float64(span))
}

// ValueToY maps a value to a vertical pixel position.
func ValueToY(v, valueMax float64, rect Rect) float32 {
	if valueMax == 0 {
		return rect.Top
	}
	return rect.Top - float32(v*float64(rect.Height())/valueMax)
}

// XToTime is the inverse of TimeToX, rounded to the nearest millisecond.
func XToTime(x float32, window LongRange, rect Rect) int64 {
	w := rect.Width()
	if w == 0 {
		return window.Start
	}
	frac := float64(x-rect.Left) / float64(w)
	return window.Start + int64(math.Round(frac*float64(window.Span())))
}

// YToValue is the inverse of ValueToY.
func YToValue(y float32, valueMax float64, rect Rect) float64 {
	h := rect.Height()
	if h == 0 {
		return 0
	}
	return float64(rect.Top-y) / float64(h) * valueMax
}

// Clamp restricts v to [lo, hi].
func Clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	return max(lo, min(v, hi))
}

// Ceil rounds a toward positive infinity.
func Ceil[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Ceil(float64(a)))
}

// Floor rounds a toward negative infinity.
func Floor[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Floor(float64(a)))
}
