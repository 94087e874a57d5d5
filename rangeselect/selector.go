// Package rangeselect implements the draggable zoom window that selects the
// visible part of a chart's time extent.
package rangeselect

import (
	"math"

	"git.sr.ht/~whereswaldon/zoomchart/geometry"
)

// Tracking identifies what an in-progress gesture is dragging.
type Tracking uint8

const (
	TrackingNone Tracking = iota
	TrackingLeftThumb
	TrackingRightThumb
	TrackingFrame
)

func (t Tracking) String() string {
	switch t {
	case TrackingNone:
		return "none"
	case TrackingLeftThumb:
		return "left thumb"
	case TrackingRightThumb:
		return "right thumb"
	case TrackingFrame:
		return "frame"
	default:
		return "unknown"
	}
}

// Config holds the tunable geometry of a Selector.
type Config struct {
	Scale geometry.Scale
	// ThumbWidth is the width of each thumb in pixels.
	ThumbWidth float32
	// BorderHeight is the thickness of the frame's top and bottom edges.
	BorderHeight float32
	// AdditionalTouchWidth widens the thumbs' hit zones toward the frame
	// interior.
	AdditionalTouchWidth float32
}

// DefaultConfig returns the stock selector geometry.
func DefaultConfig() Config {
	return Config{
		Scale:                geometry.DefaultScale,
		ThumbWidth:           12,
		BorderHeight:         3,
		AdditionalTouchWidth: 24,
	}
}

// Selector owns the current normalized selection and the drag state of the
// gesture manipulating it. Methods that may change the selection report the
// resulting range and whether it differs from the previous one.
type Selector struct {
	cfg    Config
	bounds geometry.Rect
	rng    geometry.NormalizedRange

	tracking Tracking
	// touchOffset is the distance from the frame center to the pointer when
	// a frame drag began.
	touchOffset float32
}

// New returns a selector covering the full extent.
func New(cfg Config) *Selector {
	return &Selector{
		cfg: cfg,
		rng: cfg.Scale.Full(),
	}
}

// Config returns the selector's configuration.
func (s *Selector) Config() Config {
	return s.cfg
}

// SetBounds updates the pixel area the selector spans.
func (s *Selector) SetBounds(r geometry.Rect) {
	s.bounds = r
}

// Bounds returns the pixel area the selector spans.
func (s *Selector) Bounds() geometry.Rect {
	return s.bounds
}

// Range returns the current selection.
func (s *Selector) Range() geometry.NormalizedRange {
	return s.rng
}

// Tracking returns what the current gesture is dragging.
func (s *Selector) Tracking() Tracking {
	return s.tracking
}

// SetRange replaces the selection with a host-provided value. Invalid ranges
// are rejected without modifying the selection.
func (s *Selector) SetRange(r geometry.NormalizedRange) (changed bool, err error) {
	if err := r.Validate(s.cfg.Scale); err != nil {
		return false, err
	}
	return s.set(r), nil
}

// Reset selects the full extent and abandons any gesture.
func (s *Selector) Reset() (geometry.NormalizedRange, bool) {
	s.tracking = TrackingNone
	return s.rng, s.set(s.cfg.Scale.Full())
}

func (s *Selector) set(r geometry.NormalizedRange) bool {
	if r == s.rng {
		return false
	}
	s.rng = r
	return true
}

func (s *Selector) pxPerUnit() float32 {
	if s.cfg.Scale.Max <= 0 {
		return 0
	}
	return s.bounds.Width() / float32(s.cfg.Scale.Max)
}

func (s *Selector) leftPx() float32 {
	return s.bounds.Left + float32(s.rng.Start)*s.pxPerUnit()
}

func (s *Selector) rightPx() float32 {
	return s.bounds.Left + float32(s.rng.End)*s.pxPerUnit()
}

func (s *Selector) frameCenter() float32 {
	return (s.leftPx() + s.rightPx()) / 2
}

// Press begins a gesture at x, classifying it against the thumb and frame
// hit zones. Presses outside the frame snap the nearer thumb to x.
func (s *Selector) Press(x float32) (geometry.NormalizedRange, bool) {
	if s.pxPerUnit() <= 0 {
		return s.rng, false
	}
	var (
		leftThumbStart  = s.leftPx()
		leftThumbEnd    = leftThumbStart + s.cfg.ThumbWidth
		rightThumbEnd   = s.rightPx()
		rightThumbStart = rightThumbEnd - s.cfg.ThumbWidth
		margin          = s.cfg.AdditionalTouchWidth
	)
	switch {
	case x < leftThumbStart:
		s.tracking = TrackingLeftThumb
		return s.rng, s.setLeftThumbTo(x)
	case x <= leftThumbEnd+margin:
		s.tracking = TrackingLeftThumb
	case x < rightThumbStart-margin:
		s.tracking = TrackingFrame
		s.touchOffset = x - s.frameCenter()
	case x <= rightThumbEnd:
		s.tracking = TrackingRightThumb
	default:
		s.tracking = TrackingRightThumb
		return s.rng, s.setRightThumbTo(x)
	}
	return s.rng, false
}

// Move continues the current gesture at x.
func (s *Selector) Move(x float32) (geometry.NormalizedRange, bool) {
	if s.pxPerUnit() <= 0 {
		return s.rng, false
	}
	var changed bool
	switch s.tracking {
	case TrackingLeftThumb:
		changed = s.setLeftThumbTo(x)
	case TrackingRightThumb:
		changed = s.setRightThumbTo(x)
	case TrackingFrame:
		changed = s.shiftFrame(x)
	}
	return s.rng, changed
}

// Release ends the current gesture, keeping the selection as it is.
func (s *Selector) Release() {
	s.tracking = TrackingNone
	s.touchOffset = 0
}

// Cancel abandons the current gesture. Changes already reported by Move are
// not reverted.
func (s *Selector) Cancel() {
	s.Release()
}

func (s *Selector) toUnits(x float32) int {
	return int(math.Round(float64((x - s.bounds.Left) / s.pxPerUnit())))
}

func (s *Selector) setLeftThumbTo(x float32) bool {
	var (
		maxUnits = s.cfg.Scale.Max
		minLen   = s.cfg.Scale.MinLength
		start    = geometry.Clamp(s.toUnits(x-s.cfg.ThumbWidth/2), 0, maxUnits-minLen)
		end      = s.rng.End
	)
	if end-start < minLen {
		end = start + minLen
	}
	return s.set(geometry.NormalizedRange{Start: start, End: end})
}

func (s *Selector) setRightThumbTo(x float32) bool {
	var (
		maxUnits = s.cfg.Scale.Max
		minLen   = s.cfg.Scale.MinLength
		start    = s.rng.Start
		end      = geometry.Clamp(s.toUnits(x+s.cfg.ThumbWidth/2), minLen, maxUnits)
	)
	if end-start < minLen {
		start = end - minLen
	}
	return s.set(geometry.NormalizedRange{Start: start, End: end})
}

func (s *Selector) shiftFrame(x float32) bool {
	oldX := s.frameCenter() + s.touchOffset
	delta := int(math.Round(float64((x - oldX) / s.pxPerUnit())))
	length := s.rng.Len()
	start := geometry.Clamp(s.rng.Start+delta, 0, s.cfg.Scale.Max-length)
	return s.set(geometry.NormalizedRange{Start: start, End: start + length})
}

// Frame describes the selector's drawable parts in pixel space.
type Frame struct {
	// Outer spans from the left thumb's outer edge to the right thumb's.
	Outer geometry.Rect
	// Inner is the transparent window inside the frame border.
	Inner geometry.Rect
	// LeftThumb and RightThumb are the thumbs' drag handles.
	LeftThumb, RightThumb geometry.Rect
	// LeftDim and RightDim cover the unselected parts of the extent.
	LeftDim, RightDim geometry.Rect
}

// Frame returns the pixel rectangles for the current selection.
func (s *Selector) Frame() Frame {
	b := s.bounds
	l, r := s.leftPx(), s.rightPx()
	outer := geometry.Rect{Left: l, Top: b.Top, Right: r, Bottom: b.Bottom}
	inner := insetY(geometry.Rect{
		Left:   l + s.cfg.ThumbWidth,
		Top:    b.Top,
		Right:  r - s.cfg.ThumbWidth,
		Bottom: b.Bottom,
	}, s.cfg.BorderHeight)
	return Frame{
		Outer:      outer,
		Inner:      inner,
		LeftThumb:  geometry.Rect{Left: l, Top: b.Top, Right: l + s.cfg.ThumbWidth, Bottom: b.Bottom},
		RightThumb: geometry.Rect{Left: r - s.cfg.ThumbWidth, Top: b.Top, Right: r, Bottom: b.Bottom},
		LeftDim:    geometry.Rect{Left: b.Left, Top: b.Top, Right: l, Bottom: b.Bottom},
		RightDim:   geometry.Rect{Left: r, Top: b.Top, Right: b.Right, Bottom: b.Bottom},
	}
}

// insetY moves both vertical edges of r inward by d, whichever way r is
// oriented.
func insetY(r geometry.Rect, d float32) geometry.Rect {
	if r.Top <= r.Bottom {
		r.Top += d
		r.Bottom -= d
	} else {
		r.Top -= d
		r.Bottom += d
	}
	return r
}
