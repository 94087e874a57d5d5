package rangeselect

import (
	"testing"

	"git.sr.ht/~whereswaldon/zoomchart/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSelector returns a selector one pixel per unit wide, selecting
// [200, 600].
func newTestSelector(t *testing.T, margin float32) *Selector {
	t.Helper()
	s := New(Config{
		Scale:                geometry.DefaultScale,
		ThumbWidth:           10,
		BorderHeight:         2,
		AdditionalTouchWidth: margin,
	})
	s.SetBounds(geometry.Rect{Left: 0, Top: 50, Right: 1000, Bottom: 0})
	changed, err := s.SetRange(geometry.NormalizedRange{Start: 200, End: 600})
	require.NoError(t, err)
	require.True(t, changed)
	return s
}

func TestNewSelectsFullExtent(t *testing.T) {
	s := New(DefaultConfig())
	assert.Equal(t, geometry.NormalizedRange{Start: 0, End: 1000}, s.Range())
	assert.Equal(t, TrackingNone, s.Tracking())
}

func TestPressClassification(t *testing.T) {
	for _, tc := range []struct {
		name     string
		margin   float32
		x        float32
		tracking Tracking
		want     geometry.NormalizedRange
		changed  bool
	}{
		{name: "left of left thumb snaps", x: 50, tracking: TrackingLeftThumb, want: geometry.NormalizedRange{Start: 45, End: 600}, changed: true},
		{name: "on left thumb", x: 205, tracking: TrackingLeftThumb, want: geometry.NormalizedRange{Start: 200, End: 600}},
		{name: "left thumb touch margin", margin: 20, x: 225, tracking: TrackingLeftThumb, want: geometry.NormalizedRange{Start: 200, End: 600}},
		{name: "frame interior", x: 400, tracking: TrackingFrame, want: geometry.NormalizedRange{Start: 200, End: 600}},
		{name: "frame interior with margin", margin: 20, x: 232, tracking: TrackingFrame, want: geometry.NormalizedRange{Start: 200, End: 600}},
		{name: "right thumb touch margin", margin: 20, x: 575, tracking: TrackingRightThumb, want: geometry.NormalizedRange{Start: 200, End: 600}},
		{name: "on right thumb", x: 595, tracking: TrackingRightThumb, want: geometry.NormalizedRange{Start: 200, End: 600}},
		{name: "right of right thumb snaps", x: 800, tracking: TrackingRightThumb, want: geometry.NormalizedRange{Start: 200, End: 805}, changed: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSelector(t, tc.margin)
			got, changed := s.Press(tc.x)
			assert.Equal(t, tc.tracking, s.Tracking())
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.changed, changed)
		})
	}
}

func TestLeftThumbPushesRightThumb(t *testing.T) {
	s := newTestSelector(t, 0)
	s.Press(205)
	require.Equal(t, TrackingLeftThumb, s.Tracking())

	got, changed := s.Move(555)
	assert.True(t, changed)
	assert.Equal(t, geometry.NormalizedRange{Start: 550, End: 650}, got)
	assert.Equal(t, s.Config().Scale.MinLength, got.Len())

	got, changed = s.Move(995)
	assert.True(t, changed)
	assert.Equal(t, geometry.NormalizedRange{Start: 900, End: 1000}, got)
	assert.Equal(t, s.Config().Scale.MinLength, got.Len())

	// The right edge does not follow the left thumb back.
	got, _ = s.Move(105)
	assert.Equal(t, geometry.NormalizedRange{Start: 100, End: 1000}, got)
}

func TestRightThumbPushesLeftThumb(t *testing.T) {
	s := newTestSelector(t, 0)
	s.Press(595)
	require.Equal(t, TrackingRightThumb, s.Tracking())

	got, changed := s.Move(195)
	assert.True(t, changed)
	assert.Equal(t, geometry.NormalizedRange{Start: 100, End: 200}, got)

	got, _ = s.Move(-500)
	assert.Equal(t, geometry.NormalizedRange{Start: 0, End: 100}, got)
	assert.Equal(t, 100, got.Len())
}

func TestFrameDragPreservesLength(t *testing.T) {
	s := newTestSelector(t, 0)
	s.Press(400)
	require.Equal(t, TrackingFrame, s.Tracking())

	for _, tc := range []struct {
		x    float32
		want geometry.NormalizedRange
	}{
		{x: 450, want: geometry.NormalizedRange{Start: 250, End: 650}},
		{x: 2000, want: geometry.NormalizedRange{Start: 600, End: 1000}},
		{x: 1500, want: geometry.NormalizedRange{Start: 600, End: 1000}},
		{x: -5000, want: geometry.NormalizedRange{Start: 0, End: 400}},
		{x: 300, want: geometry.NormalizedRange{Start: 100, End: 500}},
	} {
		got, _ := s.Move(tc.x)
		assert.Equal(t, tc.want, got, "x=%v", tc.x)
		assert.Equal(t, 400, got.Len())
	}
}

func TestFrameDragKeepsTouchOffset(t *testing.T) {
	s := newTestSelector(t, 0)
	// 40px right of the frame center.
	s.Press(440)
	got, changed := s.Move(440)
	assert.False(t, changed)
	assert.Equal(t, geometry.NormalizedRange{Start: 200, End: 600}, got)

	got, changed = s.Move(470)
	assert.True(t, changed)
	assert.Equal(t, geometry.NormalizedRange{Start: 230, End: 630}, got)
}

func TestNoRedundantChanges(t *testing.T) {
	s := newTestSelector(t, 0)
	s.Press(205)
	_, changed := s.Move(305)
	assert.True(t, changed)
	_, changed = s.Move(305)
	assert.False(t, changed)

	changed, err := s.SetRange(s.Range())
	assert.NoError(t, err)
	assert.False(t, changed)
}

func TestReleaseAndCancelStopTracking(t *testing.T) {
	s := newTestSelector(t, 0)
	s.Press(400)
	s.Release()
	assert.Equal(t, TrackingNone, s.Tracking())
	got, changed := s.Move(900)
	assert.False(t, changed)
	assert.Equal(t, geometry.NormalizedRange{Start: 200, End: 600}, got)

	s.Press(205)
	s.Cancel()
	_, changed = s.Move(300)
	assert.False(t, changed)
}

func TestZeroWidthIgnoresGestures(t *testing.T) {
	s := New(DefaultConfig())
	got, changed := s.Press(10)
	assert.False(t, changed)
	assert.Equal(t, TrackingNone, s.Tracking())
	assert.Equal(t, s.Config().Scale.Full(), got)
	_, changed = s.Move(20)
	assert.False(t, changed)
}

func TestSetRangeRejectsInvalid(t *testing.T) {
	s := newTestSelector(t, 0)
	for _, r := range []geometry.NormalizedRange{
		{Start: -10, End: 500},
		{Start: 500, End: 1200},
		{Start: 500, End: 550},
		{Start: 600, End: 200},
	} {
		changed, err := s.SetRange(r)
		assert.ErrorIs(t, err, geometry.ErrRangeOutOfBounds)
		assert.False(t, changed)
	}
	assert.Equal(t, geometry.NormalizedRange{Start: 200, End: 600}, s.Range())
}

func TestReset(t *testing.T) {
	s := newTestSelector(t, 0)
	s.Press(400)
	got, changed := s.Reset()
	assert.True(t, changed)
	assert.Equal(t, geometry.NormalizedRange{Start: 0, End: 1000}, got)
	assert.Equal(t, TrackingNone, s.Tracking())
}

func TestFrameRects(t *testing.T) {
	s := newTestSelector(t, 0)
	f := s.Frame()
	assert.Equal(t, geometry.Rect{Left: 200, Top: 50, Right: 600, Bottom: 0}, f.Outer)
	assert.Equal(t, geometry.Rect{Left: 210, Top: 48, Right: 590, Bottom: 2}, f.Inner)
	assert.Equal(t, geometry.Rect{Left: 200, Top: 50, Right: 210, Bottom: 0}, f.LeftThumb)
	assert.Equal(t, geometry.Rect{Left: 590, Top: 50, Right: 600, Bottom: 0}, f.RightThumb)
	assert.Equal(t, geometry.Rect{Left: 0, Top: 50, Right: 200, Bottom: 0}, f.LeftDim)
	assert.Equal(t, geometry.Rect{Left: 600, Top: 50, Right: 1000, Bottom: 0}, f.RightDim)
}
