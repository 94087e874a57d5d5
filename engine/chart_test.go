package engine

import (
	"image/color"
	"testing"
	"time"

	"git.sr.ht/~whereswaldon/zoomchart/geometry"
	"git.sr.ht/~whereswaldon/zoomchart/pointer"
	"git.sr.ht/~whereswaldon/zoomchart/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	chartRect    = geometry.Rect{Left: 0, Top: 100, Right: 300, Bottom: 0}
	selectorRect = geometry.Rect{Left: 0, Top: 150, Right: 300, Bottom: 110}
)

func newTestChart(t *testing.T, mode pointer.Mode) *Chart {
	t.Helper()
	cfg := DefaultConfig()
	cfg.PointerMode = mode
	c, err := New(cfg)
	require.NoError(t, err)

	times := []int64{0, 10, 20, 30}
	a, err := series.FromColumns("a", "A", color.NRGBA{R: 0xff, A: 0xff}, times, []int64{5, 15, 10, 20})
	require.NoError(t, err)
	b, err := series.FromColumns("b", "B", color.NRGBA{B: 0xff, A: 0xff}, times, []int64{1, 2, 3, 4})
	require.NoError(t, err)

	events, err := c.SetSeries([]series.Series{a, b})
	require.NoError(t, err)
	assert.Empty(t, events)
	c.Layout(chartRect, selectorRect)
	return c
}

func settle(t *testing.T, c *Chart) {
	t.Helper()
	for i := 0; c.Tick(16*time.Millisecond); i++ {
		require.Less(t, i, 100, "animation never settled")
	}
}

func TestEmptyChart(t *testing.T) {
	c, err := New(DefaultConfig())
	require.NoError(t, err)
	_, err = c.SetSeries(nil)
	require.NoError(t, err)
	c.Layout(chartRect, selectorRect)

	assert.Equal(t, geometry.LongRange{}, c.Window())
	m := c.Render()
	assert.Empty(t, m.Lines)
	assert.Zero(t, m.MaxY)
	assert.Empty(t, c.Pointer(Press, 100, 50))
}

func TestSetSeriesDefaults(t *testing.T) {
	c := newTestChart(t, pointer.Nearest)
	assert.Equal(t, geometry.LongRange{Start: 0, End: 30}, c.FullExtent())
	assert.Equal(t, geometry.NormalizedRange{Start: 0, End: 1000}, c.Range())
	assert.Equal(t, geometry.LongRange{Start: 0, End: 30}, c.Window())
	assert.True(t, c.Visible("a"))
	assert.False(t, c.Animating())

	m := c.Render()
	assert.Equal(t, 20.0, m.MaxY)
	require.Len(t, m.Lines, 2)
	require.Len(t, m.Preview, 2)
	assert.Len(t, m.Gridlines, 6)
	assert.Equal(t, int64(1), m.XAxis.DayStep)
	assert.Nil(t, m.Crosshair)
	// The largest preview value reaches the far edge of the selector.
	assert.Equal(t, float32(110), m.Preview[0].Points[3].Y)
}

func TestSetSeriesRejectsInvalid(t *testing.T) {
	c := newTestChart(t, pointer.Nearest)
	bad, err := series.FromColumns("x", "X", color.NRGBA{}, []int64{0}, []int64{1})
	require.NoError(t, err)
	_, err = c.SetSeries([]series.Series{bad})
	assert.ErrorIs(t, err, series.ErrInvariant)
	assert.Len(t, c.Series(), 2)
}

func TestSetNormalizedRange(t *testing.T) {
	c := newTestChart(t, pointer.Nearest)
	events, err := c.SetNormalizedRange(geometry.NormalizedRange{Start: 0, End: 500})
	require.NoError(t, err)
	require.Equal(t, []Event{RangeChanged{
		Range:  geometry.NormalizedRange{Start: 0, End: 500},
		Window: geometry.LongRange{Start: 0, End: 15},
	}}, events)

	events, err = c.SetNormalizedRange(geometry.NormalizedRange{Start: 0, End: 500})
	require.NoError(t, err)
	assert.Empty(t, events)

	_, err = c.SetNormalizedRange(geometry.NormalizedRange{Start: 0, End: 2000})
	assert.ErrorIs(t, err, geometry.ErrRangeOutOfBounds)
	assert.Equal(t, geometry.NormalizedRange{Start: 0, End: 500}, c.Range())

	// The y scale animates toward the windowed maximum rather than jumping.
	assert.True(t, c.Animating())
	assert.Equal(t, 20.0, c.Render().MaxY)
	settle(t, c)
	m := c.Render()
	assert.Equal(t, 15.0, m.MaxY)

	require.Len(t, m.Lines[0].Points, 3)
	assert.Equal(t, float32(200), m.Lines[0].Points[1].X)
	assert.Equal(t, float32(0), m.Lines[0].Points[1].Y)

	assert.Equal(t, []Event{RangeChanged{
		Range:  geometry.NormalizedRange{Start: 0, End: 1000},
		Window: geometry.LongRange{Start: 0, End: 30},
	}}, c.ResetRange())
}

func TestToggleVisibility(t *testing.T) {
	c := newTestChart(t, pointer.Nearest)
	assert.False(t, c.SetVisible("missing", false))
	assert.False(t, c.Toggle("missing"))

	assert.True(t, c.SetVisible("a", false))
	assert.False(t, c.SetVisible("a", false))
	assert.False(t, c.Visible("a"))
	assert.True(t, c.Animating())

	m := c.Render()
	require.Len(t, m.Lines, 2)
	assert.Equal(t, float32(1), m.Lines[0].Opacity)

	settle(t, c)
	m = c.Render()
	require.Len(t, m.Lines, 1)
	assert.Equal(t, "b", m.Lines[0].SeriesID)
	assert.Equal(t, 4.0, m.MaxY)

	assert.True(t, c.Toggle("a"))
	settle(t, c)
	assert.Equal(t, 20.0, c.Render().MaxY)

	// Hiding everything keeps the last scale.
	c.SetVisible("a", false)
	c.SetVisible("b", false)
	settle(t, c)
	m = c.Render()
	assert.Empty(t, m.Lines)
	assert.Equal(t, 4.0, m.MaxY)
}

func TestCrosshairGesture(t *testing.T) {
	c := newTestChart(t, pointer.Interpolate)

	events := c.Pointer(Press, 250, 50)
	require.Len(t, events, 1)
	resolved, ok := events[0].(PointerResolved)
	require.True(t, ok)
	assert.Equal(t, int64(25), resolved.Time)
	require.Len(t, resolved.Values, 2)
	assert.InDelta(t, 15.0, resolved.Values[0].Value, 1e-9)

	m := c.Render()
	require.NotNil(t, m.Crosshair)
	assert.Equal(t, float32(250), m.Crosshair.X)

	events = c.Pointer(Move, 100, 80)
	require.Len(t, events, 1)
	assert.Equal(t, int64(10), events[0].(PointerResolved).Time)

	// Vertical travel past the cancel distance is a scroll.
	events = c.Pointer(Move, 100, 120)
	assert.Equal(t, []Event{PointerCleared{}}, events)
	assert.Nil(t, c.Render().Crosshair)
	assert.Empty(t, c.Pointer(Move, 120, 50))
	assert.Empty(t, c.Pointer(Release, 120, 50))

	c.Pointer(Press, 10, 50)
	assert.Equal(t, []Event{PointerCleared{}}, c.Pointer(Release, 10, 50))
}

func TestSelectorGesture(t *testing.T) {
	c := newTestChart(t, pointer.Nearest)
	_, err := c.SetNormalizedRange(geometry.NormalizedRange{Start: 0, End: 500})
	require.NoError(t, err)

	assert.Empty(t, c.Pointer(Press, 75, 130))
	events := c.Pointer(Move, 105, 130)
	require.Len(t, events, 1)
	changed := events[0].(RangeChanged)
	assert.Equal(t, geometry.NormalizedRange{Start: 100, End: 600}, changed.Range)
	assert.Equal(t, geometry.LongRange{Start: 3, End: 18}, changed.Window)

	// Vertical movement does not affect a selector drag.
	assert.Empty(t, c.Pointer(Move, 105, 400))
	assert.Empty(t, c.Pointer(Release, 105, 400))
	assert.Empty(t, c.Pointer(Move, 200, 130))

	m := c.Render()
	assert.InDelta(t, 30, m.Selector.Outer.Left, 1e-3)
	assert.InDelta(t, 180, m.Selector.Outer.Right, 1e-3)
	assert.InDelta(t, 30, m.Selector.LeftDim.Right, 1e-3)
}

func TestPressOutsideIgnored(t *testing.T) {
	c := newTestChart(t, pointer.Nearest)
	assert.Empty(t, c.Pointer(Press, 500, 500))
	assert.Empty(t, c.Pointer(Move, 100, 50))
	assert.Empty(t, c.Pointer(Cancel, 100, 50))
}
