package pointer

import (
	"image/color"
	"testing"

	"gioui.org/f32"
	"git.sr.ht/~whereswaldon/zoomchart/geometry"
	"git.sr.ht/~whereswaldon/zoomchart/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	times  = []int64{0, 10, 20, 30}
	red    = color.NRGBA{R: 0xff, A: 0xff}
	blue   = color.NRGBA{B: 0xff, A: 0xff}
	window = geometry.LongRange{Start: 0, End: 30}
	rect   = geometry.Rect{Left: 0, Top: 100, Right: 300, Bottom: 0}
)

func testSeries(t *testing.T) []series.Series {
	t.Helper()
	a, err := series.FromColumns("a", "A", red, times, []int64{5, 15, 10, 20})
	require.NoError(t, err)
	b, err := series.FromColumns("b", "B", blue, times, []int64{1, 2, 3, 4})
	require.NoError(t, err)
	return []series.Series{a, b}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{
		"nearest":     Nearest,
		"":            Nearest,
		"Interpolate": Interpolate,
	} {
		got, err := ParseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseMode("closest")
	assert.Error(t, err)
	assert.Equal(t, "interpolate", Interpolate.String())
}

func TestResolveInterpolate(t *testing.T) {
	all := testSeries(t)
	res, ok := Resolve(250, rect, window, all, 20, Interpolate)
	require.True(t, ok)
	assert.Equal(t, int64(25), res.Time)
	assert.Equal(t, float32(250), res.X)
	require.Len(t, res.Values, 2)

	a := res.Values[0]
	assert.Equal(t, "a", a.SeriesID)
	assert.Equal(t, red, a.Color)
	assert.InDelta(t, 15.0, a.Value, 1e-9)
	assert.Equal(t, f32.Point{X: 250, Y: 25}, a.Marker)
	assert.InDelta(t, 3.5, res.Values[1].Value, 1e-9)
}

func TestResolveNearest(t *testing.T) {
	all := testSeries(t)
	for _, tc := range []struct {
		x     float32
		time  int64
		value float64
	}{
		{x: 0, time: 0, value: 5},
		{x: 40, time: 0, value: 5},
		{x: 60, time: 10, value: 15},
		{x: 150, time: 10, value: 15},
		{x: 260, time: 30, value: 20},
		{x: 900, time: 30, value: 20},
	} {
		res, ok := Resolve(tc.x, rect, window, all, 20, Nearest)
		require.True(t, ok)
		assert.Equal(t, tc.time, res.Time, "x=%v", tc.x)
		assert.Equal(t, tc.value, res.Values[0].Value, "x=%v", tc.x)
		assert.Equal(t, geometry.TimeToX(tc.time, window, rect), res.X)
	}
}

func TestResolveBeyondData(t *testing.T) {
	all := testSeries(t)
	wide := geometry.LongRange{Start: -30, End: 60}

	res, ok := Resolve(0, rect, wide, all, 20, Interpolate)
	require.True(t, ok)
	assert.Equal(t, int64(0), res.Time)
	assert.Equal(t, 5.0, res.Values[0].Value)

	res, ok = Resolve(300, rect, wide, all, 20, Interpolate)
	require.True(t, ok)
	assert.Equal(t, int64(30), res.Time)
	assert.Equal(t, 20.0, res.Values[0].Value)
}

func TestResolveNothing(t *testing.T) {
	_, ok := Resolve(10, rect, window, nil, 20, Nearest)
	assert.False(t, ok)
	_, ok = Resolve(10, rect, window, []series.Series{{ID: "empty"}}, 20, Nearest)
	assert.False(t, ok)
}

func TestTracker(t *testing.T) {
	tr := NewTracker(48)
	tracking, cancelled := tr.Move(10)
	assert.False(t, tracking)
	assert.False(t, cancelled)

	tr.Press(100)
	assert.True(t, tr.Active())
	tracking, cancelled = tr.Move(140)
	assert.True(t, tracking)
	assert.False(t, cancelled)

	tracking, cancelled = tr.Move(40)
	assert.False(t, tracking)
	assert.True(t, cancelled)
	assert.False(t, tr.Active())
	assert.False(t, tr.Release())

	tr.Press(0)
	assert.True(t, tr.Release())
}

func TestTrackerNeverCancels(t *testing.T) {
	tr := NewTracker(0)
	tr.Press(0)
	tracking, cancelled := tr.Move(10000)
	assert.True(t, tracking)
	assert.False(t, cancelled)
}
