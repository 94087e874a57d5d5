// Package engine combines geometry mapping, range selection, axis planning,
// pointer resolution and animation into a single chart model driven by a
// host. Every mutating method returns the events it caused instead of
// invoking callbacks.
package engine

import (
	"fmt"
	"image/color"
	"time"

	"gioui.org/f32"
	"git.sr.ht/~whereswaldon/zoomchart/anim"
	"git.sr.ht/~whereswaldon/zoomchart/axis"
	"git.sr.ht/~whereswaldon/zoomchart/geometry"
	"git.sr.ht/~whereswaldon/zoomchart/pointer"
	"git.sr.ht/~whereswaldon/zoomchart/rangeselect"
	"git.sr.ht/~whereswaldon/zoomchart/series"
)

// Config collects the tunables of every chart component.
type Config struct {
	Selector              rangeselect.Config
	XAxis                 axis.XConfig
	YAxis                 axis.YConfig
	PointerMode           pointer.Mode
	PointerCancelDistance float32
	AnimationDuration     time.Duration
}

// DefaultConfig returns the stock chart configuration.
func DefaultConfig() Config {
	return Config{
		Selector:              rangeselect.DefaultConfig(),
		XAxis:                 axis.DefaultXConfig(),
		YAxis:                 axis.DefaultYConfig(),
		PointerMode:           pointer.Nearest,
		PointerCancelDistance: 48,
		AnimationDuration:     anim.DefaultDuration,
	}
}

type gestureTarget uint8

const (
	targetNone gestureTarget = iota
	targetSelector
	targetCrosshair
)

// Chart is the complete state of one interactive chart. It is not safe for
// concurrent use; hosts drive it from their UI goroutine.
type Chart struct {
	cfg Config

	series []series.Series
	full   geometry.LongRange

	selector   *rangeselect.Selector
	xAxis      *axis.XAxis
	yAxis      *axis.YAxis
	visibility *anim.Visibility
	maxY       *anim.Value
	previewMax *anim.Value
	tracker    *pointer.Tracker

	chartRect, selectorRect geometry.Rect

	target   gestureTarget
	pointerX float32
}

// New returns an empty chart.
func New(cfg Config) (*Chart, error) {
	x, err := axis.NewXAxis(cfg.XAxis)
	if err != nil {
		return nil, fmt.Errorf("creating x axis: %w", err)
	}
	return &Chart{
		cfg:        cfg,
		selector:   rangeselect.New(cfg.Selector),
		xAxis:      x,
		yAxis:      axis.NewYAxis(cfg.YAxis),
		visibility: anim.NewVisibility(cfg.AnimationDuration),
		maxY:       anim.NewValue(cfg.AnimationDuration, 0),
		previewMax: anim.NewValue(cfg.AnimationDuration, 0),
		tracker:    pointer.NewTracker(cfg.PointerCancelDistance),
	}, nil
}

// Config returns the chart's configuration.
func (c *Chart) Config() Config {
	return c.cfg
}

// SetSeries replaces the chart's data. All series become visible and the
// selection resets to the full extent. Invalid series are rejected and the
// previous data kept.
func (c *Chart) SetSeries(all []series.Series) ([]Event, error) {
	if err := series.Validate(all); err != nil {
		return nil, fmt.Errorf("setting series: %w", err)
	}
	c.series = append([]series.Series(nil), all...)
	c.full = geometry.FullExtent(c.series)

	ids := make([]string, len(c.series))
	for i, s := range c.series {
		ids[i] = s.ID
	}
	c.visibility.Reset(ids...)

	var events []Event
	if c.tracker.Release() {
		events = append(events, PointerCleared{})
	}
	c.target = targetNone
	c.selector.Release()
	if r, changed := c.selector.Reset(); changed {
		events = append(events, c.rangeChanged(r))
	}

	visible := c.visibleSeries()
	c.maxY.Snap(float64(geometry.MaxValueIn(visible, c.Window())))
	c.previewMax.Snap(float64(geometry.MaxValue(visible)))
	c.yAxis = axis.NewYAxis(c.cfg.YAxis)
	c.yAxis.SetMaxY(c.maxY.Target())
	return events, nil
}

// Series returns the chart's data. Callers must not modify it.
func (c *Chart) Series() []series.Series {
	return c.series
}

// FullExtent returns the time range covered by all series.
func (c *Chart) FullExtent() geometry.LongRange {
	return c.full
}

// Range returns the current selection.
func (c *Chart) Range() geometry.NormalizedRange {
	return c.selector.Range()
}

// Window returns the time window the selection covers.
func (c *Chart) Window() geometry.LongRange {
	return geometry.TimeWindow(c.full, c.selector.Range(), c.cfg.Selector.Scale)
}

// SetNormalizedRange selects r, rejecting ranges that do not fit the scale.
func (c *Chart) SetNormalizedRange(r geometry.NormalizedRange) ([]Event, error) {
	changed, err := c.selector.SetRange(r)
	if err != nil {
		return nil, fmt.Errorf("setting range: %w", err)
	}
	if !changed {
		return nil, nil
	}
	return []Event{c.rangeChanged(r)}, nil
}

// ResetRange selects the full extent.
func (c *Chart) ResetRange() []Event {
	r, changed := c.selector.Reset()
	if !changed {
		return nil
	}
	return []Event{c.rangeChanged(r)}
}

func (c *Chart) rangeChanged(r geometry.NormalizedRange) Event {
	c.retarget()
	return RangeChanged{Range: r, Window: c.Window()}
}

// SetVisible shows or hides the series with id and reports whether that
// started an animation. Unknown ids are ignored.
func (c *Chart) SetVisible(id string, visible bool) bool {
	if !c.has(id) || !c.visibility.Set(id, visible) {
		return false
	}
	c.retarget()
	return true
}

// Toggle flips the visibility of id and returns its new target visibility.
func (c *Chart) Toggle(id string) bool {
	if !c.has(id) {
		return false
	}
	target := !c.visibility.Target(id)
	c.SetVisible(id, target)
	return target
}

// Visible reports whether id is visible or becoming visible.
func (c *Chart) Visible(id string) bool {
	return c.visibility.Target(id)
}

func (c *Chart) has(id string) bool {
	for _, s := range c.series {
		if s.ID == id {
			return true
		}
	}
	return false
}

// visibleSeries returns the series whose target visibility is on.
func (c *Chart) visibleSeries() []series.Series {
	var out []series.Series
	for _, s := range c.series {
		if c.visibility.Target(s.ID) {
			out = append(out, s)
		}
	}
	return out
}

// retarget points the maxY animations at the maxima of the visible series.
// With nothing visible the targets are left alone so fading lines keep
// their scale.
func (c *Chart) retarget() {
	visible := c.visibleSeries()
	if len(visible) == 0 {
		return
	}
	c.maxY.SetTarget(float64(geometry.MaxValueIn(visible, c.Window())))
	c.previewMax.SetTarget(float64(geometry.MaxValue(visible)))
	c.yAxis.SetMaxY(c.maxY.Target())
}

// Layout sets the pixel areas of the plot and of the range selector.
func (c *Chart) Layout(chart, selector geometry.Rect) {
	c.chartRect = chart
	c.selectorRect = selector
	c.selector.SetBounds(selector)
}

// Pointer routes a pointer event to the range selector or the crosshair,
// depending on where the gesture began.
func (c *Chart) Pointer(phase Phase, x, y float32) []Event {
	pt := f32.Point{X: x, Y: y}
	switch phase {
	case Press:
		switch {
		case c.selectorRect.Contains(pt):
			c.target = targetSelector
			r, changed := c.selector.Press(x)
			if changed {
				return []Event{c.rangeChanged(r)}
			}
		case c.chartRect.Contains(pt):
			c.target = targetCrosshair
			c.tracker.Press(y)
			return c.resolve(x)
		}
	case Move:
		switch c.target {
		case targetSelector:
			r, changed := c.selector.Move(x)
			if changed {
				return []Event{c.rangeChanged(r)}
			}
		case targetCrosshair:
			tracking, cancelled := c.tracker.Move(y)
			if cancelled {
				c.target = targetNone
				return []Event{PointerCleared{}}
			}
			if tracking {
				return c.resolve(x)
			}
		}
	case Release, Cancel:
		target := c.target
		c.target = targetNone
		switch target {
		case targetSelector:
			if phase == Cancel {
				c.selector.Cancel()
			} else {
				c.selector.Release()
			}
		case targetCrosshair:
			if c.tracker.Release() {
				return []Event{PointerCleared{}}
			}
		}
	}
	return nil
}

func (c *Chart) resolve(x float32) []Event {
	c.pointerX = x
	res, ok := c.crosshair()
	if !ok {
		return nil
	}
	return []Event{PointerResolved{Resolution: res}}
}

func (c *Chart) crosshair() (pointer.Resolution, bool) {
	return pointer.Resolve(c.pointerX, c.chartRect, c.Window(), c.visibleSeries(), c.maxY.Current(), c.cfg.PointerMode)
}

// Tick advances every animation by elapsed and reports whether another
// frame is needed.
func (c *Chart) Tick(elapsed time.Duration) bool {
	running := c.visibility.Tick(elapsed)
	running = c.maxY.Tick(elapsed) || running
	running = c.previewMax.Tick(elapsed) || running
	running = c.yAxis.Tick(elapsed) || running
	return running
}

// Animating reports whether any animation is in flight.
func (c *Chart) Animating() bool {
	return c.visibility.Animating() || c.maxY.Animating() || c.previewMax.Animating() || c.yAxis.Animating()
}

// Line is a series polyline in pixel space.
type Line struct {
	SeriesID string
	Name     string
	Color    color.NRGBA
	Opacity  float32
	Points   []f32.Point
}

// RenderModel is everything a painter needs to draw one frame.
type RenderModel struct {
	ChartRect    geometry.Rect
	SelectorRect geometry.Rect

	Range  geometry.NormalizedRange
	Window geometry.LongRange
	// MaxY is the interpolated value mapped to the plot's far edge.
	MaxY float64

	Lines     []Line
	Preview   []Line
	XAxis     axis.XPlan
	Gridlines []axis.Gridline
	Selector  rangeselect.Frame
	// Crosshair is nil unless a crosshair gesture is in progress.
	Crosshair *pointer.Resolution
}

// Render snapshots the chart for drawing.
func (c *Chart) Render() RenderModel {
	window := c.Window()
	maxY := c.maxY.Current()
	previewMax := c.previewMax.Current()
	m := RenderModel{
		ChartRect:    c.chartRect,
		SelectorRect: c.selectorRect,
		Range:        c.selector.Range(),
		Window:       window,
		MaxY:         maxY,
		XAxis:        c.xAxis.Plan(c.full, window, c.chartRect),
		Gridlines:    c.yAxis.Lines(c.chartRect, maxY),
		Selector:     c.selector.Frame(),
	}
	for _, s := range c.series {
		if !c.visibility.Drawn(s.ID) {
			continue
		}
		opacity := c.visibility.Opacity(s.ID)
		m.Lines = append(m.Lines, Line{
			SeriesID: s.ID,
			Name:     s.Name,
			Color:    s.Color,
			Opacity:  opacity,
			Points:   geometry.ToPixels(nil, geometry.VisiblePoints(s, window), window, maxY, c.chartRect),
		})
		m.Preview = append(m.Preview, Line{
			SeriesID: s.ID,
			Name:     s.Name,
			Color:    s.Color,
			Opacity:  opacity,
			Points:   geometry.ToPixels(nil, s.Points, c.full, previewMax, c.selectorRect),
		})
	}
	if c.target == targetCrosshair && c.tracker.Active() {
		if res, ok := c.crosshair(); ok {
			m.Crosshair = &res
		}
	}
	return m
}
