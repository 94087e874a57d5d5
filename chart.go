package main

import (
	"image"
	"log/slog"
	"math"
	"time"

	"gioui.org/font"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"
	"github.com/dustin/go-humanize"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"git.sr.ht/~whereswaldon/zoomchart/axis"
	"git.sr.ht/~whereswaldon/zoomchart/backend"
	"git.sr.ht/~whereswaldon/zoomchart/engine"
	"git.sr.ht/~whereswaldon/zoomchart/geometry"
	chartpointer "git.sr.ht/~whereswaldon/zoomchart/pointer"
	"git.sr.ht/~whereswaldon/zoomchart/series"
)

var resetIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.ActionZoomOut)
	return icon
}()

const (
	xLabelHeight   = unit.Dp(24)
	selectorHeight = unit.Dp(48)
	selectorGap    = unit.Dp(8)
	lineWidth      = unit.Dp(2)
	previewWidth   = unit.Dp(1)
	markerRadius   = unit.Dp(4)
)

// ChartView draws one engine.Chart and feeds it pointer input.
type ChartView struct {
	chart      *engine.Chart
	title      string
	logger     *slog.Logger
	invalidate func()

	// enabled holds one legend toggle per series, in series order.
	enabled  []*widget.Bool
	resetBtn widget.Clickable
	legend   component.GridState
	// crosshair mirrors the latest pointer event for the legend.
	crosshair *chartpointer.Resolution
	lastFrame time.Time
}

func NewChartView(cfg engine.Config, logger *slog.Logger, invalidate func()) (*ChartView, error) {
	chart, err := engine.New(cfg)
	if err != nil {
		return nil, err
	}
	return &ChartView{
		chart:      chart,
		logger:     logger,
		invalidate: invalidate,
	}, nil
}

func sameIDs(a, b []series.Series) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

// SetChart replaces the data shown. When the new data has the same title and
// series as the old, as it does while a trace grows, the selection and the
// hidden series carry over.
func (c *ChartView) SetChart(chart backend.Chart) error {
	prevRange := c.chart.Range()
	hidden := map[string]bool{}
	for _, s := range c.chart.Series() {
		if !c.chart.Visible(s.ID) {
			hidden[s.ID] = true
		}
	}
	carry := c.title == chart.Title && sameIDs(c.chart.Series(), chart.Series)

	events, err := c.chart.SetSeries(chart.Series)
	if err != nil {
		return err
	}
	c.title = chart.Title
	c.handle(events)
	c.enabled = make([]*widget.Bool, len(chart.Series))
	for i := range c.enabled {
		c.enabled[i] = &widget.Bool{Value: true}
	}
	if carry {
		if events, err := c.chart.SetNormalizedRange(prevRange); err == nil {
			c.handle(events)
		}
		for i, s := range chart.Series {
			if hidden[s.ID] {
				c.chart.SetVisible(s.ID, false)
				c.enabled[i].Value = false
			}
		}
		if len(hidden) > 0 {
			// Skip the fade so hidden series don't flash on every reload.
			c.chart.Tick(c.chart.Config().AnimationDuration)
		}
	}
	c.invalidate()
	return nil
}

func (c *ChartView) handle(events []engine.Event) {
	for _, ev := range events {
		switch ev := ev.(type) {
		case engine.RangeChanged:
			c.logger.Debug("range changed", "chart", c.title, "range", ev.Range.String(), "window", ev.Window.String())
		case engine.PointerResolved:
			res := ev.Resolution
			c.crosshair = &res
		case engine.PointerCleared:
			c.crosshair = nil
		}
	}
}

func (c *ChartView) Update(gtx C) {
	if c.resetBtn.Clicked(gtx) {
		c.handle(c.chart.ResetRange())
	}
	for i, s := range c.chart.Series() {
		if i < len(c.enabled) && c.enabled[i].Update(gtx) {
			c.chart.SetVisible(s.ID, c.enabled[i].Value)
		}
	}
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: c,
			Kinds:  pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel,
		})
		if !ok {
			break
		}
		e, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		var phase engine.Phase
		switch e.Kind {
		case pointer.Press:
			phase = engine.Press
		case pointer.Drag:
			phase = engine.Move
		case pointer.Release:
			phase = engine.Release
		case pointer.Cancel:
			phase = engine.Cancel
		default:
			continue
		}
		c.handle(c.chart.Pointer(phase, e.Position.X, e.Position.Y))
	}
	c.animate(gtx)
}

// animate advances the chart's animations by the time since the last
// animated frame.
func (c *ChartView) animate(gtx C) {
	if !c.chart.Animating() {
		c.lastFrame = time.Time{}
		return
	}
	if !c.lastFrame.IsZero() {
		c.chart.Tick(gtx.Now.Sub(c.lastFrame))
	}
	c.lastFrame = gtx.Now
	c.invalidate()
}

func rec(gtx C, w layout.Widget) (D, op.CallOp) {
	macro := op.Record(gtx.Ops)
	dims := w(gtx)
	call := macro.Stop()
	return dims, call
}

func (c *ChartView) Layout(gtx C, th *material.Theme) D {
	c.Update(gtx)
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
				layout.Flexed(1, func(gtx C) D {
					l := material.H6(th, c.title)
					l.MaxLines = 1
					return layout.UniformInset(4).Layout(gtx, l.Layout)
				}),
				layout.Rigid(func(gtx C) D {
					btn := material.IconButton(th, &c.resetBtn, resetIcon, "Reset zoom")
					btn.Size = 20
					btn.Inset = layout.UniformInset(6)
					return btn.Layout(gtx)
				}),
			)
		}),
		layout.Flexed(1, func(gtx C) D {
			return layout.UniformInset(8).Layout(gtx, func(gtx C) D {
				return c.layoutCanvas(gtx, th)
			})
		}),
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Max.Y = min(gtx.Constraints.Max.Y, gtx.Dp(150))
			return c.layoutLegend(gtx, th)
		}),
	)
}

// layoutCanvas draws the plot, the x axis labels and the range selector,
// stacked vertically, and registers them as one pointer target.
func (c *ChartView) layoutCanvas(gtx C, th *material.Theme) D {
	size := gtx.Constraints.Max
	labelH, selH, gap := gtx.Dp(xLabelHeight), gtx.Dp(selectorHeight), gtx.Dp(selectorGap)
	plotH := size.Y - labelH - gap - selH
	if plotH <= 0 || size.X <= 0 {
		return D{Size: size}
	}
	width := float32(size.X)
	c.chart.Layout(
		geometry.Rect{Left: 0, Top: float32(plotH), Right: width, Bottom: 0},
		geometry.Rect{Left: 0, Top: float32(size.Y), Right: width, Bottom: float32(size.Y - selH)},
	)
	m := c.chart.Render()
	colors := newChartColors(th)

	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, c)

	gtx.Constraints.Min = image.Point{}
	c.paintGridlines(gtx, th, m, colors)
	plotClip := clip.Rect{Max: image.Pt(size.X, plotH)}.Push(gtx.Ops)
	paintLines(gtx.Ops, m.Lines, float32(gtx.Dp(lineWidth)))
	plotClip.Pop()
	c.paintXLabels(gtx, th, m, plotH, colors)
	c.paintSelector(gtx, m, colors)
	if m.Crosshair != nil {
		c.paintCrosshair(gtx, th, *m.Crosshair, plotH, colors)
	}
	return D{Size: size}
}

func imageRect(r geometry.Rect) image.Rectangle {
	round := func(v float32) int { return int(math.Round(float64(v))) }
	return image.Rect(round(r.Left), round(r.Top), round(r.Right), round(r.Bottom))
}

func paintLines(ops *op.Ops, lines []engine.Line, width float32) {
	for _, l := range lines {
		if len(l.Points) < 2 || l.Opacity <= 0 {
			continue
		}
		var p clip.Path
		p.Begin(ops)
		p.MoveTo(l.Points[0])
		for _, pt := range l.Points[1:] {
			p.LineTo(pt)
		}
		paint.FillShape(ops, withOpacity(l.Color, l.Opacity), clip.Stroke{
			Path:  p.End(),
			Width: width,
		}.Op())
	}
}

func (c *ChartView) paintGridlines(gtx C, th *material.Theme, m engine.RenderModel, colors chartColors) {
	oneDp := max(gtx.Dp(1), 1)
	for _, g := range m.Gridlines {
		if g.Opacity <= 0 {
			continue
		}
		y := int(math.Round(float64(g.Y)))
		paint.FillShape(gtx.Ops, withOpacity(colors.grid, g.Opacity), clip.Rect{
			Min: image.Pt(0, y),
			Max: image.Pt(gtx.Constraints.Max.X, y+oneDp),
		}.Op())
		l := material.Caption(th, g.Label)
		l.Color = withOpacity(colors.label, g.Opacity)
		dims, call := rec(gtx, l.Layout)
		stack := op.Offset(image.Pt(0, max(y-dims.Size.Y, 0))).Push(gtx.Ops)
		call.Add(gtx.Ops)
		stack.Pop()
	}
}

func (c *ChartView) paintXLabels(gtx C, th *material.Theme, m engine.RenderModel, plotH int, colors chartColors) {
	for _, xl := range m.XAxis.Labels {
		if xl.Opacity <= 0 {
			continue
		}
		l := material.Caption(th, xl.Text)
		l.Color = withOpacity(colors.label, xl.Opacity)
		dims, call := rec(gtx, l.Layout)
		x := int(math.Round(float64(xl.X))) - dims.Size.X/2
		x = geometry.Clamp(x, 0, max(gtx.Constraints.Max.X-dims.Size.X, 0))
		stack := op.Offset(image.Pt(x, plotH+gtx.Dp(4))).Push(gtx.Ops)
		call.Add(gtx.Ops)
		stack.Pop()
	}
}

func (c *ChartView) paintSelector(gtx C, m engine.RenderModel, colors chartColors) {
	area := clip.Rect(imageRect(m.SelectorRect)).Push(gtx.Ops)
	paintLines(gtx.Ops, m.Preview, float32(gtx.Dp(previewWidth)))
	area.Pop()

	f := m.Selector
	paint.FillShape(gtx.Ops, colors.fog, clip.Rect(imageRect(f.LeftDim)).Op())
	paint.FillShape(gtx.Ops, colors.fog, clip.Rect(imageRect(f.RightDim)).Op())

	outer, inner := imageRect(f.Outer), imageRect(f.Inner)
	for _, r := range []image.Rectangle{
		imageRect(f.LeftThumb),
		imageRect(f.RightThumb),
		image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, inner.Min.Y),
		image.Rect(outer.Min.X, inner.Max.Y, outer.Max.X, outer.Max.Y),
	} {
		paint.FillShape(gtx.Ops, colors.frame, clip.Rect(r).Op())
	}
}

func (c *ChartView) paintCrosshair(gtx C, th *material.Theme, res chartpointer.Resolution, plotH int, colors chartColors) {
	x := int(math.Round(float64(res.X)))
	paint.FillShape(gtx.Ops, colors.crosshair, clip.Rect{
		Min: image.Pt(x, 0),
		Max: image.Pt(x+max(gtx.Dp(1), 1), plotH),
	}.Op())

	outer, inner := gtx.Dp(markerRadius), gtx.Dp(markerRadius/2)
	for _, v := range res.Values {
		center := v.Marker.Round()
		paint.FillShape(gtx.Ops, v.Color, clip.Ellipse{
			Min: center.Sub(image.Pt(outer, outer)),
			Max: center.Add(image.Pt(outer, outer)),
		}.Op(gtx.Ops))
		paint.FillShape(gtx.Ops, th.Bg, clip.Ellipse{
			Min: center.Sub(image.Pt(inner, inner)),
			Max: center.Add(image.Pt(inner, inner)),
		}.Op(gtx.Ops))
	}

	dims, call := rec(gtx, func(gtx C) D {
		return layout.Background{}.Layout(gtx,
			func(gtx C) D {
				r := gtx.Dp(4)
				paint.FillShape(gtx.Ops, colors.tooltip, clip.UniformRRect(image.Rectangle{Max: gtx.Constraints.Min}, r).Op(gtx.Ops))
				return D{Size: gtx.Constraints.Min}
			},
			func(gtx C) D {
				return layout.UniformInset(8).Layout(gtx, func(gtx C) D {
					return c.layoutTooltip(gtx, th, res)
				})
			},
		)
	})
	gap := gtx.Dp(12)
	pos := image.Pt(x+gap, gap)
	if pos.X+dims.Size.X > gtx.Constraints.Max.X {
		pos.X = max(x-gap-dims.Size.X, 0)
	}
	stack := op.Offset(pos).Push(gtx.Ops)
	call.Add(gtx.Ops)
	stack.Pop()
}

func (c *ChartView) layoutTooltip(gtx C, th *material.Theme, res chartpointer.Resolution) D {
	children := []layout.FlexChild{
		layout.Rigid(func(gtx C) D {
			l := material.Body2(th, axis.TooltipLabel(res.Time))
			l.Font.Weight = font.Bold
			return l.Layout(gtx)
		}),
	}
	for _, v := range res.Values {
		v := v
		children = append(children, layout.Rigid(func(gtx C) D {
			return layout.Flex{Alignment: layout.Baseline}.Layout(gtx,
				layout.Rigid(func(gtx C) D {
					l := material.Body1(th, formatValue(v.Value))
					l.Color = v.Color
					l.Font.Weight = font.Bold
					return l.Layout(gtx)
				}),
				layout.Rigid(layout.Spacer{Width: 6}.Layout),
				layout.Rigid(func(gtx C) D {
					l := material.Caption(th, v.Name)
					l.Color = v.Color
					return l.Layout(gtx)
				}),
			)
		}))
	}
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
}

func formatValue(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}

// layoutLegend draws one row per series with a visibility toggle and the
// value under the crosshair, or the latest value when there is none.
func (c *ChartView) layoutLegend(gtx C, th *material.Theme) D {
	all := c.chart.Series()
	if len(all) == 0 || len(c.enabled) != len(all) {
		return D{}
	}
	table := component.Table(th, &c.legend)
	table.HScrollbarStyle.Indicator.MinorWidth = 0
	table.HScrollbarStyle.Track.MinorPadding = 0
	table.VScrollbarStyle.Indicator.MinorWidth = 0
	table.VScrollbarStyle.Track.MinorPadding = 0
	colorColWidth := gtx.Dp(50)
	valueColWidth := gtx.Dp(120)
	nameColWidth := max(gtx.Constraints.Max.X-colorColWidth-valueColWidth-gtx.Dp(table.VScrollbarStyle.Width()), 0)
	rowHeight := gtx.Sp(24)
	const (
		colorCol = iota
		nameCol
		valueCol
		numCols
	)
	readings := map[string]float64{}
	valueHeading := "Latest"
	if c.crosshair != nil {
		valueHeading = axis.TooltipLabel(c.crosshair.Time)
		for _, v := range c.crosshair.Values {
			readings[v.SeriesID] = v.Value
		}
	}
	return table.Layout(gtx, len(all), numCols,
		func(axis layout.Axis, index, constraint int) int {
			if axis == layout.Vertical {
				return min(constraint, rowHeight)
			}
			var size int
			switch index {
			case colorCol:
				size = colorColWidth
			case nameCol:
				size = nameColWidth
			case valueCol:
				size = valueColWidth
			}
			return min(size, constraint)
		},
		func(gtx C, index int) D {
			var l material.LabelStyle
			switch index {
			case colorCol:
				l = material.Body1(th, "Shown")
			case nameCol:
				l = material.Body1(th, "Series")
			case valueCol:
				l = material.Body1(th, valueHeading)
				l.Alignment = text.End
			}
			l.Color = th.ContrastFg
			return layout.Background{}.Layout(gtx,
				func(gtx C) D {
					paint.FillShape(gtx.Ops, th.ContrastBg, clip.Rect{Max: gtx.Constraints.Max}.Op())
					return D{Size: gtx.Constraints.Min}
				}, l.Layout,
			)
		},
		func(gtx C, row, col int) (dims D) {
			defer func() {
				dims.Size = gtx.Constraints.Constrain(dims.Size)
			}()
			s := all[row]
			enabled := c.enabled[row].Value
			disabledAlpha := uint8(100)
			dims = layout.UniformInset(2).Layout(gtx, func(gtx C) D {
				switch col {
				case colorCol:
					return c.enabled[row].Layout(gtx, func(gtx C) D {
						return layout.Center.Layout(gtx, func(gtx C) D {
							sideLen := gtx.Dp(12)
							sz := image.Pt(sideLen, sideLen)
							swatch := s.Color
							if !enabled {
								swatch.A = disabledAlpha
							}
							paint.FillShape(gtx.Ops, swatch, clip.Rect{Max: sz}.Op())
							return D{Size: sz}
						})
					})
				case nameCol:
					l := material.Body2(th, s.Name)
					if !enabled {
						l.Color.A = disabledAlpha
					}
					return l.Layout(gtx)
				case valueCol:
					v, ok := readings[s.ID]
					if !ok && c.crosshair == nil && len(s.Points) > 0 {
						v, ok = float64(s.Last().Value), true
					}
					reading := "-"
					if ok {
						reading = formatValue(v)
					}
					l := material.Body2(th, reading)
					l.Alignment = text.End
					if !enabled {
						l.Color.A = disabledAlpha
					}
					return l.Layout(gtx)
				default:
					return D{Size: gtx.Constraints.Max}
				}
			})
			if row&1 != 0 {
				tint := s.Color
				tint.A = 30
				paint.FillShape(gtx.Ops, tint, clip.Rect{Max: gtx.Constraints.Max}.Op())
			}
			return dims
		})
}
