package main

import (
	"errors"
	"image"
	"image/color"
	"log/slog"
	"strconv"

	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"git.sr.ht/~whereswaldon/zoomchart/backend"
	"git.sr.ht/~whereswaldon/zoomchart/engine"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

var openIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.FileFolderOpen)
	return icon
}()

var errorColor = color.NRGBA{R: 150, A: 255}

// UI is responsible for holding the state of and drawing the top-level UI.
type UI struct {
	ws         backend.WindowState
	expl       *explorer.Explorer
	logger     *slog.Logger
	cfg        engine.Config
	invalidate func()

	th      *material.Theme
	results *stream.Stream[backend.Result]
	source  string
	views   []*ChartView
	tab     widget.Enum

	explorerBtn widget.Clickable
	openBtn     widget.Clickable
	loadErr     string
}

func NewUI(ws backend.WindowState, expl *explorer.Explorer, cfg engine.Config, logger *slog.Logger, invalidate func()) *UI {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()), text.NoSystemFonts())
	return &UI{
		ws:         ws,
		expl:       expl,
		logger:     logger,
		cfg:        cfg,
		invalidate: invalidate,
		th:         th,
		tab:        widget.Enum{Value: tabKey(0)},
		results:    stream.New(ws.Controller, ws.Bundle.Datasource.Charts),
	}
}

func tabKey(i int) string {
	return strconv.Itoa(i)
}

// apply shows a new result. A failed reload keeps the charts already on
// screen and reports the error next to them.
func (ui *UI) apply(res backend.Result) {
	if res.Err != nil {
		ui.loadErr = res.Err.Error()
		ui.logger.Error("failed loading charts", "source", res.Name, "err", res.Err)
		return
	}
	ui.loadErr = ""
	if res.Name != ui.source {
		ui.views = nil
		ui.tab.Value = tabKey(0)
	}
	ui.source = res.Name
	for i, chart := range res.Charts {
		if i == len(ui.views) {
			view, err := NewChartView(ui.cfg, ui.logger, ui.invalidate)
			if err != nil {
				ui.loadErr = err.Error()
				return
			}
			ui.views = append(ui.views, view)
		}
		if err := ui.views[i].SetChart(chart); err != nil {
			ui.loadErr = err.Error()
			ui.logger.Error("rejected chart", "source", res.Name, "chart", chart.Title, "err", err)
		}
	}
	ui.views = ui.views[:len(res.Charts)]
	if n, err := strconv.Atoi(ui.tab.Value); err != nil || n >= len(ui.views) {
		ui.tab.Value = tabKey(0)
	}
}

// chooseFile asks the user for a chart file and hands it to the datasource.
func (ui *UI) chooseFile() {
	go func() {
		rc, err := ui.expl.ChooseFile("json", "csv")
		if err != nil {
			if !errors.Is(err, explorer.ErrUserDecline) {
				ui.logger.Error("failed choosing file", "err", err)
			}
			return
		}
		ui.ws.Bundle.Datasource.OpenReader(rc)
	}()
}

// Update the state of the UI.
func (ui *UI) Update(gtx C) {
	if res, ok := ui.results.ReadNew(gtx); ok {
		ui.apply(res)
	}
	ui.tab.Update(gtx)
	if ui.explorerBtn.Clicked(gtx) || ui.openBtn.Clicked(gtx) {
		ui.chooseFile()
	}
}

type TabStyle struct {
	state  *widget.Enum
	label  material.LabelStyle
	border widget.Border
	inset  layout.Inset
	value  string
	fill   color.NRGBA
}

func Tab(th *material.Theme, state *widget.Enum, value, display string) TabStyle {
	selected := state.Value == value
	ts := TabStyle{
		state: state,
		label: material.Body1(th, display),
		inset: layout.UniformInset(2),
		border: widget.Border{
			Width: 2,
			Color: th.ContrastBg,
		},
		value: value,
	}
	ts.label.Alignment = text.Middle
	ts.label.MaxLines = 1
	if selected {
		ts.label.Color = th.ContrastFg
		ts.fill = th.ContrastBg
	}
	return ts
}

func (t TabStyle) Layout(gtx C) D {
	return t.inset.Layout(gtx, func(gtx C) D {
		return t.border.Layout(gtx, func(gtx C) D {
			return t.inset.Layout(gtx, func(gtx C) D {
				return t.state.Layout(gtx, t.value, func(gtx C) D {
					return layout.Background{}.Layout(gtx, func(gtx C) D {
						paint.FillShape(gtx.Ops, t.fill, clip.Rect{Max: gtx.Constraints.Min}.Op())
						return D{Size: gtx.Constraints.Min}
					}, t.label.Layout)
				})
			})
		})
	})
}

func (ui *UI) currentView() *ChartView {
	n, err := strconv.Atoi(ui.tab.Value)
	if err != nil || n < 0 || n >= len(ui.views) {
		return ui.views[0]
	}
	return ui.views[n]
}

func (ui *UI) layoutMainArea(gtx C) D {
	return layout.Flex{
		Axis: layout.Vertical,
	}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			tabs := make([]layout.FlexChild, 0, len(ui.views)+1)
			for i, view := range ui.views {
				tabs = append(tabs, layout.Flexed(1, Tab(ui.th, &ui.tab, tabKey(i), view.title).Layout))
			}
			tabs = append(tabs, layout.Rigid(func(gtx C) D {
				return material.IconButton(ui.th, &ui.openBtn, openIcon, "Open chart file").Layout(gtx)
			}))
			return layout.Flex{Alignment: layout.Middle}.Layout(gtx, tabs...)
		}),
		layout.Rigid(func(gtx C) D {
			if len(ui.loadErr) == 0 {
				return D{}
			}
			l := material.Body1(ui.th, ui.loadErr)
			l.Color = errorColor
			return layout.UniformInset(4).Layout(gtx, l.Layout)
		}),
		layout.Flexed(1, func(gtx C) D {
			return ui.currentView().Layout(gtx, ui.th)
		}),
	)
}

func (ui *UI) layoutStartScreen(gtx C) D {
	l := material.Body1(ui.th, "No chart loaded.")
	return layout.Flex{
		Axis:      layout.Vertical,
		Alignment: layout.Middle,
		Spacing:   layout.SpaceAround,
	}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			return l.Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			return material.Button(ui.th, &ui.explorerBtn, "Open Chart File").Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			l := material.Body2(ui.th, ui.loadErr)
			l.Color = errorColor
			return l.Layout(gtx)
		}),
	)
}

// Layout the UI into the provided context.
func (ui *UI) Layout(gtx C) D {
	ui.Update(gtx)
	if len(ui.views) > 0 {
		return ui.layoutMainArea(gtx)
	}
	return ui.layoutStartScreen(gtx)
}
