package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"git.sr.ht/~whereswaldon/zoomchart/axis"
	"git.sr.ht/~whereswaldon/zoomchart/backend"
	"git.sr.ht/~whereswaldon/zoomchart/config"
	"git.sr.ht/~whereswaldon/zoomchart/engine"
	"git.sr.ht/~whereswaldon/zoomchart/geometry"
)

const (
	defaultInspectWidth          = 600
	defaultInspectHeight         = 300
	defaultInspectSelectorHeight = 48
	// settleLimit bounds the animation ticks used to reach final values.
	settleLimit = 1000
)

var (
	inspectConfig         string
	inspectChart          int
	inspectRange          string
	inspectWidth          float32
	inspectHeight         float32
	inspectSelectorHeight float32
	inspectPointer        float32
	inspectHidden         []string
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print what the viewer would draw for a chart file",
		Long: `Load a chart file, apply a selection and optional crosshair position,
and print the resulting window, axis labels and readings.`,
		Args: cobra.ExactArgs(1),
		RunE: runInspectCmd,
	}
	cmd.Flags().StringVar(&inspectConfig, "config", config.DefaultConfigPath(), "path to the TOML configuration file")
	cmd.Flags().IntVar(&inspectChart, "chart", 0, "index of the chart within the file")
	cmd.Flags().StringVar(&inspectRange, "range", "", "normalized selection as START:END (default: full extent)")
	cmd.Flags().Float32Var(&inspectWidth, "width", defaultInspectWidth, "plot width in pixels")
	cmd.Flags().Float32Var(&inspectHeight, "height", defaultInspectHeight, "plot height in pixels")
	cmd.Flags().Float32Var(&inspectSelectorHeight, "selector-height", defaultInspectSelectorHeight, "range selector height in pixels")
	cmd.Flags().Float32Var(&inspectPointer, "pointer", -1, "crosshair x position in pixels (negative for none)")
	cmd.Flags().StringSliceVar(&inspectHidden, "hide", nil, "series ids to hide")
	return cmd
}

func runInspectCmd(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)
	fileCfg, err := config.LoadConfig(inspectConfig)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg, err := fileCfg.Engine()
	if err != nil {
		return err
	}
	charts, err := backend.Load(args[0])
	if err != nil {
		return err
	}
	if inspectChart < 0 || inspectChart >= len(charts) {
		return fmt.Errorf("--chart %d out of range, file has %d charts", inspectChart, len(charts))
	}
	logger.Debug("loaded chart file", "path", args[0], "charts", len(charts))

	var r *geometry.NormalizedRange
	if inspectRange != "" {
		parsed, err := parseRange(inspectRange)
		if err != nil {
			return err
		}
		r = &parsed
	}
	return inspect(cmd.OutOrStdout(), cfg, charts[inspectChart], inspection{
		Range:          r,
		Width:          inspectWidth,
		Height:         inspectHeight,
		SelectorHeight: inspectSelectorHeight,
		Pointer:        inspectPointer,
		Hidden:         inspectHidden,
	})
}

// parseRange parses "START:END".
func parseRange(s string) (geometry.NormalizedRange, error) {
	start, end, ok := strings.Cut(s, ":")
	if !ok {
		return geometry.NormalizedRange{}, fmt.Errorf("invalid --range %q: want START:END", s)
	}
	a, err := strconv.Atoi(strings.TrimSpace(start))
	if err != nil {
		return geometry.NormalizedRange{}, fmt.Errorf("invalid --range start: %w", err)
	}
	b, err := strconv.Atoi(strings.TrimSpace(end))
	if err != nil {
		return geometry.NormalizedRange{}, fmt.Errorf("invalid --range end: %w", err)
	}
	return geometry.NormalizedRange{Start: a, End: b}, nil
}

type inspection struct {
	Range          *geometry.NormalizedRange
	Width, Height  float32
	SelectorHeight float32
	Pointer        float32
	Hidden         []string
}

// inspect drives a chart the way the viewer does and prints the settled
// render model.
func inspect(w io.Writer, cfg engine.Config, chart backend.Chart, in inspection) error {
	if in.Width <= 0 || in.Height <= 0 {
		return fmt.Errorf("--width and --height must be positive")
	}
	c, err := engine.New(cfg)
	if err != nil {
		return err
	}
	if _, err := c.SetSeries(chart.Series); err != nil {
		return err
	}
	plot := geometry.Rect{Left: 0, Top: in.Height, Right: in.Width, Bottom: 0}
	selector := geometry.Rect{Left: 0, Top: in.Height + in.SelectorHeight, Right: in.Width, Bottom: in.Height}
	c.Layout(plot, selector)
	if in.Range != nil {
		if _, err := c.SetNormalizedRange(*in.Range); err != nil {
			return err
		}
	}
	for _, id := range in.Hidden {
		if !hasSeries(chart, id) {
			return fmt.Errorf("unknown series %q", id)
		}
		c.SetVisible(id, false)
	}
	for i := 0; i < settleLimit && c.Animating(); i++ {
		c.Tick(cfg.AnimationDuration)
	}
	if in.Pointer >= 0 {
		c.Pointer(engine.Press, in.Pointer, in.Height/2)
	}
	m := c.Render()

	fmt.Fprintf(w, "chart:     %s (%d series)\n", chart.Title, len(chart.Series))
	fmt.Fprintf(w, "extent:    %v\n", c.FullExtent())
	fmt.Fprintf(w, "range:     %v\n", m.Range)
	fmt.Fprintf(w, "window:    %v (%s to %s)\n", m.Window, axis.DayLabel(m.Window.Start), axis.DayLabel(m.Window.End))
	fmt.Fprintf(w, "max y:     %s\n", humanize.Comma(int64(math.Round(m.MaxY))))
	fmt.Fprintf(w, "day step:  %d\n", m.XAxis.DayStep)
	labels := make([]string, 0, len(m.XAxis.Labels))
	for _, l := range m.XAxis.Labels {
		labels = append(labels, l.Text)
	}
	fmt.Fprintf(w, "x labels:  %s\n", strings.Join(labels, ", "))
	grid := make([]string, 0, len(m.Gridlines))
	for _, g := range m.Gridlines {
		if g.Opacity < 1 {
			continue
		}
		grid = append(grid, g.Label)
	}
	fmt.Fprintf(w, "y labels:  %s\n", strings.Join(grid, ", "))
	lines := make([]string, 0, len(m.Lines))
	for _, l := range m.Lines {
		lines = append(lines, fmt.Sprintf("%s (%d points)", l.SeriesID, len(l.Points)))
	}
	fmt.Fprintf(w, "lines:     %s\n", strings.Join(lines, ", "))
	if m.Crosshair != nil {
		fmt.Fprintf(w, "pointer:   %s\n", axis.TooltipLabel(m.Crosshair.Time))
		for _, v := range m.Crosshair.Values {
			fmt.Fprintf(w, "  %s: %s\n", v.Name, humanize.Comma(int64(math.Round(v.Value))))
		}
	}
	return nil
}

func hasSeries(chart backend.Chart, id string) bool {
	for _, s := range chart.Series {
		if s.ID == id {
			return true
		}
	}
	return false
}
