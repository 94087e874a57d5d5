// Package axis plans the labels and gridlines drawn along a chart's time
// and value axes.
package axis

import (
	"fmt"
	"math"
	"math/bits"
	"sort"
	"time"

	"git.sr.ht/~whereswaldon/zoomchart/geometry"
	lru "github.com/hashicorp/golang-lru"
)

// DayMillis is the length of a calendar day in milliseconds.
const DayMillis = int64(24 * time.Hour / time.Millisecond)

// DayLabelLayout is the time format of x axis labels.
const DayLabelLayout = "Jan 2"

// TooltipLayout is the time format of the crosshair tooltip title.
const TooltipLayout = "Mon, Jan 2"

// XConfig sizes the labels of an XAxis.
type XConfig struct {
	LabelWidth  float32
	LabelMargin float32
	// BudgetDivisor divides the number of labels that would fit so that
	// finer labels can fade in without a relayout.
	BudgetDivisor int
	// CacheSize bounds the number of day grids retained.
	CacheSize int
}

// DefaultXConfig returns the stock x axis label geometry.
func DefaultXConfig() XConfig {
	return XConfig{
		LabelWidth:    60,
		LabelMargin:   15,
		BudgetDivisor: 2,
		CacheSize:     32,
	}
}

// XLabel is a single day label.
type XLabel struct {
	// Time is the UTC midnight the label marks, in milliseconds.
	Time int64
	// X is the label's center in pixels.
	X       float32
	Text    string
	Opacity float32
}

// XPlan is the set of labels for one frame.
type XPlan struct {
	// DayStep is the number of days between consecutive labels, or zero
	// when no labels fit.
	DayStep int64
	Labels  []XLabel
}

type gridKey struct {
	full geometry.LongRange
	step int64
}

// XAxis plans day labels along the time axis. Day grids are cached per
// extent and step since panning reuses them on every frame.
type XAxis struct {
	cfg   XConfig
	grids *lru.Cache
}

// NewXAxis returns an XAxis for cfg.
func NewXAxis(cfg XConfig) (*XAxis, error) {
	size := cfg.CacheSize
	if size <= 0 {
		size = DefaultXConfig().CacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("creating day grid cache: %w", err)
	}
	return &XAxis{cfg: cfg, grids: cache}, nil
}

// Config returns the axis configuration.
func (x *XAxis) Config() XConfig {
	return x.cfg
}

func (x *XAxis) slot() float32 {
	return x.cfg.LabelWidth + x.cfg.LabelMargin
}

// MaxLabelCount returns how many labels the axis budgets for width pixels.
func (x *XAxis) MaxLabelCount(width float32) int {
	return MaxLabelCount(width, x.cfg.LabelWidth, x.cfg.LabelMargin, x.cfg.BudgetDivisor)
}

// MaxLabelCount computes floor(width / (labelWidth + margin) / divisor).
func MaxLabelCount(width, labelWidth, margin float32, divisor int) int {
	slot := labelWidth + margin
	if slot <= 0 || divisor < 1 || width <= 0 {
		return 0
	}
	return int(math.Floor(float64(width/slot) / float64(divisor)))
}

// DayStep returns the power-of-two number of days between labels so that
// at most maxLabelCount labels cover window. It is zero when no labels fit
// or window is empty.
func DayStep(window geometry.LongRange, maxLabelCount int) int64 {
	if maxLabelCount < 1 || window.Span() <= 0 {
		return 0
	}
	days := (window.Span() + DayMillis - 1) / DayMillis
	perLabel := uint64(days / int64(maxLabelCount))
	if perLabel < 1 {
		return 1
	}
	return 1 << (bits.Len64(perLabel) - 1)
}

// Plan lays out the day labels of window across rect. full is the chart's
// complete extent; labels sit on multiples of the day step counted from the
// Unix epoch so they stay put while panning.
func (x *XAxis) Plan(full, window geometry.LongRange, rect geometry.Rect) XPlan {
	step := DayStep(window, x.MaxLabelCount(rect.Width()))
	if step == 0 {
		return XPlan{}
	}
	stepMillis := step * DayMillis
	grid := x.grid(full, stepMillis)

	spacing := float32(float64(stepMillis) * float64(rect.Width()) / float64(window.Span()))
	fade := geometry.Clamp((spacing-x.slot())/x.slot(), 0, 1)
	half := x.cfg.LabelWidth / 2

	plan := XPlan{DayStep: step}
	first := max(sort.Search(len(grid), func(i int) bool { return grid[i] >= window.Start })-1, 0)
	for _, t := range grid[first:] {
		px := geometry.TimeToX(t, window, rect)
		if px-half > rect.Right {
			break
		}
		if px+half < rect.Left {
			continue
		}
		opacity := float32(1)
		if floorDiv(t, stepMillis)%2 != 0 {
			opacity = fade
		}
		plan.Labels = append(plan.Labels, XLabel{
			Time:    t,
			X:       px,
			Text:    DayLabel(t),
			Opacity: opacity,
		})
	}
	return plan
}

// grid returns every multiple of stepMillis from the one at or before
// full.Start through the one at or after full.End.
func (x *XAxis) grid(full geometry.LongRange, stepMillis int64) []int64 {
	key := gridKey{full: full, step: stepMillis}
	if cached, ok := x.grids.Get(key); ok {
		return cached.([]int64)
	}
	var grid []int64
	last := -floorDiv(-full.End, stepMillis) * stepMillis
	for t := floorDiv(full.Start, stepMillis) * stepMillis; t <= last; t += stepMillis {
		grid = append(grid, t)
	}
	x.grids.Add(key, grid)
	return grid
}

// DayLabel formats t as an axis label.
func DayLabel(t int64) string {
	return time.UnixMilli(t).UTC().Format(DayLabelLayout)
}

// TooltipLabel formats t as a crosshair tooltip title.
func TooltipLabel(t int64) string {
	return time.UnixMilli(t).UTC().Format(TooltipLayout)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
