package axis

import (
	"math"
	"time"

	"git.sr.ht/~whereswaldon/zoomchart/geometry"
	"github.com/dustin/go-humanize"
)

// YConfig sizes the gridlines of a YAxis.
type YConfig struct {
	// Gridlines is the number of horizontal lines, including the zero line.
	Gridlines int
	// LabelHeight is reserved above the top gridline for its label.
	LabelHeight float32
	// FadeDuration is how long a replaced label set takes to cross-fade.
	FadeDuration time.Duration
}

// DefaultYConfig returns the stock y axis geometry.
func DefaultYConfig() YConfig {
	return YConfig{
		Gridlines:    6,
		LabelHeight:  24,
		FadeDuration: 300 * time.Millisecond,
	}
}

// Gridline is one horizontal line and its label.
type Gridline struct {
	Value   int64
	Y       float32
	Label   string
	Opacity float32
}

type labelSet struct {
	maxY      float64
	opacity   float32
	appearing bool
}

// YAxis plans value gridlines. Changing the maximum value starts a new
// label set while the previous ones fade out, so both are drawn for the
// length of the fade.
type YAxis struct {
	cfg  YConfig
	sets []labelSet
}

// NewYAxis returns a YAxis with no label sets.
func NewYAxis(cfg YConfig) *YAxis {
	return &YAxis{cfg: cfg}
}

// SetMaxY starts a label set for maxY unless it is already the newest one.
// The first set appears immediately.
func (y *YAxis) SetMaxY(maxY float64) bool {
	if n := len(y.sets); n > 0 && y.sets[n-1].maxY == maxY {
		return false
	}
	for i := range y.sets {
		y.sets[i].appearing = false
	}
	next := labelSet{maxY: maxY, appearing: true}
	if len(y.sets) == 0 || y.cfg.FadeDuration <= 0 {
		next.opacity = 1
		y.sets = y.sets[:0]
	}
	y.sets = append(y.sets, next)
	return true
}

// Animating reports whether any label set is still fading.
func (y *YAxis) Animating() bool {
	for _, s := range y.sets {
		if !s.appearing || s.opacity < 1 {
			return true
		}
	}
	return false
}

// Tick advances the cross-fade and reports whether it is still running.
func (y *YAxis) Tick(elapsed time.Duration) bool {
	step := float32(1)
	if y.cfg.FadeDuration > 0 {
		step = float32(elapsed) / float32(y.cfg.FadeDuration)
	}
	kept := y.sets[:0]
	for _, s := range y.sets {
		if s.appearing {
			s.opacity = min(s.opacity+step, 1)
		} else {
			s.opacity -= step
			if s.opacity <= 0 {
				continue
			}
		}
		kept = append(kept, s)
	}
	y.sets = kept
	return y.Animating()
}

// Lines returns the gridlines of every live label set positioned against
// currentMaxY, the interpolated maximum the series are drawn with. Each
// set's values are fixed by the maximum it was created for, so a set lands
// on the evenly spaced pixel grid once currentMaxY reaches it.
func (y *YAxis) Lines(rect geometry.Rect, currentMaxY float64) []Gridline {
	n := y.cfg.Gridlines
	height := math.Abs(float64(rect.Height()))
	if n < 1 || height == 0 {
		return nil
	}
	usable := max(height-float64(y.cfg.LabelHeight), 0)
	var lines []Gridline
	for _, s := range y.sets {
		for i := 0; i < n; i++ {
			frac := 0.0
			if n > 1 {
				frac = float64(i) * usable / (float64(n-1) * height)
			}
			v := int64(math.Round(frac * s.maxY))
			lines = append(lines, Gridline{
				Value:   v,
				Y:       geometry.ValueToY(float64(v), currentMaxY, rect),
				Label:   humanize.Comma(v),
				Opacity: s.opacity,
			})
		}
	}
	return lines
}
