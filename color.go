package main

import (
	"image/color"

	"gioui.org/widget/material"
	"github.com/lucasb-eyer/go-colorful"

	"git.sr.ht/~whereswaldon/zoomchart/geometry"
)

// withOpacity scales the alpha of c by opacity.
func withOpacity(c color.NRGBA, opacity float32) color.NRGBA {
	c.A = uint8(float32(c.A)*geometry.Clamp(opacity, 0, 1) + .5)
	return c
}

func toColorful(c color.NRGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// blend mixes a toward b in Lab space. Alpha is interpolated linearly.
func blend(a, b color.NRGBA, t float64) color.NRGBA {
	r, g, bl := toColorful(a).BlendLab(toColorful(b), t).Clamped().RGB255()
	alpha := float64(a.A) + (float64(b.A)-float64(a.A))*t
	return color.NRGBA{R: r, G: g, B: bl, A: uint8(alpha + .5)}
}

// chartColors are the non-series colors of a chart, derived from the theme.
type chartColors struct {
	grid      color.NRGBA
	label     color.NRGBA
	fog       color.NRGBA
	frame     color.NRGBA
	crosshair color.NRGBA
	tooltip   color.NRGBA
}

func newChartColors(th *material.Theme) chartColors {
	return chartColors{
		grid:      withOpacity(th.Fg, .12),
		label:     withOpacity(th.Fg, .6),
		fog:       withOpacity(blend(th.Bg, th.ContrastBg, .15), .75),
		frame:     withOpacity(th.ContrastBg, .45),
		crosshair: withOpacity(th.Fg, .35),
		tooltip:   blend(th.Bg, th.Fg, .04),
	}
}
