package backend

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// PaletteColor returns the i'th color of an open-ended palette of evenly
// lit, well separated hues, used for series that do not name a color.
func PaletteColor(i int) color.NRGBA {
	hue := math.Mod(float64(i+1)*math.Phi*360, 360)
	r, g, b := colorful.Hcl(hue, 0.6, 0.55).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}

// ParseColor parses a "#RRGGBB" color.
func ParseColor(s string) (color.NRGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: color %q: %w", ErrFormat, s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// HexColor formats c as "#rrggbb".
func HexColor(c color.NRGBA) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}
