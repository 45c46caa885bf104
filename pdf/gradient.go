package pdf

import (
	"fmt"
	"math"
)

// GradientRole selects the color pair of a banded fill.
type GradientRole string

const (
	RoleTitleBanner GradientRole = "title_banner"
	RoleTableHeader GradientRole = "table_header"
	RoleFooterBand  GradientRole = "footer_band"
)

// GradientSteps is the number of bands used to approximate a gradient.
const GradientSteps = 10

// Band is one solid slice of a gradient fill.
type Band struct {
	Rect  Rect
	Color Color
}

// BandColor interpolates channel by channel at ratio i/n. Band 0 is exactly
// start; the last band stops one step short of end.
func BandColor(start, end Color, i, n int) Color {
	if n <= 0 {
		return start
	}
	ratio := float64(i) / float64(n)
	lerp := func(a, b uint8) uint8 {
		return uint8(math.Floor(float64(a) + (float64(b)-float64(a))*ratio))
	}
	return Color{R: lerp(start.R, end.R), G: lerp(start.G, end.G), B: lerp(start.B, end.B)}
}

// GradientBands splits r into n abutting horizontal bands.
func GradientBands(r Rect, pair GradientPair, n int) []Band {
	if n <= 0 {
		return nil
	}
	h := r.H / float64(n)
	bands := make([]Band, n)
	for i := 0; i < n; i++ {
		bands[i] = Band{
			Rect:  Rect{X: r.X, Y: r.Y + h*float64(i), W: r.W, H: h},
			Color: BandColor(pair.Start, pair.End, i, n),
		}
	}
	return bands
}

// FillGradient paints r with the gradient registered for role in theme.
// Roles the theme does not know are painted with a flat neutral fill.
func FillGradient(c Canvas, r Rect, role GradientRole, theme Theme, n int) error {
	pair, ok := theme.Gradients[role]
	if !ok {
		if err := c.FillRect(r, NeutralFill); err != nil {
			return fmt.Errorf("fill %s: %w", role, err)
		}
		return nil
	}
	for _, b := range GradientBands(r, pair, n) {
		if err := c.FillRect(b.Rect, b.Color); err != nil {
			return fmt.Errorf("fill %s: %w", role, err)
		}
	}
	return nil
}
