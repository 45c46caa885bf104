package pdf

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an RGB triple.
type Color struct {
	R, G, B uint8
}

// ParseHex parses "#rrggbb" or "rrggbb".
func ParseHex(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Hex renders the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func mustHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Palette holds the flat colors used for text, rules and accents.
type Palette struct {
	Primary       Color
	Secondary     Color
	Success       Color
	Warning       Color
	Danger        Color
	Background    Color
	Border        Color
	Text          Color
	TextSecondary Color
	White         Color
}

// GradientPair is the start and end color of a banded fill.
type GradientPair struct {
	Start Color
	End   Color
}

// Theme is the full color configuration of a rendered quote.
type Theme struct {
	Palette   Palette
	Gradients map[GradientRole]GradientPair
}

// NeutralFill is used for gradient roles a theme does not define.
var NeutralFill = Color{R: 248, G: 250, B: 252}

// DefaultTheme returns the stock blue theme.
func DefaultTheme() Theme {
	return Theme{
		Palette: Palette{
			Primary:       mustHex("#1e40af"),
			Secondary:     mustHex("#3b82f6"),
			Success:       mustHex("#059669"),
			Warning:       mustHex("#d97706"),
			Danger:        mustHex("#dc2626"),
			Background:    mustHex("#f9fafb"),
			Border:        mustHex("#d1d5db"),
			Text:          mustHex("#111827"),
			TextSecondary: mustHex("#6b7280"),
			White:         mustHex("#ffffff"),
		},
		Gradients: map[GradientRole]GradientPair{
			RoleTitleBanner: {Start: Color{102, 126, 234}, End: Color{118, 75, 162}},
			RoleTableHeader: {Start: Color{248, 250, 252}, End: Color{226, 232, 240}},
			RoleFooterBand:  {Start: Color{241, 245, 249}, End: Color{226, 232, 240}},
		},
	}
}

// ThemeFor returns the built-in theme registered for a company tax id, or the
// default theme.
func ThemeFor(taxID string) Theme {
	if t, ok := BuiltinTheme(taxID); ok {
		return t
	}
	return DefaultTheme()
}

// BuiltinTheme reports the theme registered for a company tax id.
func BuiltinTheme(taxID string) (Theme, bool) {
	switch taxID {
	case "20123456789":
		t := DefaultTheme()
		t.Palette.Primary = mustHex("#8b4513")
		t.Palette.Secondary = mustHex("#a0522d")
		t.Palette.Success = mustHex("#228b22")
		t.Palette.Warning = mustHex("#ff8c00")
		t.Palette.Background = mustHex("#fdf6f0")
		t.Gradients = map[GradientRole]GradientPair{
			RoleTitleBanner: {Start: mustHex("#cd853f"), End: mustHex("#8b4513")},
			RoleTableHeader: {Start: mustHex("#fdf6f0"), End: mustHex("#f5f5dc")},
			RoleFooterBand:  {Start: mustHex("#fdf6f0"), End: mustHex("#f5f5dc")},
		}
		return t, true
	}
	return Theme{}, false
}

// Clone returns a copy whose gradient map can be modified independently.
func (t Theme) Clone() Theme {
	g := make(map[GradientRole]GradientPair, len(t.Gradients))
	for k, v := range t.Gradients {
		g[k] = v
	}
	t.Gradients = g
	return t
}
