package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	pdfgen "github.com/diewo77/quotes/pdf"
)

// ThemeSet resolves the document theme of a company, applying the overrides
// of an optional theme file over the built-in themes.
type ThemeSet struct {
	def     themeDoc
	byTaxID map[string]themeDoc
}

type themeFile struct {
	Default themeDoc            `toml:"default"`
	Themes  map[string]themeDoc `toml:"themes"`
}

type themeDoc struct {
	Palette   map[string]string      `toml:"palette"`
	Gradients map[string]gradientDoc `toml:"gradients"`
}

type gradientDoc struct {
	Start string `toml:"start"`
	End   string `toml:"end"`
}

// LoadThemes reads a TOML theme file. An empty path yields the built-in themes.
func LoadThemes(path string) (ThemeSet, error) {
	if path == "" {
		return ThemeSet{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ThemeSet{}, fmt.Errorf("read theme file: %w", err)
	}
	return ParseThemes(data)
}

// ParseThemes decodes and validates theme file content.
func ParseThemes(data []byte) (ThemeSet, error) {
	var f themeFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return ThemeSet{}, fmt.Errorf("parse theme file: %w", err)
	}
	set := ThemeSet{def: f.Default, byTaxID: f.Themes}
	// validate every section once so For never fails
	if _, err := apply(pdfgen.DefaultTheme(), f.Default); err != nil {
		return ThemeSet{}, fmt.Errorf("default: %w", err)
	}
	for taxID, doc := range f.Themes {
		if _, err := apply(pdfgen.DefaultTheme(), doc); err != nil {
			return ThemeSet{}, fmt.Errorf("themes.%s: %w", taxID, err)
		}
	}
	return set, nil
}

// For returns the theme of the company with the given tax id. The [default]
// section only overrides the default theme; companies with a built-in theme
// keep it unless their own section says otherwise.
func (s ThemeSet) For(taxID string) pdfgen.Theme {
	t, builtin := pdfgen.BuiltinTheme(taxID)
	if !builtin {
		t, _ = apply(pdfgen.DefaultTheme(), s.def)
	}
	if doc, ok := s.byTaxID[taxID]; ok {
		t, _ = apply(t, doc)
	}
	return t
}

func apply(base pdfgen.Theme, doc themeDoc) (pdfgen.Theme, error) {
	t := base.Clone()
	for key, hex := range doc.Palette {
		c, err := pdfgen.ParseHex(hex)
		if err != nil {
			return base, fmt.Errorf("palette.%s: %w", key, err)
		}
		slot := paletteSlot(&t.Palette, key)
		if slot == nil {
			return base, fmt.Errorf("unknown palette color %q", key)
		}
		*slot = c
	}
	for role, g := range doc.Gradients {
		r := pdfgen.GradientRole(role)
		switch r {
		case pdfgen.RoleTitleBanner, pdfgen.RoleTableHeader, pdfgen.RoleFooterBand:
		default:
			return base, fmt.Errorf("unknown gradient %q", role)
		}
		pair := t.Gradients[r]
		if g.Start != "" {
			c, err := pdfgen.ParseHex(g.Start)
			if err != nil {
				return base, fmt.Errorf("gradients.%s.start: %w", role, err)
			}
			pair.Start = c
		}
		if g.End != "" {
			c, err := pdfgen.ParseHex(g.End)
			if err != nil {
				return base, fmt.Errorf("gradients.%s.end: %w", role, err)
			}
			pair.End = c
		}
		t.Gradients[r] = pair
	}
	return t, nil
}

func paletteSlot(p *pdfgen.Palette, key string) *pdfgen.Color {
	switch key {
	case "primary":
		return &p.Primary
	case "secondary":
		return &p.Secondary
	case "success":
		return &p.Success
	case "warning":
		return &p.Warning
	case "danger":
		return &p.Danger
	case "background":
		return &p.Background
	case "border":
		return &p.Border
	case "text":
		return &p.Text
	case "text_secondary":
		return &p.TextSecondary
	case "white":
		return &p.White
	}
	return nil
}
