package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanColumnsSumsToContentWidth(t *testing.T) {
	cases := [][]float64{
		columnWeights(ItemColumns),
		{1},
		{1, 1, 1},
		{0.3, 7, 11.1, 2},
		{0, 0, 0},
		{5, 0, 5},
	}
	for _, weights := range cases {
		for _, cw := range []float64{100, 180, 186, 239.7} {
			widths := PlanColumns(weights, cw)
			require.Len(t, widths, len(weights))
			var sum float64
			for _, w := range widths {
				sum += w
			}
			assert.InDelta(t, cw, sum, 1e-9, "weights %v", weights)
		}
	}
	assert.Nil(t, PlanColumns(nil, 100))
}

func TestPlanColumnsProportional(t *testing.T) {
	widths := PlanColumns([]float64{1, 3}, 100)
	assert.InDelta(t, 25.0, widths[0], 1e-9)
	assert.InDelta(t, 75.0, widths[1], 1e-9)
}

func TestColumnAlign(t *testing.T) {
	assert.Equal(t, AlignLeft, ColumnAlign(0))
	assert.Equal(t, AlignLeft, ColumnAlign(1))
	for i := 2; i < len(ItemColumns); i++ {
		assert.Equal(t, AlignRight, ColumnAlign(i))
	}
}

func TestGradientBands(t *testing.T) {
	pair := DefaultTheme().Gradients[RoleTitleBanner]
	r := Rect{X: 10, Y: 20, W: 100, H: 60}
	bands := GradientBands(r, pair, GradientSteps)
	require.Len(t, bands, GradientSteps)
	assert.Equal(t, pair.Start, bands[0].Color)

	dist := func(c Color) int {
		abs := func(a, b uint8) int {
			if a > b {
				return int(a - b)
			}
			return int(b - a)
		}
		return abs(c.R, pair.End.R) + abs(c.G, pair.End.G) + abs(c.B, pair.End.B)
	}
	for i := 1; i < len(bands); i++ {
		assert.LessOrEqual(t, dist(bands[i].Color), dist(bands[i-1].Color))
		assert.InDelta(t, bands[i-1].Rect.Y+bands[i-1].Rect.H, bands[i].Rect.Y, 1e-9)
	}
	// ratio i/n never reaches 1
	assert.NotEqual(t, pair.End, bands[len(bands)-1].Color)
	last := bands[len(bands)-1].Rect
	assert.InDelta(t, r.Y+r.H, last.Y+last.H, 1e-9)
}

func TestBandColor(t *testing.T) {
	start, end := Color{0, 0, 0}, Color{100, 200, 10}
	assert.Equal(t, start, BandColor(start, end, 0, 10))
	assert.Equal(t, Color{50, 100, 5}, BandColor(start, end, 5, 10))
	assert.Equal(t, Color{90, 180, 9}, BandColor(start, end, 9, 10))
}

func TestFillGradientUnknownRoleIsNeutral(t *testing.T) {
	rec := NewRecorder()
	require.NoError(t, rec.NewPage(ResolveGeometry(PaperA4, Portrait, true, DensityNormal)))
	require.NoError(t, FillGradient(rec, Rect{W: 10, H: 10}, "sidebar", DefaultTheme(), GradientSteps))

	cmds := rec.Document().Pages[0].Commands
	require.Len(t, cmds, 2)
	assert.Equal(t, CmdFillRect, cmds[1].Kind)
	assert.Equal(t, NeutralFill, cmds[1].Color)
}

func TestFillGradientRequiresPage(t *testing.T) {
	err := FillGradient(NewRecorder(), Rect{W: 10, H: 10}, RoleFooterBand, DefaultTheme(), GradientSteps)
	assert.ErrorIs(t, err, errNoPage)
}

func TestFitLine(t *testing.T) {
	m := MonospaceMeasurer{Advance: 1}
	// one rune is one millimetre at this size
	size := 1 / PointToMM
	assert.Equal(t, "short", fitLine(m, "short", size, false, 10.5))
	assert.Equal(t, "a b", fitLine(m, "a \n b", size, false, 10.5))
	assert.Equal(t, "abcdefg...", fitLine(m, "abcdefghijkl", size, false, 10.5))
	assert.Equal(t, "abcd...", fitLine(m, "abcd efghijkl", size, false, 8.5))
	assert.Equal(t, "", fitLine(m, "abcdef", size, false, 2.5))
	assert.Equal(t, "abcdef", fitLine(m, "abcdef", size, false, 0))
}

func TestBuiltinTheme(t *testing.T) {
	_, ok := BuiltinTheme("20987654321")
	assert.False(t, ok)
	brown, ok := BuiltinTheme("20123456789")
	require.True(t, ok)
	assert.Equal(t, ThemeFor("20123456789"), brown)
}

func TestThemeFor(t *testing.T) {
	assert.Equal(t, DefaultTheme().Palette.Primary, ThemeFor("").Palette.Primary)
	brown := ThemeFor("20123456789")
	assert.Equal(t, "#8b4513", brown.Palette.Primary.Hex())

	clone := brown.Clone()
	clone.Gradients[RoleFooterBand] = GradientPair{}
	assert.NotEqual(t, GradientPair{}, brown.Gradients[RoleFooterBand])
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#667eea")
	require.NoError(t, err)
	assert.Equal(t, Color{102, 126, 234}, c)
	_, err = ParseHex("#abc")
	assert.Error(t, err)
	_, err = ParseHex("zzzzzz")
	assert.Error(t, err)
}

func TestWrapTextRespectsWidth(t *testing.T) {
	m := MonospaceMeasurer{}
	notes := "Los precios incluyen instalación y configuración inicial del equipo en las oficinas del cliente durante horario laboral, sin costo adicional de traslado"
	width := 60.0
	lines := WrapText(m, notes, 10, false, width)
	require.Greater(t, len(lines), 1)
	for _, l := range lines {
		assert.LessOrEqual(t, m.StringWidth(l, 10, false), width, l)
	}
}

func TestWrapTextKeepsBreaksAndSplitsLongWords(t *testing.T) {
	m := MonospaceMeasurer{}
	lines := WrapText(m, "a\n\nb", 10, false, 50)
	assert.Equal(t, []string{"a", "", "b"}, lines)

	long := "supercalifragilisticoespialidoso"
	width := m.StringWidth("0123456789", 10, false)
	pieces := WrapText(m, long, 10, false, width)
	require.Len(t, pieces, 4)
	for _, p := range pieces {
		assert.LessOrEqual(t, m.StringWidth(p, 10, false), width)
	}
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "PEN 1234.50", formatMoney("PEN", 1234.5))
	assert.Equal(t, "10%", formatDiscount("PEN", DiscountPercent, 10))
	assert.Equal(t, "USD 2.5", formatDiscount("USD", DiscountAmount, 2.5))
}
