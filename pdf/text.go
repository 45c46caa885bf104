package pdf

import (
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
)

// WrapText breaks s into lines no wider than maxWidth. Explicit line breaks
// are kept; words longer than maxWidth are split. A non-positive maxWidth
// only splits on line breaks.
func WrapText(m Measurer, s string, size float64, bold bool, maxWidth float64) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		if maxWidth <= 0 {
			lines = append(lines, para)
			continue
		}
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := ""
		for _, w := range words {
			candidate := w
			if line != "" {
				candidate = line + " " + w
			}
			if m.StringWidth(candidate, size, bold) <= maxWidth {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			if m.StringWidth(w, size, bold) <= maxWidth {
				line = w
				continue
			}
			pieces := splitWord(m, w, size, bold, maxWidth)
			lines = append(lines, pieces[:len(pieces)-1]...)
			line = pieces[len(pieces)-1]
		}
		lines = append(lines, line)
	}
	return lines
}

// fitLine shortens s to a single line no wider than maxWidth, marking the cut
// with an ellipsis.
func fitLine(m Measurer, s string, size float64, bold bool, maxWidth float64) string {
	s = strings.Join(strings.Fields(s), " ")
	if maxWidth <= 0 || m.StringWidth(s, size, bold) <= maxWidth {
		return s
	}
	const ellipsis = "..."
	r := []rune(s)
	for len(r) > 0 {
		r = r[:len(r)-1]
		cut := strings.TrimRight(string(r), " ") + ellipsis
		if m.StringWidth(cut, size, bold) <= maxWidth {
			return cut
		}
	}
	return ""
}

func splitWord(m Measurer, w string, size float64, bold bool, maxWidth float64) []string {
	var pieces []string
	cur := []rune{}
	for _, r := range w {
		next := append(cur, r)
		if len(cur) > 0 && m.StringWidth(string(next), size, bold) > maxWidth {
			pieces = append(pieces, string(cur))
			cur = []rune{r}
			continue
		}
		cur = next
	}
	return append(pieces, string(cur))
}

// MonospaceMeasurer gives every rune the same advance, expressed as a fraction
// of the font size. Useful where font metrics must not matter.
type MonospaceMeasurer struct {
	Advance float64
}

func (m MonospaceMeasurer) StringWidth(s string, size float64, _ bool) float64 {
	adv := m.Advance
	if adv <= 0 {
		adv = 0.5
	}
	return float64(len([]rune(s))) * size * PointToMM * adv
}

// FpdfMeasurer measures text with the Helvetica core font metrics. It is not
// safe for concurrent use.
type FpdfMeasurer struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// NewFpdfMeasurer prepares a measurer backed by a scratch document.
func NewFpdfMeasurer() *FpdfMeasurer {
	f := gofpdf.New("P", "mm", "A4", "")
	f.SetFont(fontFamily, "", 10)
	return &FpdfMeasurer{pdf: f, tr: f.UnicodeTranslatorFromDescriptor("")}
}

func (m *FpdfMeasurer) StringWidth(s string, size float64, bold bool) float64 {
	style := ""
	if bold {
		style = "B"
	}
	m.pdf.SetFont(fontFamily, style, size)
	return m.pdf.GetStringWidth(m.tr(s))
}

func formatMoney(currency string, v float64) string {
	return currency + " " + decimal.NewFromFloat(v).StringFixed(2)
}

func formatDiscount(currency string, kind DiscountKind, v float64) string {
	d := decimal.NewFromFloat(v)
	if kind == DiscountPercent {
		return d.String() + "%"
	}
	return currency + " " + d.String()
}

func formatDate(t time.Time, layout string) string {
	return t.Format(layout)
}
