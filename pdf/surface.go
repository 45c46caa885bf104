package pdf

import "io"

// Rect is an axis-aligned rectangle in millimetres, origin top-left.
type Rect struct {
	X, Y, W, H float64
}

// Align is the horizontal anchoring of a text run relative to its x.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// TextOptions control how a text run is drawn. Size is in points. When
// MaxWidth is positive the text is wrapped to that width.
type TextOptions struct {
	Size     float64
	Bold     bool
	Color    Color
	Align    Align
	MaxWidth float64
	Tag      string
}

// TagPageMarker marks the footer text rewritten by the numbering pass.
const TagPageMarker = "page-marker"

// Canvas is the drawing surface the composer writes to.
type Canvas interface {
	NewPage(g PageGeometry) error
	FillRect(r Rect, c Color) error
	Text(x, y float64, s string, opt TextOptions) error
	Line(x1, y1, x2, y2 float64, c Color, width float64) error
	Image(r Rect, ref string) error
	PageCount() int
}

// Backend is a concrete document writer that recorded pages are replayed on.
type Backend interface {
	AddPage(g PageGeometry) error
	FillRect(r Rect, c Color) error
	Text(x, y float64, s string, opt TextOptions) error
	Line(x1, y1, x2, y2 float64, c Color, width float64) error
	Image(r Rect, ref string) error
	Output(w io.Writer) error
}

// Measurer reports the rendered width of a text run in millimetres.
type Measurer interface {
	StringWidth(s string, size float64, bold bool) float64
}

// PointToMM converts a font size in points to millimetres.
const PointToMM = 25.4 / 72

// LineHeightFactor is the baseline distance of wrapped text relative to its size.
const LineHeightFactor = 1.15

// LineHeight returns the baseline distance in millimetres for a font size.
func LineHeight(size float64) float64 {
	return size * PointToMM * LineHeightFactor
}
