package pdf

import (
	"fmt"
	"math"
	"strings"
)

// PaperSize is one of the supported printable formats.
type PaperSize string

const (
	PaperA4     PaperSize = "a4"
	PaperLetter PaperSize = "letter"
	PaperLegal  PaperSize = "legal"
)

// Orientation of every page in a document.
type Orientation string

const (
	Portrait  Orientation = "p"
	Landscape Orientation = "l"
)

// Density classifies how much content a document carries.
type Density string

const (
	DensityNormal Density = "normal"
	DensityDense  Density = "dense"
)

// DenseItemThreshold is the item count above which a document is dense.
const DenseItemThreshold = 20

// Margin floors in millimetres, applied after every other adjustment.
const (
	MinSideMargin     = 10.0
	MinVerticalMargin = 15.0
)

type paperSpec struct {
	width, height            float64
	left, right, top, bottom float64
}

var paperSpecs = map[PaperSize]paperSpec{
	PaperA4:     {width: 210, height: 297, left: 15, right: 15, top: 20, bottom: 20},
	PaperLetter: {width: 216, height: 279, left: 16, right: 16, top: 19, bottom: 19},
	PaperLegal:  {width: 216, height: 356, left: 16, right: 16, top: 19, bottom: 25},
}

// PageGeometry is the resolved layout of one page. Values are never mutated;
// a page transition produces a new one.
type PageGeometry struct {
	Paper        PaperSize
	Orientation  Orientation
	PageWidth    float64
	PageHeight   float64
	Left         float64
	Right        float64
	Top          float64
	Bottom       float64
	ContentWidth float64
	FirstPage    bool
	Density      Density
}

// ContentRight is the x coordinate of the right content edge.
func (g PageGeometry) ContentRight() float64 { return g.PageWidth - g.Right }

// BodyBottom is the lowest y content may reach before the footer area.
func (g PageGeometry) BodyBottom() float64 { return g.PageHeight - g.Bottom }

// DensityFor classifies a document by its number of line items.
func DensityFor(itemCount int) Density {
	if itemCount > DenseItemThreshold {
		return DensityDense
	}
	return DensityNormal
}

// ResolveGeometry computes margins and content width for a single page.
// Unknown paper sizes fall back to A4.
func ResolveGeometry(paper PaperSize, orient Orientation, firstPage bool, density Density) PageGeometry {
	spec, ok := paperSpecs[paper]
	if !ok {
		paper = PaperA4
		spec = paperSpecs[PaperA4]
	}
	width, height := spec.width, spec.height
	left, right, top, bottom := spec.left, spec.right, spec.top, spec.bottom

	if orient == Landscape {
		width, height = height, width
		left, right, top, bottom = 20, 20, 15, 15
	} else {
		orient = Portrait
	}

	if firstPage {
		top += 20
		bottom += 5
	}

	if density == DensityDense {
		left *= 0.8
		right *= 0.8
		top *= 0.9
		bottom *= 0.9
	} else {
		density = DensityNormal
	}

	left = math.Max(left, MinSideMargin)
	right = math.Max(right, MinSideMargin)
	top = math.Max(top, MinVerticalMargin)
	bottom = math.Max(bottom, MinVerticalMargin)

	return PageGeometry{
		Paper:        paper,
		Orientation:  orient,
		PageWidth:    width,
		PageHeight:   height,
		Left:         left,
		Right:        right,
		Top:          top,
		Bottom:       bottom,
		ContentWidth: width - left - right,
		FirstPage:    firstPage,
		Density:      density,
	}
}

// ParsePaperSize accepts the identifiers used by the preview screen.
func ParsePaperSize(s string) (PaperSize, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "a4":
		return PaperA4, nil
	case "letter", "carta":
		return PaperLetter, nil
	case "legal", "oficio":
		return PaperLegal, nil
	}
	return "", fmt.Errorf("unknown paper size %q", s)
}

// ParseOrientation accepts "p"/"portrait" and "l"/"landscape".
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "p", "portrait", "vertical":
		return Portrait, nil
	case "l", "landscape", "horizontal":
		return Landscape, nil
	}
	return "", fmt.Errorf("unknown orientation %q", s)
}
