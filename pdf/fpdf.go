package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"
)

const fontFamily = "Helvetica"

// FpdfConfig configures a gofpdf backed writer.
type FpdfConfig struct {
	// CreationDate is written as both creation and modification date so the
	// same input always serialises to the same bytes.
	CreationDate time.Time
	Images       ImageLoader
	NoCompress   bool
}

// FpdfBackend replays recorded commands on a gofpdf document.
type FpdfBackend struct {
	pdf        *gofpdf.Fpdf
	tr         func(string) string
	images     ImageLoader
	registered map[string]bool
}

var errNoImages = errors.New("no image loader configured")

// NewFpdfBackend creates an empty document. Pages are added by AddPage.
func NewFpdfBackend(cfg FpdfConfig) *FpdfBackend {
	f := gofpdf.New("P", "mm", "A4", "")
	f.SetMargins(0, 0, 0)
	f.SetAutoPageBreak(false, 0)
	f.SetCompression(!cfg.NoCompress)
	f.SetCatalogSort(true)
	stamp := cfg.CreationDate
	if stamp.IsZero() {
		stamp = time.Unix(0, 0)
	}
	f.SetCreationDate(stamp.UTC())
	f.SetModificationDate(stamp.UTC())
	f.SetFont(fontFamily, "", 10)
	return &FpdfBackend{
		pdf:        f,
		tr:         f.UnicodeTranslatorFromDescriptor(""),
		images:     cfg.Images,
		registered: map[string]bool{},
	}
}

func (b *FpdfBackend) AddPage(g PageGeometry) error {
	// gofpdf swaps the size for landscape, hand it the portrait sides.
	orient := "P"
	size := gofpdf.SizeType{Wd: g.PageWidth, Ht: g.PageHeight}
	if g.PageWidth > g.PageHeight {
		orient = "L"
		size = gofpdf.SizeType{Wd: g.PageHeight, Ht: g.PageWidth}
	}
	b.pdf.AddPageFormat(orient, size)
	return b.pdf.Error()
}

func (b *FpdfBackend) FillRect(r Rect, c Color) error {
	b.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	b.pdf.Rect(r.X, r.Y, r.W, r.H, "F")
	return b.pdf.Error()
}

// StringWidth makes the backend its own Measurer.
func (b *FpdfBackend) StringWidth(s string, size float64, bold bool) float64 {
	b.setFont(size, bold)
	return b.pdf.GetStringWidth(b.tr(s))
}

func (b *FpdfBackend) setFont(size float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	b.pdf.SetFont(fontFamily, style, size)
}

func (b *FpdfBackend) Text(x, y float64, s string, opt TextOptions) error {
	size := opt.Size
	if size <= 0 {
		size = bodySize
	}
	lines := []string{s}
	if opt.MaxWidth > 0 {
		lines = WrapText(b, s, size, opt.Bold, opt.MaxWidth)
	}
	b.setFont(size, opt.Bold)
	b.pdf.SetTextColor(int(opt.Color.R), int(opt.Color.G), int(opt.Color.B))
	for i, line := range lines {
		enc := b.tr(line)
		lx := x
		switch opt.Align {
		case AlignCenter:
			lx = x - b.pdf.GetStringWidth(enc)/2
		case AlignRight:
			lx = x - b.pdf.GetStringWidth(enc)
		}
		b.pdf.Text(lx, y+float64(i)*LineHeight(size), enc)
	}
	return b.pdf.Error()
}

func (b *FpdfBackend) Line(x1, y1, x2, y2 float64, c Color, width float64) error {
	b.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	b.pdf.SetLineWidth(width)
	b.pdf.Line(x1, y1, x2, y2)
	return b.pdf.Error()
}

// Image places a logo. A failure leaves the document usable.
func (b *FpdfBackend) Image(r Rect, ref string) error {
	if b.images == nil {
		return errNoImages
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	if !b.registered[ref] {
		data, err := b.images.Load(ref)
		if err != nil {
			return fmt.Errorf("load image: %w", err)
		}
		b.pdf.RegisterImageOptionsReader(ref, opts, bytes.NewReader(data))
		if err := b.pdf.Error(); err != nil {
			b.pdf.ClearError()
			return fmt.Errorf("register image: %w", err)
		}
		b.registered[ref] = true
	}
	b.pdf.ImageOptions(ref, r.X, r.Y, r.W, r.H, false, opts, 0, "")
	if err := b.pdf.Error(); err != nil {
		b.pdf.ClearError()
		return fmt.Errorf("place image: %w", err)
	}
	return nil
}

// PageCount returns the number of pages written so far.
func (b *FpdfBackend) PageCount() int { return b.pdf.PageCount() }

func (b *FpdfBackend) Output(w io.Writer) error {
	return b.pdf.Output(w)
}
