package pdf

import (
	"errors"
	"fmt"
)

// CommandKind enumerates draw primitives.
type CommandKind int

const (
	CmdNewPage CommandKind = iota
	CmdFillRect
	CmdText
	CmdLine
	CmdImage
)

func (k CommandKind) String() string {
	switch k {
	case CmdNewPage:
		return "new-page"
	case CmdFillRect:
		return "fill-rect"
	case CmdText:
		return "draw-text"
	case CmdLine:
		return "draw-line"
	case CmdImage:
		return "place-image"
	}
	return fmt.Sprintf("command(%d)", int(k))
}

// Command is one recorded draw instruction. Only the fields relevant to its
// Kind are set.
type Command struct {
	Kind     CommandKind
	Geometry PageGeometry
	Rect     Rect
	X, Y     float64
	X2, Y2   float64
	Text     string
	Opts     TextOptions
	Color    Color
	Width    float64
	Ref      string
}

// Page is the ordered batch of commands drawn on one page. The first command
// is always CmdNewPage.
type Page struct {
	Number   int
	Geometry PageGeometry
	Commands []Command
}

// Document is the output of the composer before serialisation.
type Document struct {
	Pages []Page
}

// PageCount returns the number of recorded pages.
func (d *Document) PageCount() int { return len(d.Pages) }

// Commands returns every recorded command in drawing order.
func (d *Document) Commands() []Command {
	var out []Command
	for _, p := range d.Pages {
		out = append(out, p.Commands...)
	}
	return out
}

var errNoPage = errors.New("draw before first page")

// Recorder is a Canvas that keeps every command in memory, grouped by page.
type Recorder struct {
	doc Document
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Document returns the recorded pages.
func (r *Recorder) Document() *Document { return &r.doc }

func (r *Recorder) PageCount() int { return len(r.doc.Pages) }

func (r *Recorder) NewPage(g PageGeometry) error {
	n := len(r.doc.Pages) + 1
	r.doc.Pages = append(r.doc.Pages, Page{
		Number:   n,
		Geometry: g,
		Commands: []Command{{Kind: CmdNewPage, Geometry: g}},
	})
	return nil
}

func (r *Recorder) add(c Command) error {
	if len(r.doc.Pages) == 0 {
		return errNoPage
	}
	p := &r.doc.Pages[len(r.doc.Pages)-1]
	p.Commands = append(p.Commands, c)
	return nil
}

func (r *Recorder) FillRect(rect Rect, c Color) error {
	return r.add(Command{Kind: CmdFillRect, Rect: rect, Color: c})
}

func (r *Recorder) Text(x, y float64, s string, opt TextOptions) error {
	return r.add(Command{Kind: CmdText, X: x, Y: y, Text: s, Opts: opt})
}

func (r *Recorder) Line(x1, y1, x2, y2 float64, c Color, width float64) error {
	return r.add(Command{Kind: CmdLine, X: x1, Y: y1, X2: x2, Y2: y2, Color: c, Width: width})
}

func (r *Recorder) Image(rect Rect, ref string) error {
	return r.add(Command{Kind: CmdImage, Rect: rect, Ref: ref})
}
