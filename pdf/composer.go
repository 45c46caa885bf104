package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/diewo77/quotes/i18n"
)

// Layout constants, in millimetres unless noted.
const (
	BannerHeight             = 60.0
	BannerGap                = 10.0
	LogoWidth                = 70.0
	LogoHeight               = 40.0
	ContinuationHeaderHeight = 15.0
	InfoLineSpacing          = 5.0
	InfoBlockHeight          = 50.0
	MetaLineSpacing          = 7.0
	MetaBlockHeight          = 29.0
	MetaValueOffset          = 50.0
	TableHeaderHeight        = 12.0
	RowHeight                = 8.0
	TableGap                 = 8.0
	TotalsLineSpacing        = 8.0
	TotalsRuleGap            = 7.0
	TotalsHeight             = 28.0
	TotalsGap                = 15.0
	TotalsRuleWidth          = 2.0
	NoteHeadingHeight        = 6.0
	NoteLineHeight           = 5.0
	NoteBlockGap             = 10.0
	NoteIndent               = 10.0
)

// Font sizes in points.
const (
	titleSize    = 22.0
	bodySize     = 10.0
	tableHdrSize = 9.0
	rowSize      = 8.0
	totalsSize   = 12.0
	grandSize    = 14.0
	markerSize   = 12.0
	creditSize   = 8.0
)

// Options configure one generation call.
type Options struct {
	Paper       PaperSize
	Orientation Orientation
	Lang        string
	// Theme overrides the theme resolved from the company tax id.
	Theme *Theme
	// RowsPerPage overrides the estimated item capacity of a page.
	RowsPerPage int
	Measurer    Measurer
	Images      ImageLoader
	Logger      *log.Logger
}

// GenerationError is the single failure returned by the engine.
type GenerationError struct {
	Msg string
	Err error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error { return e.Err }

func fail(msg string, err error) error {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return err
	}
	return &GenerationError{Msg: msg, Err: err}
}

// QuotePDF lays out the quote and returns the serialised PDF.
func QuotePDF(in Input, opts Options) ([]byte, error) {
	doc, err := Compose(in, opts)
	if err != nil {
		return nil, err
	}
	backend := NewFpdfBackend(FpdfConfig{
		CreationDate: in.Quote.IssueDate,
		Images:       opts.Images,
	})
	if err := Render(doc, backend, opts.Logger); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := backend.Output(&buf); err != nil {
		return nil, fail("serialize document", err)
	}
	return buf.Bytes(), nil
}

// Render replays a composed document on a backend. Image failures are logged
// and skipped; every other failure aborts.
func Render(doc *Document, b Backend, logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}
	for _, p := range doc.Pages {
		for _, c := range p.Commands {
			var err error
			switch c.Kind {
			case CmdNewPage:
				err = b.AddPage(c.Geometry)
			case CmdFillRect:
				err = b.FillRect(c.Rect, c.Color)
			case CmdText:
				err = b.Text(c.X, c.Y, c.Text, c.Opts)
			case CmdLine:
				err = b.Line(c.X, c.Y, c.X2, c.Y2, c.Color, c.Width)
			case CmdImage:
				if ierr := b.Image(c.Rect, c.Ref); ierr != nil {
					logger.Printf("pdf: page %d: image %q skipped: %v", p.Number, c.Ref, ierr)
				}
			}
			if err != nil {
				return fail(fmt.Sprintf("render page %d", p.Number), fmt.Errorf("%s: %w", c.Kind, err))
			}
		}
	}
	return nil
}

// Compose runs both layout passes and returns the recorded pages.
func Compose(in Input, opts Options) (*Document, error) {
	rec := NewRecorder()
	c := newComposer(in, opts, rec)
	if err := c.run(); err != nil {
		return nil, fail("compose quote", err)
	}
	doc := rec.Document()
	numberPages(doc, c.lang)
	return doc, nil
}

// FileName is the download name of a generated quote.
func FileName(q Quote, lang string) string {
	return i18n.T(i18n.Normalize(lang), "file_prefix") + "-" + quoteCode(q, i18n.Normalize(lang)) + ".pdf"
}

func quoteCode(q Quote, lang string) string {
	if q.Code == nil || strings.TrimSpace(*q.Code) == "" {
		return i18n.T(lang, "draft")
	}
	return *q.Code
}

// numberPages rewrites every page marker once the page count is final.
func numberPages(doc *Document, lang string) {
	total := doc.PageCount()
	for i := range doc.Pages {
		p := &doc.Pages[i]
		for j := range p.Commands {
			if p.Commands[j].Kind == CmdText && p.Commands[j].Opts.Tag == TagPageMarker {
				p.Commands[j].Text = i18n.Tf(lang, "page_of", p.Number, total)
			}
		}
	}
}

type composer struct {
	in       Input
	items    []LineItem
	opts     Options
	lang     string
	theme    Theme
	measurer Measurer
	canvas   Canvas
	density  Density
	flow     *Flow
	code     string
}

func newComposer(in Input, opts Options, canvas Canvas) *composer {
	lang := i18n.Normalize(opts.Lang)
	theme := ThemeFor(in.Company.TaxID)
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	m := opts.Measurer
	if m == nil {
		m = NewFpdfMeasurer()
	}
	items := orderedItems(in.Items)
	return &composer{
		in:       in,
		items:    items,
		opts:     opts,
		lang:     lang,
		theme:    theme,
		measurer: m,
		canvas:   canvas,
		density:  DensityFor(len(items)),
		code:     quoteCode(in.Quote, lang),
	}
}

func (c *composer) t(key string) string { return i18n.T(c.lang, key) }

func (c *composer) geometry(first bool) PageGeometry {
	return ResolveGeometry(c.opts.Paper, c.opts.Orientation, first, c.density)
}

func (c *composer) text(x, y float64, s string, opt TextOptions) error {
	if opt.Size == 0 {
		opt.Size = bodySize
	}
	return c.canvas.Text(x, y, s, opt)
}

func (c *composer) run() error {
	flow, err := NewFlow(c.geometry, c)
	if err != nil {
		return err
	}
	c.flow = flow

	steps := []struct {
		name string
		fn   func() error
	}{
		{"banner", c.banner},
		{"parties", c.parties},
		{"metadata", c.metadata},
		{"items", c.table},
		{"totals", c.totals},
		{"notes", func() error { return c.paragraph("notes", c.in.Quote.Notes) }},
		{"conditions", func() error { return c.paragraph("conditions", c.in.Quote.Conditions) }},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return c.flow.Finish()
}

// NewPage, Header and Footer implement Chrome.

func (c *composer) NewPage(g PageGeometry) error { return c.canvas.NewPage(g) }

func (c *composer) Header(s FlowState) (float64, error) {
	g := s.Geometry
	p := c.theme.Palette
	opt := TextOptions{Size: bodySize, Bold: true, Color: p.Primary}
	if err := c.text(g.Left, s.Y+5, c.code+" - "+c.t("continued"), opt); err != nil {
		return 0, err
	}
	opt.Align = AlignRight
	date := formatDate(c.in.Quote.IssueDate, c.t("date_layout"))
	if err := c.text(g.ContentRight(), s.Y+5, date, opt); err != nil {
		return 0, err
	}
	return ContinuationHeaderHeight, nil
}

func (c *composer) Footer(s FlowState) error {
	g := s.Geometry
	p := c.theme.Palette
	y := g.BodyBottom()
	band := Rect{X: g.Left, Y: y, W: g.ContentWidth, H: g.Bottom}
	if err := FillGradient(c.canvas, band, RoleFooterBand, c.theme, GradientSteps); err != nil {
		return err
	}
	center := g.PageWidth / 2
	slogan := strings.TrimSpace(c.in.Company.Slogan)
	if slogan == "" {
		slogan = c.t("slogan")
	}
	if err := c.text(center, y+5, slogan, TextOptions{Size: bodySize, Color: p.TextSecondary, Align: AlignCenter}); err != nil {
		return err
	}
	marker := i18n.Tf(c.lang, "page_of", s.Page, s.Page)
	if err := c.text(center, y+10, marker, TextOptions{Size: markerSize, Bold: true, Color: p.Primary, Align: AlignCenter, Tag: TagPageMarker}); err != nil {
		return err
	}
	return c.text(center, y+14, c.t("attribution"), TextOptions{Size: creditSize, Color: p.TextSecondary, Align: AlignCenter})
}

func (c *composer) banner() error {
	s := c.flow.State()
	g := s.Geometry
	p := c.theme.Palette
	box := Rect{X: g.Left, Y: s.Y, W: g.ContentWidth, H: BannerHeight}
	if err := FillGradient(c.canvas, box, RoleTitleBanner, c.theme, GradientSteps); err != nil {
		return err
	}
	title := c.t("title") + " - " + c.code
	if err := c.text(g.PageWidth/2, s.Y+12, title, TextOptions{Size: titleSize, Bold: true, Color: p.White, Align: AlignCenter}); err != nil {
		return err
	}
	if ref := strings.TrimSpace(c.in.Company.LogoRef); ref != "" {
		logo := Rect{X: g.Left + (g.ContentWidth-LogoWidth)/2, Y: s.Y + 17, W: LogoWidth, H: LogoHeight}
		if err := c.canvas.Image(logo, ref); err != nil {
			return err
		}
	}
	c.flow.Advance(BannerHeight + BannerGap)
	return nil
}

func (c *composer) parties() error {
	if _, err := c.flow.Reserve(InfoBlockHeight); err != nil {
		return err
	}
	s := c.flow.State()
	g := s.Geometry
	co, cu := c.in.Company, c.in.Quote.Customer
	companyName := co.Name
	if companyName == "" {
		companyName = c.t("default_company")
	}
	customerName := cu.Name
	if customerName == "" {
		customerName = c.t("default_customer")
	}
	left := nonEmpty(
		c.labeled("company", companyName),
		c.labeled("tax_id", co.TaxID),
		co.Address,
		c.labeled("phone", co.Phone),
		c.labeled("email", co.Email),
	)
	right := nonEmpty(
		c.labeled("customer", customerName),
		c.labeled("tax_id", cu.TaxID),
		cu.Address,
		c.labeled("phone", cu.Phone),
		c.labeled("email", cu.Email),
	)
	maxW := g.ContentWidth/2 - 10
	opt := TextOptions{Size: bodySize, Color: c.theme.Palette.Text, MaxWidth: maxW}
	for i, line := range left {
		if err := c.text(g.Left, s.Y+float64(i)*InfoLineSpacing, line, opt); err != nil {
			return err
		}
	}
	opt.Align = AlignRight
	for i, line := range right {
		if err := c.text(g.ContentRight(), s.Y+float64(i)*InfoLineSpacing, line, opt); err != nil {
			return err
		}
	}
	c.flow.Advance(InfoBlockHeight)
	return nil
}

func (c *composer) labeled(key, value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return c.t(key) + ": " + value
}

func nonEmpty(lines ...string) []string {
	out := lines[:0]
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

func (c *composer) metadata() error {
	if _, err := c.flow.Reserve(MetaBlockHeight); err != nil {
		return err
	}
	q := c.in.Quote
	layout := c.t("date_layout")
	rows := [][2]string{
		{c.t("issue_date"), formatDate(q.IssueDate, layout)},
		{c.t("valid_until"), formatDate(q.ValidUntil(), layout)},
		{c.t("currency"), q.Currency},
	}
	text := c.theme.Palette.Text
	for i, row := range rows {
		s := c.flow.State()
		x := s.Geometry.Left
		if err := c.text(x, s.Y, row[0], TextOptions{Size: bodySize, Bold: true, Color: text}); err != nil {
			return err
		}
		if err := c.text(x+MetaValueOffset, s.Y, row[1], TextOptions{Size: bodySize, Color: text}); err != nil {
			return err
		}
		if i < len(rows)-1 {
			c.flow.Advance(MetaLineSpacing)
		}
	}
	c.flow.Advance(MetaBlockHeight - 2*MetaLineSpacing)
	return nil
}

// rowCapacity estimates, once, how many rows fit on a continuation page.
func (c *composer) rowCapacity() int {
	if c.opts.RowsPerPage > 0 {
		return c.opts.RowsPerPage
	}
	g := c.geometry(false)
	avail := g.PageHeight - g.Top - g.Bottom - ContinuationHeaderHeight - TableHeaderHeight
	n := int(math.Floor(avail / RowHeight))
	if n < 1 {
		n = 1
	}
	return n
}

// itemTable repeats the table header on every page the table spans.
type itemTable struct{ c *composer }

func (t itemTable) Leave(s FlowState) error {
	g := s.Geometry
	return t.c.canvas.Line(g.Left, s.Y, g.ContentRight(), s.Y, t.c.theme.Palette.Border, 0.5)
}

func (t itemTable) Enter(s FlowState) (float64, error) {
	return t.c.tableHeader(s)
}

func (c *composer) tableHeader(s FlowState) (float64, error) {
	g := s.Geometry
	band := Rect{X: g.Left, Y: s.Y, W: g.ContentWidth, H: TableHeaderHeight}
	if err := FillGradient(c.canvas, band, RoleTableHeader, c.theme, GradientSteps); err != nil {
		return 0, err
	}
	widths := PlanColumns(columnWeights(ItemColumns), g.ContentWidth)
	x := g.Left
	for i, col := range ItemColumns {
		opt := TextOptions{Size: tableHdrSize, Bold: true, Color: c.theme.Palette.Text, Align: ColumnAlign(i), MaxWidth: widths[i] - 4}
		tx := x + 2
		if opt.Align == AlignRight {
			tx = x + widths[i] - 2
		}
		if err := c.text(tx, s.Y+8, c.t(col.Key), opt); err != nil {
			return 0, err
		}
		x += widths[i]
	}
	return TableHeaderHeight, nil
}

func (c *composer) table() error {
	if len(c.items) == 0 {
		return nil
	}
	capacity := c.rowCapacity()
	if _, err := c.flow.Reserve(TableHeaderHeight + RowHeight); err != nil {
		return err
	}
	used, err := c.tableHeader(c.flow.State())
	if err != nil {
		return err
	}
	c.flow.Advance(used)
	c.flow.SetSection(itemTable{c: c})

	pageRows := 0
	for i, item := range c.items {
		if pageRows >= capacity {
			if err := c.flow.Break(); err != nil {
				return err
			}
			pageRows = 0
		}
		broke, err := c.flow.Reserve(RowHeight)
		if err != nil {
			return err
		}
		if broke {
			pageRows = 0
		}
		if err := c.row(i, item); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		c.flow.Advance(RowHeight)
		pageRows++
	}
	c.flow.ClearSection()
	c.flow.Advance(TableGap)
	return nil
}

func (c *composer) row(i int, item LineItem) error {
	s := c.flow.State()
	g := s.Geometry
	p := c.theme.Palette
	cur := c.in.Quote.Currency
	widths := PlanColumns(columnWeights(ItemColumns), g.ContentWidth)
	cells := []struct {
		text  string
		align Align
		color Color
	}{
		{strconv.Itoa(i + 1), AlignCenter, p.Text},
		{fitLine(c.measurer, item.Name, rowSize, false, widths[1]-4), AlignLeft, p.Text},
		{strconv.Itoa(item.Quantity), AlignCenter, p.Text},
		{item.Unit, AlignCenter, p.Text},
		{formatMoney(cur, item.UnitPrice), AlignRight, p.Text},
		{formatDiscount(cur, item.DiscountKind, item.DiscountValue), AlignRight, p.Warning},
		{formatMoney(cur, item.Subtotal), AlignRight, p.Text},
		{formatMoney(cur, item.Tax), AlignRight, p.Secondary},
		{formatMoney(cur, item.Total), AlignRight, p.Success},
	}
	x := g.Left
	for j, cell := range cells {
		w := widths[j]
		opt := TextOptions{Size: rowSize, Color: cell.color, Align: cell.align, MaxWidth: w - 4}
		tx := x + 2
		switch cell.align {
		case AlignCenter:
			tx = x + w/2
		case AlignRight:
			tx = x + w - 2
		}
		if err := c.text(tx, s.Y+5, cell.text, opt); err != nil {
			return err
		}
		x += w
	}
	return nil
}

func (c *composer) totals() error {
	if _, err := c.flow.Reserve(TotalsHeight); err != nil {
		return err
	}
	q := c.in.Quote
	p := c.theme.Palette
	s := c.flow.State()
	g := s.Geometry
	labelX := g.ContentRight() - 60
	valueX := g.ContentRight() - 20
	opt := TextOptions{Size: totalsSize, Bold: true, Color: p.Text, Align: AlignRight}

	lines := [][2]string{
		{c.t("subtotal"), formatMoney(q.Currency, q.Subtotal)},
		{c.t("tax"), formatMoney(q.Currency, q.Tax)},
	}
	for _, l := range lines {
		y := c.flow.State().Y
		if err := c.text(labelX, y, l[0], opt); err != nil {
			return err
		}
		if err := c.text(valueX, y, l[1], opt); err != nil {
			return err
		}
		c.flow.Advance(TotalsLineSpacing)
	}

	y := c.flow.State().Y
	if err := c.canvas.Line(g.ContentRight()-70, y, g.ContentRight()-10, y, p.Primary, TotalsRuleWidth); err != nil {
		return err
	}
	c.flow.Advance(TotalsRuleGap)

	y = c.flow.State().Y
	opt.Size = grandSize
	opt.Color = p.Success
	if err := c.text(labelX, y, c.t("total"), opt); err != nil {
		return err
	}
	if err := c.text(valueX, y, formatMoney(q.Currency, q.Total), opt); err != nil {
		return err
	}
	c.flow.Advance(TotalsHeight - 2*TotalsLineSpacing - TotalsRuleGap)
	// the gap is not drawn on, so it is never reserved
	c.flow.Advance(TotalsGap)
	return nil
}

// paragraph draws a heading and soft-wrapped text, checking the page break
// before every wrapped line.
func (c *composer) paragraph(headingKey, body string) error {
	if strings.TrimSpace(body) == "" {
		return nil
	}
	p := c.theme.Palette
	if _, err := c.flow.Reserve(NoteHeadingHeight + NoteLineHeight); err != nil {
		return err
	}
	s := c.flow.State()
	if err := c.text(s.Geometry.Left, s.Y, c.t(headingKey), TextOptions{Size: bodySize, Bold: true, Color: p.Primary}); err != nil {
		return err
	}
	c.flow.Advance(NoteHeadingHeight)

	width := s.Geometry.ContentWidth - NoteIndent
	for _, line := range WrapText(c.measurer, strings.TrimSpace(body), bodySize, false, width) {
		if _, err := c.flow.Reserve(NoteLineHeight); err != nil {
			return err
		}
		st := c.flow.State()
		if err := c.text(st.Geometry.Left, st.Y, line, TextOptions{Size: bodySize, Color: p.Text}); err != nil {
			return err
		}
		c.flow.Advance(NoteLineHeight)
	}
	c.flow.Advance(NoteBlockGap)
	return nil
}
