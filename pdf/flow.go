package pdf

import "fmt"

// FlowState is the observable position of the flow controller. It is
// replaced as a whole on every transition.
type FlowState struct {
	Page     int
	Y        float64
	Geometry PageGeometry
}

// Remaining is the vertical space left above the bottom margin.
func (s FlowState) Remaining() float64 {
	return s.Geometry.PageHeight - s.Geometry.Bottom - s.Y
}

// Chrome draws the parts of a page that belong to every page.
type Chrome interface {
	// Footer is called once for every finished page.
	Footer(s FlowState) error
	// NewPage starts a new page with the given geometry.
	NewPage(g PageGeometry) error
	// Header draws the continuation header and returns the height it used.
	Header(s FlowState) (float64, error)
}

// Section is a content block that must redraw something when it spans pages,
// like a table repeating its header.
type Section interface {
	// Leave is called on the outgoing page before its footer.
	Leave(s FlowState) error
	// Enter is called on the new page after the continuation header and
	// returns the height it used.
	Enter(s FlowState) (float64, error)
}

// GeometryFunc resolves the geometry of a first or continuation page.
type GeometryFunc func(firstPage bool) PageGeometry

// Flow tracks the vertical cursor and performs page transitions.
type Flow struct {
	state    FlowState
	geometry GeometryFunc
	chrome   Chrome
	section  Section
	finished bool
	breaks   int
}

// NewFlow opens the first page and positions the cursor at its top margin.
func NewFlow(geometry GeometryFunc, chrome Chrome) (*Flow, error) {
	g := geometry(true)
	if err := chrome.NewPage(g); err != nil {
		return nil, fmt.Errorf("create page 1: %w", err)
	}
	return &Flow{
		state:    FlowState{Page: 1, Y: g.Top, Geometry: g},
		geometry: geometry,
		chrome:   chrome,
	}, nil
}

// State returns the current position.
func (f *Flow) State() FlowState { return f.state }

// Breaks is the number of page transitions performed so far.
func (f *Flow) Breaks() int { return f.breaks }

// Advance moves the cursor down by dy.
func (f *Flow) Advance(dy float64) {
	f.state = FlowState{Page: f.state.Page, Y: f.state.Y + dy, Geometry: f.state.Geometry}
}

// MoveTo places the cursor at an absolute y on the current page.
func (f *Flow) MoveTo(y float64) {
	f.state = FlowState{Page: f.state.Page, Y: y, Geometry: f.state.Geometry}
}

// SetSection installs the block that repeats on every new page until cleared.
func (f *Flow) SetSection(s Section) { f.section = s }

// ClearSection removes the repeating block.
func (f *Flow) ClearSection() { f.section = nil }

// Fits reports whether a block of height h fits on the current page.
func (f *Flow) Fits(h float64) bool { return f.state.Remaining() >= h }

// Reserve makes room for a block of height h, starting a new page when the
// space left on the current one is smaller than h. It reports whether a
// transition happened.
func (f *Flow) Reserve(h float64) (bool, error) {
	if f.Fits(h) {
		return false, nil
	}
	if err := f.Break(); err != nil {
		return false, err
	}
	return true, nil
}

// Break finishes the current page and starts the next one.
func (f *Flow) Break() error {
	out := f.state
	if f.section != nil {
		if err := f.section.Leave(out); err != nil {
			return fmt.Errorf("leave page %d: %w", out.Page, err)
		}
	}
	if err := f.chrome.Footer(out); err != nil {
		return fmt.Errorf("footer page %d: %w", out.Page, err)
	}
	g := f.geometry(false)
	if err := f.chrome.NewPage(g); err != nil {
		return fmt.Errorf("create page %d: %w", out.Page+1, err)
	}
	next := FlowState{Page: out.Page + 1, Y: g.Top, Geometry: g}
	f.state = next
	f.breaks++

	used, err := f.chrome.Header(next)
	if err != nil {
		return fmt.Errorf("header page %d: %w", next.Page, err)
	}
	f.Advance(used)
	if f.section != nil {
		used, err := f.section.Enter(f.state)
		if err != nil {
			return fmt.Errorf("enter page %d: %w", next.Page, err)
		}
		f.Advance(used)
	}
	return nil
}

// Finish emits the footer of the last page. Later calls are no-ops.
func (f *Flow) Finish() error {
	if f.finished {
		return nil
	}
	f.finished = true
	if err := f.chrome.Footer(f.state); err != nil {
		return fmt.Errorf("footer page %d: %w", f.state.Page, err)
	}
	return nil
}
