package pdf

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// traceChrome records the order of page transitions.
type traceChrome struct {
	events    []string
	headerH   float64
	failPages int
}

func (c *traceChrome) Footer(s FlowState) error {
	c.events = append(c.events, fmt.Sprintf("footer:%d", s.Page))
	return nil
}

func (c *traceChrome) NewPage(g PageGeometry) error {
	c.events = append(c.events, "page")
	if c.failPages > 0 && len(c.pages()) > c.failPages {
		return errors.New("surface exhausted")
	}
	return nil
}

func (c *traceChrome) pages() []string {
	var out []string
	for _, e := range c.events {
		if e == "page" {
			out = append(out, e)
		}
	}
	return out
}

func (c *traceChrome) Header(s FlowState) (float64, error) {
	c.events = append(c.events, fmt.Sprintf("header:%d", s.Page))
	return c.headerH, nil
}

type traceSection struct {
	chrome *traceChrome
	height float64
}

func (s traceSection) Leave(st FlowState) error {
	s.chrome.events = append(s.chrome.events, fmt.Sprintf("leave:%d", st.Page))
	return nil
}

func (s traceSection) Enter(st FlowState) (float64, error) {
	s.chrome.events = append(s.chrome.events, fmt.Sprintf("enter:%d", st.Page))
	return s.height, nil
}

// 100mm tall page with 10mm margins: 80mm of body.
func fixedGeometry(bool) PageGeometry {
	return PageGeometry{PageWidth: 100, PageHeight: 100, Left: 10, Right: 10, Top: 10, Bottom: 10, ContentWidth: 80}
}

func TestReserveBreaksOnlyWhenRemainingIsSmaller(t *testing.T) {
	chrome := &traceChrome{}
	f, err := NewFlow(fixedGeometry, chrome)
	require.NoError(t, err)

	steps := []struct {
		reserve, advance float64
		breaks           bool
	}{
		{30, 30, false}, // y 10 -> 40, remaining 50
		{50, 45, false}, // exactly fits
		{5, 5, false},   // remaining 5
		{0.01, 0, true}, // remaining 0
		{80, 80, false}, // full page body
		{1, 0, true},
	}
	for i, s := range steps {
		before := f.State()
		broke, err := f.Reserve(s.reserve)
		require.NoError(t, err)
		assert.Equal(t, s.breaks, broke, "step %d", i)
		assert.Equal(t, before.Remaining() < s.reserve, broke, "step %d", i)
		f.Advance(s.advance)
	}
	assert.Equal(t, 3, f.State().Page)
	assert.Equal(t, 2, f.Breaks())
}

func TestBreakOrder(t *testing.T) {
	chrome := &traceChrome{headerH: 15}
	f, err := NewFlow(fixedGeometry, chrome)
	require.NoError(t, err)
	f.SetSection(traceSection{chrome: chrome, height: 12})

	require.NoError(t, f.Break())
	assert.Equal(t, []string{"page", "leave:1", "footer:1", "page", "header:2", "enter:2"}, chrome.events)
	assert.Equal(t, 10.0+15+12, f.State().Y)

	f.ClearSection()
	require.NoError(t, f.Break())
	require.NoError(t, f.Finish())
	require.NoError(t, f.Finish())
	assert.Equal(t, []string{
		"page", "leave:1", "footer:1", "page", "header:2", "enter:2",
		"footer:2", "page", "header:3",
		"footer:3",
	}, chrome.events)
}

func TestFlowStateIsReplaced(t *testing.T) {
	f, err := NewFlow(fixedGeometry, &traceChrome{})
	require.NoError(t, err)
	s := f.State()
	f.Advance(20)
	assert.Equal(t, 10.0, s.Y)
	assert.Equal(t, 30.0, f.State().Y)
}

func TestBreakPropagatesPageFailure(t *testing.T) {
	f, err := NewFlow(fixedGeometry, &traceChrome{failPages: 1})
	require.NoError(t, err)
	_, err = f.Reserve(200)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create page 2")
}

func TestMoveTo(t *testing.T) {
	f, err := NewFlow(fixedGeometry, &traceChrome{})
	require.NoError(t, err)
	f.MoveTo(85)
	assert.True(t, f.Fits(5))
	assert.False(t, f.Fits(6))
}
