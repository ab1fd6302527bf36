package listview

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lfs-lab/certtrack/internal/pager"
	"github.com/lfs-lab/certtrack/internal/table"
)

// cellSeparator joins cells in the default row renderer.
const cellSeparator = " | "

// Navigation glyphs of the page strip.
const (
	glyphFirst = "«"
	glyphPrev  = "‹"
	glyphNext  = "›"
	glyphLast  = "»"
)

// RenderFunc renders one visible row.
// The selected parameter indicates whether this row is currently selected.
type RenderFunc func(row table.Row, selected bool) string

// DefaultRender joins the row cells and marks the selected row with "> ".
func DefaultRender(row table.Row, selected bool) string {
	prefix := "  "
	if selected {
		prefix = "> "
	}
	return prefix + strings.Join(row.Cells, cellSeparator)
}

// PagedTableModel shows one page of a pager at a time.
// Page keys drive the pager; up/down move the selection within the page.
type PagedTableModel struct {
	// pager owns the row set and page position
	pager *pager.Pager

	// renderFunc renders a single row
	renderFunc RenderFunc

	// selected is the selected row within the current page (0-based)
	selected int

	// height is the viewport height in rows
	height int

	// width is the viewport width in columns
	width int
}

// NewPagedTableModel creates a model over p. A nil renderFunc uses DefaultRender.
func NewPagedTableModel(p *pager.Pager, height, width int, renderFunc RenderFunc) *PagedTableModel {
	if renderFunc == nil {
		renderFunc = DefaultRender
	}
	return &PagedTableModel{
		pager:      p,
		renderFunc: renderFunc,
		height:     height,
		width:      width,
	}
}

// Init initializes the model (required for tea.Model interface).
func (m *PagedTableModel) Init() tea.Cmd {
	return nil
}

// Update handles keyboard and resize messages.
func (m *PagedTableModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.HandleKey(msg)
		return m, nil
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.width = msg.Width
		return m, nil
	}

	return m, nil
}

// HandleKey applies a navigation key. It reports whether the key was consumed.
//
//nolint:exhaustive // Only navigation keys are handled.
func (m *PagedTableModel) HandleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyHome:
		m.afterNav(m.pager.First())
	case tea.KeyEnd:
		m.afterNav(m.pager.Last())
	case tea.KeyPgUp, tea.KeyLeft:
		m.afterNav(m.pager.Prev())
	case tea.KeyPgDown, tea.KeyRight:
		m.afterNav(m.pager.Next())
	case tea.KeyUp:
		m.moveSelection(-1)
	case tea.KeyDown:
		m.moveSelection(1)
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return false
		}
		switch msg.Runes[0] {
		case 'j':
			m.moveSelection(1)
		case 'k':
			m.moveSelection(-1)
		case 'h':
			m.afterNav(m.pager.Prev())
		case 'l':
			m.afterNav(m.pager.Next())
		default:
			return false
		}
	default:
		return false
	}
	return true
}

func (m *PagedTableModel) afterNav(moved bool) {
	if moved {
		m.selected = 0
	}
}

func (m *PagedTableModel) moveSelection(delta int) {
	n := len(m.pager.View().Rows)
	next := m.selected + delta
	if next < 0 || next >= n {
		return
	}
	m.selected = next
}

// Refresh resets the selection after the pager's row set changed.
func (m *PagedTableModel) Refresh() {
	m.selected = 0
}

// View renders the visible rows followed by the page strip.
func (m *PagedTableModel) View() string {
	v := m.pager.View()

	var b strings.Builder
	if v.NoResults {
		b.WriteString(v.Message)
		b.WriteString("\n")
	}
	for i, row := range v.Rows {
		b.WriteString(m.renderFunc(row, i == m.selected))
		b.WriteString("\n")
	}
	if strip := PageStrip(v); strip != "" {
		b.WriteString("\n")
		b.WriteString(strip)
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// PageStrip renders the navigation buttons and the visible page controls,
// e.g. "« ‹ 2 3 [4] 5 6 › »". Disabled buttons render as blanks.
// It returns "" when there are no pages.
func PageStrip(v pager.View) string {
	if v.PageCount == 0 {
		return ""
	}

	parts := []string{
		navGlyph(glyphFirst, v.Nav.First),
		navGlyph(glyphPrev, v.Nav.Prev),
	}
	for _, c := range v.VisibleControls() {
		label := strconv.Itoa(c.Number)
		if c.Active {
			label = "[" + label + "]"
		}
		parts = append(parts, label)
	}
	parts = append(parts,
		navGlyph(glyphNext, v.Nav.Next),
		navGlyph(glyphLast, v.Nav.Last),
	)
	return strings.Join(parts, " ")
}

func navGlyph(glyph string, enabled bool) string {
	if enabled {
		return glyph
	}
	return " "
}

// Pager returns the underlying pager.
func (m *PagedTableModel) Pager() *pager.Pager {
	return m.pager
}

// Selected returns the selected row index within the current page.
func (m *PagedTableModel) Selected() int {
	return m.selected
}

// SelectedRow returns the selected row, or nil when the page is empty.
func (m *PagedTableModel) SelectedRow() *table.Row {
	rows := m.pager.View().Rows
	if m.selected < 0 || m.selected >= len(rows) {
		return nil
	}
	return &rows[m.selected]
}

// Height returns the viewport height.
func (m *PagedTableModel) Height() int {
	return m.height
}

// Width returns the viewport width.
func (m *PagedTableModel) Width() int {
	return m.width
}
