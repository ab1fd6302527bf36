package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lfs-lab/certtrack/internal/cli/pagination"
	"github.com/lfs-lab/certtrack/internal/logging"
	"github.com/lfs-lab/certtrack/internal/pager"
	"github.com/lfs-lab/certtrack/internal/table"
	listview "github.com/lfs-lab/certtrack/internal/tui/list"
)

// Key bindings.
const (
	keyQuit  = "q"
	keyCtrlC = "ctrl+c"
	keyEnter = "enter"
	keyEsc   = "esc"
	keySlash = "/"
)

// Default viewport until the first WindowSizeMsg arrives.
const (
	defaultWidth  = 100
	defaultHeight = 30
)

// filterCharLimit caps the filter input length.
const filterCharLimit = 64

// ViewState is the screen the browser is showing.
type ViewState int

// View states.
const (
	ViewStateList ViewState = iota
	ViewStateQuitting
)

// BrowseModel is the Bubble Tea model for browsing one table page by page.
// Typing in the filter box re-filters the table on every keystroke.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type BrowseModel struct {
	ctx    context.Context
	tbl    *table.Table
	params pagination.Params
	list   *listview.PagedTableModel
	widths []int

	textInput  textinput.Model
	showFilter bool
	state      ViewState

	width  int
	height int

	err error
}

// NewBrowseModel creates a browser over tbl, starting at the page and filters in params.
func NewBrowseModel(
	ctx context.Context,
	tbl *table.Table,
	params pagination.Params,
	defaultPageSize int,
) (BrowseModel, error) {
	log := logging.FromContext(ctx)
	p, err := pagination.Apply(tbl, params, defaultPageSize, pager.WithLogger(*log))
	if err != nil {
		return BrowseModel{}, err
	}

	m := BrowseModel{
		ctx:       ctx,
		tbl:       tbl,
		params:    params,
		widths:    columnWidths(tbl),
		textInput: newTextInput(),
		state:     ViewStateList,
		width:     defaultWidth,
		height:    defaultHeight,
	}
	m.textInput.SetValue(params.Search)
	m.list = listview.NewPagedTableModel(p, defaultHeight, defaultWidth, m.renderRow)
	return m, nil
}

func newTextInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "type to filter"
	ti.CharLimit = filterCharLimit
	ti.Prompt = ""
	return ti
}

// Init initializes the model (Bubble Tea interface).
func (m BrowseModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state (Bubble Tea interface).
func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if winMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = winMsg.Width
		m.height = winMsg.Height
		_, _ = m.list.Update(winMsg)
		return m, nil
	}

	if m.showFilter {
		return m.handleFilterInput(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	return m.handleListKeypress(keyMsg)
}

func (m BrowseModel) handleFilterInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEnter:
			m.showFilter = false
			m.textInput.Blur()
			return m, nil
		case keyEsc:
			m.showFilter = false
			m.textInput.Blur()
			m.textInput.SetValue("")
			m.applyFilter("")
			return m, nil
		case keyCtrlC:
			m.state = ViewStateQuitting
			return m, tea.Quit
		}
	}

	before := m.textInput.Value()
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	if after := m.textInput.Value(); after != before {
		m.applyFilter(after)
	}
	return m, cmd
}

func (m BrowseModel) handleListKeypress(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keySlash:
		m.showFilter = true
		m.textInput.Focus()
		return m, textinput.Blink
	case keyEsc:
		if m.textInput.Value() != "" {
			m.textInput.SetValue("")
			m.applyFilter("")
		}
		return m, nil
	default:
		m.list.HandleKey(keyMsg)
		return m, nil
	}
}

// applyFilter re-filters the table with query as the search text, keeping
// the search column and column filters the browser was started with. An empty
// query skips the search.
func (m *BrowseModel) applyFilter(query string) {
	m.params.Search = query

	pred, err := m.params.Predicate(m.tbl)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil

	matched := m.list.Pager().Filter(pred)
	m.list.Refresh()

	logging.FromContext(m.ctx).Debug().
		Str("component", "tui").
		Str("operation", "filter").
		Str("table", m.tbl.Name).
		Int("matched", len(matched)).
		Msg("browse filter applied")
}

// renderRow pads cells to the column widths and highlights the selected row.
func (m BrowseModel) renderRow(row table.Row, selected bool) string {
	line := padCells(row.Cells, m.widths)
	if selected {
		return SelectedStyle.Render(line)
	}
	return ValueStyle.Render(line)
}

// columnWidths returns the display width of the widest cell per column,
// headers included.
func columnWidths(tbl *table.Table) []int {
	widths := make([]int, len(tbl.Columns))
	for i, c := range tbl.Columns {
		widths[i] = lipgloss.Width(c)
	}
	for _, r := range tbl.Rows {
		for i := range widths {
			if w := lipgloss.Width(r.Cell(i)); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func padCells(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = cell + strings.Repeat(" ", max(0, w-lipgloss.Width(cell)))
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}

// Pager returns the pager behind the browser.
func (m BrowseModel) Pager() *pager.Pager {
	return m.list.Pager()
}

// State returns the current view state.
func (m BrowseModel) State() ViewState {
	return m.state
}

// Err returns the last filter error, if any.
func (m BrowseModel) Err() error {
	return m.err
}
