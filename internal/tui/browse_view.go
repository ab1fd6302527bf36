package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// borderPadding accounts for the box border and padding.
const borderPadding = 4

// View renders the current view (Bubble Tea interface).
func (m BrowseModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateList:
		return m.renderListView()
	default:
		return ""
	}
}

// renderListView renders the title, table box, filter line and status bar.
func (m BrowseModel) renderListView() string {
	sections := []string{
		HeaderStyle.Render(m.tbl.Name),
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		HeaderStyle.Render(padCells(m.tbl.Columns, m.widths)),
		m.list.View(),
	)
	sections = append(sections, BoxStyle.Width(max(0, m.width-borderPadding)).Render(body))

	if m.showFilter || m.textInput.Value() != "" {
		sections = append(sections, LabelStyle.Render("Filter: ")+m.textInput.View())
	}
	if m.err != nil {
		sections = append(sections, ErrorStyle.Render("Error: "+m.err.Error()))
	}

	sections = append(sections, m.renderStatusBar())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderStatusBar shows the page position and key help.
func (m BrowseModel) renderStatusBar() string {
	meta := m.Pager().Meta()
	status := fmt.Sprintf("Page %d/%d | %d-%d of %d rows | ←/→ page  / filter  esc clear  q quit",
		meta.CurrentPage, meta.TotalPages, meta.FirstItem, meta.LastItem, meta.TotalItems)
	return SubtleStyle.Render(status)
}
