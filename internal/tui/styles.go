package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	ColorHeader  = lipgloss.Color("#7D56F4")
	ColorLabel   = lipgloss.Color("#A0A0A0")
	ColorValue   = lipgloss.Color("#FAFAFA")
	ColorSubtle  = lipgloss.Color("#626262")
	ColorInfo    = lipgloss.Color("#4ECCA3")
	ColorWarning = lipgloss.Color("#F0A500")
	ColorError   = lipgloss.Color("#E94560")
)

// Text styles.
var (
	HeaderStyle  = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	LabelStyle   = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle   = lipgloss.NewStyle().Foreground(ColorValue)
	SubtleStyle  = lipgloss.NewStyle().Foreground(ColorSubtle)
	InfoStyle    = lipgloss.NewStyle().Foreground(ColorInfo)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning).Italic(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)

	// SelectedStyle highlights the selected row.
	SelectedStyle = lipgloss.NewStyle().Reverse(true)
)

// BoxStyle frames the table.
var BoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorSubtle).
	Padding(0, 1)
