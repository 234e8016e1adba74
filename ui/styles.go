package ui

import (
	"github.com/charmbracelet/lipgloss"

	"crowdwatch/model"
)

var (
	// Colors
	colorRed     = lipgloss.Color("#FF5555")
	colorYellow  = lipgloss.Color("#F1FA8C")
	colorGreen   = lipgloss.Color("#50FA7B")
	colorCyan    = lipgloss.Color("#8BE9FD")
	colorMagenta = lipgloss.Color("#FF79C6")
	colorOrange  = lipgloss.Color("#FFB86C")
	colorWhite   = lipgloss.Color("#F8F8F2")
	colorGray    = lipgloss.Color("#6272A4")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	labelStyle    = lipgloss.NewStyle().Foreground(colorGray)
	valueStyle    = lipgloss.NewStyle().Foreground(colorWhite)
	okStyle       = lipgloss.NewStyle().Foreground(colorGreen)
	cautionStyle  = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	warnStyle     = lipgloss.NewStyle().Foreground(colorOrange).Bold(true)
	critStyle     = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	stampedeStyle = lipgloss.NewStyle().Foreground(colorWhite).Background(colorRed).Bold(true)
	headerStyle   = lipgloss.NewStyle().Foreground(colorMagenta).Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(colorGray)
	dimStyle      = lipgloss.NewStyle().Foreground(colorGray)
)

// severityStyle maps a view-model severity tag to its style. The stampede
// tier renders inverted so it reads differently from plain Critical.
func severityStyle(sev string) lipgloss.Style {
	switch sev {
	case model.SeverityStampede:
		return stampedeStyle
	case model.SeverityCrit:
		return critStyle
	case model.SeverityWarn:
		return warnStyle
	case model.SeverityCaution:
		return cautionStyle
	default:
		return okStyle
	}
}
