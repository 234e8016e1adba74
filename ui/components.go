package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Column widths used across the console for consistent alignment.
const (
	colKey   = 14 // detail key: "People:", "Alert:", etc.
	colWhen  = 10 // incident time column
	colLevel = 8  // incident level column
	colCount = 7  // incident people column
)

// styledPad pads a styled string to the given visual width using spaces.
// Unlike fmt.Sprintf("%-Xs"), this accounts for ANSI escape codes.
func styledPad(styled string, width int) string {
	visW := lipgloss.Width(styled)
	if visW >= width {
		return styled
	}
	return styled + strings.Repeat(" ", width-visW)
}

// boxTop renders the top border of a rounded box with an optional title.
func boxTop(title string, innerW int) string {
	if title == "" {
		return " " + dimStyle.Render("╭"+strings.Repeat("─", innerW+2)+"╮")
	}
	head := "╭─ "
	tail := strings.Repeat("─", max(0, innerW-lipgloss.Width(title)-2)) + "╮"
	return " " + dimStyle.Render(head) + titleStyle.Render(title) + " " + dimStyle.Render(tail)
}

// boxBot renders the bottom border of a rounded box.
func boxBot(innerW int) string {
	return " " + dimStyle.Render("╰"+strings.Repeat("─", innerW+2)+"╯")
}

// boxRow renders one content line inside a box, padded to innerW.
func boxRow(content string, innerW int) string {
	visW := lipgloss.Width(content)
	pad := innerW - visW
	if pad < 0 {
		pad = 0
	}
	return " " + dimStyle.Render("│") + " " + content + strings.Repeat(" ", pad) + " " + dimStyle.Render("│")
}

// meter renders a fixed-width percentage bar: ██████░░░░ 60%.
func meter(pct, width int, style lipgloss.Style) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * width / 100
	bar := style.Render(strings.Repeat("█", filled)) +
		dimStyle.Render(strings.Repeat("░", width-filled))
	return bar
}
