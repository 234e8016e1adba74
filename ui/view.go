package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"crowdwatch/engine"
)

const meterWidth = 24

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	vm := engine.Project(m.session, m.status)

	innerW := m.width - 6
	if innerW > 72 {
		innerW = 72
	}
	if innerW < 40 {
		innerW = 40
	}

	var sb strings.Builder

	sb.WriteString(" " + headerStyle.Render("CROWDWATCH") +
		dimStyle.Render("  ·  crowd monitoring console") + "\n\n")

	// Session panel
	state := valueStyle.Render(vm.SessionLabel)
	if vm.SessionBusy || m.uploading {
		state = m.spin.View() + state
	} else if vm.Polling {
		state = okStyle.Render("●") + " " + state
	} else {
		state = dimStyle.Render("○") + " " + state
	}
	sb.WriteString(boxTop("Session", innerW) + "\n")
	sb.WriteString(boxRow(styledPad(labelStyle.Render("State:"), colKey)+state, innerW) + "\n")
	if vm.UploadedFile != "" {
		sb.WriteString(boxRow(styledPad(labelStyle.Render("Video:"), colKey)+valueStyle.Render(vm.UploadedFile), innerW) + "\n")
	}
	sb.WriteString(boxRow(styledPad(labelStyle.Render("Status:"), colKey)+valueStyle.Render(vm.StatusMessage), innerW) + "\n")
	sb.WriteString(boxBot(innerW) + "\n")

	if m.prompting {
		sb.WriteString(boxTop("Upload video", innerW) + "\n")
		sb.WriteString(boxRow(m.input.View(), innerW) + "\n")
		sb.WriteString(boxRow(helpStyle.Render("enter: upload   esc: cancel"), innerW) + "\n")
		sb.WriteString(boxBot(innerW) + "\n")
	}

	// Metrics panel
	alert := severityStyle(vm.AlertSeverity).Render(vm.AlertLabel)
	sb.WriteString(boxTop("Crowd metrics", innerW) + "\n")
	sb.WriteString(boxRow(styledPad(labelStyle.Render("People:"), colKey)+valueStyle.Render(vm.PeopleCount)+
		dimStyle.Render("   peak ")+valueStyle.Render(vm.PeakCount), innerW) + "\n")
	sb.WriteString(boxRow(styledPad(labelStyle.Render("Alert:"), colKey)+alert, innerW) + "\n")
	sb.WriteString(boxRow(styledPad(labelStyle.Render("FPS:"), colKey)+valueStyle.Render(vm.FPS)+
		dimStyle.Render("   polls ")+valueStyle.Render(vm.PollTicks), innerW) + "\n")
	sb.WriteString(boxRow(severityStyle(vm.AlertSeverity).Render(vm.AlertMessage), innerW) + "\n")
	sb.WriteString(boxBot(innerW) + "\n")

	// Stampede risk panel
	risk := severityStyle(vm.RiskSeverity).Render(vm.RiskLabel)
	sb.WriteString(boxTop("Stampede risk", innerW) + "\n")
	sb.WriteString(boxRow(styledPad(labelStyle.Render("Level:"), colKey)+risk+
		dimStyle.Render("   score ")+valueStyle.Render(vm.RiskScore), innerW) + "\n")
	for i, name := range vm.FactorNames {
		pct := vm.FactorPct[i]
		row := styledPad(labelStyle.Render(name+":"), colKey) +
			meter(pct, meterWidth, severityStyle(vm.RiskSeverity)) +
			valueStyle.Render(fmt.Sprintf(" %3d%%", pct))
		sb.WriteString(boxRow(row, innerW) + "\n")
	}
	sb.WriteString(boxBot(innerW) + "\n")

	// Incident log
	sb.WriteString(boxTop("Incident log", innerW) + "\n")
	if vm.IncidentsEmpty != "" {
		sb.WriteString(boxRow(dimStyle.Render(vm.IncidentsEmpty), innerW) + "\n")
	} else {
		head := styledPad(labelStyle.Render("Time"), colWhen) +
			styledPad(labelStyle.Render("Level"), colLevel) +
			styledPad(labelStyle.Render("People"), colCount) +
			labelStyle.Render("Score")
		sb.WriteString(boxRow(head, innerW) + "\n")
		for _, row := range vm.Incidents {
			line := styledPad(valueStyle.Render(row.When), colWhen) +
				styledPad(severityStyle(row.Severity).Render(row.Level), colLevel) +
				styledPad(valueStyle.Render(row.Count), colCount) +
				valueStyle.Render(row.Score)
			sb.WriteString(boxRow(line, innerW) + "\n")
		}
	}
	sb.WriteString(boxBot(innerW) + "\n")

	if m.notice != "" {
		sb.WriteString(" " + cautionStyle.Render(m.notice) + "\n")
	}

	sb.WriteString("\n " + helpStyle.Render(m.keyHints()) + "\n")
	return sb.String()
}

func (m Model) keyHints() string {
	switch {
	case m.session.CanStop():
		return "x: stop   r: reset db   e: export   S: stampede report   ?: help   q: quit"
	case m.session.CanProcess():
		return "p: process video   u: re-upload   r: reset db   ?: help   q: quit"
	default:
		return "s: start camera   u: upload video   r: reset db   e: export   S: stampede report   ?: help   q: quit"
	}
}

func (m Model) renderHelp() string {
	rows := []struct{ key, desc string }{
		{"s", "start a live camera session"},
		{"x", "stop the active session"},
		{"u", "upload a video file for offline processing"},
		{"p", "process the uploaded video"},
		{"r", "reset the detection database"},
		{"e", "export detection data"},
		{"S", "export the stampede incident report"},
		{"?", "toggle this help"},
		{"q", "quit"},
	}

	var sb strings.Builder
	sb.WriteString(" " + titleStyle.Render("Keys") + "\n\n")
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("   %s  %s\n",
			valueStyle.Render(fmt.Sprintf("%-3s", r.key)),
			helpStyle.Render(r.desc)))
	}
	sb.WriteString("\n " + dimStyle.Render("press any key to close") + "\n")
	return lipgloss.NewStyle().Padding(1, 2).Render(sb.String())
}
