package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Padding(0, 1)

	queryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	scoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	metricsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// View renders the browser
func (m Model) View() string {
	if len(m.queries) == 0 {
		return helpStyle.Render("No evaluated queries to browse. Press q to quit.")
	}

	qr := m.queries[m.current]

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("medfind — query %d/%d", m.current+1, len(m.queries))))
	b.WriteString("\n\n")
	b.WriteString(queryStyle.Render(qr.Query))
	b.WriteString("\n\n")

	if len(qr.Results) == 0 {
		b.WriteString(helpStyle.Render("No matching documents found."))
		b.WriteString("\n")
	} else {
		visible := m.visibleRows()
		start := 0
		if m.cursor >= visible {
			start = m.cursor - visible + 1
		}
		end := start + visible
		if end > len(qr.Results) {
			end = len(qr.Results)
		}

		for i := start; i < end; i++ {
			r := qr.Results[i]
			line := fmt.Sprintf("%3d. %-14s %s", i+1, r.DocID, scoreStyle.Render(fmt.Sprintf("%10.2f", r.Score)))
			if i == m.cursor {
				line = selectedStyle.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if qr.HasMetrics {
		b.WriteString("\n")
		b.WriteString(metricsStyle.Render(fmt.Sprintf(
			"P %.2f  R %.2f  F %.2f  AP %.2f",
			qr.Metrics.Precision, qr.Metrics.Recall, qr.Metrics.FMeasure, qr.Metrics.AveragePrecision)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("←/→ query  ↑/↓ scroll  q quit"))
	return b.String()
}

// visibleRows leaves room for the header, query, metrics and help lines.
func (m Model) visibleRows() int {
	rows := m.height - 8
	if rows < 5 {
		rows = 5
	}
	return rows
}
