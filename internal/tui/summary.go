package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SummaryRow is one label/value line of a command report.
type SummaryRow struct {
	Label string
	Value string
}

// RenderSummary lays rows out as a two-column report under title. Widths are
// measured in terminal cells, so values like "90°" stay aligned.
func RenderSummary(title string, rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := lipgloss.Width(title)
	for _, row := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(row.Label))
		valueWidth = max(valueWidth, lipgloss.Width(row.Value))
	}

	rule := dimStyle.Render(strings.Repeat("─", labelWidth+valueWidth+2))
	lines := []string{titleStyle.Render(title), rule}
	for _, row := range rows {
		label := labelStyle.Render(padCells(row.Label, labelWidth))
		lines = append(lines, label+"  "+summaryValueStyle(row.Value).Render(row.Value))
	}
	lines = append(lines, rule)
	return strings.Join(lines, "\n")
}

// padCells right-pads s with spaces to width terminal cells.
func padCells(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func summaryValueStyle(value string) lipgloss.Style {
	if value == "failed" {
		return alertStyle
	}
	return valueStyle
}

var valueStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorText)
