package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainLines(s string) []string {
	return strings.Split(ansi.Strip(s), "\n")
}

func TestRenderSummaryAlignsWideValues(t *testing.T) {
	out := RenderSummary("applied vignette", []SummaryRow{
		{Label: "Filter", Value: "vignette"},
		{Label: "Rotation", Value: "90°"},
		{Label: "Saved to", Value: "/library/a.jpg"},
	})
	lines := plainLines(out)
	require.Len(t, lines, 6)

	assert.Equal(t, "applied vignette", lines[0])
	assert.Equal(t, lines[1], lines[5])
	ruleWidth := lipgloss.Width(lines[1])
	assert.Equal(t, len("Saved to")+2+len("applied vignette"), ruleWidth)

	// Every value starts in the same cell, after the widest label.
	for i, value := range []string{"vignette", "90°", "/library/a.jpg"} {
		line := lines[2+i]
		assert.Equal(t, len("Saved to")+2, strings.Index(line, value), "row %d", i)
		assert.LessOrEqual(t, lipgloss.Width(line), ruleWidth, "row %d", i)
	}
}

func TestRenderSummaryTitleSetsMinimumWidth(t *testing.T) {
	lines := plainLines(RenderSummary("previews for a-long-file-name.jpg", []SummaryRow{{Label: "sepia", Value: "failed"}}))
	require.Len(t, lines, 4)
	assert.Equal(t, len("sepia")+2+len("previews for a-long-file-name.jpg"), lipgloss.Width(lines[1]))
	assert.Equal(t, "sepia  failed", lines[2])
}

func TestPadCells(t *testing.T) {
	assert.Equal(t, "90°  ", padCells("90°", 5))
	assert.Equal(t, "rotation", padCells("rotation", 3))
}
