package tui

import "github.com/charmbracelet/lipgloss"

// Editor palette. Adaptive pairs keep the strip and slider readable on light
// terminals too.
var (
	ColorText     = lipgloss.AdaptiveColor{Light: "#2E3440", Dark: "#ECEFF4"}
	ColorMuted    = lipgloss.AdaptiveColor{Light: "#6B7385", Dark: "#8890A0"}
	ColorSelected = lipgloss.Color("#D08770")
	ColorSlider   = lipgloss.Color("#B48EAD")
	ColorStatus   = lipgloss.Color("#A3BE8C")
	ColorAlert    = lipgloss.Color("#BF616A")
)
