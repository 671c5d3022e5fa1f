package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"filterlab/internal/library"
)

// ScanModel shows running library scan counts until the updates channel
// closes. The walk has no known total, so it spins instead of filling a bar.
type ScanModel struct {
	updates  <-chan library.ProgressUpdate
	started  time.Time
	frame    int
	files    int
	images   int
	errors   int
	quitting bool
}

type doneMsg struct{}

type updateMsg library.ProgressUpdate

type spinMsg struct{}

const spinInterval = 120 * time.Millisecond

var spinFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func NewScanModel(updates <-chan library.ProgressUpdate) ScanModel {
	return ScanModel{updates: updates, started: time.Now()}
}

func (m ScanModel) Init() tea.Cmd {
	return tea.Batch(listenForUpdates(m.updates), spin())
}

func (m ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMsg:
		m.files += msg.FilesDelta
		m.images += msg.ImagesDelta
		m.errors += msg.ErrorDelta
		return m, listenForUpdates(m.updates)
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case spinMsg:
		if m.quitting {
			return m, nil
		}
		m.frame = (m.frame + 1) % len(spinFrames)
		return m, spin()
	default:
		return m, nil
	}
}

func (m ScanModel) View() string {
	if m.quitting {
		return ""
	}

	elapsed := time.Since(m.started).Round(time.Millisecond)
	lines := []string{
		titleStyle.Render("filterlab") + " " + barStyle.Render(spinFrames[m.frame]) + dimStyle.Render(" scanning library"),
		labelStyle.Render(fmt.Sprintf("Images: %d", m.images)) + dimStyle.Render(fmt.Sprintf("  of %d files", m.files)),
		dimStyle.Render(fmt.Sprintf("Unreadable: %d  Elapsed: %s", m.errors, elapsed)),
	}
	return strings.Join(lines, "\n")
}

func spin() tea.Cmd {
	return tea.Tick(spinInterval, func(time.Time) tea.Msg { return spinMsg{} })
}

func listenForUpdates(updates <-chan library.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return doneMsg{}
		}
		return updateMsg(update)
	}
}

func barWidth(termWidth int) int {
	if termWidth <= 0 {
		return 40
	}
	w := int(math.Min(60, float64(termWidth-10)))
	if w < 20 {
		w = 20
	}
	return w
}

func renderBar(width int, ratio float64) string {
	filled := int(math.Round(ratio * float64(width)))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorSelected)
	labelStyle = lipgloss.NewStyle().Foreground(ColorText)
	barStyle   = lipgloss.NewStyle().Foreground(ColorSlider)
	dimStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
)
