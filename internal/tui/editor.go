package tui

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"filterlab/internal/editor"
	"filterlab/internal/filter"
	"filterlab/internal/library"
	"filterlab/internal/photo"
	"filterlab/internal/transform"
)

const (
	intensityStep = 0.05
	pinchStep     = 1.1
	rotateStep    = math.Pi / 12
)

// Sender delivers user actions to the editing session.
type Sender interface {
	Send(editor.Input) bool
}

type EditorOptions struct {
	Sender  Sender
	Events  <-chan editor.Event
	Catalog filter.Catalog
	// Entries feed the picker; empty disables it.
	Entries []library.Entry
	Load    func(path string) (*photo.Image, error)
}

// EditorModel is the interactive presentation of one session. It keeps a
// mirror of session state built only from events.
type EditorModel struct {
	sender  Sender
	events  <-chan editor.Event
	catalog filter.Catalog
	entries []library.Entry
	load    func(string) (*photo.Image, error)

	source    *photo.Image
	rendered  *photo.Image
	index     int
	intensity float64
	previews  filter.PreviewSet
	allReady  bool
	gesture   transform.Gesture

	pickerOpen bool
	cursor     int
	saving     bool
	status     string
	alert      bool
	width      int
	height     int
	quitting   bool
}

type eventMsg struct{ event editor.Event }

type eventsClosedMsg struct{}

type loadedMsg struct {
	path  string
	image *photo.Image
	err   error
}

func NewEditorModel(opts EditorOptions) EditorModel {
	if opts.Catalog == nil {
		opts.Catalog = filter.DefaultCatalog()
	}
	if opts.Load == nil {
		opts.Load = photo.Load
	}
	return EditorModel{
		sender:     opts.Sender,
		events:     opts.Events,
		catalog:    opts.Catalog,
		entries:    opts.Entries,
		load:       opts.Load,
		gesture:    transform.NewGesture(),
		pickerOpen: len(opts.Entries) > 0,
	}
}

func (m EditorModel) Init() tea.Cmd {
	return listenForEvents(m.events)
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m = m.apply(msg.event)
		return m, listenForEvents(m.events)
	case eventsClosedMsg:
		m.quitting = true
		return m, tea.Quit
	case loadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("could not open %s: %v", filepath.Base(msg.path), msg.err)
			m.alert = true
			return m, nil
		}
		m.status, m.alert = "opening "+filepath.Base(msg.path), false
		m.sender.Send(editor.ImagePicked{Image: msg.image})
		return m, nil
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m EditorModel) apply(ev editor.Event) EditorModel {
	switch ev := ev.(type) {
	case editor.ImageLoaded:
		m.source, m.rendered = ev.Source, ev.Source
		m.previews, m.allReady = filter.PreviewSet{}, false
		m.gesture.Reset()
		m.pickerOpen = false
		m.status, m.alert = "loaded "+ev.Source.Name(), false
	case editor.ImageCleared:
		m.source, m.rendered = nil, nil
		m.index, m.intensity = 0, 0
		m.previews, m.allReady = filter.PreviewSet{}, false
		m.gesture.Reset()
		m.pickerOpen = len(m.entries) > 0
	case editor.SelectionChanged:
		m.index, m.intensity = ev.Index, ev.Intensity
	case editor.Rendered:
		m.rendered = ev.Image
	case editor.PreviewsChanged:
		m.previews, m.allReady = ev.Previews, ev.AllReady
	case editor.SaveFinished:
		m.saving = false
		m.alert = !ev.OK
		if ev.OK {
			m.status = "saved " + ev.Path
		} else {
			m.status = fmt.Sprintf("save failed: %v", ev.Err)
		}
	}
	return m
}

func (m EditorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" || key == "q" {
		m.quitting = true
		return m, tea.Quit
	}
	if m.pickerOpen {
		return m.handlePickerKey(key)
	}

	switch key {
	case "o":
		if len(m.entries) > 0 {
			m.pickerOpen = true
		}
	case "left", "h":
		m.selectFilter(m.index - 1)
	case "right", "l":
		m.selectFilter(m.index + 1)
	case "up", "k":
		m.nudge(intensityStep)
	case "down", "j":
		m.nudge(-intensityStep)
	case "z", "+":
		m.gesture.Pinch(pinchStep)
	case "x", "-":
		m.gesture.Pinch(1 / pinchStep)
	case "H":
		m.gesture.Pan(-1, 0)
	case "L":
		m.gesture.Pan(1, 0)
	case "K":
		m.gesture.Pan(0, -1)
	case "J":
		m.gesture.Pan(0, 1)
	case "]":
		m.gesture.Rotate(rotateStep)
	case "[":
		m.gesture.Rotate(-rotateStep)
	case "s":
		if m.source != nil && !m.saving {
			m.saving = true
			m.status, m.alert = "saving...", false
			m.sender.Send(editor.SaveRequested{Scale: m.gesture.Scale, Rotation: m.gesture.Rotation})
		}
	case "r":
		m.sender.Send(editor.ResetRequested{})
	}
	return m, nil
}

func (m EditorModel) handlePickerKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "esc", "o":
		m.pickerOpen = false
	case "enter":
		if m.cursor < len(m.entries) {
			return m, loadImage(m.load, m.entries[m.cursor].Path)
		}
	}
	return m, nil
}

func (m *EditorModel) selectFilter(i int) {
	if m.source == nil {
		return
	}
	n := m.catalog.Len()
	i = ((i % n) + n) % n
	m.sender.Send(editor.FilterTapped{Index: i})
}

func (m *EditorModel) nudge(delta float64) {
	def, ok := m.catalog.At(m.index)
	if m.source == nil || !ok || def.IsOriginal() {
		return
	}
	m.intensity = def.Clamp(m.intensity + delta)
	m.sender.Send(editor.IntensityDragged{Value: m.intensity})
}

func (m EditorModel) View() string {
	if m.quitting {
		return ""
	}
	if m.pickerOpen {
		return m.pickerView()
	}

	lines := []string{titleStyle.Render("filterlab")}
	if m.source == nil {
		lines = append(lines, dimStyle.Render("no image loaded"))
	} else {
		cols, rows := m.canvasSize()
		lines = append(lines,
			labelStyle.Render(m.source.Name())+dimStyle.Render(fmt.Sprintf("  %dx%d", m.source.Bounds().Dx(), m.source.Bounds().Dy())),
			RenderImage(m.rendered.Raster(), cols, rows),
			m.filterStrip(),
		)
		if def, ok := m.catalog.At(m.index); ok && !def.IsOriginal() {
			ratio := 0.0
			if def.Max > def.Min {
				ratio = (m.intensity - def.Min) / (def.Max - def.Min)
			}
			lines = append(lines, barStyle.Render(renderBar(barWidth(m.width), ratio))+dimStyle.Render(fmt.Sprintf(" %.2f", m.intensity)))
		}
		lines = append(lines, dimStyle.Render(fmt.Sprintf("zoom %.2fx  rotate %.0f°  pan %+.0f,%+.0f", m.gesture.Scale, m.gesture.Degrees(), m.gesture.PanX, m.gesture.PanY)))
	}
	if m.status != "" {
		lines = append(lines, m.statusLine())
	}
	lines = append(lines, dimStyle.Render("←/→ filter  ↑/↓ intensity  z/x zoom  [/] rotate  s save  r reset  o open  q quit"))
	return strings.Join(lines, "\n")
}

func (m EditorModel) statusLine() string {
	if m.alert {
		return alertStyle.Render(m.status)
	}
	return statusStyle.Render(m.status)
}

func (m EditorModel) filterStrip() string {
	parts := make([]string, 0, m.catalog.Len())
	for i, def := range m.catalog {
		marker := "·"
		if m.previews.At(i) != nil {
			marker = "•"
		}
		name := marker + " " + string(def.Name)
		if i == m.index {
			parts = append(parts, selectedStyle.Render(name))
		} else {
			parts = append(parts, labelStyle.Render(name))
		}
	}
	strip := strings.Join(parts, "  ")
	if !m.allReady && m.previews.Len() > 0 {
		strip += dimStyle.Render("  (previews pending)")
	}
	return strip
}

func (m EditorModel) pickerView() string {
	lines := []string{titleStyle.Render("filterlab") + dimStyle.Render("  pick an image")}
	for i, e := range m.entries {
		row := fmt.Sprintf("%s  %s", e.RelPath, dimStyle.Render(e.Kind.String()))
		if i == m.cursor {
			lines = append(lines, selectedStyle.Render("> ")+row)
		} else {
			lines = append(lines, "  "+row)
		}
	}
	if m.status != "" {
		lines = append(lines, m.statusLine())
	}
	lines = append(lines, dimStyle.Render("↑/↓ move  enter open  esc close  q quit"))
	return strings.Join(lines, "\n")
}

func (m EditorModel) canvasSize() (int, int) {
	cols, rows := 64, 20
	if m.width > 4 {
		cols = m.width - 2
	}
	if m.height > 12 {
		rows = m.height - 8
	}
	return cols, rows
}

func listenForEvents(events <-chan editor.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg{event: ev}
	}
}

func loadImage(load func(string) (*photo.Image, error), path string) tea.Cmd {
	return func() tea.Msg {
		img, err := load(path)
		return loadedMsg{path: path, image: img, err: err}
	}
}

var (
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorSelected)
	statusStyle   = lipgloss.NewStyle().Foreground(ColorStatus)
	alertStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorAlert)
)
