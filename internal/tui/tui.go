// Package tui drives the globe engine from a terminal using Bubble Tea.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Faultbox/geoglobe/internal/config"
	"github.com/Faultbox/geoglobe/internal/engine/picking"
	"github.com/Faultbox/geoglobe/internal/engine/pointer"
	"github.com/Faultbox/geoglobe/internal/geo"
	"github.com/Faultbox/geoglobe/internal/globe"
	"github.com/Faultbox/geoglobe/pkg/math"
)

// Screen rows around the globe canvas.
const (
	headerLines = 1
	footerLines = 2
)

// HitRadius is the marker pick radius for terminal cells, which are far
// coarser than desktop pixels.
const HitRadius = 0.35

// Deps returns engine collaborators tuned for a terminal grid.
func Deps(cat *geo.Catalog, cfg *config.Config) globe.Deps {
	d := globe.DepsFromConfig(cat, cfg)
	p := picking.NewMarkerPicker(cat.Markers(geo.MarkerRadius), geo.GlobeRadius)
	p.HitRadius = HitRadius
	d.Picker = p
	return d
}

// TickMsg advances the engine by one frame.
type TickMsg time.Time

// Model is the root Bubble Tea model. The engine is ticked from Update, so the
// Bubble Tea event loop is the engine's frame goroutine.
type Model struct {
	engine  *globe.Engine
	entries []geo.MenuEntry
	markers []math.Vec3

	frameInterval time.Duration
	now           func() time.Time

	width, height int
	ready         bool
	cursor        int // selected dock entry
	dragging      bool

	frame    globe.Frame
	hasFrame bool
}

// New creates a model for an engine ticking at fps.
func New(engine *globe.Engine, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	cat := engine.Catalog()
	return Model{
		engine:        engine,
		entries:       cat.MenuEntries(),
		markers:       cat.Markers(geo.MarkerRadius),
		frameInterval: time.Second / time.Duration(fps),
		now:           time.Now,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.frameInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(tea.MouseEvent(msg))

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		cols, rows := m.canvasSize()
		m.engine.SetViewport(float64(cols), float64(rows*2))

	case TickMsg:
		m.frame = m.engine.Tick(time.Time(msg))
		m.hasFrame = true
		return m, m.tickCmd()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	_, rows := m.canvasSize()
	step := float64(rows*2) / 24

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "h":
		m.engine.Command(globe.Command{Kind: globe.FlyHome})
	case "r":
		m.engine.Command(globe.Command{Kind: globe.ToggleRotation})
	case "esc":
		m.engine.Command(globe.Command{Kind: globe.Dismiss})
	case "left":
		m.engine.Command(globe.Command{Kind: globe.Orbit, DX: step})
	case "right":
		m.engine.Command(globe.Command{Kind: globe.Orbit, DX: -step})
	case "up":
		m.engine.Command(globe.Command{Kind: globe.Orbit, DY: step})
	case "down":
		m.engine.Command(globe.Command{Kind: globe.Orbit, DY: -step})
	case "+", "=":
		m.engine.Command(globe.Command{Kind: globe.Zoom, DY: 1})
	case "-":
		m.engine.Command(globe.Command{Kind: globe.Zoom, DY: -1})
	case "tab":
		m.cursor = (m.cursor + 1) % len(m.entries)
	case "shift+tab":
		m.cursor = (m.cursor + len(m.entries) - 1) % len(m.entries)
	case "enter":
		m.activate(m.entries[m.cursor])
	}
	return m, nil
}

// activate runs a dock entry.
func (m Model) activate(e geo.MenuEntry) {
	if e.Home {
		m.engine.Command(globe.Command{Kind: globe.FlyHome})
		return
	}
	m.engine.Command(globe.Command{Kind: globe.FlyTo, PointID: e.ID})
}

func (m *Model) handleMouse(e tea.MouseEvent) {
	switch e.Button {
	case tea.MouseButtonWheelUp:
		m.engine.Command(globe.Command{Kind: globe.Zoom, DY: 1})
		return
	case tea.MouseButtonWheelDown:
		m.engine.Command(globe.Command{Kind: globe.Zoom, DY: -1})
		return
	}

	ev := m.pointerEvent(e)
	switch e.Action {
	case tea.MouseActionPress:
		ev.Primary = e.Button == tea.MouseButtonLeft
		m.dragging = ev.Primary
		m.engine.Pointer(globe.PointerInput{Phase: globe.PointerDown, Event: ev})
	case tea.MouseActionMotion:
		if m.dragging {
			ev.Primary = true
			m.engine.Pointer(globe.PointerInput{Phase: globe.PointerMove, Event: ev})
		}
	case tea.MouseActionRelease:
		// Some terminals report releases without a button.
		ev.Primary = m.dragging
		m.dragging = false
		m.engine.Pointer(globe.PointerInput{Phase: globe.PointerUp, Event: ev})
	}
}

// pointerEvent converts a terminal cell to viewport pixels. Every cell is one
// pixel wide and two pixels tall.
func (m Model) pointerEvent(e tea.MouseEvent) pointer.Event {
	cols, rows := m.canvasSize()
	row := e.Y - headerLines
	return pointer.Event{
		X:      float64(e.X) + 0.5,
		Y:      (float64(row) + 0.5) * 2,
		Time:   m.now(),
		OverUI: row < 0 || row >= rows || e.X >= cols || m.overPanel(e.X, row),
	}
}

// canvasSize returns the globe area in cells.
func (m Model) canvasSize() (cols, rows int) {
	return max(m.width, 1), max(m.height-headerLines-footerLines, 1)
}

// Frame returns the most recent engine frame.
func (m Model) Frame() (globe.Frame, bool) {
	return m.frame, m.hasFrame
}
