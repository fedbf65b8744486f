package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Faultbox/geoglobe/internal/config"
	"github.com/Faultbox/geoglobe/internal/geo"
	"github.com/Faultbox/geoglobe/internal/globe"
	"github.com/Faultbox/geoglobe/internal/view"
)

var t0 = time.Date(2026, 6, 21, 12, 0, 0, 0, time.UTC)

type harness struct {
	t   *testing.T
	m   Model
	now time.Time
}

func newHarness(t *testing.T, width, height int) *harness {
	t.Helper()
	cat, err := geo.DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	cfg := config.Default()
	e := globe.New(cat, cfg, globe.WithDeps(Deps(cat, cfg)))
	t.Cleanup(e.Close)

	h := &harness{t: t, m: New(e, 30), now: t0}
	h.m.now = func() time.Time { return h.now }
	h.send(tea.WindowSizeMsg{Width: width, Height: height})
	h.tick(1)
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

func (h *harness) key(k tea.KeyMsg) {
	h.send(k)
}

func (h *harness) tick(n int) globe.Frame {
	for i := 0; i < n; i++ {
		h.now = h.now.Add(50 * time.Millisecond)
		h.send(TickMsg(h.now))
	}
	f, _ := h.m.Frame()
	return f
}

func (h *harness) click(col, row int) {
	h.send(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	h.send(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
}

// markerCell returns the screen cell of a catalog point in the last frame.
func (h *harness) markerCell(id string) (col, row int) {
	h.t.Helper()
	p, _, err := h.m.engine.Catalog().Lookup(id)
	if err != nil {
		h.t.Fatal(err)
	}
	f, _ := h.m.Frame()
	cols, rows := h.m.canvasSize()
	ndc, w := f.Projection.Mul(f.View).Project(p.Position(geo.MarkerRadius))
	if w <= 0 {
		h.t.Fatalf("%s is behind the camera", id)
	}
	col = int((ndc.X + 1) / 2 * float64(cols))
	row = int((1 - ndc.Y) / 2 * float64(rows))
	return col, row + headerLines
}

func (h *harness) flyViaDock(id string) globe.Frame {
	h.t.Helper()
	idx := -1
	for i, e := range h.m.entries {
		if e.ID == id {
			idx = i
		}
	}
	if idx < 0 {
		h.t.Fatalf("no dock entry %q", id)
	}
	for i := 0; i < idx; i++ {
		h.key(tea.KeyMsg{Type: tea.KeyTab})
	}
	h.key(tea.KeyMsg{Type: tea.KeyEnter})
	return h.tick(40)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestViewBeforeResize(t *testing.T) {
	cat, err := geo.DefaultCatalog()
	if err != nil {
		t.Fatal(err)
	}
	e := globe.New(cat, nil)
	t.Cleanup(e.Close)

	if got := New(e, 30).View(); got != "Initializing..." {
		t.Errorf("View() = %q", got)
	}
}

func TestViewFillsScreen(t *testing.T) {
	h := newHarness(t, 100, 30)

	out := h.m.View()
	if lines := strings.Count(out, "\n") + 1; lines != 30 {
		t.Errorf("View has %d lines, want 30", lines)
	}
	if !strings.Contains(out, "GEOGLOBE") {
		t.Error("header missing")
	}
	if !strings.Contains(out, "HOME") && !strings.Contains(out, "⌂") {
		t.Error("dock missing home entry")
	}
}

func TestDockFliesToPoint(t *testing.T) {
	h := newHarness(t, 100, 30)

	f := h.flyViaDock("France")
	if f.Selection.Point.ID != "France" {
		t.Fatalf("selected %q, want France", f.Selection.Point.ID)
	}
	if f.Flying {
		t.Error("flight should have finished")
	}

	out := h.m.View()
	for _, want := range []string{"France [FRA]", "Capital: Paris", "clear (offline)"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestDockHomeEntry(t *testing.T) {
	h := newHarness(t, 100, 30)
	h.flyViaDock("France")

	// Cursor is on France; walk back to the home entry.
	for h.m.cursor != 0 {
		h.key(tea.KeyMsg{Type: tea.KeyShiftTab})
	}
	h.key(tea.KeyMsg{Type: tea.KeyEnter})
	f := h.tick(40)

	if f.Selection.Active() {
		t.Errorf("home flight should clear the selection, got %q", f.Selection.Point.ID)
	}
}

func TestKeys(t *testing.T) {
	h := newHarness(t, 100, 30)

	if cmd := h.send(runes("q")); cmd == nil {
		t.Fatal("q returned no command")
	} else if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}

	h.key(runes("r"))
	if f := h.tick(1); !f.AutoRotate {
		t.Error("r should enable auto-rotate")
	}

	h.flyViaDock("Japan")
	h.key(tea.KeyMsg{Type: tea.KeyEsc})
	if f := h.tick(1); f.Selection.Active() || f.Overlay.Visible {
		t.Error("esc should dismiss the detail view")
	}
}

func TestArrowKeysOrbit(t *testing.T) {
	h := newHarness(t, 100, 30)
	before := h.tick(1).CameraPosition

	h.key(tea.KeyMsg{Type: tea.KeyLeft})
	after := h.tick(1).CameraPosition

	if before.Distance(after) < 1e-6 {
		t.Error("left arrow should orbit the camera")
	}
	if d := after.Length() - before.Length(); d > 1e-6 || d < -1e-6 {
		t.Errorf("orbit changed the camera distance by %v", d)
	}
}

func TestZoomKeys(t *testing.T) {
	h := newHarness(t, 100, 30)
	before := h.tick(1).CameraPosition.Length()

	h.key(runes("+"))
	if after := h.tick(1).CameraPosition.Length(); after >= before {
		t.Errorf("zoom in: distance %v -> %v", before, after)
	}
}

func TestMouseTapSelectsMarker(t *testing.T) {
	h := newHarness(t, 100, 30)

	col, row := h.markerCell("Mexico")
	h.click(col, row)
	f := h.tick(1)

	if f.Selection.Point.ID != "Mexico" {
		t.Errorf("tap selected %q, want Mexico", f.Selection.Point.ID)
	}
}

func TestMouseTapSpaceDismisses(t *testing.T) {
	h := newHarness(t, 100, 30)
	h.flyViaDock("France")

	h.click(0, headerLines)
	if f := h.tick(1); f.Selection.Active() {
		t.Error("tap on empty space should clear the selection")
	}
}

func TestMouseTapOnPanelKeepsSelection(t *testing.T) {
	h := newHarness(t, 100, 30)
	h.flyViaDock("France")

	x, y, w, hgt, ok := h.m.panelRect()
	if !ok {
		t.Fatal("panel should be visible")
	}
	h.click(x+w-2, y+hgt-2+headerLines)
	if f := h.tick(1); f.Selection.Point.ID != "France" {
		t.Errorf("tap on the panel changed the selection to %q", f.Selection.Point.ID)
	}
}

func TestMouseDragOrbits(t *testing.T) {
	h := newHarness(t, 100, 30)
	before := h.tick(1).CameraPosition

	h.send(tea.MouseMsg{X: 50, Y: 14, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	h.send(tea.MouseMsg{X: 60, Y: 14, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	h.send(tea.MouseMsg{X: 70, Y: 14, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	f := h.tick(1)

	if before.Distance(f.CameraPosition) < 1e-6 {
		t.Error("drag should orbit the camera")
	}
	if f.Selection.Active() {
		t.Error("drag should not select")
	}
}

func TestDockScrollsToCursor(t *testing.T) {
	h := newHarness(t, 20, 30)

	last := h.m.entries[len(h.m.entries)-1]
	n := len(h.m.entries) - 1
	for i := 0; i < n; i++ {
		h.key(tea.KeyMsg{Type: tea.KeyTab})
	}
	if got := h.m.renderDock(); !strings.Contains(got, last.Code) {
		t.Errorf("dock %q does not show the cursor entry %q", got, last.Code)
	}
}

func TestCellGlyph(t *testing.T) {
	tests := []struct {
		name string
		cell view.Cell
		want rune
	}{
		{"space", view.Cell{Shade: view.Space, Marker: -1}, ' '},
		{"night", view.Cell{Shade: view.Night, Marker: -1}, '·'},
		{"bright day", view.Cell{Shade: view.Day, Light: 0.9, Marker: -1}, '█'},
		{"cloud", view.Cell{Shade: view.Day, Light: 0.9, Cloud: true, Marker: -1}, '░'},
		{"border", view.Cell{Shade: view.Night, Border: true, Marker: -1}, '+'},
		{"border through cloud", view.Cell{Shade: view.Day, Border: true, Cloud: true, Marker: -1}, '+'},
		{"marker on border", view.Cell{Shade: view.Day, Border: true, Marker: 3}, '●'},
		{"marker", view.Cell{Shade: view.Day, Marker: 3}, '●'},
		{"selected", view.Cell{Shade: view.Day, Marker: 3, Selected: true}, '◉'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := cellGlyph(tt.cell); got != tt.want {
				t.Errorf("cellGlyph() = %q, want %q", got, tt.want)
			}
		})
	}
}
