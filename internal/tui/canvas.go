package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Faultbox/geoglobe/internal/engine/annotation"
	"github.com/Faultbox/geoglobe/internal/engine/lighting"
	"github.com/Faultbox/geoglobe/internal/view"
	"github.com/Faultbox/geoglobe/pkg/math"
)

// Palette (256-color codes).
const (
	colorTitle    = "135" // violet
	colorDim      = "60"
	colorDay      = "39"
	colorTwilight = "25"
	colorNight    = "18"
	colorCloudDay = "252"
	colorCloudDim = "240"
	colorMarker   = "214"
	colorCountry  = "153"
	colorSelected = "196"
	colorTether   = "229"
	colorPanel    = "255"
	colorBorder   = "135"
)

// terminalOffsets are the overlay offsets in viewport pixels for a 1x2 cell
// grid. The desktop offsets would push the panel off a terminal screen.
var terminalOffsets = annotation.Offsets{
	Panel:   math.Vec2{X: 6, Y: -8},
	Attach:  math.Vec2{X: 0, Y: 2},
	Control: math.Vec2{X: -6, Y: 0},
}

type canvas struct {
	cols, rows int
	runes      [][]rune
	colors     [][]lipgloss.Color
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{cols: cols, rows: rows}
	c.runes = make([][]rune, rows)
	c.colors = make([][]lipgloss.Color, rows)
	for y := 0; y < rows; y++ {
		c.runes[y] = []rune(strings.Repeat(" ", cols))
		c.colors[y] = make([]lipgloss.Color, cols)
	}
	return c
}

func (c *canvas) set(x, y int, r rune, color lipgloss.Color) {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return
	}
	c.runes[y][x] = r
	c.colors[y][x] = color
}

func (c *canvas) text(x, y int, s string, color lipgloss.Color) {
	for i, r := range []rune(s) {
		c.set(x+i, y, r, color)
	}
}

// String renders the canvas, styling runs of equal color together.
func (c *canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.rows; y++ {
		start := 0
		for x := 1; x <= c.cols; x++ {
			if x < c.cols && c.colors[y][x] == c.colors[y][start] {
				continue
			}
			run := string(c.runes[y][start:x])
			if color := c.colors[y][start]; color != "" {
				run = lipgloss.NewStyle().Foreground(color).Render(run)
			}
			b.WriteString(run)
			start = x
		}
		if y < c.rows-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	cols, rows := m.canvasSize()
	c := newCanvas(cols, rows)
	if m.hasFrame {
		m.drawGlobe(c)
		m.drawOverlay(c)
	}
	return m.renderHeader() + "\n" + c.String() + "\n" + m.renderDock() + "\n" + m.renderHelp()
}

func (m Model) drawGlobe(c *canvas) {
	r := view.Render(m.frame, m.markers, c.cols, c.rows)
	for y := 0; y < r.Rows; y++ {
		for x := 0; x < r.Cols; x++ {
			cell := r.At(x, y)
			ch, color := cellGlyph(cell)
			c.set(x, y, ch, color)
		}
	}
}

func cellGlyph(cell view.Cell) (rune, lipgloss.Color) {
	switch {
	case cell.Selected:
		return '◉', colorSelected
	case cell.Marker >= 0:
		return '●', colorMarker
	case cell.Shade == view.Space:
		return ' ', ""
	case cell.Border:
		return '+', colorCountry
	case cell.Cloud && cell.Shade == view.Day:
		return '░', colorCloudDay
	case cell.Cloud:
		return '░', colorCloudDim
	}
	switch cell.Shade {
	case view.Day:
		switch {
		case cell.Light > 0.6:
			return '█', colorDay
		case cell.Light > 0.3:
			return '▓', colorDay
		default:
			return '▒', colorDay
		}
	case view.Twilight:
		return '▒', colorTwilight
	default:
		return '·', colorNight
	}
}

// placement projects the selected point with terminal-sized offsets.
func (m Model) placement() annotation.Placement {
	sel := m.frame.Selection
	if !m.hasFrame || !sel.Active() || !sel.DetailOpen || !m.frame.Overlay.Visible {
		return annotation.Placement{}
	}
	cols, rows := m.canvasSize()
	p := annotation.Projector{Offsets: terminalOffsets}
	return p.Project(sel.Position, m.frame.CameraPosition, m.frame.Projection.Mul(m.frame.View),
		annotation.Viewport{Width: float64(cols), Height: float64(rows * 2)})
}

// panelRect returns the detail panel box in cells.
func (m Model) panelRect() (x, y, w, h int, ok bool) {
	pl := m.placement()
	if !pl.Visible {
		return 0, 0, 0, 0, false
	}
	lines := view.PanelLines(m.frame.Selection)
	for _, l := range lines {
		w = max(w, len([]rune(l)))
	}
	return int(pl.Panel.X), int(pl.Panel.Y / 2), w + 2, len(lines) + 2, true
}

func (m Model) overPanel(col, row int) bool {
	x, y, w, h, ok := m.panelRect()
	return ok && col >= x && col < x+w && row >= y && row < y+h
}

func (m Model) drawOverlay(c *canvas) {
	pl := m.placement()
	if !pl.Visible {
		return
	}
	const samples = 24
	for i := 0; i <= samples; i++ {
		p := pl.Tether.Point(float64(i) / samples)
		c.set(int(p.X), int(p.Y/2), '·', colorTether)
	}

	x, y, w, h, _ := m.panelRect()
	for i := 1; i < w-1; i++ {
		c.set(x+i, y, '─', colorBorder)
		c.set(x+i, y+h-1, '─', colorBorder)
	}
	for j := 1; j < h-1; j++ {
		c.set(x, y+j, '│', colorBorder)
		c.set(x+w-1, y+j, '│', colorBorder)
		c.text(x+1, y+j, strings.Repeat(" ", w-2), "")
	}
	c.set(x, y, '┌', colorBorder)
	c.set(x+w-1, y, '┐', colorBorder)
	c.set(x, y+h-1, '└', colorBorder)
	c.set(x+w-1, y+h-1, '┘', colorBorder)
	for j, l := range view.PanelLines(m.frame.Selection) {
		c.text(x+1, y+1+j, l, colorPanel)
	}
}

func (m Model) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorTitle))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorDim))

	if !m.hasFrame {
		return titleStyle.Render(" GEOGLOBE")
	}
	f := m.frame
	lat, lon := lighting.SubsolarPoint(f.Time)
	status := fmt.Sprintf("  %s  sun %s  clouds %.0f%%  wind %.0f km/h",
		f.Time.UTC().Format(time.DateTime+" UTC"), view.FormatLatLon(lat, lon),
		f.CloudDensity*100, f.WindSpeed)
	switch {
	case f.Flying:
		status += "  ✈ flying"
	case f.AutoRotate:
		status += "  ↻ auto-rotate"
	}
	return titleStyle.Render(" GEOGLOBE") + dimStyle.Render(status)
}

// renderDock lists the menu entries, scrolled so the cursor stays visible.
func (m Model) renderDock() string {
	cursorStyle := lipgloss.NewStyle().Reverse(true).Bold(true)
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorSelected))
	plainStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorDim))

	labels := make([]string, len(m.entries))
	for i, e := range m.entries {
		labels[i] = " " + e.Code + " "
	}

	start := 0
	for start < m.cursor && dockWidth(labels[start:m.cursor+1]) > m.width {
		start++
	}

	var b strings.Builder
	used := 0
	for i := start; i < len(labels); i++ {
		used += len([]rune(labels[i]))
		if used > m.width {
			break
		}
		style := plainStyle
		switch {
		case i == m.cursor:
			style = cursorStyle
		case m.frame.Selection.Active() && m.entries[i].ID == m.frame.Selection.Point.ID:
			style = selectedStyle
		}
		b.WriteString(style.Render(labels[i]))
	}
	return b.String()
}

func dockWidth(labels []string) int {
	n := 0
	for _, l := range labels {
		n += len([]rune(l))
	}
	return n
}

func (m Model) renderHelp() string {
	help := " tab/enter fly · h home · r rotate · esc dismiss · arrows orbit · +/- zoom · q quit"
	return lipgloss.NewStyle().Foreground(lipgloss.Color(colorDim)).Render(help)
}
