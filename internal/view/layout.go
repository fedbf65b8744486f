package view

import (
	"github.com/Faultbox/geoglobe/internal/engine/annotation"
	"github.com/Faultbox/geoglobe/pkg/math"
)

// Desktop layout sizes in pixels.
const (
	DockHeight = 44.0
	DockSlot   = 48.0
	DockGap    = 6.0
	DockMargin = 12.0

	PanelWidth  = 220.0
	PanelHeight = 84.0
)

// Rect is an axis-aligned screen rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p math.Vec2) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// DockLayout returns one slot per dock entry, centered along the bottom edge.
func DockLayout(n int, vp annotation.Viewport) []Rect {
	if n <= 0 {
		return nil
	}
	total := float64(n)*DockSlot + float64(n-1)*DockGap
	x := (vp.Width - total) / 2
	y := vp.Height - DockMargin - DockHeight
	out := make([]Rect, n)
	for i := range out {
		out[i] = Rect{X: x + float64(i)*(DockSlot+DockGap), Y: y, W: DockSlot, H: DockHeight}
	}
	return out
}

// SlotAt returns the index of the slot containing p, or -1.
func SlotAt(slots []Rect, p math.Vec2) int {
	for i, s := range slots {
		if s.Contains(p) {
			return i
		}
	}
	return -1
}

// PanelRect is the detail panel box for a placement. ok is false when the
// overlay is hidden.
func PanelRect(pl annotation.Placement) (r Rect, ok bool) {
	if !pl.Visible {
		return Rect{}, false
	}
	return Rect{X: pl.Panel.X, Y: pl.Panel.Y, W: PanelWidth, H: PanelHeight}, true
}
