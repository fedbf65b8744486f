// Package annotation anchors the detail overlay to a selected point in screen space.
package annotation

import (
	"fmt"

	"github.com/Faultbox/geoglobe/pkg/math"
)

// Offsets position the panel and tether relative to the projected point, in pixels.
type Offsets struct {
	Panel   math.Vec2 // panel top-left relative to the anchor
	Attach  math.Vec2 // tether start relative to the panel top-left
	Control math.Vec2 // curve control point relative to the tether midpoint
}

// DefaultOffsets places the panel up and to the right of the point with the
// tether bowing to the left.
func DefaultOffsets() Offsets {
	return Offsets{
		Panel:   math.Vec2{X: 30, Y: -50},
		Attach:  math.Vec2{X: 0, Y: 20},
		Control: math.Vec2{X: -50, Y: 0},
	}
}

// Tether is a quadratic curve from the panel edge to the anchor.
type Tether struct {
	Start   math.Vec2
	Control math.Vec2
	End     math.Vec2
}

// Path renders the tether as an SVG path.
func (t Tether) Path() string {
	return fmt.Sprintf("M %g %g Q %g %g %g %g",
		t.Start.X, t.Start.Y, t.Control.X, t.Control.Y, t.End.X, t.End.Y)
}

// Point evaluates the curve at s in [0, 1].
func (t Tether) Point(s float64) math.Vec2 {
	u := 1 - s
	return t.Start.Scale(u * u).Add(t.Control.Scale(2 * u * s)).Add(t.End.Scale(s * s))
}

// Placement is the overlay layout for one frame. When Visible is false the
// overlay and tether are hidden and the other fields are zero.
type Placement struct {
	Visible bool
	Anchor  math.Vec2
	Panel   math.Vec2
	Tether  Tether
}

// Viewport is the screen size in pixels.
type Viewport struct {
	Width, Height float64
}

// ToPixels maps normalized device coordinates to pixel coordinates (+Y down).
func (v Viewport) ToPixels(ndc math.Vec3) math.Vec2 {
	return math.Vec2{
		X: (ndc.X*0.5 + 0.5) * v.Width,
		Y: (-ndc.Y*0.5 + 0.5) * v.Height,
	}
}

// FrontFacing reports whether a point on a sphere centered at the origin faces
// the camera: its outward normal points against the camera-to-point direction.
func FrontFacing(point, cameraPos math.Vec3) bool {
	return point.Normalize().Dot(point.Sub(cameraPos).Normalize()) < 0
}

// Projector computes overlay placements.
type Projector struct {
	Offsets Offsets
}

// NewProjector returns a projector with the default offsets.
func NewProjector() Projector {
	return Projector{Offsets: DefaultOffsets()}
}

// Project places the overlay for a point seen from cameraPos through viewProj.
// Points on the far hemisphere or behind the camera are hidden.
func (p Projector) Project(point, cameraPos math.Vec3, viewProj math.Mat4, vp Viewport) Placement {
	if !FrontFacing(point, cameraPos) {
		return Placement{}
	}
	ndc, w := viewProj.Project(point)
	if w <= 0 {
		return Placement{}
	}

	anchor := vp.ToPixels(ndc)
	panel := anchor.Add(p.Offsets.Panel)
	start := panel.Add(p.Offsets.Attach)
	return Placement{
		Visible: true,
		Anchor:  anchor,
		Panel:   panel,
		Tether: Tether{
			Start:   start,
			Control: start.Midpoint(anchor).Add(p.Offsets.Control),
			End:     anchor,
		},
	}
}
