package view

import (
	gomath "math"

	"github.com/Faultbox/geoglobe/internal/engine/annotation"
	"github.com/Faultbox/geoglobe/internal/globe"
	"github.com/Faultbox/geoglobe/pkg/math"
)

// BorderLine is a border segment in viewport pixels.
type BorderLine struct {
	A, B math.Vec2
}

// VisibleBorders projects the frame's border segments into vp. A segment is
// kept only when both ends face the camera.
func VisibleBorders(f globe.Frame, vp annotation.Viewport) []BorderLine {
	if len(f.Borders) == 0 {
		return nil
	}
	m := f.Projection.Mul(f.View)
	var out []BorderLine
	for _, s := range f.Borders {
		if !annotation.FrontFacing(s.A, f.CameraPosition) || !annotation.FrontFacing(s.B, f.CameraPosition) {
			continue
		}
		a, wa := m.Project(s.A)
		b, wb := m.Project(s.B)
		if wa <= 0 || wb <= 0 {
			continue
		}
		out = append(out, BorderLine{A: vp.ToPixels(a), B: vp.ToPixels(b)})
	}
	return out
}

// trace flags every globe cell the line crosses. Endpoints are in cell units.
func (r *Raster) trace(l BorderLine) {
	d := l.B.Sub(l.A)
	n := int(gomath.Ceil(gomath.Max(gomath.Abs(d.X), gomath.Abs(d.Y))))
	for i := 0; i <= n; i++ {
		p := l.A
		if n > 0 {
			p = l.A.Add(d.Scale(float64(i) / float64(n)))
		}
		col, row := int(gomath.Floor(p.X)), int(gomath.Floor(p.Y))
		if col < 0 || row < 0 || col >= r.Cols || row >= r.Rows {
			continue
		}
		if c := &r.Cells[row*r.Cols+col]; c.Shade != Space {
			c.Border = true
		}
	}
}
