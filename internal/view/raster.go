// Package view samples a frame into a coarse grid of globe cells for the
// terminal and SDL drivers.
package view

import (
	gomath "math"

	"github.com/Faultbox/geoglobe/internal/engine/annotation"
	"github.com/Faultbox/geoglobe/internal/engine/picking"
	"github.com/Faultbox/geoglobe/internal/geo"
	"github.com/Faultbox/geoglobe/internal/globe"
	"github.com/Faultbox/geoglobe/pkg/math"
)

// Shade is the illumination class of a cell.
type Shade int

const (
	Space Shade = iota
	Night
	Twilight
	Day
)

// twilightBand is the half-width of the terminator band in cos(sun angle).
const twilightBand = 0.1

// Cell is one sample of the globe.
type Cell struct {
	Shade    Shade
	Light    float64 // dot(surface normal, sun), 0 in space
	Cloud    bool
	Border   bool
	Marker   int // catalog index of a visible marker, -1 if none
	Selected bool
}

// Raster is a row-major grid of cells covering the viewport.
type Raster struct {
	Cols, Rows int
	Cells      []Cell
}

// At returns the cell at col, row.
func (r *Raster) At(col, row int) Cell {
	return r.Cells[row*r.Cols+col]
}

func (r *Raster) set(col, row int, c Cell) {
	r.Cells[row*r.Cols+col] = c
}

// CellOf maps a pixel position in vp to its cell.
func (r *Raster) CellOf(p math.Vec2, vp annotation.Viewport) (col, row int, ok bool) {
	if vp.Width <= 0 || vp.Height <= 0 {
		return 0, 0, false
	}
	col = int(gomath.Floor(p.X / vp.Width * float64(r.Cols)))
	row = int(gomath.Floor(p.Y / vp.Height * float64(r.Rows)))
	if col < 0 || row < 0 || col >= r.Cols || row >= r.Rows {
		return 0, 0, false
	}
	return col, row, true
}

// Render samples f at the center of every cell. markers are scene positions
// in catalog order.
func Render(f globe.Frame, markers []math.Vec3, cols, rows int) *Raster {
	r := &Raster{Cols: cols, Rows: rows, Cells: make([]Cell, cols*rows)}
	if cols <= 0 || rows <= 0 {
		return r
	}

	vp := f.Projection.Mul(f.View)
	inv := vp.Inverse()
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			ndcX := (float64(col)+0.5)/float64(cols)*2 - 1
			ndcY := 1 - (float64(row)+0.5)/float64(rows)*2
			r.set(col, row, sample(picking.NDCToRay(ndcX, ndcY, inv), f))
		}
	}

	for _, l := range VisibleBorders(f, annotation.Viewport{Width: float64(cols), Height: float64(rows)}) {
		r.trace(l)
	}

	for i, m := range markers {
		if !annotation.FrontFacing(m, f.CameraPosition) {
			continue
		}
		ndc, w := vp.Project(m)
		if w <= 0 || gomath.Abs(ndc.X) > 1 || gomath.Abs(ndc.Y) > 1 {
			continue
		}
		col := min(int((ndc.X+1)/2*float64(cols)), cols-1)
		row := min(int((1-ndc.Y)/2*float64(rows)), rows-1)
		c := r.At(col, row)
		c.Marker = i
		c.Selected = f.Selection.Active() && f.Selection.Index == i
		r.set(col, row, c)
	}
	return r
}

func sample(ray picking.Ray, f globe.Frame) Cell {
	t, ok := ray.IntersectSphere(math.Vec3{}, geo.GlobeRadius)
	if !ok {
		return Cell{Shade: Space, Marker: -1}
	}
	p := ray.At(t)
	light := p.Normalize().Dot(f.Sun)

	c := Cell{Light: light, Marker: -1}
	switch {
	case light > twilightBand:
		c.Shade = Day
	case light > -twilightBand:
		c.Shade = Twilight
	default:
		c.Shade = Night
	}
	c.Cloud = cloudAt(p.RotateY(-f.CloudRotation), f.CloudDensity)
	return c
}

// cloudAt is a cheap deterministic cloud mask on the cloud shell's own frame,
// covering roughly density·0.6 of the surface.
func cloudAt(p math.Vec3, density float64) bool {
	s := math.SphericalFromVec3(p)
	// 6° cells so clouds look like patches rather than per-pixel noise.
	const cell = 6 * gomath.Pi / 180
	lat := gomath.Floor(s.Polar / cell)
	lon := gomath.Floor(s.Azimuth / cell)
	h := gomath.Sin(lat*12.9898+lon*78.233) * 43758.5453
	h -= gomath.Floor(h)
	return h < density*0.6
}
