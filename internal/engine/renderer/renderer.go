// Package renderer draws engine frames with the SDL2 2D renderer.
package renderer

import (
	"fmt"
	gomath "math"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/geoglobe/internal/engine/annotation"
	"github.com/Faultbox/geoglobe/internal/globe"
	"github.com/Faultbox/geoglobe/internal/logger"
	"github.com/Faultbox/geoglobe/internal/view"
	"github.com/Faultbox/geoglobe/pkg/math"
)

// DefaultCellSize is the globe sampling step in pixels.
const DefaultCellSize = 6

// lightLevels quantizes surface light so cells batch into few fill calls.
const lightLevels = 16

const markerSize = 8

// Config holds renderer configuration.
type Config struct {
	Width    int
	Height   int
	CellSize int
}

// Scene is everything drawn in one frame.
type Scene struct {
	Frame        globe.Frame
	Markers      []math.Vec3
	DockEntries  int
	DockCursor   int
	DockSelected int // -1 when no dock entry is selected
}

// Renderer draws scenes.
type Renderer struct {
	config Config
	sdl    *sdl.Renderer
	batch  map[Color][]sdl.Rect
}

// New creates a renderer drawing through r.
func New(r *sdl.Renderer, cfg Config) *Renderer {
	if cfg.CellSize <= 0 {
		cfg.CellSize = DefaultCellSize
	}
	logger.Info("renderer initialized",
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("cell_size", cfg.CellSize),
	)
	return &Renderer{config: cfg, sdl: r, batch: make(map[Color][]sdl.Rect)}
}

// Resize updates the target size.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	logger.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Viewport returns the target size.
func (r *Renderer) Viewport() annotation.Viewport {
	return annotation.Viewport{Width: float64(r.config.Width), Height: float64(r.config.Height)}
}

// Begin clears the frame.
func (r *Renderer) Begin() error {
	if err := r.setColor(ColorSpace); err != nil {
		return err
	}
	return r.sdl.Clear()
}

// End presents the frame.
func (r *Renderer) End() {
	r.sdl.Present()
}

// Draw renders the globe, markers, overlay and dock.
func (r *Renderer) Draw(s Scene) error {
	if err := r.drawGlobe(s.Frame); err != nil {
		return fmt.Errorf("drawing globe: %w", err)
	}
	if err := r.drawMarkers(s); err != nil {
		return fmt.Errorf("drawing markers: %w", err)
	}
	if err := r.drawOverlay(s.Frame.Overlay); err != nil {
		return fmt.Errorf("drawing overlay: %w", err)
	}
	if err := r.drawDock(s); err != nil {
		return fmt.Errorf("drawing dock: %w", err)
	}
	return nil
}

func (r *Renderer) drawGlobe(f globe.Frame) error {
	size := r.config.CellSize
	cols, rows := r.config.Width/size, r.config.Height/size
	raster := view.Render(f, nil, cols, rows)

	clear(r.batch)
	var clouds []sdl.Rect
	for y := 0; y < raster.Rows; y++ {
		for x := 0; x < raster.Cols; x++ {
			cell := raster.At(x, y)
			if cell.Shade == view.Space {
				continue
			}
			rect := sdl.Rect{X: int32(x * size), Y: int32(y * size), W: int32(size), H: int32(size)}
			c := surfaceColor(cell)
			r.batch[c] = append(r.batch[c], rect)
			if cell.Cloud && cell.Shade != view.Night {
				clouds = append(clouds, rect)
			}
		}
	}

	for c, rects := range r.batch {
		if err := r.fill(c, rects); err != nil {
			return err
		}
	}
	if err := r.drawBorders(f); err != nil {
		return err
	}
	return r.fill(ColorCloud, clouds)
}

// drawBorders strokes the near-side country outlines under the cloud layer.
func (r *Renderer) drawBorders(f globe.Frame) error {
	lines := view.VisibleBorders(f, r.Viewport())
	if len(lines) == 0 {
		return nil
	}
	if err := r.setColor(ColorCountry); err != nil {
		return err
	}
	for _, l := range lines {
		if err := r.sdl.DrawLine(int32(l.A.X), int32(l.A.Y), int32(l.B.X), int32(l.B.Y)); err != nil {
			return err
		}
	}
	return nil
}

// surfaceColor shades a cell from night to day by its quantized light level.
func surfaceColor(cell view.Cell) Color {
	t := math.Clamp((cell.Light+0.1)/0.5, 0, 1)
	t = gomath.Round(t*lightLevels) / lightLevels
	c := ColorNight.Lerp(ColorDay, float32(t))
	if cell.Shade == view.Twilight {
		c = c.Lerp(ColorTwilight, 0.35)
	}
	if cell.Cloud && cell.Shade == view.Night {
		c = c.Lerp(ColorCloud.Darken(0.7), 0.5)
	}
	return c
}

func (r *Renderer) drawMarkers(s Scene) error {
	f := s.Frame
	vp := f.Projection.Mul(f.View)
	port := r.Viewport()

	for i, m := range s.Markers {
		if !annotation.FrontFacing(m, f.CameraPosition) {
			continue
		}
		ndc, w := vp.Project(m)
		if w <= 0 {
			continue
		}
		p := port.ToPixels(ndc)
		c := ColorMarker
		if f.Selection.Active() && f.Selection.Index == i {
			c = ColorSelected
		}
		rect := sdl.Rect{
			X: int32(p.X) - markerSize/2,
			Y: int32(p.Y) - markerSize/2,
			W: markerSize,
			H: markerSize,
		}
		if err := r.fill(c, []sdl.Rect{rect}); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) drawOverlay(pl annotation.Placement) error {
	panel, ok := view.PanelRect(pl)
	if !ok {
		return nil
	}

	const samples = 32
	points := make([]sdl.Point, samples+1)
	for i := range points {
		p := pl.Tether.Point(float64(i) / samples)
		points[i] = sdl.Point{X: int32(p.X), Y: int32(p.Y)}
	}
	if err := r.setColor(ColorTether); err != nil {
		return err
	}
	if err := r.sdl.DrawLines(points); err != nil {
		return err
	}

	rect := toSDL(panel)
	if err := r.fill(ColorPanelBg, []sdl.Rect{rect}); err != nil {
		return err
	}
	return r.outline(ColorBorder, rect)
}

func (r *Renderer) drawDock(s Scene) error {
	for i, slot := range view.DockLayout(s.DockEntries, r.Viewport()) {
		rect := toSDL(slot)
		bg := ColorDockBg
		if i == s.DockSelected {
			bg = ColorSelected.Darken(0.4)
		}
		if err := r.fill(bg, []sdl.Rect{rect}); err != nil {
			return err
		}
		if i == s.DockCursor {
			if err := r.outline(ColorDockFocus, rect); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) setColor(c Color) error {
	cr, cg, cb, ca := c.Bytes()
	return r.sdl.SetDrawColor(cr, cg, cb, ca)
}

func (r *Renderer) fill(c Color, rects []sdl.Rect) error {
	if len(rects) == 0 {
		return nil
	}
	if err := r.setColor(c); err != nil {
		return err
	}
	return r.sdl.FillRects(rects)
}

func (r *Renderer) outline(c Color, rect sdl.Rect) error {
	if err := r.setColor(c); err != nil {
		return err
	}
	return r.sdl.DrawRect(&rect)
}

func toSDL(r view.Rect) sdl.Rect {
	return sdl.Rect{X: int32(r.X), Y: int32(r.Y), W: int32(r.W), H: int32(r.H)}
}
