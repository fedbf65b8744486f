// Package desktop runs the globe in an SDL2 window.
package desktop

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/geoglobe/internal/engine/audio"
	"github.com/Faultbox/geoglobe/internal/engine/debug"
	"github.com/Faultbox/geoglobe/internal/engine/input"
	"github.com/Faultbox/geoglobe/internal/engine/renderer"
	"github.com/Faultbox/geoglobe/internal/engine/window"
	"github.com/Faultbox/geoglobe/internal/geo"
	"github.com/Faultbox/geoglobe/internal/globe"
	"github.com/Faultbox/geoglobe/internal/view"
	"github.com/Faultbox/geoglobe/pkg/math"
)

// Config holds desktop window configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	CellSize   int

	// Audio enables event cues at Volume.
	Audio  bool
	Volume float64

	// ScreenshotDir receives F12 captures. Empty means the working directory.
	ScreenshotDir string
}

// screenshotCell is the pixel size of one sample in a capture.
const screenshotCell = 2

// App is the desktop driver. It owns the engine's frame goroutine, which must
// be the main thread.
type App struct {
	config   Config
	engine   *globe.Engine
	log      *zap.Logger
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	shots    *debug.ScreenshotCapture
	audio    *audio.Manager // nil when muted or no device

	entries []geo.MenuEntry
	markers []math.Vec3
	cursor  int
	frame   globe.Frame
	title   string
}

// New creates the window, renderer and input handler.
func New(cfg Config, engine *globe.Engine, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("initializing desktop",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
	)

	cat := engine.Catalog()
	a := &App{
		config:  cfg,
		engine:  engine,
		log:     log,
		entries: cat.MenuEntries(),
		markers: cat.Markers(geo.MarkerRadius),
		shots:   debug.NewScreenshotCapture(cfg.ScreenshotDir, "geoglobe"),
	}

	var err error
	a.window, err = window.New(window.Config{
		Title:      cfg.Title,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Fullscreen: cfg.Fullscreen,
		VSync:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	width, height := a.window.GetSize()
	a.renderer = renderer.New(a.window.Renderer(), renderer.Config{
		Width:    width,
		Height:   height,
		CellSize: cfg.CellSize,
	})
	engine.SetViewport(float64(width), float64(height))

	a.input = input.New(engine)
	a.input.OverUI = a.overUI

	if cfg.Audio {
		a.audio = audio.New()
		a.audio.SetMasterVolume(cfg.Volume)
		if err := a.audio.Init(); err != nil {
			log.Warn("audio unavailable, continuing muted", zap.Error(err))
			a.audio = nil
		}
	}

	log.Info("desktop initialized")
	return a, nil
}

// Run drives the frame loop until the window closes or ctx is done.
func (a *App) Run(ctx context.Context) error {
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting frame loop")
	for ctx.Err() == nil {
		// 1. Process input
		if a.input.Update() {
			return nil
		}
		if a.handleEvents() {
			return nil
		}

		// 2. Step the engine
		a.frame = a.engine.Tick(time.Now())
		a.updateTitle()
		if a.audio != nil {
			a.audio.HandleEvents(a.frame.Events)
		}

		// 3. Render
		if err := a.render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
	return ctx.Err()
}

// Close cleans up the window and outstanding weather fetches.
func (a *App) Close() {
	a.log.Info("closing desktop")
	a.engine.Close()
	if a.audio != nil {
		a.audio.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

// handleEvents processes the events input left for the driver. It reports
// whether the app should quit.
func (a *App) handleEvents() bool {
	for _, event := range a.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			a.renderer.Resize(event.Width, event.Height)
			a.engine.SetViewport(float64(event.Width), float64(event.Height))
		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_Q:
				return true
			case sdl.SCANCODE_TAB:
				a.cursor = (a.cursor + 1) % len(a.entries)
			case sdl.SCANCODE_RETURN:
				a.activate(a.cursor)
			case sdl.SCANCODE_F12:
				a.screenshot()
			}
		case input.EventMouseUp:
			if event.Button != sdl.BUTTON_LEFT {
				continue
			}
			p := math.Vec2{X: float64(event.MouseX), Y: float64(event.MouseY)}
			if i := view.SlotAt(view.DockLayout(len(a.entries), a.renderer.Viewport()), p); i >= 0 {
				a.cursor = i
				a.activate(i)
			}
		}
	}
	return false
}

func (a *App) activate(i int) {
	e := a.entries[i]
	if e.Home {
		a.engine.Command(globe.Command{Kind: globe.FlyHome})
		return
	}
	a.engine.Command(globe.Command{Kind: globe.FlyTo, PointID: e.ID})
}

// screenshot saves the current frame at the window's resolution.
func (a *App) screenshot() {
	vp := a.renderer.Viewport()
	cols, rows := int(vp.Width)/screenshotCell, int(vp.Height)/screenshotCell
	img := debug.Image(view.Render(a.frame, a.markers, cols, rows), screenshotCell)
	if a.frame.Selection.Active() {
		debug.Caption(img, view.PanelLines(a.frame.Selection))
	}
	name, err := a.shots.Capture(img)
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("file", name))
}

// overUI reports whether a position is on the dock or the detail panel, so
// taps there do not clear the selection.
func (a *App) overUI(x, y float64) bool {
	p := math.Vec2{X: x, Y: y}
	if view.SlotAt(view.DockLayout(len(a.entries), a.renderer.Viewport()), p) >= 0 {
		return true
	}
	panel, ok := view.PanelRect(a.frame.Overlay)
	return ok && panel.Contains(p)
}

func (a *App) render() error {
	if err := a.renderer.Begin(); err != nil {
		return err
	}
	selected := -1
	if a.frame.Selection.Active() {
		// Dock entries are home followed by the catalog in order.
		selected = a.frame.Selection.Index + 1
	}
	err := a.renderer.Draw(renderer.Scene{
		Frame:        a.frame,
		Markers:      a.markers,
		DockEntries:  len(a.entries),
		DockCursor:   a.cursor,
		DockSelected: selected,
	})
	a.renderer.End()
	return err
}

// updateTitle shows the detail panel text in the title bar, since the 2D
// renderer has no font.
func (a *App) updateTitle() {
	title := Title(a.config.Title, a.frame.Selection, a.entries[a.cursor])
	if title != a.title {
		a.window.SetTitle(title)
		a.title = title
	}
}

// Title is the window title for a selection and the focused dock entry.
func Title(base string, sel globe.Selection, focus geo.MenuEntry) string {
	parts := []string{base}
	if sel.Active() {
		parts = append(parts, view.PanelLines(sel)...)
	} else {
		parts = append(parts, "▸ "+focus.Label)
	}
	return strings.Join(parts, " · ")
}
