// Package input turns SDL2 events into engine pointer events and commands.
package input

import (
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/geoglobe/internal/engine/pointer"
	"github.com/Faultbox/geoglobe/internal/globe"
)

// orbitStep is the keyboard orbit in pixels of equivalent drag.
const orbitStep = 30

// Event types the driver handles itself.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventMouseUp
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	Button uint8
}

// Sink receives engine input. *globe.Engine implements it.
type Sink interface {
	Command(globe.Command)
	Pointer(globe.PointerInput)
}

// Input handles all input processing.
type Input struct {
	sink   Sink
	events []Event
	now    func() time.Time

	// OverUI reports whether a window position is covered by overlay UI.
	OverUI func(x, y float64) bool

	leftDown bool
}

// New creates an input handler feeding sink.
func New(sink Sink) *Input {
	return &Input{
		sink:   sink,
		events: make([]Event, 0, 16),
		now:    time.Now,
	}
}

// Update polls SDL events, forwards pointer and camera input to the sink and
// keeps the rest for Events. Returns true if the application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0] // Clear previous events

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && !i.handleKey(e.Keysym.Scancode) {
				i.events = append(i.events, Event{
					Type: EventKeyDown,
					Key:  e.Keysym.Scancode,
				})
			}

		case *sdl.MouseMotionEvent:
			if i.leftDown {
				ev := i.pointerEvent(e.X, e.Y)
				ev.Primary = true
				i.sink.Pointer(globe.PointerInput{Phase: globe.PointerMove, Event: ev})
			}

		case *sdl.MouseButtonEvent:
			ev := i.pointerEvent(e.X, e.Y)
			ev.Primary = e.Button == sdl.BUTTON_LEFT
			switch e.Type {
			case sdl.MOUSEBUTTONDOWN:
				if ev.Primary {
					i.leftDown = true
				}
				i.sink.Pointer(globe.PointerInput{Phase: globe.PointerDown, Event: ev})
			case sdl.MOUSEBUTTONUP:
				if ev.Primary {
					i.leftDown = false
				}
				i.sink.Pointer(globe.PointerInput{Phase: globe.PointerUp, Event: ev})
				i.events = append(i.events, Event{
					Type:   EventMouseUp,
					MouseX: int(e.X),
					MouseY: int(e.Y),
					Button: e.Button,
				})
			}

		case *sdl.MouseWheelEvent:
			i.sink.Command(globe.Command{Kind: globe.Zoom, DY: float64(e.Y)})
		}
	}

	return false
}

// handleKey forwards camera and navigation keys. It reports whether the key
// was consumed.
func (i *Input) handleKey(key sdl.Scancode) bool {
	var c globe.Command
	switch key {
	case sdl.SCANCODE_H:
		c = globe.Command{Kind: globe.FlyHome}
	case sdl.SCANCODE_R:
		c = globe.Command{Kind: globe.ToggleRotation}
	case sdl.SCANCODE_ESCAPE:
		c = globe.Command{Kind: globe.Dismiss}
	case sdl.SCANCODE_LEFT:
		c = globe.Command{Kind: globe.Orbit, DX: orbitStep}
	case sdl.SCANCODE_RIGHT:
		c = globe.Command{Kind: globe.Orbit, DX: -orbitStep}
	case sdl.SCANCODE_UP:
		c = globe.Command{Kind: globe.Orbit, DY: orbitStep}
	case sdl.SCANCODE_DOWN:
		c = globe.Command{Kind: globe.Orbit, DY: -orbitStep}
	case sdl.SCANCODE_EQUALS, sdl.SCANCODE_KP_PLUS:
		c = globe.Command{Kind: globe.Zoom, DY: 1}
	case sdl.SCANCODE_MINUS, sdl.SCANCODE_KP_MINUS:
		c = globe.Command{Kind: globe.Zoom, DY: -1}
	default:
		return false
	}
	i.sink.Command(c)
	return true
}

func (i *Input) pointerEvent(x, y int32) pointer.Event {
	ev := pointer.Event{X: float64(x), Y: float64(y), Time: i.now()}
	if i.OverUI != nil {
		ev.OverUI = i.OverUI(ev.X, ev.Y)
	}
	return ev
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}
