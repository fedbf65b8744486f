package globe

import (
	"time"

	"github.com/Faultbox/geoglobe/internal/engine/annotation"
	"github.com/Faultbox/geoglobe/internal/engine/lighting"
	"github.com/Faultbox/geoglobe/internal/engine/picking"
	"github.com/Faultbox/geoglobe/internal/engine/pointer"
	"github.com/Faultbox/geoglobe/internal/geo"
	"github.com/Faultbox/geoglobe/internal/weather"
	"github.com/Faultbox/geoglobe/pkg/math"
)

// Shader drive rates.
const (
	shaderTimeBase     = 0.2  // shader seconds per second at zero wind
	shaderTimePerWind  = 0.05 // extra shader seconds per second per km/h
	cloudRotationSpeed = 0.05 // radians per second
	cloudRotationDrift = 0.00005
)

// CommandKind names a user command.
type CommandKind int

const (
	// FlyTo selects the point named by PointID and flies to it.
	FlyTo CommandKind = iota
	// FlyHome flies to the home point and closes the detail view.
	FlyHome
	// Dismiss closes the detail view and clears the selection.
	Dismiss
	// ToggleRotation flips the user's auto-rotate preference.
	ToggleRotation
	// Orbit turns the camera by DX, DY pixels of drag.
	Orbit
	// Zoom moves the camera in (positive DY) or out (negative DY).
	Zoom
)

func (k CommandKind) String() string {
	switch k {
	case FlyTo:
		return "fly_to"
	case FlyHome:
		return "fly_home"
	case Dismiss:
		return "dismiss"
	case ToggleRotation:
		return "toggle_rotation"
	case Orbit:
		return "orbit"
	case Zoom:
		return "zoom"
	default:
		return "unknown"
	}
}

// Command is a user action from the dock, keyboard or debug server.
type Command struct {
	Kind    CommandKind
	PointID string
	DX, DY  float64
}

// PointerPhase distinguishes pointer events.
type PointerPhase int

const (
	PointerDown PointerPhase = iota
	PointerMove
	PointerUp
)

// PointerInput is one pointer event in frame order.
type PointerInput struct {
	Phase PointerPhase
	Event pointer.Event
}

// WeatherRequest asks the caller to fetch weather for a selection.
type WeatherRequest struct {
	Generation uint64
	Point      geo.Point
}

// WeatherResult is a completed WeatherRequest. A non-nil Err means the
// fallback report is used.
type WeatherResult struct {
	Generation uint64
	Report     weather.Report
	Err        error
}

// Input is everything that happened since the previous frame.
type Input struct {
	Now      time.Time
	DT       time.Duration
	Viewport annotation.Viewport
	Pointer  []PointerInput
	Commands []Command
	Weather  []WeatherResult
}

// EventKind classifies frame events.
type EventKind int

const (
	EventSelected EventKind = iota
	EventDeselected
	EventFlightStarted
	EventFlightFinished
	EventFlightCancelled
	EventGesture
	EventWeatherApplied
	EventWeatherFallback
	EventWeatherStale
	EventUnknownPoint
)

// Event reports something Step did, for logging and metrics.
type Event struct {
	Kind    EventKind
	PointID string
	Gesture pointer.Kind
	Err     error
}

// Frame is the per-frame output consumed by renderers and the overlay.
type Frame struct {
	Time time.Time

	Sun           math.Vec3
	CloudDensity  float64
	WindSpeed     float64
	ShaderTime    float64
	CloudRotation float64

	CameraPosition math.Vec3
	Orientation    math.Quat
	View           math.Mat4
	Projection     math.Mat4

	Borders    []geo.Segment // scene space; renderers cull the far side
	Overlay    annotation.Placement
	Selection  Selection
	Flying     bool
	AutoRotate bool

	Requests []WeatherRequest
	Events   []Event
}

// Step advances the engine by one frame. It performs no I/O; weather
// requests to dispatch are returned in the Frame.
func Step(s State, in Input, deps Deps) (State, Frame) {
	var f Frame
	if in.Viewport.Width > 0 && in.Viewport.Height > 0 {
		s.Camera.SetViewport(in.Viewport.Width, in.Viewport.Height)
	}

	for _, r := range in.Weather {
		s.applyWeather(r, &f)
	}
	for _, c := range in.Commands {
		s.command(c, in, deps, &f)
	}
	for _, p := range in.Pointer {
		s.pointer(p, in, deps, &f)
	}

	if s.Flight.Active() {
		pose, done := s.Flight.Advance(in.Now)
		s.Camera.SetPose(pose)
		if done {
			s.Camera.Target = math.Vec3{}
			f.Events = append(f.Events, Event{Kind: EventFlightFinished, PointID: s.FlightTarget})
		}
	} else {
		s.Camera.Update(in.DT)
	}

	s.Clouds.Advance(in.DT)
	s.Wind.Advance(in.DT)
	dt := in.DT.Seconds()
	if dt > 0 {
		s.ShaderTime += dt * (shaderTimeBase + s.Wind.Current*shaderTimePerWind)
		s.CloudRotation += dt*cloudRotationSpeed + cloudRotationDrift
	}

	vp := s.Camera.ViewProjection()
	if s.Selection.Active() && s.Selection.DetailOpen {
		f.Overlay = deps.Projector.Project(s.Selection.Position, s.Camera.Position, vp, in.Viewport)
	}

	f.Time = in.Now
	f.Sun = lighting.SunDirectionAt(in.Now)
	f.CloudDensity = s.Clouds.Current
	f.WindSpeed = s.Wind.Current
	f.ShaderTime = s.ShaderTime
	f.CloudRotation = s.CloudRotation
	f.CameraPosition = s.Camera.Position
	f.Orientation = s.Camera.Orientation()
	f.View = s.Camera.ViewMatrix()
	f.Projection = s.Camera.ProjectionMatrix()
	f.Borders = deps.Borders
	f.Selection = s.Selection
	f.Flying = s.Flight.Active()
	f.AutoRotate = s.Camera.AutoRotate
	return s, f
}

func (s *State) applyWeather(r WeatherResult, f *Frame) {
	if !s.Selection.Active() || r.Generation != s.Selection.Generation {
		f.Events = append(f.Events, Event{Kind: EventWeatherStale})
		return
	}

	report, kind := r.Report, EventWeatherApplied
	if r.Err != nil {
		report, kind = weather.Fallback(), EventWeatherFallback
	}
	s.Clouds.SetTarget(report.CloudDensity())
	s.Wind.SetTarget(report.WindSpeedKmh)
	s.Selection.Weather = report
	s.Selection.HasWeather = true
	s.Selection.Fallback = r.Err != nil
	f.Events = append(f.Events, Event{Kind: kind, PointID: s.Selection.Point.ID, Err: r.Err})
}

func (s *State) command(c Command, in Input, deps Deps, f *Frame) {
	switch c.Kind {
	case FlyTo:
		p, idx, err := deps.Catalog.Lookup(c.PointID)
		if err != nil {
			f.Events = append(f.Events, Event{Kind: EventUnknownPoint, PointID: c.PointID, Err: err})
			return
		}
		s.selectPoint(p, idx, in.Now, deps, f)
	case FlyHome:
		s.deselect(f)
		s.Camera.AutoRotate = false
		s.beginFlight(deps.Catalog.Home(), in.Now, deps, f)
	case Dismiss:
		s.deselect(f)
		s.Camera.AutoRotate = s.UserPrefersRotation
	case ToggleRotation:
		s.UserPrefersRotation = !s.UserPrefersRotation
		s.Camera.AutoRotate = s.UserPrefersRotation
	case Orbit:
		s.interrupt(f)
		s.Camera.HandleDrag(c.DX, c.DY, in.Viewport.Height)
	case Zoom:
		s.interrupt(f)
		s.Camera.HandleZoom(c.DY)
	}
}

func (s *State) pointer(p PointerInput, in Input, deps Deps, f *Frame) {
	e := p.Event
	switch p.Phase {
	case PointerDown:
		if s.Pointer.Down(e) {
			s.interrupt(f)
			s.lastPointer = e.Pos()
		}
	case PointerMove:
		if !s.Pointer.Pressed() || !e.Primary {
			return
		}
		d := e.Pos().Sub(s.lastPointer)
		s.Camera.HandleDrag(d.X, d.Y, in.Viewport.Height)
		s.lastPointer = e.Pos()
	case PointerUp:
		g := s.Pointer.Up(e)
		if g.Kind == pointer.Ignored {
			return
		}
		f.Events = append(f.Events, Event{Kind: EventGesture, Gesture: g.Kind})
		if g.Kind != pointer.Tap {
			return
		}
		s.tap(e, in, deps, f)
	}
}

func (s *State) tap(e pointer.Event, in Input, deps Deps, f *Frame) {
	if deps.Picker != nil && in.Viewport.Width > 0 && in.Viewport.Height > 0 {
		inv := s.Camera.ViewProjection().Inverse()
		ray := picking.ScreenToRay(e.X, e.Y, in.Viewport.Width, in.Viewport.Height, inv)
		if hit, ok := picking.Nearest(deps.Picker.Pick(ray)); ok && hit.Index < deps.Catalog.Len() {
			s.selectPoint(deps.Catalog.At(hit.Index), hit.Index, in.Now, deps, f)
			return
		}
	}
	if !e.OverUI {
		s.deselect(f)
		s.Camera.AutoRotate = s.UserPrefersRotation
	}
}

// interrupt gives explicit user input precedence over any animation.
func (s *State) interrupt(f *Frame) {
	s.Camera.AutoRotate = false
	if s.Flight.Active() {
		s.Flight.Cancel()
		f.Events = append(f.Events, Event{Kind: EventFlightCancelled, PointID: s.FlightTarget})
	}
}

func (s *State) selectPoint(p geo.Point, idx int, now time.Time, deps Deps, f *Frame) {
	s.Generation++
	s.Selection = Selection{
		Point:      p,
		Index:      idx,
		Position:   p.Position(deps.MarkerRadius),
		DetailOpen: true,
		Generation: s.Generation,
	}
	s.Camera.AutoRotate = false
	s.beginFlight(p, now, deps, f)
	f.Requests = append(f.Requests, WeatherRequest{Generation: s.Generation, Point: p})
	f.Events = append(f.Events, Event{Kind: EventSelected, PointID: p.ID})
}

func (s *State) deselect(f *Frame) {
	if !s.Selection.Active() && !s.Selection.DetailOpen {
		return
	}
	s.Generation++
	f.Events = append(f.Events, Event{Kind: EventDeselected, PointID: s.Selection.Point.ID})
	s.Selection = noSelection(s.Generation)
}

func (s *State) beginFlight(p geo.Point, now time.Time, deps Deps, f *Frame) {
	s.Flight.Begin(s.Camera.Position, p.Position(deps.CameraDistance), now)
	s.FlightTarget = p.ID
	f.Events = append(f.Events, Event{Kind: EventFlightStarted, PointID: p.ID})
}
