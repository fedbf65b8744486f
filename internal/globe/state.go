// Package globe ties the navigation and illumination components into a
// per-frame update.
//
// Step is a pure function of the previous State, the frame's Input and the
// fixed Deps. Engine owns a State on a single frame goroutine and feeds it
// inputs collected from other goroutines.
package globe

import (
	gomath "math"

	"github.com/Faultbox/geoglobe/internal/config"
	"github.com/Faultbox/geoglobe/internal/engine/annotation"
	"github.com/Faultbox/geoglobe/internal/engine/camera"
	"github.com/Faultbox/geoglobe/internal/engine/flight"
	"github.com/Faultbox/geoglobe/internal/engine/picking"
	"github.com/Faultbox/geoglobe/internal/engine/pointer"
	"github.com/Faultbox/geoglobe/internal/engine/smooth"
	"github.com/Faultbox/geoglobe/internal/geo"
	"github.com/Faultbox/geoglobe/internal/weather"
	"github.com/Faultbox/geoglobe/pkg/math"
)

// Initial animation targets before any weather has arrived.
const (
	initialCloudDensity = 0.5
	initialWindSpeed    = 10.0
)

// Selection is the currently selected point and its detail view.
type Selection struct {
	Point      geo.Point
	Index      int // catalog index, -1 when nothing is selected
	Position   math.Vec3
	DetailOpen bool
	Generation uint64 // tags weather requests issued for this selection

	Weather    weather.Report
	HasWeather bool
	Fallback   bool // Weather is the fallback report
}

// Active reports whether a point is selected.
func (s Selection) Active() bool {
	return s.Index >= 0
}

func noSelection(gen uint64) Selection {
	return Selection{Index: -1, Generation: gen}
}

// State is everything the engine carries from one frame to the next.
type State struct {
	Camera  camera.Globe
	Flight  flight.Controller
	Pointer pointer.Resolver

	Clouds smooth.Scalar
	Wind   smooth.Scalar

	ShaderTime    float64
	CloudRotation float64

	// UserPrefersRotation is the auto-rotate setting restored after a dismissal.
	UserPrefersRotation bool

	Selection  Selection
	Generation uint64

	// FlightTarget is the point ID of the current or most recent flight.
	FlightTarget string

	lastPointer math.Vec2
}

// Deps are the fixed collaborators of Step.
type Deps struct {
	Catalog        *geo.Catalog
	Picker         picking.Picker
	Projector      annotation.Projector
	CameraDistance float64
	MarkerRadius   float64
	Borders        []geo.Segment // shared with every Frame, never modified
}

// NewDeps builds Deps for a catalog with default geometry.
func NewDeps(cat *geo.Catalog) Deps {
	return Deps{
		Catalog:        cat,
		Picker:         picking.NewMarkerPicker(cat.Markers(geo.MarkerRadius), geo.GlobeRadius),
		Projector:      annotation.NewProjector(),
		CameraDistance: geo.CameraDistance,
		MarkerRadius:   geo.MarkerRadius,
		Borders:        cat.Borders(geo.BorderRadius),
	}
}

// NewState returns the initial state: camera over the home point, nothing
// selected, animation scalars at rest.
func NewState(home geo.Point, cfg *config.Config) State {
	if cfg == nil {
		cfg = config.Default()
	}
	mode := cfg.SmoothingMode()

	cam := camera.NewGlobe(home.Position(cfg.Globe.CameraDistance))
	cam.FOVY = cfg.Globe.FOVDegrees * degToRad
	cam.SetViewport(float64(cfg.Window.Width), float64(cfg.Window.Height))
	cam.AutoRotate = cfg.Globe.AutoRotate
	cam.AutoRotateSpeed = cfg.Globe.AutoRotateSpeed
	cam.RotateSpeed = cfg.Globe.RotateSpeed

	return State{
		Camera:              cam,
		Flight:              flight.New(cfg.Flight.Duration),
		Pointer:             *pointer.NewResolver(cfg.Pointer.TapDistance, cfg.Pointer.TapDuration),
		Clouds:              smooth.New(initialCloudDensity, cfg.Smoothing.CloudFactor, mode),
		Wind:                smooth.New(initialWindSpeed, cfg.Smoothing.WindFactor, mode),
		UserPrefersRotation: cfg.Globe.AutoRotate,
		Selection:           noSelection(0),
	}
}

// DepsFromConfig applies config overrides to NewDeps.
func DepsFromConfig(cat *geo.Catalog, cfg *config.Config) Deps {
	d := NewDeps(cat)
	d.CameraDistance = cfg.Globe.CameraDistance
	d.Projector.Offsets = annotation.Offsets{
		Panel:   math.Vec2{X: cfg.Overlay.Panel.X, Y: cfg.Overlay.Panel.Y},
		Attach:  math.Vec2{X: cfg.Overlay.Attach.X, Y: cfg.Overlay.Attach.Y},
		Control: math.Vec2{X: cfg.Overlay.Control.X, Y: cfg.Overlay.Control.Y},
	}
	return d
}

const degToRad = gomath.Pi / 180
