// Package pointer separates taps from drags on the shared orbit/selection input channel.
package pointer

import (
	"time"

	"github.com/Faultbox/geoglobe/pkg/math"
)

// Default tap thresholds. A gesture that moved or lasted longer than these
// has manipulated the camera and must not select anything.
const (
	DefaultTapDistance = 10.0
	DefaultTapDuration = 500 * time.Millisecond
)

// Event is a pointer-down or pointer-up in pixel coordinates.
type Event struct {
	X, Y    float64
	Time    time.Time
	Primary bool
	OverUI  bool // target is the overlay panel
}

// Pos returns the event position.
func (e Event) Pos() math.Vec2 {
	return math.Vec2{X: e.X, Y: e.Y}
}

// Kind classifies a completed gesture.
type Kind int

const (
	Ignored Kind = iota
	Tap
	Drag
)

func (k Kind) String() string {
	switch k {
	case Tap:
		return "tap"
	case Drag:
		return "drag"
	default:
		return "ignored"
	}
}

// Gesture is the result of a pointer-up.
type Gesture struct {
	Kind     Kind
	Up       Event
	Distance float64
	Duration time.Duration
}

// Resolver pairs downs with ups. The zero value uses the default thresholds.
type Resolver struct {
	TapDistance float64
	TapDuration time.Duration

	down    Event
	pressed bool
}

// NewResolver returns a resolver with the given thresholds.
func NewResolver(tapDistance float64, tapDuration time.Duration) *Resolver {
	return &Resolver{TapDistance: tapDistance, TapDuration: tapDuration}
}

// Down records the start of a gesture. It reports whether the event was
// accepted; non-primary pointers are ignored.
func (r *Resolver) Down(e Event) bool {
	if !e.Primary {
		return false
	}
	r.down = e
	r.pressed = true
	return true
}

// Pressed reports whether a primary pointer is down.
func (r *Resolver) Pressed() bool {
	return r.pressed
}

// Up completes the gesture started by the last Down.
func (r *Resolver) Up(e Event) Gesture {
	if !e.Primary || !r.pressed {
		return Gesture{Kind: Ignored, Up: e}
	}
	r.pressed = false

	g := Gesture{
		Up:       e,
		Distance: r.down.Pos().Distance(e.Pos()),
		Duration: e.Time.Sub(r.down.Time),
	}
	g.Kind = Classify(g.Distance, g.Duration, r.tapDistance(), r.tapDuration())
	return g
}

// Classify applies the tap thresholds. Both must hold for a tap.
func Classify(distance float64, duration time.Duration, maxDistance float64, maxDuration time.Duration) Kind {
	if distance <= maxDistance && duration <= maxDuration {
		return Tap
	}
	return Drag
}

func (r *Resolver) tapDistance() float64 {
	if r.TapDistance <= 0 {
		return DefaultTapDistance
	}
	return r.TapDistance
}

func (r *Resolver) tapDuration() time.Duration {
	if r.TapDuration <= 0 {
		return DefaultTapDuration
	}
	return r.TapDuration
}
