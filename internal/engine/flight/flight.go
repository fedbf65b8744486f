// Package flight animates the camera between two points around the globe.
//
// A flight interpolates radius, polar angle and azimuth independently through a
// quartic ease-out. The camera keeps looking at the globe center for the whole
// flight, so no orientation is interpolated.
package flight

import (
	gomath "math"
	"time"

	"github.com/Faultbox/geoglobe/pkg/math"
)

// DefaultDuration is the length of a flight.
const DefaultDuration = 1200 * time.Millisecond

// EaseOutQuart maps linear progress t in [0, 1] to 1-(1-t)^4.
func EaseOutQuart(t float64) float64 {
	u := 1 - math.Clamp(t, 0, 1)
	return 1 - u*u*u*u
}

// ShortestAzimuth returns a target azimuth equivalent to to (mod 2π) whose
// distance from from is at most π, so the camera takes the short way around.
func ShortestAzimuth(from, to float64) float64 {
	delta := gomath.Mod(to-from, 2*gomath.Pi)
	for delta > gomath.Pi {
		delta -= 2 * gomath.Pi
	}
	for delta < -gomath.Pi {
		delta += 2 * gomath.Pi
	}
	return from + delta
}

// Controller owns the single active flight. The zero value is idle and uses DefaultDuration.
type Controller struct {
	Duration time.Duration

	active    bool
	start     math.Spherical
	target    math.Spherical
	startTime time.Time
}

// New returns an idle controller with the given flight duration.
func New(duration time.Duration) Controller {
	return Controller{Duration: duration}
}

// Active reports whether a flight is in progress.
func (c *Controller) Active() bool {
	return c.active
}

// Start returns the pose the current flight started from.
func (c *Controller) Start() math.Spherical {
	return c.start
}

// Target returns the pose the current flight ends at, azimuth already corrected.
func (c *Controller) Target() math.Spherical {
	return c.target
}

// Begin starts a flight from cameraPos to targetPos.
// If a flight is already active, the pose it has reached at now becomes the
// new start, so consecutive flights chain without a jump.
func (c *Controller) Begin(cameraPos, targetPos math.Vec3, now time.Time) {
	start := math.SphericalFromVec3(cameraPos)
	if c.active {
		start = c.poseAt(now)
	}
	target := math.SphericalFromVec3(targetPos)
	target.Azimuth = ShortestAzimuth(start.Azimuth, target.Azimuth)

	c.start = start
	c.target = target
	c.startTime = now
	c.active = true
}

// Cancel stops the current flight where it is.
func (c *Controller) Cancel() {
	c.active = false
}

// Progress returns linear progress in [0, 1] at now.
func (c *Controller) Progress(now time.Time) float64 {
	d := c.duration()
	if d <= 0 {
		return 1
	}
	return math.Clamp(float64(now.Sub(c.startTime))/float64(d), 0, 1)
}

// Advance returns the camera pose at now. When the flight completes the
// controller goes idle and done is true; the returned pose is then exactly the target.
func (c *Controller) Advance(now time.Time) (pose math.Spherical, done bool) {
	pose = c.poseAt(now)
	if c.Progress(now) >= 1 {
		c.active = false
		return c.target, true
	}
	return pose, false
}

func (c *Controller) poseAt(now time.Time) math.Spherical {
	return c.start.Lerp(c.target, EaseOutQuart(c.Progress(now)))
}

func (c *Controller) duration() time.Duration {
	if c.Duration == 0 {
		return DefaultDuration
	}
	return c.Duration
}
