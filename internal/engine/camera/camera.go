// Package camera provides the orbiting globe camera.
package camera

import (
	gomath "math"
	"time"

	"github.com/Faultbox/geoglobe/pkg/math"
)

// Up is the world up vector used for every look-at.
var Up = math.Vec3{X: 0, Y: 1, Z: 0}

// Globe orbits the globe center. Position is authoritative; spherical pose is
// derived from it on demand.
type Globe struct {
	Position math.Vec3
	Target   math.Vec3 // orbit pivot, normally the globe center

	// Projection
	FOVY   float64 // vertical field of view, radians
	Aspect float64
	Near   float64
	Far    float64

	// Orbit control
	AutoRotate      bool
	AutoRotateSpeed float64 // 1.0 is one revolution per minute
	RotateSpeed     float64
	ZoomSensitivity float64
	MinDistance     float64
	MaxDistance     float64
}

// NewGlobe creates a camera at position looking at the origin.
func NewGlobe(position math.Vec3) Globe {
	return Globe{
		Position:        position,
		FOVY:            45 * gomath.Pi / 180,
		Aspect:          16.0 / 9.0,
		Near:            0.1,
		Far:             2000,
		AutoRotateSpeed: 0.5,
		RotateSpeed:     0.6,
		ZoomSensitivity: 0.1,
		MinDistance:     6,
		MaxDistance:     60,
	}
}

// SetViewport updates the aspect ratio from a pixel size.
func (c *Globe) SetViewport(width, height float64) {
	if width > 0 && height > 0 {
		c.Aspect = width / height
	}
}

// Pose returns the camera position in spherical form around Target.
func (c *Globe) Pose() math.Spherical {
	return math.SphericalFromVec3(c.Position.Sub(c.Target))
}

// SetPose moves the camera to a spherical pose around Target. The polar angle
// is kept off the poles so the look-at stays defined.
func (c *Globe) SetPose(s math.Spherical) {
	c.Position = c.Target.Add(s.MakeSafe().Vec3())
}

// ViewMatrix returns the view matrix looking from Position at Target.
func (c *Globe) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, c.Target, Up)
}

// ProjectionMatrix returns the perspective projection.
func (c *Globe) ProjectionMatrix() math.Mat4 {
	return math.Perspective(c.FOVY, c.Aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *Globe) ViewProjection() math.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

// Orientation returns the camera rotation implied by looking at Target.
// The camera's forward axis is its local -Z.
func (c *Globe) Orientation() math.Quat {
	f := c.Target.Sub(c.Position).Normalize()
	s := f.Cross(Up).Normalize()
	if s == (math.Vec3{}) {
		return math.QuatFromUnitVectors(math.Vec3{X: 0, Y: 0, Z: -1}, f)
	}
	u := s.Cross(f)
	return math.QuatFromBasis(s, u, f.Negate())
}

// HandleDrag orbits the camera by a pointer drag in pixels.
// A drag across the full viewport height turns the camera RotateSpeed revolutions.
func (c *Globe) HandleDrag(deltaX, deltaY, viewportHeight float64) {
	if viewportHeight <= 0 {
		return
	}
	pose := c.Pose()
	pose.Azimuth -= 2 * gomath.Pi * deltaX / viewportHeight * c.RotateSpeed
	pose.Polar -= 2 * gomath.Pi * deltaY / viewportHeight * c.RotateSpeed
	c.SetPose(pose)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *Globe) HandleZoom(delta float64) {
	pose := c.Pose()
	pose.Radius -= delta * pose.Radius * c.ZoomSensitivity
	pose.Radius = math.Clamp(pose.Radius, c.MinDistance, c.MaxDistance)
	c.SetPose(pose)
}

// Update applies auto-rotation for a frame of length dt.
func (c *Globe) Update(dt time.Duration) {
	if !c.AutoRotate || dt <= 0 {
		return
	}
	pose := c.Pose()
	pose.Azimuth -= 2 * gomath.Pi / 60 * c.AutoRotateSpeed * dt.Seconds()
	c.SetPose(pose)
}
