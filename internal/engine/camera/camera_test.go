package camera

import (
	gomath "math"
	"testing"
	"time"

	"github.com/Faultbox/geoglobe/pkg/math"
)

func TestPoseRoundTrip(t *testing.T) {
	c := NewGlobe(math.Vec3{X: 3, Y: 4, Z: 12})
	pose := c.Pose()
	if gomath.Abs(pose.Radius-13) > 1e-12 {
		t.Errorf("radius = %v, want 13", pose.Radius)
	}
	c.SetPose(pose)
	if !c.Position.ApproxEqual(math.Vec3{X: 3, Y: 4, Z: 12}, 1e-9) {
		t.Errorf("position after SetPose = %v", c.Position)
	}
}

func TestSetPoseAvoidsPoles(t *testing.T) {
	c := NewGlobe(math.Vec3{Z: 15})
	c.SetPose(math.Spherical{Radius: 15, Polar: 0})
	if c.Position.X == 0 && c.Position.Z == 0 {
		t.Errorf("camera on the pole axis: %v", c.Position)
	}
	q := c.Orientation()
	if gomath.IsNaN(q.W) {
		t.Error("orientation is NaN near the pole")
	}
}

func TestOrientationLooksAtCenter(t *testing.T) {
	positions := []math.Vec3{
		{X: 0, Y: 0, Z: 15},
		{X: -9, Y: 7, Z: 4},
		{X: 2, Y: -11, Z: -6},
	}
	for _, p := range positions {
		c := NewGlobe(p)
		forward := c.Orientation().Rotate(math.Vec3{Z: -1})
		want := p.Negate().Normalize()
		if !forward.ApproxEqual(want, 1e-9) {
			t.Errorf("camera at %v looks along %v, want %v", p, forward, want)
		}
	}
}

func TestHandleDrag(t *testing.T) {
	c := NewGlobe(math.Vec3{Z: 15})
	before := c.Pose()
	c.HandleDrag(100, 0, 1000)
	after := c.Pose()
	want := before.Azimuth - 2*gomath.Pi*0.1*c.RotateSpeed
	if gomath.Abs(after.Azimuth-want) > 1e-9 {
		t.Errorf("azimuth after drag = %v, want %v", after.Azimuth, want)
	}
	if gomath.Abs(after.Radius-before.Radius) > 1e-9 {
		t.Errorf("drag changed distance from %v to %v", before.Radius, after.Radius)
	}

	c.HandleDrag(0, 1e6, 1000)
	if p := c.Pose().Polar; p < math.PoleEpsilon*0.99 {
		t.Errorf("polar angle escaped the safe range: %v", p)
	}
}

func TestHandleZoomClamps(t *testing.T) {
	c := NewGlobe(math.Vec3{Z: 15})
	for i := 0; i < 100; i++ {
		c.HandleZoom(1)
	}
	if r := c.Pose().Radius; gomath.Abs(r-c.MinDistance) > 1e-9 {
		t.Errorf("zoomed distance = %v, want %v", r, c.MinDistance)
	}
}

func TestAutoRotate(t *testing.T) {
	c := NewGlobe(math.Vec3{Z: 15})
	c.Update(time.Second)
	if c.Pose().Azimuth != 0 {
		t.Error("camera rotated with AutoRotate off")
	}

	c.AutoRotate = true
	c.Update(time.Second)
	want := -2 * gomath.Pi / 60 * c.AutoRotateSpeed
	if got := c.Pose().Azimuth; gomath.Abs(got-want) > 1e-9 {
		t.Errorf("azimuth after 1s = %v, want %v", got, want)
	}
}

func TestViewProjectionCentersTarget(t *testing.T) {
	c := NewGlobe(math.Vec3{X: 5, Y: 5, Z: 10})
	ndc, w := c.ViewProjection().Project(c.Target)
	if w <= 0 || gomath.Abs(ndc.X) > 1e-9 || gomath.Abs(ndc.Y) > 1e-9 {
		t.Errorf("target projects to %v (w=%v), want screen center", ndc, w)
	}
}
