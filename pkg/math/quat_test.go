package math

import (
	"math"
	"testing"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got %+v", q)
	}
}

// axisAngle is the rotation by angle radians about a unit axis.
func axisAngle(axis Vec3, angle float64) Quat {
	s := math.Sin(angle / 2)
	return Quat{X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s, W: math.Cos(angle / 2)}
}

func quatDot(a, b Quat) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
}

func TestQuatNormalize(t *testing.T) {
	n := Quat{X: 1, Y: 2, Z: 3, W: 4}.Normalize()
	if l := math.Sqrt(quatDot(n, n)); math.Abs(l-1) > 1e-12 {
		t.Errorf("Normalized quaternion length should be 1, got %v", l)
	}
}

func TestQuatRotate(t *testing.T) {
	q := axisAngle(Vec3{0, 1, 0}, math.Pi/2)
	got := q.Rotate(Vec3{1, 0, 0})
	if !got.ApproxEqual(Vec3{0, 0, -1}, 1e-12) {
		t.Errorf("rotating +X by 90° about Y = %v, want (0, 0, -1)", got)
	}
	if want := (Vec3{1, 0, 0}).RotateY(math.Pi / 2); !got.ApproxEqual(want, 1e-12) {
		t.Errorf("quaternion and Vec3.RotateY disagree: %v vs %v", got, want)
	}
}

func TestQuatFromUnitVectors(t *testing.T) {
	tests := []struct {
		name     string
		from, to Vec3
	}{
		{"quarter turn", Vec3{0, 0, 1}, Vec3{1, 0, 0}},
		{"oblique", Vec3{0, 0, 1}, Vec3{0.6, 0, -0.8}},
		{"opposite", Vec3{0, 0, 1}, Vec3{0, 0, -1}},
		{"same", Vec3{0, 1, 0}, Vec3{0, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QuatFromUnitVectors(tt.from, tt.to).Rotate(tt.from)
			if !got.ApproxEqual(tt.to, 1e-9) {
				t.Errorf("rotated %v = %v, want %v", tt.from, got, tt.to)
			}
		})
	}
}

func TestQuatFromBasis(t *testing.T) {
	want := axisAngle(Vec3{1, 2, 3}.Normalize(), 2.1)
	x := want.Rotate(Vec3{1, 0, 0})
	y := want.Rotate(Vec3{0, 1, 0})
	z := want.Rotate(Vec3{0, 0, 1})

	got := QuatFromBasis(x, y, z)
	if math.Abs(math.Abs(quatDot(got, want))-1) > 1e-9 {
		t.Errorf("QuatFromBasis = %+v, want ±%+v", got, want)
	}
}
