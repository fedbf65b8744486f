package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := LookAt(Vec3{1, 2, 9}, Vec3{}, Vec3{0, 1, 0})
	result := m.Mul(Identity())
	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(math.Pi/4, 1, 0.1, 100)
	if m[0] == 0 || m[5] == 0 {
		t.Error("Perspective should have non-zero elements")
	}
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := Vec3{3, 4, 12}
	m := LookAt(eye, Vec3{}, Vec3{0, 1, 0})

	// A view matrix is affine, so Project leaves w at 1.
	if got, w := m.Project(eye); !got.ApproxEqual(Vec3{}, 1e-9) || math.Abs(w-1) > 1e-12 {
		t.Errorf("eye in view space = %v (w %v), want origin", got, w)
	}
	// The target sits straight down -Z at the eye distance.
	got, _ := m.Project(Vec3{})
	if !got.ApproxEqual(Vec3{0, 0, -13}, 1e-9) {
		t.Errorf("center in view space = %v, want (0, 0, -13)", got)
	}
}

func TestProjectCenterAndBehind(t *testing.T) {
	view := LookAt(Vec3{0, 0, 15}, Vec3{}, Vec3{0, 1, 0})
	vp := Perspective(math.Pi/4, 16.0/9.0, 0.1, 2000).Mul(view)

	ndc, w := vp.Project(Vec3{})
	if w <= 0 {
		t.Fatalf("origin should be in front of the camera, w=%v", w)
	}
	if math.Abs(ndc.X) > 1e-12 || math.Abs(ndc.Y) > 1e-12 {
		t.Errorf("origin should project to screen center, got %v", ndc)
	}

	if _, w := vp.Project(Vec3{0, 0, 30}); w > 0 {
		t.Errorf("point behind the camera should have w <= 0, got %v", w)
	}
}

func TestInverse(t *testing.T) {
	view := LookAt(Vec3{2, 5, 9}, Vec3{}, Vec3{0, 1, 0})
	m := Perspective(0.8, 1.5, 0.1, 500).Mul(view)
	product := m.Mul(m.Inverse())
	id := Identity()
	for i := 0; i < 16; i++ {
		if math.Abs(product[i]-id[i]) > 1e-9 {
			t.Fatalf("M * M^-1 element %d = %v, want %v", i, product[i], id[i])
		}
	}
}

func TestInverseSingular(t *testing.T) {
	if got := (Mat4{}).Inverse(); got != Identity() {
		t.Errorf("singular inverse should fall back to identity, got %v", got)
	}
}
