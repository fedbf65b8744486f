package math

import "math"

// Mat4 is a 4x4 matrix in column-major order (OpenGL compatible).
// Layout: [m0 m4 m8  m12]
//
//	[m1 m5 m9  m13]
//	[m2 m6 m10 m14]
//	[m3 m7 m11 m15]
type Mat4 [16]float64

// Identity returns an identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Perspective returns a perspective projection matrix.
// fovY is in radians, aspect is width/height.
func Perspective(fovY, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(fovY/2)
	nf := 1 / (near - far)

	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}
}

// LookAt returns a view matrix looking from eye to center with up direction.
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)

	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

// Mul returns m * other, so other applies first.
func (m Mat4) Mul(other Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		out.setCol(c, m.MulVec4(Vec4{other[c*4], other[c*4+1], other[c*4+2], other[c*4+3]}))
	}
	return out
}

func (m *Mat4) setCol(c int, v Vec4) {
	copy(m[c*4:c*4+4], v[:])
}

// Vec4 is a 4-component vector.
type Vec4 [4]float64

// MulVec4 multiplies the matrix by a Vec4.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v[0] + m[4]*v[1] + m[8]*v[2] + m[12]*v[3],
		m[1]*v[0] + m[5]*v[1] + m[9]*v[2] + m[13]*v[3],
		m[2]*v[0] + m[6]*v[1] + m[10]*v[2] + m[14]*v[3],
		m[3]*v[0] + m[7]*v[1] + m[11]*v[2] + m[15]*v[3],
	}
}

// Project transforms a point by the matrix and performs the perspective divide.
// w is the clip-space w before the divide; w <= 0 means the point is behind the eye.
func (m Mat4) Project(p Vec3) (ndc Vec3, w float64) {
	c := m.MulVec4(Vec4{p.X, p.Y, p.Z, 1})
	w = c[3]
	if w == 0 {
		return Vec3{c[0], c[1], c[2]}, 0
	}
	return Vec3{c[0] / w, c[1] / w, c[2] / w}, w
}

// Inverse returns the inverse of the matrix, or the identity if it is
// singular. It expands along 2x2 sub-determinants of the top and bottom rows.
func (m Mat4) Inverse() Mat4 {
	a00, a01, a02, a03 := m[0], m[4], m[8], m[12]
	a10, a11, a12, a13 := m[1], m[5], m[9], m[13]
	a20, a21, a22, a23 := m[2], m[6], m[10], m[14]
	a30, a31, a32, a33 := m[3], m[7], m[11], m[15]

	s0 := a00*a11 - a10*a01
	s1 := a00*a12 - a10*a02
	s2 := a00*a13 - a10*a03
	s3 := a01*a12 - a11*a02
	s4 := a01*a13 - a11*a03
	s5 := a02*a13 - a12*a03

	c0 := a20*a31 - a30*a21
	c1 := a20*a32 - a30*a22
	c2 := a20*a33 - a30*a23
	c3 := a21*a32 - a31*a22
	c4 := a21*a33 - a31*a23
	c5 := a22*a33 - a32*a23

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return Identity()
	}
	k := 1 / det

	// Column-major, like the input.
	return Mat4{
		(a11*c5 - a12*c4 + a13*c3) * k,
		(-a10*c5 + a12*c2 - a13*c1) * k,
		(a10*c4 - a11*c2 + a13*c0) * k,
		(-a10*c3 + a11*c1 - a12*c0) * k,

		(-a01*c5 + a02*c4 - a03*c3) * k,
		(a00*c5 - a02*c2 + a03*c1) * k,
		(-a00*c4 + a01*c2 - a03*c0) * k,
		(a00*c3 - a01*c1 + a02*c0) * k,

		(a31*s5 - a32*s4 + a33*s3) * k,
		(-a30*s5 + a32*s2 - a33*s1) * k,
		(a30*s4 - a31*s2 + a33*s0) * k,
		(-a30*s3 + a31*s1 - a32*s0) * k,

		(-a21*s5 + a22*s4 - a23*s3) * k,
		(a20*s5 - a22*s2 + a23*s1) * k,
		(-a20*s4 + a21*s2 - a23*s0) * k,
		(a20*s3 - a21*s1 + a22*s0) * k,
	}
}
