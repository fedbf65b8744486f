package math

import "math"

// PoleEpsilon keeps reconstructed positions off the vertical axis, where a
// look-at with +Y up has no defined right vector.
const PoleEpsilon = 1e-6

// Spherical is a position around the origin.
// Polar is measured from +Y in [0, π]; Azimuth is measured from +Z towards +X
// and is not wrapped, so interpolation can cross ±π without jumping.
type Spherical struct {
	Radius  float64
	Polar   float64
	Azimuth float64
}

// SphericalFromVec3 converts a Cartesian position into spherical form.
// The origin maps to the zero pose.
func SphericalFromVec3(v Vec3) Spherical {
	r := v.Length()
	if r == 0 {
		return Spherical{}
	}
	return Spherical{
		Radius:  r,
		Polar:   math.Acos(Clamp(v.Y/r, -1, 1)),
		Azimuth: math.Atan2(v.X, v.Z),
	}
}

// Vec3 converts the pose back to a Cartesian position.
func (s Spherical) Vec3() Vec3 {
	sinPolar := math.Sin(s.Polar)
	return Vec3{
		X: s.Radius * sinPolar * math.Sin(s.Azimuth),
		Y: s.Radius * math.Cos(s.Polar),
		Z: s.Radius * sinPolar * math.Cos(s.Azimuth),
	}
}

// MakeSafe clamps the polar angle into [PoleEpsilon, π-PoleEpsilon].
func (s Spherical) MakeSafe() Spherical {
	s.Polar = Clamp(s.Polar, PoleEpsilon, math.Pi-PoleEpsilon)
	return s
}

// Lerp interpolates each component independently.
func (s Spherical) Lerp(other Spherical, t float64) Spherical {
	return Spherical{
		Radius:  Lerp(s.Radius, other.Radius, t),
		Polar:   Lerp(s.Polar, other.Polar, t),
		Azimuth: Lerp(s.Azimuth, other.Azimuth, t),
	}
}
