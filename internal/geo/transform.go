// Package geo maps geographic coordinates onto the globe and holds the
// point-of-interest catalog.
package geo

import (
	gomath "math"

	"github.com/Faultbox/geoglobe/pkg/math"
)

// Layer radii in scene units. Each layer sits slightly above the one below it.
const (
	GlobeRadius    = 5.0
	BorderRadius   = 5.01
	CloudRadius    = 5.05
	MarkerRadius   = 5.1
	CameraDistance = 15.0
)

// GlobalRotation is the fixed yaw (radians about +Y) applied to every layer so
// the texture seam lines up with the prime meridian.
const GlobalRotation = -gomath.Pi / 2

const degToRad = gomath.Pi / 180

// ToCartesian maps latitude/longitude in degrees onto a sphere of the given radius.
// Inputs are not range-checked.
func ToCartesian(latDeg, lonDeg, radius float64) math.Vec3 {
	polar := (90 - latDeg) * degToRad
	azimuth := (lonDeg + 180) * degToRad
	sinPolar := gomath.Sin(polar)
	return math.Vec3{
		X: -radius * sinPolar * gomath.Cos(azimuth),
		Y: radius * gomath.Cos(polar),
		Z: radius * sinPolar * gomath.Sin(azimuth),
	}
}

// Place returns the scene-space position of a coordinate: ToCartesian followed
// by GlobalRotation. Markers, borders, camera targets and annotations all use it.
func Place(latDeg, lonDeg, radius float64) math.Vec3 {
	return ToCartesian(latDeg, lonDeg, radius).RotateY(GlobalRotation)
}

// Segment is a line between two scene-space points.
type Segment struct {
	A, B math.Vec3
}

// BorderSegments converts decoded border rings of [lon, lat] pairs into scene
// line segments at the given radius. Rings with fewer than two points are skipped,
// so missing data simply produces no border layer.
func BorderSegments(rings [][][2]float64, radius float64) []Segment {
	var out []Segment
	for _, ring := range rings {
		for i := 0; i+1 < len(ring); i++ {
			out = append(out, Segment{
				A: Place(ring[i][1], ring[i][0], radius),
				B: Place(ring[i+1][1], ring[i+1][0], radius),
			})
		}
	}
	return out
}
