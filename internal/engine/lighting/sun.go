// Package lighting computes the real-time sun direction that drives the
// day/night terminator.
package lighting

import (
	"math"
	"time"

	gmath "github.com/Faultbox/geoglobe/pkg/math"
)

const (
	// AxialTilt is the maximum solar declination in degrees.
	AxialTilt = 23.44
	// EquinoxDay is the day-of-year of the March equinox used as the seasonal reference.
	EquinoxDay = 81.0
	// TropicalYear is the period of the declination approximation in days.
	TropicalYear = 365.25
)

// dayEpoch is day 1 of the continuous day-of-year count.
var dayEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// SunLongitude returns the sun's longitude in radians for a fractional UTC hour.
// Noon UTC puts the sun over the prime meridian.
func SunLongitude(utcHours float64) float64 {
	return -((utcHours - 12) / 24) * 2 * math.Pi
}

// Declination returns the seasonal solar declination in radians.
func Declination(dayOfYear float64) float64 {
	return AxialTilt * (math.Pi / 180) * math.Sin(2*math.Pi*(dayOfYear-EquinoxDay)/TropicalYear)
}

// ComputeSunDirection returns the unit vector towards the sun, in the same
// frame as geo.Place (scene azimuth equals longitude).
func ComputeSunDirection(utcHours, dayOfYear float64) gmath.Vec3 {
	lon := SunLongitude(utcHours)
	decl := Declination(dayOfYear)
	return gmath.Vec3{
		X: math.Cos(decl) * math.Sin(lon),
		Y: math.Sin(decl),
		Z: math.Cos(decl) * math.Cos(lon),
	}.Normalize()
}

// UTCHours returns the fractional hour of the UTC day.
func UTCHours(t time.Time) float64 {
	u := t.UTC()
	midnight := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return u.Sub(midnight).Hours()
}

// DayOfYear returns a fractional day count that advances continuously with t.
//
// It counts days since 2000-01-01 (day 1) modulo TropicalYear instead of using
// the calendar ordinal. Declination is TropicalYear-periodic, so the result has
// no step at midnight or at the turn of a calendar year. The value drifts from
// the calendar ordinal by less than one day across leap cycles.
func DayOfYear(t time.Time) float64 {
	days := t.Sub(dayEpoch).Hours() / 24
	d := math.Mod(days, TropicalYear)
	if d < 0 {
		d += TropicalYear
	}
	return 1 + d
}

// SunDirectionAt returns the sun direction for a wall-clock instant.
func SunDirectionAt(t time.Time) gmath.Vec3 {
	return ComputeSunDirection(UTCHours(t), DayOfYear(t))
}

// SubsolarPoint returns the latitude and longitude in degrees where the sun is overhead.
func SubsolarPoint(t time.Time) (latDeg, lonDeg float64) {
	latDeg = Declination(DayOfYear(t)) * 180 / math.Pi
	lonDeg = SunLongitude(UTCHours(t)) * 180 / math.Pi
	lonDeg = math.Mod(lonDeg+180, 360)
	if lonDeg < 0 {
		lonDeg += 360
	}
	return latDeg, lonDeg - 180
}
