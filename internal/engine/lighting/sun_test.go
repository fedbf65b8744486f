package lighting

import (
	"math"
	"testing"
	"time"
)

func TestComputeSunDirectionUnitLength(t *testing.T) {
	for h := 0.0; h <= 24; h += 0.75 {
		for d := 1.0; d <= 366; d += 9.5 {
			l := ComputeSunDirection(h, d).Length()
			if math.Abs(l-1) > 1e-12 {
				t.Fatalf("|sun(%v, %v)| = %v", h, d, l)
			}
		}
	}
}

func TestDeclinationAtEquinox(t *testing.T) {
	if d := Declination(EquinoxDay); math.Abs(d) > 1e-12 {
		t.Errorf("declination at day 81 = %v, want 0", d)
	}
	// One day either side is still close to zero.
	for _, day := range []float64{80, 82} {
		if d := Declination(day) * 180 / math.Pi; math.Abs(d) > 0.5 {
			t.Errorf("declination at day %v = %v°, want near 0", day, d)
		}
	}
	// Around the June solstice the sun is near the full tilt.
	if d := Declination(172) * 180 / math.Pi; d < 23 || d > AxialTilt {
		t.Errorf("declination at day 172 = %v°, want ~23.4", d)
	}
}

func TestNoonSunOverPrimeMeridian(t *testing.T) {
	dir := ComputeSunDirection(12, EquinoxDay)
	if math.Abs(dir.X) > 1e-12 || math.Abs(dir.Y) > 1e-12 || math.Abs(dir.Z-1) > 1e-12 {
		t.Errorf("noon equinox sun = %v, want (0, 0, 1)", dir)
	}
	// Six hours later the sun has moved 90° west.
	dir = ComputeSunDirection(18, EquinoxDay)
	if math.Abs(dir.X+1) > 1e-12 {
		t.Errorf("18:00 sun = %v, want (-1, 0, 0)", dir)
	}
}

func TestSunDirectionContinuity(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
	}{
		{"day rollover", time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)},
		{"year rollover", time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{"leap year rollover", time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{"leap day", time.Date(2028, time.March, 1, 0, 0, 0, 0, time.UTC)},
	}
	// One second of Earth rotation moves the sun by ~7.3e-5 rad.
	const maxStep = 1e-4
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := SunDirectionAt(tt.at.Add(-500 * time.Millisecond))
			after := SunDirectionAt(tt.at.Add(500 * time.Millisecond))
			if step := before.Distance(after); step > maxStep {
				t.Errorf("sun jumped by %v across %v", step, tt.at)
			}
		})
	}
}

func TestDayOfYear(t *testing.T) {
	if d := DayOfYear(dayEpoch); d != 1 {
		t.Errorf("DayOfYear(epoch) = %v, want 1", d)
	}
	noon := time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)
	if d := DayOfYear(noon); math.Abs(d-1.5) > 1e-12 {
		t.Errorf("DayOfYear(epoch+12h) = %v, want 1.5", d)
	}
	// Calendar ordinal and continuous count stay within a day of each other.
	for year := 1995; year < 2060; year++ {
		at := time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC)
		if diff := math.Abs(DayOfYear(at) - float64(at.YearDay())); diff > 1 {
			t.Errorf("%d: continuous day %v vs calendar %d", year, DayOfYear(at), at.YearDay())
		}
	}
}

func TestUTCHours(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	at := time.Date(2026, time.October, 19, 21, 30, 36, 0, loc)
	if h := UTCHours(at); math.Abs(h-12.51) > 1e-9 {
		t.Errorf("UTCHours = %v, want 12.51", h)
	}
}

func TestSubsolarPoint(t *testing.T) {
	at := time.Date(2026, time.March, 21, 12, 0, 0, 0, time.UTC)
	lat, lon := SubsolarPoint(at)
	if math.Abs(lon) > 1e-9 {
		t.Errorf("subsolar longitude at 12:00 UTC = %v, want 0", lon)
	}
	if math.Abs(lat) > 2 {
		t.Errorf("subsolar latitude near equinox = %v, want near 0", lat)
	}

	_, lon = SubsolarPoint(time.Date(2026, time.March, 21, 0, 0, 0, 0, time.UTC))
	if math.Abs(math.Abs(lon)-180) > 1e-9 {
		t.Errorf("subsolar longitude at midnight = %v, want ±180", lon)
	}
}
