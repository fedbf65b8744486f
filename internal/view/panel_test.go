package view

import (
	"slices"
	"testing"

	"github.com/Faultbox/geoglobe/internal/geo"
	"github.com/Faultbox/geoglobe/internal/globe"
	"github.com/Faultbox/geoglobe/internal/weather"
)

func TestPanelLines(t *testing.T) {
	japan := geo.Point{ID: "Japan", Capital: "Tokyo", Code: "JPN", Latitude: 35.6762, Longitude: 139.6503}

	tests := []struct {
		name string
		sel  globe.Selection
		want []string
	}{
		{
			name: "fetching",
			sel:  globe.Selection{Point: japan, Index: 3},
			want: []string{"Japan [JPN]", "Capital: Tokyo", "35.7°N 139.7°E", "fetching weather..."},
		},
		{
			name: "live",
			sel: globe.Selection{Point: japan, Index: 3, HasWeather: true,
				Weather: weather.Report{TemperatureC: 8.4, CloudCoverPercent: 75, WindSpeedKmh: 12.2, WeatherCode: 61}},
			want: []string{"Japan [JPN]", "Capital: Tokyo", "35.7°N 139.7°E", "8°C | CLOUDS 75% | WIND 12km/h", "rain"},
		},
		{
			name: "offline",
			sel:  globe.Selection{Point: japan, Index: 3, HasWeather: true, Fallback: true, Weather: weather.Fallback()},
			want: []string{"Japan [JPN]", "Capital: Tokyo", "35.7°N 139.7°E", "22°C | CLOUDS 50% | WIND 10km/h", "clear (offline)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PanelLines(tt.sel); !slices.Equal(got, tt.want) {
				t.Errorf("PanelLines() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatLatLon(t *testing.T) {
	tests := []struct {
		lat, lon float64
		want     string
	}{
		{0, 0, "0.0°N 0.0°E"},
		{-34.6, -58.4, "34.6°S 58.4°W"},
		{35.7, 139.7, "35.7°N 139.7°E"},
	}
	for _, tt := range tests {
		if got := FormatLatLon(tt.lat, tt.lon); got != tt.want {
			t.Errorf("FormatLatLon(%v, %v) = %q, want %q", tt.lat, tt.lon, got, tt.want)
		}
	}
}
