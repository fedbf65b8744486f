package view

import (
	"fmt"

	"github.com/Faultbox/geoglobe/internal/globe"
	"github.com/Faultbox/geoglobe/internal/weather"
)

// PanelLines is the detail panel text for an active selection.
func PanelLines(sel globe.Selection) []string {
	p := sel.Point
	lines := []string{
		fmt.Sprintf("%s [%s]", p.ID, p.Code),
		"Capital: " + p.Capital,
		FormatLatLon(p.Latitude, p.Longitude),
	}
	if !sel.HasWeather {
		return append(lines, "fetching weather...")
	}
	desc := weather.Describe(sel.Weather.WeatherCode)
	if sel.Fallback {
		desc += " (offline)"
	}
	return append(lines, sel.Weather.Summary(), desc)
}

// FormatLatLon renders a coordinate with hemisphere letters.
func FormatLatLon(lat, lon float64) string {
	ns, ew := 'N', 'E'
	if lat < 0 {
		ns, lat = 'S', -lat
	}
	if lon < 0 {
		ew, lon = 'W', -lon
	}
	return fmt.Sprintf("%.1f°%c %.1f°%c", lat, ns, lon, ew)
}
