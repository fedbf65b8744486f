package debugserver

import (
	"time"

	"github.com/Faultbox/geoglobe/internal/engine/lighting"
	"github.com/Faultbox/geoglobe/internal/geo"
	"github.com/Faultbox/geoglobe/internal/globe"
	"github.com/Faultbox/geoglobe/internal/weather"
	"github.com/Faultbox/geoglobe/pkg/math"
)

type vec3 [3]float64

func toVec3(v math.Vec3) vec3 { return vec3{v.X, v.Y, v.Z} }

type vec2 [2]float64

func toVec2(v math.Vec2) vec2 { return vec2{v.X, v.Y} }

type stateResponse struct {
	Time          time.Time          `json:"time"`
	Sun           vec3               `json:"sun"`
	Subsolar      latLon             `json:"subsolar"`
	CloudDensity  float64            `json:"cloud_density"`
	WindSpeed     float64            `json:"wind_speed"`
	ShaderTime    float64            `json:"shader_time"`
	CloudRotation float64            `json:"cloud_rotation"`
	Camera        vec3               `json:"camera"`
	Heading       vec3               `json:"heading"` // unit view direction
	Flying        bool               `json:"flying"`
	AutoRotate    bool               `json:"auto_rotate"`
	Selection     *selectionResponse `json:"selection,omitempty"`
	Overlay       *overlayResponse   `json:"overlay,omitempty"`
}

type latLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type selectionResponse struct {
	Point      geo.Point       `json:"point"`
	DetailOpen bool            `json:"detail_open"`
	Weather    *weather.Report `json:"weather,omitempty"`
	Conditions string          `json:"conditions,omitempty"`
	Fallback   bool            `json:"fallback"`
}

type overlayResponse struct {
	Anchor vec2   `json:"anchor"`
	Panel  vec2   `json:"panel"`
	Tether string `json:"tether"`
}

type pointsResponse struct {
	Home   geo.Point   `json:"home"`
	Points []geo.Point `json:"points"`
}

func newStateResponse(f globe.Frame) stateResponse {
	lat, lon := lighting.SubsolarPoint(f.Time)
	resp := stateResponse{
		Time:          f.Time.UTC(),
		Sun:           toVec3(f.Sun),
		Subsolar:      latLon{Lat: lat, Lon: lon},
		CloudDensity:  f.CloudDensity,
		WindSpeed:     f.WindSpeed,
		ShaderTime:    f.ShaderTime,
		CloudRotation: f.CloudRotation,
		Camera:        toVec3(f.CameraPosition),
		Heading:       toVec3(f.Orientation.Rotate(math.Vec3{Z: -1})),
		Flying:        f.Flying,
		AutoRotate:    f.AutoRotate,
	}

	if sel := f.Selection; sel.Active() {
		sr := &selectionResponse{
			Point:      sel.Point,
			DetailOpen: sel.DetailOpen,
			Fallback:   sel.Fallback,
		}
		if sel.HasWeather {
			report := sel.Weather
			sr.Weather = &report
			sr.Conditions = weather.Describe(report.WeatherCode)
		}
		resp.Selection = sr
	}

	if o := f.Overlay; o.Visible {
		resp.Overlay = &overlayResponse{
			Anchor: toVec2(o.Anchor),
			Panel:  toVec2(o.Panel),
			Tether: o.Tether.Path(),
		}
	}
	return resp
}
