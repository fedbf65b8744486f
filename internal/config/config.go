// Package config handles globe configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Faultbox/geoglobe/internal/engine/smooth"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all globe settings.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Globe     GlobeConfig     `yaml:"globe"`
	Flight    FlightConfig    `yaml:"flight"`
	Pointer   PointerConfig   `yaml:"pointer"`
	Smoothing SmoothingConfig `yaml:"smoothing"`
	Overlay   OverlayConfig   `yaml:"overlay"`
	Weather   WeatherConfig   `yaml:"weather"`
	Audio     AudioConfig     `yaml:"audio"`
	Debug     DebugConfig     `yaml:"debug"`
	Data      DataConfig      `yaml:"data"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// WindowConfig holds the viewport and frame rate of the drivers.
type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}

// GlobeConfig holds camera and orbit settings.
type GlobeConfig struct {
	CameraDistance  float64 `yaml:"camera_distance"`
	FOVDegrees      float64 `yaml:"fov_degrees"`
	AutoRotate      bool    `yaml:"auto_rotate"`
	AutoRotateSpeed float64 `yaml:"auto_rotate_speed"`
	RotateSpeed     float64 `yaml:"rotate_speed"`
}

// FlightConfig holds camera flight settings.
type FlightConfig struct {
	Duration time.Duration `yaml:"duration"`
}

// PointerConfig holds the tap thresholds.
type PointerConfig struct {
	TapDistance float64       `yaml:"tap_distance"`
	TapDuration time.Duration `yaml:"tap_duration"`
}

// SmoothingConfig selects how animation scalars approach their targets.
type SmoothingConfig struct {
	Mode        string  `yaml:"mode"` // time_corrected or per_frame
	CloudFactor float64 `yaml:"cloud_factor"`
	WindFactor  float64 `yaml:"wind_factor"`
}

// Offset is a pixel offset.
type Offset struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// OverlayConfig positions the detail panel and tether.
type OverlayConfig struct {
	Panel   Offset `yaml:"panel"`
	Attach  Offset `yaml:"attach"`
	Control Offset `yaml:"control"`
}

// WeatherConfig holds the weather source.
type WeatherConfig struct {
	Enabled bool          `yaml:"enabled"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// AudioConfig holds the desktop event cues.
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"`
}

// DebugConfig holds the debug HTTP server settings.
type DebugConfig struct {
	Listen string `yaml:"listen"` // empty disables the server
}

// DataConfig holds data file paths.
type DataConfig struct {
	PointsFile string `yaml:"points_file"` // empty uses the built-in list
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			FPS:    60,
		},
		Globe: GlobeConfig{
			CameraDistance:  15,
			FOVDegrees:      45,
			AutoRotate:      false,
			AutoRotateSpeed: 0.5,
			RotateSpeed:     0.6,
		},
		Flight: FlightConfig{
			Duration: 1200 * time.Millisecond,
		},
		Pointer: PointerConfig{
			TapDistance: 10,
			TapDuration: 500 * time.Millisecond,
		},
		Smoothing: SmoothingConfig{
			Mode:        smooth.TimeCorrected.String(),
			CloudFactor: 0.05,
			WindFactor:  0.02,
		},
		Overlay: OverlayConfig{
			Panel:   Offset{X: 30, Y: -50},
			Attach:  Offset{X: 0, Y: 20},
			Control: Offset{X: -50, Y: 0},
		},
		Weather: WeatherConfig{
			Enabled: true,
			Timeout: 10 * time.Second,
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.6,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks values the engine cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Window.FPS <= 0:
		return fmt.Errorf("%w: fps %d", ErrInvalid, c.Window.FPS)
	case c.Globe.CameraDistance <= 0:
		return fmt.Errorf("%w: camera distance %v", ErrInvalid, c.Globe.CameraDistance)
	case c.Globe.FOVDegrees <= 0 || c.Globe.FOVDegrees >= 180:
		return fmt.Errorf("%w: fov %v", ErrInvalid, c.Globe.FOVDegrees)
	case c.Flight.Duration <= 0:
		return fmt.Errorf("%w: flight duration %v", ErrInvalid, c.Flight.Duration)
	case c.Pointer.TapDistance <= 0 || c.Pointer.TapDuration <= 0:
		return fmt.Errorf("%w: tap thresholds %v/%v", ErrInvalid, c.Pointer.TapDistance, c.Pointer.TapDuration)
	case !validFactor(c.Smoothing.CloudFactor) || !validFactor(c.Smoothing.WindFactor):
		return fmt.Errorf("%w: smoothing factors must be in [0, 1]", ErrInvalid)
	case !validFactor(c.Audio.Volume):
		return fmt.Errorf("%w: audio volume must be in [0, 1]", ErrInvalid)
	}
	if m := c.Smoothing.Mode; m != "" && smooth.ParseMode(m).String() != m {
		return fmt.Errorf("%w: smoothing mode %q", ErrInvalid, m)
	}
	return nil
}

// SmoothingMode returns the parsed smoothing mode.
func (c *Config) SmoothingMode() smooth.Mode {
	return smooth.ParseMode(c.Smoothing.Mode)
}

func validFactor(f float64) bool {
	return f >= 0 && f <= 1
}
