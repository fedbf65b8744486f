package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagListen    = flag.String("listen", "", "Debug HTTP server address (e.g. :8080)")
	flagPoints    = flag.String("points", "", "Points-of-interest YAML file")
	flagOffline   = flag.Bool("offline", false, "Disable weather requests")
	flagMute      = flag.Bool("mute", false, "Disable event sounds")
	flagSmoothing = flag.String("smoothing", "", "Smoothing mode: time_corrected or per_frame")
	flagFPS       = flag.Int("fps", 0, "Frame rate")
	flagWidth     = flag.Int("width", 0, "Window width")
	flagHeight    = flag.Int("height", 0, "Window height")
	flagLogFile   = flag.String("log-file", "", "Log file path")
	flagWrite     = flag.String("write-config", "", "Write the effective config to this path and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// WriteConfigPath returns the --write-config destination, if any.
func WriteConfigPath() string {
	return *flagWrite
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		if cfg.Debug.Listen == "" {
			cfg.Debug.Listen = "127.0.0.1:8080"
		}
	}
	if *flagListen != "" {
		cfg.Debug.Listen = *flagListen
	}
	if *flagPoints != "" {
		cfg.Data.PointsFile = *flagPoints
	}
	if *flagOffline {
		cfg.Weather.Enabled = false
	}
	if *flagMute {
		cfg.Audio.Enabled = false
	}
	if *flagSmoothing != "" {
		cfg.Smoothing.Mode = *flagSmoothing
	}
	if *flagFPS > 0 {
		cfg.Window.FPS = *flagFPS
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
