// Package main is the entry point for the desktop globe.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/geoglobe/internal/app"
	"github.com/Faultbox/geoglobe/internal/config"
	"github.com/Faultbox/geoglobe/internal/desktop"
	"github.com/Faultbox/geoglobe/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if path := config.WriteConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", path)
		return
	}

	// Initialize logger
	if err := logger.Init(logger.Options{
		Level:   cfg.Logging.Level,
		File:    logger.DefaultFileConfig(cfg.Logging.LogFile),
		Console: os.Stdout,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== GeoGlobe (desktop) ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	rt, err := app.Build(cfg, nil)
	if err != nil {
		logger.Error("failed to start", zap.Error(err))
		os.Exit(1)
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go rt.ServeDebug(ctx)

	d, err := desktop.New(desktop.Config{
		Title:         "GeoGlobe",
		Width:         cfg.Window.Width,
		Height:        cfg.Window.Height,
		Audio:         cfg.Audio.Enabled,
		Volume:        cfg.Audio.Volume,
		ScreenshotDir: filepath.Join(config.ConfigDir(), "screenshots"),
	}, rt.Engine, logger.Named("desktop"))
	if err != nil {
		logger.Error("failed to create window", zap.Error(err))
		os.Exit(1)
	}
	defer d.Close()

	if err := d.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("frame loop error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("globe closed normally")
}
