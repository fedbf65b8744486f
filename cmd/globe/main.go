// Package main is the entry point for the terminal globe.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Faultbox/geoglobe/internal/app"
	"github.com/Faultbox/geoglobe/internal/config"
	"github.com/Faultbox/geoglobe/internal/logger"
	"github.com/Faultbox/geoglobe/internal/tui"
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

	// The terminal belongs to the UI, so logs only go to the file.
	if err := logger.Init(logger.Options{
		Level: cfg.Logging.Level,
		File:  logger.DefaultFileConfig(cfg.Logging.LogFile),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== GeoGlobe (terminal) ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	rt, err := app.Build(cfg, tui.Deps)
	if err != nil {
		logger.Error("failed to start", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go rt.ServeDebug(ctx)

	p := tea.NewProgram(tui.New(rt.Engine, cfg.Window.FPS), tea.WithAltScreen(), tea.WithMouseCellMotion())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		logger.Error("terminal UI error", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	logger.Info("globe closed normally")
}
