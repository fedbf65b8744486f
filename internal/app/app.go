// Package app wires configuration, catalog, weather, metrics and the engine
// together for the binaries.
package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/Faultbox/geoglobe/internal/config"
	"github.com/Faultbox/geoglobe/internal/debugserver"
	"github.com/Faultbox/geoglobe/internal/geo"
	"github.com/Faultbox/geoglobe/internal/globe"
	"github.com/Faultbox/geoglobe/internal/logger"
	"github.com/Faultbox/geoglobe/internal/metrics"
	"github.com/Faultbox/geoglobe/internal/weather"
)

// DepsFunc builds the engine collaborators for a driver.
type DepsFunc func(*geo.Catalog, *config.Config) globe.Deps

// Runtime is a wired engine plus its optional debug server.
type Runtime struct {
	Config   *config.Config
	Catalog  *geo.Catalog
	Registry *prometheus.Registry
	Engine   *globe.Engine
	Debug    *debugserver.Server // nil when the debug server is off

	log *zap.Logger
}

// Build loads the catalog and assembles the engine. deps may be nil for the
// default collaborators.
func Build(cfg *config.Config, deps DepsFunc) (*Runtime, error) {
	cat, err := geo.LoadCatalog(cfg.Data.PointsFile)
	if err != nil {
		return nil, fmt.Errorf("loading points: %w", err)
	}
	if deps == nil {
		deps = globe.DepsFromConfig
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var provider weather.Provider
	if cfg.Weather.Enabled {
		provider = weather.NewClient(cfg.Weather.BaseURL, cfg.Weather.Timeout)
	}

	engine := globe.New(cat, cfg,
		globe.WithDeps(deps(cat, cfg)),
		globe.WithLogger(logger.Named("engine")),
		globe.WithMetrics(metrics.New(reg)),
		globe.WithWeather(provider),
	)

	rt := &Runtime{
		Config:   cfg,
		Catalog:  cat,
		Registry: reg,
		Engine:   engine,
		log:      logger.Named("app"),
	}
	if cfg.Debug.Listen != "" {
		rt.Debug = debugserver.New(engine, logger.Named("debug"), reg)
	}

	rt.log.Info("runtime ready",
		zap.Int("points", cat.Len()),
		zap.Bool("weather", provider != nil),
		zap.String("smoothing", cfg.SmoothingMode().String()),
		zap.String("debug_listen", cfg.Debug.Listen),
	)
	return rt, nil
}

// ServeDebug runs the debug server until ctx is done. It returns at once when
// the server is off.
func (r *Runtime) ServeDebug(ctx context.Context) {
	if r.Debug == nil {
		return
	}
	if err := r.Debug.ListenAndServe(ctx, r.Config.Debug.Listen); err != nil {
		r.log.Error("debug server failed", zap.Error(err))
	}
}

// Close stops outstanding weather fetches.
func (r *Runtime) Close() {
	r.Engine.Close()
}
