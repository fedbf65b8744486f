// Package debugserver exposes engine state, metrics and remote commands over HTTP.
package debugserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Faultbox/geoglobe/internal/engine/debug"
	"github.com/Faultbox/geoglobe/internal/geo"
	"github.com/Faultbox/geoglobe/internal/globe"
	"github.com/Faultbox/geoglobe/internal/metrics"
	"github.com/Faultbox/geoglobe/internal/view"
)

const shutdownTimeout = 5 * time.Second

// Snapshot image limits, in cells and pixels per cell.
const (
	defaultSnapshotCols = 160
	maxSnapshotCols     = 640
	defaultSnapshotCell = 4
	maxSnapshotCell     = 16
)

// Engine is the part of globe.Engine the server needs.
type Engine interface {
	Catalog() *geo.Catalog
	Command(globe.Command)
	Snapshot() (globe.Frame, bool)
}

// Server serves the debug endpoints.
type Server struct {
	engine   Engine
	log      *zap.Logger
	gatherer prometheus.Gatherer
	http     *metrics.HTTP
}

// New creates a server. Request metrics are registered with reg, and
// /metrics serves everything reg gathers.
func New(engine Engine, log *zap.Logger, reg *prometheus.Registry) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		engine:   engine,
		log:      log,
		gatherer: reg,
		http:     metrics.NewHTTP(reg),
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.log))
	r.Use(chiMiddleware.RequestID)
	r.Use(requestLogger(s.log))
	r.Use(s.http.Middleware)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Get("/state", s.handleState)
	r.Get("/snapshot.png", s.handleSnapshot)
	r.Get("/points", s.handlePoints)
	r.Post("/fly/{id}", s.handleFly)
	r.Post("/home", s.handleCommand(globe.FlyHome))
	r.Post("/dismiss", s.handleCommand(globe.Dismiss))
	r.Post("/rotation", s.handleCommand(globe.ToggleRotation))
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("debug server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("debug server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	f, ok := s.engine.Snapshot()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "not_ready", "no frame rendered yet")
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(f))
}

// handleSnapshot renders the latest frame as a PNG with the detail panel text
// as a caption. The row count follows the projection aspect so cells stay
// square.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	f, ok := s.engine.Snapshot()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "not_ready", "no frame rendered yet")
		return
	}
	cols, err := intParam(r, "cols", defaultSnapshotCols, maxSnapshotCols)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_param", err.Error())
		return
	}
	size, err := intParam(r, "cell", defaultSnapshotCell, maxSnapshotCell)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_param", err.Error())
		return
	}

	rows := cols
	if aspect := f.Projection[5] / f.Projection[0]; aspect > 0 {
		rows = max(1, int(float64(cols)/aspect+0.5))
	}
	img := debug.Image(view.Render(f, s.engine.Catalog().Markers(geo.MarkerRadius), cols, rows), size)
	if f.Selection.Active() {
		debug.Caption(img, view.PanelLines(f.Selection))
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if err := debug.EncodePNG(w, img); err != nil {
		s.log.Warn("snapshot encode failed", zap.Error(err))
	}
}

// intParam reads a positive integer query parameter bounded by limit.
func intParam(r *http.Request, name string, def, limit int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 || n > limit {
		return 0, fmt.Errorf("%s must be an integer in [1, %d]", name, limit)
	}
	return n, nil
}

func (s *Server) handlePoints(w http.ResponseWriter, _ *http.Request) {
	cat := s.engine.Catalog()
	writeJSON(w, http.StatusOK, pointsResponse{Home: cat.Home(), Points: cat.Points()})
}

func (s *Server) handleFly(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, _, err := s.engine.Catalog().Lookup(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown_point", err.Error())
		return
	}
	s.engine.Command(globe.Command{Kind: globe.FlyTo, PointID: p.ID})
	writeJSON(w, http.StatusAccepted, map[string]string{"queued": globe.FlyTo.String(), "point": p.ID})
}

func (s *Server) handleCommand(kind globe.CommandKind) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s.engine.Command(globe.Command{Kind: kind})
		writeJSON(w, http.StatusAccepted, map[string]string{"queued": kind.String()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"code": code, "message": message})
}

// jsonRecoverer returns a JSON 500 instead of a plain text stack trace.
func jsonRecoverer(log *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					log.Error("panic recovered", zap.Any("panic", rvr), zap.Stack("stacktrace"))
					writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger emits one debug line per request.
func requestLogger(log *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			log.Debug("http_request",
				zap.String("request_id", chiMiddleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
			)
		})
	}
}
