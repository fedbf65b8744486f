package globe

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/geoglobe/internal/config"
	"github.com/Faultbox/geoglobe/internal/engine/annotation"
	"github.com/Faultbox/geoglobe/internal/geo"
	"github.com/Faultbox/geoglobe/internal/metrics"
	"github.com/Faultbox/geoglobe/internal/weather"
)

// maxFrameDelta caps dt after a stall so animations do not jump.
const maxFrameDelta = 100 * time.Millisecond

// Engine runs Step on one goroutine and accepts input from any goroutine.
type Engine struct {
	deps     Deps
	provider weather.Provider
	log      *zap.Logger
	metrics  *metrics.Metrics

	mu       sync.Mutex
	commands []Command
	pointers []PointerInput
	viewport annotation.Viewport

	results     chan WeatherResult
	fetches     sync.WaitGroup
	fetchCtx    context.Context
	cancelFetch context.CancelFunc

	// Owned by the frame goroutine.
	state    State
	lastTick time.Time
	local    []WeatherResult // results produced without a fetch

	snapshot atomic.Pointer[Frame]
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithWeather sets the weather provider. Nil disables weather fetches and
// every selection gets the fallback report.
func WithWeather(p weather.Provider) Option {
	return func(e *Engine) { e.provider = p }
}

// WithDeps replaces the Step collaborators.
func WithDeps(d Deps) Option {
	return func(e *Engine) { e.deps = d }
}

// New builds an engine for a catalog. cfg may be nil for defaults.
func New(cat *geo.Catalog, cfg *config.Config, opts ...Option) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		deps:        DepsFromConfig(cat, cfg),
		log:         zap.NewNop(),
		results:     make(chan WeatherResult, 16),
		fetchCtx:    ctx,
		cancelFetch: cancel,
		state:       NewState(cat.Home(), cfg),
		viewport:    annotation.Viewport{Width: float64(cfg.Window.Width), Height: float64(cfg.Window.Height)},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the point catalog.
func (e *Engine) Catalog() *geo.Catalog {
	return e.deps.Catalog
}

// Command queues a user command for the next frame.
func (e *Engine) Command(c Command) {
	e.mu.Lock()
	e.commands = append(e.commands, c)
	e.mu.Unlock()
}

// Pointer queues a pointer event for the next frame.
func (e *Engine) Pointer(p PointerInput) {
	e.mu.Lock()
	e.pointers = append(e.pointers, p)
	e.mu.Unlock()
}

// SetViewport changes the screen size used from the next frame on.
func (e *Engine) SetViewport(width, height float64) {
	e.mu.Lock()
	e.viewport = annotation.Viewport{Width: width, Height: height}
	e.mu.Unlock()
}

// Snapshot returns the most recent frame. ok is false before the first tick.
func (e *Engine) Snapshot() (f Frame, ok bool) {
	p := e.snapshot.Load()
	if p == nil {
		return Frame{}, false
	}
	return *p, true
}

// Tick steps one frame at now. It must only be called from one goroutine.
func (e *Engine) Tick(now time.Time) Frame {
	in := e.drain(now)

	start := time.Now()
	next, f := Step(e.state, in, e.deps)
	e.state = next
	e.metrics.ObserveFrame(time.Since(start), f.CloudDensity, f.WindSpeed, f.ShaderTime)

	for _, ev := range f.Events {
		e.record(ev)
	}
	for _, req := range f.Requests {
		e.dispatch(req)
	}

	e.snapshot.Store(&f)
	return f
}

func (e *Engine) drain(now time.Time) Input {
	var dt time.Duration
	if !e.lastTick.IsZero() {
		dt = now.Sub(e.lastTick)
		if dt < 0 {
			dt = 0
		}
		if dt > maxFrameDelta {
			dt = maxFrameDelta
		}
	}
	e.lastTick = now

	e.mu.Lock()
	in := Input{
		Now:      now,
		DT:       dt,
		Viewport: e.viewport,
		Commands: e.commands,
		Pointer:  e.pointers,
	}
	e.commands = nil
	e.pointers = nil
	e.mu.Unlock()

	in.Weather = e.local
	e.local = nil

	for {
		select {
		case r := <-e.results:
			in.Weather = append(in.Weather, r)
		default:
			return in
		}
	}
}

// dispatch fetches weather for a selection without blocking the frame.
func (e *Engine) dispatch(req WeatherRequest) {
	if e.provider == nil {
		e.local = append(e.local, WeatherResult{Generation: req.Generation, Err: errWeatherDisabled})
		return
	}
	e.fetches.Add(1)
	go func() {
		defer e.fetches.Done()
		start := time.Now()
		report, err := e.provider.Fetch(e.fetchCtx, req.Point.Latitude, req.Point.Longitude)
		e.metrics.WeatherFetch(time.Since(start))
		if err != nil {
			e.log.Warn("weather fetch failed, using fallback",
				zap.String("point", req.Point.ID), zap.Error(err))
		}
		e.deliver(WeatherResult{Generation: req.Generation, Report: report, Err: err})
	}()
}

var errWeatherDisabled = errors.New("weather disabled")

func (e *Engine) deliver(r WeatherResult) {
	select {
	case e.results <- r:
	case <-e.fetchCtx.Done():
	}
}

func (e *Engine) record(ev Event) {
	switch ev.Kind {
	case EventSelected:
		e.metrics.Selection()
		e.log.Info("point selected", zap.String("point", ev.PointID))
	case EventDeselected:
		e.log.Debug("selection cleared", zap.String("point", ev.PointID))
	case EventFlightStarted:
		e.metrics.Flight("started")
		e.log.Debug("flight started", zap.String("point", ev.PointID))
	case EventFlightFinished:
		e.metrics.Flight("finished")
		e.log.Debug("flight finished", zap.String("point", ev.PointID))
	case EventFlightCancelled:
		e.metrics.Flight("cancelled")
		e.log.Debug("flight cancelled by user input")
	case EventGesture:
		e.metrics.Gesture(ev.Gesture.String())
	case EventWeatherApplied:
		e.metrics.Weather("applied")
	case EventWeatherFallback:
		e.metrics.Weather("fallback")
	case EventWeatherStale:
		e.metrics.Weather("stale")
		e.log.Debug("discarded weather for a previous selection")
	case EventUnknownPoint:
		e.log.Warn("fly-to for unknown point", zap.String("point", ev.PointID), zap.Error(ev.Err))
	}
}

// Run ticks at fps until ctx is done, calling onFrame after every frame.
// Outstanding weather fetches are cancelled before Run returns.
func (e *Engine) Run(ctx context.Context, fps int, onFrame func(Frame)) error {
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	defer e.Close()

	e.log.Info("engine started", zap.Int("fps", fps), zap.Int("points", e.deps.Catalog.Len()))
	for {
		select {
		case <-ctx.Done():
			e.log.Info("engine stopped")
			return ctx.Err()
		case now := <-ticker.C:
			f := e.Tick(now)
			if onFrame != nil {
				onFrame(f)
			}
		}
	}
}

// Close cancels outstanding weather fetches and waits for them.
func (e *Engine) Close() {
	e.cancelFetch()
	e.fetches.Wait()
}
