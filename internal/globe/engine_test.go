package globe

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Faultbox/geoglobe/internal/config"
	"github.com/Faultbox/geoglobe/internal/geo"
	"github.com/Faultbox/geoglobe/internal/weather"
)

type providerFunc func(ctx context.Context, lat, lon float64) (weather.Report, error)

func (f providerFunc) Fetch(ctx context.Context, lat, lon float64) (weather.Report, error) {
	return f(ctx, lat, lon)
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	cat, err := geo.DefaultCatalog()
	if err != nil {
		t.Fatal(err)
	}
	e := New(cat, config.Default(), opts...)
	t.Cleanup(e.Close)
	return e
}

// tickUntil ticks at 60 Hz simulated time until cond holds or a real-time deadline passes.
func tickUntil(t *testing.T, e *Engine, start time.Time, cond func(Frame) bool) (Frame, time.Time) {
	t.Helper()
	now := start
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		now = now.Add(frameDT)
		f := e.Tick(now)
		if cond(f) {
			return f, now
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached")
	return Frame{}, now
}

func TestEngineSnapshot(t *testing.T) {
	e := newTestEngine(t, WithWeather(weather.Static(weather.Fallback())))
	if _, ok := e.Snapshot(); ok {
		t.Error("snapshot available before the first tick")
	}
	f := e.Tick(t0)
	snap, ok := e.Snapshot()
	if !ok || snap.Time != f.Time || snap.CameraPosition != f.CameraPosition {
		t.Errorf("snapshot = %+v, want the last frame", snap)
	}
}

func TestEngineFailedFetchUsesFallback(t *testing.T) {
	e := newTestEngine(t, WithWeather(weather.Failing{Err: errors.New("offline")}))

	e.Command(Command{Kind: FlyTo, PointID: "Japan"})
	e.Tick(t0)
	f, now := tickUntil(t, e, t0, func(f Frame) bool { return f.Selection.HasWeather })

	if !f.Selection.Fallback || f.Selection.Weather != weather.Fallback() {
		t.Errorf("selection weather = %+v", f.Selection)
	}
	for i := 0; i < 300; i++ {
		now = now.Add(frameDT)
		f = e.Tick(now)
	}
	if f.CloudDensity < 0.499 || f.CloudDensity > 0.501 {
		t.Errorf("cloud density = %v, want ~0.5", f.CloudDensity)
	}
}

func TestEngineWithoutProviderFallsBack(t *testing.T) {
	e := newTestEngine(t)
	e.Command(Command{Kind: FlyTo, PointID: "France"})
	e.Tick(t0)
	f := e.Tick(t0.Add(frameDT))
	if !f.Selection.HasWeather || !f.Selection.Fallback {
		t.Errorf("selection = %+v, want fallback weather on the next frame", f.Selection)
	}
}

func TestEngineDiscardsLateResult(t *testing.T) {
	release := make(chan struct{})
	// France (lat 48.9) answers only after Japan (lat 35.7).
	provider := providerFunc(func(ctx context.Context, lat, lon float64) (weather.Report, error) {
		if lat > 45 {
			select {
			case <-release:
			case <-ctx.Done():
				return weather.Report{}, ctx.Err()
			}
			return weather.Report{CloudCoverPercent: 95, WindSpeedKmh: 80}, nil
		}
		return weather.Report{CloudCoverPercent: 20, WindSpeedKmh: 5}, nil
	})
	e := newTestEngine(t, WithWeather(provider))

	e.Command(Command{Kind: FlyTo, PointID: "France"})
	e.Tick(t0)
	e.Command(Command{Kind: FlyTo, PointID: "Japan"})
	e.Tick(t0.Add(frameDT))

	f, now := tickUntil(t, e, t0.Add(frameDT), func(f Frame) bool { return f.Selection.HasWeather })
	if f.Selection.Point.ID != "Japan" || f.Selection.Weather.CloudCoverPercent != 20 {
		t.Fatalf("selection = %+v", f.Selection)
	}

	close(release)
	f, _ = tickUntil(t, e, now, func(f Frame) bool { return hasEvent(f, EventWeatherStale) })
	if f.Selection.Weather.CloudCoverPercent != 20 {
		t.Errorf("late France result overwrote Japan: %+v", f.Selection.Weather)
	}
	if e.state.Clouds.Target != 0.2 {
		t.Errorf("cloud target = %v, want 0.2", e.state.Clouds.Target)
	}
}

func TestEngineQueuesFromManyGoroutines(t *testing.T) {
	e := newTestEngine(t, WithWeather(weather.Static(weather.Fallback())))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Command(Command{Kind: ToggleRotation})
		}()
	}
	wg.Wait()

	f := e.Tick(t0)
	if f.AutoRotate {
		t.Error("eight toggles should leave rotation off")
	}
}

func TestEngineClampsFrameDelta(t *testing.T) {
	e := newTestEngine(t)
	e.Tick(t0)
	f := e.Tick(t0.Add(10 * time.Second))
	// One clamped frame at zero wind target change: 0.1s·(0.2 + 10·0.05).
	if f.ShaderTime > 0.071 {
		t.Errorf("shader time = %v, stall was not clamped", f.ShaderTime)
	}
}

func TestEngineRun(t *testing.T) {
	e := newTestEngine(t)
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	var frames int
	err := e.Run(ctx, 100, func(Frame) { frames++ })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() = %v, want deadline exceeded", err)
	}
	if frames == 0 {
		t.Error("no frames produced")
	}
	if _, ok := e.Snapshot(); !ok {
		t.Error("no snapshot after Run")
	}
}
