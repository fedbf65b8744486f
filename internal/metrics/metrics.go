// Package metrics exposes engine activity as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "geoglobe"

// Metrics holds the engine collectors. A nil *Metrics records nothing.
type Metrics struct {
	frames         prometheus.Counter
	frameDuration  prometheus.Histogram
	flights        *prometheus.CounterVec
	gestures       *prometheus.CounterVec
	selections     prometheus.Counter
	weather        *prometheus.CounterVec
	weatherLatency prometheus.Histogram
	cloudDensity   prometheus.Gauge
	windSpeed      prometheus.Gauge
	shaderTime     prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Total frames stepped",
		}),
		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_step_duration_seconds",
			Help:      "Time spent stepping one frame",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
		flights: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flights_total",
			Help:      "Camera flights by outcome",
		}, []string{"outcome"}),
		gestures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gestures_total",
			Help:      "Completed pointer gestures by kind",
		}, []string{"kind"}),
		selections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selections_total",
			Help:      "Points selected",
		}),
		weather: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_results_total",
			Help:      "Weather results by outcome (applied, fallback, stale)",
		}, []string{"outcome"}),
		weatherLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "weather_fetch_duration_seconds",
			Help:      "Weather fetch duration",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		cloudDensity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cloud_density",
			Help:      "Current smoothed cloud density",
		}),
		windSpeed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "wind_speed_kmh",
			Help:      "Current smoothed wind speed",
		}),
		shaderTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "shader_time",
			Help:      "Accumulated cloud shader time",
		}),
	}

	reg.MustRegister(
		m.frames, m.frameDuration,
		m.flights, m.gestures, m.selections,
		m.weather, m.weatherLatency,
		m.cloudDensity, m.windSpeed, m.shaderTime,
	)
	return m
}

// ObserveFrame records one stepped frame and its animation scalars.
func (m *Metrics) ObserveFrame(took time.Duration, cloudDensity, windSpeed, shaderTime float64) {
	if m == nil {
		return
	}
	m.frames.Inc()
	m.frameDuration.Observe(took.Seconds())
	m.cloudDensity.Set(cloudDensity)
	m.windSpeed.Set(windSpeed)
	m.shaderTime.Set(shaderTime)
}

// Flight records a flight outcome: started, finished or cancelled.
func (m *Metrics) Flight(outcome string) {
	if m == nil {
		return
	}
	m.flights.WithLabelValues(outcome).Inc()
}

// Gesture records a classified pointer gesture.
func (m *Metrics) Gesture(kind string) {
	if m == nil {
		return
	}
	m.gestures.WithLabelValues(kind).Inc()
}

// Selection records a point selection.
func (m *Metrics) Selection() {
	if m == nil {
		return
	}
	m.selections.Inc()
}

// Weather records how a weather result was used.
func (m *Metrics) Weather(outcome string) {
	if m == nil {
		return
	}
	m.weather.WithLabelValues(outcome).Inc()
}

// WeatherFetch records the duration of one fetch.
func (m *Metrics) WeatherFetch(took time.Duration) {
	if m == nil {
		return
	}
	m.weatherLatency.Observe(took.Seconds())
}
