// Package weather retrieves current conditions for a selected point.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://api.open-meteo.com/v1/forecast"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 10 * time.Second

// Report is the current weather at a location.
type Report struct {
	TemperatureC      float64 `json:"temperature_c"`
	CloudCoverPercent float64 `json:"cloud_cover_percent"`
	WindSpeedKmh      float64 `json:"wind_speed_kmh"`
	WeatherCode       int     `json:"weather_code"`
}

// Fallback is used whenever a fetch fails.
func Fallback() Report {
	return Report{TemperatureC: 22, CloudCoverPercent: 50, WindSpeedKmh: 10, WeatherCode: 0}
}

// CloudDensity maps cloud cover to the 0..1 density the cloud layer consumes.
func (r Report) CloudDensity() float64 {
	return math.Min(math.Max(r.CloudCoverPercent/100, 0), 1)
}

// Summary is a one-line description for the detail panel.
func (r Report) Summary() string {
	return fmt.Sprintf("%.0f°C | CLOUDS %.0f%% | WIND %.0fkm/h", r.TemperatureC, r.CloudCoverPercent, r.WindSpeedKmh)
}

// Provider fetches a report for a coordinate.
type Provider interface {
	Fetch(ctx context.Context, lat, lon float64) (Report, error)
}

// ErrNoData is returned when the response has no current conditions block.
var ErrNoData = errors.New("weather response has no current data")

// Client queries an Open-Meteo compatible forecast endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client. An empty baseURL uses the public Open-Meteo
// endpoint; a non-positive timeout uses DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the configured endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type forecastResponse struct {
	Current *struct {
		Temperature *float64 `json:"temperature_2m"`
		CloudCover  *float64 `json:"cloud_cover"`
		WindSpeed   *float64 `json:"wind_speed_10m"`
		WeatherCode *int     `json:"weather_code"`
	} `json:"current"`
}

// Fetch implements Provider.
func (c *Client) Fetch(ctx context.Context, lat, lon float64) (Report, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(lat, lon), nil)
	if err != nil {
		return Report{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Report{}, fmt.Errorf("fetching weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Report{}, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, c.baseURL)
	}

	var body forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Report{}, fmt.Errorf("decoding weather response: %w", err)
	}
	if body.Current == nil {
		return Report{}, ErrNoData
	}

	cur := body.Current
	fb := Fallback()
	r := Report{CloudCoverPercent: fb.CloudCoverPercent}
	if cur.Temperature != nil {
		r.TemperatureC = roundHalfUp(*cur.Temperature)
	}
	if cur.CloudCover != nil {
		r.CloudCoverPercent = *cur.CloudCover
	}
	if cur.WindSpeed != nil {
		r.WindSpeedKmh = roundHalfUp(*cur.WindSpeed)
	}
	if cur.WeatherCode != nil {
		r.WeatherCode = *cur.WeatherCode
	}
	return r, nil
}

func (c *Client) requestURL(lat, lon float64) string {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("current", "temperature_2m,cloud_cover,wind_speed_10m,weather_code")
	return c.baseURL + "?" + q.Encode()
}

func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// Static always returns the same report. Useful offline and in tests.
type Static Report

// Fetch implements Provider.
func (s Static) Fetch(context.Context, float64, float64) (Report, error) {
	return Report(s), nil
}

// Failing always returns its error.
type Failing struct {
	Err error
}

// Fetch implements Provider.
func (f Failing) Fetch(context.Context, float64, float64) (Report, error) {
	if f.Err == nil {
		return Report{}, errors.New("weather unavailable")
	}
	return Report{}, f.Err
}
