package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClientFetch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"current":{"temperature_2m":17.6,"cloud_cover":83,"wind_speed_10m":12.4,"weather_code":61}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	r, err := c.Fetch(context.Background(), 35.6762, 139.6503)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	want := Report{TemperatureC: 18, CloudCoverPercent: 83, WindSpeedKmh: 12, WeatherCode: 61}
	if r != want {
		t.Errorf("report = %+v, want %+v", r, want)
	}
	for _, part := range []string{"latitude=35.6762", "longitude=139.6503", "current=temperature_2m"} {
		if !strings.Contains(gotQuery, part) {
			t.Errorf("query %q missing %q", gotQuery, part)
		}
	}
}

func TestClientFetchMissingCloudCover(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"current":{"temperature_2m":-2.5,"cloud_cover":null,"wind_speed_10m":3}}`))
	}))
	defer srv.Close()

	r, err := NewClient(srv.URL, time.Second).Fetch(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if r.CloudCoverPercent != 50 {
		t.Errorf("cloud cover = %v, want fallback 50", r.CloudCoverPercent)
	}
	if r.TemperatureC != -2 {
		t.Errorf("temperature = %v, want -2", r.TemperatureC)
	}
}

func TestClientFetchErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{}`},
		{"no current block", http.StatusOK, `{"error":true}`},
		{"bad json", http.StatusOK, `{"current":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			if _, err := NewClient(srv.URL, time.Second).Fetch(context.Background(), 0, 0); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestClientFetchNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Fetch(context.Background(), 0, 0)
	if !errors.Is(err, ErrNoData) {
		t.Errorf("err = %v, want ErrNoData", err)
	}
}

func TestClientFetchCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewClient(srv.URL, time.Second).Fetch(ctx, 0, 0); err == nil {
		t.Error("expected an error from a cancelled context")
	}
}

func TestFallback(t *testing.T) {
	fb := Fallback()
	if fb != (Report{TemperatureC: 22, CloudCoverPercent: 50, WindSpeedKmh: 10}) {
		t.Errorf("Fallback() = %+v", fb)
	}
	if fb.CloudDensity() != 0.5 {
		t.Errorf("fallback density = %v, want 0.5", fb.CloudDensity())
	}
	if got := (Report{CloudCoverPercent: 140}).CloudDensity(); got != 1 {
		t.Errorf("density clamps to 1, got %v", got)
	}
}

func TestProviders(t *testing.T) {
	var p Provider = Static(Fallback())
	if r, err := p.Fetch(context.Background(), 1, 2); err != nil || r != Fallback() {
		t.Errorf("Static.Fetch = %+v, %v", r, err)
	}
	p = Failing{}
	if _, err := p.Fetch(context.Background(), 1, 2); err == nil {
		t.Error("Failing.Fetch returned no error")
	}
}

func TestDescribe(t *testing.T) {
	tests := map[int]string{0: "clear", 2: "partly cloudy", 45: "fog", 63: "rain", 81: "rain", 73: "snow", 95: "thunderstorm", 30: "unknown"}
	for code, want := range tests {
		if got := Describe(code); got != want {
			t.Errorf("Describe(%d) = %q, want %q", code, got, want)
		}
	}
}
