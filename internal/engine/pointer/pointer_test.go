package pointer

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, time.October, 19, 9, 30, 0, 0, time.UTC)

func TestResolverClassification(t *testing.T) {
	tests := []struct {
		name     string
		dx, dy   float64
		duration time.Duration
		want     Kind
	}{
		{"short still press", 3, 4, 200 * time.Millisecond, Tap},
		{"moved too far", 12, 16, 200 * time.Millisecond, Drag},
		{"held too long", 3, 4, 800 * time.Millisecond, Drag},
		{"exactly on both thresholds", 6, 8, 500 * time.Millisecond, Tap},
		{"just over distance", 0, 10.001, 100 * time.Millisecond, Drag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Resolver
			r.Down(Event{X: 100, Y: 100, Time: t0, Primary: true})
			g := r.Up(Event{X: 100 + tt.dx, Y: 100 + tt.dy, Time: t0.Add(tt.duration), Primary: true})
			if g.Kind != tt.want {
				t.Errorf("kind = %v (distance %v, duration %v), want %v", g.Kind, g.Distance, g.Duration, tt.want)
			}
			if r.Pressed() {
				t.Error("resolver still pressed after Up")
			}
		})
	}
}

func TestResolverIgnoresSecondaryPointers(t *testing.T) {
	var r Resolver
	if r.Down(Event{Time: t0}) {
		t.Error("secondary down accepted")
	}
	if g := r.Up(Event{Time: t0, Primary: true}); g.Kind != Ignored {
		t.Errorf("up without down = %v, want ignored", g.Kind)
	}

	r.Down(Event{Time: t0, Primary: true})
	if g := r.Up(Event{Time: t0}); g.Kind != Ignored {
		t.Errorf("secondary up = %v, want ignored", g.Kind)
	}
	if !r.Pressed() {
		t.Error("secondary up released the primary gesture")
	}
}

func TestResolverCustomThresholds(t *testing.T) {
	r := NewResolver(2, 100*time.Millisecond)
	r.Down(Event{Time: t0, Primary: true})
	if g := r.Up(Event{X: 5, Time: t0.Add(50 * time.Millisecond), Primary: true}); g.Kind != Drag {
		t.Errorf("kind = %v, want drag with a 2px threshold", g.Kind)
	}
}

func TestUpCarriesOverlayFlag(t *testing.T) {
	var r Resolver
	r.Down(Event{Time: t0, Primary: true})
	g := r.Up(Event{Time: t0, Primary: true, OverUI: true})
	if g.Kind != Tap || !g.Up.OverUI {
		t.Errorf("gesture = %+v, want a tap over the overlay", g)
	}
}
