// Package smooth eases slow-changing visual parameters towards their targets.
package smooth

import (
	"math"
	"time"
)

// Mode selects how the smoothing factor relates to frame time.
type Mode int

const (
	// TimeCorrected converts the factor into a time constant so convergence
	// speed does not depend on frame rate.
	TimeCorrected Mode = iota
	// PerFrame applies the factor once per Advance regardless of dt.
	PerFrame
)

// ReferenceFrameRate is the rate at which both modes behave identically.
const ReferenceFrameRate = 60.0

// snapEpsilon is how close current must be before it snaps onto target.
const snapEpsilon = 1e-9

// ParseMode maps a config string to a Mode. Unknown values select TimeCorrected.
func ParseMode(s string) Mode {
	if s == "per_frame" {
		return PerFrame
	}
	return TimeCorrected
}

// String returns the config name of the mode.
func (m Mode) String() string {
	if m == PerFrame {
		return "per_frame"
	}
	return "time_corrected"
}

// Scalar is a value that converges exponentially towards Target.
type Scalar struct {
	Current float64
	Target  float64
	Factor  float64 // fraction of the remaining gap closed per reference frame, in [0, 1]
	Mode    Mode
}

// New returns a Scalar resting at value.
func New(value, factor float64, mode Mode) Scalar {
	return Scalar{Current: value, Target: value, Factor: factor, Mode: mode}
}

// SetTarget changes the value Current converges to.
func (s *Scalar) SetTarget(target float64) {
	s.Target = target
}

// Alpha returns the interpolation fraction used for a step of dt.
func (s Scalar) Alpha(dt time.Duration) float64 {
	f := clamp01(s.Factor)
	if s.Mode == PerFrame {
		return f
	}
	if f >= 1 {
		return 1
	}
	if f <= 0 || dt <= 0 {
		return 0
	}
	// 1 - (1-f)^(dt·60) == 1 - exp(-dt/τ) with τ = -1/(60·ln(1-f)).
	tau := -1 / (ReferenceFrameRate * math.Log(1-f))
	return clamp01(1 - math.Exp(-dt.Seconds()/tau))
}

// Advance moves Current towards Target. It never overshoots.
func (s *Scalar) Advance(dt time.Duration) {
	if s.Current == s.Target {
		return
	}
	a := s.Alpha(dt)
	lo, hi := math.Min(s.Current, s.Target), math.Max(s.Current, s.Target)
	s.Current = math.Max(lo, math.Min(hi, s.Current*(1-a)+s.Target*a))
	if math.Abs(s.Target-s.Current) < snapEpsilon {
		s.Current = s.Target
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
