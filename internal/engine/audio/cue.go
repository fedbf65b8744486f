package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep/v2"

	"github.com/Faultbox/geoglobe/internal/globe"
)

// attack and release are the envelope ramps of every note.
const (
	attack  = 5 * time.Millisecond
	release = 40 * time.Millisecond
)

// Note is a sine tone. A zero frequency is a rest.
type Note struct {
	Freq     float64
	Duration time.Duration
}

// Cue is a sequence of notes played back to back.
type Cue []Note

// DefaultCues returns the cues for selection and flight events.
func DefaultCues() map[globe.EventKind]Cue {
	return map[globe.EventKind]Cue{
		globe.EventSelected: {
			{Freq: 660, Duration: 70 * time.Millisecond},
			{Freq: 990, Duration: 110 * time.Millisecond},
		},
		globe.EventDeselected: {
			{Freq: 520, Duration: 60 * time.Millisecond},
			{Freq: 390, Duration: 90 * time.Millisecond},
		},
		globe.EventFlightFinished: {
			{Freq: 880, Duration: 140 * time.Millisecond},
		},
		globe.EventUnknownPoint: {
			{Freq: 220, Duration: 160 * time.Millisecond},
		},
	}
}

// Samples returns the number of samples the cue lasts at sr.
func (c Cue) Samples(sr beep.SampleRate) int {
	n := 0
	for _, note := range c {
		n += sr.N(note.Duration)
	}
	return n
}

// Streamer synthesizes the cue at sr. Each note fades in and out so
// consecutive notes do not click.
func (c Cue) Streamer(sr beep.SampleRate) beep.Streamer {
	notes := make([]beep.Streamer, 0, len(c))
	for _, note := range c {
		notes = append(notes, tone(sr, note))
	}
	return beep.Seq(notes...)
}

func tone(sr beep.SampleRate, note Note) beep.Streamer {
	total := sr.N(note.Duration)
	rise := max(1, sr.N(attack))
	fall := max(1, sr.N(release))
	step := 2 * math.Pi * note.Freq / float64(sr)

	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if pos >= total {
			return 0, false
		}
		for i := range samples {
			if pos >= total {
				return i, true
			}
			v := math.Sin(step*float64(pos)) * envelope(pos, total, rise, fall)
			samples[i][0], samples[i][1] = v, v
			pos++
		}
		return len(samples), true
	})
}

// envelope is the gain at sample pos of a note.
func envelope(pos, total, rise, fall int) float64 {
	g := 1.0
	if pos < rise {
		g = float64(pos) / float64(rise)
	}
	if left := total - pos; left < fall {
		g = math.Min(g, float64(left)/float64(fall))
	}
	return g
}
