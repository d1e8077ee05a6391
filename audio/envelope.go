package audio

import (
	"time"

	"github.com/gopxl/beep"
)

// envelope applies a linear attack and release to a stream and ends it
// after a fixed number of samples.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

// NewEnvelope shapes s to last duration, ramping up over attack and down
// over release.
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, sr beep.SampleRate) beep.Streamer {
	total := sr.N(duration)
	att := min(sr.N(attack), total)
	rel := min(sr.N(release), total-att)
	return &envelope{streamer: s, attack: att, release: rel, total: total}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	if e.position >= e.total {
		return 0, false
	}
	if rest := e.total - e.position; len(samples) > rest {
		samples = samples[:rest]
	}
	n, ok = e.streamer.Stream(samples)

	releaseStart := e.total - e.release
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if e.position >= releaseStart && e.release > 0 {
			vol = float64(e.total-e.position) / float64(e.release)
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok || n > 0
}

func (e *envelope) Err() error { return e.streamer.Err() }
