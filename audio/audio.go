// Package audio renders the alarm chime and the haptic click through the
// beep speaker. A desktop has no vibration motor, so haptic feedback is a
// few milliseconds of sine tone, throttled with a token bucket so a fast
// drag does not turn into a buzz.
package audio

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"DialTimer/timer"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
	"golang.org/x/time/rate"
)

// SampleRate is the speaker rate every sound is rendered at.
const SampleRate = beep.SampleRate(44100)

const (
	chimeDuration = 900 * time.Millisecond
	chimeAttack   = 5 * time.Millisecond
	clickVolume   = 0.4
)

// Player owns the speaker. The zero value is not usable; call NewPlayer.
type Player struct {
	mu      sync.Mutex
	sr      beep.SampleRate
	play    func(...beep.Streamer)
	alarm   *beep.Buffer
	haptics timer.HapticsConfig
	limiter *rate.Limiter
}

// NewPlayer initialises the speaker and loads the alarm. Audio failures are
// logged and leave a silent player behind.
func NewPlayer(cfg *timer.Config) *Player {
	p := newPlayer(SampleRate, nil, cfg.Haptics)
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		log.Printf("Audio disabled: Failed to initialize speaker: %v", err)
		return p
	}
	p.play = speaker.Play

	if cfg.Notification.SoundFile != "" {
		buf, err := loadSound(cfg.Notification.SoundFile, SampleRate)
		if err != nil {
			log.Printf("Failed to load alarm %s, using chime: %v", cfg.Notification.SoundFile, err)
		} else {
			p.alarm = buf
		}
	}
	return p
}

func newPlayer(sr beep.SampleRate, play func(...beep.Streamer), haptics timer.HapticsConfig) *Player {
	p := &Player{sr: sr, play: play, haptics: haptics}
	if haptics.Enabled {
		p.limiter = rate.NewLimiter(rate.Limit(haptics.PerSecond), max(haptics.Burst, 1))
	}
	return p
}

// PlayAlarm plays the configured sound file, or the built-in chime.
func (p *Player) PlayAlarm() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.play == nil {
		return
	}
	if p.alarm != nil {
		p.play(p.alarm.Streamer(0, p.alarm.Len()))
		return
	}
	chime, err := Chime(p.sr)
	if err != nil {
		log.Printf("Failed to build chime: %v", err)
		return
	}
	p.play(chime)
}

// Click plays the haptic click unless haptics are off or the limiter is
// out of tokens. It reports whether a click was played.
func (p *Player) Click() bool {
	if p.limiter == nil || !p.limiter.Allow() {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.play == nil {
		return false
	}
	click, err := Click(p.sr, p.haptics.Frequency, p.haptics.Click)
	if err != nil {
		log.Printf("Failed to build click: %v", err)
		return false
	}
	p.play(click)
	return true
}

// Chime is a two-partial bell, A5 with its octave, decaying to silence.
func Chime(sr beep.SampleRate) (beep.Streamer, error) {
	fund, err := generators.SineTone(sr, 880)
	if err != nil {
		return nil, fmt.Errorf("chime fundamental: %w", err)
	}
	over, err := generators.SineTone(sr, 1760)
	if err != nil {
		return nil, fmt.Errorf("chime overtone: %w", err)
	}
	mixed := beep.Mix(
		volume(NewEnvelope(fund, chimeDuration, chimeAttack, chimeDuration-chimeAttack, sr), 0.7),
		volume(NewEnvelope(over, chimeDuration, chimeAttack, chimeDuration/2, sr), 0.3),
	)
	return beep.Take(sr.N(chimeDuration), mixed), nil
}

// Click is a short sine burst at freq.
func Click(sr beep.SampleRate, freq float64, d time.Duration) (beep.Streamer, error) {
	tone, err := generators.SineTone(sr, freq)
	if err != nil {
		return nil, fmt.Errorf("click tone: %w", err)
	}
	return volume(NewEnvelope(tone, d, d/4, d/2, sr), clickVolume), nil
}

// loadSound decodes an .ogg or .wav file into a buffer at rate sr.
func loadSound(path string, sr beep.SampleRate) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		err = fmt.Errorf("unsupported sound format %q", ext)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode: %w", err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(beep.Format{SampleRate: sr, NumChannels: format.NumChannels, Precision: format.Precision})
	if format.SampleRate == sr {
		buf.Append(streamer)
	} else {
		buf.Append(beep.Resample(4, format.SampleRate, sr, streamer))
	}
	return buf, nil
}

// volume scales s linearly; zero is silence.
func volume(s beep.Streamer, v float64) beep.Streamer {
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(v)}
}
