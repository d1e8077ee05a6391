// Package dial is the interaction and countdown engine behind the circular
// timer: it turns pointer positions into a selected duration, runs the
// countdown on a tick source and tells the host what to draw and when the
// lifecycle moves on.
//
// Maintenance notes:
//   - The Engine is not safe for concurrent use. Every call, including tick
//     callbacks, must arrive on one goroutine; the application routes them all
//     through its command loop.
//   - The Engine owns at most one tick source at a time. Any transition that
//     supersedes the running source stops it first, and callbacks from a
//     stopped source are ignored by generation number.
//   - The Renderer and Listener are the engine's only references back to the
//     host. Both are called synchronously.
package dial

import (
	"errors"
	"image/color"
	"time"

	"DialTimer/geometry"
)

// ErrInvalidCorrection is returned for negative or non-finite corrections.
var ErrInvalidCorrection = errors.New("elapsed correction must be a non-negative finite number")

// State is the countdown lifecycle.
type State int

const (
	StateIdle State = iota
	StateDragging
	StateRunning
	StateFinishing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateRunning:
		return "running"
	case StateFinishing:
		return "finishing"
	}
	return "unknown"
}

// Arc is one drawn wedge: from 12 o'clock to Target, sweeping Angle degrees
// in the dial's direction.
type Arc struct {
	Target geometry.Point
	Angle  float64
	Color  color.Color
}

// Fade is the cosmetic flash played on the final arc.
type Fade struct {
	Duration time.Duration
	Repeat   int
}

// Renderer owns the single arc layer. DrawArc always replaces what was there.
type Renderer interface {
	DrawArc(Arc)
	ClearArc()
	FadeArc(Fade)
}

// Listener receives lifecycle events. Calls are fire-and-forget.
type Listener interface {
	DragStarted()
	SecondsSelected(secondsLeft int)
	CountdownFinished()
	HapticFeedback()
	RemainingChanged(seconds int)
}

// Palette holds the arc colours for each phase.
type Palette struct {
	Preview   color.Color
	Running   color.Color
	Finishing color.Color
}

// Config tunes the engine.
type Config struct {
	TickPeriod       time.Duration
	FinishTickPeriod time.Duration
	Fade             Fade
	Palette          Palette
}

// DefaultConfig matches the dial's stock behaviour.
func DefaultConfig() Config {
	highlight := color.NRGBA{R: 0xec, G: 0x2c, B: 0x0f, A: 0xff}
	withAlpha := func(a uint8) color.NRGBA {
		c := highlight
		c.A = a
		return c
	}
	return Config{
		TickPeriod:       time.Second,
		FinishTickPeriod: 500 * time.Microsecond,
		Fade:             Fade{Duration: 300 * time.Millisecond, Repeat: 2},
		Palette: Palette{
			Preview:   withAlpha(77),
			Running:   withAlpha(230),
			Finishing: highlight,
		},
	}
}

// Snapshot is a copy of the engine's observable state.
type Snapshot struct {
	State     State
	Selected  int
	Remaining int
	Carry     float64
	Ticking   bool
	Angle     float64
	// Run identifies the current countdown; it changes on every start,
	// new drag and reset.
	Run uint64
}
