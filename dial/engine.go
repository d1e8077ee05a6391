package dial

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"time"

	"DialTimer/geometry"
	"DialTimer/timer"
)

// Engine is the dial's state machine. See the package notes for its
// threading rules.
type Engine struct {
	circle   geometry.Circle
	clock    timer.Clock
	renderer Renderer
	listener Listener
	cfg      Config

	state     State
	angle     float64 // last valid angle drawn
	release   geometry.Point
	selected  int
	remaining int
	flourish  int
	carry     float64
	run       uint64 // bumped whenever a countdown starts or is abandoned

	ticker     timer.Handle
	generation uint64
}

// NewEngine creates an idle engine.
func NewEngine(circle geometry.Circle, clock timer.Clock, renderer Renderer, listener Listener, cfg Config) *Engine {
	return &Engine{
		circle:   circle,
		clock:    clock,
		renderer: renderer,
		listener: listener,
		cfg:      cfg,
		state:    StateIdle,
	}
}

func (e *Engine) Circle() geometry.Circle {
	return e.circle
}

func (e *Engine) State() State {
	return e.state
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		State:     e.state,
		Selected:  e.selected,
		Remaining: e.remaining,
		Carry:     e.carry,
		Ticking:   e.ticker != nil,
		Angle:     e.angle,
		Run:       e.run,
	}
}

// DragStart begins a selection. Positions outside the dial's bounding square
// are ignored and reported as false.
func (e *Engine) DragStart(p geometry.Point) bool {
	if !e.circle.Contains(p) {
		return false
	}
	e.stopTicker()
	e.carry = 0
	e.angle = 0
	e.run++
	e.state = StateDragging
	if !e.drawTowards(p, e.cfg.Palette.Preview) {
		e.renderer.ClearArc()
	}
	e.listener.DragStarted()
	return true
}

// DragMove follows the pointer while dragging. It does no containment check.
func (e *Engine) DragMove(p geometry.Point) {
	if e.state != StateDragging {
		return
	}
	e.drawTowards(p, e.cfg.Palette.Preview)
	e.listener.HapticFeedback()
}

// DragEnd fixes the selection and starts the countdown.
func (e *Engine) DragEnd(p geometry.Point) {
	if e.state != StateDragging {
		return
	}
	e.drawTowards(p, e.cfg.Palette.Preview)

	selected := geometry.SecondsForAngle(e.angle)
	if selected == 0 {
		e.renderer.ClearArc()
		e.state = StateIdle
		return
	}

	if err := e.arm(e.cfg.TickPeriod, e.tickRunning); err != nil {
		log.Printf("Countdown not started: %v", err)
		return
	}
	e.selected = selected
	e.remaining = selected
	e.release = e.circle.AngleToPoint(e.angle)
	e.run++
	e.state = StateRunning
	e.listener.SecondsSelected(selected)
	e.listener.RemainingChanged(selected)
}

// ApplyElapsedCorrection queues seconds that passed while ticks were
// suspended. The next running tick subtracts the queued total once. Outside
// the running state there is nothing to correct and the call is a no-op.
func (e *Engine) ApplyElapsedCorrection(seconds float64) error {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidCorrection, seconds)
	}
	if e.state != StateRunning {
		return nil
	}
	e.carry += seconds
	return nil
}

// Stop cancels the active tick source, if any. The state is kept so Resume
// can pick the countdown up again.
func (e *Engine) Stop() {
	e.stopTicker()
}

// Resume re-arms the tick source for a running or finishing dial that has
// none. It is a no-op in every other case.
func (e *Engine) Resume() error {
	if e.ticker != nil {
		return nil
	}
	switch e.state {
	case StateRunning:
		return e.arm(e.cfg.TickPeriod, e.tickRunning)
	case StateFinishing:
		return e.arm(e.cfg.FinishTickPeriod, e.tickFinishing)
	}
	return nil
}

// Reset abandons whatever the dial is doing and returns it to idle.
func (e *Engine) Reset() {
	e.stopTicker()
	e.carry = 0
	e.remaining = 0
	e.flourish = 0
	e.run++
	if e.state != StateIdle {
		e.renderer.ClearArc()
	}
	e.state = StateIdle
}

// SkipFlourish ends the finishing animation straight away.
func (e *Engine) SkipFlourish() {
	if e.state == StateFinishing {
		e.completeFlourish()
	}
}

func (e *Engine) tickRunning() {
	if e.state != StateRunning {
		return
	}
	carry := int(math.Round(e.carry))
	e.carry = 0

	e.remaining -= carry + 1
	if e.remaining <= 0 {
		e.remaining = 0
		e.finish()
		return
	}
	e.drawSeconds(e.remaining, e.cfg.Palette.Running)
	e.listener.RemainingChanged(e.remaining)
}

func (e *Engine) finish() {
	e.stopTicker()
	e.renderer.ClearArc()
	e.state = StateFinishing
	e.flourish = e.selected
	if err := e.arm(e.cfg.FinishTickPeriod, e.tickFinishing); err != nil {
		log.Printf("Finish animation skipped: %v", err)
		e.completeFlourish()
	}
	e.listener.RemainingChanged(0)
	e.listener.CountdownFinished()
}

func (e *Engine) tickFinishing() {
	if e.state != StateFinishing {
		return
	}
	e.flourish--
	if e.flourish <= 0 {
		e.completeFlourish()
		return
	}
	e.drawSeconds(e.flourish, e.cfg.Palette.Running)
}

func (e *Engine) completeFlourish() {
	e.stopTicker()
	e.flourish = 0
	e.angle = geometry.AngleForSeconds(e.selected)
	e.renderer.DrawArc(Arc{Target: e.release, Angle: e.angle, Color: e.cfg.Palette.Finishing})
	e.renderer.FadeArc(e.cfg.Fade)
	e.state = StateIdle
}

func (e *Engine) drawTowards(p geometry.Point, c color.Color) bool {
	angle, err := e.circle.PointToAngle(p)
	if err != nil {
		// keep the previous angle and skip this frame
		return false
	}
	e.angle = angle
	e.renderer.DrawArc(Arc{Target: p, Angle: angle, Color: c})
	return true
}

func (e *Engine) drawSeconds(seconds int, c color.Color) {
	e.angle = geometry.AngleForSeconds(seconds)
	e.renderer.DrawArc(Arc{Target: e.circle.AngleToPoint(e.angle), Angle: e.angle, Color: c})
}

func (e *Engine) arm(period time.Duration, fn func()) error {
	e.stopTicker()
	gen := e.generation
	h, err := e.clock.Every(period, func() {
		if gen != e.generation {
			return
		}
		fn()
	})
	if err != nil {
		return err
	}
	e.ticker = h
	return nil
}

func (e *Engine) stopTicker() {
	if e.ticker != nil {
		e.ticker.Stop()
		e.ticker = nil
	}
	e.generation++
}
