// Package main contains the application wiring and the AppManager which
// coordinates the dial engine, audio, notifications and the UI. This file
// centralizes the shared application state and the command loop used to
// serialize every engine mutation.
//
// Maintenance notes / tips:
//   - Concurrency model: the command-loop goroutine (see `commandLoop`) is
//     the only goroutine that touches the dial.Engine and dial.Suspender.
//     Pointer input, tick callbacks from timer.RealClock, lifecycle events
//     and key presses all arrive as control.Command values. Do not call the
//     engine from a Fyne callback directly.
//   - `cmdCh` is a buffered channel. EnqueueCommand gives up after a short
//     timeout rather than block the UI; a dropped tick is harmless because the
//     next one carries on, a dropped drag end leaves the dial in Dragging
//     until the next press.
//   - Listener callbacks (DragStarted, SecondsSelected, ...) run on the
//     command loop. They must not wait on the loop, and UI updates inside
//     them go through fyne.Do.
package main

import (
	"context"
	"log"
	"time"

	"DialTimer/control"
	"DialTimer/dial"
	"DialTimer/geometry"
	"DialTimer/notify"
	"DialTimer/timer"
	"DialTimer/ui"

	"fyne.io/fyne/v2"
)

// Sound is the audio the application needs.
type Sound interface {
	notify.Alerter
	Click() bool
}

// AppManager is the main application struct, holding all state.
type AppManager struct {
	cfg    *timer.Config
	circle geometry.Circle
	view   *ui.DialView

	engine    *dial.Engine
	suspender *dial.Suspender
	scheduler *notify.Scheduler
	sound     Sound

	cmdCh     chan control.Command
	cmdCtx    context.Context
	cmdCancel context.CancelFunc
}

var (
	_ dial.Listener = (*AppManager)(nil)
	_ ui.App        = (*AppManager)(nil)
)

// NewAppManager creates a new application manager. Attach must be called
// before any pointer command is handled.
func NewAppManager(cfg *timer.Config, sender notify.Sender, sound Sound, notifyClock timer.Clock) *AppManager {
	circle, err := cfg.Circle()
	if err != nil {
		log.Fatalf("Invalid dial geometry: %v", err)
	}
	a := &AppManager{cfg: cfg, circle: circle, sound: sound}
	a.scheduler = notify.NewScheduler(notifyClock, sender, sound, cfg.Notification)

	a.cmdCh = make(chan control.Command, 256)
	a.cmdCtx, a.cmdCancel = context.WithCancel(context.Background())
	go a.commandLoop()
	return a
}

// Attach creates the engine that draws into view and ticks on clock.
func (a *AppManager) Attach(view *ui.DialView, clock timer.Clock) {
	a.view = view
	a.engine = dial.NewEngine(a.circle, clock, view.Dial, a, engineConfig(a.cfg))
	a.suspender = dial.NewSuspender(a.engine)
	log.Printf("Dial ready: radius %.0f, %s", a.circle.Radius(), a.circle.Direction())
}

// Circle returns the dial geometry.
func (a *AppManager) Circle() geometry.Circle {
	return a.circle
}

func engineConfig(cfg *timer.Config) dial.Config {
	return dial.Config{
		TickPeriod:       cfg.Dial.TickPeriod,
		FinishTickPeriod: cfg.Dial.FinishTickPeriod,
		Fade:             dial.Fade{Duration: cfg.Dial.FadeDuration, Repeat: cfg.Dial.FadeRepeat},
		Palette: dial.Palette{
			Preview:   timer.MustColor(cfg.Palette.Highlight, cfg.Palette.PreviewAlpha),
			Running:   timer.MustColor(cfg.Palette.Highlight, cfg.Palette.RunningAlpha),
			Finishing: timer.MustColor(cfg.Palette.Highlight, cfg.Palette.FinishingAlpha),
		},
	}
}

// EnqueueCommand posts a command to the internal command loop.
func (a *AppManager) EnqueueCommand(cmd control.Command) {
	// Try to enqueue the command but avoid blocking the caller indefinitely.
	select {
	case a.cmdCh <- cmd:
	case <-a.cmdCtx.Done():
	case <-time.After(150 * time.Millisecond):
		log.Printf("EnqueueCommand timeout: dropping %s command", cmd.Type)
	}
}

// DispatchTick hands a clock callback to the command loop.
func (a *AppManager) DispatchTick(fn func()) {
	a.EnqueueCommand(control.Command{Type: control.CmdTick, Tick: fn})
}

func (a *AppManager) commandLoop() {
	for {
		select {
		case <-a.cmdCtx.Done():
			return
		case cmd := <-a.cmdCh:
			err := a.handle(cmd)
			if err != nil {
				log.Printf("Command %s failed: %v", cmd.Type, err)
			}
			// send reply if requested
			if cmd.Reply != nil {
				select {
				case cmd.Reply <- err:
				default:
				}
			}
		}
	}
}

func (a *AppManager) handle(cmd control.Command) error {
	if a.engine == nil {
		return nil
	}
	switch cmd.Type {
	case control.CmdDragStart:
		a.engine.DragStart(cmd.Point)
	case control.CmdDragMove:
		a.engine.DragMove(cmd.Point)
	case control.CmdDragEnd:
		a.engine.DragEnd(cmd.Point)
	case control.CmdTick:
		if cmd.Tick != nil {
			cmd.Tick()
		}
	case control.CmdSuspend:
		a.suspender.Suspend(cmd.At)
	case control.CmdResume:
		return a.suspender.Resume(cmd.At)
	case control.CmdPause:
		return a.togglePause()
	case control.CmdReset:
		a.engine.Reset()
		a.scheduler.Cancel()
		a.view.Labels.Show()
		a.view.SetRemaining(0)
	}
	return nil
}

// togglePause stops a running countdown, or restarts a paused one and
// reschedules its notification.
func (a *AppManager) togglePause() error {
	s := a.engine.Snapshot()
	if s.State != dial.StateRunning {
		return nil
	}
	if s.Ticking {
		a.engine.Stop()
		a.scheduler.Cancel()
		log.Printf("Paused with %d seconds left", s.Remaining)
		return nil
	}
	if err := a.engine.Resume(); err != nil {
		return err
	}
	a.scheduler.Schedule(time.Duration(s.Remaining) * a.cfg.Dial.TickPeriod)
	log.Printf("Resumed with %d seconds left", s.Remaining)
	return nil
}

// DragStart implements ui.Input.
func (a *AppManager) DragStart(p geometry.Point) {
	a.EnqueueCommand(control.Command{Type: control.CmdDragStart, Point: p})
}

// DragMove implements ui.Input.
func (a *AppManager) DragMove(p geometry.Point) {
	a.EnqueueCommand(control.Command{Type: control.CmdDragMove, Point: p})
}

// DragEnd implements ui.Input.
func (a *AppManager) DragEnd(p geometry.Point) {
	a.EnqueueCommand(control.Command{Type: control.CmdDragEnd, Point: p})
}

// HandleKeyRune handles key presses for the application.
func (a *AppManager) HandleKeyRune(r rune) {
	switch r {
	case ' ':
		a.EnqueueCommand(control.Command{Type: control.CmdPause})
	case 'r', 'R':
		a.EnqueueCommand(control.Command{Type: control.CmdReset})
	}
}

// EnteredForeground feeds the suspender when the app comes back.
func (a *AppManager) EnteredForeground() {
	a.EnqueueCommand(control.Command{Type: control.CmdResume, At: time.Now()})
}

// ExitedForeground feeds the suspender when the app goes away.
func (a *AppManager) ExitedForeground() {
	a.EnqueueCommand(control.Command{Type: control.CmdSuspend, At: time.Now()})
}

// DragStarted implements dial.Listener.
func (a *AppManager) DragStarted() {
	a.scheduler.Cancel()
	a.view.Labels.Show()
}

// SecondsSelected implements dial.Listener.
func (a *AppManager) SecondsSelected(secondsLeft int) {
	a.scheduler.Schedule(time.Duration(secondsLeft) * a.cfg.Dial.TickPeriod)
	a.view.Labels.Hide()
	a.view.SetRemaining(secondsLeft)
	log.Printf("Countdown started: %s", timer.FormatTime(secondsLeft))
}

// CountdownFinished implements dial.Listener.
func (a *AppManager) CountdownFinished() {
	a.view.Labels.Show()
	a.view.SetRemaining(0)
	log.Println("Countdown finished")
}

// HapticFeedback implements dial.Listener.
func (a *AppManager) HapticFeedback() {
	if a.sound != nil {
		a.sound.Click()
	}
}

// RemainingChanged implements dial.Listener.
func (a *AppManager) RemainingChanged(seconds int) {
	a.view.SetRemaining(seconds)
}

// Shutdown attempts to gracefully stop the AppManager command loop. It
// cancels the internal context and allows background goroutines to exit.
func (a *AppManager) Shutdown() {
	if a.cmdCancel != nil {
		a.cmdCancel()
	}
	a.scheduler.Cancel()
}

// fyneSender posts notifications through the Fyne app.
type fyneSender struct {
	app fyne.App
}

func (s fyneSender) Send(title, body string) {
	s.app.SendNotification(fyne.NewNotification(title, body))
	log.Printf("Notification sent: %s", title)
}
