package dial

import "time"

// Suspender keeps a running countdown honest across host suspension. The
// host calls Suspend when it leaves the foreground and Resume when it comes
// back; the wall-clock time in between is fed to the engine as a one-off
// correction.
type Suspender struct {
	engine      *Engine
	suspendedAt time.Time
	suspended   bool
	run         uint64
}

func NewSuspender(e *Engine) *Suspender {
	return &Suspender{engine: e}
}

// Suspended reports whether a suspension is waiting for Resume. A record
// whose countdown was since reset or replaced no longer counts.
func (s *Suspender) Suspended() bool {
	return s.suspended && s.run == s.engine.Snapshot().Run
}

// Suspend stops a ticking countdown and records when. A finishing dial skips
// the rest of its flourish; other states have nothing to pause.
func (s *Suspender) Suspend(now time.Time) {
	snap := s.engine.Snapshot()
	switch {
	case snap.State == StateRunning && snap.Ticking:
		s.engine.Stop()
		s.suspendedAt = now
		s.suspended = true
		s.run = snap.Run
	case snap.State == StateFinishing:
		s.engine.SkipFlourish()
	}
}

// Resume applies the elapsed time and restarts ticking. Without a recorded
// suspension of the current countdown it does nothing.
func (s *Suspender) Resume(now time.Time) error {
	if !s.Suspended() {
		s.suspended = false
		return nil
	}
	s.suspended = false

	elapsed := now.Sub(s.suspendedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	if err := s.engine.ApplyElapsedCorrection(elapsed.Seconds()); err != nil {
		return err
	}
	return s.engine.Resume()
}
