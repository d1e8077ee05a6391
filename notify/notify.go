// Package notify schedules the single "time is up" notification of a dial.
// Scheduling again replaces whatever was pending.
package notify

import (
	"log"
	"sync"
	"time"

	"DialTimer/timer"
)

// Sender delivers a notification to the user.
type Sender interface {
	Send(title, body string)
}

// Alerter plays the alarm sound.
type Alerter interface {
	PlayAlarm()
}

// Scheduler owns at most one pending notification.
type Scheduler struct {
	mu      sync.Mutex
	clock   timer.Clock
	sender  Sender
	alerter Alerter
	cfg     timer.NotificationConfig

	pending timer.Handle
	dueAt   time.Time
	seq     uint64
}

// NewScheduler creates a scheduler. alerter may be nil.
func NewScheduler(clock timer.Clock, sender Sender, alerter Alerter, cfg timer.NotificationConfig) *Scheduler {
	return &Scheduler{clock: clock, sender: sender, alerter: alerter, cfg: cfg}
}

// Schedule cancels any pending notification and fires a new one after d.
func (s *Scheduler) Schedule(after time.Duration) {
	if after < 0 {
		after = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	s.seq++
	seq := s.seq
	s.dueAt = s.clock.Now().Add(after)
	s.pending = s.clock.AfterFunc(after, func() { s.fire(seq) })
	log.Printf("Notification scheduled in %v", after)
}

// Cancel drops the pending notification, if any.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

// Pending returns when the pending notification is due.
func (s *Scheduler) Pending() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dueAt, s.pending != nil
}

func (s *Scheduler) cancelLocked() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.dueAt = time.Time{}
	s.seq++
}

func (s *Scheduler) fire(seq uint64) {
	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	s.dueAt = time.Time{}
	s.mu.Unlock()

	s.sender.Send(s.cfg.Title, s.cfg.Body)
	if s.cfg.Sound && s.alerter != nil {
		s.alerter.PlayAlarm()
	}
}
