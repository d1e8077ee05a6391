// Package timer contains the tick sources that drive the dial, the YAML
// configuration and small formatting helpers.
//
// Maintenance notes:
//   - A Clock hands out cancellable Handles. The dial engine owns every Handle
//     it arms and stops it on each transition that supersedes it.
//   - RealClock runs each repeating source on its own goroutine, but never
//     calls the callback there: callbacks go through the dispatch function,
//     which in the application posts them to the command loop. This keeps all
//     engine mutation on one goroutine.
//   - ManualClock fires callbacks synchronously on the goroutine calling
//     Advance. Use it in tests instead of sleeping.
package timer

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrInvalidPeriod is returned when a repeating source is requested with a
// non-positive period.
var ErrInvalidPeriod = errors.New("tick period must be positive")

// Handle cancels a scheduled callback. Stop is idempotent.
type Handle interface {
	Stop()
}

// Clock schedules repeating and one-shot callbacks.
type Clock interface {
	Now() time.Time
	Every(d time.Duration, fn func()) (Handle, error)
	AfterFunc(d time.Duration, fn func()) Handle
}

// RealClock schedules callbacks on wall-clock time.
type RealClock struct {
	dispatch func(func())
}

// NewRealClock creates a clock whose callbacks are handed to dispatch. A nil
// dispatch calls them directly on the ticking goroutine.
func NewRealClock(dispatch func(func())) *RealClock {
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return &RealClock{dispatch: dispatch}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}

// Every starts a repeating source with period d. The first call happens one
// period after Every returns.
func (c *RealClock) Every(d time.Duration, fn func()) (Handle, error) {
	if d <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPeriod, d)
	}
	h := &realHandle{done: make(chan struct{})}
	ticker := time.NewTicker(d)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-h.done:
				return
			case <-ticker.C:
				// Stop may race with a tick already in the channel.
				select {
				case <-h.done:
					return
				default:
				}
				c.dispatch(fn)
			}
		}
	}()
	return h, nil
}

// AfterFunc calls fn once after d.
func (c *RealClock) AfterFunc(d time.Duration, fn func()) Handle {
	h := &realHandle{done: make(chan struct{})}
	t := time.AfterFunc(d, func() {
		select {
		case <-h.done:
			return
		default:
		}
		c.dispatch(fn)
	})
	h.timer = t
	return h
}

type realHandle struct {
	once  sync.Once
	done  chan struct{}
	timer *time.Timer
}

func (h *realHandle) Stop() {
	h.once.Do(func() {
		close(h.done)
		if h.timer != nil {
			h.timer.Stop()
		}
	})
}

// ManualClock is a Clock driven by Advance. It is safe for use from one
// goroutine only.
type ManualClock struct {
	now     time.Time
	nextID  uint64
	entries map[uint64]*manualEntry
}

type manualEntry struct {
	id     uint64
	due    time.Time
	period time.Duration
	fn     func()
}

// NewManualClock creates a manual clock starting at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start, entries: make(map[uint64]*manualEntry)}
}

func (c *ManualClock) Now() time.Time {
	return c.now
}

func (c *ManualClock) Every(d time.Duration, fn func()) (Handle, error) {
	if d <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPeriod, d)
	}
	return c.add(d, d, fn), nil
}

func (c *ManualClock) AfterFunc(d time.Duration, fn func()) Handle {
	return c.add(d, 0, fn)
}

func (c *ManualClock) add(delay, period time.Duration, fn func()) Handle {
	c.nextID++
	e := &manualEntry{id: c.nextID, due: c.now.Add(delay), period: period, fn: fn}
	c.entries[e.id] = e
	return &manualHandle{clock: c, id: e.id}
}

// Active reports how many callbacks are still scheduled.
func (c *ManualClock) Active() int {
	return len(c.entries)
}

// Advance moves time forward by d, firing every callback that falls due in
// order. Callbacks may schedule or cancel others while running.
func (c *ManualClock) Advance(d time.Duration) {
	target := c.now.Add(d)
	for {
		next := c.earliest()
		if next == nil || next.due.After(target) {
			break
		}
		c.now = next.due
		if next.period > 0 {
			next.due = next.due.Add(next.period)
		} else {
			delete(c.entries, next.id)
		}
		next.fn()
	}
	c.now = target
}

// Tick advances time to the next scheduled callback and fires it. It reports
// false when nothing is scheduled.
func (c *ManualClock) Tick() bool {
	next := c.earliest()
	if next == nil {
		return false
	}
	c.Advance(next.due.Sub(c.now))
	return true
}

func (c *ManualClock) earliest() *manualEntry {
	var best *manualEntry
	for _, e := range c.entries {
		if best == nil || e.due.Before(best.due) || (e.due.Equal(best.due) && e.id < best.id) {
			best = e
		}
	}
	return best
}

type manualHandle struct {
	clock *ManualClock
	id    uint64
}

func (h *manualHandle) Stop() {
	delete(h.clock.entries, h.id)
}
