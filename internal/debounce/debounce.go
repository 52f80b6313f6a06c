// Package debounce coalesces bursts of triggers into a single delayed call.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the coalescing window used when none is configured.
const DefaultDelay = 500 * time.Millisecond

// Scheduler keeps at most one pending invocation. Each Trigger cancels the
// pending one and schedules the new function after the fixed delay.
type Scheduler struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending func()
	gen     uint64
	stopped bool
}

// New creates a scheduler with the given delay. Non-positive delays use DefaultDelay.
func New(delay time.Duration) *Scheduler {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Scheduler{delay: delay}
}

// Delay returns the coalescing window.
func (s *Scheduler) Delay() time.Duration {
	return s.delay
}

// Trigger schedules fn to run after the delay, replacing any pending call.
// fn runs on its own goroutine. Returns false if the scheduler is stopped.
func (s *Scheduler) Trigger(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return false
	}

	s.cancelLocked()
	gen := s.gen
	s.pending = fn
	s.timer = time.AfterFunc(s.delay, func() { s.fire(gen) })
	return true
}

// Pending reports whether a call is scheduled.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Cancel drops the pending call, if any. Returns true if one was dropped.
func (s *Scheduler) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	had := s.pending != nil
	s.cancelLocked()
	return had
}

// Flush runs the pending call now on the caller's goroutine.
// Returns true if there was one.
func (s *Scheduler) Flush() bool {
	s.mu.Lock()
	fn := s.pending
	s.cancelLocked()
	s.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

// Stop cancels the pending call and rejects further triggers.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	s.stopped = true
}

// cancelLocked invalidates the current timer. A timer that already fired and
// is waiting on the lock sees a newer generation and does nothing.
func (s *Scheduler) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = nil
	s.gen++
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.pending == nil {
		s.mu.Unlock()
		return
	}
	fn := s.pending
	s.pending = nil
	s.timer = nil
	s.mu.Unlock()

	fn()
}
