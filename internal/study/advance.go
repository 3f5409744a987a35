package study

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer the advancer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it once adapted.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// AutoAdvancer runs one deferred "go to next question" per session. A newer
// schedule or a manual advance cancels the pending one.
type AutoAdvancer struct {
	mu        sync.Mutex
	delay     time.Duration
	pending   map[string]Timer
	afterFunc AfterFunc
}

func NewAutoAdvancer(delay time.Duration) *AutoAdvancer {
	return &AutoAdvancer{delay: delay, pending: map[string]Timer{}, afterFunc: realAfterFunc}
}

// WithAfterFunc replaces the timer source, for tests.
func (a *AutoAdvancer) WithAfterFunc(fn AfterFunc) *AutoAdvancer {
	a.afterFunc = fn
	return a
}

func (a *AutoAdvancer) Delay() time.Duration {
	return a.delay
}

// Schedule arranges for advance(fromIndex) to run after the delay.
func (a *AutoAdvancer) Schedule(sessionID string, fromIndex int, advance func(fromIndex int)) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if t, ok := a.pending[sessionID]; ok {
		t.Stop()
	}

	var timer Timer
	timer = a.afterFunc(a.delay, func() {
		a.mu.Lock()
		current, ok := a.pending[sessionID]
		if !ok || current != timer {
			a.mu.Unlock()
			return
		}
		delete(a.pending, sessionID)
		a.mu.Unlock()

		advance(fromIndex)
	})
	a.pending[sessionID] = timer
}

// Cancel stops the pending advance for the session. It reports whether one
// was pending.
func (a *AutoAdvancer) Cancel(sessionID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	t, ok := a.pending[sessionID]
	if !ok {
		return false
	}
	t.Stop()
	delete(a.pending, sessionID)
	return true
}

// Pending reports whether an advance is scheduled for the session.
func (a *AutoAdvancer) Pending(sessionID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.pending[sessionID]
	return ok
}
