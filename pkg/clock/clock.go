package clock

import (
	"sync"
	"time"
)

// Clock abstracts wall-clock reads and timer waits so that time-window
// logic can be tested without real sleeps.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// System returns a Clock backed by the runtime's real clock.
func System() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Mock is a manually advanced Clock for deterministic tests.
type Mock struct {
	mu      sync.Mutex
	now     time.Time
	waiters []waiter
}

type waiter struct {
	deadline time.Time
	ch       chan time.Time
}

// NewMock creates a mock clock frozen at the given time.
func NewMock(now time.Time) *Mock {
	return &Mock{now: now}
}

// Now returns the mock's current time.
func (m *Mock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// After returns a channel that receives once Advance moves the mock
// time to or past now+d. A non-positive duration fires immediately.
func (m *Mock) After(d time.Duration) <-chan time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan time.Time, 1)
	deadline := m.now.Add(d)
	if d <= 0 {
		ch <- m.now
		return ch
	}

	m.waiters = append(m.waiters, waiter{deadline: deadline, ch: ch})
	return ch
}

// Advance moves the mock time forward and releases any waiters whose
// deadline has passed.
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	now := m.now

	remaining := m.waiters[:0]
	var fired []waiter
	for _, w := range m.waiters {
		if !w.deadline.After(now) {
			fired = append(fired, w)
		} else {
			remaining = append(remaining, w)
		}
	}
	m.waiters = remaining
	m.mu.Unlock()

	for _, w := range fired {
		w.ch <- now
	}
}

// Set jumps the mock time to an absolute instant, releasing waiters the
// same way Advance does.
func (m *Mock) Set(t time.Time) {
	m.mu.Lock()
	delta := t.Sub(m.now)
	m.mu.Unlock()

	if delta > 0 {
		m.Advance(delta)
		return
	}

	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}
