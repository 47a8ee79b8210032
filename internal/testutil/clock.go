package testutil

import (
	"sync"
	"time"
)

// DefaultEpoch is the first instant returned by a clock built with NewStepClock(time.Time{}, 0).
var DefaultEpoch = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

// StepClock provides a thread-safe deterministic wall clock for tests.
//
// Each call to Now() returns the current instant and then advances it by a
// fixed step. The same sequence of calls always yields the same instants,
// so stored timestamps and rendered reports are reproducible.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type StepClock struct {
	mu    sync.Mutex
	start time.Time
	next  time.Time
	step  time.Duration
}

// NewStepClock creates a clock starting at start that advances by step.
//
// A zero start uses DefaultEpoch; a zero step uses one second.
func NewStepClock(start time.Time, step time.Duration) *StepClock {
	if start.IsZero() {
		start = DefaultEpoch
	}
	if step == 0 {
		step = time.Second
	}
	return &StepClock{start: start, next: start, step: step}
}

// Now returns the current instant and advances the clock.
//
// Monotonic: with a positive step, every call returns a later instant.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.next
	c.next = c.next.Add(c.step)
	return t
}

// Peek returns the instant the next Now() call will return.
func (c *StepClock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next
}

// Set moves the clock to t. The next Now() call returns t.
//
// Used to simulate a wall clock that jumps backwards or stalls.
func (c *StepClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next = t
}

// Reset moves the clock back to its start instant.
func (c *StepClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next = c.start
}

// FrozenClock always returns the same instant.
type FrozenClock time.Time

// Now returns the frozen instant.
func (c FrozenClock) Now() time.Time { return time.Time(c) }
