// Package ratelimit implements the per-sender sliding-window message
// throttle. Windows live in memory only and reset on process restart.
package ratelimit

import (
	"time"
)

// Limiter tracks recent message timestamps per sender. It is not safe for
// concurrent use; the router processes messages one at a time.
type Limiter struct {
	window time.Duration
	max    int
	now    func() time.Time
	hits   map[string][]time.Time
}

// New creates a Limiter that reports a sender as limited once more than
// max calls land within the trailing window.
func New(window time.Duration, max int) *Limiter {
	return NewWithClock(window, max, time.Now)
}

// NewWithClock is New with an injectable clock for tests.
func NewWithClock(window time.Duration, max int, now func() time.Time) *Limiter {
	return &Limiter{
		window: window,
		max:    max,
		now:    now,
		hits:   make(map[string][]time.Time),
	}
}

// Check records a call for sender and reports whether the sender is now
// over the limit. Entries older than the window are dropped first.
func (l *Limiter) Check(sender string) bool {
	now := l.now()
	cutoff := now.Add(-l.window)

	recent := l.hits[sender][:0]
	for _, t := range l.hits[sender] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	recent = append(recent, now)
	l.hits[sender] = recent

	return len(recent) > l.max
}
