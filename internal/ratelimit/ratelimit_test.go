package ratelimit_test

import (
	"testing"
	"time"

	"wabot/internal/ratelimit"
)

// fakeClock returns a clock function that can be advanced manually.
func fakeClock(start time.Time) (func() time.Time, func(d time.Duration)) {
	current := start
	now := func() time.Time { return current }
	advance := func(d time.Duration) { current = current.Add(d) }
	return now, advance
}

func TestFourthCallWithinWindowIsLimited(t *testing.T) {
	t.Parallel()

	now, advance := fakeClock(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	limiter := ratelimit.NewWithClock(10*time.Second, 3, now)

	for i := 0; i < 3; i++ {
		if limiter.Check("628111@s.whatsapp.net") {
			t.Fatalf("call %d should not be limited", i+1)
		}
		advance(time.Second)
	}
	if !limiter.Check("628111@s.whatsapp.net") {
		t.Error("4th call within 10s window should be limited")
	}
}

func TestSpacedCallsAreNeverLimited(t *testing.T) {
	t.Parallel()

	now, advance := fakeClock(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	limiter := ratelimit.NewWithClock(10*time.Second, 3, now)

	for i := 0; i < 3; i++ {
		if limiter.Check("628111@s.whatsapp.net") {
			t.Errorf("call %d spaced 11s apart should not be limited", i+1)
		}
		advance(11 * time.Second)
	}
}

func TestWindowExpiryResetsCount(t *testing.T) {
	t.Parallel()

	now, advance := fakeClock(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	limiter := ratelimit.NewWithClock(10*time.Second, 3, now)

	for i := 0; i < 3; i++ {
		limiter.Check("sender")
	}
	advance(11 * time.Second)
	if limiter.Check("sender") {
		t.Error("call after window expiry should not be limited")
	}
}

func TestSendersAreIndependent(t *testing.T) {
	t.Parallel()

	now, _ := fakeClock(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	limiter := ratelimit.NewWithClock(10*time.Second, 3, now)

	for i := 0; i < 4; i++ {
		limiter.Check("busy@s.whatsapp.net")
	}
	if limiter.Check("quiet@s.whatsapp.net") {
		t.Error("an unrelated sender should not inherit another sender's window")
	}
}
