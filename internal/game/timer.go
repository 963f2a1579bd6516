package game

import (
	"context"
	"fmt"
	"time"
)

// TimeSource provides authoritative timestamps for question timing. The real
// implementation asks an external authority (e.g. the Redis server clock) so
// elapsed time cannot be manipulated by pausing a client session; it falls
// back to the local clock when the authority is unreachable.
type TimeSource interface {
	Now(ctx context.Context) time.Time
}

// SystemTimeSource reads the local clock. It is the degraded mode of the
// trusted authority and the default for tests.
type SystemTimeSource struct{}

func (SystemTimeSource) Now(context.Context) time.Time { return time.Now() }

// TimeSourceFunc adapts a plain function to a TimeSource.
type TimeSourceFunc func(ctx context.Context) time.Time

func (f TimeSourceFunc) Now(ctx context.Context) time.Time { return f(ctx) }

// TimingToleranceSeconds is the slack added to a question's limit before a
// reported completion time is treated as an anomaly. It absorbs network and
// reporting latency.
const TimingToleranceSeconds = 2

// Timer tracks elapsed and remaining time for a single question against its
// limit. Correctness depends only on the authoritative timestamps passed to
// Sample and Complete, never on how often the caller polls.
type Timer struct {
	startedAt time.Time
	limit     time.Duration
	fired     bool
	completed bool
}

// StartTimer begins timing a question with the given limit.
func StartTimer(limitSeconds int, now time.Time) *Timer {
	return &Timer{
		startedAt: now,
		limit:     time.Duration(limitSeconds) * time.Second,
	}
}

// Sample returns the remaining and elapsed durations at now. Remaining is
// floored at zero.
func (t *Timer) Sample(now time.Time) (remaining, elapsed time.Duration) {
	elapsed = now.Sub(t.startedAt)
	remaining = t.limit - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return remaining, elapsed
}

// Expired reports whether the limit has been reached at now.
func (t *Timer) Expired(now time.Time) bool {
	remaining, _ := t.Sample(now)
	return remaining == 0
}

// FireTimeout reports true exactly once, the first time it is called with the
// timer expired. Subsequent calls return false for the same timer.
func (t *Timer) FireTimeout(now time.Time) bool {
	if t.fired || t.completed || !t.Expired(now) {
		return false
	}
	t.fired = true
	return true
}

// Complete finishes the timer and returns the time taken in seconds together
// with a plausibility verdict. A negative reading or one beyond
// limit+tolerance implies clock tampering and must not earn a bonus.
func (t *Timer) Complete(now time.Time) (timeTaken float64, plausible bool) {
	t.completed = true
	timeTaken = now.Sub(t.startedAt).Seconds()
	limit := t.limit.Seconds()
	plausible = timeTaken >= 0 && timeTaken <= limit+TimingToleranceSeconds
	return timeTaken, plausible
}

// Completed reports whether Complete has been called.
func (t *Timer) Completed() bool { return t.completed }

// LimitSeconds returns the configured limit in whole seconds.
func (t *Timer) LimitSeconds() int { return int(t.limit / time.Second) }

// FormatRemaining renders a remaining duration as MM:SS for display.
func FormatRemaining(remaining time.Duration) string {
	secs := int(remaining.Round(time.Second) / time.Second)
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
