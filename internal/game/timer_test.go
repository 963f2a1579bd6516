package game

import (
	"testing"
	"time"
)

func TestTimerSampleFloorsAtZero(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	timer := StartTimer(30, start)

	remaining, elapsed := timer.Sample(start.Add(10 * time.Second))
	if remaining != 20*time.Second || elapsed != 10*time.Second {
		t.Fatalf("expected 20s remaining / 10s elapsed, got %v / %v", remaining, elapsed)
	}

	remaining, _ = timer.Sample(start.Add(45 * time.Second))
	if remaining != 0 {
		t.Fatalf("remaining must floor at zero, got %v", remaining)
	}
}

func TestTimerFiresTimeoutExactlyOnce(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	timer := StartTimer(30, start)

	if timer.FireTimeout(start.Add(29 * time.Second)) {
		t.Fatalf("timeout must not fire before the limit")
	}
	if !timer.FireTimeout(start.Add(30 * time.Second)) {
		t.Fatalf("expected timeout at the limit")
	}
	if timer.FireTimeout(start.Add(31 * time.Second)) {
		t.Fatalf("timeout must fire at most once per timer")
	}
}

func TestTimerCompletePlausibility(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	timer := StartTimer(30, start)
	taken, plausible := timer.Complete(start.Add(31 * time.Second))
	if !plausible || taken != 31 {
		t.Fatalf("31s is within the 2s tolerance, got taken=%v plausible=%v", taken, plausible)
	}

	timer = StartTimer(30, start)
	if _, plausible := timer.Complete(start.Add(33 * time.Second)); plausible {
		t.Fatalf("33s exceeds limit+tolerance and must be implausible")
	}

	timer = StartTimer(30, start)
	if _, plausible := timer.Complete(start.Add(-1 * time.Second)); plausible {
		t.Fatalf("negative elapsed implies clock tampering and must be implausible")
	}
}

func TestTimerCompleteSuppressesTimeout(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	timer := StartTimer(30, start)
	timer.Complete(start.Add(5 * time.Second))
	if timer.FireTimeout(start.Add(40 * time.Second)) {
		t.Fatalf("a completed timer must not fire a timeout")
	}
}

func TestFormatRemaining(t *testing.T) {
	if got := FormatRemaining(125 * time.Second); got != "02:05" {
		t.Fatalf("expected 02:05, got %s", got)
	}
	if got := FormatRemaining(-3 * time.Second); got != "00:00" {
		t.Fatalf("expected 00:00 for negative input, got %s", got)
	}
}
