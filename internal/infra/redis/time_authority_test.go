package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestTimeAuthorityReadsServerClock(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	serverTime := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	mr.SetTime(serverTime)

	authority := NewTimeAuthority(newClient(mr))
	got := authority.Now(context.Background())
	if !got.Equal(serverTime) {
		t.Fatalf("expected server clock %v, got %v", serverTime, got)
	}
}

func TestTimeAuthorityFallsBackWhenUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	client := newClient(mr)
	mr.Close()

	authority := NewTimeAuthority(client)
	fallback := time.Date(2025, 3, 1, 13, 0, 0, 0, time.UTC)
	authority.fallback = func() time.Time { return fallback }

	got := authority.Now(context.Background())
	if !got.Equal(fallback) {
		t.Fatalf("expected local fallback %v, got %v", fallback, got)
	}
}
