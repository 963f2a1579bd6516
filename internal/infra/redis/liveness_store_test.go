package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestLivenessStoreMarksAndClears(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewLivenessStore(newClient(mr), time.Minute)

	store.MarkLevelActive("team-1", 3)
	if got, err := mr.Get("game:active:team-1"); err != nil || got != "3" {
		t.Fatalf("expected active marker 3, got %q / %v", got, err)
	}

	store.ClearLevelActive("team-1")
	if mr.Exists("game:active:team-1") {
		t.Fatalf("expected marker cleared")
	}
}

func TestLivenessMarkerExpires(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewLivenessStore(newClient(mr), time.Minute)
	store.MarkLevelActive("team-1", 1)

	mr.FastForward(2 * time.Minute)
	if mr.Exists("game:active:team-1") {
		t.Fatalf("abandoned marker must expire on its own")
	}
}
