package game

import (
	"reflect"
	"testing"

	"escape-game-service/internal/domain"
)

func testBank() domain.LevelBank {
	mkLevel := func(n int, letter string, slot int) domain.LevelDefinition {
		return domain.LevelDefinition{
			LevelNumber:    n,
			Modality:       domain.ModalityChoice,
			LetterToUnlock: letter,
			SlotPosition:   slot,
			ClearThreshold: 1,
			Questions: []domain.Question{
				{ID: "q1", Modality: domain.ModalityChoice, AcceptedAnswer: "yes", Points: 10, TimeLimitSeconds: 30},
			},
		}
	}
	return domain.LevelBank{
		SecretWord: "ELEVEN",
		Levels: []domain.LevelDefinition{
			mkLevel(1, "E", 0),
			mkLevel(2, "L", 1),
			mkLevel(3, "E", 2),
			mkLevel(4, "V", 3),
			mkLevel(5, "N", 5),
		},
	}
}

func TestLevelAccessibilityFollowsAttempted(t *testing.T) {
	bank := testBank()
	p := NewTeamProgress("team-1")

	if !p.IsLevelAccessible(1) {
		t.Fatalf("level 1 must always be accessible")
	}
	if p.IsLevelAccessible(2) {
		t.Fatalf("level 2 locked until level 1 attempted")
	}

	// A failed attempt still unlocks the next level.
	def, _ := bank.Level(1)
	if err := p.RecordLevelAttempt(def, false, 0); err != nil {
		t.Fatalf("record: %v", err)
	}
	if !p.IsLevelAccessible(2) {
		t.Fatalf("failing level 1 must still unlock level 2")
	}
	if p.IsLevelAccessible(3) {
		t.Fatalf("level 3 must stay locked")
	}
}

func TestLevelStatusPriority(t *testing.T) {
	bank := testBank()
	p := NewTeamProgress("team-1")

	if got := p.LevelStatus(1); got != domain.StatusUnlocked {
		t.Fatalf("expected UNLOCKED, got %s", got)
	}
	if got := p.LevelStatus(3); got != domain.StatusLocked {
		t.Fatalf("expected LOCKED, got %s", got)
	}

	def1, _ := bank.Level(1)
	def2, _ := bank.Level(2)
	_ = p.RecordLevelAttempt(def1, true, 35)
	_ = p.RecordLevelAttempt(def2, false, 10)

	if got := p.LevelStatus(1); got != domain.StatusCleared {
		t.Fatalf("expected CLEARED, got %s", got)
	}
	if got := p.LevelStatus(2); got != domain.StatusFailed {
		t.Fatalf("expected FAILED, got %s", got)
	}
	if got := p.LevelStatus(3); got != domain.StatusUnlocked {
		t.Fatalf("expected UNLOCKED after level 2 attempted, got %s", got)
	}
}

func TestClearedAndFailedStayDisjoint(t *testing.T) {
	bank := testBank()
	p := NewTeamProgress("team-1")

	for _, n := range []int{1, 2, 3} {
		def, _ := bank.Level(n)
		_ = p.RecordLevelAttempt(def, n%2 == 1, n*10)
	}

	cleared := map[int]bool{}
	for _, n := range p.ClearedLevels() {
		cleared[n] = true
	}
	for _, n := range p.FailedLevels() {
		if cleared[n] {
			t.Fatalf("level %d is in both cleared and failed", n)
		}
	}
	union := append(p.ClearedLevels(), p.FailedLevels()...)
	if len(union) != len(p.AttemptedLevels()) {
		t.Fatalf("attempted must equal cleared plus failed: %v vs %v", union, p.AttemptedLevels())
	}
}

func TestRecordLevelAttemptRejectsDuplicate(t *testing.T) {
	bank := testBank()
	p := NewTeamProgress("team-1")
	def, _ := bank.Level(1)

	if err := p.RecordLevelAttempt(def, true, 35); err != nil {
		t.Fatalf("first record: %v", err)
	}
	if err := p.RecordLevelAttempt(def, false, 0); err != domain.ErrLevelAlreadyAttempted {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}
	// The duplicate must not have flipped the outcome or the score.
	if got := p.LevelStatus(1); got != domain.StatusCleared {
		t.Fatalf("duplicate write changed outcome to %s", got)
	}
	if score, _ := p.HiddenScore(1); score != 35 {
		t.Fatalf("duplicate write changed score to %d", score)
	}
}

func TestLetterAccumulationMatchesClearedLevels(t *testing.T) {
	bank := testBank()
	// Record in shuffled order; letters are a set union, order-independent.
	p := NewTeamProgress("team-1")
	for _, n := range []int{1, 2, 3, 4, 5} {
		def, _ := bank.Level(n)
		_ = p.RecordLevelAttempt(def, n != 4, n*10)
	}

	// Levels 1,2,3,5 cleared → letters E, L, N (E unlocked twice collapses).
	want := []string{"E", "L", "N"}
	if got := p.UnlockedLetters(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected letters %v, got %v", want, got)
	}
}

func TestFinalWordUnlockedRequiresAllCleared(t *testing.T) {
	bank := testBank()
	p := NewTeamProgress("team-1")

	for _, n := range []int{1, 2, 3, 4} {
		def, _ := bank.Level(n)
		_ = p.RecordLevelAttempt(def, true, 10)
	}
	def5, _ := bank.Level(5)
	_ = p.RecordLevelAttempt(def5, false, 0)

	// All five attempted, only four cleared: still locked.
	if p.FinalWordUnlocked(bank) {
		t.Fatalf("final word must require all levels cleared, not just attempted")
	}

	p2 := NewTeamProgress("team-2")
	for _, lvl := range bank.Levels {
		_ = p2.RecordLevelAttempt(lvl, true, 10)
	}
	if !p2.FinalWordUnlocked(bank) {
		t.Fatalf("expected final word unlocked with all levels cleared")
	}
}

func TestRevealedWordFollowsSlotPositions(t *testing.T) {
	bank := testBank()
	p := NewTeamProgress("team-1")

	def1, _ := bank.Level(1)
	def5, _ := bank.Level(5)
	_ = p.RecordLevelAttempt(def1, true, 10)
	_ = p.RecordLevelAttempt(def5, true, 10)

	if got := p.RevealedWord(bank); got != "E____N" {
		t.Fatalf("expected E____N, got %s", got)
	}
}

func TestRebuildTeamProgressRoundTrip(t *testing.T) {
	bank := testBank()
	p := NewTeamProgress("team-1")
	var records []domain.AttemptRecord
	for _, n := range []int{1, 2, 3} {
		def, _ := bank.Level(n)
		passed := n != 2
		score := n * 11
		_ = p.RecordLevelAttempt(def, passed, score)
		records = append(records, domain.AttemptRecord{
			TeamID:      "team-1",
			LevelNumber: n,
			Score:       score,
			Cleared:     passed,
		})
	}

	rebuilt := RebuildTeamProgress("team-1", bank, records)
	if !reflect.DeepEqual(rebuilt.AttemptedLevels(), p.AttemptedLevels()) {
		t.Fatalf("attempted mismatch: %v vs %v", rebuilt.AttemptedLevels(), p.AttemptedLevels())
	}
	if !reflect.DeepEqual(rebuilt.ClearedLevels(), p.ClearedLevels()) {
		t.Fatalf("cleared mismatch: %v vs %v", rebuilt.ClearedLevels(), p.ClearedLevels())
	}
	if !reflect.DeepEqual(rebuilt.FailedLevels(), p.FailedLevels()) {
		t.Fatalf("failed mismatch: %v vs %v", rebuilt.FailedLevels(), p.FailedLevels())
	}
	if !reflect.DeepEqual(rebuilt.UnlockedLetters(), p.UnlockedLetters()) {
		t.Fatalf("letters mismatch: %v vs %v", rebuilt.UnlockedLetters(), p.UnlockedLetters())
	}
	if rebuilt.TotalScore() != p.TotalScore() {
		t.Fatalf("score mismatch: %d vs %d", rebuilt.TotalScore(), p.TotalScore())
	}
}

func TestRebuildIgnoresDuplicateRows(t *testing.T) {
	bank := testBank()
	records := []domain.AttemptRecord{
		{TeamID: "team-1", LevelNumber: 1, Score: 35, Cleared: true},
		// A retried write must not flip the terminal outcome.
		{TeamID: "team-1", LevelNumber: 1, Score: 0, Cleared: false},
	}
	rebuilt := RebuildTeamProgress("team-1", bank, records)
	if got := rebuilt.LevelStatus(1); got != domain.StatusCleared {
		t.Fatalf("first row must win, got %s", got)
	}
	if score, _ := rebuilt.HiddenScore(1); score != 35 {
		t.Fatalf("first row's score must win, got %d", score)
	}
}
