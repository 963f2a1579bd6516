package game

import (
	"testing"
	"time"

	"escape-game-service/internal/domain"
)

func fiveChoiceLevel() domain.LevelDefinition {
	questions := make([]domain.Question, 5)
	for i := range questions {
		questions[i] = domain.Question{
			ID:               string(rune('a' + i)),
			Modality:         domain.ModalityChoice,
			AcceptedAnswer:   "yes",
			Points:           10,
			TimeLimitSeconds: 30,
		}
	}
	return domain.LevelDefinition{
		LevelNumber:    1,
		Modality:       domain.ModalityChoice,
		LetterToUnlock: "E",
		SlotPosition:   0,
		ClearThreshold: 3,
		Questions:      questions,
	}
}

func TestLevelSessionClearsAtThreshold(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	sess := NewLevelSession(fiveChoiceLevel())
	sess.Begin(now)

	answers := []string{"yes", "yes", "yes", "no", "no"}
	var summary *domain.AttemptSummary
	for i, answer := range answers {
		now = now.Add(5 * time.Second)
		_, s, err := sess.SubmitAnswer(i, answer, now)
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		summary = s
	}

	if summary == nil {
		t.Fatalf("expected terminal summary after last question")
	}
	if summary.Outcome != domain.OutcomeCleared {
		t.Fatalf("3 of 5 correct at threshold 3 must clear, got %s", summary.Outcome)
	}
	if summary.CorrectCount != 3 {
		t.Fatalf("expected 3 correct, got %d", summary.CorrectCount)
	}
	// Each correct answer: 10 points + 25s bonus.
	if summary.TotalScore != 3*35 {
		t.Fatalf("expected total score 105, got %d", summary.TotalScore)
	}
	if summary.LettersUnlocked == nil || summary.LettersUnlocked[0] != "E" {
		t.Fatalf("cleared level must unlock its letter, got %v", summary.LettersUnlocked)
	}
	if sess.State() != SessionTerminal {
		t.Fatalf("expected terminal state")
	}
}

func TestLevelSessionFailsBelowThreshold(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	sess := NewLevelSession(fiveChoiceLevel())
	sess.Begin(now)

	var summary *domain.AttemptSummary
	for i, answer := range []string{"yes", "yes", "no", "no", "no"} {
		now = now.Add(time.Second)
		_, s, err := sess.SubmitAnswer(i, answer, now)
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		summary = s
	}

	if summary.Outcome != domain.OutcomeFailed {
		t.Fatalf("2 of 5 correct below threshold 3 must fail, got %s", summary.Outcome)
	}
	if summary.LettersUnlocked != nil {
		t.Fatalf("failed level must not unlock letters, got %v", summary.LettersUnlocked)
	}
}

func TestLevelSessionRejectsOutOfSyncSubmission(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	sess := NewLevelSession(fiveChoiceLevel())
	sess.Begin(now)

	if _, _, err := sess.SubmitAnswer(2, "yes", now); err != domain.ErrQuestionOutOfSync {
		t.Fatalf("expected out-of-sync rejection, got %v", err)
	}
	if len(sess.Results()) != 0 {
		t.Fatalf("rejected submission must not record a result")
	}
}

func TestLevelSessionTimeoutRecordsEmptyAnswer(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	sess := NewLevelSession(fiveChoiceLevel())
	sess.Begin(start)

	result, _, fired := sess.CheckTimeout(start.Add(31 * time.Second))
	if !fired {
		t.Fatalf("expected timeout to fire past the limit")
	}
	if result.IsCorrect || result.SubmittedAnswer != "" {
		t.Fatalf("timeout must record the empty answer as incorrect, got %+v", result)
	}
	if result.TimeTakenSeconds != 30 {
		t.Fatalf("timeout records timeTaken = limit, got %v", result.TimeTakenSeconds)
	}

	// The session advanced; a second check must not fire for the new question.
	if _, _, fired := sess.CheckTimeout(start.Add(31 * time.Second)); fired {
		t.Fatalf("new question's timer must not have expired yet")
	}
	if _, index, _ := sess.CurrentQuestion(); index != 1 {
		t.Fatalf("expected question index 1 after timeout, got %d", index)
	}
}

func TestForceCompleteCountsUnansweredAsIncorrect(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	sess := NewLevelSession(fiveChoiceLevel())
	sess.Begin(now)

	for i := 0; i < 2; i++ {
		now = now.Add(time.Second)
		if _, _, err := sess.SubmitAnswer(i, "yes", now); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	summary := sess.ForceComplete()
	if summary.Outcome != domain.OutcomeFailed {
		t.Fatalf("2 correct of 5 at threshold 3 must fail, got %s", summary.Outcome)
	}
	if len(summary.Results) != 2 {
		t.Fatalf("unanswered questions must be absent from results, got %d", len(summary.Results))
	}

	// Idempotent: forcing again after terminal is a no-op.
	again := sess.ForceComplete()
	if again.Outcome != summary.Outcome || len(again.Results) != len(summary.Results) {
		t.Fatalf("second force-complete changed the summary")
	}
}

func TestSubmitAfterTerminalRejected(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	sess := NewLevelSession(fiveChoiceLevel())
	sess.Begin(now)
	sess.ForceComplete()

	if _, _, err := sess.SubmitAnswer(0, "yes", now); err != domain.ErrLevelAlreadyAttempted {
		t.Fatalf("expected terminal rejection, got %v", err)
	}
}

func TestRestartQuestionTimerOnResume(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	sess := NewLevelSession(fiveChoiceLevel())
	sess.Begin(start)

	// Re-entering the level restarts the current question's clock.
	if err := sess.RestartQuestionTimer(start.Add(20 * time.Second)); err != nil {
		t.Fatalf("restart: %v", err)
	}
	remaining, _, ok := sess.SampleTimer(start.Add(25 * time.Second))
	if !ok || remaining != 25*time.Second {
		t.Fatalf("expected 25s remaining after restart, got %v", remaining)
	}
}
