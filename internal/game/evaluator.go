package game

import (
	"strings"

	"escape-game-service/internal/domain"
)

// Evaluate scores a single submission against a question. It is a pure
// function of its inputs: no state is read or mutated.
//
// timingPlausible comes from the timer's Complete verdict; an anomalous
// reading still produces a result but earns no time bonus.
func Evaluate(q domain.Question, submitted string, timeTakenSeconds float64, timingPlausible bool) domain.QuestionResult {
	correct := answerMatches(q, submitted)

	score := 0
	if correct {
		score = q.Points
		if timingPlausible {
			score += timeBonus(q.TimeLimitSeconds, timeTakenSeconds)
		}
	}

	return domain.QuestionResult{
		QuestionID:       q.ID,
		SubmittedAnswer:  submitted,
		IsCorrect:        correct,
		Score:            score,
		TimeTakenSeconds: timeTakenSeconds,
		TimingFlagged:    !timingPlausible,
	}
}

func answerMatches(q domain.Question, submitted string) bool {
	// Empty or whitespace-only submissions are always incorrect.
	if strings.TrimSpace(submitted) == "" {
		return false
	}

	switch q.Modality {
	case domain.ModalityChoice:
		// Options are pre-rendered text, so the comparison is exact: no
		// trimming, no case folding.
		return submitted == q.AcceptedAnswer
	case domain.ModalityFreeText:
		return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(q.AcceptedAnswer))
	case domain.ModalityCharacterLock:
		// The answer is assembled letter-by-letter upstream; only a complete
		// string of the accepted answer's length is comparable.
		if len(submitted) != len(q.AcceptedAnswer) {
			return false
		}
		return strings.EqualFold(submitted, q.AcceptedAnswer)
	default:
		return false
	}
}

// timeBonus is the unused portion of the question's limit, clamped to
// [0, limit].
func timeBonus(limitSeconds int, timeTaken float64) int {
	bonus := float64(limitSeconds) - timeTaken
	if bonus < 0 {
		return 0
	}
	if bonus > float64(limitSeconds) {
		return limitSeconds
	}
	return int(bonus)
}
