package game

import (
	"strings"
	"time"

	"escape-game-service/internal/domain"
)

// FinalWordStage accepts up to two guesses at the secret word and locks
// afterward. It only gates submission; letter visibility is handled by
// TeamProgress and is independent of guesses.
type FinalWordStage struct {
	teamID string
	secret string
	record domain.FinalWordRecord
}

// NewFinalWordStage builds the stage for a team, optionally resuming from a
// persisted record.
func NewFinalWordStage(teamID, secretWord string, existing *domain.FinalWordRecord) *FinalWordStage {
	s := &FinalWordStage{
		teamID: teamID,
		secret: strings.ToUpper(strings.TrimSpace(secretWord)),
		record: domain.FinalWordRecord{TeamID: teamID},
	}
	if existing != nil {
		s.record = *existing
	}
	return s
}

// Status returns the current attempt record.
func (s *FinalWordStage) Status() domain.FinalWordRecord { return s.record }

// Locked reports whether further guesses are rejected.
func (s *FinalWordStage) Locked() bool { return s.record.Locked() }

// SubmitGuess evaluates one guess. A locked stage rejects the guess with no
// state change.
func (s *FinalWordStage) SubmitGuess(word string, now time.Time) (domain.FinalWordRecord, error) {
	if s.record.Locked() {
		return s.record, domain.ErrFinalWordLocked
	}

	normalized := strings.ToUpper(strings.TrimSpace(word))
	s.record.Word = normalized
	s.record.AttemptsUsed++
	s.record.IsCorrect = strings.EqualFold(normalized, s.secret)
	s.record.SubmittedAt = now
	return s.record, nil
}
