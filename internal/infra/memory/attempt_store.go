package memory

import (
	"context"
	"sync"

	"escape-game-service/internal/domain"
)

// AttemptStore is an in-memory, append-only implementation of
// app.AttemptStore. Rows are never updated in place, matching the semantics
// the real store provides.
type AttemptStore struct {
	mu         sync.RWMutex
	attempts   []domain.AttemptRecord
	finalWords []domain.FinalWordRecord
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{}
}

func (s *AttemptStore) AppendLevelAttempt(_ context.Context, rec domain.AttemptRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = append(s.attempts, rec)
	return nil
}

func (s *AttemptStore) FetchAttempts(_ context.Context, teamID string) ([]domain.AttemptRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.AttemptRecord
	for _, rec := range s.attempts {
		if rec.TeamID == teamID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *AttemptStore) AppendFinalWordAttempt(_ context.Context, rec domain.FinalWordRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finalWords = append(s.finalWords, rec)
	return nil
}

// FetchFinalWordStatus returns the latest final-word row for the team, or nil
// when the team has not guessed yet.
func (s *AttemptStore) FetchFinalWordStatus(_ context.Context, teamID string) (*domain.FinalWordRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *domain.FinalWordRecord
	for i := range s.finalWords {
		rec := s.finalWords[i]
		if rec.TeamID != teamID {
			continue
		}
		if latest == nil || rec.AttemptsUsed >= latest.AttemptsUsed {
			latest = &rec
		}
	}
	return latest, nil
}

// FetchCorrectFinalWords returns the earliest correct row per team.
func (s *AttemptStore) FetchCorrectFinalWords(_ context.Context) ([]domain.FinalWordRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	earliest := make(map[string]domain.FinalWordRecord)
	for _, rec := range s.finalWords {
		if !rec.IsCorrect {
			continue
		}
		if prev, ok := earliest[rec.TeamID]; !ok || rec.SubmittedAt.Before(prev.SubmittedAt) {
			earliest[rec.TeamID] = rec
		}
	}
	out := make([]domain.FinalWordRecord, 0, len(earliest))
	for _, rec := range earliest {
		out = append(out, rec)
	}
	return out, nil
}

func (s *AttemptStore) FetchAllAttempts(_ context.Context) ([]domain.AttemptRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.AttemptRecord, len(s.attempts))
	copy(out, s.attempts)
	return out, nil
}
