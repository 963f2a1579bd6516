package postgres

import (
	"context"
	"fmt"

	"escape-game-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// AttemptStore persists level and final-word attempts in Postgres. All writes
// are inserts; a team's history is reconstructed by replaying rows in
// creation order, so reloads never race page refreshes.
type AttemptStore struct {
	pool *pgxpool.Pool
}

func NewAttemptStore(pool *pgxpool.Pool) *AttemptStore {
	return &AttemptStore{pool: pool}
}

func (s *AttemptStore) AppendLevelAttempt(ctx context.Context, rec domain.AttemptRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO level_attempts (team_id, level_number, score, time_taken, cleared, letters_unlocked, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.TeamID, rec.LevelNumber, rec.Score, rec.TimeTaken, rec.Cleared, rec.LettersUnlocked, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("append level attempt: %w", err)
	}
	return nil
}

func (s *AttemptStore) FetchAttempts(ctx context.Context, teamID string) ([]domain.AttemptRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT team_id, level_number, score, time_taken, cleared, letters_unlocked, created_at
		 FROM level_attempts WHERE team_id=$1 ORDER BY created_at ASC`, teamID)
	if err != nil {
		return nil, fmt.Errorf("fetch attempts: %w", err)
	}
	defer rows.Close()
	return scanAttempts(rows)
}

func (s *AttemptStore) FetchAllAttempts(ctx context.Context) ([]domain.AttemptRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT team_id, level_number, score, time_taken, cleared, letters_unlocked, created_at
		 FROM level_attempts ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("fetch all attempts: %w", err)
	}
	defer rows.Close()
	return scanAttempts(rows)
}

func scanAttempts(rows pgx.Rows) ([]domain.AttemptRecord, error) {
	var out []domain.AttemptRecord
	for rows.Next() {
		var rec domain.AttemptRecord
		if err := rows.Scan(&rec.TeamID, &rec.LevelNumber, &rec.Score, &rec.TimeTaken,
			&rec.Cleared, &rec.LettersUnlocked, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *AttemptStore) AppendFinalWordAttempt(ctx context.Context, rec domain.FinalWordRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO final_word_attempts (team_id, word, attempts_used, is_correct, submitted_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		rec.TeamID, rec.Word, rec.AttemptsUsed, rec.IsCorrect, rec.SubmittedAt)
	if err != nil {
		return fmt.Errorf("append final word attempt: %w", err)
	}
	return nil
}

// FetchFinalWordStatus returns the team's latest final-word row, or nil when
// the team has not guessed yet.
func (s *AttemptStore) FetchFinalWordStatus(ctx context.Context, teamID string) (*domain.FinalWordRecord, error) {
	var rec domain.FinalWordRecord
	err := s.pool.QueryRow(ctx,
		`SELECT team_id, word, attempts_used, is_correct, submitted_at
		 FROM final_word_attempts WHERE team_id=$1 ORDER BY attempts_used DESC, submitted_at DESC LIMIT 1`,
		teamID).Scan(&rec.TeamID, &rec.Word, &rec.AttemptsUsed, &rec.IsCorrect, &rec.SubmittedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch final word status: %w", err)
	}
	return &rec, nil
}

// FetchCorrectFinalWords returns the earliest correct submission per team.
func (s *AttemptStore) FetchCorrectFinalWords(ctx context.Context) ([]domain.FinalWordRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT ON (team_id) team_id, word, attempts_used, is_correct, submitted_at
		 FROM final_word_attempts WHERE is_correct ORDER BY team_id, submitted_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("fetch correct final words: %w", err)
	}
	defer rows.Close()

	var out []domain.FinalWordRecord
	for rows.Next() {
		var rec domain.FinalWordRecord
		if err := rows.Scan(&rec.TeamID, &rec.Word, &rec.AttemptsUsed, &rec.IsCorrect, &rec.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan final word: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
