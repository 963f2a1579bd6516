package postgres

import (
	"context"
	"fmt"
	"strings"

	"escape-game-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// CredentialStore validates team credentials against the teams table.
// Read-only: authentication never writes.
type CredentialStore struct {
	pool *pgxpool.Pool
}

func NewCredentialStore(pool *pgxpool.Pool) *CredentialStore {
	return &CredentialStore{pool: pool}
}

func (s *CredentialStore) Authenticate(ctx context.Context, teamID, password string) (domain.Team, error) {
	teamID = strings.TrimSpace(teamID)
	password = strings.TrimSpace(password)
	if teamID == "" || password == "" {
		return domain.Team{}, domain.ErrInvalidCredentials
	}

	var team domain.Team
	err := s.pool.QueryRow(ctx,
		`SELECT team_id, team_name, is_active FROM teams WHERE team_id=$1 AND password=$2`,
		teamID, password).Scan(&team.TeamID, &team.TeamName, &team.IsActive)
	if err == pgx.ErrNoRows {
		return domain.Team{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.Team{}, fmt.Errorf("authenticate team: %w", err)
	}
	if !team.IsActive {
		return domain.Team{}, domain.ErrTeamInactive
	}
	return team, nil
}
