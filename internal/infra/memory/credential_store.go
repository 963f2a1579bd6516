package memory

import (
	"context"
	"strings"
	"sync"

	"escape-game-service/internal/domain"
)

// Credential pairs a team with its password for the in-memory registry.
type Credential struct {
	Team     domain.Team
	Password string
}

// CredentialStore is an in-memory team registry (useful for tests/demos).
type CredentialStore struct {
	mu    sync.RWMutex
	teams map[string]Credential
}

func NewCredentialStore(creds []Credential) *CredentialStore {
	teams := make(map[string]Credential, len(creds))
	for _, c := range creds {
		teams[c.Team.TeamID] = c
	}
	return &CredentialStore{teams: teams}
}

func (s *CredentialStore) Authenticate(_ context.Context, teamID, password string) (domain.Team, error) {
	teamID = strings.TrimSpace(teamID)
	password = strings.TrimSpace(password)
	if teamID == "" || password == "" {
		return domain.Team{}, domain.ErrInvalidCredentials
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	cred, ok := s.teams[teamID]
	if !ok || cred.Password != password {
		return domain.Team{}, domain.ErrInvalidCredentials
	}
	if !cred.Team.IsActive {
		return domain.Team{}, domain.ErrTeamInactive
	}
	return cred.Team, nil
}
