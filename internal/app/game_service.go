package app

import (
	"context"
	"log"
	"sync"
	"time"

	"escape-game-service/internal/domain"
	"escape-game-service/internal/game"
)

// CredentialStore verifies team credentials against the team registry.
// Read-only from the core's perspective.
type CredentialStore interface {
	Authenticate(ctx context.Context, teamID, password string) (domain.Team, error)
}

// AttemptStore persists completed attempts. All writes are append-only; a
// team's history is a sum over immutable rows.
type AttemptStore interface {
	AppendLevelAttempt(ctx context.Context, rec domain.AttemptRecord) error
	FetchAttempts(ctx context.Context, teamID string) ([]domain.AttemptRecord, error)
	AppendFinalWordAttempt(ctx context.Context, rec domain.FinalWordRecord) error
	FetchFinalWordStatus(ctx context.Context, teamID string) (*domain.FinalWordRecord, error)
	FetchCorrectFinalWords(ctx context.Context) ([]domain.FinalWordRecord, error)
	FetchAllAttempts(ctx context.Context) ([]domain.AttemptRecord, error)
}

// BankRepository loads the level bank (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context) (domain.LevelBank, error)
}

// LivenessStore marks which level a team is currently playing so an operator
// can see live activity. Best-effort; never blocks game flow.
type LivenessStore interface {
	MarkLevelActive(teamID string, levelNumber int)
	ClearLevelActive(teamID string)
}

// GameService owns one game session per authenticated team and exposes the
// command/query surface consumed by the presentation layer.
type GameService struct {
	creds    CredentialStore
	store    AttemptStore
	bank     BankRepository
	clock    game.TimeSource
	liveness LivenessStore

	mu       sync.RWMutex
	sessions map[string]*GameSession
}

func NewGameService(creds CredentialStore, store AttemptStore, bank BankRepository, clock game.TimeSource) *GameService {
	if clock == nil {
		clock = game.SystemTimeSource{}
	}
	return &GameService{
		creds:    creds,
		store:    store,
		bank:     bank,
		clock:    clock,
		sessions: make(map[string]*GameSession),
	}
}

// SetLivenessStore wires an optional live-activity marker.
func (s *GameService) SetLivenessStore(l LivenessStore) { s.liveness = l }

// Login authenticates a team and builds its game session, reloading progress
// from persisted attempt history. Logging in again for the same team (or a
// different one on the same connection) discards the previous session.
func (s *GameService) Login(ctx context.Context, teamID, password string) (ProgressSnapshot, error) {
	team, err := s.creds.Authenticate(ctx, teamID, password)
	if err != nil {
		return ProgressSnapshot{}, err
	}

	bank, err := s.bank.GetBank(ctx)
	if err != nil {
		return ProgressSnapshot{}, err
	}

	records, err := s.store.FetchAttempts(ctx, team.TeamID)
	if err != nil {
		return ProgressSnapshot{}, err
	}
	progress := game.RebuildTeamProgress(team.TeamID, bank, records)

	finalWord, err := s.store.FetchFinalWordStatus(ctx, team.TeamID)
	if err != nil {
		return ProgressSnapshot{}, err
	}

	sess := newGameSession(team, bank, progress, game.NewFinalWordStage(team.TeamID, bank.SecretWord, finalWord))

	s.mu.Lock()
	s.sessions[team.TeamID] = sess
	s.mu.Unlock()

	return sess.Snapshot(), nil
}

// Logout discards the team's session and any in-progress level attempt.
func (s *GameService) Logout(teamID string) {
	s.mu.Lock()
	sess, ok := s.sessions[teamID]
	delete(s.sessions, teamID)
	s.mu.Unlock()
	if ok {
		sess.close()
	}
	if s.liveness != nil {
		s.liveness.ClearLevelActive(teamID)
	}
}

func (s *GameService) session(teamID string) (*GameSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[teamID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

// Snapshot returns the team's current progress view.
func (s *GameService) Snapshot(teamID string) (ProgressSnapshot, error) {
	sess, err := s.session(teamID)
	if err != nil {
		return ProgressSnapshot{}, err
	}
	return sess.Snapshot(), nil
}

// LevelStatus classifies one level for the team.
func (s *GameService) LevelStatus(teamID string, levelNumber int) (domain.LevelStatus, error) {
	sess, err := s.session(teamID)
	if err != nil {
		return "", err
	}
	return sess.LevelStatus(levelNumber), nil
}

// IsLevelAccessible reports whether the team may attempt the level.
func (s *GameService) IsLevelAccessible(teamID string, levelNumber int) (bool, error) {
	sess, err := s.session(teamID)
	if err != nil {
		return false, err
	}
	return sess.IsLevelAccessible(levelNumber), nil
}

// StartLevel opens a level for play. A level already in progress within the
// session is resumed from its checkpoint; terminal levels and locked levels
// are rejected without mutation.
func (s *GameService) StartLevel(ctx context.Context, teamID string, levelNumber int) (LevelView, error) {
	sess, err := s.session(teamID)
	if err != nil {
		return LevelView{}, err
	}
	view, err := sess.StartLevel(levelNumber, s.clock.Now(ctx))
	if err != nil {
		return LevelView{}, err
	}
	if s.liveness != nil {
		s.liveness.MarkLevelActive(teamID, levelNumber)
	}
	return view, nil
}

// SubmitAnswer evaluates an explicit submission for the current question of
// the team's in-progress level. A completed level is recorded and persisted.
func (s *GameService) SubmitAnswer(ctx context.Context, teamID string, questionIndex int, answer string) (domain.QuestionResult, *domain.AttemptSummary, error) {
	sess, err := s.session(teamID)
	if err != nil {
		return domain.QuestionResult{}, nil, err
	}

	now := s.clock.Now(ctx)

	// A submission arriving after the limit loses to the timeout: record the
	// timeout result first, which makes the late submission out of sync.
	if timeoutResult, timeoutSummary, fired := sess.CheckTimeout(now); fired {
		sess.publish(Event{Type: EventQuestionTimeout, Payload: timeoutResult})
		if timeoutSummary != nil {
			s.finishLevel(ctx, sess, *timeoutSummary)
		}
	}

	result, summary, err := sess.SubmitAnswer(questionIndex, answer, now)
	if err != nil {
		return domain.QuestionResult{}, nil, err
	}
	if summary != nil {
		s.finishLevel(ctx, sess, *summary)
	}
	return result, summary, nil
}

// CheckTimeout fires the pending question timeout, if any. Correctness does
// not depend on how often this is called; the authoritative elapsed time
// decides. Intended to be driven by the transport's countdown tick.
func (s *GameService) CheckTimeout(ctx context.Context, teamID string) error {
	sess, err := s.session(teamID)
	if err != nil {
		return err
	}
	result, summary, fired := sess.CheckTimeout(s.clock.Now(ctx))
	if !fired {
		return nil
	}
	sess.publish(Event{Type: EventQuestionTimeout, Payload: result})
	if summary != nil {
		s.finishLevel(ctx, sess, *summary)
	}
	return nil
}

// ForceCompleteLevel completes the in-progress level using only the results
// accumulated so far (violation-triggered auto-submit). Idempotent once the
// level is terminal.
func (s *GameService) ForceCompleteLevel(ctx context.Context, teamID string) (*domain.AttemptSummary, error) {
	sess, err := s.session(teamID)
	if err != nil {
		return nil, err
	}
	summary, alreadyTerminal := sess.ForceComplete()
	if summary == nil {
		return nil, domain.ErrNoActiveLevel
	}
	if !alreadyTerminal {
		s.finishLevel(ctx, sess, *summary)
	}
	return summary, nil
}

// TimerSample exposes the live countdown for the team's current question.
func (s *GameService) TimerSample(ctx context.Context, teamID string) (TimerView, error) {
	sess, err := s.session(teamID)
	if err != nil {
		return TimerView{}, err
	}
	return sess.TimerSample(s.clock.Now(ctx))
}

// LevelProgress returns the in-progress attempt's checkpoint view.
func (s *GameService) LevelProgress(teamID string) (LevelProgress, error) {
	sess, err := s.session(teamID)
	if err != nil {
		return LevelProgress{}, err
	}
	return sess.LevelProgress()
}

// SubmitFinalWordGuess evaluates one guess at the secret word. The stage must
// be unlocked (all levels cleared) and not yet locked by earlier guesses.
func (s *GameService) SubmitFinalWordGuess(ctx context.Context, teamID, word string) (domain.FinalWordRecord, error) {
	sess, err := s.session(teamID)
	if err != nil {
		return domain.FinalWordRecord{}, err
	}
	record, err := sess.SubmitFinalWordGuess(word, s.clock.Now(ctx))
	if err != nil {
		return record, err
	}

	s.persistFinalWord(ctx, record)
	if record.Locked() {
		sess.publish(Event{Type: EventFinalWordLocked, Payload: record})
	}
	sess.publishProgress()
	return record, nil
}

// Leaderboard recomputes the final standings from persisted records.
func (s *GameService) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	finalWords, err := s.store.FetchCorrectFinalWords(ctx)
	if err != nil {
		return nil, err
	}
	attempts, err := s.store.FetchAllAttempts(ctx)
	if err != nil {
		return nil, err
	}
	return game.RankLeaderboard(finalWords, attempts, game.LeaderboardSize), nil
}

// Subscribe returns a channel receiving the team's game events. The caller
// must invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe(teamID string) (<-chan Event, func(), error) {
	sess, err := s.session(teamID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := sess.subscribe()
	return ch, cancel, nil
}

// finishLevel applies a terminal attempt to team progress and persists it.
// The in-memory update always proceeds; persistence is best-effort with one
// retry and a logged recoverable error, never fatal to game flow.
func (s *GameService) finishLevel(ctx context.Context, sess *GameSession, summary domain.AttemptSummary) {
	sess.recordAttempt(summary)
	if s.liveness != nil {
		s.liveness.ClearLevelActive(sess.team.TeamID)
	}

	sess.publish(Event{Type: EventLevelTerminal, Payload: summary})
	sess.publishProgress()

	rec := domain.AttemptRecord{
		TeamID:          sess.team.TeamID,
		LevelNumber:     summary.LevelNumber,
		Score:           summary.TotalScore,
		TimeTaken:       summary.TotalTimeSeconds,
		Cleared:         summary.Outcome == domain.OutcomeCleared,
		LettersUnlocked: summary.LettersUnlocked,
		CreatedAt:       s.clock.Now(ctx),
	}
	if err := s.store.AppendLevelAttempt(ctx, rec); err != nil {
		if err = s.store.AppendLevelAttempt(ctx, rec); err != nil {
			log.Printf("level attempt for team %s level %d not persisted: %v", rec.TeamID, rec.LevelNumber, err)
		}
	}
}

func (s *GameService) persistFinalWord(ctx context.Context, rec domain.FinalWordRecord) {
	if err := s.store.AppendFinalWordAttempt(ctx, rec); err != nil {
		if err = s.store.AppendFinalWordAttempt(ctx, rec); err != nil {
			log.Printf("final word attempt for team %s not persisted: %v", rec.TeamID, err)
		}
	}
}

// interQuestionDelay paces question transitions on the presentation side; the
// value is advisory and has no effect on timing correctness.
const interQuestionDelay = 1500 * time.Millisecond

// InterQuestionDelayMillis is exposed so transports can tell clients how long
// to show per-question feedback before the next question.
func InterQuestionDelayMillis() int64 { return interQuestionDelay.Milliseconds() }
