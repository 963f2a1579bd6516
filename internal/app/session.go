package app

import (
	"sync"
	"time"

	"escape-game-service/internal/domain"
	"escape-game-service/internal/game"
)

// Event is a one-way notification from the core to the presentation layer.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

const (
	EventProgress        = "progress"
	EventQuestionTimeout = "questionTimeout"
	EventLevelTerminal   = "levelTerminal"
	EventFinalWordLocked = "finalWordLocked"
)

// QuestionView is a question stripped of its accepted answer for display.
type QuestionView struct {
	ID               string          `json:"id"`
	Modality         domain.Modality `json:"modality"`
	Prompt           string          `json:"prompt"`
	Auxiliary        string          `json:"auxiliary,omitempty"`
	Options          []domain.Option `json:"options,omitempty"`
	Points           int             `json:"points"`
	TimeLimitSeconds int             `json:"timeLimitSeconds"`
	AnswerLength     int             `json:"answerLength,omitempty"`
}

// LevelView describes an opened level, including the checkpoint position when
// an in-progress attempt was resumed.
type LevelView struct {
	LevelNumber    int                     `json:"levelNumber"`
	Name           string                  `json:"name"`
	Modality       domain.Modality         `json:"modality"`
	ClearThreshold int                     `json:"clearThreshold"`
	TotalQuestions int                     `json:"totalQuestions"`
	QuestionIndex  int                     `json:"questionIndex"`
	Questions      []QuestionView          `json:"questions"`
	Results        []domain.QuestionResult `json:"results"`
	Resumed        bool                    `json:"resumed"`
}

// LevelProgress is the running checkpoint of an in-progress attempt.
type LevelProgress struct {
	LevelNumber    int                     `json:"levelNumber"`
	QuestionIndex  int                     `json:"questionIndex"`
	TotalQuestions int                     `json:"totalQuestions"`
	Results        []domain.QuestionResult `json:"results"`
}

// TimerView is the live countdown for the current question.
type TimerView struct {
	RemainingSeconds float64 `json:"remainingSeconds"`
	Formatted        string  `json:"formatted"`
}

// FinalWordView is the presentation-facing final-word state.
type FinalWordView struct {
	AttemptsUsed int  `json:"attemptsUsed"`
	IsCorrect    bool `json:"isCorrect"`
	IsLocked     bool `json:"isLocked"`
}

// ProgressSnapshot is the full per-team progress view.
type ProgressSnapshot struct {
	TeamID            string                     `json:"teamId"`
	TeamName          string                     `json:"teamName"`
	LevelStatuses     map[int]domain.LevelStatus `json:"levelStatuses"`
	AttemptedLevels   []int                      `json:"attemptedLevels"`
	ClearedLevels     []int                      `json:"clearedLevels"`
	FailedLevels      []int                      `json:"failedLevels"`
	UnlockedLetters   []string                   `json:"unlockedLetters"`
	RevealedWord      string                     `json:"revealedWord"`
	TotalScore        int                        `json:"totalScore"`
	FinalWordUnlocked bool                       `json:"finalWordUnlocked"`
	FinalWord         FinalWordView              `json:"finalWord"`
}

// GameSession owns the state for one authenticated team: its progress, the
// level currently being played (if any), and the final-word stage. It is
// created on login and discarded on logout or team switch.
type GameSession struct {
	team      domain.Team
	bank      domain.LevelBank
	mu        sync.Mutex
	progress  *game.TeamProgress
	level     *game.LevelSession
	finalWord *game.FinalWordStage

	subscribers map[chan Event]struct{}
}

func newGameSession(team domain.Team, bank domain.LevelBank, progress *game.TeamProgress, finalWord *game.FinalWordStage) *GameSession {
	return &GameSession{
		team:        team,
		bank:        bank,
		progress:    progress,
		finalWord:   finalWord,
		subscribers: make(map[chan Event]struct{}),
	}
}

// Snapshot returns the team's current progress view.
func (s *GameSession) Snapshot() ProgressSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *GameSession) snapshotLocked() ProgressSnapshot {
	statuses := make(map[int]domain.LevelStatus, len(s.bank.Levels))
	for _, lvl := range s.bank.Levels {
		statuses[lvl.LevelNumber] = s.progress.LevelStatus(lvl.LevelNumber)
	}
	fw := s.finalWord.Status()
	return ProgressSnapshot{
		TeamID:            s.team.TeamID,
		TeamName:          s.team.TeamName,
		LevelStatuses:     statuses,
		AttemptedLevels:   s.progress.AttemptedLevels(),
		ClearedLevels:     s.progress.ClearedLevels(),
		FailedLevels:      s.progress.FailedLevels(),
		UnlockedLetters:   s.progress.UnlockedLetters(),
		RevealedWord:      s.progress.RevealedWord(s.bank),
		TotalScore:        s.progress.TotalScore(),
		FinalWordUnlocked: s.progress.FinalWordUnlocked(s.bank),
		FinalWord: FinalWordView{
			AttemptsUsed: fw.AttemptsUsed,
			IsCorrect:    fw.IsCorrect,
			IsLocked:     fw.Locked(),
		},
	}
}

// LevelStatus classifies one level for this team.
func (s *GameSession) LevelStatus(levelNumber int) domain.LevelStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress.LevelStatus(levelNumber)
}

// IsLevelAccessible reports whether this team may attempt the level.
func (s *GameSession) IsLevelAccessible(levelNumber int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress.IsLevelAccessible(levelNumber)
}

// StartLevel opens or resumes a level. Terminal levels reject with
// ErrLevelAlreadyAttempted; inaccessible levels with ErrLevelLocked.
func (s *GameSession) StartLevel(levelNumber int, now time.Time) (LevelView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	def, ok := s.bank.Level(levelNumber)
	if !ok {
		return LevelView{}, domain.ErrLevelNotFound
	}

	// Resume the session-scoped checkpoint if this level is mid-attempt.
	if s.level != nil && s.level.Definition().LevelNumber == levelNumber && s.level.State() == game.SessionInProgress {
		if err := s.level.RestartQuestionTimer(now); err != nil {
			return LevelView{}, err
		}
		return s.levelViewLocked(true), nil
	}

	switch s.progress.LevelStatus(levelNumber) {
	case domain.StatusCleared, domain.StatusFailed, domain.StatusAttempted:
		return LevelView{}, domain.ErrLevelAlreadyAttempted
	case domain.StatusLocked:
		return LevelView{}, domain.ErrLevelLocked
	}

	s.level = game.NewLevelSession(def)
	s.level.Begin(now)
	return s.levelViewLocked(false), nil
}

func (s *GameSession) levelViewLocked(resumed bool) LevelView {
	def := s.level.Definition()
	questions := make([]QuestionView, len(def.Questions))
	for i, q := range def.Questions {
		view := QuestionView{
			ID:               q.ID,
			Modality:         q.Modality,
			Prompt:           q.Prompt,
			Auxiliary:        q.Auxiliary,
			Options:          q.Options,
			Points:           q.Points,
			TimeLimitSeconds: q.TimeLimitSeconds,
		}
		if q.Modality == domain.ModalityCharacterLock {
			view.AnswerLength = len(q.AcceptedAnswer)
		}
		questions[i] = view
	}
	_, index, _ := s.level.CurrentQuestion()
	return LevelView{
		LevelNumber:    def.LevelNumber,
		Name:           def.Name,
		Modality:       def.Modality,
		ClearThreshold: def.ClearThreshold,
		TotalQuestions: len(def.Questions),
		QuestionIndex:  index,
		Questions:      questions,
		Results:        s.level.Results(),
		Resumed:        resumed,
	}
}

// SubmitAnswer forwards an explicit submission to the in-progress level.
func (s *GameSession) SubmitAnswer(questionIndex int, answer string, now time.Time) (domain.QuestionResult, *domain.AttemptSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.level == nil {
		return domain.QuestionResult{}, nil, domain.ErrNoActiveLevel
	}
	return s.level.SubmitAnswer(questionIndex, answer, now)
}

// CheckTimeout fires the pending question timeout, if the limit was reached.
func (s *GameSession) CheckTimeout(now time.Time) (domain.QuestionResult, *domain.AttemptSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.level == nil {
		return domain.QuestionResult{}, nil, false
	}
	return s.level.CheckTimeout(now)
}

// ForceComplete completes the current level with accumulated results. The
// bool reports whether the level was already terminal (making this a no-op).
func (s *GameSession) ForceComplete() (*domain.AttemptSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.level == nil || s.level.State() == game.SessionNotStarted {
		return nil, false
	}
	alreadyTerminal := s.level.State() == game.SessionTerminal
	summary := s.level.ForceComplete()
	return &summary, alreadyTerminal
}

// TimerSample reads the live countdown for the current question.
func (s *GameSession) TimerSample(now time.Time) (TimerView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.level == nil {
		return TimerView{}, domain.ErrNoActiveLevel
	}
	remaining, formatted, ok := s.level.SampleTimer(now)
	if !ok {
		return TimerView{}, domain.ErrNoActiveLevel
	}
	return TimerView{RemainingSeconds: remaining.Seconds(), Formatted: formatted}, nil
}

// LevelProgress returns the in-progress attempt's checkpoint.
func (s *GameSession) LevelProgress() (LevelProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.level == nil || s.level.State() != game.SessionInProgress {
		return LevelProgress{}, domain.ErrNoActiveLevel
	}
	def := s.level.Definition()
	_, index, _ := s.level.CurrentQuestion()
	return LevelProgress{
		LevelNumber:    def.LevelNumber,
		QuestionIndex:  index,
		TotalQuestions: len(def.Questions),
		Results:        s.level.Results(),
	}, nil
}

// SubmitFinalWordGuess evaluates a guess once the stage is unlocked.
func (s *GameSession) SubmitFinalWordGuess(word string, now time.Time) (domain.FinalWordRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.progress.FinalWordUnlocked(s.bank) {
		return domain.FinalWordRecord{}, domain.ErrFinalWordNotUnlocked
	}
	return s.finalWord.SubmitGuess(word, now)
}

// recordAttempt applies a terminal summary to team progress. A duplicate call
// for the same level is harmless: the progress machine rejects the second
// terminal write.
func (s *GameSession) recordAttempt(summary domain.AttemptSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	def, ok := s.bank.Level(summary.LevelNumber)
	if !ok {
		return
	}
	_ = s.progress.RecordLevelAttempt(def, summary.Outcome == domain.OutcomeCleared, summary.TotalScore)
}

func (s *GameSession) subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	// The channel is fresh and buffered, so this never blocks.
	ch <- Event{Type: EventProgress, Payload: s.snapshotLocked()}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// publish fans an event out to subscribers, dropping the stale message for a
// slow consumer instead of blocking the game loop.
func (s *GameSession) publish(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishLocked(event)
}

// publishLocked must run under s.mu: cancel and close close subscriber
// channels under the same mutex, so sending here cannot race them, and no
// unlocked sender can refill a slot between the drain and the send.
func (s *GameSession) publishLocked(event Event) {
	for ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- event
		}
	}
}

// publishProgress broadcasts a fresh progress snapshot.
func (s *GameSession) publishProgress() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishLocked(Event{Type: EventProgress, Payload: s.snapshotLocked()})
}

// close drops all subscribers when the session is discarded.
func (s *GameSession) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}
