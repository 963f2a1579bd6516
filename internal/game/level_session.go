package game

import (
	"time"

	"escape-game-service/internal/domain"
)

// SessionState is the lifecycle of one level attempt.
type SessionState int

const (
	SessionNotStarted SessionState = iota
	SessionInProgress
	SessionCompleting
	SessionTerminal
)

// LevelSession runs one level: it iterates the question sequence, times each
// question, evaluates submissions, and decides the cleared/failed outcome
// against the level's threshold. A session may be re-entered while in
// progress (partial results survive within the owning game session) but never
// after reaching the terminal state.
type LevelSession struct {
	def           domain.LevelDefinition
	state         SessionState
	questionIndex int
	results       []domain.QuestionResult
	timer         *Timer
	outcome       domain.LevelOutcome
	summary       domain.AttemptSummary
}

// NewLevelSession creates a session in the not-started state.
func NewLevelSession(def domain.LevelDefinition) *LevelSession {
	return &LevelSession{
		def:     def,
		outcome: domain.OutcomeInProgress,
		results: make([]domain.QuestionResult, 0, len(def.Questions)),
	}
}

// Begin transitions to in-progress and starts timing the first question.
func (s *LevelSession) Begin(now time.Time) {
	if s.state != SessionNotStarted {
		return
	}
	s.state = SessionInProgress
	s.timer = StartTimer(s.def.Questions[0].TimeLimitSeconds, now)
}

// State returns the current lifecycle state.
func (s *LevelSession) State() SessionState { return s.state }

// Definition returns the level being played.
func (s *LevelSession) Definition() domain.LevelDefinition { return s.def }

// CurrentQuestion returns the question currently being timed.
func (s *LevelSession) CurrentQuestion() (domain.Question, int, bool) {
	if s.state != SessionInProgress || s.questionIndex >= len(s.def.Questions) {
		return domain.Question{}, 0, false
	}
	return s.def.Questions[s.questionIndex], s.questionIndex, true
}

// Results returns a copy of the results recorded so far.
func (s *LevelSession) Results() []domain.QuestionResult {
	out := make([]domain.QuestionResult, len(s.results))
	copy(out, s.results)
	return out
}

// SampleTimer exposes the live countdown for the current question.
func (s *LevelSession) SampleTimer(now time.Time) (remaining time.Duration, formatted string, ok bool) {
	if s.state != SessionInProgress || s.timer == nil {
		return 0, "", false
	}
	remaining, _ = s.timer.Sample(now)
	return remaining, FormatRemaining(remaining), true
}

// RestartQuestionTimer restarts timing for the current question. Permitted
// only before any result has been recorded for that question index, which
// holds for the current index by construction while in progress.
func (s *LevelSession) RestartQuestionTimer(now time.Time) error {
	if s.state != SessionInProgress {
		return domain.ErrNoActiveLevel
	}
	q, _, ok := s.CurrentQuestion()
	if !ok {
		return domain.ErrNoActiveLevel
	}
	s.timer = StartTimer(q.TimeLimitSeconds, now)
	return nil
}

// SubmitAnswer evaluates an explicit submission for the question at index.
// It returns the recorded result and, when this was the last question, the
// terminal attempt summary.
func (s *LevelSession) SubmitAnswer(index int, answer string, now time.Time) (domain.QuestionResult, *domain.AttemptSummary, error) {
	if s.state != SessionInProgress {
		if s.state == SessionTerminal {
			return domain.QuestionResult{}, nil, domain.ErrLevelAlreadyAttempted
		}
		return domain.QuestionResult{}, nil, domain.ErrNoActiveLevel
	}
	if index != s.questionIndex {
		return domain.QuestionResult{}, nil, domain.ErrQuestionOutOfSync
	}

	q := s.def.Questions[s.questionIndex]
	timeTaken, plausible := s.timer.Complete(now)
	result := Evaluate(q, answer, timeTaken, plausible)
	return result, s.record(result, now), nil
}

// CheckTimeout fires at most one timeout per question instance. Reaching the
// limit is equivalent to submitting the current (empty) answer with
// timeTaken = timeLimit. The bool reports whether a timeout fired.
func (s *LevelSession) CheckTimeout(now time.Time) (domain.QuestionResult, *domain.AttemptSummary, bool) {
	if s.state != SessionInProgress || s.timer == nil || !s.timer.FireTimeout(now) {
		return domain.QuestionResult{}, nil, false
	}
	q := s.def.Questions[s.questionIndex]
	result := Evaluate(q, "", float64(q.TimeLimitSeconds), true)
	return result, s.record(result, now), true
}

// ForceComplete transitions directly to completion using only the results
// accumulated so far; unanswered questions are simply absent and count as
// incorrect. Idempotent: after the terminal state it returns the existing
// summary without changing anything.
func (s *LevelSession) ForceComplete() domain.AttemptSummary {
	if s.state == SessionTerminal {
		return s.summary
	}
	return s.complete()
}

// record appends a result and either advances to the next question or
// completes the level.
func (s *LevelSession) record(result domain.QuestionResult, now time.Time) *domain.AttemptSummary {
	s.results = append(s.results, result)
	s.questionIndex++

	if s.questionIndex < len(s.def.Questions) {
		// The inter-question display delay is presentation pacing; the next
		// question's timer starts on its own clock and is unaffected by it.
		s.timer = StartTimer(s.def.Questions[s.questionIndex].TimeLimitSeconds, now)
		return nil
	}

	summary := s.complete()
	return &summary
}

func (s *LevelSession) complete() domain.AttemptSummary {
	s.state = SessionCompleting
	s.timer = nil

	correct := 0
	total := 0
	totalTime := 0.0
	for _, r := range s.results {
		if r.IsCorrect {
			correct++
		}
		total += r.Score
		totalTime += r.TimeTakenSeconds
	}

	outcome := domain.OutcomeFailed
	if correct >= s.def.ClearThreshold {
		outcome = domain.OutcomeCleared
	}

	var letters []string
	if outcome == domain.OutcomeCleared && s.def.LetterToUnlock != "" {
		letters = []string{s.def.LetterToUnlock}
	}

	s.outcome = outcome
	s.summary = domain.AttemptSummary{
		LevelNumber:      s.def.LevelNumber,
		Outcome:          outcome,
		Results:          s.Results(),
		CorrectCount:     correct,
		TotalScore:       total,
		TotalTimeSeconds: totalTime,
		LettersUnlocked:  letters,
	}
	s.state = SessionTerminal
	return s.summary
}
