package domain

import (
	"fmt"
	"time"
)

// Modality selects the comparison rule the evaluator applies to an answer.
type Modality string

const (
	// ModalityChoice is a pre-rendered option; comparison is exact and case-preserving.
	ModalityChoice Modality = "CHOICE"
	// ModalityFreeText is typed input; comparison trims whitespace and ignores case.
	ModalityFreeText Modality = "FREE_TEXT"
	// ModalityCharacterLock is assembled letter-by-letter upstream; the evaluator
	// only accepts a complete string of the accepted answer's length.
	ModalityCharacterLock Modality = "CHARACTER_LOCK"
)

// Option is one pre-rendered choice for a CHOICE question.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is one immutable entry in a level's ordered sequence.
type Question struct {
	ID               string   `json:"id"`
	Modality         Modality `json:"modality"`
	Prompt           string   `json:"prompt"`
	Auxiliary        string   `json:"auxiliary,omitempty"` // code snippet, cipher text, or hint
	Options          []Option `json:"options,omitempty"`
	AcceptedAnswer   string   `json:"acceptedAnswer"`
	Points           int      `json:"points"`
	TimeLimitSeconds int      `json:"timeLimitSeconds"`
}

// QuestionResult records the outcome of exactly one question within one attempt.
// Immutable after creation.
type QuestionResult struct {
	QuestionID       string  `json:"questionId"`
	SubmittedAnswer  string  `json:"submittedAnswer"`
	IsCorrect        bool    `json:"isCorrect"`
	Score            int     `json:"score"`
	TimeTakenSeconds float64 `json:"timeTakenSeconds"`
	TimingFlagged    bool    `json:"timingFlagged,omitempty"`
}

// LevelDefinition is the static configuration of one of the five levels.
type LevelDefinition struct {
	LevelNumber    int        `json:"levelNumber"`
	Name           string     `json:"name"`
	Modality       Modality   `json:"modality"`
	LetterToUnlock string     `json:"letterToUnlock"`
	SlotPosition   int        `json:"slotPosition"`
	ClearThreshold int        `json:"clearThreshold"`
	Questions      []Question `json:"questions"`
}

// LevelBank holds the five ordered level definitions plus the secret word
// their letters assemble into.
type LevelBank struct {
	SecretWord string            `json:"secretWord"`
	Hint       string            `json:"hint,omitempty"`
	Levels     []LevelDefinition `json:"levels"`
}

// Validate checks that the bank is playable before it reaches a session:
// every level needs a non-empty question sequence and a clear threshold
// within it. Loaders run this on externally sourced banks so malformed
// content is rejected at the boundary, not mid-game.
func (b LevelBank) Validate() error {
	if len(b.Levels) == 0 {
		return ErrBankNotFound
	}
	for _, lvl := range b.Levels {
		if len(lvl.Questions) == 0 {
			return fmt.Errorf("level %d has no questions", lvl.LevelNumber)
		}
		if lvl.ClearThreshold < 1 || lvl.ClearThreshold > len(lvl.Questions) {
			return fmt.Errorf("level %d clear threshold %d out of range for %d questions",
				lvl.LevelNumber, lvl.ClearThreshold, len(lvl.Questions))
		}
	}
	return nil
}

// Level returns the definition for levelNumber, or false when out of range.
func (b LevelBank) Level(levelNumber int) (LevelDefinition, bool) {
	for _, lvl := range b.Levels {
		if lvl.LevelNumber == levelNumber {
			return lvl, true
		}
	}
	return LevelDefinition{}, false
}

// LevelOutcome is the terminal classification of a level attempt.
type LevelOutcome string

const (
	OutcomeInProgress LevelOutcome = "IN_PROGRESS"
	OutcomeCleared    LevelOutcome = "CLEARED"
	OutcomeFailed     LevelOutcome = "FAILED"
)

// LevelStatus is the presentation-facing classification of a level for a team.
type LevelStatus string

const (
	StatusCleared   LevelStatus = "CLEARED"
	StatusFailed    LevelStatus = "FAILED"
	StatusAttempted LevelStatus = "ATTEMPTED"
	StatusUnlocked  LevelStatus = "UNLOCKED"
	StatusLocked    LevelStatus = "LOCKED"
)

// AttemptSummary is the immutable hand-off from a finished level session to
// team progress and the persistence layer.
type AttemptSummary struct {
	LevelNumber      int              `json:"levelNumber"`
	Outcome          LevelOutcome     `json:"outcome"`
	Results          []QuestionResult `json:"results"`
	CorrectCount     int              `json:"correctCount"`
	TotalScore       int              `json:"totalScore"`
	TotalTimeSeconds float64          `json:"totalTimeSeconds"`
	LettersUnlocked  []string         `json:"lettersUnlocked"`
}

// AttemptRecord is one persisted, append-only row of level-completion history.
type AttemptRecord struct {
	TeamID          string    `json:"teamId"`
	LevelNumber     int       `json:"levelNumber"`
	Score           int       `json:"score"`
	TimeTaken       float64   `json:"timeTaken"`
	Cleared         bool      `json:"cleared"`
	LettersUnlocked []string  `json:"lettersUnlocked"`
	CreatedAt       time.Time `json:"createdAt"`
}

// FinalWordRecord is the persisted state of a team's final-word attempts.
type FinalWordRecord struct {
	TeamID       string    `json:"teamId"`
	Word         string    `json:"word"`
	AttemptsUsed int       `json:"attemptsUsed"`
	IsCorrect    bool      `json:"isCorrect"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// MaxFinalWordGuesses bounds final-word submissions per team.
const MaxFinalWordGuesses = 2

// Locked reports whether the final-word stage accepts further guesses.
func (r FinalWordRecord) Locked() bool {
	return r.IsCorrect || r.AttemptsUsed >= MaxFinalWordGuesses
}

// Team is the authenticated identity loaded from the credential store.
type Team struct {
	TeamID   string `json:"teamId"`
	TeamName string `json:"teamName"`
	IsActive bool   `json:"isActive"`
}

// LeaderboardEntry is one ranked row of the final standings.
type LeaderboardEntry struct {
	Rank        int       `json:"rank"`
	TeamID      string    `json:"teamId"`
	TotalScore  int       `json:"totalScore"`
	SubmittedAt time.Time `json:"submittedAt"`
}
