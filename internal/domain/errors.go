package domain

import "errors"

var (
	// ErrLevelNotFound is returned when a level number is outside the bank.
	ErrLevelNotFound = errors.New("level not found")
	// ErrLevelLocked is returned when the previous level has not been attempted.
	ErrLevelLocked = errors.New("level is locked")
	// ErrLevelAlreadyAttempted is returned for a terminal level; attempts cannot restart.
	ErrLevelAlreadyAttempted = errors.New("level already attempted")
	// ErrNoActiveLevel is returned when a command needs an in-progress level session.
	ErrNoActiveLevel = errors.New("no level in progress")
	// ErrQuestionOutOfSync is returned when a submission names a question index
	// other than the one currently being timed.
	ErrQuestionOutOfSync = errors.New("submission does not match current question")
	// ErrFinalWordNotUnlocked is returned while any level remains uncleared.
	ErrFinalWordNotUnlocked = errors.New("final word stage not unlocked")
	// ErrFinalWordLocked is returned once guesses are exhausted or the word was found.
	ErrFinalWordLocked = errors.New("final word stage is locked")
	// ErrInvalidCredentials is returned for an unknown team or wrong password.
	ErrInvalidCredentials = errors.New("invalid team id or password")
	// ErrTeamInactive is returned for valid credentials on a deactivated team.
	ErrTeamInactive = errors.New("team is inactive")
	// ErrSessionNotFound is returned when no game session exists for a team.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrBankNotFound indicates the level bank could not be loaded.
	ErrBankNotFound = errors.New("level bank not found")
)
