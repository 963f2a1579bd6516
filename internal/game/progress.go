package game

import (
	"sort"
	"strings"

	"escape-game-service/internal/domain"
)

// TeamProgress tracks which levels a team has attempted, cleared and failed,
// the per-level hidden scores, and the letters unlocked toward the final
// word. It is owned by the session for the currently authenticated team and
// discarded on team switch.
//
// Invariants: attempted is the union of cleared and failed, which are disjoint.
type TeamProgress struct {
	teamID    string
	attempted map[int]struct{}
	cleared   map[int]struct{}
	failed    map[int]struct{}
	scores    map[int]int
	letters   map[string]struct{}
}

// NewTeamProgress creates an empty progress record for a freshly
// authenticated team with no prior history.
func NewTeamProgress(teamID string) *TeamProgress {
	return &TeamProgress{
		teamID:    teamID,
		attempted: make(map[int]struct{}),
		cleared:   make(map[int]struct{}),
		failed:    make(map[int]struct{}),
		scores:    make(map[int]int),
		letters:   make(map[string]struct{}),
	}
}

// RebuildTeamProgress replays persisted attempt history into a fresh
// TeamProgress. Rows are append-only; the first row per level wins, so a
// duplicate write caused by a retry cannot flip a terminal outcome.
func RebuildTeamProgress(teamID string, bank domain.LevelBank, records []domain.AttemptRecord) *TeamProgress {
	p := NewTeamProgress(teamID)
	for _, rec := range records {
		if _, done := p.attempted[rec.LevelNumber]; done {
			continue
		}
		def, ok := bank.Level(rec.LevelNumber)
		if !ok {
			continue
		}
		_ = p.RecordLevelAttempt(def, rec.Cleared, rec.Score)
	}
	return p
}

// TeamID returns the owning team's identifier.
func (p *TeamProgress) TeamID() string { return p.teamID }

// IsLevelAccessible reports whether levelNumber may be attempted. Level 1 is
// always accessible; level n>1 requires level n-1 to have been attempted.
// Accessibility depends only on attempted, not cleared: failing a level still
// unlocks the next one.
func (p *TeamProgress) IsLevelAccessible(levelNumber int) bool {
	if levelNumber == 1 {
		return true
	}
	if levelNumber < 1 {
		return false
	}
	_, ok := p.attempted[levelNumber-1]
	return ok
}

// LevelStatus classifies a level for display, in priority order.
func (p *TeamProgress) LevelStatus(levelNumber int) domain.LevelStatus {
	if _, ok := p.cleared[levelNumber]; ok {
		return domain.StatusCleared
	}
	if _, ok := p.failed[levelNumber]; ok {
		return domain.StatusFailed
	}
	if _, ok := p.attempted[levelNumber]; ok {
		return domain.StatusAttempted
	}
	if p.IsLevelAccessible(levelNumber) {
		return domain.StatusUnlocked
	}
	return domain.StatusLocked
}

// RecordLevelAttempt applies a terminal level outcome. The operation is
// idempotent keyed by level: a second terminal write for the same level is
// rejected rather than silently overwriting the hidden score.
func (p *TeamProgress) RecordLevelAttempt(def domain.LevelDefinition, passed bool, score int) error {
	if _, done := p.attempted[def.LevelNumber]; done {
		return domain.ErrLevelAlreadyAttempted
	}

	p.attempted[def.LevelNumber] = struct{}{}
	p.scores[def.LevelNumber] = score

	if passed {
		p.cleared[def.LevelNumber] = struct{}{}
		delete(p.failed, def.LevelNumber)
		if def.LetterToUnlock != "" {
			p.letters[strings.ToUpper(def.LetterToUnlock)] = struct{}{}
		}
	} else {
		p.failed[def.LevelNumber] = struct{}{}
		delete(p.cleared, def.LevelNumber)
	}
	return nil
}

// FinalWordUnlocked reports whether the final-word stage is open: every level
// in the bank must be cleared, matching letter-unlock semantics.
func (p *TeamProgress) FinalWordUnlocked(bank domain.LevelBank) bool {
	for _, lvl := range bank.Levels {
		if _, ok := p.cleared[lvl.LevelNumber]; !ok {
			return false
		}
	}
	return len(bank.Levels) > 0
}

// UnlockedLetters returns the distinct unlocked letters in sorted order.
func (p *TeamProgress) UnlockedLetters() []string {
	letters := make([]string, 0, len(p.letters))
	for l := range p.letters {
		letters = append(letters, l)
	}
	sort.Strings(letters)
	return letters
}

// RevealedWord renders the secret word with letters filled in at the slot
// positions of cleared levels and underscores elsewhere. Letter visibility
// depends only on cleared levels, never on final-word guesses.
func (p *TeamProgress) RevealedWord(bank domain.LevelBank) string {
	masked := []rune(strings.Repeat("_", len(bank.SecretWord)))
	secret := []rune(bank.SecretWord)
	for _, lvl := range bank.Levels {
		if _, ok := p.cleared[lvl.LevelNumber]; !ok {
			continue
		}
		if lvl.SlotPosition >= 0 && lvl.SlotPosition < len(masked) {
			masked[lvl.SlotPosition] = secret[lvl.SlotPosition]
		}
	}
	return string(masked)
}

// TotalScore sums the hidden per-level scores over all attempted levels.
func (p *TeamProgress) TotalScore() int {
	total := 0
	for _, s := range p.scores {
		total += s
	}
	return total
}

// HiddenScore returns the recorded score for a level, if any.
func (p *TeamProgress) HiddenScore(levelNumber int) (int, bool) {
	s, ok := p.scores[levelNumber]
	return s, ok
}

// AttemptedLevels returns the attempted level numbers in ascending order.
func (p *TeamProgress) AttemptedLevels() []int { return sortedKeys(p.attempted) }

// ClearedLevels returns the cleared level numbers in ascending order.
func (p *TeamProgress) ClearedLevels() []int { return sortedKeys(p.cleared) }

// FailedLevels returns the failed level numbers in ascending order.
func (p *TeamProgress) FailedLevels() []int { return sortedKeys(p.failed) }

func sortedKeys(set map[int]struct{}) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
