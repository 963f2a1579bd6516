package game

import (
	"sort"

	"escape-game-service/internal/domain"
)

// LeaderboardSize is how many ranked teams the final standings show.
const LeaderboardSize = 7

// RankLeaderboard computes the final standings from persisted records. Only
// teams whose final word was correct qualify; their total is the raw sum of
// every recorded level score, cleared or failed. Ordering is total score
// descending with ties broken by earliest final-word submission. The result
// carries 1-based ranks and is recomputed fresh on every call.
func RankLeaderboard(finalWords []domain.FinalWordRecord, attempts []domain.AttemptRecord, limit int) []domain.LeaderboardEntry {
	if limit <= 0 {
		limit = LeaderboardSize
	}

	submitted := make(map[string]domain.FinalWordRecord)
	for _, fw := range finalWords {
		if !fw.IsCorrect {
			continue
		}
		if prev, ok := submitted[fw.TeamID]; !ok || fw.SubmittedAt.Before(prev.SubmittedAt) {
			submitted[fw.TeamID] = fw
		}
	}
	if len(submitted) == 0 {
		return nil
	}

	totals := make(map[string]int)
	for _, rec := range attempts {
		if _, ok := submitted[rec.TeamID]; ok {
			totals[rec.TeamID] += rec.Score
		}
	}

	entries := make([]domain.LeaderboardEntry, 0, len(submitted))
	for teamID, fw := range submitted {
		entries = append(entries, domain.LeaderboardEntry{
			TeamID:      teamID,
			TotalScore:  totals[teamID],
			SubmittedAt: fw.SubmittedAt,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		if !entries[i].SubmittedAt.Equal(entries[j].SubmittedAt) {
			return entries[i].SubmittedAt.Before(entries[j].SubmittedAt)
		}
		return entries[i].TeamID < entries[j].TeamID
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
