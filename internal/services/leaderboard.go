package services

import (
	"sort"

	"github.com/vilanovax/karbarg/internal/config"
	"github.com/vilanovax/karbarg/internal/models"
)

// Rank orders aggregates by score descending and assigns 1-based ranks. Equal
// scores tie-break on ascending user id so repeated queries over unchanged data
// return the same order.
func Rank(stats []models.UserStats, limit int, cfg config.Scoring) []models.LeaderboardEntry {
	if limit <= 0 || limit > cfg.LeaderboardLimit {
		limit = cfg.LeaderboardLimit
	}

	ranked := make([]models.UserStats, len(stats))
	copy(ranked, stats)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].UserID < ranked[j].UserID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	entries := make([]models.LeaderboardEntry, len(ranked))
	for i, st := range ranked {
		entries[i] = models.LeaderboardEntry{
			Rank:     i + 1,
			UserID:   st.UserID,
			Username: st.Username,
			Tier:     TierFor(st.Score, cfg),
			Stats:    st,
		}
	}
	return entries
}

// Leaderboard aggregates and ranks in one call; this is what the handler uses.
func Leaderboard(window Window, categorySlug string, limit int, cfg config.Scoring) ([]models.LeaderboardEntry, error) {
	stats, err := Aggregate(window, categorySlug, cfg)
	if err != nil {
		return nil, err
	}
	return Rank(stats, limit, cfg), nil
}
