package services

import (
	"slices"
	"strings"

	"cryptolotto/internal/models"
)

// Medal is the badge shown next to a top-three leaderboard row.
type Medal string

const (
	MedalGold   Medal = "gold"
	MedalSilver Medal = "silver"
	MedalBronze Medal = "bronze"
	MedalNone   Medal = ""
)

// Badge returns the medal for the top three positions.
func Badge(position int) Medal {
	switch position {
	case 1:
		return MedalGold
	case 2:
		return MedalSilver
	case 3:
		return MedalBronze
	default:
		return MedalNone
	}
}

// RankLeaderboard orders entries by winnings, highest first, and numbers them from 1.
// search filters by username after ranking, so positions stay those of the full board.
func RankLeaderboard(entries []models.LeaderboardEntry, search string) []models.LeaderboardEntry {
	ranked := slices.Clone(entries)
	slices.SortStableFunc(ranked, func(a, b models.LeaderboardEntry) int {
		return b.Winnings.Cmp(a.Winnings)
	})

	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]models.LeaderboardEntry, 0, len(ranked))
	for i, e := range ranked {
		e.Position = i + 1
		if search != "" && !strings.Contains(strings.ToLower(e.Username), search) {
			continue
		}
		out = append(out, e)
	}
	return out
}
