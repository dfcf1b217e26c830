package server

import "sort"

const aroundPlayerRadius = 2

// buildLeaderboard orders players by score, then name, then id, and assigns
// 1-based ranks without ties.
func buildLeaderboard(players []Player) []LeaderboardEntry {
	sorted := append([]Player(nil), players...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	entries := make([]LeaderboardEntry, len(sorted))
	for i, player := range sorted {
		entries[i] = LeaderboardEntry{
			PlayerID:    player.ID,
			Name:        player.Name,
			TotalScore:  player.TotalScore,
			StreakCount: player.StreakCount,
			Rank:        i + 1,
		}
	}
	return entries
}

func rankOf(board []LeaderboardEntry, playerID int) (int, bool) {
	for i, entry := range board {
		if entry.PlayerID == playerID {
			return i + 1, true
		}
	}
	return 0, false
}

// aroundPlayer returns the entries within aroundPlayerRadius places of the
// player, or nil when the player is not on the board.
func aroundPlayer(board []LeaderboardEntry, playerID int) []LeaderboardEntry {
	rank, ok := rankOf(board, playerID)
	if !ok {
		return nil
	}
	idx := rank - 1
	start := max(0, idx-aroundPlayerRadius)
	end := min(len(board), idx+aroundPlayerRadius+1)
	return append([]LeaderboardEntry(nil), board[start:end]...)
}
