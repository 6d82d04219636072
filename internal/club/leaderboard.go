package club

import (
	"time"

	"github.com/panscim/panscim/internal/storage"
)

// Leaderboard returns the ranked standings for a period. The open month is
// computed live from current points; a closed month comes back from the
// frozen snapshot taken when it closed, since live points were reset since.
// Order is points descending, earlier join date winning ties.
func (e *Engine) Leaderboard(monthYear string, now time.Time) ([]*storage.LeaderboardEntry, error) {

	if monthYear == MonthYear(now) {
		entries, err := liveStandings(e.storage, monthYear)
		if err != nil {
			return nil, mapStorageErr(err)
		}
		return entries, nil
	}

	entries, err := e.storage.GetLeaderboardEntries(monthYear)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	if len(entries) == 0 {
		return nil, ErrNotFound
	}

	return entries, nil
}

func liveStandings(s storage.Storage, monthYear string) ([]*storage.LeaderboardEntry, error) {

	users, err := s.GetUsersRankedByCurrentPoints()
	if err != nil {
		return nil, err
	}

	entries := make([]*storage.LeaderboardEntry, len(users))
	for i, user := range users {
		entries[i] = &storage.LeaderboardEntry{
			MonthYear: monthYear,
			Rank:      i + 1,
			UserID:    user.ID,
			Username:  user.Username,
			Country:   user.Country,
			Points:    user.CurrentPoints,
			Level:     user.Level,
		}
	}

	return entries, nil
}
