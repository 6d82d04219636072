package club

import "time"

// EmailValues are the raw per-member values the email collaborator
// substitutes into campaign templates. Formatting is the caller's job.
type EmailValues struct {
	UserName     string
	UserPoints   int
	UserLevel    string
	PointsToTop3 int
}

// EmailValuesFor computes a member's template values against the live
// standings. PointsToTop3 is how many points short of third place the
// member currently is; zero when already on the podium.
func (e *Engine) EmailValuesFor(userID string, now time.Time) (*EmailValues, error) {

	user, err := e.storage.GetUser(userID)
	if err != nil {
		return nil, mapStorageErr(err)
	}

	standings, err := liveStandings(e.storage, MonthYear(now))
	if err != nil {
		return nil, mapStorageErr(err)
	}

	values := &EmailValues{
		UserName:   user.Name,
		UserPoints: user.CurrentPoints,
		UserLevel:  user.Level,
	}

	for _, entry := range standings {
		if entry.UserID == userID && entry.Rank <= 3 {
			return values, nil
		}
		if entry.Rank == 3 && entry.Points > user.CurrentPoints {
			values.PointsToTop3 = entry.Points - user.CurrentPoints
		}
	}

	return values, nil
}
