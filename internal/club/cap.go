package club

import (
	"time"

	"github.com/panscim/panscim/internal/storage"
)

type CapKind int

const (
	// CapNone places no restriction on submissions.
	CapNone CapKind = iota
	// CapOneTime allows a single submission ever.
	CapOneTime
	// CapPerDay allows N submissions per UTC calendar day.
	CapPerDay
	// CapPerWeek allows N submissions per ISO week.
	CapPerWeek
)

// Cap is the submission cap of a mission as a closed variant. The zero-means-
// unlimited convention of the mission columns is resolved here, once, at the
// storage boundary; the rest of the engine never sees a magic zero.
type Cap struct {
	Kind  CapKind
	Limit int
}

func capForMission(mission *storage.Mission) Cap {
	switch mission.Frequency {
	case storage.FrequencyOneTime:
		return Cap{Kind: CapOneTime, Limit: 1}
	case storage.FrequencyDaily:
		if mission.DailyLimit > 0 {
			return Cap{Kind: CapPerDay, Limit: mission.DailyLimit}
		}
	case storage.FrequencyWeekly:
		if mission.WeeklyLimit > 0 {
			return Cap{Kind: CapPerWeek, Limit: mission.WeeklyLimit}
		}
	}
	return Cap{Kind: CapNone}
}

// windowStart returns the lower bound of the counting window for a check at
// now. The second result is false when no counting is needed at all.
func (c Cap) windowStart(now time.Time) (time.Time, bool) {
	switch c.Kind {
	case CapOneTime:
		return time.Time{}, true
	case CapPerDay:
		return dayStart(now), true
	case CapPerWeek:
		return weekStart(now), true
	default:
		return time.Time{}, false
	}
}
