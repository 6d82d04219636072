package club

import "time"

// MonthYear formats the period key for a point in time, e.g. "2025-01".
// All period math is done in UTC.
func MonthYear(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// PreviousMonthYear is the period that a boundary-triggered close finalizes.
func PreviousMonthYear(t time.Time) string {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1).Format("2006-01")
}

func dayStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// weekStart returns 00:00 UTC of the Monday of t's ISO week.
func weekStart(t time.Time) time.Time {
	u := dayStart(t)
	weekday := int(u.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return u.AddDate(0, 0, 1-weekday)
}
