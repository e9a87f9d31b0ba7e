package coach

import "time"

// calculateStreak counts consecutive completion days ending today or
// yesterday. dates must be sorted DESC; duplicates are ignored. The result
// never exceeds the number of distinct days in dates, so callers reading a
// bounded window get a streak bounded by that window.
func calculateStreak(dates []time.Time, today time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	expected := today
	if !sameDay(dates[0], today) {
		expected = today.AddDate(0, 0, -1)
		if !sameDay(dates[0], expected) {
			return 0
		}
	}

	streak := 0
	var last time.Time
	for i, d := range dates {
		if i > 0 && sameDay(d, last) {
			continue
		}
		if !sameDay(d, expected) {
			break
		}
		streak++
		last = d
		expected = expected.AddDate(0, 0, -1)
	}
	return streak
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// civilDay returns the calendar date of now in loc as midnight UTC, the
// representation used for DATE columns.
func civilDay(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func monthStart(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
}
