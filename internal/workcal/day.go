package workcal

import "time"

// DayKeyLayout is the canonical format used to key dates by calendar day.
const DayKeyLayout = "2006-01-02"

// StartOfDay truncates the timestamp to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddDays shifts the timestamp by the given number of calendar days.
func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

// SameDay reports whether both timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// DayKey formats the timestamp as a calendar-day key, discarding time of day.
func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}
