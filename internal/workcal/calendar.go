package workcal

import "time"

// Calendar answers worked-day questions for the planning board. It is an
// immutable value built once from externally supplied holiday and closure
// date lists; all predicates compare by calendar day and ignore time of day.
type Calendar struct {
	holidays map[string]struct{}
	closures map[string]struct{}
}

// New constructs a Calendar from the supplied holiday dates and ad hoc
// closure dates. Both lists are keyed by calendar day; duplicate entries and
// differing times of day are collapsed.
func New(holidays, closures []time.Time) Calendar {
	cal := Calendar{
		holidays: make(map[string]struct{}, len(holidays)),
		closures: make(map[string]struct{}, len(closures)),
	}
	for _, day := range holidays {
		cal.holidays[DayKey(day)] = struct{}{}
	}
	for _, day := range closures {
		cal.closures[DayKey(day)] = struct{}{}
	}
	return cal
}

// IsHoliday reports whether the timestamp falls on a holiday.
func (c Calendar) IsHoliday(t time.Time) bool {
	_, ok := c.holidays[DayKey(t)]
	return ok
}

// IsClosed reports whether the timestamp falls on an explicitly closed day.
func (c Calendar) IsClosed(t time.Time) bool {
	_, ok := c.closures[DayKey(t)]
	return ok
}

// IsWeekend reports whether the timestamp falls on a Saturday or Sunday.
func (c Calendar) IsWeekend(t time.Time) bool {
	weekday := t.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// IsWorkedDay reports whether the timestamp falls on a worked day: neither a
// weekend, a holiday, nor an explicitly closed day.
func (c Calendar) IsWorkedDay(t time.Time) bool {
	return !c.IsWeekend(t) && !c.IsHoliday(t) && !c.IsClosed(t)
}

// NextWorkedDay returns the start of the first worked day at or after the
// given timestamp. Only holiday and closure hits deplete the scan budget:
// weekend days interleaved into a long closure run are crossed for free, so
// the budget of len(holidays)+len(closures) always suffices to clear any
// reachable run. ok is false when no worked day exists.
func (c Calendar) NextWorkedDay(from time.Time) (time.Time, bool) {
	day := StartOfDay(from)
	budget := len(c.holidays) + len(c.closures)
	weekendRun := 0
	for {
		switch {
		case c.IsWorkedDay(day):
			return day, true
		case c.IsHoliday(day) || c.IsClosed(day):
			if budget == 0 {
				return time.Time{}, false
			}
			budget--
			weekendRun = 0
		default:
			// A plain weekend contributes at most two consecutive days.
			weekendRun++
			if weekendRun > 2 {
				return time.Time{}, false
			}
		}
		day = AddDays(day, 1)
	}
}
