package timegrid

import (
	"time"

	"github.com/example/planning-board/internal/workcal"
)

// Span is a half-open [Start, End) time range.
type Span struct {
	Start time.Time
	End   time.Time
}

// Duration returns the length of the span.
func (s Span) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// SplitWorkedSpans decomposes [start, end) into the ordered list of maximal
// sub-spans fully contained in contiguous worked days, skipping weekends,
// holidays and closed days entirely.
//
// When includeNonWorking is true the caller has opted out of splitting and
// the original span is returned unchanged. When the range contains no worked
// time at all the result is empty; callers treat that as nothing to create,
// not as an error. The walk counts calendar days, so it terminates for
// arbitrarily long ranges.
func (g Grid) SplitWorkedSpans(start, end time.Time, cal workcal.Calendar, includeNonWorking bool) []Span {
	if includeNonWorking {
		return []Span{{Start: start, End: end}}
	}
	if !start.Before(end) {
		return nil
	}

	cursor := start
	if !cal.IsWorkedDay(cursor) {
		day, ok := cal.NextWorkedDay(cursor)
		if !ok {
			return nil
		}
		cursor = day
	}

	var spans []Span
	for cursor.Before(end) {
		blockEnd := workedBlockEnd(cursor, cal)
		if blockEnd.After(end) {
			spans = append(spans, Span{Start: cursor, End: end})
			break
		}
		spans = append(spans, Span{Start: cursor, End: blockEnd})

		day, ok := cal.NextWorkedDay(blockEnd)
		if !ok || !day.Before(end) {
			break
		}
		cursor = day
	}
	return spans
}

// workedBlockEnd returns the first instant after the contiguous run of
// worked days containing the cursor. A weekend arrives within seven days, so
// the scan is bounded.
func workedBlockEnd(cursor time.Time, cal workcal.Calendar) time.Time {
	day := workcal.StartOfDay(cursor)
	for cal.IsWorkedDay(day) {
		day = workcal.AddDays(day, 1)
	}
	return day
}
