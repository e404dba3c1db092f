package timegrid

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/planning-board/internal/workcal"
)

// ErrInvalidConfig indicates an interval list that does not partition a day
// contiguously. Grids are validated at construction so interval lookups stay
// total afterwards.
var ErrInvalidConfig = errors.New("timegrid: interval configuration does not partition the day")

// Interval is a named, configured sub-division of a day with fixed start and
// end hours. EndHour is exclusive.
type Interval struct {
	Name      string
	StartHour int
	EndHour   int
}

// HalfDayIntervals returns the morning/afternoon partition used by the
// half-day board mode.
func HalfDayIntervals() []Interval {
	return []Interval{
		{Name: "morning", StartHour: 0, EndHour: 12},
		{Name: "afternoon", StartHour: 12, EndHour: 24},
	}
}

// FullDayIntervals returns the single whole-day interval used by the
// full-day board mode.
func FullDayIntervals() []Interval {
	return []Interval{{Name: "day", StartHour: 0, EndHour: 24}}
}

// Grid maps timestamps onto a validated day partition and supports stepping
// across interval boundaries.
type Grid struct {
	intervals []Interval
}

// NewGrid validates the interval list and returns a Grid. The intervals must
// be non-empty, contiguous, start at hour 0 and end at hour 24.
func NewGrid(intervals []Interval) (Grid, error) {
	if len(intervals) == 0 {
		return Grid{}, fmt.Errorf("%w: empty interval list", ErrInvalidConfig)
	}
	expected := 0
	for _, iv := range intervals {
		if iv.StartHour != expected {
			return Grid{}, fmt.Errorf("%w: interval %q starts at %d, want %d", ErrInvalidConfig, iv.Name, iv.StartHour, expected)
		}
		if iv.EndHour <= iv.StartHour || iv.EndHour > 24 {
			return Grid{}, fmt.Errorf("%w: interval %q ends at %d", ErrInvalidConfig, iv.Name, iv.EndHour)
		}
		expected = iv.EndHour
	}
	if expected != 24 {
		return Grid{}, fmt.Errorf("%w: intervals cover hours 0-%d, want 0-24", ErrInvalidConfig, expected)
	}
	copied := make([]Interval, len(intervals))
	copy(copied, intervals)
	return Grid{intervals: copied}, nil
}

// Intervals returns a copy of the configured interval list.
func (g Grid) Intervals() []Interval {
	out := make([]Interval, len(g.intervals))
	copy(out, g.intervals)
	return out
}

// Size returns the number of intervals per day.
func (g Grid) Size() int {
	return len(g.intervals)
}

// IntervalAt returns the interval whose hour range contains the timestamp.
// Grids partition the full day, so every timestamp matches.
func (g Grid) IntervalAt(t time.Time) Interval {
	hour := t.Hour()
	for _, iv := range g.intervals {
		if hour < iv.EndHour {
			return iv
		}
	}
	return g.intervals[len(g.intervals)-1]
}

// IntervalByName looks up a configured interval by its name.
func (g Grid) IntervalByName(name string) (Interval, bool) {
	for _, iv := range g.intervals {
		if iv.Name == name {
			return iv, true
		}
	}
	return Interval{}, false
}

// StartOf normalizes the timestamp to the start of the interval containing
// it: the interval's start hour with minutes, seconds and nanoseconds zeroed.
func (g Grid) StartOf(t time.Time) time.Time {
	iv := g.IntervalAt(t)
	return time.Date(t.Year(), t.Month(), t.Day(), iv.StartHour, 0, 0, 0, t.Location())
}

// Step advances (n > 0) or retreats (n < 0) by |n| interval boundaries,
// wrapping to the adjacent calendar day when stepping past the first or last
// interval of a day. The result is always the start of the landed interval,
// so stepping forward then back by the same count is symmetric.
func (g Grid) Step(t time.Time, n int) time.Time {
	size := len(g.intervals)
	slot := g.indexAt(t) + n
	dayOffset := slot / size
	rem := slot % size
	if rem < 0 {
		rem += size
		dayOffset--
	}
	day := workcal.AddDays(workcal.StartOfDay(t), dayOffset)
	iv := g.intervals[rem]
	return time.Date(day.Year(), day.Month(), day.Day(), iv.StartHour, 0, 0, 0, t.Location())
}

// DayStart returns the start of the first interval of the timestamp's day.
func (g Grid) DayStart(t time.Time) time.Time {
	return workcal.StartOfDay(t)
}

func (g Grid) indexAt(t time.Time) int {
	hour := t.Hour()
	for i, iv := range g.intervals {
		if hour < iv.EndHour {
			return i
		}
	}
	return len(g.intervals) - 1
}
