package workcal

import (
	"testing"
	"time"
)

func date(t *testing.T, year int, month time.Month, day int) time.Time {
	t.Helper()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestCalendarPredicates(t *testing.T) {
	t.Parallel()

	holiday := date(t, 2026, time.May, 1)
	closure := date(t, 2026, time.March, 6)
	cal := New([]time.Time{holiday}, []time.Time{closure})

	t.Run("holiday ignores time of day", func(t *testing.T) {
		afternoon := holiday.Add(15 * time.Hour)
		if !cal.IsHoliday(afternoon) {
			t.Fatalf("expected %v to be a holiday", afternoon)
		}
		if cal.IsWorkedDay(afternoon) {
			t.Fatalf("expected holiday afternoon to be non-worked")
		}
	})

	t.Run("closure counts as non-worked", func(t *testing.T) {
		if !cal.IsClosed(closure) {
			t.Fatalf("expected %v to be closed", closure)
		}
		if cal.IsWorkedDay(closure) {
			t.Fatalf("expected closed day to be non-worked")
		}
	})

	t.Run("weekend", func(t *testing.T) {
		saturday := date(t, 2026, time.March, 7)
		sunday := date(t, 2026, time.March, 8)
		if !cal.IsWeekend(saturday) || !cal.IsWeekend(sunday) {
			t.Fatalf("expected weekend detection for %v and %v", saturday, sunday)
		}
		monday := date(t, 2026, time.March, 9)
		if cal.IsWeekend(monday) {
			t.Fatalf("expected %v to be a weekday", monday)
		}
	})

	t.Run("ordinary weekday is worked", func(t *testing.T) {
		monday := date(t, 2026, time.March, 2)
		if !cal.IsWorkedDay(monday) {
			t.Fatalf("expected %v to be worked", monday)
		}
	})
}

func TestCalendarNextWorkedDay(t *testing.T) {
	t.Parallel()

	t.Run("worked day returns its own start", func(t *testing.T) {
		cal := New(nil, nil)
		monday := date(t, 2026, time.March, 2).Add(10 * time.Hour)

		got, ok := cal.NextWorkedDay(monday)
		if !ok {
			t.Fatalf("expected a worked day")
		}
		if !got.Equal(date(t, 2026, time.March, 2)) {
			t.Fatalf("expected start of same day, got %v", got)
		}
	})

	t.Run("skips weekend", func(t *testing.T) {
		cal := New(nil, nil)
		saturday := date(t, 2026, time.March, 7)

		got, ok := cal.NextWorkedDay(saturday)
		if !ok {
			t.Fatalf("expected a worked day")
		}
		if !got.Equal(date(t, 2026, time.March, 9)) {
			t.Fatalf("expected Monday 2026-03-09, got %v", got)
		}
	})

	t.Run("crosses a month long weekday closure", func(t *testing.T) {
		// Every weekday from 2026-03-09 through 2026-04-10 is closed,
		// a 37-day non-worked run once the surrounding weekends are
		// counted in.
		var closures []time.Time
		for day := date(t, 2026, time.March, 9); day.Before(date(t, 2026, time.April, 11)); day = AddDays(day, 1) {
			if day.Weekday() != time.Saturday && day.Weekday() != time.Sunday {
				closures = append(closures, day)
			}
		}
		if len(closures) != 25 {
			t.Fatalf("expected 25 closure dates, got %d", len(closures))
		}
		cal := New(nil, closures)

		got, ok := cal.NextWorkedDay(date(t, 2026, time.March, 7))
		if !ok {
			t.Fatalf("expected a worked day after the closure run")
		}
		if !got.Equal(date(t, 2026, time.April, 13)) {
			t.Fatalf("expected Monday 2026-04-13, got %v", got)
		}
	})

	t.Run("skips weekend followed by holiday", func(t *testing.T) {
		monday := date(t, 2026, time.March, 9)
		cal := New([]time.Time{monday}, nil)
		saturday := date(t, 2026, time.March, 7)

		got, ok := cal.NextWorkedDay(saturday)
		if !ok {
			t.Fatalf("expected a worked day")
		}
		if !got.Equal(date(t, 2026, time.March, 10)) {
			t.Fatalf("expected Tuesday 2026-03-10, got %v", got)
		}
	})
}

func TestDayHelpers(t *testing.T) {
	t.Parallel()

	stamp := time.Date(2026, time.March, 2, 14, 30, 45, 12, time.UTC)

	if got := StartOfDay(stamp); !got.Equal(time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("StartOfDay returned %v", got)
	}
	if got := AddDays(StartOfDay(stamp), 3); !got.Equal(time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("AddDays returned %v", got)
	}
	if !SameDay(stamp, StartOfDay(stamp)) {
		t.Fatalf("expected SameDay for timestamps on the same date")
	}
	if SameDay(stamp, AddDays(stamp, 1)) {
		t.Fatalf("expected different days to not match")
	}
	if got := DayKey(stamp); got != "2026-03-02" {
		t.Fatalf("DayKey returned %q", got)
	}
}
