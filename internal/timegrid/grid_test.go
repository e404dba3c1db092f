package timegrid

import (
	"errors"
	"testing"
	"time"
)

func mustGrid(t *testing.T, intervals []Interval) Grid {
	t.Helper()
	grid, err := NewGrid(intervals)
	if err != nil {
		t.Fatalf("failed to build grid: %v", err)
	}
	return grid
}

func TestNewGridValidatesPartition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		intervals []Interval
	}{
		{name: "empty list", intervals: nil},
		{name: "does not start at zero", intervals: []Interval{{Name: "late", StartHour: 1, EndHour: 24}}},
		{name: "gap between intervals", intervals: []Interval{
			{Name: "morning", StartHour: 0, EndHour: 11},
			{Name: "afternoon", StartHour: 12, EndHour: 24},
		}},
		{name: "overlapping intervals", intervals: []Interval{
			{Name: "morning", StartHour: 0, EndHour: 13},
			{Name: "afternoon", StartHour: 12, EndHour: 24},
		}},
		{name: "does not end at twenty four", intervals: []Interval{
			{Name: "morning", StartHour: 0, EndHour: 12},
			{Name: "afternoon", StartHour: 12, EndHour: 23},
		}},
		{name: "inverted interval", intervals: []Interval{{Name: "broken", StartHour: 0, EndHour: 0}}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := NewGrid(tc.intervals); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	if _, err := NewGrid(HalfDayIntervals()); err != nil {
		t.Fatalf("expected half-day intervals to be valid, got %v", err)
	}
	if _, err := NewGrid(FullDayIntervals()); err != nil {
		t.Fatalf("expected full-day interval to be valid, got %v", err)
	}
}

func TestGridIntervalLookup(t *testing.T) {
	t.Parallel()

	grid := mustGrid(t, HalfDayIntervals())

	morning := time.Date(2026, time.March, 2, 9, 15, 0, 0, time.UTC)
	if got := grid.IntervalAt(morning); got.Name != "morning" {
		t.Fatalf("expected morning interval, got %q", got.Name)
	}
	afternoon := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	if got := grid.IntervalAt(afternoon); got.Name != "afternoon" {
		t.Fatalf("expected afternoon interval at noon, got %q", got.Name)
	}
	lastMinute := time.Date(2026, time.March, 2, 23, 59, 0, 0, time.UTC)
	if got := grid.IntervalAt(lastMinute); got.Name != "afternoon" {
		t.Fatalf("expected afternoon interval at 23:59, got %q", got.Name)
	}

	if _, ok := grid.IntervalByName("afternoon"); !ok {
		t.Fatalf("expected afternoon to be found by name")
	}
	if _, ok := grid.IntervalByName("evening"); ok {
		t.Fatalf("expected unknown interval name to be rejected")
	}
}

func TestGridStartOf(t *testing.T) {
	t.Parallel()

	grid := mustGrid(t, HalfDayIntervals())
	stamp := time.Date(2026, time.March, 2, 15, 42, 13, 0, time.UTC)

	got := grid.StartOf(stamp)
	want := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestGridStep(t *testing.T) {
	t.Parallel()

	grid := mustGrid(t, HalfDayIntervals())
	mondayMorning := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	t.Run("forward within day", func(t *testing.T) {
		got := grid.Step(mondayMorning, 1)
		want := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	})

	t.Run("forward wraps to next day", func(t *testing.T) {
		got := grid.Step(mondayMorning, 2)
		want := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	})

	t.Run("backward wraps to previous day", func(t *testing.T) {
		got := grid.Step(mondayMorning, -1)
		want := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	})

	t.Run("forward then backward is symmetric", func(t *testing.T) {
		for n := -5; n <= 5; n++ {
			if got := grid.Step(grid.Step(mondayMorning, n), -n); !got.Equal(mondayMorning) {
				t.Fatalf("step %d broke symmetry: got %v", n, got)
			}
		}
	})

	t.Run("mid interval timestamp lands on interval start", func(t *testing.T) {
		stamp := time.Date(2026, time.March, 2, 14, 30, 0, 0, time.UTC)
		got := grid.Step(stamp, 1)
		want := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	})

	t.Run("full day grid steps whole days", func(t *testing.T) {
		full := mustGrid(t, FullDayIntervals())
		got := full.Step(mondayMorning, 3)
		want := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	})
}
