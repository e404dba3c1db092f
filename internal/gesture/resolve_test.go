package gesture

import (
	"testing"
	"time"

	"github.com/example/planning-board/internal/timegrid"
	"github.com/example/planning-board/internal/workcal"
)

func halfDayGrid(t *testing.T) timegrid.Grid {
	t.Helper()
	grid, err := timegrid.NewGrid(timegrid.HalfDayIntervals())
	if err != nil {
		t.Fatalf("failed to build grid: %v", err)
	}
	return grid
}

func stamp(day, hour int) time.Time {
	return time.Date(2026, time.March, day, hour, 0, 0, 0, time.UTC)
}

func TestResolveResize(t *testing.T) {
	t.Parallel()

	grid := halfDayGrid(t)
	start := stamp(2, 0)
	end := stamp(2, 12)

	t.Run("end edge extends by rounded intervals", func(t *testing.T) {
		t.Parallel()
		// 2.6 interval widths of drag round to 3 intervals.
		span := ResolveResize(start, end, 260, 100, EdgeEnd, grid)
		if !span.Start.Equal(start) {
			t.Fatalf("start edge moved to %v", span.Start)
		}
		if want := stamp(4, 0); !span.End.Equal(want) {
			t.Fatalf("expected end %v, got %v", want, span.End)
		}
	})

	t.Run("end edge shrink clamps to one interval", func(t *testing.T) {
		t.Parallel()
		span := ResolveResize(start, end, -500, 100, EdgeEnd, grid)
		if !span.Start.Equal(start) {
			t.Fatalf("start edge moved to %v", span.Start)
		}
		if want := stamp(2, 12); !span.End.Equal(want) {
			t.Fatalf("expected clamped end %v, got %v", want, span.End)
		}
		if !span.Start.Before(span.End) {
			t.Fatalf("span inverted: %+v", span)
		}
	})

	t.Run("start edge moves left", func(t *testing.T) {
		t.Parallel()
		span := ResolveResize(start, end, -100, 100, EdgeStart, grid)
		if want := stamp(1, 12); !span.Start.Equal(want) {
			t.Fatalf("expected start %v, got %v", want, span.Start)
		}
		if !span.End.Equal(end) {
			t.Fatalf("end edge moved to %v", span.End)
		}
	})

	t.Run("start edge clamps one interval before end", func(t *testing.T) {
		t.Parallel()
		span := ResolveResize(start, end, 700, 100, EdgeStart, grid)
		if want := stamp(2, 0); !span.Start.Equal(want) {
			t.Fatalf("expected clamped start %v, got %v", want, span.Start)
		}
		if !span.End.Equal(end) {
			t.Fatalf("end edge moved to %v", span.End)
		}
	})

	t.Run("non positive interval width leaves the gesture inert", func(t *testing.T) {
		t.Parallel()
		span := ResolveResize(start, end, 300, 0, EdgeEnd, grid)
		if !span.Start.Equal(start) || !span.End.Equal(end) {
			t.Fatalf("expected unchanged span, got %+v", span)
		}
	})
}

func TestResolveDrop(t *testing.T) {
	t.Parallel()

	grid := halfDayGrid(t)
	cal := workcal.New(nil, nil)

	t.Run("worked cell snaps to interval start", func(t *testing.T) {
		t.Parallel()
		span, ok := ResolveDrop(stamp(2, 14), 12*time.Hour, grid, cal)
		if !ok {
			t.Fatalf("expected drop to resolve")
		}
		if want := stamp(2, 12); !span.Start.Equal(want) {
			t.Fatalf("expected start %v, got %v", want, span.Start)
		}
		if want := stamp(3, 0); !span.End.Equal(want) {
			t.Fatalf("expected end %v, got %v", want, span.End)
		}
	})

	t.Run("weekend target redirects to next worked day", func(t *testing.T) {
		t.Parallel()
		span, ok := ResolveDrop(stamp(7, 9), 12*time.Hour, grid, cal)
		if !ok {
			t.Fatalf("expected drop to resolve")
		}
		if want := stamp(9, 0); !span.Start.Equal(want) {
			t.Fatalf("expected Monday start, got %v", span.Start)
		}
		if got := span.Duration(); got != 12*time.Hour {
			t.Fatalf("expected preserved duration, got %v", got)
		}
	})

	t.Run("holiday target skips past the holiday", func(t *testing.T) {
		t.Parallel()
		holidayCal := workcal.New([]time.Time{stamp(9, 0)}, nil)
		span, ok := ResolveDrop(stamp(9, 10), 24*time.Hour, grid, holidayCal)
		if !ok {
			t.Fatalf("expected drop to resolve")
		}
		if want := stamp(10, 0); !span.Start.Equal(want) {
			t.Fatalf("expected Tuesday start, got %v", span.Start)
		}
	})
}
