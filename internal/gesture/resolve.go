// Package gesture converts raw drag and resize deltas from the board UI into
// candidate time spans. All resolution is pure; callers split the result
// against the work calendar before committing it.
package gesture

import (
	"math"
	"time"

	"github.com/example/planning-board/internal/timegrid"
	"github.com/example/planning-board/internal/workcal"
)

// Edge identifies which end of an appointment a resize gesture grabs.
type Edge string

const (
	// EdgeStart means the left handle was dragged.
	EdgeStart Edge = "start"
	// EdgeEnd means the right handle was dragged.
	EdgeEnd Edge = "end"
)

// ResolveResize applies a pixel delta from a resize gesture to one edge of
// the span [start, end). The delta is rounded to whole intervals using the
// configured interval width. The untouched edge never moves, and the result
// is clamped to a minimum duration of one interval so the span can never
// invert or collapse.
func ResolveResize(start, end time.Time, pixelDelta, intervalWidthPx float64, edge Edge, grid timegrid.Grid) timegrid.Span {
	moved := intervalsMoved(pixelDelta, intervalWidthPx)

	switch edge {
	case EdgeStart:
		candidate := grid.Step(start, moved)
		if !candidate.Before(end) {
			candidate = grid.Step(end, -1)
		}
		return timegrid.Span{Start: candidate, End: end}
	default:
		candidate := grid.Step(end, moved)
		if !candidate.After(start) {
			candidate = grid.Step(start, 1)
		}
		return timegrid.Span{Start: start, End: candidate}
	}
}

// ResolveDrop computes the span a dragged appointment would occupy when
// dropped onto the target cell. A non-worked target is redirected to the
// first interval of the next worked day. The returned span preserves the
// dragged duration and may still cross a later non-worked block; the caller
// is responsible for splitting it before committing.
func ResolveDrop(target time.Time, duration time.Duration, grid timegrid.Grid, cal workcal.Calendar) (timegrid.Span, bool) {
	start := grid.StartOf(target)
	if !cal.IsWorkedDay(start) {
		day, ok := cal.NextWorkedDay(start)
		if !ok {
			return timegrid.Span{}, false
		}
		start = day
	}
	return timegrid.Span{Start: start, End: start.Add(duration)}, true
}

// intervalsMoved converts a raw pixel delta into a signed interval count. A
// non-positive interval width yields zero, leaving the gesture inert rather
// than producing a wild jump.
func intervalsMoved(pixelDelta, intervalWidthPx float64) int {
	if intervalWidthPx <= 0 {
		return 0
	}
	return int(math.Round(pixelDelta / intervalWidthPx))
}
