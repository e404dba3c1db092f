// Package stacking computes vertical lane assignments so overlapping
// appointments on one resource row render side by side without collision.
package stacking

import (
	"sort"
	"time"

	"github.com/example/planning-board/internal/workcal"
)

// Item is the minimal view of an appointment needed for lane assignment.
type Item struct {
	ID    string
	Start time.Time
	End   time.Time
}

// Assignment pairs an item with its zero-based lane index.
type Assignment struct {
	Item
	Lane int
}

// Overlaps reports whether two half-open spans intersect. Touching endpoints
// do not count as overlap.
func Overlaps(a, b Item) bool {
	return !(a.End.Compare(b.Start) <= 0 || a.Start.Compare(b.End) >= 0)
}

// AssignLanes distributes the items over lanes using greedy earliest-fit:
// items are stably sorted by start (ties keep insertion order) and each one
// takes the lowest-indexed lane whose members it does not overlap. For
// intervals sorted by start this greedy strategy yields the minimum lane
// count. The assignment is deterministic for a given input order.
func AssignLanes(items []Item) []Assignment {
	ordered := make([]Item, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start.Before(ordered[j].Start)
	})

	var lanes [][]Item
	assignments := make([]Assignment, 0, len(ordered))

	for _, item := range ordered {
		lane := -1
		for i, members := range lanes {
			if laneFits(members, item) {
				lane = i
				break
			}
		}
		if lane == -1 {
			lanes = append(lanes, nil)
			lane = len(lanes) - 1
		}
		lanes[lane] = append(lanes[lane], item)
		assignments = append(assignments, Assignment{Item: item, Lane: lane})
	}
	return assignments
}

// MaxLanes returns the number of lanes the items occupy, used by callers to
// size the resource row. The minimum is one even for an empty set.
func MaxLanes(items []Item) int {
	count := 0
	for _, a := range AssignLanes(items) {
		if a.Lane+1 > count {
			count = a.Lane + 1
		}
	}
	if count < 1 {
		return 1
	}
	return count
}

// AssignLanesForDay scopes the assignment to the items touching the given
// calendar day, as used by compact per-day layouts.
func AssignLanesForDay(items []Item, day time.Time) []Assignment {
	dayStart := workcal.StartOfDay(day)
	dayEnd := workcal.AddDays(dayStart, 1)
	window := Item{Start: dayStart, End: dayEnd}

	scoped := make([]Item, 0, len(items))
	for _, item := range items {
		if Overlaps(item, window) {
			scoped = append(scoped, item)
		}
	}
	return AssignLanes(scoped)
}

func laneFits(members []Item, candidate Item) bool {
	for _, member := range members {
		if Overlaps(member, candidate) {
			return false
		}
	}
	return true
}
