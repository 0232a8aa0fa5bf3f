// Package progress computes completion roll-ups for the planning hierarchy
// (goal → objective → project → task) and streaks for habits.
//
// Each level is computed from its immediate children only. A child counts
// as done when its status is exactly "Completed"; ids that do not resolve
// to a known child are ignored.
package progress

import (
	"math"
)

const completed = "Completed"

// Percent returns round(100*done/total), or 0 when total is 0.
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(100*float64(done)/float64(total) + 0.5))
}

// Mean returns the rounded mean of percents, or 0 for an empty slice.
func Mean(percents []int) int {
	if len(percents) == 0 {
		return 0
	}
	sum := 0
	for _, p := range percents {
		sum += p
	}
	return int(math.Floor(float64(sum)/float64(len(percents)) + 0.5))
}

// Tally counts resolved children and how many of them are completed.
type Tally struct {
	Total     int
	Completed int
}

func (t Tally) Percent() int {
	return Percent(t.Completed, t.Total)
}

// Index maps child ids to their status.
type Index map[string]string

// Add registers a child.
func (ix Index) Add(id, status string) {
	ix[id] = status
}

// Tally resolves ids against the index. Unknown ids are skipped and
// duplicates are counted once.
func (ix Index) Tally(ids []string) Tally {
	var t Tally
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		status, ok := ix[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		t.Total++
		if status == completed {
			t.Completed++
		}
	}
	return t
}

// Groups tallies children by a foreign key, e.g. tasks by project id.
type Groups map[string]Tally

// Add counts one child under parentID. Empty parent ids are ignored.
func (g Groups) Add(parentID, status string) {
	if parentID == "" {
		return
	}
	t := g[parentID]
	t.Total++
	if status == completed {
		t.Completed++
	}
	g[parentID] = t
}

// Get returns the tally for parentID (zero when it has no children).
func (g Groups) Get(parentID string) Tally {
	return g[parentID]
}

// MeanOf averages the percent of each listed parent that resolves in known.
// Parents are counted once even when listed several times.
func (g Groups) MeanOf(parentIDs []string, known Index) int {
	seen := make(map[string]bool, len(parentIDs))
	percents := make([]int, 0, len(parentIDs))
	for _, id := range parentIDs {
		if _, ok := known[id]; !ok || seen[id] {
			continue
		}
		seen[id] = true
		percents = append(percents, g.Get(id).Percent())
	}
	return Mean(percents)
}
