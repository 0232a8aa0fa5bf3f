package progress

import (
	"sort"
	"time"
)

const dayLayout = "2006-01-02"

// Streaks returns the current and longest streak for a set of completed
// calendar days (YYYY-MM-DD). The current streak is the run of consecutive
// days ending at the latest completed day. The longest streak never drops
// below previousLongest. Unparseable days are ignored.
func Streaks(days []string, previousLongest int) (current, longest int) {
	parsed := make([]time.Time, 0, len(days))
	seen := make(map[string]bool, len(days))
	for _, d := range days {
		if seen[d] {
			continue
		}
		t, err := time.Parse(dayLayout, d)
		if err != nil {
			continue
		}
		seen[d] = true
		parsed = append(parsed, t)
	}
	sort.Slice(parsed, func(i, j int) bool { return parsed[i].Before(parsed[j]) })

	longest = previousLongest
	run := 0
	for i, t := range parsed {
		if i > 0 && t.Sub(parsed[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return run, longest
}

// SortDays returns days sorted ascending with duplicates removed.
func SortDays(days []string) []string {
	seen := make(map[string]bool, len(days))
	out := make([]string, 0, len(days))
	for _, d := range days {
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
