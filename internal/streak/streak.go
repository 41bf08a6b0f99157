package streak

import (
	"slices"
	"time"
)

// Days returns the distinct calendar days of the completions, newest first.
func Days(completions []time.Time, loc *time.Location) []Day {
	seen := make(map[Day]struct{}, len(completions))
	days := make([]Day, 0, len(completions))
	for _, c := range completions {
		d := DayOf(c, loc)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	slices.Sort(days)
	slices.Reverse(days)
	return days
}

// Current returns the length of the active streak at now.
//
// A streak is alive when the most recent completion falls on today or
// yesterday; it then extends backwards one day at a time and stops at the
// first gap.
func Current(completions []time.Time, now time.Time, loc *time.Location) int {
	days := Days(completions, loc)
	if len(days) == 0 {
		return 0
	}

	today := DayOf(now, loc)
	if days[0] != today && days[0] != today.AddDays(-1) {
		return 0
	}

	streak := 1
	for i := 0; i < len(days)-1; i++ {
		if days[i]-days[i+1] != 1 {
			break
		}
		streak++
	}
	return streak
}

// Longest returns the longest run of consecutive days ever completed.
func Longest(completions []time.Time, loc *time.Location) int {
	days := Days(completions, loc)
	if len(days) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 0; i < len(days)-1; i++ {
		if days[i]-days[i+1] == 1 {
			run++
			longest = max(longest, run)
			continue
		}
		run = 1
	}
	return longest
}
