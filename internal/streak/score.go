package streak

import (
	"math"
	"time"
)

// ScoreChange is the week-over-week change in completions as a whole
// percentage. Halves round away from zero.
//
// With no completions last week the change is 0 when this week is empty too
// and a flat 100 otherwise.
func ScoreChange(current, last int) int {
	if last == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return int(math.Round(float64(current-last) / float64(last) * 100))
}

// WeekStart returns the first day of the week containing now.
func WeekStart(now time.Time, start time.Weekday, loc *time.Location) Day {
	today := DayOf(now, loc)
	offset := (int(today.Weekday()) - int(start) + 7) % 7
	return today.AddDays(-offset)
}

// WeekCounts counts completions in the current week (its first day through
// today) and in the seven days before it. Days after today count in neither.
func WeekCounts(completions []time.Time, now time.Time, start time.Weekday, loc *time.Location) (current, last int) {
	today := DayOf(now, loc)
	thisWeek := WeekStart(now, start, loc)
	lastWeek := thisWeek.AddDays(-7)

	for _, c := range completions {
		d := DayOf(c, loc)
		switch {
		case d > today:
		case d >= thisWeek:
			current++
		case d >= lastWeek:
			last++
		}
	}
	return current, last
}
