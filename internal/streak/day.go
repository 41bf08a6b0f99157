// Package streak computes habit streaks, daily activity buckets and the
// week-over-week score change from completion timestamps.
//
// Every function takes the day-boundary location explicitly. A nil location
// means time.Local.
package streak

import (
	"fmt"
	"time"
)

const (
	DayLayout     = "2006-01-02"
	labelLayout   = "Mon 2"
	secondsPerDay = 24 * 60 * 60
)

// Day is a calendar date, counted in days since 1970-01-01.
// It carries no time of day and no location.
type Day int

func DayOf(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return civil(y, m, d)
}

// ParseDay parses a YYYY-MM-DD calendar date.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid calendar date %q: %w", s, err)
	}
	return civil(t.Date()), nil
}

func civil(y int, m time.Month, d int) Day {
	secs := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix()
	if secs < 0 {
		return Day((secs - secondsPerDay + 1) / secondsPerDay)
	}
	return Day(secs / secondsPerDay)
}

func (d Day) AddDays(n int) Day {
	return d + Day(n)
}

// Time returns midnight of the day in loc.
func (d Day) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(1970, time.January, 1+int(d), 0, 0, 0, 0, loc)
}

func (d Day) Weekday() time.Weekday {
	// 1970-01-01 was a Thursday.
	w := (int(d) + int(time.Thursday)) % 7
	if w < 0 {
		w += 7
	}
	return time.Weekday(w)
}

func (d Day) String() string {
	return d.Time(time.UTC).Format(DayLayout)
}

// Label is the short form used on activity charts, e.g. "Mon 2".
func (d Day) Label() string {
	return d.Time(time.UTC).Format(labelLayout)
}
