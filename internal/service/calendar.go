package service

import (
	"time"

	"github.com/onyxhabits/onyx/internal/model"
	"github.com/onyxhabits/onyx/internal/streak"
)

// Calendar fixes the day boundary and week layout every calculation uses.
type Calendar struct {
	Location     *time.Location
	WeekStart    time.Weekday
	ActivityDays int
	Now          func() time.Time
}

func (c Calendar) now() time.Time {
	if c.Now != nil {
		return c.Now().In(c.loc())
	}
	return time.Now().In(c.loc())
}

func (c Calendar) loc() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

func (c Calendar) today() streak.Day {
	return streak.DayOf(c.now(), c.loc())
}

// completionTimes places each completion at the start of its stored calendar day.
func (c Calendar) completionTimes(completions []*model.Completion) []time.Time {
	loc := c.loc()
	times := make([]time.Time, 0, len(completions))
	for _, completion := range completions {
		day, err := streak.ParseDay(completion.Day)
		if err != nil {
			times = append(times, completion.CompletedAt)
			continue
		}
		times = append(times, day.Time(loc))
	}
	return times
}
