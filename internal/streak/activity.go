package streak

import "time"

type Bucket struct {
	Label string `json:"label"`
	Day   Day    `json:"-"`
	Value int    `json:"value"`
}

// Activity counts completions per day over the trailing window of days
// ending today, oldest first. Days without completions are kept with a zero
// value so the result always has exactly days entries.
func Activity(completions []time.Time, now time.Time, days int, loc *time.Location) []Bucket {
	if days < 1 {
		return []Bucket{}
	}

	counts := make(map[Day]int, len(completions))
	for _, c := range completions {
		counts[DayOf(c, loc)]++
	}

	today := DayOf(now, loc)
	buckets := make([]Bucket, 0, days)
	for d := today.AddDays(-(days - 1)); d <= today; d++ {
		buckets = append(buckets, Bucket{
			Label: d.Label(),
			Day:   d,
			Value: counts[d],
		})
	}
	return buckets
}
