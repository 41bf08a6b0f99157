package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivity_CountsPerDayOldestFirst(t *testing.T) {
	completions := []time.Time{
		daysAgo(0), daysAgo(0), daysAgo(0),
		daysAgo(2),
		daysAgo(4), daysAgo(4),
		daysAgo(9), // outside the window
	}

	buckets := Activity(completions, testNow, 5, testLoc)
	require.Len(t, buckets, 5)

	values := make([]int, 0, len(buckets))
	labels := make([]string, 0, len(buckets))
	for _, b := range buckets {
		values = append(values, b.Value)
		labels = append(labels, b.Label)
	}

	assert.Equal(t, []int{2, 0, 1, 0, 3}, values)
	assert.Equal(t, []string{"Sat 7", "Sun 8", "Mon 9", "Tue 10", "Wed 11"}, labels)
	assert.Equal(t, DayOf(testNow, testLoc), buckets[4].Day)
}

func TestActivity_NoCompletionsIsAllZero(t *testing.T) {
	buckets := Activity(nil, testNow, 7, testLoc)
	require.Len(t, buckets, 7)
	for _, b := range buckets {
		assert.Zero(t, b.Value)
	}
}

func TestActivity_LengthMatchesWindow(t *testing.T) {
	sparse := []time.Time{daysAgo(40)}
	for _, days := range []int{1, 5, 7, 14, 31} {
		assert.Len(t, Activity(sparse, testNow, days, testLoc), days)
	}
	assert.Empty(t, Activity(sparse, testNow, 0, testLoc))
	assert.Empty(t, Activity(sparse, testNow, -3, testLoc))
}
