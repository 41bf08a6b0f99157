package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2026-03-11")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-11", d.String())
	assert.Equal(t, time.Wednesday, d.Weekday())
	assert.Equal(t, "Wed 11", d.Label())

	for _, bad := range []string{"", "2026-3-11", "11/03/2026", "2026-02-30", "2026-03-11T00:00:00Z", "yesterday"} {
		_, err := ParseDay(bad)
		assert.Error(t, err, bad)
	}
}

func TestDay_Epoch(t *testing.T) {
	epoch, err := ParseDay("1970-01-01")
	require.NoError(t, err)
	assert.Equal(t, Day(0), epoch)
	assert.Equal(t, time.Thursday, epoch.Weekday())

	before, err := ParseDay("1969-12-31")
	require.NoError(t, err)
	assert.Equal(t, Day(-1), before)
	assert.Equal(t, time.Wednesday, before.Weekday())
}

func TestDay_TimeIsMidnightInLocation(t *testing.T) {
	d, _ := ParseDay("2026-03-11")
	got := d.Time(testLoc)

	assert.Equal(t, time.Date(2026, time.March, 11, 0, 0, 0, 0, testLoc), got)
	assert.Equal(t, d, DayOf(got, testLoc))
}

func TestDayOf_AcrossDSTBoundary(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}

	// Clocks went forward on 2026-03-08.
	before := time.Date(2026, time.March, 7, 23, 30, 0, 0, ny)
	after := time.Date(2026, time.March, 8, 23, 30, 0, 0, ny)
	assert.Equal(t, DayOf(before, ny)+1, DayOf(after, ny))

	d, _ := ParseDay("2026-03-08")
	assert.Equal(t, d, DayOf(d.Time(ny), ny))
}
