package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_DropsTimeOfDayAndZone(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	late := time.Date(2026, 3, 14, 23, 30, 0, 0, loc)

	got := Date(late)

	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), got)
}

func TestClock_Today(t *testing.T) {
	c := Fixed(time.Date(2026, 10, 19, 15, 4, 5, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), c.Today())
}

func TestAddDays_CrossesMonthBoundary(t *testing.T) {
	got := AddDays(time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC), 28)
	assert.Equal(t, time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC), got)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-11-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("02/11/2026")
	assert.Error(t, err)
}
