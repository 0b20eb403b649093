package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateRange(t *testing.T) {
	start := time.Date(2026, time.February, 27, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	dates := DateRange(start, end)
	assert.Equal(t, []string{"2026-02-27", "2026-02-28", "2026-03-01", "2026-03-02"}, dates)

	assert.Equal(t, []string{"2026-02-27"}, DateRange(start, start))
	assert.Nil(t, DateRange(end, start))
}

func TestMonthDates(t *testing.T) {
	feb := MonthDates(2026, time.February)
	assert.Len(t, feb, 28)
	assert.Equal(t, "2026-02-01", feb[0])
	assert.Equal(t, "2026-02-28", feb[len(feb)-1])

	leapFeb := MonthDates(2028, time.February)
	assert.Len(t, leapFeb, 29)
}

func TestIsExtendedWeekend(t *testing.T) {
	assert.True(t, IsExtendedWeekend(time.Friday))
	assert.True(t, IsExtendedWeekend(time.Saturday))
	assert.True(t, IsExtendedWeekend(time.Sunday))
	assert.False(t, IsExtendedWeekend(time.Monday))
	assert.False(t, IsExtendedWeekend(time.Thursday))
}

func TestAddMinutes(t *testing.T) {
	end, err := AddMinutes("09:00", 90)
	assert.Nil(t, err)
	assert.Equal(t, "10:30", end)

	_, err = AddMinutes("not-a-time", 30)
	assert.NotNil(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-02")
	assert.Nil(t, err)
	assert.Equal(t, time.Monday, d.Weekday())

	_, err = ParseDate("02.03.2026")
	assert.NotNil(t, err)
}
