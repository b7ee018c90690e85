package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 10, 30, 0, 0, time.UTC)
}

func TestWeekID(t *testing.T) {
	t.Run("FormatAndPadding", func(t *testing.T) {
		assert.Equal(t, "251201", WeekID(date(2025, time.December, 1)))
		assert.Equal(t, "260103", WeekID(date(2026, time.January, 15)))
		assert.Equal(t, "250905", WeekID(date(2025, time.September, 30)))
	})

	t.Run("StableWithinBucket", func(t *testing.T) {
		for day := 1; day <= 7; day++ {
			assert.Equal(t, "251201", WeekID(date(2025, time.December, day)))
		}
		for day := 8; day <= 14; day++ {
			assert.Equal(t, "251202", WeekID(date(2025, time.December, day)))
		}
	})

	t.Run("Day8DiffersFromDay1", func(t *testing.T) {
		assert.NotEqual(t,
			WeekID(date(2025, time.December, 1)),
			WeekID(date(2025, time.December, 8)))
	})

	t.Run("LexicographicOrderAcrossYearBoundary", func(t *testing.T) {
		older := WeekID(date(2025, time.December, 28))
		newer := WeekID(date(2026, time.January, 2))
		assert.True(t, older < newer)
	})
}

func TestWeekLabel(t *testing.T) {
	assert.Equal(t, "December 1st Week", WeekLabel(date(2025, time.December, 1)))
	assert.Equal(t, "March 2nd Week", WeekLabel(date(2025, time.March, 10)))
	assert.Equal(t, "June 3rd Week", WeekLabel(date(2025, time.June, 17)))
	assert.Equal(t, "January 4th Week", WeekLabel(date(2025, time.January, 22)))
	assert.Equal(t, "July 5th Week", WeekLabel(date(2025, time.July, 31)))
}

func TestWeekOfMonth(t *testing.T) {
	assert.Equal(t, 1, WeekOfMonth(7))
	assert.Equal(t, 2, WeekOfMonth(8))
	assert.Equal(t, 4, WeekOfMonth(28))
	assert.Equal(t, 5, WeekOfMonth(29))
}
