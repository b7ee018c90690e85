package util

import (
	"fmt"
	"time"
)

// WeekOfMonth partitions a month into 7-day buckets by day of month:
// days 1-7 are week 1, days 8-14 week 2, and so on. No calendar-week
// alignment.
func WeekOfMonth(day int) int {
	return ((day - 1) / 7) + 1
}

// WeekID produces keys like "251201" for the first week of December 2025
// (YYMMWW). All fields are zero-padded to two digits; the keys only sort
// chronologically because of that padding.
func WeekID(t time.Time) string {
	return fmt.Sprintf("%02d%02d%02d", t.Year()%100, int(t.Month()), WeekOfMonth(t.Day()))
}

// WeekLabel produces labels like "December 1st Week". The suffix lookup is
// keyed on the raw week number; week-of-month never exceeds 5, so the
// 11th-13th English special cases cannot arise.
func WeekLabel(t time.Time) string {
	week := WeekOfMonth(t.Day())
	suffix := "th"
	switch week {
	case 1:
		suffix = "st"
	case 2:
		suffix = "nd"
	case 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%s %d%s Week", t.Month().String(), week, suffix)
}
