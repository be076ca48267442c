package util

import (
	"fmt"
	"time"
)

// MonthStart returns midnight on the first day of t's month, in t's location
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// MonthEnd returns the last instant of t's month, in t's location
func MonthEnd(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// DayStart returns midnight of t's day, in t's location
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayEnd returns the last instant of t's day, in t's location
func DayEnd(t time.Time) time.Time {
	return DayStart(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// MonthKey formats t as YYYY-MM
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// MonthLabel formats t as "Jan 2006"
func MonthLabel(t time.Time) string {
	return t.Format("Jan 2006")
}

// DayKey formats t as YYYY-MM-DD
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// DayLabel formats t as "Jan 2, 2006"
func DayLabel(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// ISOWeekKey formats the ISO-8601 week of t as YYYY-Www. Weeks start on Monday
// and week 1 is the week containing January 4th, so the year part can differ
// from t.Year() around the new year.
func ISOWeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// ISOWeekLabel formats the ISO-8601 week of t as "Week 3, 2025"
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("Week %d, %d", week, year)
}

// ISOWeekStart returns midnight on the Monday starting t's ISO week
func ISOWeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return DayStart(t).AddDate(0, 0, -offset)
}
