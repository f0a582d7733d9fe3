// Package dates provides the local-calendar capability used for all
// day-boundary decisions.
//
// Every component that needs to know "what day is it" asks a Calendar
// rather than inspecting entry timestamps. Entry timestamps are for
// display and ordering only; deriving day boundaries from them would
// drift across timezones. Dates are fixed-width "YYYY-MM-DD" strings and
// months are "YYYY-MM", so lexicographic order is chronological order.
package dates

import (
	"fmt"
	"time"
)

// Layout formats for calendar strings.
const (
	DayLayout   = "2006-01-02"
	MonthLayout = "2006-01"
)

// Calendar answers day-boundary questions in the user's local timezone.
//
// It is injected wherever "today" matters so tests can simulate day
// rollover deterministically instead of depending on wall-clock time.
type Calendar interface {
	// Today returns the current local calendar date as YYYY-MM-DD.
	Today() string
	// Yesterday returns the local calendar date one day before Today.
	Yesterday() string
	// CurrentMonth returns the current local calendar month as YYYY-MM.
	CurrentMonth() string
}

// WallCalendar is the production Calendar, reading time.Now in a fixed
// location.
type WallCalendar struct {
	loc *time.Location
}

// NewWallCalendar creates a Calendar for the given location.
// A nil location falls back to time.Local.
func NewWallCalendar(loc *time.Location) *WallCalendar {
	if loc == nil {
		loc = time.Local
	}
	return &WallCalendar{loc: loc}
}

func (c *WallCalendar) Today() string {
	return time.Now().In(c.loc).Format(DayLayout)
}

func (c *WallCalendar) Yesterday() string {
	return time.Now().In(c.loc).AddDate(0, 0, -1).Format(DayLayout)
}

func (c *WallCalendar) CurrentMonth() string {
	return time.Now().In(c.loc).Format(MonthLayout)
}

// Valid reports whether s is a well-formed YYYY-MM-DD calendar date.
func Valid(s string) bool {
	_, err := time.Parse(DayLayout, s)
	return err == nil && len(s) == len(DayLayout)
}

// Parse converts a calendar date string to a time at midnight UTC.
// The UTC anchor makes day arithmetic exact (no DST hours).
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// PrevDay returns the calendar date one day before d.
// Panics if d is not a valid date; callers validate input at the boundary.
func PrevDay(d string) string {
	t, err := Parse(d)
	if err != nil {
		panic(err)
	}
	return t.AddDate(0, 0, -1).Format(DayLayout)
}

// NextDay returns the calendar date one day after d.
func NextDay(d string) string {
	t, err := Parse(d)
	if err != nil {
		panic(err)
	}
	return t.AddDate(0, 0, 1).Format(DayLayout)
}

// DaysBetween returns the number of calendar days from a to b (b - a).
// Positive when b is later than a.
func DaysBetween(a, b string) (int, error) {
	ta, err := Parse(a)
	if err != nil {
		return 0, err
	}
	tb, err := Parse(b)
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}

// Month returns the YYYY-MM month of a calendar date.
func Month(d string) string {
	if len(d) < len(MonthLayout) {
		return d
	}
	return d[:len(MonthLayout)]
}
