// Package testutil provides deterministic test doubles for the engine's
// injected capabilities: the calendar and the sync notifier.
package testutil

import (
	"sync"

	"github.com/vrata-app/vrata/internal/dates"
)

// FixedCalendar is a dates.Calendar pinned to a settable date.
//
// Unlike dates.WallCalendar, FixedCalendar lets tests simulate day and
// month rollover deterministically: set a date, exercise the code under
// test, advance, exercise again.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type FixedCalendar struct {
	mu    sync.Mutex
	today string
}

// NewFixedCalendar creates a calendar pinned to today (YYYY-MM-DD).
func NewFixedCalendar(today string) *FixedCalendar {
	return &FixedCalendar{today: today}
}

// Today returns the pinned date.
func (c *FixedCalendar) Today() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.today
}

// Yesterday returns the date one day before the pinned date.
func (c *FixedCalendar) Yesterday() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return dates.PrevDay(c.today)
}

// CurrentMonth returns the YYYY-MM month of the pinned date.
func (c *FixedCalendar) CurrentMonth() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return dates.Month(c.today)
}

// Set pins the calendar to a new date.
func (c *FixedCalendar) Set(today string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.today = today
}

// AdvanceDay rolls the calendar forward one day and returns the new date.
func (c *FixedCalendar) AdvanceDay() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.today = dates.NextDay(c.today)
	return c.today
}
