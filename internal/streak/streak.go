// Package streak computes the consecutive-day practice streak.
//
// The calculation is pure: it takes the full ledger and the grace-day
// record and returns a number. It is recomputed on demand and never
// cached across mutations - a cached streak goes stale the moment the
// ledger or the grace-day set changes.
package streak

import (
	"sort"

	"github.com/vrata-app/vrata/internal/dates"
	"github.com/vrata-app/vrata/internal/ledger"
)

// Qualifying returns the dates that count as "practiced", sorted
// descending: days whose record has at least one distinct practice, plus
// days a stored practice was spent for. Duplicates collapse.
func Qualifying(records []ledger.DailyLogRecord, graceDates []string) []string {
	set := make(map[string]bool, len(records)+len(graceDates))
	for _, r := range records {
		if r.Completed() {
			set[r.Date] = true
		}
	}
	for _, d := range graceDates {
		set[d] = true
	}

	days := make([]string, 0, len(set))
	for d := range set {
		days = append(days, d)
	}
	// Fixed-width dates: lexicographic sort is chronological.
	sort.Sort(sort.Reverse(sort.StringSlice(days)))
	return days
}

// Current returns the length of the run of consecutive calendar days,
// ending at today or yesterday, on which the user practiced or spent a
// grace day.
//
// A run ending yesterday is still live - the streak only breaks once a
// second day is missed.
func Current(records []ledger.DailyLogRecord, graceDates []string, today string) int {
	days := Qualifying(records, graceDates)
	if len(days) == 0 {
		return 0
	}

	// Broken if the most recent qualifying day is before yesterday.
	gap, err := dates.DaysBetween(days[0], today)
	if err != nil || gap > 1 {
		return 0
	}

	count := 1
	for i := 1; i < len(days); i++ {
		step, err := dates.DaysBetween(days[i], days[i-1])
		if err != nil || step != 1 {
			break
		}
		count++
	}
	return count
}
