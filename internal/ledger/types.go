package ledger

import "time"

// Collection is the store collection holding daily log records, keyed by
// date. At most one record exists per calendar date.
const Collection = "daily_logs"

// PracticeEntry is one logged occurrence of a practice.
type PracticeEntry struct {
	// ID is unique within the day's record.
	ID string `json:"id"`

	// PracticeID references a practice definition owned by the catalog.
	// The engine treats it as an opaque identifier.
	PracticeID string `json:"practiceId"`

	// Timestamp is the capture instant, used only for display and
	// ordering. Day-boundary logic always goes through the calendar
	// capability, never through this field.
	Timestamp time.Time `json:"timestamp"`

	// Notes is optional free text.
	Notes string `json:"notes,omitempty"`
}

// DailyLogRecord holds everything logged on one local calendar date.
type DailyLogRecord struct {
	// Date is the record's natural key, immutable after creation.
	Date string `json:"date"`

	// Entries in insertion order = chronological order of logging.
	Entries []PracticeEntry `json:"entries"`

	// Practices is the derived set of distinct practice IDs, first-seen
	// order. Invariant: always equals the dedupe of Entries' practice IDs;
	// every mutation path recomputes it.
	Practices []string `json:"practices"`
}

// recomputePractices rebuilds the derived distinct-practice set from the
// entry list.
func (r *DailyLogRecord) recomputePractices() {
	seen := make(map[string]bool, len(r.Entries))
	practices := make([]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		if !seen[e.PracticeID] {
			seen[e.PracticeID] = true
			practices = append(practices, e.PracticeID)
		}
	}
	r.Practices = practices
}

// Completed reports whether at least one practice was logged on this day.
func (r *DailyLogRecord) Completed() bool {
	return len(r.Practices) > 0
}
