package economy

import "github.com/vrata-app/vrata/internal/dates"

// Store collection and key for the singleton counters row.
const (
	Collection = "economy"
	StateKey   = "state"
)

// Economy constants.
const (
	// StoredPracticeCap is the maximum banked grace days.
	StoredPracticeCap = 3
	// ConversionCost is the bonus-point price of one stored practice.
	ConversionCost = 10
	// MaxDailyBonus caps the bonus earned from one day's distinct practices.
	MaxDailyBonus = 5
)

// State is the singleton counters record. One logical instance exists per
// user/device, lazily created with defaults on first read.
//
// Only the Economy component writes this record; the ledger and streak
// calculator read it or request mutations through Economy operations.
type State struct {
	// BonusPoints is a non-negative reward counter.
	BonusPoints int `json:"bonusPoints"`

	// StoredPractices is the banked grace-day balance, capped at
	// StoredPracticeCap.
	StoredPractices int `json:"storedPractices"`

	// LastStoredPracticeRefresh is the YYYY-MM month of the last monthly
	// replenishment. Replenishment fires at most once per calendar month.
	LastStoredPracticeRefresh string `json:"lastStoredPracticeRefresh"`

	// StoredPracticeUses lists the dates a stored practice was spent for.
	// A date appears at most once - spending is idempotent per date.
	StoredPracticeUses []string `json:"storedPracticeUses"`

	// LongestStreak is the highest streak ever observed; never decreases.
	LongestStreak int `json:"longestStreak"`

	// LastCheckedDate is the date the autouse reconciler last ran. Its
	// once-per-day side effect compares this field to today.
	LastCheckedDate string `json:"lastCheckedDate"`
}

// defaultState returns the counters a brand-new user starts with: one
// stored practice in the bank and the refresh marker set to the current
// month so the first replenishment waits for the next month.
func defaultState(currentMonth string) State {
	return State{
		BonusPoints:               0,
		StoredPractices:           1,
		LastStoredPracticeRefresh: currentMonth,
		StoredPracticeUses:        []string{},
	}
}

// HasUsed reports whether a stored practice was already spent for date.
func (s *State) HasUsed(date string) bool {
	for _, d := range s.StoredPracticeUses {
		if d == date {
			return true
		}
	}
	return false
}

// valid performs basic shape validation on a loaded state. A persisted
// row that fails validation is treated as corrupt and replaced with
// defaults rather than propagated.
func (s *State) valid() bool {
	if s.BonusPoints < 0 || s.StoredPractices < 0 || s.StoredPractices > StoredPracticeCap {
		return false
	}
	if s.LongestStreak < 0 {
		return false
	}
	if s.LastCheckedDate != "" && !dates.Valid(s.LastCheckedDate) {
		return false
	}
	for _, d := range s.StoredPracticeUses {
		if !dates.Valid(d) {
			return false
		}
	}
	return true
}
