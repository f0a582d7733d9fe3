// Package economy owns the reward counters: bonus points, the stored
// practice (grace day) balance, monthly replenishment, and the
// point-to-currency conversion.
//
// Every mutating operation is read-modify-write against the latest
// persisted row, never against a cached copy, so two rapid ledger
// mutations each deriving a bonus delta cannot lose an update within a
// session. Precondition failures (insufficient balance, date already
// spent) are expected outcomes and return false; only storage faults
// return errors.
package economy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vrata-app/vrata/internal/dates"
	"github.com/vrata-app/vrata/internal/store"
	"github.com/vrata-app/vrata/internal/syncq"
)

// Store is the slice of the document store the economy consumes.
type Store interface {
	Get(ctx context.Context, collection, key string) ([]byte, error)
	Put(ctx context.Context, collection, key string, body []byte) error
}

// Economy maintains the singleton State row.
type Economy struct {
	store  Store
	cal    dates.Calendar
	notify syncq.Notifier
}

// New creates an Economy. A nil notifier disables sync notifications.
func New(s Store, cal dates.Calendar, notify syncq.Notifier) *Economy {
	if notify == nil {
		notify = syncq.Nop{}
	}
	return &Economy{store: s, cal: cal, notify: notify}
}

// BonusFor returns the bonus points earned for a day with n distinct
// practices: min(n/2, MaxDailyBonus), zero below 2. Monotonically
// non-decreasing in n.
func BonusFor(n int) int {
	if n < 2 {
		return 0
	}
	b := n / 2
	if b > MaxDailyBonus {
		b = MaxDailyBonus
	}
	return b
}

// Stats returns the current counters, applying the monthly replenishment
// first when one is due.
//
// The replenishment is a read-triggered side effect: on the first call in
// a new calendar month the stored-practice balance gains 1 (capped) and
// the refresh marker advances. Callers must tolerate a possible mutation
// behind this "read". Internally the side effect is an explicit step
// (refreshIfDue, then read) so it shows up in review and tests.
func (e *Economy) Stats(ctx context.Context) (State, error) {
	if err := e.refreshIfDue(ctx); err != nil {
		return State{}, err
	}
	return e.read(ctx)
}

// refreshIfDue materializes the state row on first use and applies the
// monthly stored-practice replenishment at most once per calendar month.
//
// Several elapsed months still grant a single increment: the marker is
// compared, not counted.
func (e *Economy) refreshIfDue(ctx context.Context) error {
	st, found, err := e.load(ctx)
	if err != nil {
		return err
	}

	month := e.cal.CurrentMonth()
	if found && st.LastStoredPracticeRefresh == month {
		return nil
	}

	if found {
		if st.StoredPractices < StoredPracticeCap {
			st.StoredPractices++
		}
		// The marker advances even when the cap swallowed the grant.
		st.LastStoredPracticeRefresh = month
	}

	return e.save(ctx, st)
}

// read returns the latest persisted state without side effects.
func (e *Economy) read(ctx context.Context) (State, error) {
	st, _, err := e.load(ctx)
	return st, err
}

// ApplyBonusDelta adjusts BonusPoints by BonusFor(newCount) -
// BonusFor(oldCount), flooring the total at zero. Returns the applied
// delta.
func (e *Economy) ApplyBonusDelta(ctx context.Context, oldCount, newCount int) (int, error) {
	st, _, err := e.load(ctx)
	if err != nil {
		return 0, err
	}

	delta := BonusFor(newCount) - BonusFor(oldCount)
	if delta == 0 {
		return 0, nil
	}

	st.BonusPoints += delta
	if st.BonusPoints < 0 {
		st.BonusPoints = 0
	}

	if err := e.save(ctx, st); err != nil {
		return 0, err
	}
	return delta, nil
}

// UseStoredPractice spends one stored practice against date. Returns
// false without error when the balance is empty or the date was already
// spent for - spending is idempotent per date.
func (e *Economy) UseStoredPractice(ctx context.Context, date string) (bool, error) {
	st, _, err := e.load(ctx)
	if err != nil {
		return false, err
	}

	if st.StoredPractices <= 0 || st.HasUsed(date) {
		return false, nil
	}

	st.StoredPractices--
	st.StoredPracticeUses = append(st.StoredPracticeUses, date)

	if err := e.save(ctx, st); err != nil {
		return false, err
	}
	return true, nil
}

// ConvertBonusToStored exchanges ConversionCost bonus points for one
// stored practice in a single write. Returns false when points are
// insufficient or the balance is already at the cap.
func (e *Economy) ConvertBonusToStored(ctx context.Context) (bool, error) {
	st, _, err := e.load(ctx)
	if err != nil {
		return false, err
	}

	if st.BonusPoints < ConversionCost || st.StoredPractices >= StoredPracticeCap {
		return false, nil
	}

	st.BonusPoints -= ConversionCost
	st.StoredPractices++

	if err := e.save(ctx, st); err != nil {
		return false, err
	}
	return true, nil
}

// RecordLongestStreak raises LongestStreak to candidate when it exceeds
// the recorded maximum. Monotone; a lower candidate writes nothing.
func (e *Economy) RecordLongestStreak(ctx context.Context, candidate int) error {
	st, _, err := e.load(ctx)
	if err != nil {
		return err
	}

	if candidate <= st.LongestStreak {
		return nil
	}

	st.LongestStreak = candidate
	return e.save(ctx, st)
}

// MarkChecked claims today's autouse reconciliation slot. Returns true on
// the first call of a given date and false on every later call that day.
// The claim is persisted before the reconciler acts, so a crash after the
// claim cannot re-trigger the day's side effect.
func (e *Economy) MarkChecked(ctx context.Context, today string) (bool, error) {
	st, _, err := e.load(ctx)
	if err != nil {
		return false, err
	}

	if st.LastCheckedDate == today {
		return false, nil
	}

	st.LastCheckedDate = today
	if err := e.save(ctx, st); err != nil {
		return false, err
	}
	return true, nil
}

// load fetches the persisted state. A missing row yields defaults with
// found=false. A row that fails to decode or validate is treated as
// corrupt and also yields defaults - stale counters are recoverable,
// a crash loop on every read is not.
func (e *Economy) load(ctx context.Context) (State, bool, error) {
	body, err := e.store.Get(ctx, Collection, StateKey)
	if errors.Is(err, store.ErrNotFound) {
		return defaultState(e.cal.CurrentMonth()), false, nil
	}
	if err != nil {
		return State{}, false, fmt.Errorf("load economy state: %w", err)
	}

	var st State
	if err := json.Unmarshal(body, &st); err != nil {
		return defaultState(e.cal.CurrentMonth()), false, nil
	}
	if !st.valid() {
		return defaultState(e.cal.CurrentMonth()), false, nil
	}
	if st.StoredPracticeUses == nil {
		st.StoredPracticeUses = []string{}
	}
	return st, true, nil
}

// save persists the state and fires the best-effort sync notification.
func (e *Economy) save(ctx context.Context, st State) error {
	body, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode economy state: %w", err)
	}
	if err := e.store.Put(ctx, Collection, StateKey, body); err != nil {
		return fmt.Errorf("save economy state: %w", err)
	}
	e.notify.NotifyChanged(Collection, StateKey)
	return nil
}
