// Package autouse preserves a user's streak across a day they forgot to
// log, without letting them silently accumulate free days.
//
// On the first app activity of each local calendar day the reconciler
// inspects yesterday and spends one stored practice automatically if
// yesterday was missed. The once-per-day guard is a persisted date field,
// so invoking the reconciler again in the same session (or same day) is a
// no-op.
package autouse

import (
	"context"
	"fmt"

	"github.com/vrata-app/vrata/internal/dates"
	"github.com/vrata-app/vrata/internal/economy"
	"github.com/vrata-app/vrata/internal/ledger"
)

// Result reports what the reconciler did, so the caller can surface a
// one-time notification when a grace day was spent.
type Result struct {
	// Applied is true when a stored practice was spent this run.
	Applied bool `json:"applied"`
	// Date is the backfilled date when Applied is true.
	Date string `json:"date,omitempty"`
}

// Reconciler runs the once-per-day backfill check.
type Reconciler struct {
	ledger  *ledger.Ledger
	economy *economy.Economy
	cal     dates.Calendar
}

// New creates a Reconciler over the given components.
func New(l *ledger.Ledger, e *economy.Economy, cal dates.Calendar) *Reconciler {
	return &Reconciler{ledger: l, economy: e, cal: cal}
}

// Run performs the daily check. Safe to call any number of times per
// session; only the first call on a given calendar date can spend.
//
// The day's slot is claimed (persisted) before the grace-day spend, so a
// crash between the two cannot cause a double-spend on restart - a
// possibly missed backfill is the accepted cost of that ordering.
func (r *Reconciler) Run(ctx context.Context) (Result, error) {
	today := r.cal.Today()

	claimed, err := r.economy.MarkChecked(ctx, today)
	if err != nil {
		return Result{}, fmt.Errorf("autouse: %w", err)
	}
	if !claimed {
		return Result{}, nil
	}

	yesterday := r.cal.Yesterday()
	rec, found, err := r.ledger.GetRecord(ctx, yesterday)
	if err != nil {
		return Result{}, fmt.Errorf("autouse: %w", err)
	}
	if found && rec.Completed() {
		return Result{}, nil
	}

	// UseStoredPractice refuses on empty balance and on a date already
	// spent for, so those preconditions need no separate check here.
	ok, err := r.economy.UseStoredPractice(ctx, yesterday)
	if err != nil {
		return Result{}, fmt.Errorf("autouse: %w", err)
	}
	if !ok {
		return Result{}, nil
	}

	return Result{Applied: true, Date: yesterday}, nil
}
