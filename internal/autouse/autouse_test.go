package autouse

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrata-app/vrata/internal/economy"
	"github.com/vrata-app/vrata/internal/ledger"
	"github.com/vrata-app/vrata/internal/store"
	"github.com/vrata-app/vrata/internal/streak"
	"github.com/vrata-app/vrata/internal/testutil"
)

type fixture struct {
	ledger  *ledger.Ledger
	economy *economy.Economy
	cal     *testutil.FixedCalendar
	rec     *Reconciler
}

func newFixture(t *testing.T, today string) *fixture {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	cal := testutil.NewFixedCalendar(today)
	l := ledger.New(s, nil)
	e := economy.New(s, cal, nil)

	// Materialize the default balance (1 stored practice).
	_, err = e.Stats(context.Background())
	require.NoError(t, err)

	return &fixture{ledger: l, economy: e, cal: cal, rec: New(l, e, cal)}
}

func TestRun_BackfillsMissedYesterday(t *testing.T) {
	f := newFixture(t, "2025-03-10")
	ctx := context.Background()

	// Practiced the day before yesterday, missed yesterday.
	_, _, err := f.ledger.LogPractice(ctx, "2025-03-08", []string{"meditation"}, "")
	require.NoError(t, err)

	res, err := f.rec.Run(ctx)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, "2025-03-09", res.Date)

	st, err := f.economy.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, st.StoredPractices)
	assert.Equal(t, []string{"2025-03-09"}, st.StoredPracticeUses)

	// The grace day keeps the streak alive.
	records, err := f.ledger.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, streak.Current(records, st.StoredPracticeUses, "2025-03-10"))
}

func TestRun_SecondInvocationSameDayIsNoOp(t *testing.T) {
	f := newFixture(t, "2025-03-10")
	ctx := context.Background()

	res, err := f.rec.Run(ctx)
	require.NoError(t, err)
	require.True(t, res.Applied)

	// Only one possible spend per day; the repeat reports nothing so the
	// caller cannot surface a duplicate notification.
	res, err = f.rec.Run(ctx)
	require.NoError(t, err)
	assert.False(t, res.Applied)

	st, err := f.economy.Stats(ctx)
	require.NoError(t, err)
	assert.Len(t, st.StoredPracticeUses, 1)
}

func TestRun_YesterdayPracticedSpendsNothing(t *testing.T) {
	f := newFixture(t, "2025-03-10")
	ctx := context.Background()

	_, _, err := f.ledger.LogPractice(ctx, "2025-03-09", []string{"meditation"}, "")
	require.NoError(t, err)

	res, err := f.rec.Run(ctx)
	require.NoError(t, err)
	assert.False(t, res.Applied)

	st, err := f.economy.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.StoredPractices)
}

func TestRun_EmptyYesterdayRecordStillBackfills(t *testing.T) {
	f := newFixture(t, "2025-03-10")
	ctx := context.Background()

	// A record whose last entry was removed: exists, zero practices.
	_, _, err := f.ledger.LogPractice(ctx, "2025-03-09", []string{"meditation"}, "")
	require.NoError(t, err)
	rec, _, err := f.ledger.GetRecord(ctx, "2025-03-09")
	require.NoError(t, err)
	require.NoError(t, f.ledger.RemoveEntry(ctx, "2025-03-09", rec.Entries[0].ID))

	res, err := f.rec.Run(ctx)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, "2025-03-09", res.Date)
}

func TestRun_EmptyBalanceStillClaimsDay(t *testing.T) {
	f := newFixture(t, "2025-03-10")
	ctx := context.Background()

	// Drain the balance.
	ok, err := f.economy.UseStoredPractice(ctx, "2025-03-01")
	require.NoError(t, err)
	require.True(t, ok)

	res, err := f.rec.Run(ctx)
	require.NoError(t, err)
	assert.False(t, res.Applied)

	// The guard is written before the spend decision: today is claimed
	// even though nothing was spent.
	st, err := f.economy.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", st.LastCheckedDate)
}

func TestRun_NextDayRunsAgain(t *testing.T) {
	f := newFixture(t, "2025-03-10")
	ctx := context.Background()

	// Day one: backfill 03-09 with the single banked practice.
	res, err := f.rec.Run(ctx)
	require.NoError(t, err)
	require.True(t, res.Applied)

	// Day two: nothing left in the bank, but the reconciler runs.
	f.cal.AdvanceDay()
	res, err = f.rec.Run(ctx)
	require.NoError(t, err)
	assert.False(t, res.Applied)

	st, err := f.economy.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-11", st.LastCheckedDate)
}
