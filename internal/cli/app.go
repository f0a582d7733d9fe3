package cli

import (
	"context"
	"fmt"

	"github.com/vrata-app/vrata/internal/autouse"
	"github.com/vrata-app/vrata/internal/dates"
	"github.com/vrata-app/vrata/internal/economy"
	"github.com/vrata-app/vrata/internal/ledger"
	"github.com/vrata-app/vrata/internal/store"
	"github.com/vrata-app/vrata/internal/streak"
	"github.com/vrata-app/vrata/internal/syncq"
)

// App wires the engine components for one CLI invocation (one session).
type App struct {
	Store   *store.Store
	Ledger  *ledger.Ledger
	Economy *economy.Economy
	Cal     dates.Calendar

	queue *syncq.Queue

	// AutouseNotice carries the reconciler's one-time report so commands
	// can surface "a stored practice was spent for <date>".
	AutouseNotice autouse.Result
}

// diagnosticFlusher reports flushed changes on the verbose writer. The
// cloud sync backend lives outside this engine; locally, delivery is
// observable but has no destination.
type diagnosticFlusher struct {
	out *OutputFormatter
}

func (f *diagnosticFlusher) Flush(c syncq.Change) error {
	verb := "changed"
	if c.Deleted {
		verb = "deleted"
	}
	f.out.Verbosef("sync: %s %s/%s", verb, c.Collection, c.ID)
	return nil
}

// openApp loads config, opens the store, wires the components, and runs
// the autouse reconciler once - the start-of-session check.
func openApp(ctx context.Context, opts *RootOptions, out *OutputFormatter) (*App, error) {
	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "resolve timezone", err)
	}

	s, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open database", err)
	}

	queue := syncq.NewQueue(&diagnosticFlusher{out: out})
	cal := dates.NewWallCalendar(loc)

	app := &App{
		Store:   s,
		Ledger:  ledger.New(s, queue),
		Economy: economy.New(s, cal, queue),
		Cal:     cal,
		queue:   queue,
	}

	notice, err := autouse.New(app.Ledger, app.Economy, cal).Run(ctx)
	if err != nil {
		app.Close()
		return nil, WrapExitError(ExitCommandError, "daily check", err)
	}
	app.AutouseNotice = notice

	return app, nil
}

// Close drains pending sync notifications and closes the store.
func (a *App) Close() {
	a.queue.Close()
	a.Store.Close()
}

// CurrentStreak recomputes the streak from the full ledger and the
// grace-day record, and raises the recorded longest streak when the
// current one exceeds it. Never cached.
func (a *App) CurrentStreak(ctx context.Context) (int, error) {
	records, err := a.Ledger.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	st, err := a.Economy.Stats(ctx)
	if err != nil {
		return 0, err
	}

	current := streak.Current(records, st.StoredPracticeUses, a.Cal.Today())
	if err := a.Economy.RecordLongestStreak(ctx, current); err != nil {
		return 0, err
	}
	return current, nil
}

// printAutouseNotice surfaces the reconciler's one-time report.
func printAutouseNotice(out *OutputFormatter, notice autouse.Result) {
	if !notice.Applied || out.JSON() {
		return
	}
	fmt.Fprintf(out.Writer, "A stored practice was used to cover %s.\n", notice.Date)
}
