package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// logResult is the machine-readable output of the log command.
type logResult struct {
	Date       string   `json:"date"`
	Practices  []string `json:"practices"`
	BonusDelta int      `json:"bonus_delta"`
	Streak     int      `json:"streak"`
}

// NewLogCommand creates the "log" command: record practices for a day.
func NewLogCommand(opts *RootOptions) *cobra.Command {
	var (
		date      string
		practices []string
		notes     string
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log one or more practices for a day",
		Long: `Log appends one entry per practice to the day's record, creating the
record on the first entry. Logging multiple distinct practices on the
same day earns bonus points.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutputFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			ctx := cmd.Context()

			app, err := openApp(ctx, opts, out)
			if err != nil {
				return err
			}
			defer app.Close()
			printAutouseNotice(out, app.AutouseNotice)

			if date == "" {
				date = app.Cal.Today()
			}

			oldCount, newCount, err := app.Ledger.LogPractice(ctx, date, practices, notes)
			if err != nil {
				return WrapExitError(ExitCommandError, "log practice", err)
			}

			delta, err := app.Economy.ApplyBonusDelta(ctx, oldCount, newCount)
			if err != nil {
				return WrapExitError(ExitCommandError, "apply bonus", err)
			}

			current, err := app.CurrentStreak(ctx)
			if err != nil {
				return WrapExitError(ExitCommandError, "compute streak", err)
			}

			rec, _, err := app.Ledger.GetRecord(ctx, date)
			if err != nil {
				return WrapExitError(ExitCommandError, "read record", err)
			}

			result := logResult{
				Date:       date,
				Practices:  rec.Practices,
				BonusDelta: delta,
				Streak:     current,
			}

			var text strings.Builder
			fmt.Fprintf(&text, "Logged %s on %s.\n", strings.Join(practices, ", "), date)
			if delta > 0 {
				fmt.Fprintf(&text, "Bonus points earned: +%d\n", delta)
			}
			fmt.Fprintf(&text, "Current streak: %s\n", plural(current, "day"))

			return out.Print(result, text.String())
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "calendar date YYYY-MM-DD (default today)")
	cmd.Flags().StringArrayVarP(&practices, "practice", "p", nil, "practice id (repeatable)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-text notes for the entries")
	cmd.MarkFlagRequired("practice")

	return cmd
}

// plural renders "1 day" / "3 days".
func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
