package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vrata-app/vrata/internal/ledger"
)

// NewShowCommand creates the "show" command: read a day's record or the
// whole ledger. Read-only; no counters move.
func NewShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show [date]",
		Short: "Show the log for one day, or all days",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutputFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			ctx := cmd.Context()

			app, err := openApp(ctx, opts, out)
			if err != nil {
				return err
			}
			defer app.Close()
			printAutouseNotice(out, app.AutouseNotice)

			if len(args) == 1 {
				rec, found, err := app.Ledger.GetRecord(ctx, args[0])
				if err != nil {
					return WrapExitError(ExitCommandError, "read record", err)
				}
				if !found {
					return NewExitError(ExitFailure, fmt.Sprintf("no record for %s", args[0]))
				}
				return out.Print(rec, renderRecord(rec))
			}

			records, err := app.Ledger.GetAll(ctx)
			if err != nil {
				return WrapExitError(ExitCommandError, "read records", err)
			}

			var text strings.Builder
			for _, rec := range records {
				text.WriteString(renderRecord(rec))
			}
			if len(records) == 0 {
				text.WriteString("No practices logged yet.\n")
			}
			return out.Print(records, text.String())
		},
	}
}

// renderRecord formats one day's record as text.
func renderRecord(rec ledger.DailyLogRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", rec.Date, plural(len(rec.Practices), "practice"))
	for _, e := range rec.Entries {
		fmt.Fprintf(&b, "  %s  %s", e.ID, e.PracticeID)
		if e.Notes != "" {
			fmt.Fprintf(&b, "  - %s", e.Notes)
		}
		b.WriteString("\n")
	}
	return b.String()
}
