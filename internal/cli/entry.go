package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vrata-app/vrata/internal/ledger"
)

// NewEntryCommand creates the "entry" command group: amend a day's log.
func NewEntryCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Amend individual entries of a day's log",
	}
	cmd.AddCommand(newEntryRemoveCommand(opts))
	cmd.AddCommand(newEntryEditCommand(opts))
	return cmd
}

func newEntryRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <date> <entry-id>",
		Short: "Remove one entry from a day's log",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return amendEntry(cmd, opts, args[0], "remove entry", func(ctx context.Context, app *App) error {
				return app.Ledger.RemoveEntry(ctx, args[0], args[1])
			})
		},
	}
}

func newEntryEditCommand(opts *RootOptions) *cobra.Command {
	var (
		practiceID string
		notes      string
	)

	cmd := &cobra.Command{
		Use:   "edit <date> <entry-id>",
		Short: "Edit one entry of a day's log",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var changes ledger.EntryChanges
			if cmd.Flags().Changed("practice") {
				changes.PracticeID = &practiceID
			}
			if cmd.Flags().Changed("notes") {
				changes.Notes = &notes
			}
			if changes.PracticeID == nil && changes.Notes == nil {
				return NewExitError(ExitCommandError, "nothing to change: pass --practice and/or --notes")
			}

			return amendEntry(cmd, opts, args[0], "edit entry", func(ctx context.Context, app *App) error {
				return app.Ledger.EditEntry(ctx, args[0], args[1], changes)
			})
		},
	}

	cmd.Flags().StringVarP(&practiceID, "practice", "p", "", "new practice id")
	cmd.Flags().StringVar(&notes, "notes", "", "new notes")

	return cmd
}

// amendEntry runs one entry mutation and settles the bonus delta from the
// change in the day's distinct-practice count.
func amendEntry(cmd *cobra.Command, opts *RootOptions, date, what string, mutate func(context.Context, *App) error) error {
	out := NewOutputFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctx := cmd.Context()

	app, err := openApp(ctx, opts, out)
	if err != nil {
		return err
	}
	defer app.Close()
	printAutouseNotice(out, app.AutouseNotice)

	before, _, err := app.Ledger.GetRecord(ctx, date)
	if err != nil {
		return WrapExitError(ExitCommandError, what, err)
	}

	if err := mutate(ctx, app); err != nil {
		return WrapExitError(ExitCommandError, what, err)
	}

	after, _, err := app.Ledger.GetRecord(ctx, date)
	if err != nil {
		return WrapExitError(ExitCommandError, what, err)
	}

	delta, err := app.Economy.ApplyBonusDelta(ctx, len(before.Practices), len(after.Practices))
	if err != nil {
		return WrapExitError(ExitCommandError, "apply bonus", err)
	}

	current, err := app.CurrentStreak(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "compute streak", err)
	}

	result := logResult{
		Date:       date,
		Practices:  after.Practices,
		BonusDelta: delta,
		Streak:     current,
	}

	text := fmt.Sprintf("Updated %s: %d distinct practices.\n", date, len(after.Practices))
	return out.Print(result, text)
}
