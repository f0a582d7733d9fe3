package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// streakResult is the machine-readable output of the streak command.
type streakResult struct {
	Streak        int `json:"streak"`
	LongestStreak int `json:"longest_streak"`
}

// NewStreakCommand creates the "streak" command.
func NewStreakCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show the current consecutive-day streak",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutputFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			ctx := cmd.Context()

			app, err := openApp(ctx, opts, out)
			if err != nil {
				return err
			}
			defer app.Close()
			printAutouseNotice(out, app.AutouseNotice)

			current, err := app.CurrentStreak(ctx)
			if err != nil {
				return WrapExitError(ExitCommandError, "compute streak", err)
			}

			st, err := app.Economy.Stats(ctx)
			if err != nil {
				return WrapExitError(ExitCommandError, "read stats", err)
			}

			result := streakResult{Streak: current, LongestStreak: st.LongestStreak}
			text := fmt.Sprintf("Current streak: %s (longest %d)\n", plural(current, "day"), st.LongestStreak)
			return out.Print(result, text)
		},
	}
}
