package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vrata-app/vrata/internal/economy"
)

// statsResult is the machine-readable output of the stats command.
type statsResult struct {
	Streak          int      `json:"streak"`
	LongestStreak   int      `json:"longest_streak"`
	BonusPoints     int      `json:"bonus_points"`
	StoredPractices int      `json:"stored_practices"`
	StoredCap       int      `json:"stored_cap"`
	GraceDaysSpent  []string `json:"grace_days_spent"`
	LastRefresh     string   `json:"last_refresh"`
}

// NewStatsCommand creates the "stats" command: current counters at a
// glance. Reading stats can itself replenish the monthly stored practice.
func NewStatsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show streak, bonus points, and stored practices",
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

			result := statsResult{
				Streak:          current,
				LongestStreak:   st.LongestStreak,
				BonusPoints:     st.BonusPoints,
				StoredPractices: st.StoredPractices,
				StoredCap:       economy.StoredPracticeCap,
				GraceDaysSpent:  st.StoredPracticeUses,
				LastRefresh:     st.LastStoredPracticeRefresh,
			}

			return out.Print(result, renderStats(result))
		},
	}
}

// renderStats formats the counters as aligned text.
func renderStats(r statsResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Streak:            %s (longest %d)\n", plural(r.Streak, "day"), r.LongestStreak)
	fmt.Fprintf(&b, "Bonus points:      %d\n", r.BonusPoints)
	fmt.Fprintf(&b, "Stored practices:  %d / %d\n", r.StoredPractices, r.StoredCap)
	fmt.Fprintf(&b, "Grace days spent:  %d\n", len(r.GraceDaysSpent))
	fmt.Fprintf(&b, "Last refresh:      %s\n", r.LastRefresh)
	return b.String()
}
