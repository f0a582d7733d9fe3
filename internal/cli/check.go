package cli

import (
	"github.com/spf13/cobra"
)

// NewCheckCommand creates the "check" command: run the daily
// reconciliation explicitly. Every command already runs it on startup;
// this one exists to script it (cron, shell profile) and see the result.
func NewCheckCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run the once-per-day missed-practice check",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutputFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			ctx := cmd.Context()

			app, err := openApp(ctx, opts, out)
			if err != nil {
				return err
			}
			defer app.Close()

			notice := app.AutouseNotice
			if out.JSON() {
				return out.Print(notice, "")
			}
			if notice.Applied {
				printAutouseNotice(out, notice)
				return nil
			}
			_, err = out.Writer.Write([]byte("Nothing to do: today is already checked or yesterday was covered.\n"))
			return err
		},
	}
}
