package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vrata-app/vrata/internal/economy"
)

// NewConvertCommand creates the "convert" command: trade bonus points for
// a stored practice.
func NewConvertCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "convert",
		Short: fmt.Sprintf("Convert %d bonus points into one stored practice", economy.ConversionCost),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutputFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			ctx := cmd.Context()

			app, err := openApp(ctx, opts, out)
			if err != nil {
				return err
			}
			defer app.Close()
			printAutouseNotice(out, app.AutouseNotice)

			ok, err := app.Economy.ConvertBonusToStored(ctx)
			if err != nil {
				return WrapExitError(ExitCommandError, "convert", err)
			}
			if !ok {
				st, err := app.Economy.Stats(ctx)
				if err != nil {
					return WrapExitError(ExitCommandError, "read stats", err)
				}
				if st.StoredPractices >= economy.StoredPracticeCap {
					return NewExitError(ExitFailure, "stored practices already at the cap")
				}
				return NewExitError(ExitFailure, fmt.Sprintf(
					"not enough bonus points: have %d, need %d", st.BonusPoints, economy.ConversionCost))
			}

			st, err := app.Economy.Stats(ctx)
			if err != nil {
				return WrapExitError(ExitCommandError, "read stats", err)
			}

			text := fmt.Sprintf("Converted: %d stored practices, %d bonus points left.\n",
				st.StoredPractices, st.BonusPoints)
			return out.Print(st, text)
		},
	}
}
