package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newTranslateCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "translate <text...>",
		Short: "Translate text between the selected languages",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")

			translated, err := app.translateStep(cmd.Context(), text, app.source, app.target)
			if err != nil {
				return app.notify(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), translated)

			if app.copyResult {
				if err := app.copyStep(cmd.Context(), translated); err != nil {
					app.log().Warn("failed to copy translation to clipboard", zap.Error(err))
					return nil
				}
				app.log().Info("translation copied to clipboard")
			}
			return nil
		},
	}
}
