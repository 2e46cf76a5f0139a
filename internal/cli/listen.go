package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListenCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Capture one utterance and print the recognized text",
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := app.captureStep(cmd.Context(), app.source)
			if err != nil {
				return app.notify(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
