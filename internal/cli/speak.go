package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newSpeakCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "speak <text...>",
		Short: "Synthesize text in the target language and play it back",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer app.shutdown()

			stop := phaseSpinner(app.progressEnabled(), "Synthesizing")
			_, err := app.speakStep(cmd.Context(), strings.Join(args, " "), app.target)
			stop()
			if err != nil {
				return app.notify(err)
			}

			// Hold the process open until the audio has been heard.
			if app.player != nil {
				app.player.Drain()
			}
			return nil
		},
	}
}
