package cli

import (
	"fmt"

	"github.com/AshayV04/Speech-to-Speech-Translator/internal/language"
	"github.com/spf13/cobra"
)

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the supported languages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, lang := range language.Supported {
				marker := ""
				switch lang {
				case language.DefaultSource():
					marker = "  (default source)"
				case language.DefaultTarget():
					marker = "  (default target)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s%s\n", lang.Name, lang.Code, marker)
			}
			return nil
		},
	}
}
