package cmd

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func SuggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <description>",
		Short: "Suggest a planning hierarchy for a description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			suggestion, err := a.SuggestionService.Suggest(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(suggestion)
		},
	}
}
