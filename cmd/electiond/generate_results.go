package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

func generateResultsCommand() *cobra.Command {
	var electionID, constituencyID string
	cmd := &cobra.Command{
		Use:   "generate-results",
		Short: "Recount an election and store the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig(cmd.Context())
			if err != nil {
				return err
			}
			log := commonRun(cfg)

			a, err := openApp(cmd.Context(), cfg, log, false)
			if err != nil {
				return err
			}
			defer a.close()

			result, err := a.resultService.GenerateResults(cmd.Context(), cliActor, electionID, constituencyID)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().StringVar(&electionID, "election", "", "election id")
	cmd.Flags().StringVar(&constituencyID, "constituency", "", "restrict to one constituency")
	_ = cmd.MarkFlagRequired("election")
	return cmd
}
