package main

import (
	"github.com/spf13/cobra"

	"github.com/ballotworks/election-api/internal/infrastructure/db/postgres"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the PostgreSQL schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig(cmd.Context())
			if err != nil {
				return err
			}
			log := commonRun(cfg)

			a, err := openStore(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			if err := postgres.Migrate(cmd.Context(), a.pool); err != nil {
				return err
			}
			log.Info().Msg("schema up to date")
			return nil
		},
	}
}
