package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/sync/errgroup"

	"github.com/ballotworks/election-api/internal/api"
	"github.com/ballotworks/election-api/internal/api/handler"
)

const shutdownTimeout = 15 * time.Second

func serveCommand() *cobra.Command {
	var skipMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig(cmd.Context())
			if err != nil {
				return err
			}
			log := commonRun(cfg)
			ctx := cmd.Context()

			a, err := openApp(ctx, cfg, log, !skipMigrate)
			if err != nil {
				return err
			}
			defer a.close()

			e := api.NewRouter(api.Dependencies{
				Log:       log,
				Auth:      a.authService,
				Users:     a.userService,
				Geography: a.geographyService,
				Elections: a.electionService,
				Votes:     a.voteService,
				Results:   a.resultService,
				Audit:     a.auditService,
				HealthChecks: map[string]handler.HealthCheck{
					"postgres": a.pool.Ping,
					"mongodb": func(ctx context.Context) error {
						return a.mongoClient.Ping(ctx, readpref.Primary())
					},
					"redis": func(ctx context.Context) error {
						return a.redis.Ping(ctx).Err()
					},
				},
				Swagger: !cfg.IsProduction(),
			})

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
				if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				log.Info().Msg("shutting down http server")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return e.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not apply the schema before serving")
	return cmd
}
