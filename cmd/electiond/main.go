// Command electiond runs the election API and its maintenance tasks.
//
//	@title						Election API
//	@version					1.0
//	@description				Role-based election management: elections, candidates, one-vote-per-voter casting and result aggregation.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/ballotworks/election-api/internal/infrastructure/config"
	"github.com/ballotworks/election-api/pkg/logger"
)

const programName = "electiond"

var globalFlags = struct {
	debug bool
}{}

type configKey struct{}

func configFrom(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(configKey{}).(*config.Config)
	return cfg
}

// commonRun initialises the logger and GOMAXPROCS for any subcommand.
func commonRun(cfg *config.Config) zerolog.Logger {
	level := cfg.LogLevel
	if globalFlags.debug {
		level = "debug"
	}
	log := logger.Init(logger.Options{
		Level:   level,
		Pretty:  !cfg.IsProduction(),
		Service: programName,
		Env:     cfg.Env,
	})

	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		log.Debug().Msgf(format, args...)
	})); err != nil {
		log.Warn().Err(err).Msg("failed to set GOMAXPROCS")
	}
	return log
}

func main() {
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Election management API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().
		BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
		return nil
	}

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(migrateCommand())
	rootCmd.AddCommand(createUserCommand())
	rootCmd.AddCommand(generateResultsCommand())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", programName, err)
		stop()
		os.Exit(1)
	}
}
