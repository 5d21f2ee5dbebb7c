package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/ballotworks/election-api/internal/core/service"
	"github.com/ballotworks/election-api/internal/infrastructure/config"
	"github.com/ballotworks/election-api/internal/infrastructure/db/mongo"
	"github.com/ballotworks/election-api/internal/infrastructure/db/postgres"
	"github.com/ballotworks/election-api/internal/infrastructure/db/redis"
	"github.com/ballotworks/election-api/internal/infrastructure/queue"
	"github.com/ballotworks/election-api/pkg/logger"
)

// app holds the open connections and the wired services shared by all
// subcommands.
type app struct {
	cfg *config.Config
	log zerolog.Logger

	pool         *pgxpool.Pool
	stopEmbedded func() error
	mongoClient  *mongodriver.Client
	mongoDB      *mongodriver.Database
	redis        *goredis.Client

	audit *queue.Dispatcher

	authService      *service.AuthService
	userService      *service.UserService
	geographyService *service.GeographyService
	electionService  *service.ElectionService
	voteService      *service.VoteService
	resultService    *service.ResultService
	auditService     *service.AuditService
}

// openStore connects to PostgreSQL only; enough for migrate.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	url := cfg.Postgres.URL
	if cfg.Postgres.Embedded {
		embeddedURL, stop, err := postgres.StartEmbedded(postgres.EmbeddedConfig{
			Port:     cfg.Postgres.EmbeddedPort,
			DataPath: cfg.Postgres.EmbeddedData,
		})
		if err != nil {
			return nil, err
		}
		a.stopEmbedded = stop
		url = embeddedURL
		log.Warn().Uint32("port", cfg.Postgres.EmbeddedPort).Msg("using embedded postgres")
	}

	pool, err := postgres.Connect(ctx, postgres.Config{URL: url, MaxConns: cfg.Postgres.MaxConns})
	if err != nil {
		a.close()
		return nil, err
	}
	a.pool = pool
	return a, nil
}

// openApp connects every backing store and wires the services. The schema is
// applied first when migrate is set; an embedded database is always migrated.
func openApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, migrate bool) (*app, error) {
	a, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if migrate || cfg.Postgres.Embedded {
		if err := postgres.Migrate(ctx, a.pool); err != nil {
			a.close()
			return nil, err
		}
	}

	a.mongoClient, a.mongoDB, err = mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		a.close()
		return nil, err
	}
	auditRepo := mongo.NewAuditRepository(a.mongoDB)
	if err := auditRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("audit indexes not created")
	}

	a.redis, err = redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		a.close()
		return nil, err
	}

	users := postgres.NewUserRepository(a.pool)
	elections := postgres.NewElectionRepository(a.pool)
	candidates := postgres.NewCandidateRepository(a.pool)
	geography := postgres.NewGeographyRepository(a.pool)
	votes := postgres.NewVoteRepository(a.pool)
	results := postgres.NewResultRepository(a.pool)

	a.audit = queue.NewDispatcher(cfg.Audit.Workers, auditRepo, logger.Component("audit"))
	a.audit.Start(context.WithoutCancel(ctx))

	throttle := redis.NewLoginThrottle(a.redis, cfg.Login.MaxFailures, cfg.Login.Window)
	cache := redis.NewResultCache(a.redis, cfg.Redis.ResultCacheTTL)

	a.authService = service.NewAuthService(users, geography, throttle, a.audit, cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth"))
	a.userService = service.NewUserService(users, geography, a.audit, logger.Component("users"))
	a.geographyService = service.NewGeographyService(geography)
	a.electionService = service.NewElectionService(elections, candidates, geography, a.audit, logger.Component("elections"))
	a.voteService = service.NewVoteService(elections, candidates, users, geography, votes, a.audit, logger.Component("votes"))
	a.resultService = service.NewResultService(elections, geography, results, cache, a.audit, logger.Component("results"))
	a.auditService = service.NewAuditService(auditRepo)

	return a, nil
}

// close drains the audit queue and then closes connections in reverse order.
func (a *app) close() {
	if a.audit != nil {
		a.audit.Close()
	}
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.mongoClient != nil {
		errs = append(errs, a.mongoClient.Disconnect(context.Background()))
	}
	if a.pool != nil {
		a.pool.Close()
	}
	if a.stopEmbedded != nil {
		errs = append(errs, a.stopEmbedded())
	}
	if err := errors.Join(errs...); err != nil {
		a.log.Warn().Err(err).Msg("shutdown")
	}
}

func requireConfig(ctx context.Context) (*config.Config, error) {
	cfg := configFrom(ctx)
	if cfg == nil {
		return nil, fmt.Errorf("no config found in context")
	}
	return cfg, nil
}
