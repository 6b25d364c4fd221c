package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/tweetfi/tweetfi-service/internal/api"
	"github.com/tweetfi/tweetfi-service/internal/api/handler"
	"github.com/tweetfi/tweetfi-service/internal/core/ports"
	"github.com/tweetfi/tweetfi-service/internal/core/service"
	"github.com/tweetfi/tweetfi-service/internal/infrastructure/accounts"
	"github.com/tweetfi/tweetfi-service/internal/infrastructure/db/mongo"
	redisstore "github.com/tweetfi/tweetfi-service/internal/infrastructure/db/redis"
	"github.com/tweetfi/tweetfi-service/internal/infrastructure/queue"
	"github.com/tweetfi/tweetfi-service/internal/infrastructure/twitter"
	"github.com/tweetfi/tweetfi-service/internal/pkg/config"
	"github.com/tweetfi/tweetfi-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "tweetfi",
	})

	// --- Storage ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	// --- Platform client ---
	client, err := twitter.NewClient(twitter.Config{
		BaseURL:       cfg.Twitter.BaseURL,
		BearerToken:   cfg.Twitter.BearerToken,
		RatePerSecond: cfg.Twitter.RatePerSecond,
		Burst:         cfg.Twitter.RateBurst,
		Timeout:       cfg.Twitter.HTTPTimeout,
	}, log)
	if err != nil {
		return err
	}
	defer client.Close()

	// --- Services ---
	tracked := accountSource(cfg, db)
	actions := service.NewActionService(client,
		redisstore.NewActionLedger(rdb, cfg.Dispatch.IdempotencyTTL),
		logger.Component("actions"))
	auth := service.NewAuthService(mongo.NewOperatorRepository(db), cfg.JWTSecret, 0)

	dispatcher := queue.NewDispatcher(cfg.Dispatch.Workers, actions, logger.Component("dispatcher"))
	dispatcher.Start(ctx)

	if n, err := tracked.Count(ctx); err != nil {
		log.Warn().Err(err).Msg("could not count tracked accounts")
	} else {
		log.Info().Int64("accounts", n).Str("source", cfg.Poll.Source).Msg("monitoring accounts")
	}

	if cfg.Poll.Enabled {
		poller := service.NewPoller(client, tracked, cfg.Poll.Interval, logger.Component("poller"))
		go poller.Run(ctx)
	} else {
		log.Info().Msg("polling disabled")
	}

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Log:          logger.Component("http"),
		JWTSecret:    cfg.JWTSecret,
		Auth:         auth,
		Actions:      actions,
		Queue:        dispatcher,
		Accounts:     tracked,
		Source:       cfg.Poll.Source,
		HealthChecks: healthChecks(mongoClient, rdb),
	})

	srvErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-srvErr:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	log.Info().Msg("bye")
	return nil
}

func accountSource(cfg *config.Config, db *mongodriver.Database) ports.AccountRepository {
	if cfg.Poll.Source == config.AccountSourceMongo {
		return mongo.NewAccountRepository(db)
	}
	return accounts.NewStatic(cfg.Poll.TargetUsers)
}

func healthChecks(mc *mongodriver.Client, rdb *redis.Client) map[string]handler.HealthCheck {
	return map[string]handler.HealthCheck{
		"mongodb": func(ctx context.Context) error { return mc.Ping(ctx, nil) },
		"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}
}
