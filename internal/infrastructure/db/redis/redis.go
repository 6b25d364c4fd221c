// Package redis holds the Redis-backed idempotency ledger for write actions.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultDialTimeout = 5 * time.Second
	defaultOpTimeout   = 2 * time.Second
)

// Config captures the settings for the Redis connection backing the ledger.
type Config struct {
	Addr        string
	DB          int
	DialTimeout time.Duration
}

// Connect opens a Redis client and pings it once. Ledger errors are treated
// as a miss by the action service, so per-command timeouts stay short.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	dial := cfg.DialTimeout
	if dial <= 0 {
		dial = defaultDialTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		DB:           cfg.DB,
		DialTimeout:  dial,
		ReadTimeout:  defaultOpTimeout,
		WriteTimeout: defaultOpTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dial)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}
