package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Account sources for the poller.
const (
	AccountSourceEnv   = "env"
	AccountSourceMongo = "mongo"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Twitter  TwitterConfig
	Poll     PollConfig
	Dispatch DispatchConfig
	Mongo    MongoConfig
	Redis    RedisConfig
}

type TwitterConfig struct {
	BearerToken   string        `env:"TWITTER_BEARER_TOKEN, required"`
	BaseURL       string        `env:"TWITTER_API_BASE_URL,    default=https://api.twitter.com/2"`
	RatePerSecond float64       `env:"TWITTER_RATE_PER_SECOND, default=1"`
	RateBurst     int           `env:"TWITTER_RATE_BURST,      default=5"`
	HTTPTimeout   time.Duration `env:"TWITTER_HTTP_TIMEOUT,    default=0s"`
}

type PollConfig struct {
	Enabled  bool          `env:"POLL_ENABLED,   default=true"`
	Interval time.Duration `env:"POLL_INTERVAL,  default=30s"`
	Source   string        `env:"ACCOUNT_SOURCE, default=env"`
	// TargetUsers is the static handle list used when Source is "env".
	TargetUsers []string `env:"TARGET_USERS"`
}

type DispatchConfig struct {
	Workers        int           `env:"DISPATCH_WORKERS, default=4"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL,  default=24h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=tweetfi"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// IsDevelopment reports whether human-friendly logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
// A missing bearer token or an unusable poll setting is an error.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Poll.Interval <= 0 {
		return nil, fmt.Errorf("config: POLL_INTERVAL must be positive, got %s", cfg.Poll.Interval)
	}
	switch cfg.Poll.Source {
	case AccountSourceEnv, AccountSourceMongo:
	default:
		return nil, fmt.Errorf("config: unknown ACCOUNT_SOURCE %q (use %q or %q)",
			cfg.Poll.Source, AccountSourceEnv, AccountSourceMongo)
	}
	return &cfg, nil
}
