package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`
	Workers   int    `env:"WORKERS,    default=4"`

	Session   SessionConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Webhook   WebhookConfig
	Pages     PagesConfig
	Bootstrap BootstrapConfig
}

type SessionConfig struct {
	JWTSecret  string        `env:"JWT_SECRET"`
	CookieName string        `env:"SESSION_COOKIE, default=portal_session"`
	TTL        time.Duration `env:"SESSION_TTL,    default=24h"`
	// AuthRate is the per-client requests per second on login and register.
	AuthRate  float64 `env:"AUTH_RATE,  default=1"`
	AuthBurst int     `env:"AUTH_BURST, default=5"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=portal"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type WebhookConfig struct {
	// Secret is the "whsec_" signing secret. Empty disables the endpoint.
	Secret   string        `env:"WEBHOOK_SECRET"`
	DedupTTL time.Duration `env:"WEBHOOK_DEDUP_TTL, default=24h"`
}

type PagesConfig struct {
	// FrontendURL receives page requests the gate allows. Empty answers 204.
	FrontendURL string `env:"FRONTEND_URL"`
	LoginPath   string `env:"LOGIN_PATH, default=/login"`
	HomePath    string `env:"HOME_PATH,  default=/"`
}

type BootstrapConfig struct {
	RootAdminEmail    string `env:"ROOT_ADMIN_EMAIL"`
	RootAdminPassword string `env:"ROOT_ADMIN_PASSWORD"`
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks settings that have no safe default.
func (c *Config) Validate() error {
	if c.Session.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.IsProduction() && len(c.Session.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 bytes in production")
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

// LoadWith reads configuration from l.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
