package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Store backends accepted by MORDEN_STORE.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	APIURL       string        `env:"MORDEN_API_URL,       default=http://localhost:8000"`
	HTTPTimeout  time.Duration `env:"MORDEN_HTTP_TIMEOUT,  default=30s"`
	Env          string        `env:"MORDEN_ENV,           default=development"`
	LogLevel     string        `env:"MORDEN_LOG_LEVEL,     default=warn"`
	Profile      string        `env:"MORDEN_PROFILE,       default=default"`
	PollInterval time.Duration `env:"MORDEN_POLL_INTERVAL, default=30s"`
	WatchAddr    string        `env:"MORDEN_WATCH_ADDR"`

	Store  StoreConfig
	SQLite SQLiteConfig
	Mongo  MongoConfig
	Redis  RedisConfig
}

type StoreConfig struct {
	Backend string `env:"MORDEN_STORE, default=sqlite"`
}

type SQLiteConfig struct {
	// Path defaults to <user config dir>/morden/state.db.
	Path string `env:"MORDEN_SQLITE_PATH"`
}

type MongoConfig struct {
	URI      string `env:"MORDEN_MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MORDEN_MONGO_DB,  default=morden_console"`
}

type RedisConfig struct {
	Addr     string `env:"MORDEN_REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"MORDEN_REDIS_PASSWORD"`
	DB       int    `env:"MORDEN_REDIS_DB,       default=0"`
}

// Load reads an optional .env file from the working directory, then the
// process environment. Real environment variables win over .env entries.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Store.Backend == StoreSQLite && cfg.SQLite.Path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("config: resolve state dir: %w", err)
		}
		cfg.SQLite.Path = filepath.Join(dir, "morden", "state.db")
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case StoreSQLite, StoreRedis, StoreMongo, StoreMemory:
	default:
		return fmt.Errorf("config: unknown MORDEN_STORE %q", c.Store.Backend)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("config: MORDEN_HTTP_TIMEOUT must be positive")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("config: MORDEN_POLL_INTERVAL must be positive")
	}
	return nil
}

// IsProduction reports whether logs should be plain JSON.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
