// Package db selects and opens the KeyValueStore backend named by the
// configuration.
package db

import (
	"context"
	"fmt"

	"github.com/mordensafety/admin-console/internal/core/ports"
	"github.com/mordensafety/admin-console/internal/infrastructure/config"
	"github.com/mordensafety/admin-console/internal/infrastructure/db/memory"
	mongostore "github.com/mordensafety/admin-console/internal/infrastructure/db/mongo"
	redisstore "github.com/mordensafety/admin-console/internal/infrastructure/db/redis"
	"github.com/mordensafety/admin-console/internal/infrastructure/db/sqlite"
)

// Open connects to the configured backend. The caller owns the store and must
// Close it.
func Open(ctx context.Context, cfg *config.Config) (ports.KeyValueStore, error) {
	switch cfg.Store.Backend {
	case config.StoreSQLite:
		store, err := sqlite.Open(ctx, sqlite.Config{Path: cfg.SQLite.Path, Profile: cfg.Profile})
		if err != nil {
			return nil, err
		}
		return store, nil

	case config.StoreRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return redisstore.NewStore(client, cfg.Profile), nil

	case config.StoreMongo:
		database, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, err
		}
		return mongostore.NewStore(database, cfg.Profile), nil

	case config.StoreMemory:
		return memory.NewStore(), nil
	}
	return nil, fmt.Errorf("db: unknown store backend %q", cfg.Store.Backend)
}
