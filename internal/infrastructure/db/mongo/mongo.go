package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultTimeout = 10 * time.Second
	appName        = "morden-console"
)

// Config selects the deployment and database holding client state.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect dials the deployment and pings the primary before returning the
// database. The client is reachable through Database.Client.
func Connect(ctx context.Context, cfg Config) (*mongo.Database, error) {
	if cfg.Database == "" {
		return nil, errors.New("mongo: database name is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("mongo options: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping %s: %w", cfg.Database, err)
	}
	return client.Database(cfg.Database), nil
}
