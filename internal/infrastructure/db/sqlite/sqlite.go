// Package sqlite is the default durable store: a single-file key/value table
// that survives between CLI invocations.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mordensafety/admin-console/internal/core/domain"
	"github.com/mordensafety/admin-console/internal/core/ports"
)

const schema = `CREATE TABLE IF NOT EXISTS client_state (
	profile    TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL,
	PRIMARY KEY (profile, key)
);`

// Config captures the settings for opening the state database.
type Config struct {
	Path    string
	Profile string
}

// Store implements ports.KeyValueStore on a SQLite table.
type Store struct {
	db      *sql.DB
	profile string
}

var _ ports.KeyValueStore = (*Store)(nil)

// Open creates the database file (and its directory) when missing and
// ensures the schema exists.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite: empty path")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("sqlite: create dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	profile := cfg.Profile
	if profile == "" {
		profile = "default"
	}
	return &Store{db: db, profile: profile}, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM client_state WHERE profile = ? AND key = ?`,
		s.profile, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("sqlite get %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO client_state (profile, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (profile, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.profile, key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite set %q: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM client_state WHERE profile = ? AND key = ?`,
		s.profile, key,
	)
	if err != nil {
		return fmt.Errorf("sqlite delete %q: %w", key, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
