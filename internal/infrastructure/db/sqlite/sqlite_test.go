package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mordensafety/admin-console/internal/infrastructure/db/storetest"
)

func openTemp(t *testing.T, path, profile string) *Store {
	t.Helper()
	s, err := Open(context.Background(), Config{Path: path, Profile: profile})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_Contract(t *testing.T) {
	storetest.Run(t, openTemp(t, filepath.Join(t.TempDir(), "state.db"), ""))
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	ctx := context.Background()

	first, err := Open(ctx, Config{Path: path})
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "token", "T1"))
	require.NoError(t, first.Close())

	second := openTemp(t, path, "")
	got, err := second.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "T1", got)
}

func TestStore_ProfilesAreIsolated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	a := openTemp(t, path, "alice")
	require.NoError(t, a.Set(ctx, "token", "TA"))

	b := openTemp(t, path, "bob")
	_, err := b.Get(ctx, "token")
	assert.Error(t, err)
}

func TestOpen_RejectsEmptyPath(t *testing.T) {
	_, err := Open(context.Background(), Config{})
	assert.Error(t, err)
}
