// Package storetest holds the behaviour every ports.KeyValueStore must share.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mordensafety/admin-console/internal/core/domain"
	"github.com/mordensafety/admin-console/internal/core/ports"
)

// Run exercises store against the KeyValueStore contract. The store must be
// empty for the storage keys when handed over.
func Run(t *testing.T, store ports.KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, store.Ping(ctx))
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(ctx, ports.KeyToken)
		assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, ports.KeyToken, "T1"))
		got, err := store.Get(ctx, ports.KeyToken)
		require.NoError(t, err)
		assert.Equal(t, "T1", got)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, ports.KeyToken, "T2"))
		got, err := store.Get(ctx, ports.KeyToken)
		require.NoError(t, err)
		assert.Equal(t, "T2", got)
	})

	t.Run("keys are independent", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, ports.KeyUser, `{"id":"u1","role":"admin"}`))
		require.NoError(t, store.Remove(ctx, ports.KeyToken))

		_, err := store.Get(ctx, ports.KeyToken)
		assert.ErrorIs(t, err, domain.ErrKeyNotFound)

		got, err := store.Get(ctx, ports.KeyUser)
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"u1","role":"admin"}`, got)
	})

	t.Run("remove missing key", func(t *testing.T) {
		require.NoError(t, store.Remove(ctx, ports.KeyCart))
		require.NoError(t, store.Remove(ctx, ports.KeyCart))
	})

	t.Run("empty value", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, ports.KeyCart, ""))
		got, err := store.Get(ctx, ports.KeyCart)
		require.NoError(t, err)
		assert.Empty(t, got)
		require.NoError(t, store.Remove(ctx, ports.KeyCart))
	})

	require.NoError(t, store.Remove(ctx, ports.KeyUser))
}
