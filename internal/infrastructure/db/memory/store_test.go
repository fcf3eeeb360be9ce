package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mordensafety/admin-console/internal/infrastructure/db/storetest"
)

func TestStore_Contract(t *testing.T) {
	storetest.Run(t, NewStore())
}

func TestStore_ClosedRejectsCalls(t *testing.T) {
	s := NewStore()
	assert.NoError(t, s.Close())

	ctx := context.Background()
	assert.Error(t, s.Ping(ctx))
	assert.Error(t, s.Set(ctx, "token", "T"))
	_, err := s.Get(ctx, "token")
	assert.Error(t, err)
}
