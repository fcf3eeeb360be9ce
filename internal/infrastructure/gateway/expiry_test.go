package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mordensafety/admin-console/internal/core/domain"
	"github.com/mordensafety/admin-console/internal/core/ports"
	"github.com/mordensafety/admin-console/internal/core/service"
	"github.com/mordensafety/admin-console/internal/infrastructure/db/memory"
)

type countingNavigator struct{ calls atomic.Int32 }

func (n *countingNavigator) ToLogin(context.Context) { n.calls.Add(1) }

func TestSend_ConcurrentUnauthorizedLeavesSessionAnonymous(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Token expired"}`))
	}))
	t.Cleanup(srv.Close)

	ctx := context.Background()
	store := memory.NewStore()
	sessions := service.NewSessionService(store, zerolog.Nop())
	_, err := sessions.Login(ctx, "T1", domain.User{ID: "1", Email: "ana@morden.test", Role: domain.RoleAdmin})
	require.NoError(t, err)

	nav := &countingNavigator{}
	g, err := NewAuthenticated(Config{BaseURL: srv.URL}, sessions, nav, zerolog.Nop())
	require.NoError(t, err)

	const callers = 20
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = g.Send(ctx, ports.Request{Path: "/api/orders"})
		}()
	}
	wg.Wait()

	for i, err := range errs {
		assert.ErrorIs(t, err, domain.ErrSessionExpired, "caller %d", i)
	}

	_, ok := sessions.CurrentToken(ctx)
	assert.False(t, ok)
	assert.Equal(t, domain.SessionAnonymous, sessions.Restore(ctx).State)

	_, err = store.Get(ctx, ports.KeyToken)
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	_, err = store.Get(ctx, ports.KeyUser)
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	assert.Positive(t, nav.calls.Load())
}
