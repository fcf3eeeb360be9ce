package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mordensafety/admin-console/internal/api/metrics"
	"github.com/mordensafety/admin-console/internal/core/domain"
	"github.com/mordensafety/admin-console/internal/core/ports"
)

// CartService is the ledger behind the "cart" storage key. Every call is a
// full read-modify-write under mu.
type CartService struct {
	store ports.KeyValueStore
	log   zerolog.Logger
	mu    sync.Mutex
}

var _ ports.CartLedger = (*CartService)(nil)

func NewCartService(store ports.KeyValueStore, log zerolog.Logger) *CartService {
	return &CartService{
		store: store,
		log:   log.With().Str("component", "cart").Logger(),
	}
}

// Add increments product's quantity or inserts a snapshot of it. A
// non-positive quantity leaves the cart untouched.
func (s *CartService) Add(ctx context.Context, product domain.Product, quantity int) ([]domain.CartEntry, error) {
	return s.mutate(ctx, "add", func(c *domain.Cart) bool {
		if quantity <= 0 {
			s.log.Debug().Str("product_id", product.ID.String()).Int("quantity", quantity).Msg("ignoring non-positive add")
		}
		return c.Add(product, quantity)
	})
}

// UpdateQuantity sets an absolute quantity; zero or less removes the entry.
func (s *CartService) UpdateQuantity(ctx context.Context, productID domain.ID, quantity int) ([]domain.CartEntry, error) {
	return s.mutate(ctx, "update", func(c *domain.Cart) bool {
		return c.SetQuantity(productID, quantity)
	})
}

func (s *CartService) Remove(ctx context.Context, productID domain.ID) ([]domain.CartEntry, error) {
	return s.mutate(ctx, "remove", func(c *domain.Cart) bool {
		return c.Remove(productID)
	})
}

func (s *CartService) Clear(ctx context.Context) error {
	_, err := s.mutate(ctx, "clear", func(c *domain.Cart) bool {
		c.Clear()
		return true
	})
	return err
}

func (s *CartService) Entries(ctx context.Context) ([]domain.CartEntry, error) {
	cart, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return cart.Entries(), nil
}

func (s *CartService) Total(ctx context.Context) (decimal.Decimal, error) {
	cart, err := s.load(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return cart.Total(), nil
}

func (s *CartService) Count(ctx context.Context) (int, error) {
	cart, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	return cart.Count(), nil
}

// mutate loads the cart, applies fn and persists only when fn changed it.
func (s *CartService) mutate(ctx context.Context, op string, fn func(*domain.Cart) bool) ([]domain.CartEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if !fn(cart) {
		metrics.CartOperationsTotal.WithLabelValues(op, "noop").Inc()
		return cart.Entries(), nil
	}

	raw, err := json.Marshal(cart)
	if err != nil {
		return nil, fmt.Errorf("cart %s: encode: %w", op, err)
	}
	if err := s.store.Set(ctx, ports.KeyCart, string(raw)); err != nil {
		return nil, fmt.Errorf("cart %s: persist: %w", op, err)
	}
	metrics.CartOperationsTotal.WithLabelValues(op, "applied").Inc()
	return cart.Entries(), nil
}

// load treats a missing or corrupt stored cart as empty; a corrupt one is
// replaced on the next write.
func (s *CartService) load(ctx context.Context) (*domain.Cart, error) {
	raw, err := s.store.Get(ctx, ports.KeyCart)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return domain.NewCart(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cart: read: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		s.log.Warn().Err(err).Msg("stored cart unparseable, starting empty")
		return domain.NewCart(nil), nil
	}
	return &cart, nil
}
