package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mordensafety/admin-console/internal/core/domain"
)

// CartLedger is the locally persisted cart. Misuse (bad quantity, unknown
// product) is a no-op; only storage failures are returned as errors.
type CartLedger interface {
	Add(ctx context.Context, product domain.Product, quantity int) ([]domain.CartEntry, error)
	UpdateQuantity(ctx context.Context, productID domain.ID, quantity int) ([]domain.CartEntry, error)
	Remove(ctx context.Context, productID domain.ID) ([]domain.CartEntry, error)
	Clear(ctx context.Context) error
	Entries(ctx context.Context) ([]domain.CartEntry, error)
	Total(ctx context.Context) (decimal.Decimal, error)
	Count(ctx context.Context) (int, error)
}
