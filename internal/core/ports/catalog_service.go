package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mordensafety/admin-console/internal/core/domain"
)

// ProductFilter narrows product listings. Zero values take the backend
// defaults: available only, page 1, 20 per page.
type ProductFilter struct {
	Category   string
	IncludeAll bool
	Page       int
	Limit      int
}

// ProductInput is the multipart body for product create/update.
type ProductInput struct {
	Name           string `validate:"required"`
	Description    string
	Category       string `validate:"required"`
	Price          decimal.Decimal
	StockQuantity  int `validate:"gte=0"`
	Specifications string
	IsAvailable    bool
	ExistingImages []string
	NewImages      []FormFile
	OnProgress     func(percent int)
}

type ProductService interface {
	List(ctx context.Context, filter ProductFilter) (*domain.ProductList, error)
	ListAdmin(ctx context.Context, filter ProductFilter) (*domain.ProductList, error)
	Get(ctx context.Context, id domain.ID) (*domain.Product, error)
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id domain.ID, input ProductInput) (*domain.Product, error)
	SetAvailability(ctx context.Context, id domain.ID, available bool) error
	Delete(ctx context.Context, id domain.ID) error
}

// UploadResult is the body of POST /api/upload.
type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename,omitempty"`
}

type UploadService interface {
	Upload(ctx context.Context, file FormFile, onProgress func(percent int)) (*UploadResult, error)
}
