package ports

import (
	"context"

	"github.com/mordensafety/admin-console/internal/core/domain"
)

// CreateRequestInput is the body of POST /api/requests.
type CreateRequestInput struct {
	ServiceType      string `json:"service_type" validate:"required"`
	ExtinguisherType string `json:"extinguisher_type,omitempty"`
	Description      string `json:"description,omitempty"`
	Address          string `json:"address" validate:"required"`
}

type RequestService interface {
	ListAll(ctx context.Context) ([]domain.ServiceRequest, error)
	ListMine(ctx context.Context) ([]domain.ServiceRequest, error)
	Create(ctx context.Context, input CreateRequestInput) (*domain.ServiceRequest, error)
	UpdateStatus(ctx context.Context, id domain.ID, status domain.RequestStatus) error
	Receipt(ctx context.Context, id domain.ID) (*domain.Receipt, error)
}
