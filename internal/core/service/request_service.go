package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/mordensafety/admin-console/internal/core/domain"
	"github.com/mordensafety/admin-console/internal/core/ports"
)

// RequestService handles service requests (inspections, refills, installs).
type RequestService struct {
	gateway  ports.Gateway
	validate *inputValidator
	log      zerolog.Logger
}

var _ ports.RequestService = (*RequestService)(nil)

func NewRequestService(gateway ports.Gateway, log zerolog.Logger) *RequestService {
	return &RequestService{
		gateway:  gateway,
		validate: newInputValidator(),
		log:      log.With().Str("component", "requests").Logger(),
	}
}

type requestList struct {
	Requests []domain.ServiceRequest `json:"requests"`
}

func (s *RequestService) ListAll(ctx context.Context) ([]domain.ServiceRequest, error) {
	var out requestList
	if err := getJSON(ctx, s.gateway, "/api/requests", nil, &out); err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return out.Requests, nil
}

func (s *RequestService) ListMine(ctx context.Context) ([]domain.ServiceRequest, error) {
	var out requestList
	if err := getJSON(ctx, s.gateway, "/api/requests/my-requests", nil, &out); err != nil {
		return nil, fmt.Errorf("list my requests: %w", err)
	}
	return out.Requests, nil
}

func (s *RequestService) Create(ctx context.Context, input ports.CreateRequestInput) (*domain.ServiceRequest, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	var out domain.ServiceRequest
	if err := sendJSON(ctx, s.gateway, http.MethodPost, "/api/requests", input, &out); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return &out, nil
}

func (s *RequestService) UpdateStatus(ctx context.Context, id domain.ID, status domain.RequestStatus) error {
	if !status.Valid() {
		return fmt.Errorf("update request %s: %w: unknown status %q", id, domain.ErrInvalidInput, status)
	}
	body := map[string]domain.RequestStatus{"status": status}
	if err := sendJSON(ctx, s.gateway, http.MethodPut, "/api/requests/"+url.PathEscape(id.String()), body, nil); err != nil {
		return fmt.Errorf("update request %s: %w", id, err)
	}
	s.log.Info().Str("request_id", id.String()).Str("status", string(status)).Msg("request status updated")
	return nil
}

func (s *RequestService) Receipt(ctx context.Context, id domain.ID) (*domain.Receipt, error) {
	var out domain.Receipt
	if err := getJSON(ctx, s.gateway, "/api/requests/"+url.PathEscape(id.String())+"/receipt", nil, &out); err != nil {
		return nil, fmt.Errorf("receipt for request %s: %w", id, err)
	}
	return &out, nil
}
