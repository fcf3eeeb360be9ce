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

// NotificationService reads notifications and routes "mark read" requests.
// It holds no notification state of its own.
type NotificationService struct {
	gateway ports.Gateway
	log     zerolog.Logger
}

var _ ports.NotificationService = (*NotificationService)(nil)

func NewNotificationService(gateway ports.Gateway, log zerolog.Logger) *NotificationService {
	return &NotificationService{
		gateway: gateway,
		log:     log.With().Str("component", "notifications").Logger(),
	}
}

func (s *NotificationService) List(ctx context.Context) (*domain.NotificationList, error) {
	var out domain.NotificationList
	if err := getJSON(ctx, s.gateway, "/api/notifications", nil, &out); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return &out, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context) (int, error) {
	list, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(list.Unread()), nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id domain.ID) error {
	path := "/api/notifications/" + url.PathEscape(id.String()) + "/read"
	if _, err := s.gateway.Send(ctx, ports.Request{Method: http.MethodPut, Path: path}); err != nil {
		return fmt.Errorf("mark notification %s read: %w", id, err)
	}
	return nil
}

// MarkAllRead marks unread notifications one at a time, oldest listing order
// first, and stops at the first failure. It returns how many were marked.
func (s *NotificationService) MarkAllRead(ctx context.Context) (int, error) {
	list, err := s.List(ctx)
	if err != nil {
		return 0, err
	}

	marked := 0
	for _, n := range list.Unread() {
		if err := s.MarkRead(ctx, n.ID); err != nil {
			return marked, err
		}
		marked++
	}
	s.log.Debug().Int("marked", marked).Msg("notifications marked read")
	return marked, nil
}
