package ports

import (
	"context"

	"github.com/mordensafety/admin-console/internal/core/domain"
)

type NotificationService interface {
	List(ctx context.Context) (*domain.NotificationList, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, id domain.ID) error
	MarkAllRead(ctx context.Context) (int, error)
}
