package ports

import (
	"context"

	"github.com/dwjc/job-connector/internal/core/domain"
)

type NotificationService interface {
	List(ctx context.Context, actor domain.Identity) ([]*domain.Notification, error)
	MarkAllRead(ctx context.Context, actor domain.Identity) (int64, error)
	UnreadCount(ctx context.Context, actor domain.Identity) (int64, error)
}
