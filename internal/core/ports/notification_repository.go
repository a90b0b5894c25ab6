package ports

import (
	"context"

	"github.com/dwjc/job-connector/internal/core/domain"
)

// NotificationRepository handles in-app notification persistence.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	InsertMany(ctx context.Context, ns []*domain.Notification) error
	// ListByRecipient returns notifications newest first. limit <= 0 means all.
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]*domain.Notification, error)
	CountUnread(ctx context.Context, recipientID string) (int64, error)
	// MarkAllRead flags every unread notification of recipientID and returns how many changed.
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
}
