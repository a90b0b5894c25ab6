package ports

import (
	"context"

	"github.com/dwjc/job-connector/internal/core/domain"
)

type WishlistRepository interface {
	Find(ctx context.Context, userID, jobID string) (*domain.WishlistEntry, error)
	Create(ctx context.Context, entry *domain.WishlistEntry) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]*domain.WishlistEntry, error)
	DeleteByJob(ctx context.Context, jobID string) error
}
