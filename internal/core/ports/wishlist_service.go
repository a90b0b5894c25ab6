package ports

import (
	"context"

	"github.com/dwjc/job-connector/internal/core/domain"
)

type WishlistService interface {
	// Toggle removes an existing entry or adds one for an open job. It reports
	// whether the job is wishlisted afterwards.
	Toggle(ctx context.Context, actor domain.Identity, jobID string) (bool, error)
	List(ctx context.Context, actor domain.Identity) ([]*domain.Job, error)
}
