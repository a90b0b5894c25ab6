package ports

import (
	"context"

	"github.com/dwjc/job-connector/internal/core/domain"
)

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByIDs returns the users that exist among ids, keyed by id.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)
	FindByRole(ctx context.Context, role string) ([]*domain.User, error)
	UpdateName(ctx context.Context, id, name string) error
}
