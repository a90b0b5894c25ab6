package ports

import (
	"context"

	"github.com/dwjc/job-connector/internal/core/domain"
)

// UserService covers the account settings page.
type UserService interface {
	Profile(ctx context.Context, actor domain.Identity) (*domain.User, error)
	// Rename sets the display name when it is non-blank after trimming.
	Rename(ctx context.Context, actor domain.Identity, name string) error
}
