package ports

import (
	"context"

	"github.com/dwjc/job-connector/internal/core/domain"
)

// SignupInput carries the validated signup form.
type SignupInput struct {
	Name         string
	Email        string
	Password     string
	Role         string
	ProfilePhoto string // stored path, optional
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// ParseToken validates a signed token and returns the identity it carries.
	ParseToken(token string) (domain.Identity, error)
}
