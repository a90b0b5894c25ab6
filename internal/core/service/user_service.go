package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dwjc/job-connector/internal/core/domain"
	"github.com/dwjc/job-connector/internal/core/ports"
)

type UserService struct {
	repo ports.UserRepository
}

func NewUserService(repo ports.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Profile(ctx context.Context, actor domain.Identity) (*domain.User, error) {
	u, err := s.repo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return u, nil
}

func (s *UserService) Rename(ctx context.Context, actor domain.Identity, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if err := s.repo.UpdateName(ctx, actor.ID, name); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
