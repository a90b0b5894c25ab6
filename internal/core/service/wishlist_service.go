package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dwjc/job-connector/internal/core/domain"
	"github.com/dwjc/job-connector/internal/core/ports"
)

type WishlistService struct {
	entries ports.WishlistRepository
	jobs    ports.JobRepository
	log     zerolog.Logger
}

func NewWishlistService(entries ports.WishlistRepository, jobs ports.JobRepository, log zerolog.Logger) *WishlistService {
	return &WishlistService{entries: entries, jobs: jobs, log: log}
}

// Toggle removes the worker's entry for jobID if one exists, otherwise adds
// one when the job is open. A missing or non-open job is a silent no-op.
func (s *WishlistService) Toggle(ctx context.Context, actor domain.Identity, jobID string) (bool, error) {
	if !actor.IsWorker() {
		return false, domain.ErrForbidden
	}

	existing, err := s.entries.Find(ctx, actor.ID, jobID)
	switch {
	case err == nil:
		if err := s.entries.Delete(ctx, existing.ID); err != nil {
			return true, fmt.Errorf("wishlist remove: %w", err)
		}
		return false, nil
	case !errors.Is(err, domain.ErrWishlistEntryNotFound):
		return false, fmt.Errorf("wishlist lookup: %w", err)
	}

	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("wishlist job lookup: %w", err)
	}
	if job.Status != domain.JobOpen {
		s.log.Debug().Str("job_id", jobID).Str("status", string(job.Status)).Msg("wishlist toggle ignored for non-open job")
		return false, nil
	}

	if err := s.entries.Create(ctx, &domain.WishlistEntry{
		UserID:    actor.ID,
		JobID:     jobID,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return false, fmt.Errorf("wishlist add: %w", err)
	}
	return true, nil
}

// List returns the worker's wishlisted jobs that still exist, newest entry first.
func (s *WishlistService) List(ctx context.Context, actor domain.Identity) ([]*domain.Job, error) {
	if !actor.IsWorker() {
		return nil, domain.ErrForbidden
	}

	entries, err := s.entries.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("wishlist list: %w", err)
	}

	jobs := make([]*domain.Job, 0, len(entries))
	for _, e := range entries {
		job, err := s.jobs.FindByID(ctx, e.JobID)
		if err != nil {
			if errors.Is(err, domain.ErrJobNotFound) {
				continue
			}
			return nil, fmt.Errorf("wishlist job lookup: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
