package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dwjc/job-connector/internal/api/metrics"
	"github.com/dwjc/job-connector/internal/core/domain"
	"github.com/dwjc/job-connector/internal/core/ports"
)

type JobService struct {
	jobs     ports.JobRepository
	users    ports.UserRepository
	wishlist ports.WishlistRepository
	effects  *JobEffects
	logger   zerolog.Logger
	now      func() time.Time
}

func NewJobService(
	jobs ports.JobRepository,
	users ports.UserRepository,
	wishlist ports.WishlistRepository,
	effects *JobEffects,
	logger zerolog.Logger,
) *JobService {
	return &JobService{
		jobs:     jobs,
		users:    users,
		wishlist: wishlist,
		effects:  effects,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *JobService) CreateJob(ctx context.Context, actor domain.Identity, in ports.JobInput) (*domain.Job, error) {
	if !actor.IsPoster() {
		return nil, domain.ErrForbidden
	}

	now := s.now()
	job := &domain.Job{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Wage:        in.Wage,
		Location:    strings.TrimSpace(in.Location),
		Deadline:    in.Deadline,
		Status:      domain.JobOpen,
		PostedBy:    actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		s.logger.Error().Err(err).Str("poster_id", actor.ID).Msg("failed to create job")
		return nil, fmt.Errorf("create job: %w", err)
	}

	metrics.JobsCreatedTotal.Inc()
	s.logger.Info().Str("job_id", job.ID).Str("poster_id", actor.ID).Msg("job created")

	s.effects.JobCreated(ctx, job)
	return job, nil
}

// GetForEdit loads a job for its edit form. Only the poster may edit.
func (s *JobService) GetForEdit(ctx context.Context, actor domain.Identity, id string) (*domain.Job, error) {
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if !actor.IsPoster() || !job.IsPostedBy(actor.ID) {
		return nil, domain.ErrForbidden
	}
	return job, nil
}

// UpdateJob overwrites the editable fields. Status and parties never change here.
func (s *JobService) UpdateJob(ctx context.Context, actor domain.Identity, id string, in ports.JobInput) (*domain.Job, error) {
	if _, err := s.GetForEdit(ctx, actor, id); err != nil {
		return nil, err
	}

	job, err := s.jobs.Update(ctx, id, actor.ID, domain.JobFields{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Wage:        in.Wage,
		Location:    strings.TrimSpace(in.Location),
		Deadline:    in.Deadline,
	}, s.now())
	if err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}

	s.logger.Info().Str("job_id", id).Msg("job updated")
	return job, nil
}

// Apply claims an open job for the acting worker. The status check and the
// write are a single conditional update, so concurrent applicants cannot both win.
func (s *JobService) Apply(ctx context.Context, actor domain.Identity, id string) (*domain.Job, error) {
	if !actor.IsWorker() {
		metrics.JobTransitionRejectedTotal.WithLabelValues("forbidden").Inc()
		return nil, domain.ErrForbidden
	}

	job, err := s.jobs.Apply(ctx, id, actor.ID, s.now())
	if err != nil {
		if errors.Is(err, domain.ErrJobNotOpen) {
			metrics.JobTransitionRejectedTotal.WithLabelValues("not_open").Inc()
		}
		return nil, fmt.Errorf("apply: %w", err)
	}

	metrics.JobTransitionsTotal.WithLabelValues(string(domain.JobActive)).Inc()
	s.logger.Info().Str("job_id", id).Str("worker_id", actor.ID).Msg("job applied")

	s.effects.JobApplied(ctx, job, actor)
	return job, nil
}

// Complete marks the job completed. Allowed for the poster (as user) or the
// applied worker (as worker), from open or active.
func (s *JobService) Complete(ctx context.Context, actor domain.Identity, id string) (*domain.Job, error) {
	current, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("complete: %w", err)
	}
	if !current.CanComplete(actor) {
		metrics.JobTransitionRejectedTotal.WithLabelValues("forbidden").Inc()
		return nil, domain.ErrForbidden
	}
	if !current.Status.CanTransitionTo(domain.JobCompleted) {
		metrics.JobTransitionRejectedTotal.WithLabelValues("already_completed").Inc()
		return nil, domain.ErrJobAlreadyCompleted
	}

	job, err := s.jobs.Complete(ctx, id, s.now())
	if err != nil {
		if errors.Is(err, domain.ErrJobAlreadyCompleted) {
			metrics.JobTransitionRejectedTotal.WithLabelValues("already_completed").Inc()
		}
		return nil, fmt.Errorf("complete: %w", err)
	}

	metrics.JobTransitionsTotal.WithLabelValues(string(domain.JobCompleted)).Inc()
	s.logger.Info().Str("job_id", id).Str("actor_id", actor.ID).Str("role", actor.Role).Msg("job completed")

	s.effects.JobCompleted(ctx, job)
	return job, nil
}

// DeleteJob removes a job owned by the acting poster. The applied worker, if
// any, is notified after the delete succeeds.
func (s *JobService) DeleteJob(ctx context.Context, actor domain.Identity, id string) error {
	job, err := s.GetForEdit(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.jobs.Delete(ctx, id, actor.ID); err != nil {
		return fmt.Errorf("delete job: %w", err)
	}

	metrics.JobTransitionsTotal.WithLabelValues("deleted").Inc()
	s.logger.Info().Str("job_id", id).Str("poster_id", actor.ID).Msg("job deleted")

	if err := s.wishlist.DeleteByJob(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("job_id", id).Msg("failed to clean wishlist entries")
	}
	s.effects.JobDeleted(ctx, job)
	return nil
}

// GetDetail returns the job with both parties. Only the poster (as user) or
// the applied worker (as worker) may view it.
func (s *JobService) GetDetail(ctx context.Context, actor domain.Identity, id string) (*ports.JobSummary, error) {
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if !job.CanView(actor) {
		return nil, domain.ErrForbidden
	}

	summaries, err := s.summarize(ctx, []*domain.Job{job}, true)
	if err != nil {
		return nil, err
	}
	return &summaries[0], nil
}

// ListActive returns the poster's open and active jobs, or the worker's active jobs.
func (s *JobService) ListActive(ctx context.Context, actor domain.Identity, query string) ([]ports.JobSummary, error) {
	var filter ports.JobFilter
	switch actor.Role {
	case domain.RolePoster:
		filter = ports.JobFilter{PostedBy: actor.ID, Statuses: []domain.JobStatus{domain.JobOpen, domain.JobActive}}
	case domain.RoleWorker:
		filter = ports.JobFilter{AppliedBy: actor.ID, Statuses: []domain.JobStatus{domain.JobActive}}
	default:
		return nil, domain.ErrForbidden
	}
	filter.Search = strings.TrimSpace(query)
	return s.list(ctx, filter)
}

// ListPast returns the actor's completed jobs.
func (s *JobService) ListPast(ctx context.Context, actor domain.Identity, query string) ([]ports.JobSummary, error) {
	var filter ports.JobFilter
	switch actor.Role {
	case domain.RolePoster:
		filter = ports.JobFilter{PostedBy: actor.ID}
	case domain.RoleWorker:
		filter = ports.JobFilter{AppliedBy: actor.ID}
	default:
		return nil, domain.ErrForbidden
	}
	filter.Statuses = []domain.JobStatus{domain.JobCompleted}
	filter.Search = strings.TrimSpace(query)
	filter.Sort = ports.SortRecentlyUpdated
	return s.list(ctx, filter)
}

// ListAvailable returns every open job with the ids the worker has wishlisted.
func (s *JobService) ListAvailable(ctx context.Context, actor domain.Identity, query string) (*ports.AvailableJobs, error) {
	if !actor.IsWorker() {
		return nil, domain.ErrForbidden
	}

	jobs, err := s.list(ctx, ports.JobFilter{
		Statuses: []domain.JobStatus{domain.JobOpen},
		Search:   strings.TrimSpace(query),
	})
	if err != nil {
		return nil, err
	}

	entries, err := s.wishlist.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.JobID)
	}

	return &ports.AvailableJobs{Jobs: jobs, WishlistIDs: ids}, nil
}

func (s *JobService) list(ctx context.Context, filter ports.JobFilter) ([]ports.JobSummary, error) {
	jobs, err := s.jobs.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return s.summarize(ctx, jobs, false)
}

// summarize attaches the display names of the parties. Emails are included
// only on the detail view.
func (s *JobService) summarize(ctx context.Context, jobs []*domain.Job, withEmail bool) ([]ports.JobSummary, error) {
	seen := make(map[string]struct{})
	ids := make([]string, 0, len(jobs)*2)
	for _, j := range jobs {
		for _, id := range []string{j.PostedBy, j.AppliedBy} {
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	users := map[string]*domain.User{}
	if len(ids) > 0 {
		var err error
		users, err = s.users.FindByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("load parties: %w", err)
		}
	}

	party := func(id string) *ports.Party {
		u, ok := users[id]
		if !ok {
			return nil
		}
		p := &ports.Party{ID: u.ID, Name: u.Name}
		if withEmail {
			p.Email = u.Email
		}
		return p
	}

	out := make([]ports.JobSummary, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, ports.JobSummary{Job: j, Poster: party(j.PostedBy), Worker: party(j.AppliedBy)})
	}
	return out, nil
}
