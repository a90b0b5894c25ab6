package ports

import (
	"context"
	"time"

	"github.com/dwjc/job-connector/internal/core/domain"
)

// JobSort selects the ordering of a job query.
type JobSort int

const (
	SortNewest JobSort = iota // created_at desc
	SortRecentlyUpdated       // updated_at desc
)

// JobFilter carries all query parameters for listing jobs.
type JobFilter struct {
	PostedBy  string             // optional: jobs created by this poster
	AppliedBy string             // optional: jobs claimed by this worker
	Statuses  []domain.JobStatus // optional: any of these statuses
	Search    string             // optional: case-insensitive substring on title, description, location
	Limit     int                // 0 = no limit
	Sort      JobSort
}

// JobRepository defines persistence operations for jobs.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	FindByID(ctx context.Context, id string) (*domain.Job, error)
	Find(ctx context.Context, filter JobFilter) ([]*domain.Job, error)
	Count(ctx context.Context, filter JobFilter) (int64, error)
	// Update overwrites the editable fields of a job owned by posterID.
	Update(ctx context.Context, id, posterID string, fields domain.JobFields, now time.Time) (*domain.Job, error)
	// Apply atomically moves an open job to active and records workerID.
	// Returns domain.ErrJobNotOpen when the job exists but is no longer open.
	Apply(ctx context.Context, id, workerID string, now time.Time) (*domain.Job, error)
	// Complete atomically marks a non-completed job completed.
	// Returns domain.ErrJobAlreadyCompleted when it is already completed.
	Complete(ctx context.Context, id string, now time.Time) (*domain.Job, error)
	// Delete removes a job owned by posterID.
	Delete(ctx context.Context, id, posterID string) error
}
