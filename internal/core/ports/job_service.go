package ports

import (
	"context"
	"time"

	"github.com/dwjc/job-connector/internal/core/domain"
)

// JobInput carries the create/edit form of a job.
type JobInput struct {
	Title       string
	Description string
	Wage        float64
	Location    string
	Deadline    *time.Time
}

// Party is the public view of a poster or worker attached to a job.
type Party struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// JobSummary is a job with the display names of its parties.
type JobSummary struct {
	*domain.Job
	Poster *Party `json:"poster,omitempty"`
	Worker *Party `json:"worker,omitempty"`
}

// AvailableJobs is the worker's open-job board.
type AvailableJobs struct {
	Jobs        []JobSummary `json:"jobs"`
	WishlistIDs []string     `json:"wishlist_ids"`
}

// JobService defines the job lifecycle use cases. Every method enforces the
// role and ownership rules of the actor.
type JobService interface {
	CreateJob(ctx context.Context, actor domain.Identity, in JobInput) (*domain.Job, error)
	GetForEdit(ctx context.Context, actor domain.Identity, id string) (*domain.Job, error)
	UpdateJob(ctx context.Context, actor domain.Identity, id string, in JobInput) (*domain.Job, error)
	Apply(ctx context.Context, actor domain.Identity, id string) (*domain.Job, error)
	Complete(ctx context.Context, actor domain.Identity, id string) (*domain.Job, error)
	DeleteJob(ctx context.Context, actor domain.Identity, id string) error
	GetDetail(ctx context.Context, actor domain.Identity, id string) (*JobSummary, error)
	ListActive(ctx context.Context, actor domain.Identity, query string) ([]JobSummary, error)
	ListPast(ctx context.Context, actor domain.Identity, query string) ([]JobSummary, error)
	ListAvailable(ctx context.Context, actor domain.Identity, query string) (*AvailableJobs, error)
}
