package domain

import (
	"errors"
	"time"
)

// JobStatus represents the lifecycle state of a job posting.
type JobStatus string

const (
	JobOpen      JobStatus = "open"
	JobActive    JobStatus = "active"
	JobCompleted JobStatus = "completed"
)

var ErrJobNotFound = errors.New("job not found")
var ErrJobNotOpen = errors.New("job not available")
var ErrJobAlreadyCompleted = errors.New("job already completed")
var ErrForbidden = errors.New("access forbidden")

// validTransitions defines the allowed lifecycle transitions.
var validTransitions = map[JobStatus][]JobStatus{
	JobOpen:   {JobActive, JobCompleted},
	JobActive: {JobCompleted},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Job is a work offer created by a poster and claimed by at most one worker.
type Job struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Wage        float64    `json:"wage"`
	Location    string     `json:"location"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Status      JobStatus  `json:"status"`
	PostedBy    string     `json:"posted_by"`
	AppliedBy   string     `json:"applied_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// JobFields holds the poster-editable attributes of a job.
type JobFields struct {
	Title       string
	Description string
	Wage        float64
	Location    string
	Deadline    *time.Time
}

func (j *Job) IsPostedBy(userID string) bool {
	return userID != "" && j.PostedBy == userID
}

func (j *Job) IsAppliedBy(userID string) bool {
	return userID != "" && j.AppliedBy == userID
}

// CanView reports whether actor may see the full job detail: the poster
// viewing as a user, or the applied worker viewing as a worker.
func (j *Job) CanView(actor Identity) bool {
	switch actor.Role {
	case RolePoster:
		return j.IsPostedBy(actor.ID)
	case RoleWorker:
		return j.IsAppliedBy(actor.ID)
	}
	return false
}

// CanComplete reports whether actor is a party allowed to mark the job completed.
func (j *Job) CanComplete(actor Identity) bool {
	return j.CanView(actor)
}

// SettledAt is the completion timestamp used for earnings buckets.
func (j *Job) SettledAt() time.Time {
	if j.CompletedAt != nil {
		return *j.CompletedAt
	}
	if !j.UpdatedAt.IsZero() {
		return j.UpdatedAt
	}
	return j.CreatedAt
}
