package ports

import (
	"context"
	"time"

	"github.com/dwjc/job-connector/internal/core/domain"
)

// MonthBucket is the earnings total of one calendar month.
type MonthBucket struct {
	Key   string  `json:"key"` // YYYY-MM
	Label string  `json:"label"`
	Total float64 `json:"total"`
}

type WorkerStats struct {
	TotalApplied    int64   `json:"total_applied"`
	JobsCompleted   int     `json:"jobs_completed"`
	CurrentBalance  float64 `json:"current_balance"`
	PendingPayments float64 `json:"pending_payments"`
}

type WorkerDashboard struct {
	Stats           WorkerStats            `json:"stats"`
	EarningsByMonth []MonthBucket          `json:"earnings_by_month"`
	RecommendedJobs []*domain.Job          `json:"recommended_jobs"`
	Messages        []*domain.Notification `json:"messages"`
}

type PosterStats struct {
	TotalJobsPosted int     `json:"total_jobs_posted"`
	JobsInProgress  int     `json:"jobs_in_progress"`
	TotalPaid       float64 `json:"total_paid"`
	PendingPayments float64 `json:"pending_payments"`
}

type Applicant struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	JobTitle string `json:"job_title"`
}

type PosterDashboard struct {
	Stats            PosterStats            `json:"stats"`
	RecentApplicants []Applicant            `json:"recent_applicants"`
	ActiveJobPosts   []*domain.Job          `json:"active_job_posts"`
	Notifications    []*domain.Notification `json:"notifications"`
}

// WalletEntry is one payment line: a completed or pending job.
type WalletEntry struct {
	ID     string           `json:"id"`
	Title  string           `json:"title"`
	Amount float64          `json:"amount"`
	Status domain.JobStatus `json:"status"`
	Date   time.Time        `json:"date"`
}

type PosterWallet struct {
	Balance       float64       `json:"balance"`
	PaymentsMade  int           `json:"payments_made"`
	Pending       int           `json:"pending"`
	TotalSpending float64       `json:"total_spending"`
	PendingAmount float64       `json:"pending_amount"`
	Recent        []WalletEntry `json:"recent"`
}

type WorkerWallet struct {
	Balance         float64       `json:"balance"`
	Received        int           `json:"received"`
	Pending         int           `json:"pending"`
	Earnings        float64       `json:"earnings"`
	PendingEarnings float64       `json:"pending_earnings"`
	Recent          []WalletEntry `json:"recent"`
}

// DashboardService computes read-only summaries. Nothing is cached; every
// call recomputes from the stores.
type DashboardService interface {
	WorkerDashboard(ctx context.Context, actor domain.Identity) (*WorkerDashboard, error)
	PosterDashboard(ctx context.Context, actor domain.Identity) (*PosterDashboard, error)
	PosterWallet(ctx context.Context, actor domain.Identity) (*PosterWallet, error)
	WorkerWallet(ctx context.Context, actor domain.Identity) (*WorkerWallet, error)
}
