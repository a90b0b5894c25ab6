package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dwjc/job-connector/internal/core/domain"
	"github.com/dwjc/job-connector/internal/core/ports"
)

const (
	earningsMonths      = 12
	recommendedJobLimit = 6
	previewMessageLimit = 5
	dashboardListLimit  = 8
	walletRecentLimit   = 10
)

// DashboardService derives dashboard and wallet summaries from the job and
// notification stores on every call.
type DashboardService struct {
	jobs          ports.JobRepository
	users         ports.UserRepository
	notifications ports.NotificationRepository
	now           func() time.Time
}

func NewDashboardService(jobs ports.JobRepository, users ports.UserRepository, notifications ports.NotificationRepository) *DashboardService {
	return &DashboardService{
		jobs:          jobs,
		users:         users,
		notifications: notifications,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *DashboardService) WorkerDashboard(ctx context.Context, actor domain.Identity) (*ports.WorkerDashboard, error) {
	if !actor.IsWorker() {
		return nil, domain.ErrForbidden
	}

	applied, err := s.jobs.Count(ctx, ports.JobFilter{AppliedBy: actor.ID})
	if err != nil {
		return nil, fmt.Errorf("worker dashboard: %w", err)
	}
	completed, err := s.jobs.Find(ctx, ports.JobFilter{AppliedBy: actor.ID, Statuses: []domain.JobStatus{domain.JobCompleted}})
	if err != nil {
		return nil, fmt.Errorf("worker dashboard: %w", err)
	}
	active, err := s.jobs.Find(ctx, ports.JobFilter{AppliedBy: actor.ID, Statuses: []domain.JobStatus{domain.JobActive}})
	if err != nil {
		return nil, fmt.Errorf("worker dashboard: %w", err)
	}
	recommended, err := s.jobs.Find(ctx, ports.JobFilter{Statuses: []domain.JobStatus{domain.JobOpen}, Limit: recommendedJobLimit})
	if err != nil {
		return nil, fmt.Errorf("worker dashboard: %w", err)
	}
	messages, err := s.notifications.ListByRecipient(ctx, actor.ID, previewMessageLimit)
	if err != nil {
		return nil, fmt.Errorf("worker dashboard: %w", err)
	}

	return &ports.WorkerDashboard{
		Stats: ports.WorkerStats{
			TotalApplied:    applied,
			JobsCompleted:   len(completed),
			CurrentBalance:  sumWages(completed),
			PendingPayments: sumWages(active),
		},
		EarningsByMonth: monthlyEarnings(completed, s.now()),
		RecommendedJobs: recommended,
		Messages:        messages,
	}, nil
}

func (s *DashboardService) PosterDashboard(ctx context.Context, actor domain.Identity) (*ports.PosterDashboard, error) {
	if !actor.IsPoster() {
		return nil, domain.ErrForbidden
	}

	posted, err := s.jobs.Find(ctx, ports.JobFilter{PostedBy: actor.ID})
	if err != nil {
		return nil, fmt.Errorf("poster dashboard: %w", err)
	}
	notifications, err := s.notifications.ListByRecipient(ctx, actor.ID, previewMessageLimit)
	if err != nil {
		return nil, fmt.Errorf("poster dashboard: %w", err)
	}

	var stats ports.PosterStats
	stats.TotalJobsPosted = len(posted)
	workerIDs := make([]string, 0)
	activePosts := make([]*domain.Job, 0, dashboardListLimit)
	for _, j := range posted {
		switch j.Status {
		case domain.JobActive:
			stats.JobsInProgress++
			stats.PendingPayments += j.Wage
		case domain.JobCompleted:
			stats.TotalPaid += j.Wage
		}
		if j.Status != domain.JobCompleted && len(activePosts) < dashboardListLimit {
			activePosts = append(activePosts, j)
		}
		if j.AppliedBy != "" {
			workerIDs = append(workerIDs, j.AppliedBy)
		}
	}

	workers := map[string]*domain.User{}
	if len(workerIDs) > 0 {
		workers, err = s.users.FindByIDs(ctx, workerIDs)
		if err != nil {
			return nil, fmt.Errorf("poster dashboard: %w", err)
		}
	}

	applicants := make([]ports.Applicant, 0, dashboardListLimit)
	for _, j := range posted {
		if j.AppliedBy == "" {
			continue
		}
		if len(applicants) == dashboardListLimit {
			break
		}
		a := ports.Applicant{Name: "Applicant", JobTitle: j.Title}
		if w, ok := workers[j.AppliedBy]; ok {
			a.Name = w.Name
			a.Email = w.Email
		}
		applicants = append(applicants, a)
	}

	return &ports.PosterDashboard{
		Stats:            stats,
		RecentApplicants: applicants,
		ActiveJobPosts:   activePosts,
		Notifications:    notifications,
	}, nil
}

func (s *DashboardService) PosterWallet(ctx context.Context, actor domain.Identity) (*ports.PosterWallet, error) {
	if !actor.IsPoster() {
		return nil, domain.ErrForbidden
	}

	completed, active, balance, err := s.walletJobs(ctx, actor, ports.JobFilter{PostedBy: actor.ID})
	if err != nil {
		return nil, fmt.Errorf("poster wallet: %w", err)
	}

	return &ports.PosterWallet{
		Balance:       balance,
		PaymentsMade:  len(completed),
		Pending:       len(active),
		TotalSpending: sumWages(completed),
		PendingAmount: sumWages(active),
		Recent:        recentEntries(completed, active),
	}, nil
}

func (s *DashboardService) WorkerWallet(ctx context.Context, actor domain.Identity) (*ports.WorkerWallet, error) {
	if !actor.IsWorker() {
		return nil, domain.ErrForbidden
	}

	completed, active, balance, err := s.walletJobs(ctx, actor, ports.JobFilter{AppliedBy: actor.ID})
	if err != nil {
		return nil, fmt.Errorf("worker wallet: %w", err)
	}

	return &ports.WorkerWallet{
		Balance:         balance,
		Received:        len(completed),
		Pending:         len(active),
		Earnings:        sumWages(completed),
		PendingEarnings: sumWages(active),
		Recent:          recentEntries(completed, active),
	}, nil
}

// walletJobs loads the completed and active jobs matching scope plus the
// stored wallet balance of the actor.
func (s *DashboardService) walletJobs(ctx context.Context, actor domain.Identity, scope ports.JobFilter) ([]*domain.Job, []*domain.Job, float64, error) {
	scope.Sort = ports.SortRecentlyUpdated

	scope.Statuses = []domain.JobStatus{domain.JobCompleted}
	completed, err := s.jobs.Find(ctx, scope)
	if err != nil {
		return nil, nil, 0, err
	}
	scope.Statuses = []domain.JobStatus{domain.JobActive}
	active, err := s.jobs.Find(ctx, scope)
	if err != nil {
		return nil, nil, 0, err
	}

	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, nil, 0, err
	}
	return completed, active, user.WalletBalance, nil
}

func sumWages(jobs []*domain.Job) float64 {
	var total float64
	for _, j := range jobs {
		total += j.Wage
	}
	return total
}

// monthlyEarnings buckets completed wages by the calendar month of completion
// over the twelve months ending with the month of now. Jobs outside the
// window are ignored.
func monthlyEarnings(completed []*domain.Job, now time.Time) []ports.MonthBucket {
	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	buckets := make([]ports.MonthBucket, earningsMonths)
	index := make(map[string]int, earningsMonths)
	for i := range buckets {
		m := first.AddDate(0, i-(earningsMonths-1), 0)
		key := m.Format("2006-01")
		buckets[i] = ports.MonthBucket{Key: key, Label: m.Format("Jan")}
		index[key] = i
	}

	for _, j := range completed {
		if i, ok := index[j.SettledAt().UTC().Format("2006-01")]; ok {
			buckets[i].Total += j.Wage
		}
	}
	return buckets
}

// recentEntries merges completed and active jobs, most recently updated first.
func recentEntries(completed, active []*domain.Job) []ports.WalletEntry {
	all := make([]*domain.Job, 0, len(completed)+len(active))
	all = append(all, completed...)
	all = append(all, active...)
	sort.SliceStable(all, func(a, b int) bool {
		return lastTouched(all[a]).After(lastTouched(all[b]))
	})
	if len(all) > walletRecentLimit {
		all = all[:walletRecentLimit]
	}

	entries := make([]ports.WalletEntry, 0, len(all))
	for _, j := range all {
		entries = append(entries, ports.WalletEntry{
			ID:     j.ID,
			Title:  j.Title,
			Amount: j.Wage,
			Status: j.Status,
			Date:   lastTouched(j),
		})
	}
	return entries
}

func lastTouched(j *domain.Job) time.Time {
	if !j.UpdatedAt.IsZero() {
		return j.UpdatedAt
	}
	return j.CreatedAt
}
