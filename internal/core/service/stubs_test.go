package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dwjc/job-connector/internal/core/domain"
	"github.com/dwjc/job-connector/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users   map[string]*domain.User
	nextID  int
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) add(id, name, email, role string) *domain.User {
	u := &domain.User{ID: id, Name: name, Email: email, Role: role}
	r.users[id] = u
	return cloneUser(u)
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("u%d", r.nextID)
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	out := make(map[string]*domain.User)
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = cloneUser(u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) FindByRole(_ context.Context, role string) ([]*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []*domain.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (r *stubUserRepo) UpdateName(_ context.Context, id, name string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Name = name
	return nil
}

// stubJobRepo mirrors the conditional updates of the Mongo repository.
type stubJobRepo struct {
	mu     sync.Mutex
	jobs   map[string]*domain.Job
	nextID int
}

func newStubJobRepo() *stubJobRepo {
	return &stubJobRepo{jobs: make(map[string]*domain.Job)}
}

func cloneJob(j *domain.Job) *domain.Job {
	clone := *j
	return &clone
}

func (r *stubJobRepo) put(j *domain.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[j.ID] = cloneJob(j)
}

func (r *stubJobRepo) Create(_ context.Context, job *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	job.ID = fmt.Sprintf("j%d", r.nextID)
	r.jobs[job.ID] = cloneJob(job)
	return nil
}

func (r *stubJobRepo) FindByID(_ context.Context, id string) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return cloneJob(j), nil
}

func (r *stubJobRepo) match(j *domain.Job, f ports.JobFilter) bool {
	if f.PostedBy != "" && j.PostedBy != f.PostedBy {
		return false
	}
	if f.AppliedBy != "" && j.AppliedBy != f.AppliedBy {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if j.Status == s {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(j.Title), q) &&
			!strings.Contains(strings.ToLower(j.Description), q) &&
			!strings.Contains(strings.ToLower(j.Location), q) {
			return false
		}
	}
	return true
}

func (r *stubJobRepo) Find(_ context.Context, f ports.JobFilter) ([]*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Job
	for _, j := range r.jobs {
		if r.match(j, f) {
			out = append(out, cloneJob(j))
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *stubJobRepo) Count(ctx context.Context, f ports.JobFilter) (int64, error) {
	f.Limit = 0
	jobs, err := r.Find(ctx, f)
	return int64(len(jobs)), err
}

func (r *stubJobRepo) Update(_ context.Context, id, posterID string, fields domain.JobFields, now time.Time) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok || j.PostedBy != posterID {
		return nil, domain.ErrJobNotFound
	}
	j.Title, j.Description, j.Wage, j.Location, j.Deadline = fields.Title, fields.Description, fields.Wage, fields.Location, fields.Deadline
	j.UpdatedAt = now
	return cloneJob(j), nil
}

func (r *stubJobRepo) Apply(_ context.Context, id, workerID string, now time.Time) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	if j.Status != domain.JobOpen {
		return nil, domain.ErrJobNotOpen
	}
	j.Status = domain.JobActive
	j.AppliedBy = workerID
	j.UpdatedAt = now
	return cloneJob(j), nil
}

func (r *stubJobRepo) Complete(_ context.Context, id string, now time.Time) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	if j.Status == domain.JobCompleted {
		return nil, domain.ErrJobAlreadyCompleted
	}
	j.Status = domain.JobCompleted
	j.UpdatedAt = now
	j.CompletedAt = &now
	return cloneJob(j), nil
}

func (r *stubJobRepo) Delete(_ context.Context, id, posterID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok || j.PostedBy != posterID {
		return domain.ErrJobNotFound
	}
	delete(r.jobs, id)
	return nil
}

type stubNotificationRepo struct {
	items     []*domain.Notification
	insertErr error
}

func (r *stubNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.insertErr != nil {
		return r.insertErr
	}
	clone := *n
	clone.ID = fmt.Sprintf("n%d", len(r.items)+1)
	r.items = append(r.items, &clone)
	return nil
}

func (r *stubNotificationRepo) InsertMany(ctx context.Context, ns []*domain.Notification) error {
	for _, n := range ns {
		if err := r.Create(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

// ListByRecipient returns newest first; later inserts count as newer.
func (r *stubNotificationRepo) ListByRecipient(_ context.Context, recipientID string, limit int) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].RecipientID == recipientID {
			clone := *r.items[i]
			out = append(out, &clone)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubNotificationRepo) CountUnread(_ context.Context, recipientID string) (int64, error) {
	var n int64
	for _, item := range r.items {
		if item.RecipientID == recipientID && !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *stubNotificationRepo) MarkAllRead(_ context.Context, recipientID string) (int64, error) {
	var n int64
	for _, item := range r.items {
		if item.RecipientID == recipientID && !item.IsRead {
			item.IsRead = true
			n++
		}
	}
	return n, nil
}

func (r *stubNotificationRepo) forRecipient(id string) []*domain.Notification {
	var out []*domain.Notification
	for _, item := range r.items {
		if item.RecipientID == id {
			out = append(out, item)
		}
	}
	return out
}

type stubWishlistRepo struct {
	entries map[string]*domain.WishlistEntry
	nextID  int
}

func newStubWishlistRepo() *stubWishlistRepo {
	return &stubWishlistRepo{entries: make(map[string]*domain.WishlistEntry)}
}

func (r *stubWishlistRepo) Find(_ context.Context, userID, jobID string) (*domain.WishlistEntry, error) {
	for _, e := range r.entries {
		if e.UserID == userID && e.JobID == jobID {
			clone := *e
			return &clone, nil
		}
	}
	return nil, domain.ErrWishlistEntryNotFound
}

func (r *stubWishlistRepo) Create(_ context.Context, entry *domain.WishlistEntry) error {
	for _, e := range r.entries {
		if e.UserID == entry.UserID && e.JobID == entry.JobID {
			return nil
		}
	}
	r.nextID++
	clone := *entry
	clone.ID = fmt.Sprintf("w%d", r.nextID)
	r.entries[clone.ID] = &clone
	return nil
}

func (r *stubWishlistRepo) Delete(_ context.Context, id string) error {
	delete(r.entries, id)
	return nil
}

func (r *stubWishlistRepo) ListByUser(_ context.Context, userID string) ([]*domain.WishlistEntry, error) {
	var out []*domain.WishlistEntry
	for _, e := range r.entries {
		if e.UserID == userID {
			clone := *e
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (r *stubWishlistRepo) DeleteByJob(_ context.Context, jobID string) error {
	for id, e := range r.entries {
		if e.JobID == jobID {
			delete(r.entries, id)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Side-effect stubs
// ---------------------------------------------------------------------------

type stubBroadcaster struct {
	events []domain.RealtimeEvent
	err    error
}

func (b *stubBroadcaster) Publish(_ context.Context, event domain.RealtimeEvent) error {
	if b.err != nil {
		return b.err
	}
	b.events = append(b.events, event)
	return nil
}

func (b *stubBroadcaster) names() []string {
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.Name)
	}
	return out
}

type stubMailQueue struct {
	messages []ports.MailMessage
	full     bool
}

func (q *stubMailQueue) Enqueue(msg ports.MailMessage) bool {
	if q.full {
		return false
	}
	q.messages = append(q.messages, msg)
	return true
}

func (q *stubMailQueue) recipients() []string {
	out := make([]string, 0, len(q.messages))
	for _, m := range q.messages {
		out = append(out, m.To)
	}
	sort.Strings(out)
	return out
}
