package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dwjc/job-connector/internal/core/domain"
	"github.com/dwjc/job-connector/internal/core/ports"
)

var (
	posterA = domain.Identity{ID: "a", Role: domain.RolePoster, Name: "Alice"}
	posterD = domain.Identity{ID: "d", Role: domain.RolePoster, Name: "Dora"}
	workerB = domain.Identity{ID: "b", Role: domain.RoleWorker, Name: "Bob"}
	workerC = domain.Identity{ID: "c", Role: domain.RoleWorker, Name: "Cid"}
)

type jobFixture struct {
	svc   *JobService
	jobs  *stubJobRepo
	users *stubUserRepo
	notes *stubNotificationRepo
	wish  *stubWishlistRepo
	bus   *stubBroadcaster
	mail  *stubMailQueue
}

func newJobFixture() *jobFixture {
	f := &jobFixture{
		jobs:  newStubJobRepo(),
		users: newStubUserRepo(),
		notes: &stubNotificationRepo{},
		wish:  newStubWishlistRepo(),
		bus:   &stubBroadcaster{},
		mail:  &stubMailQueue{},
	}
	f.users.add("a", "Alice", "alice@example.com", domain.RolePoster)
	f.users.add("d", "Dora", "dora@example.com", domain.RolePoster)
	f.users.add("b", "Bob", "bob@example.com", domain.RoleWorker)
	f.users.add("c", "Cid", "", domain.RoleWorker)

	effects := NewJobEffects(f.users, f.notes, f.mail, f.bus, zerolog.Nop())
	f.svc = NewJobService(f.jobs, f.users, f.wish, effects, zerolog.Nop())
	return f
}

// reset clears recorded side effects.
func (f *jobFixture) reset() {
	f.notes.items = nil
	f.bus.events = nil
	f.mail.messages = nil
}

func (f *jobFixture) create(t *testing.T, title string, wage float64) *domain.Job {
	t.Helper()
	job, err := f.svc.CreateJob(context.Background(), posterA, ports.JobInput{
		Title: title, Description: "Work", Wage: wage, Location: "Town",
	})
	if err != nil {
		t.Fatalf("CreateJob failed: %v", err)
	}
	return job
}

func TestJobService_CreateJob(t *testing.T) {
	f := newJobFixture()

	job := f.create(t, "Paint Wall", 40)
	if job.Status != domain.JobOpen || job.AppliedBy != "" || job.PostedBy != "a" {
		t.Fatalf("unexpected job: %+v", job)
	}

	for _, w := range []string{"b", "c"} {
		got := f.notes.forRecipient(w)
		if len(got) != 1 || got[0].Type != domain.NotificationNewJob || got[0].Message != "New job posted: Paint Wall" {
			t.Fatalf("worker %s: unexpected notifications %+v", w, got)
		}
	}
	if len(f.notes.forRecipient("a")) != 0 {
		t.Fatalf("poster should not be notified of own job")
	}

	// only workers with an email address receive mail
	if got := f.mail.recipients(); len(got) != 1 || got[0] != "bob@example.com" {
		t.Fatalf("unexpected mail recipients: %v", got)
	}
	if f.mail.messages[0].Subject != "New Job Posted: Paint Wall" {
		t.Fatalf("unexpected subject: %q", f.mail.messages[0].Subject)
	}

	if len(f.bus.events) != 1 {
		t.Fatalf("expected one event, got %d", len(f.bus.events))
	}
	ev := f.bus.events[0]
	if ev.Name != domain.EventJobNew || ev.Rooms[0] != domain.RoleRoom(domain.RoleWorker) || ev.Payload["title"] != "Paint Wall" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestJobService_CreateJob_WorkerForbidden(t *testing.T) {
	f := newJobFixture()

	_, err := f.svc.CreateJob(context.Background(), workerB, ports.JobInput{Title: "x", Description: "y", Location: "z"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestJobService_CreateJob_SideEffectFailuresIgnored(t *testing.T) {
	f := newJobFixture()
	f.notes.insertErr = errors.New("write failed")
	f.bus.err = errors.New("hub closed")
	f.mail.full = true

	job := f.create(t, "Fix Roof", 80)
	stored, err := f.jobs.FindByID(context.Background(), job.ID)
	if err != nil || stored.Status != domain.JobOpen {
		t.Fatalf("expected job to persist despite side-effect failures, got %+v %v", stored, err)
	}
}

func TestJobService_Apply_EffectsSurviveCancelledRequest(t *testing.T) {
	f := newJobFixture()
	job := f.create(t, "Paint Wall", 40)
	f.reset()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := f.svc.Apply(ctx, workerB, job.ID); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if got := len(f.notes.forRecipient(posterA.ID)); got != 1 {
		t.Fatalf("expected poster notification after cancelled request, got %d", got)
	}
}

func TestJobService_Apply(t *testing.T) {
	f := newJobFixture()
	job := f.create(t, "Paint Wall", 40)
	f.reset()

	got, err := f.svc.Apply(context.Background(), workerB, job.ID)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if got.Status != domain.JobActive || got.AppliedBy != "b" {
		t.Fatalf("unexpected job after apply: %+v", got)
	}

	notes := f.notes.forRecipient("a")
	if len(notes) != 1 || notes[0].Message != "Applied by Bob for Paint Wall" || notes[0].Type != domain.NotificationApplication {
		t.Fatalf("unexpected poster notifications: %+v", notes)
	}
	if got := f.mail.recipients(); len(got) != 1 || got[0] != "alice@example.com" {
		t.Fatalf("unexpected mail recipients: %v", got)
	}
	if len(f.bus.events) != 1 || f.bus.events[0].Rooms[0] != domain.UserRoom("a") || f.bus.events[0].Payload["workerId"] != "b" {
		t.Fatalf("unexpected events: %+v", f.bus.events)
	}

	// second applicant loses
	if _, err := f.svc.Apply(context.Background(), workerC, job.ID); !errors.Is(err, domain.ErrJobNotOpen) {
		t.Fatalf("expected ErrJobNotOpen, got %v", err)
	}
	stored, _ := f.jobs.FindByID(context.Background(), job.ID)
	if stored.AppliedBy != "b" {
		t.Fatalf("applied worker changed to %q", stored.AppliedBy)
	}
}

func TestJobService_Apply_Rejections(t *testing.T) {
	f := newJobFixture()
	job := f.create(t, "Paint Wall", 40)

	if _, err := f.svc.Apply(context.Background(), posterA, job.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("poster apply: expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.Apply(context.Background(), workerB, "missing"); !errors.Is(err, domain.ErrJobNotFound) {
		t.Fatalf("missing job: expected ErrJobNotFound, got %v", err)
	}

	if _, err := f.svc.Complete(context.Background(), posterA, job.ID); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if _, err := f.svc.Apply(context.Background(), workerB, job.ID); !errors.Is(err, domain.ErrJobNotOpen) {
		t.Fatalf("completed job: expected ErrJobNotOpen, got %v", err)
	}
}

func TestJobService_Apply_ConcurrentSingleWinner(t *testing.T) {
	f := newJobFixture()
	job := f.create(t, "Move Boxes", 30)
	f.reset()

	const n = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins, losses := 0, 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			worker := workerB
			if i%2 == 1 {
				worker = workerC
			}
			_, err := f.svc.Apply(context.Background(), worker, job.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, domain.ErrJobNotOpen):
				losses++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if wins != 1 || losses != n-1 {
		t.Fatalf("expected exactly one winner, got wins=%d losses=%d", wins, losses)
	}
}

func TestJobService_Complete(t *testing.T) {
	f := newJobFixture()

	t.Run("poster completes open job", func(t *testing.T) {
		job := f.create(t, "Open Job", 10)
		f.reset()

		got, err := f.svc.Complete(context.Background(), posterA, job.ID)
		if err != nil {
			t.Fatalf("Complete failed: %v", err)
		}
		if got.Status != domain.JobCompleted || got.CompletedAt == nil {
			t.Fatalf("unexpected job: %+v", got)
		}
		// no worker: only the poster is notified
		if len(f.notes.items) != 1 || f.notes.items[0].RecipientID != "a" {
			t.Fatalf("unexpected notifications: %+v", f.notes.items)
		}
	})

	t.Run("worker completes active job", func(t *testing.T) {
		job := f.create(t, "Active Job", 20)
		if _, err := f.svc.Apply(context.Background(), workerB, job.ID); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
		f.reset()

		if _, err := f.svc.Complete(context.Background(), workerB, job.ID); err != nil {
			t.Fatalf("Complete failed: %v", err)
		}
		if len(f.notes.forRecipient("a")) != 1 || len(f.notes.forRecipient("b")) != 1 {
			t.Fatalf("expected one notification per party, got %+v", f.notes.items)
		}
		if got := f.mail.recipients(); len(got) != 2 {
			t.Fatalf("expected mail to both parties, got %v", got)
		}
		ev := f.bus.events[0]
		if ev.Name != domain.EventJobCompleted || len(ev.Rooms) != 2 {
			t.Fatalf("unexpected event: %+v", ev)
		}

		if _, err := f.svc.Complete(context.Background(), posterA, job.ID); !errors.Is(err, domain.ErrJobAlreadyCompleted) {
			t.Fatalf("expected ErrJobAlreadyCompleted, got %v", err)
		}
	})

	t.Run("non-party rejected", func(t *testing.T) {
		job := f.create(t, "Guarded Job", 20)
		if _, err := f.svc.Apply(context.Background(), workerB, job.ID); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}

		for _, actor := range []domain.Identity{posterD, workerC, {ID: "a", Role: domain.RoleWorker}} {
			if _, err := f.svc.Complete(context.Background(), actor, job.ID); !errors.Is(err, domain.ErrForbidden) {
				t.Fatalf("%+v: expected ErrForbidden, got %v", actor, err)
			}
		}
		stored, _ := f.jobs.FindByID(context.Background(), job.ID)
		if stored.Status != domain.JobActive {
			t.Fatalf("status changed to %s", stored.Status)
		}
	})
}

func TestJobService_DeleteJob(t *testing.T) {
	f := newJobFixture()

	t.Run("only the poster", func(t *testing.T) {
		job := f.create(t, "Keep Me", 10)
		for _, actor := range []domain.Identity{posterD, workerB} {
			if err := f.svc.DeleteJob(context.Background(), actor, job.ID); !errors.Is(err, domain.ErrForbidden) {
				t.Fatalf("%+v: expected ErrForbidden, got %v", actor, err)
			}
		}
		if _, err := f.jobs.FindByID(context.Background(), job.ID); err != nil {
			t.Fatalf("job should still exist: %v", err)
		}
	})

	t.Run("applied worker gets one cancellation", func(t *testing.T) {
		job := f.create(t, "Cancel Me", 10)
		if _, err := f.svc.Apply(context.Background(), workerB, job.ID); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
		f.wish.entries["x"] = &domain.WishlistEntry{ID: "x", UserID: "c", JobID: job.ID}
		f.reset()

		if err := f.svc.DeleteJob(context.Background(), posterA, job.ID); err != nil {
			t.Fatalf("DeleteJob failed: %v", err)
		}
		if _, err := f.jobs.FindByID(context.Background(), job.ID); !errors.Is(err, domain.ErrJobNotFound) {
			t.Fatalf("expected job to be removed, got %v", err)
		}
		notes := f.notes.forRecipient("b")
		if len(f.notes.items) != 1 || len(notes) != 1 || notes[0].Message != "Job removed by poster: Cancel Me" {
			t.Fatalf("unexpected notifications: %+v", f.notes.items)
		}
		if len(f.wish.entries) != 0 {
			t.Fatalf("expected wishlist entries for the job to be removed")
		}
		if names := f.bus.names(); len(names) != 1 || names[0] != domain.EventJobDeleted {
			t.Fatalf("unexpected events: %v", names)
		}
	})

	t.Run("missing job", func(t *testing.T) {
		if err := f.svc.DeleteJob(context.Background(), posterA, "missing"); !errors.Is(err, domain.ErrJobNotFound) {
			t.Fatalf("expected ErrJobNotFound, got %v", err)
		}
	})
}

func TestJobService_PaintWallScenario(t *testing.T) {
	f := newJobFixture()
	ctx := context.Background()

	job := f.create(t, "Paint Wall", 40)
	if job.Status != domain.JobOpen || job.Wage != 40 {
		t.Fatalf("unexpected job: %+v", job)
	}
	f.reset()

	applied, err := f.svc.Apply(ctx, workerB, job.ID)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if applied.Status != domain.JobActive || applied.AppliedBy != "b" {
		t.Fatalf("unexpected job after apply: %+v", applied)
	}
	if n := f.notes.forRecipient("a"); len(n) != 1 || n[0].Message != "Applied by Bob for Paint Wall" {
		t.Fatalf("unexpected poster notifications: %+v", n)
	}
	f.reset()

	completed, err := f.svc.Complete(ctx, workerB, job.ID)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if completed.Status != domain.JobCompleted {
		t.Fatalf("unexpected status: %s", completed.Status)
	}
	for _, id := range []string{"a", "b"} {
		n := f.notes.forRecipient(id)
		if len(n) != 1 || n[0].Type != domain.NotificationCompleted {
			t.Fatalf("%s: unexpected notifications: %+v", id, n)
		}
	}

	if err := f.svc.DeleteJob(ctx, posterA, job.ID); err != nil {
		t.Fatalf("DeleteJob of completed job failed: %v", err)
	}
	if _, err := f.jobs.FindByID(ctx, job.ID); !errors.Is(err, domain.ErrJobNotFound) {
		t.Fatalf("expected job removed, got %v", err)
	}
}

func TestJobService_UpdateJob(t *testing.T) {
	f := newJobFixture()
	job := f.create(t, "Old Title", 10)
	if _, err := f.svc.Apply(context.Background(), workerB, job.ID); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	in := ports.JobInput{Title: "New Title", Description: "New", Wage: 15, Location: "City"}
	if _, err := f.svc.UpdateJob(context.Background(), posterD, job.ID, in); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	got, err := f.svc.UpdateJob(context.Background(), posterA, job.ID, in)
	if err != nil {
		t.Fatalf("UpdateJob failed: %v", err)
	}
	if got.Title != "New Title" || got.Wage != 15 {
		t.Fatalf("fields not updated: %+v", got)
	}
	if got.Status != domain.JobActive || got.AppliedBy != "b" {
		t.Fatalf("status or worker changed: %+v", got)
	}
}

func TestJobService_GetDetail_Authorization(t *testing.T) {
	f := newJobFixture()
	job := f.create(t, "Private", 10)
	if _, err := f.svc.Apply(context.Background(), workerB, job.ID); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	for _, actor := range []domain.Identity{posterA, workerB} {
		got, err := f.svc.GetDetail(context.Background(), actor, job.ID)
		if err != nil {
			t.Fatalf("%s: GetDetail failed: %v", actor.Name, err)
		}
		if got.Poster == nil || got.Poster.Email != "alice@example.com" || got.Worker == nil || got.Worker.Name != "Bob" {
			t.Fatalf("unexpected parties: %+v %+v", got.Poster, got.Worker)
		}
	}

	for _, actor := range []domain.Identity{posterD, workerC, {ID: "b", Role: domain.RolePoster}} {
		if _, err := f.svc.GetDetail(context.Background(), actor, job.ID); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("%+v: expected ErrForbidden, got %v", actor, err)
		}
	}
}

func TestJobService_Listings(t *testing.T) {
	f := newJobFixture()
	ctx := context.Background()

	open := f.create(t, "Garden Work", 10)
	active := f.create(t, "Paint Fence", 20)
	done := f.create(t, "Clean Garage", 30)
	for _, id := range []string{active.ID, done.ID} {
		if _, err := f.svc.Apply(ctx, workerB, id); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
	}
	if _, err := f.svc.Complete(ctx, posterA, done.ID); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	posterActive, err := f.svc.ListActive(ctx, posterA, "")
	if err != nil || len(posterActive) != 2 {
		t.Fatalf("poster active: %d %v", len(posterActive), err)
	}
	workerActive, err := f.svc.ListActive(ctx, workerB, "")
	if err != nil || len(workerActive) != 1 || workerActive[0].ID != active.ID {
		t.Fatalf("worker active: %+v %v", workerActive, err)
	}
	if workerActive[0].Poster == nil || workerActive[0].Poster.Name != "Alice" || workerActive[0].Poster.Email != "" {
		t.Fatalf("expected poster name without email, got %+v", workerActive[0].Poster)
	}

	for _, actor := range []domain.Identity{posterA, workerB} {
		past, err := f.svc.ListPast(ctx, actor, "")
		if err != nil || len(past) != 1 || past[0].ID != done.ID {
			t.Fatalf("%s past: %+v %v", actor.Name, past, err)
		}
	}

	searched, err := f.svc.ListActive(ctx, posterA, "FENCE")
	if err != nil || len(searched) != 1 || searched[0].ID != active.ID {
		t.Fatalf("search: %+v %v", searched, err)
	}

	f.wish.entries["w"] = &domain.WishlistEntry{ID: "w", UserID: "b", JobID: open.ID}
	avail, err := f.svc.ListAvailable(ctx, workerB, "")
	if err != nil {
		t.Fatalf("ListAvailable failed: %v", err)
	}
	if len(avail.Jobs) != 1 || avail.Jobs[0].ID != open.ID {
		t.Fatalf("unexpected available jobs: %+v", avail.Jobs)
	}
	if len(avail.WishlistIDs) != 1 || avail.WishlistIDs[0] != open.ID {
		t.Fatalf("unexpected wishlist ids: %v", avail.WishlistIDs)
	}

	if _, err := f.svc.ListAvailable(ctx, posterA, ""); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for poster, got %v", err)
	}
}
