package service

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/rs/zerolog"

	"github.com/dwjc/job-connector/internal/api/metrics"
	"github.com/dwjc/job-connector/internal/core/domain"
	"github.com/dwjc/job-connector/internal/core/ports"
)

// JobEffects fans out the notifications, emails and real-time events that
// follow a successful job transition. Every effect is best-effort: failures
// are logged and counted, never returned to the caller. Effects keep running
// after the caller's context is cancelled.
type JobEffects struct {
	users         ports.UserRepository
	notifications ports.NotificationRepository
	mail          ports.MailQueue
	broadcaster   ports.Broadcaster
	log           zerolog.Logger
}

func NewJobEffects(
	users ports.UserRepository,
	notifications ports.NotificationRepository,
	mail ports.MailQueue,
	broadcaster ports.Broadcaster,
	log zerolog.Logger,
) *JobEffects {
	return &JobEffects{
		users:         users,
		notifications: notifications,
		mail:          mail,
		broadcaster:   broadcaster,
		log:           log,
	}
}

// JobCreated notifies and emails every worker, then announces the job to the worker room.
func (e *JobEffects) JobCreated(ctx context.Context, job *domain.Job) {
	ctx = context.WithoutCancel(ctx)
	e.publish(ctx, domain.RealtimeEvent{
		Name:    domain.EventJobNew,
		Payload: map[string]any{"jobId": job.ID, "title": job.Title},
		Rooms:   []string{domain.RoleRoom(domain.RoleWorker)},
	})

	workers, err := e.users.FindByRole(ctx, domain.RoleWorker)
	if err != nil {
		e.fail("lookup", err, job.ID, "failed to load workers")
		return
	}
	if len(workers) == 0 {
		return
	}

	now := time.Now().UTC()
	batch := make([]*domain.Notification, 0, len(workers))
	for _, w := range workers {
		batch = append(batch, &domain.Notification{
			Type:        domain.NotificationNewJob,
			Message:     "New job posted: " + job.Title,
			RecipientID: w.ID,
			CreatedAt:   now,
		})
	}
	if err := e.notifications.InsertMany(ctx, batch); err != nil {
		e.fail("notification", err, job.ID, "failed to notify workers")
	}

	subject := "New Job Posted: " + job.Title
	body := fmt.Sprintf("<p>A new job has been posted.</p><p><strong>%s</strong> - %s</p>",
		html.EscapeString(job.Title), html.EscapeString(job.Description))
	for _, w := range workers {
		e.enqueue(w.Email, subject, body, job.ID)
	}
}

// JobApplied tells the poster that worker claimed the job.
func (e *JobEffects) JobApplied(ctx context.Context, job *domain.Job, worker domain.Identity) {
	ctx = context.WithoutCancel(ctx)
	e.publish(ctx, domain.RealtimeEvent{
		Name:    domain.EventJobApplied,
		Payload: map[string]any{"jobId": job.ID, "workerId": worker.ID},
		Rooms:   []string{domain.UserRoom(job.PostedBy)},
	})

	e.notify(ctx, job, &domain.Notification{
		Type:        domain.NotificationApplication,
		Message:     fmt.Sprintf("Applied by %s for %s", worker.Name, job.Title),
		RecipientID: job.PostedBy,
	})

	poster, err := e.users.FindByID(ctx, job.PostedBy)
	if err != nil {
		e.fail("lookup", err, job.ID, "failed to load poster")
		return
	}
	e.enqueue(poster.Email, "Your job received an application: "+job.Title,
		fmt.Sprintf("<p>%s applied for your job <strong>%s</strong>.</p>",
			html.EscapeString(worker.Name), html.EscapeString(job.Title)),
		job.ID)
}

// JobCompleted informs both parties. A party that is not set is skipped.
func (e *JobEffects) JobCompleted(ctx context.Context, job *domain.Job) {
	ctx = context.WithoutCancel(ctx)
	parties := make([]string, 0, 2)
	for _, id := range []string{job.PostedBy, job.AppliedBy} {
		if id != "" {
			parties = append(parties, id)
		}
	}

	rooms := make([]string, 0, len(parties))
	for _, id := range parties {
		rooms = append(rooms, domain.UserRoom(id))
	}
	e.publish(ctx, domain.RealtimeEvent{
		Name:    domain.EventJobCompleted,
		Payload: map[string]any{"jobId": job.ID},
		Rooms:   rooms,
	})

	now := time.Now().UTC()
	batch := make([]*domain.Notification, 0, len(parties))
	for _, id := range parties {
		batch = append(batch, &domain.Notification{
			Type:        domain.NotificationCompleted,
			Message:     "Job completed: " + job.Title,
			RecipientID: id,
			CreatedAt:   now,
		})
	}
	if len(batch) > 0 {
		if err := e.notifications.InsertMany(ctx, batch); err != nil {
			e.fail("notification", err, job.ID, "failed to notify parties")
		}
	}

	users, err := e.users.FindByIDs(ctx, parties)
	if err != nil {
		e.fail("lookup", err, job.ID, "failed to load parties")
		return
	}
	subject := "Job Completed: " + job.Title
	body := fmt.Sprintf("<p>The job <strong>%s</strong> has been marked completed.</p>", html.EscapeString(job.Title))
	for _, id := range parties {
		if u, ok := users[id]; ok {
			e.enqueue(u.Email, subject, body, job.ID)
		}
	}
}

// JobDeleted tells the applied worker, if any, that the poster removed the job.
// job is the state read before deletion.
func (e *JobEffects) JobDeleted(ctx context.Context, job *domain.Job) {
	ctx = context.WithoutCancel(ctx)
	if job.AppliedBy != "" {
		e.notify(ctx, job, &domain.Notification{
			Type:        domain.NotificationCancelled,
			Message:     "Job removed by poster: " + job.Title,
			RecipientID: job.AppliedBy,
		})
	}

	e.publish(ctx, domain.RealtimeEvent{
		Name:    domain.EventJobDeleted,
		Payload: map[string]any{"jobId": job.ID},
		Rooms:   []string{domain.RoleRoom(domain.RoleWorker), domain.UserRoom(job.PostedBy)},
	})
}

func (e *JobEffects) notify(ctx context.Context, job *domain.Job, n *domain.Notification) {
	n.CreatedAt = time.Now().UTC()
	if err := e.notifications.Create(ctx, n); err != nil {
		e.fail("notification", err, job.ID, "failed to create notification")
	}
}

func (e *JobEffects) enqueue(to, subject, body, jobID string) {
	if to == "" {
		return
	}
	if !e.mail.Enqueue(ports.MailMessage{To: to, Subject: subject, HTML: body}) {
		metrics.SideEffectFailuresTotal.WithLabelValues("mail_enqueue").Inc()
		e.log.Warn().Str("job_id", jobID).Str("to", to).Msg("mail queue full, message dropped")
	}
}

func (e *JobEffects) publish(ctx context.Context, event domain.RealtimeEvent) {
	if len(event.Rooms) == 0 {
		return
	}
	if err := e.broadcaster.Publish(ctx, event); err != nil {
		metrics.SideEffectFailuresTotal.WithLabelValues("broadcast").Inc()
		e.log.Warn().Err(err).Str("event", event.Name).Msg("failed to publish realtime event")
		return
	}
	metrics.RealtimeEventsTotal.WithLabelValues(event.Name).Inc()
}

func (e *JobEffects) fail(kind string, err error, jobID, msg string) {
	metrics.SideEffectFailuresTotal.WithLabelValues(kind).Inc()
	e.log.Warn().Err(err).Str("job_id", jobID).Msg(msg)
}
