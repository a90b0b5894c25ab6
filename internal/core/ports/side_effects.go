package ports

import (
	"context"

	"github.com/dwjc/job-connector/internal/core/domain"
)

// Broadcaster pushes real-time events to connected clients. Publish must not
// block on client delivery.
type Broadcaster interface {
	Publish(ctx context.Context, event domain.RealtimeEvent) error
}

// MailMessage is a single outbound email to one recipient.
type MailMessage struct {
	To      string
	Subject string
	HTML    string
}

// MailSender delivers one message synchronously.
type MailSender interface {
	Send(ctx context.Context, msg MailMessage) error
}

// MailQueue accepts messages for asynchronous delivery. Enqueue reports
// false when the message was dropped.
type MailQueue interface {
	Enqueue(msg MailMessage) bool
}
