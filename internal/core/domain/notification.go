package domain

import "time"

const (
	NotificationNewJob      = "New Job"
	NotificationApplication = "Job Application"
	NotificationCompleted   = "Job Completed"
	NotificationCancelled   = "Job Cancelled"
)

// Notification is a one-way in-app message for a single recipient.
type Notification struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	RecipientID string    `json:"recipient_id"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}
