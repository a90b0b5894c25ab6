package domain

import (
	"errors"
	"time"
)

var ErrWishlistEntryNotFound = errors.New("wishlist entry not found")

// WishlistEntry marks a worker's interest in a job. Unique per (UserID, JobID).
type WishlistEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	JobID     string    `json:"job_id"`
	CreatedAt time.Time `json:"created_at"`
}
