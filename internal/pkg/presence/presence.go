package presence

import (
	"context"
	"time"
)

// Entry is one staff member seen online.
type Entry struct {
	StaffID      string    `json:"staff_id"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// Store tracks which staff members have an active session and when they were last seen.
type Store interface {
	Touch(ctx context.Context, businessID, staffID string, at time.Time) error
	Remove(ctx context.Context, businessID, staffID string) error
	// Online returns entries seen at or after since, most recent first.
	Online(ctx context.Context, businessID string, since time.Time) ([]Entry, error)
}
