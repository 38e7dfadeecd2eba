package activity

import (
	"context"
	"time"
)

type SessionRepository interface {
	Create(ctx context.Context, s StaffSessionActivity) (StaffSessionActivity, error)
	// GetBySessionID returns the session row; lock takes a row lock inside a transaction.
	GetBySessionID(ctx context.Context, sessionID string, businessID string, lock bool) (StaffSessionActivity, error)
	List(ctx context.Context, filter SessionFilter, businessID string) ([]StaffSessionActivity, int64, error)
	// Save persists counters, minutes, status, last_activity_at and ended_at.
	Save(ctx context.Context, s StaffSessionActivity) error
	// MarkIdle flags active sessions with no activity since cutoff as idle.
	MarkIdle(ctx context.Context, cutoff time.Time) (int64, error)
	// ExpireInactive marks open sessions idle since before cutoff as expired and returns them.
	ExpireInactive(ctx context.Context, cutoff time.Time) ([]StaffSessionActivity, error)
	// Totals aggregates sessions started within [start, end) per staff member.
	Totals(ctx context.Context, businessID string, staffID *string, start, end time.Time) ([]Totals, error)
}

type LogRepository interface {
	Create(ctx context.Context, l StaffActivityLog) error
	CreateBatch(ctx context.Context, logs []StaffActivityLog) error
	List(ctx context.Context, filter LogFilter, businessID string) ([]StaffActivityLog, int64, error)
}
