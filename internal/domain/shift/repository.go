package shift

import (
	"context"
	"time"
)

type ShiftRepository interface {
	Create(ctx context.Context, s StaffShift) (StaffShift, error)
	GetByID(ctx context.Context, id string, businessID string) (StaffShift, error)
	List(ctx context.Context, filter ShiftFilter, businessID string) ([]StaffShift, int64, error)
	Update(ctx context.Context, s StaffShift) error
	Delete(ctx context.Context, id string, businessID string) error

	// FindOverlapping returns non-cancelled shifts of the staff member intersecting [start, end).
	FindOverlapping(ctx context.Context, staffID string, businessID string, start, end time.Time, excludeID *string) ([]StaffShift, error)

	// UpdateStatus moves a shift from one of the given statuses to next, stamping actual times.
	UpdateStatus(ctx context.Context, id string, businessID string, from []Status, next Status, actualStart, actualEnd *time.Time) (StaffShift, error)

	// GetForStaffOn returns the staff member's first non-cancelled shift on date.
	GetForStaffOn(ctx context.Context, staffID string, businessID string, date time.Time) (StaffShift, error)

	// GetCovering returns the staff member's scheduled or running shift whose
	// [scheduled_start - lead, scheduled_end) contains at.
	GetCovering(ctx context.Context, staffID string, businessID string, at time.Time, lead time.Duration) (StaffShift, error)
	ListUpcoming(ctx context.Context, staffID string, businessID string, from time.Time, limit int) ([]StaffShift, error)
	ListOnDuty(ctx context.Context, businessID string, at time.Time, role *string) ([]StaffShift, error)
	ListBetween(ctx context.Context, businessID string, staffID *string, start, end time.Time) ([]StaffShift, error)

	// ListMissed returns scheduled shifts that ended before cutoff with no attendance linked to them.
	ListMissed(ctx context.Context, cutoff time.Time) ([]StaffShift, error)
}
