package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	Create(ctx context.Context, a StaffAttendance) (StaffAttendance, error)
	GetByID(ctx context.Context, id string, businessID string) (StaffAttendance, error)
	GetByStaffAndDate(ctx context.Context, staffID string, businessID string, date time.Time) (StaffAttendance, error)
	GetOpen(ctx context.Context, staffID string, businessID string) (StaffAttendance, error)
	List(ctx context.Context, filter AttendanceFilter, businessID string) ([]StaffAttendance, int64, error)
	Update(ctx context.Context, a StaffAttendance) error

	Summary(ctx context.Context, staffID string, businessID string, start, end time.Time) (Summary, error)
	CountForDate(ctx context.Context, businessID string, date time.Time, role *string) (DayCounts, error)
	ListForDate(ctx context.Context, businessID string, date time.Time, status *Status, role *string) ([]StaffAttendance, error)

	// ListStaleOpen returns records whose clock_in is older than cutoff and have no clock_out.
	ListStaleOpen(ctx context.Context, cutoff time.Time) ([]StaffAttendance, error)
}
