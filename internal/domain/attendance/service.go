package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// ClockIn records the caller's arrival, or a kiosk arrival when the request carries a PIN.
	ClockIn(ctx context.Context, req ClockInRequest) (AttendanceResponse, error)

	// ClockOut closes the caller's open attendance for today
	ClockOut(ctx context.Context, req ClockOutRequest) (AttendanceResponse, error)

	// RecordManual lets a manager record absences, leave or corrected times
	RecordManual(ctx context.Context, req ManualAttendanceRequest) (AttendanceResponse, error)

	// UpdateAttendance corrects a record and recomputes its derived fields
	UpdateAttendance(ctx context.Context, req UpdateAttendanceRequest) (AttendanceResponse, error)

	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
	GetMyAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	GetSummary(ctx context.Context, req SummaryRequest) (Summary, error)
	GetMySummary(ctx context.Context, req SummaryRequest) (Summary, error)

	// MarkNoShows flags shifts that ended without attendance and records the absence.
	MarkNoShows(ctx context.Context) (int, error)
	// CloseStale auto-closes attendances left open past the stale threshold.
	CloseStale(ctx context.Context) (int, error)
}
