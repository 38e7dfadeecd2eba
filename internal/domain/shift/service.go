package shift

import (
	"context"
)

type ShiftService interface {
	CreateShift(ctx context.Context, req CreateShiftRequest) (ShiftResponse, error)
	// BulkCreate creates a schedule all-or-nothing; conflicts are reported per item.
	BulkCreate(ctx context.Context, req BulkCreateShiftRequest) (BulkCreateShiftResponse, error)
	GetShift(ctx context.Context, id string) (ShiftResponse, error)
	ListShifts(ctx context.Context, filter ShiftFilter) (ListShiftResponse, error)
	UpdateShift(ctx context.Context, req UpdateShiftRequest) (ShiftResponse, error)
	DeleteShift(ctx context.Context, id string) error

	StartShift(ctx context.Context, id string) (ShiftResponse, error)
	EndShift(ctx context.Context, id string) (ShiftResponse, error)
	CancelShift(ctx context.Context, id string) (ShiftResponse, error)

	Upcoming(ctx context.Context, staffID string, limit int) ([]ShiftResponse, error)
	OnDutyNow(ctx context.Context, role *string) ([]ShiftResponse, error)
	CalendarFeed(ctx context.Context, req CalendarRequest) (string, error)
}
