package shift

import (
	"time"
)

const MaxShiftDuration = 16 * time.Hour

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

var Statuses = []string{
	string(StatusScheduled),
	string(StatusInProgress),
	string(StatusCompleted),
	string(StatusCancelled),
	string(StatusNoShow),
}

// IsFinal reports whether a shift can no longer be edited.
func (s Status) IsFinal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

type StaffShift struct {
	ID             string
	BusinessID     string
	StaffID        string
	ShiftDate      time.Time
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	ActualStart    *time.Time
	ActualEnd      *time.Time
	BreakMinutes   int
	Station        *string
	Status         Status
	Notes          *string
	CreatedBy      *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Joined
	StaffName string
	StaffRole string
}

// Duration is the scheduled length minus the unpaid break.
func (s StaffShift) Duration() time.Duration {
	d := s.ScheduledEnd.Sub(s.ScheduledStart) - time.Duration(s.BreakMinutes)*time.Minute
	if d < 0 {
		return 0
	}
	return d
}

// Overlaps reports whether two half-open ranges [aStart, aEnd) and [bStart, bEnd) intersect.
// Touching ranges (aEnd == bStart) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
