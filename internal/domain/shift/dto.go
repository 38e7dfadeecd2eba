package shift

import (
	"fmt"
	"strings"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/validator"
)

type CreateShiftRequest struct {
	StaffID        string  `json:"staff_id"`
	ShiftDate      string  `json:"shift_date,omitempty"`
	ScheduledStart string  `json:"scheduled_start"`
	ScheduledEnd   string  `json:"scheduled_end"`
	BreakMinutes   int     `json:"break_minutes"`
	Station        *string `json:"station,omitempty"`
	Notes          *string `json:"notes,omitempty"`

	start time.Time
	end   time.Time
	date  time.Time
}

func (r *CreateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "must be a valid UUID"})
	}

	start, okStart := validator.IsValidDateTime(r.ScheduledStart)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "scheduled_start", Message: "must be an RFC3339 timestamp"})
	}
	end, okEnd := validator.IsValidDateTime(r.ScheduledEnd)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "scheduled_end", Message: "must be an RFC3339 timestamp"})
	}
	if okStart && okEnd {
		errs = append(errs, validateRange(start, end, r.BreakMinutes)...)
	}
	if r.BreakMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "break_minutes", Message: "must be non-negative"})
	}

	date := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	if r.ShiftDate != "" {
		d, ok := validator.IsValidDate(r.ShiftDate)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "shift_date", Message: "must be in YYYY-MM-DD format"})
		}
		date = d
	}

	if len(errs) > 0 {
		return errs
	}
	r.start, r.end, r.date = start, end, date
	return nil
}

// Times returns the parsed range; valid only after Validate succeeds.
func (r *CreateShiftRequest) Times() (date, start, end time.Time) {
	return r.date, r.start, r.end
}

type BulkCreateShiftRequest struct {
	Shifts []CreateShiftRequest `json:"shifts"`
}

func (r *BulkCreateShiftRequest) Validate() error {
	var errs validator.ValidationErrors
	if len(r.Shifts) == 0 {
		errs = append(errs, validator.ValidationError{Field: "shifts", Message: "at least one shift is required"})
	}
	if len(r.Shifts) > 200 {
		errs = append(errs, validator.ValidationError{Field: "shifts", Message: "at most 200 shifts per request"})
	}
	for i := range r.Shifts {
		if err := r.Shifts[i].Validate(); err != nil {
			if itemErrs, ok := err.(validator.ValidationErrors); ok {
				for _, e := range itemErrs {
					errs = append(errs, validator.ValidationError{Field: fmt.Sprintf("shifts[%d].%s", i, e.Field), Message: e.Message})
				}
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateShiftRequest struct {
	ID             string  `json:"-"`
	ScheduledStart *string `json:"scheduled_start,omitempty"`
	ScheduledEnd   *string `json:"scheduled_end,omitempty"`
	BreakMinutes   *int    `json:"break_minutes,omitempty"`
	Station        *string `json:"station,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

func (r *UpdateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "must be a valid UUID"})
	}
	if r.ScheduledStart != nil {
		if _, ok := validator.IsValidDateTime(*r.ScheduledStart); !ok {
			errs = append(errs, validator.ValidationError{Field: "scheduled_start", Message: "must be an RFC3339 timestamp"})
		}
	}
	if r.ScheduledEnd != nil {
		if _, ok := validator.IsValidDateTime(*r.ScheduledEnd); !ok {
			errs = append(errs, validator.ValidationError{Field: "scheduled_end", Message: "must be an RFC3339 timestamp"})
		}
	}
	if r.BreakMinutes != nil && *r.BreakMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "break_minutes", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ApplyTo merges the update into an existing shift and re-checks the range.
func (r *UpdateShiftRequest) ApplyTo(s *StaffShift) error {
	if r.ScheduledStart != nil {
		t, _ := validator.IsValidDateTime(*r.ScheduledStart)
		s.ScheduledStart = t
		s.ShiftDate = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	if r.ScheduledEnd != nil {
		t, _ := validator.IsValidDateTime(*r.ScheduledEnd)
		s.ScheduledEnd = t
	}
	if r.BreakMinutes != nil {
		s.BreakMinutes = *r.BreakMinutes
	}
	if r.Station != nil {
		s.Station = r.Station
	}
	if r.Notes != nil {
		s.Notes = r.Notes
	}
	if errs := validateRange(s.ScheduledStart, s.ScheduledEnd, s.BreakMinutes); len(errs) > 0 {
		return errs
	}
	return nil
}

func validateRange(start, end time.Time, breakMinutes int) validator.ValidationErrors {
	var errs validator.ValidationErrors
	switch {
	case !end.After(start):
		errs = append(errs, validator.ValidationError{Field: "scheduled_end", Message: ErrShiftEndBeforeStart.Error()})
	case end.Sub(start) > MaxShiftDuration:
		errs = append(errs, validator.ValidationError{Field: "scheduled_end", Message: ErrShiftTooLong.Error()})
	case time.Duration(breakMinutes)*time.Minute >= end.Sub(start):
		errs = append(errs, validator.ValidationError{Field: "break_minutes", Message: "break must be shorter than the shift"})
	}
	return errs
}

type ShiftFilter struct {
	StaffID   *string
	Status    *string
	Station   *string
	StartDate *string
	EndDate   *string
	Page      int
	Limit     int
}

func (f *ShiftFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 50
	}
	if f.Limit > 200 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be at most 200"})
	}
	if f.StaffID != nil && !validator.IsValidUUID(*f.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "must be a valid UUID"})
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, Statuses) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of: " + strings.Join(Statuses, ", ")})
	}
	if f.StartDate != nil {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if f.EndDate != nil {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CalendarRequest struct {
	StaffID   *string
	StartDate string
	EndDate   string
}

func (r *CalendarRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.StaffID != nil && !validator.IsValidUUID(*r.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "must be a valid UUID"})
	}
	_, _, rangeErrs := validator.ValidateDateRange("start_date", r.StartDate, "end_date", r.EndDate, 366)
	errs = append(errs, rangeErrs...)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ShiftResponse struct {
	ID             string  `json:"id"`
	StaffID        string  `json:"staff_id"`
	StaffName      string  `json:"staff_name,omitempty"`
	StaffRole      string  `json:"staff_role,omitempty"`
	ShiftDate      string  `json:"shift_date"`
	ScheduledStart string  `json:"scheduled_start"`
	ScheduledEnd   string  `json:"scheduled_end"`
	ActualStart    *string `json:"actual_start,omitempty"`
	ActualEnd      *string `json:"actual_end,omitempty"`
	BreakMinutes   int     `json:"break_minutes"`
	Station        *string `json:"station,omitempty"`
	Status         string  `json:"status"`
	Notes          *string `json:"notes,omitempty"`
	CreatedBy      *string `json:"created_by,omitempty"`
}

type ListShiftResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Shifts     []ShiftResponse `json:"shifts"`
}

// BulkConflict points at a request item that overlaps an existing or sibling shift.
type BulkConflict struct {
	Index           int    `json:"index"`
	StaffID         string `json:"staff_id"`
	ConflictShiftID string `json:"conflict_shift_id,omitempty"`
	ConflictIndex   *int   `json:"conflict_index,omitempty"`
}

type BulkCreateShiftResponse struct {
	Created   []ShiftResponse `json:"created"`
	Conflicts []BulkConflict  `json:"conflicts"`
}

func NewShiftResponse(s StaffShift) ShiftResponse {
	return ShiftResponse{
		ID:             s.ID,
		StaffID:        s.StaffID,
		StaffName:      s.StaffName,
		StaffRole:      s.StaffRole,
		ShiftDate:      s.ShiftDate.Format(validator.DateLayout),
		ScheduledStart: s.ScheduledStart.Format(time.RFC3339),
		ScheduledEnd:   s.ScheduledEnd.Format(time.RFC3339),
		ActualStart:    formatTime(s.ActualStart),
		ActualEnd:      formatTime(s.ActualEnd),
		BreakMinutes:   s.BreakMinutes,
		Station:        s.Station,
		Status:         string(s.Status),
		Notes:          s.Notes,
		CreatedBy:      s.CreatedBy,
	}
}

func NewShiftResponses(shifts []StaffShift) []ShiftResponse {
	out := make([]ShiftResponse, 0, len(shifts))
	for _, s := range shifts {
		out = append(out, NewShiftResponse(s))
	}
	return out
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
