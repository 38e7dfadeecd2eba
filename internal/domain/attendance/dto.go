package attendance

import (
	"strings"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type ClockInRequest struct {
	// StaffID is only read from the body for kiosk (PIN) clock-ins.
	StaffID string        `json:"staff_id,omitempty"`
	PIN     string        `json:"pin,omitempty"`
	Notes   *string       `json:"notes,omitempty"`
	Method  ClockInMethod `json:"-"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Method == ClockInMethodPIN {
		if !validator.IsValidUUID(r.StaffID) {
			errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "must be a valid UUID"})
		}
		if !validator.IsValidPIN(r.PIN) {
			errs = append(errs, validator.ValidationError{Field: "pin", Message: "pin must be 4 to 6 digits"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ClockOutRequest struct {
	Notes *string `json:"notes,omitempty"`
}

type ManualAttendanceRequest struct {
	StaffID        string  `json:"staff_id"`
	AttendanceDate string  `json:"attendance_date"`
	Status         string  `json:"status"`
	ClockIn        *string `json:"clock_in,omitempty"`
	ClockOut       *string `json:"clock_out,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

func (r *ManualAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "must be a valid UUID"})
	}
	if _, ok := validator.IsValidDate(r.AttendanceDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "attendance_date", Message: "must be in YYYY-MM-DD format"})
	}
	if !validator.IsInSlice(r.Status, Statuses) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of: " + strings.Join(Statuses, ", ")})
	}

	noTimes := r.Status == string(StatusAbsent) || r.Status == string(StatusOnLeave)
	if noTimes && (r.ClockIn != nil || r.ClockOut != nil) {
		errs = append(errs, validator.ValidationError{Field: "clock_in", Message: "absent and on_leave records cannot carry clock times"})
	}
	if !noTimes && r.ClockIn == nil {
		errs = append(errs, validator.ValidationError{Field: "clock_in", Message: "clock_in is required for this status"})
	}
	errs = append(errs, validateClockTimes(r.ClockIn, r.ClockOut)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateAttendanceRequest struct {
	ID       string  `json:"-"`
	ClockIn  *string `json:"clock_in,omitempty"`
	ClockOut *string `json:"clock_out,omitempty"`
	Status   *string `json:"status,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "must be a valid UUID"})
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, Statuses) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of: " + strings.Join(Statuses, ", ")})
	}
	errs = append(errs, validateClockTimes(r.ClockIn, r.ClockOut)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateClockTimes(clockIn, clockOut *string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	var okIn, okOut bool
	if clockIn != nil {
		if _, okIn = validator.IsValidDateTime(*clockIn); !okIn {
			errs = append(errs, validator.ValidationError{Field: "clock_in", Message: "must be an RFC3339 timestamp"})
		}
	}
	if clockOut != nil {
		if _, okOut = validator.IsValidDateTime(*clockOut); !okOut {
			errs = append(errs, validator.ValidationError{Field: "clock_out", Message: "must be an RFC3339 timestamp"})
		}
	}
	if okIn && okOut {
		in, _ := validator.IsValidDateTime(*clockIn)
		out, _ := validator.IsValidDateTime(*clockOut)
		if !out.After(in) {
			errs = append(errs, validator.ValidationError{Field: "clock_out", Message: "clock_out must be after clock_in"})
		}
	}
	return errs
}

type AttendanceFilter struct {
	StaffID   *string
	Status    *string
	StartDate *string
	EndDate   *string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be at most 100"})
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
	if f.SortBy != "" && !validator.IsInSlice(f.SortBy, []string{"date", "clock_in", "status", "staff_name"}) {
		errs = append(errs, validator.ValidationError{Field: "sort_by", Message: "sort_by must be one of: date, clock_in, status, staff_name"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SummaryRequest struct {
	StaffID   string
	StartDate string
	EndDate   string
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.StaffID != "" && !validator.IsValidUUID(r.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "must be a valid UUID"})
	}
	_, _, rangeErrs := validator.ValidateDateRange("start_date", r.StartDate, "end_date", r.EndDate, 366)
	errs = append(errs, rangeErrs...)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceResponse struct {
	ID                    string  `json:"id"`
	StaffID               string  `json:"staff_id"`
	StaffName             string  `json:"staff_name,omitempty"`
	ShiftID               *string `json:"shift_id,omitempty"`
	AttendanceDate        string  `json:"attendance_date"`
	ClockIn               *string `json:"clock_in,omitempty"`
	ClockOut              *string `json:"clock_out,omitempty"`
	Status                string  `json:"status"`
	HoursWorked           float64 `json:"hours_worked"`
	OvertimeHours         float64 `json:"overtime_hours"`
	LateMinutes           int     `json:"late_minutes"`
	EarlyDepartureMinutes int     `json:"early_departure_minutes"`
	ClockInMethod         string  `json:"clock_in_method"`
	Notes                 *string `json:"notes,omitempty"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}

func NewAttendanceResponse(a StaffAttendance) AttendanceResponse {
	return AttendanceResponse{
		ID:                    a.ID,
		StaffID:               a.StaffID,
		StaffName:             a.StaffName,
		ShiftID:               a.ShiftID,
		AttendanceDate:        a.AttendanceDate.Format(validator.DateLayout),
		ClockIn:               formatTime(a.ClockIn),
		ClockOut:              formatTime(a.ClockOut),
		Status:                string(a.Status),
		HoursWorked:           a.HoursWorked,
		OvertimeHours:         a.OvertimeHours,
		LateMinutes:           a.LateMinutes,
		EarlyDepartureMinutes: a.EarlyDepartureMinutes,
		ClockInMethod:         string(a.ClockInMethod),
		Notes:                 a.Notes,
	}
}

func NewAttendanceResponses(records []StaffAttendance) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(records))
	for _, a := range records {
		out = append(out, NewAttendanceResponse(a))
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
