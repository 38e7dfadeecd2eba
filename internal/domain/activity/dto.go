package activity

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/validator"
)

const MaxEventsPerBatch = 500

type StartSessionRequest struct {
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

type Event struct {
	Type      string         `json:"type"`
	Resource  *string        `json:"resource,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp string         `json:"timestamp"`

	at time.Time
}

// At returns the parsed timestamp; valid only after validation.
func (e Event) At() time.Time {
	return e.at
}

type RecordEventsRequest struct {
	SessionID string  `json:"-"`
	Events    []Event `json:"events"`
}

// Validate parses every event and sorts them by timestamp.
func (r *RecordEventsRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.SessionID) {
		errs = append(errs, validator.ValidationError{Field: "session_id", Message: "must be a valid UUID"})
	}
	if len(r.Events) == 0 {
		errs = append(errs, validator.ValidationError{Field: "events", Message: "at least one event is required"})
	}
	if len(r.Events) > MaxEventsPerBatch {
		errs = append(errs, validator.ValidationError{Field: "events", Message: fmt.Sprintf("at most %d events per request", MaxEventsPerBatch)})
	}
	for i := range r.Events {
		e := &r.Events[i]
		if !validator.IsInSlice(e.Type, EventTypes) {
			errs = append(errs, validator.ValidationError{Field: fmt.Sprintf("events[%d].type", i), Message: "type must be one of: " + strings.Join(EventTypes, ", ")})
		}
		at, ok := validator.IsValidDateTime(e.Timestamp)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: fmt.Sprintf("events[%d].timestamp", i), Message: "must be an RFC3339 timestamp"})
		}
		e.at = at
	}

	if len(errs) > 0 {
		return errs
	}
	sort.SliceStable(r.Events, func(i, j int) bool { return r.Events[i].at.Before(r.Events[j].at) })
	return nil
}

type SessionFilter struct {
	StaffID   *string
	Status    *string
	StartDate *string
	EndDate   *string
	Page      int
	Limit     int
}

func (f *SessionFilter) Validate() error {
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
	if f.Status != nil && !validator.IsInSlice(*f.Status, SessionStatuses) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of: " + strings.Join(SessionStatuses, ", ")})
	}
	errs = append(errs, validateOptionalDates(f.StartDate, f.EndDate)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LogFilter struct {
	StaffID    *string
	SessionID  *string
	ActionType *string
	StartDate  *string
	EndDate    *string
	Page       int
	Limit      int
}

func (f *LogFilter) Validate() error {
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
	if f.SessionID != nil && !validator.IsValidUUID(*f.SessionID) {
		errs = append(errs, validator.ValidationError{Field: "session_id", Message: "must be a valid UUID"})
	}
	if f.ActionType != nil && !validator.IsInSlice(*f.ActionType, ActionTypes) {
		errs = append(errs, validator.ValidationError{Field: "action_type", Message: "action_type must be one of: " + strings.Join(ActionTypes, ", ")})
	}
	errs = append(errs, validateOptionalDates(f.StartDate, f.EndDate)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateOptionalDates(start, end *string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if start != nil {
		if _, ok := validator.IsValidDate(*start); !ok {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if end != nil {
		if _, ok := validator.IsValidDate(*end); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be in YYYY-MM-DD format"})
		}
	}
	return errs
}

type SummaryRequest struct {
	StaffID   string
	StartDate string
	EndDate   string
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "must be a valid UUID"})
	}
	_, _, rangeErrs := validator.ValidateDateRange("start_date", r.StartDate, "end_date", r.EndDate, 366)
	errs = append(errs, rangeErrs...)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SessionResponse struct {
	ID               string  `json:"id"`
	SessionID        string  `json:"session_id"`
	StaffID          string  `json:"staff_id"`
	StaffName        string  `json:"staff_name,omitempty"`
	StartedAt        string  `json:"started_at"`
	EndedAt          *string `json:"ended_at,omitempty"`
	LastActivityAt   string  `json:"last_activity_at"`
	PagesVisited     int     `json:"pages_visited"`
	ActionsPerformed int     `json:"actions_performed"`
	TasksCompleted   int     `json:"tasks_completed"`
	TasksFailed      int     `json:"tasks_failed"`
	ActiveMinutes    float64 `json:"active_minutes"`
	IdleMinutes      float64 `json:"idle_minutes"`
	Status           string  `json:"status"`
	IPAddress        *string `json:"ip_address,omitempty"`
	UserAgent        *string `json:"user_agent,omitempty"`
}

type ListSessionResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Sessions   []SessionResponse `json:"sessions"`
}

type LogResponse struct {
	ID         string         `json:"id"`
	StaffID    string         `json:"staff_id"`
	StaffName  string         `json:"staff_name,omitempty"`
	SessionID  *string        `json:"session_id,omitempty"`
	ActionType string         `json:"action_type"`
	Resource   *string        `json:"resource,omitempty"`
	Details    map[string]any `json:"details"`
	CreatedAt  string         `json:"created_at"`
}

type ListLogResponse struct {
	TotalCount int64         `json:"total_count"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"total_pages"`
	Logs       []LogResponse `json:"logs"`
}

type OnlineStaffResponse struct {
	StaffID      string `json:"staff_id"`
	LastActiveAt string `json:"last_active_at"`
}

type SummaryResponse struct {
	StaffID           string  `json:"staff_id"`
	StartDate         string  `json:"start_date"`
	EndDate           string  `json:"end_date"`
	Sessions          int     `json:"sessions"`
	ActiveMinutes     float64 `json:"active_minutes"`
	IdleMinutes       float64 `json:"idle_minutes"`
	PagesVisited      int     `json:"pages_visited"`
	ActionsPerformed  int     `json:"actions_performed"`
	TasksCompleted    int     `json:"tasks_completed"`
	TasksFailed       int     `json:"tasks_failed"`
	ProductivityScore float64 `json:"productivity_score"`
}
