package shift

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/shift"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/staff"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/calendar"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/jwt"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/sse"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/validator"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/repository/postgresql"
)

const (
	EventShiftCreated   = "shift.created"
	EventShiftUpdated   = "shift.updated"
	EventShiftStarted   = "shift.started"
	EventShiftEnded     = "shift.ended"
	EventShiftCancelled = "shift.cancelled"

	defaultUpcomingLimit = 10
	maxUpcomingLimit     = 50
)

// StaffLookup resolves a staff member within a business.
type StaffLookup interface {
	GetByID(ctx context.Context, id string, businessID string) (staff.Staff, error)
}

type ShiftServiceImpl struct {
	tx        postgresql.Transactor
	shiftRepo shift.ShiftRepository
	staffRepo StaffLookup
	events    sse.Publisher
	now       func() time.Time
}

func NewShiftService(
	tx postgresql.Transactor,
	shiftRepo shift.ShiftRepository,
	staffRepo StaffLookup,
	events sse.Publisher,
) shift.ShiftService {
	return &ShiftServiceImpl{
		tx:        tx,
		shiftRepo: shiftRepo,
		staffRepo: staffRepo,
		events:    events,
		now:       time.Now,
	}
}

func (s *ShiftServiceImpl) publish(businessID, eventType string, sh shift.StaffShift) {
	if s.events == nil {
		return
	}
	s.events.Publish(businessID, sse.Event{Type: eventType, Data: shift.NewShiftResponse(sh)})
}

func newShift(businessID string, createdBy *string, req *shift.CreateShiftRequest) shift.StaffShift {
	date, start, end := req.Times()
	return shift.StaffShift{
		BusinessID:     businessID,
		StaffID:        req.StaffID,
		ShiftDate:      date,
		ScheduledStart: start,
		ScheduledEnd:   end,
		BreakMinutes:   req.BreakMinutes,
		Station:        req.Station,
		Status:         shift.StatusScheduled,
		Notes:          req.Notes,
		CreatedBy:      createdBy,
	}
}

func optionalID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// CreateShift implements shift.ShiftService.
func (s *ShiftServiceImpl) CreateShift(ctx context.Context, req shift.CreateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	if _, err := s.staffRepo.GetByID(ctx, req.StaffID, claims.BusinessID); err != nil {
		return shift.ShiftResponse{}, err
	}

	_, start, end := req.Times()
	overlapping, err := s.shiftRepo.FindOverlapping(ctx, req.StaffID, claims.BusinessID, start, end, nil)
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to check shift conflicts: %w", err)
	}
	if len(overlapping) > 0 {
		return shift.ShiftResponse{}, shift.ErrShiftConflict
	}

	created, err := s.shiftRepo.Create(ctx, newShift(claims.BusinessID, optionalID(claims.StaffID), &req))
	if err != nil {
		if errors.Is(err, shift.ErrShiftConflict) || errors.Is(err, staff.ErrStaffNotFound) {
			return shift.ShiftResponse{}, err
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to create shift: %w", err)
	}

	s.publish(claims.BusinessID, EventShiftCreated, created)
	return shift.NewShiftResponse(created), nil
}

// BulkCreate implements shift.ShiftService. Items are checked against each other and
// against stored shifts before anything is written.
func (s *ShiftServiceImpl) BulkCreate(ctx context.Context, req shift.BulkCreateShiftRequest) (shift.BulkCreateShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.BulkCreateShiftResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return shift.BulkCreateShiftResponse{}, err
	}

	checked := map[string]bool{}
	for _, item := range req.Shifts {
		if checked[item.StaffID] {
			continue
		}
		if _, err := s.staffRepo.GetByID(ctx, item.StaffID, claims.BusinessID); err != nil {
			return shift.BulkCreateShiftResponse{}, err
		}
		checked[item.StaffID] = true
	}

	var conflicts []shift.BulkConflict
	for i := range req.Shifts {
		item := &req.Shifts[i]
		_, start, end := item.Times()

		for j := 0; j < i; j++ {
			other := &req.Shifts[j]
			_, oStart, oEnd := other.Times()
			if other.StaffID == item.StaffID && shift.Overlaps(start, end, oStart, oEnd) {
				idx := j
				conflicts = append(conflicts, shift.BulkConflict{Index: i, StaffID: item.StaffID, ConflictIndex: &idx})
				break
			}
		}

		overlapping, err := s.shiftRepo.FindOverlapping(ctx, item.StaffID, claims.BusinessID, start, end, nil)
		if err != nil {
			return shift.BulkCreateShiftResponse{}, fmt.Errorf("failed to check shift conflicts: %w", err)
		}
		if len(overlapping) > 0 {
			conflicts = append(conflicts, shift.BulkConflict{Index: i, StaffID: item.StaffID, ConflictShiftID: overlapping[0].ID})
		}
	}
	if len(conflicts) > 0 {
		return shift.BulkCreateShiftResponse{}, &shift.BulkConflictError{Conflicts: conflicts}
	}

	created := make([]shift.StaffShift, 0, len(req.Shifts))
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		for i := range req.Shifts {
			sh, err := s.shiftRepo.Create(ctx, newShift(claims.BusinessID, optionalID(claims.StaffID), &req.Shifts[i]))
			if err != nil {
				if errors.Is(err, shift.ErrShiftConflict) {
					return &shift.BulkConflictError{Conflicts: []shift.BulkConflict{{Index: i, StaffID: req.Shifts[i].StaffID}}}
				}
				return err
			}
			created = append(created, sh)
		}
		return nil
	})
	if err != nil {
		var bulkErr *shift.BulkConflictError
		if errors.As(err, &bulkErr) {
			return shift.BulkCreateShiftResponse{}, bulkErr
		}
		return shift.BulkCreateShiftResponse{}, fmt.Errorf("failed to create shifts: %w", err)
	}

	for _, sh := range created {
		s.publish(claims.BusinessID, EventShiftCreated, sh)
	}
	return shift.BulkCreateShiftResponse{
		Created:   shift.NewShiftResponses(created),
		Conflicts: []shift.BulkConflict{},
	}, nil
}

// GetShift implements shift.ShiftService.
func (s *ShiftServiceImpl) GetShift(ctx context.Context, id string) (shift.ShiftResponse, error) {
	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	sh, err := s.shiftRepo.GetByID(ctx, id, businessID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	return shift.NewShiftResponse(sh), nil
}

// ListShifts implements shift.ShiftService.
func (s *ShiftServiceImpl) ListShifts(ctx context.Context, filter shift.ShiftFilter) (shift.ListShiftResponse, error) {
	if err := filter.Validate(); err != nil {
		return shift.ListShiftResponse{}, err
	}

	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return shift.ListShiftResponse{}, err
	}

	shifts, total, err := s.shiftRepo.List(ctx, filter, businessID)
	if err != nil {
		return shift.ListShiftResponse{}, fmt.Errorf("failed to list shifts: %w", err)
	}

	return shift.ListShiftResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Shifts:     shift.NewShiftResponses(shifts),
	}, nil
}

// UpdateShift implements shift.ShiftService.
func (s *ShiftServiceImpl) UpdateShift(ctx context.Context, req shift.UpdateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	existing, err := s.shiftRepo.GetByID(ctx, req.ID, businessID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	if existing.Status.IsFinal() {
		return shift.ShiftResponse{}, shift.ErrShiftNotEditable
	}

	if err := req.ApplyTo(&existing); err != nil {
		return shift.ShiftResponse{}, err
	}

	overlapping, err := s.shiftRepo.FindOverlapping(ctx, existing.StaffID, businessID, existing.ScheduledStart, existing.ScheduledEnd, &existing.ID)
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to check shift conflicts: %w", err)
	}
	if len(overlapping) > 0 {
		return shift.ShiftResponse{}, shift.ErrShiftConflict
	}

	if err := s.shiftRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, shift.ErrShiftConflict) || errors.Is(err, shift.ErrShiftNotFound) {
			return shift.ShiftResponse{}, err
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to update shift: %w", err)
	}

	s.publish(businessID, EventShiftUpdated, existing)
	return shift.NewShiftResponse(existing), nil
}

// DeleteShift implements shift.ShiftService.
func (s *ShiftServiceImpl) DeleteShift(ctx context.Context, id string) error {
	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return err
	}

	existing, err := s.shiftRepo.GetByID(ctx, id, businessID)
	if err != nil {
		return err
	}
	if existing.Status != shift.StatusScheduled {
		return shift.ErrShiftNotDeletable
	}
	return s.shiftRepo.Delete(ctx, id, businessID)
}

func (s *ShiftServiceImpl) transition(ctx context.Context, id string, from shift.Status, next shift.Status, eventType string) (shift.ShiftResponse, error) {
	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	now := s.now().UTC()
	var actualStart, actualEnd *time.Time
	switch next {
	case shift.StatusInProgress:
		actualStart = &now
	case shift.StatusCompleted:
		actualEnd = &now
	}

	updated, err := s.shiftRepo.UpdateStatus(ctx, id, businessID, []shift.Status{from}, next, actualStart, actualEnd)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	s.publish(businessID, eventType, updated)
	return shift.NewShiftResponse(updated), nil
}

// StartShift implements shift.ShiftService.
func (s *ShiftServiceImpl) StartShift(ctx context.Context, id string) (shift.ShiftResponse, error) {
	return s.transition(ctx, id, shift.StatusScheduled, shift.StatusInProgress, EventShiftStarted)
}

// EndShift implements shift.ShiftService.
func (s *ShiftServiceImpl) EndShift(ctx context.Context, id string) (shift.ShiftResponse, error) {
	return s.transition(ctx, id, shift.StatusInProgress, shift.StatusCompleted, EventShiftEnded)
}

// CancelShift implements shift.ShiftService.
func (s *ShiftServiceImpl) CancelShift(ctx context.Context, id string) (shift.ShiftResponse, error) {
	return s.transition(ctx, id, shift.StatusScheduled, shift.StatusCancelled, EventShiftCancelled)
}

// Upcoming implements shift.ShiftService. An empty staffID means the caller.
func (s *ShiftServiceImpl) Upcoming(ctx context.Context, staffID string, limit int) ([]shift.ShiftResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if staffID == "" {
		staffID = claims.StaffID
	}
	if !validator.IsValidUUID(staffID) {
		return nil, validator.ValidationErrors{{Field: "staff_id", Message: "must be a valid UUID"}}
	}
	if limit < 1 {
		limit = defaultUpcomingLimit
	}
	if limit > maxUpcomingLimit {
		limit = maxUpcomingLimit
	}

	shifts, err := s.shiftRepo.ListUpcoming(ctx, staffID, claims.BusinessID, s.now().UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming shifts: %w", err)
	}
	return shift.NewShiftResponses(shifts), nil
}

// OnDutyNow implements shift.ShiftService.
func (s *ShiftServiceImpl) OnDutyNow(ctx context.Context, role *string) ([]shift.ShiftResponse, error) {
	if role != nil && !validator.IsInSlice(*role, staff.Roles) {
		return nil, validator.ValidationErrors{{Field: "role", Message: "role must be one of: " + strings.Join(staff.Roles, ", ")}}
	}

	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	shifts, err := s.shiftRepo.ListOnDuty(ctx, businessID, s.now().UTC(), role)
	if err != nil {
		return nil, fmt.Errorf("failed to list on-duty shifts: %w", err)
	}
	return shift.NewShiftResponses(shifts), nil
}

// CalendarFeed implements shift.ShiftService.
func (s *ShiftServiceImpl) CalendarFeed(ctx context.Context, req shift.CalendarRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return "", err
	}

	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)

	shifts, err := s.shiftRepo.ListBetween(ctx, businessID, req.StaffID, start, end)
	if err != nil {
		return "", fmt.Errorf("failed to list shifts: %w", err)
	}

	events := make([]calendar.Event, 0, len(shifts))
	for _, sh := range shifts {
		summary := sh.StaffName + " shift"
		if sh.StaffRole != "" {
			summary = fmt.Sprintf("%s (%s) shift", sh.StaffName, sh.StaffRole)
		}
		var location, description string
		if sh.Station != nil {
			location = *sh.Station
		}
		if sh.Notes != nil {
			description = *sh.Notes
		}
		events = append(events, calendar.Event{
			UID:         sh.ID + "@shifts",
			Summary:     summary,
			Description: description,
			Location:    location,
			Start:       sh.ScheduledStart,
			End:         sh.ScheduledEnd,
			Cancelled:   sh.Status == shift.StatusCancelled,
			UpdatedAt:   sh.UpdatedAt,
		})
	}

	name := "Shifts"
	if req.StaffID != nil && len(shifts) > 0 {
		name = shifts[0].StaffName + " shifts"
	}
	return calendar.Build(name, events, s.now()), nil
}
