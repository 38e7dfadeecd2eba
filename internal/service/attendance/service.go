package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/attendance"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/shift"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/staff"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/jwt"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/sse"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/validator"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/repository/postgresql"
)

const (
	EventClockIn  = "attendance.clock_in"
	EventClockOut = "attendance.clock_out"
	EventNoShow   = "attendance.no_show"

	autoCloseNote = "auto-closed"
)

// ShiftTracker is the part of the shift store attendance needs.
type ShiftTracker interface {
	GetByID(ctx context.Context, id string, businessID string) (shift.StaffShift, error)
	GetForStaffOn(ctx context.Context, staffID string, businessID string, date time.Time) (shift.StaffShift, error)
	GetCovering(ctx context.Context, staffID string, businessID string, at time.Time, lead time.Duration) (shift.StaffShift, error)
	UpdateStatus(ctx context.Context, id string, businessID string, from []shift.Status, next shift.Status, actualStart, actualEnd *time.Time) (shift.StaffShift, error)
	ListMissed(ctx context.Context, cutoff time.Time) ([]shift.StaffShift, error)
}

// PINVerifier checks kiosk PINs.
type PINVerifier interface {
	VerifyPIN(ctx context.Context, id string, pin string) (staff.Staff, error)
}

// StaffLookup resolves a staff member within a business.
type StaffLookup interface {
	GetByID(ctx context.Context, id string, businessID string) (staff.Staff, error)
}

type AttendanceServiceImpl struct {
	tx             postgresql.Transactor
	attendanceRepo attendance.AttendanceRepository
	shiftRepo      ShiftTracker
	pins           PINVerifier
	staffRepo      StaffLookup
	events         sse.Publisher
	rules          Rules
	now            func() time.Time
}

func NewAttendanceService(
	tx postgresql.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	shiftRepo ShiftTracker,
	pins PINVerifier,
	staffRepo StaffLookup,
	events sse.Publisher,
	rules Rules,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:             tx,
		attendanceRepo: attendanceRepo,
		shiftRepo:      shiftRepo,
		pins:           pins,
		staffRepo:      staffRepo,
		events:         events,
		rules:          rules,
		now:            time.Now,
	}
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *AttendanceServiceImpl) publish(businessID, eventType string, a attendance.StaffAttendance) {
	if s.events == nil {
		return
	}
	s.events.Publish(businessID, sse.Event{Type: eventType, Data: attendance.NewAttendanceResponse(a)})
}

// shiftFor returns the linked shift of a record, or nil when it has none.
func (s *AttendanceServiceImpl) shiftFor(ctx context.Context, a attendance.StaffAttendance) (*shift.StaffShift, error) {
	if a.ShiftID == nil {
		return nil, nil
	}
	sh, err := s.shiftRepo.GetByID(ctx, *a.ShiftID, a.BusinessID)
	if errors.Is(err, shift.ErrShiftNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sh, nil
}

// ClockIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
	if req.PIN != "" {
		req.Method = attendance.ClockInMethodPIN
	} else {
		req.Method = attendance.ClockInMethodWeb
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	staffID := claims.StaffID
	if req.Method == attendance.ClockInMethodPIN {
		st, err := s.pins.VerifyPIN(ctx, req.StaffID, req.PIN)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		staffID = st.ID
	}
	if staffID == "" {
		return attendance.AttendanceResponse{}, attendance.ErrStaffRequired
	}

	now := s.now().UTC()

	var created attendance.StaffAttendance
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// The shift's own date is the attendance day; walk-ins fall back to the UTC date.
		var sh *shift.StaffShift
		day := dateOf(now)
		found, err := s.shiftRepo.GetCovering(ctx, staffID, claims.BusinessID, now, s.rules.EarlyClockIn)
		switch {
		case err == nil:
			sh = &found
			day = found.ShiftDate
		case !errors.Is(err, shift.ErrShiftNotFound):
			return err
		}

		_, err = s.attendanceRepo.GetByStaffAndDate(ctx, staffID, claims.BusinessID, day)
		if err == nil {
			return attendance.ErrAlreadyClockedIn
		}
		if !errors.Is(err, attendance.ErrAttendanceNotFound) {
			return err
		}

		record := attendance.StaffAttendance{
			BusinessID:     claims.BusinessID,
			StaffID:        staffID,
			AttendanceDate: day,
			ClockIn:        &now,
			ClockInMethod:  req.Method,
			Notes:          req.Notes,
		}
		if sh != nil {
			record.ShiftID = &sh.ID
		}
		Recompute(&record, sh, s.rules)

		created, err = s.attendanceRepo.Create(ctx, record)
		if err != nil {
			if errors.Is(err, attendance.ErrAttendanceExists) {
				return attendance.ErrAlreadyClockedIn
			}
			return err
		}

		if sh != nil && sh.Status == shift.StatusScheduled {
			if _, err := s.shiftRepo.UpdateStatus(ctx, sh.ID, claims.BusinessID,
				[]shift.Status{shift.StatusScheduled}, shift.StatusInProgress, &now, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	s.publish(claims.BusinessID, EventClockIn, created)
	return attendance.NewAttendanceResponse(created), nil
}

// ClockOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.AttendanceResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if claims.StaffID == "" {
		return attendance.AttendanceResponse{}, attendance.ErrStaffRequired
	}

	now := s.now().UTC()

	var record attendance.StaffAttendance
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		record, err = s.attendanceRepo.GetOpen(ctx, claims.StaffID, claims.BusinessID)
		if err != nil {
			if errors.Is(err, attendance.ErrAttendanceNotFound) {
				return attendance.ErrNotClockedIn
			}
			return err
		}
		if req.Notes != nil {
			record.Notes = req.Notes
		}
		return s.closeOut(ctx, &record, now)
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	s.publish(claims.BusinessID, EventClockOut, record)
	return attendance.NewAttendanceResponse(record), nil
}

// closeOut stamps clock-out, recomputes the record and ends its running shift.
func (s *AttendanceServiceImpl) closeOut(ctx context.Context, record *attendance.StaffAttendance, at time.Time) error {
	sh, err := s.shiftFor(ctx, *record)
	if err != nil {
		return err
	}

	record.ClockOut = &at
	Recompute(record, sh, s.rules)
	if err := s.attendanceRepo.Update(ctx, *record); err != nil {
		return err
	}

	if sh != nil && sh.Status == shift.StatusInProgress {
		if _, err := s.shiftRepo.UpdateStatus(ctx, sh.ID, record.BusinessID,
			[]shift.Status{shift.StatusInProgress}, shift.StatusCompleted, nil, &at); err != nil {
			return err
		}
	}
	return nil
}

// RecordManual implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RecordManual(ctx context.Context, req attendance.ManualAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	st, err := s.staffRepo.GetByID(ctx, req.StaffID, businessID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, _ := validator.IsValidDate(req.AttendanceDate)
	record := attendance.StaffAttendance{
		BusinessID:     businessID,
		StaffID:        st.ID,
		AttendanceDate: date,
		Status:         attendance.Status(req.Status),
		ClockInMethod:  attendance.ClockInMethodManual,
		Notes:          req.Notes,
	}
	if req.ClockIn != nil {
		in, _ := validator.IsValidDateTime(*req.ClockIn)
		in = in.UTC()
		record.ClockIn = &in
	}
	if req.ClockOut != nil {
		out, _ := validator.IsValidDateTime(*req.ClockOut)
		out = out.UTC()
		record.ClockOut = &out
	}

	var sh *shift.StaffShift
	found, err := s.shiftRepo.GetForStaffOn(ctx, st.ID, businessID, date)
	switch {
	case err == nil:
		sh = &found
		record.ShiftID = &found.ID
	case !errors.Is(err, shift.ErrShiftNotFound):
		return attendance.AttendanceResponse{}, err
	}
	Recompute(&record, sh, s.rules)

	created, err := s.attendanceRepo.Create(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.NewAttendanceResponse(created), nil
}

// UpdateAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UpdateAttendance(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := s.attendanceRepo.GetByID(ctx, req.ID, businessID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if req.ClockIn != nil {
		in, _ := validator.IsValidDateTime(*req.ClockIn)
		in = in.UTC()
		record.ClockIn = &in
	}
	if req.ClockOut != nil {
		out, _ := validator.IsValidDateTime(*req.ClockOut)
		out = out.UTC()
		record.ClockOut = &out
	}
	if req.Notes != nil {
		record.Notes = req.Notes
	}
	if record.ClockIn != nil && record.ClockOut != nil && !record.ClockOut.After(*record.ClockIn) {
		return attendance.AttendanceResponse{}, validator.ValidationErrors{
			{Field: "clock_out", Message: "clock_out must be after clock_in"},
		}
	}

	if req.Status != nil {
		record.Status = attendance.Status(*req.Status)
		if record.Status == attendance.StatusAbsent || record.Status == attendance.StatusOnLeave {
			record.ClockIn, record.ClockOut = nil, nil
		}
	}

	sh, err := s.shiftFor(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	Recompute(&record, sh, s.rules)

	if err := s.attendanceRepo.Update(ctx, record); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.NewAttendanceResponse(record), nil
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := s.attendanceRepo.GetByID(ctx, id, claims.BusinessID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !claims.Can(staff.PermissionAttendanceViewAll) && record.StaffID != claims.StaffID {
		return attendance.AttendanceResponse{}, attendance.ErrUnauthorized
	}
	return attendance.NewAttendanceResponse(record), nil
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	return s.list(ctx, filter, businessID)
}

// GetMyAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if claims.StaffID == "" {
		return attendance.ListAttendanceResponse{}, attendance.ErrStaffRequired
	}

	filter.StaffID = &claims.StaffID
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	return s.list(ctx, filter, claims.BusinessID)
}

func (s *AttendanceServiceImpl) list(ctx context.Context, filter attendance.AttendanceFilter, businessID string) (attendance.ListAttendanceResponse, error) {
	records, total, err := s.attendanceRepo.List(ctx, filter, businessID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  int(math.Ceil(float64(total) / float64(filter.Limit))),
		Attendances: attendance.NewAttendanceResponses(records),
	}, nil
}

// GetSummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetSummary(ctx context.Context, req attendance.SummaryRequest) (attendance.Summary, error) {
	if req.StaffID == "" {
		return attendance.Summary{}, validator.ValidationErrors{{Field: "staff_id", Message: "staff_id is required"}}
	}
	if err := req.Validate(); err != nil {
		return attendance.Summary{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.Summary{}, err
	}
	if !claims.Can(staff.PermissionAttendanceViewAll) && req.StaffID != claims.StaffID {
		return attendance.Summary{}, attendance.ErrUnauthorized
	}

	if _, err := s.staffRepo.GetByID(ctx, req.StaffID, claims.BusinessID); err != nil {
		return attendance.Summary{}, err
	}
	return s.summary(ctx, req, claims.BusinessID)
}

// GetMySummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMySummary(ctx context.Context, req attendance.SummaryRequest) (attendance.Summary, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.Summary{}, err
	}
	if claims.StaffID == "" {
		return attendance.Summary{}, attendance.ErrStaffRequired
	}

	req.StaffID = claims.StaffID
	if err := req.Validate(); err != nil {
		return attendance.Summary{}, err
	}
	return s.summary(ctx, req, claims.BusinessID)
}

func (s *AttendanceServiceImpl) summary(ctx context.Context, req attendance.SummaryRequest, businessID string) (attendance.Summary, error) {
	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)

	sum, err := s.attendanceRepo.Summary(ctx, req.StaffID, businessID, start, end)
	if err != nil {
		return attendance.Summary{}, err
	}
	return sum, nil
}

// MarkNoShows implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkNoShows(ctx context.Context) (int, error) {
	missed, err := s.shiftRepo.ListMissed(ctx, s.now().UTC())
	if err != nil {
		return 0, err
	}

	marked := 0
	for _, sh := range missed {
		err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
			updated, err := s.shiftRepo.UpdateStatus(ctx, sh.ID, sh.BusinessID,
				[]shift.Status{shift.StatusScheduled}, shift.StatusNoShow, nil, nil)
			if err != nil {
				return err
			}

			absent := attendance.StaffAttendance{
				BusinessID:     sh.BusinessID,
				StaffID:        sh.StaffID,
				ShiftID:        &updated.ID,
				AttendanceDate: sh.ShiftDate,
				Status:         attendance.StatusAbsent,
				ClockInMethod:  attendance.ClockInMethodManual,
			}
			record, err := s.attendanceRepo.Create(ctx, absent)
			if err != nil {
				return err
			}
			s.publish(sh.BusinessID, EventNoShow, record)
			return nil
		})
		switch {
		case err == nil:
			marked++
		case errors.Is(err, attendance.ErrAttendanceExists), errors.Is(err, shift.ErrInvalidTransition):
			// clocked in or moved on since the listing
		default:
			slog.Error("failed to mark no-show", "shift_id", sh.ID, "error", err)
		}
	}
	return marked, nil
}

// CloseStale implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CloseStale(ctx context.Context) (int, error) {
	now := s.now().UTC()
	stale, err := s.attendanceRepo.ListStaleOpen(ctx, now.Add(-s.rules.StaleAfter))
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, record := range stale {
		err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
			sh, err := s.shiftFor(ctx, record)
			if err != nil {
				return err
			}

			out := record.ClockIn.Add(time.Duration(s.rules.StandardHours * float64(time.Hour)))
			if sh != nil {
				out = sh.ScheduledEnd
			}
			if !out.After(*record.ClockIn) {
				out = *record.ClockIn
			}

			note := autoCloseNote
			if record.Notes != nil && *record.Notes != "" {
				note = *record.Notes + "; " + autoCloseNote
			}
			record.Notes = &note
			return s.closeOut(ctx, &record, out)
		})
		if err != nil {
			slog.Error("failed to close stale attendance", "attendance_id", record.ID, "error", err)
			continue
		}
		closed++
	}
	return closed, nil
}
