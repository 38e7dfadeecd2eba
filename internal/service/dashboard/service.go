package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/activity"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/attendance"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/dashboard"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/salary"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/shift"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/staff"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/jwt"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/presence"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

const (
	managerUpcomingLimit = 10
	stationUpcomingLimit = 5
)

type AttendanceReader interface {
	CountForDate(ctx context.Context, businessID string, date time.Time, role *string) (attendance.DayCounts, error)
	ListForDate(ctx context.Context, businessID string, date time.Time, status *attendance.Status, role *string) ([]attendance.StaffAttendance, error)
	GetByStaffAndDate(ctx context.Context, staffID string, businessID string, date time.Time) (attendance.StaffAttendance, error)
}

type ShiftReader interface {
	ListOnDuty(ctx context.Context, businessID string, at time.Time, role *string) ([]shift.StaffShift, error)
	ListUpcoming(ctx context.Context, staffID string, businessID string, from time.Time, limit int) ([]shift.StaffShift, error)
	ListBetween(ctx context.Context, businessID string, staffID *string, start, end time.Time) ([]shift.StaffShift, error)
}

type PaymentTotaler interface {
	Totals(ctx context.Context, businessID string, start, end time.Time) (salary.PaymentTotals, error)
}

type DashboardServiceImpl struct {
	dashboardRepo  dashboard.DashboardRepository
	attendanceRepo AttendanceReader
	shiftRepo      ShiftReader
	paymentRepo    PaymentTotaler
	presence       presence.Store
	onlineWindow   time.Duration
	now            func() time.Time
}

func NewDashboardService(
	dashboardRepo dashboard.DashboardRepository,
	attendanceRepo AttendanceReader,
	shiftRepo ShiftReader,
	paymentRepo PaymentTotaler,
	presenceStore presence.Store,
	onlineWindow time.Duration,
) dashboard.DashboardService {
	return &DashboardServiceImpl{
		dashboardRepo:  dashboardRepo,
		attendanceRepo: attendanceRepo,
		shiftRepo:      shiftRepo,
		paymentRepo:    paymentRepo,
		presence:       presenceStore,
		onlineWindow:   onlineWindow,
		now:            time.Now,
	}
}

// GetDashboard implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context) (dashboard.DashboardResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return dashboard.DashboardResponse{}, err
	}
	return s.compose(ctx, claims, claims.Role)
}

// GetRoleDashboard implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetRoleDashboard(ctx context.Context, role string) (dashboard.DashboardResponse, error) {
	if !validator.IsInSlice(role, staff.Roles) {
		return dashboard.DashboardResponse{}, dashboard.ErrUnknownRole
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return dashboard.DashboardResponse{}, err
	}
	if staff.Role(role) != claims.Role && !claims.Can(staff.PermissionDashboardViewAll) {
		return dashboard.DashboardResponse{}, dashboard.ErrForbidden
	}
	return s.compose(ctx, claims, staff.Role(role))
}

func (s *DashboardServiceImpl) compose(ctx context.Context, claims jwt.Claims, role staff.Role) (dashboard.DashboardResponse, error) {
	now := s.now().UTC()
	resp := dashboard.DashboardResponse{
		Role:        string(role),
		GeneratedAt: now.Format(time.RFC3339),
	}

	var err error
	switch role {
	case staff.RoleOwner, staff.RoleManager:
		var d dashboard.ManagerDashboard
		d, err = s.manager(ctx, claims.BusinessID, now)
		resp.Manager = &d
	case staff.RoleAccountant:
		var d dashboard.AccountantDashboard
		d, err = s.accountant(ctx, claims.BusinessID, now)
		resp.Accountant = &d
	case staff.RoleReception, staff.RoleKitchen, staff.RoleBar, staff.RoleWaiter:
		var d dashboard.StationDashboard
		d, err = s.station(ctx, claims, role, now)
		resp.Station = &d
	default:
		return dashboard.DashboardResponse{}, dashboard.ErrUnknownRole
	}
	if err != nil {
		return dashboard.DashboardResponse{}, err
	}
	return resp, nil
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func monthOf(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

func payrollOverview(t salary.PaymentTotals, start, end time.Time) dashboard.PayrollOverview {
	return dashboard.PayrollOverview{
		PeriodStart:    start.Format(validator.DateLayout),
		PeriodEnd:      end.Format(validator.DateLayout),
		PaymentCount:   t.Count,
		TotalGross:     t.GrossPay,
		TotalNet:       t.NetPay,
		OvertimeCost:   t.OvertimePay,
		CommissionCost: t.Commission,
		BonusCost:      t.Bonus,
		PendingCount:   t.PendingCount,
		PendingAmount:  t.PendingNetTotal,
	}
}

// manager loads the owner/manager sections concurrently.
func (s *DashboardServiceImpl) manager(ctx context.Context, businessID string, now time.Time) (dashboard.ManagerDashboard, error) {
	today := dateOf(now)
	monthStart, _ := monthOf(now)

	var (
		d      dashboard.ManagerDashboard
		counts dashboard.StaffCounts
		day    attendance.DayCounts
		onDuty []shift.StaffShift
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.dashboardRepo.StaffCounts(gCtx, businessID)
		return err
	})
	g.Go(func() error {
		var err error
		onDuty, err = s.shiftRepo.ListOnDuty(gCtx, businessID, now, nil)
		return err
	})
	g.Go(func() error {
		var err error
		day, err = s.attendanceRepo.CountForDate(gCtx, businessID, today, nil)
		return err
	})
	g.Go(func() error {
		totals, err := s.paymentRepo.Totals(gCtx, businessID, monthStart, today)
		if err != nil {
			return err
		}
		d.Payroll = payrollOverview(totals, monthStart, today)
		return nil
	})
	g.Go(func() error {
		var err error
		d.AverageRating, err = s.dashboardRepo.AverageRating(gCtx, businessID)
		return err
	})
	g.Go(func() error {
		var err error
		d.OnlineStaff, err = s.online(gCtx, businessID, now)
		return err
	})
	g.Go(func() error {
		upcoming, err := s.shiftRepo.ListUpcoming(gCtx, "", businessID, now, managerUpcomingLimit)
		if err != nil {
			return err
		}
		d.UpcomingShifts = shift.NewShiftResponses(upcoming)
		return nil
	})
	if err := g.Wait(); err != nil {
		return dashboard.ManagerDashboard{}, err
	}

	d.Staff = dashboard.StaffOverview{Total: counts.Total, Active: counts.Active, OnDuty: len(onDuty)}

	recorded := day.Present + day.Late + day.Absent + day.EarlyDeparture + day.OnLeave
	notClockedIn := counts.Active - recorded
	if notClockedIn < 0 {
		notClockedIn = 0
	}
	d.TodayAttendance = dashboard.TodayAttendance{
		Date:         today.Format(validator.DateLayout),
		Present:      day.Present + day.EarlyDeparture,
		Late:         day.Late,
		Absent:       day.Absent,
		NotClockedIn: notClockedIn,
	}
	return d, nil
}

func (s *DashboardServiceImpl) online(ctx context.Context, businessID string, now time.Time) ([]activity.OnlineStaffResponse, error) {
	entries, err := s.presence.Online(ctx, businessID, now.Add(-s.onlineWindow))
	if err != nil {
		return nil, err
	}
	out := make([]activity.OnlineStaffResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, activity.OnlineStaffResponse{
			StaffID:      e.StaffID,
			LastActiveAt: e.LastActiveAt.UTC().Format(time.RFC3339),
		})
	}
	return out, nil
}

// station loads the reception, kitchen, bar and floor view for one role.
func (s *DashboardServiceImpl) station(ctx context.Context, claims jwt.Claims, role staff.Role, now time.Time) (dashboard.StationDashboard, error) {
	today := dateOf(now)
	roleName := string(role)
	late := attendance.StatusLate

	d := dashboard.StationDashboard{
		MyUpcomingShifts: []shift.ShiftResponse{},
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		shifts, err := s.shiftRepo.ListBetween(gCtx, claims.BusinessID, nil, today, today)
		if err != nil {
			return err
		}
		forRole := make([]shift.StaffShift, 0, len(shifts))
		for _, sh := range shifts {
			if sh.StaffRole == roleName && sh.Status != shift.StatusCancelled {
				forRole = append(forRole, sh)
			}
		}
		d.ShiftsToday = shift.NewShiftResponses(forRole)
		return nil
	})
	g.Go(func() error {
		onDuty, err := s.shiftRepo.ListOnDuty(gCtx, claims.BusinessID, now, &roleName)
		if err != nil {
			return err
		}
		d.OnDuty = shift.NewShiftResponses(onDuty)
		return nil
	})
	g.Go(func() error {
		records, err := s.attendanceRepo.ListForDate(gCtx, claims.BusinessID, today, &late, &roleName)
		if err != nil {
			return err
		}
		d.LateArrivals = attendance.NewAttendanceResponses(records)
		return nil
	})

	// personal sections only apply to the caller's own station
	if claims.StaffID != "" && claims.Role == role {
		g.Go(func() error {
			upcoming, err := s.shiftRepo.ListUpcoming(gCtx, claims.StaffID, claims.BusinessID, now, stationUpcomingLimit)
			if err != nil {
				return err
			}
			d.MyUpcomingShifts = shift.NewShiftResponses(upcoming)
			return nil
		})
		g.Go(func() error {
			record, err := s.attendanceRepo.GetByStaffAndDate(gCtx, claims.StaffID, claims.BusinessID, today)
			if errors.Is(err, attendance.ErrAttendanceNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			resp := attendance.NewAttendanceResponse(record)
			d.MyAttendanceToday = &resp
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return dashboard.StationDashboard{}, err
	}
	return d, nil
}

func (s *DashboardServiceImpl) accountant(ctx context.Context, businessID string, now time.Time) (dashboard.AccountantDashboard, error) {
	start, end := monthOf(now)
	totals, err := s.paymentRepo.Totals(ctx, businessID, start, end)
	if err != nil {
		return dashboard.AccountantDashboard{}, err
	}
	return dashboard.AccountantDashboard{Payroll: payrollOverview(totals, start, end)}, nil
}
