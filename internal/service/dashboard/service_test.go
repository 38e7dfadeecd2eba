package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/attendance"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/dashboard"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/salary"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/shift"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/staff"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/jwt"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/presence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBusinessID = "7b0c6f4e-3f4a-4d8e-9a51-1d2f3c4b5a60"

var fixedNow = time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC)

type mockDashboardRepo struct{}

func (m *mockDashboardRepo) StaffCounts(ctx context.Context, businessID string) (dashboard.StaffCounts, error) {
	return dashboard.StaffCounts{Total: 12, Active: 10}, nil
}

func (m *mockDashboardRepo) AverageRating(ctx context.Context, businessID string) (float64, error) {
	return 3.75, nil
}

type mockAttendance struct {
	counts  attendance.DayCounts
	late    []attendance.StaffAttendance
	records map[string]attendance.StaffAttendance
	roles   []string
}

func (m *mockAttendance) CountForDate(ctx context.Context, businessID string, date time.Time, role *string) (attendance.DayCounts, error) {
	return m.counts, nil
}

func (m *mockAttendance) ListForDate(ctx context.Context, businessID string, date time.Time, status *attendance.Status, role *string) ([]attendance.StaffAttendance, error) {
	if role != nil {
		m.roles = append(m.roles, *role)
	}
	return m.late, nil
}

func (m *mockAttendance) GetByStaffAndDate(ctx context.Context, staffID string, businessID string, date time.Time) (attendance.StaffAttendance, error) {
	a, ok := m.records[staffID]
	if !ok {
		return attendance.StaffAttendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

type mockShifts struct {
	today    []shift.StaffShift
	onDuty   []shift.StaffShift
	upcoming map[string][]shift.StaffShift
}

func (m *mockShifts) ListOnDuty(ctx context.Context, businessID string, at time.Time, role *string) ([]shift.StaffShift, error) {
	if role == nil {
		return m.onDuty, nil
	}
	var out []shift.StaffShift
	for _, sh := range m.onDuty {
		if sh.StaffRole == *role {
			out = append(out, sh)
		}
	}
	return out, nil
}

func (m *mockShifts) ListUpcoming(ctx context.Context, staffID string, businessID string, from time.Time, limit int) ([]shift.StaffShift, error) {
	return m.upcoming[staffID], nil
}

func (m *mockShifts) ListBetween(ctx context.Context, businessID string, staffID *string, start, end time.Time) ([]shift.StaffShift, error) {
	return m.today, nil
}

type mockPayments struct {
	ranges [][2]time.Time
}

func (m *mockPayments) Totals(ctx context.Context, businessID string, start, end time.Time) (salary.PaymentTotals, error) {
	m.ranges = append(m.ranges, [2]time.Time{start, end})
	return salary.PaymentTotals{
		Count:           3,
		GrossPay:        decimal.NewFromInt(3000),
		NetPay:          decimal.NewFromInt(2700),
		OvertimePay:     decimal.NewFromInt(120),
		Commission:      decimal.Zero,
		Bonus:           decimal.NewFromInt(50),
		PendingCount:    1,
		PendingNetTotal: decimal.NewFromInt(900),
	}, nil
}

type fixture struct {
	svc        *DashboardServiceImpl
	attendance *mockAttendance
	shifts     *mockShifts
	payments   *mockPayments
	presence   *presence.MemoryStore
}

func newFixture() *fixture {
	f := &fixture{
		attendance: &mockAttendance{records: map[string]attendance.StaffAttendance{}},
		shifts:     &mockShifts{upcoming: map[string][]shift.StaffShift{}},
		payments:   &mockPayments{},
		presence:   presence.NewMemoryStore(),
	}
	svc := NewDashboardService(&mockDashboardRepo{}, f.attendance, f.shifts, f.payments, f.presence, 15*time.Minute).(*DashboardServiceImpl)
	svc.now = func() time.Time { return fixedNow }
	f.svc = svc
	return f
}

func newShift(role string, start time.Time, status shift.Status) shift.StaffShift {
	return shift.StaffShift{
		ID:             uuid.NewString(),
		BusinessID:     testBusinessID,
		StaffID:        uuid.NewString(),
		StaffRole:      role,
		ShiftDate:      time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
		ScheduledStart: start,
		ScheduledEnd:   start.Add(8 * time.Hour),
		Status:         status,
	}
}

func contextFor(staffID string, role staff.Role) context.Context {
	return jwt.ContextWithClaims(context.Background(), jwt.Claims{
		BusinessID: testBusinessID,
		StaffID:    staffID,
		Role:       role,
	})
}

func TestDashboardService_Manager(t *testing.T) {
	f := newFixture()
	f.attendance.counts = attendance.DayCounts{Present: 4, Late: 2, Absent: 1, EarlyDeparture: 1}
	f.shifts.onDuty = []shift.StaffShift{
		newShift("kitchen", fixedNow.Add(-2*time.Hour), shift.StatusInProgress),
		newShift("bar", fixedNow.Add(-time.Hour), shift.StatusInProgress),
	}
	f.shifts.upcoming[""] = []shift.StaffShift{newShift("waiter", fixedNow.Add(3*time.Hour), shift.StatusScheduled)}

	online := uuid.NewString()
	require.NoError(t, f.presence.Touch(context.Background(), testBusinessID, online, fixedNow.Add(-5*time.Minute)))
	require.NoError(t, f.presence.Touch(context.Background(), testBusinessID, uuid.NewString(), fixedNow.Add(-time.Hour)))

	resp, err := f.svc.GetDashboard(contextFor(uuid.NewString(), staff.RoleManager))
	require.NoError(t, err)

	assert.Equal(t, "manager", resp.Role)
	require.NotNil(t, resp.Manager)
	assert.Nil(t, resp.Station)
	assert.Nil(t, resp.Accountant)

	d := resp.Manager
	assert.Equal(t, dashboard.StaffOverview{Total: 12, Active: 10, OnDuty: 2}, d.Staff)
	assert.Equal(t, dashboard.TodayAttendance{Date: "2025-03-10", Present: 5, Late: 2, Absent: 1, NotClockedIn: 2}, d.TodayAttendance)
	assert.Equal(t, 3.75, d.AverageRating)
	require.Len(t, d.OnlineStaff, 1)
	assert.Equal(t, online, d.OnlineStaff[0].StaffID)
	assert.Len(t, d.UpcomingShifts, 1)

	assert.Equal(t, "2025-03-01", d.Payroll.PeriodStart)
	assert.Equal(t, "2025-03-10", d.Payroll.PeriodEnd)
	assert.Equal(t, 3, d.Payroll.PaymentCount)
	assert.True(t, d.Payroll.TotalNet.Equal(decimal.NewFromInt(2700)))
	assert.True(t, d.Payroll.PendingAmount.Equal(decimal.NewFromInt(900)))
}

func TestDashboardService_NotClockedInNeverNegative(t *testing.T) {
	f := newFixture()
	f.attendance.counts = attendance.DayCounts{Present: 9, Late: 3}

	resp, err := f.svc.GetDashboard(contextFor(uuid.NewString(), staff.RoleOwner))
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Manager.TodayAttendance.NotClockedIn)
	assert.NotNil(t, resp.Manager.OnlineStaff)
}

func TestDashboardService_Station(t *testing.T) {
	f := newFixture()
	me := uuid.NewString()
	clockIn := fixedNow.Add(-2 * time.Hour)
	f.attendance.records[me] = attendance.StaffAttendance{
		ID:             uuid.NewString(),
		StaffID:        me,
		BusinessID:     testBusinessID,
		AttendanceDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		ClockIn:        &clockIn,
		Status:         attendance.StatusPresent,
	}
	f.attendance.late = []attendance.StaffAttendance{{ID: uuid.NewString(), Status: attendance.StatusLate}}
	f.shifts.today = []shift.StaffShift{
		newShift("kitchen", fixedNow.Add(-2*time.Hour), shift.StatusInProgress),
		newShift("kitchen", fixedNow.Add(4*time.Hour), shift.StatusCancelled),
		newShift("bar", fixedNow.Add(time.Hour), shift.StatusScheduled),
	}
	f.shifts.onDuty = f.shifts.today[:1]
	f.shifts.upcoming[me] = []shift.StaffShift{newShift("kitchen", fixedNow.Add(24*time.Hour), shift.StatusScheduled)}

	resp, err := f.svc.GetDashboard(contextFor(me, staff.RoleKitchen))
	require.NoError(t, err)
	require.NotNil(t, resp.Station)
	assert.Nil(t, resp.Manager)

	d := resp.Station
	assert.Len(t, d.ShiftsToday, 1)
	assert.Len(t, d.OnDuty, 1)
	assert.Len(t, d.LateArrivals, 1)
	assert.Len(t, d.MyUpcomingShifts, 1)
	require.NotNil(t, d.MyAttendanceToday)
	assert.Equal(t, me, d.MyAttendanceToday.StaffID)
	assert.Equal(t, []string{"kitchen"}, f.attendance.roles)
}

func TestDashboardService_StationWithoutAttendance(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.GetDashboard(contextFor(uuid.NewString(), staff.RoleBar))
	require.NoError(t, err)
	require.NotNil(t, resp.Station)
	assert.Nil(t, resp.Station.MyAttendanceToday)
	assert.Empty(t, resp.Station.ShiftsToday)
	assert.NotNil(t, resp.Station.MyUpcomingShifts)
}

func TestDashboardService_Accountant(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.GetDashboard(contextFor(uuid.NewString(), staff.RoleAccountant))
	require.NoError(t, err)
	require.NotNil(t, resp.Accountant)
	assert.Equal(t, "2025-03-01", resp.Accountant.Payroll.PeriodStart)
	assert.Equal(t, "2025-03-31", resp.Accountant.Payroll.PeriodEnd)
	assert.True(t, resp.Accountant.Payroll.TotalGross.Equal(decimal.NewFromInt(3000)))
}

func TestDashboardService_GetRoleDashboard(t *testing.T) {
	f := newFixture()

	t.Run("unknown role", func(t *testing.T) {
		_, err := f.svc.GetRoleDashboard(contextFor(uuid.NewString(), staff.RoleOwner), "sommelier")
		assert.ErrorIs(t, err, dashboard.ErrUnknownRole)
	})

	t.Run("other role without view_all", func(t *testing.T) {
		_, err := f.svc.GetRoleDashboard(contextFor(uuid.NewString(), staff.RoleKitchen), "bar")
		assert.ErrorIs(t, err, dashboard.ErrForbidden)
	})

	t.Run("own role", func(t *testing.T) {
		resp, err := f.svc.GetRoleDashboard(contextFor(uuid.NewString(), staff.RoleKitchen), "kitchen")
		require.NoError(t, err)
		assert.NotNil(t, resp.Station)
	})

	t.Run("owner views station", func(t *testing.T) {
		resp, err := f.svc.GetRoleDashboard(contextFor(uuid.NewString(), staff.RoleOwner), "reception")
		require.NoError(t, err)
		assert.Equal(t, "reception", resp.Role)
		require.NotNil(t, resp.Station)
		assert.Nil(t, resp.Station.MyAttendanceToday)
	})
}
