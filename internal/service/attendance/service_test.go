package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/attendance"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/shift"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/staff"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/jwt"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/sse"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBusinessID = "7b0c6f4e-3f4a-4d8e-9a51-1d2f3c4b5a60"

type fakeTx struct{}

func (fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockAttendanceRepo struct {
	records map[string]attendance.StaffAttendance
}

func (m *mockAttendanceRepo) Create(ctx context.Context, a attendance.StaffAttendance) (attendance.StaffAttendance, error) {
	for _, existing := range m.records {
		if existing.StaffID == a.StaffID && existing.AttendanceDate.Equal(a.AttendanceDate) {
			return attendance.StaffAttendance{}, attendance.ErrAttendanceExists
		}
	}
	a.ID = uuid.NewString()
	m.records[a.ID] = a
	return a, nil
}

func (m *mockAttendanceRepo) GetByID(ctx context.Context, id, businessID string) (attendance.StaffAttendance, error) {
	a, ok := m.records[id]
	if !ok {
		return attendance.StaffAttendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (m *mockAttendanceRepo) GetByStaffAndDate(ctx context.Context, staffID, businessID string, date time.Time) (attendance.StaffAttendance, error) {
	for _, a := range m.records {
		if a.StaffID == staffID && a.AttendanceDate.Equal(date) {
			return a, nil
		}
	}
	return attendance.StaffAttendance{}, attendance.ErrAttendanceNotFound
}

func (m *mockAttendanceRepo) GetOpen(ctx context.Context, staffID, businessID string) (attendance.StaffAttendance, error) {
	for _, a := range m.records {
		if a.StaffID == staffID && a.ClockIn != nil && a.ClockOut == nil {
			return a, nil
		}
	}
	return attendance.StaffAttendance{}, attendance.ErrAttendanceNotFound
}

func (m *mockAttendanceRepo) List(ctx context.Context, filter attendance.AttendanceFilter, businessID string) ([]attendance.StaffAttendance, int64, error) {
	var out []attendance.StaffAttendance
	for _, a := range m.records {
		if filter.StaffID != nil && a.StaffID != *filter.StaffID {
			continue
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (m *mockAttendanceRepo) Update(ctx context.Context, a attendance.StaffAttendance) error {
	if _, ok := m.records[a.ID]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	m.records[a.ID] = a
	return nil
}

func (m *mockAttendanceRepo) Summary(ctx context.Context, staffID, businessID string, start, end time.Time) (attendance.Summary, error) {
	return attendance.Summary{StaffID: staffID, DaysPresent: 3}, nil
}

func (m *mockAttendanceRepo) CountForDate(ctx context.Context, businessID string, date time.Time, role *string) (attendance.DayCounts, error) {
	return attendance.DayCounts{}, nil
}

func (m *mockAttendanceRepo) ListForDate(ctx context.Context, businessID string, date time.Time, status *attendance.Status, role *string) ([]attendance.StaffAttendance, error) {
	return nil, nil
}

func (m *mockAttendanceRepo) ListStaleOpen(ctx context.Context, cutoff time.Time) ([]attendance.StaffAttendance, error) {
	var out []attendance.StaffAttendance
	for _, a := range m.records {
		if a.ClockIn != nil && a.ClockOut == nil && a.ClockIn.Before(cutoff) {
			out = append(out, a)
		}
	}
	return out, nil
}

type mockShiftTracker struct {
	shifts  map[string]shift.StaffShift
	records *mockAttendanceRepo
}

func (m *mockShiftTracker) GetByID(ctx context.Context, id, businessID string) (shift.StaffShift, error) {
	sh, ok := m.shifts[id]
	if !ok {
		return shift.StaffShift{}, shift.ErrShiftNotFound
	}
	return sh, nil
}

func (m *mockShiftTracker) GetForStaffOn(ctx context.Context, staffID, businessID string, date time.Time) (shift.StaffShift, error) {
	for _, sh := range m.shifts {
		if sh.StaffID == staffID && sh.ShiftDate.Equal(date) && sh.Status != shift.StatusCancelled {
			return sh, nil
		}
	}
	return shift.StaffShift{}, shift.ErrShiftNotFound
}

func (m *mockShiftTracker) GetCovering(ctx context.Context, staffID, businessID string, at time.Time, lead time.Duration) (shift.StaffShift, error) {
	for _, sh := range m.shifts {
		if sh.StaffID != staffID || (sh.Status != shift.StatusScheduled && sh.Status != shift.StatusInProgress) {
			continue
		}
		if !sh.ScheduledStart.Add(-lead).After(at) && at.Before(sh.ScheduledEnd) {
			return sh, nil
		}
	}
	return shift.StaffShift{}, shift.ErrShiftNotFound
}

func (m *mockShiftTracker) UpdateStatus(ctx context.Context, id, businessID string, from []shift.Status, next shift.Status, actualStart, actualEnd *time.Time) (shift.StaffShift, error) {
	sh, ok := m.shifts[id]
	if !ok {
		return shift.StaffShift{}, shift.ErrShiftNotFound
	}
	allowed := false
	for _, st := range from {
		allowed = allowed || st == sh.Status
	}
	if !allowed {
		return shift.StaffShift{}, shift.ErrInvalidTransition
	}
	sh.Status = next
	if actualStart != nil {
		sh.ActualStart = actualStart
	}
	if actualEnd != nil {
		sh.ActualEnd = actualEnd
	}
	m.shifts[id] = sh
	return sh, nil
}

func (m *mockShiftTracker) ListMissed(ctx context.Context, cutoff time.Time) ([]shift.StaffShift, error) {
	var out []shift.StaffShift
	for _, sh := range m.shifts {
		if sh.Status != shift.StatusScheduled || !sh.ScheduledEnd.Before(cutoff) {
			continue
		}
		linked := false
		for _, a := range m.records.records {
			linked = linked || (a.ShiftID != nil && *a.ShiftID == sh.ID)
		}
		if !linked {
			out = append(out, sh)
		}
	}
	return out, nil
}

type mockPINs struct {
	pins map[string]string
}

func (m *mockPINs) VerifyPIN(ctx context.Context, id string, pin string) (staff.Staff, error) {
	expected, ok := m.pins[id]
	if !ok {
		return staff.Staff{}, staff.ErrStaffNotFound
	}
	if expected != pin {
		return staff.Staff{}, staff.ErrInvalidPIN
	}
	return staff.Staff{ID: id, Status: staff.StatusActive}, nil
}

type mockStaff struct{}

func (mockStaff) GetByID(ctx context.Context, id, businessID string) (staff.Staff, error) {
	return staff.Staff{ID: id, BusinessID: businessID}, nil
}

type recordingPublisher struct {
	events []sse.Event
}

func (p *recordingPublisher) Publish(businessID string, event sse.Event) {
	p.events = append(p.events, event)
}

type fixture struct {
	svc     *AttendanceServiceImpl
	records *mockAttendanceRepo
	shifts  *mockShiftTracker
	pins    *mockPINs
	events  *recordingPublisher
	clock   time.Time
}

func newFixture() *fixture {
	records := &mockAttendanceRepo{records: map[string]attendance.StaffAttendance{}}
	f := &fixture{
		records: records,
		shifts:  &mockShiftTracker{shifts: map[string]shift.StaffShift{}, records: records},
		pins:    &mockPINs{pins: map[string]string{}},
		events:  &recordingPublisher{},
		clock:   time.Date(2025, 3, 10, 9, 12, 0, 0, time.UTC),
	}
	rules := Rules{Grace: 5 * time.Minute, StandardHours: 8, StaleAfter: 16 * time.Hour, EarlyClockIn: 2 * time.Hour}
	svc := NewAttendanceService(fakeTx{}, f.records, f.shifts, f.pins, mockStaff{}, f.events, rules)
	f.svc = svc.(*AttendanceServiceImpl)
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) addShift(staffID string, status shift.Status) shift.StaffShift {
	sh := shift.StaffShift{
		ID:             uuid.NewString(),
		BusinessID:     testBusinessID,
		StaffID:        staffID,
		ShiftDate:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		ScheduledStart: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		ScheduledEnd:   time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC),
		BreakMinutes:   30,
		Status:         status,
	}
	f.shifts.shifts[sh.ID] = sh
	return sh
}

func contextFor(staffID string, role staff.Role) context.Context {
	return jwt.ContextWithClaims(context.Background(), jwt.Claims{
		BusinessID: testBusinessID,
		StaffID:    staffID,
		Role:       role,
	})
}

func TestAttendanceService_ClockInAndOut(t *testing.T) {
	f := newFixture()
	staffID := uuid.NewString()
	ctx := contextFor(staffID, staff.RoleKitchen)
	sh := f.addShift(staffID, shift.StatusScheduled)

	in, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusLate), in.Status)
	assert.Equal(t, 12, in.LateMinutes)
	assert.Equal(t, string(attendance.ClockInMethodWeb), in.ClockInMethod)
	require.NotNil(t, in.ShiftID)
	assert.Equal(t, sh.ID, *in.ShiftID)
	assert.Equal(t, shift.StatusInProgress, f.shifts.shifts[sh.ID].Status)

	_, err = f.svc.ClockIn(ctx, attendance.ClockInRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)

	f.clock = time.Date(2025, 3, 10, 18, 12, 0, 0, time.UTC)
	out, err := f.svc.ClockOut(ctx, attendance.ClockOutRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusLate), out.Status)
	assert.InDelta(t, 8.5, out.HoursWorked, 0.001)
	assert.InDelta(t, 1.0, out.OvertimeHours, 0.001)
	assert.Equal(t, 0, out.EarlyDepartureMinutes)
	assert.Equal(t, shift.StatusCompleted, f.shifts.shifts[sh.ID].Status)

	_, err = f.svc.ClockOut(ctx, attendance.ClockOutRequest{})
	assert.ErrorIs(t, err, attendance.ErrNotClockedIn)

	require.Len(t, f.events.events, 2)
	assert.Equal(t, EventClockIn, f.events.events[0].Type)
	assert.Equal(t, EventClockOut, f.events.events[1].Type)
}

func TestAttendanceService_ClockIn_PIN(t *testing.T) {
	f := newFixture()
	kioskCtx := contextFor("", staff.RoleReception)
	staffID := uuid.NewString()
	f.pins.pins[staffID] = "4821"

	_, err := f.svc.ClockIn(kioskCtx, attendance.ClockInRequest{StaffID: staffID, PIN: "1111"})
	assert.ErrorIs(t, err, staff.ErrInvalidPIN)

	res, err := f.svc.ClockIn(kioskCtx, attendance.ClockInRequest{StaffID: staffID, PIN: "4821"})
	require.NoError(t, err)
	assert.Equal(t, staffID, res.StaffID)
	assert.Equal(t, string(attendance.ClockInMethodPIN), res.ClockInMethod)
	assert.Equal(t, string(attendance.StatusPresent), res.Status)
	assert.Nil(t, res.ShiftID)

	_, err = f.svc.ClockIn(kioskCtx, attendance.ClockInRequest{})
	assert.ErrorIs(t, err, attendance.ErrStaffRequired)
}

func TestAttendanceService_RecordManualAndUpdate(t *testing.T) {
	f := newFixture()
	ctx := contextFor(uuid.NewString(), staff.RoleManager)
	staffID := uuid.NewString()
	f.addShift(staffID, shift.StatusScheduled)

	in := "2025-03-10T09:00:00Z"
	out := "2025-03-10T15:00:00Z"
	res, err := f.svc.RecordManual(ctx, attendance.ManualAttendanceRequest{
		StaffID:        staffID,
		AttendanceDate: "2025-03-10",
		Status:         string(attendance.StatusPresent),
		ClockIn:        &in,
		ClockOut:       &out,
	})
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusEarlyDeparture), res.Status)
	assert.Equal(t, 120, res.EarlyDepartureMinutes)
	assert.InDelta(t, 5.5, res.HoursWorked, 0.001)
	assert.Equal(t, string(attendance.ClockInMethodManual), res.ClockInMethod)

	later := "2025-03-10T17:00:00Z"
	updated, err := f.svc.UpdateAttendance(ctx, attendance.UpdateAttendanceRequest{ID: res.ID, ClockOut: &later})
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusPresent), updated.Status)
	assert.InDelta(t, 7.5, updated.HoursWorked, 0.001)
	assert.Equal(t, 0, updated.EarlyDepartureMinutes)

	absent := string(attendance.StatusAbsent)
	cleared, err := f.svc.UpdateAttendance(ctx, attendance.UpdateAttendanceRequest{ID: res.ID, Status: &absent})
	require.NoError(t, err)
	assert.Equal(t, absent, cleared.Status)
	assert.Nil(t, cleared.ClockIn)
	assert.Zero(t, cleared.HoursWorked)

	_, err = f.svc.RecordManual(ctx, attendance.ManualAttendanceRequest{
		StaffID:        staffID,
		AttendanceDate: "2025-03-10",
		Status:         string(attendance.StatusOnLeave),
	})
	assert.ErrorIs(t, err, attendance.ErrAttendanceExists)
}

func TestAttendanceService_GetAttendance_Ownership(t *testing.T) {
	f := newFixture()
	owner := uuid.NewString()
	_, err := f.svc.ClockIn(contextFor(owner, staff.RoleWaiter), attendance.ClockInRequest{})
	require.NoError(t, err)

	var id string
	for recordID := range f.records.records {
		id = recordID
	}

	_, err = f.svc.GetAttendance(contextFor(owner, staff.RoleWaiter), id)
	assert.NoError(t, err)

	_, err = f.svc.GetAttendance(contextFor(uuid.NewString(), staff.RoleWaiter), id)
	assert.ErrorIs(t, err, attendance.ErrUnauthorized)

	_, err = f.svc.GetAttendance(contextFor(uuid.NewString(), staff.RoleAccountant), id)
	assert.NoError(t, err)

	_, err = f.svc.GetSummary(contextFor(uuid.NewString(), staff.RoleBar), attendance.SummaryRequest{
		StaffID: owner, StartDate: "2025-03-01", EndDate: "2025-03-31",
	})
	assert.ErrorIs(t, err, attendance.ErrUnauthorized)

	sum, err := f.svc.GetMySummary(contextFor(owner, staff.RoleWaiter), attendance.SummaryRequest{
		StartDate: "2025-03-01", EndDate: "2025-03-31",
	})
	require.NoError(t, err)
	assert.Equal(t, owner, sum.StaffID)
}

func TestAttendanceService_MarkNoShows(t *testing.T) {
	f := newFixture()
	missed := f.addShift(uuid.NewString(), shift.StatusScheduled)
	f.addShift(uuid.NewString(), shift.StatusCancelled)

	f.clock = time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	marked, err := f.svc.MarkNoShows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, marked)
	assert.Equal(t, shift.StatusNoShow, f.shifts.shifts[missed.ID].Status)

	record, err := f.records.GetByStaffAndDate(context.Background(), missed.StaffID, testBusinessID, missed.ShiftDate)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, record.Status)
	assert.Nil(t, record.ClockIn)

	marked, err = f.svc.MarkNoShows(context.Background())
	require.NoError(t, err)
	assert.Zero(t, marked)
}

func TestAttendanceService_CloseStale(t *testing.T) {
	f := newFixture()
	withShift := uuid.NewString()
	sh := f.addShift(withShift, shift.StatusScheduled)
	_, err := f.svc.ClockIn(contextFor(withShift, staff.RoleKitchen), attendance.ClockInRequest{})
	require.NoError(t, err)

	withoutShift := uuid.NewString()
	_, err = f.svc.ClockIn(contextFor(withoutShift, staff.RoleBar), attendance.ClockInRequest{})
	require.NoError(t, err)

	f.clock = time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)
	closed, err := f.svc.CloseStale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, closed)

	for _, record := range f.records.records {
		require.NotNil(t, record.ClockOut)
		require.NotNil(t, record.Notes)
		assert.Equal(t, autoCloseNote, *record.Notes)
		switch record.StaffID {
		case withShift:
			assert.True(t, record.ClockOut.Equal(sh.ScheduledEnd))
		case withoutShift:
			assert.InDelta(t, 8.0, record.HoursWorked, 0.001)
		}
	}
	assert.Equal(t, shift.StatusCompleted, f.shifts.shifts[sh.ID].Status)
}

func TestAttendanceService_ClockIn_OvernightShiftInLocalOffset(t *testing.T) {
	f := newFixture()
	staffID := uuid.NewString()
	ctx := contextFor(staffID, staff.RoleBar)

	est := time.FixedZone("EST", -5*60*60)
	sh := shift.StaffShift{
		ID:             uuid.NewString(),
		BusinessID:     testBusinessID,
		StaffID:        staffID,
		ShiftDate:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		ScheduledStart: time.Date(2025, 3, 10, 20, 0, 0, 0, est),
		ScheduledEnd:   time.Date(2025, 3, 11, 2, 0, 0, 0, est),
		Status:         shift.StatusScheduled,
	}
	f.shifts.shifts[sh.ID] = sh

	// 20:30 local is already the next day in UTC.
	f.clock = time.Date(2025, 3, 11, 1, 30, 0, 0, time.UTC)
	in, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)
	require.NotNil(t, in.ShiftID)
	assert.Equal(t, sh.ID, *in.ShiftID)
	assert.Equal(t, "2025-03-10", in.AttendanceDate)
	assert.Equal(t, string(attendance.StatusLate), in.Status)
	assert.Equal(t, 30, in.LateMinutes)
	assert.Equal(t, shift.StatusInProgress, f.shifts.shifts[sh.ID].Status)

	f.clock = time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC)
	marked, err := f.svc.MarkNoShows(context.Background())
	require.NoError(t, err)
	assert.Zero(t, marked)
	assert.Len(t, f.records.records, 1)
}

func TestAttendanceService_ClockIn_EarlyWindow(t *testing.T) {
	f := newFixture()
	staffID := uuid.NewString()
	sh := f.addShift(staffID, shift.StatusScheduled)

	f.clock = time.Date(2025, 3, 10, 6, 30, 0, 0, time.UTC)
	in, err := f.svc.ClockIn(contextFor(staffID, staff.RoleKitchen), attendance.ClockInRequest{})
	require.NoError(t, err)
	assert.Nil(t, in.ShiftID, "clock-in before the early window stays unlinked")

	other := uuid.NewString()
	linked := f.addShift(other, shift.StatusScheduled)
	f.clock = time.Date(2025, 3, 10, 7, 30, 0, 0, time.UTC)
	in, err = f.svc.ClockIn(contextFor(other, staff.RoleKitchen), attendance.ClockInRequest{})
	require.NoError(t, err)
	require.NotNil(t, in.ShiftID)
	assert.Equal(t, linked.ID, *in.ShiftID)
	assert.Equal(t, string(attendance.StatusPresent), in.Status)
	assert.Equal(t, shift.StatusScheduled, f.shifts.shifts[sh.ID].Status)
}
