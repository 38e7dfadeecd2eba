package shift

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

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

type mockShiftRepo struct {
	shifts map[string]shift.StaffShift
}

func newMockShiftRepo() *mockShiftRepo {
	return &mockShiftRepo{shifts: map[string]shift.StaffShift{}}
}

func (m *mockShiftRepo) Create(ctx context.Context, s shift.StaffShift) (shift.StaffShift, error) {
	s.ID = uuid.NewString()
	s.StaffName = "Ada Obi"
	s.StaffRole = "kitchen"
	m.shifts[s.ID] = s
	return s, nil
}

func (m *mockShiftRepo) GetByID(ctx context.Context, id, businessID string) (shift.StaffShift, error) {
	s, ok := m.shifts[id]
	if !ok {
		return shift.StaffShift{}, shift.ErrShiftNotFound
	}
	return s, nil
}

func (m *mockShiftRepo) List(ctx context.Context, filter shift.ShiftFilter, businessID string) ([]shift.StaffShift, int64, error) {
	all := m.sorted()
	return all, int64(len(all)), nil
}

func (m *mockShiftRepo) Update(ctx context.Context, s shift.StaffShift) error {
	m.shifts[s.ID] = s
	return nil
}

func (m *mockShiftRepo) Delete(ctx context.Context, id, businessID string) error {
	delete(m.shifts, id)
	return nil
}

func (m *mockShiftRepo) FindOverlapping(ctx context.Context, staffID, businessID string, start, end time.Time, excludeID *string) ([]shift.StaffShift, error) {
	var out []shift.StaffShift
	for _, s := range m.sorted() {
		if s.StaffID != staffID || s.Status == shift.StatusCancelled {
			continue
		}
		if excludeID != nil && s.ID == *excludeID {
			continue
		}
		if shift.Overlaps(start, end, s.ScheduledStart, s.ScheduledEnd) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockShiftRepo) UpdateStatus(ctx context.Context, id, businessID string, from []shift.Status, next shift.Status, actualStart, actualEnd *time.Time) (shift.StaffShift, error) {
	s, ok := m.shifts[id]
	if !ok {
		return shift.StaffShift{}, shift.ErrShiftNotFound
	}
	allowed := false
	for _, f := range from {
		allowed = allowed || s.Status == f
	}
	if !allowed {
		return shift.StaffShift{}, shift.ErrInvalidTransition
	}
	s.Status = next
	if actualStart != nil {
		s.ActualStart = actualStart
	}
	if actualEnd != nil {
		s.ActualEnd = actualEnd
	}
	m.shifts[id] = s
	return s, nil
}

func (m *mockShiftRepo) GetForStaffOn(ctx context.Context, staffID, businessID string, date time.Time) (shift.StaffShift, error) {
	return shift.StaffShift{}, shift.ErrShiftNotFound
}

func (m *mockShiftRepo) GetCovering(ctx context.Context, staffID, businessID string, at time.Time, lead time.Duration) (shift.StaffShift, error) {
	return shift.StaffShift{}, shift.ErrShiftNotFound
}

func (m *mockShiftRepo) ListUpcoming(ctx context.Context, staffID, businessID string, from time.Time, limit int) ([]shift.StaffShift, error) {
	var out []shift.StaffShift
	for _, s := range m.sorted() {
		if s.StaffID == staffID && s.ScheduledStart.After(from) && len(out) < limit {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockShiftRepo) ListOnDuty(ctx context.Context, businessID string, at time.Time, role *string) ([]shift.StaffShift, error) {
	return nil, nil
}

func (m *mockShiftRepo) ListBetween(ctx context.Context, businessID string, staffID *string, start, end time.Time) ([]shift.StaffShift, error) {
	return m.sorted(), nil
}

func (m *mockShiftRepo) ListMissed(ctx context.Context, cutoff time.Time) ([]shift.StaffShift, error) {
	return nil, nil
}

func (m *mockShiftRepo) sorted() []shift.StaffShift {
	out := make([]shift.StaffShift, 0, len(m.shifts))
	for _, s := range m.shifts {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledStart.Before(out[j].ScheduledStart) })
	return out
}

type mockStaffLookup struct{}

func (mockStaffLookup) GetByID(ctx context.Context, id, businessID string) (staff.Staff, error) {
	return staff.Staff{ID: id, BusinessID: businessID}, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []sse.Event
}

func (r *recordingPublisher) Publish(businessID string, event sse.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingPublisher) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

var testNow = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func newTestService() (*ShiftServiceImpl, *mockShiftRepo, *recordingPublisher) {
	repo := newMockShiftRepo()
	pub := &recordingPublisher{}
	svc := NewShiftService(fakeTx{}, repo, mockStaffLookup{}, pub).(*ShiftServiceImpl)
	svc.now = func() time.Time { return testNow }
	return svc, repo, pub
}

func testContext() context.Context {
	return jwt.ContextWithClaims(context.Background(), jwt.Claims{
		BusinessID: testBusinessID,
		StaffID:    uuid.NewString(),
		Role:       staff.RoleManager,
	})
}

func shiftRequest(staffID, start, end string) shift.CreateShiftRequest {
	return shift.CreateShiftRequest{StaffID: staffID, ScheduledStart: start, ScheduledEnd: end, BreakMinutes: 30}
}

func TestShiftService_CreateShift_Conflicts(t *testing.T) {
	svc, _, pub := newTestService()
	ctx := testContext()
	staffID := uuid.NewString()

	first, err := svc.CreateShift(ctx, shiftRequest(staffID, "2025-03-11T09:00:00Z", "2025-03-11T17:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, "2025-03-11", first.ShiftDate)
	assert.Equal(t, "scheduled", first.Status)

	_, err = svc.CreateShift(ctx, shiftRequest(staffID, "2025-03-11T16:00:00Z", "2025-03-11T20:00:00Z"))
	assert.ErrorIs(t, err, shift.ErrShiftConflict)

	// Touching ranges are not conflicts
	_, err = svc.CreateShift(ctx, shiftRequest(staffID, "2025-03-11T17:00:00Z", "2025-03-11T22:00:00Z"))
	assert.NoError(t, err)

	// Another staff member may overlap freely
	_, err = svc.CreateShift(ctx, shiftRequest(uuid.NewString(), "2025-03-11T10:00:00Z", "2025-03-11T18:00:00Z"))
	assert.NoError(t, err)

	assert.Equal(t, []string{EventShiftCreated, EventShiftCreated, EventShiftCreated}, pub.types())
}

func TestShiftService_BulkCreate_ReportsEveryConflict(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := testContext()
	staffID := uuid.NewString()

	existing, err := svc.CreateShift(ctx, shiftRequest(staffID, "2025-03-12T09:00:00Z", "2025-03-12T17:00:00Z"))
	require.NoError(t, err)

	_, err = svc.BulkCreate(ctx, shift.BulkCreateShiftRequest{Shifts: []shift.CreateShiftRequest{
		shiftRequest(staffID, "2025-03-13T09:00:00Z", "2025-03-13T17:00:00Z"),
		shiftRequest(staffID, "2025-03-13T12:00:00Z", "2025-03-13T20:00:00Z"),
		shiftRequest(staffID, "2025-03-12T12:00:00Z", "2025-03-12T20:00:00Z"),
	}})

	var bulkErr *shift.BulkConflictError
	require.True(t, errors.As(err, &bulkErr))
	assert.ErrorIs(t, err, shift.ErrShiftConflict)
	require.Len(t, bulkErr.Conflicts, 2)
	assert.Equal(t, 1, bulkErr.Conflicts[0].Index)
	require.NotNil(t, bulkErr.Conflicts[0].ConflictIndex)
	assert.Equal(t, 0, *bulkErr.Conflicts[0].ConflictIndex)
	assert.Equal(t, 2, bulkErr.Conflicts[1].Index)
	assert.Equal(t, existing.ID, bulkErr.Conflicts[1].ConflictShiftID)

	details := bulkErr.Details()
	assert.Equal(t, "overlaps shifts[0] in this request", details["shifts[1]"])

	// Nothing written
	assert.Len(t, repo.shifts, 1)
}

func TestShiftService_BulkCreate_Success(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := testContext()
	staffID := uuid.NewString()

	resp, err := svc.BulkCreate(ctx, shift.BulkCreateShiftRequest{Shifts: []shift.CreateShiftRequest{
		shiftRequest(staffID, "2025-03-13T09:00:00Z", "2025-03-13T17:00:00Z"),
		shiftRequest(staffID, "2025-03-14T09:00:00Z", "2025-03-14T17:00:00Z"),
	}})
	require.NoError(t, err)
	assert.Len(t, resp.Created, 2)
	assert.NotNil(t, resp.Conflicts)
	assert.Empty(t, resp.Conflicts)
	assert.Len(t, repo.shifts, 2)
}

func TestShiftService_Lifecycle(t *testing.T) {
	svc, _, pub := newTestService()
	ctx := testContext()

	created, err := svc.CreateShift(ctx, shiftRequest(uuid.NewString(), "2025-03-10T07:00:00Z", "2025-03-10T15:00:00Z"))
	require.NoError(t, err)

	_, err = svc.EndShift(ctx, created.ID)
	assert.ErrorIs(t, err, shift.ErrInvalidTransition)

	started, err := svc.StartShift(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", started.Status)
	require.NotNil(t, started.ActualStart)
	assert.Equal(t, testNow.Format(time.RFC3339), *started.ActualStart)

	assert.ErrorIs(t, svc.DeleteShift(ctx, created.ID), shift.ErrShiftNotDeletable)

	ended, err := svc.EndShift(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", ended.Status)

	station := "grill"
	_, err = svc.UpdateShift(ctx, shift.UpdateShiftRequest{ID: created.ID, Station: &station})
	assert.ErrorIs(t, err, shift.ErrShiftNotEditable)

	assert.Equal(t, []string{EventShiftCreated, EventShiftStarted, EventShiftEnded}, pub.types())
}

func TestShiftService_UpdateShift_ConflictExcludesItself(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := testContext()
	staffID := uuid.NewString()

	a, err := svc.CreateShift(ctx, shiftRequest(staffID, "2025-03-11T09:00:00Z", "2025-03-11T13:00:00Z"))
	require.NoError(t, err)
	_, err = svc.CreateShift(ctx, shiftRequest(staffID, "2025-03-11T14:00:00Z", "2025-03-11T18:00:00Z"))
	require.NoError(t, err)

	end := "2025-03-11T14:00:00Z"
	resp, err := svc.UpdateShift(ctx, shift.UpdateShiftRequest{ID: a.ID, ScheduledEnd: &end})
	require.NoError(t, err)
	assert.Equal(t, end, resp.ScheduledEnd)

	end = "2025-03-11T15:00:00Z"
	_, err = svc.UpdateShift(ctx, shift.UpdateShiftRequest{ID: a.ID, ScheduledEnd: &end})
	assert.ErrorIs(t, err, shift.ErrShiftConflict)
}

func TestShiftService_CalendarFeed(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := testContext()

	created, err := svc.CreateShift(ctx, shiftRequest(uuid.NewString(), "2025-03-11T09:00:00Z", "2025-03-11T17:00:00Z"))
	require.NoError(t, err)

	doc, err := svc.CalendarFeed(ctx, shift.CalendarRequest{StartDate: "2025-03-10", EndDate: "2025-03-16"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(doc, "BEGIN:VCALENDAR"))
	assert.Contains(t, doc, "UID:"+created.ID+"@shifts")
	assert.Contains(t, doc, "Ada Obi (kitchen) shift")
}

func TestShiftService_Upcoming_DefaultsToCaller(t *testing.T) {
	svc, _, _ := newTestService()
	callerID := uuid.NewString()
	ctx := jwt.ContextWithClaims(context.Background(), jwt.Claims{BusinessID: testBusinessID, StaffID: callerID, Role: staff.RoleBar})

	_, err := svc.CreateShift(testContext(), shiftRequest(callerID, "2025-03-11T09:00:00Z", "2025-03-11T17:00:00Z"))
	require.NoError(t, err)
	_, err = svc.CreateShift(testContext(), shiftRequest(uuid.NewString(), "2025-03-11T09:00:00Z", "2025-03-11T17:00:00Z"))
	require.NoError(t, err)

	upcoming, err := svc.Upcoming(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, callerID, upcoming[0].StaffID)
}
