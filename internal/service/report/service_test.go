package report

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/activity"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/report"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/staff"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/jwt"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testBusinessID = "7b0c6f4e-3f4a-4d8e-9a51-1d2f3c4b5a60"

type mockReportRepo struct {
	attendance []report.AttendanceRow
	payroll    []report.PayrollRow
	reviews    []report.ReviewRow
	activity   []report.ActivityRow
	scopes     []report.Scope
	err        error
}

func (m *mockReportRepo) AttendanceRows(ctx context.Context, scope report.Scope) ([]report.AttendanceRow, error) {
	return m.attendance, m.err
}

func (m *mockReportRepo) PayrollRows(ctx context.Context, scope report.Scope) ([]report.PayrollRow, error) {
	return m.payroll, m.err
}

func (m *mockReportRepo) ReviewRows(ctx context.Context, scope report.Scope) ([]report.ReviewRow, error) {
	return m.reviews, m.err
}

func (m *mockReportRepo) ActivityRows(ctx context.Context, scope report.Scope) ([]report.ActivityRow, error) {
	m.scopes = append(m.scopes, scope)
	return m.activity, m.err
}

type mockDirectory struct {
	members map[string]staff.Staff
}

func (m *mockDirectory) GetByID(ctx context.Context, id, businessID string) (staff.Staff, error) {
	s, ok := m.members[id]
	if !ok {
		return staff.Staff{}, staff.ErrStaffNotFound
	}
	return s, nil
}

func (m *mockDirectory) CountByRole(ctx context.Context, businessID string) ([]staff.RoleCount, error) {
	return []staff.RoleCount{{Role: staff.RoleKitchen, Count: 4}, {Role: staff.RoleWaiter, Count: 6}}, nil
}

func (m *mockDirectory) CountByStatus(ctx context.Context, businessID string) ([]staff.StatusCount, error) {
	return []staff.StatusCount{{Status: staff.StatusActive, Count: 9}}, nil
}

func (m *mockDirectory) CountHiredBetween(ctx context.Context, businessID string, start, end time.Time) (int, error) {
	return 2, nil
}

func (m *mockDirectory) CountTerminatedBetween(ctx context.Context, businessID string, start, end time.Time) (int, error) {
	return 1, nil
}

func newTestService() (*ReportServiceImpl, *mockReportRepo, *mockDirectory) {
	repo := &mockReportRepo{}
	dir := &mockDirectory{members: map[string]staff.Staff{}}
	svc := NewReportService(repo, dir).(*ReportServiceImpl)
	svc.now = func() time.Time { return time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC) }
	return svc, repo, dir
}

func testContext() context.Context {
	return jwt.ContextWithClaims(context.Background(), jwt.Claims{
		BusinessID: testBusinessID,
		StaffID:    uuid.NewString(),
		Role:       staff.RoleManager,
	})
}

func march() report.ReportRequest {
	return report.ReportRequest{StartDate: "2025-03-01", EndDate: "2025-03-31"}
}

func TestReportService_Validation(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.AttendanceReport(testContext(), report.ReportRequest{StartDate: "2025-03-31", EndDate: "2025-03-01"})
	var ve validator.ValidationErrors
	assert.True(t, errors.As(err, &ve))

	role := "chef"
	_, err = svc.PayrollReport(testContext(), report.ReportRequest{StartDate: "2025-03-01", EndDate: "2025-03-31", Role: &role})
	assert.True(t, errors.As(err, &ve))
}

func TestReportService_AttendanceReport(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.attendance = []report.AttendanceRow{
		{StaffRef: report.StaffRef{StaffID: "a", StaffName: "Ada Obi", Role: "kitchen"}, ScheduledShifts: 4, DaysPresent: 4, TotalHours: 30},
		{StaffRef: report.StaffRef{StaffID: "b", StaffName: "Bola Ade", Role: "bar"}, ScheduledShifts: 4, DaysPresent: 1, DaysLate: 1, DaysAbsent: 2, TotalHours: 14.5},
	}

	r, err := svc.AttendanceReport(testContext(), march())
	require.NoError(t, err)
	assert.Equal(t, "2025-04-01T08:00:00Z", r.GeneratedAt)
	assert.Equal(t, 2, r.Summary.TotalStaff)
	assert.Equal(t, 75.0, r.Summary.AverageAttendanceRate)
	assert.Equal(t, 75.0, r.Summary.AveragePunctualityScore)
	assert.Equal(t, 44.5, r.Summary.TotalHours)

	repo.err = errors.New("connection reset")
	_, err = svc.AttendanceReport(testContext(), march())
	assert.ErrorIs(t, err, report.ErrReportGenerationFailed)
}

func TestReportService_OverviewReport(t *testing.T) {
	svc, _, _ := newTestService()

	r, err := svc.OverviewReport(testContext(), march())
	require.NoError(t, err)
	assert.Equal(t, 10, r.TotalStaff)
	assert.Equal(t, 4, r.ByRole[string(staff.RoleKitchen)])
	assert.Equal(t, 0, r.ByRole[string(staff.RoleBar)])
	assert.Len(t, r.ByRole, len(staff.Roles))
	assert.Equal(t, 9, r.ByStatus[string(staff.StatusActive)])
	assert.Len(t, r.ByStatus, len(staff.Statuses))
	assert.Equal(t, 2, r.NewHires)
	assert.Equal(t, 1, r.Terminations)
}

func TestReportService_StaffComprehensiveReport(t *testing.T) {
	svc, repo, dir := newTestService()
	id := uuid.NewString()
	dir.members[id] = staff.Staff{
		ID:             id,
		FirstName:      "Ada",
		LastName:       "Obi",
		Role:           staff.RoleKitchen,
		EmploymentType: staff.EmploymentTypeFullTime,
		Status:         staff.StatusActive,
		HireDate:       time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	repo.activity = []report.ActivityRow{{Role: "kitchen", Totals: activity.Totals{StaffID: id, Sessions: 3, ActiveMinutes: 60}}}

	role := string(staff.RoleBar)
	req := march()
	req.Role = &role
	r, err := svc.StaffComprehensiveReport(testContext(), id, req)
	require.NoError(t, err)
	assert.Equal(t, "Ada Obi", r.Profile.FullName)
	assert.Equal(t, "2024-06-01", r.Profile.HireDate)

	assert.Equal(t, id, r.Attendance.StaffID)
	assert.Zero(t, r.Attendance.AttendanceRate)
	assert.Equal(t, report.PaymentStatusCalculated, r.Payroll.PaymentStatus)
	assert.True(t, r.Payroll.NetPay.IsZero())
	assert.Equal(t, 0, r.Performance.ReviewCount)
	assert.NotNil(t, r.Performance.CategoryAverages)
	assert.Equal(t, 3, r.Activity.Sessions)

	require.Len(t, repo.scopes, 1)
	require.NotNil(t, repo.scopes[0].StaffID)
	assert.Equal(t, id, *repo.scopes[0].StaffID)
	assert.Nil(t, repo.scopes[0].Role)

	_, err = svc.StaffComprehensiveReport(testContext(), uuid.NewString(), march())
	assert.ErrorIs(t, err, staff.ErrStaffNotFound)
}

func TestReportService_Export(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.attendance = []report.AttendanceRow{
		{StaffRef: report.StaffRef{StaffID: "a", StaffName: "Ada Obi", Role: "kitchen"}, ScheduledShifts: 20, DaysPresent: 20, TotalHours: 1234.5},
	}

	out, err := svc.Export(testContext(), report.ExportRequest{ReportRequest: march(), Type: string(report.TypeAttendance)})
	require.NoError(t, err)
	assert.Equal(t, "attendance-report_2025-03-01_2025-03-31.xlsx", out.Filename)
	assert.Equal(t, xlsxContentType, out.ContentType)

	f, err := excelize.OpenReader(bytes.NewReader(out.Data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{dataSheet, summarySheet}, f.GetSheetList())

	header, err := f.GetCellValue(dataSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Staff", header)
	name, err := f.GetCellValue(dataSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Ada Obi", name)

	rows, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	found := false
	for _, row := range rows {
		if len(row) == 2 && row[0] == "Total hours" {
			found = true
			assert.Equal(t, "1,234.50", row[1])
		}
	}
	assert.True(t, found)

	_, err = svc.Export(testContext(), report.ExportRequest{ReportRequest: march(), Type: string(report.TypePayroll), Format: "csv"})
	assert.Error(t, err)
}
