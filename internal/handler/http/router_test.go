package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/activity"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/attendance"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/dashboard"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/document"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/performance"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/report"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/salary"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/shift"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/staff"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/handler/http/response"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/jwt"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/sse"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestSecret     = "test-secret-key-for-jwt"
	handlerTestBusinessID = "7b0c6f4e-3f4a-4d8e-9a51-1d2f3c4b5a60"
)

type stubStaffService struct {
	staff.StaffService
	listed int
}

func (s *stubStaffService) ListStaff(ctx context.Context, filter staff.StaffFilter) (staff.ListStaffResponse, error) {
	s.listed++
	return staff.ListStaffResponse{
		TotalCount: 12,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: 3,
		Staff:      []staff.StaffResponse{{ID: "s-1"}},
	}, nil
}

func (s *stubStaffService) CreateStaff(ctx context.Context, req staff.CreateStaffRequest) (staff.StaffResponse, error) {
	return staff.StaffResponse{}, req.Validate()
}

type stubShiftService struct {
	shift.ShiftService
}

func (s *stubShiftService) BulkCreate(ctx context.Context, req shift.BulkCreateShiftRequest) (shift.BulkCreateShiftResponse, error) {
	return shift.BulkCreateShiftResponse{}, &shift.BulkConflictError{Conflicts: []shift.BulkConflict{
		{Index: 1, StaffID: uuid.NewString(), ConflictShiftID: "existing-shift"},
	}}
}

func (s *stubShiftService) CalendarFeed(ctx context.Context, req shift.CalendarRequest) (string, error) {
	return "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n", nil
}

type stubAttendanceService struct {
	attendance.AttendanceService
	clockIns []attendance.ClockInRequest
	summary  string
}

func (s *stubAttendanceService) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
	s.clockIns = append(s.clockIns, req)
	return attendance.AttendanceResponse{StaffID: req.StaffID}, nil
}

func (s *stubAttendanceService) GetSummary(ctx context.Context, req attendance.SummaryRequest) (attendance.Summary, error) {
	s.summary = "staff"
	return attendance.Summary{StaffID: req.StaffID}, nil
}

func (s *stubAttendanceService) GetMySummary(ctx context.Context, req attendance.SummaryRequest) (attendance.Summary, error) {
	s.summary = "mine"
	return attendance.Summary{}, nil
}

type stubReportService struct {
	report.ReportService
}

func (s *stubReportService) Export(ctx context.Context, req report.ExportRequest) (report.Export, error) {
	if req.Type != string(report.TypePayroll) {
		return report.Export{}, report.ErrUnsupportedExport
	}
	return report.Export{Filename: "payroll-report.xlsx", ContentType: "application/octet-stream", Data: []byte("xlsx")}, nil
}

type stubDashboardService struct {
	dashboard.DashboardService
}

func (s *stubDashboardService) GetDashboard(ctx context.Context) (dashboard.DashboardResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return dashboard.DashboardResponse{}, err
	}
	return dashboard.DashboardResponse{Role: string(claims.Role)}, nil
}

func (s *stubDashboardService) GetRoleDashboard(ctx context.Context, role string) (dashboard.DashboardResponse, error) {
	return dashboard.DashboardResponse{}, dashboard.ErrForbidden
}

type testServer struct {
	handler    http.Handler
	jwt        jwt.Service
	staff      *stubStaffService
	attendance *stubAttendanceService
}

func newTestServer() *testServer {
	jwtService := jwt.NewJWTService(handlerTestSecret, "1h")
	ts := &testServer{
		jwt:        jwtService,
		staff:      &stubStaffService{},
		attendance: &stubAttendanceService{},
	}

	var (
		salarySvc   salary.SalaryService
		reviewSvc   performance.ReviewService
		activitySvc activity.ActivityService
		documentSvc document.DocumentService
	)

	ts.handler = NewRouter(
		RouterConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		jwtService,
		NewStaffHandler(ts.staff),
		NewSalaryHandler(salarySvc),
		NewShiftHandler(&stubShiftService{}),
		NewAttendanceHandler(ts.attendance),
		NewReviewHandler(reviewSvc),
		NewActivityHandler(activitySvc),
		NewDocumentHandler(documentSvc),
		NewReportHandler(&stubReportService{}),
		NewDashboardHandler(&stubDashboardService{}, jwtService, sse.NewHub()),
	)
	return ts
}

func (ts *testServer) token(t *testing.T, role staff.Role) string {
	t.Helper()
	token, _, err := ts.jwt.GenerateAccessToken(jwt.Claims{
		BusinessID: handlerTestBusinessID,
		StaffID:    uuid.NewString(),
		Role:       role,
	})
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRouter_RequiresToken(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodGet, "/api/v1/staff", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, ts.staff.listed)
}

func TestRouter_RejectsStreamTokenAsBearer(t *testing.T) {
	ts := newTestServer()
	stream, _, err := ts.jwt.GenerateStreamToken(jwt.Claims{BusinessID: handlerTestBusinessID, Role: staff.RoleOwner})
	require.NoError(t, err)

	rec := ts.do(t, http.MethodGet, "/api/v1/staff", stream, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_PermissionGate(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodGet, "/api/v1/staff", ts.token(t, staff.RoleKitchen), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "staff.view")

	rec = ts.do(t, http.MethodGet, "/api/v1/staff?page=2&limit=5", ts.token(t, staff.RoleManager), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, ts.staff.listed)
}

func TestRouter_ListCarriesPagingInMeta(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodGet, "/api/v1/staff?page=2&limit=5", ts.token(t, staff.RoleManager), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, response.Meta{Page: 2, Limit: 5, TotalItems: 12, TotalPages: 3}, *resp.Meta)

	items, ok := resp.Data.([]interface{})
	require.True(t, ok, "data is the page of items")
	require.Len(t, items, 1)
	assert.Equal(t, "s-1", items[0].(map[string]interface{})["id"])
}

func TestRouter_ValidationErrorIs422(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodPost, "/api/v1/staff", ts.token(t, staff.RoleOwner), map[string]string{"first_name": "Ada"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "last_name")
}

func TestRouter_MalformedBodyIs400(t *testing.T) {
	ts := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/staff", bytes.NewBufferString("{"))
	req.Header.Set("Authorization", "Bearer "+ts.token(t, staff.RoleOwner))
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_BulkShiftConflictCarriesDetails(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodPost, "/api/v1/staff/shifts/bulk", ts.token(t, staff.RoleManager), shift.BulkCreateShiftRequest{})
	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "CONFLICT", resp.Error.Code)
	assert.Equal(t, "overlaps existing shift existing-shift", resp.Error.Details["shifts[1]"])
}

func TestRouter_CalendarFeed(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodGet, "/api/v1/staff/shifts/calendar.ics?start_date=2025-03-01&end_date=2025-03-31", ts.token(t, staff.RoleBar), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/calendar")
	assert.Contains(t, rec.Body.String(), "BEGIN:VCALENDAR")
}

func TestRouter_ClockInIgnoresPIN(t *testing.T) {
	ts := newTestServer()
	token := ts.token(t, staff.RoleKitchen)

	rec := ts.do(t, http.MethodPost, "/api/v1/staff/attendance/clock-in", token, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/staff/attendance/clock-in", token, map[string]string{"staff_id": uuid.NewString(), "pin": "1234"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, ts.attendance.clockIns, 2)
	assert.Empty(t, ts.attendance.clockIns[1].PIN)
	assert.Empty(t, ts.attendance.clockIns[1].StaffID)

	rec = ts.do(t, http.MethodPost, "/api/v1/staff/attendance/kiosk/clock-in", token, map[string]string{"staff_id": uuid.NewString()})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Len(t, ts.attendance.clockIns, 2)
}

func TestRouter_AttendanceSummaryDefaultsToCaller(t *testing.T) {
	ts := newTestServer()
	token := ts.token(t, staff.RoleWaiter)

	rec := ts.do(t, http.MethodGet, "/api/v1/staff/attendance/summary?start_date=2025-03-01&end_date=2025-03-31", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "mine", ts.attendance.summary)

	rec = ts.do(t, http.MethodGet, "/api/v1/staff/attendance/summary?staff_id="+uuid.NewString(), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "staff", ts.attendance.summary)
}

func TestRouter_ReportExport(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodGet, "/api/v1/staff/reports/payroll/export?start_date=2025-03-01&end_date=2025-03-31", ts.token(t, staff.RoleAccountant), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="payroll-report.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "xlsx", rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/v1/staff/reports/unknown/export", ts.token(t, staff.RoleAccountant), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/staff/reports/payroll/export", ts.token(t, staff.RoleKitchen), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_Dashboard(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodGet, "/api/v1/dashboard", ts.token(t, staff.RoleReception), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "reception", data["role"])

	rec = ts.do(t, http.MethodGet, "/api/v1/dashboard/bar", ts.token(t, staff.RoleReception), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_StreamRequiresStreamToken(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodGet, "/api/v1/dashboard/stream", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	access := ts.token(t, staff.RoleManager)
	rec = ts.do(t, http.MethodGet, "/api/v1/dashboard/stream?token="+access, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/dashboard/stream-token", access, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	data, ok := decodeResponse(t, rec).Data.(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, data["token"])
	assert.EqualValues(t, 300, data["expires_in"])
}

func TestHandleError_UnknownErrorIs500(t *testing.T) {
	rec := httptest.NewRecorder()
	response.HandleError(rec, assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	response.HandleError(rec, validator.ValidationErrors{{Field: "id", Message: "must be a valid UUID"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
