package http

import (
	"net/http"
	"strconv"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/report"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	// GET /staff/reports/attendance
	GetAttendanceReport(w http.ResponseWriter, r *http.Request)

	// GET /staff/reports/payroll
	GetPayrollReport(w http.ResponseWriter, r *http.Request)

	// GET /staff/reports/performance
	GetPerformanceReport(w http.ResponseWriter, r *http.Request)

	// GET /staff/reports/activity
	GetActivityReport(w http.ResponseWriter, r *http.Request)

	// GET /staff/reports/overview
	GetOverviewReport(w http.ResponseWriter, r *http.Request)

	// GET /staff/reports/staff/{id}
	GetStaffReport(w http.ResponseWriter, r *http.Request)

	// GET /staff/reports/{type}/export
	Export(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// reportRequestFrom reads start_date, end_date and the optional staff_id and role filters.
func reportRequestFrom(r *http.Request) report.ReportRequest {
	return report.ReportRequest{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
		StaffID:   optionalQuery(r, "staff_id"),
		Role:      optionalQuery(r, "role"),
	}
}

func (h *reportHandlerImpl) GetAttendanceReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.AttendanceReport(r.Context(), reportRequestFrom(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *reportHandlerImpl) GetPayrollReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.PayrollReport(r.Context(), reportRequestFrom(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *reportHandlerImpl) GetPerformanceReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.PerformanceReport(r.Context(), reportRequestFrom(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *reportHandlerImpl) GetActivityReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.ActivityReport(r.Context(), reportRequestFrom(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *reportHandlerImpl) GetOverviewReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.OverviewReport(r.Context(), reportRequestFrom(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *reportHandlerImpl) GetStaffReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.StaffComprehensiveReport(r.Context(), chi.URLParam(r, "id"), reportRequestFrom(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Export streams the report as a spreadsheet attachment.
func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	req := report.ExportRequest{
		ReportRequest: reportRequestFrom(r),
		Type:          chi.URLParam(r, "type"),
		Format:        r.URL.Query().Get("format"),
	}

	export, err := h.reportService.Export(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(export.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(export.Data)
}
