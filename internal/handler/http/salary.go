package http

import (
	"net/http"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/salary"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type SalaryHandler interface {
	GetCurrentSalary(w http.ResponseWriter, r *http.Request)
	ListSalaryHistory(w http.ResponseWriter, r *http.Request)
	CreateSalary(w http.ResponseWriter, r *http.Request)
	UpdateSalary(w http.ResponseWriter, r *http.Request)
	DeleteSalary(w http.ResponseWriter, r *http.Request)
	CalculatePayroll(w http.ResponseWriter, r *http.Request)
	CreatePayment(w http.ResponseWriter, r *http.Request)
	ListPayments(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)
	DeletePayment(w http.ResponseWriter, r *http.Request)
}

type salaryHandlerImpl struct {
	salaryService salary.SalaryService
}

func NewSalaryHandler(salaryService salary.SalaryService) SalaryHandler {
	return &salaryHandlerImpl{salaryService: salaryService}
}

func (h *salaryHandlerImpl) GetCurrentSalary(w http.ResponseWriter, r *http.Request) {
	result, err := h.salaryService.GetCurrentSalary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *salaryHandlerImpl) ListSalaryHistory(w http.ResponseWriter, r *http.Request) {
	result, err := h.salaryService.ListSalaryHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// CreateSalary starts a new salary configuration for the staff member in the path.
func (h *salaryHandlerImpl) CreateSalary(w http.ResponseWriter, r *http.Request) {
	var req salary.CreateSalaryRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.StaffID = chi.URLParam(r, "id")

	result, err := h.salaryService.CreateSalary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Salary created successfully", result)
}

func (h *salaryHandlerImpl) UpdateSalary(w http.ResponseWriter, r *http.Request) {
	var req salary.UpdateSalaryRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.salaryService.UpdateSalary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Salary updated successfully", result)
}

func (h *salaryHandlerImpl) DeleteSalary(w http.ResponseWriter, r *http.Request) {
	if err := h.salaryService.DeleteSalary(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Salary deleted successfully", nil)
}

// CalculatePayroll previews a payroll breakdown without storing it.
func (h *salaryHandlerImpl) CalculatePayroll(w http.ResponseWriter, r *http.Request) {
	var req salary.CalculatePayrollRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.salaryService.CalculatePayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *salaryHandlerImpl) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req salary.CreatePaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.salaryService.CreatePayment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Payment recorded successfully", result)
}

func (h *salaryHandlerImpl) ListPayments(w http.ResponseWriter, r *http.Request) {
	filter := salary.PaymentFilter{
		StaffID:   optionalQuery(r, "staff_id"),
		Status:    optionalQuery(r, "status"),
		StartDate: optionalQuery(r, "start_date"),
		EndDate:   optionalQuery(r, "end_date"),
		Page:      intQuery(r, "page", 1),
		Limit:     intQuery(r, "limit", 20),
	}

	result, err := h.salaryService.ListPayments(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Paged(w, result.Payments, result.Page, result.Limit, result.TotalCount, result.TotalPages)
}

func (h *salaryHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	var req salary.MarkPaidRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.salaryService.MarkPaid(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Payments marked as paid", result)
}

func (h *salaryHandlerImpl) DeletePayment(w http.ResponseWriter, r *http.Request) {
	if err := h.salaryService.DeletePayment(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Payment deleted successfully", nil)
}
