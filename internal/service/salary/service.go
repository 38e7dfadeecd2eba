package salary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/attendance"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/salary"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/staff"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/jwt"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/validator"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/repository/postgresql"
	"github.com/shopspring/decimal"
)

// AttendanceSummarizer is the slice of the attendance repository payroll needs.
type AttendanceSummarizer interface {
	Summary(ctx context.Context, staffID string, businessID string, start, end time.Time) (attendance.Summary, error)
}

// StaffLookup resolves a staff member within a business.
type StaffLookup interface {
	GetByID(ctx context.Context, id string, businessID string) (staff.Staff, error)
}

type SalaryServiceImpl struct {
	tx             postgresql.Transactor
	salaryRepo     salary.SalaryRepository
	paymentRepo    salary.PaymentRepository
	staffRepo      StaffLookup
	attendanceRepo AttendanceSummarizer
	now            func() time.Time
}

func NewSalaryService(
	tx postgresql.Transactor,
	salaryRepo salary.SalaryRepository,
	paymentRepo salary.PaymentRepository,
	staffRepo StaffLookup,
	attendanceRepo AttendanceSummarizer,
) salary.SalaryService {
	return &SalaryServiceImpl{
		tx:             tx,
		salaryRepo:     salaryRepo,
		paymentRepo:    paymentRepo,
		staffRepo:      staffRepo,
		attendanceRepo: attendanceRepo,
		now:            time.Now,
	}
}

func mapSalaryToResponse(s salary.StaffSalary) salary.SalaryResponse {
	var endDate *string
	if s.EndDate != nil {
		d := s.EndDate.Format(validator.DateLayout)
		endDate = &d
	}
	return salary.SalaryResponse{
		ID:                 s.ID,
		StaffID:            s.StaffID,
		BaseSalary:         s.BaseSalary,
		HourlyRate:         s.HourlyRate,
		PayFrequency:       string(s.PayFrequency),
		Currency:           s.Currency,
		CommissionRate:     s.CommissionRate,
		BonusAmount:        s.BonusAmount,
		OvertimeMultiplier: s.OvertimeMultiplier,
		EffectiveDate:      s.EffectiveDate.Format(validator.DateLayout),
		EndDate:            endDate,
		IsActive:           s.IsActive,
	}
}

func mapBreakdownToResponse(b salary.PayrollBreakdown) salary.PayrollBreakdownResponse {
	return salary.PayrollBreakdownResponse{
		StaffID:       b.StaffID,
		SalaryID:      b.SalaryID,
		Currency:      b.Currency,
		PeriodStart:   b.PeriodStart.Format(validator.DateLayout),
		PeriodEnd:     b.PeriodEnd.Format(validator.DateLayout),
		PayFrequency:  string(b.PayFrequency),
		RegularHours:  b.RegularHours,
		OvertimeHours: b.OvertimeHours,
		BasePay:       b.BasePay,
		OvertimePay:   b.OvertimePay,
		SalesAmount:   b.SalesAmount,
		Commission:    b.Commission,
		Bonus:         b.Bonus,
		Deductions:    b.Deductions,
		GrossPay:      b.GrossPay,
		NetPay:        b.NetPay,
	}
}

func mapPaymentToResponse(p salary.StaffPayment) salary.PaymentResponse {
	var paidAt *string
	if p.PaidAt != nil {
		s := p.PaidAt.Format(time.RFC3339)
		paidAt = &s
	}
	return salary.PaymentResponse{
		ID:            p.ID,
		StaffID:       p.StaffID,
		StaffName:     p.StaffName,
		SalaryID:      p.SalaryID,
		PeriodStart:   p.PeriodStart.Format(validator.DateLayout),
		PeriodEnd:     p.PeriodEnd.Format(validator.DateLayout),
		Currency:      p.Currency,
		RegularHours:  p.RegularHours,
		OvertimeHours: p.OvertimeHours,
		BasePay:       p.BasePay,
		OvertimePay:   p.OvertimePay,
		SalesAmount:   p.SalesAmount,
		Commission:    p.Commission,
		Bonus:         p.Bonus,
		Deductions:    p.Deductions,
		GrossPay:      p.GrossPay,
		NetPay:        p.NetPay,
		Status:        string(p.Status),
		PaidAt:        paidAt,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}

// CreateSalary implements salary.SalaryService. The current active salary is closed the
// day before the new one takes effect.
func (s *SalaryServiceImpl) CreateSalary(ctx context.Context, req salary.CreateSalaryRequest) (salary.SalaryResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.SalaryResponse{}, err
	}

	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return salary.SalaryResponse{}, err
	}

	if _, err := s.staffRepo.GetByID(ctx, req.StaffID, businessID); err != nil {
		return salary.SalaryResponse{}, err
	}

	effective, _ := validator.IsValidDate(req.EffectiveDate)
	multiplier := salary.DefaultOvertimeMultiplier
	if req.OvertimeMultiplier != nil {
		multiplier = *req.OvertimeMultiplier
	}

	var created salary.StaffSalary
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.salaryRepo.GetActive(ctx, req.StaffID, businessID)
		switch {
		case err == nil:
			if !effective.After(current.EffectiveDate) {
				return salary.ErrEffectiveDateConflict
			}
			if err := s.salaryRepo.Deactivate(ctx, req.StaffID, businessID, effective.AddDate(0, 0, -1)); err != nil {
				return err
			}
		case !errors.Is(err, salary.ErrNoActiveSalary):
			return err
		}

		created, err = s.salaryRepo.Create(ctx, salary.StaffSalary{
			BusinessID:         businessID,
			StaffID:            req.StaffID,
			BaseSalary:         req.BaseSalary,
			HourlyRate:         req.HourlyRate,
			PayFrequency:       salary.PayFrequency(req.PayFrequency),
			Currency:           req.Currency,
			CommissionRate:     req.CommissionRate,
			BonusAmount:        req.BonusAmount,
			OvertimeMultiplier: multiplier,
			EffectiveDate:      effective,
			IsActive:           true,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, salary.ErrEffectiveDateConflict) || errors.Is(err, staff.ErrStaffNotFound) {
			return salary.SalaryResponse{}, err
		}
		return salary.SalaryResponse{}, fmt.Errorf("failed to create salary: %w", err)
	}

	return mapSalaryToResponse(created), nil
}

// GetCurrentSalary implements salary.SalaryService.
func (s *SalaryServiceImpl) GetCurrentSalary(ctx context.Context, staffID string) (salary.SalaryResponse, error) {
	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return salary.SalaryResponse{}, err
	}

	current, err := s.salaryRepo.GetActive(ctx, staffID, businessID)
	if err != nil {
		return salary.SalaryResponse{}, err
	}
	return mapSalaryToResponse(current), nil
}

// ListSalaryHistory implements salary.SalaryService.
func (s *SalaryServiceImpl) ListSalaryHistory(ctx context.Context, staffID string) ([]salary.SalaryResponse, error) {
	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	history, err := s.salaryRepo.ListByStaff(ctx, staffID, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary history: %w", err)
	}

	responses := make([]salary.SalaryResponse, 0, len(history))
	for _, h := range history {
		responses = append(responses, mapSalaryToResponse(h))
	}
	return responses, nil
}

// UpdateSalary implements salary.SalaryService.
func (s *SalaryServiceImpl) UpdateSalary(ctx context.Context, req salary.UpdateSalaryRequest) (salary.SalaryResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.SalaryResponse{}, err
	}

	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return salary.SalaryResponse{}, err
	}

	existing, err := s.salaryRepo.GetByID(ctx, req.ID, businessID)
	if err != nil {
		return salary.SalaryResponse{}, err
	}

	if req.BaseSalary != nil {
		existing.BaseSalary = *req.BaseSalary
	}
	if req.HourlyRate != nil {
		existing.HourlyRate = *req.HourlyRate
	}
	if req.PayFrequency != nil {
		existing.PayFrequency = salary.PayFrequency(*req.PayFrequency)
	}
	if req.CommissionRate != nil {
		existing.CommissionRate = *req.CommissionRate
	}
	if req.BonusAmount != nil {
		existing.BonusAmount = *req.BonusAmount
	}
	if req.OvertimeMultiplier != nil {
		existing.OvertimeMultiplier = *req.OvertimeMultiplier
	}
	if existing.BaseSalary.IsZero() && existing.HourlyRate.IsZero() {
		return salary.SalaryResponse{}, validator.ValidationErrors{
			{Field: "base_salary", Message: "base_salary or hourly_rate must be set"},
		}
	}

	if err := s.salaryRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, salary.ErrSalaryNotFound) {
			return salary.SalaryResponse{}, err
		}
		return salary.SalaryResponse{}, fmt.Errorf("failed to update salary: %w", err)
	}
	return mapSalaryToResponse(existing), nil
}

// DeleteSalary implements salary.SalaryService.
func (s *SalaryServiceImpl) DeleteSalary(ctx context.Context, id string) error {
	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return err
	}
	return s.salaryRepo.Delete(ctx, id, businessID)
}

func (s *SalaryServiceImpl) calculate(ctx context.Context, businessID string, req salary.CalculatePayrollRequest) (salary.PayrollBreakdown, error) {
	start, _ := validator.IsValidDate(req.PeriodStart)
	end, _ := validator.IsValidDate(req.PeriodEnd)

	current, err := s.salaryRepo.GetActive(ctx, req.StaffID, businessID)
	if err != nil {
		return salary.PayrollBreakdown{}, err
	}

	summary, err := s.attendanceRepo.Summary(ctx, req.StaffID, businessID, start, end)
	if err != nil {
		return salary.PayrollBreakdown{}, fmt.Errorf("failed to summarize attendance: %w", err)
	}

	overtime := decimal.NewFromFloat(summary.OvertimeHours)
	regular := decimal.NewFromFloat(summary.TotalHours).Sub(overtime)
	if regular.IsNegative() {
		regular = decimal.Zero
	}

	return salary.Calculate(current, salary.PayrollInput{
		PeriodStart:   start,
		PeriodEnd:     end,
		RegularHours:  regular,
		OvertimeHours: overtime,
		SalesAmount:   req.SalesAmount,
		Deductions:    req.Deductions,
	}), nil
}

// CalculatePayroll implements salary.SalaryService.
func (s *SalaryServiceImpl) CalculatePayroll(ctx context.Context, req salary.CalculatePayrollRequest) (salary.PayrollBreakdownResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.PayrollBreakdownResponse{}, err
	}

	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return salary.PayrollBreakdownResponse{}, err
	}

	breakdown, err := s.calculate(ctx, businessID, req)
	if err != nil {
		return salary.PayrollBreakdownResponse{}, err
	}
	return mapBreakdownToResponse(breakdown), nil
}

// CreatePayment implements salary.SalaryService.
func (s *SalaryServiceImpl) CreatePayment(ctx context.Context, req salary.CreatePaymentRequest) (salary.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.PaymentResponse{}, err
	}

	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return salary.PaymentResponse{}, err
	}

	b, err := s.calculate(ctx, businessID, req.CalculatePayrollRequest)
	if err != nil {
		return salary.PaymentResponse{}, err
	}

	salaryID := b.SalaryID
	payment, err := s.paymentRepo.Create(ctx, salary.StaffPayment{
		BusinessID:    businessID,
		StaffID:       b.StaffID,
		SalaryID:      &salaryID,
		PeriodStart:   b.PeriodStart,
		PeriodEnd:     b.PeriodEnd,
		Currency:      b.Currency,
		RegularHours:  b.RegularHours,
		OvertimeHours: b.OvertimeHours,
		BasePay:       b.BasePay,
		OvertimePay:   b.OvertimePay,
		SalesAmount:   b.SalesAmount,
		Commission:    b.Commission,
		Bonus:         b.Bonus,
		Deductions:    b.Deductions,
		GrossPay:      b.GrossPay,
		NetPay:        b.NetPay,
		Status:        salary.PaymentStatusPending,
		Notes:         req.Notes,
	})
	if err != nil {
		if errors.Is(err, salary.ErrPaymentAlreadyExists) {
			return salary.PaymentResponse{}, err
		}
		return salary.PaymentResponse{}, fmt.Errorf("failed to create payment: %w", err)
	}

	return mapPaymentToResponse(payment), nil
}

// ListPayments implements salary.SalaryService.
func (s *SalaryServiceImpl) ListPayments(ctx context.Context, filter salary.PaymentFilter) (salary.ListPaymentResponse, error) {
	if err := filter.Validate(); err != nil {
		return salary.ListPaymentResponse{}, err
	}

	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return salary.ListPaymentResponse{}, err
	}

	payments, total, err := s.paymentRepo.List(ctx, filter, businessID)
	if err != nil {
		return salary.ListPaymentResponse{}, fmt.Errorf("failed to list payments: %w", err)
	}

	responses := make([]salary.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		responses = append(responses, mapPaymentToResponse(p))
	}

	return salary.ListPaymentResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Payments:   responses,
	}, nil
}

// MarkPaid implements salary.SalaryService. Ids that are unknown or already paid are skipped.
func (s *SalaryServiceImpl) MarkPaid(ctx context.Context, req salary.MarkPaidRequest) (salary.MarkPaidResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.MarkPaidResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return salary.MarkPaidResponse{}, err
	}

	updated, err := s.paymentRepo.MarkPaid(ctx, req.PaymentIDs, claims.BusinessID, s.now().UTC())
	if err != nil {
		return salary.MarkPaidResponse{}, fmt.Errorf("failed to mark payments paid: %w", err)
	}

	slog.Info("payments marked paid", "business_id", claims.BusinessID, "requested", len(req.PaymentIDs), "updated", updated, "by", claims.StaffID)
	return salary.MarkPaidResponse{Requested: len(req.PaymentIDs), Updated: updated}, nil
}

// DeletePayment implements salary.SalaryService.
func (s *SalaryServiceImpl) DeletePayment(ctx context.Context, id string) error {
	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return err
	}

	payment, err := s.paymentRepo.GetByID(ctx, id, businessID)
	if err != nil {
		return err
	}
	if payment.Status == salary.PaymentStatusPaid {
		return salary.ErrPaymentAlreadyPaid
	}
	return s.paymentRepo.Delete(ctx, id, businessID)
}
