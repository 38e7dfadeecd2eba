package salary

import (
	"strings"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== SALARY DTOs ==========

type CreateSalaryRequest struct {
	StaffID            string           `json:"-"`
	BaseSalary         decimal.Decimal  `json:"base_salary"`
	HourlyRate         decimal.Decimal  `json:"hourly_rate"`
	PayFrequency       string           `json:"pay_frequency"`
	Currency           string           `json:"currency"`
	CommissionRate     decimal.Decimal  `json:"commission_rate"`
	BonusAmount        decimal.Decimal  `json:"bonus_amount"`
	OvertimeMultiplier *decimal.Decimal `json:"overtime_multiplier,omitempty"`
	EffectiveDate      string           `json:"effective_date"`
}

func (r *CreateSalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "must be a valid UUID"})
	}
	if r.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "must be non-negative"})
	}
	if r.HourlyRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "hourly_rate", Message: "must be non-negative"})
	}
	if r.BaseSalary.IsZero() && r.HourlyRate.IsZero() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "base_salary or hourly_rate must be set"})
	}
	if validator.IsEmpty(r.PayFrequency) {
		r.PayFrequency = string(PayFrequencyMonthly)
	} else if !validator.IsInSlice(r.PayFrequency, PayFrequencies) {
		errs = append(errs, validator.ValidationError{Field: "pay_frequency", Message: "pay_frequency must be one of: " + strings.Join(PayFrequencies, ", ")})
	}
	if validator.IsEmpty(r.Currency) {
		r.Currency = "USD"
	} else {
		r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
		if len(r.Currency) != 3 {
			errs = append(errs, validator.ValidationError{Field: "currency", Message: "must be a 3 letter ISO 4217 code"})
		}
	}
	if r.CommissionRate.IsNegative() || r.CommissionRate.GreaterThan(hundred) {
		errs = append(errs, validator.ValidationError{Field: "commission_rate", Message: "must be between 0 and 100"})
	}
	if r.BonusAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "bonus_amount", Message: "must be non-negative"})
	}
	if r.OvertimeMultiplier != nil && r.OvertimeMultiplier.LessThan(decimal.NewFromInt(1)) {
		errs = append(errs, validator.ValidationError{Field: "overtime_multiplier", Message: "must be at least 1"})
	}
	if validator.IsEmpty(r.EffectiveDate) {
		errs = append(errs, validator.ValidationError{Field: "effective_date", Message: "effective_date is required"})
	} else if _, ok := validator.IsValidDate(r.EffectiveDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_date", Message: "effective_date must be in YYYY-MM-DD format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateSalaryRequest struct {
	ID                 string           `json:"-"`
	BaseSalary         *decimal.Decimal `json:"base_salary,omitempty"`
	HourlyRate         *decimal.Decimal `json:"hourly_rate,omitempty"`
	PayFrequency       *string          `json:"pay_frequency,omitempty"`
	CommissionRate     *decimal.Decimal `json:"commission_rate,omitempty"`
	BonusAmount        *decimal.Decimal `json:"bonus_amount,omitempty"`
	OvertimeMultiplier *decimal.Decimal `json:"overtime_multiplier,omitempty"`
}

func (r *UpdateSalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "must be a valid UUID"})
	}
	if r.BaseSalary != nil && r.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "must be non-negative"})
	}
	if r.HourlyRate != nil && r.HourlyRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "hourly_rate", Message: "must be non-negative"})
	}
	if r.PayFrequency != nil && !validator.IsInSlice(*r.PayFrequency, PayFrequencies) {
		errs = append(errs, validator.ValidationError{Field: "pay_frequency", Message: "pay_frequency must be one of: " + strings.Join(PayFrequencies, ", ")})
	}
	if r.CommissionRate != nil && (r.CommissionRate.IsNegative() || r.CommissionRate.GreaterThan(hundred)) {
		errs = append(errs, validator.ValidationError{Field: "commission_rate", Message: "must be between 0 and 100"})
	}
	if r.BonusAmount != nil && r.BonusAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "bonus_amount", Message: "must be non-negative"})
	}
	if r.OvertimeMultiplier != nil && r.OvertimeMultiplier.LessThan(decimal.NewFromInt(1)) {
		errs = append(errs, validator.ValidationError{Field: "overtime_multiplier", Message: "must be at least 1"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SalaryResponse struct {
	ID                 string          `json:"id"`
	StaffID            string          `json:"staff_id"`
	BaseSalary         decimal.Decimal `json:"base_salary"`
	HourlyRate         decimal.Decimal `json:"hourly_rate"`
	PayFrequency       string          `json:"pay_frequency"`
	Currency           string          `json:"currency"`
	CommissionRate     decimal.Decimal `json:"commission_rate"`
	BonusAmount        decimal.Decimal `json:"bonus_amount"`
	OvertimeMultiplier decimal.Decimal `json:"overtime_multiplier"`
	EffectiveDate      string          `json:"effective_date"`
	EndDate            *string         `json:"end_date,omitempty"`
	IsActive           bool            `json:"is_active"`
}

// ========== PAYROLL DTOs ==========

type CalculatePayrollRequest struct {
	StaffID     string          `json:"staff_id"`
	PeriodStart string          `json:"period_start"`
	PeriodEnd   string          `json:"period_end"`
	SalesAmount decimal.Decimal `json:"sales_amount"`
	Deductions  decimal.Decimal `json:"deductions"`
}

func (r *CalculatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "must be a valid UUID"})
	}
	_, _, rangeErrs := validator.ValidateDateRange("period_start", r.PeriodStart, "period_end", r.PeriodEnd, 62)
	errs = append(errs, rangeErrs...)
	if r.SalesAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "sales_amount", Message: "must be non-negative"})
	}
	if r.Deductions.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "deductions", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreatePaymentRequest struct {
	CalculatePayrollRequest
	Notes *string `json:"notes,omitempty"`
}

type PayrollBreakdownResponse struct {
	StaffID       string          `json:"staff_id"`
	SalaryID      string          `json:"salary_id"`
	Currency      string          `json:"currency"`
	PeriodStart   string          `json:"period_start"`
	PeriodEnd     string          `json:"period_end"`
	PayFrequency  string          `json:"pay_frequency"`
	RegularHours  decimal.Decimal `json:"regular_hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	BasePay       decimal.Decimal `json:"base_pay"`
	OvertimePay   decimal.Decimal `json:"overtime_pay"`
	SalesAmount   decimal.Decimal `json:"sales_amount"`
	Commission    decimal.Decimal `json:"commission"`
	Bonus         decimal.Decimal `json:"bonus"`
	Deductions    decimal.Decimal `json:"deductions"`
	GrossPay      decimal.Decimal `json:"gross_pay"`
	NetPay        decimal.Decimal `json:"net_pay"`
}

type PaymentFilter struct {
	StaffID   *string
	Status    *string
	StartDate *string
	EndDate   *string
	Page      int
	Limit     int
}

func (f *PaymentFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be at most 100"})
	}
	if f.StaffID != nil && !validator.IsValidUUID(*f.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "must be a valid UUID"})
	}
	if f.Status != nil && *f.Status != string(PaymentStatusPending) && *f.Status != string(PaymentStatusPaid) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be pending or paid"})
	}
	if f.StartDate != nil {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if f.EndDate != nil {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PaymentResponse struct {
	ID            string          `json:"id"`
	StaffID       string          `json:"staff_id"`
	StaffName     string          `json:"staff_name,omitempty"`
	SalaryID      *string         `json:"salary_id,omitempty"`
	PeriodStart   string          `json:"period_start"`
	PeriodEnd     string          `json:"period_end"`
	Currency      string          `json:"currency"`
	RegularHours  decimal.Decimal `json:"regular_hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	BasePay       decimal.Decimal `json:"base_pay"`
	OvertimePay   decimal.Decimal `json:"overtime_pay"`
	SalesAmount   decimal.Decimal `json:"sales_amount"`
	Commission    decimal.Decimal `json:"commission"`
	Bonus         decimal.Decimal `json:"bonus"`
	Deductions    decimal.Decimal `json:"deductions"`
	GrossPay      decimal.Decimal `json:"gross_pay"`
	NetPay        decimal.Decimal `json:"net_pay"`
	Status        string          `json:"status"`
	PaidAt        *string         `json:"paid_at,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	CreatedAt     string          `json:"created_at"`
}

type ListPaymentResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Payments   []PaymentResponse `json:"payments"`
}

type MarkPaidRequest struct {
	PaymentIDs []string `json:"payment_ids"`
}

func (r *MarkPaidRequest) Validate() error {
	var errs validator.ValidationErrors
	if len(r.PaymentIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "payment_ids", Message: "at least one payment id is required"})
	}
	for _, id := range r.PaymentIDs {
		if !validator.IsValidUUID(id) {
			errs = append(errs, validator.ValidationError{Field: "payment_ids", Message: "must contain valid UUIDs"})
			break
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MarkPaidResponse struct {
	Requested int   `json:"requested"`
	Updated   int64 `json:"updated"`
}
