package salary

import "context"

type SalaryService interface {
	CreateSalary(ctx context.Context, req CreateSalaryRequest) (SalaryResponse, error)
	GetCurrentSalary(ctx context.Context, staffID string) (SalaryResponse, error)
	ListSalaryHistory(ctx context.Context, staffID string) ([]SalaryResponse, error)
	UpdateSalary(ctx context.Context, req UpdateSalaryRequest) (SalaryResponse, error)
	DeleteSalary(ctx context.Context, id string) error

	CalculatePayroll(ctx context.Context, req CalculatePayrollRequest) (PayrollBreakdownResponse, error)
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (PaymentResponse, error)
	ListPayments(ctx context.Context, filter PaymentFilter) (ListPaymentResponse, error)
	MarkPaid(ctx context.Context, req MarkPaidRequest) (MarkPaidResponse, error)
	DeletePayment(ctx context.Context, id string) error
}
