package salary

import (
	"context"
	"time"
)

type SalaryRepository interface {
	Create(ctx context.Context, s StaffSalary) (StaffSalary, error)
	GetByID(ctx context.Context, id string, businessID string) (StaffSalary, error)
	GetActive(ctx context.Context, staffID string, businessID string) (StaffSalary, error)
	ListByStaff(ctx context.Context, staffID string, businessID string) ([]StaffSalary, error)
	Update(ctx context.Context, s StaffSalary) error
	// Deactivate closes the active salary of a staff member, setting its end date.
	Deactivate(ctx context.Context, staffID string, businessID string, endDate time.Time) error
	Delete(ctx context.Context, id string, businessID string) error
}

type PaymentRepository interface {
	Create(ctx context.Context, p StaffPayment) (StaffPayment, error)
	GetByID(ctx context.Context, id string, businessID string) (StaffPayment, error)
	List(ctx context.Context, filter PaymentFilter, businessID string) ([]StaffPayment, int64, error)
	MarkPaid(ctx context.Context, ids []string, businessID string, paidAt time.Time) (int64, error)
	Delete(ctx context.Context, id string, businessID string) error
	// Totals aggregates payments whose period overlaps [start, end].
	Totals(ctx context.Context, businessID string, start, end time.Time) (PaymentTotals, error)
}
