package salary

import (
	"context"
	"testing"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/attendance"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/salary"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/staff"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/jwt"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBusinessID = "7b0c6f4e-3f4a-4d8e-9a51-1d2f3c4b5a60"

type fakeTx struct{ calls int }

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type mockSalaryRepo struct {
	salaries map[string]salary.StaffSalary
}

func (m *mockSalaryRepo) Create(ctx context.Context, s salary.StaffSalary) (salary.StaffSalary, error) {
	s.ID = uuid.NewString()
	m.salaries[s.ID] = s
	return s, nil
}

func (m *mockSalaryRepo) GetByID(ctx context.Context, id, businessID string) (salary.StaffSalary, error) {
	s, ok := m.salaries[id]
	if !ok {
		return salary.StaffSalary{}, salary.ErrSalaryNotFound
	}
	return s, nil
}

func (m *mockSalaryRepo) GetActive(ctx context.Context, staffID, businessID string) (salary.StaffSalary, error) {
	for _, s := range m.salaries {
		if s.StaffID == staffID && s.IsActive {
			return s, nil
		}
	}
	return salary.StaffSalary{}, salary.ErrNoActiveSalary
}

func (m *mockSalaryRepo) ListByStaff(ctx context.Context, staffID, businessID string) ([]salary.StaffSalary, error) {
	var out []salary.StaffSalary
	for _, s := range m.salaries {
		if s.StaffID == staffID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSalaryRepo) Update(ctx context.Context, s salary.StaffSalary) error {
	m.salaries[s.ID] = s
	return nil
}

func (m *mockSalaryRepo) Deactivate(ctx context.Context, staffID, businessID string, endDate time.Time) error {
	for id, s := range m.salaries {
		if s.StaffID == staffID && s.IsActive {
			s.IsActive = false
			s.EndDate = &endDate
			m.salaries[id] = s
		}
	}
	return nil
}

func (m *mockSalaryRepo) Delete(ctx context.Context, id, businessID string) error {
	delete(m.salaries, id)
	return nil
}

type mockPaymentRepo struct {
	payments map[string]salary.StaffPayment
}

func (m *mockPaymentRepo) Create(ctx context.Context, p salary.StaffPayment) (salary.StaffPayment, error) {
	for _, existing := range m.payments {
		if existing.StaffID == p.StaffID && existing.PeriodStart.Equal(p.PeriodStart) && existing.PeriodEnd.Equal(p.PeriodEnd) {
			return salary.StaffPayment{}, salary.ErrPaymentAlreadyExists
		}
	}
	p.ID = uuid.NewString()
	m.payments[p.ID] = p
	return p, nil
}

func (m *mockPaymentRepo) GetByID(ctx context.Context, id, businessID string) (salary.StaffPayment, error) {
	p, ok := m.payments[id]
	if !ok {
		return salary.StaffPayment{}, salary.ErrPaymentNotFound
	}
	return p, nil
}

func (m *mockPaymentRepo) List(ctx context.Context, filter salary.PaymentFilter, businessID string) ([]salary.StaffPayment, int64, error) {
	var out []salary.StaffPayment
	for _, p := range m.payments {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (m *mockPaymentRepo) MarkPaid(ctx context.Context, ids []string, businessID string, paidAt time.Time) (int64, error) {
	var n int64
	for _, id := range ids {
		p, ok := m.payments[id]
		if !ok || p.Status != salary.PaymentStatusPending {
			continue
		}
		p.Status = salary.PaymentStatusPaid
		p.PaidAt = &paidAt
		m.payments[id] = p
		n++
	}
	return n, nil
}

func (m *mockPaymentRepo) Delete(ctx context.Context, id, businessID string) error {
	delete(m.payments, id)
	return nil
}

func (m *mockPaymentRepo) Totals(ctx context.Context, businessID string, start, end time.Time) (salary.PaymentTotals, error) {
	return salary.PaymentTotals{}, nil
}

type mockStaffLookup struct{}

func (mockStaffLookup) GetByID(ctx context.Context, id, businessID string) (staff.Staff, error) {
	return staff.Staff{ID: id, BusinessID: businessID}, nil
}

type mockAttendance struct {
	summary attendance.Summary
}

func (m mockAttendance) Summary(ctx context.Context, staffID, businessID string, start, end time.Time) (attendance.Summary, error) {
	s := m.summary
	s.StaffID = staffID
	return s, nil
}

type fixture struct {
	svc      *SalaryServiceImpl
	tx       *fakeTx
	salaries *mockSalaryRepo
	payments *mockPaymentRepo
}

func newFixture(summary attendance.Summary) fixture {
	f := fixture{
		tx:       &fakeTx{},
		salaries: &mockSalaryRepo{salaries: map[string]salary.StaffSalary{}},
		payments: &mockPaymentRepo{payments: map[string]salary.StaffPayment{}},
	}
	f.svc = NewSalaryService(f.tx, f.salaries, f.payments, mockStaffLookup{}, mockAttendance{summary: summary}).(*SalaryServiceImpl)
	return f
}

func testContext() context.Context {
	return jwt.ContextWithClaims(context.Background(), jwt.Claims{
		BusinessID: testBusinessID,
		StaffID:    uuid.NewString(),
		Role:       staff.RoleAccountant,
	})
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func TestSalaryService_CreateSalary_ClosesPreviousSalary(t *testing.T) {
	f := newFixture(attendance.Summary{})
	ctx := testContext()
	staffID := uuid.NewString()

	first, err := f.svc.CreateSalary(ctx, salary.CreateSalaryRequest{
		StaffID:       staffID,
		BaseSalary:    decimal.NewFromInt(2500),
		EffectiveDate: "2025-01-01",
	})
	require.NoError(t, err)
	assert.True(t, first.IsActive)
	assertDecimal(t, "1.5", first.OvertimeMultiplier)
	assert.Equal(t, "monthly", first.PayFrequency)
	assert.Equal(t, "USD", first.Currency)

	second, err := f.svc.CreateSalary(ctx, salary.CreateSalaryRequest{
		StaffID:       staffID,
		BaseSalary:    decimal.NewFromInt(2800),
		EffectiveDate: "2025-03-01",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, f.tx.calls)

	closed := f.salaries.salaries[first.ID]
	assert.False(t, closed.IsActive)
	require.NotNil(t, closed.EndDate)
	assert.Equal(t, "2025-02-28", closed.EndDate.Format(validator.DateLayout))

	current, err := f.svc.GetCurrentSalary(ctx, staffID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)
}

func TestSalaryService_CreateSalary_EffectiveDateConflict(t *testing.T) {
	f := newFixture(attendance.Summary{})
	ctx := testContext()
	staffID := uuid.NewString()

	_, err := f.svc.CreateSalary(ctx, salary.CreateSalaryRequest{StaffID: staffID, BaseSalary: decimal.NewFromInt(2500), EffectiveDate: "2025-03-01"})
	require.NoError(t, err)

	_, err = f.svc.CreateSalary(ctx, salary.CreateSalaryRequest{StaffID: staffID, BaseSalary: decimal.NewFromInt(2600), EffectiveDate: "2025-03-01"})
	assert.ErrorIs(t, err, salary.ErrEffectiveDateConflict)
}

func TestSalaryService_CalculatePayroll(t *testing.T) {
	f := newFixture(attendance.Summary{TotalHours: 170, OvertimeHours: 10})
	ctx := testContext()
	staffID := uuid.NewString()

	multiplier := decimal.NewFromFloat(1.5)
	_, err := f.svc.CreateSalary(ctx, salary.CreateSalaryRequest{
		StaffID:            staffID,
		BaseSalary:         decimal.NewFromInt(3000),
		HourlyRate:         decimal.NewFromInt(20),
		CommissionRate:     decimal.NewFromInt(5),
		BonusAmount:        decimal.NewFromInt(100),
		OvertimeMultiplier: &multiplier,
		EffectiveDate:      "2025-01-01",
	})
	require.NoError(t, err)

	resp, err := f.svc.CalculatePayroll(ctx, salary.CalculatePayrollRequest{
		StaffID:     staffID,
		PeriodStart: "2025-03-01",
		PeriodEnd:   "2025-03-31",
		SalesAmount: decimal.NewFromInt(1000),
		Deductions:  decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	assertDecimal(t, "160", resp.RegularHours)
	assertDecimal(t, "10", resp.OvertimeHours)
	assertDecimal(t, "3000", resp.BasePay)
	assertDecimal(t, "300", resp.OvertimePay)
	assertDecimal(t, "50", resp.Commission)
	assertDecimal(t, "100", resp.Bonus)
	assertDecimal(t, "3450", resp.GrossPay)
	assertDecimal(t, "3400", resp.NetPay)
}

func TestSalaryService_CalculatePayroll_NoActiveSalary(t *testing.T) {
	f := newFixture(attendance.Summary{})

	_, err := f.svc.CalculatePayroll(testContext(), salary.CalculatePayrollRequest{
		StaffID:     uuid.NewString(),
		PeriodStart: "2025-03-01",
		PeriodEnd:   "2025-03-31",
	})
	assert.ErrorIs(t, err, salary.ErrNoActiveSalary)
}

func TestSalaryService_PaymentLifecycle(t *testing.T) {
	f := newFixture(attendance.Summary{TotalHours: 40})
	ctx := testContext()
	staffID := uuid.NewString()

	_, err := f.svc.CreateSalary(ctx, salary.CreateSalaryRequest{
		StaffID:       staffID,
		HourlyRate:    decimal.NewFromInt(15),
		PayFrequency:  "weekly",
		EffectiveDate: "2025-01-01",
	})
	require.NoError(t, err)

	req := salary.CreatePaymentRequest{CalculatePayrollRequest: salary.CalculatePayrollRequest{
		StaffID:     staffID,
		PeriodStart: "2025-03-03",
		PeriodEnd:   "2025-03-09",
	}}
	payment, err := f.svc.CreatePayment(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "pending", payment.Status)
	assertDecimal(t, "600", payment.NetPay)

	_, err = f.svc.CreatePayment(ctx, req)
	assert.ErrorIs(t, err, salary.ErrPaymentAlreadyExists)

	marked, err := f.svc.MarkPaid(ctx, salary.MarkPaidRequest{PaymentIDs: []string{payment.ID, uuid.NewString()}})
	require.NoError(t, err)
	assert.Equal(t, 2, marked.Requested)
	assert.Equal(t, int64(1), marked.Updated)

	assert.ErrorIs(t, f.svc.DeletePayment(ctx, payment.ID), salary.ErrPaymentAlreadyPaid)
}
