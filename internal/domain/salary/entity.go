package salary

import (
	"time"

	"github.com/shopspring/decimal"
)

type PayFrequency string

const (
	PayFrequencyWeekly   PayFrequency = "weekly"
	PayFrequencyBiweekly PayFrequency = "biweekly"
	PayFrequencyMonthly  PayFrequency = "monthly"
)

var PayFrequencies = []string{
	string(PayFrequencyWeekly),
	string(PayFrequencyBiweekly),
	string(PayFrequencyMonthly),
}

// DefaultOvertimeMultiplier applies when a salary does not set one.
var DefaultOvertimeMultiplier = decimal.NewFromFloat(1.5)

type StaffSalary struct {
	ID                 string
	BusinessID         string
	StaffID            string
	BaseSalary         decimal.Decimal
	HourlyRate         decimal.Decimal
	PayFrequency       PayFrequency
	Currency           string
	CommissionRate     decimal.Decimal
	BonusAmount        decimal.Decimal
	OvertimeMultiplier decimal.Decimal
	EffectiveDate      time.Time
	EndDate            *time.Time
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

type StaffPayment struct {
	ID            string
	BusinessID    string
	StaffID       string
	SalaryID      *string
	PeriodStart   time.Time
	PeriodEnd     time.Time
	Currency      string
	RegularHours  decimal.Decimal
	OvertimeHours decimal.Decimal
	BasePay       decimal.Decimal
	OvertimePay   decimal.Decimal
	SalesAmount   decimal.Decimal
	Commission    decimal.Decimal
	Bonus         decimal.Decimal
	Deductions    decimal.Decimal
	GrossPay      decimal.Decimal
	NetPay        decimal.Decimal
	Status        PaymentStatus
	PaidAt        *time.Time
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Joined
	StaffName string
}

// PayrollBreakdown is the result of a payroll calculation; money is rounded to 2 decimals.
type PayrollBreakdown struct {
	StaffID       string
	SalaryID      string
	Currency      string
	PeriodStart   time.Time
	PeriodEnd     time.Time
	PayFrequency  PayFrequency
	RegularHours  decimal.Decimal
	OvertimeHours decimal.Decimal
	BasePay       decimal.Decimal
	OvertimePay   decimal.Decimal
	SalesAmount   decimal.Decimal
	Commission    decimal.Decimal
	Bonus         decimal.Decimal
	Deductions    decimal.Decimal
	GrossPay      decimal.Decimal
	NetPay        decimal.Decimal
}

// PaymentTotals aggregates payments for dashboards.
type PaymentTotals struct {
	Count           int
	GrossPay        decimal.Decimal
	NetPay          decimal.Decimal
	OvertimePay     decimal.Decimal
	Commission      decimal.Decimal
	Bonus           decimal.Decimal
	PendingCount    int
	PendingNetTotal decimal.Decimal
}
