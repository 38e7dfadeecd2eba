package salary

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollInput carries the figures a payroll calculation needs besides the salary row.
type PayrollInput struct {
	PeriodStart   time.Time
	PeriodEnd     time.Time
	RegularHours  decimal.Decimal
	OvertimeHours decimal.Decimal
	SalesAmount   decimal.Decimal
	Deductions    decimal.Decimal
}

var (
	hundred = decimal.NewFromInt(100)
	seven   = decimal.NewFromInt(7)
)

// Calculate computes the payroll breakdown for one staff member over an inclusive period.
func Calculate(s StaffSalary, in PayrollInput) PayrollBreakdown {
	days := decimal.NewFromInt(int64(in.PeriodEnd.Sub(in.PeriodStart).Hours()/24) + 1)

	var base decimal.Decimal
	switch {
	case s.BaseSalary.IsZero():
		base = in.RegularHours.Mul(s.HourlyRate)
	case s.PayFrequency == PayFrequencyWeekly:
		base = s.BaseSalary.Mul(days).Div(seven)
	case s.PayFrequency == PayFrequencyBiweekly:
		base = s.BaseSalary.Mul(days).Div(seven.Mul(decimal.NewFromInt(2)))
	default:
		monthDays := decimal.NewFromInt(int64(daysInMonth(in.PeriodStart)))
		if days.Equal(monthDays) {
			base = s.BaseSalary
		} else {
			base = s.BaseSalary.Mul(days).Div(monthDays)
		}
	}

	multiplier := s.OvertimeMultiplier
	if multiplier.IsZero() {
		multiplier = DefaultOvertimeMultiplier
	}

	basePay := base.Round(2)
	overtimePay := in.OvertimeHours.Mul(s.HourlyRate).Mul(multiplier).Round(2)
	commission := in.SalesAmount.Mul(s.CommissionRate).Div(hundred).Round(2)
	bonus := s.BonusAmount.Round(2)
	deductions := in.Deductions.Round(2)

	gross := basePay.Add(overtimePay).Add(commission).Add(bonus)
	net := gross.Sub(deductions)
	if net.IsNegative() {
		net = decimal.Zero
	}

	return PayrollBreakdown{
		StaffID:       s.StaffID,
		SalaryID:      s.ID,
		Currency:      s.Currency,
		PeriodStart:   in.PeriodStart,
		PeriodEnd:     in.PeriodEnd,
		PayFrequency:  s.PayFrequency,
		RegularHours:  in.RegularHours.Round(2),
		OvertimeHours: in.OvertimeHours.Round(2),
		BasePay:       basePay,
		OvertimePay:   overtimePay,
		SalesAmount:   in.SalesAmount.Round(2),
		Commission:    commission,
		Bonus:         bonus,
		Deductions:    deductions,
		GrossPay:      gross,
		NetPay:        net,
	}
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
