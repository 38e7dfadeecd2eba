package salary

import "errors"

var (
	ErrSalaryNotFound        = errors.New("salary record not found")
	ErrNoActiveSalary        = errors.New("staff member has no active salary")
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrPaymentAlreadyExists  = errors.New("payment already exists for this staff member and period")
	ErrPaymentAlreadyPaid    = errors.New("payment has already been paid")
	ErrEffectiveDateConflict = errors.New("effective date must be after the current salary's effective date")
)
