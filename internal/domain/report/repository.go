package report

import (
	"context"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/salary"
)

// ReportRepository runs the aggregate queries behind the reports. Every method returns
// one row per non-deleted staff member in scope, including members with no data.
type ReportRepository interface {
	AttendanceRows(ctx context.Context, scope Scope) ([]AttendanceRow, error)
	PayrollRows(ctx context.Context, scope Scope) ([]PayrollRow, error)
	// ReviewRows returns non-draft reviews dated within scope, ordered by staff and review date.
	ReviewRows(ctx context.Context, scope Scope) ([]ReviewRow, error)
	ActivityRows(ctx context.Context, scope Scope) ([]ActivityRow, error)
}

// PayrollRow pairs a staff member with what the payroll report can use: the payments
// whose period lies inside the range, else the active salary and attendance hours to
// calculate from.
type PayrollRow struct {
	StaffRef
	Payments      []salary.StaffPayment
	Salary        *salary.StaffSalary
	RegularHours  float64
	OvertimeHours float64
}
