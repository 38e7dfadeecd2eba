package dashboard

import (
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/activity"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/attendance"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/shift"
	"github.com/shopspring/decimal"
)

// DashboardResponse carries exactly one of the role compositions.
type DashboardResponse struct {
	Role        string               `json:"role"`
	GeneratedAt string               `json:"generated_at"`
	Manager     *ManagerDashboard    `json:"manager,omitempty"`
	Station     *StationDashboard    `json:"station,omitempty"`
	Accountant  *AccountantDashboard `json:"accountant,omitempty"`
}

// ========== MANAGER / OWNER ==========

type ManagerDashboard struct {
	Staff           StaffOverview                  `json:"staff"`
	TodayAttendance TodayAttendance                `json:"today_attendance"`
	Payroll         PayrollOverview                `json:"payroll_month_to_date"`
	AverageRating   float64                        `json:"average_rating"`
	OnlineStaff     []activity.OnlineStaffResponse `json:"online_staff"`
	UpcomingShifts  []shift.ShiftResponse          `json:"upcoming_shifts"`
}

type StaffOverview struct {
	Total  int `json:"total"`
	Active int `json:"active"`
	OnDuty int `json:"on_duty"`
}

type TodayAttendance struct {
	Date         string `json:"date"`
	Present      int    `json:"present"`
	Late         int    `json:"late"`
	Absent       int    `json:"absent"`
	NotClockedIn int    `json:"not_clocked_in"`
}

// ========== RECEPTION / KITCHEN / BAR ==========

type StationDashboard struct {
	ShiftsToday       []shift.ShiftResponse           `json:"shifts_today"`
	OnDuty            []shift.ShiftResponse           `json:"on_duty"`
	LateArrivals      []attendance.AttendanceResponse `json:"late_arrivals"`
	MyUpcomingShifts  []shift.ShiftResponse           `json:"my_upcoming_shifts"`
	MyAttendanceToday *attendance.AttendanceResponse  `json:"my_attendance_today"`
}

// ========== ACCOUNTANT ==========

type AccountantDashboard struct {
	Payroll PayrollOverview `json:"payroll"`
}

type PayrollOverview struct {
	PeriodStart    string          `json:"period_start"`
	PeriodEnd      string          `json:"period_end"`
	PaymentCount   int             `json:"payment_count"`
	TotalGross     decimal.Decimal `json:"total_gross"`
	TotalNet       decimal.Decimal `json:"total_net"`
	OvertimeCost   decimal.Decimal `json:"overtime_cost"`
	CommissionCost decimal.Decimal `json:"commission_cost"`
	BonusCost      decimal.Decimal `json:"bonus_cost"`
	PendingCount   int             `json:"pending_count"`
	PendingAmount  decimal.Decimal `json:"pending_amount"`
}
