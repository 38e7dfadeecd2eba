package report

import (
	"strings"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/activity"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/performance"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/staff"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// MaxRangeDays bounds every report period.
const MaxRangeDays = 366

type Type string

const (
	TypeAttendance  Type = "attendance"
	TypePayroll     Type = "payroll"
	TypePerformance Type = "performance"
	TypeActivity    Type = "activity"
	TypeOverview    Type = "overview"
)

var Types = []string{
	string(TypeAttendance),
	string(TypePayroll),
	string(TypePerformance),
	string(TypeActivity),
	string(TypeOverview),
}

// ========================================
// REQUEST
// ========================================

type ReportRequest struct {
	StartDate string
	EndDate   string
	StaffID   *string
	Role      *string

	start time.Time
	end   time.Time
}

func (r *ReportRequest) Validate() error {
	var errs validator.ValidationErrors

	start, end, rangeErrs := validator.ValidateDateRange("start_date", r.StartDate, "end_date", r.EndDate, MaxRangeDays)
	errs = append(errs, rangeErrs...)
	if r.StaffID != nil && !validator.IsValidUUID(*r.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "must be a valid UUID"})
	}
	if r.Role != nil && !validator.IsInSlice(*r.Role, staff.Roles) {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "role must be one of: " + strings.Join(staff.Roles, ", ")})
	}

	if len(errs) > 0 {
		return errs
	}
	r.start, r.end = start, end
	return nil
}

// Range returns the parsed inclusive dates; valid only after Validate succeeds.
func (r *ReportRequest) Range() (time.Time, time.Time) {
	return r.start, r.end
}

type ExportRequest struct {
	ReportRequest
	Type   string
	Format string
}

func (r *ExportRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := r.ReportRequest.Validate(); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, ve...)
		}
	}
	if !validator.IsInSlice(r.Type, Types) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "type must be one of: " + strings.Join(Types, ", ")})
	}
	if r.Format == "" {
		r.Format = FormatXLSX
	}
	if r.Format != FormatXLSX {
		errs = append(errs, validator.ValidationError{Field: "format", Message: "format must be xlsx"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

const FormatXLSX = "xlsx"

// Export is a rendered report file.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ========================================
// ATTENDANCE REPORT
// ========================================

type AttendanceReport struct {
	StartDate   string                  `json:"start_date"`
	EndDate     string                  `json:"end_date"`
	GeneratedAt string                  `json:"generated_at"`
	Summary     AttendanceReportSummary `json:"summary"`
	Staff       []AttendanceReportRow   `json:"staff"`
}

type AttendanceReportRow struct {
	StaffID            string  `json:"staff_id"`
	StaffName          string  `json:"staff_name"`
	Role               string  `json:"role"`
	ScheduledShifts    int     `json:"scheduled_shifts"`
	DaysPresent        int     `json:"days_present"`
	DaysLate           int     `json:"days_late"`
	DaysAbsent         int     `json:"days_absent"`
	DaysEarlyDeparture int     `json:"days_early_departure"`
	DaysOnLeave        int     `json:"days_on_leave"`
	TotalHours         float64 `json:"total_hours"`
	OvertimeHours      float64 `json:"overtime_hours"`
	TotalLateMinutes   int     `json:"total_late_minutes"`
	AttendanceRate     float64 `json:"attendance_rate"`
	PunctualityScore   float64 `json:"punctuality_score"`
}

type AttendanceReportSummary struct {
	TotalStaff              int     `json:"total_staff"`
	AverageAttendanceRate   float64 `json:"average_attendance_rate"`
	AveragePunctualityScore float64 `json:"average_punctuality_score"`
	TotalHours              float64 `json:"total_hours"`
	TotalOvertimeHours      float64 `json:"total_overtime_hours"`
}

// ========================================
// PAYROLL REPORT
// ========================================

type PayrollReport struct {
	StartDate   string               `json:"start_date"`
	EndDate     string               `json:"end_date"`
	GeneratedAt string               `json:"generated_at"`
	Summary     PayrollReportSummary `json:"summary"`
	Staff       []PayrollReportRow   `json:"staff"`
}

type PayrollReportRow struct {
	StaffID       string          `json:"staff_id"`
	StaffName     string          `json:"staff_name"`
	Role          string          `json:"role"`
	Currency      string          `json:"currency"`
	BasePay       decimal.Decimal `json:"base_pay"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	OvertimePay   decimal.Decimal `json:"overtime_pay"`
	Commission    decimal.Decimal `json:"commission"`
	Bonus         decimal.Decimal `json:"bonus"`
	Deductions    decimal.Decimal `json:"deductions"`
	GrossPay      decimal.Decimal `json:"gross_pay"`
	NetPay        decimal.Decimal `json:"net_pay"`
	// PaymentStatus is pending or paid for recorded payments and calculated otherwise.
	PaymentStatus string          `json:"payment_status"`
}

const PaymentStatusCalculated = "calculated"

type PayrollReportSummary struct {
	StaffCount          int             `json:"staff_count"`
	TotalGross          decimal.Decimal `json:"total_gross"`
	TotalNet            decimal.Decimal `json:"total_net"`
	TotalOvertimeCost   decimal.Decimal `json:"total_overtime_cost"`
	TotalCommissionCost decimal.Decimal `json:"total_commission_cost"`
	TotalBonus          decimal.Decimal `json:"total_bonus"`
}

// ========================================
// PERFORMANCE REPORT
// ========================================

type PerformanceReport struct {
	StartDate   string                   `json:"start_date"`
	EndDate     string                   `json:"end_date"`
	GeneratedAt string                   `json:"generated_at"`
	Summary     PerformanceReportSummary `json:"summary"`
	Staff       []PerformanceReportRow   `json:"staff"`
}

type PerformanceReportRow struct {
	StaffID       string            `json:"staff_id"`
	StaffName     string            `json:"staff_name"`
	Role          string            `json:"role"`
	ReviewCount   int               `json:"review_count"`
	AverageRating float64           `json:"average_rating"`
	LatestRating  float64           `json:"latest_rating"`
	Trend         performance.Trend `json:"trend"`
}

type PerformanceReportSummary struct {
	ReviewedStaff    int                    `json:"reviewed_staff"`
	AverageRating    float64                `json:"average_rating"`
	Improving        int                    `json:"improving"`
	Declining        int                    `json:"declining"`
	Stable           int                    `json:"stable"`
	TopPerformers    []PerformanceReportRow `json:"top_performers"`
	NeedsImprovement []PerformanceReportRow `json:"needs_improvement"`
}

const (
	MaxTopPerformers       = 5
	NeedsImprovementRating = 3.0
)

// ========================================
// ACTIVITY REPORT
// ========================================

type ActivityReport struct {
	StartDate   string                `json:"start_date"`
	EndDate     string                `json:"end_date"`
	GeneratedAt string                `json:"generated_at"`
	Summary     ActivityReportSummary `json:"summary"`
	Staff       []ActivityReportRow   `json:"staff"`
}

type ActivityReportRow struct {
	StaffID           string  `json:"staff_id"`
	StaffName         string  `json:"staff_name"`
	Sessions          int     `json:"sessions"`
	ActiveMinutes     float64 `json:"active_minutes"`
	IdleMinutes       float64 `json:"idle_minutes"`
	PagesVisited      int     `json:"pages_visited"`
	ActionsPerformed  int     `json:"actions_performed"`
	TasksCompleted    int     `json:"tasks_completed"`
	TasksFailed       int     `json:"tasks_failed"`
	ProductivityScore float64 `json:"productivity_score"`
}

type ActivityReportSummary struct {
	TotalSessions       int     `json:"total_sessions"`
	AverageProductivity float64 `json:"average_productivity"`
	TotalActiveHours    float64 `json:"total_active_hours"`
}

// ========================================
// OVERVIEW REPORT
// ========================================

type OverviewReport struct {
	StartDate    string         `json:"start_date"`
	EndDate      string         `json:"end_date"`
	GeneratedAt  string         `json:"generated_at"`
	TotalStaff   int            `json:"total_staff"`
	ByRole       map[string]int `json:"by_role"`
	ByStatus     map[string]int `json:"by_status"`
	NewHires     int            `json:"new_hires"`
	Terminations int            `json:"terminations"`
}

// ========================================
// STAFF COMPREHENSIVE REPORT
// ========================================

type StaffComprehensiveReport struct {
	StartDate   string              `json:"start_date"`
	EndDate     string              `json:"end_date"`
	GeneratedAt string              `json:"generated_at"`
	Profile     StaffProfile        `json:"profile"`
	Attendance  AttendanceReportRow `json:"attendance"`
	Payroll     PayrollReportRow    `json:"payroll"`
	Performance performance.Summary `json:"performance"`
	Activity    ActivityReportRow   `json:"activity"`
}

type StaffProfile struct {
	StaffID        string  `json:"staff_id"`
	FullName       string  `json:"full_name"`
	Email          *string `json:"email,omitempty"`
	Role           string  `json:"role"`
	Department     *string `json:"department,omitempty"`
	EmploymentType string  `json:"employment_type"`
	Status         string  `json:"status"`
	HireDate       string  `json:"hire_date"`
}

// ========================================
// UPSTREAM ROWS
// ========================================

// Scope narrows the aggregate queries; dates are inclusive.
type Scope struct {
	BusinessID string
	Start      time.Time
	End        time.Time
	StaffID    *string
	Role       *string
}

type StaffRef struct {
	StaffID   string
	StaffName string
	Role      string
}

type AttendanceRow struct {
	StaffRef
	ScheduledShifts    int
	DaysPresent        int
	DaysLate           int
	DaysAbsent         int
	DaysEarlyDeparture int
	DaysOnLeave        int
	TotalHours         float64
	OvertimeHours      float64
	TotalLateMinutes   int
}

type ReviewRow struct {
	StaffRef
	Rating          float64
	CategoryRatings map[string]float64
	ReviewDate      time.Time
}

type ActivityRow struct {
	Role string
	activity.Totals
}
