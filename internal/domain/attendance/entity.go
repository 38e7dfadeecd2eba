package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent        Status = "present"
	StatusLate           Status = "late"
	StatusAbsent         Status = "absent"
	StatusEarlyDeparture Status = "early_departure"
	StatusOnLeave        Status = "on_leave"
)

var Statuses = []string{
	string(StatusPresent),
	string(StatusLate),
	string(StatusAbsent),
	string(StatusEarlyDeparture),
	string(StatusOnLeave),
}

type ClockInMethod string

const (
	ClockInMethodWeb    ClockInMethod = "web"
	ClockInMethodPIN    ClockInMethod = "pin"
	ClockInMethodManual ClockInMethod = "manual"
)

type StaffAttendance struct {
	ID                    string
	BusinessID            string
	StaffID               string
	ShiftID               *string
	AttendanceDate        time.Time
	ClockIn               *time.Time
	ClockOut              *time.Time
	Status                Status
	HoursWorked           float64
	OvertimeHours         float64
	LateMinutes           int
	EarlyDepartureMinutes int
	ClockInMethod         ClockInMethod
	Notes                 *string
	CreatedAt             time.Time
	UpdatedAt             time.Time

	// Joined
	StaffName string
	StaffRole string
}

// Summary aggregates attendance for one staff member over a date range.
type Summary struct {
	StaffID            string  `json:"staff_id"`
	DaysPresent        int     `json:"days_present"`
	DaysLate           int     `json:"days_late"`
	DaysAbsent         int     `json:"days_absent"`
	DaysEarlyDeparture int     `json:"days_early_departure"`
	DaysOnLeave        int     `json:"days_on_leave"`
	TotalHours         float64 `json:"total_hours"`
	OvertimeHours      float64 `json:"overtime_hours"`
	TotalLateMinutes   int     `json:"total_late_minutes"`
}

// DaysAttended counts days the staff member actually showed up.
func (s Summary) DaysAttended() int {
	return s.DaysPresent + s.DaysLate + s.DaysEarlyDeparture
}

// DayCounts is a business-wide snapshot for one date.
type DayCounts struct {
	Present        int
	Late           int
	Absent         int
	EarlyDeparture int
	OnLeave        int
	ClockedIn      int
}
