package attendance

import (
	"math"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/attendance"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/shift"
)

// Rules are the business-wide attendance thresholds.
type Rules struct {
	Grace         time.Duration
	StandardHours float64
	StaleAfter    time.Duration
	// EarlyClockIn is how long before its start a shift accepts a clock-in.
	EarlyClockIn time.Duration
}

// Departure holds the figures derived at clock-out.
type Departure struct {
	HoursWorked           float64
	OvertimeHours         float64
	EarlyDepartureMinutes int
}

// ClassifyArrival compares a clock-in with the shift start. Arrivals within the grace
// period are present; later ones are late, with minutes counted from the shift start.
// Without a shift every arrival is present.
func ClassifyArrival(clockIn time.Time, sh *shift.StaffShift, grace time.Duration) (attendance.Status, int) {
	if sh == nil || !clockIn.After(sh.ScheduledStart.Add(grace)) {
		return attendance.StatusPresent, 0
	}
	return attendance.StatusLate, int(clockIn.Sub(sh.ScheduledStart).Minutes())
}

// ComputeDeparture derives worked hours, overtime and early departure for a closed record.
func ComputeDeparture(clockIn, clockOut time.Time, sh *shift.StaffShift, standardHours float64) Departure {
	worked := clockOut.Sub(clockIn)
	scheduled := time.Duration(standardHours * float64(time.Hour))
	if sh != nil {
		worked -= time.Duration(sh.BreakMinutes) * time.Minute
		scheduled = sh.Duration()
	}
	if worked < 0 {
		worked = 0
	}

	hours := round2(worked.Hours())
	overtime := round2(worked.Hours() - scheduled.Hours())
	if overtime < 0 {
		overtime = 0
	}

	d := Departure{HoursWorked: hours, OvertimeHours: overtime}
	if sh != nil && clockOut.Before(sh.ScheduledEnd) {
		d.EarlyDepartureMinutes = int(sh.ScheduledEnd.Sub(clockOut).Minutes())
	}
	return d
}

// Recompute refreshes every derived field of a record from its clock times. Records
// without a clock-in (absent, on leave) keep their status and carry zero figures.
func Recompute(a *attendance.StaffAttendance, sh *shift.StaffShift, rules Rules) {
	a.HoursWorked, a.OvertimeHours, a.LateMinutes, a.EarlyDepartureMinutes = 0, 0, 0, 0
	if a.ClockIn == nil {
		return
	}

	a.Status, a.LateMinutes = ClassifyArrival(*a.ClockIn, sh, rules.Grace)
	if a.ClockOut == nil {
		return
	}

	d := ComputeDeparture(*a.ClockIn, *a.ClockOut, sh, rules.StandardHours)
	a.HoursWorked = d.HoursWorked
	a.OvertimeHours = d.OvertimeHours
	a.EarlyDepartureMinutes = d.EarlyDepartureMinutes
	if d.EarlyDepartureMinutes > 0 && a.Status != attendance.StatusLate {
		a.Status = attendance.StatusEarlyDeparture
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
