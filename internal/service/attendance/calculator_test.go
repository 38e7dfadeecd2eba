package attendance

import (
	"testing"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/attendance"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/shift"
	"github.com/stretchr/testify/assert"
)

var shiftStart = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func testShift() *shift.StaffShift {
	return &shift.StaffShift{
		ScheduledStart: shiftStart,
		ScheduledEnd:   shiftStart.Add(8 * time.Hour),
		BreakMinutes:   30,
	}
}

func TestClassifyArrival(t *testing.T) {
	grace := 5 * time.Minute
	tests := []struct {
		name        string
		clockIn     time.Time
		sh          *shift.StaffShift
		wantStatus  attendance.Status
		wantMinutes int
	}{
		{"early", shiftStart.Add(-10 * time.Minute), testShift(), attendance.StatusPresent, 0},
		{"on time", shiftStart, testShift(), attendance.StatusPresent, 0},
		{"inside grace", shiftStart.Add(5 * time.Minute), testShift(), attendance.StatusPresent, 0},
		{"just past grace", shiftStart.Add(5*time.Minute + time.Second), testShift(), attendance.StatusLate, 5},
		{"late", shiftStart.Add(22 * time.Minute), testShift(), attendance.StatusLate, 22},
		{"no shift", shiftStart.Add(3 * time.Hour), nil, attendance.StatusPresent, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, minutes := ClassifyArrival(tt.clockIn, tt.sh, grace)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMinutes, minutes)
		})
	}
}

func TestComputeDeparture(t *testing.T) {
	tests := []struct {
		name      string
		in, out   time.Time
		sh        *shift.StaffShift
		standard  float64
		wantHours float64
		wantOT    float64
		wantEarly int
	}{
		{"full shift", shiftStart, shiftStart.Add(8 * time.Hour), testShift(), 8, 7.5, 0, 0},
		{"overtime", shiftStart, shiftStart.Add(9*time.Hour + 30*time.Minute), testShift(), 8, 9, 1.5, 0},
		{"early", shiftStart, shiftStart.Add(6 * time.Hour), testShift(), 8, 5.5, 0, 120},
		{"no shift uses standard hours", shiftStart, shiftStart.Add(10 * time.Hour), nil, 8, 10, 2, 0},
		{"break longer than stay", shiftStart, shiftStart.Add(10 * time.Minute), testShift(), 8, 0, 0, 470},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ComputeDeparture(tt.in, tt.out, tt.sh, tt.standard)
			assert.InDelta(t, tt.wantHours, d.HoursWorked, 0.001)
			assert.InDelta(t, tt.wantOT, d.OvertimeHours, 0.001)
			assert.Equal(t, tt.wantEarly, d.EarlyDepartureMinutes)
		})
	}
}

func TestRecompute(t *testing.T) {
	rules := Rules{Grace: 5 * time.Minute, StandardHours: 8}

	in := shiftStart.Add(20 * time.Minute)
	out := shiftStart.Add(7 * time.Hour)
	late := attendance.StaffAttendance{ClockIn: &in, ClockOut: &out}
	Recompute(&late, testShift(), rules)
	assert.Equal(t, attendance.StatusLate, late.Status)
	assert.Equal(t, 20, late.LateMinutes)
	assert.Equal(t, 60, late.EarlyDepartureMinutes)

	onTime := shiftStart
	early := attendance.StaffAttendance{ClockIn: &onTime, ClockOut: &out}
	Recompute(&early, testShift(), rules)
	assert.Equal(t, attendance.StatusEarlyDeparture, early.Status)

	absent := attendance.StaffAttendance{Status: attendance.StatusAbsent, HoursWorked: 3}
	Recompute(&absent, testShift(), rules)
	assert.Equal(t, attendance.StatusAbsent, absent.Status)
	assert.Zero(t, absent.HoursWorked)
}
