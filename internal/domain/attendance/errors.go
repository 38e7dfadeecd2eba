package attendance

import "errors"

// Attendance domain errors
var (
	ErrAlreadyClockedIn  = errors.New("already clocked in today")
	ErrNotClockedIn      = errors.New("no open attendance record to clock out of")
	ErrAlreadyClockedOut = errors.New("already clocked out")

	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrAttendanceExists   = errors.New("attendance already recorded for this staff member and date")
	ErrUnauthorized       = errors.New("unauthorized to access this attendance record")
	ErrStaffRequired      = errors.New("token does not identify a staff member")
)
