package validator

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidUUID accepts any RFC 4122 UUID in its canonical 36 character form.
func IsValidUUID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// Numeric validation
var numericRegex = regexp.MustCompile(`^[0-9]+$`)

func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse(DateLayout, dateStr)
	return date, err == nil
}

// IsValidPhoneNumber accepts international numbers: optional leading +, 7-15 digits.
func IsValidPhoneNumber(phone string) bool {
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.ReplaceAll(phone, "-", "")
	phone = strings.TrimPrefix(phone, "+")

	if len(phone) < 7 || len(phone) > 15 {
		return false
	}
	return IsNumeric(phone)
}

var pinRegex = regexp.MustCompile(`^[0-9]{4,6}$`)

// IsValidPIN reports whether pin is a 4 to 6 digit kiosk PIN.
func IsValidPIN(pin string) bool {
	return pinRegex.MatchString(pin)
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

type Date time.Time

// ParseDate parses a date string in "YYYY-MM-DD" format and returns a Date type.
func ParseDate(dateStr string) (Date, error) {
	t, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return Date{}, err
	}
	return Date(t), nil
}

// Before reports whether the date d is before u.
func (d Date) Before(u Date) bool {
	return time.Time(d).Before(time.Time(u))
}

// Itoa converts an integer to a string.
func Itoa(i int) string {
	return strconv.Itoa(i)
}

// IsValidDateTime checks if a string is a valid ISO8601 timestamp.
// Accepts formats like: "2024-01-15T10:30:00Z" or "2024-01-15T10:30:00+07:00"
func IsValidDateTime(dateTimeStr string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, dateTimeStr)
	if err == nil {
		return t, true
	}

	t, err = time.Parse(time.RFC3339Nano, dateTimeStr)
	if err == nil {
		return t, true
	}

	return time.Time{}, false
}

// ValidateDateRange checks a pair of YYYY-MM-DD fields. Both must parse, end may not
// precede start, and when maxDays > 0 the inclusive span may not exceed it.
func ValidateDateRange(startField, start, endField, end string, maxDays int) (time.Time, time.Time, ValidationErrors) {
	var errs ValidationErrors

	startDate, okStart := IsValidDate(start)
	if IsEmpty(start) {
		errs = append(errs, ValidationError{Field: startField, Message: startField + " is required"})
	} else if !okStart {
		errs = append(errs, ValidationError{Field: startField, Message: "must be in YYYY-MM-DD format"})
	}

	endDate, okEnd := IsValidDate(end)
	if IsEmpty(end) {
		errs = append(errs, ValidationError{Field: endField, Message: endField + " is required"})
	} else if !okEnd {
		errs = append(errs, ValidationError{Field: endField, Message: "must be in YYYY-MM-DD format"})
	}

	if okStart && okEnd {
		if endDate.Before(startDate) {
			errs = append(errs, ValidationError{Field: endField, Message: "must not be before " + startField})
		} else if maxDays > 0 && int(endDate.Sub(startDate).Hours()/24)+1 > maxDays {
			errs = append(errs, ValidationError{Field: endField, Message: "range must not exceed " + Itoa(maxDays) + " days"})
		}
	}

	return startDate, endDate, errs
}
