package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/activity"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/attendance"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/dashboard"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/document"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/performance"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/report"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/salary"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/shift"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/staff"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/jwt"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var bulkConflict *shift.BulkConflictError
	if errors.As(err, &bulkConflict) {
		ConflictWithDetails(w, bulkConflict.Error(), bulkConflict.Details())
		return
	}

	switch {
	// Token errors
	case errors.Is(err, jwt.ErrInvalidToken), errors.Is(err, jwt.ErrMissingClaims):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, attendance.ErrStaffRequired), errors.Is(err, activity.ErrStaffRequired):
		Forbidden(w, err.Error())

	// Staff domain errors
	case errors.Is(err, staff.ErrStaffNotFound):
		NotFound(w, "Staff member not found")
	case errors.Is(err, staff.ErrStaffEmailExists):
		Conflict(w, "Email already registered in this business")
	case errors.Is(err, staff.ErrAlreadyTerminated):
		Conflict(w, err.Error())
	case errors.Is(err, staff.ErrInvalidPermission),
		errors.Is(err, staff.ErrInvalidAvatarFileType),
		errors.Is(err, staff.ErrCannotDeleteSelf):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, staff.ErrPINNotSet), errors.Is(err, staff.ErrInvalidPIN):
		Unauthorized(w, "Invalid staff ID or PIN")
	case errors.Is(err, staff.ErrStaffNotActive):
		Forbidden(w, err.Error())
	case errors.Is(err, staff.ErrUnauthorized):
		Forbidden(w, err.Error())

	// Salary domain errors
	case errors.Is(err, salary.ErrSalaryNotFound):
		NotFound(w, "Salary record not found")
	case errors.Is(err, salary.ErrNoActiveSalary):
		NotFound(w, err.Error())
	case errors.Is(err, salary.ErrPaymentNotFound):
		NotFound(w, "Payment not found")
	case errors.Is(err, salary.ErrPaymentAlreadyExists), errors.Is(err, salary.ErrPaymentAlreadyPaid):
		Conflict(w, err.Error())
	case errors.Is(err, salary.ErrEffectiveDateConflict):
		BadRequest(w, err.Error(), nil)

	// Shift domain errors
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrShiftConflict),
		errors.Is(err, shift.ErrShiftNotEditable),
		errors.Is(err, shift.ErrShiftNotDeletable),
		errors.Is(err, shift.ErrInvalidTransition):
		Conflict(w, err.Error())
	case errors.Is(err, shift.ErrShiftTooLong), errors.Is(err, shift.ErrShiftEndBeforeStart):
		BadRequest(w, err.Error(), nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrNotClockedIn):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrAlreadyClockedIn),
		errors.Is(err, attendance.ErrAlreadyClockedOut),
		errors.Is(err, attendance.ErrAttendanceExists):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrUnauthorized):
		Forbidden(w, err.Error())

	// Performance domain errors
	case errors.Is(err, performance.ErrReviewNotFound):
		NotFound(w, "Performance review not found")
	case errors.Is(err, performance.ErrReviewNotEditable), errors.Is(err, performance.ErrReviewNotSubmitted):
		Conflict(w, err.Error())
	case errors.Is(err, performance.ErrCannotReviewSelf):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, performance.ErrNotReviewedStaff), errors.Is(err, performance.ErrUnauthorized):
		Forbidden(w, err.Error())

	// Activity domain errors
	case errors.Is(err, activity.ErrSessionNotFound):
		NotFound(w, "Activity session not found")
	case errors.Is(err, activity.ErrSessionClosed):
		Conflict(w, err.Error())
	case errors.Is(err, activity.ErrNotSessionOwner):
		Forbidden(w, err.Error())

	// Document domain errors
	case errors.Is(err, document.ErrDocumentNotFound):
		NotFound(w, "Document not found")
	case errors.Is(err, document.ErrFileRequired),
		errors.Is(err, document.ErrUnsupportedFileType),
		errors.Is(err, document.ErrFileTooLarge):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, document.ErrUnauthorized):
		Forbidden(w, err.Error())

	// Report and dashboard errors
	case errors.Is(err, report.ErrUnsupportedExport):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, dashboard.ErrUnknownRole):
		NotFound(w, err.Error())
	case errors.Is(err, dashboard.ErrForbidden):
		Forbidden(w, err.Error())

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
