package response

import (
	"errors"
	"net/http"

	"github.com/presenzo/presence-backend-go/internal/domain/attendance"
	"github.com/presenzo/presence-backend-go/internal/domain/calendar"
	"github.com/presenzo/presence-backend-go/internal/domain/employee"
	"github.com/presenzo/presence-backend-go/internal/domain/permission"
	"github.com/presenzo/presence-backend-go/internal/domain/settings"
)

// HandleError maps domain errors to HTTP responses. Internal detail stays
// out of the body; callers always see a single structured message.
func HandleError(w http.ResponseWriter, err error) {
	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "You have already checked in today")
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "You have already checked out today")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		Conflict(w, "You have not checked in yet")
	case errors.Is(err, attendance.ErrDuplicateRecord):
		Conflict(w, "Attendance record already exists for this date")
	case errors.Is(err, attendance.ErrOutsideAllowedRadius):
		Forbidden(w, "You are outside the allowed office radius")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Calendar domain errors
	case errors.Is(err, calendar.ErrInvalidMonth):
		BadRequest(w, "Month is out of range", nil)

	// Settings domain errors
	case errors.Is(err, settings.ErrSettingsNotFound):
		NotFound(w, "Attendance settings not found")
	case errors.Is(err, settings.ErrInvalidSettings):
		BadRequest(w, err.Error(), nil)

	// Permission domain errors
	case errors.Is(err, permission.ErrScopeDenied):
		Forbidden(w, "Insufficient permission for this operation")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
