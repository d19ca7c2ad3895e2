package response

import (
	"errors"
	"net/http"

	"github.com/aventuratime/timeclock-backend-go/internal/domain/employee"
	"github.com/aventuratime/timeclock-backend-go/internal/domain/notification"
	"github.com/aventuratime/timeclock-backend-go/internal/domain/punch"
	"github.com/aventuratime/timeclock-backend-go/internal/domain/schedule"
	"github.com/aventuratime/timeclock-backend-go/internal/domain/summary"
	"github.com/aventuratime/timeclock-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	case errors.Is(err, punch.ErrPunchNotFound):
		NotFound(w, "Punch not found")
	case errors.Is(err, punch.ErrDuplicatePunch):
		Conflict(w, "A punch already exists within one minute of this timestamp")
	case errors.Is(err, punch.ErrUnknownPunchType):
		BadRequest(w, "Punch type must be IN or OUT", nil)

	case errors.Is(err, summary.ErrSummaryNotFound):
		NotFound(w, "Daily summary not found")
	case errors.Is(err, summary.ErrRowLocked):
		Conflict(w, "Day is locked by a manual correction")

	case errors.Is(err, schedule.ErrShiftNotFound):
		NotFound(w, "Work shift not found")
	case errors.Is(err, schedule.ErrNoActiveAssignment):
		NotFound(w, "No active shift assignment for this employee")

	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
