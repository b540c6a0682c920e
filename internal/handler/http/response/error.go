package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/proposal"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var execErr *proposal.ExecutionError
	if errors.As(err, &execErr) {
		UnprocessableEntity(w, "PROPOSAL_NOT_EXECUTABLE", execErr.Error())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, jwt.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, jwt.ErrRoleNotPermitted):
		Forbidden(w, err.Error())

	// Timesheet domain errors
	case errors.Is(err, timesheet.ErrEntryNotFound):
		NotFound(w, "Timesheet entry not found")
	case errors.Is(err, timesheet.ErrMonthlyTimesheetNotFound):
		NotFound(w, "Monthly timesheet not found")
	case errors.Is(err, timesheet.ErrInvalidDateRange),
		errors.Is(err, timesheet.ErrDateRangeTooLong),
		errors.Is(err, timesheet.ErrUnknownEventSource),
		errors.Is(err, timesheet.ErrInvalidMonthKey):
		BadRequest(w, err.Error(), nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Proposal domain errors
	case errors.Is(err, proposal.ErrProposalNotFound):
		NotFound(w, "Proposal not found")
	case errors.Is(err, proposal.ErrProposalNotApproved):
		Conflict(w, "Proposal is not approved")
	case errors.Is(err, proposal.ErrUnknownProposalType):
		UnprocessableEntity(w, "UNKNOWN_PROPOSAL_TYPE", err.Error())

	// Schedule domain errors
	case errors.Is(err, schedule.ErrInvalidWeekday),
		errors.Is(err, schedule.ErrInvalidShiftWindow):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
