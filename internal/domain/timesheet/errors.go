package timesheet

import "errors"

var (
	ErrEntryNotFound            = errors.New("timesheet entry not found")
	ErrMonthlyTimesheetNotFound = errors.New("monthly timesheet not found")

	ErrInvalidDateRange   = errors.New("from must not be after to")
	ErrDateRangeTooLong   = errors.New("date range must not exceed 366 days")
	ErrUnknownEventSource = errors.New("unknown recalculation source")
	ErrInvalidMonthKey    = errors.New("month key must use the YYYYMM format")
)
