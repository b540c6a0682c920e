package schedule

import "errors"

var (
	ErrInvalidShiftWindow = errors.New("shift end must be after shift start")
	ErrInvalidWeekday     = errors.New("weekday must be between 0 (Sunday) and 6 (Saturday)")
)
