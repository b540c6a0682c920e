package schedule

import (
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/validator"
)

// UpsertWorkScheduleRequest replaces the template of one weekday. Times use "15:04".
type UpsertWorkScheduleRequest struct {
	Weekday             int     `json:"weekday"`
	MorningStart        *string `json:"morning_start"`
	MorningEnd          *string `json:"morning_end"`
	NoonStart           *string `json:"noon_start"`
	NoonEnd             *string `json:"noon_end"`
	AfternoonStart      *string `json:"afternoon_start"`
	AfternoonEnd        *string `json:"afternoon_end"`
	IsMorningRequired   bool    `json:"is_morning_required"`
	IsAfternoonRequired bool    `json:"is_afternoon_required"`
	AllowedLateMinutes  int     `json:"allowed_late_minutes"`
}

func (r *UpsertWorkScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Weekday < 0 || r.Weekday > 6 {
		errs = append(errs, validator.ValidationError{
			Field:   "weekday",
			Message: ErrInvalidWeekday.Error(),
		})
	}
	if r.AllowedLateMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "allowed_late_minutes",
			Message: "allowed_late_minutes must not be negative",
		})
	}

	pairs := []struct {
		field      string
		start, end *string
	}{
		{"morning", r.MorningStart, r.MorningEnd},
		{"noon", r.NoonStart, r.NoonEnd},
		{"afternoon", r.AfternoonStart, r.AfternoonEnd},
	}
	for _, p := range pairs {
		if (p.start == nil) != (p.end == nil) {
			errs = append(errs, validator.ValidationError{
				Field:   p.field,
				Message: p.field + " start and end must be provided together",
			})
			continue
		}
		if p.start == nil {
			continue
		}
		start, okStart := validator.IsValidClock(*p.start)
		end, okEnd := validator.IsValidClock(*p.end)
		if !okStart || !okEnd {
			errs = append(errs, validator.ValidationError{
				Field:   p.field,
				Message: "invalid time format, use HH:MM",
			})
			continue
		}
		if !end.After(start) {
			errs = append(errs, validator.ValidationError{
				Field:   p.field,
				Message: ErrInvalidShiftWindow.Error(),
			})
		}
	}

	if r.IsMorningRequired && r.MorningStart == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "is_morning_required",
			Message: "a required morning shift needs start and end times",
		})
	}
	if r.IsAfternoonRequired && r.AfternoonStart == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "is_afternoon_required",
			Message: "a required afternoon shift needs start and end times",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToEntity converts a validated request.
func (r *UpsertWorkScheduleRequest) ToEntity() WorkSchedule {
	parse := func(s *string) *time.Time {
		if s == nil {
			return nil
		}
		t, ok := validator.IsValidClock(*s)
		if !ok {
			return nil
		}
		return &t
	}
	return WorkSchedule{
		Weekday:             time.Weekday(r.Weekday),
		MorningStart:        parse(r.MorningStart),
		MorningEnd:          parse(r.MorningEnd),
		NoonStart:           parse(r.NoonStart),
		NoonEnd:             parse(r.NoonEnd),
		AfternoonStart:      parse(r.AfternoonStart),
		AfternoonEnd:        parse(r.AfternoonEnd),
		IsMorningRequired:   r.IsMorningRequired,
		IsAfternoonRequired: r.IsAfternoonRequired,
		AllowedLateMinutes:  r.AllowedLateMinutes,
		IsActive:            true,
	}
}

type WorkScheduleResponse struct {
	ID                  string  `json:"id"`
	Weekday             int     `json:"weekday"`
	MorningStart        *string `json:"morning_start"`
	MorningEnd          *string `json:"morning_end"`
	AfternoonStart      *string `json:"afternoon_start"`
	AfternoonEnd        *string `json:"afternoon_end"`
	IsMorningRequired   bool    `json:"is_morning_required"`
	IsAfternoonRequired bool    `json:"is_afternoon_required"`
	AllowedLateMinutes  int     `json:"allowed_late_minutes"`
	MaxWorkingDays      string  `json:"max_working_days"`
}

func ToResponse(w WorkSchedule) WorkScheduleResponse {
	format := func(t *time.Time) *string {
		if t == nil {
			return nil
		}
		s := t.Format("15:04")
		return &s
	}
	return WorkScheduleResponse{
		ID:                  w.ID,
		Weekday:             int(w.Weekday),
		MorningStart:        format(w.MorningStart),
		MorningEnd:          format(w.MorningEnd),
		AfternoonStart:      format(w.AfternoonStart),
		AfternoonEnd:        format(w.AfternoonEnd),
		IsMorningRequired:   w.IsMorningRequired,
		IsAfternoonRequired: w.IsAfternoonRequired,
		AllowedLateMinutes:  w.AllowedLateMinutes,
		MaxWorkingDays:      w.MaxWorkingDays().StringFixed(2),
	}
}
