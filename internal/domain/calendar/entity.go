package calendar

import (
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/interval"
)

// DayType classifies a calendar date. Precedence is Compensatory > Holiday > Official.
type DayType string

const (
	DayTypeOfficial     DayType = "official"
	DayTypeHoliday      DayType = "holiday"
	DayTypeCompensatory DayType = "compensatory"
)

// Holiday is a named public holiday covering StartDate..EndDate inclusive.
type Holiday struct {
	ID        string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Contains compares calendar dates only; the time of day is ignored.
func (h Holiday) Contains(date time.Time) bool {
	d := interval.StartOfDay(date)
	start := time.Date(h.StartDate.Year(), h.StartDate.Month(), h.StartDate.Day(), 0, 0, 0, 0, d.Location())
	end := time.Date(h.EndDate.Year(), h.EndDate.Month(), h.EndDate.Day(), 0, 0, 0, 0, d.Location())
	return !d.Before(start) && !d.After(end)
}

// CompensatoryWorkday is a weekend or holiday date that must be worked to offset HolidayID.
type CompensatoryWorkday struct {
	ID        string
	HolidayID string
	Date      time.Time
	Session   schedule.Session
	CreatedAt time.Time
	UpdatedAt time.Time
}
