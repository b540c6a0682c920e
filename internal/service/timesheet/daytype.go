package timesheet

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/calendar"
)

// DayTypeResolver classifies dates against the holiday calendar.
type DayTypeResolver struct {
	calendar calendar.Repository
}

func NewDayTypeResolver(calendarRepository calendar.Repository) *DayTypeResolver {
	return &DayTypeResolver{calendar: calendarRepository}
}

// Resolve returns the day type of date and, on compensatory dates, the compensatory workday itself.
func (r *DayTypeResolver) Resolve(ctx context.Context, date time.Time) (calendar.DayType, *calendar.CompensatoryWorkday, error) {
	compensatory, err := r.calendar.GetCompensatoryWorkday(ctx, date)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get compensatory workday: %w", err)
	}
	if compensatory != nil {
		return calendar.DayTypeCompensatory, compensatory, nil
	}

	holidays, err := r.calendar.ListHolidaysCovering(ctx, date)
	if err != nil {
		return "", nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	return ClassifyDay(date, nil, holidays), nil, nil
}

// ClassifyDay applies the precedence Compensatory > Holiday > Official.
func ClassifyDay(date time.Time, compensatory *calendar.CompensatoryWorkday, holidays []calendar.Holiday) calendar.DayType {
	if compensatory != nil {
		return calendar.DayTypeCompensatory
	}
	for _, h := range holidays {
		if h.Contains(date) {
			return calendar.DayTypeHoliday
		}
	}
	return calendar.DayTypeOfficial
}
