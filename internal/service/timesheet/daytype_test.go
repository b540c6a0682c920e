package timesheet

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayTypeResolver_Resolve(t *testing.T) {
	ctx := context.Background()
	eid := calendar.Holiday{ID: "h-1", Name: "Eid al-Fitr", StartDate: day(2024, time.April, 10), EndDate: day(2024, time.April, 11)}
	cal := &memoryCalendar{
		holidays: []calendar.Holiday{eid},
		compensatory: []calendar.CompensatoryWorkday{
			{ID: "c-1", HolidayID: eid.ID, Date: day(2024, time.April, 11), Session: schedule.SessionMorning},
			{ID: "c-2", HolidayID: eid.ID, Date: day(2024, time.April, 13), Session: schedule.SessionFullDay},
		},
	}
	resolver := NewDayTypeResolver(cal)

	tests := []struct {
		name string
		date time.Time
		want calendar.DayType
	}{
		{"plain day", day(2024, time.April, 9), calendar.DayTypeOfficial},
		{"first holiday day", day(2024, time.April, 10), calendar.DayTypeHoliday},
		{"compensatory overrides holiday", day(2024, time.April, 11), calendar.DayTypeCompensatory},
		{"day after holiday", day(2024, time.April, 12), calendar.DayTypeOfficial},
		{"compensatory saturday", day(2024, time.April, 13), calendar.DayTypeCompensatory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, comp, err := resolver.Resolve(ctx, tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.want == calendar.DayTypeCompensatory {
				require.NotNil(t, comp)
			} else {
				assert.Nil(t, comp)
			}
		})
	}
}

func TestDayTypeResolver_HolidayBoundsIgnoreTimeOfDay(t *testing.T) {
	holiday := calendar.Holiday{
		StartDate: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
	}
	lateEvening := time.Date(2024, time.May, 1, 23, 30, 0, 0, jakarta)

	assert.Equal(t, calendar.DayTypeHoliday, ClassifyDay(lateEvening, nil, []calendar.Holiday{holiday}))
	assert.Equal(t, calendar.DayTypeOfficial, ClassifyDay(day(2024, time.May, 2), nil, []calendar.Holiday{holiday}))
}

func TestDayTypeResolver_PropagatesErrors(t *testing.T) {
	resolver := NewDayTypeResolver(&memoryCalendar{err: errBoom})

	_, _, err := resolver.Resolve(context.Background(), monday)
	assert.ErrorIs(t, err, errBoom)
}
