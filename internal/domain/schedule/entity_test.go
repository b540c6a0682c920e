package schedule

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/interval"
	"github.com/stretchr/testify/assert"
)

func clock(h, m int) *time.Time {
	c := interval.Clock(h, m)
	return &c
}

func TestHalfDay_IsExact(t *testing.T) {
	assert.Equal(t, "0.5", HalfDay().String())
	assert.Equal(t, int32(-1), HalfDay().Exponent())
}

func TestMaxWorkingDays(t *testing.T) {
	full := WorkSchedule{
		MorningStart: clock(8, 0), MorningEnd: clock(12, 0),
		AfternoonStart: clock(13, 0), AfternoonEnd: clock(17, 0),
		IsMorningRequired: true, IsAfternoonRequired: true,
	}
	morningOnly := full
	morningOnly.IsAfternoonRequired = false
	missingTimes := WorkSchedule{IsMorningRequired: true}

	assert.Equal(t, "1.00", full.MaxWorkingDays().StringFixed(2))
	assert.Equal(t, "0.50", morningOnly.MaxWorkingDays().StringFixed(2))
	assert.True(t, missingTimes.MaxWorkingDays().IsZero())
}
