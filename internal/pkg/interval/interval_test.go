package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, time.March, 4, hour, minute, 0, 0, time.UTC)
}

func TestWindow_Intersect(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Window
		wantOK    bool
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"partial overlap", New(at(8, 0), at(12, 0)), New(at(10, 0), at(14, 0)), true, at(10, 0), at(12, 0)},
		{"contained", New(at(8, 0), at(17, 0)), New(at(13, 0), at(14, 0)), true, at(13, 0), at(14, 0)},
		{"touching", New(at(8, 0), at(12, 0)), New(at(12, 0), at(13, 0)), false, time.Time{}, time.Time{}},
		{"disjoint", New(at(8, 0), at(9, 0)), New(at(10, 0), at(11, 0)), false, time.Time{}, time.Time{}},
		{"empty operand", New(at(9, 0), at(9, 0)), New(at(8, 0), at(10, 0)), false, time.Time{}, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.a.Intersect(tt.b)
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, tt.wantStart.Equal(got.Start))
			assert.True(t, tt.wantEnd.Equal(got.End))
		})
	}
}

func TestWindow_Overlap(t *testing.T) {
	assert.Equal(t, 2*time.Hour, New(at(8, 0), at(12, 0)).Overlap(New(at(10, 0), at(14, 0))))
	assert.Zero(t, New(at(12, 0), at(8, 0)).Duration())
	assert.True(t, New(at(12, 0), at(8, 0)).IsEmpty())
}

func TestHours(t *testing.T) {
	assert.Equal(t, "0.67", Hours(40*time.Minute).StringFixed(2))
	assert.Equal(t, "8.00", Hours(8*time.Hour).StringFixed(2))
	// 10 minutes is 0.1666..., half-up at two places.
	assert.Equal(t, "0.17", Hours(10*time.Minute).StringFixed(2))
	assert.True(t, Hours(-time.Hour).IsZero())
	assert.True(t, HoursFromMinutes(0).IsZero())
	assert.Equal(t, "1.5", HoursFromMinutes(90).String())
}

func TestQuantize_TiesAwayFromZero(t *testing.T) {
	assert.Equal(t, "0.13", Quantize(MustDecimal("0.125")).StringFixed(2))
	assert.Equal(t, "-0.13", Quantize(MustDecimal("-0.125")).StringFixed(2))
}

func TestOnDate(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	date := time.Date(2024, time.March, 4, 0, 0, 0, 0, jakarta)

	got := OnDate(date, Clock(13, 30))

	assert.Equal(t, 13, got.Hour())
	assert.Equal(t, 30, got.Minute())
	assert.Equal(t, 4, got.Day())
	assert.Equal(t, jakarta, got.Location())
}

func TestDaysBetween(t *testing.T) {
	from := time.Date(2024, time.February, 27, 15, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	days := DaysBetween(from, to)

	require.Len(t, days, 4)
	assert.Equal(t, "2024-02-29", days[2].Format("2006-01-02"))
	assert.Empty(t, DaysBetween(to, from))
}

func TestMonthBounds(t *testing.T) {
	first, last := MonthBounds(2024, time.February, time.UTC)
	assert.Equal(t, "2024-02-01", first.Format("2006-01-02"))
	assert.Equal(t, "2024-02-29", last.Format("2006-01-02"))
	assert.True(t, SameDay(last, time.Date(2024, time.February, 29, 23, 59, 0, 0, time.UTC)))
}
