package interval

import (
	"time"

	"github.com/shopspring/decimal"
)

// Places is the number of decimal places kept on every hour and day figure.
const Places = 2

var (
	secondsPerHour = decimal.NewFromInt(3600)
	minutesPerHour = decimal.NewFromInt(60)
)

// Quantize rounds to two places, ties away from zero.
func Quantize(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Hours converts a duration into quantized decimal hours.
func Hours(d time.Duration) decimal.Decimal {
	if d <= 0 {
		return decimal.Zero
	}
	seconds := decimal.NewFromInt(int64(d / time.Second))
	return Quantize(seconds.Div(secondsPerHour))
}

// RawHours converts a duration into decimal hours without rounding.
func RawHours(d time.Duration) decimal.Decimal {
	if d <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(d / time.Second)).Div(secondsPerHour)
}

// HoursFromMinutes converts whole minutes into decimal hours without rounding.
func HoursFromMinutes(minutes int) decimal.Decimal {
	if minutes <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(minutes)).Div(minutesPerHour)
}

// Minutes returns the whole minutes in d, truncated toward zero.
func Minutes(d time.Duration) int {
	return int(d / time.Minute)
}

// MustDecimal parses a literal such as "0.125". It panics on malformed input and is meant for constants.
func MustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
