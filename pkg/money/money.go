package money

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for calendar dates. Dates carry no time zone
// meaning; they are normalized to midnight UTC internally.
const DateLayout = "2006-01-02"

var hundred = decimal.NewFromInt(100)

// Truncate strips the time-of-day and location from t, leaving a pure
// calendar date.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysBetween returns the whole-day difference between two calendar dates,
// ignoring time-of-day. Negative when end precedes start.
func DaysBetween(start, end time.Time) int {
	return int(Truncate(end).Sub(Truncate(start)).Hours() / 24)
}

// MonthsBetween returns the number of completed calendar months between two
// dates. A partial month counts as zero: the month completes when the end
// date reaches the start's day-of-month, clamped to the end month's last day
// so a Jan 31 anchor completes its first month on Feb 28/29.
// Negative when end precedes start.
func MonthsBetween(start, end time.Time) int {
	start, end = Truncate(start), Truncate(end)
	if end.Before(start) {
		return -MonthsBetween(end, start)
	}

	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())

	anniversary := start.Day()
	if last := daysInMonth(end.Year(), end.Month()); anniversary > last {
		anniversary = last
	}
	if end.Day() < anniversary {
		months--
	}

	return months
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// SimpleInterest computes principal × (ratePercent/100) × periods, rounded to
// currency precision.
func SimpleInterest(principal, ratePercent decimal.Decimal, periods int) decimal.Decimal {
	return principal.
		Mul(ratePercent.Div(hundred)).
		Mul(decimal.NewFromInt(int64(periods))).
		Round(2)
}
