package money

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected int
	}{
		{"same day", date(2024, 1, 15), date(2024, 1, 15), 0},
		{"ten days", date(2024, 1, 5), date(2024, 1, 15), 10},
		{"across month boundary", date(2024, 1, 25), date(2024, 2, 5), 11},
		{"leap february", date(2024, 2, 1), date(2024, 3, 1), 29},
		{"end before start", date(2024, 1, 15), date(2024, 1, 10), -5},
		{"time of day ignored", time.Date(2024, 1, 5, 23, 59, 0, 0, time.UTC), time.Date(2024, 1, 6, 0, 1, 0, 0, time.UTC), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysBetween(tt.start, tt.end))
		})
	}
}

func TestMonthsBetween(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected int
	}{
		{"same day", date(2024, 1, 15), date(2024, 1, 15), 0},
		{"partial month counts zero", date(2024, 1, 15), date(2024, 2, 14), 0},
		{"exactly one month", date(2024, 1, 15), date(2024, 2, 15), 1},
		{"two months plus partial days", date(2024, 1, 15), date(2024, 3, 30), 2},
		{"jan 31 anchor completes on feb 29", date(2024, 1, 31), date(2024, 2, 29), 1},
		{"jan 31 anchor incomplete on feb 28 of leap year", date(2024, 1, 31), date(2024, 2, 28), 0},
		{"year boundary", date(2023, 11, 10), date(2024, 2, 10), 3},
		{"end before start", date(2024, 3, 15), date(2024, 1, 15), -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MonthsBetween(tt.start, tt.end))
		})
	}
}

func TestSimpleInterest(t *testing.T) {
	principal := decimal.NewFromInt(10000)

	// 0.1% per day over 10 days
	daily := SimpleInterest(principal, decimal.NewFromFloat(0.1), 10)
	assert.True(t, daily.Equal(decimal.NewFromInt(100)), "got %s", daily)

	// 2% per month over 2 months
	monthly := SimpleInterest(principal, decimal.NewFromInt(2), 2)
	assert.True(t, monthly.Equal(decimal.NewFromInt(400)), "got %s", monthly)

	// zero periods accrue nothing
	assert.True(t, SimpleInterest(principal, decimal.NewFromInt(2), 0).IsZero())
}
