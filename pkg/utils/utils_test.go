package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPenaltyForDaysLate(t *testing.T) {
	tests := []struct {
		name     string
		daysLate int
		expected decimal.Decimal
	}{
		{name: "not late", daysLate: 0, expected: decimal.Zero},
		{name: "negative days", daysLate: -3, expected: decimal.Zero},
		{name: "first day", daysLate: 1, expected: decimal.NewFromInt(2000)},
		{name: "second day", daysLate: 2, expected: decimal.NewFromInt(2500)},
		{name: "eight days", daysLate: 8, expected: decimal.NewFromInt(5500)}, // 2000 + 7 * 500
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PenaltyForDaysLate(tt.daysLate)
			assert.True(t, result.Equal(tt.expected),
				"Expected %v, but got %v", tt.expected, result)
		})
	}
}

func TestPenaltyForShares(t *testing.T) {
	assert.True(t, PenaltyForShares(1, 3).Equal(decimal.NewFromInt(6000)))
	assert.True(t, PenaltyForShares(2, 1).Equal(decimal.NewFromInt(2500)))
	assert.True(t, PenaltyForShares(5, 0).IsZero())
}

func TestInterestRateForDuration(t *testing.T) {
	tests := []struct {
		months   int
		rate     int64
		accepted bool
	}{
		{months: 3, rate: 5, accepted: true},
		{months: 6, rate: 5, accepted: true},
		{months: 12, rate: 10, accepted: true},
		{months: 4, rate: 0, accepted: false},
		{months: 0, rate: 0, accepted: false},
	}

	for _, tt := range tests {
		rate, ok := InterestRateForDuration(tt.months)
		assert.Equal(t, tt.accepted, ok, "months=%d", tt.months)
		assert.True(t, rate.Equal(decimal.NewFromInt(tt.rate)), "months=%d rate=%v", tt.months, rate)
	}
}

func TestCalculateInterest(t *testing.T) {
	interest := CalculateInterest(decimal.NewFromInt(100000), decimal.NewFromInt(5))
	assert.True(t, interest.Equal(decimal.NewFromInt(5000)))

	interest = CalculateInterest(decimal.RequireFromString("333.33"), decimal.NewFromInt(10))
	assert.Equal(t, "33.33", interest.StringFixed(2))
}

func TestLoanDueDate(t *testing.T) {
	disbursed := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, disbursed.AddDate(0, 0, 90), LoanDueDate(disbursed, 3))
	assert.Equal(t, disbursed.AddDate(0, 0, 360), LoanDueDate(disbursed, 12))
}

func TestDaysBetween(t *testing.T) {
	from := time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysBetween(from, time.Date(2024, 3, 10, 0, 1, 0, 0, time.UTC)))
	assert.Equal(t, 1, DaysBetween(from, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 21, DaysBetween(from, time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, -1, DaysBetween(from, time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)))
}

func TestResolveDeadline(t *testing.T) {
	tests := []struct {
		name     string
		month    time.Time
		day      int
		expected time.Time
	}{
		{
			name:     "regular day",
			month:    time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			day:      10,
			expected: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "day past end of leap february",
			month:    time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			day:      31,
			expected: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "day past end of april",
			month:    time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
			day:      31,
			expected: time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveDeadline(tt.month, tt.day))
		})
	}
}

func TestDateOfAndStartOfMonth(t *testing.T) {
	kigali := time.FixedZone("CAT", 2*60*60)
	instant := time.Date(2024, 6, 30, 23, 30, 0, 0, time.UTC) // already July 1st in Kigali

	date := DateOf(instant, kigali)
	assert.Equal(t, time.July, date.Month())
	assert.Equal(t, 1, date.Day())
	assert.Equal(t, 0, date.Hour())

	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, kigali), StartOfMonth(time.Date(2024, 7, 19, 8, 0, 0, 0, kigali)))
}

func TestQuantize(t *testing.T) {
	assert.Equal(t, "10.13", Quantize(decimal.RequireFromString("10.125")).StringFixed(2))
	assert.Equal(t, "0.00", Quantize(decimal.Zero).StringFixed(2))
}
