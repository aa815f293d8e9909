package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	// FirstDayPenalty is charged for the first day late
	FirstDayPenalty = decimal.NewFromInt(2000)
	// ExtraDayPenalty is added for every day after the first
	ExtraDayPenalty = decimal.NewFromInt(500)
)

// LoanTermDays is the number of days counted per month of loan duration
const LoanTermDays = 30

// Quantize rounds an amount to 2 decimal places
func Quantize(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// InterestRateForDuration returns the flat interest percentage for a loan duration in months.
// The second return value is false when the duration is not offered.
func InterestRateForDuration(months int) (decimal.Decimal, bool) {
	switch months {
	case 3, 6:
		return decimal.NewFromInt(5), true
	case 12:
		return decimal.NewFromInt(10), true
	default:
		return decimal.Zero, false
	}
}

// CalculateInterest calculates the flat interest fee
// Formula: amount * rate / 100
func CalculateInterest(amount, ratePercent decimal.Decimal) decimal.Decimal {
	return Quantize(amount.Mul(ratePercent).Div(decimal.NewFromInt(100)))
}

// PenaltyForDaysLate returns the per-unit penalty: 2000 for the first day, 500 for each further day
func PenaltyForDaysLate(daysLate int) decimal.Decimal {
	if daysLate <= 0 {
		return decimal.Zero
	}
	return FirstDayPenalty.Add(ExtraDayPenalty.Mul(decimal.NewFromInt(int64(daysLate - 1))))
}

// PenaltyForShares scales the per-unit penalty by the number of missing shares
func PenaltyForShares(daysLate, shares int) decimal.Decimal {
	if shares <= 0 {
		return decimal.Zero
	}
	return PenaltyForDaysLate(daysLate).Mul(decimal.NewFromInt(int64(shares)))
}

// LoanDueDate calculates the due date of a disbursed loan
// Each month of duration counts as LoanTermDays days
func LoanDueDate(disbursedAt time.Time, months int) time.Time {
	return disbursedAt.AddDate(0, 0, months*LoanTermDays)
}

// DateOf truncates t to midnight of its calendar date in loc
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// StartOfMonth returns the first day of the month containing t, in t's location
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// DaysBetween counts whole calendar days from one date to another.
// Both values are reduced to their calendar date first, so the clock part is ignored.
func DaysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

// ResolveDeadline returns the deadline date for a month.
// A day past the end of the month rolls forward into the next month (31 in February is March 3rd or 2nd).
func ResolveDeadline(month time.Time, day int) time.Time {
	return time.Date(month.Year(), month.Month(), day, 0, 0, 0, 0, month.Location())
}
