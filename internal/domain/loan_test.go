package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoanRequest(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name             string
		amount           decimal.Decimal
		duration         int
		expectedOK       bool
		expectedRate     int64
		expectedInterest decimal.Decimal
		expectedTotal    decimal.Decimal
	}{
		{
			name:             "three months at 5%",
			amount:           decimal.NewFromInt(100000),
			duration:         3,
			expectedOK:       true,
			expectedRate:     5,
			expectedInterest: decimal.NewFromInt(5000),
			expectedTotal:    decimal.NewFromInt(105000),
		},
		{
			name:             "six months at 5%",
			amount:           decimal.NewFromInt(50000),
			duration:         6,
			expectedOK:       true,
			expectedRate:     5,
			expectedInterest: decimal.NewFromInt(2500),
			expectedTotal:    decimal.NewFromInt(52500),
		},
		{
			name:             "twelve months at 10%",
			amount:           decimal.NewFromInt(200000),
			duration:         12,
			expectedOK:       true,
			expectedRate:     10,
			expectedInterest: decimal.NewFromInt(20000),
			expectedTotal:    decimal.NewFromInt(220000),
		},
		{
			name:       "unsupported duration",
			amount:     decimal.NewFromInt(100000),
			duration:   9,
			expectedOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan, ok := NewLoanRequest(7, tt.amount, tt.duration, now)
			assert.Equal(t, tt.expectedOK, ok)
			if !tt.expectedOK {
				assert.Nil(t, loan)
				return
			}

			require.NotNil(t, loan)
			assert.Equal(t, LoanStatusRequested, loan.Status)
			assert.True(t, loan.InterestRate.Equal(decimal.NewFromInt(tt.expectedRate)))
			assert.True(t, loan.InterestAmount.Equal(tt.expectedInterest), "interest %v", loan.InterestAmount)
			assert.True(t, loan.TotalAmount.Equal(tt.expectedTotal), "total %v", loan.TotalAmount)
			assert.True(t, loan.RemainingBalance.Equal(loan.TotalAmount))
			assert.Equal(t, now, loan.RequestDate)
		})
	}
}

func TestLoanOverdue(t *testing.T) {
	due := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		status          string
		now             time.Time
		expectedOverdue bool
		expectedDays    int
		expectedPenalty int64
	}{
		{name: "before due date", status: LoanStatusActive, now: due.Add(-time.Hour)},
		{name: "hours after due date", status: LoanStatusActive, now: due.Add(3 * time.Hour), expectedOverdue: true},
		{name: "one day late", status: LoanStatusDisbursed, now: due.AddDate(0, 0, 1), expectedOverdue: true, expectedDays: 1, expectedPenalty: 2000},
		{name: "eight days late", status: LoanStatusActive, now: due.AddDate(0, 0, 8).Add(time.Hour), expectedOverdue: true, expectedDays: 8, expectedPenalty: 5500},
		{name: "repaid loan is never overdue", status: LoanStatusRepaid, now: due.AddDate(0, 0, 8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := due
			loan := &Loan{Status: tt.status, DueDate: &d, RemainingBalance: decimal.NewFromInt(1000)}

			assert.Equal(t, tt.expectedOverdue, loan.IsOverdue(tt.now))
			assert.Equal(t, tt.expectedDays, loan.DaysOverdue(tt.now))
			assert.True(t, loan.PenaltyAt(tt.now).Equal(decimal.NewFromInt(tt.expectedPenalty)))

			view := loan.ViewAt(tt.now)
			assert.True(t, view.AmountDue.Equal(decimal.NewFromInt(1000+tt.expectedPenalty)))
		})
	}

	assert.False(t, (&Loan{Status: LoanStatusApproved}).IsOverdue(due))
}

func TestLoanApplyPayment(t *testing.T) {
	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name              string
		remaining         int64
		payment           int64
		expectedRemaining int64
		expectedStatus    string
	}{
		{name: "partial payment", remaining: 105000, payment: 50000, expectedRemaining: 55000, expectedStatus: LoanStatusActive},
		{name: "exact payoff", remaining: 55000, payment: 55000, expectedRemaining: 0, expectedStatus: LoanStatusRepaid},
		{name: "overpayment clamps to zero", remaining: 10000, payment: 12500, expectedRemaining: 0, expectedStatus: LoanStatusRepaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan := &Loan{Status: LoanStatusActive, RemainingBalance: decimal.NewFromInt(tt.remaining)}

			loan.ApplyPayment(decimal.NewFromInt(tt.payment), now)

			assert.True(t, loan.RemainingBalance.Equal(decimal.NewFromInt(tt.expectedRemaining)))
			assert.Equal(t, tt.expectedStatus, loan.Status)
			if tt.expectedStatus == LoanStatusRepaid {
				require.NotNil(t, loan.CompletionDate)
				assert.Equal(t, now, *loan.CompletionDate)
			} else {
				assert.Nil(t, loan.CompletionDate)
			}
		})
	}
}
