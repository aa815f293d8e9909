package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestComputeFund(t *testing.T) {
	now := time.Date(2024, 8, 2, 3, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		snapshot FundSnapshot
		expected CollectiveFund
	}{
		{
			name: "empty ledger",
			snapshot: FundSnapshot{
				TotalDeposits: d(0), PaidPenalties: d(0), LoanPaymentsTotal: d(0),
				RepaidPrincipals: d(0), OutstandingLoans: d(0), DistributedProfits: d(0),
			},
			expected: CollectiveFund{
				TotalAmount: d(0), AvailableAmount: d(0), TotalLoansOutstanding: d(0),
				TotalProfitEarned: d(0), TotalProfitDistributed: d(0), AvailableProfit: d(0),
			},
		},
		{
			name: "repaid loan contributes interest",
			snapshot: FundSnapshot{
				TotalDeposits: d(400000), PaidPenalties: d(6000), LoanPaymentsTotal: d(105000),
				RepaidPrincipals: d(100000), OutstandingLoans: d(50000), DistributedProfits: d(1000),
			},
			expected: CollectiveFund{
				TotalAmount: d(411000), AvailableAmount: d(361000), TotalLoansOutstanding: d(50000),
				TotalProfitEarned: d(11000), TotalProfitDistributed: d(1000), AvailableProfit: d(10000),
			},
		},
		{
			name: "payments on active loans do not count as interest yet",
			snapshot: FundSnapshot{
				TotalDeposits: d(100000), PaidPenalties: d(0), LoanPaymentsTotal: d(30000),
				RepaidPrincipals: d(50000), OutstandingLoans: d(80000), DistributedProfits: d(0),
			},
			expected: CollectiveFund{
				TotalAmount: d(100000), AvailableAmount: d(20000), TotalLoansOutstanding: d(80000),
				TotalProfitEarned: d(0), TotalProfitDistributed: d(0), AvailableProfit: d(0),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fund := ComputeFund(tt.snapshot, now)

			assert.Equal(t, int64(CollectiveFundID), fund.ID)
			assert.Equal(t, now, fund.LastUpdated)
			assert.True(t, fund.TotalAmount.Equal(tt.expected.TotalAmount), "total %v", fund.TotalAmount)
			assert.True(t, fund.AvailableAmount.Equal(tt.expected.AvailableAmount), "available %v", fund.AvailableAmount)
			assert.True(t, fund.TotalLoansOutstanding.Equal(tt.expected.TotalLoansOutstanding))
			assert.True(t, fund.TotalProfitEarned.Equal(tt.expected.TotalProfitEarned), "earned %v", fund.TotalProfitEarned)
			assert.True(t, fund.TotalProfitDistributed.Equal(tt.expected.TotalProfitDistributed))
			assert.True(t, fund.AvailableProfit.Equal(tt.expected.AvailableProfit), "profit %v", fund.AvailableProfit)
		})
	}
}
