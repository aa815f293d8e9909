package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CollectiveFundID is the key of the single fund row
const CollectiveFundID = 1

// CollectiveFund is the cached aggregate of the pool
type CollectiveFund struct {
	ID                     int64           `json:"id" db:"id"`
	TotalAmount            decimal.Decimal `json:"total_amount" db:"total_amount"`
	AvailableAmount        decimal.Decimal `json:"available_amount" db:"available_amount"`
	TotalLoansOutstanding  decimal.Decimal `json:"total_loans_outstanding" db:"total_loans_outstanding"`
	TotalProfitEarned      decimal.Decimal `json:"total_profit_earned" db:"total_profit_earned"`
	TotalProfitDistributed decimal.Decimal `json:"total_profit_distributed" db:"total_profit_distributed"`
	AvailableProfit        decimal.Decimal `json:"available_profit" db:"available_profit"`
	LastUpdated            time.Time       `json:"last_updated" db:"last_updated"`
}

// FundSnapshot holds the ledger sums the fund is derived from
type FundSnapshot struct {
	TotalDeposits      decimal.Decimal `db:"total_deposits"`
	PaidPenalties      decimal.Decimal `db:"paid_penalties"`
	LoanPaymentsTotal  decimal.Decimal `db:"loan_payments_total"`
	RepaidPrincipals   decimal.Decimal `db:"repaid_principals"`
	OutstandingLoans   decimal.Decimal `db:"outstanding_loans"`
	DistributedProfits decimal.Decimal `db:"distributed_profits"`
}

// ComputeFund derives the fund totals from a ledger snapshot.
// Interest earned is approximated as loan payments received minus principals of fully repaid loans,
// so interest on loans still in repayment is not counted until they are repaid.
func ComputeFund(s FundSnapshot, now time.Time) *CollectiveFund {
	interestEarned := s.LoanPaymentsTotal.Sub(s.RepaidPrincipals)
	if interestEarned.IsNegative() {
		interestEarned = decimal.Zero
	}

	total := s.TotalDeposits.Add(s.PaidPenalties).Add(interestEarned)
	profitEarned := s.PaidPenalties.Add(interestEarned)

	return &CollectiveFund{
		ID:                     CollectiveFundID,
		TotalAmount:            total.Round(2),
		AvailableAmount:        total.Sub(s.OutstandingLoans).Round(2),
		TotalLoansOutstanding:  s.OutstandingLoans.Round(2),
		TotalProfitEarned:      profitEarned.Round(2),
		TotalProfitDistributed: s.DistributedProfits.Round(2),
		AvailableProfit:        profitEarned.Sub(s.DistributedProfits).Round(2),
		LastUpdated:            now,
	}
}
