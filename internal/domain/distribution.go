package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DistributionSource is the only profit source the fund distributes
const DistributionSource = "LOAN_INTEREST_AND_PENALTIES"

// Outcomes of a distribution run
const (
	DistributionOutcomeDistributed        = "distributed"
	DistributionOutcomeAlreadyDistributed = "already_distributed"
	DistributionOutcomeNoProfit           = "no_profit"
	DistributionOutcomeNoMembers          = "no_members"
)

// ProfitDistribution is one member's payout in a run
type ProfitDistribution struct {
	ID                int64           `json:"id" db:"id"`
	RunID             uuid.UUID       `json:"run_id" db:"run_id"`
	MemberID          int64           `json:"member_id" db:"member_id"`
	TotalAmount       decimal.Decimal `json:"total_amount" db:"total_amount"`
	PerShareAmount    decimal.Decimal `json:"per_share_amount" db:"per_share_amount"`
	SharesDistributed int             `json:"shares_distributed" db:"shares_distributed"`
	Source            string          `json:"source" db:"source"`
	DistributionDate  time.Time       `json:"distribution_date" db:"distribution_date"`
}

// ProfitDistributionSummary is the per-run reporting row
type ProfitDistributionSummary struct {
	ID               int64           `json:"id" db:"id"`
	RunID            uuid.UUID       `json:"run_id" db:"run_id"`
	TotalAmount      decimal.Decimal `json:"total_amount" db:"total_amount"`
	MembersPaid      int             `json:"members_paid" db:"members_paid"`
	Source           string          `json:"source" db:"source"`
	DistributionDate time.Time       `json:"distribution_date" db:"distribution_date"`
}

// Payout is the amount computed for one member
type Payout struct {
	MemberID int64
	Shares   int
	Amount   decimal.Decimal
}

// SplitProfit divides profit pro rata over committed shares.
// Each payout is truncated to cents so their sum never exceeds profit.
func SplitProfit(profit decimal.Decimal, shares map[int64]int, order []int64) (decimal.Decimal, []Payout) {
	total := 0
	for _, id := range order {
		total += shares[id]
	}
	if total == 0 {
		return decimal.Zero, nil
	}

	perShare := profit.DivRound(decimal.NewFromInt(int64(total)), 8)
	payouts := make([]Payout, 0, len(order))
	for _, id := range order {
		n := shares[id]
		if n <= 0 {
			continue
		}
		amount := profit.Mul(decimal.NewFromInt(int64(n))).Div(decimal.NewFromInt(int64(total))).Truncate(2)
		payouts = append(payouts, Payout{MemberID: id, Shares: n, Amount: amount})
	}
	return perShare, payouts
}

// DistributionReport summarizes one distribution run
type DistributionReport struct {
	Outcome         string          `json:"outcome"`
	RunID           uuid.UUID       `json:"run_id,omitempty"`
	MembersPaid     int             `json:"members_paid"`
	PerShare        decimal.Decimal `json:"per_share"`
	TotalPaid       decimal.Decimal `json:"total_paid"`
	AvailableProfit decimal.Decimal `json:"available_profit"`
}
