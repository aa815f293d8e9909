package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TransactionTypeDeposit            = "DEPOSIT"
	TransactionTypeLoanRequest        = "LOAN_REQUEST"
	TransactionTypeLoanApproval       = "LOAN_APPROVAL"
	TransactionTypeLoanRejection      = "LOAN_REJECTION"
	TransactionTypeLoanDisbursement   = "LOAN_DISBURSEMENT"
	TransactionTypeLoanPayment        = "LOAN_PAYMENT"
	TransactionTypeProfitDistribution = "PROFIT_DISTRIBUTION"
	TransactionTypePenalty            = "PENALTY"
	TransactionTypePenaltyPayment     = "PENALTY_PAYMENT"
)

const (
	TransactionStatusPending   = "PENDING"
	TransactionStatusCompleted = "COMPLETED"
	TransactionStatusRejected  = "REJECTED"
)

// Reference kinds used in Transaction.ReferenceID
const (
	RefDeposit        = "DEP"
	RefLoan           = "LOAN"
	RefLoanPayment    = "LPAY"
	RefFine           = "FINE"
	RefPenaltyPayment = "PENALTY_PAYMENT"
	RefProfit         = "PROFIT"
)

// Transaction is an append-only ledger entry.
// Only Status, Amount and Description change after insert.
type Transaction struct {
	ID              int64           `json:"id" db:"id"`
	MemberID        int64           `json:"member_id" db:"member_id"`
	TransactionType string          `json:"transaction_type" db:"transaction_type"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	Status          string          `json:"status" db:"status"`
	ReferenceID     string          `json:"reference_id" db:"reference_id"`
	Description     string          `json:"description" db:"description"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// Reference formats the reference id of an originating entity
func Reference(kind string, id int64) string {
	return fmt.Sprintf("%s-%d", kind, id)
}
