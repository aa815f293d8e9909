package domain

import (
	"fmt"
	"time"

	"github.com/segyhp/tontine-ledger/internal/evidence"

	"github.com/shopspring/decimal"
)

const (
	PenaltyTypeLateDeposit       = "LATE_DEPOSIT"
	PenaltyTypeLateLoanRepayment = "LATE_LOAN_REPAYMENT"
	PenaltyTypeMissedMeeting     = "MISSED_MEETING"
	PenaltyTypeOther             = "OTHER"
)

// Penalty is a materialized late fee owed by a member
type Penalty struct {
	ID              int64           `json:"id" db:"id"`
	MemberID        int64           `json:"member_id" db:"member_id"`
	PenaltyType     string          `json:"penalty_type" db:"penalty_type"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	DaysLate        int             `json:"days_late" db:"days_late"`
	OriginalDueDate time.Time       `json:"original_due_date" db:"original_due_date"`
	Description     string          `json:"description" db:"description"`
	IsPaid          bool            `json:"is_paid" db:"is_paid"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// LateShareDescription describes a late share payment penalty
func LateShareDescription(missingShares, daysLate int) string {
	return fmt.Sprintf("Fine for late payment: %d shares, %d days late", missingShares, daysLate)
}

// LateLoanDescription describes a late loan repayment penalty
func LateLoanDescription(loanID int64, daysLate int) string {
	return fmt.Sprintf("Fine for late loan repayment: loan %d, %d days late", loanID, daysLate)
}

// PenaltyPayment is an attempt to settle a penalty
type PenaltyPayment struct {
	ID              int64           `json:"id" db:"id"`
	PenaltyID       int64           `json:"penalty_id" db:"penalty_id"`
	MemberID        int64           `json:"member_id" db:"member_id"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	Evidence        string          `json:"evidence" db:"evidence"`
	Status          string          `json:"status" db:"status"`
	ApprovedBy      *int64          `json:"approved_by,omitempty" db:"approved_by"`
	ApprovalDate    *time.Time      `json:"approval_date,omitempty" db:"approval_date"`
	RejectedBy      *int64          `json:"rejected_by,omitempty" db:"rejected_by"`
	RejectionReason string          `json:"rejection_reason,omitempty" db:"rejection_reason"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// AccrualReport summarizes one penalty accrual run
type AccrualReport struct {
	AsOf    time.Time `json:"as_of"`
	Created int       `json:"created"`
	Updated int       `json:"updated"`
}

// DTOs for requests and responses

type SubmitPenaltyPaymentRequest struct {
	PenaltyID int64           `json:"-"`
	MemberID  int64           `json:"member_id" validate:"required,gt=0"`
	Amount    decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Evidence  evidence.Ref    `json:"evidence"`
}
