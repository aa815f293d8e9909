package domain

import (
	"time"

	"github.com/segyhp/tontine-ledger/internal/evidence"

	"github.com/shopspring/decimal"
)

const (
	DepositStatusPending  = "PENDING"
	DepositStatusApproved = "APPROVED"
	DepositStatusRejected = "REJECTED"
)

// Deposit is a member's payment of their remaining share balance
type Deposit struct {
	ID              int64           `json:"id" db:"id"`
	MemberID        int64           `json:"member_id" db:"member_id"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	Evidence        string          `json:"evidence" db:"evidence"`
	Status          string          `json:"status" db:"status"`
	ApprovedBy      *int64          `json:"approved_by,omitempty" db:"approved_by"`
	ApprovalDate    *time.Time      `json:"approval_date,omitempty" db:"approval_date"`
	RejectedBy      *int64          `json:"rejected_by,omitempty" db:"rejected_by"`
	RejectionDate   *time.Time      `json:"rejection_date,omitempty" db:"rejection_date"`
	RejectionReason string          `json:"rejection_reason,omitempty" db:"rejection_reason"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// MonthlySharePayment records the shares applied for one member in one calendar month
type MonthlySharePayment struct {
	ID           int64           `json:"id" db:"id"`
	MemberID     int64           `json:"member_id" db:"member_id"`
	PaymentMonth time.Time       `json:"payment_month" db:"payment_month"`
	SharesPaid   int             `json:"shares_paid" db:"shares_paid"`
	AmountPaid   decimal.Decimal `json:"amount_paid" db:"amount_paid"`
	IsCompleted  bool            `json:"is_completed" db:"is_completed"`
	PaymentDate  time.Time       `json:"payment_date" db:"payment_date"`
}

// DTOs for requests and responses

type SubmitDepositRequest struct {
	MemberID int64           `json:"-"`
	Amount   decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Evidence evidence.Ref    `json:"evidence"`
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}
