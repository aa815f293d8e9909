package domain

import (
	"time"

	"github.com/segyhp/tontine-ledger/internal/evidence"
	"github.com/segyhp/tontine-ledger/pkg/utils"

	"github.com/shopspring/decimal"
)

const (
	LoanStatusRequested = "REQUESTED"
	LoanStatusApproved  = "APPROVED"
	LoanStatusDisbursed = "DISBURSED"
	LoanStatusActive    = "ACTIVE"
	LoanStatusRepaid    = "REPAID"
	LoanStatusRejected  = "REJECTED"
)

const (
	PaymentStatusPending  = "PENDING"
	PaymentStatusApproved = "APPROVED"
	PaymentStatusRejected = "REJECTED"
)

// OpenLoanStatuses are the states that block a member from requesting another loan
var OpenLoanStatuses = []string{LoanStatusRequested, LoanStatusApproved, LoanStatusDisbursed, LoanStatusActive}

// Loan represents a loan entity
type Loan struct {
	ID               int64           `json:"id" db:"id"`
	MemberID         int64           `json:"member_id" db:"member_id"`
	Amount           decimal.Decimal `json:"amount" db:"amount"`
	Duration         int             `json:"duration" db:"duration"`
	InterestRate     decimal.Decimal `json:"interest_rate" db:"interest_rate"`
	InterestAmount   decimal.Decimal `json:"interest_amount" db:"interest_amount"`
	TotalAmount      decimal.Decimal `json:"total_amount" db:"total_amount"`
	RemainingBalance decimal.Decimal `json:"remaining_balance" db:"remaining_balance"`
	Status           string          `json:"status" db:"status"`
	RequestDate      time.Time       `json:"request_date" db:"request_date"`
	ApprovalDate     *time.Time      `json:"approval_date,omitempty" db:"approval_date"`
	ApprovedBy       *int64          `json:"approved_by,omitempty" db:"approved_by"`
	DisbursementDate *time.Time      `json:"disbursement_date,omitempty" db:"disbursement_date"`
	DisbursedBy      *int64          `json:"disbursed_by,omitempty" db:"disbursed_by"`
	DueDate          *time.Time      `json:"due_date,omitempty" db:"due_date"`
	CompletionDate   *time.Time      `json:"completion_date,omitempty" db:"completion_date"`
	RejectedBy       *int64          `json:"rejected_by,omitempty" db:"rejected_by"`
	RejectionReason  string          `json:"rejection_reason,omitempty" db:"rejection_reason"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// NewLoanRequest builds a REQUESTED loan with interest and totals computed for its duration.
// ok is false when the duration is not one of the offered terms.
func NewLoanRequest(memberID int64, amount decimal.Decimal, duration int, now time.Time) (*Loan, bool) {
	rate, ok := utils.InterestRateForDuration(duration)
	if !ok {
		return nil, false
	}

	principal := utils.Quantize(amount)
	interest := utils.CalculateInterest(principal, rate)
	total := principal.Add(interest)

	return &Loan{
		MemberID:         memberID,
		Amount:           principal,
		Duration:         duration,
		InterestRate:     rate,
		InterestAmount:   interest,
		TotalAmount:      total,
		RemainingBalance: total,
		Status:           LoanStatusRequested,
		RequestDate:      now,
	}, true
}

// InRepayment reports whether the loan has been handed out and is being paid back
func (l *Loan) InRepayment() bool {
	return l.Status == LoanStatusDisbursed || l.Status == LoanStatusActive
}

// IsOverdue reports whether a loan in repayment is past its due date at now
func (l *Loan) IsOverdue(now time.Time) bool {
	return l.InRepayment() && l.DueDate != nil && now.After(*l.DueDate)
}

// DaysOverdue counts whole days past the due date, never negative
func (l *Loan) DaysOverdue(now time.Time) int {
	if !l.IsOverdue(now) {
		return 0
	}
	days := int(now.Sub(*l.DueDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// PenaltyAt is the live late-repayment penalty at now
func (l *Loan) PenaltyAt(now time.Time) decimal.Decimal {
	return utils.PenaltyForDaysLate(l.DaysOverdue(now))
}

// ApplyPayment decrements the remaining balance and closes the loan once it reaches zero
func (l *Loan) ApplyPayment(amount decimal.Decimal, now time.Time) {
	l.RemainingBalance = utils.Quantize(l.RemainingBalance.Sub(amount))
	if l.RemainingBalance.LessThanOrEqual(decimal.Zero) {
		l.RemainingBalance = decimal.Zero
		l.Status = LoanStatusRepaid
		l.CompletionDate = &now
	}
}

// LoanPayment is a repayment submitted against a loan
type LoanPayment struct {
	ID              int64           `json:"id" db:"id"`
	LoanID          int64           `json:"loan_id" db:"loan_id"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	PaymentDate     time.Time       `json:"payment_date" db:"payment_date"`
	Evidence        string          `json:"evidence" db:"evidence"`
	Status          string          `json:"status" db:"status"`
	ApprovedBy      *int64          `json:"approved_by,omitempty" db:"approved_by"`
	ApprovalDate    *time.Time      `json:"approval_date,omitempty" db:"approval_date"`
	RejectedBy      *int64          `json:"rejected_by,omitempty" db:"rejected_by"`
	RejectionReason string          `json:"rejection_reason,omitempty" db:"rejection_reason"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// DTOs for requests and responses

type RequestLoanRequest struct {
	MemberID int64           `json:"-"`
	Amount   decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Duration int             `json:"duration" validate:"required"`
}

type RecordLoanPaymentRequest struct {
	LoanID   int64           `json:"-"`
	MemberID int64           `json:"member_id" validate:"required,gt=0"`
	Amount   decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Evidence evidence.Ref    `json:"evidence"`
}

// LoanView is a loan with its live overdue figures
type LoanView struct {
	*Loan
	IsOverdue      bool            `json:"is_overdue"`
	DaysOverdue    int             `json:"days_overdue"`
	CurrentPenalty decimal.Decimal `json:"current_penalty"`
	AmountDue      decimal.Decimal `json:"amount_due"`
}

// ViewAt returns the loan with live figures computed at now
func (l *Loan) ViewAt(now time.Time) *LoanView {
	penalty := l.PenaltyAt(now)
	return &LoanView{
		Loan:           l,
		IsOverdue:      l.IsOverdue(now),
		DaysOverdue:    l.DaysOverdue(now),
		CurrentPenalty: penalty,
		AmountDue:      l.RemainingBalance.Add(penalty),
	}
}
