package errors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind classifies a business error so transports can map it to a status
type Kind string

const (
	KindValidation        Kind = "VALIDATION"
	KindConflict          Kind = "CONFLICT"
	KindInsufficientFunds Kind = "INSUFFICIENT_FUNDS"
	KindNotFound          Kind = "NOT_FOUND"
	KindInfrastructure    Kind = "INFRASTRUCTURE"
)

// Domain errors
var (
	ErrNotFound                = errors.New("record not found")
	ErrInvalidAmount           = errors.New("amount must be greater than zero")
	ErrInvalidEvidence         = errors.New("invalid evidence")
	ErrDuplicatePendingDeposit = errors.New("a pending deposit already exists")
	ErrSharesAlreadyPaid       = errors.New("shares for this period are already paid")
	ErrAmountMismatch          = errors.New("amount does not match the amount due")
	ErrDepositProcessed        = errors.New("deposit has already been processed")
	ErrInvalidDuration         = errors.New("invalid loan duration")
	ErrDuplicateActiveLoan     = errors.New("member already has an active loan")
	ErrExceedsSavings          = errors.New("loan amount exceeds savings")
	ErrInsufficientPool        = errors.New("insufficient funds in the collective pool")
	ErrInvalidLoanState        = errors.New("loan is not in the required state")
	ErrExceedsAmountDue        = errors.New("payment exceeds the amount due")
	ErrPaymentProcessed        = errors.New("payment has already been processed")
	ErrPenaltyAlreadyPaid      = errors.New("penalty is already paid")
	ErrDuplicatePendingPayment = errors.New("a pending payment already exists")
	ErrReasonRequired          = errors.New("a rejection reason is required")
	ErrInvalidDeadlineDay      = errors.New("deadline day must be between 1 and 31")
	ErrDuplicateUsername       = errors.New("username is already taken")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(kind Kind, code, message string, err error) *BusinessError {
	return &BusinessError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// KindOf returns the kind of err, or KindInfrastructure when err is not a BusinessError
func KindOf(err error) Kind {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindInfrastructure
}

// Error codes
const (
	ErrCodeNotFound                = "NOT_FOUND"
	ErrCodeInvalidAmount           = "INVALID_AMOUNT"
	ErrCodeInvalidEvidence         = "INVALID_EVIDENCE"
	ErrCodeDuplicatePendingDeposit = "DUPLICATE_PENDING_DEPOSIT"
	ErrCodeSharesAlreadyPaid       = "SHARES_ALREADY_PAID"
	ErrCodeAmountMismatch          = "AMOUNT_MISMATCH"
	ErrCodeDepositProcessed        = "DEPOSIT_ALREADY_PROCESSED"
	ErrCodeInvalidDuration         = "INVALID_DURATION"
	ErrCodeDuplicateActiveLoan     = "DUPLICATE_ACTIVE_LOAN"
	ErrCodeExceedsSavings          = "EXCEEDS_SAVINGS"
	ErrCodeInsufficientPool        = "INSUFFICIENT_POOL"
	ErrCodeInvalidLoanState        = "INVALID_LOAN_STATE"
	ErrCodeExceedsAmountDue        = "EXCEEDS_AMOUNT_DUE"
	ErrCodePaymentProcessed        = "PAYMENT_ALREADY_PROCESSED"
	ErrCodePenaltyAlreadyPaid      = "PENALTY_ALREADY_PAID"
	ErrCodeDuplicatePendingPayment = "DUPLICATE_PENDING_PAYMENT"
	ErrCodeReasonRequired          = "REASON_REQUIRED"
	ErrCodeInvalidDeadlineDay      = "INVALID_DEADLINE_DAY"
	ErrCodeDuplicateUsername       = "DUPLICATE_USERNAME"
	ErrCodeValidation              = "VALIDATION_ERROR"
	ErrCodeDatabaseError           = "DATABASE_ERROR"
	ErrCodeCacheError              = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapNotFound(entity string, id int64) *BusinessError {
	return NewBusinessError(
		KindNotFound,
		ErrCodeNotFound,
		fmt.Sprintf("%s with ID %d not found", entity, id),
		ErrNotFound,
	)
}

func WrapValidation(message string) *BusinessError {
	return NewBusinessError(KindValidation, ErrCodeValidation, message, nil)
}

func WrapInvalidAmount() *BusinessError {
	return NewBusinessError(KindValidation, ErrCodeInvalidAmount, "Amount must be greater than zero", ErrInvalidAmount)
}

func WrapInvalidEvidence(err error) *BusinessError {
	return NewBusinessError(KindValidation, ErrCodeInvalidEvidence, err.Error(), ErrInvalidEvidence)
}

func WrapDuplicatePendingDeposit(memberID int64) *BusinessError {
	return NewBusinessError(
		KindConflict,
		ErrCodeDuplicatePendingDeposit,
		fmt.Sprintf("Member %d already has a pending deposit awaiting approval", memberID),
		ErrDuplicatePendingDeposit,
	)
}

func WrapSharesAlreadyPaid(memberID int64) *BusinessError {
	return NewBusinessError(
		KindConflict,
		ErrCodeSharesAlreadyPaid,
		fmt.Sprintf("Member %d has no remaining share balance", memberID),
		ErrSharesAlreadyPaid,
	)
}

func WrapAmountMismatch(required, actual decimal.Decimal) *BusinessError {
	return NewBusinessError(
		KindValidation,
		ErrCodeAmountMismatch,
		fmt.Sprintf("Amount %s does not match the required amount %s", actual.StringFixed(2), required.StringFixed(2)),
		ErrAmountMismatch,
	)
}

func WrapDepositProcessed(depositID int64, status string) *BusinessError {
	return NewBusinessError(
		KindConflict,
		ErrCodeDepositProcessed,
		fmt.Sprintf("Deposit %d is already %s", depositID, status),
		ErrDepositProcessed,
	)
}

func WrapInvalidDuration(months int) *BusinessError {
	return NewBusinessError(
		KindValidation,
		ErrCodeInvalidDuration,
		fmt.Sprintf("Loan duration of %d months is not offered (choose 3, 6 or 12)", months),
		ErrInvalidDuration,
	)
}

func WrapDuplicateActiveLoan(memberID int64) *BusinessError {
	return NewBusinessError(
		KindConflict,
		ErrCodeDuplicateActiveLoan,
		fmt.Sprintf("Member %d already has a loan in progress", memberID),
		ErrDuplicateActiveLoan,
	)
}

func WrapExceedsSavings(requested, savings decimal.Decimal) *BusinessError {
	return NewBusinessError(
		KindInsufficientFunds,
		ErrCodeExceedsSavings,
		fmt.Sprintf("Requested %s exceeds total savings of %s", requested.StringFixed(2), savings.StringFixed(2)),
		ErrExceedsSavings,
	)
}

func WrapInsufficientPool(requested, available decimal.Decimal) *BusinessError {
	return NewBusinessError(
		KindInsufficientFunds,
		ErrCodeInsufficientPool,
		fmt.Sprintf("Loan amount %s exceeds available pool of %s", requested.StringFixed(2), available.StringFixed(2)),
		ErrInsufficientPool,
	)
}

func WrapInvalidLoanState(loanID int64, status string) *BusinessError {
	return NewBusinessError(
		KindConflict,
		ErrCodeInvalidLoanState,
		fmt.Sprintf("Loan %d is %s", loanID, status),
		ErrInvalidLoanState,
	)
}

func WrapExceedsAmountDue(amount, balance, penalty decimal.Decimal) *BusinessError {
	return NewBusinessError(
		KindValidation,
		ErrCodeExceedsAmountDue,
		fmt.Sprintf("Payment %s exceeds remaining balance %s plus penalty %s",
			amount.StringFixed(2), balance.StringFixed(2), penalty.StringFixed(2)),
		ErrExceedsAmountDue,
	)
}

func WrapPaymentProcessed(paymentID int64, status string) *BusinessError {
	return NewBusinessError(
		KindConflict,
		ErrCodePaymentProcessed,
		fmt.Sprintf("Payment %d is already %s", paymentID, status),
		ErrPaymentProcessed,
	)
}

func WrapPenaltyAlreadyPaid(penaltyID int64) *BusinessError {
	return NewBusinessError(
		KindConflict,
		ErrCodePenaltyAlreadyPaid,
		fmt.Sprintf("Penalty %d is already paid", penaltyID),
		ErrPenaltyAlreadyPaid,
	)
}

func WrapDuplicatePendingPayment(entity string, id int64) *BusinessError {
	return NewBusinessError(
		KindConflict,
		ErrCodeDuplicatePendingPayment,
		fmt.Sprintf("%s %d already has a pending payment", entity, id),
		ErrDuplicatePendingPayment,
	)
}

func WrapReasonRequired() *BusinessError {
	return NewBusinessError(KindValidation, ErrCodeReasonRequired, "Please provide a reason for rejection", ErrReasonRequired)
}

func WrapInvalidDeadlineDay(day int) *BusinessError {
	return NewBusinessError(
		KindValidation,
		ErrCodeInvalidDeadlineDay,
		fmt.Sprintf("Deadline day %d is out of range", day),
		ErrInvalidDeadlineDay,
	)
}

func WrapDuplicateUsername(username string) *BusinessError {
	return NewBusinessError(
		KindConflict,
		ErrCodeDuplicateUsername,
		fmt.Sprintf("Username %s is already taken", username),
		ErrDuplicateUsername,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		KindInfrastructure,
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		KindInfrastructure,
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}
