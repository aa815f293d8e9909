package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/segyhp/tontine-ledger/internal/domain"

	"github.com/shopspring/decimal"
)

// MemberRepository defines the interface for user identities and ledger profiles
type MemberRepository interface {
	// CreateUser inserts an identity row and fills its ID
	CreateUser(ctx context.Context, user *domain.User) error

	// GetUser retrieves an identity row
	GetUser(ctx context.Context, id int64) (*domain.User, error)

	// Create inserts the ledger profile of an existing user
	Create(ctx context.Context, member *domain.Member) error

	// GetByID retrieves a member profile
	GetByID(ctx context.Context, id int64) (*domain.Member, error)

	// GetByIDForUpdate retrieves a member profile and locks its row until the transaction ends
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Member, error)

	// ListCommittedForUpdate locks and returns every member with committed shares, ordered by ID
	ListCommittedForUpdate(ctx context.Context) ([]*domain.Member, error)

	// Update persists share and savings fields
	Update(ctx context.Context, member *domain.Member) error
}

// DepositRepository defines the interface for deposit data operations
type DepositRepository interface {
	Create(ctx context.Context, deposit *domain.Deposit) error
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Deposit, error)

	// HasPending reports whether the member has a deposit awaiting a decision
	HasPending(ctx context.Context, memberID int64) (bool, error)

	// UpdateDecision persists the status and the approver or rejecter fields
	UpdateDecision(ctx context.Context, deposit *domain.Deposit) error
}

// SharePaymentRepository defines the interface for monthly share payment records
type SharePaymentRepository interface {
	// Upsert records shares for a member and month, adding to an existing row for the same month
	Upsert(ctx context.Context, payment *domain.MonthlySharePayment) error

	// SharesPaidByMember returns shares paid per member for the month starting at month
	SharesPaidByMember(ctx context.Context, month time.Time) (map[int64]int, error)
}

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	Create(ctx context.Context, loan *domain.Loan) error
	GetByID(ctx context.Context, id int64) (*domain.Loan, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Loan, error)

	// HasOpen reports whether the member has a loan that is not yet repaid or rejected
	HasOpen(ctx context.Context, memberID int64) (bool, error)

	// ListOverdueForUpdate locks loans with a balance left whose due date is before the given instant
	ListOverdueForUpdate(ctx context.Context, before time.Time) ([]*domain.Loan, error)

	Update(ctx context.Context, loan *domain.Loan) error
}

// LoanPaymentRepository defines the interface for loan repayment records
type LoanPaymentRepository interface {
	Create(ctx context.Context, payment *domain.LoanPayment) error
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.LoanPayment, error)
	UpdateDecision(ctx context.Context, payment *domain.LoanPayment) error
}

// PenaltyRepository defines the interface for penalty data operations
type PenaltyRepository interface {
	Create(ctx context.Context, penalty *domain.Penalty) error
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Penalty, error)

	// FindUnpaid locks the unpaid penalty for a member, type and original due date
	FindUnpaid(ctx context.Context, memberID int64, penaltyType string, dueDate time.Time) (*domain.Penalty, error)

	// UpdateAmount persists a recomputed amount, days late and description
	UpdateAmount(ctx context.Context, penalty *domain.Penalty) error

	MarkPaid(ctx context.Context, id int64, at time.Time) error
}

// PenaltyPaymentRepository defines the interface for penalty payment records
type PenaltyPaymentRepository interface {
	Create(ctx context.Context, payment *domain.PenaltyPayment) error
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.PenaltyPayment, error)
	HasPending(ctx context.Context, penaltyID int64) (bool, error)
	UpdateDecision(ctx context.Context, payment *domain.PenaltyPayment) error
}

// TransactionRepository defines the interface for the append-only transaction log
type TransactionRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) error

	// UpdateStatusByReference syncs the status of entries of a type linked to a reference
	UpdateStatusByReference(ctx context.Context, txnType, referenceID, status string) error

	// UpdateAmountByReference syncs the amount and description of entries of a type linked to a reference
	UpdateAmountByReference(ctx context.Context, txnType, referenceID string, amount decimal.Decimal, description string) error

	ListByMember(ctx context.Context, memberID int64, limit int) ([]*domain.Transaction, error)
}

// FundRepository defines the interface for the collective fund row
type FundRepository interface {
	// LockForUpdate creates the fund row if missing and locks it
	LockForUpdate(ctx context.Context) (*domain.CollectiveFund, error)

	// Get reads the fund row without locking, creating it if missing
	Get(ctx context.Context) (*domain.CollectiveFund, error)

	// Snapshot sums the ledger tables the fund is derived from
	Snapshot(ctx context.Context) (*domain.FundSnapshot, error)

	Save(ctx context.Context, fund *domain.CollectiveFund) error
}

// DistributionRepository defines the interface for profit distribution records
type DistributionRepository interface {
	// ExistsBetween reports whether any distribution is dated in [from, to)
	ExistsBetween(ctx context.Context, from, to time.Time) (bool, error)

	Create(ctx context.Context, distribution *domain.ProfitDistribution) error
	CreateSummary(ctx context.Context, summary *domain.ProfitDistributionSummary) error
}

// DeadlineRepository defines the interface for monthly share deadlines
type DeadlineRepository interface {
	// EnsureForMonth inserts a deadline for month unless one exists and reports whether it did
	EnsureForMonth(ctx context.Context, month time.Time, day int) (bool, error)

	Upsert(ctx context.Context, month time.Time, day int) (*domain.MonthlyDeadline, error)

	// ListUpTo returns deadlines for months up to and including month
	ListUpTo(ctx context.Context, month time.Time) ([]*domain.MonthlyDeadline, error)
}

// Repositories groups the repositories bound to one executor
type Repositories struct {
	Members         MemberRepository
	Deposits        DepositRepository
	SharePayments   SharePaymentRepository
	Loans           LoanRepository
	LoanPayments    LoanPaymentRepository
	Penalties       PenaltyRepository
	PenaltyPayments PenaltyPaymentRepository
	Transactions    TransactionRepository
	Fund            FundRepository
	Distributions   DistributionRepository
	Deadlines       DeadlineRepository
}

// Store hands out repositories, either on the pool or inside a transaction
type Store interface {
	// Repositories returns repositories that run outside any transaction
	Repositories() Repositories

	// InTx runs fn with repositories bound to one transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, opts *sql.TxOptions, fn func(Repositories) error) error
}
