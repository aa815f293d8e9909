package mocks

import (
	"context"
	"time"

	"github.com/segyhp/tontine-ledger/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockMemberRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockMemberRepository) Create(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) ListCommittedForUpdate(ctx context.Context) ([]*domain.Member, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) Update(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

type MockDepositRepository struct {
	mock.Mock
}

func (m *MockDepositRepository) Create(ctx context.Context, deposit *domain.Deposit) error {
	args := m.Called(ctx, deposit)
	return args.Error(0)
}

func (m *MockDepositRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Deposit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deposit), args.Error(1)
}

func (m *MockDepositRepository) HasPending(ctx context.Context, memberID int64) (bool, error) {
	args := m.Called(ctx, memberID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDepositRepository) UpdateDecision(ctx context.Context, deposit *domain.Deposit) error {
	args := m.Called(ctx, deposit)
	return args.Error(0)
}

type MockSharePaymentRepository struct {
	mock.Mock
}

func (m *MockSharePaymentRepository) Upsert(ctx context.Context, payment *domain.MonthlySharePayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockSharePaymentRepository) SharesPaidByMember(ctx context.Context, month time.Time) (map[int64]int, error) {
	args := m.Called(ctx, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]int), args.Error(1)
}

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) GetByID(ctx context.Context, id int64) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) HasOpen(ctx context.Context, memberID int64) (bool, error) {
	args := m.Called(ctx, memberID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLoanRepository) ListOverdueForUpdate(ctx context.Context, before time.Time) ([]*domain.Loan, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

type MockLoanPaymentRepository struct {
	mock.Mock
}

func (m *MockLoanPaymentRepository) Create(ctx context.Context, payment *domain.LoanPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockLoanPaymentRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.LoanPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanPayment), args.Error(1)
}

func (m *MockLoanPaymentRepository) UpdateDecision(ctx context.Context, payment *domain.LoanPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

type MockPenaltyRepository struct {
	mock.Mock
}

func (m *MockPenaltyRepository) Create(ctx context.Context, penalty *domain.Penalty) error {
	args := m.Called(ctx, penalty)
	return args.Error(0)
}

func (m *MockPenaltyRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Penalty, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Penalty), args.Error(1)
}

func (m *MockPenaltyRepository) FindUnpaid(ctx context.Context, memberID int64, penaltyType string, dueDate time.Time) (*domain.Penalty, error) {
	args := m.Called(ctx, memberID, penaltyType, dueDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Penalty), args.Error(1)
}

func (m *MockPenaltyRepository) UpdateAmount(ctx context.Context, penalty *domain.Penalty) error {
	args := m.Called(ctx, penalty)
	return args.Error(0)
}

func (m *MockPenaltyRepository) MarkPaid(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type MockPenaltyPaymentRepository struct {
	mock.Mock
}

func (m *MockPenaltyPaymentRepository) Create(ctx context.Context, payment *domain.PenaltyPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPenaltyPaymentRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.PenaltyPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PenaltyPayment), args.Error(1)
}

func (m *MockPenaltyPaymentRepository) HasPending(ctx context.Context, penaltyID int64) (bool, error) {
	args := m.Called(ctx, penaltyID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPenaltyPaymentRepository) UpdateDecision(ctx context.Context, payment *domain.PenaltyPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateStatusByReference(ctx context.Context, txnType, referenceID, status string) error {
	args := m.Called(ctx, txnType, referenceID, status)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateAmountByReference(ctx context.Context, txnType, referenceID string, amount decimal.Decimal, description string) error {
	args := m.Called(ctx, txnType, referenceID, amount, description)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListByMember(ctx context.Context, memberID int64, limit int) ([]*domain.Transaction, error) {
	args := m.Called(ctx, memberID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

type MockFundRepository struct {
	mock.Mock
}

func (m *MockFundRepository) LockForUpdate(ctx context.Context) (*domain.CollectiveFund, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CollectiveFund), args.Error(1)
}

func (m *MockFundRepository) Get(ctx context.Context) (*domain.CollectiveFund, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CollectiveFund), args.Error(1)
}

func (m *MockFundRepository) Snapshot(ctx context.Context) (*domain.FundSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FundSnapshot), args.Error(1)
}

func (m *MockFundRepository) Save(ctx context.Context, fund *domain.CollectiveFund) error {
	args := m.Called(ctx, fund)
	return args.Error(0)
}

type MockDistributionRepository struct {
	mock.Mock
}

func (m *MockDistributionRepository) ExistsBetween(ctx context.Context, from, to time.Time) (bool, error) {
	args := m.Called(ctx, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockDistributionRepository) Create(ctx context.Context, distribution *domain.ProfitDistribution) error {
	args := m.Called(ctx, distribution)
	return args.Error(0)
}

func (m *MockDistributionRepository) CreateSummary(ctx context.Context, summary *domain.ProfitDistributionSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

type MockDeadlineRepository struct {
	mock.Mock
}

func (m *MockDeadlineRepository) EnsureForMonth(ctx context.Context, month time.Time, day int) (bool, error) {
	args := m.Called(ctx, month, day)
	return args.Bool(0), args.Error(1)
}

func (m *MockDeadlineRepository) Upsert(ctx context.Context, month time.Time, day int) (*domain.MonthlyDeadline, error) {
	args := m.Called(ctx, month, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyDeadline), args.Error(1)
}

func (m *MockDeadlineRepository) ListUpTo(ctx context.Context, month time.Time) ([]*domain.MonthlyDeadline, error) {
	args := m.Called(ctx, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.MonthlyDeadline), args.Error(1)
}
