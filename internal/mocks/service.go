package mocks

import (
	"context"
	"time"

	"github.com/segyhp/tontine-ledger/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockLedgerService is a mock implementation of the ledger service used by the HTTP handlers
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) CreateMember(ctx context.Context, request *domain.CreateMemberRequest) (*domain.MemberResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MemberResponse), args.Error(1)
}

func (m *MockLedgerService) GetMember(ctx context.Context, memberID int64) (*domain.MemberResponse, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MemberResponse), args.Error(1)
}

func (m *MockLedgerService) ListMemberTransactions(ctx context.Context, memberID int64, limit int) ([]*domain.Transaction, error) {
	args := m.Called(ctx, memberID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) SubmitDeposit(ctx context.Context, request *domain.SubmitDepositRequest) (*domain.Deposit, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deposit), args.Error(1)
}

func (m *MockLedgerService) ApproveDeposit(ctx context.Context, depositID, approverID int64) (*domain.Deposit, error) {
	args := m.Called(ctx, depositID, approverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deposit), args.Error(1)
}

func (m *MockLedgerService) RejectDeposit(ctx context.Context, depositID, rejecterID int64, reason string) (*domain.Deposit, error) {
	args := m.Called(ctx, depositID, rejecterID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deposit), args.Error(1)
}

func (m *MockLedgerService) RequestLoan(ctx context.Context, request *domain.RequestLoanRequest) (*domain.Loan, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLedgerService) GetLoan(ctx context.Context, loanID int64) (*domain.LoanView, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanView), args.Error(1)
}

func (m *MockLedgerService) ApproveLoan(ctx context.Context, loanID, approverID int64) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, approverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLedgerService) RejectLoan(ctx context.Context, loanID, rejecterID int64, reason string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, rejecterID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLedgerService) DisburseLoan(ctx context.Context, loanID, disburserID int64) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, disburserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLedgerService) RecordLoanPayment(ctx context.Context, request *domain.RecordLoanPaymentRequest) (*domain.LoanPayment, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanPayment), args.Error(1)
}

func (m *MockLedgerService) ApproveLoanPayment(ctx context.Context, paymentID, approverID int64) (*domain.LoanPayment, error) {
	args := m.Called(ctx, paymentID, approverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanPayment), args.Error(1)
}

func (m *MockLedgerService) RejectLoanPayment(ctx context.Context, paymentID, rejecterID int64, reason string) (*domain.LoanPayment, error) {
	args := m.Called(ctx, paymentID, rejecterID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanPayment), args.Error(1)
}

func (m *MockLedgerService) SubmitPenaltyPayment(ctx context.Context, request *domain.SubmitPenaltyPaymentRequest) (*domain.PenaltyPayment, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PenaltyPayment), args.Error(1)
}

func (m *MockLedgerService) ApprovePenaltyPayment(ctx context.Context, paymentID, approverID int64) (*domain.PenaltyPayment, error) {
	args := m.Called(ctx, paymentID, approverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PenaltyPayment), args.Error(1)
}

func (m *MockLedgerService) RejectPenaltyPayment(ctx context.Context, paymentID, rejecterID int64, reason string) (*domain.PenaltyPayment, error) {
	args := m.Called(ctx, paymentID, rejecterID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PenaltyPayment), args.Error(1)
}

func (m *MockLedgerService) UpdateTotals(ctx context.Context) (*domain.CollectiveFund, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CollectiveFund), args.Error(1)
}

func (m *MockLedgerService) SetMonthlyDeadline(ctx context.Context, month time.Time, day int) (*domain.MonthlyDeadline, error) {
	args := m.Called(ctx, month, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyDeadline), args.Error(1)
}

func (m *MockLedgerService) Location() *time.Location {
	return time.UTC
}
