package mocks

import (
	"context"
	"database/sql"
	"testing"

	"github.com/segyhp/tontine-ledger/internal/repository"
	"github.com/stretchr/testify/mock"
)

// Store runs transactional callbacks directly against mock repositories
type Store struct {
	Members         *MockMemberRepository
	Deposits        *MockDepositRepository
	SharePayments   *MockSharePaymentRepository
	Loans           *MockLoanRepository
	LoanPayments    *MockLoanPaymentRepository
	Penalties       *MockPenaltyRepository
	PenaltyPayments *MockPenaltyPaymentRepository
	Transactions    *MockTransactionRepository
	Fund            *MockFundRepository
	Distributions   *MockDistributionRepository
	Deadlines       *MockDeadlineRepository

	// TxOptions records the options of every InTx call
	TxOptions []*sql.TxOptions
}

func NewStore() *Store {
	return &Store{
		Members:         &MockMemberRepository{},
		Deposits:        &MockDepositRepository{},
		SharePayments:   &MockSharePaymentRepository{},
		Loans:           &MockLoanRepository{},
		LoanPayments:    &MockLoanPaymentRepository{},
		Penalties:       &MockPenaltyRepository{},
		PenaltyPayments: &MockPenaltyPaymentRepository{},
		Transactions:    &MockTransactionRepository{},
		Fund:            &MockFundRepository{},
		Distributions:   &MockDistributionRepository{},
		Deadlines:       &MockDeadlineRepository{},
	}
}

func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Members:         s.Members,
		Deposits:        s.Deposits,
		SharePayments:   s.SharePayments,
		Loans:           s.Loans,
		LoanPayments:    s.LoanPayments,
		Penalties:       s.Penalties,
		PenaltyPayments: s.PenaltyPayments,
		Transactions:    s.Transactions,
		Fund:            s.Fund,
		Distributions:   s.Distributions,
		Deadlines:       s.Deadlines,
	}
}

func (s *Store) InTx(ctx context.Context, opts *sql.TxOptions, fn func(repository.Repositories) error) error {
	s.TxOptions = append(s.TxOptions, opts)
	return fn(s.Repositories())
}

// AssertExpectations asserts the expectations of every repository mock
func (s *Store) AssertExpectations(t *testing.T) {
	t.Helper()
	for _, m := range []interface{ AssertExpectations(mock.TestingT) bool }{
		s.Members, s.Deposits, s.SharePayments, s.Loans, s.LoanPayments, s.Penalties,
		s.PenaltyPayments, s.Transactions, s.Fund, s.Distributions, s.Deadlines,
	} {
		m.AssertExpectations(t)
	}
}
