package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/tontine-ledger/internal/domain"
	"github.com/segyhp/tontine-ledger/internal/mocks"
	customError "github.com/segyhp/tontine-ledger/pkg/errors"
)

func saver(savings int64) *domain.Member {
	m := newMember(1, 2)
	m.TotalSavings = d(savings)
	return m
}

func TestRequestLoan(t *testing.T) {
	tests := []struct {
		name       string
		amount     decimal.Decimal
		duration   int
		setupMocks func(store *mocks.Store)
		wantKind   customError.Kind
		wantErr    error
	}{
		{
			name:     "success",
			amount:   d(100000),
			duration: 12,
			setupMocks: func(store *mocks.Store) {
				store.Members.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(saver(200000), nil)
				store.Loans.On("HasOpen", mock.Anything, int64(1)).Return(false, nil)
				store.Loans.On("Create", mock.Anything, mock.MatchedBy(func(l *domain.Loan) bool {
					return l.InterestAmount.Equal(d(10000)) && l.TotalAmount.Equal(d(110000)) &&
						l.RemainingBalance.Equal(d(110000)) && l.Status == domain.LoanStatusRequested
				})).Run(func(args mock.Arguments) {
					args.Get(1).(*domain.Loan).ID = 5
				}).Return(nil)
				store.Transactions.On("Create", mock.Anything, mock.MatchedBy(func(txn *domain.Transaction) bool {
					return txn.ReferenceID == "LOAN-5" &&
						txn.TransactionType == domain.TransactionTypeLoanRequest &&
						txn.Status == domain.TransactionStatusPending
				})).Return(nil)
			},
		},
		{
			name:     "duration not offered",
			amount:   d(100000),
			duration: 4,
			wantKind: customError.KindValidation,
			wantErr:  customError.ErrInvalidDuration,
		},
		{
			name:     "loan already open",
			amount:   d(100000),
			duration: 3,
			setupMocks: func(store *mocks.Store) {
				store.Members.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(saver(200000), nil)
				store.Loans.On("HasOpen", mock.Anything, int64(1)).Return(true, nil)
			},
			wantKind: customError.KindConflict,
			wantErr:  customError.ErrDuplicateActiveLoan,
		},
		{
			name:     "exceeds savings",
			amount:   d(250000),
			duration: 6,
			setupMocks: func(store *mocks.Store) {
				store.Members.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(saver(200000), nil)
				store.Loans.On("HasOpen", mock.Anything, int64(1)).Return(false, nil)
			},
			wantKind: customError.KindInsufficientFunds,
			wantErr:  customError.ErrExceedsSavings,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewStore()
			if tt.setupMocks != nil {
				tt.setupMocks(store)
			}
			svc := newTestService(store, time.Now())

			loan, err := svc.RequestLoan(context.Background(), &domain.RequestLoanRequest{
				MemberID: 1,
				Amount:   tt.amount,
				Duration: tt.duration,
			})

			if tt.wantKind != "" {
				assertKind(t, err, tt.wantKind)
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.Nil(t, loan)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(5), loan.ID)
			}
			store.AssertExpectations(t)
		})
	}
}

func TestApproveLoan(t *testing.T) {
	snapshot := &domain.FundSnapshot{
		TotalDeposits:    d(100000),
		OutstandingLoans: d(80000),
	}

	t.Run("insufficient pool", func(t *testing.T) {
		store := mocks.NewStore()
		svc := newTestService(store, time.Now())
		loan := &domain.Loan{ID: 5, MemberID: 1, Amount: d(50000), Status: domain.LoanStatusRequested}

		store.Loans.On("GetByIDForUpdate", mock.Anything, int64(5)).Return(loan, nil)
		store.Fund.On("LockForUpdate", mock.Anything).Return(&domain.CollectiveFund{ID: 1}, nil)
		store.Fund.On("Snapshot", mock.Anything).Return(snapshot, nil)
		store.Fund.On("Save", mock.Anything, mock.Anything).Return(nil)

		_, err := svc.ApproveLoan(context.Background(), 5, 9)

		assertKind(t, err, customError.KindInsufficientFunds)
		var be *customError.BusinessError
		require.True(t, errors.As(err, &be))
		assert.Contains(t, be.Message, "20000.00")
		assert.Equal(t, domain.LoanStatusRequested, loan.Status)
		store.Loans.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("approves and syncs the request entry", func(t *testing.T) {
		store := mocks.NewStore()
		svc := newTestService(store, time.Now())
		loan := &domain.Loan{ID: 5, MemberID: 1, Amount: d(20000), TotalAmount: d(21000), Status: domain.LoanStatusRequested}

		store.Loans.On("GetByIDForUpdate", mock.Anything, int64(5)).Return(loan, nil)
		store.Fund.On("LockForUpdate", mock.Anything).Return(&domain.CollectiveFund{ID: 1}, nil)
		store.Fund.On("Snapshot", mock.Anything).Return(snapshot, nil)
		store.Fund.On("Save", mock.Anything, mock.Anything).Return(nil)
		store.Loans.On("Update", mock.Anything, loan).Return(nil)
		store.Transactions.On("UpdateStatusByReference", mock.Anything,
			domain.TransactionTypeLoanRequest, "LOAN-5", domain.TransactionStatusCompleted).Return(nil)
		store.Transactions.On("Create", mock.Anything, mock.MatchedBy(func(txn *domain.Transaction) bool {
			return txn.TransactionType == domain.TransactionTypeLoanApproval && txn.ReferenceID == "LOAN-5"
		})).Return(nil)

		approved, err := svc.ApproveLoan(context.Background(), 5, 9)

		require.NoError(t, err)
		assert.Equal(t, domain.LoanStatusApproved, approved.Status)
		assert.Equal(t, int64(9), *approved.ApprovedBy)
		store.AssertExpectations(t)
	})

	t.Run("wrong state", func(t *testing.T) {
		store := mocks.NewStore()
		svc := newTestService(store, time.Now())
		store.Loans.On("GetByIDForUpdate", mock.Anything, int64(5)).
			Return(&domain.Loan{ID: 5, Status: domain.LoanStatusDisbursed}, nil)

		_, err := svc.ApproveLoan(context.Background(), 5, 9)

		assertKind(t, err, customError.KindConflict)
		assert.True(t, errors.Is(err, customError.ErrInvalidLoanState))
	})
}

func TestRejectLoan(t *testing.T) {
	store := mocks.NewStore()
	svc := newTestService(store, time.Now())
	loan := &domain.Loan{ID: 5, MemberID: 1, Amount: d(20000), Status: domain.LoanStatusRequested}

	store.Loans.On("GetByIDForUpdate", mock.Anything, int64(5)).Return(loan, nil)
	store.Loans.On("Update", mock.Anything, loan).Return(nil)
	store.Transactions.On("UpdateStatusByReference", mock.Anything,
		domain.TransactionTypeLoanRequest, "LOAN-5", domain.TransactionStatusRejected).Return(nil)
	store.Transactions.On("Create", mock.Anything, mock.MatchedBy(func(txn *domain.Transaction) bool {
		return txn.TransactionType == domain.TransactionTypeLoanRejection && txn.Description == "Loan rejected: savings too recent"
	})).Return(nil)

	rejected, err := svc.RejectLoan(context.Background(), 5, 9, "savings too recent")

	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusRejected, rejected.Status)
	assert.Equal(t, "savings too recent", rejected.RejectionReason)
	store.AssertExpectations(t)
}

func TestDisburseLoan_FixesDueDate(t *testing.T) {
	now := time.Date(2024, 1, 10, 14, 0, 0, 0, time.UTC)
	store := mocks.NewStore()
	svc := newTestService(store, now)
	loan := &domain.Loan{ID: 5, MemberID: 1, Amount: d(20000), Duration: 3, Status: domain.LoanStatusApproved}

	store.Loans.On("GetByIDForUpdate", mock.Anything, int64(5)).Return(loan, nil)
	store.Loans.On("Update", mock.Anything, loan).Return(nil)
	store.Transactions.On("Create", mock.Anything, mock.MatchedBy(func(txn *domain.Transaction) bool {
		return txn.TransactionType == domain.TransactionTypeLoanDisbursement && txn.Status == domain.TransactionStatusCompleted
	})).Return(nil)

	disbursed, err := svc.DisburseLoan(context.Background(), 5, 9)

	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusDisbursed, disbursed.Status)
	assert.Equal(t, now.AddDate(0, 0, 90), *disbursed.DueDate)
	assert.Equal(t, now, *disbursed.DisbursementDate)
	store.AssertExpectations(t)
}

func TestRecordLoanPayment(t *testing.T) {
	now := time.Date(2024, 4, 13, 12, 0, 0, 0, time.UTC)
	due := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)

	disbursed := func() *domain.Loan {
		dueDate := due
		return &domain.Loan{
			ID:               5,
			MemberID:         1,
			RemainingBalance: d(21000),
			Status:           domain.LoanStatusDisbursed,
			DueDate:          &dueDate,
		}
	}

	tests := []struct {
		name       string
		memberID   int64
		amount     decimal.Decimal
		setupMocks func(store *mocks.Store)
		wantKind   customError.Kind
		wantErr    error
	}{
		{
			name:     "activates a disbursed loan",
			memberID: 1,
			amount:   d(24000),
			setupMocks: func(store *mocks.Store) {
				store.Loans.On("GetByIDForUpdate", mock.Anything, int64(5)).Return(disbursed(), nil)
				store.LoanPayments.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.LoanPayment) bool {
					return p.Status == domain.PaymentStatusPending && p.Amount.Equal(d(24000))
				})).Return(nil)
				store.Loans.On("Update", mock.Anything, mock.MatchedBy(func(l *domain.Loan) bool {
					return l.Status == domain.LoanStatusActive
				})).Return(nil)
			},
		},
		{
			name:     "another member's loan",
			memberID: 2,
			amount:   d(1000),
			setupMocks: func(store *mocks.Store) {
				store.Loans.On("GetByIDForUpdate", mock.Anything, int64(5)).Return(disbursed(), nil)
			},
			wantKind: customError.KindNotFound,
			wantErr:  customError.ErrNotFound,
		},
		{
			name:     "more than balance plus live penalty",
			memberID: 1,
			amount:   d(24001),
			setupMocks: func(store *mocks.Store) {
				// three days late: 2000 + 2*500
				store.Loans.On("GetByIDForUpdate", mock.Anything, int64(5)).Return(disbursed(), nil)
			},
			wantKind: customError.KindValidation,
			wantErr:  customError.ErrExceedsAmountDue,
		},
		{
			name:     "loan not disbursed",
			memberID: 1,
			amount:   d(1000),
			setupMocks: func(store *mocks.Store) {
				store.Loans.On("GetByIDForUpdate", mock.Anything, int64(5)).
					Return(&domain.Loan{ID: 5, MemberID: 1, Status: domain.LoanStatusApproved}, nil)
			},
			wantKind: customError.KindConflict,
			wantErr:  customError.ErrInvalidLoanState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewStore()
			tt.setupMocks(store)
			svc := newTestService(store, now)

			payment, err := svc.RecordLoanPayment(context.Background(), &domain.RecordLoanPaymentRequest{
				LoanID:   5,
				MemberID: tt.memberID,
				Amount:   tt.amount,
				Evidence: slip(),
			})

			if tt.wantKind != "" {
				assertKind(t, err, tt.wantKind)
				assert.True(t, errors.Is(err, tt.wantErr))
				store.LoanPayments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, domain.PaymentStatusPending, payment.Status)
			}
			store.AssertExpectations(t)
		})
	}
}

func TestApproveLoanPayment_ClampsAtZero(t *testing.T) {
	tests := []struct {
		name        string
		remaining   decimal.Decimal
		payment     decimal.Decimal
		wantBalance decimal.Decimal
		wantStatus  string
	}{
		{name: "partial", remaining: d(21000), payment: d(1000), wantBalance: d(20000), wantStatus: domain.LoanStatusActive},
		{name: "exact", remaining: d(21000), payment: d(21000), wantBalance: decimal.Zero, wantStatus: domain.LoanStatusRepaid},
		{name: "over", remaining: d(21000), payment: d(24000), wantBalance: decimal.Zero, wantStatus: domain.LoanStatusRepaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := time.Date(2024, 4, 13, 12, 0, 0, 0, time.UTC)
			store := mocks.NewStore()
			svc := newTestService(store, now)

			loan := &domain.Loan{ID: 5, MemberID: 1, RemainingBalance: tt.remaining, Status: domain.LoanStatusActive}
			payment := &domain.LoanPayment{ID: 8, LoanID: 5, Amount: tt.payment, Status: domain.PaymentStatusPending}

			store.LoanPayments.On("GetByIDForUpdate", mock.Anything, int64(8)).Return(payment, nil)
			store.Loans.On("GetByIDForUpdate", mock.Anything, int64(5)).Return(loan, nil)
			store.LoanPayments.On("UpdateDecision", mock.Anything, payment).Return(nil)
			store.Loans.On("Update", mock.Anything, loan).Return(nil)
			store.Transactions.On("Create", mock.Anything, mock.MatchedBy(func(txn *domain.Transaction) bool {
				return txn.ReferenceID == "LPAY-8" && txn.TransactionType == domain.TransactionTypeLoanPayment
			})).Return(nil)

			approved, err := svc.ApproveLoanPayment(context.Background(), 8, 9)

			require.NoError(t, err)
			assert.Equal(t, domain.PaymentStatusApproved, approved.Status)
			assert.True(t, loan.RemainingBalance.Equal(tt.wantBalance), "balance %s", loan.RemainingBalance)
			assert.False(t, loan.RemainingBalance.IsNegative())
			assert.Equal(t, tt.wantStatus, loan.Status)
			if tt.wantStatus == domain.LoanStatusRepaid {
				require.NotNil(t, loan.CompletionDate)
				assert.Equal(t, now, *loan.CompletionDate)
			}
			store.AssertExpectations(t)
		})
	}
}

func TestRejectLoanPayment_AlreadyProcessed(t *testing.T) {
	store := mocks.NewStore()
	svc := newTestService(store, time.Now())
	store.LoanPayments.On("GetByIDForUpdate", mock.Anything, int64(8)).
		Return(&domain.LoanPayment{ID: 8, Status: domain.PaymentStatusApproved}, nil)

	_, err := svc.RejectLoanPayment(context.Background(), 8, 9, "duplicate slip")

	assertKind(t, err, customError.KindConflict)
	assert.True(t, errors.Is(err, customError.ErrPaymentProcessed))
}

func TestGetLoan_LiveFigures(t *testing.T) {
	now := time.Date(2024, 4, 13, 12, 0, 0, 0, time.UTC)
	due := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)
	store := mocks.NewStore()
	svc := newTestService(store, now)

	store.Loans.On("GetByID", mock.Anything, int64(5)).Return(&domain.Loan{
		ID: 5, RemainingBalance: d(21000), Status: domain.LoanStatusActive, DueDate: &due,
	}, nil)
	store.Loans.On("GetByID", mock.Anything, int64(6)).Return(nil, sql.ErrNoRows)

	view, err := svc.GetLoan(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, view.IsOverdue)
	assert.Equal(t, 3, view.DaysOverdue)
	assert.True(t, view.CurrentPenalty.Equal(d(3000)))
	assert.True(t, view.AmountDue.Equal(d(24000)))

	_, err = svc.GetLoan(context.Background(), 6)
	assertKind(t, err, customError.KindNotFound)
}
