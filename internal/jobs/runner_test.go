package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/tontine-ledger/internal/domain"
	customError "github.com/segyhp/tontine-ledger/pkg/errors"
)

type failingLocker struct {
	err error
}

func (l failingLocker) TryLock(ctx context.Context, name string, ttl time.Duration) (func(), bool, error) {
	return nil, false, l.err
}

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) ResetMonthlyShares(ctx context.Context, asOf time.Time) (*domain.ShareResetReport, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShareResetReport), args.Error(1)
}

func (m *mockLedger) DistributeProfits(ctx context.Context, asOf time.Time) (*domain.DistributionReport, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DistributionReport), args.Error(1)
}

func (m *mockLedger) AccruePenalties(ctx context.Context, asOf time.Time) (*domain.AccrualReport, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccrualReport), args.Error(1)
}

func TestLocalLocker(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	release, ok, err := locker.TryLock(ctx, AccruePenalties, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = locker.TryLock(ctx, AccruePenalties, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second holder must not get the lock")

	_, ok, _ = locker.TryLock(ctx, ResetShares, time.Minute)
	assert.True(t, ok, "locks are per job name")

	release()
	_, ok, _ = locker.TryLock(ctx, AccruePenalties, time.Minute)
	assert.True(t, ok)
}

func TestRunner_SkipsWhileLocked(t *testing.T) {
	locker := NewLocalLocker()
	runner := NewRunner(locker, time.Minute)

	release, ok, _ := locker.TryLock(context.Background(), DistributeProfits, time.Minute)
	require.True(t, ok)
	defer release()

	called := false
	outcome, err := runner.Run(context.Background(), DistributeProfits, func(ctx context.Context) (string, error) {
		called = true
		return "", nil
	})

	require.NoError(t, err)
	assert.False(t, called)
	assert.Equal(t, ResultSkipped, outcome.Result)
	assert.Contains(t, outcome.Summary, "skipped")
}

func TestRunner_LockBackendFailure(t *testing.T) {
	down := errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")
	runner := NewRunner(failingLocker{err: down}, time.Minute)

	called := false
	outcome, err := runner.Run(context.Background(), AccruePenalties, func(ctx context.Context) (string, error) {
		called = true
		return "", nil
	})

	assert.False(t, called)
	assert.Equal(t, ResultError, outcome.Result)
	assert.ErrorIs(t, err, down)
	assert.Equal(t, customError.KindInfrastructure, customError.KindOf(err))
	assert.Equal(t, customError.ErrCodeCacheError, err.(*customError.BusinessError).Code)
}

func TestRunner_ReleasesAfterFailure(t *testing.T) {
	runner := NewRunner(NewLocalLocker(), time.Minute)
	boom := errors.New("serialization failure")

	outcome, err := runner.Run(context.Background(), ResetShares, func(ctx context.Context) (string, error) {
		return "", boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, ResultError, outcome.Result)

	outcome, err = runner.Run(context.Background(), ResetShares, func(ctx context.Context) (string, error) {
		return "done", nil
	})
	require.NoError(t, err)
	assert.Equal(t, ResultSuccess, outcome.Result)
	assert.Equal(t, "done", outcome.Summary)
}

func TestLedgerJobs_Summaries(t *testing.T) {
	asOf := time.Date(2024, 4, 2, 3, 0, 0, 0, time.UTC)
	runID := uuid.MustParse("7f1c6a0e-2f4b-4a55-9b7e-3c1d2e4f5a6b")

	tests := []struct {
		name        string
		job         string
		setupMocks  func(*mockLedger)
		wantSummary string
		wantErr     bool
	}{
		{
			name: "reset shares",
			job:  ResetShares,
			setupMocks: func(l *mockLedger) {
				l.On("ResetMonthlyShares", mock.Anything, asOf).Return(&domain.ShareResetReport{
					Month:           time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
					MembersReset:    12,
					DeadlineCreated: true,
				}, nil)
			},
			wantSummary: "reset shares for 12 members in 2024-04 (deadline created: true)",
		},
		{
			name: "distribution",
			job:  DistributeProfits,
			setupMocks: func(l *mockLedger) {
				l.On("DistributeProfits", mock.Anything, asOf).Return(&domain.DistributionReport{
					Outcome:     domain.DistributionOutcomeDistributed,
					RunID:       runID,
					MembersPaid: 3,
					PerShare:    decimal.NewFromInt(10000),
					TotalPaid:   decimal.NewFromInt(100000),
				}, nil)
			},
			wantSummary: "distributed 100000.00 to 3 members (10000.00 per share, run 7f1c6a0e-2f4b-4a55-9b7e-3c1d2e4f5a6b)",
		},
		{
			name: "distribution no-op",
			job:  DistributeProfits,
			setupMocks: func(l *mockLedger) {
				l.On("DistributeProfits", mock.Anything, asOf).Return(&domain.DistributionReport{
					Outcome: domain.DistributionOutcomeAlreadyDistributed,
				}, nil)
			},
			wantSummary: "profit distribution skipped: already_distributed",
		},
		{
			name: "penalties",
			job:  AccruePenalties,
			setupMocks: func(l *mockLedger) {
				l.On("AccruePenalties", mock.Anything, asOf).Return(&domain.AccrualReport{
					AsOf:    time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
					Created: 2,
					Updated: 5,
				}, nil)
			},
			wantSummary: "penalties as of 2024-04-02: 2 created, 5 updated",
		},
		{
			name:       "unknown job",
			job:        "compact-ledger",
			setupMocks: func(l *mockLedger) {},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := new(mockLedger)
			tt.setupMocks(ledger)
			jobs := NewLedgerJobs(ledger, NewRunner(NewLocalLocker(), time.Minute))

			outcome, err := jobs.Run(context.Background(), tt.job, asOf)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, ResultError, outcome.Result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantSummary, outcome.Summary)
			}
			ledger.AssertExpectations(t)
		})
	}
}
