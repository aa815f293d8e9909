package service

import (
	"context"
	"time"

	"github.com/segyhp/tontine-ledger/internal/domain"
	"github.com/segyhp/tontine-ledger/internal/metrics"
	"github.com/segyhp/tontine-ledger/internal/repository"
	customError "github.com/segyhp/tontine-ledger/pkg/errors"
)

// refreshFund locks the fund row and rewrites it from the current ledger snapshot
func (s *LedgerService) refreshFund(ctx context.Context, repos repository.Repositories, now time.Time) (*domain.CollectiveFund, error) {
	if _, err := repos.Fund.LockForUpdate(ctx); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	snapshot, err := repos.Fund.Snapshot(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	fund := domain.ComputeFund(*snapshot, now)
	if err := repos.Fund.Save(ctx, fund); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return fund, nil
}

// UpdateTotals recomputes the collective fund from the ledger
func (s *LedgerService) UpdateTotals(ctx context.Context) (*domain.CollectiveFund, error) {
	var fund *domain.CollectiveFund
	err := s.store.InTx(ctx, nil, func(repos repository.Repositories) error {
		var err error
		fund, err = s.refreshFund(ctx, repos, s.now())
		return err
	})
	if err != nil {
		return nil, s.finish("update_totals", err)
	}

	metrics.SetFund(fund.TotalAmount, fund.AvailableAmount, fund.TotalLoansOutstanding, fund.AvailableProfit)
	return fund, s.finish("update_totals", nil)
}
