package service

import (
	"context"
	"fmt"
	"time"

	"github.com/segyhp/tontine-ledger/internal/domain"
	"github.com/segyhp/tontine-ledger/internal/metrics"
	"github.com/segyhp/tontine-ledger/internal/repository"
	customError "github.com/segyhp/tontine-ledger/pkg/errors"
	"github.com/segyhp/tontine-ledger/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DistributeProfits pays the fund's available profit out to members pro rata to their committed shares.
// At most one run is recorded per calendar month.
func (s *LedgerService) DistributeProfits(ctx context.Context, asOf time.Time) (*domain.DistributionReport, error) {
	monthStart := utils.StartOfMonth(utils.DateOf(asOf, s.loc))
	monthEnd := monthStart.AddDate(0, 1, 0)
	now := s.now()

	report := &domain.DistributionReport{}
	err := s.store.InTx(ctx, serializable, func(repos repository.Repositories) error {
		*report = domain.DistributionReport{PerShare: decimal.Zero, TotalPaid: decimal.Zero}

		fund, err := s.refreshFund(ctx, repos, now)
		if err != nil {
			return err
		}
		report.AvailableProfit = fund.AvailableProfit

		exists, err := repos.Distributions.ExistsBetween(ctx, monthStart, monthEnd)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		if exists {
			report.Outcome = domain.DistributionOutcomeAlreadyDistributed
			return nil
		}

		if !fund.AvailableProfit.IsPositive() {
			report.Outcome = domain.DistributionOutcomeNoProfit
			return nil
		}

		members, err := repos.Members.ListCommittedForUpdate(ctx)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		if len(members) == 0 {
			report.Outcome = domain.DistributionOutcomeNoMembers
			return nil
		}

		byID := make(map[int64]*domain.Member, len(members))
		shares := make(map[int64]int, len(members))
		order := make([]int64, 0, len(members))
		for _, member := range members {
			byID[member.ID] = member
			shares[member.ID] = member.CommittedShares
			order = append(order, member.ID)
		}

		perShare, payouts := domain.SplitProfit(fund.AvailableProfit, shares, order)
		runID := uuid.New()
		total := decimal.Zero

		for _, payout := range payouts {
			distribution := &domain.ProfitDistribution{
				RunID:             runID,
				MemberID:          payout.MemberID,
				TotalAmount:       payout.Amount,
				PerShareAmount:    perShare,
				SharesDistributed: payout.Shares,
				Source:            domain.DistributionSource,
				DistributionDate:  asOf,
			}
			if err := repos.Distributions.Create(ctx, distribution); err != nil {
				return customError.WrapDatabaseError(err)
			}

			txn := &domain.Transaction{
				MemberID:        payout.MemberID,
				TransactionType: domain.TransactionTypeProfitDistribution,
				Amount:          payout.Amount,
				Status:          domain.TransactionStatusCompleted,
				ReferenceID:     domain.Reference(domain.RefProfit, distribution.ID),
				Description:     fmt.Sprintf("Profit share: %d shares", payout.Shares),
			}
			if err := repos.Transactions.Create(ctx, txn); err != nil {
				return customError.WrapDatabaseError(err)
			}

			member := byID[payout.MemberID]
			member.TotalSavings = utils.Quantize(member.TotalSavings.Add(payout.Amount))
			member.Recompute()
			if err := repos.Members.Update(ctx, member); err != nil {
				return customError.WrapDatabaseError(err)
			}

			total = total.Add(payout.Amount)
		}

		summary := &domain.ProfitDistributionSummary{
			RunID:            runID,
			TotalAmount:      total,
			MembersPaid:      len(payouts),
			Source:           domain.DistributionSource,
			DistributionDate: asOf,
		}
		if err := repos.Distributions.CreateSummary(ctx, summary); err != nil {
			return customError.WrapDatabaseError(err)
		}

		if _, err := s.refreshFund(ctx, repos, now); err != nil {
			return err
		}

		report.Outcome = domain.DistributionOutcomeDistributed
		report.RunID = runID
		report.MembersPaid = len(payouts)
		report.PerShare = perShare
		report.TotalPaid = total
		return nil
	})
	if err != nil {
		return nil, s.finish("distribute_profits", err)
	}

	if report.Outcome == domain.DistributionOutcomeDistributed {
		metrics.ProfitDistributed.Add(report.TotalPaid.InexactFloat64())
	}

	s.logger.Info().
		Str("month", monthStart.Format("2006-01")).
		Str("outcome", report.Outcome).
		Int("members_paid", report.MembersPaid).
		Str("total_paid", report.TotalPaid.StringFixed(2)).
		Msg("profit distribution finished")

	return report, s.finish("distribute_profits", nil)
}
