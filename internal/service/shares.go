package service

import (
	"context"
	"time"

	"github.com/segyhp/tontine-ledger/internal/domain"
	"github.com/segyhp/tontine-ledger/internal/repository"
	customError "github.com/segyhp/tontine-ledger/pkg/errors"
	"github.com/segyhp/tontine-ledger/pkg/utils"
)

// ResetMonthlyShares starts a new share cycle for the month containing asOf:
// every member with committed shares owes all of them again.
func (s *LedgerService) ResetMonthlyShares(ctx context.Context, asOf time.Time) (*domain.ShareResetReport, error) {
	month := utils.StartOfMonth(utils.DateOf(asOf, s.loc))
	report := &domain.ShareResetReport{Month: month}

	err := s.store.InTx(ctx, serializable, func(repos repository.Repositories) error {
		report.MembersReset = 0
		report.DeadlineCreated = false

		members, err := repos.Members.ListCommittedForUpdate(ctx)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		for _, member := range members {
			member.PaidShares = 0
			member.Recompute()
			if err := repos.Members.Update(ctx, member); err != nil {
				return customError.WrapDatabaseError(err)
			}
			report.MembersReset++
		}

		created, err := repos.Deadlines.EnsureForMonth(ctx, month, s.config.Business.DefaultDeadlineDay)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		report.DeadlineCreated = created
		return nil
	})
	if err != nil {
		return nil, s.finish("reset_shares", err)
	}

	s.logger.Info().
		Str("month", month.Format("2006-01")).
		Int("members_reset", report.MembersReset).
		Bool("deadline_created", report.DeadlineCreated).
		Msg("monthly shares reset")

	return report, s.finish("reset_shares", nil)
}

// SetMonthlyDeadline sets the day of month by which the shares of month are due
func (s *LedgerService) SetMonthlyDeadline(ctx context.Context, month time.Time, day int) (*domain.MonthlyDeadline, error) {
	if day < 1 || day > 31 {
		return nil, s.finish("set_deadline", customError.WrapInvalidDeadlineDay(day))
	}

	deadline, err := s.store.Repositories().Deadlines.Upsert(ctx, utils.StartOfMonth(month), day)
	if err != nil {
		return nil, s.finish("set_deadline", customError.WrapDatabaseError(err))
	}
	return deadline, s.finish("set_deadline", nil)
}
