package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/segyhp/tontine-ledger/internal/domain"
	"github.com/segyhp/tontine-ledger/internal/metrics"
	"github.com/segyhp/tontine-ledger/internal/repository"
	customError "github.com/segyhp/tontine-ledger/pkg/errors"
	"github.com/segyhp/tontine-ledger/pkg/utils"

	"github.com/shopspring/decimal"
)

// AccruePenalties materializes late share and late loan penalties as of the calendar date of asOf.
// Running it again for the same date leaves every penalty unchanged.
func (s *LedgerService) AccruePenalties(ctx context.Context, asOf time.Time) (*domain.AccrualReport, error) {
	today := utils.DateOf(asOf, s.loc)
	report := &domain.AccrualReport{AsOf: today}

	err := s.store.InTx(ctx, serializable, func(repos repository.Repositories) error {
		report.Created = 0
		report.Updated = 0

		if err := s.accrueSharePenalties(ctx, repos, today, report); err != nil {
			return err
		}
		return s.accrueLoanPenalties(ctx, repos, today, report)
	})
	if err != nil {
		return nil, s.finish("accrue_penalties", err)
	}

	metrics.PenaltiesAccrued.WithLabelValues("created").Add(float64(report.Created))
	metrics.PenaltiesAccrued.WithLabelValues("updated").Add(float64(report.Updated))

	s.logger.Info().
		Str("as_of", today.Format("2006-01-02")).
		Int("created", report.Created).
		Int("updated", report.Updated).
		Msg("penalties accrued")

	return report, s.finish("accrue_penalties", nil)
}

func (s *LedgerService) accrueSharePenalties(ctx context.Context, repos repository.Repositories, today time.Time, report *domain.AccrualReport) error {
	deadlines, err := repos.Deadlines.ListUpTo(ctx, utils.StartOfMonth(today))
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	var members []*domain.Member
	for _, deadline := range deadlines {
		deadlineDate := deadline.DeadlineDate(s.loc)
		if !deadlineDate.Before(today) {
			continue
		}

		if members == nil {
			members, err = repos.Members.ListCommittedForUpdate(ctx)
			if err != nil {
				return customError.WrapDatabaseError(err)
			}
			if len(members) == 0 {
				return nil
			}
		}

		paid, err := repos.SharePayments.SharesPaidByMember(ctx, deadline.Month)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		daysLate := max(1, utils.DaysBetween(deadlineDate, today))
		for _, member := range members {
			missing := member.CommittedShares - paid[member.ID]
			if missing <= 0 {
				continue
			}

			amount := utils.PenaltyForShares(daysLate, missing)
			description := domain.LateShareDescription(missing, daysLate)
			if err := s.upsertPenalty(ctx, repos, member.ID, domain.PenaltyTypeLateDeposit, deadlineDate, amount, daysLate, description, report); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *LedgerService) accrueLoanPenalties(ctx context.Context, repos repository.Repositories, today time.Time, report *domain.AccrualReport) error {
	loans, err := repos.Loans.ListOverdueForUpdate(ctx, today)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	for _, loan := range loans {
		if loan.DueDate == nil {
			continue
		}

		dueDate := utils.DateOf(*loan.DueDate, s.loc)
		if !today.After(dueDate) {
			continue
		}

		daysLate := max(1, utils.DaysBetween(dueDate, today))
		amount := utils.PenaltyForDaysLate(daysLate)
		description := domain.LateLoanDescription(loan.ID, daysLate)
		if err := s.upsertPenalty(ctx, repos, loan.MemberID, domain.PenaltyTypeLateLoanRepayment, dueDate, amount, daysLate, description, report); err != nil {
			return err
		}
	}
	return nil
}

// upsertPenalty keeps one unpaid penalty per member, type and original due date
func (s *LedgerService) upsertPenalty(
	ctx context.Context,
	repos repository.Repositories,
	memberID int64,
	penaltyType string,
	dueDate time.Time,
	amount decimal.Decimal,
	daysLate int,
	description string,
	report *domain.AccrualReport,
) error {
	existing, err := repos.Penalties.FindUnpaid(ctx, memberID, penaltyType, dueDate)
	switch {
	case err == nil:
		if existing.Amount.Equal(amount) {
			return nil
		}

		existing.Amount = amount
		existing.DaysLate = daysLate
		existing.Description = description
		if err := repos.Penalties.UpdateAmount(ctx, existing); err != nil {
			return customError.WrapDatabaseError(err)
		}

		reference := domain.Reference(domain.RefFine, existing.ID)
		if err := repos.Transactions.UpdateAmountByReference(ctx, domain.TransactionTypePenalty, reference, amount, description); err != nil {
			return customError.WrapDatabaseError(err)
		}
		report.Updated++
		return nil

	case errors.Is(err, sql.ErrNoRows):
		penalty := &domain.Penalty{
			MemberID:        memberID,
			PenaltyType:     penaltyType,
			Amount:          amount,
			DaysLate:        daysLate,
			OriginalDueDate: dueDate,
			Description:     description,
		}
		if err := repos.Penalties.Create(ctx, penalty); err != nil {
			return customError.WrapDatabaseError(err)
		}

		txn := &domain.Transaction{
			MemberID:        memberID,
			TransactionType: domain.TransactionTypePenalty,
			Amount:          amount,
			Status:          domain.TransactionStatusPending,
			ReferenceID:     domain.Reference(domain.RefFine, penalty.ID),
			Description:     description,
		}
		if err := repos.Transactions.Create(ctx, txn); err != nil {
			return customError.WrapDatabaseError(err)
		}
		report.Created++
		return nil

	default:
		return customError.WrapDatabaseError(err)
	}
}
