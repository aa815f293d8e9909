package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/segyhp/tontine-ledger/internal/domain"
	"github.com/segyhp/tontine-ledger/internal/evidence"
	"github.com/segyhp/tontine-ledger/internal/repository"
	customError "github.com/segyhp/tontine-ledger/pkg/errors"
	"github.com/segyhp/tontine-ledger/pkg/utils"
)

// SubmitDeposit records a member's payment of their remaining share balance, pending approval
func (s *LedgerService) SubmitDeposit(ctx context.Context, request *domain.SubmitDepositRequest) (*domain.Deposit, error) {
	if err := evidence.Validate(request.Evidence); err != nil {
		return nil, s.finish("submit_deposit", customError.WrapInvalidEvidence(err))
	}
	if !request.Amount.IsPositive() {
		return nil, s.finish("submit_deposit", customError.WrapInvalidAmount())
	}

	var deposit *domain.Deposit
	err := s.store.InTx(ctx, nil, func(repos repository.Repositories) error {
		member, err := repos.Members.GetByIDForUpdate(ctx, request.MemberID)
		if err != nil {
			return lookupError("Member", request.MemberID, err)
		}

		pending, err := repos.Deposits.HasPending(ctx, member.ID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		if pending {
			return customError.WrapDuplicatePendingDeposit(member.ID)
		}

		required := utils.Quantize(member.RemainingShareBalance)
		if !required.IsPositive() {
			return customError.WrapSharesAlreadyPaid(member.ID)
		}

		amount := utils.Quantize(request.Amount)
		if !amount.Equal(required) {
			return customError.WrapAmountMismatch(required, amount)
		}

		deposit = &domain.Deposit{
			MemberID: member.ID,
			Amount:   amount,
			Evidence: request.Evidence.Key(),
			Status:   domain.DepositStatusPending,
		}
		if err := repos.Deposits.Create(ctx, deposit); err != nil {
			if repository.IsUniqueViolation(err) {
				return customError.WrapDuplicatePendingDeposit(member.ID)
			}
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, s.finish("submit_deposit", err)
	}

	return deposit, s.finish("submit_deposit", nil)
}

// ApproveDeposit applies a pending deposit to the member's shares and savings
func (s *LedgerService) ApproveDeposit(ctx context.Context, depositID, approverID int64) (*domain.Deposit, error) {
	now := s.now()

	var deposit *domain.Deposit
	var sharesPaid int
	err := s.store.InTx(ctx, nil, func(repos repository.Repositories) error {
		var err error
		deposit, err = repos.Deposits.GetByIDForUpdate(ctx, depositID)
		if err != nil {
			return lookupError("Deposit", depositID, err)
		}
		if deposit.Status != domain.DepositStatusPending {
			return customError.WrapDepositProcessed(deposit.ID, strings.ToLower(deposit.Status))
		}

		member, err := repos.Members.GetByIDForUpdate(ctx, deposit.MemberID)
		if err != nil {
			return lookupError("Member", deposit.MemberID, err)
		}

		sharesPaid = member.RemainingShares()

		deposit.Status = domain.DepositStatusApproved
		deposit.ApprovedBy = &approverID
		deposit.ApprovalDate = &now
		if err := repos.Deposits.UpdateDecision(ctx, deposit); err != nil {
			return customError.WrapDatabaseError(err)
		}

		member.PaidShares += sharesPaid
		member.TotalSavings = utils.Quantize(member.TotalSavings.Add(deposit.Amount))
		member.Recompute()
		if err := repos.Members.Update(ctx, member); err != nil {
			return customError.WrapDatabaseError(err)
		}

		payment := &domain.MonthlySharePayment{
			MemberID:     member.ID,
			PaymentMonth: utils.StartOfMonth(utils.DateOf(now, s.loc)),
			SharesPaid:   sharesPaid,
			AmountPaid:   deposit.Amount,
			IsCompleted:  member.PaidShares >= member.CommittedShares,
			PaymentDate:  now,
		}
		if err := repos.SharePayments.Upsert(ctx, payment); err != nil {
			return customError.WrapDatabaseError(err)
		}

		txn := &domain.Transaction{
			MemberID:        member.ID,
			TransactionType: domain.TransactionTypeDeposit,
			Amount:          deposit.Amount,
			Status:          domain.TransactionStatusCompleted,
			ReferenceID:     domain.Reference(domain.RefDeposit, deposit.ID),
			Description:     fmt.Sprintf("Share deposit: %d shares", sharesPaid),
		}
		if err := repos.Transactions.Create(ctx, txn); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, s.finish("approve_deposit", err)
	}

	s.notifyMember(ctx, deposit.MemberID, "Deposit approved",
		fmt.Sprintf("Your deposit of %s for %d shares has been approved.", deposit.Amount.StringFixed(2), sharesPaid))

	return deposit, s.finish("approve_deposit", nil)
}

// RejectDeposit closes a pending deposit without touching any balance
func (s *LedgerService) RejectDeposit(ctx context.Context, depositID, rejecterID int64, reason string) (*domain.Deposit, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, s.finish("reject_deposit", customError.WrapReasonRequired())
	}

	now := s.now()

	var deposit *domain.Deposit
	err := s.store.InTx(ctx, nil, func(repos repository.Repositories) error {
		var err error
		deposit, err = repos.Deposits.GetByIDForUpdate(ctx, depositID)
		if err != nil {
			return lookupError("Deposit", depositID, err)
		}
		if deposit.Status != domain.DepositStatusPending {
			return customError.WrapDepositProcessed(deposit.ID, strings.ToLower(deposit.Status))
		}

		deposit.Status = domain.DepositStatusRejected
		deposit.RejectedBy = &rejecterID
		deposit.RejectionDate = &now
		deposit.RejectionReason = reason
		if err := repos.Deposits.UpdateDecision(ctx, deposit); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, s.finish("reject_deposit", err)
	}

	s.notifyMember(ctx, deposit.MemberID, "Deposit rejected",
		fmt.Sprintf("Your deposit of %s was rejected: %s", deposit.Amount.StringFixed(2), reason))

	return deposit, s.finish("reject_deposit", nil)
}
