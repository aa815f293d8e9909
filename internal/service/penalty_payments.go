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

// SubmitPenaltyPayment records a member's settlement of a penalty, pending approval
func (s *LedgerService) SubmitPenaltyPayment(ctx context.Context, request *domain.SubmitPenaltyPaymentRequest) (*domain.PenaltyPayment, error) {
	if err := evidence.Validate(request.Evidence); err != nil {
		return nil, s.finish("submit_penalty_payment", customError.WrapInvalidEvidence(err))
	}
	if !request.Amount.IsPositive() {
		return nil, s.finish("submit_penalty_payment", customError.WrapInvalidAmount())
	}

	var payment *domain.PenaltyPayment
	err := s.store.InTx(ctx, nil, func(repos repository.Repositories) error {
		penalty, err := repos.Penalties.GetByIDForUpdate(ctx, request.PenaltyID)
		if err != nil {
			return lookupError("Penalty", request.PenaltyID, err)
		}
		if penalty.MemberID != request.MemberID {
			return customError.WrapNotFound("Penalty", request.PenaltyID)
		}
		if penalty.IsPaid {
			return customError.WrapPenaltyAlreadyPaid(penalty.ID)
		}

		pending, err := repos.PenaltyPayments.HasPending(ctx, penalty.ID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		if pending {
			return customError.WrapDuplicatePendingPayment("Penalty", penalty.ID)
		}

		amount := utils.Quantize(request.Amount)
		if !amount.Equal(utils.Quantize(penalty.Amount)) {
			return customError.WrapAmountMismatch(penalty.Amount, amount)
		}

		payment = &domain.PenaltyPayment{
			PenaltyID: penalty.ID,
			MemberID:  penalty.MemberID,
			Amount:    amount,
			Evidence:  request.Evidence.Key(),
			Status:    domain.PaymentStatusPending,
		}
		if err := repos.PenaltyPayments.Create(ctx, payment); err != nil {
			return customError.WrapDatabaseError(err)
		}

		txn := &domain.Transaction{
			MemberID:        penalty.MemberID,
			TransactionType: domain.TransactionTypePenaltyPayment,
			Amount:          amount,
			Status:          domain.TransactionStatusPending,
			ReferenceID:     domain.Reference(domain.RefPenaltyPayment, payment.ID),
			Description:     fmt.Sprintf("Payment for penalty %d", penalty.ID),
		}
		if err := repos.Transactions.Create(ctx, txn); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, s.finish("submit_penalty_payment", err)
	}

	return payment, s.finish("submit_penalty_payment", nil)
}

// ApprovePenaltyPayment marks the penalty paid and completes both ledger entries
func (s *LedgerService) ApprovePenaltyPayment(ctx context.Context, paymentID, approverID int64) (*domain.PenaltyPayment, error) {
	now := s.now()

	var payment *domain.PenaltyPayment
	err := s.store.InTx(ctx, nil, func(repos repository.Repositories) error {
		var err error
		payment, err = repos.PenaltyPayments.GetByIDForUpdate(ctx, paymentID)
		if err != nil {
			return lookupError("Penalty payment", paymentID, err)
		}
		if payment.Status != domain.PaymentStatusPending {
			return customError.WrapPaymentProcessed(payment.ID, strings.ToLower(payment.Status))
		}

		penalty, err := repos.Penalties.GetByIDForUpdate(ctx, payment.PenaltyID)
		if err != nil {
			return lookupError("Penalty", payment.PenaltyID, err)
		}
		if penalty.IsPaid {
			return customError.WrapPenaltyAlreadyPaid(penalty.ID)
		}

		payment.Status = domain.PaymentStatusApproved
		payment.ApprovedBy = &approverID
		payment.ApprovalDate = &now
		if err := repos.PenaltyPayments.UpdateDecision(ctx, payment); err != nil {
			return customError.WrapDatabaseError(err)
		}

		if err := repos.Penalties.MarkPaid(ctx, penalty.ID, now); err != nil {
			return customError.WrapDatabaseError(err)
		}

		if err := repos.Transactions.UpdateStatusByReference(ctx, domain.TransactionTypePenaltyPayment,
			domain.Reference(domain.RefPenaltyPayment, payment.ID), domain.TransactionStatusCompleted); err != nil {
			return customError.WrapDatabaseError(err)
		}
		if err := repos.Transactions.UpdateStatusByReference(ctx, domain.TransactionTypePenalty,
			domain.Reference(domain.RefFine, penalty.ID), domain.TransactionStatusCompleted); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, s.finish("approve_penalty_payment", err)
	}

	s.notifyMember(ctx, payment.MemberID, "Penalty payment approved",
		fmt.Sprintf("Your payment of %s for penalty %d has been approved.", payment.Amount.StringFixed(2), payment.PenaltyID))

	return payment, s.finish("approve_penalty_payment", nil)
}

// RejectPenaltyPayment closes a pending penalty payment; the penalty stays unpaid
func (s *LedgerService) RejectPenaltyPayment(ctx context.Context, paymentID, rejecterID int64, reason string) (*domain.PenaltyPayment, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, s.finish("reject_penalty_payment", customError.WrapReasonRequired())
	}

	var payment *domain.PenaltyPayment
	err := s.store.InTx(ctx, nil, func(repos repository.Repositories) error {
		var err error
		payment, err = repos.PenaltyPayments.GetByIDForUpdate(ctx, paymentID)
		if err != nil {
			return lookupError("Penalty payment", paymentID, err)
		}
		if payment.Status != domain.PaymentStatusPending {
			return customError.WrapPaymentProcessed(payment.ID, strings.ToLower(payment.Status))
		}

		payment.Status = domain.PaymentStatusRejected
		payment.RejectedBy = &rejecterID
		payment.RejectionReason = reason
		if err := repos.PenaltyPayments.UpdateDecision(ctx, payment); err != nil {
			return customError.WrapDatabaseError(err)
		}

		if err := repos.Transactions.UpdateStatusByReference(ctx, domain.TransactionTypePenaltyPayment,
			domain.Reference(domain.RefPenaltyPayment, payment.ID), domain.TransactionStatusRejected); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, s.finish("reject_penalty_payment", err)
	}

	s.notifyMember(ctx, payment.MemberID, "Penalty payment rejected",
		fmt.Sprintf("Your payment for penalty %d was rejected: %s", payment.PenaltyID, reason))

	return payment, s.finish("reject_penalty_payment", nil)
}
