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

// RequestLoan opens a loan request against the member's savings
func (s *LedgerService) RequestLoan(ctx context.Context, request *domain.RequestLoanRequest) (*domain.Loan, error) {
	if !request.Amount.IsPositive() {
		return nil, s.finish("request_loan", customError.WrapInvalidAmount())
	}

	loan, ok := domain.NewLoanRequest(request.MemberID, request.Amount, request.Duration, s.now())
	if !ok {
		return nil, s.finish("request_loan", customError.WrapInvalidDuration(request.Duration))
	}

	err := s.store.InTx(ctx, nil, func(repos repository.Repositories) error {
		member, err := repos.Members.GetByIDForUpdate(ctx, request.MemberID)
		if err != nil {
			return lookupError("Member", request.MemberID, err)
		}

		open, err := repos.Loans.HasOpen(ctx, member.ID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		if open {
			return customError.WrapDuplicateActiveLoan(member.ID)
		}

		if loan.Amount.GreaterThan(member.TotalSavings) {
			return customError.WrapExceedsSavings(loan.Amount, member.TotalSavings)
		}

		if err := repos.Loans.Create(ctx, loan); err != nil {
			return customError.WrapDatabaseError(err)
		}

		txn := &domain.Transaction{
			MemberID:        member.ID,
			TransactionType: domain.TransactionTypeLoanRequest,
			Amount:          loan.Amount,
			Status:          domain.TransactionStatusPending,
			ReferenceID:     domain.Reference(domain.RefLoan, loan.ID),
			Description:     fmt.Sprintf("Loan request: %d months at %s%%", loan.Duration, loan.InterestRate.String()),
		}
		if err := repos.Transactions.Create(ctx, txn); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, s.finish("request_loan", err)
	}

	return loan, s.finish("request_loan", nil)
}

// ApproveLoan approves a requested loan if the pool can cover it
func (s *LedgerService) ApproveLoan(ctx context.Context, loanID, approverID int64) (*domain.Loan, error) {
	now := s.now()

	var loan *domain.Loan
	err := s.store.InTx(ctx, nil, func(repos repository.Repositories) error {
		var err error
		loan, err = repos.Loans.GetByIDForUpdate(ctx, loanID)
		if err != nil {
			return lookupError("Loan", loanID, err)
		}
		if loan.Status != domain.LoanStatusRequested {
			return customError.WrapInvalidLoanState(loan.ID, strings.ToLower(loan.Status))
		}

		fund, err := s.refreshFund(ctx, repos, now)
		if err != nil {
			return err
		}
		if loan.Amount.GreaterThan(fund.AvailableAmount) {
			return customError.WrapInsufficientPool(loan.Amount, fund.AvailableAmount)
		}

		loan.Status = domain.LoanStatusApproved
		loan.ApprovedBy = &approverID
		loan.ApprovalDate = &now
		if err := repos.Loans.Update(ctx, loan); err != nil {
			return customError.WrapDatabaseError(err)
		}

		reference := domain.Reference(domain.RefLoan, loan.ID)
		if err := repos.Transactions.UpdateStatusByReference(ctx, domain.TransactionTypeLoanRequest, reference, domain.TransactionStatusCompleted); err != nil {
			return customError.WrapDatabaseError(err)
		}

		txn := &domain.Transaction{
			MemberID:        loan.MemberID,
			TransactionType: domain.TransactionTypeLoanApproval,
			Amount:          loan.Amount,
			Status:          domain.TransactionStatusCompleted,
			ReferenceID:     reference,
			Description:     fmt.Sprintf("Loan approved: total due %s", loan.TotalAmount.StringFixed(2)),
		}
		if err := repos.Transactions.Create(ctx, txn); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, s.finish("approve_loan", err)
	}

	s.notifyMember(ctx, loan.MemberID, "Loan approved",
		fmt.Sprintf("Your loan of %s has been approved.", loan.Amount.StringFixed(2)))

	return loan, s.finish("approve_loan", nil)
}

// RejectLoan closes a requested loan with a reason
func (s *LedgerService) RejectLoan(ctx context.Context, loanID, rejecterID int64, reason string) (*domain.Loan, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, s.finish("reject_loan", customError.WrapReasonRequired())
	}

	var loan *domain.Loan
	err := s.store.InTx(ctx, nil, func(repos repository.Repositories) error {
		var err error
		loan, err = repos.Loans.GetByIDForUpdate(ctx, loanID)
		if err != nil {
			return lookupError("Loan", loanID, err)
		}
		if loan.Status != domain.LoanStatusRequested {
			return customError.WrapInvalidLoanState(loan.ID, strings.ToLower(loan.Status))
		}

		loan.Status = domain.LoanStatusRejected
		loan.RejectedBy = &rejecterID
		loan.RejectionReason = reason
		if err := repos.Loans.Update(ctx, loan); err != nil {
			return customError.WrapDatabaseError(err)
		}

		reference := domain.Reference(domain.RefLoan, loan.ID)
		if err := repos.Transactions.UpdateStatusByReference(ctx, domain.TransactionTypeLoanRequest, reference, domain.TransactionStatusRejected); err != nil {
			return customError.WrapDatabaseError(err)
		}

		txn := &domain.Transaction{
			MemberID:        loan.MemberID,
			TransactionType: domain.TransactionTypeLoanRejection,
			Amount:          loan.Amount,
			Status:          domain.TransactionStatusRejected,
			ReferenceID:     reference,
			Description:     fmt.Sprintf("Loan rejected: %s", reason),
		}
		if err := repos.Transactions.Create(ctx, txn); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, s.finish("reject_loan", err)
	}

	s.notifyMember(ctx, loan.MemberID, "Loan rejected",
		fmt.Sprintf("Your loan request of %s was rejected: %s", loan.Amount.StringFixed(2), reason))

	return loan, s.finish("reject_loan", nil)
}

// DisburseLoan hands out an approved loan and fixes its due date
func (s *LedgerService) DisburseLoan(ctx context.Context, loanID, disburserID int64) (*domain.Loan, error) {
	now := s.now()

	var loan *domain.Loan
	err := s.store.InTx(ctx, nil, func(repos repository.Repositories) error {
		var err error
		loan, err = repos.Loans.GetByIDForUpdate(ctx, loanID)
		if err != nil {
			return lookupError("Loan", loanID, err)
		}
		if loan.Status != domain.LoanStatusApproved {
			return customError.WrapInvalidLoanState(loan.ID, strings.ToLower(loan.Status))
		}

		dueDate := utils.LoanDueDate(now, loan.Duration)
		loan.Status = domain.LoanStatusDisbursed
		loan.DisbursementDate = &now
		loan.DisbursedBy = &disburserID
		loan.DueDate = &dueDate
		if err := repos.Loans.Update(ctx, loan); err != nil {
			return customError.WrapDatabaseError(err)
		}

		txn := &domain.Transaction{
			MemberID:        loan.MemberID,
			TransactionType: domain.TransactionTypeLoanDisbursement,
			Amount:          loan.Amount,
			Status:          domain.TransactionStatusCompleted,
			ReferenceID:     domain.Reference(domain.RefLoan, loan.ID),
			Description:     fmt.Sprintf("Loan disbursed, due %s", dueDate.In(s.loc).Format("2006-01-02")),
		}
		if err := repos.Transactions.Create(ctx, txn); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, s.finish("disburse_loan", err)
	}

	s.notifyMember(ctx, loan.MemberID, "Loan disbursed",
		fmt.Sprintf("Your loan of %s has been disbursed. %s is due by %s.",
			loan.Amount.StringFixed(2), loan.TotalAmount.StringFixed(2), loan.DueDate.In(s.loc).Format("2006-01-02")))

	return loan, s.finish("disburse_loan", nil)
}

// RecordLoanPayment submits a repayment for approval
func (s *LedgerService) RecordLoanPayment(ctx context.Context, request *domain.RecordLoanPaymentRequest) (*domain.LoanPayment, error) {
	if err := evidence.Validate(request.Evidence); err != nil {
		return nil, s.finish("record_loan_payment", customError.WrapInvalidEvidence(err))
	}
	if !request.Amount.IsPositive() {
		return nil, s.finish("record_loan_payment", customError.WrapInvalidAmount())
	}

	now := s.now()

	var payment *domain.LoanPayment
	err := s.store.InTx(ctx, nil, func(repos repository.Repositories) error {
		loan, err := repos.Loans.GetByIDForUpdate(ctx, request.LoanID)
		if err != nil {
			return lookupError("Loan", request.LoanID, err)
		}
		if loan.MemberID != request.MemberID {
			return customError.WrapNotFound("Loan", request.LoanID)
		}
		if !loan.InRepayment() {
			return customError.WrapInvalidLoanState(loan.ID, strings.ToLower(loan.Status))
		}

		amount := utils.Quantize(request.Amount)
		penalty := loan.PenaltyAt(now)
		if amount.GreaterThan(loan.RemainingBalance.Add(penalty)) {
			return customError.WrapExceedsAmountDue(amount, loan.RemainingBalance, penalty)
		}

		payment = &domain.LoanPayment{
			LoanID:      loan.ID,
			Amount:      amount,
			PaymentDate: now,
			Evidence:    request.Evidence.Key(),
			Status:      domain.PaymentStatusPending,
		}
		if err := repos.LoanPayments.Create(ctx, payment); err != nil {
			return customError.WrapDatabaseError(err)
		}

		if loan.Status == domain.LoanStatusDisbursed {
			loan.Status = domain.LoanStatusActive
			if err := repos.Loans.Update(ctx, loan); err != nil {
				return customError.WrapDatabaseError(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.finish("record_loan_payment", err)
	}

	return payment, s.finish("record_loan_payment", nil)
}

// ApproveLoanPayment applies a pending repayment to the loan balance
func (s *LedgerService) ApproveLoanPayment(ctx context.Context, paymentID, approverID int64) (*domain.LoanPayment, error) {
	now := s.now()

	var payment *domain.LoanPayment
	var loan *domain.Loan
	err := s.store.InTx(ctx, nil, func(repos repository.Repositories) error {
		var err error
		payment, err = repos.LoanPayments.GetByIDForUpdate(ctx, paymentID)
		if err != nil {
			return lookupError("Loan payment", paymentID, err)
		}
		if payment.Status != domain.PaymentStatusPending {
			return customError.WrapPaymentProcessed(payment.ID, strings.ToLower(payment.Status))
		}

		loan, err = repos.Loans.GetByIDForUpdate(ctx, payment.LoanID)
		if err != nil {
			return lookupError("Loan", payment.LoanID, err)
		}

		payment.Status = domain.PaymentStatusApproved
		payment.ApprovedBy = &approverID
		payment.ApprovalDate = &now
		if err := repos.LoanPayments.UpdateDecision(ctx, payment); err != nil {
			return customError.WrapDatabaseError(err)
		}

		loan.ApplyPayment(payment.Amount, now)
		if err := repos.Loans.Update(ctx, loan); err != nil {
			return customError.WrapDatabaseError(err)
		}

		txn := &domain.Transaction{
			MemberID:        loan.MemberID,
			TransactionType: domain.TransactionTypeLoanPayment,
			Amount:          payment.Amount,
			Status:          domain.TransactionStatusCompleted,
			ReferenceID:     domain.Reference(domain.RefLoanPayment, payment.ID),
			Description:     fmt.Sprintf("Loan %d repayment, balance %s", loan.ID, loan.RemainingBalance.StringFixed(2)),
		}
		if err := repos.Transactions.Create(ctx, txn); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, s.finish("approve_loan_payment", err)
	}

	if loan.Status == domain.LoanStatusRepaid {
		s.notifyMember(ctx, loan.MemberID, "Loan repaid",
			fmt.Sprintf("Your loan %d is fully repaid.", loan.ID))
	}

	return payment, s.finish("approve_loan_payment", nil)
}

// RejectLoanPayment closes a pending repayment without touching the loan
func (s *LedgerService) RejectLoanPayment(ctx context.Context, paymentID, rejecterID int64, reason string) (*domain.LoanPayment, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, s.finish("reject_loan_payment", customError.WrapReasonRequired())
	}

	var payment *domain.LoanPayment
	err := s.store.InTx(ctx, nil, func(repos repository.Repositories) error {
		var err error
		payment, err = repos.LoanPayments.GetByIDForUpdate(ctx, paymentID)
		if err != nil {
			return lookupError("Loan payment", paymentID, err)
		}
		if payment.Status != domain.PaymentStatusPending {
			return customError.WrapPaymentProcessed(payment.ID, strings.ToLower(payment.Status))
		}

		payment.Status = domain.PaymentStatusRejected
		payment.RejectedBy = &rejecterID
		payment.RejectionReason = reason
		if err := repos.LoanPayments.UpdateDecision(ctx, payment); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, s.finish("reject_loan_payment", err)
	}

	return payment, s.finish("reject_loan_payment", nil)
}

// GetLoan returns a loan with its live overdue figures
func (s *LedgerService) GetLoan(ctx context.Context, loanID int64) (*domain.LoanView, error) {
	loan, err := s.store.Repositories().Loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, lookupError("Loan", loanID, err)
	}
	return loan.ViewAt(s.now()), nil
}
