package repository

import (
	"context"

	"github.com/segyhp/tontine-ledger/internal/domain"

	"github.com/jmoiron/sqlx"
)

type loanPaymentRepository struct {
	db sqlx.ExtContext
}

func (r *loanPaymentRepository) Create(ctx context.Context, payment *domain.LoanPayment) error {
	query := `
		INSERT INTO loan_payments (loan_id, amount, payment_date, evidence, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	return r.db.QueryRowxContext(ctx, query,
		payment.LoanID,
		payment.Amount,
		payment.PaymentDate,
		payment.Evidence,
		payment.Status,
	).Scan(&payment.ID, &payment.CreatedAt)
}

func (r *loanPaymentRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.LoanPayment, error) {
	query := `
		SELECT id, loan_id, amount, payment_date, evidence, status, approved_by, approval_date,
			rejected_by, rejection_reason, created_at
		FROM loan_payments
		WHERE id = $1
		FOR UPDATE
	`

	var payment domain.LoanPayment
	if err := sqlx.GetContext(ctx, r.db, &payment, query, id); err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *loanPaymentRepository) UpdateDecision(ctx context.Context, payment *domain.LoanPayment) error {
	query := `
		UPDATE loan_payments
		SET status = $2, approved_by = $3, approval_date = $4, rejected_by = $5, rejection_reason = $6
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.Status,
		payment.ApprovedBy,
		payment.ApprovalDate,
		payment.RejectedBy,
		payment.RejectionReason,
	)

	return err
}

type penaltyPaymentRepository struct {
	db sqlx.ExtContext
}

func (r *penaltyPaymentRepository) Create(ctx context.Context, payment *domain.PenaltyPayment) error {
	query := `
		INSERT INTO penalty_payments (penalty_id, member_id, amount, evidence, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	return r.db.QueryRowxContext(ctx, query,
		payment.PenaltyID,
		payment.MemberID,
		payment.Amount,
		payment.Evidence,
		payment.Status,
	).Scan(&payment.ID, &payment.CreatedAt)
}

func (r *penaltyPaymentRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.PenaltyPayment, error) {
	query := `
		SELECT id, penalty_id, member_id, amount, evidence, status, approved_by, approval_date,
			rejected_by, rejection_reason, created_at
		FROM penalty_payments
		WHERE id = $1
		FOR UPDATE
	`

	var payment domain.PenaltyPayment
	if err := sqlx.GetContext(ctx, r.db, &payment, query, id); err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *penaltyPaymentRepository) HasPending(ctx context.Context, penaltyID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM penalty_payments WHERE penalty_id = $1 AND status = $2)`

	var exists bool
	err := sqlx.GetContext(ctx, r.db, &exists, query, penaltyID, domain.PaymentStatusPending)
	return exists, err
}

func (r *penaltyPaymentRepository) UpdateDecision(ctx context.Context, payment *domain.PenaltyPayment) error {
	query := `
		UPDATE penalty_payments
		SET status = $2, approved_by = $3, approval_date = $4, rejected_by = $5, rejection_reason = $6
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.Status,
		payment.ApprovedBy,
		payment.ApprovalDate,
		payment.RejectedBy,
		payment.RejectionReason,
	)

	return err
}
