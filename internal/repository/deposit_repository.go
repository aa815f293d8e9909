package repository

import (
	"context"
	"time"

	"github.com/segyhp/tontine-ledger/internal/domain"

	"github.com/jmoiron/sqlx"
)

type depositRepository struct {
	db sqlx.ExtContext
}

func (r *depositRepository) Create(ctx context.Context, deposit *domain.Deposit) error {
	query := `
		INSERT INTO deposits (member_id, amount, evidence, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	return r.db.QueryRowxContext(ctx, query,
		deposit.MemberID,
		deposit.Amount,
		deposit.Evidence,
		deposit.Status,
	).Scan(&deposit.ID, &deposit.CreatedAt, &deposit.UpdatedAt)
}

func (r *depositRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Deposit, error) {
	query := `
		SELECT id, member_id, amount, evidence, status, approved_by, approval_date, rejected_by,
			rejection_date, rejection_reason, created_at, updated_at
		FROM deposits
		WHERE id = $1
		FOR UPDATE
	`

	var deposit domain.Deposit
	if err := sqlx.GetContext(ctx, r.db, &deposit, query, id); err != nil {
		return nil, err
	}

	return &deposit, nil
}

func (r *depositRepository) HasPending(ctx context.Context, memberID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM deposits WHERE member_id = $1 AND status = $2)`

	var exists bool
	err := sqlx.GetContext(ctx, r.db, &exists, query, memberID, domain.DepositStatusPending)
	return exists, err
}

func (r *depositRepository) UpdateDecision(ctx context.Context, deposit *domain.Deposit) error {
	query := `
		UPDATE deposits
		SET status = $2, approved_by = $3, approval_date = $4, rejected_by = $5, rejection_date = $6,
			rejection_reason = $7, updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		deposit.ID,
		deposit.Status,
		deposit.ApprovedBy,
		deposit.ApprovalDate,
		deposit.RejectedBy,
		deposit.RejectionDate,
		deposit.RejectionReason,
	)

	return err
}

type sharePaymentRepository struct {
	db sqlx.ExtContext
}

func (r *sharePaymentRepository) Upsert(ctx context.Context, payment *domain.MonthlySharePayment) error {
	query := `
		INSERT INTO monthly_share_payments (member_id, payment_month, shares_paid, amount_paid, is_completed, payment_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (member_id, payment_month) DO UPDATE
		SET shares_paid = monthly_share_payments.shares_paid + EXCLUDED.shares_paid,
			amount_paid = monthly_share_payments.amount_paid + EXCLUDED.amount_paid,
			is_completed = EXCLUDED.is_completed,
			payment_date = EXCLUDED.payment_date
		RETURNING id, shares_paid, amount_paid
	`

	return r.db.QueryRowxContext(ctx, query,
		payment.MemberID,
		dateParam(payment.PaymentMonth),
		payment.SharesPaid,
		payment.AmountPaid,
		payment.IsCompleted,
		payment.PaymentDate,
	).Scan(&payment.ID, &payment.SharesPaid, &payment.AmountPaid)
}

func (r *sharePaymentRepository) SharesPaidByMember(ctx context.Context, month time.Time) (map[int64]int, error) {
	query := `
		SELECT member_id, shares_paid
		FROM monthly_share_payments
		WHERE payment_month = $1
	`

	var rows []struct {
		MemberID   int64 `db:"member_id"`
		SharesPaid int   `db:"shares_paid"`
	}
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, dateParam(month)); err != nil {
		return nil, err
	}

	paid := make(map[int64]int, len(rows))
	for _, row := range rows {
		paid[row.MemberID] = row.SharesPaid
	}

	return paid, nil
}
