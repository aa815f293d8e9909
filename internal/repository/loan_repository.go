package repository

import (
	"context"
	"time"

	"github.com/segyhp/tontine-ledger/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type loanRepository struct {
	db sqlx.ExtContext
}

const loanColumns = `id, member_id, amount, duration, interest_rate, interest_amount, total_amount,
		remaining_balance, status, request_date, approval_date, approved_by, disbursement_date, disbursed_by,
		due_date, completion_date, rejected_by, rejection_reason, created_at, updated_at`

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (member_id, amount, duration, interest_rate, interest_amount, total_amount,
			remaining_balance, status, request_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	return r.db.QueryRowxContext(ctx, query,
		loan.MemberID,
		loan.Amount,
		loan.Duration,
		loan.InterestRate,
		loan.InterestAmount,
		loan.TotalAmount,
		loan.RemainingBalance,
		loan.Status,
		loan.RequestDate,
	).Scan(&loan.ID, &loan.CreatedAt, &loan.UpdatedAt)
}

func (r *loanRepository) GetByID(ctx context.Context, id int64) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	var loan domain.Loan
	if err := sqlx.GetContext(ctx, r.db, &loan, query, id); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1 FOR UPDATE`

	var loan domain.Loan
	if err := sqlx.GetContext(ctx, r.db, &loan, query, id); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) HasOpen(ctx context.Context, memberID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM loans WHERE member_id = $1 AND status = ANY($2))`

	var exists bool
	err := sqlx.GetContext(ctx, r.db, &exists, query, memberID, pq.Array(domain.OpenLoanStatuses))
	return exists, err
}

func (r *loanRepository) ListOverdueForUpdate(ctx context.Context, before time.Time) ([]*domain.Loan, error) {
	query := `SELECT ` + loanColumns + `
		FROM loans
		WHERE status = ANY($1)
			AND due_date IS NOT NULL
			AND due_date < $2
			AND remaining_balance > 0
		ORDER BY id
		FOR UPDATE`

	statuses := []string{domain.LoanStatusApproved, domain.LoanStatusDisbursed, domain.LoanStatusActive}

	var loans []*domain.Loan
	if err := sqlx.SelectContext(ctx, r.db, &loans, query, pq.Array(statuses), before); err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	query := `
		UPDATE loans
		SET remaining_balance = $2, status = $3, approval_date = $4, approved_by = $5,
			disbursement_date = $6, disbursed_by = $7, due_date = $8, completion_date = $9,
			rejected_by = $10, rejection_reason = $11, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	return r.db.QueryRowxContext(ctx, query,
		loan.ID,
		loan.RemainingBalance,
		loan.Status,
		loan.ApprovalDate,
		loan.ApprovedBy,
		loan.DisbursementDate,
		loan.DisbursedBy,
		loan.DueDate,
		loan.CompletionDate,
		loan.RejectedBy,
		loan.RejectionReason,
	).Scan(&loan.UpdatedAt)
}
