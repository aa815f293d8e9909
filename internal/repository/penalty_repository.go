package repository

import (
	"context"
	"time"

	"github.com/segyhp/tontine-ledger/internal/domain"

	"github.com/jmoiron/sqlx"
)

type penaltyRepository struct {
	db sqlx.ExtContext
}

const penaltyColumns = `id, member_id, penalty_type, amount, days_late, original_due_date, description,
		is_paid, created_at, updated_at`

func (r *penaltyRepository) Create(ctx context.Context, penalty *domain.Penalty) error {
	query := `
		INSERT INTO penalties (member_id, penalty_type, amount, days_late, original_due_date, description, is_paid)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	return r.db.QueryRowxContext(ctx, query,
		penalty.MemberID,
		penalty.PenaltyType,
		penalty.Amount,
		penalty.DaysLate,
		dateParam(penalty.OriginalDueDate),
		penalty.Description,
		penalty.IsPaid,
	).Scan(&penalty.ID, &penalty.CreatedAt, &penalty.UpdatedAt)
}

func (r *penaltyRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Penalty, error) {
	query := `SELECT ` + penaltyColumns + ` FROM penalties WHERE id = $1 FOR UPDATE`

	var penalty domain.Penalty
	if err := sqlx.GetContext(ctx, r.db, &penalty, query, id); err != nil {
		return nil, err
	}

	return &penalty, nil
}

func (r *penaltyRepository) FindUnpaid(ctx context.Context, memberID int64, penaltyType string, dueDate time.Time) (*domain.Penalty, error) {
	query := `SELECT ` + penaltyColumns + `
		FROM penalties
		WHERE member_id = $1 AND penalty_type = $2 AND original_due_date = $3 AND is_paid = FALSE
		ORDER BY id
		LIMIT 1
		FOR UPDATE`

	var penalty domain.Penalty
	if err := sqlx.GetContext(ctx, r.db, &penalty, query, memberID, penaltyType, dateParam(dueDate)); err != nil {
		return nil, err
	}

	return &penalty, nil
}

func (r *penaltyRepository) UpdateAmount(ctx context.Context, penalty *domain.Penalty) error {
	query := `
		UPDATE penalties
		SET amount = $2, days_late = $3, description = $4, updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, penalty.ID, penalty.Amount, penalty.DaysLate, penalty.Description)
	return err
}

func (r *penaltyRepository) MarkPaid(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE penalties SET is_paid = TRUE, updated_at = $2 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, at)
	return err
}
