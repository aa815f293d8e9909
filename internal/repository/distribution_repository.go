package repository

import (
	"context"
	"time"

	"github.com/segyhp/tontine-ledger/internal/domain"

	"github.com/jmoiron/sqlx"
)

type distributionRepository struct {
	db sqlx.ExtContext
}

func (r *distributionRepository) ExistsBetween(ctx context.Context, from, to time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM profit_distributions
			WHERE distribution_date >= $1 AND distribution_date < $2
		)
	`

	var exists bool
	err := sqlx.GetContext(ctx, r.db, &exists, query, from, to)
	return exists, err
}

func (r *distributionRepository) Create(ctx context.Context, distribution *domain.ProfitDistribution) error {
	query := `
		INSERT INTO profit_distributions (run_id, member_id, total_amount, per_share_amount, shares_distributed,
			source, distribution_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	return r.db.QueryRowxContext(ctx, query,
		distribution.RunID,
		distribution.MemberID,
		distribution.TotalAmount,
		distribution.PerShareAmount,
		distribution.SharesDistributed,
		distribution.Source,
		distribution.DistributionDate,
	).Scan(&distribution.ID)
}

func (r *distributionRepository) CreateSummary(ctx context.Context, summary *domain.ProfitDistributionSummary) error {
	query := `
		INSERT INTO profit_distribution_summaries (run_id, total_amount, members_paid, source, distribution_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	return r.db.QueryRowxContext(ctx, query,
		summary.RunID,
		summary.TotalAmount,
		summary.MembersPaid,
		summary.Source,
		summary.DistributionDate,
	).Scan(&summary.ID)
}

type deadlineRepository struct {
	db sqlx.ExtContext
}

func (r *deadlineRepository) EnsureForMonth(ctx context.Context, month time.Time, day int) (bool, error) {
	query := `
		INSERT INTO monthly_deadlines (month, deadline_day)
		VALUES ($1, $2)
		ON CONFLICT (month) DO NOTHING
	`

	res, err := r.db.ExecContext(ctx, query, dateParam(month), day)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (r *deadlineRepository) Upsert(ctx context.Context, month time.Time, day int) (*domain.MonthlyDeadline, error) {
	query := `
		INSERT INTO monthly_deadlines (month, deadline_day)
		VALUES ($1, $2)
		ON CONFLICT (month) DO UPDATE SET deadline_day = EXCLUDED.deadline_day
		RETURNING id, month, deadline_day, created_at
	`

	var deadline domain.MonthlyDeadline
	if err := sqlx.GetContext(ctx, r.db, &deadline, query, dateParam(month), day); err != nil {
		return nil, err
	}

	return &deadline, nil
}

func (r *deadlineRepository) ListUpTo(ctx context.Context, month time.Time) ([]*domain.MonthlyDeadline, error) {
	query := `
		SELECT id, month, deadline_day, created_at
		FROM monthly_deadlines
		WHERE month <= $1
		ORDER BY month
	`

	var deadlines []*domain.MonthlyDeadline
	if err := sqlx.SelectContext(ctx, r.db, &deadlines, query, dateParam(month)); err != nil {
		return nil, err
	}

	return deadlines, nil
}
