package repository

import (
	"context"

	"github.com/segyhp/tontine-ledger/internal/domain"

	"github.com/jmoiron/sqlx"
)

type fundRepository struct {
	db sqlx.ExtContext
}

const fundColumns = `id, total_amount, available_amount, total_loans_outstanding, total_profit_earned,
		total_profit_distributed, available_profit, last_updated`

func (r *fundRepository) ensure(ctx context.Context) error {
	query := `INSERT INTO collective_fund (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query, domain.CollectiveFundID)
	return err
}

func (r *fundRepository) LockForUpdate(ctx context.Context) (*domain.CollectiveFund, error) {
	if err := r.ensure(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + fundColumns + ` FROM collective_fund WHERE id = $1 FOR UPDATE`

	var fund domain.CollectiveFund
	if err := sqlx.GetContext(ctx, r.db, &fund, query, domain.CollectiveFundID); err != nil {
		return nil, err
	}

	return &fund, nil
}

func (r *fundRepository) Get(ctx context.Context) (*domain.CollectiveFund, error) {
	if err := r.ensure(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + fundColumns + ` FROM collective_fund WHERE id = $1`

	var fund domain.CollectiveFund
	if err := sqlx.GetContext(ctx, r.db, &fund, query, domain.CollectiveFundID); err != nil {
		return nil, err
	}

	return &fund, nil
}

func (r *fundRepository) Snapshot(ctx context.Context) (*domain.FundSnapshot, error) {
	query := `
		SELECT
			(SELECT COALESCE(SUM(amount), 0) FROM deposits WHERE status = $1) AS total_deposits,
			(SELECT COALESCE(SUM(amount), 0) FROM penalties WHERE is_paid = TRUE) AS paid_penalties,
			(SELECT COALESCE(SUM(amount), 0) FROM loan_payments WHERE status = $2) AS loan_payments_total,
			(SELECT COALESCE(SUM(amount), 0) FROM loans WHERE status = $3) AS repaid_principals,
			(SELECT COALESCE(SUM(amount), 0) FROM loans WHERE status IN ($4, $5)) AS outstanding_loans,
			(SELECT COALESCE(SUM(total_amount), 0) FROM profit_distributions) AS distributed_profits
	`

	var snapshot domain.FundSnapshot
	err := sqlx.GetContext(ctx, r.db, &snapshot, query,
		domain.DepositStatusApproved,
		domain.PaymentStatusApproved,
		domain.LoanStatusRepaid,
		domain.LoanStatusDisbursed,
		domain.LoanStatusActive,
	)
	if err != nil {
		return nil, err
	}

	return &snapshot, nil
}

func (r *fundRepository) Save(ctx context.Context, fund *domain.CollectiveFund) error {
	query := `
		UPDATE collective_fund
		SET total_amount = $2, available_amount = $3, total_loans_outstanding = $4, total_profit_earned = $5,
			total_profit_distributed = $6, available_profit = $7, last_updated = $8
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		domain.CollectiveFundID,
		fund.TotalAmount,
		fund.AvailableAmount,
		fund.TotalLoansOutstanding,
		fund.TotalProfitEarned,
		fund.TotalProfitDistributed,
		fund.AvailableProfit,
		fund.LastUpdated,
	)

	return err
}
