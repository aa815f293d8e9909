package repository

import (
	"context"

	"github.com/segyhp/tontine-ledger/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type transactionRepository struct {
	db sqlx.ExtContext
}

func (r *transactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	query := `
		INSERT INTO transactions (member_id, transaction_type, amount, status, reference_id, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	return r.db.QueryRowxContext(ctx, query,
		txn.MemberID,
		txn.TransactionType,
		txn.Amount,
		txn.Status,
		txn.ReferenceID,
		txn.Description,
	).Scan(&txn.ID, &txn.CreatedAt)
}

func (r *transactionRepository) UpdateStatusByReference(ctx context.Context, txnType, referenceID, status string) error {
	query := `
		UPDATE transactions
		SET status = $3
		WHERE transaction_type = $1 AND reference_id = $2
	`

	_, err := r.db.ExecContext(ctx, query, txnType, referenceID, status)
	return err
}

func (r *transactionRepository) UpdateAmountByReference(ctx context.Context, txnType, referenceID string, amount decimal.Decimal, description string) error {
	query := `
		UPDATE transactions
		SET amount = $3, description = $4
		WHERE transaction_type = $1 AND reference_id = $2
	`

	_, err := r.db.ExecContext(ctx, query, txnType, referenceID, amount, description)
	return err
}

func (r *transactionRepository) ListByMember(ctx context.Context, memberID int64, limit int) ([]*domain.Transaction, error) {
	query := `
		SELECT id, member_id, transaction_type, amount, status, reference_id, description, created_at
		FROM transactions
		WHERE member_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	var txns []*domain.Transaction
	if err := sqlx.SelectContext(ctx, r.db, &txns, query, memberID, limit); err != nil {
		return nil, err
	}

	return txns, nil
}
