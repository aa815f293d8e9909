package repository

import (
	"context"

	"github.com/segyhp/tontine-ledger/internal/domain"

	"github.com/jmoiron/sqlx"
)

type memberRepository struct {
	db sqlx.ExtContext
}

const memberColumns = `user_id, user_type, coordinator_id, committed_shares, share_value, total_commitment,
		paid_shares, remaining_share_balance, total_savings, created_at, updated_at`

func (r *memberRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (username, first_name, last_name, email, phone, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	return r.db.QueryRowxContext(ctx, query,
		user.Username,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Phone,
		user.IsActive,
	).Scan(&user.ID, &user.CreatedAt)
}

func (r *memberRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT id, username, first_name, last_name, email, phone, is_active, created_at
		FROM users
		WHERE id = $1
	`

	var user domain.User
	if err := sqlx.GetContext(ctx, r.db, &user, query, id); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *memberRepository) Create(ctx context.Context, member *domain.Member) error {
	query := `
		INSERT INTO member_profiles (user_id, user_type, coordinator_id, committed_shares, share_value,
			total_commitment, paid_shares, remaining_share_balance, total_savings)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	return r.db.QueryRowxContext(ctx, query,
		member.ID,
		member.UserType,
		member.CoordinatorID,
		member.CommittedShares,
		member.ShareValue,
		member.TotalCommitment,
		member.PaidShares,
		member.RemainingShareBalance,
		member.TotalSavings,
	).Scan(&member.CreatedAt, &member.UpdatedAt)
}

func (r *memberRepository) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM member_profiles WHERE user_id = $1`

	var member domain.Member
	if err := sqlx.GetContext(ctx, r.db, &member, query, id); err != nil {
		return nil, err
	}

	return &member, nil
}

func (r *memberRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM member_profiles WHERE user_id = $1 FOR UPDATE`

	var member domain.Member
	if err := sqlx.GetContext(ctx, r.db, &member, query, id); err != nil {
		return nil, err
	}

	return &member, nil
}

func (r *memberRepository) ListCommittedForUpdate(ctx context.Context) ([]*domain.Member, error) {
	query := `SELECT ` + memberColumns + `
		FROM member_profiles
		WHERE committed_shares > 0
		ORDER BY user_id
		FOR UPDATE`

	var members []*domain.Member
	if err := sqlx.SelectContext(ctx, r.db, &members, query); err != nil {
		return nil, err
	}

	return members, nil
}

func (r *memberRepository) Update(ctx context.Context, member *domain.Member) error {
	query := `
		UPDATE member_profiles
		SET committed_shares = $2, share_value = $3, total_commitment = $4, paid_shares = $5,
			remaining_share_balance = $6, total_savings = $7, updated_at = NOW()
		WHERE user_id = $1
		RETURNING updated_at
	`

	return r.db.QueryRowxContext(ctx, query,
		member.ID,
		member.CommittedShares,
		member.ShareValue,
		member.TotalCommitment,
		member.PaidShares,
		member.RemainingShareBalance,
		member.TotalSavings,
	).Scan(&member.UpdatedAt)
}
