package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	UserTypeCoordinator = "COORDINATOR"
	UserTypeMember      = "MEMBER"
)

// User is the identity row a ledger profile hangs off
type User struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Member is the ledger profile of a user. ID is the user's ID.
type Member struct {
	ID                    int64           `json:"id" db:"user_id"`
	UserType              string          `json:"user_type" db:"user_type"`
	CoordinatorID         *int64          `json:"coordinator_id,omitempty" db:"coordinator_id"`
	CommittedShares       int             `json:"committed_shares" db:"committed_shares"`
	ShareValue            decimal.Decimal `json:"share_value" db:"share_value"`
	TotalCommitment       decimal.Decimal `json:"total_commitment" db:"total_commitment"`
	PaidShares            int             `json:"paid_shares" db:"paid_shares"`
	RemainingShareBalance decimal.Decimal `json:"remaining_share_balance" db:"remaining_share_balance"`
	TotalSavings          decimal.Decimal `json:"total_savings" db:"total_savings"`
	CreatedAt             time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at" db:"updated_at"`
}

// Recompute refreshes the derived commitment fields.
// Every operation that mutates a member calls it before persisting.
func (m *Member) Recompute() {
	m.TotalCommitment = m.ShareValue.Mul(decimal.NewFromInt(int64(m.CommittedShares))).Round(2)
	m.RemainingShareBalance = m.ShareValue.Mul(decimal.NewFromInt(int64(m.RemainingShares()))).Round(2)
}

// RemainingShares is the number of committed shares not yet paid this cycle
func (m *Member) RemainingShares() int {
	remaining := m.CommittedShares - m.PaidShares
	if remaining < 0 {
		return 0
	}
	return remaining
}

// DTOs for requests and responses

type CreateMemberRequest struct {
	Username        string          `json:"username" validate:"required,min=3,max=150"`
	FirstName       string          `json:"first_name" validate:"max=150"`
	LastName        string          `json:"last_name" validate:"max=150"`
	Email           string          `json:"email" validate:"omitempty,email"`
	Phone           string          `json:"phone" validate:"max=20"`
	UserType        string          `json:"user_type" validate:"omitempty,oneof=COORDINATOR MEMBER"`
	CoordinatorID   *int64          `json:"coordinator_id"`
	CommittedShares int             `json:"committed_shares" validate:"gte=0"`
	ShareValue      decimal.Decimal `json:"share_value" validate:"gte=0"`
}

type MemberResponse struct {
	User   *User   `json:"user"`
	Member *Member `json:"member"`
}

// ShareResetReport summarizes a monthly share reset
type ShareResetReport struct {
	Month           time.Time `json:"month"`
	MembersReset    int       `json:"members_reset"`
	DeadlineCreated bool      `json:"deadline_created"`
}
