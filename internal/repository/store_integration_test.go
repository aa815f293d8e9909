package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/tontine-ledger/internal/domain"
)

// openTestDB connects to TEST_DATABASE_URL and applies the schema.
// Tests using it are skipped when the variable is not set.
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile("../../scripts/init.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	return db
}

func createTestMember(t *testing.T, repos Repositories, shares int) *domain.Member {
	t.Helper()
	ctx := context.Background()

	user := &domain.User{
		Username: fmt.Sprintf("member-%d", time.Now().UnixNano()),
		IsActive: true,
	}
	require.NoError(t, repos.Members.CreateUser(ctx, user))

	member := &domain.Member{
		ID:              user.ID,
		UserType:        domain.UserTypeMember,
		CommittedShares: shares,
		ShareValue:      decimal.NewFromInt(20000),
		TotalSavings:    decimal.Zero,
	}
	member.Recompute()
	require.NoError(t, repos.Members.Create(ctx, member))
	return member
}

func TestStore_MemberRoundTrip(t *testing.T) {
	db := openTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	member := createTestMember(t, store.Repositories(), 2)

	got, err := store.Repositories().Members.GetByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CommittedShares)
	assert.True(t, got.TotalCommitment.Equal(decimal.NewFromInt(40000)))
	assert.True(t, got.RemainingShareBalance.Equal(decimal.NewFromInt(40000)))
}

func TestStore_DuplicateUsername(t *testing.T) {
	db := openTestDB(t)
	repos := NewStore(db).Repositories()
	ctx := context.Background()

	username := fmt.Sprintf("dup-%d", time.Now().UnixNano())
	require.NoError(t, repos.Members.CreateUser(ctx, &domain.User{Username: username, IsActive: true}))

	err := repos.Members.CreateUser(ctx, &domain.User{Username: username, IsActive: true})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestStore_InTxRollsBack(t *testing.T) {
	db := openTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	member := createTestMember(t, store.Repositories(), 1)
	boom := errors.New("abort")

	err := store.InTx(ctx, nil, func(repos Repositories) error {
		locked, err := repos.Members.GetByIDForUpdate(ctx, member.ID)
		if err != nil {
			return err
		}
		locked.PaidShares = 1
		locked.Recompute()
		if err := repos.Members.Update(ctx, locked); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := store.Repositories().Members.GetByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.PaidShares)
}
