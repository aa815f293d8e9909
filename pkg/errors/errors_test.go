package errors

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Kind
	}{
		{name: "validation", err: WrapInvalidDuration(4), expected: KindValidation},
		{name: "conflict", err: WrapDuplicatePendingDeposit(1), expected: KindConflict},
		{name: "insufficient funds", err: WrapInsufficientPool(decimal.NewFromInt(10), decimal.Zero), expected: KindInsufficientFunds},
		{name: "not found", err: WrapNotFound("Loan", 7), expected: KindNotFound},
		{name: "wrapped business error", err: fmt.Errorf("approve: %w", WrapDepositProcessed(3, "APPROVED")), expected: KindConflict},
		{name: "plain error", err: errors.New("boom"), expected: KindInfrastructure},
		{name: "database", err: WrapDatabaseError(sql.ErrConnDone), expected: KindInfrastructure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, KindOf(tt.err))
		})
	}
}

func TestBusinessErrorUnwrap(t *testing.T) {
	err := WrapAmountMismatch(decimal.NewFromInt(40000), decimal.NewFromInt(20000))

	assert.True(t, errors.Is(err, ErrAmountMismatch))
	assert.Contains(t, err.Message, "40000.00")
	assert.Contains(t, err.Error(), ErrCodeAmountMismatch)

	dbErr := WrapDatabaseError(sql.ErrTxDone)
	assert.True(t, errors.Is(dbErr, sql.ErrTxDone))
	assert.Equal(t, "database operation failed", dbErr.Message)
}
