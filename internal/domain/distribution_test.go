package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitProfit(t *testing.T) {
	t.Run("even split over 2, 3 and 5 shares", func(t *testing.T) {
		shares := map[int64]int{1: 2, 2: 3, 3: 5}

		perShare, payouts := SplitProfit(decimal.NewFromInt(100000), shares, []int64{1, 2, 3})

		assert.True(t, perShare.Equal(decimal.NewFromInt(10000)))
		require.Len(t, payouts, 3)
		assert.True(t, payouts[0].Amount.Equal(decimal.NewFromInt(20000)))
		assert.True(t, payouts[1].Amount.Equal(decimal.NewFromInt(30000)))
		assert.True(t, payouts[2].Amount.Equal(decimal.NewFromInt(50000)))

		sum := decimal.Zero
		for _, p := range payouts {
			sum = sum.Add(p.Amount)
		}
		assert.True(t, sum.Equal(decimal.NewFromInt(100000)))
	})

	t.Run("indivisible profit never overpays", func(t *testing.T) {
		shares := map[int64]int{1: 1, 2: 1, 3: 1}

		_, payouts := SplitProfit(decimal.NewFromInt(100), shares, []int64{1, 2, 3})

		sum := decimal.Zero
		for _, p := range payouts {
			assert.Equal(t, "33.33", p.Amount.StringFixed(2))
			sum = sum.Add(p.Amount)
		}
		assert.True(t, sum.LessThanOrEqual(decimal.NewFromInt(100)))
	})

	t.Run("no shares", func(t *testing.T) {
		perShare, payouts := SplitProfit(decimal.NewFromInt(100), map[int64]int{}, nil)
		assert.True(t, perShare.IsZero())
		assert.Empty(t, payouts)
	})
}

func TestMonthlyDeadlineDate(t *testing.T) {
	kigali := time.FixedZone("CAT", 2*60*60)

	deadline := &MonthlyDeadline{Month: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), DeadlineDay: 30}
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, kigali), deadline.DeadlineDate(kigali))

	deadline = &MonthlyDeadline{Month: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), DeadlineDay: 10}
	assert.Equal(t, time.Date(2024, 9, 10, 0, 0, 0, 0, kigali), deadline.DeadlineDate(kigali))
}

func TestReference(t *testing.T) {
	assert.Equal(t, "FINE-12", Reference(RefFine, 12))
	assert.Equal(t, "PENALTY_PAYMENT-3", Reference(RefPenaltyPayment, 3))
}
