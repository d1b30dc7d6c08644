package registration

import (
	"testing"

	"gamearena/backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPrizeSplit(t *testing.T) {
	split := PrizeSplit(decimal.NewFromInt(400))
	assert.Equal(t, "240.00", split.First.StringFixed(2))
	assert.Equal(t, "100.00", split.Second.StringFixed(2))
	assert.Equal(t, "60.00", split.Third.StringFixed(2))

	odd := PrizeSplit(decimal.RequireFromString("33.33"))
	assert.Equal(t, "20.00", odd.First.StringFixed(2))
	assert.Equal(t, "8.33", odd.Second.StringFixed(2))
	assert.Equal(t, "5.00", odd.Third.StringFixed(2))
}

func TestProjectedSplit_IncludesJoiningFee(t *testing.T) {
	room := &models.GameRoom{EntryFee: decimal.NewFromInt(25), PrizePool: decimal.NewFromInt(475)}
	split := ProjectedSplit(room)
	assert.Equal(t, "500.00", split.Total.StringFixed(2))
	assert.Equal(t, "300.00", split.First.StringFixed(2))
}

func TestMaxPrizePool(t *testing.T) {
	assert.Equal(t, "500.00", MaxPrizePool(decimal.NewFromInt(25), 20).StringFixed(2))
}
