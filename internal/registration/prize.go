package registration

import (
	"github.com/shopspring/decimal"

	"gamearena/backend/internal/models"
)

var (
	firstShare  = decimal.RequireFromString("0.60")
	secondShare = decimal.RequireFromString("0.25")
	thirdShare  = decimal.RequireFromString("0.15")
)

// Split is how a prize pool is paid out to the top three.
type Split struct {
	Total  decimal.Decimal `json:"total"`
	First  decimal.Decimal `json:"first"`
	Second decimal.Decimal `json:"second"`
	Third  decimal.Decimal `json:"third"`
}

// PrizeSplit divides total 60/25/15, each share rounded to cents.
func PrizeSplit(total decimal.Decimal) Split {
	return Split{
		Total:  total.Round(2),
		First:  total.Mul(firstShare).Round(2),
		Second: total.Mul(secondShare).Round(2),
		Third:  total.Mul(thirdShare).Round(2),
	}
}

// ProjectedSplit is the split a joining player is shown: the current pool
// plus the entry fee they are about to pay.
func ProjectedSplit(room *models.GameRoom) Split {
	return PrizeSplit(room.PrizePool.Add(room.EntryFee))
}

// MaxPrizePool is the pool once every seat is taken.
func MaxPrizePool(entryFee decimal.Decimal, maxPlayers int) decimal.Decimal {
	return entryFee.Mul(decimal.NewFromInt(int64(maxPlayers))).Round(2)
}
