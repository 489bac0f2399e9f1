package wallet

import (
	"math"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/career-league/internal/domain/economy"
)

// Wallet is the running balance of one club inside one league.
type Wallet struct {
	LeagueID        string
	ClubID          string
	Balance         int64
	StartingBalance int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Apply returns balance+delta. Unless allowNegative, any result below zero
// fails, including a zero delta on an already negative balance. Credits pass
// allowNegative. The result is never clamped and never wraps.
func Apply(balance, delta int64, allowNegative bool) (int64, error) {
	if (delta > 0 && balance > math.MaxInt64-delta) || (delta < 0 && balance < math.MinInt64-delta) {
		return balance, errors.Wrapf(economy.ErrValidation, "balance overflow balance=%d delta=%d", balance, delta)
	}
	next := balance + delta
	if next < 0 && !allowNegative {
		return balance, errors.Wrapf(economy.ErrInsufficientFunds, "balance=%d delta=%d", balance, delta)
	}
	return next, nil
}
