package league

import (
	"math"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// League is a competition whose clubs share a wallet economy.
type League struct {
	ID              string
	Name            string
	ConfederationID string
	Economy         EconomySettings
}

// EconomySettings are the per-league knobs read by transfers, payroll and auctions.
type EconomySettings struct {
	RosterCap            int
	StartingBalance      int64
	FineMultiplier       decimal.Decimal
	MinSalePercent       int64
	BlockNegativeBalance bool
	AntiSnipeWindow      time.Duration
}

// ScopeID is the ownership scope for players: the confederation when the
// league belongs to one, otherwise the league itself.
func (l League) ScopeID() string {
	if l.ConfederationID != "" {
		return l.ConfederationID
	}
	return l.ID
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.Economy.RosterCap <= 0 {
		return fmt.Errorf("league roster cap must be greater than zero")
	}
	if l.Economy.StartingBalance < 0 {
		return fmt.Errorf("league starting balance must not be negative")
	}
	if l.Economy.FineMultiplier.IsNegative() {
		return fmt.Errorf("league fine multiplier must not be negative")
	}
	if l.Economy.MinSalePercent < 0 {
		return fmt.Errorf("league min sale percent must not be negative")
	}
	if l.Economy.AntiSnipeWindow < 0 {
		return fmt.Errorf("league anti-snipe window must not be negative")
	}

	return nil
}

// FineAmount is value x multiplier rounded half away from zero, saturating at
// math.MaxInt64.
func (s EconomySettings) FineAmount(value int64) int64 {
	amount := decimal.NewFromInt(value).Mul(s.FineMultiplier).Round(0)
	if amount.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return math.MaxInt64
	}
	return amount.IntPart()
}

// MeetsMinimumSale reports whether price is at least MinSalePercent of value.
func (s EconomySettings) MeetsMinimumSale(price, value int64) bool {
	lhs := decimal.NewFromInt(price).Mul(decimal.NewFromInt(100))
	rhs := decimal.NewFromInt(value).Mul(decimal.NewFromInt(s.MinSalePercent))
	return lhs.GreaterThanOrEqual(rhs)
}
