// Package txn defines the atomic unit of work spanning every economy store.
package txn

import (
	"context"

	"github.com/riskibarqy/career-league/internal/domain/auction"
	"github.com/riskibarqy/career-league/internal/domain/payroll"
	"github.com/riskibarqy/career-league/internal/domain/roster"
	"github.com/riskibarqy/career-league/internal/domain/transfer"
	"github.com/riskibarqy/career-league/internal/domain/wallet"
)

// Stores are repositories bound to a single unit of work.
type Stores struct {
	Wallets   wallet.Repository
	Rosters   roster.Repository
	Transfers transfer.Repository
	Payroll   payroll.Repository
	Auctions  auction.Repository
}

// UnitOfWork runs fn atomically: every write made through stores commits
// together or not at all. Implementations may call fn more than once when the
// backing store reports a transient serialization failure.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}
