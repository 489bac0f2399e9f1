package wallet

import "context"

// Repository persists wallets. Mutating methods must run inside a unit of work.
type Repository interface {
	// Create inserts the wallet and reports false when it already exists.
	Create(ctx context.Context, w Wallet) (bool, error)
	Get(ctx context.Context, leagueID, clubID string) (Wallet, bool, error)
	// GetForUpdate reads the wallet and holds its row lock until the unit of work ends.
	GetForUpdate(ctx context.Context, leagueID, clubID string) (Wallet, bool, error)
	// ApplyDelta locks the wallet, applies delta and returns the new balance.
	ApplyDelta(ctx context.Context, leagueID, clubID string, delta int64, allowNegative bool) (int64, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Wallet, error)
}
