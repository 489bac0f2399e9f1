package auction

import (
	"context"
	"time"
)

// Repository persists auction items and their bids.
type Repository interface {
	// Create fails with a conflict when the player already has an active auction in scope.
	Create(ctx context.Context, item Item) error
	Get(ctx context.Context, itemID string) (Item, bool, error)
	GetForUpdate(ctx context.Context, itemID string) (Item, bool, error)
	GetActiveByPlayer(ctx context.Context, scopeID, playerID string) (Item, bool, error)
	Update(ctx context.Context, item Item) error
	AppendBid(ctx context.Context, bid Bid) error
	ListBids(ctx context.Context, itemID string) ([]Bid, error)
	// ListDue returns open or finalizing items whose expiry has passed, oldest first.
	ListDue(ctx context.Context, now time.Time, limit int) ([]Item, error)
}
