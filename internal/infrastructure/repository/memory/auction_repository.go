package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/career-league/internal/domain/auction"
	"github.com/riskibarqy/career-league/internal/domain/economy"
)

type auctionStore struct {
	st *state
}

func (r *auctionStore) Create(_ context.Context, item auction.Item) error {
	if _, ok := r.st.auctions[item.ID]; ok {
		return economy.Conflict(errors.Newf("auction %s exists", item.ID), "insert auction item")
	}
	for _, existing := range r.st.auctions {
		if existing.Status.Active() && existing.ScopeID == item.ScopeID && existing.PlayerID == item.PlayerID {
			return economy.Conflict(errors.Newf("player %s already auctioned in scope %s", item.PlayerID, item.ScopeID), "insert auction item")
		}
	}
	r.st.auctions[item.ID] = cloneItem(item)
	return nil
}

func (r *auctionStore) Get(_ context.Context, itemID string) (auction.Item, bool, error) {
	item, ok := r.st.auctions[itemID]
	if !ok {
		return auction.Item{}, false, nil
	}
	return cloneItem(item), true, nil
}

func (r *auctionStore) GetForUpdate(ctx context.Context, itemID string) (auction.Item, bool, error) {
	return r.Get(ctx, itemID)
}

func (r *auctionStore) GetActiveByPlayer(_ context.Context, scopeID, playerID string) (auction.Item, bool, error) {
	for _, item := range r.st.auctions {
		if item.Status.Active() && item.ScopeID == scopeID && item.PlayerID == playerID {
			return cloneItem(item), true, nil
		}
	}
	return auction.Item{}, false, nil
}

func (r *auctionStore) Update(_ context.Context, item auction.Item) error {
	if _, ok := r.st.auctions[item.ID]; !ok {
		return errors.Wrapf(economy.ErrNotFound, "auction %s", item.ID)
	}
	r.st.auctions[item.ID] = cloneItem(item)
	return nil
}

func (r *auctionStore) AppendBid(_ context.Context, bid auction.Bid) error {
	r.st.bids[bid.AuctionItemID] = append(r.st.bids[bid.AuctionItemID], bid)
	return nil
}

func (r *auctionStore) ListBids(_ context.Context, itemID string) ([]auction.Bid, error) {
	return append([]auction.Bid(nil), r.st.bids[itemID]...), nil
}

func (r *auctionStore) ListDue(_ context.Context, now time.Time, limit int) ([]auction.Item, error) {
	out := make([]auction.Item, 0)
	for _, item := range r.st.auctions {
		if item.Status.Active() && item.ExpiresAt.Before(now) {
			out = append(out, cloneItem(item))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExpiresAt.Equal(out[j].ExpiresAt) {
			return out[i].ExpiresAt.Before(out[j].ExpiresAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
