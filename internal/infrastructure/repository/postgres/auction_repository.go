package postgres

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/career-league/internal/domain/auction"
	"github.com/riskibarqy/career-league/internal/domain/economy"
	qb "github.com/riskibarqy/career-league/internal/platform/querybuilder"
)

var activeAuctionStatuses = []any{string(auction.StatusOpen), string(auction.StatusFinalizing)}

// AuctionRepository relies on the partial unique index
// auction_items(scope_id, player_id) WHERE status IN ('open', 'finalizing').
type AuctionRepository struct {
	db DBTX
}

func NewAuctionRepository(db DBTX) *AuctionRepository {
	return &AuctionRepository{db: db}
}

func (r *AuctionRepository) Create(ctx context.Context, item auction.Item) error {
	query, args, err := qb.InsertInto("auction_items").
		Columns(auctionItemColumns...).
		Values(
			item.ID,
			item.LeagueID,
			item.ScopeID,
			item.PlayerID,
			item.StartingValue,
			item.CurrentValue,
			nullString(item.LeadingClubID),
			item.ExpiresAt.UTC(),
			string(item.Status),
			item.CancelReason,
			nullTime(item.FinalizedAt),
			item.CreatedAt.UTC(),
			item.UpdatedAt.UTC(),
		).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build insert auction item query")
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return economy.Conflict(err, "insert auction item")
		}
		return errors.Wrapf(err, "insert auction item %s", item.ID)
	}
	return nil
}

func (r *AuctionRepository) Get(ctx context.Context, itemID string) (auction.Item, bool, error) {
	return r.getOne(ctx, false, qb.Eq("id", itemID))
}

func (r *AuctionRepository) GetForUpdate(ctx context.Context, itemID string) (auction.Item, bool, error) {
	return r.getOne(ctx, true, qb.Eq("id", itemID))
}

func (r *AuctionRepository) GetActiveByPlayer(ctx context.Context, scopeID, playerID string) (auction.Item, bool, error) {
	return r.getOne(ctx, false,
		qb.Eq("scope_id", scopeID),
		qb.Eq("player_id", playerID),
		qb.In("status", activeAuctionStatuses),
	)
}

func (r *AuctionRepository) getOne(ctx context.Context, lock bool, conditions ...qb.Condition) (auction.Item, bool, error) {
	builder := qb.Select(auctionItemColumns...).From("auction_items").Where(conditions...)
	if lock {
		builder = builder.ForUpdate()
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return auction.Item{}, false, errors.Wrap(err, "build select auction item query")
	}

	var row auctionItemTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return auction.Item{}, false, nil
		}
		return auction.Item{}, false, errors.Wrap(err, "select auction item")
	}
	return row.toDomain(), true, nil
}

func (r *AuctionRepository) Update(ctx context.Context, item auction.Item) error {
	query, args, err := qb.Update("auction_items").
		Set("current_value", item.CurrentValue).
		Set("leading_club_id", nullString(item.LeadingClubID)).
		Set("expires_at", item.ExpiresAt.UTC()).
		Set("status", string(item.Status)).
		Set("cancel_reason", item.CancelReason).
		Set("finalized_at", nullTime(item.FinalizedAt)).
		Set("updated_at", item.UpdatedAt.UTC()).
		Where(qb.Eq("id", item.ID)).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build update auction item query")
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrapf(err, "update auction item %s", item.ID)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Wrapf(economy.ErrNotFound, "auction %s", item.ID)
	}
	return nil
}

func (r *AuctionRepository) AppendBid(ctx context.Context, bid auction.Bid) error {
	query, args, err := qb.InsertInto("auction_bids").
		Columns(auctionBidColumns...).
		Values(
			bid.ID,
			bid.AuctionItemID,
			bid.ScopeID,
			bid.PlayerID,
			bid.ClubID,
			bid.Value,
			bid.ExpiresAtSnapshot.UTC(),
			bid.CreatedAt.UTC(),
		).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build insert auction bid query")
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "insert bid on auction %s", bid.AuctionItemID)
	}
	return nil
}

func (r *AuctionRepository) ListBids(ctx context.Context, itemID string) ([]auction.Bid, error) {
	query, args, err := qb.Select(auctionBidColumns...).From("auction_bids").
		Where(qb.Eq("auction_item_id", itemID)).
		OrderBy("seq").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build select auction bids query")
	}

	var rows []auctionBidTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrapf(err, "select bids for auction %s", itemID)
	}

	out := make([]auction.Bid, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *AuctionRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]auction.Item, error) {
	query, args, err := qb.Select(auctionItemColumns...).From("auction_items").
		Where(
			qb.In("status", activeAuctionStatuses),
			qb.Expr("expires_at < ?", now.UTC()),
		).
		OrderBy("expires_at", "id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build select due auctions query")
	}

	var rows []auctionItemTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "select due auctions")
	}

	out := make([]auction.Item, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
