package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cockroachdb/errors"
	"github.com/lib/pq"
	"github.com/riskibarqy/career-league/internal/domain/auction"
	"github.com/riskibarqy/career-league/internal/domain/economy"
	"github.com/stretchr/testify/require"
)

const auctionSelectPrefix = "SELECT id, league_id, scope_id, player_id, starting_value, current_value, leading_club_id, expires_at, status, cancel_reason, finalized_at, created_at, updated_at FROM auction_items"

func TestAuctionRepository_ListDue(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAuctionRepository(db)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(auctionSelectPrefix+" WHERE status IN ($1, $2) AND expires_at < $3 ORDER BY expires_at, id LIMIT 10")).
		WithArgs("open", "finalizing", now).
		WillReturnRows(sqlmock.NewRows(auctionItemColumns).
			AddRow("au1", "l1", "s1", "p1", int64(500), int64(700), "c1", now.Add(-time.Minute), "open", "", nil, now, now))

	items, err := repo.ListDue(context.Background(), now, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, auction.StatusOpen, items[0].Status)
	require.Equal(t, "c1", items[0].LeadingClubID)
	require.True(t, items[0].Expired(now))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuctionRepository_Create_DuplicateActiveIsConflict(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAuctionRepository(db)
	now := time.Now()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO auction_items")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "uq_auction_active_player"})

	err := repo.Create(context.Background(), auction.Item{
		ID: "au2", LeagueID: "l1", ScopeID: "s1", PlayerID: "p1",
		StartingValue: 500, CurrentValue: 500, ExpiresAt: now.Add(time.Hour),
		Status: auction.StatusOpen, CreatedAt: now, UpdatedAt: now,
	})
	require.True(t, errors.Is(err, economy.ErrConflict), "got %v", err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuctionRepository_Update_MissingItem(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAuctionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE auction_items SET current_value = $1, leading_club_id = $2, expires_at = $3, status = $4, cancel_reason = $5, finalized_at = $6, updated_at = $7 WHERE id = $8")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), auction.Item{ID: "missing", Status: auction.StatusCancelled, UpdatedAt: time.Now()})
	require.True(t, errors.Is(err, economy.ErrNotFound), "got %v", err)
	require.NoError(t, mock.ExpectationsWereMet())
}
