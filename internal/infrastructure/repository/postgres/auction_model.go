package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/career-league/internal/domain/auction"
)

var auctionItemColumns = []string{
	"id",
	"league_id",
	"scope_id",
	"player_id",
	"starting_value",
	"current_value",
	"leading_club_id",
	"expires_at",
	"status",
	"cancel_reason",
	"finalized_at",
	"created_at",
	"updated_at",
}

var auctionBidColumns = []string{
	"id",
	"auction_item_id",
	"scope_id",
	"player_id",
	"club_id",
	"value",
	"expires_at_snapshot",
	"created_at",
}

type auctionItemTableModel struct {
	ID            string         `db:"id"`
	LeagueID      string         `db:"league_id"`
	ScopeID       string         `db:"scope_id"`
	PlayerID      string         `db:"player_id"`
	StartingValue int64          `db:"starting_value"`
	CurrentValue  int64          `db:"current_value"`
	LeadingClubID sql.NullString `db:"leading_club_id"`
	ExpiresAt     time.Time      `db:"expires_at"`
	Status        string         `db:"status"`
	CancelReason  string         `db:"cancel_reason"`
	FinalizedAt   sql.NullTime   `db:"finalized_at"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (m auctionItemTableModel) toDomain() auction.Item {
	return auction.Item{
		ID:            m.ID,
		LeagueID:      m.LeagueID,
		ScopeID:       m.ScopeID,
		PlayerID:      m.PlayerID,
		StartingValue: m.StartingValue,
		CurrentValue:  m.CurrentValue,
		LeadingClubID: m.LeadingClubID.String,
		ExpiresAt:     m.ExpiresAt.UTC(),
		Status:        auction.Status(m.Status),
		CancelReason:  m.CancelReason,
		FinalizedAt:   timePtr(m.FinalizedAt),
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

type auctionBidTableModel struct {
	ID                string    `db:"id"`
	AuctionItemID     string    `db:"auction_item_id"`
	ScopeID           string    `db:"scope_id"`
	PlayerID          string    `db:"player_id"`
	ClubID            string    `db:"club_id"`
	Value             int64     `db:"value"`
	ExpiresAtSnapshot time.Time `db:"expires_at_snapshot"`
	CreatedAt         time.Time `db:"created_at"`
}

func (m auctionBidTableModel) toDomain() auction.Bid {
	return auction.Bid{
		ID:                m.ID,
		AuctionItemID:     m.AuctionItemID,
		ScopeID:           m.ScopeID,
		PlayerID:          m.PlayerID,
		ClubID:            m.ClubID,
		Value:             m.Value,
		ExpiresAtSnapshot: m.ExpiresAtSnapshot.UTC(),
		CreatedAt:         m.CreatedAt.UTC(),
	}
}
