package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/career-league/internal/domain/transfer"
)

var transferColumns = []string{
	"id",
	"league_id",
	"scope_id",
	"player_id",
	"origin_league_id",
	"origin_club_id",
	"destination_club_id",
	"type",
	"amount",
	"correlation_id",
	"note",
	"created_at",
}

type transferRecordTableModel struct {
	ID                string         `db:"id"`
	LeagueID          string         `db:"league_id"`
	ScopeID           string         `db:"scope_id"`
	PlayerID          string         `db:"player_id"`
	OriginLeagueID    sql.NullString `db:"origin_league_id"`
	OriginClubID      sql.NullString `db:"origin_club_id"`
	DestinationClubID string         `db:"destination_club_id"`
	Type              string         `db:"type"`
	Amount            int64          `db:"amount"`
	CorrelationID     sql.NullString `db:"correlation_id"`
	Note              string         `db:"note"`
	CreatedAt         time.Time      `db:"created_at"`
}

func (m transferRecordTableModel) toDomain() transfer.Record {
	return transfer.Record{
		ID:                m.ID,
		LeagueID:          m.LeagueID,
		ScopeID:           m.ScopeID,
		PlayerID:          m.PlayerID,
		OriginLeagueID:    m.OriginLeagueID.String,
		OriginClubID:      m.OriginClubID.String,
		DestinationClubID: m.DestinationClubID,
		Type:              transfer.Type(m.Type),
		Amount:            m.Amount,
		CorrelationID:     m.CorrelationID.String,
		Note:              m.Note,
		CreatedAt:         m.CreatedAt.UTC(),
	}
}
