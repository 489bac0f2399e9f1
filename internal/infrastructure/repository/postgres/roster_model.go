package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/career-league/internal/domain/roster"
)

var rosterColumns = []string{
	"id",
	"scope_id",
	"league_id",
	"player_id",
	"club_id",
	"acquired_value",
	"wage",
	"active",
	"acquired_at",
	"released_at",
}

type rosterAssignmentTableModel struct {
	ID            string       `db:"id"`
	ScopeID       string       `db:"scope_id"`
	LeagueID      string       `db:"league_id"`
	PlayerID      string       `db:"player_id"`
	ClubID        string       `db:"club_id"`
	AcquiredValue int64        `db:"acquired_value"`
	Wage          int64        `db:"wage"`
	Active        bool         `db:"active"`
	AcquiredAt    time.Time    `db:"acquired_at"`
	ReleasedAt    sql.NullTime `db:"released_at"`
}

func (m rosterAssignmentTableModel) toDomain() roster.Assignment {
	return roster.Assignment{
		ID:            m.ID,
		ScopeID:       m.ScopeID,
		LeagueID:      m.LeagueID,
		PlayerID:      m.PlayerID,
		ClubID:        m.ClubID,
		AcquiredValue: m.AcquiredValue,
		Wage:          m.Wage,
		Active:        m.Active,
		AcquiredAt:    m.AcquiredAt.UTC(),
		ReleasedAt:    timePtr(m.ReleasedAt),
	}
}
