package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/career-league/internal/domain/league"
	"github.com/shopspring/decimal"
)

var leagueColumns = []string{
	"public_id",
	"name",
	"confederation_id",
	"roster_cap",
	"starting_balance",
	"fine_multiplier",
	"min_sale_percent",
	"block_negative_balance",
	"anti_snipe_seconds",
}

type leagueTableModel struct {
	PublicID             string          `db:"public_id"`
	Name                 string          `db:"name"`
	ConfederationID      sql.NullString  `db:"confederation_id"`
	RosterCap            int             `db:"roster_cap"`
	StartingBalance      int64           `db:"starting_balance"`
	FineMultiplier       decimal.Decimal `db:"fine_multiplier"`
	MinSalePercent       int64           `db:"min_sale_percent"`
	BlockNegativeBalance bool            `db:"block_negative_balance"`
	AntiSnipeSeconds     int64           `db:"anti_snipe_seconds"`
}

func (m leagueTableModel) toDomain() league.League {
	return league.League{
		ID:              m.PublicID,
		Name:            m.Name,
		ConfederationID: m.ConfederationID.String,
		Economy: league.EconomySettings{
			RosterCap:            m.RosterCap,
			StartingBalance:      m.StartingBalance,
			FineMultiplier:       m.FineMultiplier,
			MinSalePercent:       m.MinSalePercent,
			BlockNegativeBalance: m.BlockNegativeBalance,
			AntiSnipeWindow:      time.Duration(m.AntiSnipeSeconds) * time.Second,
		},
	}
}
