package postgres

import (
	"time"

	"github.com/riskibarqy/career-league/internal/domain/wallet"
)

var walletColumns = []string{
	"league_id",
	"club_id",
	"balance",
	"starting_balance",
	"created_at",
	"updated_at",
}

type walletTableModel struct {
	LeagueID        string    `db:"league_id"`
	ClubID          string    `db:"club_id"`
	Balance         int64     `db:"balance"`
	StartingBalance int64     `db:"starting_balance"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (m walletTableModel) toDomain() wallet.Wallet {
	return wallet.Wallet{
		LeagueID:        m.LeagueID,
		ClubID:          m.ClubID,
		Balance:         m.Balance,
		StartingBalance: m.StartingBalance,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}
