package postgres

import (
	"time"

	"github.com/riskibarqy/career-league/internal/domain/payroll"
)

var payrollColumns = []string{
	"league_id",
	"round",
	"club_id",
	"total_wage",
	"created_at",
}

type payrollBatchTableModel struct {
	LeagueID  string    `db:"league_id"`
	Round     int       `db:"round"`
	ClubID    string    `db:"club_id"`
	TotalWage int64     `db:"total_wage"`
	CreatedAt time.Time `db:"created_at"`
}

func (m payrollBatchTableModel) toDomain() payroll.Batch {
	return payroll.Batch{
		LeagueID:  m.LeagueID,
		Round:     m.Round,
		ClubID:    m.ClubID,
		TotalWage: m.TotalWage,
		CreatedAt: m.CreatedAt.UTC(),
	}
}
