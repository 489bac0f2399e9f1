package postgres

import "github.com/riskibarqy/career-league/internal/domain/player"

var playerSelectColumns = []string{
	"public_id",
	"name",
	"position",
	"value",
	"wage",
}

type playerTableModel struct {
	PublicID string `db:"public_id"`
	Name     string `db:"name"`
	Position string `db:"position"`
	Value    int64  `db:"value"`
	Wage     int64  `db:"wage"`
}

func (m playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:       m.PublicID,
		Name:     m.Name,
		Position: player.Position(m.Position),
		Value:    m.Value,
		Wage:     m.Wage,
	}
}
