package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/career-league/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo leagues and player catalog into an empty database.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM leagues WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count leagues for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, l := range memory.SeedLeagues() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO leagues (public_id, name, confederation_id, roster_cap, starting_balance, fine_multiplier,
	min_sale_percent, block_negative_balance, anti_snipe_seconds)
VALUES (:public_id, :name, :confederation_id, :roster_cap, :starting_balance, :fine_multiplier,
	:min_sale_percent, :block_negative_balance, :anti_snipe_seconds)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":              l.ID,
			"name":                   l.Name,
			"confederation_id":       nullString(l.ConfederationID),
			"roster_cap":             l.Economy.RosterCap,
			"starting_balance":       l.Economy.StartingBalance,
			"fine_multiplier":        l.Economy.FineMultiplier.String(),
			"min_sale_percent":       l.Economy.MinSalePercent,
			"block_negative_balance": l.Economy.BlockNegativeBalance,
			"anti_snipe_seconds":     int64(l.Economy.AntiSnipeWindow.Seconds()),
		})
		if err != nil {
			return fmt.Errorf("bind seed league %s query: %w", l.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed league %s: %w", l.ID, err)
		}
	}

	for _, p := range memory.SeedPlayers() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO players (public_id, name, position, value, wage, is_active)
VALUES (:public_id, :name, :position, :value, :wage, TRUE)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id": p.ID,
			"name":      p.Name,
			"position":  string(p.Position),
			"value":     p.Value,
			"wage":      p.Wage,
		})
		if err != nil {
			return fmt.Errorf("bind seed player %s query: %w", p.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed player %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
