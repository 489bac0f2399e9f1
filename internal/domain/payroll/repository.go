package payroll

import "context"

// Repository persists payroll batches.
type Repository interface {
	// InsertIfAbsent reports false when the batch for (league, round, club) exists.
	InsertIfAbsent(ctx context.Context, b Batch) (bool, error)
	ListByRound(ctx context.Context, leagueID string, round int) ([]Batch, error)
	SumByClub(ctx context.Context, leagueID, clubID string) (int64, error)
}
