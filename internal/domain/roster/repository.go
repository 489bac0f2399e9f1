package roster

import (
	"context"
	"time"
)

// Repository persists roster assignments. Rows are deactivated, never deleted.
type Repository interface {
	GetActive(ctx context.Context, scopeID, playerID string) (Assignment, bool, error)
	// GetActiveForUpdate holds the assignment row lock until the unit of work ends.
	GetActiveForUpdate(ctx context.Context, scopeID, playerID string) (Assignment, bool, error)
	CountActiveByClub(ctx context.Context, leagueID, clubID string) (int, error)
	ListActiveByClub(ctx context.Context, leagueID, clubID string) ([]Assignment, error)
	// ListClubsWithActive returns club ids holding at least one active assignment.
	ListClubsWithActive(ctx context.Context, leagueID string) ([]string, error)
	// Insert fails with a conflict when another active assignment exists for the player.
	Insert(ctx context.Context, a Assignment) error
	Deactivate(ctx context.Context, assignmentID string, releasedAt time.Time) error
}
