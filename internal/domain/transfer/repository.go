package transfer

import "context"

// Repository is the append-only transfer ledger.
type Repository interface {
	Append(ctx context.Context, r Record) error
	List(ctx context.Context, filter Filter) ([]Record, error)
	// NetForClub sums the signed effect of every record touching the club.
	NetForClub(ctx context.Context, leagueID, clubID string) (int64, error)
}
