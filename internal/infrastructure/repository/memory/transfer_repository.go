package memory

import (
	"context"

	"github.com/riskibarqy/career-league/internal/domain/transfer"
)

type transferStore struct {
	st *state
}

func (r *transferStore) Append(_ context.Context, rec transfer.Record) error {
	r.st.transfers = append(r.st.transfers, rec)
	return nil
}

// List returns newest records first.
func (r *transferStore) List(_ context.Context, filter transfer.Filter) ([]transfer.Record, error) {
	out := make([]transfer.Record, 0)
	for i := len(r.st.transfers) - 1; i >= 0; i-- {
		rec := r.st.transfers[i]
		if !rec.Matches(filter) {
			continue
		}
		out = append(out, rec)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (r *transferStore) NetForClub(_ context.Context, leagueID, clubID string) (int64, error) {
	var net int64
	for _, rec := range r.st.transfers {
		net += rec.NetFor(leagueID, clubID)
	}
	return net, nil
}
