package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/career-league/internal/domain/economy"
	"github.com/riskibarqy/career-league/internal/domain/roster"
)

type rosterStore struct {
	st *state
}

func (r *rosterStore) GetActive(_ context.Context, scopeID, playerID string) (roster.Assignment, bool, error) {
	for _, a := range r.st.assignments {
		if a.Active && a.ScopeID == scopeID && a.PlayerID == playerID {
			return cloneAssignment(a), true, nil
		}
	}
	return roster.Assignment{}, false, nil
}

func (r *rosterStore) GetActiveForUpdate(ctx context.Context, scopeID, playerID string) (roster.Assignment, bool, error) {
	return r.GetActive(ctx, scopeID, playerID)
}

func (r *rosterStore) CountActiveByClub(ctx context.Context, leagueID, clubID string) (int, error) {
	items, err := r.ListActiveByClub(ctx, leagueID, clubID)
	return len(items), err
}

func (r *rosterStore) ListActiveByClub(_ context.Context, leagueID, clubID string) ([]roster.Assignment, error) {
	out := make([]roster.Assignment, 0)
	for _, a := range r.st.assignments {
		if a.Active && a.LeagueID == leagueID && a.ClubID == clubID {
			out = append(out, cloneAssignment(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

func (r *rosterStore) ListClubsWithActive(_ context.Context, leagueID string) ([]string, error) {
	seen := make(map[string]struct{})
	for _, a := range r.st.assignments {
		if a.Active && a.LeagueID == leagueID {
			seen[a.ClubID] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for clubID := range seen {
		out = append(out, clubID)
	}
	sort.Strings(out)
	return out, nil
}

func (r *rosterStore) Insert(_ context.Context, a roster.Assignment) error {
	if _, ok := r.st.assignments[a.ID]; ok {
		return economy.Conflict(errors.Newf("assignment %s exists", a.ID), "insert roster assignment")
	}
	if a.Active {
		for _, existing := range r.st.assignments {
			if existing.Active && existing.ScopeID == a.ScopeID && existing.PlayerID == a.PlayerID {
				return economy.Conflict(errors.Newf("player %s already active in scope %s", a.PlayerID, a.ScopeID), "insert roster assignment")
			}
		}
	}
	r.st.assignments[a.ID] = cloneAssignment(a)
	return nil
}

func (r *rosterStore) Deactivate(_ context.Context, assignmentID string, releasedAt time.Time) error {
	a, ok := r.st.assignments[assignmentID]
	if !ok || !a.Active {
		return economy.Conflict(errors.Newf("assignment %s is not active", assignmentID), "deactivate roster assignment")
	}
	at := releasedAt
	a.Active = false
	a.ReleasedAt = &at
	r.st.assignments[assignmentID] = a
	return nil
}
