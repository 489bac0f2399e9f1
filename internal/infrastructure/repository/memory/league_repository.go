package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/career-league/internal/domain/league"
)

type LeagueRepository struct {
	mu     sync.RWMutex
	items  map[string]league.League
	orders []string
}

func NewLeagueRepository(leagues []league.League) *LeagueRepository {
	r := &LeagueRepository{items: make(map[string]league.League, len(leagues))}
	for _, l := range leagues {
		r.Upsert(l)
	}
	return r
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[leagueID]
	if !ok {
		return league.League{}, false, nil
	}

	return l, true, nil
}

// Upsert replaces league settings, keeping insertion order for List.
func (r *LeagueRepository) Upsert(l league.League) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[l.ID]; !ok {
		r.orders = append(r.orders, l.ID)
	}
	r.items[l.ID] = l
}
