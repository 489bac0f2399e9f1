package cache

import (
	"context"

	"github.com/riskibarqy/career-league/internal/domain/league"
	basecache "github.com/riskibarqy/career-league/internal/platform/cache"
)

// LeagueRepository caches league settings. Settings change rarely and every
// money-moving operation reads them at least once.
type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	v, err := r.cache.GetOrLoad(ctx, "league:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]league.League(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]league.League)
	return append([]league.League(nil), items...), nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	key := "league:id:" + leagueID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return cachedLeague{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}

	cached, _ := v.(cachedLeague)
	return cached.value, cached.exists, nil
}

// Invalidate drops cached settings for one league and the list.
func (r *LeagueRepository) Invalidate(ctx context.Context, leagueID string) {
	r.cache.Delete(ctx, "league:id:"+leagueID)
	r.cache.Delete(ctx, "league:list")
}

type cachedLeague struct {
	value  league.League
	exists bool
}
