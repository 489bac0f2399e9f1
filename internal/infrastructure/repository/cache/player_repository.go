package cache

import (
	"context"

	"github.com/riskibarqy/career-league/internal/domain/player"
	basecache "github.com/riskibarqy/career-league/internal/platform/cache"
)

type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func playerKey(playerID string) string {
	return "player:id:" + playerID
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, playerKey(playerID), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, playerID)
		if err != nil {
			return nil, err
		}
		return cachedPlayer{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}

	cached, _ := v.(cachedPlayer)
	return cached.value, cached.exists, nil
}

// GetByIDs serves cached players and loads the rest in one call.
func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	found := make(map[string]player.Player, len(playerIDs))
	missing := make([]string, 0, len(playerIDs))
	for _, id := range playerIDs {
		if v, ok := r.cache.Get(ctx, playerKey(id)); ok {
			if cached, _ := v.(cachedPlayer); cached.exists {
				found[id] = cached.value
			}
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		loaded, err := r.next.GetByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, p := range loaded {
			found[p.ID] = p
			r.cache.Set(ctx, playerKey(p.ID), cachedPlayer{value: p, exists: true})
		}
	}

	out := make([]player.Player, 0, len(found))
	seen := make(map[string]struct{}, len(found))
	for _, id := range playerIDs {
		p, ok := found[id]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

type cachedPlayer struct {
	value  player.Player
	exists bool
}
