package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/career-league/internal/domain/league"
	"github.com/riskibarqy/career-league/internal/domain/player"
	leaguemock "github.com/riskibarqy/career-league/internal/mocks/domain/league"
	playermock "github.com/riskibarqy/career-league/internal/mocks/domain/player"
	basecache "github.com/riskibarqy/career-league/internal/platform/cache"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLeagueRepository_GetByID_LoadsOnce(t *testing.T) {
	ctx := context.Background()
	next := leaguemock.NewRepository(t)
	next.On("GetByID", mock.Anything, "l1").
		Return(league.League{ID: "l1", Name: "League One"}, true, nil).
		Once()

	repo := NewLeagueRepository(next, basecache.NewStore(time.Minute))
	for i := 0; i < 3; i++ {
		got, ok, err := repo.GetByID(ctx, "l1")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "League One", got.Name)
	}
}

func TestLeagueRepository_Invalidate_ReloadsSettings(t *testing.T) {
	ctx := context.Background()
	next := leaguemock.NewRepository(t)
	next.On("GetByID", mock.Anything, "l1").
		Return(league.League{ID: "l1", Name: "League One"}, true, nil).
		Twice()

	repo := NewLeagueRepository(next, basecache.NewStore(time.Minute))
	_, _, err := repo.GetByID(ctx, "l1")
	require.NoError(t, err)

	repo.Invalidate(ctx, "l1")
	_, _, err = repo.GetByID(ctx, "l1")
	require.NoError(t, err)
}

func TestLeagueRepository_GetByID_CachesMissingLeague(t *testing.T) {
	ctx := context.Background()
	next := leaguemock.NewRepository(t)
	next.On("GetByID", mock.Anything, "missing").
		Return(league.League{}, false, nil).
		Once()

	repo := NewLeagueRepository(next, basecache.NewStore(time.Minute))
	for i := 0; i < 2; i++ {
		_, ok, err := repo.GetByID(ctx, "missing")
		require.NoError(t, err)
		require.False(t, ok)
	}
}

func TestPlayerRepository_GetByIDs_LoadsOnlyMissing(t *testing.T) {
	ctx := context.Background()
	next := playermock.NewRepository(t)
	p1 := player.Player{ID: "p1", Name: "One", Position: player.PositionForward, Value: 100, Wage: 5}
	p2 := player.Player{ID: "p2", Name: "Two", Position: player.PositionDefender, Value: 200, Wage: 7}

	next.On("GetByID", mock.Anything, "p1").Return(p1, true, nil).Once()
	next.On("GetByIDs", mock.Anything, []string{"p2", "p3"}).Return([]player.Player{p2}, nil).Once()

	repo := NewPlayerRepository(next, basecache.NewStore(time.Minute))
	_, ok, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.GetByIDs(ctx, []string{"p1", "p2", "p3"})
	require.NoError(t, err)
	require.Equal(t, []player.Player{p1, p2}, got)

	got, err = repo.GetByIDs(ctx, []string{"p2", "p1"})
	require.NoError(t, err)
	require.Equal(t, []player.Player{p2, p1}, got)
}
