package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/career-league/internal/domain/league"
	"github.com/riskibarqy/career-league/internal/domain/player"
	"github.com/riskibarqy/career-league/internal/domain/roster"
	"github.com/riskibarqy/career-league/internal/domain/txn"
)

// CatalogService serves the read side around the economy: league settings,
// the player catalog and club rosters.
type CatalogService struct {
	leagueRepo league.Repository
	playerRepo player.Repository
	uow        txn.UnitOfWork
}

func NewCatalogService(leagueRepo league.Repository, playerRepo player.Repository, uow txn.UnitOfWork) *CatalogService {
	return &CatalogService{
		leagueRepo: leagueRepo,
		playerRepo: playerRepo,
		uow:        uow,
	}
}

func (s *CatalogService) ListLeagues(ctx context.Context) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.ListLeagues")
	defer span.End()

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	return leagues, nil
}

func (s *CatalogService) GetLeague(ctx context.Context, leagueID string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.GetLeague")
	defer span.End()

	return loadLeague(ctx, s.leagueRepo, leagueID)
}

func (s *CatalogService) GetPlayer(ctx context.Context, playerID string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.GetPlayer")
	defer span.End()

	return loadPlayer(ctx, s.playerRepo, playerID)
}

// ListRoster returns the club's active assignments ordered by acquisition time.
func (s *CatalogService) ListRoster(ctx context.Context, leagueID, clubID string) ([]roster.Assignment, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.ListRoster")
	defer span.End()

	clubID, err := requireID("club id", clubID)
	if err != nil {
		return nil, err
	}
	lg, err := loadLeague(ctx, s.leagueRepo, leagueID)
	if err != nil {
		return nil, err
	}

	var items []roster.Assignment
	err = s.uow.Do(ctx, func(ctx context.Context, stores txn.Stores) error {
		list, err := stores.Rosters.ListActiveByClub(ctx, lg.ID, clubID)
		if err != nil {
			return fmt.Errorf("list roster league=%s club=%s: %w", lg.ID, clubID, err)
		}
		items = list
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].AcquiredAt.Before(items[j].AcquiredAt) })
	return items, nil
}
