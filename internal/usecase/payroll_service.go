package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/career-league/internal/domain/league"
	"github.com/riskibarqy/career-league/internal/domain/payroll"
	"github.com/riskibarqy/career-league/internal/domain/txn"
	"github.com/riskibarqy/career-league/internal/platform/logging"
	"github.com/riskibarqy/career-league/internal/platform/metrics"
	"github.com/sourcegraph/conc/pool"
)

const defaultPayrollConcurrency = 4

type PayrollConfig struct {
	// Concurrency bounds how many clubs are charged at once.
	Concurrency int
}

// ClubCharge is one payroll batch charged in this call.
type ClubCharge struct {
	ClubID     string `json:"club_id"`
	TotalWage  int64  `json:"total_wage"`
	NewBalance int64  `json:"new_balance"`
}

type PayrollResult struct {
	LeagueID string       `json:"league_id"`
	Round    int          `json:"round"`
	Charged  []ClubCharge `json:"charged"`
}

type PayrollService struct {
	leagueRepo league.Repository
	uow        txn.UnitOfWork
	events     EventPublisher
	cfg        PayrollConfig
	logger     *logging.Logger
	now        func() time.Time
}

func NewPayrollService(
	leagueRepo league.Repository,
	uow txn.UnitOfWork,
	events EventPublisher,
	cfg PayrollConfig,
	logger *logging.Logger,
) *PayrollService {
	if events == nil {
		events = NewNoopEventPublisher()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultPayrollConcurrency
	}
	return &PayrollService{
		leagueRepo: leagueRepo,
		uow:        uow,
		events:     events,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// ChargeRound deducts the round's wages from every club holding players.
// Each club commits on its own; a club already charged for the round is
// skipped and left out of the result. When some clubs fail, the result still
// lists the clubs that were charged and the error aggregates the failures.
func (s *PayrollService) ChargeRound(ctx context.Context, leagueID string, round int) (PayrollResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PayrollService.ChargeRound")
	defer span.End()

	result, err := s.chargeRound(ctx, leagueID, round)
	observeFailure("payroll", err)
	return result, err
}

func (s *PayrollService) chargeRound(ctx context.Context, leagueID string, round int) (PayrollResult, error) {
	if round < 1 {
		return PayrollResult{}, fmt.Errorf("%w: round must be >= 1", ErrInvalidInput)
	}
	lg, err := loadLeague(ctx, s.leagueRepo, leagueID)
	if err != nil {
		return PayrollResult{}, err
	}

	var clubIDs []string
	err = s.uow.Do(ctx, func(ctx context.Context, stores txn.Stores) error {
		ids, err := stores.Rosters.ListClubsWithActive(ctx, lg.ID)
		if err != nil {
			return fmt.Errorf("list clubs with players league=%s: %w", lg.ID, err)
		}
		clubIDs = ids
		return nil
	})
	if err != nil {
		return PayrollResult{}, err
	}

	result := PayrollResult{LeagueID: lg.ID, Round: round, Charged: []ClubCharge{}}
	if len(clubIDs) == 0 {
		return result, nil
	}

	now := s.now().UTC()
	tasks := pool.NewWithResults[*ClubCharge]().
		WithContext(ctx).
		WithMaxGoroutines(s.cfg.Concurrency)
	for _, clubID := range clubIDs {
		tasks.Go(func(ctx context.Context) (*ClubCharge, error) {
			charge, err := s.chargeClub(ctx, lg, round, clubID, now)
			if err != nil {
				return nil, errors.Wrapf(err, "charge club=%s round=%d", clubID, round)
			}
			return charge, nil
		})
	}
	charges, err := tasks.Wait()

	for _, charge := range charges {
		if charge != nil {
			result.Charged = append(result.Charged, *charge)
		}
	}
	sort.Slice(result.Charged, func(i, j int) bool {
		return result.Charged[i].ClubID < result.Charged[j].ClubID
	})

	s.logger.InfoContext(ctx, "payroll round processed",
		"league_id", lg.ID,
		"round", round,
		"clubs", len(clubIDs),
		"charged", len(result.Charged),
		"failed", err != nil,
	)
	return result, err
}

// chargeClub returns nil without error when the batch already exists.
func (s *PayrollService) chargeClub(ctx context.Context, lg league.League, round int, clubID string, now time.Time) (*ClubCharge, error) {
	var charge *ClubCharge
	err := s.uow.Do(ctx, func(ctx context.Context, stores txn.Stores) error {
		charge = nil
		w, ok, err := stores.Wallets.GetForUpdate(ctx, lg.ID, clubID)
		if err != nil {
			return fmt.Errorf("lock wallet club=%s: %w", clubID, err)
		}
		if !ok {
			s.logger.WarnContext(ctx, "payroll skipped club without wallet", "league_id", lg.ID, "club_id", clubID)
			return nil
		}

		assignments, err := stores.Rosters.ListActiveByClub(ctx, lg.ID, clubID)
		if err != nil {
			return fmt.Errorf("list roster club=%s: %w", clubID, err)
		}
		var total int64
		for _, a := range assignments {
			total += a.Wage
		}

		batch := payroll.Batch{LeagueID: lg.ID, Round: round, ClubID: clubID, TotalWage: total, CreatedAt: now}
		if err := batch.Validate(); err != nil {
			return errors.Wrap(err, "build payroll batch")
		}
		inserted, err := stores.Payroll.InsertIfAbsent(ctx, batch)
		if err != nil {
			return fmt.Errorf("insert payroll batch: %w", err)
		}
		if !inserted {
			return nil
		}

		balance := w.Balance
		if total != 0 {
			balance, err = stores.Wallets.ApplyDelta(ctx, lg.ID, clubID, -total, true)
			if err != nil {
				return err
			}
		}
		charge = &ClubCharge{ClubID: clubID, TotalWage: total, NewBalance: balance}
		return nil
	})
	if err != nil || charge == nil {
		return nil, err
	}

	metrics.PayrollChargesTotal.Inc()
	if err := s.events.Publish(ctx, lg.ID+":"+clubID, EventPayrollCharged, map[string]any{
		"league_id":   lg.ID,
		"round":       round,
		"club_id":     clubID,
		"total_wage":  charge.TotalWage,
		"new_balance": charge.NewBalance,
	}); err != nil {
		s.logger.WarnContext(ctx, "publish payroll event failed", "club_id", clubID, "round", round, "error", err)
	}
	return charge, nil
}
