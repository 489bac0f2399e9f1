// Package worker runs the periodic auction sweep outside the request path.
package worker

import (
	"context"
	"time"

	"github.com/riskibarqy/career-league/internal/infrastructure/lock"
	"github.com/riskibarqy/career-league/internal/platform/logging"
	"github.com/riskibarqy/career-league/internal/usecase"
)

const sweepLockKey = "auction-sweep"

type auctionSweeper interface {
	SweepExpired(ctx context.Context, limit int) (usecase.SweepResult, error)
}

// Locker hands out a lease, or nil when another replica holds it.
type Locker interface {
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (*lock.Lease, error)
}

type SweeperConfig struct {
	Interval time.Duration
	Batch    int
	LockTTL  time.Duration
}

// Sweeper settles expired auctions on a fixed interval. With a Locker only
// the replica holding the lease sweeps.
type Sweeper struct {
	auctions auctionSweeper
	locker   Locker
	cfg      SweeperConfig
	logger   *logging.Logger
}

func NewSweeper(auctions auctionSweeper, locker Locker, cfg SweeperConfig, logger *logging.Logger) *Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 2 * time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Sweeper{auctions: auctions, locker: locker, cfg: cfg, logger: logger}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.logger.Info("auction sweeper started", "interval", s.cfg.Interval.String(), "batch", s.cfg.Batch, "locked", s.locker != nil)
	for {
		s.Tick(ctx)
		select {
		case <-ctx.Done():
			s.logger.Info("auction sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}

// Tick runs one sweep. It reports whether the sweep ran.
func (s *Sweeper) Tick(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}

	var lease *lock.Lease
	if s.locker != nil {
		var err error
		lease, err = s.locker.TryAcquire(ctx, sweepLockKey, s.cfg.LockTTL)
		if err != nil {
			s.logger.WarnContext(ctx, "acquire sweep lock failed", "error", err)
			return false
		}
		if lease == nil {
			s.logger.DebugContext(ctx, "sweep lock held by another replica")
			return false
		}
		defer func() {
			held, err := lease.Release(context.WithoutCancel(ctx))
			if err != nil {
				s.logger.WarnContext(ctx, "release sweep lock failed", "error", err)
				return
			}
			if !held {
				s.logger.WarnContext(ctx, "sweep lock expired before release", "ttl", s.cfg.LockTTL.String())
			}
		}()
	}

	result, err := s.auctions.SweepExpired(ctx, s.cfg.Batch)
	if err != nil {
		s.logger.ErrorContext(ctx, "auction sweep failed", "error", err)
		return true
	}
	if result.Failed > 0 {
		s.logger.WarnContext(ctx, "auction sweep had failures",
			"processed", result.Processed,
			"failed", result.Failed,
		)
	}
	return true
}
