package postgres

import (
	"context"
	"database/sql"
	"math/rand"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/career-league/internal/domain/economy"
	"github.com/riskibarqy/career-league/internal/domain/txn"
	"github.com/riskibarqy/career-league/internal/platform/logging"
	"github.com/riskibarqy/career-league/internal/platform/metrics"
)

const defaultTxMaxAttempts = 5

// UnitOfWork runs each call in one READ COMMITTED transaction. Row locks and
// unique indexes serialize conflicting writers; serialization failures and
// deadlocks are retried with backoff.
type UnitOfWork struct {
	db          *sqlx.DB
	maxAttempts int
	backoff     func(attempt int) time.Duration
	logger      *logging.Logger
}

func NewUnitOfWork(db *sqlx.DB, maxAttempts int, logger *logging.Logger) *UnitOfWork {
	if maxAttempts <= 0 {
		maxAttempts = defaultTxMaxAttempts
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &UnitOfWork{
		db:          db,
		maxAttempts: maxAttempts,
		backoff:     retryBackoff,
		logger:      logger,
	}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, stores txn.Stores) error) error {
	var lastErr error
	for attempt := 1; attempt <= u.maxAttempts; attempt++ {
		err := u.attempt(ctx, fn)
		if err == nil {
			return nil
		}
		if isUniqueViolation(err) && !errors.Is(err, economy.ErrConflict) {
			return economy.Conflict(err, "unique constraint")
		}
		if !isRetryable(err) {
			return err
		}

		lastErr = err
		if attempt == u.maxAttempts {
			break
		}
		metrics.TxRetriesTotal.Inc()
		u.logger.WarnContext(ctx, "retrying transaction", "attempt", attempt, "error", err)
		if err := sleepContext(ctx, u.backoff(attempt)); err != nil {
			return err
		}
	}
	return economy.Conflict(lastErr, "transaction retry limit exceeded")
}

func (u *UnitOfWork) attempt(ctx context.Context, fn func(ctx context.Context, stores txn.Stores) error) error {
	tx, err := u.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}

	if err := fn(ctx, storesFor(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			u.logger.WarnContext(ctx, "rollback transaction failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	return nil
}

func storesFor(db DBTX) txn.Stores {
	return txn.Stores{
		Wallets:   NewWalletRepository(db),
		Rosters:   NewRosterRepository(db),
		Transfers: NewTransferRepository(db),
		Payroll:   NewPayrollRepository(db),
		Auctions:  NewAuctionRepository(db),
	}
}

func retryBackoff(attempt int) time.Duration {
	base := 20 * time.Millisecond
	jitter := time.Duration(rand.Int63n(int64(10 * time.Millisecond)))
	return time.Duration(attempt*attempt)*base + jitter
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
