package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/career-league/internal/domain/league"
	"github.com/riskibarqy/career-league/internal/domain/transfer"
	"github.com/riskibarqy/career-league/internal/domain/txn"
	"github.com/riskibarqy/career-league/internal/domain/wallet"
	"github.com/riskibarqy/career-league/internal/platform/logging"
)

const (
	defaultTransferListLimit = 50
	maxTransferListLimit     = 500
)

type ListTransfersInput struct {
	LeagueID string
	ClubID   string
	PlayerID string
	Limit    int
}

// ReconcileReport compares the stored balance with the balance implied by the
// ledger and payroll history.
type ReconcileReport struct {
	LeagueID        string `json:"league_id"`
	ClubID          string `json:"club_id"`
	StoredBalance   int64  `json:"stored_balance"`
	ExpectedBalance int64  `json:"expected_balance"`
	StartingBalance int64  `json:"starting_balance"`
	LedgerNet       int64  `json:"ledger_net"`
	PayrollTotal    int64  `json:"payroll_total"`
	Consistent      bool   `json:"consistent"`
}

type WalletService struct {
	leagueRepo league.Repository
	uow        txn.UnitOfWork
	logger     *logging.Logger
	now        func() time.Time
}

func NewWalletService(leagueRepo league.Repository, uow txn.UnitOfWork, logger *logging.Logger) *WalletService {
	if logger == nil {
		logger = logging.Default()
	}
	return &WalletService{
		leagueRepo: leagueRepo,
		uow:        uow,
		logger:     logger,
		now:        time.Now,
	}
}

// OpenWallet creates the club wallet with the league starting balance. Opening
// an existing wallet returns it unchanged with created=false.
func (s *WalletService) OpenWallet(ctx context.Context, leagueID, clubID string) (wallet.Wallet, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WalletService.OpenWallet")
	defer span.End()

	clubID, err := requireID("club id", clubID)
	if err != nil {
		return wallet.Wallet{}, false, err
	}
	lg, err := loadLeague(ctx, s.leagueRepo, leagueID)
	if err != nil {
		return wallet.Wallet{}, false, err
	}

	now := s.now().UTC()
	var (
		out     wallet.Wallet
		created bool
	)
	err = s.uow.Do(ctx, func(ctx context.Context, stores txn.Stores) error {
		w := wallet.Wallet{
			LeagueID:        lg.ID,
			ClubID:          clubID,
			Balance:         lg.Economy.StartingBalance,
			StartingBalance: lg.Economy.StartingBalance,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		inserted, err := stores.Wallets.Create(ctx, w)
		if err != nil {
			return fmt.Errorf("create wallet club=%s: %w", clubID, err)
		}
		if inserted {
			out, created = w, true
			return nil
		}
		existing, ok, err := stores.Wallets.Get(ctx, lg.ID, clubID)
		if err != nil {
			return fmt.Errorf("get wallet club=%s: %w", clubID, err)
		}
		if !ok {
			return fmt.Errorf("wallet club=%s vanished after create conflict", clubID)
		}
		out = existing
		return nil
	})
	if err != nil {
		observeFailure("wallet_open", err)
		return wallet.Wallet{}, false, err
	}

	if created {
		s.logger.InfoContext(ctx, "wallet opened", "league_id", lg.ID, "club_id", clubID, "balance", out.Balance)
	}
	return out, created, nil
}

func (s *WalletService) GetBalance(ctx context.Context, leagueID, clubID string) (wallet.Wallet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WalletService.GetBalance")
	defer span.End()

	leagueID, err := requireID("league id", leagueID)
	if err != nil {
		return wallet.Wallet{}, err
	}
	clubID, err = requireID("club id", clubID)
	if err != nil {
		return wallet.Wallet{}, err
	}

	var out wallet.Wallet
	err = s.uow.Do(ctx, func(ctx context.Context, stores txn.Stores) error {
		w, ok, err := stores.Wallets.Get(ctx, leagueID, clubID)
		if err != nil {
			return fmt.Errorf("get wallet club=%s: %w", clubID, err)
		}
		if !ok {
			return fmt.Errorf("%w: wallet league=%s club=%s", ErrNotFound, leagueID, clubID)
		}
		out = w
		return nil
	})
	return out, err
}

// ListTransfers returns ledger records of the league, newest first.
func (s *WalletService) ListTransfers(ctx context.Context, input ListTransfersInput) ([]transfer.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WalletService.ListTransfers")
	defer span.End()

	leagueID, err := requireID("league id", input.LeagueID)
	if err != nil {
		return nil, err
	}
	limit := input.Limit
	switch {
	case limit < 0:
		return nil, fmt.Errorf("%w: limit must not be negative", ErrInvalidInput)
	case limit == 0:
		limit = defaultTransferListLimit
	case limit > maxTransferListLimit:
		limit = maxTransferListLimit
	}

	filter := transfer.Filter{
		LeagueID: leagueID,
		ClubID:   strings.TrimSpace(input.ClubID),
		PlayerID: strings.TrimSpace(input.PlayerID),
		Limit:    limit,
	}
	var records []transfer.Record
	err = s.uow.Do(ctx, func(ctx context.Context, stores txn.Stores) error {
		items, err := stores.Transfers.List(ctx, filter)
		if err != nil {
			return fmt.Errorf("list transfers league=%s: %w", leagueID, err)
		}
		records = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []transfer.Record{}
	}
	return records, nil
}

// Reconcile recomputes the balance from starting balance, ledger and payroll.
func (s *WalletService) Reconcile(ctx context.Context, leagueID, clubID string) (ReconcileReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WalletService.Reconcile")
	defer span.End()

	leagueID, err := requireID("league id", leagueID)
	if err != nil {
		return ReconcileReport{}, err
	}
	clubID, err = requireID("club id", clubID)
	if err != nil {
		return ReconcileReport{}, err
	}

	var report ReconcileReport
	err = s.uow.Do(ctx, func(ctx context.Context, stores txn.Stores) error {
		w, ok, err := stores.Wallets.Get(ctx, leagueID, clubID)
		if err != nil {
			return fmt.Errorf("get wallet club=%s: %w", clubID, err)
		}
		if !ok {
			return fmt.Errorf("%w: wallet league=%s club=%s", ErrNotFound, leagueID, clubID)
		}
		net, err := stores.Transfers.NetForClub(ctx, leagueID, clubID)
		if err != nil {
			return fmt.Errorf("sum ledger club=%s: %w", clubID, err)
		}
		wages, err := stores.Payroll.SumByClub(ctx, leagueID, clubID)
		if err != nil {
			return fmt.Errorf("sum payroll club=%s: %w", clubID, err)
		}
		expected := w.StartingBalance + net - wages
		report = ReconcileReport{
			LeagueID:        leagueID,
			ClubID:          clubID,
			StoredBalance:   w.Balance,
			ExpectedBalance: expected,
			StartingBalance: w.StartingBalance,
			LedgerNet:       net,
			PayrollTotal:    wages,
			Consistent:      expected == w.Balance,
		}
		return nil
	})
	if err != nil {
		return ReconcileReport{}, err
	}
	if !report.Consistent {
		s.logger.ErrorContext(ctx, "wallet ledger mismatch",
			"league_id", leagueID,
			"club_id", clubID,
			"stored", report.StoredBalance,
			"expected", report.ExpectedBalance,
		)
	}
	return report, nil
}
