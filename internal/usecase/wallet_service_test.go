package usecase

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/career-league/internal/domain/transfer"
	"github.com/riskibarqy/career-league/internal/domain/txn"
)

func TestWalletService_OpenWallet_IsIdempotent(t *testing.T) {
	f := newEconomyFixture(t)
	ctx := context.Background()

	first, created, err := f.wallets.OpenWallet(ctx, testLeagueID, "club-a")
	if err != nil {
		t.Fatalf("open wallet: %v", err)
	}
	if !created || first.Balance != 1000 || first.StartingBalance != 1000 {
		t.Fatalf("unexpected wallet: created=%v %+v", created, first)
	}

	f.sign(testLeagueID, "club-a", "p-200", 200)

	second, created, err := f.wallets.OpenWallet(ctx, testLeagueID, "club-a")
	if err != nil {
		t.Fatalf("reopen wallet: %v", err)
	}
	if created {
		t.Fatalf("reopening must not report creation")
	}
	if second.Balance != 800 {
		t.Fatalf("reopening must not reset the balance, got %d", second.Balance)
	}
}

func TestWalletService_GetBalance_NotFound(t *testing.T) {
	f := newEconomyFixture(t)
	if _, err := f.wallets.GetBalance(context.Background(), testLeagueID, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.wallets.GetBalance(context.Background(), testLeagueID, " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestWalletService_ListTransfers_FiltersNewestFirst(t *testing.T) {
	f := newEconomyFixture(t)
	f.openWallet(testLeagueID, "club-a")
	f.openWallet(testLeagueID, "club-b")
	f.sign(testLeagueID, "club-a", "p-200", 200)
	f.sign(testLeagueID, "club-b", "p-300", 300)
	if _, err := f.transfers.Sell(context.Background(), SellInput{
		LeagueID: testLeagueID, SellerClubID: "club-a", BuyerClubID: "club-b", PlayerID: "p-200", Price: 150,
	}); err != nil {
		t.Fatalf("sell: %v", err)
	}

	all := f.ledger(testLeagueID)
	if len(all) != 3 || all[0].Type != transfer.TypeSale {
		t.Fatalf("expected newest sale first, got %+v", all)
	}

	byPlayer, err := f.wallets.ListTransfers(context.Background(), ListTransfersInput{LeagueID: testLeagueID, PlayerID: "p-200"})
	if err != nil {
		t.Fatalf("list by player: %v", err)
	}
	if len(byPlayer) != 2 {
		t.Fatalf("expected two records for p-200, got %d", len(byPlayer))
	}

	limited, err := f.wallets.ListTransfers(context.Background(), ListTransfersInput{LeagueID: testLeagueID, ClubID: "club-b", Limit: 1})
	if err != nil {
		t.Fatalf("list by club: %v", err)
	}
	if len(limited) != 1 || limited[0].Type != transfer.TypeSale {
		t.Fatalf("unexpected limited listing: %+v", limited)
	}

	if _, err := f.wallets.ListTransfers(context.Background(), ListTransfersInput{LeagueID: testLeagueID, Limit: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative limit, got %v", err)
	}
}

func TestWalletService_Reconcile_DetectsDrift(t *testing.T) {
	f := newEconomyFixture(t)
	ctx := context.Background()
	f.openWallet(testLeagueID, "club-a")
	f.sign(testLeagueID, "club-a", "p-200", 200)
	if _, err := f.payroll.ChargeRound(ctx, testLeagueID, 1); err != nil {
		t.Fatalf("charge payroll: %v", err)
	}

	report, err := f.wallets.Reconcile(ctx, testLeagueID, "club-a")
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !report.Consistent || report.LedgerNet != -200 || report.PayrollTotal != 30 || report.ExpectedBalance != 770 {
		t.Fatalf("unexpected report: %+v", report)
	}

	// A write that bypasses the ledger shows up as drift.
	err = f.store.Do(ctx, func(ctx context.Context, stores txn.Stores) error {
		_, err := stores.Wallets.ApplyDelta(ctx, testLeagueID, "club-a", 5, true)
		return err
	})
	if err != nil {
		t.Fatalf("tamper: %v", err)
	}
	report, err = f.wallets.Reconcile(ctx, testLeagueID, "club-a")
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if report.Consistent || report.StoredBalance != 775 || report.ExpectedBalance != 770 {
		t.Fatalf("expected drift to be reported: %+v", report)
	}
}
