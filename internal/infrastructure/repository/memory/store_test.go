package memory

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/career-league/internal/domain/economy"
	"github.com/riskibarqy/career-league/internal/domain/roster"
	"github.com/riskibarqy/career-league/internal/domain/transfer"
	"github.com/riskibarqy/career-league/internal/domain/txn"
	"github.com/riskibarqy/career-league/internal/domain/wallet"
)

func TestStore_DiscardsWritesOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	err := store.Do(ctx, func(ctx context.Context, s txn.Stores) error {
		_, err := s.Wallets.Create(ctx, wallet.Wallet{LeagueID: "lg", ClubID: "c1", Balance: 100, StartingBalance: 100})
		return err
	})
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}

	boom := errors.New("boom")
	err = store.Do(ctx, func(ctx context.Context, s txn.Stores) error {
		if _, err := s.Wallets.ApplyDelta(ctx, "lg", "c1", -40, false); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	_ = store.Do(ctx, func(ctx context.Context, s txn.Stores) error {
		w, ok, err := s.Wallets.Get(ctx, "lg", "c1")
		if err != nil || !ok {
			t.Fatalf("get wallet: ok=%v err=%v", ok, err)
		}
		if w.Balance != 100 {
			t.Fatalf("failed unit of work leaked balance=%d", w.Balance)
		}
		return nil
	})
}

func TestStore_ActiveAssignmentIsUnique(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	err := store.Do(ctx, func(ctx context.Context, s txn.Stores) error {
		if err := s.Rosters.Insert(ctx, roster.Assignment{ID: "a1", ScopeID: "conf", LeagueID: "lg-1", PlayerID: "p1", ClubID: "c1", Active: true, AcquiredAt: now}); err != nil {
			return err
		}
		return s.Rosters.Insert(ctx, roster.Assignment{ID: "a2", ScopeID: "conf", LeagueID: "lg-2", PlayerID: "p1", ClubID: "c9", Active: true, AcquiredAt: now})
	})
	if economy.KindOf(err) != economy.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestStore_HonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := NewStore().Do(ctx, func(context.Context, txn.Stores) error {
		called = true
		return nil
	})
	if err == nil || called {
		t.Fatalf("expected context error without running fn, err=%v called=%v", err, called)
	}
}

func TestStore_ListTransfersPairsLeagueWithClub(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	err := store.Do(ctx, func(ctx context.Context, s txn.Stores) error {
		records := []transfer.Record{
			{ID: "r1", LeagueID: "lg-b", ScopeID: "conf", PlayerID: "p1", OriginLeagueID: "lg-a", OriginClubID: "c1", DestinationClubID: "c7", Type: transfer.TypeFine, Amount: 10, CreatedAt: now},
			{ID: "r2", LeagueID: "lg-a", ScopeID: "conf", PlayerID: "p2", OriginLeagueID: "lg-b", OriginClubID: "c1", DestinationClubID: "c8", Type: transfer.TypeFine, Amount: 20, CreatedAt: now},
			{ID: "r3", LeagueID: "lg-a", ScopeID: "conf", PlayerID: "p3", DestinationClubID: "c1", Type: transfer.TypeFreeSigning, Amount: 30, CreatedAt: now},
		}
		for _, rec := range records {
			if err := s.Transfers.Append(ctx, rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("append records: %v", err)
	}

	_ = store.Do(ctx, func(ctx context.Context, s txn.Stores) error {
		got, err := s.Transfers.List(ctx, transfer.Filter{LeagueID: "lg-a", ClubID: "c1"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 2 || got[0].ID != "r3" || got[1].ID != "r1" {
			t.Fatalf("unexpected records for lg-a/c1: %+v", got)
		}
		return nil
	})
}
