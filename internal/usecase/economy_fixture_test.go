package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/career-league/internal/domain/league"
	"github.com/riskibarqy/career-league/internal/domain/player"
	"github.com/riskibarqy/career-league/internal/domain/roster"
	"github.com/riskibarqy/career-league/internal/domain/transfer"
	"github.com/riskibarqy/career-league/internal/domain/txn"
	"github.com/riskibarqy/career-league/internal/domain/wallet"
	"github.com/riskibarqy/career-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/career-league/internal/platform/logging"
	"github.com/shopspring/decimal"
)

const (
	testLeagueID        = "test-league"
	testConfederationID = "conf-test"
	testConfLeagueA     = "conf-league-a"
	testConfLeagueB     = "conf-league-b"
)

type sequenceIDGenerator struct {
	mu sync.Mutex
	n  int
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%04d", g.n), nil
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type enqueuedJob struct {
	path    string
	payload any
	delay   time.Duration
	dedupID string
}

type recordingJobQueue struct {
	mu   sync.Mutex
	jobs []enqueuedJob
}

func (q *recordingJobQueue) Enqueue(_ context.Context, path string, payload any, delay time.Duration, dedupID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, enqueuedJob{path: path, payload: payload, delay: delay, dedupID: dedupID})
	return nil
}

func (q *recordingJobQueue) snapshot() []enqueuedJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]enqueuedJob(nil), q.jobs...)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(_ context.Context, _, eventType string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	return nil
}

func (p *recordingPublisher) count(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e == eventType {
			n++
		}
	}
	return n
}

type economyFixture struct {
	t         *testing.T
	store     *memory.Store
	leagues   *memory.LeagueRepository
	players   *memory.PlayerRepository
	clock     *testClock
	queue     *recordingJobQueue
	events    *recordingPublisher
	transfers *TransferService
	payroll   *PayrollService
	auctions  *AuctionService
	wallets   *WalletService
}

func testEconomy() league.EconomySettings {
	return league.EconomySettings{
		RosterCap:            3,
		StartingBalance:      1000,
		FineMultiplier:       decimal.RequireFromString("2.0"),
		MinSalePercent:       50,
		BlockNegativeBalance: true,
		AntiSnipeWindow:      2 * time.Minute,
	}
}

func newEconomyFixture(t *testing.T) *economyFixture {
	t.Helper()

	leagues := memory.NewLeagueRepository([]league.League{
		{ID: testLeagueID, Name: "Test League", Economy: testEconomy()},
		{ID: testConfLeagueA, Name: "Confederation A", ConfederationID: testConfederationID, Economy: testEconomy()},
		{ID: testConfLeagueB, Name: "Confederation B", ConfederationID: testConfederationID, Economy: testEconomy()},
	})
	players := memory.NewPlayerRepository([]player.Player{
		{ID: "p-200", Name: "Two Hundred", Position: player.PositionForward, Value: 200, Wage: 30},
		{ID: "p-300", Name: "Three Hundred", Position: player.PositionMidfielder, Value: 300, Wage: 40},
		{ID: "p-400", Name: "Four Hundred", Position: player.PositionDefender, Value: 400, Wage: 10},
		{ID: "p-1000", Name: "One Thousand", Position: player.PositionGoalkeeper, Value: 1000, Wage: 50},
		{ID: "p-333", Name: "Odd Value", Position: player.PositionDefender, Value: 333, Wage: 5},
	})

	f := &economyFixture{
		t:       t,
		store:   memory.NewStore(),
		leagues: leagues,
		players: players,
		clock:   &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		queue:   &recordingJobQueue{},
		events:  &recordingPublisher{},
	}

	logger := logging.NewNop()
	ids := &sequenceIDGenerator{}
	f.transfers = NewTransferService(leagues, players, f.store, ids, f.events, logger)
	f.transfers.now = f.clock.Now
	f.payroll = NewPayrollService(leagues, f.store, f.events, PayrollConfig{Concurrency: 2}, logger)
	f.payroll.now = f.clock.Now
	f.auctions = NewAuctionService(leagues, players, f.store, ids, f.queue, f.events, AuctionConfig{DefaultDuration: time.Hour, SweepWorkers: 2}, logger)
	f.auctions.now = f.clock.Now
	f.wallets = NewWalletService(leagues, f.store, logger)
	f.wallets.now = f.clock.Now
	return f
}

// openWallet opens a wallet with the league starting balance.
func (f *economyFixture) openWallet(leagueID, clubID string) {
	f.t.Helper()
	if _, _, err := f.wallets.OpenWallet(context.Background(), leagueID, clubID); err != nil {
		f.t.Fatalf("open wallet %s/%s: %v", leagueID, clubID, err)
	}
}

// seedWallet creates a wallet whose starting balance differs from the league default.
func (f *economyFixture) seedWallet(leagueID, clubID string, balance int64) {
	f.t.Helper()
	err := f.store.Do(context.Background(), func(ctx context.Context, stores txn.Stores) error {
		_, err := stores.Wallets.Create(ctx, wallet.Wallet{
			LeagueID:        leagueID,
			ClubID:          clubID,
			Balance:         balance,
			StartingBalance: balance,
			CreatedAt:       f.clock.Now(),
			UpdatedAt:       f.clock.Now(),
		})
		return err
	})
	if err != nil {
		f.t.Fatalf("seed wallet %s/%s: %v", leagueID, clubID, err)
	}
}

// sign gives clubID the player through a free signing at the declared value.
func (f *economyFixture) sign(leagueID, clubID, playerID string, value int64) {
	f.t.Helper()
	_, err := f.transfers.Purchase(context.Background(), PurchaseInput{
		LeagueID:      leagueID,
		ClubID:        clubID,
		PlayerID:      playerID,
		DeclaredValue: &value,
	})
	if err != nil {
		f.t.Fatalf("sign %s to %s: %v", playerID, clubID, err)
	}
}

func (f *economyFixture) balance(leagueID, clubID string) int64 {
	f.t.Helper()
	w, err := f.wallets.GetBalance(context.Background(), leagueID, clubID)
	if err != nil {
		f.t.Fatalf("get balance %s/%s: %v", leagueID, clubID, err)
	}
	return w.Balance
}

func (f *economyFixture) owner(scopeID, playerID string) (roster.Assignment, bool) {
	f.t.Helper()
	var (
		out roster.Assignment
		ok  bool
	)
	err := f.store.Do(context.Background(), func(ctx context.Context, stores txn.Stores) error {
		var err error
		out, ok, err = stores.Rosters.GetActive(ctx, scopeID, playerID)
		return err
	})
	if err != nil {
		f.t.Fatalf("get owner of %s: %v", playerID, err)
	}
	return out, ok
}

func (f *economyFixture) ledger(leagueID string) []transfer.Record {
	f.t.Helper()
	records, err := f.wallets.ListTransfers(context.Background(), ListTransfersInput{LeagueID: leagueID, Limit: maxTransferListLimit})
	if err != nil {
		f.t.Fatalf("list transfers: %v", err)
	}
	return records
}

func (f *economyFixture) requireConsistent(leagueID string, clubIDs ...string) {
	f.t.Helper()
	for _, clubID := range clubIDs {
		report, err := f.wallets.Reconcile(context.Background(), leagueID, clubID)
		if err != nil {
			f.t.Fatalf("reconcile %s/%s: %v", leagueID, clubID, err)
		}
		if !report.Consistent {
			f.t.Fatalf("wallet %s/%s inconsistent: stored=%d expected=%d", leagueID, clubID, report.StoredBalance, report.ExpectedBalance)
		}
	}
}
