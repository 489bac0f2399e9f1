package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/career-league/internal/domain/auction"
	"github.com/riskibarqy/career-league/internal/domain/payroll"
	"github.com/riskibarqy/career-league/internal/domain/roster"
	"github.com/riskibarqy/career-league/internal/domain/transfer"
	"github.com/riskibarqy/career-league/internal/domain/txn"
	"github.com/riskibarqy/career-league/internal/domain/wallet"
)

// Store is an in-process implementation of txn.UnitOfWork. Units of work run
// one at a time against a private copy of the state, which replaces the shared
// state only when fn succeeds.
type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

func NewStore() *Store {
	return &Store{st: newState(), now: time.Now}
}

func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, stores txn.Stores) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.st.clone()
	if err := fn(ctx, work.stores(s.now)); err != nil {
		return err
	}
	s.st = work
	return nil
}

type state struct {
	wallets     map[string]wallet.Wallet
	assignments map[string]roster.Assignment
	transfers   []transfer.Record
	batches     map[string]payroll.Batch
	auctions    map[string]auction.Item
	bids        map[string][]auction.Bid
}

func newState() *state {
	return &state{
		wallets:     make(map[string]wallet.Wallet),
		assignments: make(map[string]roster.Assignment),
		batches:     make(map[string]payroll.Batch),
		auctions:    make(map[string]auction.Item),
		bids:        make(map[string][]auction.Bid),
	}
}

func (s *state) clone() *state {
	out := &state{
		wallets:     make(map[string]wallet.Wallet, len(s.wallets)),
		assignments: make(map[string]roster.Assignment, len(s.assignments)),
		transfers:   append([]transfer.Record(nil), s.transfers...),
		batches:     make(map[string]payroll.Batch, len(s.batches)),
		auctions:    make(map[string]auction.Item, len(s.auctions)),
		bids:        make(map[string][]auction.Bid, len(s.bids)),
	}
	for k, v := range s.wallets {
		out.wallets[k] = v
	}
	for k, v := range s.assignments {
		out.assignments[k] = cloneAssignment(v)
	}
	for k, v := range s.batches {
		out.batches[k] = v
	}
	for k, v := range s.auctions {
		out.auctions[k] = cloneItem(v)
	}
	for k, v := range s.bids {
		out.bids[k] = append([]auction.Bid(nil), v...)
	}
	return out
}

func (s *state) stores(now func() time.Time) txn.Stores {
	return txn.Stores{
		Wallets:   &walletStore{st: s, now: now},
		Rosters:   &rosterStore{st: s},
		Transfers: &transferStore{st: s},
		Payroll:   &payrollStore{st: s},
		Auctions:  &auctionStore{st: s},
	}
}

func cloneAssignment(a roster.Assignment) roster.Assignment {
	if a.ReleasedAt != nil {
		at := *a.ReleasedAt
		a.ReleasedAt = &at
	}
	return a
}

func cloneItem(i auction.Item) auction.Item {
	if i.FinalizedAt != nil {
		at := *i.FinalizedAt
		i.FinalizedAt = &at
	}
	return i
}
