package usecase

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/career-league/internal/domain/auction"
	"github.com/riskibarqy/career-league/internal/domain/economy"
	"github.com/riskibarqy/career-league/internal/domain/league"
	"github.com/riskibarqy/career-league/internal/domain/player"
	"github.com/riskibarqy/career-league/internal/domain/roster"
	"github.com/riskibarqy/career-league/internal/domain/transfer"
	"github.com/riskibarqy/career-league/internal/domain/txn"
	idgen "github.com/riskibarqy/career-league/internal/platform/id"
	"github.com/riskibarqy/career-league/internal/platform/logging"
	"github.com/riskibarqy/career-league/internal/platform/metrics"
)

const (
	CancelReasonNoBids = "no bids"

	defaultAuctionDuration = 24 * time.Hour
	defaultSweepLimit      = 100
	defaultSweepWorkers    = 4
	// settleJobSlack delays the settle callback past the expiry instant.
	settleJobSlack = time.Second
)

var dedupUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

type AuctionConfig struct {
	DefaultDuration time.Duration
	SweepWorkers    int
}

type OpenAuctionInput struct {
	LeagueID      string
	PlayerID      string
	StartingValue int64
	Duration      time.Duration
}

type PlaceBidInput struct {
	AuctionID string
	ClubID    string
	Value     int64
}

type BidResult struct {
	Item     auction.Item `json:"item"`
	Bid      auction.Bid  `json:"bid"`
	Extended bool         `json:"extended"`
}

type SettleOutcome string

const (
	SettlePending   SettleOutcome = "pending"
	SettleFinalized SettleOutcome = "finalized"
	SettleCancelled SettleOutcome = "cancelled"
	// SettleUnchanged means the item was already terminal.
	SettleUnchanged SettleOutcome = "unchanged"
)

type SettleResult struct {
	Item    auction.Item     `json:"item"`
	Outcome SettleOutcome    `json:"outcome"`
	Record  *transfer.Record `json:"record,omitempty"`
	// Assignment is the winner's roster entry when Outcome is finalized.
	Assignment *roster.Assignment `json:"assignment,omitempty"`
}

type AuctionView struct {
	Item auction.Item  `json:"item"`
	Bids []auction.Bid `json:"bids"`
}

type SweepItemResult struct {
	AuctionID string        `json:"auction_id"`
	Outcome   SettleOutcome `json:"outcome"`
	Status    string        `json:"status"`
	Message   string        `json:"message,omitempty"`
}

type SweepResult struct {
	Processed int               `json:"processed"`
	Finalized int               `json:"finalized"`
	Cancelled int               `json:"cancelled"`
	Failed    int               `json:"failed"`
	Items     []SweepItemResult `json:"items"`
}

type AuctionService struct {
	leagueRepo league.Repository
	playerRepo player.Repository
	uow        txn.UnitOfWork
	idGen      idgen.Generator
	queue      JobQueue
	events     EventPublisher
	cfg        AuctionConfig
	logger     *logging.Logger
	now        func() time.Time
}

func NewAuctionService(
	leagueRepo league.Repository,
	playerRepo player.Repository,
	uow txn.UnitOfWork,
	idGen idgen.Generator,
	queue JobQueue,
	events EventPublisher,
	cfg AuctionConfig,
	logger *logging.Logger,
) *AuctionService {
	if queue == nil {
		queue = NewNoopJobQueue()
	}
	if events == nil {
		events = NewNoopEventPublisher()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.DefaultDuration <= 0 {
		cfg.DefaultDuration = defaultAuctionDuration
	}
	if cfg.SweepWorkers <= 0 {
		cfg.SweepWorkers = defaultSweepWorkers
	}
	return &AuctionService{
		leagueRepo: leagueRepo,
		playerRepo: playerRepo,
		uow:        uow,
		idGen:      idGen,
		queue:      queue,
		events:     events,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// OpenAuction lists a free agent for bidding.
func (s *AuctionService) OpenAuction(ctx context.Context, input OpenAuctionInput) (auction.Item, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.OpenAuction")
	defer span.End()

	item, err := s.openAuction(ctx, input)
	observeFailure("auction_open", err)
	return item, err
}

func (s *AuctionService) openAuction(ctx context.Context, input OpenAuctionInput) (auction.Item, error) {
	if err := economy.CheckAmount("starting value", input.StartingValue); err != nil {
		return auction.Item{}, err
	}
	if input.Duration < 0 {
		return auction.Item{}, fmt.Errorf("%w: duration must not be negative", ErrInvalidInput)
	}
	lg, err := loadLeague(ctx, s.leagueRepo, input.LeagueID)
	if err != nil {
		return auction.Item{}, err
	}
	p, err := loadPlayer(ctx, s.playerRepo, input.PlayerID)
	if err != nil {
		return auction.Item{}, err
	}
	duration := input.Duration
	if duration == 0 {
		duration = s.cfg.DefaultDuration
	}

	id, err := newID(s.idGen)
	if err != nil {
		return auction.Item{}, err
	}
	now := s.now().UTC()
	item := auction.Item{
		ID:            id,
		LeagueID:      lg.ID,
		ScopeID:       lg.ScopeID(),
		PlayerID:      p.ID,
		StartingValue: input.StartingValue,
		CurrentValue:  input.StartingValue,
		ExpiresAt:     now.Add(duration),
		Status:        auction.StatusOpen,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := item.Validate(); err != nil {
		return auction.Item{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	err = s.uow.Do(ctx, func(ctx context.Context, stores txn.Stores) error {
		owner, owned, err := stores.Rosters.GetActive(ctx, item.ScopeID, p.ID)
		if err != nil {
			return fmt.Errorf("get assignment player=%s: %w", p.ID, err)
		}
		if owned {
			return errors.Wrapf(economy.ErrAlreadyOwned, "player=%s club=%s", p.ID, owner.ClubID)
		}
		if existing, ok, err := stores.Auctions.GetActiveByPlayer(ctx, item.ScopeID, p.ID); err != nil {
			return fmt.Errorf("get active auction player=%s: %w", p.ID, err)
		} else if ok {
			return errors.Wrapf(economy.ErrConflict, "player=%s already in auction=%s", p.ID, existing.ID)
		}
		return stores.Auctions.Create(ctx, item)
	})
	if err != nil {
		return auction.Item{}, err
	}

	s.scheduleSettlement(ctx, item, now)
	s.logger.InfoContext(ctx, "auction opened",
		"auction_id", item.ID,
		"league_id", item.LeagueID,
		"player_id", item.PlayerID,
		"starting_value", item.StartingValue,
		"expires_at", item.ExpiresAt,
	)
	return item, nil
}

// PlaceBid records a bid that beats the current value. Bids reserve no funds.
func (s *AuctionService) PlaceBid(ctx context.Context, input PlaceBidInput) (BidResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.PlaceBid")
	defer span.End()

	result, err := s.placeBid(ctx, input)
	observeFailure("auction_bid", err)
	return result, err
}

func (s *AuctionService) placeBid(ctx context.Context, input PlaceBidInput) (BidResult, error) {
	auctionID, err := requireID("auction id", input.AuctionID)
	if err != nil {
		return BidResult{}, err
	}
	clubID, err := requireID("club id", input.ClubID)
	if err != nil {
		return BidResult{}, err
	}
	if err := economy.CheckAmount("bid value", input.Value); err != nil {
		return BidResult{}, err
	}
	bidID, err := newID(s.idGen)
	if err != nil {
		return BidResult{}, err
	}

	now := s.now().UTC()
	var result BidResult
	err = s.uow.Do(ctx, func(ctx context.Context, stores txn.Stores) error {
		item, err := lockItem(ctx, stores, auctionID)
		if err != nil {
			return err
		}
		lg, err := loadLeague(ctx, s.leagueRepo, item.LeagueID)
		if err != nil {
			return err
		}
		if _, ok, err := stores.Wallets.Get(ctx, item.LeagueID, clubID); err != nil {
			return fmt.Errorf("get wallet club=%s: %w", clubID, err)
		} else if !ok {
			return errors.Wrapf(ErrNotFound, "wallet league=%s club=%s", item.LeagueID, clubID)
		}

		extended, err := item.PlaceBid(clubID, input.Value, now, lg.Economy.AntiSnipeWindow)
		if err != nil {
			return err
		}
		bid := auction.Bid{
			ID:                bidID,
			AuctionItemID:     item.ID,
			ScopeID:           item.ScopeID,
			PlayerID:          item.PlayerID,
			ClubID:            clubID,
			Value:             input.Value,
			ExpiresAtSnapshot: item.ExpiresAt,
			CreatedAt:         now,
		}
		if err := stores.Auctions.AppendBid(ctx, bid); err != nil {
			return fmt.Errorf("append bid auction=%s: %w", item.ID, err)
		}
		if err := stores.Auctions.Update(ctx, item); err != nil {
			return fmt.Errorf("update auction=%s: %w", item.ID, err)
		}
		result = BidResult{Item: item, Bid: bid, Extended: extended}
		return nil
	})
	if err != nil {
		return BidResult{}, err
	}

	metrics.AuctionBidsTotal.WithLabelValues(strconv.FormatBool(result.Extended)).Inc()
	if result.Extended {
		s.scheduleSettlement(ctx, result.Item, now)
	}
	if err := s.events.Publish(ctx, result.Item.ScopeID+":"+result.Item.PlayerID, EventAuctionBid, result); err != nil {
		s.logger.WarnContext(ctx, "publish bid event failed", "auction_id", result.Item.ID, "error", err)
	}
	s.logger.InfoContext(ctx, "auction bid placed",
		"auction_id", result.Item.ID,
		"club_id", clubID,
		"value", input.Value,
		"extended", result.Extended,
		"expires_at", result.Item.ExpiresAt,
	)
	return result, nil
}

// Settle finalizes an expired auction. It is safe to call repeatedly: a
// terminal item is returned as is and an unexpired item is left open.
func (s *AuctionService) Settle(ctx context.Context, auctionID string) (SettleResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.Settle")
	defer span.End()

	result, err := s.settle(ctx, auctionID)
	observeFailure("auction_settle", err)
	if err == nil && result.Outcome != SettleUnchanged {
		metrics.AuctionSettlementsTotal.WithLabelValues(string(result.Outcome)).Inc()
	}
	return result, err
}

func (s *AuctionService) settle(ctx context.Context, auctionID string) (SettleResult, error) {
	auctionID, err := requireID("auction id", auctionID)
	if err != nil {
		return SettleResult{}, err
	}

	now := s.now().UTC()
	var item auction.Item
	err = s.uow.Do(ctx, func(ctx context.Context, stores txn.Stores) error {
		current, err := lockItem(ctx, stores, auctionID)
		if err != nil {
			return err
		}
		if current.Status == auction.StatusOpen && current.Expired(now) {
			if err := current.BeginFinalizing(now); err != nil {
				return err
			}
			if err := stores.Auctions.Update(ctx, current); err != nil {
				return fmt.Errorf("update auction=%s: %w", current.ID, err)
			}
		}
		item = current
		return nil
	})
	if err != nil {
		return SettleResult{}, err
	}

	switch item.Status {
	case auction.StatusFinalized, auction.StatusCancelled:
		return SettleResult{Item: item, Outcome: SettleUnchanged}, nil
	case auction.StatusOpen:
		return SettleResult{Item: item, Outcome: SettlePending}, nil
	}

	if item.LeadingClubID == "" {
		return s.cancelFinalizing(ctx, item.ID, CancelReasonNoBids, now)
	}

	result, err := s.finalize(ctx, item, now)
	if err == nil {
		return result, nil
	}
	switch economy.KindOf(err) {
	case economy.KindPolicyViolation, economy.KindInsufficientFunds, economy.KindNotFound:
		s.logger.WarnContext(ctx, "auction settlement rejected",
			"auction_id", item.ID,
			"club_id", item.LeadingClubID,
			"reason", economy.ReasonOf(err),
			"error", err,
		)
		return s.cancelFinalizing(ctx, item.ID, economy.ReasonOf(err), now)
	default:
		// The item stays finalizing and the next Settle call retries.
		return SettleResult{}, err
	}
}

func (s *AuctionService) finalize(ctx context.Context, item auction.Item, now time.Time) (SettleResult, error) {
	lg, err := loadLeague(ctx, s.leagueRepo, item.LeagueID)
	if err != nil {
		return SettleResult{}, err
	}
	p, err := loadPlayer(ctx, s.playerRepo, item.PlayerID)
	if err != nil {
		return SettleResult{}, err
	}

	var result SettleResult
	err = s.uow.Do(ctx, func(ctx context.Context, stores txn.Stores) error {
		current, err := lockItem(ctx, stores, item.ID)
		if err != nil {
			return err
		}
		if current.Status != auction.StatusFinalizing {
			result = SettleResult{Item: current, Outcome: SettleUnchanged}
			return nil
		}

		signed, err := signFreeAgent(ctx, stores, s.idGen, freeAgentSigning{
			league: lg,
			player: p,
			clubID: current.LeadingClubID,
			value:  current.CurrentValue,
			note:   "auction " + current.ID,
			now:    now,
		})
		if err != nil {
			return err
		}
		if err := current.Finalize(now); err != nil {
			return err
		}
		if err := stores.Auctions.Update(ctx, current); err != nil {
			return fmt.Errorf("update auction=%s: %w", current.ID, err)
		}
		result = SettleResult{
			Item:       current,
			Outcome:    SettleFinalized,
			Record:     &signed.record,
			Assignment: &signed.assignment,
		}
		return nil
	})
	if err != nil {
		return SettleResult{}, err
	}

	if result.Record != nil {
		records := []transfer.Record{*result.Record}
		observeRecords(records)
		publishRecords(ctx, s.events, s.logger, records)
		s.publishItem(ctx, EventAuctionFinalized, result.Item)
		s.logger.InfoContext(ctx, "auction finalized",
			"auction_id", result.Item.ID,
			"club_id", result.Item.LeadingClubID,
			"value", result.Item.CurrentValue,
			"record_id", result.Record.ID,
		)
	}
	return result, nil
}

func (s *AuctionService) cancelFinalizing(ctx context.Context, auctionID, reason string, now time.Time) (SettleResult, error) {
	var result SettleResult
	err := s.uow.Do(ctx, func(ctx context.Context, stores txn.Stores) error {
		current, err := lockItem(ctx, stores, auctionID)
		if err != nil {
			return err
		}
		if current.Status != auction.StatusFinalizing {
			result = SettleResult{Item: current, Outcome: SettleUnchanged}
			return nil
		}
		if err := current.Cancel(reason, now); err != nil {
			return err
		}
		if err := stores.Auctions.Update(ctx, current); err != nil {
			return fmt.Errorf("update auction=%s: %w", current.ID, err)
		}
		result = SettleResult{Item: current, Outcome: SettleCancelled}
		return nil
	})
	if err != nil {
		return SettleResult{}, err
	}
	if result.Outcome == SettleCancelled {
		s.publishItem(ctx, EventAuctionCancelled, result.Item)
		s.logger.InfoContext(ctx, "auction cancelled", "auction_id", auctionID, "reason", reason)
	}
	return result, nil
}

// Cancel withdraws an open auction.
func (s *AuctionService) Cancel(ctx context.Context, auctionID, reason string) (auction.Item, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.Cancel")
	defer span.End()

	item, err := s.cancel(ctx, auctionID, reason)
	observeFailure("auction_cancel", err)
	return item, err
}

func (s *AuctionService) cancel(ctx context.Context, auctionID, reason string) (auction.Item, error) {
	auctionID, err := requireID("auction id", auctionID)
	if err != nil {
		return auction.Item{}, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "cancelled by operator"
	}

	now := s.now().UTC()
	var item auction.Item
	err = s.uow.Do(ctx, func(ctx context.Context, stores txn.Stores) error {
		current, err := lockItem(ctx, stores, auctionID)
		if err != nil {
			return err
		}
		if current.Status != auction.StatusOpen {
			return errors.Wrapf(economy.ErrAuctionClosed, "auction=%s status=%s", current.ID, current.Status)
		}
		if err := current.Cancel(reason, now); err != nil {
			return err
		}
		if err := stores.Auctions.Update(ctx, current); err != nil {
			return fmt.Errorf("update auction=%s: %w", current.ID, err)
		}
		item = current
		return nil
	})
	if err != nil {
		return auction.Item{}, err
	}

	metrics.AuctionSettlementsTotal.WithLabelValues(string(SettleCancelled)).Inc()
	s.publishItem(ctx, EventAuctionCancelled, item)
	s.logger.InfoContext(ctx, "auction cancelled", "auction_id", item.ID, "reason", reason)
	return item, nil
}

func (s *AuctionService) Get(ctx context.Context, auctionID string) (AuctionView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.Get")
	defer span.End()

	auctionID, err := requireID("auction id", auctionID)
	if err != nil {
		return AuctionView{}, err
	}
	var view AuctionView
	err = s.uow.Do(ctx, func(ctx context.Context, stores txn.Stores) error {
		item, ok, err := stores.Auctions.Get(ctx, auctionID)
		if err != nil {
			return fmt.Errorf("get auction=%s: %w", auctionID, err)
		}
		if !ok {
			return fmt.Errorf("%w: auction=%s", ErrNotFound, auctionID)
		}
		bids, err := stores.Auctions.ListBids(ctx, auctionID)
		if err != nil {
			return fmt.Errorf("list bids auction=%s: %w", auctionID, err)
		}
		view = AuctionView{Item: item, Bids: bids}
		return nil
	})
	if err != nil {
		return AuctionView{}, err
	}
	if view.Bids == nil {
		view.Bids = []auction.Bid{}
	}
	return view, nil
}

// SweepExpired settles every item whose expiry has passed, up to limit,
// fanning out over a bounded worker pool.
func (s *AuctionService) SweepExpired(ctx context.Context, limit int) (SweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.SweepExpired")
	defer span.End()

	started := time.Now()
	defer func() { metrics.SweepDuration.Observe(time.Since(started).Seconds()) }()

	if limit <= 0 {
		limit = defaultSweepLimit
	}
	now := s.now().UTC()
	var due []auction.Item
	err := s.uow.Do(ctx, func(ctx context.Context, stores txn.Stores) error {
		items, err := stores.Auctions.ListDue(ctx, now, limit)
		if err != nil {
			return fmt.Errorf("list due auctions: %w", err)
		}
		due = items
		return nil
	})
	if err != nil {
		return SweepResult{}, err
	}

	result := SweepResult{Items: []SweepItemResult{}}
	if len(due) == 0 {
		return result, nil
	}

	workers, err := ants.NewPool(min(s.cfg.SweepWorkers, len(due)))
	if err != nil {
		return SweepResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workers.Release()

	var (
		mu      sync.Mutex
		pending sync.WaitGroup
	)
	for _, item := range due {
		pending.Add(1)
		if err := workers.Submit(func() {
			defer pending.Done()

			row := SweepItemResult{AuctionID: item.ID}
			settled, err := s.Settle(ctx, item.ID)
			if err != nil {
				row.Status = "failed"
				row.Message = err.Error()
			} else {
				row.Status = "success"
				row.Outcome = settled.Outcome
			}

			mu.Lock()
			result.Items = append(result.Items, row)
			mu.Unlock()
		}); err != nil {
			pending.Done()
			return SweepResult{}, fmt.Errorf("submit settle task to worker pool: %w", err)
		}
	}
	pending.Wait()

	sort.Slice(result.Items, func(i, j int) bool { return result.Items[i].AuctionID < result.Items[j].AuctionID })
	for _, row := range result.Items {
		result.Processed++
		switch {
		case row.Status == "failed":
			result.Failed++
		case row.Outcome == SettleFinalized:
			result.Finalized++
		case row.Outcome == SettleCancelled:
			result.Cancelled++
		}
	}

	s.logger.InfoContext(ctx, "auction sweep completed",
		"processed", result.Processed,
		"finalized", result.Finalized,
		"cancelled", result.Cancelled,
		"failed", result.Failed,
	)
	return result, nil
}

func (s *AuctionService) scheduleSettlement(ctx context.Context, item auction.Item, now time.Time) {
	delay := item.ExpiresAt.Sub(now) + settleJobSlack
	if delay < 0 {
		delay = 0
	}
	dedupID := settleDedupID(item)
	payload := map[string]any{"auction_id": item.ID}
	if err := s.queue.Enqueue(ctx, JobPathSettleAuction, payload, delay, dedupID); err != nil {
		// The sweeper still settles the item.
		s.logger.WarnContext(ctx, "enqueue auction settlement failed",
			"auction_id", item.ID,
			"dedup_id", dedupID,
			"error", err,
		)
	}
}

func (s *AuctionService) publishItem(ctx context.Context, eventType string, item auction.Item) {
	if err := s.events.Publish(ctx, item.ScopeID+":"+item.PlayerID, eventType, item); err != nil {
		s.logger.WarnContext(ctx, "publish auction event failed", "auction_id", item.ID, "event", eventType, "error", err)
	}
}

func settleDedupID(item auction.Item) string {
	return "auction-" + sanitizeDedupSegment(item.ID) + "-" + strconv.FormatInt(item.ExpiresAt.Unix(), 10)
}

func sanitizeDedupSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return dedupUnsafeCharRegex.ReplaceAllString(value, "-")
}

func lockItem(ctx context.Context, stores txn.Stores, auctionID string) (auction.Item, error) {
	item, ok, err := stores.Auctions.GetForUpdate(ctx, auctionID)
	if err != nil {
		return auction.Item{}, fmt.Errorf("lock auction=%s: %w", auctionID, err)
	}
	if !ok {
		return auction.Item{}, fmt.Errorf("%w: auction=%s", ErrNotFound, auctionID)
	}
	return item, nil
}
