package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/career-league/internal/domain/economy"
	"github.com/riskibarqy/career-league/internal/domain/league"
	"github.com/riskibarqy/career-league/internal/domain/player"
	"github.com/riskibarqy/career-league/internal/domain/roster"
	"github.com/riskibarqy/career-league/internal/domain/transfer"
	"github.com/riskibarqy/career-league/internal/domain/txn"
	idgen "github.com/riskibarqy/career-league/internal/platform/id"
	"github.com/riskibarqy/career-league/internal/platform/logging"
)

type PurchaseInput struct {
	LeagueID string
	ClubID   string
	PlayerID string
	// DeclaredValue overrides the catalog value when set.
	DeclaredValue *int64
}

type SellInput struct {
	LeagueID     string
	SellerClubID string
	BuyerClubID  string
	PlayerID     string
	Price        int64
}

type FineInput struct {
	LeagueID    string
	BuyerClubID string
	PlayerID    string
}

type TradeInput struct {
	LeagueID  string
	ClubAID   string
	PlayerAID string
	ClubBID   string
	PlayerBID string
	// CashAdjustment > 0 means club A pays club B.
	CashAdjustment int64
}

// TransferResult is what a committed transfer operation wrote.
type TransferResult struct {
	Records  []transfer.Record `json:"records"`
	Balances []ClubBalance     `json:"balances"`
	// Assignments are the roster entries created, ordered like Records.
	Assignments []roster.Assignment `json:"assignments"`
}

type TransferService struct {
	leagueRepo league.Repository
	playerRepo player.Repository
	uow        txn.UnitOfWork
	idGen      idgen.Generator
	events     EventPublisher
	logger     *logging.Logger
	now        func() time.Time
}

func NewTransferService(
	leagueRepo league.Repository,
	playerRepo player.Repository,
	uow txn.UnitOfWork,
	idGen idgen.Generator,
	events EventPublisher,
	logger *logging.Logger,
) *TransferService {
	if events == nil {
		events = NewNoopEventPublisher()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &TransferService{
		leagueRepo: leagueRepo,
		playerRepo: playerRepo,
		uow:        uow,
		idGen:      idGen,
		events:     events,
		logger:     logger,
		now:        time.Now,
	}
}

// Purchase signs a free agent for the club.
func (s *TransferService) Purchase(ctx context.Context, input PurchaseInput) (TransferResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferService.Purchase")
	defer span.End()

	result, err := s.purchase(ctx, input)
	observeFailure("purchase", err)
	return result, err
}

func (s *TransferService) purchase(ctx context.Context, input PurchaseInput) (TransferResult, error) {
	clubID, err := requireID("club id", input.ClubID)
	if err != nil {
		return TransferResult{}, err
	}
	lg, err := loadLeague(ctx, s.leagueRepo, input.LeagueID)
	if err != nil {
		return TransferResult{}, err
	}
	p, err := loadPlayer(ctx, s.playerRepo, input.PlayerID)
	if err != nil {
		return TransferResult{}, err
	}
	value := p.Value
	if input.DeclaredValue != nil {
		value = *input.DeclaredValue
	}
	if err := economy.CheckAmount("declared value", value); err != nil {
		return TransferResult{}, err
	}

	now := s.now().UTC()
	var result TransferResult
	err = s.uow.Do(ctx, func(ctx context.Context, stores txn.Stores) error {
		signed, err := signFreeAgent(ctx, stores, s.idGen, freeAgentSigning{
			league: lg,
			player: p,
			clubID: clubID,
			value:  value,
			now:    now,
		})
		if err != nil {
			return err
		}
		result = TransferResult{
			Records:     []transfer.Record{signed.record},
			Balances:    []ClubBalance{{LeagueID: lg.ID, ClubID: clubID, Balance: signed.balance}},
			Assignments: []roster.Assignment{signed.assignment},
		}
		return nil
	})
	if err != nil {
		return TransferResult{}, err
	}

	s.afterCommit(ctx, "purchase", result)
	return result, nil
}

type freeAgentSigning struct {
	league league.League
	player player.Player
	clubID string
	value  int64
	note   string
	now    time.Time
}

type freeAgentSigned struct {
	record     transfer.Record
	assignment roster.Assignment
	balance    int64
}

// signFreeAgent debits the club, assigns the player and appends a free_signing
// record. It must run inside a unit of work.
func signFreeAgent(ctx context.Context, stores txn.Stores, ids idgen.Generator, in freeAgentSigning) (freeAgentSigned, error) {
	lg := in.league
	scopeID := lg.ScopeID()

	if _, err := lockWallets(ctx, stores.Wallets, walletRef{leagueID: lg.ID, clubID: in.clubID}); err != nil {
		return freeAgentSigned{}, err
	}

	owner, owned, err := stores.Rosters.GetActiveForUpdate(ctx, scopeID, in.player.ID)
	if err != nil {
		return freeAgentSigned{}, fmt.Errorf("lock assignment player=%s: %w", in.player.ID, err)
	}
	if owned {
		return freeAgentSigned{}, errors.Wrapf(economy.ErrAlreadyOwned, "player=%s club=%s league=%s", in.player.ID, owner.ClubID, owner.LeagueID)
	}
	if err := ensureRosterRoom(ctx, stores.Rosters, lg, in.clubID); err != nil {
		return freeAgentSigned{}, err
	}

	balance, err := stores.Wallets.ApplyDelta(ctx, lg.ID, in.clubID, -in.value, !lg.Economy.BlockNegativeBalance)
	if err != nil {
		return freeAgentSigned{}, err
	}

	assignmentID, err := newID(ids)
	if err != nil {
		return freeAgentSigned{}, err
	}
	assignment := roster.Assignment{
		ID:            assignmentID,
		ScopeID:       scopeID,
		LeagueID:      lg.ID,
		PlayerID:      in.player.ID,
		ClubID:        in.clubID,
		AcquiredValue: in.value,
		Wage:          in.player.Wage,
		Active:        true,
		AcquiredAt:    in.now,
	}
	if err := insertAssignment(ctx, stores.Rosters, assignment); err != nil {
		return freeAgentSigned{}, err
	}

	recordID, err := newID(ids)
	if err != nil {
		return freeAgentSigned{}, err
	}
	rec := transfer.Record{
		ID:                recordID,
		LeagueID:          lg.ID,
		ScopeID:           scopeID,
		PlayerID:          in.player.ID,
		DestinationClubID: in.clubID,
		Type:              transfer.TypeFreeSigning,
		Amount:            in.value,
		Note:              in.note,
		CreatedAt:         in.now,
	}
	if err := appendRecord(ctx, stores.Transfers, rec); err != nil {
		return freeAgentSigned{}, err
	}
	return freeAgentSigned{record: rec, assignment: assignment, balance: balance}, nil
}

// Sell moves a player from seller to buyer at an agreed price.
func (s *TransferService) Sell(ctx context.Context, input SellInput) (TransferResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferService.Sell")
	defer span.End()

	result, err := s.sell(ctx, input)
	observeFailure("sale", err)
	return result, err
}

func (s *TransferService) sell(ctx context.Context, input SellInput) (TransferResult, error) {
	sellerID, err := requireID("seller club id", input.SellerClubID)
	if err != nil {
		return TransferResult{}, err
	}
	buyerID, err := requireID("buyer club id", input.BuyerClubID)
	if err != nil {
		return TransferResult{}, err
	}
	if sellerID == buyerID {
		return TransferResult{}, fmt.Errorf("%w: seller and buyer must differ", ErrInvalidInput)
	}
	if err := economy.CheckAmount("price", input.Price); err != nil {
		return TransferResult{}, err
	}
	lg, err := loadLeague(ctx, s.leagueRepo, input.LeagueID)
	if err != nil {
		return TransferResult{}, err
	}
	p, err := loadPlayer(ctx, s.playerRepo, input.PlayerID)
	if err != nil {
		return TransferResult{}, err
	}

	now := s.now().UTC()
	var result TransferResult
	err = s.uow.Do(ctx, func(ctx context.Context, stores txn.Stores) error {
		seller := walletRef{leagueID: lg.ID, clubID: sellerID}
		buyer := walletRef{leagueID: lg.ID, clubID: buyerID}
		if _, err := lockWallets(ctx, stores.Wallets, seller, buyer); err != nil {
			return err
		}

		current, err := lockOwnedAssignment(ctx, stores.Rosters, lg, sellerID, p.ID)
		if err != nil {
			return err
		}
		if !lg.Economy.MeetsMinimumSale(input.Price, p.Value) {
			return errors.Wrapf(economy.ErrPriceTooLow, "price=%d value=%d min_percent=%d", input.Price, p.Value, lg.Economy.MinSalePercent)
		}
		if err := ensureRosterRoom(ctx, stores.Rosters, lg, buyerID); err != nil {
			return err
		}

		buyerBalance, err := stores.Wallets.ApplyDelta(ctx, lg.ID, buyerID, -input.Price, !lg.Economy.BlockNegativeBalance)
		if err != nil {
			return err
		}
		sellerBalance, err := stores.Wallets.ApplyDelta(ctx, lg.ID, sellerID, input.Price, true)
		if err != nil {
			return err
		}

		moved, err := reassign(ctx, stores.Rosters, s.idGen, current, lg.ID, buyerID, input.Price, now)
		if err != nil {
			return err
		}

		recordID, err := newID(s.idGen)
		if err != nil {
			return err
		}
		rec := transfer.Record{
			ID:                recordID,
			LeagueID:          lg.ID,
			ScopeID:           lg.ScopeID(),
			PlayerID:          p.ID,
			OriginLeagueID:    lg.ID,
			OriginClubID:      sellerID,
			DestinationClubID: buyerID,
			Type:              transfer.TypeSale,
			Amount:            input.Price,
			CreatedAt:         now,
		}
		if err := appendRecord(ctx, stores.Transfers, rec); err != nil {
			return err
		}

		result = TransferResult{
			Records: []transfer.Record{rec},
			Balances: sortedBalances(
				ClubBalance{LeagueID: lg.ID, ClubID: sellerID, Balance: sellerBalance},
				ClubBalance{LeagueID: lg.ID, ClubID: buyerID, Balance: buyerBalance},
			),
			Assignments: []roster.Assignment{moved},
		}
		return nil
	})
	if err != nil {
		return TransferResult{}, err
	}

	s.afterCommit(ctx, "sale", result)
	return result, nil
}

// Fine buys out an owned player at value x fine multiplier. The owner may
// belong to any league in the buyer's ownership scope.
func (s *TransferService) Fine(ctx context.Context, input FineInput) (TransferResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferService.Fine")
	defer span.End()

	result, err := s.fine(ctx, input)
	observeFailure("fine", err)
	return result, err
}

func (s *TransferService) fine(ctx context.Context, input FineInput) (TransferResult, error) {
	buyerID, err := requireID("buyer club id", input.BuyerClubID)
	if err != nil {
		return TransferResult{}, err
	}
	lg, err := loadLeague(ctx, s.leagueRepo, input.LeagueID)
	if err != nil {
		return TransferResult{}, err
	}
	p, err := loadPlayer(ctx, s.playerRepo, input.PlayerID)
	if err != nil {
		return TransferResult{}, err
	}
	amount := lg.Economy.FineAmount(p.Value)
	if err := economy.CheckAmount("fine amount", amount); err != nil {
		return TransferResult{}, err
	}
	scopeID := lg.ScopeID()

	now := s.now().UTC()
	var result TransferResult
	err = s.uow.Do(ctx, func(ctx context.Context, stores txn.Stores) error {
		// Read the owner unlocked so wallets can be locked before the assignment.
		seen, owned, err := stores.Rosters.GetActive(ctx, scopeID, p.ID)
		if err != nil {
			return fmt.Errorf("get assignment player=%s: %w", p.ID, err)
		}
		if !owned {
			return errors.Wrapf(economy.ErrNotOwner, "player=%s has no owner in scope=%s", p.ID, scopeID)
		}
		if seen.LeagueID == lg.ID && seen.ClubID == buyerID {
			return errors.Wrapf(economy.ErrNotOwner, "club=%s already owns player=%s", buyerID, p.ID)
		}

		owner := walletRef{leagueID: seen.LeagueID, clubID: seen.ClubID}
		buyer := walletRef{leagueID: lg.ID, clubID: buyerID}
		if _, err := lockWallets(ctx, stores.Wallets, owner, buyer); err != nil {
			return err
		}

		current, owned, err := stores.Rosters.GetActiveForUpdate(ctx, scopeID, p.ID)
		if err != nil {
			return fmt.Errorf("lock assignment player=%s: %w", p.ID, err)
		}
		if !owned || current.ID != seen.ID {
			return economy.Conflict(errors.Newf("assignment for player=%s changed", p.ID), "fine")
		}
		if err := ensureRosterRoom(ctx, stores.Rosters, lg, buyerID); err != nil {
			return err
		}

		buyerBalance, err := stores.Wallets.ApplyDelta(ctx, lg.ID, buyerID, -amount, !lg.Economy.BlockNegativeBalance)
		if err != nil {
			return err
		}
		ownerBalance, err := stores.Wallets.ApplyDelta(ctx, owner.leagueID, owner.clubID, amount, true)
		if err != nil {
			return err
		}

		moved, err := reassign(ctx, stores.Rosters, s.idGen, current, lg.ID, buyerID, amount, now)
		if err != nil {
			return err
		}

		recordID, err := newID(s.idGen)
		if err != nil {
			return err
		}
		rec := transfer.Record{
			ID:                recordID,
			LeagueID:          lg.ID,
			ScopeID:           scopeID,
			PlayerID:          p.ID,
			OriginLeagueID:    owner.leagueID,
			OriginClubID:      owner.clubID,
			DestinationClubID: buyerID,
			Type:              transfer.TypeFine,
			Amount:            amount,
			CreatedAt:         now,
		}
		if err := appendRecord(ctx, stores.Transfers, rec); err != nil {
			return err
		}

		result = TransferResult{
			Records: []transfer.Record{rec},
			Balances: sortedBalances(
				ClubBalance{LeagueID: owner.leagueID, ClubID: owner.clubID, Balance: ownerBalance},
				ClubBalance{LeagueID: lg.ID, ClubID: buyerID, Balance: buyerBalance},
			),
			Assignments: []roster.Assignment{moved},
		}
		return nil
	})
	if err != nil {
		return TransferResult{}, err
	}

	s.afterCommit(ctx, "fine", result)
	return result, nil
}

// Trade swaps one player each between two clubs of the league, optionally
// with cash.
func (s *TransferService) Trade(ctx context.Context, input TradeInput) (TransferResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferService.Trade")
	defer span.End()

	result, err := s.trade(ctx, input)
	observeFailure("trade", err)
	return result, err
}

func (s *TransferService) trade(ctx context.Context, input TradeInput) (TransferResult, error) {
	clubA, err := requireID("club a id", input.ClubAID)
	if err != nil {
		return TransferResult{}, err
	}
	clubB, err := requireID("club b id", input.ClubBID)
	if err != nil {
		return TransferResult{}, err
	}
	if clubA == clubB {
		return TransferResult{}, fmt.Errorf("%w: trading clubs must differ", ErrInvalidInput)
	}
	lg, err := loadLeague(ctx, s.leagueRepo, input.LeagueID)
	if err != nil {
		return TransferResult{}, err
	}
	playerA, err := loadPlayer(ctx, s.playerRepo, input.PlayerAID)
	if err != nil {
		return TransferResult{}, err
	}
	playerB, err := loadPlayer(ctx, s.playerRepo, input.PlayerBID)
	if err != nil {
		return TransferResult{}, err
	}
	if playerA.ID == playerB.ID {
		return TransferResult{}, fmt.Errorf("%w: traded players must differ", ErrInvalidInput)
	}

	// Leg amounts follow the ledger convention: destination pays origin.
	cash := input.CashAdjustment
	if cash < -economy.MaxAmount || cash > economy.MaxAmount {
		return TransferResult{}, errors.Wrapf(economy.ErrValidation, "cash adjustment=%d exceeds %d", cash, economy.MaxAmount)
	}
	legAToB := max(-cash, 0)
	legBToA := max(cash, 0)

	now := s.now().UTC()
	var result TransferResult
	err = s.uow.Do(ctx, func(ctx context.Context, stores txn.Stores) error {
		refA := walletRef{leagueID: lg.ID, clubID: clubA}
		refB := walletRef{leagueID: lg.ID, clubID: clubB}
		locked, err := lockWallets(ctx, stores.Wallets, refA, refB)
		if err != nil {
			return err
		}

		held := map[string]string{playerA.ID: clubA, playerB.ID: clubB}
		order := []string{playerA.ID, playerB.ID}
		sort.Strings(order)
		assignments := make(map[string]roster.Assignment, 2)
		for _, playerID := range order {
			a, err := lockOwnedAssignment(ctx, stores.Rosters, lg, held[playerID], playerID)
			if err != nil {
				return err
			}
			assignments[playerID] = a
		}
		for _, clubID := range []string{clubA, clubB} {
			count, err := stores.Rosters.CountActiveByClub(ctx, lg.ID, clubID)
			if err != nil {
				return fmt.Errorf("count roster club=%s: %w", clubID, err)
			}
			if count > lg.Economy.RosterCap {
				return errors.Wrapf(economy.ErrRosterFull, "club=%s roster=%d cap=%d", clubID, count, lg.Economy.RosterCap)
			}
		}

		balances := map[string]int64{
			clubA: locked[refA].Balance,
			clubB: locked[refB].Balance,
		}
		if lg.Economy.BlockNegativeBalance {
			for _, clubID := range []string{clubA, clubB} {
				if balances[clubID] < 0 {
					return errors.Wrapf(economy.ErrInsufficientFunds, "club=%s balance=%d", clubID, balances[clubID])
				}
			}
		}
		if cash != 0 {
			payer, payee, amount := clubA, clubB, cash
			if cash < 0 {
				payer, payee, amount = clubB, clubA, -cash
			}
			paid, err := stores.Wallets.ApplyDelta(ctx, lg.ID, payer, -amount, !lg.Economy.BlockNegativeBalance)
			if err != nil {
				return err
			}
			received, err := stores.Wallets.ApplyDelta(ctx, lg.ID, payee, amount, true)
			if err != nil {
				return err
			}
			balances[payer] = paid
			balances[payee] = received
		}

		movedA, err := reassign(ctx, stores.Rosters, s.idGen, assignments[playerA.ID], lg.ID, clubB, legAToB, now)
		if err != nil {
			return err
		}
		movedB, err := reassign(ctx, stores.Rosters, s.idGen, assignments[playerB.ID], lg.ID, clubA, legBToA, now)
		if err != nil {
			return err
		}

		correlationID, err := newID(s.idGen)
		if err != nil {
			return err
		}
		legs := []struct {
			playerID string
			from, to string
			amount   int64
		}{
			{playerID: playerA.ID, from: clubA, to: clubB, amount: legAToB},
			{playerID: playerB.ID, from: clubB, to: clubA, amount: legBToA},
		}
		records := make([]transfer.Record, 0, len(legs))
		for _, leg := range legs {
			recordID, err := newID(s.idGen)
			if err != nil {
				return err
			}
			rec := transfer.Record{
				ID:                recordID,
				LeagueID:          lg.ID,
				ScopeID:           lg.ScopeID(),
				PlayerID:          leg.playerID,
				OriginLeagueID:    lg.ID,
				OriginClubID:      leg.from,
				DestinationClubID: leg.to,
				Type:              transfer.TypeTrade,
				Amount:            leg.amount,
				CorrelationID:     correlationID,
				CreatedAt:         now,
			}
			if err := appendRecord(ctx, stores.Transfers, rec); err != nil {
				return err
			}
			records = append(records, rec)
		}

		result = TransferResult{
			Records: records,
			Balances: sortedBalances(
				ClubBalance{LeagueID: lg.ID, ClubID: clubA, Balance: balances[clubA]},
				ClubBalance{LeagueID: lg.ID, ClubID: clubB, Balance: balances[clubB]},
			),
			Assignments: []roster.Assignment{movedA, movedB},
		}
		return nil
	})
	if err != nil {
		return TransferResult{}, err
	}

	s.afterCommit(ctx, "trade", result)
	return result, nil
}

func (s *TransferService) afterCommit(ctx context.Context, operation string, result TransferResult) {
	observeRecords(result.Records)
	publishRecords(ctx, s.events, s.logger, result.Records)

	for _, rec := range result.Records {
		s.logger.InfoContext(ctx, "transfer committed",
			"operation", operation,
			"record_id", rec.ID,
			"league_id", rec.LeagueID,
			"player_id", rec.PlayerID,
			"origin_club_id", rec.OriginClubID,
			"destination_club_id", rec.DestinationClubID,
			"amount", rec.Amount,
			"correlation_id", rec.CorrelationID,
		)
	}
}

// lockOwnedAssignment locks the player's active assignment and checks that
// clubID of lg holds it.
func lockOwnedAssignment(ctx context.Context, rosters roster.Repository, lg league.League, clubID, playerID string) (roster.Assignment, error) {
	current, ok, err := rosters.GetActiveForUpdate(ctx, lg.ScopeID(), playerID)
	if err != nil {
		return roster.Assignment{}, fmt.Errorf("lock assignment player=%s: %w", playerID, err)
	}
	if !ok || current.LeagueID != lg.ID || current.ClubID != clubID {
		return roster.Assignment{}, errors.Wrapf(economy.ErrNotOwner, "club=%s player=%s", clubID, playerID)
	}
	return current, nil
}

func ensureRosterRoom(ctx context.Context, rosters roster.Repository, lg league.League, clubID string) error {
	count, err := rosters.CountActiveByClub(ctx, lg.ID, clubID)
	if err != nil {
		return fmt.Errorf("count roster club=%s: %w", clubID, err)
	}
	if count >= lg.Economy.RosterCap {
		return errors.Wrapf(economy.ErrRosterFull, "club=%s roster=%d cap=%d", clubID, count, lg.Economy.RosterCap)
	}
	return nil
}

func reassign(ctx context.Context, rosters roster.Repository, ids idgen.Generator, current roster.Assignment, leagueID, clubID string, value int64, now time.Time) (roster.Assignment, error) {
	if err := rosters.Deactivate(ctx, current.ID, now); err != nil {
		return roster.Assignment{}, fmt.Errorf("release assignment=%s: %w", current.ID, err)
	}
	nextID, err := newID(ids)
	if err != nil {
		return roster.Assignment{}, err
	}
	next := current.Transfer(nextID, leagueID, clubID, value, now)
	if err := insertAssignment(ctx, rosters, next); err != nil {
		return roster.Assignment{}, err
	}
	return next, nil
}

func insertAssignment(ctx context.Context, rosters roster.Repository, a roster.Assignment) error {
	if err := a.Validate(); err != nil {
		return errors.Wrap(err, "build assignment")
	}
	if err := rosters.Insert(ctx, a); err != nil {
		return fmt.Errorf("insert assignment player=%s club=%s: %w", a.PlayerID, a.ClubID, err)
	}
	return nil
}

func sortedBalances(items ...ClubBalance) []ClubBalance {
	sort.Slice(items, func(i, j int) bool {
		if items[i].LeagueID != items[j].LeagueID {
			return items[i].LeagueID < items[j].LeagueID
		}
		return items[i].ClubID < items[j].ClubID
	})
	return items
}
