package httpapi

import (
	"time"

	"github.com/riskibarqy/career-league/internal/domain/auction"
	"github.com/riskibarqy/career-league/internal/domain/league"
	"github.com/riskibarqy/career-league/internal/domain/roster"
	"github.com/riskibarqy/career-league/internal/domain/transfer"
	"github.com/riskibarqy/career-league/internal/domain/wallet"
	"github.com/riskibarqy/career-league/internal/usecase"
)

type openWalletRequest struct {
	ClubID string `json:"club_id" validate:"required,max=64"`
}

type purchaseRequest struct {
	ClubID        string `json:"club_id" validate:"required,max=64"`
	PlayerID      string `json:"player_id" validate:"required,max=64"`
	DeclaredValue *int64 `json:"declared_value,omitempty" validate:"omitempty,gte=0,lte=1000000000000000"`
}

type saleRequest struct {
	SellerClubID string `json:"seller_club_id" validate:"required,max=64"`
	BuyerClubID  string `json:"buyer_club_id" validate:"required,max=64,nefield=SellerClubID"`
	PlayerID     string `json:"player_id" validate:"required,max=64"`
	Price        int64  `json:"price" validate:"gte=0,lte=1000000000000000"`
}

type fineRequest struct {
	BuyerClubID string `json:"buyer_club_id" validate:"required,max=64"`
	PlayerID    string `json:"player_id" validate:"required,max=64"`
}

type tradeRequest struct {
	ClubAID        string `json:"club_a_id" validate:"required,max=64"`
	PlayerAID      string `json:"player_a_id" validate:"required,max=64"`
	ClubBID        string `json:"club_b_id" validate:"required,max=64,nefield=ClubAID"`
	PlayerBID      string `json:"player_b_id" validate:"required,max=64,nefield=PlayerAID"`
	CashAdjustment int64  `json:"cash_adjustment" validate:"gte=-1000000000000000,lte=1000000000000000"`
}

type openAuctionRequest struct {
	PlayerID        string `json:"player_id" validate:"required,max=64"`
	StartingValue   int64  `json:"starting_value" validate:"gte=0,lte=1000000000000000"`
	DurationSeconds int64  `json:"duration_seconds" validate:"gte=0"`
}

type placeBidRequest struct {
	ClubID string `json:"club_id" validate:"required,max=64"`
	Value  int64  `json:"value" validate:"gt=0,lte=1000000000000000"`
}

type cancelAuctionRequest struct {
	Reason string `json:"reason" validate:"max=200"`
}

type settleAuctionJobRequest struct {
	AuctionID string `json:"auction_id" validate:"required"`
}

type sweepAuctionsJobRequest struct {
	Limit int `json:"limit" validate:"gte=0,lte=1000"`
}

type leagueDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ConfederationID string `json:"confederation_id,omitempty"`
	ScopeID         string `json:"scope_id"`
	Economy         struct {
		RosterCap            int    `json:"roster_cap"`
		StartingBalance      int64  `json:"starting_balance"`
		FineMultiplier       string `json:"fine_multiplier"`
		MinSalePercent       int64  `json:"min_sale_percent"`
		BlockNegativeBalance bool   `json:"block_negative_balance"`
		AntiSnipeSeconds     int64  `json:"anti_snipe_seconds"`
	} `json:"economy"`
}

type playerDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Value    int64  `json:"value"`
	Wage     int64  `json:"wage"`
}

type rosterEntryDTO struct {
	LeagueID      string    `json:"league_id"`
	ClubID        string    `json:"club_id"`
	PlayerID      string    `json:"player_id"`
	AcquiredValue int64     `json:"acquired_value"`
	Wage          int64     `json:"wage"`
	AcquiredAt    time.Time `json:"acquired_at"`
}

type walletDTO struct {
	LeagueID        string    `json:"league_id"`
	ClubID          string    `json:"club_id"`
	Balance         int64     `json:"balance"`
	StartingBalance int64     `json:"starting_balance"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type openWalletDTO struct {
	Wallet  walletDTO `json:"wallet"`
	Created bool      `json:"created"`
}

type transferRecordDTO = usecase.TransferEvent

type transferResultDTO struct {
	Records       []transferRecordDTO   `json:"records"`
	Balances      []usecase.ClubBalance `json:"balances"`
	RosterEntries []rosterEntryDTO      `json:"roster_entries"`
}

type auctionItemDTO struct {
	ID            string     `json:"id"`
	LeagueID      string     `json:"league_id"`
	ScopeID       string     `json:"scope_id"`
	PlayerID      string     `json:"player_id"`
	StartingValue int64      `json:"starting_value"`
	CurrentValue  int64      `json:"current_value"`
	LeadingClubID string     `json:"leading_club_id,omitempty"`
	ExpiresAt     time.Time  `json:"expires_at"`
	Status        string     `json:"status"`
	CancelReason  string     `json:"cancel_reason,omitempty"`
	FinalizedAt   *time.Time `json:"finalized_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type auctionBidDTO struct {
	ID                string    `json:"id"`
	ClubID            string    `json:"club_id"`
	Value             int64     `json:"value"`
	ExpiresAtSnapshot time.Time `json:"expires_at_snapshot"`
	CreatedAt         time.Time `json:"created_at"`
}

type auctionViewDTO struct {
	Item auctionItemDTO  `json:"item"`
	Bids []auctionBidDTO `json:"bids"`
}

type bidResultDTO struct {
	Item     auctionItemDTO `json:"item"`
	Bid      auctionBidDTO  `json:"bid"`
	Extended bool           `json:"extended"`
}

type settleResultDTO struct {
	Item        auctionItemDTO     `json:"item"`
	Outcome     string             `json:"outcome"`
	Record      *transferRecordDTO `json:"record,omitempty"`
	RosterEntry *rosterEntryDTO    `json:"roster_entry,omitempty"`
}

func leagueToDTO(l league.League) leagueDTO {
	out := leagueDTO{
		ID:              l.ID,
		Name:            l.Name,
		ConfederationID: l.ConfederationID,
		ScopeID:         l.ScopeID(),
	}
	out.Economy.RosterCap = l.Economy.RosterCap
	out.Economy.StartingBalance = l.Economy.StartingBalance
	out.Economy.FineMultiplier = l.Economy.FineMultiplier.String()
	out.Economy.MinSalePercent = l.Economy.MinSalePercent
	out.Economy.BlockNegativeBalance = l.Economy.BlockNegativeBalance
	out.Economy.AntiSnipeSeconds = int64(l.Economy.AntiSnipeWindow.Seconds())
	return out
}

func rosterEntryToDTO(a roster.Assignment) rosterEntryDTO {
	return rosterEntryDTO{
		LeagueID:      a.LeagueID,
		ClubID:        a.ClubID,
		PlayerID:      a.PlayerID,
		AcquiredValue: a.AcquiredValue,
		Wage:          a.Wage,
		AcquiredAt:    a.AcquiredAt,
	}
}

func walletToDTO(w wallet.Wallet) walletDTO {
	return walletDTO{
		LeagueID:        w.LeagueID,
		ClubID:          w.ClubID,
		Balance:         w.Balance,
		StartingBalance: w.StartingBalance,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}

func recordsToDTO(records []transfer.Record) []transferRecordDTO {
	out := make([]transferRecordDTO, 0, len(records))
	for _, rec := range records {
		out = append(out, usecase.TransferEventFrom(rec))
	}
	return out
}

func transferResultToDTO(result usecase.TransferResult) transferResultDTO {
	balances := result.Balances
	if balances == nil {
		balances = []usecase.ClubBalance{}
	}
	entries := make([]rosterEntryDTO, 0, len(result.Assignments))
	for _, a := range result.Assignments {
		entries = append(entries, rosterEntryToDTO(a))
	}
	return transferResultDTO{
		Records:       recordsToDTO(result.Records),
		Balances:      balances,
		RosterEntries: entries,
	}
}

func auctionItemToDTO(item auction.Item) auctionItemDTO {
	return auctionItemDTO{
		ID:            item.ID,
		LeagueID:      item.LeagueID,
		ScopeID:       item.ScopeID,
		PlayerID:      item.PlayerID,
		StartingValue: item.StartingValue,
		CurrentValue:  item.CurrentValue,
		LeadingClubID: item.LeadingClubID,
		ExpiresAt:     item.ExpiresAt,
		Status:        string(item.Status),
		CancelReason:  item.CancelReason,
		FinalizedAt:   item.FinalizedAt,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}

func auctionBidToDTO(bid auction.Bid) auctionBidDTO {
	return auctionBidDTO{
		ID:                bid.ID,
		ClubID:            bid.ClubID,
		Value:             bid.Value,
		ExpiresAtSnapshot: bid.ExpiresAtSnapshot,
		CreatedAt:         bid.CreatedAt,
	}
}

func auctionViewToDTO(view usecase.AuctionView) auctionViewDTO {
	bids := make([]auctionBidDTO, 0, len(view.Bids))
	for _, bid := range view.Bids {
		bids = append(bids, auctionBidToDTO(bid))
	}
	return auctionViewDTO{Item: auctionItemToDTO(view.Item), Bids: bids}
}

func settleResultToDTO(result usecase.SettleResult) settleResultDTO {
	out := settleResultDTO{
		Item:    auctionItemToDTO(result.Item),
		Outcome: string(result.Outcome),
	}
	if result.Record != nil {
		rec := usecase.TransferEventFrom(*result.Record)
		out.Record = &rec
	}
	if result.Assignment != nil {
		entry := rosterEntryToDTO(*result.Assignment)
		out.RosterEntry = &entry
	}
	return out
}
