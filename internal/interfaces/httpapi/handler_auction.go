package httpapi

import (
	"net/http"
	"time"

	"github.com/riskibarqy/career-league/internal/usecase"
)

func (h *Handler) OpenAuction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.OpenAuction")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	var req openAuctionRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.auctionService.OpenAuction(ctx, usecase.OpenAuctionInput{
		LeagueID:      leagueID,
		PlayerID:      req.PlayerID,
		StartingValue: req.StartingValue,
		Duration:      time.Duration(req.DurationSeconds) * time.Second,
	})
	if err != nil {
		h.fail(ctx, w, "open auction failed", err, "league_id", leagueID, "player_id", req.PlayerID)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, auctionItemToDTO(item))
}

func (h *Handler) GetAuction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAuction")
	defer span.End()

	itemID := r.PathValue("itemID")
	view, err := h.auctionService.Get(ctx, itemID)
	if err != nil {
		h.fail(ctx, w, "get auction failed", err, "auction_id", itemID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, auctionViewToDTO(view))
}

func (h *Handler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PlaceBid")
	defer span.End()

	itemID := r.PathValue("itemID")
	var req placeBidRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.auctionService.PlaceBid(ctx, usecase.PlaceBidInput{
		AuctionID: itemID,
		ClubID:    req.ClubID,
		Value:     req.Value,
	})
	if err != nil {
		h.fail(ctx, w, "place bid failed", err, "auction_id", itemID, "club_id", req.ClubID, "value", req.Value)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, bidResultDTO{
		Item:     auctionItemToDTO(result.Item),
		Bid:      auctionBidToDTO(result.Bid),
		Extended: result.Extended,
	})
}

func (h *Handler) SettleAuction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SettleAuction")
	defer span.End()

	itemID := r.PathValue("itemID")
	result, err := h.auctionService.Settle(ctx, itemID)
	if err != nil {
		h.fail(ctx, w, "settle auction failed", err, "auction_id", itemID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, settleResultToDTO(result))
}

func (h *Handler) CancelAuction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelAuction")
	defer span.End()

	itemID := r.PathValue("itemID")
	var req cancelAuctionRequest
	if err := h.decodeRequest(ctx, r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.auctionService.Cancel(ctx, itemID, req.Reason)
	if err != nil {
		h.fail(ctx, w, "cancel auction failed", err, "auction_id", itemID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, auctionItemToDTO(item))
}
