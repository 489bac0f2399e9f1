package httpapi

import (
	"net/http"

	"github.com/riskibarqy/career-league/internal/usecase"
)

func (h *Handler) PurchasePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PurchasePlayer")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	var req purchaseRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.transferService.Purchase(ctx, usecase.PurchaseInput{
		LeagueID:      leagueID,
		ClubID:        req.ClubID,
		PlayerID:      req.PlayerID,
		DeclaredValue: req.DeclaredValue,
	})
	if err != nil {
		h.fail(ctx, w, "purchase failed", err, "league_id", leagueID, "club_id", req.ClubID, "player_id", req.PlayerID)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, transferResultToDTO(result))
}

func (h *Handler) SellPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SellPlayer")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	var req saleRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.transferService.Sell(ctx, usecase.SellInput{
		LeagueID:     leagueID,
		SellerClubID: req.SellerClubID,
		BuyerClubID:  req.BuyerClubID,
		PlayerID:     req.PlayerID,
		Price:        req.Price,
	})
	if err != nil {
		h.fail(ctx, w, "sale failed", err,
			"league_id", leagueID,
			"seller_club_id", req.SellerClubID,
			"buyer_club_id", req.BuyerClubID,
			"player_id", req.PlayerID,
		)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, transferResultToDTO(result))
}

func (h *Handler) FinePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinePlayer")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	var req fineRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.transferService.Fine(ctx, usecase.FineInput{
		LeagueID:    leagueID,
		BuyerClubID: req.BuyerClubID,
		PlayerID:    req.PlayerID,
	})
	if err != nil {
		h.fail(ctx, w, "fine failed", err, "league_id", leagueID, "buyer_club_id", req.BuyerClubID, "player_id", req.PlayerID)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, transferResultToDTO(result))
}

func (h *Handler) TradePlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TradePlayers")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	var req tradeRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.transferService.Trade(ctx, usecase.TradeInput{
		LeagueID:       leagueID,
		ClubAID:        req.ClubAID,
		PlayerAID:      req.PlayerAID,
		ClubBID:        req.ClubBID,
		PlayerBID:      req.PlayerBID,
		CashAdjustment: req.CashAdjustment,
	})
	if err != nil {
		h.fail(ctx, w, "trade failed", err, "league_id", leagueID, "club_a_id", req.ClubAID, "club_b_id", req.ClubBID)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, transferResultToDTO(result))
}

func (h *Handler) ChargePayroll(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ChargePayroll")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	round, err := parsePathInt(r, "round")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.payrollService.ChargeRound(ctx, leagueID, round)
	if err != nil {
		// Clubs charged before the failure stay charged; report them alongside the error.
		h.logger.WarnContext(ctx, "payroll round partially failed",
			"league_id", leagueID,
			"round", round,
			"charged", len(result.Charged),
			"error", err,
		)
		if len(result.Charged) == 0 {
			writeError(ctx, w, err)
			return
		}
		writeSuccess(ctx, w, http.StatusMultiStatus, map[string]any{
			"result": result,
			"error":  err.Error(),
		})
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
