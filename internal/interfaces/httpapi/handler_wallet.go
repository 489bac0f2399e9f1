package httpapi

import (
	"net/http"

	"github.com/riskibarqy/career-league/internal/usecase"
)

func (h *Handler) OpenWallet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.OpenWallet")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	var req openWalletRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, created, err := h.walletService.OpenWallet(ctx, leagueID, req.ClubID)
	if err != nil {
		h.fail(ctx, w, "open wallet failed", err, "league_id", leagueID, "club_id", req.ClubID)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeSuccess(ctx, w, status, openWalletDTO{Wallet: walletToDTO(item), Created: created})
}

func (h *Handler) GetWallet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetWallet")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	clubID := r.PathValue("clubID")
	item, err := h.walletService.GetBalance(ctx, leagueID, clubID)
	if err != nil {
		h.fail(ctx, w, "get wallet failed", err, "league_id", leagueID, "club_id", clubID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, walletToDTO(item))
}

func (h *Handler) ReconcileWallet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReconcileWallet")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	clubID := r.PathValue("clubID")
	report, err := h.walletService.Reconcile(ctx, leagueID, clubID)
	if err != nil {
		h.fail(ctx, w, "reconcile wallet failed", err, "league_id", leagueID, "club_id", clubID)
		return
	}
	if !report.Consistent {
		h.logger.WarnContext(ctx, "wallet balance drifted from ledger",
			"league_id", leagueID,
			"club_id", clubID,
			"stored_balance", report.StoredBalance,
			"expected_balance", report.ExpectedBalance,
		)
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTransfers")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	limit, err := parseQueryInt(r, "limit")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	query := r.URL.Query()
	records, err := h.walletService.ListTransfers(ctx, usecase.ListTransfersInput{
		LeagueID: leagueID,
		ClubID:   query.Get("club_id"),
		PlayerID: query.Get("player_id"),
		Limit:    limit,
	})
	if err != nil {
		h.fail(ctx, w, "list transfers failed", err, "league_id", leagueID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, recordsToDTO(records))
}
