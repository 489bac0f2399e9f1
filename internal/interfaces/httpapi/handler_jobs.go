package httpapi

import (
	"net/http"

	"github.com/riskibarqy/career-league/internal/domain/economy"
)

// RunSettleAuctionJob is the delayed callback scheduled when an auction opens
// or is extended. Settling an item that is still open or already terminal is
// a no-op, so redelivery is safe.
func (h *Handler) RunSettleAuctionJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSettleAuctionJob")
	defer span.End()

	var req settleAuctionJobRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.auctionService.Settle(ctx, req.AuctionID)
	if err != nil {
		// A missing item will never settle; acknowledge so the queue stops retrying.
		if economy.KindOf(err) == economy.KindNotFound {
			h.logger.WarnContext(ctx, "settle job for unknown auction", "auction_id", req.AuctionID)
			writeSuccess(ctx, w, http.StatusOK, map[string]string{"auction_id": req.AuctionID, "outcome": "missing"})
			return
		}
		h.fail(ctx, w, "run settle auction job failed", err, "auction_id", req.AuctionID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, settleResultToDTO(result))
}

func (h *Handler) RunSweepAuctionsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSweepAuctionsJob")
	defer span.End()

	var req sweepAuctionsJobRequest
	if err := h.decodeRequest(ctx, r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.auctionService.SweepExpired(ctx, req.Limit)
	if err != nil {
		h.fail(ctx, w, "run sweep auctions job failed", err, "limit", req.Limit)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
