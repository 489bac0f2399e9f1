package httpapi

import (
	"net/http"
)

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	items, err := h.catalogService.ListLeagues(ctx)
	if err != nil {
		h.fail(ctx, w, "list leagues failed", err)
		return
	}

	out := make([]leagueDTO, 0, len(items))
	for _, item := range items {
		out = append(out, leagueToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeague")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	item, err := h.catalogService.GetLeague(ctx, leagueID)
	if err != nil {
		h.fail(ctx, w, "get league failed", err, "league_id", leagueID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(item))
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	playerID := r.PathValue("playerID")
	item, err := h.catalogService.GetPlayer(ctx, playerID)
	if err != nil {
		h.fail(ctx, w, "get player failed", err, "player_id", playerID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerDTO{
		ID:       item.ID,
		Name:     item.Name,
		Position: string(item.Position),
		Value:    item.Value,
		Wage:     item.Wage,
	})
}

func (h *Handler) ListRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRoster")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	clubID := r.PathValue("clubID")
	items, err := h.catalogService.ListRoster(ctx, leagueID, clubID)
	if err != nil {
		h.fail(ctx, w, "list roster failed", err, "league_id", leagueID, "club_id", clubID)
		return
	}

	out := make([]rosterEntryDTO, 0, len(items))
	for _, item := range items {
		out = append(out, rosterEntryToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
