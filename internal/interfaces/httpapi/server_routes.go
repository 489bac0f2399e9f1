package httpapi

import "net/http"

// handle registers route with request metrics labelled by its pattern.
func handle(mux *http.ServeMux, route string, h http.Handler) {
	mux.Handle(route, instrument(route, h))
}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metricsEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metricsEnabled {
		mux.Handle("GET /metrics", metricsHandler())
	}
}

func registerEconomyRoutes(mux *http.ServeMux, handler *Handler, internalAPIToken string) {
	routes := []struct {
		route string
		fn    http.HandlerFunc
	}{
		{"GET /v1/leagues", handler.ListLeagues},
		{"GET /v1/leagues/{leagueID}", handler.GetLeague},
		{"GET /v1/players/{playerID}", handler.GetPlayer},
		{"GET /v1/leagues/{leagueID}/clubs/{clubID}/roster", handler.ListRoster},
		{"POST /v1/leagues/{leagueID}/wallets", handler.OpenWallet},
		{"GET /v1/leagues/{leagueID}/clubs/{clubID}/wallet", handler.GetWallet},
		{"GET /v1/leagues/{leagueID}/clubs/{clubID}/reconcile", handler.ReconcileWallet},
		{"GET /v1/leagues/{leagueID}/transfers", handler.ListTransfers},
		{"POST /v1/leagues/{leagueID}/transfers/purchase", handler.PurchasePlayer},
		{"POST /v1/leagues/{leagueID}/transfers/sale", handler.SellPlayer},
		{"POST /v1/leagues/{leagueID}/transfers/fine", handler.FinePlayer},
		{"POST /v1/leagues/{leagueID}/transfers/trade", handler.TradePlayers},
		{"POST /v1/leagues/{leagueID}/payroll/rounds/{round}/charge", handler.ChargePayroll},
		{"POST /v1/leagues/{leagueID}/auctions", handler.OpenAuction},
		{"GET /v1/auctions/{itemID}", handler.GetAuction},
		{"POST /v1/auctions/{itemID}/bids", handler.PlaceBid},
		{"POST /v1/auctions/{itemID}/settle", handler.SettleAuction},
		{"POST /v1/auctions/{itemID}/cancel", handler.CancelAuction},
	}
	for _, rt := range routes {
		handle(mux, rt.route, RequireInternalToken(internalAPIToken, rt.fn))
	}
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	handle(mux, "POST /v1/internal/jobs/settle-auction", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSettleAuctionJob)))
	handle(mux, "POST /v1/internal/jobs/sweep-auctions", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSweepAuctionsJob)))
}
