/*
Package api
File: routes.go
Description:
    Route table. Binds every handler to its path and wraps the mux in the
    middleware chain (rate limiting inside, CORS outside, so preflights are
    never throttled).
*/

package api

import (
	"net/http"
)

// NewRouter assembles the full HTTP handler for the server.
func NewRouter(s *Server) http.Handler {
	mux := http.NewServeMux()

	// Information endpoints.
	mux.HandleFunc("/healthz", s.HandleHealth)
	mux.HandleFunc("/api/state", s.HandleGetState)
	mux.HandleFunc("/api/universe", s.HandleGetUniverse)

	// Flight.
	mux.HandleFunc("/api/input", s.HandleInput)
	mux.HandleFunc("/api/jump", s.HandleJump)
	mux.HandleFunc("/api/jump/quote", s.HandleJumpQuote)
	mux.HandleFunc("/api/dock", s.HandleDock)
	mux.HandleFunc("/api/undock", s.HandleUndock)
	mux.HandleFunc("/api/fire", s.HandleFire)

	// Station services.
	mux.HandleFunc("/api/trade/buy", s.HandleBuy)
	mux.HandleFunc("/api/trade/sell", s.HandleSell)
	mux.HandleFunc("/api/services/repair", s.HandleRepair)
	mux.HandleFunc("/api/services/refuel", s.HandleRefuel)

	// World.
	mux.HandleFunc("/api/mine", s.HandleMine)
	mux.HandleFunc("/api/interact", s.HandleInteract)

	// Missions.
	mux.HandleFunc("/api/missions/accept", s.HandleAcceptMission)
	mux.HandleFunc("/api/missions/complete", s.HandleCompleteMission)
	mux.HandleFunc("/api/missions/abandon", s.HandleAbandonMission)

	// Real-time WebSocket endpoint.
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ServeWs(s.Hub, w, r)
	})

	limiter := NewRateLimiter(20, 40)
	return NewCORS().Handler(limiter.Middleware(mux))
}
