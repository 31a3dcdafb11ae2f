/*
Package api
File: handlers.go
Description:
    HTTP handlers for the REST API.
    Every mutating endpoint follows the same shape: decode the request DTO,
    call one game action, map its error to a status code, and reply with a
    fresh snapshot so the UI updates without waiting for the next sync.

    Key responsibilities:
    - Input validation (is the JSON valid? does the entity exist?)
    - State modification (delegated to the game package's actions)
    - Error translation (game sentinel errors to HTTP status codes)
*/

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/calebaero/stellar-drift-trader-game/internal/game"
	"github.com/calebaero/stellar-drift-trader-game/pkg/logger"
)

// Server bundles the dependencies the handlers need.
type Server struct {
	State *game.State
	Loop  *game.Loop
	Hub   *Hub
}

// NewServer wires the handlers to a running game.
func NewServer(state *game.State, loop *game.Loop, hub *Hub) *Server {
	return &Server{State: state, Loop: loop, Hub: hub}
}

// Request DTOs. These define exactly what the client may send.

type JumpRequest struct {
	SystemID string `json:"system_id"`
}

type DockRequest struct {
	StationID string `json:"station_id"`
}

type TradeRequest struct {
	ItemKey  string `json:"item_key"`
	Quantity int    `json:"quantity"`
}

type MineRequest struct {
	AsteroidID string `json:"asteroid_id"`
}

type InteractRequest struct {
	ObjectID string `json:"object_id"`
}

type MissionRequest struct {
	MissionID string `json:"mission_id"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Tick      uint64 `json:"tick"`
	Loop      string `json:"loop"`
}

// statusFor maps a game sentinel error onto an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrNotFound), errors.Is(err, game.ErrNotListed):
		return http.StatusNotFound
	case errors.Is(err, game.ErrInsufficientFunds), errors.Is(err, game.ErrInsufficientFuel):
		return http.StatusPaymentRequired
	case errors.Is(err, game.ErrGameOver):
		return http.StatusGone
	default:
		// Precondition failures: wrong mode, out of range, full hold, etc.
		return http.StatusConflict
	}
}

// respondState replies with a fresh full snapshot.
func (s *Server) respondState(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.State.Snapshot())
}

// act runs one game action and converts the outcome to an HTTP response.
// Rejected actions leave the state untouched, so the error body is all the
// client needs.
func (s *Server) act(w http.ResponseWriter, name string, fn func() error) {
	if err := fn(); err != nil {
		logger.Log.WithError(err).WithField("action", name).Debug("Action rejected")
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	s.respondState(w)
}

// decode parses a JSON request body into dst, replying 400 on garbage.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

// HandleGetState returns the full game snapshot. Same payload as the socket
// sync, for initial page load and polling fallback.
func (s *Server) HandleGetState(w http.ResponseWriter, r *http.Request) {
	s.respondState(w)
}

// HandleGetUniverse returns the static reference tables (hulls, modules,
// commodities, factions). Immutable after boot, so no lock is involved.
func (s *Server) HandleGetUniverse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.State.Universe())
}

// HandleHealth reports process liveness and whether the loop is ticking.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	loopStatus := "stopped"
	if s.Loop.Running() {
		loopStatus = "running"
	}
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Tick:      s.State.Snapshot().Tick,
		Loop:      loopStatus,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleInput accepts flight input over REST, for clients without a socket.
func (s *Server) HandleInput(w http.ResponseWriter, r *http.Request) {
	var input game.PlayerInput
	if !decode(w, r, &input) {
		return
	}
	s.State.SetInput(input)
	w.WriteHeader(http.StatusAccepted)
}

// HandleJump spends fuel to move the ship to a connected system.
func (s *Server) HandleJump(w http.ResponseWriter, r *http.Request) {
	var req JumpRequest
	if !decode(w, r, &req) {
		return
	}
	s.act(w, "jump", func() error { return s.State.JumpToSystem(req.SystemID) })
}

// HandleJumpQuote prices a jump without moving the ship, so the galaxy map
// can show fuel costs before the player commits.
func (s *Server) HandleJumpQuote(w http.ResponseWriter, r *http.Request) {
	var req JumpRequest
	if !decode(w, r, &req) {
		return
	}
	quote, err := s.State.QuoteJump(req.SystemID)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(quote)
}

// HandleDock docks the ship at a station in the current system.
func (s *Server) HandleDock(w http.ResponseWriter, r *http.Request) {
	var req DockRequest
	if !decode(w, r, &req) {
		return
	}
	s.act(w, "dock", func() error { return s.State.DockAtStation(req.StationID) })
}

// HandleUndock returns the ship to open space near the station.
func (s *Server) HandleUndock(w http.ResponseWriter, r *http.Request) {
	s.act(w, "undock", func() error { return s.State.UndockFromStation() })
}

// HandleBuy purchases a commodity or ship module at the docked station.
func (s *Server) HandleBuy(w http.ResponseWriter, r *http.Request) {
	var req TradeRequest
	if !decode(w, r, &req) {
		return
	}
	s.act(w, "buy", func() error { return s.State.BuyItem(req.ItemKey, req.Quantity) })
}

// HandleSell sells cargo at the docked station.
func (s *Server) HandleSell(w http.ResponseWriter, r *http.Request) {
	var req TradeRequest
	if !decode(w, r, &req) {
		return
	}
	s.act(w, "sell", func() error { return s.State.SellItem(req.ItemKey, req.Quantity) })
}

// HandleRepair restores hull integrity for credits.
func (s *Server) HandleRepair(w http.ResponseWriter, r *http.Request) {
	s.act(w, "repair", func() error { return s.State.RepairShip() })
}

// HandleRefuel fills the tank for credits.
func (s *Server) HandleRefuel(w http.ResponseWriter, r *http.Request) {
	s.act(w, "refuel", func() error { return s.State.RefuelShip() })
}

// HandleMine chips one unit of resource off a nearby asteroid.
func (s *Server) HandleMine(w http.ResponseWriter, r *http.Request) {
	var req MineRequest
	if !decode(w, r, &req) {
		return
	}
	s.act(w, "mine", func() error { return s.State.MineAsteroid(req.AsteroidID) })
}

// HandleFire spends energy to fire the equipped weapon along the ship's nose.
func (s *Server) HandleFire(w http.ResponseWriter, r *http.Request) {
	s.act(w, "fire", func() error { return s.State.FireWeapon() })
}

// HandleInteract supplies repair materials to a nearby world object.
func (s *Server) HandleInteract(w http.ResponseWriter, r *http.Request) {
	var req InteractRequest
	if !decode(w, r, &req) {
		return
	}
	s.act(w, "interact", func() error { return s.State.InteractWithObject(req.ObjectID) })
}

// HandleAcceptMission moves a mission from the station board to the journal.
func (s *Server) HandleAcceptMission(w http.ResponseWriter, r *http.Request) {
	var req MissionRequest
	if !decode(w, r, &req) {
		return
	}
	s.act(w, "mission_accept", func() error { return s.State.AcceptMission(req.MissionID) })
}

// HandleCompleteMission turns in a finished mission for its rewards.
func (s *Server) HandleCompleteMission(w http.ResponseWriter, r *http.Request) {
	var req MissionRequest
	if !decode(w, r, &req) {
		return
	}
	s.act(w, "mission_complete", func() error { return s.State.CompleteMission(req.MissionID) })
}

// HandleAbandonMission drops an active mission, forfeiting granted cargo.
func (s *Server) HandleAbandonMission(w http.ResponseWriter, r *http.Request) {
	var req MissionRequest
	if !decode(w, r, &req) {
		return
	}
	s.act(w, "mission_abandon", func() error { return s.State.AbandonMission(req.MissionID) })
}
