/*
Package api
File: hub.go
Description:
    The WebSocket Hub is the real-time half of the transport layer.

    Outbound: the simulation loop hands the hub state snapshots at sync
    points; the hub fans them out to every connected browser tab.
    Inbound: clients stream flight input (target angle + thrust flag) over
    the same socket, which the hub forwards into the game state. Input is
    fire-and-forget; the next sync shows its effect.

    Architecture:
    - Hub: the singleton manager.
    - Client: one browser connection.
    - ServeWs: the HTTP handler that upgrades a GET request to a WebSocket.
*/

package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/calebaero/stellar-drift-trader-game/internal/game"
	"github.com/calebaero/stellar-drift-trader-game/pkg/logger"
)

// Message is the JSON envelope for everything sent over the socket.
type Message struct {
	Type    string      `json:"type"`    // Event type (e.g. "state_sync")
	Payload interface{} `json:"payload"` // The actual data
	Sender  string      `json:"sender"`  // Origin ID ("server" or a client)
}

// inboundMessage defers payload decoding until the type is known.
type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Client represents a single connected browser tab.
// It acts as a middleman between the websocket connection and the Hub.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte // Buffered channel for outbound messages
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	// Registered clients map. A map beats a slice for add/remove churn.
	clients map[*Client]bool

	// Inbound frames destined for every client.
	Broadcast chan []byte

	register   chan *Client
	unregister chan *Client

	// OnInput receives decoded flight input from any client. Set once
	// before Run; nil drops input frames.
	OnInput func(game.PlayerInput)
}

// NewHub creates a new Hub instance.
// Call once at startup and run as a goroutine.
func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte, 8),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run is the hub's event loop. It blocks, so run it in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			logger.Log.WithField("clients", len(h.clients)).Debug("WebSocket client registered")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// A full send buffer means the client hung or went away.
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// BroadcastState wraps a snapshot in the standard envelope and queues it for
// every client. Safe to call from the simulation loop goroutine.
func (h *Hub) BroadcastState(snap game.Snapshot) {
	msg := Message{Type: "state_sync", Payload: snap, Sender: "server"}
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to marshal state sync")
		return
	}
	// The simulation must never stall on transport. If the hub cannot keep
	// up, stale frames are dropped; the next sync replaces them anyway.
	select {
	case h.Broadcast <- data:
	default:
		logger.Log.Debug("Broadcast queue full, dropping state frame")
	}
}

// BroadcastEvent pushes a discrete gameplay event (enemy destroyed, mission
// ready, market pulse) through the same envelope and queue as state syncs.
func (h *Hub) BroadcastEvent(kind string, payload interface{}) {
	msg := Message{Type: kind, Payload: payload, Sender: "server"}
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Log.WithError(err).WithField("event", kind).Error("Failed to marshal event")
		return
	}
	select {
	case h.Broadcast <- data:
	default:
		logger.Log.WithField("event", kind).Debug("Broadcast queue full, dropping event")
	}
}

// upgrader configures the WebSocket handshake. Origin checks happen in the
// CORS layer; the upgrader accepts what got that far.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades an HTTP request to a persistent WebSocket connection.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Error("WebSocket upgrade failed")
		return
	}

	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 256)}
	client.hub.register <- client

	// One pump per direction, so a slow reader never blocks writes.
	go client.writePump()
	go client.readPump()
}

// readPump pumps messages from the websocket connection into the game.
// Only "input" frames are meaningful; anything else is logged and dropped.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.WithError(err).Warn("WebSocket read error")
			}
			break
		}

		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			logger.Log.WithError(err).Debug("Dropping malformed socket frame")
			continue
		}

		switch msg.Type {
		case "input":
			var input game.PlayerInput
			if err := json.Unmarshal(msg.Payload, &input); err != nil {
				logger.Log.WithError(err).Debug("Dropping malformed input payload")
				continue
			}
			if c.hub.OnInput != nil {
				c.hub.OnInput(input)
			}
		default:
			logger.Log.WithField("type", msg.Type).Debug("Ignoring unknown socket message type")
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	defer func() {
		c.conn.Close()
	}()

	// Range over the channel. This loop exits when c.send is closed.
	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)

		if err := w.Close(); err != nil {
			return
		}
	}
}
