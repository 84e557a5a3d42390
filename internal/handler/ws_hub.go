package handler

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// WSEvent is the envelope for all WebSocket messages sent to clients.
type WSEvent struct {
	Type    string `json:"type"`
	MatchID string `json:"match_id"`
	Data    any    `json:"data"`
}

// ClientMessage is the envelope for messages sent from the client.
type ClientMessage struct {
	Action string          `json:"action"` // "join", "submit", or "leave"
	Mode   string          `json:"mode,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// WSConn wraps a WebSocket connection with its player identity, its send
// queue, and a per-connection action rate limiter.
type WSConn struct {
	conn     *websocket.Conn
	playerID string
	send     chan []byte
	limiter  *rate.Limiter
}

// Hub manages WebSocket connections, the player index, and match channels.
// It implements scheduler.Broadcaster.
type Hub struct {
	mu          sync.RWMutex
	connections map[*WSConn]bool
	players     map[string]map[*WSConn]bool // playerID -> set of connections
	matches     map[string]map[*WSConn]bool // matchID -> set of connections
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		connections: make(map[*WSConn]bool),
		players:     make(map[string]map[*WSConn]bool),
		matches:     make(map[string]map[*WSConn]bool),
	}
}

// Register adds a connection to the hub.
func (h *Hub) Register(c *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = true
	if h.players[c.playerID] == nil {
		h.players[c.playerID] = make(map[*WSConn]bool)
	}
	h.players[c.playerID][c] = true
}

// Unregister removes a connection from the hub and all its channels.
func (h *Hub) Unregister(c *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.connections, c)
	if conns, ok := h.players[c.playerID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.players, c.playerID)
		}
	}
	for matchID, conns := range h.matches {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.matches, matchID)
		}
	}
	close(c.send)
}

// JoinMatchChannel subscribes every connection of a player to a match channel.
func (h *Hub) JoinMatchChannel(playerID, matchID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.players[playerID] {
		if h.matches[matchID] == nil {
			h.matches[matchID] = make(map[*WSConn]bool)
		}
		h.matches[matchID][c] = true
	}
}

// LeaveMatchChannel removes every connection of a player from a match channel.
func (h *Hub) LeaveMatchChannel(playerID, matchID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.matches[matchID]
	if !ok {
		return
	}
	for c := range h.players[playerID] {
		delete(conns, c)
	}
	if len(conns) == 0 {
		delete(h.matches, matchID)
	}
}

// BroadcastMatchEvent sends an event to all connections on a match channel.
func (h *Hub) BroadcastMatchEvent(matchID string, eventType string, data any) {
	payload, err := json.Marshal(WSEvent{Type: eventType, MatchID: matchID, Data: data})
	if err != nil {
		log.Error().Err(err).Str("matchId", matchID).Msg("Failed to marshal WebSocket event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.matches[matchID] {
		select {
		case c.send <- payload:
		default:
			log.Warn().Str("playerId", c.playerID).Str("matchId", matchID).Msg("Dropping WebSocket message, buffer full")
		}
	}
}

// SendPlayerEvent sends an event to a specific player across all their connections.
func (h *Hub) SendPlayerEvent(playerID string, eventType string, data any) {
	payload, err := json.Marshal(WSEvent{Type: eventType, Data: data})
	if err != nil {
		log.Error().Err(err).Str("playerId", playerID).Msg("Failed to marshal WebSocket event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.players[playerID] {
		select {
		case c.send <- payload:
		default:
		}
	}
}

// ConnectionCount returns the total number of active connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// MatchSubscriberCount returns the number of connections on a match channel.
func (h *Hub) MatchSubscriberCount(matchID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.matches[matchID])
}
