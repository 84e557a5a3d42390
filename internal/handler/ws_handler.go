package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/veldtlabs/hexrift/internal/auth"
	"github.com/veldtlabs/hexrift/internal/scheduler"
	"github.com/veldtlabs/hexrift/pkg/hexrift"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = 54 * time.Second // Must be less than pongWait
	maxMsgSize  = 4096
	sendBufSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS handled by middleware; tighten in production
	},
}

// WSHandler handles WebSocket connections: the entire match protocol runs
// over this single endpoint once a guest has a token.
type WSHandler struct {
	hub         *Hub
	jwtMgr      *auth.JWTManager
	scheduler   *scheduler.Scheduler
	actionRate  rate.Limit
	actionBurst int
}

// NewWSHandler creates a WSHandler. actionRate and actionBurst bound how fast
// a single connection may submit actions.
func NewWSHandler(hub *Hub, jwtMgr *auth.JWTManager, sched *scheduler.Scheduler, actionRate float64, actionBurst int) *WSHandler {
	return &WSHandler{
		hub:         hub,
		jwtMgr:      jwtMgr,
		scheduler:   sched,
		actionRate:  rate.Limit(actionRate),
		actionBurst: actionBurst,
	}
}

// ServeWS handles GET /api/v1/ws — upgrades to WebSocket.
// Auth via ?token= query parameter (WebSocket can't send headers).
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, `{"error":"missing token parameter"}`, http.StatusUnauthorized)
		return
	}

	claims, err := h.jwtMgr.ValidateToken(tokenStr)
	if err != nil {
		http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &WSConn{
		conn:     conn,
		playerID: claims.PlayerID,
		send:     make(chan []byte, sendBufSize),
		limiter:  rate.NewLimiter(h.actionRate, h.actionBurst),
	}
	h.hub.Register(client)

	// Send a welcome message so the client can confirm the connection is live.
	welcome, _ := json.Marshal(WSEvent{
		Type: "connected",
		Data: map[string]any{"player_id": claims.PlayerID},
	})
	client.send <- welcome

	go h.writePump(client)
	go h.readPump(client)

	log.Info().Str("playerId", claims.PlayerID).Int("total", h.hub.ConnectionCount()).Msg("WebSocket client connected")
}

// readPump reads messages from the WebSocket connection. When the connection
// drops, the player's match (if any) ends with them.
func (h *WSHandler) readPump(c *WSConn) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
		h.scheduler.Disconnect(c.playerID)
		log.Info().Str("playerId", c.playerID).Msg("WebSocket client disconnected")
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("playerId", c.playerID).Msg("WebSocket unexpected close")
			}
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		h.handleMessage(c, msg)
	}
}

// handleMessage dispatches one inbound client envelope.
func (h *WSHandler) handleMessage(c *WSConn, msg ClientMessage) {
	switch msg.Action {
	case "join":
		if err := h.scheduler.Join(c.playerID, msg.Mode); err != nil {
			h.hub.SendPlayerEvent(c.playerID, scheduler.EventActionRejected, map[string]any{
				"code":    "JoinFailed",
				"message": err.Error(),
			})
		}
	case "submit":
		if !c.limiter.Allow() {
			h.hub.SendPlayerEvent(c.playerID, scheduler.EventActionRejected, map[string]any{
				"code":    "RateLimited",
				"message": "too many actions, slow down",
			})
			return
		}
		var action hexrift.Action
		if err := json.Unmarshal(msg.Data, &action); err != nil {
			h.hub.SendPlayerEvent(c.playerID, scheduler.EventActionRejected, map[string]any{
				"code":    "MalformedAction",
				"message": "could not parse action payload",
			})
			return
		}
		// Validation failures are reported by the scheduler as private
		// action_rejected events; nothing more to do here.
		if err := h.scheduler.SubmitAction(c.playerID, action); err != nil {
			log.Debug().Err(err).Str("playerId", c.playerID).Msg("Action rejected")
		}
	case "leave":
		h.scheduler.Disconnect(c.playerID)
	}
}

// writePump writes messages to the WebSocket connection.
func (h *WSHandler) writePump(c *WSConn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Drain queued messages into the same write
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte("\n"))
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
