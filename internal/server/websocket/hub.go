package websocket

import (
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/robert8597/swifthackathon/internal/domain"
	"github.com/robert8597/swifthackathon/pkg/config"
)

// Hub fans status updates out to every connected WebSocket client. Clients
// that fail a write are dropped; there is no replay of missed updates.
type Hub struct {
	upgrader websocket.Upgrader
	mu       sync.Mutex
	clients  map[*websocket.Conn]struct{}
	logger   zerolog.Logger
}

func NewHub(cfg config.WebSocketConfig, logger zerolog.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				if !cfg.CheckOrigin {
					return true
				}
				return sameOrigin(r)
			},
		},
		clients: make(map[*websocket.Conn]struct{}),
		logger:  logger,
	}
}

// sameOrigin accepts requests without an Origin header (non-browser
// clients) and browser requests whose Origin host matches the request host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// HandleConnection upgrades the request and keeps the connection registered
// until the peer closes it.
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Info().Int("clients", count).Msg("WebSocket client connected")

	go h.readLoop(conn)
}

// readLoop drains inbound frames so close/ping control frames are
// processed, and unregisters the client when the peer goes away.
func (h *Hub) readLoop(conn *websocket.Conn) {
	defer h.remove(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast sends a status update to all connected clients.
func (h *Hub) Broadcast(update *domain.StatusUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteJSON(update); err != nil {
			h.logger.Warn().Err(err).Msg("Dropping unresponsive WebSocket client")
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) remove(conn *websocket.Conn) {
	conn.Close()
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}
