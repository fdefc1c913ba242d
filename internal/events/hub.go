// Package events pushes application events to connected UI clients over WebSocket.
package events

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/ziyyanmart/localstore/internal/logger"
)

const (
	DocumentSaved   = "document.saved"
	DocumentChanged = "document.changed"
)

const (
	sendBuffer   = 64
	pingInterval = 30 * time.Second
	writeWait    = 10 * time.Second
)

// Event is the message written to every client.
type Event struct {
	Type    string    `json:"type"`
	Payload any       `json:"payload,omitempty"`
	At      time.Time `json:"at"`
}

// Hub fans events out to every connected client. Publish never blocks: a client
// whose send buffer is full is disconnected.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
	closed  bool

	allowedOrigins []string
	upgrader       websocket.Upgrader
	now            func() time.Time
	logger         *logrus.Entry
}

// NewHub creates a hub accepting connections from allowedOrigins ("*" allows any).
// Requests without an Origin header are always accepted.
func NewHub(allowedOrigins []string) *Hub {
	h := &Hub{
		clients:        map[*Client]struct{}{},
		allowedOrigins: allowedOrigins,
		now:            time.Now,
		logger:         logger.WithComponent("events"),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	h.logger.Warnf("rejected websocket from origin %s", origin)
	return false
}

// ServeWS upgrades the request and registers the connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		http.Error(w, "event hub is closed", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already written the error response
		h.logger.Debugf("websocket upgrade failed: %v", err)
		return
	}

	client := &Client{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	h.logger.Debugf("client connected from %s", r.RemoteAddr)

	go client.writePump()
	go client.readPump()
}

// Publish sends an event to every connected client.
func (h *Hub) Publish(eventType string, payload any) {
	data, err := json.Marshal(Event{Type: eventType, Payload: payload, At: h.now().UTC()})
	if err != nil {
		h.logger.Errorf("marshal %s event: %v", eventType, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			h.logger.Warnf("client send buffer full, disconnecting")
			h.removeLocked(client)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and refuses new connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for client := range h.clients {
		h.removeLocked(client)
	}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

// removeLocked closes the client's send channel once; the write pump then closes the socket.
func (h *Hub) removeLocked(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}
