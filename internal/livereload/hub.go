// Package livereload pushes reload notifications to connected browsers over
// WebSocket when watched template files change.
package livereload

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/vantage-web/vantage/internal/logging"
)

// writeWait bounds how long a broadcast waits on a slow client.
const writeWait = 5 * time.Second

// ReloadMessage is what clients receive; the bundled script reloads the
// page on any message.
const ReloadMessage = `{"event":"reload"}`

// Hub tracks connected browsers and broadcasts reload events to them.
type Hub struct {
	logger         logging.Logger
	allowedOrigins []string

	mu      sync.RWMutex
	clients map[*websocket.Conn]struct{}
	closed  bool
}

// NewHub creates a reload hub. allowedOrigins lists origin hosts accepted
// in addition to the request's own host.
func NewHub(logger logging.Logger, allowedOrigins []string) *Hub {
	return &Hub{
		logger:         logger.WithComponent("livereload"),
		allowedOrigins: allowedOrigins,
		clients:        make(map[*websocket.Conn]struct{}),
	}
}

// HandleWebSocket upgrades the request and keeps the connection registered
// until the client goes away.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // origin verified above
	})
	if err != nil {
		h.logger.Warn(r.Context(), err, "websocket upgrade failed")
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close(websocket.StatusGoingAway, "shutting down")
		return
	}
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug(r.Context(), "client connected", "clients", h.ClientCount())

	// Clients never send meaningful data; this read loop only detects
	// disconnects.
	ctx := r.Context()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close(websocket.StatusNormalClosure, "")
}

// checkOrigin validates the request origin. Connections without an Origin
// header are rejected.
func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	if strings.EqualFold(originURL.Host, r.Host) {
		return true
	}
	for _, allowed := range h.allowedOrigins {
		if strings.EqualFold(originURL.Host, allowed) || strings.EqualFold(origin, allowed) {
			return true
		}
	}
	return false
}

// Broadcast sends msg to every connected client. Clients that cannot be
// written to within writeWait are dropped.
func (h *Hub) Broadcast(msg string) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		err := c.Write(ctx, websocket.MessageText, []byte(msg))
		cancel()
		if err != nil {
			h.mu.Lock()
			delete(h.clients, c)
			h.mu.Unlock()
			c.Close(websocket.StatusPolicyViolation, "write timeout")
		}
	}
}

// NotifyReload broadcasts the standard reload message.
func (h *Hub) NotifyReload() {
	h.Broadcast(ReloadMessage)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects all clients and rejects future registrations.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		c.Close(websocket.StatusGoingAway, "shutting down")
		delete(h.clients, c)
	}
}
