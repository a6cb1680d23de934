package ws

import (
	"log/slog"
	"sync"

	"dating-service/internal/observability"
)

// Hub is the process-local presence registry: at most one live connection
// per user. A reconnect replaces the previous entry.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

// Register binds client to its user and returns the connection it replaced,
// if any. The replaced connection stays open but stops receiving pushes.
func (h *Hub) Register(client *Client) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()
	previous := h.clients[client.UserID()]
	h.clients[client.UserID()] = client
	return previous
}

// Unregister removes the entry only while it still points at client, so a
// stale connection closing late cannot evict a newer one.
func (h *Hub) Unregister(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if current, ok := h.clients[client.UserID()]; ok && current == client {
		delete(h.clients, client.UserID())
		return true
	}
	return false
}

// Lookup returns the live connection for userID.
func (h *Hub) Lookup(userID string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	client, ok := h.clients[userID]
	return client, ok
}

// Online reports whether userID has a registered connection.
func (h *Hub) Online(userID string) bool {
	_, ok := h.Lookup(userID)
	return ok
}

// Count returns the number of users online.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll closes every registered connection. Each read loop then exits and
// unregisters its client. Used on shutdown, since hijacked connections are
// not tracked by the HTTP server.
func (h *Hub) CloseAll() int {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		client.close()
	}
	if len(clients) > 0 {
		slog.Info("ws connections closed", "count", len(clients))
	}
	return len(clients)
}

// SendTo pushes a frame to userID if online. Offline users and full queues
// are soft failures: the frame is dropped and counted.
func (h *Hub) SendTo(userID, event string, data interface{}) bool {
	client, ok := h.Lookup(userID)
	if !ok {
		observability.IncWSPushDropped(event, "offline")
		return false
	}
	return push(client, event, data)
}

func push(client *Client, event string, data interface{}) bool {
	payload, err := encodeFrame(event, data)
	if err != nil {
		slog.Error("encode ws frame", "event", event, "error", err)
		return false
	}
	if ok, reason := client.enqueue(payload); !ok {
		observability.IncWSPushDropped(event, reason)
		slog.Warn("ws push dropped", "event", event, "user_id", client.UserID(), "conn_id", client.info.ConnID, "reason", reason)
		return false
	}
	return true
}
