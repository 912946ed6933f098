package events

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

// Client is one registered websocket. Writes are serialized.
type Client struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *Client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(v)
}

func (c *Client) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Hub keeps at most one websocket per user. A newer connection replaces
// the older one.
type Hub struct {
	connections map[int64]*Client
	mutex       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[int64]*Client),
	}
}

func (h *Hub) Register(userID int64, ws *websocket.Conn) *Client {
	c := &Client{ws: ws}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	if old, exists := h.connections[userID]; exists && old != nil {
		_ = old.ws.Close()
	}
	h.connections[userID] = c
	return c
}

// Unregister removes c if it is still the user's current connection.
func (h *Hub) Unregister(userID int64, c *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if current, exists := h.connections[userID]; exists && current == c {
		delete(h.connections, userID)
	}
	_ = c.ws.Close()
}

func (h *Hub) SendToUser(userID int64, message any) bool {
	h.mutex.RLock()
	c, exists := h.connections[userID]
	h.mutex.RUnlock()

	if !exists || c == nil {
		return false
	}

	if err := c.writeJSON(message); err != nil {
		log.Debug().Err(err).Int64("user_id", userID).Msg("websocket write failed")
		h.Unregister(userID, c)
		return false
	}
	return true
}

// Publish implements Publisher. Duplicate and zero user ids are skipped.
func (h *Hub) Publish(ev Event, userIDs ...int64) {
	seen := make(map[int64]bool, len(userIDs))
	for _, id := range userIDs {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		h.SendToUser(id, ev)
	}
}

func (h *Hub) IsOnline(userID int64) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	_, exists := h.connections[userID]
	return exists
}

func (h *Hub) OnlineCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.connections)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for userID, c := range h.connections {
		if c != nil {
			_ = c.ws.Close()
		}
		delete(h.connections, userID)
	}
}
