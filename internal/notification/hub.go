package notification

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = (pongWait * 9) / 10
	sendBacklog = 64
)

// client is one connected websocket. Every outgoing frame goes through the
// send channel so a single write pump owns the connection; the websocket
// package allows at most one concurrent writer.
type client struct {
	userID  int64
	isAdmin bool
	conn    *websocket.Conn
	send    chan []byte
}

// Hub tracks the open websocket connections, keyed by user id. Admin
// connections additionally receive the live reservation event feed.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]*client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]*client)}
}

// Register replaces any previous connection for the user and starts the write
// pump. The returned handle must be passed back to Unregister when the read
// side notices the close.
func (h *Hub) Register(userID int64, isAdmin bool, conn *websocket.Conn) *client {
	c := &client{
		userID:  userID,
		isAdmin: isAdmin,
		conn:    conn,
		send:    make(chan []byte, sendBacklog),
	}

	h.mu.Lock()
	old := h.clients[userID]
	h.clients[userID] = c
	h.mu.Unlock()

	if old != nil {
		close(old.send)
	}

	go h.writePump(c)
	return c
}

// Unregister drops the client unless a newer connection has already replaced
// it, so a lingering read loop cannot evict its successor.
func (h *Hub) Unregister(c *client) {
	h.mu.Lock()
	current, ok := h.clients[c.userID]
	if ok && current == c {
		delete(h.clients, c.userID)
		h.mu.Unlock()
		close(c.send)
		return
	}
	h.mu.Unlock()
}

// SendToUser queues a message for the user's connection. Returns false when
// the user is not connected or their backlog is full.
func (h *Hub) SendToUser(userID int64, message interface{}) bool {
	data, err := json.Marshal(message)
	if err != nil {
		return false
	}

	h.mu.RLock()
	c, ok := h.clients[userID]
	h.mu.RUnlock()
	if !ok {
		return false
	}

	return c.enqueue(data)
}

// BroadcastToAdmins pushes an event to every connected admin.
func (h *Hub) BroadcastToAdmins(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if c.isAdmin {
			c.enqueue(data)
		}
	}
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, c := range h.clients {
		close(c.send)
		delete(h.clients, userID)
	}
}

// enqueue is non-blocking: a client too slow to drain its backlog loses the
// message rather than stalling the caller.
func (c *client) enqueue(data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// writePump is the sole writer on the connection. It drains the send channel
// and keeps the peer alive with pings; a closed channel or a failed write
// closes the connection, which in turn unblocks the read loop.
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
