package notify

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"farmequip-backoffice/internal/domain"
	"farmequip-backoffice/internal/logger"
)

// writeWait bounds a write to one browser so a stalled client cannot hold
// up the broadcast.
const writeWait = 10 * time.Second

// Hub keeps the websocket connections of admin browsers and broadcasts
// notifications to them.
type Hub struct {
	connections map[string]*websocket.Conn
	mutex       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]*websocket.Conn),
	}
}

// Register adds conn under id, closing any previous connection with that id.
func (h *Hub) Register(id string, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if oldConn, exists := h.connections[id]; exists && oldConn != nil {
		_ = oldConn.Close()
	}
	h.connections[id] = conn
}

func (h *Hub) Unregister(id string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if conn, exists := h.connections[id]; exists && conn != nil {
		_ = conn.Close()
		delete(h.connections, id)
	}
}

func (h *Hub) Count() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.connections)
}

// Notify writes n to every connection. Connections that fail are dropped.
func (h *Hub) Notify(ctx context.Context, n domain.Notification) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for id, conn := range h.connections {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(n); err != nil {
			logger.Debug("Dropping websocket connection", "id", id, "error", err)
			_ = conn.Close()
			delete(h.connections, id)
		}
	}
}

// Serve reads from conn until the client goes away, then unregisters it.
// Clients never send anything meaningful; reading is how close frames are
// noticed.
func (h *Hub) Serve(id string, conn *websocket.Conn) {
	h.Register(id, conn)
	defer h.Unregister(id)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for id, conn := range h.connections {
		if conn != nil {
			_ = conn.Close()
		}
		delete(h.connections, id)
	}
}
