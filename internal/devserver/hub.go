package devserver

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// ChangeEvent is the realtime notification: a table changed for the
// receiving user. No row data travels here; clients refetch.
type ChangeEvent struct {
	Table string `json:"table"`
}

// Hub keeps one change-feed connection per user id. A new connection
// for the same user replaces (and closes) the previous one.
type Hub struct {
	mu     sync.RWMutex
	conns  map[string]*websocket.Conn
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{conns: make(map[string]*websocket.Conn), logger: logger}
}

func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	if existing, ok := h.conns[userID]; ok {
		existing.Close()
	}
	h.conns[userID] = conn
	h.mu.Unlock()
	h.logger.Info("change feed opened", "user_id", userID)
}

func (h *Hub) Unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	if current, ok := h.conns[userID]; ok && current == conn {
		current.Close()
		delete(h.conns, userID)
	}
	h.mu.Unlock()
	h.logger.Info("change feed closed", "user_id", userID)
}

// Notify pushes one change event to each listed user that is connected.
// Disconnected users simply miss the signal; polling covers them.
func (h *Hub) Notify(table string, userIDs ...string) {
	payload, err := json.Marshal(ChangeEvent{Table: table})
	if err != nil {
		return
	}
	for _, userID := range userIDs {
		h.mu.RLock()
		conn, ok := h.conns[userID]
		h.mu.RUnlock()
		if !ok {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.Warn("change feed write failed", "user_id", userID, "error", err)
			h.Unregister(userID, conn)
		}
	}
}
