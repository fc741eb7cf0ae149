package ws

import (
	"sync"

	"go.uber.org/zap"

	"matchchat/internal/observability"
)

// Hub maintains the room membership of active sessions. Rooms are keyed by
// the derived pair identifier and exist only while occupied.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[Session]bool
	logger *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[Session]bool),
		logger: logger,
	}
}

// Subscribe registers a session in a room.
func (h *Hub) Subscribe(roomID string, s Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[Session]bool)
	}
	h.rooms[roomID][s] = true
}

// Unsubscribe removes a session from a room, dropping the room when empty.
func (h *Hub) Unsubscribe(roomID string, s Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[roomID]; ok {
		delete(members, s)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// Broadcast sends the event to every session in the room.
func (h *Hub) Broadcast(roomID string, ev ServerEvent) {
	h.broadcast(roomID, nil, ev)
}

// BroadcastExcept sends the event to every session in the room but one,
// used for announcements the actor should not receive back.
func (h *Hub) BroadcastExcept(roomID string, except Session, ev ServerEvent) {
	h.broadcast(roomID, except, ev)
}

func (h *Hub) broadcast(roomID string, except Session, ev ServerEvent) {
	h.mu.RLock()
	members := make([]Session, 0, len(h.rooms[roomID]))
	for s := range h.rooms[roomID] {
		if s != except {
			members = append(members, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range members {
		if err := s.Send(ev); err != nil {
			h.logger.Warn("websocket write failed",
				zap.String("session_id", s.ID()),
				zap.String("event", ev.Type),
				zap.Error(err))
			s.Close()
			h.Unsubscribe(roomID, s)
			observability.IncWSEvent("ws_error")
		}
	}
}
