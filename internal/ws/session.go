package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds a single frame write.
	writeWait = 10 * time.Second
	// pongWait and pingPeriod follow the original deployment's heartbeat
	// timings; a connection that misses a pong for pongWait is torn down.
	pongWait   = 60 * time.Second
	pingPeriod = 25 * time.Second

	maxMessageSize = 4096
)

// Session is the transport handle for one connected client. Broadcasts and
// notifications are routed through it; tests substitute an in-memory fake.
type Session interface {
	ID() string
	Send(ev ServerEvent) error
	Close() error
}

// wsSession wraps a websocket connection with a write lock, since the hub,
// the notification path, and the ping loop all write concurrently.
type wsSession struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func newWSSession(conn *websocket.Conn) *wsSession {
	return &wsSession{id: uuid.NewString(), conn: conn}
}

func (s *wsSession) ID() string {
	return s.id
}

func (s *wsSession) Send(ev ServerEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(ev)
}

func (s *wsSession) ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (s *wsSession) Close() error {
	return s.conn.Close()
}
