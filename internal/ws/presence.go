package ws

import "sync"

// Presence tracks which users are connected and which peer each is actively
// viewing. It is process-local routing state only: never a source of truth,
// and reconstructed empty on restart.
//
// One session per identity: a reconnect overwrites the previous session, so
// routing always targets the most recent connection.
type Presence struct {
	mu       sync.RWMutex
	sessions map[string]Session
	viewing  map[string]string
}

// NewPresence creates an empty presence table.
func NewPresence() *Presence {
	return &Presence{
		sessions: make(map[string]Session),
		viewing:  make(map[string]string),
	}
}

// Connect registers the session for a user, replacing any previous one.
// A fresh connection starts outside any conversation view.
func (p *Presence) Connect(userID string, s Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions[userID] = s
	delete(p.viewing, userID)
}

// Join records that the user is actively viewing a chat with peerID.
func (p *Presence) Join(userID, peerID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.viewing[userID] = peerID
}

// Leave clears the active-peer record without dropping the session.
func (p *Presence) Leave(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.viewing, userID)
}

// Disconnect removes both records. Safe to call for unknown users.
func (p *Presence) Disconnect(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.sessions, userID)
	delete(p.viewing, userID)
}

// SessionOf returns the user's live session, if any.
func (p *Presence) SessionOf(userID string) (Session, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.sessions[userID]
	return s, ok
}

// ActivePeerOf returns the peer the user is currently viewing, if any.
func (p *Presence) ActivePeerOf(userID string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	peer, ok := p.viewing[userID]
	return peer, ok
}
