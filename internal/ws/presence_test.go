package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresenceConnectAndLookup(t *testing.T) {
	p := NewPresence()
	s := newFakeSession("s1")

	p.Connect("alice", s)

	got, ok := p.SessionOf("alice")
	require.True(t, ok)
	assert.Same(t, s, got.(*fakeSession))

	_, ok = p.ActivePeerOf("alice")
	assert.False(t, ok)
}

func TestPresenceReconnectOverwrites(t *testing.T) {
	p := NewPresence()
	old := newFakeSession("old")
	fresh := newFakeSession("fresh")

	p.Connect("alice", old)
	p.Join("alice", "bob")
	p.Connect("alice", fresh)

	got, ok := p.SessionOf("alice")
	require.True(t, ok)
	assert.Equal(t, "fresh", got.ID())

	// A new connection starts outside any conversation view.
	_, ok = p.ActivePeerOf("alice")
	assert.False(t, ok)
}

func TestPresenceJoinLeave(t *testing.T) {
	p := NewPresence()
	p.Connect("alice", newFakeSession("s1"))

	p.Join("alice", "bob")
	peer, ok := p.ActivePeerOf("alice")
	require.True(t, ok)
	assert.Equal(t, "bob", peer)

	p.Leave("alice")
	_, ok = p.ActivePeerOf("alice")
	assert.False(t, ok)

	// Leaving keeps the session registered.
	_, ok = p.SessionOf("alice")
	assert.True(t, ok)
}

func TestPresenceDisconnect(t *testing.T) {
	p := NewPresence()
	p.Connect("alice", newFakeSession("s1"))
	p.Join("alice", "bob")

	p.Disconnect("alice")

	_, ok := p.SessionOf("alice")
	assert.False(t, ok)
	_, ok = p.ActivePeerOf("alice")
	assert.False(t, ok)
}

func TestPresenceDisconnectIdempotent(t *testing.T) {
	p := NewPresence()
	p.Connect("alice", newFakeSession("s1"))

	p.Disconnect("alice")
	assert.NotPanics(t, func() { p.Disconnect("alice") })
	assert.NotPanics(t, func() { p.Disconnect("never-connected") })
}
