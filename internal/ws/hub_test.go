package ws

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHubSubscribeAndUnsubscribe(t *testing.T) {
	hub := NewHub(zap.NewNop())
	s := newFakeSession("s1")

	hub.Subscribe("room-1", s)
	assert.Len(t, hub.rooms, 1)

	hub.Unsubscribe("room-1", s)
	assert.Len(t, hub.rooms, 0)
}

func TestHubBroadcastReachesAllMembers(t *testing.T) {
	hub := NewHub(zap.NewNop())
	a := newFakeSession("a")
	b := newFakeSession("b")
	hub.Subscribe("room-1", a)
	hub.Subscribe("room-1", b)

	hub.Broadcast("room-1", ServerEvent{Type: EventReceivedMessage, Data: "hi"})

	require.Len(t, a.sent(), 1)
	require.Len(t, b.sent(), 1)
}

func TestHubBroadcastExceptSkipsSender(t *testing.T) {
	hub := NewHub(zap.NewNop())
	a := newFakeSession("a")
	b := newFakeSession("b")
	hub.Subscribe("room-1", a)
	hub.Subscribe("room-1", b)

	hub.BroadcastExcept("room-1", a, ServerEvent{Type: EventUserJoined})

	assert.Empty(t, a.sent())
	require.Len(t, b.sent(), 1)
	assert.Equal(t, EventUserJoined, b.sent()[0].Type)
}

func TestHubBroadcastIsScopedToRoom(t *testing.T) {
	hub := NewHub(zap.NewNop())
	a := newFakeSession("a")
	b := newFakeSession("b")
	hub.Subscribe("room-1", a)
	hub.Subscribe("room-2", b)

	hub.Broadcast("room-1", ServerEvent{Type: EventReceivedMessage})

	require.Len(t, a.sent(), 1)
	assert.Empty(t, b.sent())
}

func TestHubEvictsFailingSession(t *testing.T) {
	hub := NewHub(zap.NewNop())
	broken := newFakeSession("broken")
	broken.sendErr = errors.New("write: broken pipe")
	healthy := newFakeSession("healthy")
	hub.Subscribe("room-1", broken)
	hub.Subscribe("room-1", healthy)

	hub.Broadcast("room-1", ServerEvent{Type: EventReceivedMessage})

	assert.True(t, broken.closed)
	require.Len(t, healthy.sent(), 1)

	hub.mu.RLock()
	_, stillMember := hub.rooms["room-1"][broken]
	hub.mu.RUnlock()
	assert.False(t, stillMember)
}
