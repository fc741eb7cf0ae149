package ws

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"matchchat/internal/models"
	"matchchat/internal/observability"
	"matchchat/internal/rabbitmq"
	"matchchat/internal/rooms"
)

// eventTimeout bounds the persistence and authorization calls made while
// handling a single client event.
const eventTimeout = 10 * time.Second

// client drives the protocol state machine for one authenticated connection.
// Events for a connection are dispatched serially by its read loop, so the
// currentPeer/currentRoom fields need no locking; everything shared across
// connections (hub, presence, stores) synchronizes internally.
//
// The identity captured at handshake time is the only identity this
// connection may act as. Every event re-validates its userId field against
// it: the transport multiplexes many actions over one socket, and a payload
// field is client-controlled.
type client struct {
	h        *SocketHandler
	session  Session
	identity models.Identity

	currentPeer string
	currentRoom string
}

func (c *client) handle(ctx context.Context, raw []byte) {
	var ev ClientEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		c.send(errorEvent(CodeInvalidPayload, "malformed event"))
		return
	}

	observability.IncWSEvent(ev.Type)

	switch ev.Type {
	case EventJoinChat:
		c.handleJoin(ctx, ev.Data)
	case EventSendMessage:
		c.handleSend(ctx, ev.Data)
	case EventLeaveChat:
		c.handleLeave(ev.Data)
	default:
		c.send(errorEvent(CodeInvalidPayload, "unknown event type"))
	}
}

func (c *client) handleJoin(ctx context.Context, data json.RawMessage) {
	var p JoinChatPayload
	if err := json.Unmarshal(data, &p); err != nil || p.TargetUserID == "" {
		c.send(errorEvent(CodeInvalidPayload, "missing target user"))
		return
	}
	if p.UserID != c.identity.ID {
		c.send(errorEvent(CodeNotAuthorized, "unauthorized access to chat room"))
		return
	}

	roomID, err := rooms.ID(c.identity.ID, p.TargetUserID)
	if err != nil {
		c.send(errorEvent(CodeInvalidPayload, "invalid user ids"))
		return
	}

	// Switching peers implies leaving the previous room first; a session is
	// in at most one room, mirroring the single active-peer presence record.
	if c.currentRoom != "" && c.currentRoom != roomID {
		c.h.hub.Unsubscribe(c.currentRoom, c.session)
	}

	c.h.hub.Subscribe(roomID, c.session)
	c.h.presence.Join(c.identity.ID, p.TargetUserID)
	c.currentRoom = roomID
	c.currentPeer = p.TargetUserID

	c.h.hub.BroadcastExcept(roomID, c.session, ServerEvent{
		Type: EventUserJoined,
		Data: UserJoinedPayload{UserID: c.identity.ID, FirstName: c.identity.FirstName},
	})

	ctx, cancel := context.WithTimeout(ctx, eventTimeout)
	defer cancel()

	history, err := c.h.chats.History(ctx, c.identity.ID, p.TargetUserID)
	if err != nil {
		c.h.logger.Error("load chat history failed",
			zap.String("user_id", c.identity.ID),
			zap.String("peer_id", p.TargetUserID),
			zap.Error(err))
		c.send(errorEvent(CodeHistoryFailed, "failed to load chat history"))
		return
	}

	views := make([]MessageView, 0, len(history))
	for _, msg := range history {
		views = append(views, viewOf(msg))
	}
	c.send(ServerEvent{Type: EventChatHistory, Data: views})
}

func (c *client) handleSend(ctx context.Context, data json.RawMessage) {
	var p SendMessagePayload
	if err := json.Unmarshal(data, &p); err != nil || p.TargetUserID == "" || p.Text == "" {
		c.send(errorEvent(CodeInvalidPayload, "missing target user or text"))
		return
	}
	if p.UserID != c.identity.ID {
		c.send(errorEvent(CodeNotAuthorized, "unauthorized message sending"))
		return
	}

	ctx, span := otel.Tracer("matchchat/ws").Start(ctx, "ws.send_message")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, eventTimeout)
	defer cancel()

	// The accepted edge is checked on every send. It can be revoked at any
	// moment, so the result is never cached across messages.
	connected, err := c.h.connections.HasAcceptedConnection(ctx, c.identity.ID, p.TargetUserID)
	if err != nil {
		c.h.logger.Error("connection check failed",
			zap.String("user_id", c.identity.ID),
			zap.String("peer_id", p.TargetUserID),
			zap.Error(err))
		c.send(errorEvent(CodeSendFailed, "failed to send message"))
		return
	}
	if !connected {
		c.send(errorEvent(CodeNotAuthorized, "you are not connected with this user"))
		return
	}

	msg, err := c.h.chats.AppendMessage(ctx, c.identity.ID, p.TargetUserID, c.identity, p.Text)
	if err != nil {
		observability.IncMessagePersistFailure()
		c.h.logger.Error("persist message failed",
			zap.String("user_id", c.identity.ID),
			zap.String("peer_id", p.TargetUserID),
			zap.Error(err))
		c.send(errorEvent(CodeSendFailed, "failed to send message"))
		return
	}
	observability.IncMessagePersisted()

	roomID, err := rooms.ID(c.identity.ID, p.TargetUserID)
	if err != nil {
		c.send(errorEvent(CodeInvalidPayload, "invalid user ids"))
		return
	}

	// Broadcast strictly after the append returned: the echoed payload is the
	// durable row, not the client's optimistic copy.
	view := viewOf(msg)
	c.h.hub.Broadcast(roomID, ServerEvent{Type: EventReceivedMessage, Data: view})

	// Route a notification only to a peer who is online but looking at some
	// other conversation. A peer viewing this chat already got the broadcast.
	if peerSession, online := c.h.presence.SessionOf(p.TargetUserID); online {
		if active, _ := c.h.presence.ActivePeerOf(p.TargetUserID); active != c.identity.ID {
			notification := view
			notification.Notification = true
			if err := peerSession.Send(ServerEvent{Type: EventMessageNotification, Data: notification}); err != nil {
				c.h.logger.Warn("notification delivery failed",
					zap.String("peer_id", p.TargetUserID),
					zap.Error(err))
			} else {
				observability.IncNotificationSent()
			}
		}
	}

	_ = c.h.publisher.Publish(ctx, "chat_events.messages", rabbitmq.NewEnvelope("chat_events", "message_sent", map[string]any{
		"sender_id": c.identity.ID,
		"target_id": p.TargetUserID,
	}))
}

func (c *client) handleLeave(data json.RawMessage) {
	var p LeaveChatPayload
	if err := json.Unmarshal(data, &p); err != nil || p.TargetUserID == "" {
		c.send(errorEvent(CodeInvalidPayload, "missing target user"))
		return
	}
	if p.UserID != c.identity.ID {
		c.send(errorEvent(CodeNotAuthorized, "unauthorized action"))
		return
	}

	roomID, err := rooms.ID(c.identity.ID, p.TargetUserID)
	if err != nil {
		c.send(errorEvent(CodeInvalidPayload, "invalid user ids"))
		return
	}

	c.h.hub.Unsubscribe(roomID, c.session)
	c.h.presence.Leave(c.identity.ID)
	if c.currentRoom == roomID {
		c.currentRoom = ""
		c.currentPeer = ""
	}
}

// disconnect runs the terminal transition. It is idempotent and must run even
// when the read loop exits mid-failure.
func (c *client) disconnect(ctx context.Context) {
	c.h.presence.Disconnect(c.identity.ID)
	if c.currentRoom != "" {
		c.h.hub.Unsubscribe(c.currentRoom, c.session)
		c.currentRoom = ""
		c.currentPeer = ""
	}

	observability.DecWSActive()
	observability.IncWSEvent("ws_disconnect")
	_ = c.h.publisher.Publish(ctx, "ws_events.chats", rabbitmq.NewEnvelope("ws_events", "ws_disconnect", map[string]any{
		"user_id":    c.identity.ID,
		"session_id": c.session.ID(),
	}))
}

func (c *client) send(ev ServerEvent) {
	if err := c.session.Send(ev); err != nil {
		c.h.logger.Warn("websocket write failed",
			zap.String("session_id", c.session.ID()),
			zap.String("event", ev.Type),
			zap.Error(err))
	}
}
