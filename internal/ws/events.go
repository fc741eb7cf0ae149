package ws

import (
	"encoding/json"
	"strconv"
	"time"

	"matchchat/internal/models"
)

// Client → server event names.
const (
	EventJoinChat    = "joinChat"
	EventSendMessage = "sendMessage"
	EventLeaveChat   = "leaveChat"
)

// Server → client event names.
const (
	EventChatHistory         = "chatHistory"
	EventUserJoined          = "userJoined"
	EventReceivedMessage     = "receivedMessage"
	EventMessageNotification = "messageNotification"
	EventError               = "error"
)

// Error codes let clients distinguish "log in again" from "you are not
// allowed" from "your message did not go through".
const (
	CodeAuthRequired   = "AUTH_REQUIRED"
	CodeNotAuthorized  = "NOT_AUTHORIZED"
	CodeSendFailed     = "SEND_FAILED"
	CodeHistoryFailed  = "HISTORY_FAILED"
	CodeInvalidPayload = "INVALID_PAYLOAD"
)

// ClientEvent is the tagged envelope for every inbound frame. Payloads are
// decoded and validated per event type before any state machine transition.
type ClientEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ServerEvent is the tagged envelope for every outbound frame.
type ServerEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// JoinChatPayload opens a conversation view with a peer.
type JoinChatPayload struct {
	UserID       string `json:"userId"`
	TargetUserID string `json:"targetUserId"`
	FirstName    string `json:"firstName"`
}

// SendMessagePayload carries one outbound message.
type SendMessagePayload struct {
	UserID       string `json:"userId"`
	TargetUserID string `json:"targetUserId"`
	FirstName    string `json:"firstName"`
	Text         string `json:"text"`
}

// LeaveChatPayload closes the conversation view.
type LeaveChatPayload struct {
	UserID       string `json:"userId"`
	TargetUserID string `json:"targetUserId"`
}

// ErrorPayload is sent on any rejected or failed action.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SenderRef is the denormalized sender displayed next to a message.
type SenderRef struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
}

// MessageView is the wire shape of a message, used for history entries,
// broadcasts, and notifications alike.
type MessageView struct {
	SenderID     SenderRef `json:"senderId"`
	Text         string    `json:"text"`
	ID           string    `json:"_id"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Notification bool      `json:"notification,omitempty"`
}

// UserJoinedPayload announces a peer's arrival to the room.
type UserJoinedPayload struct {
	UserID    string `json:"userId"`
	FirstName string `json:"firstName"`
}

func viewOf(msg models.Message) MessageView {
	return MessageView{
		SenderID:  SenderRef{ID: msg.SenderID, FirstName: msg.SenderFirstName},
		Text:      msg.Text,
		ID:        strconv.FormatInt(msg.ID, 10),
		CreatedAt: msg.CreatedAt,
		UpdatedAt: msg.UpdatedAt,
	}
}

func errorEvent(code, message string) ServerEvent {
	return ServerEvent{Type: EventError, Data: ErrorPayload{Code: code, Message: message}}
}
