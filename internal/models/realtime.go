package models

import "time"

// Wire protocol for the live chat connection. Inbound frames carry a control
// action; outbound frames carry an event or a structured error.

// Inbound actions.
const (
	ActionSubscribe   = "subscribe"
	ActionUnsubscribe = "unsubscribe"
	ActionTyping      = "typing"
)

// Outbound event names.
const (
	EventMessageCreated = "message_created"
	EventUserTyping     = "user_typing"
	EventError          = "error"
)

// Error codes reported on the connection without closing it.
const (
	CodeInvalidJSON   = "INVALID_JSON"
	CodeMissingRoomID = "MISSING_ROOM_ID"
	CodeInvalidRoomID = "INVALID_ROOM_ID"
	CodeForbidden     = "FORBIDDEN"
	CodeUnknownAction = "UNKNOWN_ACTION"
)

// ClientFrame is one inbound control message.
type ClientFrame struct {
	Action string `json:"action"`
	RoomID string `json:"room_id"`
	Typing bool   `json:"typing,omitempty"`
}

// ServerEvent is one outbound frame. Code and Message are set only for
// "error" events; RoomID and Payload only for room events.
type ServerEvent struct {
	Event   string `json:"event"`
	RoomID  string `json:"room_id,omitempty"`
	Payload any    `json:"payload,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorEvent builds an "error" frame.
func ErrorEvent(code, message string) ServerEvent {
	return ServerEvent{Event: EventError, Code: code, Message: message}
}

// MessagePayload is the body of a message_created event and the REST message
// representation.
type MessagePayload struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	QuoteID   *string   `json:"quote_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMessagePayload serializes a persisted message for broadcast and REST.
func NewMessagePayload(m *ChatMessage) MessagePayload {
	return MessagePayload{
		ID:        m.ID,
		RoomID:    m.RoomID,
		UserID:    m.UserID,
		Content:   m.Content,
		QuoteID:   m.QuoteID,
		CreatedAt: m.CreatedAt,
	}
}

// TypingPayload is the body of a user_typing event.
type TypingPayload struct {
	UserID string `json:"user_id"`
	Typing bool   `json:"typing"`
}
