package models

import "encoding/json"

// Realtime event names.
const (
	EventSendMessage       = "sendMessage"
	EventTyping            = "typing"
	EventStopTyping        = "stopTyping"
	EventReceiveMessage    = "receiveMessage"
	EventMessageSent       = "messageSent"
	EventUserTyping        = "userTyping"
	EventUserStoppedTyping = "userStoppedTyping"
	EventError             = "error"
)

// Frame is the envelope of every realtime frame in both directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// SendMessagePayload is the client's sendMessage body.
type SendMessagePayload struct {
	ReceiverID string      `json:"receiverId"`
	Content    string      `json:"content"`
	Type       MessageType `json:"type"`
}

// TypingPayload is the client's typing/stopTyping body.
type TypingPayload struct {
	ReceiverID string `json:"receiverId"`
}

// TypingNotice tells a receiver who is (or stopped) typing.
type TypingNotice struct {
	UserID string `json:"userId"`
}

// ErrorNotice is pushed back to the originating connection only.
type ErrorNotice struct {
	Message string `json:"message"`
}
