package models

import "time"

// MessageType is the payload kind of a direct message.
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeFile  MessageType = "file"
)

// Valid reports whether t is one of the supported message types.
func (t MessageType) Valid() bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeFile:
		return true
	}
	return false
}

// Message is a direct message between two users. Each party hides it
// independently through its own deletion flag; rows are never removed.
type Message struct {
	ID                  string      `db:"id" json:"id"`
	SenderID            string      `db:"sender_id" json:"senderId"`
	ReceiverID          string      `db:"receiver_id" json:"receiverId"`
	Content             string      `db:"content" json:"content"`
	Type                MessageType `db:"type" json:"type"`
	IsRead              bool        `db:"is_read" json:"isRead"`
	IsEdited            bool        `db:"is_edited" json:"isEdited"`
	IsDeletedBySender   bool        `db:"is_deleted_by_sender" json:"isDeletedBySender"`
	IsDeletedByReceiver bool        `db:"is_deleted_by_receiver" json:"isDeletedByReceiver"`
	CreatedAt           time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time   `db:"updated_at" json:"updatedAt"`
}

// VisibleTo reports whether the message is still shown to userID.
func (m Message) VisibleTo(userID string) bool {
	switch userID {
	case m.SenderID:
		return !m.IsDeletedBySender
	case m.ReceiverID:
		return !m.IsDeletedByReceiver
	}
	return false
}

// Counterparty returns the other participant from userID's point of view.
func (m Message) Counterparty(userID string) string {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

// Conversation is the per-viewer summary of the latest visible message
// exchanged with one counterparty. It is derived, never stored.
type Conversation struct {
	User        UserSummary `json:"user"`
	LastMessage string      `json:"lastMessage"`
	Timestamp   time.Time   `json:"timestamp"`
}
