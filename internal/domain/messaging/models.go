package messaging

import "time"

type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Content    string    `json:"content"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"createdAt"`

	SenderName   string `json:"senderName,omitempty"`
	ReceiverName string `json:"receiverName,omitempty"`
}

// Conversation is derived from the message log: one entry per
// counterpart, newest first.
type Conversation struct {
	ContactID   string    `json:"contactId"`
	ContactName string    `json:"contactName"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	LastMessage string    `json:"lastMessage,omitempty"`
	LastAt      time.Time `json:"lastAt"`
	UnreadCount int       `json:"unreadCount"`
}

type Announcement struct {
	ID           string    `json:"id"`
	Content      string    `json:"content"`
	VisibleFrom  time.Time `json:"visibleFrom"`
	VisibleUntil time.Time `json:"visibleUntil"`
	CreatedBy    string    `json:"createdBy,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	Read         bool      `json:"read"`
}
