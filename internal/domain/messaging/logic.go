package messaging

import (
	"errors"
	"sort"
	"strings"
	"time"
)

var (
	ErrEmptyMessage = errors.New("empty message")
	ErrSelfMessage  = errors.New("cannot message yourself")
)

const maxMessageLength = 2000

func ValidateMessage(senderID, receiverID, content string) error {
	if senderID == receiverID {
		return ErrSelfMessage
	}
	trimmed := strings.TrimSpace(content)
	if trimmed == "" || len(trimmed) > maxMessageLength {
		return ErrEmptyMessage
	}
	return nil
}

// BuildConversations folds a message log into one thread per
// counterpart, newest activity first. Unread counts only messages
// addressed to self.
func BuildConversations(messages []Message, selfID string) []Conversation {
	byContact := make(map[string]*Conversation)
	for _, m := range messages {
		contactID := m.SenderID
		contactName := m.SenderName
		if m.SenderID == selfID {
			contactID = m.ReceiverID
			contactName = m.ReceiverName
		}
		conv, ok := byContact[contactID]
		if !ok {
			conv = &Conversation{ContactID: contactID, ContactName: contactName}
			byContact[contactID] = conv
		}
		if m.CreatedAt.After(conv.LastAt) {
			conv.LastAt = m.CreatedAt
			conv.LastMessage = m.Content
		}
		if m.SenderID != selfID && !m.Read {
			conv.UnreadCount++
		}
	}

	conversations := make([]Conversation, 0, len(byContact))
	for _, conv := range byContact {
		conversations = append(conversations, *conv)
	}
	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].LastAt.After(conversations[j].LastAt)
	})
	return conversations
}

// VisibleNow reports whether an announcement is inside its display
// window, boundaries included.
func VisibleNow(a Announcement, now time.Time) bool {
	return !now.Before(a.VisibleFrom) && !now.After(a.VisibleUntil)
}
