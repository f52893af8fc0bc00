package messaging

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func at(min int) time.Time {
	return time.Date(2026, time.August, 28, 10, min, 0, 0, time.UTC)
}

func TestValidateMessage(t *testing.T) {
	if err := ValidateMessage("a", "b", "ciao"); err != nil {
		t.Fatalf("valid message rejected: %v", err)
	}
	if err := ValidateMessage("a", "a", "ciao"); !errors.Is(err, ErrSelfMessage) {
		t.Fatalf("expected ErrSelfMessage, got %v", err)
	}
	if err := ValidateMessage("a", "b", "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage for blanks, got %v", err)
	}
	if err := ValidateMessage("a", "b", strings.Repeat("x", maxMessageLength+1)); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected oversized message rejection, got %v", err)
	}
}

func TestBuildConversationsGroupsByCounterpart(t *testing.T) {
	self := "me"
	messages := []Message{
		{SenderID: self, ReceiverID: "anna", ReceiverName: "Anna", Content: "ciao", CreatedAt: at(0), Read: true},
		{SenderID: "anna", ReceiverID: self, SenderName: "Anna", Content: "ehi", CreatedAt: at(5)},
		{SenderID: "luca", ReceiverID: self, SenderName: "Luca", Content: "turno?", CreatedAt: at(10)},
		{SenderID: "luca", ReceiverID: self, SenderName: "Luca", Content: "ci sei?", CreatedAt: at(12)},
	}

	conversations := BuildConversations(messages, self)
	if len(conversations) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(conversations))
	}

	// Newest activity first.
	if conversations[0].ContactID != "luca" {
		t.Fatalf("expected luca first, got %s", conversations[0].ContactID)
	}
	if conversations[0].UnreadCount != 2 || conversations[0].LastMessage != "ci sei?" {
		t.Fatalf("unexpected luca thread %+v", conversations[0])
	}
	if conversations[1].ContactID != "anna" || conversations[1].UnreadCount != 1 {
		t.Fatalf("unexpected anna thread %+v", conversations[1])
	}
}

func TestBuildConversationsOwnMessagesNeverUnread(t *testing.T) {
	self := "me"
	messages := []Message{
		{SenderID: self, ReceiverID: "anna", Content: "ciao", CreatedAt: at(0)},
	}
	conversations := BuildConversations(messages, self)
	if conversations[0].UnreadCount != 0 {
		t.Fatalf("own unread message should not count, got %d", conversations[0].UnreadCount)
	}
}

func TestVisibleNowBoundariesInclusive(t *testing.T) {
	a := Announcement{VisibleFrom: at(0), VisibleUntil: at(30)}
	if !VisibleNow(a, at(0)) || !VisibleNow(a, at(30)) || !VisibleNow(a, at(15)) {
		t.Fatal("window boundaries should be visible")
	}
	if VisibleNow(a, at(31)) {
		t.Fatal("past window should be hidden")
	}
}
