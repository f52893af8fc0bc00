package messaging

import (
	"context"
	"errors"
	"time"
)

var ErrWindowInverted = errors.New("visibility window inverted")

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) Send(ctx context.Context, senderID, receiverID, content string) (Message, error) {
	if err := ValidateMessage(senderID, receiverID, content); err != nil {
		return Message{}, err
	}
	return s.Store.CreateMessage(ctx, senderID, receiverID, content)
}

func (s *Service) Conversations(ctx context.Context, employeeID string) ([]Conversation, error) {
	messages, err := s.Store.AllFor(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return BuildConversations(messages, employeeID), nil
}

// OpenThread returns the history with a contact and marks their
// messages read, mirroring what opening the chat does.
func (s *Service) OpenThread(ctx context.Context, employeeID, contactID string) ([]Message, error) {
	messages, err := s.Store.Thread(ctx, employeeID, contactID)
	if err != nil {
		return nil, err
	}
	if err := s.Store.MarkThreadRead(ctx, employeeID, contactID); err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *Service) UnreadCount(ctx context.Context, employeeID string) (int, error) {
	return s.Store.UnreadCount(ctx, employeeID)
}

func (s *Service) AuditLog(ctx context.Context, limit int) ([]Message, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.Store.AuditLog(ctx, limit)
}

func (s *Service) Publish(ctx context.Context, a Announcement) (Announcement, error) {
	if a.VisibleUntil.Before(a.VisibleFrom) {
		return Announcement{}, ErrWindowInverted
	}
	id, err := s.Store.CreateAnnouncement(ctx, a)
	if err != nil {
		return Announcement{}, err
	}
	a.ID = id
	return a, nil
}

func (s *Service) Board(ctx context.Context, employeeID string) ([]Announcement, error) {
	return s.Store.VisibleAnnouncements(ctx, employeeID, time.Now())
}

func (s *Service) AllAnnouncements(ctx context.Context) ([]Announcement, error) {
	return s.Store.ListAnnouncements(ctx)
}

func (s *Service) DeleteAnnouncement(ctx context.Context, id string) error {
	return s.Store.DeleteAnnouncement(ctx, id)
}

func (s *Service) MarkAnnouncementRead(ctx context.Context, announcementID, employeeID string) error {
	return s.Store.MarkAnnouncementRead(ctx, announcementID, employeeID)
}
