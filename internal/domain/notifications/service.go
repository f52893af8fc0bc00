package notifications

import (
	"context"
	"log/slog"

	"turno/internal/platform/config"
)

type Service struct {
	Store  *Store
	Mailer Mailer
	Cfg    config.Config
}

func NewService(store *Store, mailer Mailer, cfg config.Config) *Service {
	return &Service{Store: store, Mailer: mailer, Cfg: cfg}
}

// Notify records an in-app notification and, when an address is known,
// mirrors it by email. Email failures are logged and swallowed.
func (s *Service) Notify(ctx context.Context, employeeID, message, kind, email string) error {
	if kind == "" {
		kind = TypeInfo
	}
	if _, err := s.Store.Create(ctx, Notification{EmployeeID: employeeID, Message: message, Type: kind}); err != nil {
		return err
	}
	if email != "" {
		if err := s.Mailer.Send(ctx, s.Cfg.EmailFrom, email, "Turno", message); err != nil {
			slog.Warn("notification email failed", "employeeId", employeeID, "error", err)
		}
	}
	return nil
}

func (s *Service) List(ctx context.Context, employeeID string, limit int) ([]Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	return s.Store.List(ctx, employeeID, limit)
}

func (s *Service) UnreadCount(ctx context.Context, employeeID string) (int, error) {
	return s.Store.UnreadCount(ctx, employeeID)
}

func (s *Service) MarkRead(ctx context.Context, id, employeeID string) error {
	return s.Store.MarkRead(ctx, id, employeeID)
}

func (s *Service) MarkAllRead(ctx context.Context, employeeID string) error {
	return s.Store.MarkAllRead(ctx, employeeID)
}

func (s *Service) Clear(ctx context.Context, employeeID string) error {
	return s.Store.Clear(ctx, employeeID)
}
