package notifications

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("notification not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, n Notification) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO notifications (employee_id, message, type)
    VALUES ($1,$2,$3)
    RETURNING id
  `, n.EmployeeID, n.Message, n.Type).Scan(&id)
	return id, err
}

func (s *Store) List(ctx context.Context, employeeID string, limit int) ([]Notification, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, message, type, read, created_at
    FROM notifications
    WHERE employee_id = $1
    ORDER BY created_at DESC
    LIMIT $2
  `, employeeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.EmployeeID, &n.Message, &n.Type, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

func (s *Store) UnreadCount(ctx context.Context, employeeID string) (int, error) {
	var n int
	err := s.DB.QueryRow(ctx, `
    SELECT count(*) FROM notifications WHERE employee_id = $1 AND read = false
  `, employeeID).Scan(&n)
	return n, err
}

func (s *Store) MarkRead(ctx context.Context, id, employeeID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE notifications SET read = true WHERE id = $1 AND employee_id = $2
  `, id, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) MarkAllRead(ctx context.Context, employeeID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE notifications SET read = true WHERE employee_id = $1 AND read = false
  `, employeeID)
	return err
}

func (s *Store) Clear(ctx context.Context, employeeID string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM notifications WHERE employee_id = $1", employeeID)
	return err
}
