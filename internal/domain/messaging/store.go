package messaging

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateMessage(ctx context.Context, senderID, receiverID, content string) (Message, error) {
	var m Message
	err := s.DB.QueryRow(ctx, `
    INSERT INTO direct_messages (sender_id, receiver_id, content)
    VALUES ($1,$2,$3)
    RETURNING id, sender_id, receiver_id, content, is_read, created_at
  `, senderID, receiverID, content).Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.Read, &m.CreatedAt)
	return m, err
}

// AllFor returns every message the employee sent or received, with
// counterpart names resolved.
func (s *Store) AllFor(ctx context.Context, employeeID string) ([]Message, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT m.id, m.sender_id, m.receiver_id, m.content, m.is_read, m.created_at,
           se.first_name || ' ' || se.last_name,
           re.first_name || ' ' || re.last_name
    FROM direct_messages m
    JOIN employees se ON m.sender_id = se.id
    JOIN employees re ON m.receiver_id = re.id
    WHERE m.sender_id::text = $1 OR m.receiver_id::text = $1
    ORDER BY m.created_at
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

// Thread returns the two-way history between the employee and one
// counterpart, oldest first.
func (s *Store) Thread(ctx context.Context, employeeID, contactID string) ([]Message, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT m.id, m.sender_id, m.receiver_id, m.content, m.is_read, m.created_at,
           se.first_name || ' ' || se.last_name,
           re.first_name || ' ' || re.last_name
    FROM direct_messages m
    JOIN employees se ON m.sender_id = se.id
    JOIN employees re ON m.receiver_id = re.id
    WHERE (m.sender_id::text = $1 AND m.receiver_id::text = $2)
       OR (m.sender_id::text = $2 AND m.receiver_id::text = $1)
    ORDER BY m.created_at
  `, employeeID, contactID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

func collectMessages(rows pgx.Rows) ([]Message, error) {
	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.Read, &m.CreatedAt,
			&m.SenderName, &m.ReceiverName); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// MarkThreadRead flags every message from the contact to the employee
// as read, the action of opening the thread.
func (s *Store) MarkThreadRead(ctx context.Context, employeeID, contactID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE direct_messages SET is_read = true
    WHERE sender_id::text = $2 AND receiver_id::text = $1 AND is_read = false
  `, employeeID, contactID)
	return err
}

func (s *Store) UnreadCount(ctx context.Context, employeeID string) (int, error) {
	var n int
	err := s.DB.QueryRow(ctx, `
    SELECT count(*) FROM direct_messages WHERE receiver_id::text = $1 AND is_read = false
  `, employeeID).Scan(&n)
	return n, err
}

// AuditLog lists recent messages across all threads for the admin
// monitoring view.
func (s *Store) AuditLog(ctx context.Context, limit int) ([]Message, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT m.id, m.sender_id, m.receiver_id, m.content, m.is_read, m.created_at,
           se.first_name || ' ' || se.last_name,
           re.first_name || ' ' || re.last_name
    FROM direct_messages m
    JOIN employees se ON m.sender_id = se.id
    JOIN employees re ON m.receiver_id = re.id
    ORDER BY m.created_at DESC
    LIMIT $1
  `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

func (s *Store) CreateAnnouncement(ctx context.Context, a Announcement) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO announcements (content, visible_from, visible_until, created_by)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, a.Content, a.VisibleFrom, a.VisibleUntil, a.CreatedBy).Scan(&id)
	return id, err
}

// VisibleAnnouncements returns announcements inside their window, with
// the employee's read state resolved, newest first.
func (s *Store) VisibleAnnouncements(ctx context.Context, employeeID string, now time.Time) ([]Announcement, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT a.id, a.content, a.visible_from, a.visible_until, COALESCE(a.created_by::text, ''), a.created_at,
           r.announcement_id IS NOT NULL
    FROM announcements a
    LEFT JOIN announcement_reads r
      ON r.announcement_id = a.id AND r.employee_id::text = $1
    WHERE a.visible_from <= $2 AND a.visible_until >= $2
    ORDER BY a.created_at DESC
  `, employeeID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Announcement
	for rows.Next() {
		var a Announcement
		if err := rows.Scan(&a.ID, &a.Content, &a.VisibleFrom, &a.VisibleUntil, &a.CreatedBy, &a.CreatedAt, &a.Read); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (s *Store) ListAnnouncements(ctx context.Context) ([]Announcement, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, content, visible_from, visible_until, COALESCE(created_by::text, ''), created_at
    FROM announcements
    ORDER BY created_at DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Announcement
	for rows.Next() {
		var a Announcement
		if err := rows.Scan(&a.ID, &a.Content, &a.VisibleFrom, &a.VisibleUntil, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (s *Store) DeleteAnnouncement(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM announcements WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAnnouncementRead is append-only; reading twice is a no-op.
func (s *Store) MarkAnnouncementRead(ctx context.Context, announcementID, employeeID string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO announcement_reads (announcement_id, employee_id)
    VALUES ($1,$2)
    ON CONFLICT DO NOTHING
  `, announcementID, employeeID)
	return err
}
