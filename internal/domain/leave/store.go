package leave

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("leave request not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const requestColumns = `
    r.id, r.employee_id, r.reason, r.start_date, r.end_date, r.is_all_day,
    COALESCE(r.start_time, ''), COALESCE(r.end_time, ''), COALESCE(r.note, ''),
    r.status, r.decided_by, r.decided_at, r.created_at,
    e.first_name || ' ' || e.last_name,
    COALESCE(d.name, ''), COALESCE(d.color, '')`

func scanRequest(row pgx.Row) (Request, error) {
	var r Request
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.Reason, &r.StartDate, &r.EndDate, &r.IsAllDay,
		&r.StartTime, &r.EndTime, &r.Note,
		&r.Status, &r.DecidedBy, &r.DecidedAt, &r.CreatedAt,
		&r.EmployeeName, &r.DepartmentName, &r.DepartmentColor,
	)
	return r, err
}

func (s *Store) Create(ctx context.Context, r Request) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (employee_id, reason, start_date, end_date, is_all_day, start_time, end_time, note, status)
    VALUES ($1,$2,$3,$4,$5,NULLIF($6,''),NULLIF($7,''),NULLIF($8,''),'pending')
    RETURNING id
  `, r.EmployeeID, r.Reason, r.StartDate, r.EndDate, r.IsAllDay, r.StartTime, r.EndTime, r.Note).Scan(&id)
	return id, err
}

func (s *Store) Get(ctx context.Context, id string) (Request, error) {
	r, err := scanRequest(s.DB.QueryRow(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests r
    JOIN employees e ON r.employee_id = e.id
    LEFT JOIN departments d ON e.department_id = d.id
    WHERE r.id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrNotFound
	}
	return r, err
}

// List returns requests visible to the caller: admins pass an empty
// employeeID and see everyone's.
func (s *Store) List(ctx context.Context, employeeID string) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests r
    JOIN employees e ON r.employee_id = e.id
    LEFT JOIN departments d ON e.department_id = d.id
    WHERE ($1 = '' OR r.employee_id::text = $1)
    ORDER BY r.created_at
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func (s *Store) PendingCount(ctx context.Context) (int, error) {
	var n int
	err := s.DB.QueryRow(ctx, "SELECT count(*) FROM leave_requests WHERE status = 'pending'").Scan(&n)
	return n, err
}

// Delete removes a request only while it is still pending and belongs
// to the given employee.
func (s *Store) Delete(ctx context.Context, id, employeeID string) error {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM leave_requests
    WHERE id = $1 AND employee_id = $2 AND status = 'pending'
  `, id, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Decide settles a pending request and writes the employee's
// notification in the same transaction, so a decision can never land
// without its notification.
func (s *Store) Decide(ctx context.Context, id, deciderID, status, message string) (Request, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Request{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var employeeID string
	err = tx.QueryRow(ctx, `
    UPDATE leave_requests
    SET status = $1, decided_by = $2, decided_at = now()
    WHERE id = $3 AND status = 'pending'
    RETURNING employee_id
  `, status, deciderID, id).Scan(&employeeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrNotFound
	}
	if err != nil {
		return Request{}, err
	}

	kind := "success"
	if status == StatusRejected {
		kind = "error"
	}
	if _, err := tx.Exec(ctx, `
    INSERT INTO notifications (employee_id, message, type)
    VALUES ($1,$2,$3)
  `, employeeID, message, kind); err != nil {
		return Request{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Request{}, err
	}
	return s.Get(ctx, id)
}

// ApprovedBetween reports approved leave overlapping the window. The
// monthly cost report uses it to show leave days next to the variance.
func (s *Store) ApprovedBetween(ctx context.Context, from, toExcl time.Time) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests r
    JOIN employees e ON r.employee_id = e.id
    LEFT JOIN departments d ON e.department_id = d.id
    WHERE r.status = 'approved' AND r.start_date < $2 AND r.end_date >= $1
    ORDER BY r.start_date
  `, from, toExcl)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}
