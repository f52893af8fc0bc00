package timeclock

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("time entry not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const entryColumns = `id, employee_id, clock_in, clock_out, break_start, break_end, auto_closed, created_at`

func scanEntry(row pgx.Row) (Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.EmployeeID, &e.ClockIn, &e.ClockOut, &e.BreakStart, &e.BreakEnd, &e.AutoClosed, &e.CreatedAt)
	return e, err
}

// Open returns the employee's open entry, if any.
func (s *Store) Open(ctx context.Context, employeeID string) (Entry, error) {
	e, err := scanEntry(s.DB.QueryRow(ctx, `
    SELECT `+entryColumns+`
    FROM time_entries
    WHERE employee_id = $1 AND clock_out IS NULL
  `, employeeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

// ClockIn opens a new entry. The partial unique index on open entries
// arbitrates concurrent punches: the loser gets ErrAlreadyClockedIn.
func (s *Store) ClockIn(ctx context.Context, employeeID string) (Entry, error) {
	e, err := scanEntry(s.DB.QueryRow(ctx, `
    INSERT INTO time_entries (employee_id)
    VALUES ($1)
    RETURNING `+entryColumns+`
  `, employeeID))
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return Entry{}, ErrAlreadyClockedIn
	}
	return e, err
}

func (s *Store) ClockOut(ctx context.Context, employeeID string, at time.Time) (Entry, error) {
	e, err := scanEntry(s.DB.QueryRow(ctx, `
    UPDATE time_entries
    SET clock_out = $2,
        break_end = CASE WHEN break_start IS NOT NULL AND break_end IS NULL THEN $2 ELSE break_end END
    WHERE employee_id = $1 AND clock_out IS NULL
    RETURNING `+entryColumns+`
  `, employeeID, at))
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, ErrNotClockedIn
	}
	return e, err
}

func (s *Store) SetBreakStart(ctx context.Context, entryID string, at time.Time) (Entry, error) {
	e, err := scanEntry(s.DB.QueryRow(ctx, `
    UPDATE time_entries SET break_start = $2
    WHERE id = $1 AND break_start IS NULL
    RETURNING `+entryColumns+`
  `, entryID, at))
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

func (s *Store) SetBreakEnd(ctx context.Context, entryID string, at time.Time) (Entry, error) {
	e, err := scanEntry(s.DB.QueryRow(ctx, `
    UPDATE time_entries SET break_end = $2
    WHERE id = $1 AND break_start IS NOT NULL AND break_end IS NULL
    RETURNING `+entryColumns+`
  `, entryID, at))
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

// ListRange returns closed and open entries overlapping the window, for
// one employee or, with an empty employeeID, the whole staff.
func (s *Store) ListRange(ctx context.Context, employeeID string, from, toExcl time.Time) ([]Entry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT t.id, t.employee_id, t.clock_in, t.clock_out, t.break_start, t.break_end, t.auto_closed, t.created_at,
           e.first_name || ' ' || e.last_name
    FROM time_entries t
    JOIN employees e ON t.employee_id = e.id
    WHERE ($1 = '' OR t.employee_id::text = $1)
      AND t.clock_in < $3 AND (t.clock_out IS NULL OR t.clock_out > $2)
    ORDER BY t.clock_in
  `, employeeID, from, toExcl)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.EmployeeID, &e.ClockIn, &e.ClockOut, &e.BreakStart, &e.BreakEnd,
			&e.AutoClosed, &e.CreatedAt, &e.EmployeeName); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) InsertLog(ctx context.Context, l Log) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO employee_logs (employee_id, action_type, latitude, longitude)
    VALUES ($1,$2,$3,$4)
  `, l.EmployeeID, l.ActionType, l.Latitude, l.Longitude)
	return err
}

func (s *Store) ListLogs(ctx context.Context, employeeID string, limit int) ([]Log, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT l.id, l.employee_id, l.action_type, l.latitude, l.longitude, l.created_at,
           e.first_name || ' ' || e.last_name
    FROM employee_logs l
    JOIN employees e ON l.employee_id = e.id
    WHERE ($1 = '' OR l.employee_id::text = $1)
    ORDER BY l.created_at DESC
    LIMIT $2
  `, employeeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []Log
	for rows.Next() {
		var l Log
		if err := rows.Scan(&l.ID, &l.EmployeeID, &l.ActionType, &l.Latitude, &l.Longitude, &l.CreatedAt, &l.EmployeeName); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
