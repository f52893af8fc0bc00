package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("shift not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const shiftColumns = `
    s.id, s.employee_id, s.start_at, s.end_at, s.note, s.published, s.created_at,
    e.first_name, e.last_name, e.role_label, e.hourly_rate, e.birth_date, e.avatar_url,
    COALESCE(d.id::text, ''), COALESCE(d.name, ''), COALESCE(d.color, '')`

func scanShift(row pgx.Row) (Shift, error) {
	var s Shift
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.Start, &s.End, &s.Note, &s.Published, &s.CreatedAt,
		&s.Employee.FirstName, &s.Employee.LastName, &s.Employee.RoleLabel,
		&s.Employee.HourlyRate, &s.Employee.BirthDate, &s.Employee.AvatarURL,
		&s.Employee.DepartmentID, &s.Employee.DepartmentName, &s.Employee.DepartmentColor,
	)
	return s, err
}

// ListRange returns shifts whose interval intersects [from, toExcl),
// joined with their employee and department.
func (s *Store) ListRange(ctx context.Context, from, toExcl time.Time) ([]Shift, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+shiftColumns+`
    FROM shifts s
    JOIN employees e ON s.employee_id = e.id
    LEFT JOIN departments d ON e.department_id = d.id
    WHERE s.start_at < $2 AND s.end_at > $1
    ORDER BY s.start_at
  `, from, toExcl)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []Shift
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}
	return shifts, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Shift, error) {
	shift, err := scanShift(s.DB.QueryRow(ctx, `
    SELECT `+shiftColumns+`
    FROM shifts s
    JOIN employees e ON s.employee_id = e.id
    LEFT JOIN departments d ON e.department_id = d.id
    WHERE s.id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Shift{}, ErrNotFound
	}
	return shift, err
}

func (s *Store) Create(ctx context.Context, employeeID string, start, end time.Time, note string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO shifts (employee_id, start_at, end_at, note, published)
    VALUES ($1,$2,$3,$4,false)
    RETURNING id
  `, employeeID, start, end, note).Scan(&id)
	return id, err
}

// Update edits times and note; the published flag is deliberately left
// untouched.
func (s *Store) Update(ctx context.Context, id, employeeID string, start, end time.Time, note string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE shifts
    SET employee_id = $1, start_at = $2, end_at = $3, note = $4
    WHERE id = $5
  `, employeeID, start, end, note, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdateTimes(ctx context.Context, id string, start, end time.Time) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE shifts SET start_at = $1, end_at = $2 WHERE id = $3
  `, start, end, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM shifts WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// PublishRange flips every draft shift in [from, toExcl) to published.
func (s *Store) PublishRange(ctx context.Context, from, toExcl time.Time) (int64, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE shifts
    SET published = true
    WHERE published = false AND start_at >= $1 AND start_at < $2
  `, from, toExcl)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ApprovedLeaves returns approved leave intervals overlapping [from, toExcl).
func (s *Store) ApprovedLeaves(ctx context.Context, from, toExcl time.Time) ([]LeaveInterval, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT employee_id, start_date, end_date
    FROM leave_requests
    WHERE status = 'approved' AND start_date < $2 AND end_date >= $1
  `, from, toExcl)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leaves []LeaveInterval
	for rows.Next() {
		var l LeaveInterval
		if err := rows.Scan(&l.EmployeeID, &l.Start, &l.End); err != nil {
			return nil, err
		}
		leaves = append(leaves, l)
	}
	return leaves, rows.Err()
}

func (s *Store) ClosurePeriods(ctx context.Context, from, toExcl time.Time) ([]ClosurePeriod, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, description, type, start_date, end_date
    FROM company_periods
    WHERE start_date < $2 AND end_date >= $1
    ORDER BY start_date
  `, from, toExcl)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []ClosurePeriod
	for rows.Next() {
		var p ClosurePeriod
		if err := rows.Scan(&p.ID, &p.Description, &p.Type, &p.StartDate, &p.EndDate); err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

func (s *Store) ListTemplates(ctx context.Context) ([]Template, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, start_time, end_time
    FROM shift_templates
    ORDER BY start_time, name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []Template
	for rows.Next() {
		var t Template
		if err := rows.Scan(&t.ID, &t.Name, &t.StartTime, &t.EndTime); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (s *Store) CreateTemplate(ctx context.Context, t Template) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO shift_templates (name, start_time, end_time)
    VALUES ($1,$2,$3)
    RETURNING id
  `, t.Name, t.StartTime, t.EndTime).Scan(&id)
	return id, err
}

func (s *Store) UpdateTemplate(ctx context.Context, t Template) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE shift_templates SET name = $1, start_time = $2, end_time = $3 WHERE id = $4
  `, t.Name, t.StartTime, t.EndTime, t.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTemplate(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM shift_templates WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CreateSwap(ctx context.Context, shiftID, requesterID string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO shift_swaps (shift_id, requester_id, status)
    VALUES ($1,$2,'pending')
    RETURNING id
  `, shiftID, requesterID).Scan(&id)
	return id, err
}

func (s *Store) ListSwaps(ctx context.Context, status string) ([]Swap, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT w.id, w.shift_id, w.requester_id, w.status, w.created_at,
           s.start_at, s.end_at,
           e.first_name || ' ' || e.last_name
    FROM shift_swaps w
    JOIN shifts s ON w.shift_id = s.id
    JOIN employees e ON w.requester_id = e.id
    WHERE ($1 = '' OR w.status = $1)
    ORDER BY w.created_at
  `, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var swaps []Swap
	for rows.Next() {
		var w Swap
		if err := rows.Scan(&w.ID, &w.ShiftID, &w.RequesterID, &w.Status, &w.CreatedAt,
			&w.ShiftStart, &w.ShiftEnd, &w.RequesterName); err != nil {
			return nil, err
		}
		swaps = append(swaps, w)
	}
	return swaps, rows.Err()
}

// AcceptSwap reassigns the shift and settles the swap in one transaction.
// It returns the requester so the caller can tell them the outcome.
func (s *Store) AcceptSwap(ctx context.Context, swapID, newEmployeeID string) (string, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var shiftID, requesterID string
	err = tx.QueryRow(ctx, `
    UPDATE shift_swaps SET status = 'accepted', decided_at = now()
    WHERE id = $1 AND status = 'pending'
    RETURNING shift_id, requester_id
  `, swapID).Scan(&shiftID, &requesterID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	if _, err := tx.Exec(ctx, "UPDATE shifts SET employee_id = $1 WHERE id = $2", newEmployeeID, shiftID); err != nil {
		return "", err
	}
	return requesterID, tx.Commit(ctx)
}

func (s *Store) DeclineSwap(ctx context.Context, swapID string) (string, error) {
	var requesterID string
	err := s.DB.QueryRow(ctx, `
    UPDATE shift_swaps SET status = 'declined', decided_at = now()
    WHERE id = $1 AND status = 'pending'
    RETURNING requester_id
  `, swapID).Scan(&requesterID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return requesterID, err
}

func (s *Store) ListAvailability(ctx context.Context, employeeID string, from time.Time) ([]Availability, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, date, reason, created_at
    FROM availability
    WHERE employee_id = $1 AND date >= $2
    ORDER BY date
  `, employeeID, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Availability
	for rows.Next() {
		var a Availability
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.Date, &a.Reason, &a.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, a)
	}
	return entries, rows.Err()
}

func (s *Store) CreateAvailability(ctx context.Context, employeeID string, day time.Time, reason string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO availability (employee_id, date, reason, is_available)
    VALUES ($1,$2,$3,false)
    RETURNING id
  `, employeeID, day, reason).Scan(&id)
	return id, err
}

func (s *Store) DeleteAvailability(ctx context.Context, id, employeeID string) error {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM availability WHERE id = $1 AND employee_id = $2
  `, id, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
