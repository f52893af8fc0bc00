package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUsernameTaken = errors.New("username already exists")
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const employeeColumns = `
    e.id, e.first_name, e.last_name, e.username, e.role, COALESCE(e.role_label, ''),
    e.department_id, COALESCE(d.name, ''), COALESCE(d.color, ''),
    e.birth_date, e.hourly_rate, e.hourly_rate_net, e.contract_hours_weekly,
    COALESCE(e.contract_type, ''), COALESCE(e.avatar_url, ''),
    e.needs_password_reset, e.last_login, e.created_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	err := row.Scan(
		&e.ID, &e.FirstName, &e.LastName, &e.Username, &e.Role, &e.RoleLabel,
		&e.DepartmentID, &e.DepartmentName, &e.DepartmentColor,
		&e.BirthDate, &e.HourlyRate, &e.HourlyRateNet, &e.ContractHoursWeekly,
		&e.ContractType, &e.AvatarURL,
		&e.NeedsPasswordReset, &e.LastLogin, &e.CreatedAt,
	)
	return e, err
}

func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+employeeColumns+`
    FROM employees e
    LEFT JOIN departments d ON e.department_id = d.id
    ORDER BY e.first_name, e.last_name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, id string) (Employee, error) {
	e, err := scanEmployee(s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees e
    LEFT JOIN departments d ON e.department_id = d.id
    WHERE e.id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return e, err
}

func (s *Store) CreateEmployee(ctx context.Context, e Employee, passwordHash string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (
      first_name, last_name, username, password_hash, role, role_label,
      department_id, birth_date, hourly_rate, hourly_rate_net,
      contract_hours_weekly, contract_type, needs_password_reset
    ) VALUES ($1,$2,$3,$4,$5,NULLIF($6,''),$7,$8,$9,$10,$11,NULLIF($12,''),true)
    RETURNING id
  `, e.FirstName, e.LastName, e.Username, passwordHash, e.Role, e.RoleLabel,
		e.DepartmentID, e.BirthDate, e.HourlyRate, e.HourlyRateNet,
		e.ContractHoursWeekly, e.ContractType).Scan(&id)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return "", ErrUsernameTaken
	}
	return id, err
}

func (s *Store) UpdateEmployee(ctx context.Context, e Employee) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees SET
      first_name = $1, last_name = $2, role_label = NULLIF($3,''),
      department_id = $4, birth_date = $5, hourly_rate = $6, hourly_rate_net = $7,
      contract_hours_weekly = $8, contract_type = NULLIF($9,'')
    WHERE id = $10
  `, e.FirstName, e.LastName, e.RoleLabel, e.DepartmentID, e.BirthDate,
		e.HourlyRate, e.HourlyRateNet, e.ContractHoursWeekly, e.ContractType, e.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetPassword forces the employee back onto their derived initial
// password until they pick a new one.
func (s *Store) ResetPassword(ctx context.Context, id, passwordHash string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees SET password_hash = $1, needs_password_reset = true WHERE id = $2
  `, passwordHash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetAvatarURL(ctx context.Context, id, url string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE employees SET avatar_url = $1 WHERE id = $2", url, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, name, color FROM departments ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Color); err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

func (s *Store) CreateDepartment(ctx context.Context, d Department) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO departments (name, color) VALUES ($1,$2) RETURNING id
  `, d.Name, d.Color).Scan(&id)
	return id, err
}

func (s *Store) UpdateDepartment(ctx context.Context, d Department) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE departments SET name = $1, color = $2 WHERE id = $3
  `, d.Name, d.Color, d.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteDepartment(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM departments WHERE id = $1", id)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return ErrDepartmentUsed
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListCompanyRoles(ctx context.Context) ([]CompanyRole, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, department_id FROM company_roles ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []CompanyRole
	for rows.Next() {
		var r CompanyRole
		if err := rows.Scan(&r.ID, &r.Name, &r.DepartmentID); err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

func (s *Store) CreateCompanyRole(ctx context.Context, r CompanyRole) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO company_roles (name, department_id) VALUES ($1,$2) RETURNING id
  `, r.Name, r.DepartmentID).Scan(&id)
	return id, err
}

func (s *Store) DeleteCompanyRole(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM company_roles WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetSettings returns the venue's single settings row.
func (s *Store) GetSettings(ctx context.Context) (Settings, error) {
	var st Settings
	err := s.DB.QueryRow(ctx, `
    SELECT opening_time, closing_time, require_geolocation, enable_time_clock,
           enable_chat, default_break_minutes, labor_cost_target_percent
    FROM settings
    LIMIT 1
  `).Scan(&st.OpeningTime, &st.ClosingTime, &st.RequireGeolocation, &st.EnableTimeClock,
		&st.EnableChat, &st.DefaultBreakMinutes, &st.LaborCostTargetPercent)
	if errors.Is(err, pgx.ErrNoRows) {
		return Settings{}, ErrNotFound
	}
	return st, err
}

func (s *Store) UpdateSettings(ctx context.Context, st Settings) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE settings SET
      opening_time = $1, closing_time = $2, require_geolocation = $3,
      enable_time_clock = $4, enable_chat = $5, default_break_minutes = $6,
      labor_cost_target_percent = $7
  `, st.OpeningTime, st.ClosingTime, st.RequireGeolocation,
		st.EnableTimeClock, st.EnableChat, st.DefaultBreakMinutes, st.LaborCostTargetPercent)
	return err
}

func (s *Store) ListPeriods(ctx context.Context) ([]CompanyPeriod, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, description, type, start_date, end_date
    FROM company_periods
    ORDER BY start_date DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []CompanyPeriod
	for rows.Next() {
		var p CompanyPeriod
		if err := rows.Scan(&p.ID, &p.Description, &p.Type, &p.StartDate, &p.EndDate); err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

func (s *Store) CreatePeriod(ctx context.Context, p CompanyPeriod) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO company_periods (description, type, start_date, end_date)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, p.Description, p.Type, p.StartDate, p.EndDate).Scan(&id)
	return id, err
}

func (s *Store) DeletePeriod(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM company_periods WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
