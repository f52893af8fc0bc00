package auth

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

type Credentials struct {
	EmployeeID         string
	Username           string
	PasswordHash       string
	Role               string
	NeedsPasswordReset bool
	MFAEnabled         bool
	MFASecretEnc       []byte
}

func (s *Store) FindCredentials(ctx context.Context, username string) (Credentials, error) {
	var c Credentials
	err := s.DB.QueryRow(ctx, `
    SELECT id, username, password_hash, role, needs_password_reset, mfa_enabled, mfa_secret_enc
    FROM employees
    WHERE username = $1
  `, username).Scan(&c.EmployeeID, &c.Username, &c.PasswordHash, &c.Role, &c.NeedsPasswordReset, &c.MFAEnabled, &c.MFASecretEnc)
	return c, err
}

func (s *Store) CreateSession(ctx context.Context, employeeID, tokenHash string, expires time.Time) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO sessions (employee_id, refresh_token, expires_at)
    VALUES ($1,$2,$3)
  `, employeeID, tokenHash, expires)
	return err
}

func (s *Store) SessionValid(ctx context.Context, employeeID, tokenHash string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM sessions
    WHERE employee_id = $1 AND refresh_token = $2 AND expires_at > now() AND revoked_at IS NULL
  `, employeeID, tokenHash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) RotateSession(ctx context.Context, employeeID, oldHash, newHash string, expires time.Time) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE sessions
    SET refresh_token = $1, expires_at = $2, rotated_at = now()
    WHERE employee_id = $3 AND refresh_token = $4
  `, newHash, expires, employeeID, oldHash)
	return err
}

func (s *Store) RevokeSession(ctx context.Context, employeeID, tokenHash string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE sessions
    SET revoked_at = now()
    WHERE employee_id = $1 AND refresh_token = $2
  `, employeeID, tokenHash)
	return err
}

func (s *Store) UpdateLastLogin(ctx context.Context, employeeID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE employees SET last_login = now() WHERE id = $1", employeeID)
	return err
}

func (s *Store) UpdatePassword(ctx context.Context, employeeID, hash string, needsReset bool) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET password_hash = $1, needs_password_reset = $2
    WHERE id = $3
  `, hash, needsReset, employeeID)
	return err
}

func (s *Store) MFASecret(ctx context.Context, employeeID string) ([]byte, error) {
	var secret []byte
	err := s.DB.QueryRow(ctx, "SELECT mfa_secret_enc FROM employees WHERE id = $1", employeeID).Scan(&secret)
	return secret, err
}

func (s *Store) UpdateMFASecret(ctx context.Context, employeeID string, secretEnc []byte) error {
	_, err := s.DB.Exec(ctx, "UPDATE employees SET mfa_secret_enc = $1 WHERE id = $2", secretEnc, employeeID)
	return err
}

func (s *Store) SetMFAEnabled(ctx context.Context, employeeID string, enabled bool) error {
	_, err := s.DB.Exec(ctx, "UPDATE employees SET mfa_enabled = $1 WHERE id = $2", enabled, employeeID)
	return err
}
